// Package metadata implements the TAP metadata model (§3/§4.2 of the
// spec): schemas, tables, columns, foreign keys and coordinate systems,
// plus the attachment/simplification/invariant rules that keep them
// consistent. It generalizes the teacher's core.Database/Table/Column
// model (internal/core/schema.go) from a portable SQL-migration schema to
// the TAP catalog the checker resolves ADQL identifiers against.
//
// Design note: §9 suggests representing cyclic table/column/foreign-key
// ownership as an arena of integer ids in a systems language without a
// garbage collector. Go has one, so this package keeps the teacher's
// pointer-based back-references (Column.Table, Column's foreign-key sets)
// for natural traversal, but still assigns stable SchemaID/TableID/
// ColumnID/ForeignKeyID values — used for equality and for tracking which
// foreign keys reference a column — so the identity of a node never
// depends on pointer identity alone.
package metadata

import (
	"strings"
	"sync/atomic"

	"adqlcore/internal/errs"
	"adqlcore/internal/ident"
	"adqlcore/internal/types"
)

var (
	tableSeq int64
	colSeq   int64
	fkSeq    int64
)

func nextTableID() TableID   { return TableID(atomic.AddInt64(&tableSeq, 1)) }
func nextColumnID() ColumnID { return ColumnID(atomic.AddInt64(&colSeq, 1)) }
func nextFKID() ForeignKeyID { return ForeignKeyID(atomic.AddInt64(&fkSeq, 1)) }

type SchemaID int
type TableID int
type ColumnID int
type ForeignKeyID int

// TableKind distinguishes a queryable catalog table from a synthesized
// output table (e.g. a query's own result set treated as a table during
// checking) and a view.
type TableKind int

const (
	TableKindTable TableKind = iota
	TableKindView
	TableKindOutput
)

// Catalog is the whole read-mostly metadata graph (§5: immutable once
// built, shared freely for reading across concurrently checked queries).
type Catalog struct {
	Schemas    []*Schema
	Coosystems []*Coosys
	nextSchema int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog { return &Catalog{} }

// Schema is a named collection of tables (§3).
type Schema struct {
	ID          SchemaID
	Identifier  *ident.Identifier
	Title       string
	Description string
	Utype       string
	Tables      []*Table
	Index       int
}

// Table is a queryable relation: a base table, a view, or a synthesized
// output table (§3). Columns are kept both as an insertion-ordered slice,
// which gives deterministic SELECT * ordering and which FindColumn scans
// in order, and as a lowercase-name index that AddColumn/RemoveColumn
// keep up to date.
type Table struct {
	ID          TableID
	Identifier  *ident.Identifier
	RawName     string
	Schema      *Schema
	Kind        TableKind
	Title       string
	Description string
	Utype       string
	Index       int

	columns     []*Column
	columnIndex map[string]*Column // keyed by lowercase ADQL name; FindColumn does not read it
	foreignKeys []*ForeignKey       // owned as source
}

// Column belongs to exactly one Table (§3 invariant: c.table == table).
type Column struct {
	ID          ColumnID
	Identifier  *ident.Identifier
	Table       *Table
	Datatype    *types.DataType
	Unit        string
	UCD         string
	Utype       string
	Description string

	Principal bool
	Indexed   bool
	Std       bool
	Nullable  bool

	Coosys *Coosys

	fkAsSource map[ForeignKeyID]*ForeignKey
	fkAsTarget map[ForeignKeyID]*ForeignKey
}

// ForeignKey links columns of a source table to columns of a target table
// (§3). Mapping preserves declaration order (ordered map: source column
// ADQL name -> target column ADQL name).
type ForeignKey struct {
	ID          ForeignKeyID
	FromTable   *Table
	TargetTable *Table
	Description string
	Utype       string
	mappingKeys []string // source column names, in declaration order
	mapping     map[string]string
}

// Coosys is an IVOA coordinate-system annotation attached to a column
// (distinct from the STC-S Frame/RefPos/Flavor triple in package stc,
// which describes geometry literals inside queries rather than column
// metadata) (§3).
type Coosys struct {
	ID      string
	System  string
	Equinox string
	Epoch   string
}

// NewCoosys validates the non-empty-id/non-empty-system invariant (§3).
func NewCoosys(id, system, equinox, epoch string) (*Coosys, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.Newf(errs.InvalidMetadata, "coosys id must not be empty")
	}
	if strings.TrimSpace(system) == "" {
		return nil, errs.Newf(errs.InvalidMetadata, "coosys system must not be empty")
	}
	return &Coosys{ID: id, System: system, Equinox: equinox, Epoch: epoch}, nil
}

// AddSchema appends a schema to the catalog, assigning it a stable id and
// ordering index.
func (c *Catalog) AddSchema(s *Schema) {
	c.nextSchema++
	s.ID = SchemaID(c.nextSchema)
	s.Index = len(c.Schemas)
	c.Schemas = append(c.Schemas, s)
}

// FindSchema looks up a schema by identifier text using the §4.8 case
// rules (delimited -> exact, undelimited -> case-insensitive unless the
// stored name is itself case-sensitive).
func (c *Catalog) FindSchema(name string, caseSensitive bool) *Schema {
	for _, s := range c.Schemas {
		if s.Identifier.MatchesToken(name, caseSensitive) {
			return s
		}
	}
	return nil
}

// NewSchema constructs a Schema from a raw ADQL name.
func NewSchema(rawName string) (*Schema, error) {
	id, err := ident.New(rawName)
	if err != nil {
		return nil, err
	}
	return &Schema{Identifier: id}, nil
}

// AddTable attaches a table to the schema, applying the schema-prefix
// simplification rule (§4.2) and the idempotent-ownership rule (if the
// table already belongs to another schema, detach it first).
func (s *Schema) AddTable(t *Table) {
	if t.Schema != nil && t.Schema != s {
		t.Schema.removeTable(t)
	}
	t.Schema = s
	simplifySchemaPrefix(t)
	t.Index = len(s.Tables)
	s.Tables = append(s.Tables, t)
}

func (s *Schema) removeTable(t *Table) {
	for i, existing := range s.Tables {
		if existing == t {
			s.Tables = append(s.Tables[:i], s.Tables[i+1:]...)
			return
		}
	}
}

// simplifySchemaPrefix implements §4.2: given t.RawName and the now-attached
// schema, strip a redundant "schema." prefix respecting case-sensitivity.
func simplifySchemaPrefix(t *Table) {
	raw := t.RawName
	schema := t.Schema
	if raw == "" || schema == nil {
		return
	}

	var stripped string
	var ok bool
	if schema.Identifier.CaseSensitive() {
		prefix := schema.Identifier.ADQLName() + "."
		if strings.HasPrefix(raw, prefix) {
			stripped = raw[len(prefix):]
			ok = true
		}
	} else {
		lowerRaw := strings.ToLower(raw)
		ciPrefix := strings.ToLower(schema.Identifier.ADQLName()) + "."
		if strings.HasPrefix(lowerRaw, ciPrefix) {
			stripped = raw[len(ciPrefix):]
			ok = true
		}
	}

	if !ok {
		stripped = raw
	}

	id, err := ident.New(stripped)
	if err != nil {
		// Fall back to the raw name; simplification never fails the
		// overall attach operation (the name was already validated once
		// when the table was constructed).
		id, _ = ident.New(raw)
	}
	t.Identifier = id
}

// NewTable constructs a Table from a raw ADQL name (which may carry a
// "schema." prefix to be simplified once attached, per §4.2).
func NewTable(rawName string, kind TableKind) (*Table, error) {
	id, err := ident.New(rawName)
	if err != nil {
		return nil, err
	}
	return &Table{
		ID:          nextTableID(),
		RawName:     rawName,
		Identifier:  id,
		Kind:        kind,
		columnIndex: make(map[string]*Column),
	}, nil
}

// SetADQLName re-derives the table's identifier and, if attached to a
// schema, re-applies prefix simplification (§4.1).
func (t *Table) SetADQLName(rawName string) error {
	id, err := ident.New(rawName)
	if err != nil {
		return err
	}
	t.RawName = rawName
	t.Identifier = id
	if t.Schema != nil {
		simplifySchemaPrefix(t)
	}
	return nil
}

// Columns returns the columns in insertion order.
func (t *Table) Columns() []*Column { return t.columns }

// ForeignKeys returns the foreign keys owned (as source) by this table.
func (t *Table) ForeignKeys() []*ForeignKey { return t.foreignKeys }

// AddColumn attaches a column to the table (§4.2): idempotent w.r.t.
// identity — if the column belonged to another table, it is removed from
// there first — then the back-reference is set and the column is inserted
// keyed by its ADQL name, preserving insertion order.
func (t *Table) AddColumn(c *Column) {
	if c.Table != nil && c.Table != t {
		c.Table.RemoveColumn(c)
	} else if c.Table == t {
		t.RemoveColumn(c)
	}
	c.Table = t
	t.columns = append(t.columns, c)
	t.columnIndex[strings.ToLower(c.Identifier.ADQLName())] = c
}

// RemoveColumn detaches a column from the table and removes it from every
// foreign key that referenced it, on either side (§3 invariant).
func (t *Table) RemoveColumn(c *Column) {
	for i, existing := range t.columns {
		if existing == c {
			t.columns = append(t.columns[:i], t.columns[i+1:]...)
			break
		}
	}
	delete(t.columnIndex, strings.ToLower(c.Identifier.ADQLName()))

	for _, fk := range c.fkList(true) {
		fk.removeSourceColumn(c.Identifier.ADQLName())
	}
	for _, fk := range c.fkList(false) {
		fk.removeTargetColumn(c.Identifier.ADQLName())
	}
	c.Table = nil
}

// FindColumn looks up a column by ADQL name using §4.8 case rules.
func (t *Table) FindColumn(name string, caseSensitive bool) *Column {
	for _, c := range t.columns {
		if c.Identifier.MatchesToken(name, caseSensitive) {
			return c
		}
	}
	return nil
}

// NewColumn constructs a Column from a raw ADQL name.
func NewColumn(rawName string, dt *types.DataType) (*Column, error) {
	id, err := ident.New(rawName)
	if err != nil {
		return nil, err
	}
	return &Column{
		ID:         nextColumnID(),
		Identifier: id,
		Datatype:   dt,
		fkAsSource: make(map[ForeignKeyID]*ForeignKey),
		fkAsTarget: make(map[ForeignKeyID]*ForeignKey),
	}, nil
}

// FKAsSource returns the foreign keys that use this column as a source.
func (c *Column) FKAsSource() []*ForeignKey { return c.fkList(true) }

// FKAsTarget returns the foreign keys that use this column as a target.
func (c *Column) FKAsTarget() []*ForeignKey { return c.fkList(false) }

func (c *Column) fkList(asSource bool) []*ForeignKey {
	m := c.fkAsTarget
	if asSource {
		m = c.fkAsSource
	}
	out := make([]*ForeignKey, 0, len(m))
	for _, fk := range m {
		out = append(out, fk)
	}
	return out
}
