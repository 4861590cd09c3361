// Package tableset implements the IVOA VODataService 1.1 "tableset" XML
// ingester (§4.6/C6): a streaming, single-pass reader that builds an
// internal/metadata.Catalog from a <tableset> document, deferring foreign
// key resolution until every schema/table is known. No example repo in
// the retrieval pack parses XML, so this package uses the standard
// library's encoding/xml.Decoder directly — it is the idiomatic Go answer
// to "decode XML token by token while tracking source position", and no
// third-party XML library appears anywhere in the pack to prefer over it.
// The overall shape (a decoder that flushes error-and-position pairs into
// a report rather than failing fast) follows internal/errs's Report and
// the teacher's own validate-then-report discipline
// (internal/core/validation.go), generalized to a streaming XML walk.
package tableset

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"adqlcore/internal/errs"
	"adqlcore/internal/metadata"
	"adqlcore/internal/types"
)

// pendingFK is a foreign key collected during parsing but not yet
// resolved against the fully-built catalog (§4.6: "deferred list").
type pendingFK struct {
	source      *metadata.Table
	targetName  string
	description string
	utype       string
	mapping     [][2]string
	pos         errs.Pos
}

// Ingester streams a tableset document into a Catalog, reporting every
// failure with position (§4.6), rather than aborting on the first one.
type Ingester struct {
	dec        *xml.Decoder
	catalog    *metadata.Catalog
	report     errs.Report
	pendingFKs []pendingFK
}

// NewIngester wraps r for streaming, single-pass ingestion.
func NewIngester(r io.Reader) *Ingester {
	return &Ingester{dec: xml.NewDecoder(r), catalog: metadata.NewCatalog()}
}

// Ingest reads the whole document and returns the built catalog. Errors
// accumulated along the way are returned as an *errs.Report (ordered by
// position); a nil error does not necessarily mean the report is empty of
// warnings, only that ingestion could proceed to completion. Fatal
// structural failures (unexpected end-of-stream, malformed XML) still
// short-circuit and are returned directly.
func (ing *Ingester) Ingest() (*metadata.Catalog, error) {
	for {
		tok, err := ing.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tableset: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if localName(start.Name) != "tableset" {
			continue
		}
		if err := ing.parseTableset(start); err != nil {
			return nil, err
		}
	}

	ing.resolveForeignKeys()
	ing.report.Sort()
	if ing.report.HasErrors() {
		return ing.catalog, &ing.report
	}
	return ing.catalog, nil
}

func localName(n xml.Name) string { return n.Local }

func (ing *Ingester) pos() errs.Pos {
	line, col := ing.dec.InputPos()
	return errs.Pos{Line: line, Col: col}
}

func (ing *Ingester) parseTableset(_ xml.StartElement) error {
	for {
		tok, err := ing.dec.Token()
		if err == io.EOF {
			return errs.New(errs.Syntax, ing.pos(), "tableset: unexpected end of stream")
		}
		if err != nil {
			return fmt.Errorf("tableset: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if localName(t.Name) == "schema" {
				ing.parseSchema(t)
			} else {
				ing.skip()
			}
		case xml.EndElement:
			if localName(t.Name) == "tableset" {
				return nil
			}
		}
	}
}

func (ing *Ingester) parseSchema(_ xml.StartElement) {
	var name, title, description, utype string
	var nameCount int
	var tables []*metadata.Table

	for {
		tok, err := ing.dec.Token()
		if err != nil {
			ing.report.Add(errs.New(errs.Syntax, ing.pos(), "schema: unexpected end of stream: %v", err))
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "name":
				nameCount++
				name = ing.text()
			case "title":
				title = ing.text()
			case "description":
				description = ing.text()
			case "utype":
				utype = ing.text()
			case "table":
				if tbl := ing.parseTable(t); tbl != nil {
					tables = append(tables, tbl)
				}
			default:
				ing.skip()
			}
		case xml.EndElement:
			if localName(t.Name) == "schema" {
				ing.finishSchema(name, nameCount, title, description, utype, tables)
				return
			}
		}
	}
}

func (ing *Ingester) finishSchema(name string, nameCount int, title, description, utype string, tables []*metadata.Table) {
	if nameCount == 0 {
		ing.report.Add(errs.New(errs.MissingName, ing.pos(), "schema: missing required <name>"))
		return
	}
	if nameCount > 1 {
		ing.report.Add(errs.New(errs.Syntax, ing.pos(), "schema: duplicate <name> element"))
	}

	s, err := metadata.NewSchema(name)
	if err != nil {
		ing.report.Add(errs.New(errs.InvalidMetadata, ing.pos(), "schema %q: %v", name, err))
		return
	}
	s.Title = title
	s.Description = description
	s.Utype = utype
	ing.catalog.AddSchema(s)
	for _, tbl := range tables {
		s.AddTable(tbl)
	}
}

func (ing *Ingester) parseTable(_ xml.StartElement) *metadata.Table {
	var name, title, description, utype string
	var nameCount int
	var columns []*metadata.Column
	var fks []pendingFK

	for {
		tok, err := ing.dec.Token()
		if err != nil {
			ing.report.Add(errs.New(errs.Syntax, ing.pos(), "table: unexpected end of stream: %v", err))
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "name":
				nameCount++
				name = ing.text()
			case "title":
				title = ing.text()
			case "description":
				description = ing.text()
			case "utype":
				utype = ing.text()
			case "column":
				if c := ing.parseColumn(); c != nil {
					columns = append(columns, c)
				}
			case "foreignKey":
				if fk := ing.parseForeignKeyBody(); fk != nil {
					fks = append(fks, *fk)
				}
			default:
				ing.skip()
			}
		case xml.EndElement:
			if localName(t.Name) == "table" {
				return ing.finishTable(name, nameCount, title, description, utype, columns, fks)
			}
		}
	}
}

func (ing *Ingester) finishTable(name string, nameCount int, title, description, utype string, columns []*metadata.Column, fks []pendingFK) *metadata.Table {
	if nameCount == 0 {
		ing.report.Add(errs.New(errs.MissingName, ing.pos(), "table: missing required <name>"))
		return nil
	}
	if nameCount > 1 {
		ing.report.Add(errs.New(errs.Syntax, ing.pos(), "table: duplicate <name> element"))
	}

	tbl, err := metadata.NewTable(name, metadata.TableKindTable)
	if err != nil {
		ing.report.Add(errs.New(errs.InvalidMetadata, ing.pos(), "table %q: %v", name, err))
		return nil
	}
	tbl.Title = title
	tbl.Description = description
	tbl.Utype = utype
	for _, c := range columns {
		tbl.AddColumn(c)
	}

	for _, fk := range fks {
		fk.source = tbl
		ing.pendingFKs = append(ing.pendingFKs, fk)
	}
	return tbl
}

func (ing *Ingester) parseForeignKeyBody() *pendingFK {
	pos := ing.pos()
	var targetTable, description, utype string
	var mapping [][2]string

	for {
		tok, err := ing.dec.Token()
		if err != nil {
			ing.report.Add(errs.New(errs.Syntax, ing.pos(), "foreignKey: unexpected end of stream: %v", err))
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "targetTable":
				targetTable = ing.text()
			case "description":
				description = ing.text()
			case "utype":
				utype = ing.text()
			case "fkColumn":
				from, to := ing.parseFKColumn()
				if from != "" || to != "" {
					mapping = append(mapping, [2]string{from, to})
				}
			default:
				ing.skip()
			}
		case xml.EndElement:
			if localName(t.Name) == "foreignKey" {
				if targetTable == "" {
					ing.report.Add(errs.New(errs.MissingName, pos, "foreignKey: missing required <targetTable>"))
					return nil
				}
				return &pendingFK{targetName: targetTable, description: description, utype: utype, mapping: mapping, pos: pos}
			}
		}
	}
}

func (ing *Ingester) parseFKColumn() (from, to string) {
	for {
		tok, err := ing.dec.Token()
		if err != nil {
			ing.report.Add(errs.New(errs.Syntax, ing.pos(), "fkColumn: unexpected end of stream: %v", err))
			return from, to
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "fromColumn":
				from = ing.text()
			case "targetColumn":
				to = ing.text()
			default:
				ing.skip()
			}
		case xml.EndElement:
			if localName(t.Name) == "fkColumn" {
				return from, to
			}
		}
	}
}

func (ing *Ingester) parseColumn() *metadata.Column {
	var name, description, unit, ucd, utype string
	var nameCount int
	var dt types.DataType
	dtSeen := false
	var principal, indexed, std, nullable bool

	for {
		tok, err := ing.dec.Token()
		if err != nil {
			ing.report.Add(errs.New(errs.Syntax, ing.pos(), "column: unexpected end of stream: %v", err))
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "name":
				nameCount++
				name = ing.text()
			case "description":
				description = ing.text()
			case "unit":
				unit = ing.text()
			case "ucd":
				ucd = ing.text()
			case "utype":
				utype = ing.text()
			case "dataType":
				var ok bool
				dt, ok = ing.parseDataType(t)
				dtSeen = dtSeen || ok
			case "flag":
				switch strings.ToLower(ing.text()) {
				case "principal", "primary":
					principal = true
				case "indexed":
					indexed = true
				case "std":
					std = true
				case "nullable":
					nullable = true
				}
			default:
				ing.skip()
			}
		case xml.EndElement:
			if localName(t.Name) == "column" {
				return ing.finishColumn(name, nameCount, description, unit, ucd, utype, dt, dtSeen, principal, indexed, std, nullable)
			}
		}
	}
}

func (ing *Ingester) finishColumn(name string, nameCount int, description, unit, ucd, utype string, dt types.DataType, dtSeen bool, principal, indexed, std, nullable bool) *metadata.Column {
	if nameCount == 0 {
		ing.report.Add(errs.New(errs.MissingName, ing.pos(), "column: missing required <name>"))
		return nil
	}
	if nameCount > 1 {
		ing.report.Add(errs.New(errs.Syntax, ing.pos(), "column: duplicate <name> element"))
	}
	if !dtSeen {
		dt = types.New(types.UNKNOWN)
	}

	c, err := metadata.NewColumn(name, &dt)
	if err != nil {
		ing.report.Add(errs.New(errs.InvalidMetadata, ing.pos(), "column %q: %v", name, err))
		return nil
	}
	c.Description = description
	c.Unit = unit
	c.UCD = ucd
	c.Utype = utype
	c.Principal = principal
	c.Indexed = indexed
	c.Std = std
	c.Nullable = nullable
	return c
}

// tapTypeKinds maps VODataService vs:TAPType names to Kind.
var tapTypeKinds = map[string]types.Kind{
	"char": types.CHAR, "varchar": types.VARCHAR, "clob": types.CLOB,
	"timestamp": types.TIMESTAMP, "smallint": types.SMALLINT,
	"integer": types.INTEGER, "bigint": types.BIGINT, "real": types.REAL,
	"double": types.DOUBLE, "binary": types.BINARY, "varbinary": types.VARBINARY,
	"blob": types.BLOB, "point": types.POINT, "region": types.REGION,
}

// votableTypeKinds maps VODataService vs:VOTableType names to Kind.
var votableTypeKinds = map[string]types.Kind{
	"char": types.CHAR, "double": types.DOUBLE, "float": types.REAL,
	"int": types.INTEGER, "short": types.SMALLINT, "long": types.BIGINT,
	"unsignedbyte": types.SMALLINT,
}

// parseDataType reads a <dataType xsi:type="vs:TAPType|vs:VOTableType">
// NAME</dataType> element, validating the xsi:type and the type name
// against the vocabulary it selects (§4.6). ok is false (and an error is
// reported) when either is unrecognized.
func (ing *Ingester) parseDataType(start xml.StartElement) (types.DataType, bool) {
	xsiType := attr(start, "type")
	raw := strings.TrimSpace(ing.text())

	var vocab map[string]types.Kind
	switch xsiType {
	case "vs:TAPType":
		vocab = tapTypeKinds
	case "vs:VOTableType":
		vocab = votableTypeKinds
	default:
		ing.report.Add(errs.New(errs.Syntax, ing.pos(), "dataType: unrecognized xsi:type %q (expected vs:TAPType or vs:VOTableType)", xsiType))
		return types.DataType{}, false
	}

	kind, ok := vocab[strings.ToLower(raw)]
	if !ok {
		ing.report.Add(errs.New(errs.Syntax, ing.pos(), "dataType: unrecognized %s name %q", xsiType, raw))
		return types.DataType{}, false
	}
	return types.New(kind), true
}

func attr(start xml.StartElement, localName string) string {
	for _, a := range start.Attr {
		if a.Name.Local == localName {
			return a.Value
		}
	}
	return ""
}

// text reads and normalizes the character-data content of the element
// whose StartElement was just consumed, returning once its EndElement is
// seen (§4.6: trimmed per line, blank lines preserved as "\n").
func (ing *Ingester) text() string {
	var raw strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := ing.dec.Token()
		if err != nil {
			ing.report.Add(errs.New(errs.Syntax, ing.pos(), "unexpected end of stream reading text content: %v", err))
			return ""
		}
		switch t := tok.(type) {
		case xml.CharData:
			raw.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return normalizeText(raw.String())
}

// normalizeText trims each line and preserves blank lines as "\n", per
// §4.6's text-node normalization rule.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// skip discards an unrecognized element and its subtree.
func (ing *Ingester) skip() {
	depth := 1
	for depth > 0 {
		tok, err := ing.dec.Token()
		if err != nil {
			return
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
}

// resolveForeignKeys installs every deferred foreign key against the now
// fully-built catalog (§4.6). A target name may be schema-qualified
// ("schema.table") or bare; a bare name ambiguous across more than one
// schema is reported rather than guessed at.
func (ing *Ingester) resolveForeignKeys() {
	for _, fk := range ing.pendingFKs {
		target, err := ing.resolveTargetTable(fk.targetName, fk.pos)
		if err != nil {
			ing.report.Add(err)
			continue
		}

		built := metadata.NewForeignKey(target, fk.description, fk.utype)
		for _, pair := range fk.mapping {
			built.AddMapping(pair[0], pair[1])
		}
		if err := fk.source.AddForeignKey(built); err != nil {
			if e, ok := err.(*errs.Error); ok {
				e.Pos = fk.pos
				ing.report.Add(e)
			} else {
				ing.report.Add(errs.New(errs.InvalidMetadata, fk.pos, "%v", err))
			}
		}
	}
}

// resolveTargetTable looks up a foreignKey's <targetTable> text against the
// catalog, accepting a "schema.table" qualified form or a bare table name.
// A bare name found in more than one schema is an ambiguous reference,
// reported with every candidate (§4.6).
func (ing *Ingester) resolveTargetTable(name string, pos errs.Pos) (*metadata.Table, error) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		schemaName, tableName := name[:i], name[i+1:]
		schema := ing.catalog.FindSchema(schemaName, false)
		if schema == nil {
			return nil, errs.New(errs.UnresolvedIdentifier, pos, "foreignKey: target schema %q not found", schemaName)
		}
		for _, t := range schema.Tables {
			if t.Identifier.MatchesToken(tableName, false) {
				return t, nil
			}
		}
		return nil, errs.New(errs.UnresolvedIdentifier, pos, "foreignKey: target table %q not found in schema %q", tableName, schemaName)
	}

	var matches []*metadata.Table
	for _, s := range ing.catalog.Schemas {
		for _, t := range s.Tables {
			if t.Identifier.MatchesToken(name, false) {
				matches = append(matches, t)
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, errs.New(errs.UnresolvedIdentifier, pos, "foreignKey: target table %q not found in any schema", name)
	case 1:
		return matches[0], nil
	default:
		cands := make([]errs.Candidate, 0, len(matches))
		for _, t := range matches {
			cands = append(cands, errs.Candidate{Label: t.Schema.Identifier.ADQLName() + "." + t.Identifier.ADQLName()})
		}
		return nil, errs.New(errs.UnresolvedIdentifier, pos,
			"foreignKey: target table %q is ambiguous across %d schemas, qualify with \"schema.table\"", name, len(matches)).WithCandidates(cands)
	}
}
