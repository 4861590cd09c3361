package metadata

import (
	"fmt"

	"adqlcore/internal/errs"
)

// NewForeignKey builds an unattached foreign key description. Call
// FromTable.AddForeignKey to install it with the §3/§4.2 invariant checks.
func NewForeignKey(target *Table, description, utype string) *ForeignKey {
	return &ForeignKey{
		TargetTable: target,
		Description: description,
		Utype:       utype,
		mapping:     make(map[string]string),
	}
}

// AddMapping appends a (source column -> target column) pair, preserving
// declaration order. Call before AddForeignKey.
func (fk *ForeignKey) AddMapping(sourceColumn, targetColumn string) {
	if _, exists := fk.mapping[sourceColumn]; !exists {
		fk.mappingKeys = append(fk.mappingKeys, sourceColumn)
	}
	fk.mapping[sourceColumn] = targetColumn
}

// Mapping returns the (source, target) column name pairs in declaration
// order.
func (fk *ForeignKey) Mapping() [][2]string {
	out := make([][2]string, 0, len(fk.mappingKeys))
	for _, src := range fk.mappingKeys {
		out = append(out, [2]string{src, fk.mapping[src]})
	}
	return out
}

// AddForeignKey installs fk with t as its source table, enforcing every
// invariant from §3/§4.2 atomically: both tables must be non-nil, the
// mapping must be non-empty, and every source/target column referenced
// must actually exist. If any step fails the key is not installed at all
// (no partial state is left behind) and the failure names the key id and
// the offending column, as required by §4.2/§7.
func (t *Table) AddForeignKey(fk *ForeignKey) error {
	if t == nil || fk.TargetTable == nil {
		return errs.Newf(errs.InvalidMetadata, "foreign key: both source and target tables must be set")
	}
	if len(fk.mappingKeys) == 0 {
		return errs.Newf(errs.InvalidMetadata, "foreign key: mapping must not be empty")
	}

	resolvedSource := make([]*Column, 0, len(fk.mappingKeys))
	resolvedTarget := make([]*Column, 0, len(fk.mappingKeys))
	for _, src := range fk.mappingKeys {
		dst := fk.mapping[src]

		sc := t.FindColumn(src, false)
		if sc == nil {
			return errs.Newf(errs.InvalidMetadata,
				"foreign key %q: source column %q does not exist in table %q", fkLabel(fk), src, t.Identifier.ADQLName())
		}
		tc := fk.TargetTable.FindColumn(dst, false)
		if tc == nil {
			return errs.Newf(errs.InvalidMetadata,
				"foreign key %q: target column %q does not exist in table %q", fkLabel(fk), dst, fk.TargetTable.Identifier.ADQLName())
		}
		resolvedSource = append(resolvedSource, sc)
		resolvedTarget = append(resolvedTarget, tc)
	}

	// All columns resolved: install atomically. Nothing below this point
	// can fail, so there is no partial state to roll back.
	fk.ID = nextFKID()
	fk.FromTable = t
	t.foreignKeys = append(t.foreignKeys, fk)
	for i := range resolvedSource {
		resolvedSource[i].fkAsSource[fk.ID] = fk
		resolvedTarget[i].fkAsTarget[fk.ID] = fk
	}
	return nil
}

func fkLabel(fk *ForeignKey) string {
	if fk.ID != 0 {
		return fmt.Sprintf("fk#%d", fk.ID)
	}
	return "fk#<new>"
}

// removeSourceColumn drops a column from this key's source side (called
// when a source-table column is removed, §3 invariant).
func (fk *ForeignKey) removeSourceColumn(name string) {
	fk.removeMappingKey(name)
}

// removeTargetColumn drops every mapping entry pointing at name (called
// when a target-table column is removed, §3 invariant).
func (fk *ForeignKey) removeTargetColumn(name string) {
	for _, src := range append([]string{}, fk.mappingKeys...) {
		if fk.mapping[src] == name {
			fk.removeMappingKey(src)
		}
	}
}

func (fk *ForeignKey) removeMappingKey(src string) {
	delete(fk.mapping, src)
	for i, k := range fk.mappingKeys {
		if k == src {
			fk.mappingKeys = append(fk.mappingKeys[:i], fk.mappingKeys[i+1:]...)
			break
		}
	}
}
