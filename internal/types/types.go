// Package types implements the ADQL/TAP datatype model (§3/§4.3): a closed
// set of kind tags plus the string/numeric/geometry predicates that drive
// type inference in the checker. It is the ADQL analogue of the teacher's
// core.DataType enum (internal/core/schema.go), generalized from the
// teacher's portable {string,int,float,...} tags to the TAP column-type
// vocabulary and its permissive UNKNOWN/UNKNOWN_NUMERIC rule (§3, Open
// Questions).
package types

import "strconv"

// Kind is one of the closed set of TAP/VOTable datatype tags.
type Kind string

const (
	CHAR            Kind = "CHAR"
	VARCHAR         Kind = "VARCHAR"
	CLOB            Kind = "CLOB"
	TIMESTAMP       Kind = "TIMESTAMP"
	SMALLINT        Kind = "SMALLINT"
	INTEGER         Kind = "INTEGER"
	BIGINT          Kind = "BIGINT"
	REAL            Kind = "REAL"
	DOUBLE          Kind = "DOUBLE"
	BINARY          Kind = "BINARY"
	VARBINARY       Kind = "VARBINARY"
	BLOB            Kind = "BLOB"
	POINT           Kind = "POINT"
	REGION          Kind = "REGION"
	UNKNOWN         Kind = "UNKNOWN"
	UNKNOWN_NUMERIC Kind = "UNKNOWN_NUMERIC" //nolint:revive,stylecheck // spec vocabulary name
)

// DataType is a value object pairing a Kind with an optional declared
// length (e.g. VARCHAR(255)). Zero Length means "unspecified".
type DataType struct {
	Kind   Kind
	Length int
}

// New builds a DataType with no declared length.
func New(k Kind) DataType { return DataType{Kind: k} }

// NewSized builds a DataType carrying a declared length.
func NewSized(k Kind, length int) DataType { return DataType{Kind: k, Length: length} }

var stringKinds = map[Kind]bool{
	CHAR: true, VARCHAR: true, CLOB: true, TIMESTAMP: true, UNKNOWN: true,
}

var numericKinds = map[Kind]bool{
	SMALLINT: true, INTEGER: true, BIGINT: true, REAL: true, DOUBLE: true,
	UNKNOWN: true, UNKNOWN_NUMERIC: true,
}

var geometryKinds = map[Kind]bool{
	POINT: true, REGION: true, UNKNOWN: true,
}

// IsString reports whether the type may participate in string contexts
// (concatenation, string functions). UNKNOWN is permissive (§3).
func (d DataType) IsString() bool { return stringKinds[d.Kind] }

// IsNumeric reports whether the type may participate in numeric contexts
// (arithmetic). Both UNKNOWN and UNKNOWN_NUMERIC are numeric (§3).
func (d DataType) IsNumeric() bool { return numericKinds[d.Kind] }

// IsGeometry reports whether the type may participate in geometric
// predicates/constructors. UNKNOWN is permissive (§3).
func (d DataType) IsGeometry() bool { return geometryKinds[d.Kind] }

// IsUnknown reports whether this is the fully-permissive UNKNOWN kind, as
// opposed to UNKNOWN_NUMERIC which is only ever numeric.
func (d DataType) IsUnknown() bool { return d.Kind == UNKNOWN }

func (d DataType) String() string {
	if d.Length > 0 {
		switch d.Kind {
		case CHAR, VARCHAR, BINARY, VARBINARY:
			return string(d.Kind) + "(" + strconv.Itoa(d.Length) + ")"
		}
	}
	return string(d.Kind)
}
