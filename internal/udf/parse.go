package udf

import (
	"regexp"
	"strconv"
	"strings"

	"adqlcore/internal/errs"
	"adqlcore/internal/token"
	"adqlcore/internal/types"
)

var regularIdentRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// typeAliases maps the declaration-grammar type names (§4.4/§6) to their
// canonical Kind. Matching is case-insensitive.
var typeAliases = map[string]types.Kind{
	"string":             types.VARCHAR,
	"int":                types.INTEGER,
	"integer":            types.INTEGER,
	"smallint":           types.SMALLINT,
	"bigint":             types.BIGINT,
	"boolean":            types.SMALLINT,
	"bool":               types.SMALLINT,
	"text":               types.CLOB,
	"clob":               types.CLOB,
	"date":               types.TIMESTAMP,
	"time":               types.TIMESTAMP,
	"timestamp":          types.TIMESTAMP,
	"numeric":            types.DOUBLE,
	"double":             types.DOUBLE,
	"double precision":   types.DOUBLE,
	"real":               types.REAL,
	"char":               types.CHAR,
	"character":          types.CHAR,
	"varchar":            types.VARCHAR,
	"character varying":  types.VARCHAR,
	"binary":             types.BINARY,
	"varbinary":          types.VARBINARY,
	"bit varying":        types.VARBINARY,
	"blob":               types.BLOB,
	"point":              types.POINT,
	"region":             types.REGION,
}

// sizedKinds is the set of kinds for which a declared length is kept; it
// is silently dropped for every other kind (§4.4).
var sizedKinds = map[types.Kind]bool{
	types.CHAR: true, types.VARCHAR: true, types.BINARY: true, types.VARBINARY: true,
}

// parseTypeName parses a type-name token, accepting an optional "(n)"
// length suffix, per §4.4/§6. Unknown type names are accepted and render
// back as "?name?" / "?name(n)?" with IsUnknown=true.
func parseTypeName(raw string) (dt types.DataType, isUnknown bool, unknownName string) {
	raw = strings.TrimSpace(raw)
	name := raw
	length := 0
	if i := strings.IndexByte(raw, '('); i >= 0 && strings.HasSuffix(raw, ")") {
		name = strings.TrimSpace(raw[:i])
		lenStr := strings.TrimSpace(raw[i+1 : len(raw)-1])
		if n, err := strconv.Atoi(lenStr); err == nil {
			length = n
		}
	}

	kind, ok := typeAliases[strings.ToLower(name)]
	if !ok {
		return types.DataType{}, true, raw
	}
	if length > 0 && sizedKinds[kind] {
		return types.NewSized(kind, length), false, ""
	}
	return types.New(kind), false, ""
}

// RenderUnknownType renders an undeclared type name the way §4.4 requires:
// "?name?" or "?name(n)?".
func RenderUnknownType(raw string) string {
	return "?" + raw + "?"
}

// Parse implements §4.4/§6's UDF declaration grammar:
//
//	regular_identifier "(" [ ident type ("," ident type)* ] ")" [ "->" type_name ]
//
// Name collisions with ADQL built-ins or ADQL/SQL reserved keywords are
// rejected (case-insensitively), as required by §3.
func Parse(spec string) (*FunctionDef, error) {
	spec = strings.TrimSpace(spec)

	open := strings.IndexByte(spec, '(')
	if open < 0 {
		return nil, errs.Newf(errs.Syntax, "UDF declaration %q: missing parameter list", spec)
	}
	name := strings.TrimSpace(spec[:open])
	if !regularIdentRe.MatchString(name) {
		return nil, errs.Newf(errs.Syntax, "UDF declaration %q: %q is not a regular identifier", spec, name)
	}
	if err := checkNameCollision(name); err != nil {
		return nil, err
	}

	rest := spec[open+1:]
	closeIdx := matchingParen(rest)
	if closeIdx < 0 {
		return nil, errs.Newf(errs.Syntax, "UDF declaration %q: missing closing parenthesis", spec)
	}
	paramsStr := strings.TrimSpace(rest[:closeIdx])
	after := strings.TrimSpace(rest[closeIdx+1:])

	var params []Param
	if paramsStr != "" {
		for _, part := range splitTopLevel(paramsStr) {
			p, err := parseParam(strings.TrimSpace(part), spec)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
	}

	fn := &FunctionDef{Name: name, Params: params}

	if after != "" {
		arrow := strings.TrimPrefix(after, "->")
		if arrow == after {
			return nil, errs.Newf(errs.Syntax, "UDF declaration %q: expected \"->\" before return type", spec)
		}
		retRaw := strings.TrimSpace(arrow)
		dt, isUnknown, unknownName := parseTypeName(retRaw)
		if isUnknown {
			fn.IsUnknown = true
			fn.UnknownRet = unknownName
		} else {
			fn.Return = &dt
		}
	}

	return fn, nil
}

func parseParam(part, spec string) (Param, error) {
	fields := strings.Fields(part)
	if len(fields) < 2 {
		return Param{}, errs.Newf(errs.Syntax, "UDF declaration %q: malformed parameter %q", spec, part)
	}
	pname := fields[0]
	typeRaw := strings.Join(fields[1:], " ")
	dt, isUnknown, _ := parseTypeName(typeRaw)
	if isUnknown {
		// An unknown parameter type is accepted (§4.4 allows unknown type
		// names anywhere a type_name appears); it type-checks as UNKNOWN.
		dt = types.New(types.UNKNOWN)
	}
	return Param{Name: pname, Type: dt}, nil
}

// builtinFunctions is the ADQL geometry/math/string built-in set a UDF
// name must not collide with (§3).
var builtinFunctions = map[string]bool{
	"abs": true, "ceiling": true, "degrees": true, "exp": true, "floor": true,
	"log": true, "log10": true, "mod": true, "pi": true, "power": true,
	"rand": true, "radians": true, "round": true, "sign": true, "sqrt": true,
	"truncate": true, "acos": true, "asin": true, "atan": true, "atan2": true,
	"cos": true, "cot": true, "sin": true, "tan": true,
	"coord1": true, "coord2": true, "coordsys": true, "distance": true,
	"point": true, "circle": true, "box": true, "polygon": true, "region": true,
	"contains": true, "intersects": true, "area": true, "centroid": true,
	"coord_sys": true,
	"lower": true, "upper": true, "substring": true, "trim": true,
	"in_unit": true, "count": true, "sum": true, "avg": true, "max": true, "min": true,
}

// adqlReservedWords and sqlReservedWords are the closed keyword sets a UDF
// name must not collide with, case-insensitively (§3). This list is a
// superset of the lexer's own reserved-word table (internal/token,
// consulted below via token.IsReserved): it also rejects ADQL-reserved
// words like UNION/CASE/LIMIT that this grammar doesn't currently
// tokenize as keywords (no set-operator or CASE-expression productions),
// since §3 reserves the full ADQL vocabulary, not just the subset this
// parser implements. sqlReservedWords covers plain SQL DDL/DML
// vocabulary ADQL doesn't reserve at all (CREATE, INSERT, ...) but that
// would still collide once a UDF call is translated to a target dialect
// (§4.9).
var adqlReservedWords = map[string]bool{
	"all": true, "exists": true, "union": true, "intersect": true,
	"except": true, "limit": true, "case": true, "when": true,
	"then": true, "else": true, "end": true,
}

var sqlReservedWords = map[string]bool{
	"table": true, "insert": true, "update": true, "delete": true,
	"create": true, "drop": true, "alter": true, "grant": true, "revoke": true,
	"primary": true, "foreign": true, "key": true, "references": true,
	"check": true, "default": true, "values": true, "into": true,
}

func checkNameCollision(name string) error {
	lower := strings.ToLower(name)
	switch {
	case builtinFunctions[lower]:
		return errs.Newf(errs.InvalidMetadata, "UDF name %q collides with an ADQL built-in function", name)
	case token.IsReserved(strings.ToUpper(name)) || adqlReservedWords[lower]:
		return errs.Newf(errs.InvalidMetadata, "UDF name %q collides with an ADQL reserved keyword", name)
	case sqlReservedWords[lower]:
		return errs.Newf(errs.InvalidMetadata, "UDF name %q collides with an SQL reserved keyword", name)
	default:
		return nil
	}
}

// ParseWithClass implements §6's "[signature, {fully.qualified.ClassName}]"
// form and a comma-separated list of such declarations.
func ParseWithClass(spec string) (*FunctionDef, error) {
	spec = strings.TrimSpace(spec)
	if !strings.HasPrefix(spec, "[") || !strings.HasSuffix(spec, "]") {
		return Parse(spec)
	}
	inner := strings.TrimSpace(spec[1 : len(spec)-1])
	brace := strings.LastIndexByte(inner, '{')
	if brace < 0 || !strings.HasSuffix(inner, "}") {
		return nil, errs.Newf(errs.Syntax, "UDF declaration %q: expected \"[signature, {Class}]\"", spec)
	}
	sigPart := strings.TrimSuffix(strings.TrimSpace(inner[:brace]), ",")
	classPart := inner[brace+1 : len(inner)-1]

	fn, err := Parse(strings.TrimSpace(sigPart))
	if err != nil {
		return nil, err
	}
	fn.ClassRef = strings.TrimSpace(classPart)
	return fn, nil
}

// ParseDeclarationList splits and parses a comma-separated list of
// "[signature, {Class}]" or plain "signature" declarations (§6). Commas
// inside parameter lists and class braces are respected.
func ParseDeclarationList(list string) ([]*FunctionDef, error) {
	var defs []*FunctionDef
	for _, part := range splitTopLevel(list) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fn, err := ParseWithClass(part)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fn)
	}
	return defs, nil
}

// matchingParen returns the index in s of the ")" that closes the "("
// implicitly opened just before s (i.e. depth starts at 1), so a nested
// sized-type annotation like "varchar(10)" inside the parameter list does
// not get mistaken for the list's own closing paren.
func matchingParen(s string) int {
	depth := 1
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits on commas that are not nested inside (), [], or {}.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
