// Package ast defines the ADQL abstract syntax tree built by
// internal/parser (§3/§4.7/C7): a tagged sum type for statements, FROM
// items, constraints, and operands, each carrying a TextPosition. The
// teacher has nothing resembling a query AST (it models SQL DDL as a
// flat Database/Table/Column graph, not a parsed statement tree), so
// this package follows §9's own redesign note instead: Go interfaces
// with a small closed set of implementations stand in for the tagged
// sum types the spec describes, the same "interface + struct-per-
// variant" shape used by the pack's own SQL ASTs (e.g. the pranadb
// command/parser/ast.go file among other_examples/).
package ast

// TextPosition is a closed-open source span at character granularity,
// 1-based line/column (§4.7).
type TextPosition struct {
	BeginLine int
	BeginCol  int
	EndLine   int
	EndCol    int
}

// Node is implemented by every AST variant.
type Node interface {
	Pos() TextPosition
}

// Identifier is a parsed name token together with the case-sensitivity
// flag determined from whether it was delimited (§4.7: "determined at
// parse time from whether the token was delimited").
type Identifier struct {
	Name          string
	CaseSensitive bool
	TextPosition
}

func (id Identifier) Pos() TextPosition { return id.TextPosition }

// Query is the top-level parsed statement (§3 AST, "SELECT" variant plus
// its clauses).
type Query struct {
	With     []*CTE // nil unless the 2.1 WITH clause was present
	Distinct bool
	Top      int // 0 means absent
	Select   []*SelectItem
	From     FromItem // nil only for a malformed/partial query
	Where    Operand  // nil if absent
	GroupBy  []Operand
	Having   Operand // nil if absent
	OrderBy   []*OrderItem
	Offset    int // -1 means absent
	HasOffset bool
	TextPosition
}

func (q *Query) Pos() TextPosition { return q.TextPosition }

// CTE is one `label AS (subquery)` entry of a 2.1 WITH clause.
type CTE struct {
	Label Identifier
	Query *Query
	TextPosition
}

func (c *CTE) Pos() TextPosition { return c.TextPosition }

// SelectItem is one entry of the select list: either "*"/"table.*" (Star
// true) or an expression with an optional alias.
type SelectItem struct {
	Star       bool
	StarPrefix string // table qualifier for "table.*"; empty for bare "*"
	Expr       Operand
	Alias      *Identifier
	TextPosition
}

func (s *SelectItem) Pos() TextPosition { return s.TextPosition }

// OrderItem is one `expr [ASC|DESC]` entry of an ORDER BY clause.
type OrderItem struct {
	Expr       Operand
	Descending bool
	TextPosition
}

func (o *OrderItem) Pos() TextPosition { return o.TextPosition }

// FromItem is the sum type for FROM-clause entries: table reference,
// join, subquery, or CTE reference (§3). Because the parser cannot tell
// a CTE reference from a bare table reference without the WITH scope
// (that binding is C8's job, §4.8), a bare name always parses as
// TableRef; the checker resolves it against the active CTE scope first.
type FromItem interface {
	Node
	fromItem()
}

// TableRef names a table, optionally schema-qualified, with an optional
// alias (§3/§4.8).
type TableRef struct {
	Schema   *Identifier // nil if unqualified
	Table    Identifier
	Alias    *Identifier // nil if absent
	Resolved any         // *metadata.Table or *check.CTEBinding once checked; nil until then
	TextPosition
}

func (t *TableRef) Pos() TextPosition { return t.TextPosition }
func (*TableRef) fromItem()           {}

// Subquery is a parenthesized query used as a FROM item (§3), always
// aliased per ADQL grammar.
type Subquery struct {
	Query *Query
	Alias Identifier
	TextPosition
}

func (s *Subquery) Pos() TextPosition { return s.TextPosition }
func (*Subquery) fromItem()           {}

// JoinKind distinguishes the join forms named in §4.7/§4.9.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
)

// Join is a two-sided FROM item: plain ON-qualified, USING(cols), or
// NATURAL (§3/§4.8/§4.9). Position is the span of the whole join
// construct, since (§4.7) "FROM position is the span of its contained
// table/join because the FROM keyword span is not independently
// tracked".
type Join struct {
	Kind     JoinKind
	Natural  bool
	Left     FromItem
	Right    FromItem
	On       Operand      // nil unless an ON clause was given
	Using    []Identifier // nil unless a USING(...) clause was given
	Resolved any          // *check.JoinInfo (usual-column set) once checked; nil until then
	TextPosition
}

func (j *Join) Pos() TextPosition { return j.TextPosition }
func (*Join) fromItem()           {}

// Operand is the sum type for value expressions: column reference,
// literal, arithmetic, concatenation, function call (§3).
type Operand interface {
	Node
	operand()
}

// ColumnRef references a column, optionally table/schema-qualified
// (§4.8 resolves the qualifier against the visible FROM scope). Resolved
// is filled in by the checker (§3: "mutable post-check link").
type ColumnRef struct {
	TablePrefix *Identifier // nil if unqualified
	Name        Identifier
	Resolved    any // *metadata.Column once checked; nil until then
	TextPosition
}

func (c *ColumnRef) Pos() TextPosition { return c.TextPosition }
func (*ColumnRef) operand()            {}

// NumericConstant is a literal number, kept as source text to avoid
// premature float rounding before the checker needs a value.
type NumericConstant struct {
	Text string
	TextPosition
}

func (n *NumericConstant) Pos() TextPosition { return n.TextPosition }
func (*NumericConstant) operand()            {}

// StringConstant is a literal string with '' already decoded to '.
type StringConstant struct {
	Value string
	TextPosition
}

func (s *StringConstant) Pos() TextPosition { return s.TextPosition }
func (*StringConstant) operand()            {}

// ArithOp is a binary arithmetic expression: +, -, *, /.
type ArithOp struct {
	Op    string
	Left  Operand
	Right Operand
	TextPosition
}

func (a *ArithOp) Pos() TextPosition { return a.TextPosition }
func (*ArithOp) operand()            {}

// Concat is the `||` concatenation operator, n-ary at the AST level
// (adjacent `||` chains flatten into one node) to keep translation
// (§4.9 `translate_concat`) simple.
type Concat struct {
	Args []Operand
	TextPosition
}

func (c *Concat) Pos() TextPosition { return c.TextPosition }
func (*Concat) operand()            {}

// FunctionCall is a call to an ADQL built-in, a geometry function, or a
// UDF (§3/§4.8). IsGeometry is set by the parser for the fixed set of
// ADQL geometry function names; the checker additionally resolves
// everything else against the UDF registry (C4) or built-in set.
type FunctionCall struct {
	Name       Identifier
	Args       []Operand
	IsGeometry bool
	Resolved   any // *udf.FunctionDef once checked; nil until then
	TextPosition
}

func (f *FunctionCall) Pos() TextPosition { return f.TextPosition }
func (*FunctionCall) operand()            {}

// Constraint is the sum type for WHERE/HAVING/ON boolean expressions:
// comparison, predicate, logical combination (§3).
type Constraint interface {
	Node
	constraint()
}

// Comparison is a binary predicate: =, <>, <, <=, >, >=.
type Comparison struct {
	Op    string
	Left  Operand
	Right Operand
	TextPosition
}

func (c *Comparison) Pos() TextPosition { return c.TextPosition }
func (*Comparison) constraint()         {}
func (*Comparison) operand()            {} // constraints double as boolean operands (WHERE/HAVING/ON accept them directly)

// Logical combines two constraints with AND/OR, or negates one with NOT
// (Right is nil for NOT).
type Logical struct {
	Op    string // "AND", "OR", "NOT"
	Left  Operand
	Right Operand // nil for NOT
	TextPosition
}

func (l *Logical) Pos() TextPosition { return l.TextPosition }
func (*Logical) constraint()         {}
func (*Logical) operand()            {}

// Predicate covers the remaining boolean forms: IS [NOT] NULL, BETWEEN,
// IN, LIKE.
type Predicate struct {
	Kind    string // "IS_NULL", "BETWEEN", "IN", "LIKE"
	Negated bool
	Expr    Operand
	Low     Operand   // BETWEEN lower bound
	High    Operand   // BETWEEN upper bound
	List    []Operand // IN list
	Pattern Operand    // LIKE pattern
	TextPosition
}

func (p *Predicate) Pos() TextPosition { return p.TextPosition }
func (*Predicate) constraint()         {}
func (*Predicate) operand()            {}
