package parser

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapstub/pkg/token"
)

// The parser produces a raw tree that mirrors the source closely: conditional
// blocks are kept, types are unnormalized and values are untyped. Semantic
// checks happen later, when the tree is built into a core.Module.

// Node is implemented by every raw tree node.
type Node interface {
	Pos() token.Position
}

// Stmt is a statement at module or class level.
type Stmt interface {
	Node
	stmtNode()
}

// BodyStmt is a statement inside a function body.
type BodyStmt interface {
	Node
	bodyStmtNode()
}

// TypeExpr is an unnormalized type expression.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Value is a literal or name on the right of `=` or a comparison.
type Value interface {
	Node
	valueNode()
}

// NodeInfo provides the source position of a node.
type NodeInfo struct {
	Start token.Position
}

// Pos returns the position of the node's first token.
func (n *NodeInfo) Pos() token.Position {
	return n.Start
}

// File is the raw tree of one stub source.
type File struct {
	Stmts []Stmt
}

// ---------- Statement Types ----------

// ImportStmt is `import a.b [as c], ...`.
type ImportStmt struct {
	NodeInfo
	Items []*ImportItem
}

func (*ImportStmt) stmtNode() {}

// ImportItem is one imported name with its optional rename.
type ImportItem struct {
	NodeInfo
	Name   string
	AsName string
}

// FromImportStmt is `from m import a [as b], ...` or `from m import *`.
type FromImportStmt struct {
	NodeInfo
	Module string
	Items  []*ImportItem
	Star   bool
}

func (*FromImportStmt) stmtNode() {}

// IfStmt is an if/elif/else chain. Else is nil when there is no else branch.
type IfStmt struct {
	NodeInfo
	Branches []*IfBranch
	Else     []Stmt
	HasElse  bool
}

func (*IfStmt) stmtNode() {}

// IfBranch is the `if` or one `elif` arm of an IfStmt.
type IfBranch struct {
	NodeInfo
	Cond *Condition
	Body []Stmt
}

// Condition is `dotted.name OP value`.
type Condition struct {
	NodeInfo
	Left  string
	Op    token.TokenType
	Right Value
}

// AssignStmt is `x = value [# type: T]` or `x: T [= value]`.
// Value is nil for a bare annotation.
type AssignStmt struct {
	NodeInfo
	Name       string
	Value      Value
	Annotation TypeExpr
}

func (*AssignStmt) stmtNode() {}

// FuncDef is a function signature with its decorators.
type FuncDef struct {
	NodeInfo
	Decorators []*Decorator
	Name       string
	Params     []*Param
	Return     TypeExpr
	Raises     []TypeExpr
	Body       []BodyStmt
	External   bool
}

func (*FuncDef) stmtNode() {}

// Decorator is `@name` or `@name.qualifier`.
type Decorator struct {
	NodeInfo
	Name      string
	Qualifier string
}

// String returns the decorator as written, without the `@`.
func (d *Decorator) String() string {
	if d.Qualifier == "" {
		return d.Name
	}
	return d.Name + "." + d.Qualifier
}

// ParamKind classifies a raw parameter.
type ParamKind int

// Raw parameter kinds.
const (
	ParamNamed    ParamKind = iota // x, x: T, x=...
	ParamStar                      // *
	ParamStarArgs                  // *args
	ParamStarStar                  // **kwargs
	ParamEllipsis                  // ...
)

// Param is one entry of a parameter list as written.
type Param struct {
	NodeInfo
	Kind    ParamKind
	Name    string
	Type    TypeExpr
	Default Value
}

// MutatorStmt is `x := T` in a function body.
type MutatorStmt struct {
	NodeInfo
	Name string
	Type TypeExpr
}

func (*MutatorStmt) bodyStmtNode() {}

// RaiseStmt is `raise E` or `raise E()` in a function body.
type RaiseStmt struct {
	NodeInfo
	Type TypeExpr
}

func (*RaiseStmt) bodyStmtNode() {}

// ClassDef is a class definition.
type ClassDef struct {
	NodeInfo
	Name   string
	Quoted bool
	Args   []*ClassArg
	Body   []Stmt
}

func (*ClassDef) stmtNode() {}

// ClassArg is a base class or a `keyword=T` argument of a class definition.
type ClassArg struct {
	NodeInfo
	Keyword string
	Type    TypeExpr
}

// ---------- Value Types ----------

// EllipsisValue is `...`.
type EllipsisValue struct {
	NodeInfo
}

func (*EllipsisValue) valueNode() {}

// NumberValue is a numeric literal, possibly negated.
type NumberValue struct {
	NodeInfo
	Text     string
	Negative bool
}

func (*NumberValue) valueNode() {}

// IsFloat reports whether the literal is not an integer.
func (n *NumberValue) IsFloat() bool {
	if strings.HasPrefix(n.Text, "0x") || strings.HasPrefix(n.Text, "0X") {
		return false
	}
	return strings.ContainsAny(n.Text, ".eEjJ")
}

// IsZero reports whether the literal is an integer equal to zero.
func (n *NumberValue) IsZero() bool {
	if n.IsFloat() {
		return false
	}
	v, err := strconv.ParseInt(strings.TrimRight(strings.ReplaceAll(n.Text, "_", ""), "lL"), 0, 64)
	return err == nil && v == 0
}

// StringValue is a string literal.
type StringValue struct {
	NodeInfo
	Text string
}

func (*StringValue) valueNode() {}

// NameValue is a dotted name used as a value.
type NameValue struct {
	NodeInfo
	Name string
}

func (*NameValue) valueNode() {}

// TupleValue is `(v1, v2, ...)`.
type TupleValue struct {
	NodeInfo
	Elems []Value
}

func (*TupleValue) valueNode() {}

// ---------- Type Expressions ----------

// NameType is a dotted type name.
type NameType struct {
	NodeInfo
	Name string
}

func (*NameType) typeExprNode() {}

// QuotedNameType is a back-quoted class name.
type QuotedNameType struct {
	NodeInfo
	Name string
}

func (*QuotedNameType) typeExprNode() {}

// AnyType is `?`.
type AnyType struct {
	NodeInfo
}

func (*AnyType) typeExprNode() {}

// EllipsisType is `...` inside a generic argument list.
type EllipsisType struct {
	NodeInfo
}

func (*EllipsisType) typeExprNode() {}

// GenericType is `Base[args]`. Args is empty for `Base[]`.
type GenericType struct {
	NodeInfo
	Base *NameType
	Args []TypeExpr
}

func (*GenericType) typeExprNode() {}

// OrType is `A or B or ...`.
type OrType struct {
	NodeInfo
	Members []TypeExpr
}

func (*OrType) typeExprNode() {}

// TupleSugarType is the bracket form `[A, B]` of a heterogeneous tuple.
type TupleSugarType struct {
	NodeInfo
	Elems []TypeExpr
}

func (*TupleSugarType) typeExprNode() {}

// NamedTupleType is `NamedTuple(name, [(field, T), ...])`.
type NamedTupleType struct {
	NodeInfo
	Name   string
	Fields []*NamedTupleField
}

func (*NamedTupleType) typeExprNode() {}

// NamedTupleField is one `(name, T)` pair of a NamedTupleType.
type NamedTupleField struct {
	NodeInfo
	Name string
	Type TypeExpr
}
