package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/token"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	file, err := Parse(src)
	require.NoError(t, err)
	return file
}

func TestParse_Imports(t *testing.T) {
	file := mustParse(t, `
import foo.bar, baz as qux
from a.b import (c, d as e,)
from . import f
from typing import *
`)
	require.Len(t, file.Stmts, 4)

	imp := file.Stmts[0].(*ImportStmt)
	require.Len(t, imp.Items, 2)
	assert.Equal(t, "foo.bar", imp.Items[0].Name)
	assert.Equal(t, "baz", imp.Items[1].Name)
	assert.Equal(t, "qux", imp.Items[1].AsName)

	from := file.Stmts[1].(*FromImportStmt)
	assert.Equal(t, "a.b", from.Module)
	require.Len(t, from.Items, 2)
	assert.Equal(t, "d", from.Items[1].Name)
	assert.Equal(t, "e", from.Items[1].AsName)

	rel := file.Stmts[2].(*FromImportStmt)
	assert.Equal(t, ".", rel.Module)

	star := file.Stmts[3].(*FromImportStmt)
	assert.True(t, star.Star)
	assert.Equal(t, "typing", star.Module)
}

func TestParse_Assignments(t *testing.T) {
	file := mustParse(t, `
a = ...
b = -1
c = 1.5
d = True
e = foo.bar
f = ...  # type: List[int]
g: str
h: int = 3
`)
	require.Len(t, file.Stmts, 8)
	get := func(i int) *AssignStmt { return file.Stmts[i].(*AssignStmt) }

	assert.IsType(t, &EllipsisValue{}, get(0).Value)

	num := get(1).Value.(*NumberValue)
	assert.True(t, num.Negative)
	assert.Equal(t, "1", num.Text)
	assert.False(t, num.IsFloat())
	assert.True(t, get(2).Value.(*NumberValue).IsFloat())

	assert.Equal(t, "True", get(3).Value.(*NameValue).Name)
	assert.Equal(t, "foo.bar", get(4).Value.(*NameValue).Name)

	generic := get(5).Annotation.(*GenericType)
	assert.Equal(t, "List", generic.Base.Name)
	require.Len(t, generic.Args, 1)

	assert.Nil(t, get(6).Value)
	assert.Equal(t, "str", get(6).Annotation.(*NameType).Name)
	assert.Equal(t, "3", get(7).Value.(*NumberValue).Text)
}

func TestParse_IfChain(t *testing.T) {
	file := mustParse(t, `
if sys.version_info >= (3, 5):
  x = 1
elif sys.platform == "win32":
  y = 2
else: z = 3
`)
	require.Len(t, file.Stmts, 1)
	stmt := file.Stmts[0].(*IfStmt)
	require.Len(t, stmt.Branches, 2)

	cond := stmt.Branches[0].Cond
	assert.Equal(t, "sys.version_info", cond.Left)
	assert.Equal(t, token.GE, cond.Op)
	tuple := cond.Right.(*TupleValue)
	assert.Len(t, tuple.Elems, 2)

	plat := stmt.Branches[1].Cond
	assert.Equal(t, token.EQ, plat.Op)
	assert.Equal(t, "win32", plat.Right.(*StringValue).Text)

	assert.True(t, stmt.HasElse)
	require.Len(t, stmt.Else, 1)
	assert.Equal(t, "z", stmt.Else[0].(*AssignStmt).Name)
}

func TestParse_ParenthesizedValue(t *testing.T) {
	file := mustParse(t, "if sys.version_info == (3):\n  x = 1\nif sys.version_info > (2,):\n  y = 1\n")
	require.Len(t, file.Stmts, 2)

	assert.IsType(t, &NumberValue{}, file.Stmts[0].(*IfStmt).Branches[0].Cond.Right)
	single := file.Stmts[1].(*IfStmt).Branches[0].Cond.Right.(*TupleValue)
	assert.Len(t, single.Elems, 1)
}

func TestParse_FuncDef(t *testing.T) {
	file := mustParse(t, `
@staticmethod
@foo.setter
def f(a, b: int = ..., *args: str, c, **kw: ?) -> Tuple[int, ...] raises E1, E2:
  a := List[int]
  raise E3()
  ...
def g(self, *, x, ...) -> int: ...
def h() -> int
def ext PYTHONCODE
`)
	require.Len(t, file.Stmts, 4)

	f := file.Stmts[0].(*FuncDef)
	assert.Equal(t, "f", f.Name)
	assert.Equal(t, 4, f.Pos().Line)
	require.Len(t, f.Decorators, 2)
	assert.Equal(t, "staticmethod", f.Decorators[0].String())
	assert.Equal(t, "foo.setter", f.Decorators[1].String())

	require.Len(t, f.Params, 5)
	assert.Equal(t, ParamNamed, f.Params[0].Kind)
	assert.Nil(t, f.Params[0].Type)
	assert.IsType(t, &EllipsisValue{}, f.Params[1].Default)
	assert.Equal(t, ParamStarArgs, f.Params[2].Kind)
	assert.Equal(t, "args", f.Params[2].Name)
	assert.Equal(t, ParamStarStar, f.Params[4].Kind)
	assert.IsType(t, &AnyType{}, f.Params[4].Type)

	ret := f.Return.(*GenericType)
	require.Len(t, ret.Args, 2)
	assert.IsType(t, &EllipsisType{}, ret.Args[1])
	assert.Len(t, f.Raises, 2)

	require.Len(t, f.Body, 2)
	mut := f.Body[0].(*MutatorStmt)
	assert.Equal(t, "a", mut.Name)
	assert.IsType(t, &RaiseStmt{}, f.Body[1])

	g := file.Stmts[1].(*FuncDef)
	require.Len(t, g.Params, 4)
	assert.Equal(t, ParamStar, g.Params[1].Kind)
	assert.Equal(t, ParamEllipsis, g.Params[3].Kind)
	assert.Empty(t, g.Body)

	h := file.Stmts[2].(*FuncDef)
	assert.Equal(t, "int", h.Return.(*NameType).Name)

	ext := file.Stmts[3].(*FuncDef)
	assert.True(t, ext.External)
}

func TestParse_ClassDef(t *testing.T) {
	file := mustParse(t, `
class A(B, c.D, metaclass=M):
  "docstring"
  x = ...  # type: int
  def f(self) -> int: ...
  if sys.platform == "linux":
    y = ...  # type: str
class ` + "`A~1`" + `(Tuple[int, ...]): pass
class E: ...
`)
	require.Len(t, file.Stmts, 3)

	a := file.Stmts[0].(*ClassDef)
	assert.Equal(t, "A", a.Name)
	require.Len(t, a.Args, 3)
	assert.Equal(t, "", a.Args[0].Keyword)
	assert.Equal(t, "c.D", a.Args[1].Type.(*NameType).Name)
	assert.Equal(t, "metaclass", a.Args[2].Keyword)
	require.Len(t, a.Body, 3)
	assert.IsType(t, &AssignStmt{}, a.Body[0])
	assert.IsType(t, &FuncDef{}, a.Body[1])
	assert.IsType(t, &IfStmt{}, a.Body[2])

	quoted := file.Stmts[1].(*ClassDef)
	assert.True(t, quoted.Quoted)
	assert.Equal(t, "A~1", quoted.Name)
	assert.Empty(t, quoted.Body)

	assert.Empty(t, file.Stmts[2].(*ClassDef).Body)
}

func TestParse_Types(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, typ TypeExpr)
	}{
		{
			name: "alternation",
			src:  "int or str or None",
			check: func(t *testing.T, typ TypeExpr) {
				assert.Len(t, typ.(*OrType).Members, 3)
			},
		},
		{
			name: "parenthesized",
			src:  "(int or str)",
			check: func(t *testing.T, typ TypeExpr) {
				assert.Len(t, typ.(*OrType).Members, 2)
			},
		},
		{
			name: "anything",
			src:  "?",
			check: func(t *testing.T, typ TypeExpr) {
				assert.IsType(t, &AnyType{}, typ)
			},
		},
		{
			name: "tuple sugar",
			src:  "[int, str]",
			check: func(t *testing.T, typ TypeExpr) {
				assert.Len(t, typ.(*TupleSugarType).Elems, 2)
			},
		},
		{
			name: "empty generic",
			src:  "Tuple[]",
			check: func(t *testing.T, typ TypeExpr) {
				g := typ.(*GenericType)
				assert.Equal(t, "Tuple", g.Base.Name)
				assert.Empty(t, g.Args)
			},
		},
		{
			name: "dotted generic",
			src:  "typing.Dict[str, foo.Bar]",
			check: func(t *testing.T, typ TypeExpr) {
				g := typ.(*GenericType)
				assert.Equal(t, "typing.Dict", g.Base.Name)
				assert.Equal(t, "foo.Bar", g.Args[1].(*NameType).Name)
			},
		},
		{
			name: "quoted name",
			src:  "`Foo~1`",
			check: func(t *testing.T, typ TypeExpr) {
				assert.Equal(t, "Foo~1", typ.(*QuotedNameType).Name)
			},
		},
		{
			name: "named tuple",
			src:  "NamedTuple('Point', [('x', int), (y, List[str],)])",
			check: func(t *testing.T, typ TypeExpr) {
				nt := typ.(*NamedTupleType)
				assert.Equal(t, "Point", nt.Name)
				require.Len(t, nt.Fields, 2)
				assert.Equal(t, "x", nt.Fields[0].Name)
				assert.Equal(t, "y", nt.Fields[1].Name)
				assert.IsType(t, &GenericType{}, nt.Fields[1].Type)
			},
		},
		{
			name: "empty named tuple",
			src:  "NamedTuple(P, [])",
			check: func(t *testing.T, typ TypeExpr) {
				assert.Empty(t, typ.(*NamedTupleType).Fields)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, "x = ...  # type: "+tt.src+"\n")
			require.Len(t, file.Stmts, 1)
			tt.check(t, file.Stmts[0].(*AssignStmt).Annotation)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"bare number", "123", 1, "syntax error"},
		{"missing value", "x = \n", 1, "syntax error, unexpected NEWLINE"},
		{"unexpected indent", "x = 1\n  y = 2\n", 2, "unexpected indent"},
		{"unterminated string", "x = 'abc\n", 1, "unterminated string literal"},
		{"bad comparison", "if sys.platform in 'a':\n  x = 1\n", 1, "syntax error"},
		{"nested class", "class A:\n  class B: pass\n", 2, "syntax error"},
		{"missing paren", "def f(x -> int: ...\n", 1, "expecting )"},
		{"decorated class", "@foo\nclass A: pass\n", 2, "expecting def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)

			var perr *core.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, core.SyntaxError, perr.Kind)
			assert.Equal(t, tt.line, perr.Line)
			assert.Contains(t, perr.Message, tt.msg)
		})
	}
}

func TestNumberValue_IsZero(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"0", true},
		{"00", true},
		{"0x0", true},
		{"0L", true},
		{"0_0", true},
		{"1", false},
		{"123", false},
		{"0.0", false},
		{"0x10", false},
		{"99999999999999999999", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, (&NumberValue{Text: tt.text}).IsZero())
		})
	}
}
