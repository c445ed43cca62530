package pyi

import (
	"testing"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkFormat parses src with the default target and compares the printed
// module with expected.
func checkFormat(t *testing.T, src, expected string) {
	t.Helper()
	m, err := Parse(src, Config{})
	require.NoError(t, err)
	assert.Equal(t, expected, format.Format(m))
}

// checkError asserts that src fails with a message containing message at
// line (0 for module-wide errors).
func checkError(t *testing.T, src string, line int, message string) *core.Error {
	t.Helper()
	_, err := Parse(src, Config{})
	require.Error(t, err)
	var perr *core.Error
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, message)
	assert.Equal(t, line, perr.Line)
	return perr
}

type formatCase struct {
	name     string
	src      string
	expected string
}

func runFormatCases(t *testing.T, tests []formatCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkFormat(t, tt.src, tt.expected)
		})
	}
}

type errorCase struct {
	name    string
	src     string
	line    int
	message string
	kind    core.ErrorKind
}

func runErrorCases(t *testing.T, tests []errorCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := checkError(t, tt.src, tt.line, tt.message)
			assert.Equal(t, tt.kind, perr.Kind)
		})
	}
}

func TestBuild_Constants(t *testing.T) {
	runFormatCases(t, []formatCase{
		{"ellipsis", "x = ...", "from typing import Any\n\nx = ...  # type: Any"},
		{"type comment", "x = ...  # type: str", "x = ...  # type: str"},
		{"zero", "x = 0", "x = ...  # type: int"},
		{"negative zero", "x = -0", "x = ...  # type: int"},
		{"hex zero", "x = 0x0", "x = ...  # type: int"},
		{"float", "x = 1.5", "x = ...  # type: float"},
		{"string", "x = 'abc'", "x = ...  # type: str"},
		{"true", "x = True", "x = ...  # type: bool"},
		{"false", "x = False", "x = ...  # type: bool"},
		{"none", "x = None", "x = ...  # type: None"},
		{"alias", "x = Foo", "x = Foo"},
		{"declarations grouped", "y = ...  # type: int\nz = Foo\n", "z = Foo\n\ny = ...  # type: int"},
	})

	checkError(t, "x = (1, 2)", 1, "Unsupported value for x")

	runErrorCases(t, []errorCase{
		{name: "non-zero int", src: "\nx = 123", line: 2, message: "Only '0' allowed as int literal", kind: core.SyntaxError},
		{name: "negative int", src: "x = -1", line: 1, message: "Only '0' allowed as int literal", kind: core.SyntaxError},
		{name: "class attribute", src: "class A:\n    x = 0\n    y = 7\n", line: 3, message: "Only '0' allowed as int literal", kind: core.SyntaxError},
	})
}

func TestBuild_Imports(t *testing.T) {
	runFormatCases(t, []formatCase{
		{"plain import", "import foo.bar.baz", ""},
		{"from import", "from foo.bar import baz", "from foo.bar import baz"},
		{"from import as", "from foo.bar import baz as abc", "from foo.bar import baz as abc"},
		{"typing import", "from typing import NamedTuple, TypeVar", ""},
		{"future import", "from __future__ import print_function", ""},
		{"star import", "from foo.bar import *", ""},
		{"multiple names", "from foo import a, b", "from foo import a\nfrom foo import b"},
		{"parenthesized", "from foo import (a, b)", "from foo import a\nfrom foo import b"},
		{"trailing comma", "from foo import (a, b, )", "from foo import a\nfrom foo import b"},
		{"relative", "from . import x", "from . import x"},
		{"relative type reference", "from . import foo\nx = ...  # type: foo.Bar", "from . import foo\n\nx = ...  # type: foo.Bar"},
		{
			"relative package type reference",
			"from ..pkg import mod as m\ndef f(x: m.T) -> m.U: ...",
			"from ..pkg import mod as m\n\ndef f(x: m.T) -> m.U: ...",
		},
	})

	perr := checkError(t, "\n\nimport a as b", 3, "Renaming of modules not supported")
	assert.Equal(t, core.SyntaxError, perr.Kind)
}

func TestBuild_DuplicateNames(t *testing.T) {
	runErrorCases(t, []errorCase{
		{
			name:    "function and constant",
			src:     "def foo() -> int: ...\nfoo = ... # type: int",
			message: "Duplicate top-level identifier(s): foo",
			kind:    core.DuplicateIdentifier,
		},
		{
			name:    "import and function",
			src:     "from x import foo\ndef foo() -> int: ...",
			message: "Duplicate top-level identifier(s): foo",
			kind:    core.DuplicateIdentifier,
		},
		{
			name:    "sorted list",
			src:     "b = ...  # type: int\nb = ...  # type: str\na = Foo\nclass a: pass",
			message: "Duplicate top-level identifier(s): a, b",
			kind:    core.DuplicateIdentifier,
		},
	})

	checkFormat(t,
		"def foo(x: int) -> int: ...\ndef foo(x: str) -> str: ...",
		"def foo(x: int) -> int: ...\ndef foo(x: str) -> str: ...")
}

func TestBuild_Types(t *testing.T) {
	runFormatCases(t, []formatCase{
		{"parenthesized", "x = ...  # type: (str)", "x = ...  # type: str"},
		{"qualified", "x = ...  # type: foo.bar.Baz", "import foo.bar\n\nx = ...  # type: foo.bar.Baz"},
		{"question mark", "x = ...  # type: ?", "from typing import Any\n\nx = ...  # type: Any"},
		{"nothing", "x = ...  # type: nothing", "x = ...  # type: nothing"},
		{
			"or chain",
			"x = ...  # type: int or str or float",
			"from typing import Union\n\nx = ...  # type: Union[int, str, float]",
		},
		{"or collapses duplicates", "x = ...  # type: int or int", "x = ...  # type: int"},
		{
			"alias lookup",
			"from somewhere import Foo\nx = ...  # type: Foo\n",
			"import somewhere\n\nfrom somewhere import Foo\n\nx = ...  # type: somewhere.Foo",
		},
		{
			"lookup through dotted name",
			"from somewhere import Foo\nx = ...  # type: Foo.Bar\n",
			"import somewhere.Foo\n\nfrom somewhere import Foo\n\nx = ...  # type: somewhere.Foo.Bar",
		},
		{
			"lookup after use",
			"x = ...  # type: Foo\nfrom somewhere import Foo\n",
			"import somewhere\n\nfrom somewhere import Foo\n\nx = ...  # type: somewhere.Foo",
		},
		{"bare pep484 name lowered", "x = ...  # type: List", "x = ...  # type: list"},
		{"generic keeps spelling", "x = ...  # type: Dict[str, int]", "from typing import Dict\n\nx = ...  # type: Dict[str, int]"},
		{"user generic", "x = ...  # type: Foo[int, str]", "x = ...  # type: Foo[int, str]"},
		{
			"optional",
			"x = ...  # type: Optional[int]",
			"from typing import Union\n\nx = ...  # type: Union[int, None]",
		},
		{
			"union generic",
			"x = ...  # type: Union[int, str]",
			"from typing import Union\n\nx = ...  # type: Union[int, str]",
		},
	})
}

func TestBuild_HomogeneousTypes(t *testing.T) {
	runFormatCases(t, []formatCase{
		{
			"strip callable parameters",
			"import typing\n\nx = ...  # type: typing.Callable[int]",
			"import typing\n\nx = ...  # type: typing.Callable",
		},
		{
			"trailing ellipsis dropped",
			"x = ...  # type: List[int, ...]",
			"from typing import List\n\nx = ...  # type: List[int]",
		},
		{
			"single element tuple",
			"from typing import Tuple\n\nx = ...  # type: Tuple[int]",
			"from typing import Tuple\n\nx = ...  # type: Tuple[int, ...]",
		},
		{
			"tuple of two",
			"from typing import Tuple, Union\n\nx = ...  # type: Tuple[int, str]",
			"from typing import Tuple, Union\n\nx = ...  # type: Tuple[Union[int, str], ...]",
		},
		{
			"tuple with trailing ellipsis",
			"from typing import Tuple, Union\n\nx = ...  # type: Tuple[int, str, ...]",
			"from typing import Any, Tuple, Union\n\nx = ...  # type: Tuple[Union[int, str, Any], ...]",
		},
		{
			"qualified tuple",
			"x = ...  # type: typing.Tuple[int]",
			"from typing import Tuple\n\nx = ...  # type: Tuple[int, ...]",
		},
		{"tuple sugar empty", "x = ...  # type: []", "x = ...  # type: []"},
		{"tuple sugar", "x = ...  # type: [int, str]", "x = ...  # type: [int, str]"},
	})

	perr := checkError(t, "x = ...  # type: List[..., ...]", 1, "not supported")
	assert.Equal(t, ErrDoubleEllipsis, perr.Message)
}

func TestBuild_NamedTuple(t *testing.T) {
	multiple := "from typing import Tuple, Union\n\n" +
		"x = ...  # type: `foo`\n\n" +
		"class `foo`(Tuple[Union[int, str], ...]):\n" +
		"    a = ...  # type: int\n" +
		"    b = ...  # type: str\n"

	runFormatCases(t, []formatCase{
		{
			"no fields",
			"x = ...  # type: NamedTuple(foo, [])",
			"from typing import Any, Tuple\n\nx = ...  # type: `foo`\n\nclass `foo`(Tuple[Any, ...]):\n    pass\n",
		},
		{"multiple fields", "x = ...  # type: NamedTuple(foo, [(a, int), (b, str)])", multiple},
		{"trailing list comma", "x = ...  # type: NamedTuple(foo, [(a, int), (b, str),])", multiple},
		{"trailing field comma", "x = ...  # type: NamedTuple(foo, [(a, int,), (b, str),])", multiple},
		{
			"dedup basename",
			"x = ...  # type: NamedTuple(foo, [(a, int,)])\ny = ...  # type: NamedTuple(foo, [(b, str,)])",
			"from typing import Tuple\n\n" +
				"x = ...  # type: `foo`\n" +
				"y = ...  # type: `foo~1`\n\n" +
				"class `foo`(Tuple[int, ...]):\n    a = ...  # type: int\n\n" +
				"class `foo~1`(Tuple[str, ...]):\n    b = ...  # type: str\n",
		},
	})
}

func TestBuild_NamedTupleNesting(t *testing.T) {
	m, err := Parse("x = ...  # type: NamedTuple(outer, [(a, NamedTuple(inner, [(b, int)]))])", Config{})
	require.NoError(t, err)

	require.Len(t, m.Classes, 2)
	assert.Equal(t, "outer", m.Classes[0].Name)
	assert.Equal(t, "inner", m.Classes[1].Name)
	assert.True(t, m.Classes[0].Synthesized)
	assert.Equal(t, "`inner`", m.Classes[0].Constants[0].Type.String())
}

func TestBuild_FunctionParams(t *testing.T) {
	runFormatCases(t, []formatCase{
		{"no params", "def foo() -> int: ...", "def foo() -> int: ..."},
		{"untyped", "def foo(x) -> int: ...", "def foo(x) -> int: ..."},
		{"typed", "def foo(x: int) -> int: ...", "def foo(x: int) -> int: ..."},
		{"two", "def foo(x: int, y: str) -> int: ...", "def foo(x: int, y: str) -> int: ..."},
		{"int default", "def foo(x = 123) -> int: ...", "def foo(x: int = ...) -> int: ..."},
		{"float default", "def foo(x = 12.3) -> int: ...", "def foo(x: float = ...) -> int: ..."},
		{"none default", "def foo(x = None) -> int: ...", "def foo(x: None = ...) -> int: ..."},
		{"name default", "def foo(x = xyz) -> int: ...", "def foo(x = ...) -> int: ..."},
		{"ellipsis default", "def foo(x = ...) -> int: ...", "def foo(x = ...) -> int: ..."},
		{
			"none widens declared",
			"def foo(x: str = None) -> int: ...",
			"from typing import Union\n\ndef foo(x: Union[str, None] = ...) -> int: ...",
		},
		{"declared wins", "def foo(x: str = 123) -> int: ...", "def foo(x: str = ...) -> int: ..."},
	})
}

func TestBuild_StarParams(t *testing.T) {
	runFormatCases(t, []formatCase{
		{"bare star", "def foo(*, x) -> str: ...", "def foo(*, x) -> str: ..."},
		{"args", "def foo(x: int, *args) -> str: ...", "def foo(x: int, *args) -> str: ..."},
		{
			"typed args",
			"def foo(x: int, *args: float) -> str: ...",
			"from typing import Tuple\n\ndef foo(x: int, *args: float) -> str: ...",
		},
		{"kwargs", "def foo(x: int, **kwargs) -> str: ...", "def foo(x: int, **kwargs) -> str: ..."},
		{
			"typed kwargs",
			"def foo(x: int, **kwargs: float) -> str: ...",
			"from typing import Dict\n\ndef foo(x: int, **kwargs: float) -> str: ...",
		},
		{"both", "def foo(x: int, *args, **kwargs) -> str: ...", "def foo(x: int, *args, **kwargs) -> str: ..."},
		{"ellipsis", "def foo(...) -> int: ...", "def foo(*args, **kwargs) -> int: ..."},
		{"ellipsis after named", "def foo(x: int, ...) -> int: ...", "def foo(x: int, *args, **kwargs) -> int: ..."},
	})

	runErrorCases(t, []errorCase{
		{"lone bare star", "def foo(*) -> int: ...", 1, "Named arguments must follow bare *", core.InvalidParameterForm},
		{"second star", "def foo(*x, *y) -> int: ...", 1, "Unexpected second *", core.InvalidParameterForm},
		{"kwargs not last", "def foo(**x, *y) -> int: ...", 1, "**x must be last parameter", core.InvalidParameterForm},
		{"ellipsis not last", "def foo(..., x) -> int: ...", 1, "ellipsis (...) must be last parameter", core.InvalidParameterForm},
		{"ellipsis with bare star", "def foo(*, ...) -> int: ...", 1, "ellipsis (...) not compatible with bare *", core.InvalidParameterForm},
	})
}

func TestBuild_StarParamTypes(t *testing.T) {
	m, err := Parse("def foo(*args: int, **kwargs: str) -> None: ...", Config{})
	require.NoError(t, err)

	fn := m.Functions[0]
	assert.Equal(t, "Tuple[int, ...]", fn.Param("args").Type.String())
	assert.Equal(t, "Dict[str, str]", fn.Param("kwargs").Type.String())
	assert.Equal(t, core.ParamVarPositional, fn.Param("args").Kind)
	assert.Equal(t, core.ParamVarKeyword, fn.Param("kwargs").Kind)
}

func TestBuild_Decorators(t *testing.T) {
	runFormatCases(t, []formatCase{
		{"overload dropped", "@overload\ndef foo() -> int: ...", "def foo() -> int: ..."},
		{"abstractmethod dropped", "@abstractmethod\ndef foo() -> int: ...", "def foo() -> int: ..."},
		{"staticmethod", "@staticmethod\ndef foo() -> int: ...", "@staticmethod\ndef foo() -> int: ..."},
		{"classmethod", "@classmethod\ndef foo() -> int: ...", "@classmethod\ndef foo() -> int: ..."},
		{"overload with staticmethod", "@overload\n@staticmethod\ndef foo() -> int: ...", "@staticmethod\ndef foo() -> int: ..."},
	})

	runErrorCases(t, []errorCase{
		{"module property", "@property\ndef foo(self) -> int", 0, "Module-level functions with property decorators: foo", core.InvalidDecorator},
		{"module setter", "@foo.setter\ndef foo(self, x) -> int: ...", 0, "Module-level functions with property decorators: foo", core.InvalidDecorator},
		{"too many", "@classmethod\n@staticmethod\ndef foo() -> int: ...", 3, "Too many decorators for foo", core.InvalidDecorator},
		{"unsupported", "\n@cached\ndef foo() -> int: ...", 2, "Unsupported decorator: cached", core.InvalidDecorator},
	})
}

func TestBuild_FunctionBody(t *testing.T) {
	runFormatCases(t, []formatCase{
		{"ellipsis", "def foo() -> int: ...", "def foo() -> int: ..."},
		{"no body", "def foo() -> int", "def foo() -> int: ..."},
		{"inline pass", "def foo() -> int: pass", "def foo() -> int: ..."},
		{"block ellipsis", "def foo() -> int:\n  ...", "def foo() -> int: ..."},
		{"block pass", "def foo() -> int:\n  pass", "def foo() -> int: ..."},
		{"docstring", "def foo() -> int:\n  '''doc string'''", "def foo() -> int: ..."},
		{"mutator", "def foo(x) -> int:\n    x := int", "def foo(x) -> int:\n    x := int"},
		{"raise ignored", "def foo(x) -> int:\n    raise Error", "def foo(x) -> int: ..."},
		{"raise call ignored", "def foo(x) -> int:\n    raise Error()", "def foo(x) -> int: ..."},
		{"return", "def foo() -> int: ...", "def foo() -> int: ..."},
		{"missing return", "def foo(): ...", "from typing import Any\n\ndef foo() -> Any: ..."},
		{"raises", "def foo() -> int raises RuntimeError: ...", "def foo() -> int raises RuntimeError: ..."},
		{
			"raises many",
			"def foo() -> int raises RuntimeError, TypeError: ...",
			"def foo() -> int raises RuntimeError, TypeError: ...",
		},
		{"external", "def foo PYTHONCODE", "def foo PYTHONCODE"},
	})

	perr := checkError(t, "def foo(x) -> int:\n    y := int", 1, "No parameter named y")
	assert.Equal(t, core.UnknownMutatedParameter, perr.Kind)
}

func TestBuild_Classes(t *testing.T) {
	empty := "class Foo:\n    pass\n"
	runFormatCases(t, []formatCase{
		{"canonical", empty, empty},
		{"empty parens", "class Foo():\n    pass\n", empty},
		{"parents", "class Foo(Bar):\n    pass\n", "class Foo(Bar):\n    pass\n"},
		{"two parents", "class Foo(Bar, Baz):\n    pass\n", "class Foo(Bar, Baz):\n    pass\n"},
		{"nothing parent", "class Foo(nothing):\n    pass\n", empty},
		{"nothing among parents", "class Foo(Bar, nothing):\n    pass\n", "class Foo(Bar):\n    pass\n"},
		{"metaclass", "class Foo(metaclass=Meta):\n    pass\n", "class Foo(metaclass=Meta):\n    pass\n"},
		{"parent and metaclass", "class Foo(Bar, metaclass=Meta):\n    pass\n", "class Foo(Bar, metaclass=Meta):\n    pass\n"},
		{"shadow pep484", "class List:\n    def bar(self) -> List: ...\n", "class List:\n    def bar(self) -> List: ...\n"},
		{"inline pass", "class Foo(): pass\n", empty},
		{"inline ellipsis", "class Foo(): ...\n", empty},
		{"block ellipsis", "class Foo():\n    ...\n", empty},
		{"docstring and ellipsis", "class Foo():\n    \"\"\"docstring\"\"\"\n    ...\n", empty},
		{"docstring", "class Foo():\n    \"\"\"docstring\"\"\"\n", empty},
		{"attribute", "class Foo:\n    a = ...  # type: int\n", "class Foo:\n    a = ...  # type: int\n"},
		{"method", "class Foo:\n    def a(self, x: int) -> str: ...\n", "class Foo:\n    def a(self, x: int) -> str: ...\n"},
		{"property", "class Foo:\n    @property\n    def a(self) -> int\n", "class Foo:\n    a = ...  # type: int\n"},
		{
			"property with setter",
			"class Foo:\n    @property\n    def a(self) -> int: ...\n    @a.setter\n    def a(self, v: int) -> None: ...\n",
			"class Foo:\n    a = ...  # type: int\n",
		},
		{
			"setter without getter",
			"class Foo:\n    @a.setter\n    def a(self, v: int) -> None: ...\n",
			"class Foo:\n    pass\n",
		},
		{
			"deleter without getter",
			"class Foo:\n    x = ...  # type: int\n    @a.deleter\n    def a(self) -> None: ...\n",
			"class Foo:\n    x = ...  # type: int\n",
		},
		{"overloaded methods", "class Foo:\n    def x(self) -> int: ...\n    def x(self) -> str: ...\n", "class Foo:\n    def x(self) -> int: ...\n    def x(self) -> str: ...\n"},
		{"quoted name", "class `foo`:\n    pass\n", "class `foo`:\n    pass\n"},
		{
			"conditional body",
			"class Foo:\n    if sys.version_info >= (3,):\n        a = ...  # type: int\n    else:\n        b = ...  # type: str\n",
			"class Foo:\n    b = ...  # type: str\n",
		},
	})

	runErrorCases(t, []errorCase{
		{"bad keyword", "class Foo(badkeyword=Meta):\n    pass\n", 1, "Only 'metaclass' allowed as classdef kwarg", core.SyntaxError},
		{"metaclass not last", "class Foo(metaclass=Meta, Bar):\n    pass\n", 1, "metaclass must be last argument", core.SyntaxError},
		{"duplicate attribute", "class Foo:\n    bar = ...  # type: int\n    bar = ...  # type: str\n", 1, "Duplicate identifier(s): bar", core.DuplicateIdentifier},
		{"method and attribute", "class Foo:\n    def bar(self) -> int: ...\n    bar = ...  # type: str\n", 1, "Duplicate identifier(s): bar", core.DuplicateIdentifier},
		{"nested class", "class Foo:\n    class Bar: pass\n", 2, "syntax error", core.SyntaxError},
	})
}

func TestBuild_SyntaxError(t *testing.T) {
	perr := checkError(t, "123", 1, "syntax error")
	assert.Equal(t, core.SyntaxError, perr.Kind)
}
