package format

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/leapstub/pkg/core"
)

// typingNames are the bare names that need `from typing import ...` when
// printed. Local classes of the same name shadow them.
var typingNames = map[string]bool{
	"Any": true, "AnyStr": true, "AbstractSet": true, "Awaitable": true,
	"Callable": true, "Container": true, "Dict": true, "FrozenSet": true,
	"Generator": true, "Generic": true, "Hashable": true, "IO": true,
	"ItemsView": true, "Iterable": true, "Iterator": true, "KeysView": true,
	"List": true, "Mapping": true, "MappingView": true, "MutableMapping": true,
	"MutableSequence": true, "MutableSet": true, "NamedTuple": true,
	"Optional": true, "Reversible": true, "Sequence": true, "Set": true,
	"Sized": true, "SupportsAbs": true, "SupportsFloat": true,
	"SupportsInt": true, "Text": true, "Tuple": true, "Type": true,
	"TypeVar": true, "Union": true, "ValuesView": true,
}

// Format renders m as canonical stub text.
//
// The output is a sequence of sections separated by blank lines: the import
// prologue, from-imports and aliases, constants, functions and classes.
// Empty sections are omitted. Classes are separated by blank lines and each
// ends with a newline; otherwise the text has no trailing newline.
func Format(m *core.Module) string {
	var sections []string
	add := func(lines []string, sep string) {
		if len(lines) > 0 {
			sections = append(sections, strings.Join(lines, sep))
		}
	}

	add(prologue(m), "\n")

	var decls []string
	for _, imp := range m.Imports {
		decls = append(decls, FormatDecl(imp))
	}
	for _, a := range m.Aliases {
		decls = append(decls, FormatDecl(a))
	}
	add(decls, "\n")

	var constants []string
	for _, c := range m.Constants {
		constants = append(constants, FormatDecl(c))
	}
	add(constants, "\n")

	var functions []string
	for _, fn := range m.Functions {
		functions = append(functions, FormatDecl(fn))
	}
	add(functions, "\n")

	var classes []string
	for _, c := range m.Classes {
		classes = append(classes, FormatDecl(c)+"\n")
	}
	add(classes, "\n")

	return strings.Join(sections, "\n\n")
}

// FormatDecl renders one declaration as it appears in Format, without a
// trailing newline.
func FormatDecl(d core.Decl) string {
	p := newPrinter()
	switch d := d.(type) {
	case *core.Import:
		p.formatImport(d)
	case *core.Alias:
		p.formatAlias(d)
	case *core.Constant:
		p.formatConstant(d)
	case *core.Function:
		p.formatFunction(d)
	case *core.Class:
		p.formatClass(d)
	}
	return p.String()
}

// prologue returns one `import M` line per required module followed by the
// grouped typing import.
func prologue(m *core.Module) []string {
	lines := make([]string, 0, len(m.RequiredImports)+1)
	for _, mod := range m.RequiredImports {
		lines = append(lines, "import "+mod)
	}
	if names := TypingImports(m); len(names) > 0 {
		lines = append(lines, "from typing import "+strings.Join(names, ", "))
	}
	return lines
}

// TypingImports returns the sorted typing names referenced by m. A name
// declared as a module class is never imported, since the import would
// shadow the class.
func TypingImports(m *core.Module) []string {
	local := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		local[c.Name] = true
	}

	seen := make(map[string]bool)
	use := func(name string) {
		if !local[name] {
			seen[name] = true
		}
	}
	core.WalkModuleTypes(m, func(t core.Type) {
		switch t := t.(type) {
		case *core.AnythingType:
			use("Any")
		case *core.UnionType:
			use("Union")
		case *core.TupleType:
			if t.Homogeneous {
				use("Tuple")
			}
		case *core.NamedType:
			if typingNames[t.Name] {
				use(t.Name)
			}
		}
	})
	// Functions without a declared return print as Any.
	forEachFunction(m, func(fn *core.Function) {
		if fn.Return == nil && !fn.External {
			use("Any")
		}
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func forEachFunction(m *core.Module, fn func(*core.Function)) {
	for _, f := range m.Functions {
		fn(f)
	}
	for _, c := range m.Classes {
		for _, f := range c.Methods {
			fn(f)
		}
	}
}
