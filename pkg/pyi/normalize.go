package pyi

import (
	"strings"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/parser"
)

// ErrDoubleEllipsis is reported for a generic ending in `..., ...`.
const ErrDoubleEllipsis = "multiple trailing ellipses (...) are not supported"

const typingPrefix = "typing."

// pep484Lowering maps capitalized container aliases to their runtime names.
// It applies to bare names only; `List[int]` keeps its spelling.
var pep484Lowering = map[string]string{
	"List":      "list",
	"Dict":      "dict",
	"Set":       "set",
	"FrozenSet": "frozenset",
	"Tuple":     "tuple",
	"Type":      "type",
}

// convertType normalizes a raw type expression.
func (b *builder) convertType(t parser.TypeExpr) (core.Type, error) {
	switch t := t.(type) {
	case *parser.AnyType, *parser.EllipsisType:
		return &core.AnythingType{}, nil
	case *parser.NameType:
		return b.resolveName(t.Name), nil
	case *parser.QuotedNameType:
		return &core.ClassReference{Name: t.Name}, nil
	case *parser.OrType:
		members, err := b.convertTypes(t.Members)
		if err != nil {
			return nil, err
		}
		return core.NewUnion(members...), nil
	case *parser.TupleSugarType:
		elems, err := b.convertTypes(t.Elems)
		if err != nil {
			return nil, err
		}
		return &core.TupleType{Elements: elems}, nil
	case *parser.GenericType:
		return b.convertGeneric(t)
	case *parser.NamedTupleType:
		return b.synthesizeNamedTuple(t)
	}
	return nil, core.Errorf(core.SyntaxError, 0, "unsupported type expression %T", t)
}

func (b *builder) convertTypes(raw []parser.TypeExpr) ([]core.Type, error) {
	out := make([]core.Type, 0, len(raw))
	for _, r := range raw {
		t, err := b.convertType(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// convertOptional normalizes t, passing nil through.
func (b *builder) convertOptional(t parser.TypeExpr) (core.Type, error) {
	if t == nil {
		return nil, nil
	}
	return b.convertType(t)
}

// resolveName normalizes a bare or dotted type name. Imported names resolve
// to their qualified form first; a local class keeps its spelling; the
// remaining reserved names are lowered.
func (b *builder) resolveName(name string) core.Type {
	if qualified, ok := b.resolveImport(name); ok {
		return core.Named(qualified)
	}
	if b.isLocalClass(name) {
		return core.Named(name)
	}
	switch name {
	case "Any":
		return &core.AnythingType{}
	case "nothing":
		return &core.NothingType{}
	}
	if lowered, ok := pep484Lowering[name]; ok {
		return core.Named(lowered)
	}
	return core.Named(name)
}

// resolveImport maps a name whose first component was from-imported to its
// qualified form: with `from m import Foo`, `Foo.Bar` becomes `m.Foo.Bar`.
func (b *builder) resolveImport(name string) (string, bool) {
	head, rest, dotted := strings.Cut(name, ".")
	qualified, ok := b.imports[head]
	if !ok {
		return "", false
	}
	if dotted {
		return qualified + "." + rest, true
	}
	return qualified, true
}

func (b *builder) isLocalClass(name string) bool {
	_, ok := b.localClasses[name]
	return ok
}

// specialForm returns the typing construct a generic base names ("Tuple",
// "Union", ...), or "" when the base is shadowed or ordinary.
func (b *builder) specialForm(name string) string {
	if _, ok := b.resolveImport(name); ok {
		return ""
	}
	if b.isLocalClass(name) {
		return ""
	}
	name = strings.TrimPrefix(name, typingPrefix)
	switch name {
	case "Tuple", "Union", "Optional", "Callable":
		return name
	}
	return ""
}

// convertGeneric normalizes `Base[args]`.
func (b *builder) convertGeneric(g *parser.GenericType) (core.Type, error) {
	line := g.Pos().Line
	form := b.specialForm(g.Base.Name)

	base := g.Base.Name
	if qualified, ok := b.resolveImport(base); ok {
		base = qualified
	}

	if form == "Tuple" {
		return b.convertTupleArgs(g.Args, line)
	}

	args, err := b.genericArgs(g.Args, line)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		args = []core.Type{&core.AnythingType{}}
	}
	switch form {
	case "Union":
		return core.NewUnion(args...), nil
	case "Optional":
		return core.NewUnion(append(args, core.Named("None"))...), nil
	case "Callable":
		if len(g.Args) == 1 {
			return core.Named(base), nil
		}
	}
	return &core.GenericType{Base: core.Named(base), Params: args}, nil
}

// genericArgs drops one trailing `...` from a generic argument list and
// normalizes the rest. Any other `...` stands for Any.
func (b *builder) genericArgs(raw []parser.TypeExpr, line int) ([]core.Type, error) {
	raw, _, err := splitTrailingEllipsis(raw, line)
	if err != nil {
		return nil, err
	}
	return b.convertTypes(raw)
}

// convertTupleArgs applies the tuple rules: a single element, or an explicit
// trailing `...`, makes the tuple homogeneous; several elements collapse to
// a homogeneous tuple of their union, with Any added for the open slot of a
// trailing `...`.
func (b *builder) convertTupleArgs(raw []parser.TypeExpr, line int) (core.Type, error) {
	if len(raw) == 0 {
		return &core.TupleType{}, nil
	}
	raw, variadic, err := splitTrailingEllipsis(raw, line)
	if err != nil {
		return nil, err
	}
	elems, err := b.convertTypes(raw)
	if err != nil {
		return nil, err
	}
	switch {
	case len(elems) == 0:
		return core.HomogeneousTuple(&core.AnythingType{}), nil
	case len(elems) == 1:
		return core.HomogeneousTuple(elems[0]), nil
	case variadic:
		elems = append(elems, &core.AnythingType{})
	}
	return core.HomogeneousTuple(core.NewUnion(elems...)), nil
}

// splitTrailingEllipsis removes a single trailing `...` and reports whether
// it was present. Two trailing ellipses are an error.
func splitTrailingEllipsis(raw []parser.TypeExpr, line int) ([]parser.TypeExpr, bool, error) {
	n := len(raw)
	if n == 0 || !isEllipsis(raw[n-1]) {
		return raw, false, nil
	}
	if n >= 2 && isEllipsis(raw[n-2]) {
		return nil, false, core.Errorf(core.SyntaxError, line, ErrDoubleEllipsis)
	}
	return raw[:n-1], true, nil
}

func isEllipsis(t parser.TypeExpr) bool {
	_, ok := t.(*parser.EllipsisType)
	return ok
}
