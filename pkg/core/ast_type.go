package core

import "strings"

// ---------- Type Expressions ----------

// NamedType is a reference to a type by name, possibly package-qualified
// (e.g. "int", "foo.bar.Baz").
type NamedType struct {
	Name string
}

func (*NamedType) typeNode() {}

func (n *NamedType) String() string { return n.Name }

// Module returns the qualifying module of a dotted name, or "" when the name
// is not qualified.
func (n *NamedType) Module() string {
	if i := strings.LastIndexByte(n.Name, '.'); i > 0 {
		return n.Name[:i]
	}
	return ""
}

// GenericType is a parameterized type such as List[int].
type GenericType struct {
	Base   Type
	Params []Type
}

func (*GenericType) typeNode() {}

func (g *GenericType) String() string {
	return g.Base.String() + "[" + joinTypes(g.Params) + "]"
}

// UnionType is a flattened alternation of at least two distinct members.
// Build unions with NewUnion to keep that invariant.
type UnionType struct {
	Members []Type
}

func (*UnionType) typeNode() {}

func (u *UnionType) String() string {
	return "Union[" + joinTypes(u.Members) + "]"
}

// TupleType is either a fixed-shape tuple or, when Homogeneous is set, an
// arbitrary-length tuple of its single element type.
type TupleType struct {
	Elements    []Type
	Homogeneous bool
}

func (*TupleType) typeNode() {}

// String renders homogeneous tuples as Tuple[T, ...]. Fixed-shape tuples use
// the bracket sugar so the text parses back to the same node.
func (t *TupleType) String() string {
	if t.Homogeneous {
		return "Tuple[" + joinTypes(t.Elements) + ", ...]"
	}
	return "[" + joinTypes(t.Elements) + "]"
}

// AnythingType is the unconstrained type, spelled `?` in stubs and printed
// as Any.
type AnythingType struct{}

func (*AnythingType) typeNode() {}

func (*AnythingType) String() string { return "Any" }

// NothingType is the empty type.
type NothingType struct{}

func (*NothingType) typeNode() {}

func (*NothingType) String() string { return "nothing" }

// ClassReference refers to a class whose name is printed back-quoted, which
// covers every class synthesized from a NamedTuple literal.
type ClassReference struct {
	Name string
}

func (*ClassReference) typeNode() {}

func (c *ClassReference) String() string { return "`" + c.Name + "`" }

func joinTypes(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// ---------- Constructors ----------

// Named returns a NamedType for name.
func Named(name string) *NamedType {
	return &NamedType{Name: name}
}

// HomogeneousTuple returns Tuple[elem, ...].
func HomogeneousTuple(elem Type) *TupleType {
	return &TupleType{Elements: []Type{elem}, Homogeneous: true}
}

// NewUnion flattens nested unions, drops structural duplicates while keeping
// first-seen order, and collapses a single surviving member to itself.
// It returns nil when called without members.
func NewUnion(members ...Type) Type {
	var flat []Type
	seen := make(map[string]bool)
	var add func(t Type)
	add = func(t Type) {
		if u, ok := t.(*UnionType); ok {
			for _, m := range u.Members {
				add(m)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, m := range members {
		add(m)
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return &UnionType{Members: flat}
}

// IsNone reports whether t is the None type.
func IsNone(t Type) bool {
	n, ok := t.(*NamedType)
	return ok && n.Name == "None"
}
