package core

// WalkType calls fn for t and every type nested inside it, parents first.
func WalkType(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch n := t.(type) {
	case *GenericType:
		WalkType(n.Base, fn)
		for _, p := range n.Params {
			WalkType(p, fn)
		}
	case *UnionType:
		for _, m := range n.Members {
			WalkType(m, fn)
		}
	case *TupleType:
		for _, e := range n.Elements {
			WalkType(e, fn)
		}
	}
}

// WalkModuleTypes calls WalkType for every type expression in the module,
// in canonical declaration order. Import targets are not types and are
// skipped.
func WalkModuleTypes(m *Module, fn func(Type)) {
	for _, a := range m.Aliases {
		WalkType(a.Type, fn)
	}
	for _, c := range m.Constants {
		WalkType(c.Type, fn)
	}
	for _, f := range m.Functions {
		walkFunction(f, fn)
	}
	for _, c := range m.Classes {
		for _, b := range c.Bases {
			WalkType(b, fn)
		}
		WalkType(c.Metaclass, fn)
		for _, k := range c.Constants {
			WalkType(k.Type, fn)
		}
		for _, f := range c.Methods {
			walkFunction(f, fn)
		}
	}
}

func walkFunction(f *Function, fn func(Type)) {
	for _, p := range f.Params {
		WalkType(p.Type, fn)
	}
	WalkType(f.Return, fn)
	for _, r := range f.Raises {
		WalkType(r, fn)
	}
	for _, m := range f.Mutators {
		WalkType(m.Type, fn)
	}
}
