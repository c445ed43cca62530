package core

// ---------- Declarations ----------

// Module is the canonical AST of one stub file.
//
// Entries are grouped by kind; each group keeps source order. No two
// top-level entries share a name, except Functions, where repeated names are
// overload variants.
type Module struct {
	Imports   []*Import
	Aliases   []*Alias
	Constants []*Constant
	Functions []*Function
	Classes   []*Class

	// RequiredImports lists the modules that qualified type references
	// depend on (sorted, deduplicated).
	RequiredImports []string
}

// Lookup returns every top-level declaration named name.
func (m *Module) Lookup(name string) []Decl {
	var out []Decl
	for _, d := range m.Decls() {
		if d.DeclName() == name {
			out = append(out, d)
		}
	}
	return out
}

// Decls returns all top-level declarations in canonical order.
func (m *Module) Decls() []Decl {
	out := make([]Decl, 0, len(m.Imports)+len(m.Aliases)+len(m.Constants)+len(m.Functions)+len(m.Classes))
	for _, d := range m.Imports {
		out = append(out, d)
	}
	for _, d := range m.Aliases {
		out = append(out, d)
	}
	for _, d := range m.Constants {
		out = append(out, d)
	}
	for _, d := range m.Functions {
		out = append(out, d)
	}
	for _, d := range m.Classes {
		out = append(out, d)
	}
	return out
}

// Import is a `from Module import Name [as AsName]` entry.
type Import struct {
	Module string
	Name   string
	AsName string
}

func (*Import) declNode() {}

// DeclName returns the local name the import binds.
func (i *Import) DeclName() string {
	if i.AsName != "" {
		return i.AsName
	}
	return i.Name
}

// Qualified returns the fully qualified name of the imported entity.
func (i *Import) Qualified() string {
	return i.Module + "." + i.Name
}

// Alias binds a name to another type name.
type Alias struct {
	Name string
	Type Type
}

func (*Alias) declNode() {}

// DeclName implements Decl.
func (a *Alias) DeclName() string { return a.Name }

// Constant is a named value of a known type.
type Constant struct {
	Name string
	Type Type
}

func (*Constant) declNode() {}

// DeclName implements Decl.
func (c *Constant) DeclName() string { return c.Name }

// Function is one signature of a function or method.
type Function struct {
	Name      string
	Params    []*Parameter
	Return    Type
	Raises    []Type
	Mutators  []*Mutator
	Decorator string // "staticmethod", "classmethod" or ""
	External  bool   // body is foreign code (PYTHONCODE)
}

func (*Function) declNode() {}

// DeclName implements Decl.
func (f *Function) DeclName() string { return f.Name }

// Param returns the parameter named name, or nil.
func (f *Function) Param(name string) *Parameter {
	for _, p := range f.Params {
		if p.Kind != ParamBareStar && p.Name == name {
			return p
		}
	}
	return nil
}

// Mutator re-types a parameter inside a function body (`x := T`).
type Mutator struct {
	Name string
	Type Type
}

// ParamKind classifies a parameter by its star form.
type ParamKind int

// Parameter kinds.
const (
	ParamPositional    ParamKind = iota // x
	ParamBareStar                       // *
	ParamVarPositional                  // *args
	ParamKeywordOnly                    // x after * or *args
	ParamVarKeyword                     // **kwargs
)

// String returns the string representation of the parameter kind.
func (k ParamKind) String() string {
	switch k {
	case ParamPositional:
		return "positional"
	case ParamBareStar:
		return "bare-star"
	case ParamVarPositional:
		return "var-positional"
	case ParamKeywordOnly:
		return "keyword-only"
	case ParamVarKeyword:
		return "var-keyword"
	default:
		return "unknown"
	}
}

// Parameter is one entry of a function's parameter list.
//
// A declared `*args: T` is stored as Tuple[T, ...] and `**kwargs: T` as
// Dict[str, T]. Type is nil when no type was declared or inferred.
type Parameter struct {
	Name       string
	Type       Type
	HasDefault bool
	Kind       ParamKind
}

// Class is a class definition.
type Class struct {
	Name string
	// Synthesized marks classes created from NamedTuple literals. Their names
	// (and back-quoted class names read from source) print back-quoted.
	Synthesized bool
	Bases       []Type
	Metaclass   Type
	Constants   []*Constant
	Methods     []*Function
}

func (*Class) declNode() {}

// DeclName implements Decl.
func (c *Class) DeclName() string { return c.Name }

// Ref returns the type expression that refers to the class.
func (c *Class) Ref() Type {
	if c.Synthesized {
		return &ClassReference{Name: c.Name}
	}
	return Named(c.Name)
}
