package format

import "github.com/leapstack-labs/leapstub/pkg/core"

// ModuleDump is a serializable view of a module AST. Types are rendered in
// their printed form.
type ModuleDump struct {
	Imports         []ImportDump   `json:"imports,omitempty" yaml:"imports,omitempty"`
	Aliases         []NameDump     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Constants       []NameDump     `json:"constants,omitempty" yaml:"constants,omitempty"`
	Functions       []FunctionDump `json:"functions,omitempty" yaml:"functions,omitempty"`
	Classes         []ClassDump    `json:"classes,omitempty" yaml:"classes,omitempty"`
	RequiredImports []string       `json:"required_imports,omitempty" yaml:"required_imports,omitempty"`
}

// ImportDump is a from-import.
type ImportDump struct {
	Module string `json:"module" yaml:"module"`
	Name   string `json:"name" yaml:"name"`
	AsName string `json:"as,omitempty" yaml:"as,omitempty"`
}

// NameDump is a name bound to a type.
type NameDump struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// FunctionDump is one function signature.
type FunctionDump struct {
	Name      string      `json:"name" yaml:"name"`
	Decorator string      `json:"decorator,omitempty" yaml:"decorator,omitempty"`
	Params    []ParamDump `json:"params,omitempty" yaml:"params,omitempty"`
	Return    string      `json:"return" yaml:"return"`
	Raises    []string    `json:"raises,omitempty" yaml:"raises,omitempty"`
	Mutators  []NameDump  `json:"mutators,omitempty" yaml:"mutators,omitempty"`
	External  bool        `json:"external,omitempty" yaml:"external,omitempty"`
}

// ParamDump is one parameter.
type ParamDump struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind       string `json:"kind" yaml:"kind"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	HasDefault bool   `json:"has_default,omitempty" yaml:"has_default,omitempty"`
}

// ClassDump is a class definition.
type ClassDump struct {
	Name        string         `json:"name" yaml:"name"`
	Synthesized bool           `json:"synthesized,omitempty" yaml:"synthesized,omitempty"`
	Bases       []string       `json:"bases,omitempty" yaml:"bases,omitempty"`
	Metaclass   string         `json:"metaclass,omitempty" yaml:"metaclass,omitempty"`
	Constants   []NameDump     `json:"constants,omitempty" yaml:"constants,omitempty"`
	Methods     []FunctionDump `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// Dump converts m into its serializable view.
func Dump(m *core.Module) *ModuleDump {
	d := &ModuleDump{RequiredImports: m.RequiredImports}
	for _, imp := range m.Imports {
		d.Imports = append(d.Imports, ImportDump{Module: imp.Module, Name: imp.Name, AsName: imp.AsName})
	}
	for _, a := range m.Aliases {
		d.Aliases = append(d.Aliases, NameDump{Name: a.Name, Type: typeString(a.Type)})
	}
	d.Constants = dumpConstants(m.Constants)
	for _, fn := range m.Functions {
		d.Functions = append(d.Functions, dumpFunction(fn))
	}
	for _, c := range m.Classes {
		cd := ClassDump{
			Name:        c.Name,
			Synthesized: c.Synthesized,
			Bases:       typeStrings(c.Bases),
			Constants:   dumpConstants(c.Constants),
		}
		if c.Metaclass != nil {
			cd.Metaclass = c.Metaclass.String()
		}
		for _, fn := range c.Methods {
			cd.Methods = append(cd.Methods, dumpFunction(fn))
		}
		d.Classes = append(d.Classes, cd)
	}
	return d
}

func dumpConstants(constants []*core.Constant) []NameDump {
	var out []NameDump
	for _, c := range constants {
		out = append(out, NameDump{Name: c.Name, Type: typeString(c.Type)})
	}
	return out
}

func dumpFunction(fn *core.Function) FunctionDump {
	fd := FunctionDump{
		Name:      fn.Name,
		Decorator: fn.Decorator,
		Return:    typeString(fn.Return),
		Raises:    typeStrings(fn.Raises),
		External:  fn.External,
	}
	for _, p := range fn.Params {
		pd := ParamDump{Name: p.Name, Kind: p.Kind.String(), HasDefault: p.HasDefault}
		if p.Type != nil {
			pd.Type = p.Type.String()
		}
		fd.Params = append(fd.Params, pd)
	}
	for _, mu := range fn.Mutators {
		fd.Mutators = append(fd.Mutators, NameDump{Name: mu.Name, Type: typeString(mu.Type)})
	}
	return fd
}

func typeStrings(types []core.Type) []string {
	var out []string
	for _, t := range types {
		out = append(out, typeString(t))
	}
	return out
}
