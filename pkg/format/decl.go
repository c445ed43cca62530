package format

import (
	"github.com/leapstack-labs/leapstub/pkg/core"
)

func (p *Printer) formatImport(imp *core.Import) {
	p.write("from " + imp.Module + " import " + imp.Name)
	if imp.AsName != "" {
		p.write(" as " + imp.AsName)
	}
}

func (p *Printer) formatAlias(a *core.Alias) {
	p.write(a.Name + " = " + typeString(a.Type))
}

func (p *Printer) formatConstant(c *core.Constant) {
	p.write(c.Name + " = ...  # type: " + typeString(c.Type))
}

// formatFunction prints one signature. With mutators the body is a block of
// `x := T` lines; otherwise it is `...`.
func (p *Printer) formatFunction(fn *core.Function) {
	if fn.Decorator != "" {
		p.line("@" + fn.Decorator)
	}
	if fn.External {
		p.write("def " + fn.Name + " PYTHONCODE")
		return
	}

	p.write("def " + fn.Name + "(")
	for i, param := range fn.Params {
		if i > 0 {
			p.write(", ")
		}
		p.formatParam(param)
	}
	p.write(") -> " + typeString(fn.Return))
	if len(fn.Raises) > 0 {
		p.write(" raises ")
		p.writeTypes(fn.Raises)
	}

	if len(fn.Mutators) == 0 {
		p.write(": ...")
		return
	}
	p.write(":")
	p.block(func() {
		for _, m := range fn.Mutators {
			p.writeln()
			p.write(m.Name + " := " + typeString(m.Type))
		}
	})
}

func (p *Printer) formatParam(param *core.Parameter) {
	switch param.Kind {
	case core.ParamBareStar:
		p.write("*")
		return
	case core.ParamVarPositional:
		p.write("*" + param.Name)
		if elem := starArgsElement(param.Type); elem != nil {
			p.write(": " + typeString(elem))
		}
		return
	case core.ParamVarKeyword:
		p.write("**" + param.Name)
		if value := kwargsValue(param.Type); value != nil {
			p.write(": " + typeString(value))
		}
		return
	}

	p.write(param.Name)
	if param.Type != nil {
		p.write(": " + typeString(param.Type))
	}
	if param.HasDefault {
		p.write(" = ...")
	}
}

// starArgsElement recovers T from the Tuple[T, ...] stored for `*args: T`.
func starArgsElement(t core.Type) core.Type {
	if tuple, ok := t.(*core.TupleType); ok && tuple.Homogeneous && len(tuple.Elements) == 1 {
		return tuple.Elements[0]
	}
	return t
}

// kwargsValue recovers T from the Dict[str, T] stored for `**kwargs: T`.
func kwargsValue(t core.Type) core.Type {
	if g, ok := t.(*core.GenericType); ok && len(g.Params) == 2 {
		return g.Params[1]
	}
	return t
}

// formatClass prints a class header and its indented body, ending with a
// newline.
func (p *Printer) formatClass(c *core.Class) {
	p.write("class " + className(c))
	if len(c.Bases) > 0 || c.Metaclass != nil {
		p.write("(")
		p.writeTypes(c.Bases)
		if c.Metaclass != nil {
			if len(c.Bases) > 0 {
				p.write(", ")
			}
			p.write("metaclass=" + typeString(c.Metaclass))
		}
		p.write(")")
	}
	p.line(":")

	p.block(func() {
		if len(c.Constants) == 0 && len(c.Methods) == 0 {
			p.line("pass")
		}
		for _, k := range c.Constants {
			p.formatConstant(k)
			p.writeln()
		}
		for _, fn := range c.Methods {
			p.formatFunction(fn)
			p.writeln()
		}
	})
}

func className(c *core.Class) string {
	if c.Synthesized || !isIdentifier(c.Name) {
		return "`" + c.Name + "`"
	}
	return c.Name
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

func typeString(t core.Type) string {
	if t == nil {
		return "Any"
	}
	return t.String()
}
