package pyi

import (
	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/parser"
)

// Parameter error messages
const (
	ErrBareStarNeedsNamed   = "Named arguments must follow bare *"
	ErrSecondStar           = "Unexpected second *"
	ErrKwargsNotLastFmt     = "**%s must be last parameter"
	ErrEllipsisNotLast      = "ellipsis (...) must be last parameter"
	ErrEllipsisWithBareStar = "ellipsis (...) not compatible with bare *"
	ErrUnknownMutatedFmt    = "No parameter named %s"
)

// buildParams validates the star forms of a raw parameter list and converts
// it. Errors are reported at the def line.
func (b *builder) buildParams(def *parser.FuncDef) ([]*core.Parameter, error) {
	line := def.Pos().Line
	raw := def.Params
	params := make([]*core.Parameter, 0, len(raw))
	sawStar := false
	sawBareStar := false

	for i, p := range raw {
		last := i == len(raw)-1
		switch p.Kind {
		case parser.ParamEllipsis:
			if !last {
				return nil, core.Errorf(core.InvalidParameterForm, line, ErrEllipsisNotLast)
			}
			if sawBareStar {
				return nil, core.Errorf(core.InvalidParameterForm, line, ErrEllipsisWithBareStar)
			}
			if sawStar {
				return nil, core.Errorf(core.InvalidParameterForm, line, ErrSecondStar)
			}
			params = append(params,
				&core.Parameter{Name: "args", Kind: core.ParamVarPositional},
				&core.Parameter{Name: "kwargs", Kind: core.ParamVarKeyword})

		case parser.ParamStar:
			if sawStar {
				return nil, core.Errorf(core.InvalidParameterForm, line, ErrSecondStar)
			}
			if last || raw[i+1].Kind == parser.ParamStarStar {
				return nil, core.Errorf(core.InvalidParameterForm, line, ErrBareStarNeedsNamed)
			}
			sawStar, sawBareStar = true, true
			params = append(params, &core.Parameter{Name: "*", Kind: core.ParamBareStar})

		case parser.ParamStarArgs:
			if sawStar {
				return nil, core.Errorf(core.InvalidParameterForm, line, ErrSecondStar)
			}
			sawStar = true
			param := &core.Parameter{Name: p.Name, Kind: core.ParamVarPositional}
			if p.Type != nil {
				elem, err := b.convertType(p.Type)
				if err != nil {
					return nil, err
				}
				param.Type = core.HomogeneousTuple(elem)
			}
			params = append(params, param)

		case parser.ParamStarStar:
			if !last {
				return nil, core.Errorf(core.InvalidParameterForm, line, ErrKwargsNotLastFmt, p.Name)
			}
			param := &core.Parameter{Name: p.Name, Kind: core.ParamVarKeyword}
			if p.Type != nil {
				value, err := b.convertType(p.Type)
				if err != nil {
					return nil, err
				}
				param.Type = &core.GenericType{Base: core.Named("Dict"), Params: []core.Type{core.Named("str"), value}}
			}
			params = append(params, param)

		default:
			param, err := b.namedParam(p)
			if err != nil {
				return nil, err
			}
			if sawStar {
				param.Kind = core.ParamKeywordOnly
			}
			params = append(params, param)
		}
	}
	return params, nil
}

// namedParam converts `x[: T][= default]`. A literal default supplies the
// type when none is declared; a None default widens a declared type to an
// optional one.
func (b *builder) namedParam(p *parser.Param) (*core.Parameter, error) {
	param := &core.Parameter{Name: p.Name, Kind: core.ParamPositional, HasDefault: p.Default != nil}
	declared, err := b.convertOptional(p.Type)
	if err != nil {
		return nil, err
	}
	inferred := literalType(p.Default)

	switch {
	case declared == nil:
		param.Type = inferred
	case core.IsNone(inferred) && !core.IsNone(declared):
		param.Type = core.NewUnion(declared, inferred)
	default:
		param.Type = declared
	}
	return param, nil
}

// literalType infers the type of a literal value: bool, int, float, str or
// None. It returns nil for names, ellipsis and tuples.
func literalType(v parser.Value) core.Type {
	switch v := v.(type) {
	case *parser.NumberValue:
		if v.IsFloat() {
			return core.Named("float")
		}
		return core.Named("int")
	case *parser.StringValue:
		return core.Named("str")
	case *parser.NameValue:
		switch v.Name {
		case "True", "False":
			return core.Named("bool")
		case "None":
			return core.Named("None")
		}
	}
	return nil
}

// buildMutators converts `x := T` statements. Each must name a parameter.
func (b *builder) buildMutators(def *parser.FuncDef, fn *core.Function) error {
	for _, stmt := range def.Body {
		mut, ok := stmt.(*parser.MutatorStmt)
		if !ok {
			continue // raise statements carry no declaration
		}
		if fn.Param(mut.Name) == nil {
			return core.Errorf(core.UnknownMutatedParameter, def.Pos().Line, ErrUnknownMutatedFmt, mut.Name)
		}
		typ, err := b.convertType(mut.Type)
		if err != nil {
			return err
		}
		fn.Mutators = append(fn.Mutators, &core.Mutator{Name: mut.Name, Type: typ})
	}
	return nil
}
