package pyi

import (
	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/parser"
)

// Decorator error messages
const (
	ErrTooManyDecoratorsFmt    = "Too many decorators for %s"
	ErrUnsupportedDecoratorFmt = "Unsupported decorator: %s"
	ErrModulePropertiesFmt     = "Module-level functions with property decorators: %s"
)

const (
	decoratorStaticMethod   = "staticmethod"
	decoratorClassMethod    = "classmethod"
	decoratorProperty       = "property"
	decoratorOverload       = "overload"
	decoratorAbstractMethod = "abstractmethod"
	qualifierSetter         = "setter"
	qualifierDeleter        = "deleter"
)

// DecoratorKind classifies the behavior a function's decorators select.
type DecoratorKind int

const (
	// DecoratorNone leaves the function as is.
	DecoratorNone DecoratorKind = iota
	// DecoratorStaticMethod marks a static method.
	DecoratorStaticMethod
	// DecoratorClassMethod marks a class method.
	DecoratorClassMethod
	// DecoratorProperty turns a method into an attribute.
	DecoratorProperty
	// DecoratorAccessor marks a property setter or deleter, which adds
	// nothing of its own.
	DecoratorAccessor
)

// resolveDecorators classifies the decorator stack of def. `overload` and
// `abstractmethod` are dropped; at most one of the remaining decorators may
// be present.
func resolveDecorators(def *parser.FuncDef) (DecoratorKind, error) {
	kind := DecoratorNone
	kept := 0
	for _, dec := range def.Decorators {
		var k DecoratorKind
		switch {
		case dec.Qualifier == "" && (dec.Name == decoratorOverload || dec.Name == decoratorAbstractMethod):
			continue
		case dec.Qualifier == "" && dec.Name == decoratorStaticMethod:
			k = DecoratorStaticMethod
		case dec.Qualifier == "" && dec.Name == decoratorClassMethod:
			k = DecoratorClassMethod
		case dec.Qualifier == "" && dec.Name == decoratorProperty:
			k = DecoratorProperty
		case dec.Qualifier == qualifierSetter || dec.Qualifier == qualifierDeleter:
			k = DecoratorAccessor
		default:
			return DecoratorNone, core.Errorf(core.InvalidDecorator, dec.Pos().Line, ErrUnsupportedDecoratorFmt, dec.String())
		}
		kept++
		kind = k
	}
	if kept > 1 {
		return DecoratorNone, core.Errorf(core.InvalidDecorator, def.Pos().Line, ErrTooManyDecoratorsFmt, def.Name)
	}
	return kind, nil
}

// isPropertyKind reports whether kind is only legal inside a class body.
func isPropertyKind(kind DecoratorKind) bool {
	return kind == DecoratorProperty || kind == DecoratorAccessor
}

// decoratorName returns the decorator kept on the emitted function.
func decoratorName(kind DecoratorKind) string {
	switch kind {
	case DecoratorStaticMethod:
		return decoratorStaticMethod
	case DecoratorClassMethod:
		return decoratorClassMethod
	}
	return ""
}
