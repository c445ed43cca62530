package pyi

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/parser"
)

// Declaration error messages
const (
	ErrModuleDuplicatesFmt = "Duplicate top-level identifier(s): %s"
	ErrClassDuplicatesFmt  = "Duplicate identifier(s): %s"
	ErrRenamedModule       = "Renaming of modules not supported"
	ErrClassKeyword        = "Only 'metaclass' allowed as classdef kwarg"
	ErrMetaclassNotLast    = "metaclass must be last argument"
	ErrUnsupportedValueFmt = "Unsupported value for %s"
	ErrNonZeroInt          = "Only '0' allowed as int literal"
)

const metaclassKeyword = "metaclass"

// ignoredImportModules are from-import sources whose names are never
// recorded: typing names are resolved structurally.
var ignoredImportModules = map[string]bool{
	"typing":     true,
	"__future__": true,
}

// builder holds the per-call state of one build.
type builder struct {
	target Config
	logger *slog.Logger

	// imports maps from-imported local names to qualified names.
	imports map[string]string
	// localClasses holds the names of live module-level classes; they
	// shadow the reserved names that would otherwise be lowered.
	localClasses map[string]struct{}
	// relativeNames holds local names imported from relative modules. They
	// keep their local spelling and never require a module import.
	relativeNames map[string]struct{}

	tupleNames  *tupleNames
	synthesized []*core.Class
}

func newBuilder(cfg Config) *builder {
	return &builder{
		target:        cfg,
		logger:        cfg.Logger,
		imports:       make(map[string]string),
		localClasses:  make(map[string]struct{}),
		relativeNames: make(map[string]struct{}),
		tupleNames:    newTupleNames(),
	}
}

func (b *builder) build(file *parser.File) (*core.Module, error) {
	live, err := b.selectLive(file.Stmts)
	if err != nil {
		return nil, err
	}
	b.collectNames(live)

	module := &core.Module{}
	scope := NewScope()
	var propertyFuncs []string

	for _, stmt := range live {
		switch s := stmt.(type) {
		case *parser.ImportStmt:
			if err := checkImport(s); err != nil {
				return nil, err
			}
		case *parser.FromImportStmt:
			for _, imp := range fromImports(s) {
				module.Imports = append(module.Imports, imp)
				scope.Register(ScopeImport, imp.DeclName())
			}
		case *parser.AssignStmt:
			decl, err := b.assignment(s)
			if err != nil {
				return nil, err
			}
			switch d := decl.(type) {
			case *core.Alias:
				module.Aliases = append(module.Aliases, d)
				scope.Register(ScopeAlias, d.Name)
			case *core.Constant:
				module.Constants = append(module.Constants, d)
				scope.Register(ScopeConstant, d.Name)
			}
		case *parser.FuncDef:
			fn, kind, err := b.function(s)
			if err != nil {
				return nil, err
			}
			if isPropertyKind(kind) {
				propertyFuncs = append(propertyFuncs, fn.Name)
				continue
			}
			module.Functions = append(module.Functions, fn)
			scope.Register(ScopeFunction, fn.Name)
		case *parser.ClassDef:
			class, err := b.class(s)
			if err != nil {
				return nil, err
			}
			module.Classes = append(module.Classes, class)
			scope.Register(ScopeClass, class.Name)
		}
	}

	for _, class := range b.synthesized {
		module.Classes = append(module.Classes, class)
		scope.Register(ScopeClass, class.Name)
	}

	if len(propertyFuncs) > 0 {
		return nil, core.Errorf(core.InvalidDecorator, 0, ErrModulePropertiesFmt, joinSorted(propertyFuncs))
	}
	if dups := scope.DuplicateList(); dups != "" {
		return nil, core.Errorf(core.DuplicateIdentifier, 0, ErrModuleDuplicatesFmt, dups)
	}

	module.RequiredImports = b.requiredImports(module)
	b.logger.Debug("built module",
		"imports", len(module.Imports),
		"constants", len(module.Constants),
		"functions", len(module.Functions),
		"classes", len(module.Classes))
	return module, nil
}

// collectNames records the from-imports and classes of the live statements
// before any declaration is converted, so resolution does not depend on
// where in the module a name is declared.
func (b *builder) collectNames(live []parser.Stmt) {
	for _, stmt := range live {
		switch s := stmt.(type) {
		case *parser.FromImportStmt:
			for _, imp := range fromImports(s) {
				if strings.HasPrefix(imp.Module, ".") {
					b.relativeNames[imp.DeclName()] = struct{}{}
					continue
				}
				b.imports[imp.DeclName()] = imp.Module + "." + imp.Name
			}
		case *parser.ClassDef:
			b.localClasses[s.Name] = struct{}{}
		}
	}
}

// ---------- Imports ----------

func checkImport(s *parser.ImportStmt) error {
	for _, item := range s.Items {
		if item.AsName != "" {
			return core.Errorf(core.SyntaxError, s.Pos().Line, ErrRenamedModule)
		}
	}
	return nil
}

// fromImports returns the recorded entries of a from-import. Star imports
// and typing imports record nothing.
func fromImports(s *parser.FromImportStmt) []*core.Import {
	if s.Star || ignoredImportModules[s.Module] {
		return nil
	}
	out := make([]*core.Import, 0, len(s.Items))
	for _, item := range s.Items {
		out = append(out, &core.Import{Module: s.Module, Name: item.Name, AsName: item.AsName})
	}
	return out
}

// ---------- Constants and aliases ----------

// assignment converts `x = value`: a literal or `...` makes a constant, a
// name makes an alias, and an explicit annotation always makes a constant.
// The only int literal accepted as a value is 0.
func (b *builder) assignment(s *parser.AssignStmt) (core.Decl, error) {
	if s.Annotation != nil {
		typ, err := b.convertType(s.Annotation)
		if err != nil {
			return nil, err
		}
		return &core.Constant{Name: s.Name, Type: typ}, nil
	}

	if _, ok := s.Value.(*parser.EllipsisValue); ok {
		return &core.Constant{Name: s.Name, Type: &core.AnythingType{}}, nil
	}
	if num, ok := s.Value.(*parser.NumberValue); ok && !num.IsFloat() && !num.IsZero() {
		return nil, core.Errorf(core.SyntaxError, s.Pos().Line, ErrNonZeroInt)
	}
	if typ := literalType(s.Value); typ != nil {
		return &core.Constant{Name: s.Name, Type: typ}, nil
	}
	if name, ok := s.Value.(*parser.NameValue); ok {
		return &core.Alias{Name: s.Name, Type: b.resolveName(name.Name)}, nil
	}
	return nil, core.Errorf(core.SyntaxError, s.Pos().Line, ErrUnsupportedValueFmt, s.Name)
}

// ---------- Functions ----------

// function converts a def. The decorator kind is returned so callers can
// turn properties into attributes.
func (b *builder) function(def *parser.FuncDef) (*core.Function, DecoratorKind, error) {
	kind, err := resolveDecorators(def)
	if err != nil {
		return nil, DecoratorNone, err
	}
	fn := &core.Function{Name: def.Name, Decorator: decoratorName(kind)}
	if def.External {
		fn.External = true
		return fn, kind, nil
	}

	if fn.Params, err = b.buildParams(def); err != nil {
		return nil, DecoratorNone, err
	}
	if def.Return == nil {
		b.logger.Debug("defaulting return type to Any", "function", def.Name)
		fn.Return = &core.AnythingType{}
	} else if fn.Return, err = b.convertType(def.Return); err != nil {
		return nil, DecoratorNone, err
	}
	if fn.Raises, err = b.convertTypes(def.Raises); err != nil {
		return nil, DecoratorNone, err
	}
	if len(fn.Raises) == 0 {
		fn.Raises = nil
	}
	if err := b.buildMutators(def, fn); err != nil {
		return nil, DecoratorNone, err
	}
	return fn, kind, nil
}

// ---------- Classes ----------

func (b *builder) class(def *parser.ClassDef) (*core.Class, error) {
	line := def.Pos().Line
	class := &core.Class{Name: def.Name, Synthesized: def.Quoted}

	for _, arg := range def.Args {
		if arg.Keyword != "" {
			if arg.Keyword != metaclassKeyword {
				return nil, core.Errorf(core.SyntaxError, line, ErrClassKeyword)
			}
			meta, err := b.convertType(arg.Type)
			if err != nil {
				return nil, err
			}
			class.Metaclass = meta
			continue
		}
		if class.Metaclass != nil {
			return nil, core.Errorf(core.SyntaxError, line, ErrMetaclassNotLast)
		}
		base, err := b.convertType(arg.Type)
		if err != nil {
			return nil, err
		}
		if _, ok := base.(*core.NothingType); ok {
			continue
		}
		class.Bases = append(class.Bases, base)
	}

	body, err := b.selectLive(def.Body)
	if err != nil {
		return nil, err
	}
	if err := b.classBody(class, body, line); err != nil {
		return nil, err
	}
	return class, nil
}

// classBody fills in the attributes and methods of class. A property getter
// becomes an attribute typed by its return; setters and deleters contribute
// nothing.
func (b *builder) classBody(class *core.Class, body []parser.Stmt, line int) error {
	scope := NewScope()

	for _, stmt := range body {
		switch s := stmt.(type) {
		case *parser.AssignStmt:
			decl, err := b.assignment(s)
			if err != nil {
				return err
			}
			constant := classConstant(decl)
			class.Constants = append(class.Constants, constant)
			scope.Register(ScopeConstant, constant.Name)
		case *parser.FuncDef:
			fn, kind, err := b.function(s)
			if err != nil {
				return err
			}
			switch kind {
			case DecoratorProperty:
				class.Constants = append(class.Constants, &core.Constant{Name: fn.Name, Type: fn.Return})
				scope.Register(ScopeConstant, fn.Name)
			case DecoratorAccessor:
				b.logger.Debug("ignoring property accessor", "class", class.Name, "name", fn.Name)
			default:
				class.Methods = append(class.Methods, fn)
				scope.Register(ScopeFunction, fn.Name)
			}
		}
	}

	if dups := scope.DuplicateList(); dups != "" {
		return core.Errorf(core.DuplicateIdentifier, line, ErrClassDuplicatesFmt, dups)
	}
	return nil
}

// classConstant turns an assignment in a class body into an attribute; an
// alias there names the attribute's type.
func classConstant(decl core.Decl) *core.Constant {
	switch d := decl.(type) {
	case *core.Alias:
		return &core.Constant{Name: d.Name, Type: d.Type}
	case *core.Constant:
		return d
	}
	return nil
}

// ---------- Module checks ----------

// requiredImports lists the modules of every qualified type name, except
// names rooted at a relatively imported local name.
func (b *builder) requiredImports(m *core.Module) []string {
	seen := make(map[string]bool)
	var out []string
	core.WalkModuleTypes(m, func(t core.Type) {
		named, ok := t.(*core.NamedType)
		if !ok {
			return
		}
		mod := named.Module()
		if mod == "" || seen[mod] {
			return
		}
		head, _, _ := strings.Cut(mod, ".")
		if _, relative := b.relativeNames[head]; relative {
			return
		}
		seen[mod] = true
		out = append(out, mod)
	})
	sort.Strings(out)
	return out
}

func joinSorted(names []string) string {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	sort.Strings(unique)
	return strings.Join(unique, ", ")
}
