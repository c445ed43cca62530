package pyi

import (
	"sort"
	"strings"
)

// ScopeType indicates the kind of declaration a scope entry holds.
type ScopeType int

const (
	// ScopeImport represents a from-imported name.
	ScopeImport ScopeType = iota
	// ScopeAlias represents `x = Name`.
	ScopeAlias
	// ScopeConstant represents a constant or class attribute.
	ScopeConstant
	// ScopeFunction represents a function or method; repeats are overloads.
	ScopeFunction
	// ScopeClass represents a class, including synthesized ones.
	ScopeClass
)

// String returns the string representation of the scope type.
func (t ScopeType) String() string {
	switch t {
	case ScopeImport:
		return "import"
	case ScopeAlias:
		return "alias"
	case ScopeConstant:
		return "constant"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	default:
		return "unknown"
	}
}

// ScopeEntry represents a name declared in a scope.
type ScopeEntry struct {
	Type ScopeType
	Name string
}

// Scope tracks the names declared at one lexical level: the module, or one
// class body. Every declaration is registered, and collisions are collected
// instead of failing fast so they can be reported together.
type Scope struct {
	entries    map[string]*ScopeEntry
	duplicates map[string]struct{}
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{
		entries:    make(map[string]*ScopeEntry),
		duplicates: make(map[string]struct{}),
	}
}

// Register declares name. A function may repeat a function of the same name;
// any other repeat is recorded as a duplicate.
func (s *Scope) Register(typ ScopeType, name string) {
	existing, ok := s.entries[name]
	if !ok {
		s.entries[name] = &ScopeEntry{Type: typ, Name: name}
		return
	}
	if existing.Type == ScopeFunction && typ == ScopeFunction {
		return
	}
	s.duplicates[name] = struct{}{}
}

// Duplicates returns the colliding names in alphabetical order.
func (s *Scope) Duplicates() []string {
	names := make([]string, 0, len(s.duplicates))
	for name := range s.duplicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DuplicateList returns the colliding names joined for an error message, or
// "" when there are none.
func (s *Scope) DuplicateList() string {
	return strings.Join(s.Duplicates(), ", ")
}
