// Package core defines the canonical stub AST shared by the parser, the
// printer and downstream consumers.
//
// This package contains:
//   - Declarations (Module, Import, Alias, Constant, Function, Class)
//   - The canonical type-expression sum type (Type)
//   - The parse error taxonomy (Error, ErrorKind)
//   - Target interpreter versions (Version)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
