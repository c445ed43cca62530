package core

// Type is a canonical type expression.
//
// The set of variants is closed: NamedType, GenericType, UnionType,
// TupleType, AnythingType, NothingType and ClassReference. String renders
// the canonical stub spelling, which is also the structural identity used
// when deduplicating union members.
type Type interface {
	String() string
	typeNode() // Marker method to close the variant set
}

// Decl is a marker interface for module- and class-level declarations.
type Decl interface {
	DeclName() string
	declNode()
}
