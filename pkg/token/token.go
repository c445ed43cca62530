// Package token defines the token types of the stub grammar.
//
// Layout tokens (NEWLINE, INDENT, DEDENT) are produced by the lexer from
// significant indentation. A trailing `# type:` comment is surfaced as a
// TYPECOMMENT token followed by the ordinary tokens of the annotation.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Layout
	NEWLINE
	INDENT
	DEDENT

	// Literals
	NAME        // identifier
	QUOTEDNAME  // `name~1`
	NUMBER      // 0, 12, 1.5
	STRING      // 'x', "x", '''x'''
	TYPECOMMENT // # type:

	// Operators and delimiters
	DOT      // .
	COMMA    // ,
	COLON    // :
	COLONEQ  // :=
	ASSIGN   // =
	ARROW    // ->
	ELLIPSIS // ...
	STAR     // *
	DSTAR    // **
	AT       // @
	QUESTION // ?
	MINUS    // -
	EQ       // ==
	NE       // !=
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Keywords (alphabetical)
	AS
	CLASS
	DEF
	ELIF
	ELSE
	FROM
	IF
	IMPORT
	OR
	PASS
	PYTHONCODE
	RAISE
	RAISES
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	NEWLINE: "NEWLINE",
	INDENT:  "INDENT",
	DEDENT:  "DEDENT",

	NAME:        "NAME",
	QUOTEDNAME:  "QUOTEDNAME",
	NUMBER:      "NUMBER",
	STRING:      "STRING",
	TYPECOMMENT: "TYPECOMMENT",

	DOT:      ".",
	COMMA:    ",",
	COLON:    ":",
	COLONEQ:  ":=",
	ASSIGN:   "=",
	ARROW:    "->",
	ELLIPSIS: "...",
	STAR:     "*",
	DSTAR:    "**",
	AT:       "@",
	QUESTION: "?",
	MINUS:    "-",
	EQ:       "==",
	NE:       "!=",
	LT:       "<",
	GT:       ">",
	LE:       "<=",
	GE:       ">=",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",

	AS:         "as",
	CLASS:      "class",
	DEF:        "def",
	ELIF:       "elif",
	ELSE:       "else",
	FROM:       "from",
	IF:         "if",
	IMPORT:     "import",
	OR:         "or",
	PASS:       "pass",
	PYTHONCODE: "PYTHONCODE",
	RAISE:      "raise",
	RAISES:     "raises",
}

// keywords maps keyword spellings to their token types. Keywords are case
// sensitive in stubs.
var keywords = map[string]TokenType{
	"as":         AS,
	"class":      CLASS,
	"def":        DEF,
	"elif":       ELIF,
	"else":       ELSE,
	"from":       FROM,
	"if":         IF,
	"import":     IMPORT,
	"or":         OR,
	"pass":       PASS,
	"PYTHONCODE": PYTHONCODE,
	"raise":      RAISE,
	"raises":     RAISES,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, NAME is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return NAME
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= AS && t <= RAISES
}

// IsComparison returns true for the operators allowed in conditions.
func IsComparison(t TokenType) bool {
	return t >= EQ && t <= GE
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	switch t.Type {
	case NAME, NUMBER:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	case STRING:
		return "STRING"
	}
	return t.Type.String()
}
