package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/token"
)

// Common error messages
const (
	ErrUnexpectedToken  = "syntax error, unexpected %s"
	ErrExpectedToken    = "syntax error, unexpected %s, expecting %s"
	ErrIllegalToken     = "syntax error, %s"
	ErrUnexpectedIndent = "syntax error, unexpected indent"
)

// newSyntaxError builds the error reported for malformed source.
func newSyntaxError(pos token.Position, msg string) *core.Error {
	return &core.Error{Kind: core.SyntaxError, Line: pos.Line, Message: msg}
}

func unexpected(tok token.Token) string {
	switch tok.Type {
	case token.ILLEGAL:
		return fmt.Sprintf(ErrIllegalToken, tok.Literal)
	case token.INDENT:
		return ErrUnexpectedIndent
	}
	return fmt.Sprintf(ErrUnexpectedToken, tok)
}
