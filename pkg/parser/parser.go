// Package parser turns stub source into a raw syntax tree.
//
// # Usage
//
//	file, err := parser.Parse(src)
//	if err != nil {
//	    // err is a *core.Error of kind SyntaxError
//	}
//
// The tree keeps conditional blocks and unnormalized types; package pyi
// evaluates and normalizes it.
//
// # Grammar Overview
//
// The parser is recursive descent over an indentation-aware token stream:
//
//	file        → { NEWLINE | statement }
//	statement   → import | from_import | if_stmt | assign | funcdef | classdef
//	if_stmt     → IF condition ':' suite { ELIF condition ':' suite } [ELSE ':' suite]
//	condition   → dotted_name cmp_op value
//	assign      → NAME '=' value [TYPECOMMENT type] | NAME ':' type ['=' value]
//	funcdef     → { '@' dotted_name NEWLINE } DEF NAME ( PYTHONCODE | '(' params ')'
//	              ['->' type] [RAISES type {',' type}] [':' func_body] )
//	classdef    → CLASS (NAME | QUOTEDNAME) ['(' class_args ')'] ':' class_body
//	type        → primary_type { OR primary_type }
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapstub/pkg/token"
)

// Parser parses stub source into a raw tree.
//
// Parsing stops at the first error: the parser records it and then behaves
// as if the input had ended, so every loop drains without further reports.
type Parser struct {
	lexer *Lexer
	token token.Token // current token
	peek  token.Token // lookahead token
	peek2 token.Token // second lookahead token
	err   error
}

// NewParser creates a new parser for the given source.
func NewParser(src string) *Parser {
	p := &Parser{lexer: NewLexer(src)}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses src and returns its raw tree.
func Parse(src string) (*File, error) {
	p := NewParser(src)
	file := p.parseFile()
	if p.err != nil {
		return nil, p.err
	}
	return file, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	if p.err != nil {
		p.peek2 = token.Token{Type: token.EOF, Pos: p.token.Pos}
		return
	}
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	if p.check(token.ILLEGAL) || p.check(token.INDENT) {
		p.addError(unexpected(p.token))
	} else {
		p.addError(fmt.Sprintf(ErrExpectedToken, p.token, t))
	}
	return false
}

// expectName consumes a NAME token and returns its literal.
func (p *Parser) expectName() string {
	name := p.token.Literal
	if !p.expect(token.NAME) {
		return ""
	}
	return name
}

// unexpectedToken reports the current token as out of place.
func (p *Parser) unexpectedToken() {
	p.addError(unexpected(p.token))
}

// addError records the first parse error and ends the token stream.
func (p *Parser) addError(msg string) {
	if p.err != nil {
		return
	}
	p.err = newSyntaxError(p.token.Pos, msg)
	eof := token.Token{Type: token.EOF, Pos: p.token.Pos}
	p.token, p.peek, p.peek2 = eof, eof, eof
}

// failed reports whether an error has been recorded.
func (p *Parser) failed() bool {
	return p.err != nil
}

// ---------- Shared Productions ----------

// parseDottedName parses NAME { '.' NAME }.
func (p *Parser) parseDottedName() string {
	name := p.expectName()
	for !p.failed() && p.check(token.DOT) && p.checkPeek(token.NAME) {
		p.nextToken()
		name += "." + p.token.Literal
		p.nextToken()
	}
	return name
}

// endStatement consumes the NEWLINE that ends a simple statement.
func (p *Parser) endStatement() {
	p.expect(token.NEWLINE)
}
