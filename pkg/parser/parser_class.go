package parser

import (
	"github.com/leapstack-labs/leapstub/pkg/token"
)

// parseClassDef parses:
//
//	classdef   → CLASS (NAME | QUOTEDNAME) ['(' [class_args] ')'] ':' class_body
//	class_args → class_arg { ',' class_arg } [',']
//	class_arg  → NAME '=' type | type
func (p *Parser) parseClassDef() Stmt {
	class := &ClassDef{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.expect(token.CLASS)

	if p.check(token.QUOTEDNAME) {
		class.Name = p.token.Literal
		class.Quoted = true
		p.nextToken()
	} else {
		class.Name = p.expectName()
	}

	if p.match(token.LPAREN) {
		for !p.check(token.RPAREN) && !p.failed() {
			arg := &ClassArg{NodeInfo: NodeInfo{Start: p.token.Pos}}
			if p.check(token.NAME) && p.checkPeek(token.ASSIGN) {
				arg.Keyword = p.token.Literal
				p.nextToken()
				p.nextToken()
			}
			arg.Type = p.parseType()
			class.Args = append(class.Args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}

	p.expect(token.COLON)
	class.Body = p.parseClassBody()
	return class
}

// parseClassBody parses:
//
//	class_body → (PASS | '...' | STRING) NEWLINE
//	           | NEWLINE INDENT { class_stmt } DEDENT
func (p *Parser) parseClassBody() []Stmt {
	if !p.match(token.NEWLINE) {
		switch p.token.Type {
		case token.PASS, token.ELLIPSIS, token.STRING:
			p.nextToken()
			p.endStatement()
		default:
			p.unexpectedToken()
		}
		return nil
	}
	return p.parseBlock(p.parseClassStatement)
}

// parseClassStatement parses:
//
//	class_stmt → assign | funcdef | if_stmt | (PASS | '...' | STRING) NEWLINE
func (p *Parser) parseClassStatement() Stmt {
	switch p.token.Type {
	case token.NAME:
		return p.parseAssign()
	case token.AT, token.DEF:
		return p.parseFuncDef()
	case token.IF:
		return p.parseIf(p.parseClassStatement)
	case token.PASS, token.ELLIPSIS, token.STRING:
		p.nextToken()
		p.endStatement()
		return nil
	}
	p.unexpectedToken()
	return nil
}
