package parser

import (
	"github.com/leapstack-labs/leapstub/pkg/token"
)

// namedTupleKeyword introduces an inline NamedTuple type.
const namedTupleKeyword = "NamedTuple"

// parseType parses: primary_type { OR primary_type }
func (p *Parser) parseType() TypeExpr {
	start := p.token.Pos
	first := p.parsePrimaryType()
	if !p.check(token.OR) {
		return first
	}
	or := &OrType{NodeInfo: NodeInfo{Start: start}, Members: []TypeExpr{first}}
	for !p.failed() && p.match(token.OR) {
		or.Members = append(or.Members, p.parsePrimaryType())
	}
	return or
}

// parsePrimaryType parses:
//
//	primary_type → '?' | '(' type ')' | '[' type_args ']' | QUOTEDNAME
//	             | named_tuple | dotted_name ['[' [type_args] ']']
func (p *Parser) parsePrimaryType() TypeExpr {
	start := NodeInfo{Start: p.token.Pos}
	switch p.token.Type {
	case token.QUESTION:
		p.nextToken()
		return &AnyType{NodeInfo: start}
	case token.LPAREN:
		p.nextToken()
		t := p.parseType()
		p.expect(token.RPAREN)
		return t
	case token.LBRACKET:
		p.nextToken()
		sugar := &TupleSugarType{NodeInfo: start, Elems: p.parseTypeArgs()}
		p.expect(token.RBRACKET)
		return sugar
	case token.QUOTEDNAME:
		t := &QuotedNameType{NodeInfo: start, Name: p.token.Literal}
		p.nextToken()
		return t
	case token.NAME:
		if p.token.Literal == namedTupleKeyword && p.checkPeek(token.LPAREN) {
			return p.parseNamedTuple()
		}
		base := &NameType{NodeInfo: start, Name: p.parseDottedName()}
		if !p.match(token.LBRACKET) {
			return base
		}
		generic := &GenericType{NodeInfo: start, Base: base, Args: p.parseTypeArgs()}
		p.expect(token.RBRACKET)
		return generic
	}
	p.unexpectedToken()
	return nil
}

// parseTypeArgs parses: [type_arg { ',' type_arg } [',']]
// where type_arg → '...' | type. It stops before the closing bracket.
func (p *Parser) parseTypeArgs() []TypeExpr {
	var args []TypeExpr
	for !p.check(token.RBRACKET) && !p.failed() {
		if p.check(token.ELLIPSIS) {
			args = append(args, &EllipsisType{NodeInfo: NodeInfo{Start: p.token.Pos}})
			p.nextToken()
		} else {
			args = append(args, p.parseType())
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	return args
}

// parseNamedTuple parses:
//
//	named_tuple → 'NamedTuple' '(' (NAME | STRING) ',' '[' [fields] ']' [','] ')'
//	field       → '(' (NAME | STRING) ',' type [','] ')'
func (p *Parser) parseNamedTuple() TypeExpr {
	nt := &NamedTupleType{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.nextToken() // NamedTuple
	p.expect(token.LPAREN)
	nt.Name = p.parseTupleName()
	p.expect(token.COMMA)
	p.expect(token.LBRACKET)
	for !p.check(token.RBRACKET) && !p.failed() {
		field := &NamedTupleField{NodeInfo: NodeInfo{Start: p.token.Pos}}
		p.expect(token.LPAREN)
		field.Name = p.parseTupleName()
		p.expect(token.COMMA)
		field.Type = p.parseType()
		p.match(token.COMMA)
		p.expect(token.RPAREN)
		nt.Fields = append(nt.Fields, field)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	p.match(token.COMMA)
	p.expect(token.RPAREN)
	return nt
}

// parseTupleName accepts a name either bare or as a string literal.
func (p *Parser) parseTupleName() string {
	if p.check(token.STRING) {
		name := p.token.Literal
		p.nextToken()
		return name
	}
	return p.expectName()
}
