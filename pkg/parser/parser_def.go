package parser

import (
	"github.com/leapstack-labs/leapstub/pkg/token"
)

// parseFuncDef parses:
//
//	funcdef   → { decorator } DEF NAME ( PYTHONCODE | signature )
//	decorator → '@' NAME ['.' NAME] NEWLINE
//	signature → '(' [params] ')' ['->' type] [RAISES type {',' type}] [':' func_body]
func (p *Parser) parseFuncDef() Stmt {
	var decorators []*Decorator
	for p.check(token.AT) {
		dec := &Decorator{NodeInfo: NodeInfo{Start: p.token.Pos}}
		p.nextToken()
		dec.Name = p.expectName()
		if p.match(token.DOT) {
			dec.Qualifier = p.expectName()
		}
		p.endStatement()
		decorators = append(decorators, dec)
	}

	def := &FuncDef{NodeInfo: NodeInfo{Start: p.token.Pos}, Decorators: decorators}
	if !p.expect(token.DEF) {
		return nil
	}
	def.Name = p.expectName()

	if p.match(token.PYTHONCODE) {
		def.External = true
		p.endStatement()
		return def
	}

	p.expect(token.LPAREN)
	def.Params = p.parseParams()
	p.expect(token.RPAREN)

	if p.match(token.ARROW) {
		def.Return = p.parseType()
	}
	if p.match(token.RAISES) {
		def.Raises = append(def.Raises, p.parseType())
		for !p.failed() && p.match(token.COMMA) {
			def.Raises = append(def.Raises, p.parseType())
		}
	}

	if p.match(token.COLON) {
		def.Body = p.parseFuncBody()
	} else {
		p.endStatement()
	}
	return def
}

// parseParams parses: param { ',' param } [',']
//
//	param → '...' | '*' [NAME [':' type]] | '**' NAME [':' type]
//	      | NAME [':' type] ['=' value]
func (p *Parser) parseParams() []*Param {
	var params []*Param
	for !p.check(token.RPAREN) && !p.failed() {
		params = append(params, p.parseParam())
		if !p.match(token.COMMA) {
			break
		}
	}
	return params
}

func (p *Parser) parseParam() *Param {
	param := &Param{NodeInfo: NodeInfo{Start: p.token.Pos}}
	switch p.token.Type {
	case token.ELLIPSIS:
		p.nextToken()
		param.Kind = ParamEllipsis
		return param
	case token.STAR:
		p.nextToken()
		if !p.check(token.NAME) {
			param.Kind = ParamStar
			return param
		}
		param.Kind = ParamStarArgs
		param.Name = p.expectName()
	case token.DSTAR:
		p.nextToken()
		param.Kind = ParamStarStar
		param.Name = p.expectName()
	default:
		param.Kind = ParamNamed
		param.Name = p.expectName()
	}

	if p.match(token.COLON) {
		param.Type = p.parseType()
	}
	if param.Kind == ParamNamed && p.match(token.ASSIGN) {
		param.Default = p.parseValue()
	}
	return param
}

// parseFuncBody parses the part after the signature's colon:
//
//	func_body → body_stmt | NEWLINE INDENT { body_stmt } DEDENT
//	body_stmt → '...' | PASS | STRING | NAME ':=' type | RAISE type ['(' ')']
func (p *Parser) parseFuncBody() []BodyStmt {
	if !p.match(token.NEWLINE) {
		if stmt := p.parseBodyStmt(); stmt != nil {
			return []BodyStmt{stmt}
		}
		return nil
	}

	if !p.expect(token.INDENT) {
		return nil
	}
	var body []BodyStmt
	for !p.check(token.DEDENT) && !p.check(token.EOF) {
		if p.match(token.NEWLINE) {
			continue
		}
		if stmt := p.parseBodyStmt(); stmt != nil {
			body = append(body, stmt)
		}
	}
	p.expect(token.DEDENT)
	return body
}

func (p *Parser) parseBodyStmt() BodyStmt {
	start := NodeInfo{Start: p.token.Pos}
	switch p.token.Type {
	case token.ELLIPSIS, token.PASS, token.STRING:
		p.nextToken()
		p.endStatement()
		return nil
	case token.NAME:
		stmt := &MutatorStmt{NodeInfo: start, Name: p.expectName()}
		p.expect(token.COLONEQ)
		stmt.Type = p.parseType()
		p.endStatement()
		return stmt
	case token.RAISE:
		p.nextToken()
		stmt := &RaiseStmt{NodeInfo: start, Type: p.parseType()}
		if p.match(token.LPAREN) {
			p.expect(token.RPAREN)
		}
		p.endStatement()
		return stmt
	}
	p.unexpectedToken()
	return nil
}
