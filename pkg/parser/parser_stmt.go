package parser

import (
	"github.com/leapstack-labs/leapstub/pkg/token"
)

// stmtParser parses one statement of a given context (module or class).
// It returns nil for statements that carry no declaration, such as `pass`.
type stmtParser func() Stmt

// parseFile parses: { NEWLINE | statement } EOF
func (p *Parser) parseFile() *File {
	file := &File{}
	for !p.check(token.EOF) {
		if p.match(token.NEWLINE) {
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			file.Stmts = append(file.Stmts, stmt)
		}
	}
	return file
}

// parseStatement parses a module-level statement.
func (p *Parser) parseStatement() Stmt {
	switch p.token.Type {
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseFromImport()
	case token.IF:
		return p.parseIf(p.parseStatement)
	case token.AT, token.DEF:
		return p.parseFuncDef()
	case token.CLASS:
		return p.parseClassDef()
	case token.NAME:
		return p.parseAssign()
	case token.PASS, token.ELLIPSIS, token.STRING:
		p.nextToken()
		p.endStatement()
		return nil
	}
	p.unexpectedToken()
	return nil
}

// parseSuite parses the body of an if/elif/else arm:
//
//	suite → simple_stmt | NEWLINE INDENT { statement } DEDENT
func (p *Parser) parseSuite(parse stmtParser) []Stmt {
	if !p.match(token.NEWLINE) {
		if stmt := parse(); stmt != nil {
			return []Stmt{stmt}
		}
		return nil
	}
	return p.parseBlock(parse)
}

// parseBlock parses INDENT { statement } DEDENT.
func (p *Parser) parseBlock(parse stmtParser) []Stmt {
	if !p.expect(token.INDENT) {
		return nil
	}
	var stmts []Stmt
	for !p.check(token.DEDENT) && !p.check(token.EOF) {
		if p.match(token.NEWLINE) {
			continue
		}
		if stmt := parse(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.DEDENT)
	return stmts
}

// parseImport parses: IMPORT dotted_name [AS NAME] { ',' dotted_name [AS NAME] }
func (p *Parser) parseImport() Stmt {
	stmt := &ImportStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.expect(token.IMPORT)
	for !p.failed() {
		item := &ImportItem{NodeInfo: NodeInfo{Start: p.token.Pos}}
		item.Name = p.parseDottedName()
		if p.match(token.AS) {
			item.AsName = p.expectName()
		}
		stmt.Items = append(stmt.Items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.endStatement()
	return stmt
}

// parseFromImport parses:
//
//	FROM module IMPORT ( '*' | '(' import_items ')' | import_items )
//	module       → { '.' } [dotted_name]
//	import_items → NAME [AS NAME] { ',' NAME [AS NAME] } [',']
func (p *Parser) parseFromImport() Stmt {
	stmt := &FromImportStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.expect(token.FROM)

	for p.check(token.DOT) || p.check(token.ELLIPSIS) {
		stmt.Module += p.token.Literal
		p.nextToken()
	}
	if stmt.Module == "" || p.check(token.NAME) {
		stmt.Module += p.parseDottedName()
	}
	p.expect(token.IMPORT)

	if p.match(token.STAR) {
		stmt.Star = true
		p.endStatement()
		return stmt
	}

	paren := p.match(token.LPAREN)
	for !p.failed() {
		item := &ImportItem{NodeInfo: NodeInfo{Start: p.token.Pos}}
		item.Name = p.expectName()
		if p.match(token.AS) {
			item.AsName = p.expectName()
		}
		stmt.Items = append(stmt.Items, item)
		if !p.match(token.COMMA) {
			break
		}
		if paren && p.check(token.RPAREN) {
			break
		}
	}
	if paren {
		p.expect(token.RPAREN)
	}
	p.endStatement()
	return stmt
}

// parseIf parses:
//
//	IF condition ':' suite { ELIF condition ':' suite } [ELSE ':' suite]
func (p *Parser) parseIf(parse stmtParser) Stmt {
	stmt := &IfStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}
	for p.check(token.IF) || (len(stmt.Branches) > 0 && p.check(token.ELIF)) {
		branch := &IfBranch{NodeInfo: NodeInfo{Start: p.token.Pos}}
		p.nextToken()
		branch.Cond = p.parseCondition()
		p.expect(token.COLON)
		branch.Body = p.parseSuite(parse)
		stmt.Branches = append(stmt.Branches, branch)
		if p.failed() {
			return stmt
		}
	}
	if p.match(token.ELSE) {
		p.expect(token.COLON)
		stmt.HasElse = true
		stmt.Else = p.parseSuite(parse)
	}
	return stmt
}

// parseCondition parses: dotted_name cmp_op value
func (p *Parser) parseCondition() *Condition {
	cond := &Condition{NodeInfo: NodeInfo{Start: p.token.Pos}}
	cond.Left = p.parseDottedName()
	if !token.IsComparison(p.token.Type) {
		p.unexpectedToken()
		return cond
	}
	cond.Op = p.token.Type
	p.nextToken()
	cond.Right = p.parseValue()
	return cond
}

// parseAssign parses:
//
//	NAME '=' value [TYPECOMMENT type] NEWLINE
//	NAME ':' type ['=' value] NEWLINE
func (p *Parser) parseAssign() Stmt {
	stmt := &AssignStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}
	stmt.Name = p.expectName()

	if p.match(token.COLON) {
		stmt.Annotation = p.parseType()
		if p.match(token.ASSIGN) {
			stmt.Value = p.parseValue()
		}
		p.endStatement()
		return stmt
	}

	p.expect(token.ASSIGN)
	stmt.Value = p.parseValue()
	if p.match(token.TYPECOMMENT) {
		stmt.Annotation = p.parseType()
	}
	p.endStatement()
	return stmt
}

// parseValue parses:
//
//	value → '...' | ['-'] NUMBER | STRING | dotted_name | '(' [value {',' value} [',']] ')'
func (p *Parser) parseValue() Value {
	start := NodeInfo{Start: p.token.Pos}
	switch p.token.Type {
	case token.ELLIPSIS:
		p.nextToken()
		return &EllipsisValue{NodeInfo: start}
	case token.MINUS:
		p.nextToken()
		if !p.check(token.NUMBER) {
			p.unexpectedToken()
			return nil
		}
		v := &NumberValue{NodeInfo: start, Text: p.token.Literal, Negative: true}
		p.nextToken()
		return v
	case token.NUMBER:
		v := &NumberValue{NodeInfo: start, Text: p.token.Literal}
		p.nextToken()
		return v
	case token.STRING:
		v := &StringValue{NodeInfo: start, Text: p.token.Literal}
		p.nextToken()
		return v
	case token.NAME:
		return &NameValue{NodeInfo: start, Name: p.parseDottedName()}
	case token.LPAREN:
		return p.parseTupleValue()
	}
	p.unexpectedToken()
	return nil
}

// parseTupleValue parses a parenthesized value. Without a comma the parens
// only group, so `(3)` is the number 3.
func (p *Parser) parseTupleValue() Value {
	tuple := &TupleValue{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.expect(token.LPAREN)
	if p.match(token.RPAREN) {
		return tuple
	}
	first := p.parseValue()
	if p.match(token.RPAREN) {
		return first
	}
	tuple.Elems = append(tuple.Elems, first)
	for !p.failed() && p.match(token.COMMA) {
		if p.check(token.RPAREN) {
			break
		}
		tuple.Elems = append(tuple.Elems, p.parseValue())
	}
	p.expect(token.RPAREN)
	return tuple
}
