package parser

import (
	"strings"

	"github.com/leapstack-labs/leapstub/pkg/token"
)

// tabWidth is the column multiple a tab advances indentation to.
const tabWidth = 8

// Lexer tokenizes stub source.
//
// Indentation is significant: the lexer keeps a stack of open indentation
// widths and turns changes into INDENT and DEDENT tokens. Line breaks inside
// brackets are ignored, as are blank and comment-only lines.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	depth       int           // open ( and [ count
	indents     []int         // indentation stack, bottom is 0
	pending     []token.Token // queued layout tokens
	atLineStart bool
	emitted     bool
	last        token.TokenType
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:       input,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
		l.pos = len(l.input)
		l.readPos = len(l.input) + 1
	} else {
		l.ch = l.input[l.readPos]
		l.pos = l.readPos
		l.readPos++
	}
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.readPos+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPos+n]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	tok := l.next()
	l.last = tok.Type
	if tok.Type != token.EOF {
		l.emitted = true
	}
	return tok
}

func (l *Lexer) next() token.Token {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok
		}
		if l.atLineStart && l.depth == 0 {
			l.atLineStart = false
			if bad, ok := l.indentLine(); ok {
				return bad
			}
			continue
		}
		tok, ok := l.scan()
		if ok {
			return tok
		}
	}
}

// indentLine measures the indentation of a new logical line and queues the
// matching layout tokens. Blank and comment-only lines are consumed whole.
// It returns an ILLEGAL token when a dedent lands between two levels.
func (l *Lexer) indentLine() (token.Token, bool) {
	width := 0
measure:
	for {
		switch l.ch {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		case '\r', '\f':
		default:
			break measure
		}
		l.readChar()
	}

	switch l.ch {
	case '\n':
		l.readChar()
		l.atLineStart = true
		return token.Token{}, false
	case '#':
		l.skipComment()
		if l.ch == '\n' {
			l.readChar()
			l.atLineStart = true
		}
		return token.Token{}, false
	case 0:
		return token.Token{}, false
	}

	pos := l.currentPos()
	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		l.pending = append(l.pending, token.Token{Type: token.INDENT, Pos: pos})
	case width < top:
		for width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, token.Token{Type: token.DEDENT, Pos: pos})
		}
		if l.indents[len(l.indents)-1] != width {
			return token.Token{Type: token.ILLEGAL, Literal: "unindent does not match any outer indentation level", Pos: pos}, true
		}
	}
	return token.Token{}, false
}

// scan reads one token from the current line. It reports false when it only
// consumed insignificant input.
func (l *Lexer) scan() (token.Token, bool) {
	l.skipSpace()
	pos := l.currentPos()

	switch l.ch {
	case 0:
		return l.eof(pos), true
	case '\n':
		l.readChar()
		if l.depth > 0 {
			return token.Token{}, false
		}
		l.atLineStart = true
		return token.Token{Type: token.NEWLINE, Literal: "\n", Pos: pos}, true
	case '\\':
		if l.peekChar() == '\n' {
			l.readChar()
			l.readChar()
			return token.Token{}, false
		}
		return l.illegal(pos, "unexpected character '\\'"), true
	case '#':
		if l.readTypeCommentPrefix() {
			return token.Token{Type: token.TYPECOMMENT, Literal: "# type:", Pos: pos}, true
		}
		l.skipComment()
		return token.Token{}, false
	case '`':
		return l.readQuotedName(pos), true
	case '"', '\'':
		return l.readString(pos), true
	case '.':
		if l.peekChar() == '.' && l.peekAt(1) == '.' {
			l.readChar()
			l.readChar()
			return l.newToken(token.ELLIPSIS, "...", pos), true
		}
		if isDigit(l.peekChar()) {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}, true
		}
		return l.newToken(token.DOT, ".", pos), true
	case ',':
		return l.newToken(token.COMMA, ",", pos), true
	case ':':
		if l.peekChar() == '=' {
			l.readChar()
			return l.newToken(token.COLONEQ, ":=", pos), true
		}
		return l.newToken(token.COLON, ":", pos), true
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			return l.newToken(token.EQ, "==", pos), true
		}
		return l.newToken(token.ASSIGN, "=", pos), true
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			return l.newToken(token.ARROW, "->", pos), true
		}
		return l.newToken(token.MINUS, "-", pos), true
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			return l.newToken(token.DSTAR, "**", pos), true
		}
		return l.newToken(token.STAR, "*", pos), true
	case '@':
		return l.newToken(token.AT, "@", pos), true
	case '?':
		return l.newToken(token.QUESTION, "?", pos), true
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			return l.newToken(token.NE, "!=", pos), true
		}
		return l.illegal(pos, "unexpected character '!'"), true
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			return l.newToken(token.LE, "<=", pos), true
		}
		return l.newToken(token.LT, "<", pos), true
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			return l.newToken(token.GE, ">=", pos), true
		}
		return l.newToken(token.GT, ">", pos), true
	case '(':
		l.depth++
		return l.newToken(token.LPAREN, "(", pos), true
	case '[':
		l.depth++
		return l.newToken(token.LBRACKET, "[", pos), true
	case ')':
		l.closeBracket()
		return l.newToken(token.RPAREN, ")", pos), true
	case ']':
		l.closeBracket()
		return l.newToken(token.RBRACKET, "]", pos), true
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		if isStringPrefix(ident) && (l.ch == '"' || l.ch == '\'') {
			return l.readString(pos), true
		}
		return token.Token{Type: token.LookupIdent(ident), Literal: ident, Pos: pos}, true
	}
	if isDigit(l.ch) {
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}, true
	}
	return l.illegal(pos, "unexpected character '"+string(l.ch)+"'"), true
}

// eof flushes the final NEWLINE and any open indentation before EOF.
func (l *Lexer) eof(pos token.Position) token.Token {
	if l.emitted && l.last != token.NEWLINE && l.last != token.DEDENT {
		return token.Token{Type: token.NEWLINE, Pos: pos}
	}
	if len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		return token.Token{Type: token.DEDENT, Pos: pos}
	}
	return token.Token{Type: token.EOF, Pos: pos}
}

func (l *Lexer) newToken(tokenType token.TokenType, literal string, pos token.Position) token.Token {
	l.readChar()
	return token.Token{Type: tokenType, Literal: literal, Pos: pos}
}

func (l *Lexer) illegal(pos token.Position, msg string) token.Token {
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Literal: msg, Pos: pos}
}

func (l *Lexer) closeBracket() {
	if l.depth > 0 {
		l.depth--
	}
}

func (l *Lexer) skipSpace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f' {
		l.readChar()
	}
}

// skipComment advances to the end of the line, leaving the newline.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readTypeCommentPrefix consumes `# type:` when the comment at the cursor is
// a type comment.
func (l *Lexer) readTypeCommentPrefix() bool {
	rest := l.input[l.pos+1:]
	trimmed := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(trimmed, "type:") {
		return false
	}
	n := 1 + len(rest) - len(trimmed) + len("type:")
	for range n {
		l.readChar()
	}
	return true
}

func (l *Lexer) readQuotedName(pos token.Position) token.Token {
	l.readChar() // opening `
	start := l.pos
	for l.ch != '`' {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated quoted name", Pos: pos}
		}
		l.readChar()
	}
	name := l.input[start:l.pos]
	l.readChar() // closing `
	return token.Token{Type: token.QUOTEDNAME, Literal: name, Pos: pos}
}

// readString reads a single, double or triple quoted string. The literal is
// the raw text between the quotes.
func (l *Lexer) readString(pos token.Position) token.Token {
	quote := l.ch
	triple := l.peekChar() == quote && l.peekAt(1) == quote
	if triple {
		l.readChar()
		l.readChar()
	}
	l.readChar()

	var sb strings.Builder
	for {
		switch {
		case l.ch == 0:
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated string literal", Pos: pos}
		case l.ch == '\n' && !triple:
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated string literal", Pos: pos}
		case l.ch == '\\':
			sb.WriteByte(l.ch)
			l.readChar()
			if l.ch == 0 {
				continue
			}
		case l.ch == quote:
			if !triple {
				l.readChar()
				return token.Token{Type: token.STRING, Literal: sb.String(), Pos: pos}
			}
			if l.peekChar() == quote && l.peekAt(1) == quote {
				l.readChar()
				l.readChar()
				l.readChar()
				return token.Token{Type: token.STRING, Literal: sb.String(), Pos: pos}
			}
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	if l.ch == '0' && strings.ContainsRune("xXoObB", rune(l.peekChar())) {
		l.readChar()
		l.readChar()
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		return l.input[start:l.pos]
	}
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && l.peekChar() != '.' {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(1))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	if l.ch == 'L' || l.ch == 'l' || l.ch == 'j' || l.ch == 'J' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isStringPrefix(ident string) bool {
	if len(ident) > 2 {
		return false
	}
	return strings.Trim(ident, "bBuUrR") == ""
}

// Tokenize returns all tokens of input up to and including EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
