// Package format renders a module AST as canonical stub text.
package format

import (
	"strings"

	"github.com/leapstack-labs/leapstub/pkg/core"
)

const indentUnit = "    "

// Printer builds the text of one declaration. Nested blocks (class bodies,
// mutator bodies) are indented by one unit per level.
type Printer struct {
	sb          strings.Builder
	depth       int
	atLineStart bool
}

func newPrinter() *Printer {
	return &Printer{atLineStart: true}
}

// String returns the printed text without a trailing newline.
func (p *Printer) String() string {
	return strings.TrimRight(p.sb.String(), "\n")
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	if p.atLineStart {
		p.sb.WriteString(strings.Repeat(indentUnit, p.depth))
		p.atLineStart = false
	}
	p.sb.WriteString(s)
}

func (p *Printer) writeln() {
	p.sb.WriteByte('\n')
	p.atLineStart = true
}

// line writes s as a complete line.
func (p *Printer) line(s string) {
	p.write(s)
	p.writeln()
}

// block runs body one level deeper.
func (p *Printer) block(body func()) {
	p.depth++
	body()
	p.depth--
}

// writeTypes writes the canonical text of ts joined by ", ".
func (p *Printer) writeTypes(ts []core.Type) {
	for i, t := range ts {
		if i > 0 {
			p.write(", ")
		}
		p.write(typeString(t))
	}
}
