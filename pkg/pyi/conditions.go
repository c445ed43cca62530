package pyi

import (
	"strconv"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/parser"
	"github.com/leapstack-labs/leapstub/pkg/token"
)

// Condition error messages
const (
	ErrVersionNotTuple    = "sys.version_info must be compared to a tuple"
	ErrVersionNotInt      = "only integers are allowed in version tuples"
	ErrVersionLength      = "version tuples must have 1 to 3 elements"
	ErrPlatformOperator   = "sys.platform must be compared using == or !="
	ErrPlatformNotString  = "sys.platform must be compared to a string"
	ErrUnsupportedCondFmt = "Unsupported condition: '%s'"
)

// selectLive flattens conditional blocks, keeping only the statements of the
// winning branch at every nesting level. Losing branches are never visited.
func (b *builder) selectLive(stmts []parser.Stmt) ([]parser.Stmt, error) {
	live := make([]parser.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		ifStmt, ok := stmt.(*parser.IfStmt)
		if !ok {
			live = append(live, stmt)
			continue
		}
		body, err := b.selectBranch(ifStmt)
		if err != nil {
			return nil, err
		}
		nested, err := b.selectLive(body)
		if err != nil {
			return nil, err
		}
		live = append(live, nested...)
	}
	return live, nil
}

// selectBranch returns the body of the first branch whose condition holds,
// the else body when none does, or nil.
func (b *builder) selectBranch(s *parser.IfStmt) ([]parser.Stmt, error) {
	for i, branch := range s.Branches {
		ok, err := b.evalCondition(branch)
		if err != nil {
			return nil, err
		}
		if ok {
			b.logger.Debug("selected branch", "line", branch.Pos().Line, "index", i)
			return branch.Body, nil
		}
	}
	if s.HasElse {
		b.logger.Debug("selected else branch", "line", s.Pos().Line)
		return s.Else, nil
	}
	b.logger.Debug("pruned conditional block", "line", s.Pos().Line)
	return nil, nil
}

func (b *builder) evalCondition(branch *parser.IfBranch) (bool, error) {
	cond := branch.Cond
	line := branch.Pos().Line
	switch cond.Left {
	case "sys.version_info":
		version, err := versionTuple(cond.Right, line)
		if err != nil {
			return false, err
		}
		cmp := b.target.Version.Truncate(len(version)).Compare(version)
		return compare(cond.Op, cmp), nil
	case "sys.platform":
		if cond.Op != token.EQ && cond.Op != token.NE {
			return false, core.Errorf(core.UnsupportedCondition, line, ErrPlatformOperator)
		}
		str, ok := cond.Right.(*parser.StringValue)
		if !ok {
			return false, core.Errorf(core.UnsupportedCondition, line, ErrPlatformNotString)
		}
		equal := str.Text == b.target.Platform
		return equal == (cond.Op == token.EQ), nil
	}
	return false, core.Errorf(core.UnsupportedCondition, line, ErrUnsupportedCondFmt, cond.Left)
}

func versionTuple(v parser.Value, line int) (core.Version, error) {
	tuple, ok := v.(*parser.TupleValue)
	if !ok {
		return nil, core.Errorf(core.UnsupportedCondition, line, ErrVersionNotTuple)
	}
	version := make(core.Version, 0, len(tuple.Elems))
	for _, elem := range tuple.Elems {
		num, ok := elem.(*parser.NumberValue)
		if !ok || num.IsFloat() {
			return nil, core.Errorf(core.UnsupportedCondition, line, ErrVersionNotInt)
		}
		n, err := strconv.Atoi(num.Text)
		if err != nil {
			return nil, core.Errorf(core.UnsupportedCondition, line, ErrVersionNotInt)
		}
		if num.Negative {
			n = -n
		}
		version = append(version, n)
	}
	if len(version) < 1 || len(version) > 3 {
		return nil, core.Errorf(core.UnsupportedCondition, line, ErrVersionLength)
	}
	return version, nil
}

// compare applies op to the result of a three-way comparison.
func compare(op token.TokenType, cmp int) bool {
	switch op {
	case token.EQ:
		return cmp == 0
	case token.NE:
		return cmp != 0
	case token.LT:
		return cmp < 0
	case token.LE:
		return cmp <= 0
	case token.GT:
		return cmp > 0
	case token.GE:
		return cmp >= 0
	}
	return false
}
