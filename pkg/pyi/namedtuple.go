package pyi

import (
	"fmt"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/parser"
)

// tupleNames hands out unique names for synthesized NamedTuple classes.
// The first use of a base name keeps it; later uses get `~1`, `~2`, ...
type tupleNames struct {
	uses map[string]int
}

func newTupleNames() *tupleNames {
	return &tupleNames{uses: make(map[string]int)}
}

func (n *tupleNames) claim(base string) string {
	count := n.uses[base]
	n.uses[base] = count + 1
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s~%d", base, count)
}

// synthesizeNamedTuple turns a NamedTuple literal into a class and returns a
// reference to it. The class is queued in first-use order: an enclosing
// literal precedes the literals nested in its fields.
func (b *builder) synthesizeNamedTuple(nt *parser.NamedTupleType) (core.Type, error) {
	class := &core.Class{
		Name:        b.tupleNames.claim(nt.Name),
		Synthesized: true,
	}
	b.synthesized = append(b.synthesized, class)

	fieldTypes := make([]core.Type, 0, len(nt.Fields))
	for _, field := range nt.Fields {
		typ, err := b.convertType(field.Type)
		if err != nil {
			return nil, err
		}
		fieldTypes = append(fieldTypes, typ)
		class.Constants = append(class.Constants, &core.Constant{Name: field.Name, Type: typ})
	}

	var elem core.Type = &core.AnythingType{}
	if len(fieldTypes) > 0 {
		elem = core.NewUnion(fieldTypes...)
	}
	class.Bases = []core.Type{core.HomogeneousTuple(elem)}

	b.logger.Debug("synthesized namedtuple class",
		"name", class.Name,
		"fields", len(nt.Fields),
		"line", nt.Pos().Line)
	return class.Ref(), nil
}
