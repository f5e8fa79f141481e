package pg

import (
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

// Composite is implemented by locations made up of several parts. Each part
// becomes its own atomic proposition when the graph is unfolded.
type Composite interface {
	Elements() []string
}

// Vector is a list shaped location, one element per composed program graph.
// Vectors are comparable with ==.
type Vector struct {
	enc string
}

var _ Composite = Vector{}

func VectorOf(elements ...string) Vector {
	var v Vector
	for _, e := range elements {
		v = v.Append(e)
	}
	return v
}

func (v Vector) Append(element string) Vector {
	return Vector{enc: string(protowire.AppendString([]byte(v.enc), element))}
}

func (v Vector) Elements() []string {
	elements := []string{}
	for rest := []byte(v.enc); len(rest) > 0; {
		e, n := protowire.ConsumeString(rest)
		if n < 0 {
			panic(protowire.ParseError(n))
		}
		elements = append(elements, e)
		rest = rest[n:]
	}
	return elements
}

func (v Vector) Len() int {
	return len(v.Elements())
}

func (v Vector) String() string {
	return "[" + strings.Join(v.Elements(), ", ") + "]"
}
