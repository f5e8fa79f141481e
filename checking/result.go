package checking

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"golang.org/x/exp/slices"
)

// Succeeded means that no run of the model is accepted by the automaton.
type Succeeded[S comparable] struct{}

func (Succeeded[S]) Response() (bool, string) {
	return true, "Verification succeeded"
}

func (Succeeded[S]) Export() []S { return []S{} }

func (Succeeded[S]) result() {}

// Failed holds an accepted run of the model as a lasso: the prefix leads from
// an initial state to the first state of the cycle, and the cycle returns to
// its first state. Both contain states of the model only.
type Failed[S comparable] struct {
	Prefix []S
	Cycle  []S
}

// Generate a response
// Returns two parameters, result, and description.
// If the property is violated the description lists the prefix and the cycle
func (f Failed[S]) Response() (bool, string) {
	var buffer bytes.Buffer
	wrt := tabwriter.NewWriter(&buffer, 4, 4, 0, ' ', 0)
	fmt.Fprintf(wrt, "Verification failed. Prefix: \n")
	for _, s := range f.Prefix {
		fmt.Fprintf(wrt, "-> \t%v \n", s)
	}
	fmt.Fprintf(wrt, "Cycle: \n")
	for _, s := range f.Cycle {
		fmt.Fprintf(wrt, "=> \t%v \n", s)
	}
	wrt.Flush()
	return false, buffer.String()
}

func (f Failed[S]) Export() []S {
	return append(slices.Clone(f.Prefix), f.Cycle...)
}

func (Failed[S]) result() {}
