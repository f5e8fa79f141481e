package unfold

import (
	"gofvm/env"
	"gofvm/ts"
)

// Circuit is a sequential boolean circuit with named input ports, registers
// and output ports. Both functions receive and return boolean environments.
type Circuit struct {
	Inputs    []string
	Registers []string
	Outputs   []string

	UpdateRegisters func(inputs, registers env.Env) env.Env
	ComputeOutputs  func(inputs, registers env.Env) env.Env
}

// FromCircuit builds the transition system of the circuit.
//
// States are pairs of input and register values. Registers start out false
// while the first inputs are arbitrary. Every action is an assignment of the
// inputs: from (in, reg) the circuit moves to (in', UpdateRegisters(in, reg)).
// A state is labeled with the names of its true inputs, registers and outputs.
// Only states reachable from the initial ones are part of the result.
func FromCircuit(c Circuit) *ts.TransitionSystem[ts.Pair[env.Env, env.Env], env.Env, string] {
	sys := ts.New[ts.Pair[env.Env, env.Env], env.Env, string]("circuit")
	sys.AddProposition(c.Inputs...)
	sys.AddProposition(c.Registers...)
	sys.AddProposition(c.Outputs...)

	inputs := assignments(c.Inputs)
	sys.AddAction(inputs...)

	cleared := env.Env{}
	for _, r := range c.Registers {
		cleared = cleared.Set(r, env.False)
	}

	var stack []ts.Pair[env.Env, env.Env]
	for _, in := range inputs {
		s := ts.PairOf(in, cleared)
		sys.AddState(s)
		must(sys.SetInitial(s, true))
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		from := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		registers := c.UpdateRegisters(from.First, from.Second)
		for _, in := range inputs {
			to := ts.PairOf(in, registers)
			if !sys.HasState(to) {
				sys.AddState(to)
				stack = append(stack, to)
			}
			must(sys.AddTransition(ts.Transition[ts.Pair[env.Env, env.Env], env.Env]{From: from, Action: in, To: to}))
		}
	}

	for _, s := range sys.States() {
		outputs := c.ComputeOutputs(s.First, s.Second)
		for _, values := range []env.Env{s.First, s.Second, outputs} {
			values.Range(func(name string, v env.Value) bool {
				if v.IsBool() && v.AsBool() {
					must(sys.AddLabel(s, name))
				}
				return true
			})
		}
	}
	return sys
}

// assignments enumerates every boolean assignment of the names.
func assignments(names []string) []env.Env {
	all := make([]env.Env, 0, 1<<len(names))
	for i := 0; i < 1<<len(names); i++ {
		e := env.Env{}
		for j, name := range names {
			e = e.Set(name, env.Bool(i&(1<<j) != 0))
		}
		all = append(all, e)
	}
	return all
}
