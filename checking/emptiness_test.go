package checking

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofvm/automaton"
	"gofvm/product"
	"gofvm/set"
	"gofvm/ts"
)

// s0 -a-> s1 -a-> s0 with s1 labeled by the given propositions
func model(t *testing.T, labelS1 ...string) *ts.TransitionSystem[string, string, string] {
	sys := ts.New[string, string, string]("model")
	sys.AddState("s0", "s1")
	sys.AddAction("a")
	sys.AddProposition("p")
	require.NoError(t, sys.SetInitial("s0", true))
	require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: "s0", Action: "a", To: "s1"}))
	require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: "s1", Action: "a", To: "s0"}))
	for _, p := range labelS1 {
		require.NoError(t, sys.AddLabel("s1", p))
	}
	return sys
}

// Accepts every run that eventually reaches a state labeled {p}
func eventuallyP(t *testing.T) *automaton.Automaton[string, string] {
	aut := automaton.New[string, string]()
	aut.AddState("q0", "q1")
	require.NoError(t, aut.SetInitial("q0", true))
	require.NoError(t, aut.SetAccepting("q1", true))
	require.NoError(t, aut.AddEdge("q0", automaton.Exactly[string](), "q0"))
	require.NoError(t, aut.AddEdge("q0", automaton.Exactly("p"), "q1"))
	require.NoError(t, aut.AddEdge("q1", automaton.Always[string](), "q1"))
	return aut
}

func check(t *testing.T, sys *ts.TransitionSystem[string, string, string], aut *automaton.Automaton[string, string], opts ...Option) Result[string] {
	prod := product.Build(sys, aut)
	checker := NewEmptinessChecker[string, string, string](aut.Accepting(), opts...)
	res, err := checker.Check(context.Background(), prod)
	require.NoError(t, err)
	return res
}

// assertLasso checks that prefix followed by the repeated cycle is a run of sys
func assertLasso(t *testing.T, sys *ts.TransitionSystem[string, string, string], f Failed[string]) {
	require.NotEmpty(t, f.Cycle)
	run := append(append(append([]string{}, f.Prefix...), f.Cycle...), f.Cycle[0])
	assert.True(t, sys.IsInitial(run[0]), "%v does not start in an initial state", run)
	for i := 0; i+1 < len(run); i++ {
		post, err := sys.Post(run[i])
		require.NoError(t, err)
		assert.True(t, post.Has(run[i+1]), "%v -> %v is not a transition", run[i], run[i+1])
	}
}

func TestAcceptingCycleFails(t *testing.T) {
	sys := model(t, "p")
	res := check(t, sys, eventuallyP(t))

	ok, _ := res.Response()
	require.False(t, ok)
	failed, isFailed := res.(Failed[string])
	require.True(t, isFailed)

	assert.Equal(t, []string{"s0"}, failed.Prefix)
	assert.Equal(t, []string{"s1", "s0"}, failed.Cycle)
	assertLasso(t, sys, failed)
	assert.Equal(t, append(append([]string{}, failed.Prefix...), failed.Cycle...), failed.Export())
}

func TestUnreachableAcceptanceSucceeds(t *testing.T) {
	res := check(t, model(t), eventuallyP(t))

	ok, description := res.Response()
	assert.True(t, ok)
	assert.Equal(t, "Verification succeeded", description)
	assert.IsType(t, Succeeded[string]{}, res)
	assert.Empty(t, res.Export())
}

func TestCheckIsRepeatable(t *testing.T) {
	sys, aut := model(t, "p"), eventuallyP(t)
	prod := product.Build(sys, aut)
	checker := NewEmptinessChecker[string, string, string](aut.Accepting())

	first, err := checker.Check(context.Background(), prod)
	require.NoError(t, err)
	second, err := checker.Check(context.Background(), prod)
	require.NoError(t, err)

	ok1, _ := first.Response()
	ok2, _ := second.Response()
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, len(first.(Failed[string]).Cycle), len(second.(Failed[string]).Cycle))
	assert.Equal(t, first, second)
}

func TestCycleFollowsAutomaton(t *testing.T) {
	// s0 -> s1 -> s2 -> s1, only s2 is labeled p
	sys := ts.New[string, string, string]("chain")
	sys.AddState("s0", "s1", "s2")
	sys.AddAction("a")
	sys.AddProposition("p")
	require.NoError(t, sys.SetInitial("s0", true))
	for _, tr := range [][2]string{{"s0", "s1"}, {"s1", "s2"}, {"s2", "s1"}} {
		require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: tr[0], Action: "a", To: tr[1]}))
	}
	require.NoError(t, sys.AddLabel("s2", "p"))

	// accepting whenever the last state read is labeled p
	aut := automaton.New[string, string]()
	aut.AddState("q0", "q1")
	require.NoError(t, aut.SetInitial("q0", true))
	require.NoError(t, aut.SetAccepting("q1", true))
	for _, q := range []string{"q0", "q1"} {
		require.NoError(t, aut.AddEdge(q, automaton.Exactly[string](), "q0"))
		require.NoError(t, aut.AddEdge(q, automaton.Exactly("p"), "q1"))
	}

	res := check(t, sys, aut)
	failed, ok := res.(Failed[string])
	require.True(t, ok)
	assert.Equal(t, []string{"s2", "s1"}, failed.Cycle)
	assert.Equal(t, []string{"s0", "s1"}, failed.Prefix)
	assertLasso(t, sys, failed)

	// the prefix is a path through the model, so it can not visit the cycle twice
	assert.NotContains(t, failed.Prefix, failed.Cycle[0])
}

func TestAcceptingInitialStateHasEmptyPrefix(t *testing.T) {
	sys := ts.New[string, string, string]("loop")
	sys.AddState("s0")
	sys.AddAction("a")
	sys.AddProposition("p")
	require.NoError(t, sys.SetInitial("s0", true))
	require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: "s0", Action: "a", To: "s0"}))
	require.NoError(t, sys.AddLabel("s0", "p"))

	res := check(t, sys, eventuallyP(t))
	failed, ok := res.(Failed[string])
	require.True(t, ok)
	assert.Empty(t, failed.Prefix)
	assert.Equal(t, []string{"s0"}, failed.Cycle)
}

func TestTerminalAcceptingStateIsNotACycle(t *testing.T) {
	sys := ts.New[string, string, string]("deadlock")
	sys.AddState("s0", "s1")
	sys.AddAction("a")
	sys.AddProposition("p")
	require.NoError(t, sys.SetInitial("s0", true))
	require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: "s0", Action: "a", To: "s1"}))
	require.NoError(t, sys.AddLabel("s1", "p"))

	res := check(t, sys, eventuallyP(t))
	assert.IsType(t, Succeeded[string]{}, res)
}

func TestEmptyProductSucceeds(t *testing.T) {
	prod := ts.New[ts.Pair[string, string], string, string]("empty")
	res, err := NewEmptinessChecker[string, string, string](set.Of("q")).Check(context.Background(), prod)
	require.NoError(t, err)
	assert.IsType(t, Succeeded[string]{}, res)
}

func TestCancelledCheck(t *testing.T) {
	prod := product.Build(model(t, "p"), eventuallyP(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEmptinessChecker[string, string, string](set.Of("q1")).Check(ctx, prod)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchTreeExport(t *testing.T) {
	var buf bytes.Buffer
	check(t, model(t, "p"), eventuallyP(t), WithSearchTree(&buf))
	assert.Equal(t, "((\"<s0,q1>\")\"<s1,q1>\")\"<s0,q0>\";\n", buf.String())
}

func TestFailedResponse(t *testing.T) {
	ok, description := Failed[string]{Prefix: []string{"s0"}, Cycle: []string{"s1", "s0"}}.Response()
	assert.False(t, ok)
	assert.Contains(t, description, "Verification failed")
	assert.Contains(t, description, "s1")
	assert.Less(t, strings.Index(description, "Prefix"), strings.Index(description, "Cycle"))
}
