package gofvm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gofvm/automaton"
	"gofvm/checking"
	"gofvm/model"
	"gofvm/pg"
	"gofvm/predicate"
	"gofvm/ts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// s0 <-> s1, with p holding in s1
func light(t *testing.T) *ts.TransitionSystem[string, string, string] {
	sys := ts.New[string, string, string]("light")
	sys.AddState("s0", "s1")
	sys.AddAction("a")
	sys.AddProposition("p")
	require.NoError(t, sys.SetInitial("s0", true))
	require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: "s0", Action: "a", To: "s1"}))
	require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: "s1", Action: "a", To: "s0"}))
	require.NoError(t, sys.AddLabel("s1", "p"))
	return sys
}

func TestVerify(t *testing.T) {
	buf := &bytes.Buffer{}
	res, err := Verify(context.Background(), light(t), predicate.Eventually(predicate.Holds("p")),
		WithLogger(zaptest.NewLogger(t)),
		WithSearchTree(buf),
	)
	require.NoError(t, err)
	ok, _ := res.Response()
	assert.False(t, ok)
	f := res.(checking.Failed[string])
	assert.NotEmpty(t, f.Cycle)
	assert.NotEmpty(t, buf.String())

	res, err = Verify(context.Background(), light(t), predicate.Never(predicate.Holds("p")))
	require.NoError(t, err)
	ok, _ = res.Response()
	assert.True(t, ok)
}

func TestVerifyAllKeepsOrder(t *testing.T) {
	auts := []*automaton.Automaton[string, string]{
		predicate.Never(predicate.Holds("p")),
		predicate.Eventually(predicate.Holds("p")),
		predicate.InfinitelyOften(predicate.Holds("p")),
		predicate.EventuallyThenAlways(predicate.Holds("p"), predicate.Holds("p")),
	}
	results, err := VerifyAll(context.Background(), light(t), auts, WithConcurrency(2))
	require.NoError(t, err)
	require.Len(t, results, 4)

	expected := []bool{true, false, false, true}
	for i, res := range results {
		ok, _ := res.Response()
		assert.Equal(t, expected[i], ok, "property %v", i)
	}
}

func TestVerifyAllSearchTrees(t *testing.T) {
	auts := []*automaton.Automaton[string, string]{
		predicate.Never(predicate.Holds("p")),
		predicate.Eventually(predicate.Holds("p")),
	}

	sequential := &bytes.Buffer{}
	_, err := VerifyAll(context.Background(), light(t), auts, WithConcurrency(1), WithSearchTree(sequential))
	require.NoError(t, err)
	// one tree per product, each product has a single initial state
	assert.Equal(t, 2, strings.Count(sequential.String(), ";\n"))

	concurrent := &bytes.Buffer{}
	_, err = VerifyAll(context.Background(), light(t), auts, WithConcurrency(2), WithSearchTree(concurrent))
	require.NoError(t, err)
	assert.Empty(t, concurrent.String())

	single := &bytes.Buffer{}
	_, err = VerifyAll(context.Background(), light(t), auts[1:], WithConcurrency(2), WithSearchTree(single))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(single.String(), ";\n"))
}

func TestVerifyAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := VerifyAll(ctx, light(t), []*automaton.Automaton[string, string]{predicate.Eventually(predicate.Holds("p"))})
	assert.ErrorIs(t, err, context.Canceled)
}

// process i: noncrit -> wait -> crit -> noncrit. With guarded set, entering
// crit takes the semaphore y.
func process(t *testing.T, i string, guarded bool) *pg.ProgramGraph[string] {
	g := pg.New[string]("p" + i)
	g.AddLocation("noncrit"+i, "wait"+i, "crit"+i)
	require.NoError(t, g.SetInitial("noncrit"+i, true))
	enter := pg.Transition[string]{From: "wait" + i, Action: "enter", To: "crit" + i}
	leave := pg.Transition[string]{From: "crit" + i, Action: "leave", To: "noncrit" + i}
	if guarded {
		enter.Condition, enter.Action = "y > 0", "y := y - 1"
		leave.Action = "y := y + 1"
	}
	require.NoError(t, g.AddTransition(pg.Transition[string]{From: "noncrit" + i, Action: "request", To: "wait" + i}))
	require.NoError(t, g.AddTransition(enter))
	require.NoError(t, g.AddTransition(leave))
	return g
}

func TestVerifyProgramGraphs(t *testing.T) {
	bothCritical := predicate.Eventually(predicate.Holds("crit1", "crit2"))

	p1 := process(t, "1", true)
	p1.AddInitialization("y := 1")
	res, err := VerifyProgramGraphs(context.Background(), bothCritical, []*pg.ProgramGraph[string]{p1, process(t, "2", true)})
	require.NoError(t, err)
	ok, _ := res.Response()
	assert.True(t, ok)

	res, err = VerifyProgramGraphs(context.Background(), bothCritical, []*pg.ProgramGraph[string]{process(t, "1", false), process(t, "2", false)})
	require.NoError(t, err)
	ok, _ = res.Response()
	assert.False(t, ok)
}

func TestUnfold(t *testing.T) {
	p1 := process(t, "1", true)
	p1.AddInitialization("y := 1")
	sys, err := Unfold(context.Background(), []*pg.ProgramGraph[string]{p1, process(t, "2", true)})
	require.NoError(t, err)
	assert.Equal(t, 8, sys.NumStates())
	assert.NoError(t, sys.Validate())

	_, err = Unfold(context.Background(), []*pg.ProgramGraph[string]{p1, process(t, "2", true)}, WithMaxStates(3))
	assert.Error(t, err)

	_, err = Unfold(context.Background(), nil)
	assert.Error(t, err)
}

const semaphoreDocument = `
name: semaphore
observe: [crit1, crit2]
programs:
  - name: p1
    locations: [noncrit1, wait1, crit1]
    initial: [noncrit1]
    initializations: [["y := 1"]]
    transitions:
      - {from: noncrit1, action: request, to: wait1}
      - {from: wait1, condition: "y > 0", action: "y := y - 1", to: crit1}
      - {from: crit1, action: "y := y + 1", to: noncrit1}
  - name: p2
    locations: [noncrit2, wait2, crit2]
    initial: [noncrit2]
    transitions:
      - {from: noncrit2, action: request, to: wait2}
      - {from: wait2, condition: "y > 0", action: "y := y - 1", to: crit2}
      - {from: crit2, action: "y := y + 1", to: noncrit2}
properties:
  - name: mutual-exclusion
    eventually: [crit1, crit2]
  - name: p1-starves
    never: [crit1]
  - name: exact-labels
    automaton:
      states: [q0, q1]
      initial: [q0]
      accepting: [q1]
      edges:
        - {from: q0, to: q0, any: true}
        - {from: q0, to: q1, label: [crit1, crit2]}
        - {from: q1, to: q1, any: true}
`

func TestVerifyDocument(t *testing.T) {
	d, err := model.Parse([]byte(semaphoreDocument))
	require.NoError(t, err)
	reports, err := VerifyDocument(context.Background(), d, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.Len(t, reports, 3)

	fp, err := d.Fingerprint()
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, "semaphore", r.Document)
		assert.Equal(t, fp, r.Fingerprint)
	}

	assert.Equal(t, "mutual-exclusion", reports[0].Property)
	assert.True(t, reports[0].Holds)
	assert.Empty(t, reports[0].Cycle)

	// p2 can take the semaphore forever while p1 waits.
	assert.Equal(t, "p1-starves", reports[1].Property)
	assert.False(t, reports[1].Holds)
	assert.NotEmpty(t, reports[1].Cycle)
	for _, s := range append(reports[1].Prefix, reports[1].Cycle...) {
		assert.NotContains(t, s, "<[crit1,")
	}

	assert.True(t, reports[2].Holds)
}

func TestVerifyDocumentSearchTree(t *testing.T) {
	d, err := model.Parse([]byte(semaphoreDocument))
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	_, err = VerifyDocument(context.Background(), d, WithConcurrency(1), WithSearchTree(buf))
	require.NoError(t, err)
	assert.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "crit1")
}

func TestVerifyDocumentRejectsInvalid(t *testing.T) {
	_, err := VerifyDocument(context.Background(), &model.Document{Name: "empty"})
	assert.ErrorIs(t, err, model.ErrInvalidDocument)
}
