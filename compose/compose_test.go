package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofvm/eval"
	"gofvm/pg"
	"gofvm/set"
	"gofvm/ts"
)

// A two state toggle on the given actions: off -on-> on -off-> off
func toggle(t *testing.T, name string) *ts.TransitionSystem[string, string, string] {
	sys := ts.New[string, string, string](name)
	sys.AddState("off", "on")
	sys.AddAction("on", "off")
	sys.AddProposition(name)
	require.NoError(t, sys.SetInitial("off", true))
	require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: "off", Action: "on", To: "on"}))
	require.NoError(t, sys.AddTransition(ts.Transition[string, string]{From: "on", Action: "off", To: "off"}))
	require.NoError(t, sys.AddLabel("on", name))
	return sys
}

func TestInterleave(t *testing.T) {
	joint := Interleave(toggle(t, "a"), toggle(t, "b"))

	assert.Equal(t, 4, joint.NumStates())
	assert.Equal(t, 8, joint.NumTransitions())
	assert.Equal(t, []ts.Pair[string, string]{ts.PairOf("off", "off")}, joint.InitialStates())

	label, err := joint.Label(ts.PairOf("on", "on"))
	require.NoError(t, err)
	assert.True(t, label.Equal(set.Of("a", "b")))
}

func TestHandshakeOnFullAlphabetOnlySynchronises(t *testing.T) {
	ts1, ts2 := toggle(t, "a"), toggle(t, "b")
	joint := InterleaveHandshake(ts1, ts2, set.Of(ts1.Actions()...))

	// only <off,off> and <on,on> are reachable
	assert.Equal(t, 2, joint.NumStates())
	for _, tr := range joint.Transitions() {
		assert.NotEqual(t, tr.From.First, tr.To.First, "%v moves the first component", tr)
		assert.NotEqual(t, tr.From.Second, tr.To.Second, "%v moves the second component", tr)
	}
	assert.Equal(t, 2, joint.NumTransitions())
}

func TestHandshakePrunesUnreachable(t *testing.T) {
	ts1, ts2 := toggle(t, "a"), toggle(t, "b")
	ts2.AddAction("reset")
	ts2.AddState("broken")
	require.NoError(t, ts2.AddTransition(ts.Transition[string, string]{From: "broken", Action: "reset", To: "off"}))

	joint := InterleaveHandshake(ts1, ts2, set.Of("on"))
	assert.False(t, joint.HasState(ts.PairOf("off", "broken")))
	for _, s := range joint.States() {
		assert.NotEqual(t, "broken", s.Second)
	}
}

func sender() *pg.ProgramGraph[string] {
	g := pg.New[string]("sender")
	g.AddLocation("s0", "s1")
	_ = g.SetInitial("s0", true)
	_ = g.AddTransition(pg.Transition[string]{From: "s0", Condition: "", Action: "_c!x", To: "s1"})
	_ = g.AddTransition(pg.Transition[string]{From: "s1", Condition: "x < 3", Action: "x := x + 1", To: "s0"})
	g.AddInitialization("x := 1")
	return g
}

func receiver() *pg.ProgramGraph[string] {
	g := pg.New[string]("receiver")
	g.AddLocation("r0", "r1")
	_ = g.SetInitial("r0", true)
	_ = g.AddTransition(pg.Transition[string]{From: "r0", Condition: "y == 0", Action: "_c?y", To: "r1"})
	_ = g.AddTransition(pg.Transition[string]{From: "r1", Condition: "", Action: "y := 0", To: "r0"})
	g.AddInitialization("y := 0")
	g.AddInitialization("y := 5")
	return g
}

func TestInterleavePrograms(t *testing.T) {
	joint := InterleavePrograms(sender(), receiver(), eval.Handshake{})

	assert.Len(t, joint.Locations(), 4)
	assert.Equal(t, []ts.Pair[string, string]{ts.PairOf("s0", "r0")}, joint.InitialLocations())
	assert.Equal(t, [][]string{{"x := 1", "y := 0"}, {"x := 1", "y := 5"}}, joint.Initializations())

	var combined []pg.Transition[ts.Pair[string, string]]
	for _, tr := range joint.Transitions() {
		assert.False(t, eval.Handshake{}.IsOneSided(tr.Action), "%v is one-sided", tr)
		if tr.Action == "_c!x|_c?y" {
			combined = append(combined, tr)
		}
	}
	require.Len(t, combined, 1)
	assert.Equal(t, ts.PairOf("s0", "r0"), combined[0].From)
	assert.Equal(t, ts.PairOf("s1", "r1"), combined[0].To)
	assert.Equal(t, "y == 0", combined[0].Condition)

	// 1 combined + 2 locations for each of the two local transitions
	assert.Len(t, joint.Transitions(), 5)
}

func TestInitializationsPassThrough(t *testing.T) {
	empty := pg.New[string]("empty")
	empty.AddLocation("e")
	joint := InterleavePrograms(empty, receiver(), nil)
	assert.Equal(t, [][]string{{"y := 0"}, {"y := 5"}}, joint.Initializations())

	joint2 := InterleavePrograms(sender(), empty, nil)
	assert.Equal(t, [][]string{{"x := 1"}}, joint2.Initializations())
}

func TestChannelSystem(t *testing.T) {
	relay := pg.New[string]("relay")
	relay.AddLocation("m")
	_ = relay.SetInitial("m", true)
	_ = relay.AddTransition(pg.Transition[string]{From: "m", Condition: "", Action: "z := 1", To: "m"})

	// the sender and receiver are not adjacent
	joint := ChannelSystem(eval.Handshake{}, sender(), relay, receiver())

	assert.Equal(t, []pg.Vector{pg.VectorOf("s0", "m", "r0")}, joint.InitialLocations())
	found := false
	for _, tr := range joint.Transitions() {
		if tr.Action == "_c!x|_c?y" {
			found = true
			assert.Equal(t, []string{"s1", "m", "r1"}, tr.To.Elements())
		}
		assert.False(t, eval.Handshake{}.IsOneSided(tr.Action), "%v is one-sided", tr)
	}
	assert.True(t, found)
}
