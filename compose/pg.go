package compose

import (
	"golang.org/x/exp/slices"

	"gofvm/pg"
	"gofvm/ts"
)

// Synchronizer decides which program graph actions synchronise.
//
// A one-sided action only happens together with a matching one-sided action of
// the other graph. The pair becomes a single transition labeled with the
// combined action and guarded by the conjoined conditions.
type Synchronizer interface {
	IsOneSided(action string) bool
	Match(a1, a2 string) bool
	Combine(a1, a2 string) string
	Conjoin(c1, c2 string) string
}

// InterleavePrograms composes two program graphs. Locations are pairs of
// locations, non one-sided actions interleave and one-sided actions of pg1
// synchronise with matching one-sided actions of pg2.
//
// A nil sync treats every action as independent.
func InterleavePrograms[L1, L2 comparable](pg1 *pg.ProgramGraph[L1], pg2 *pg.ProgramGraph[L2], sync Synchronizer) *pg.ProgramGraph[ts.Pair[L1, L2]] {
	return interleavePrograms(pg1, pg2, sync, ts.PairOf[L1, L2], false)
}

// ChannelSystem composes any number of program graphs into one whose locations
// list the location of every component in order.
func ChannelSystem(sync Synchronizer, pgs ...*pg.ProgramGraph[string]) *pg.ProgramGraph[pg.Vector] {
	if len(pgs) == 0 {
		return pg.New[pg.Vector]("")
	}
	joint := vectorize(pgs[0])
	for i, next := range pgs[1:] {
		// one-sided actions without a partner yet may still find one in a
		// later component
		last := i == len(pgs)-2
		joint = interleavePrograms(joint, next, sync, pg.Vector.Append, !last)
	}
	return joint
}

func vectorize(g *pg.ProgramGraph[string]) *pg.ProgramGraph[pg.Vector] {
	v := pg.New[pg.Vector](g.Name)
	for _, l := range g.Locations() {
		v.AddLocation(pg.VectorOf(l))
	}
	for _, l := range g.InitialLocations() {
		must(v.SetInitial(pg.VectorOf(l), true))
	}
	for _, t := range g.Transitions() {
		must(v.AddTransition(pg.Transition[pg.Vector]{
			From:      pg.VectorOf(t.From),
			Condition: t.Condition,
			Action:    t.Action,
			To:        pg.VectorOf(t.To),
		}))
	}
	for _, init := range g.Initializations() {
		v.AddInitialization(init...)
	}
	return v
}

func interleavePrograms[L1, L2, L comparable](
	pg1 *pg.ProgramGraph[L1],
	pg2 *pg.ProgramGraph[L2],
	sync Synchronizer,
	join func(L1, L2) L,
	keepOneSided bool,
) *pg.ProgramGraph[L] {
	joint := pg.New[L](pg1.Name + "||" + pg2.Name)
	isOneSided := func(action string) bool {
		return sync != nil && sync.IsOneSided(action)
	}

	for _, l1 := range pg1.Locations() {
		for _, l2 := range pg2.Locations() {
			l := join(l1, l2)
			joint.AddLocation(l)
			if pg1.IsInitial(l1) && pg2.IsInitial(l2) {
				must(joint.SetInitial(l, true))
			}
		}
	}

	inits1, inits2 := pg1.Initializations(), pg2.Initializations()
	for _, init1 := range inits1 {
		for _, init2 := range inits2 {
			joint.AddInitialization(append(slices.Clone(init1), init2...)...)
		}
	}
	if len(inits1) == 0 {
		for _, init2 := range inits2 {
			joint.AddInitialization(init2...)
		}
	}
	if len(inits2) == 0 {
		for _, init1 := range inits1 {
			joint.AddInitialization(init1...)
		}
	}

	for _, t1 := range pg1.Transitions() {
		if isOneSided(t1.Action) {
			for _, t2 := range pg2.Transitions() {
				if !isOneSided(t2.Action) || !sync.Match(t1.Action, t2.Action) {
					continue
				}
				must(joint.AddTransition(pg.Transition[L]{
					From:      join(t1.From, t2.From),
					Condition: sync.Conjoin(t1.Condition, t2.Condition),
					Action:    sync.Combine(t1.Action, t2.Action),
					To:        join(t1.To, t2.To),
				}))
			}
			if !keepOneSided {
				continue
			}
		}
		for _, l2 := range pg2.Locations() {
			must(joint.AddTransition(pg.Transition[L]{
				From:      join(t1.From, l2),
				Condition: t1.Condition,
				Action:    t1.Action,
				To:        join(t1.To, l2),
			}))
		}
	}
	for _, t2 := range pg2.Transitions() {
		if isOneSided(t2.Action) && !keepOneSided {
			continue
		}
		for _, l1 := range pg1.Locations() {
			must(joint.AddTransition(pg.Transition[L]{
				From:      join(l1, t2.From),
				Condition: t2.Condition,
				Action:    t2.Action,
				To:        join(l1, t2.To),
			}))
		}
	}
	return joint
}
