// Package model reads verification requests written as documents.
//
// A document describes either a transition system or a set of program graphs
// that run as a channel system, together with the properties to check. The
// same document can be written as YAML, as JSON or carried in a protobuf
// Struct.
package model

import (
	"errors"
	"fmt"

	"github.com/segmentio/fasthash/fnv1a"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var ErrInvalidDocument = errors.New("model: invalid document")

type Document struct {
	Name string `yaml:"name"`

	// Exactly one of System and Programs is set.
	System   *System   `yaml:"system,omitempty"`
	Programs []Program `yaml:"programs,omitempty"`

	// Buffer size of the asynchronous channels used by Programs. Zero means unbounded.
	ChannelCapacity int `yaml:"channelCapacity,omitempty"`

	// If set, state labels are restricted to these propositions before checking.
	Observe []string `yaml:"observe,omitempty"`

	Properties []Property `yaml:"properties"`
}

type System struct {
	States       []string            `yaml:"states"`
	Initial      []string            `yaml:"initial"`
	Actions      []string            `yaml:"actions,omitempty"`
	Propositions []string            `yaml:"propositions,omitempty"`
	Transitions  []Transition        `yaml:"transitions,omitempty"`
	Labels       map[string][]string `yaml:"labels,omitempty"`
}

type Transition struct {
	From   string `yaml:"from"`
	Action string `yaml:"action"`
	To     string `yaml:"to"`
}

type Program struct {
	Name            string     `yaml:"name"`
	Locations       []string   `yaml:"locations"`
	Initial         []string   `yaml:"initial"`
	Initializations [][]string `yaml:"initializations,omitempty"`
	Transitions     []Edge     `yaml:"transitions,omitempty"`
}

type Edge struct {
	From      string `yaml:"from"`
	Condition string `yaml:"condition,omitempty"`
	Action    string `yaml:"action"`
	To        string `yaml:"to"`
}

// Property describes the runs that violate it. Exactly one shape is set. Each
// list names propositions that must hold together.
type Property struct {
	Name string `yaml:"name"`

	Eventually      []string   `yaml:"eventually,omitempty"`
	ThenAlways      []string   `yaml:"thenAlways,omitempty"` // only together with Eventually
	InfinitelyOften []string   `yaml:"infinitelyOften,omitempty"`
	Never           []string   `yaml:"never,omitempty"`
	Automaton       *Automaton `yaml:"automaton,omitempty"`
}

type Automaton struct {
	States    []string        `yaml:"states"`
	Initial   []string        `yaml:"initial"`
	Accepting []string        `yaml:"accepting"`
	Edges     []AutomatonEdge `yaml:"edges"`
}

// AutomatonEdge is taken when its guard accepts the label of the next state.
// Any accepts every label and Empty only the empty one. Label accepts exactly
// the listed label, Holds accepts labels containing every listed proposition.
type AutomatonEdge struct {
	From  string   `yaml:"from"`
	To    string   `yaml:"to"`
	Any   bool     `yaml:"any,omitempty"`
	Empty bool     `yaml:"empty,omitempty"`
	Label []string `yaml:"label,omitempty"`
	Holds []string `yaml:"holds,omitempty"`
}

// Fingerprint identifies the document by content. Documents that encode to
// the same YAML share a fingerprint.
func (d *Document) Fingerprint() (string, error) {
	b, err := yaml.Marshal(d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", fnv1a.HashBytes64(b)), nil
}

// Validate returns every structural problem of the document. All returned
// errors wrap ErrInvalidDocument.
func (d *Document) Validate() error {
	var err error
	invalid := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalidDocument}, args...)...))
	}

	if d.Name == "" {
		invalid("missing name")
	}
	switch {
	case d.System == nil && len(d.Programs) == 0:
		invalid("%v: neither a system nor programs are given", d.Name)
	case d.System != nil && len(d.Programs) > 0:
		invalid("%v: both a system and programs are given", d.Name)
	}
	if d.ChannelCapacity < 0 {
		invalid("%v: negative channel capacity %v", d.Name, d.ChannelCapacity)
	}
	if d.System != nil {
		s := d.System
		for _, i := range s.Initial {
			if !slices.Contains(s.States, i) {
				invalid("initial state %q is not declared", i)
			}
		}
		for _, t := range s.Transitions {
			if !slices.Contains(s.States, t.From) || !slices.Contains(s.States, t.To) {
				invalid("transition %v -%v-> %v references an undeclared state", t.From, t.Action, t.To)
			}
			if !slices.Contains(s.Actions, t.Action) {
				invalid("transition %v -%v-> %v references an undeclared action", t.From, t.Action, t.To)
			}
		}
		for st, props := range s.Labels {
			if !slices.Contains(s.States, st) {
				invalid("label of undeclared state %q", st)
			}
			for _, p := range props {
				if !slices.Contains(s.Propositions, p) {
					invalid("state %q is labeled with undeclared proposition %q", st, p)
				}
			}
		}
	}
	for _, p := range d.Programs {
		if p.Name == "" {
			invalid("program without name")
		}
		for _, i := range p.Initial {
			if !slices.Contains(p.Locations, i) {
				invalid("%v: initial location %q is not declared", p.Name, i)
			}
		}
		for _, t := range p.Transitions {
			if !slices.Contains(p.Locations, t.From) || !slices.Contains(p.Locations, t.To) {
				invalid("%v: transition %v -> %v references an undeclared location", p.Name, t.From, t.To)
			}
		}
	}
	if len(d.Properties) == 0 {
		invalid("%v: no properties", d.Name)
	}
	for _, p := range d.Properties {
		err = multierr.Append(err, p.validate())
	}
	return err
}

func (p Property) validate() error {
	shapes := 0
	for _, set := range []bool{len(p.Eventually) > 0, len(p.InfinitelyOften) > 0, len(p.Never) > 0, p.Automaton != nil} {
		if set {
			shapes++
		}
	}
	var err error
	if p.Name == "" {
		err = multierr.Append(err, fmt.Errorf("%w: property without name", ErrInvalidDocument))
	}
	if shapes != 1 {
		err = multierr.Append(err, fmt.Errorf("%w: property %q must have exactly one shape, has %v", ErrInvalidDocument, p.Name, shapes))
	}
	if len(p.ThenAlways) > 0 && len(p.Eventually) == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: property %q uses thenAlways without eventually", ErrInvalidDocument, p.Name))
	}
	if a := p.Automaton; a != nil {
		declared := func(q string) bool { return slices.Contains(a.States, q) }
		for _, q := range append(slices.Clone(a.Initial), a.Accepting...) {
			if !declared(q) {
				err = multierr.Append(err, fmt.Errorf("%w: property %q: automaton state %q is not declared", ErrInvalidDocument, p.Name, q))
			}
		}
		for _, e := range a.Edges {
			if !declared(e.From) || !declared(e.To) {
				err = multierr.Append(err, fmt.Errorf("%w: property %q: edge %v -> %v references an undeclared state", ErrInvalidDocument, p.Name, e.From, e.To))
			}
		}
	}
	return err
}
