// Package sequence is a symbolic transition system for replaying gold
// transition corpora: transitions are opaque named labels over a
// fixed-length slot sequence, and a configuration is the history of
// labels applied so far. It is the concrete system behind the CLI and
// serves as a stand-in for a full parser's state machine, which plugs
// into the same interfaces.
package sequence

import (
	"srparser/alg/transition"
)

// Label is a named symbolic transition. Labels with the same name are
// interchangeable; identity is the name.
type Label struct {
	name string
}

func NewLabel(name string) *Label {
	return &Label{name: name}
}

func (l *Label) Name() string {
	return l.name
}

func (l *Label) IsLegal(c transition.Configuration, constraints []transition.Constraint) bool {
	return !c.(*State).Terminal()
}

func (l *Label) Apply(c transition.Configuration, score float64) transition.Configuration {
	state := c.(*State)
	return &State{
		prev:   state,
		last:   l,
		length: state.length,
		count:  state.count + 1,
		score:  state.score + score,
	}
}

var _ transition.Transition = &Label{}

// State is the configuration of a replayed sequence: the chain of
// labels applied so far, over an input of fixed length. States share
// their prefix chains; applying a transition never mutates.
type State struct {
	prev   *State
	last   *Label
	length int
	count  int
	score  float64
}

func (s *State) Terminal() bool {
	return s.count >= s.length
}

func (s *State) Score() float64 {
	return s.score
}

func (s *State) Count() int {
	return s.count
}

func (s *State) Transitions() []transition.Transition {
	history := make([]transition.Transition, s.count)
	for cur := s; cur.prev != nil; cur = cur.prev {
		history[cur.count-1] = cur.last
	}
	return history
}

// LastNames returns the names of the most recent n transitions, most
// recent first; fewer if the history is shorter.
func (s *State) LastNames(n int) []string {
	names := make([]string, 0, n)
	for cur := s; cur.prev != nil && len(names) < n; cur = cur.prev {
		names = append(names, cur.last.name)
	}
	return names
}

func (s *State) TransitionsEqual(other transition.Configuration) bool {
	o := other.(*State)
	if s.count != o.count {
		return false
	}
	left, right := s, o
	for left.prev != nil && right.prev != nil {
		if left.last.name != right.last.name {
			return false
		}
		left, right = left.prev, right.prev
	}
	return left.prev == nil && right.prev == nil
}

var _ transition.Configuration = &State{}

// Sentence is a training input: a sequence of slots to be filled by
// exactly Length transitions.
type Sentence struct {
	Length int
}

func (s *Sentence) InitialState() transition.Configuration {
	return &State{length: s.Length}
}
