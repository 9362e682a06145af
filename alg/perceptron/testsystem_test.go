package perceptron

import (
	"fmt"

	"srparser/alg/transition"
)

// A minimal symbolic transition system for exercising the trainer:
// transitions are named labels, a configuration is the chain of labels
// applied over a fixed-length input.

type testLabel struct {
	name string
}

func (l *testLabel) Name() string { return l.name }

func (l *testLabel) IsLegal(c transition.Configuration, constraints []transition.Constraint) bool {
	return !c.Terminal()
}

func (l *testLabel) Apply(c transition.Configuration, score float64) transition.Configuration {
	state := c.(*testState)
	return &testState{
		prev:   state,
		last:   l,
		length: state.length,
		count:  state.count + 1,
		score:  state.score + score,
	}
}

type testState struct {
	prev   *testState
	last   *testLabel
	length int
	count  int
	score  float64
}

func (s *testState) Terminal() bool { return s.count >= s.length }

func (s *testState) Score() float64 { return s.score }

func (s *testState) Transitions() []transition.Transition {
	history := make([]transition.Transition, s.count)
	for cur := s; cur.prev != nil; cur = cur.prev {
		history[cur.count-1] = cur.last
	}
	return history
}

func (s *testState) TransitionsEqual(other transition.Configuration) bool {
	o := other.(*testState)
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

type testInput struct {
	length int
}

func (in *testInput) InitialState() transition.Configuration {
	return &testState{length: in.length}
}

// testFactory features: a bias, the previous transition, the step.
type testFactory struct{}

func (testFactory) Featurize(c transition.Configuration) []string {
	state := c.(*testState)
	features := []string{"B", fmt.Sprintf("P=%d", state.count)}
	if state.last != nil {
		features = append(features, "H1="+state.last.name)
	}
	return features
}

// newTestSetup builds an index over the named labels, a model over
// them and an example following the gold label names.
func newTestSetup(vocab []string, gold []string) (*Model, *TrainingExample, map[string]*testLabel) {
	index := transition.NewIndex()
	labels := make(map[string]*testLabel)
	for _, name := range vocab {
		label := &testLabel{name: name}
		labels[name] = label
		index.Add(label)
	}
	model := New(index, testFactory{})
	transitions := make([]transition.Transition, len(gold))
	for i, name := range gold {
		transitions[i] = labels[name]
	}
	example := NewTrainingExample(&testInput{length: len(gold)}, transitions, 0)
	return model, example, labels
}

func newTestExample(labels map[string]*testLabel, gold []string) *TrainingExample {
	transitions := make([]transition.Transition, len(gold))
	for i, name := range gold {
		transitions[i] = labels[name]
	}
	return NewTrainingExample(&testInput{length: len(gold)}, transitions, 0)
}

func newTestTrainer(t *Model, opts Options) *Trainer {
	trainer, err := NewTrainer(t, opts, 1)
	if err != nil {
		panic(err)
	}
	return trainer
}
