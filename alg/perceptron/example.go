package perceptron

import (
	"srparser/alg/transition"
)

// Input is whatever a concrete transition system parses; the trainer
// only needs it to produce the initial configuration.
type Input interface {
	InitialState() transition.Configuration
}

// TrainingExample pairs an input with its gold transition sequence.
// A positive pivot truncates training to the sequence prefix of that
// length, which is how data augmentation diversifies local contexts.
type TrainingExample struct {
	Input       Input
	Transitions []transition.Transition
	Pivot       int
}

func NewTrainingExample(input Input, transitions []transition.Transition, pivot int) *TrainingExample {
	return &TrainingExample{Input: input, Transitions: transitions, Pivot: pivot}
}

func (ex *TrainingExample) InitialState() transition.Configuration {
	return ex.Input.InitialState()
}

// TrainTransitions returns the gold transitions to train on, honoring
// the pivot. The returned slice is the example's own copy: training
// consumes it front-to-back and may rewrite it via reordering.
func (ex *TrainingExample) TrainTransitions() []transition.Transition {
	n := len(ex.Transitions)
	if ex.Pivot > 0 && ex.Pivot < n {
		n = ex.Pivot
	}
	transitions := make([]transition.Transition, n)
	copy(transitions, ex.Transitions[:n])
	return transitions
}

// TrainingUpdate is a deferred perceptron update: for every listed
// feature, add Delta at the gold transition and subtract Delta at the
// predicted one. A negative id means that side of the update is absent.
type TrainingUpdate struct {
	Features            []string
	GoldTransition      int
	PredictedTransition int
	Delta               float64
}

// OracleTransition is the dynamic oracle's answer for one
// configuration: an optional preferred gold transition plus an
// acceptability test that may accept several transitions.
type OracleTransition interface {
	Transition() (transition.Transition, bool)
	IsCorrect(predicted transition.Transition) bool
}

// Oracle determines what transitions are acceptable from a
// configuration given the gold analysis.
type Oracle interface {
	GoldTransition(ex *TrainingExample, c transition.Configuration) OracleTransition
}

// Reorderer rewrites the remaining gold transitions so that the chosen
// transition becomes consistent with a new gold continuation. It
// returns the rewritten sequence and whether reordering succeeded.
type Reorderer interface {
	Reorder(c transition.Configuration, chosen transition.Transition, remaining []transition.Transition) ([]transition.Transition, bool)
}

// Evaluator scores a model snapshot against a held-out set.
type Evaluator interface {
	Evaluate(m *Model) float64
}

// CheckpointFunc receives a full model snapshot during training,
// together with the iteration it came from and that iteration's dev
// score. The on-disk encoding is the caller's concern.
type CheckpointFunc func(m *Model, iteration int, devScore float64) error
