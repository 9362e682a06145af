package sequence

import (
	"srparser/alg/perceptron"
	"srparser/alg/transition"
)

// Oracle is the static oracle of a replayed sequence: the only
// acceptable transition at step i is the i-th gold transition.
type Oracle struct{}

func (Oracle) GoldTransition(ex *perceptron.TrainingExample, c transition.Configuration) perceptron.OracleTransition {
	state := c.(*State)
	if state.count >= len(ex.Transitions) {
		return oracleTransition{}
	}
	return oracleTransition{gold: ex.Transitions[state.count]}
}

var _ perceptron.Oracle = Oracle{}

type oracleTransition struct {
	gold transition.Transition
}

func (o oracleTransition) Transition() (transition.Transition, bool) {
	return o.gold, o.gold != nil
}

func (o oracleTransition) IsCorrect(predicted transition.Transition) bool {
	return o.gold != nil && o.gold.Name() == predicted.Name()
}

// AccuracyEvaluator greedily decodes held-out examples with the model
// under evaluation and reports per-transition accuracy.
type AccuracyEvaluator struct {
	Examples []*perceptron.TrainingExample
}

func (e *AccuracyEvaluator) Evaluate(m *perceptron.Model) float64 {
	var correct, total int
	for _, example := range e.Examples {
		state := example.InitialState()
		for _, gold := range example.Transitions {
			scored := m.FindHighestScoringTransitions(state, true, 1, nil)
			if len(scored) == 0 {
				break
			}
			predicted := m.Index.At(scored[0].Transition)
			if predicted.Name() == gold.Name() {
				correct++
			}
			total++
			state = predicted.Apply(state, scored[0].Score)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

var _ perceptron.Evaluator = &AccuracyEvaluator{}
