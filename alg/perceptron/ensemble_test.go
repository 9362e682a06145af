package perceptron

import (
	"testing"
)

func newScoredModel(base *Model, weight float64) *Model {
	m := base.Copy()
	m.Update("B", 0, -1, weight)
	return m
}

func TestFinishEnsembleAveragesRetainedModels(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a", "b"}, nil)
	trainer := newTestTrainer(model, Options{Method: MethodGold, Iterations: 1})

	retained := newAgenda[*Model](2)
	retained.Add(newScoredModel(model, 8.0), 0.1)
	retained.Add(newScoredModel(model, 4.0), 0.9)
	retained.Add(newScoredModel(model, 2.0), 0.5)

	// Capacity 2: the 0.1-scored model was evicted, leaving weights 4
	// and 2 to average.
	trainer.finishEnsemble(retained)
	scores := model.ScoreVector([]string{"B"})
	if scores[0] != 3.0 {
		t.Error("Expected averaged weight 3.0, got", scores[0])
	}
}

type thresholdEvaluator struct {
	target float64
}

func (e thresholdEvaluator) Evaluate(m *Model) float64 {
	if m.ScoreVector([]string{"B"})[0] == e.target {
		return 1.0
	}
	return 0.0
}

func TestFinishEnsembleCrossValidatesPrefixSize(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a", "b"}, nil)
	trainer := newTestTrainer(model, Options{
		Method:           MethodGold,
		Iterations:       1,
		CVAveragedModels: true,
		Evaluator:        thresholdEvaluator{target: 4.0},
	})

	retained := newAgenda[*Model](2)
	retained.Add(newScoredModel(model, 4.0), 0.9)
	retained.Add(newScoredModel(model, 2.0), 0.5)

	// Only the single best model scores 4.0, so cross-validation must
	// settle on a prefix of size 1.
	trainer.finishEnsemble(retained)
	scores := model.ScoreVector([]string{"B"})
	if scores[0] != 4.0 {
		t.Error("Expected the 1-model prefix to win, got weight", scores[0])
	}
}

func TestFinishEnsembleCrossValidationNeverPicksEmptyPrefix(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a", "b"}, nil)
	trainer := newTestTrainer(model, Options{
		Method:           MethodGold,
		Iterations:       1,
		CVAveragedModels: true,
		Evaluator:        thresholdEvaluator{target: -1.0},
	})

	retained := newAgenda[*Model](1)
	retained.Add(newScoredModel(model, 6.0), 0.0)

	// Every prefix evaluates to 0.0; the first prefix must still win so
	// that averaging never runs over zero models.
	trainer.finishEnsemble(retained)
	scores := model.ScoreVector([]string{"B"})
	if scores[0] != 6.0 {
		t.Error("Expected the first prefix as fallback, got weight", scores[0])
	}
}

func TestTrainRetainsBestModelsForAveraging(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	evaluator := &scriptedEvaluator{scores: []float64{0.3, 0.9, 0.6}}
	trainer := newTestTrainer(model, Options{
		Method:         MethodGold,
		Iterations:     3,
		AveragedModels: 2,
		Evaluator:      evaluator,
	})
	trainer.Train([]*TrainingExample{example})
	if evaluator.calls != 3 {
		t.Error("Expected one evaluation per iteration, got", evaluator.calls)
	}
	if model.NumFeatures() == 0 {
		t.Error("Expected a non-empty averaged model")
	}
}
