package perceptron

import (
	"testing"
)

// Scenario from the scoring contract: one feature over a 3-transition
// vocabulary, a single promote/demote update, then L2 decay.
func TestModelUpdateAndScore(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a", "b", "c"}, nil)
	model.Update("F", 1, 2, 1.0)
	scores := model.ScoreVector([]string{"F"})
	expected := []float64{0, 1, -1}
	for i, score := range scores {
		if score != expected[i] {
			t.Error("Got score", score, "at", i, "expected", expected[i])
		}
	}
	model.L2Reg(0.5)
	scores = model.ScoreVector([]string{"F"})
	expected = []float64{0, 0.5, -0.5}
	for i, score := range scores {
		if score != expected[i] {
			t.Error("Got score", score, "at", i, "expected", expected[i])
		}
	}
}

func TestModelScoreIgnoresUnknownFeatures(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a", "b"}, nil)
	model.Update("F", 0, -1, 2.0)
	scores := model.ScoreVector([]string{"F", "UNSEEN"})
	if scores[0] != 2.0 || scores[1] != 0.0 {
		t.Error("Got scores", scores, "expected", []float64{2.0, 0.0})
	}
}

func TestModelCondenseIdempotent(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a", "b"}, nil)
	model.Update("F", 0, -1, 1.0)
	model.Update("F", -1, 0, 1.0) // cancels out
	model.Update("G", 1, -1, 3.0)
	model.Condense()
	if model.NumFeatures() != 1 {
		t.Error("Got", model.NumFeatures(), "features, expected", 1)
	}
	if scores := model.ScoreVector([]string{"G"}); scores[1] != 3.0 {
		t.Error("Got score", scores[1], "expected", 3.0)
	}
	model.Condense()
	if model.NumFeatures() != 1 {
		t.Error("Condense not idempotent, got", model.NumFeatures(), "features")
	}
}

func TestModelFilterFeatures(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a"}, nil)
	model.Update("F", 0, -1, 1.0)
	model.Update("G", 0, -1, 1.0)
	model.FilterFeatures(map[string]bool{"G": true})
	if model.NumFeatures() != 1 {
		t.Error("Got", model.NumFeatures(), "features, expected", 1)
	}
	if scores := model.ScoreVector([]string{"F"}); scores[0] != 0 {
		t.Error("Filtered feature still scores", scores[0])
	}
}

func TestAverageModels(t *testing.T) {
	first, _, _ := newTestSetup([]string{"a", "b"}, nil)
	second := first.Copy()
	third := first.Copy()
	first.Update("F", 0, -1, 3.0)
	second.Update("F", 0, 1, 6.0)
	third.Update("G", 1, -1, 3.0)

	merged := first.Copy()
	merged.AverageModels([]*Model{first, second, third})

	if scores := merged.ScoreVector([]string{"F"}); scores[0] != 3.0 || scores[1] != -2.0 {
		t.Error("Got scores", scores, "expected", []float64{3.0, -2.0})
	}
	if scores := merged.ScoreVector([]string{"G"}); scores[1] != 1.0 {
		t.Error("Got score", scores[1], "expected", 1.0)
	}
}

func TestAverageSingleModelIsIdentity(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a", "b"}, nil)
	model.Update("F", 1, 0, 2.5)
	merged := model.Copy()
	merged.AverageModels([]*Model{model})
	if scores := merged.ScoreVector([]string{"F"}); scores[1] != 2.5 || scores[0] != -2.5 {
		t.Error("Got scores", scores, "expected", []float64{-2.5, 2.5})
	}
}

func TestAverageEmptyModelsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Averaging no models should panic")
		}
	}()
	model, _, _ := newTestSetup([]string{"a"}, nil)
	model.AverageModels(nil)
}
