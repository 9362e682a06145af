package perceptron

import (
	"reflect"
	"testing"
)

type scriptedEvaluator struct {
	scores []float64
	calls  int
}

func (e *scriptedEvaluator) Evaluate(m *Model) float64 {
	score := e.scores[len(e.scores)-1]
	if e.calls < len(e.scores) {
		score = e.scores[e.calls]
	}
	e.calls++
	return score
}

func TestTrainStopsAfterStalledIterations(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	evaluator := &scriptedEvaluator{scores: []float64{1.0, 0.5, 0.4, 0.3}}
	trainer := newTestTrainer(model, Options{
		Method:                MethodGold,
		Iterations:            10,
		StalledIterationLimit: 2,
		Evaluator:             evaluator,
	})
	trainer.Train([]*TrainingExample{example})
	// Iteration 1 sets the best score; 2 and 3 fail to improve and the
	// limit of 2 stalled iterations stops training after the third.
	if evaluator.calls != 3 {
		t.Error("Expected 3 evaluations before stopping, got", evaluator.calls)
	}
}

func TestTrainLearnsShortSequence(t *testing.T) {
	model, example, labels := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	trainer := newTestTrainer(model, Options{Method: MethodGold, Iterations: 5})
	trainer.Train([]*TrainingExample{example})

	state := example.InitialState()
	for _, gold := range []string{"a", "b"} {
		best := model.FindHighestScoringTransitions(state, true, 1, nil)
		if len(best) == 0 {
			t.Fatal("No legal transition found while decoding")
		}
		predicted := model.Index.At(best[0].Transition)
		if predicted.Name() != gold {
			t.Error("Decoded", predicted.Name(), "expected", gold)
		}
		state = labels[gold].Apply(state, best[0].Score)
	}
}

func TestRunRestrictsUpdatesToAllowedFeatures(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	trainer := newTestTrainer(model, Options{Method: MethodGold, Iterations: 1})
	trainer.run([]*TrainingExample{example}, map[string]bool{"B": true})
	// The single pass mispredicts only the second step, so the allowed
	// bias feature keeps its one promote/demote pair through Condense.
	if model.NumFeatures() != 1 {
		t.Fatal("Expected only the allowed feature to receive updates, got", model.Features())
	}
	if model.Features()[0] != "B" {
		t.Error("Model acquired feature outside the allowed set:", model.Features())
	}
}

func TestStalledIterationNotRetainedOrCheckpointed(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	evaluator := &scriptedEvaluator{scores: []float64{1.0, 0.5, 0.4}}
	var checkpointed []int
	trainer := newTestTrainer(model, Options{
		Method:                MethodGold,
		Iterations:            10,
		StalledIterationLimit: 2,
		AveragedModels:        3,
		Evaluator:             evaluator,
		Checkpoint: func(m *Model, iteration int, devScore float64) error {
			checkpointed = append(checkpointed, iteration)
			return nil
		},
		CheckpointEvery: 3,
	})
	trainer.Train([]*TrainingExample{example})
	if evaluator.calls != 3 {
		t.Error("Expected 3 evaluations before stopping, got", evaluator.calls)
	}
	// Training stops during iteration 3's evaluation, before that
	// iteration's checkpoint would fire.
	if len(checkpointed) != 0 {
		t.Error("Expected no checkpoint of the stalling iteration, got", checkpointed)
	}
}

func TestSortedErrorCounts(t *testing.T) {
	counts := sortedErrorCounts(map[firstError]int{
		{predicted: 1, gold: 0}: 2,
		{predicted: 0, gold: 1}: 5,
		{predicted: 2, gold: 0}: 2,
		{predicted: 1, gold: 2}: 2,
	})
	want := []errorCount{
		{firstError{predicted: 0, gold: 1}, 5},
		{firstError{predicted: 1, gold: 0}, 2},
		{firstError{predicted: 2, gold: 0}, 2},
		{firstError{predicted: 1, gold: 2}, 2},
	}
	if !reflect.DeepEqual(counts, want) {
		t.Error("Expected", want, "got", counts)
	}
}

func TestFeatureFrequencyCutoffDropsRareFeatures(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	trainer := newTestTrainer(model, Options{
		Method:                 MethodGold,
		Iterations:             1,
		FeatureFrequencyCutoff: 1000,
	})
	trainer.Train([]*TrainingExample{example})
	if model.NumFeatures() != 0 {
		t.Error("Expected all features below cutoff to be dropped, got", model.Features())
	}
}

func TestFeatureFrequencyCutoffKeepsFrequentFeatures(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	trainer := newTestTrainer(model, Options{
		Method:                 MethodGold,
		Iterations:             1,
		FeatureFrequencyCutoff: 2,
	})
	trainer.Train([]*TrainingExample{example})
	// The single mistaken step emits one full update, counting 2 for
	// each of its features.
	if model.NumFeatures() != 3 {
		t.Error("Expected the 3 features of the mistaken step to survive, got", model.Features())
	}
}

func TestTrainWithCutoffRetrain(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	trainer := newTestTrainer(model, Options{
		Method:                 MethodGold,
		Iterations:             3,
		FeatureFrequencyCutoff: 2,
		RetrainAfterCutoff:     true,
	})
	trainer.Train([]*TrainingExample{example})
	if model.NumFeatures() == 0 {
		t.Error("Expected a non-empty model after retraining")
	}
}

func TestTrainWithShardRetraining(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	trainer := newTestTrainer(model, Options{
		Method:                  MethodGold,
		Iterations:              2,
		RetrainShards:           2,
		RetrainShardFeatureDrop: 0.5,
	})
	trainer.Train([]*TrainingExample{example})
	if model.NumFeatures() == 0 {
		t.Error("Expected a non-empty model after shard averaging")
	}
}

func TestCheckpointEveryNIterations(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	var checkpointed []int
	trainer := newTestTrainer(model, Options{
		Method:     MethodGold,
		Iterations: 5,
		Checkpoint: func(m *Model, iteration int, devScore float64) error {
			if m == model {
				t.Error("Checkpoint received the live model instead of a snapshot")
			}
			checkpointed = append(checkpointed, iteration)
			return nil
		},
		CheckpointEvery: 2,
	})
	trainer.Train([]*TrainingExample{example})
	if len(checkpointed) != 2 || checkpointed[0] != 2 || checkpointed[1] != 4 {
		t.Error("Expected checkpoints at iterations 2 and 4, got", checkpointed)
	}
}

func TestLearningRateDecay(t *testing.T) {
	model, example, _ := newTestSetup([]string{"a", "b"}, []string{"a", "b"})
	trainer := newTestTrainer(model, Options{
		Method:            MethodGold,
		Iterations:        20,
		DecayLearningRate: 0.5,
	})
	trainer.Train([]*TrainingExample{example})
	if trainer.learningRate != 0.25 {
		t.Error("Expected learning rate 0.25 after two decays, got", trainer.learningRate)
	}
}

func TestPruneFeaturesNeverEmpty(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a"}, nil)
	trainer := newTestTrainer(model, Options{
		Method:                  MethodGold,
		Iterations:              1,
		RetrainShardFeatureDrop: 1.0,
	})
	features := map[string]bool{"x": true, "a": true, "m": true}
	pruned := trainer.pruneFeatures(features)
	if len(pruned) != 1 || !pruned["a"] {
		t.Error("Expected the lexicographically first feature to survive, got", pruned)
	}
}

func TestPruneFeaturesKeepsAllWithoutDrop(t *testing.T) {
	model, _, _ := newTestSetup([]string{"a"}, nil)
	trainer := newTestTrainer(model, Options{Method: MethodGold, Iterations: 1})
	features := map[string]bool{"x": true, "a": true, "m": true}
	pruned := trainer.pruneFeatures(features)
	if len(pruned) != len(features) {
		t.Error("Expected all features kept with zero drop probability, got", pruned)
	}
}

func TestAugmentDataPivotBounds(t *testing.T) {
	model, _, labels := newTestSetup([]string{"a"}, nil)
	trainer := newTestTrainer(model, Options{Method: MethodGold, Iterations: 1})

	long := make([]string, 30)
	short := make([]string, 10)
	for i := range long {
		long[i] = "a"
	}
	for i := range short {
		short[i] = "a"
	}
	data := make([]*TrainingExample, 0, 40)
	for i := 0; i < 20; i++ {
		data = append(data, newTestExample(labels, long))
		data = append(data, newTestExample(labels, short))
	}

	augmented := trainer.augmentData(append([]*TrainingExample{}, data...), data)
	added := augmented[len(data):]
	if len(added) == 0 {
		t.Fatal("Expected some long examples to be augmented")
	}
	for _, example := range added {
		if len(example.Transitions) != 30 {
			t.Error("Augmented an example of length", len(example.Transitions))
		}
		if example.Pivot < 7 || example.Pivot > 26 {
			t.Error("Augmented pivot", example.Pivot, "out of bounds")
		}
	}
}
