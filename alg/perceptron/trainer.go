package perceptron

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Options is the full caller-supplied training configuration.
type Options struct {
	Method    TrainingMethod
	BeamSize  int
	BatchSize int
	Threads   int

	Iterations            int
	StalledIterationLimit int

	LearningRate      float64
	DecayLearningRate float64
	L1Reg             float64
	L2Reg             float64

	FeatureFrequencyCutoff  int
	RetrainAfterCutoff      bool
	RetrainShards           int
	RetrainShardFeatureDrop float64

	AveragedModels   int
	CVAveragedModels bool

	AugmentSubsentences bool

	Oracle    Oracle
	Reorderer Reorderer
	Evaluator Evaluator

	Checkpoint      CheckpointFunc
	CheckpointEvery int
}

// Trainer drives the iterative perceptron training loop over a model.
type Trainer struct {
	opts  Options
	model *Model
	rand  *rand.Rand

	learningRate float64
}

func NewTrainer(model *Model, opts Options, seed int64) (*Trainer, error) {
	if opts.Iterations <= 0 {
		return nil, fmt.Errorf("training iterations must be positive, got %d", opts.Iterations)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	if opts.LearningRate == 0 {
		opts.LearningRate = 1.0
	}
	if opts.Method.beamSearch() && opts.BeamSize <= 0 {
		return nil, fmt.Errorf("illegal beam size %d", opts.BeamSize)
	}
	if opts.Method == MethodOracle && opts.Oracle == nil {
		return nil, fmt.Errorf("training method %v requires an oracle", opts.Method)
	}
	if (opts.Method == MethodReorderOracle || opts.Method == MethodReorderBeam) && opts.Reorderer == nil {
		return nil, fmt.Errorf("training method %v requires a reordering oracle", opts.Method)
	}
	return &Trainer{
		opts:         opts,
		model:        model,
		rand:         rand.New(rand.NewSource(seed)),
		learningRate: opts.LearningRate,
	}, nil
}

func (t *Trainer) Model() *Model {
	return t.model
}

// Train runs the full training procedure: one pass, or a two-phase
// cutoff retrain, or N independent shard retrains merged by averaging.
func (t *Trainer) Train(data []*TrainingExample) {
	if (t.opts.RetrainAfterCutoff && t.opts.FeatureFrequencyCutoff > 0) || t.opts.RetrainShards > 1 {
		t.run(data, nil)
		log.Println("Beginning retraining")
		features := make(map[string]bool, t.model.NumFeatures())
		for _, feature := range t.model.Features() {
			features[feature] = true
		}
		t.model.Reset()
		t.run(data, features)

		// One shard means we are done; otherwise retrain N-1 more
		// times, each on a randomly thinned feature vocabulary.
		if t.opts.RetrainShards > 1 {
			shards := []*Model{t.model.Copy()}
			for i := 1; i < t.opts.RetrainShards; i++ {
				log.Println("Beginning retraining of shard", i+1)
				pruned := t.pruneFeatures(features)
				t.model.Reset()
				t.run(data, pruned)
				shards = append(shards, t.model.Copy())
			}
			log.Println("Averaging", t.opts.RetrainShards, "shards")
			t.model.AverageModels(shards)
			t.model.Condense()
			if t.opts.Evaluator != nil {
				score := t.opts.Evaluator.Evaluate(t.model)
				log.Println("Dev score for", t.opts.RetrainShards, "averaged shards:", score)
			}
		}
	} else {
		t.run(data, nil)
	}
}

// run is one full training pass. A non-nil allowed set restricts
// weight updates to a previously harvested feature vocabulary.
func (t *Trainer) run(data []*TrainingExample, allowed map[string]bool) {
	var (
		bestScore     float64
		bestIteration int
		bestModels    *agenda[*Model]
	)
	if t.opts.AveragedModels > 0 {
		bestModels = newAgenda[*Model](t.opts.AveragedModels)
	}

	var featureFrequencies map[string]int
	if t.opts.FeatureFrequencyCutoff > 1 && allowed == nil {
		// A non-nil allowed set means rare features were already
		// filtered once; the second time around they may exist.
		featureFrequencies = make(map[string]int)
	}

	prevPrefix := log.Prefix()
	for iteration := 1; iteration <= t.opts.Iterations; iteration++ {
		iterationStart := time.Now()
		log.SetPrefix(fmt.Sprintf("IT #%v ", iteration) + prevPrefix)

		var (
			numCorrect  int
			numWrong    int
			firstErrors = make(map[firstError]int)
		)

		augmented := make([]*TrainingExample, len(data))
		copy(augmented, data)
		if t.opts.AugmentSubsentences {
			augmented = t.augmentData(augmented, data)
		}
		t.rand.Shuffle(len(augmented), func(i, j int) {
			augmented[i], augmented[j] = augmented[j], augmented[i]
		})
		log.Println("Original list", len(data), "; augmented", len(augmented))

		for start := 0; start < len(augmented); start += t.opts.BatchSize {
			end := start + t.opts.BatchSize
			if end > len(augmented) {
				end = len(augmented)
			}
			result := t.trainBatch(augmented[start:end])

			numCorrect += result.numCorrect
			numWrong += result.numWrong
			for _, err := range result.firstErrors {
				firstErrors[err]++
			}
			if numWrong < len(result.firstErrors) {
				panic(fmt.Sprintf("Wrong count %d below first error count %d", numWrong, len(result.firstErrors)))
			}

			for _, update := range result.updates {
				for _, feature := range update.Features {
					if allowed != nil && !allowed[feature] {
						continue
					}
					t.model.Update(feature, update.GoldTransition, update.PredictedTransition, update.Delta)
					if featureFrequencies != nil {
						if update.GoldTransition >= 0 && update.PredictedTransition >= 0 {
							featureFrequencies[feature] += 2
						} else {
							featureFrequencies[feature]++
						}
					}
				}
			}
		}

		if t.opts.L2Reg > 0 {
			t.model.L2Reg(t.opts.L2Reg)
		}
		if t.opts.L1Reg > 0 {
			t.model.L1Reg(t.opts.L1Reg)
		}

		log.Println("Iteration took", time.Since(iterationStart))
		log.Println("While training, got", numCorrect, "transitions correct and", numWrong, "transitions wrong")
		t.model.LogStats()
		t.logFirstErrors(firstErrors)

		var devScore float64
		if t.opts.Evaluator != nil {
			devScore = t.opts.Evaluator.Evaluate(t.model)
			log.Println("Dev score for iteration", iteration, ":", devScore)
			if devScore > bestScore {
				log.Println("New best dev score (previous best", bestScore, ")")
				bestScore = devScore
				bestIteration = iteration
			} else {
				log.Println("Failed to improve for", iteration-bestIteration, "iteration(s) on previous best score of", bestScore)
				if t.opts.StalledIterationLimit > 0 && iteration-bestIteration >= t.opts.StalledIterationLimit {
					// The stalling model is the worst seen; neither retain
					// nor checkpoint it.
					log.Println("Failed to improve for too long, stopping training")
					break
				}
			}
			if bestModels != nil {
				bestModels.Add(t.model.Copy(), devScore)
			}
		}

		if t.opts.Checkpoint != nil && t.opts.CheckpointEvery > 0 && iteration%t.opts.CheckpointEvery == 0 {
			if err := t.opts.Checkpoint(t.model.Copy(), iteration, devScore); err != nil {
				log.Println("Checkpoint at iteration", iteration, "failed:", err)
			}
		}

		if iteration%10 == 0 && t.opts.DecayLearningRate > 0 {
			t.learningRate *= t.opts.DecayLearningRate
		}
	}
	log.SetPrefix(prevPrefix)

	if bestModels != nil && bestModels.Len() > 0 {
		t.finishEnsemble(bestModels)
	}

	if featureFrequencies != nil {
		keep := make(map[string]bool)
		for feature, count := range featureFrequencies {
			if count >= t.opts.FeatureFrequencyCutoff {
				keep[feature] = true
			}
		}
		t.model.FilterFeatures(keep)
	}

	t.model.Condense()
}

// augmentData appends truncated copies of roughly half the examples
// longer than 10 transitions, cutting at a randomized pivot. This lets
// the model see mid-parse contexts it would not reach on its own.
func (t *Trainer) augmentData(augmented, data []*TrainingExample) []*TrainingExample {
	for _, example := range data {
		if len(example.Transitions) > 10 && t.rand.Float64() < 0.5 {
			pivot := t.rand.Intn(len(example.Transitions)-10) + 7
			augmented = append(augmented, NewTrainingExample(example.Input, example.Transitions, pivot))
		}
	}
	return augmented
}

// pruneFeatures randomly drops features from the set, but never prunes
// it down to nothing: an empty result keeps the lexicographically first
// feature.
func (t *Trainer) pruneFeatures(features map[string]bool) map[string]bool {
	pruned := make(map[string]bool)
	names := maps.Keys(features)
	slices.Sort(names)
	for _, feature := range names {
		if t.rand.Float64() > t.opts.RetrainShardFeatureDrop {
			pruned[feature] = true
		}
	}
	if len(pruned) == 0 && len(names) > 0 {
		pruned[names[0]] = true
	}
	return pruned
}

type errorCount struct {
	err   firstError
	count int
}

// sortedErrorCounts orders first errors by frequency descending, then by
// gold and predicted id for a stable report.
func sortedErrorCounts(firstErrors map[firstError]int) []errorCount {
	counts := make([]errorCount, 0, len(firstErrors))
	for err, count := range firstErrors {
		counts = append(counts, errorCount{err, count})
	}
	slices.SortFunc(counts, func(a, b errorCount) bool {
		if a.count != b.count {
			return a.count > b.count
		}
		if a.err.gold != b.err.gold {
			return a.err.gold < b.err.gold
		}
		return a.err.predicted < b.err.predicted
	})
	return counts
}

func (t *Trainer) logFirstErrors(firstErrors map[firstError]int) {
	if len(firstErrors) == 0 {
		return
	}
	counts := sortedErrorCounts(firstErrors)
	log.Println("Most common transition errors:")
	for i, c := range counts {
		if i >= 9 {
			break
		}
		gold := t.model.Index.At(c.err.gold)
		predicted := t.model.Index.At(c.err.predicted)
		log.Printf("  # %d: %v -> %v happened %d times", i+1, gold.Name(), predicted.Name(), c.count)
	}
}
