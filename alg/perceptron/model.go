package perceptron

import (
	"log"

	"srparser/alg/transition"

	"golang.org/x/exp/maps"
)

// Model is the sparse weight store of a transition-based parser: a
// mapping from feature string to that feature's score vector over the
// transition vocabulary.
type Model struct {
	Index   *transition.Index
	Factory transition.FeatureFactory

	weights map[string]Weight
}

func New(index *transition.Index, factory transition.FeatureFactory) *Model {
	return &Model{
		Index:   index,
		Factory: factory,
		weights: make(map[string]Weight),
	}
}

func (m *Model) Copy() *Model {
	copied := New(m.Index, m.Factory)
	for feature, weight := range m.weights {
		copied.weights[feature] = weight.Copy()
	}
	return copied
}

// Reset drops all learned weights, keeping the transition index and
// feature factory.
func (m *Model) Reset() {
	m.weights = make(map[string]Weight)
}

// ScoreVector sums the contributions of every known active feature
// into a dense score vector over the transition vocabulary. Features
// not in the model are silently ignored.
func (m *Model) ScoreVector(features []string) []float64 {
	scores := make([]float64, m.Index.Len())
	for _, feature := range features {
		if weight, exists := m.weights[feature]; exists {
			weight.Score(scores)
		}
	}
	return scores
}

// Update adds delta at the gold transition and subtracts delta at the
// predicted transition of the feature's weight, creating the weight if
// the feature was unseen. Negative ids mean that side of the update is
// absent.
func (m *Model) Update(feature string, gold, predicted int, delta float64) {
	weight, exists := m.weights[feature]
	if !exists {
		weight = NewWeight()
		m.weights[feature] = weight
	}
	weight.Update(gold, delta)
	weight.Update(predicted, -delta)
}

// Condense drops all zero-valued transition entries within every
// weight, then drops every feature left with no entries. Idempotent.
func (m *Model) Condense() {
	condensed := make(map[string]Weight, len(m.weights))
	for feature, weight := range m.weights {
		if kept := weight.condensed(); len(kept) > 0 {
			condensed[feature] = kept
		}
	}
	m.weights = condensed
}

// FilterFeatures removes every feature not in the keep set.
func (m *Model) FilterFeatures(keep map[string]bool) {
	filtered := make(map[string]Weight, len(keep))
	for feature, weight := range m.weights {
		if keep[feature] {
			filtered[feature] = weight
		}
	}
	m.weights = filtered
}

func (m *Model) L1Reg(rate float64) {
	for _, weight := range m.weights {
		weight.L1Reg(rate)
	}
}

func (m *Model) L2Reg(rate float64) {
	for _, weight := range m.weights {
		weight.L2Reg(rate)
	}
}

// AverageModels replaces this model's weights with the per-cell
// arithmetic mean of the given models, zero-filling features missing
// from some of them.
func (m *Model) AverageModels(models []*Model) {
	if len(models) == 0 {
		panic("Cannot average empty models")
	}
	averaged := make(map[string]Weight)
	for _, model := range models {
		for feature := range model.weights {
			if _, exists := averaged[feature]; !exists {
				averaged[feature] = NewWeight()
			}
		}
	}
	coeff := 1.0 / float64(len(models))
	for feature, weight := range averaged {
		for _, model := range models {
			if other, exists := model.weights[feature]; exists {
				weight.AddScaled(other, coeff)
			}
		}
	}
	m.weights = averaged
}

// Features returns the known feature strings in map order.
func (m *Model) Features() []string {
	return maps.Keys(m.weights)
}

func (m *Model) NumFeatures() int {
	return len(m.weights)
}

// WeightsCopy returns a deep copy of the weight map, for persistence.
func (m *Model) WeightsCopy() map[string]Weight {
	copied := make(map[string]Weight, len(m.weights))
	for feature, weight := range m.weights {
		copied[feature] = weight.Copy()
	}
	return copied
}

// SetWeights replaces the weight map, taking ownership of the argument.
func (m *Model) SetWeights(weights map[string]Weight) {
	m.weights = weights
}

// LogStats outputs some facts about the model.
func (m *Model) LogStats() {
	log.Println("Number of known features:", len(m.weights))
	var numWeights, wordLength int
	for feature, weight := range m.weights {
		numWeights += len(weight)
		wordLength += len(feature)
	}
	log.Println("Number of non-zero weights:", numWeights)
	log.Println("Total word length:", wordLength)
	log.Println("Number of transitions:", m.Index.Len())
}
