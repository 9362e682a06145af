package perceptron

import (
	"srparser/alg/transition"
)

// ScoredTransition is a transition id with its model score.
type ScoredTransition struct {
	Transition int
	Score      float64
}

// FindHighestScoringTransitions featurizes the configuration and
// returns its up-to-n best transitions by score, descending. With
// requireLegal, transitions whose legality predicate rejects the
// configuration (under the given constraints) are excluded. Ties are
// broken deterministically: among equal scores the first-seen
// transition id survives the capacity eviction.
func (m *Model) FindHighestScoringTransitions(c transition.Configuration, requireLegal bool, n int, constraints []transition.Constraint) []ScoredTransition {
	return m.findHighestScoringTransitions(c, m.Factory.Featurize(c), requireLegal, n, constraints)
}

func (m *Model) findHighestScoringTransitions(c transition.Configuration, features []string, requireLegal bool, n int, constraints []transition.Constraint) []ScoredTransition {
	scores := m.ScoreVector(features)

	queue := newAgenda[int](n)
	for id, score := range scores {
		if !requireLegal || m.Index.At(id).IsLegal(c, constraints) {
			queue.Add(id, score)
		}
	}

	ids, queueScores := queue.Descending()
	transitions := make([]ScoredTransition, len(ids))
	for i, id := range ids {
		transitions[i] = ScoredTransition{id, queueScores[i]}
	}
	return transitions
}

// findHighestScoringTransition is the single-best specialization. It
// returns ok=false when no legal transition exists, which is expected
// near malformed configurations; callers decide whether it is fatal.
func (m *Model) findHighestScoringTransition(c transition.Configuration, features []string, requireLegal bool) (ScoredTransition, bool) {
	transitions := m.findHighestScoringTransitions(c, features, requireLegal, 1, nil)
	if len(transitions) == 0 {
		return ScoredTransition{}, false
	}
	return transitions[0], true
}
