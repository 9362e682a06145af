package perceptron

import (
	"fmt"
	"log"

	"srparser/alg/transition"
)

// TrainingMethod selects the per-example update policy.
type TrainingMethod int

const (
	MethodGold TrainingMethod = iota
	MethodEarlyTermination
	MethodOracle
	MethodReorderOracle
	MethodBeam
	MethodReorderBeam
)

func ParseTrainingMethod(name string) (TrainingMethod, error) {
	switch name {
	case "gold":
		return MethodGold, nil
	case "early":
		return MethodEarlyTermination, nil
	case "oracle":
		return MethodOracle, nil
	case "reorder-oracle":
		return MethodReorderOracle, nil
	case "beam":
		return MethodBeam, nil
	case "reorder-beam":
		return MethodReorderBeam, nil
	}
	return 0, fmt.Errorf("unknown training method %q", name)
}

func (m TrainingMethod) String() string {
	switch m {
	case MethodGold:
		return "gold"
	case MethodEarlyTermination:
		return "early"
	case MethodOracle:
		return "oracle"
	case MethodReorderOracle:
		return "reorder-oracle"
	case MethodBeam:
		return "beam"
	case MethodReorderBeam:
		return "reorder-beam"
	}
	return fmt.Sprintf("TrainingMethod(%d)", int(m))
}

func (m TrainingMethod) beamSearch() bool {
	return m == MethodBeam || m == MethodReorderBeam
}

// firstError records the first (predicted, gold) mismatch of an
// example, for diagnostics.
type firstError struct {
	predicted, gold int
}

type exampleResult struct {
	updates    []TrainingUpdate
	numCorrect int
	numWrong   int
	firstError *firstError
}

// trainExample consumes one example under the configured training
// method and produces the resulting perceptron updates. It only reads
// the model's weights, so it is safe to run concurrently with other
// calls to itself.
func (t *Trainer) trainExample(ex *TrainingExample) exampleResult {
	switch t.opts.Method {
	case MethodOracle:
		return t.trainOracle(ex)
	case MethodBeam, MethodReorderBeam:
		return t.trainBeam(ex)
	default:
		return t.trainGreedy(ex)
	}
}

// trainOracle advances by the predicted transition at every step and
// asks the oracle whether it was acceptable. Note the asymmetry: when
// the prediction is acceptable but the oracle prefers a distinct
// transition, the preferred transition is promoted without demoting the
// prediction.
func (t *Trainer) trainOracle(ex *TrainingExample) exampleResult {
	var result exampleResult
	state := ex.InitialState()
	for !state.Terminal() {
		features := t.model.Factory.Featurize(state)
		prediction, ok := t.model.findHighestScoringTransition(state, features, true)
		if !ok {
			panic("Did not find a legal transition")
		}
		predicted := t.model.Index.At(prediction.Transition)
		gold := t.opts.Oracle.GoldTransition(ex, state)
		if gold.IsCorrect(predicted) {
			result.numCorrect++
			if preferred, exists := gold.Transition(); exists && preferred.Name() != predicted.Name() {
				if preferredNum, known := t.model.Index.IndexOf(preferred); known {
					result.updates = append(result.updates, TrainingUpdate{features, preferredNum, -1, t.learningRate})
				}
			}
		} else {
			result.numWrong++
			goldNum := -1
			if preferred, exists := gold.Transition(); exists {
				if known, found := t.model.Index.IndexOf(preferred); found {
					goldNum = known
				}
			}
			result.updates = append(result.updates, TrainingUpdate{features, goldNum, prediction.Transition, t.learningRate})
		}
		state = predicted.Apply(state, 0)
	}
	return result
}

// trainGreedy covers the GOLD, EARLY_TERMINATION and REORDER_ORACLE
// methods: consume gold transitions front-to-back, compare each against
// the model's unconstrained best, and update on mismatch. The methods
// differ only in how they proceed after a mismatch.
func (t *Trainer) trainGreedy(ex *TrainingExample) exampleResult {
	var result exampleResult
	state := ex.InitialState()
	transitions := ex.TrainTransitions()

	keepGoing := true
	for len(transitions) > 0 && keepGoing {
		goldTransition := transitions[0]
		goldNum, known := t.model.Index.IndexOf(goldTransition)
		if !known {
			panic("Gold transition missing from index: " + goldTransition.Name())
		}
		features := t.model.Factory.Featurize(state)
		prediction, ok := t.model.findHighestScoringTransition(state, features, false)
		if !ok {
			panic("Did not find a transition to score")
		}
		if goldNum == prediction.Transition {
			transitions = transitions[1:]
			state = goldTransition.Apply(state, 0)
			result.numCorrect++
			continue
		}
		result.numWrong++
		if result.firstError == nil {
			result.firstError = &firstError{prediction.Transition, goldNum}
		}
		result.updates = append(result.updates, TrainingUpdate{features, goldNum, prediction.Transition, t.learningRate})
		switch t.opts.Method {
		case MethodEarlyTermination:
			keepGoing = false
		case MethodGold:
			transitions = transitions[1:]
			state = goldTransition.Apply(state, 0)
		case MethodReorderOracle:
			predicted := t.model.Index.At(prediction.Transition)
			transitions, keepGoing = t.opts.Reorderer.Reorder(state, predicted, transitions)
			if keepGoing {
				state = predicted.Apply(state, 0)
			}
		default:
			panic("Unexpected method " + t.opts.Method.String())
		}
	}
	return result
}

// trainBeam maintains a beam of configurations. A step with the
// best-overall path off the gold sequence produces a demote update for
// that path and a promote update for the gold one; the example stops
// when the gold configuration falls off the beam, unless the
// reordering variant can rewrite the remaining gold transitions.
func (t *Trainer) trainBeam(ex *TrainingExample) exampleResult {
	var result exampleResult
	beamSize := t.opts.BeamSize
	beam := newAgenda[transition.Configuration](beamSize)
	goldState := ex.InitialState()
	transitions := ex.TrainTransitions()
	beam.Add(goldState, goldState.Score())

	for len(transitions) > 0 {
		goldTransition := transitions[0]
		var (
			highestScoringState transition.Configuration
			highestCurrentState transition.Configuration
			bestGoldTransition  transition.Transition
			bestGoldScore       float64
		)
		newBeam := newAgenda[transition.Configuration](beamSize)
		for _, currentState := range beam.Items() {
			isGoldState := t.opts.Method == MethodReorderBeam && goldState.TransitionsEqual(currentState)
			features := t.model.Factory.Featurize(currentState)
			stateTransitions := t.model.findHighestScoringTransitions(currentState, features, true, beamSize, nil)
			for _, scored := range stateTransitions {
				newState := t.model.Index.At(scored.Transition).Apply(currentState, scored.Score)
				newBeam.Add(newState, newState.Score())
				if highestScoringState == nil || highestScoringState.Score() < newState.Score() {
					highestScoringState = newState
					highestCurrentState = currentState
				}
				if isGoldState && (bestGoldTransition == nil || scored.Score > bestGoldScore) {
					bestGoldTransition = t.model.Index.At(scored.Transition)
					bestGoldScore = scored.Score
				}
			}
		}

		// The reordering variant can back itself into a corner where no
		// beam member still matches the gold history; give up on the
		// example rather than reorder against nothing.
		if t.opts.Method == MethodReorderBeam && bestGoldTransition == nil {
			break
		}

		if highestScoringState == nil {
			log.Println("Unable to find a best transition, giving up on example")
			break
		}

		newGoldState := goldTransition.Apply(goldState, 0)

		if !newGoldState.TransitionsEqual(highestScoringState) {
			result.numWrong++
			goldFeatures := t.model.Factory.Featurize(goldState)
			lastTransition := t.lastTransitionNum(highestScoringState)
			result.updates = append(result.updates,
				TrainingUpdate{t.model.Factory.Featurize(highestCurrentState), -1, lastTransition, t.learningRate})
			goldNum, _ := t.model.Index.IndexOf(goldTransition)
			result.updates = append(result.updates,
				TrainingUpdate{goldFeatures, goldNum, -1, t.learningRate})

			if t.opts.Method == MethodBeam {
				if !findStateOnBeam(newBeam, newGoldState) {
					break
				}
				transitions = transitions[1:]
			} else {
				if !findStateOnBeam(newBeam, newGoldState) {
					var ok bool
					transitions, ok = t.opts.Reorderer.Reorder(goldState, bestGoldTransition, transitions)
					if !ok {
						break
					}
					newGoldState = bestGoldTransition.Apply(goldState, 0)
					if !findStateOnBeam(newBeam, newGoldState) {
						break
					}
				} else {
					transitions = transitions[1:]
				}
			}
		} else {
			result.numCorrect++
			transitions = transitions[1:]
		}

		goldState = newGoldState
		beam = newBeam
	}
	return result
}

func (t *Trainer) lastTransitionNum(c transition.Configuration) int {
	history := c.Transitions()
	if len(history) == 0 {
		panic("Scored configuration has no transition history")
	}
	num, known := t.model.Index.IndexOf(history[len(history)-1])
	if !known {
		panic("Applied transition missing from index: " + history[len(history)-1].Name())
	}
	return num
}

func findStateOnBeam(beam *agenda[transition.Configuration], state transition.Configuration) bool {
	for _, candidate := range beam.Items() {
		if state.TransitionsEqual(candidate) {
			return true
		}
	}
	return false
}
