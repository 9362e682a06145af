package perceptron

import (
	"log"
)

// finishEnsemble merges the retained best-scoring checkpoints into the
// working model. With cross-validation enabled, models are averaged in
// descending score order one prefix at a time and the prefix size with
// the best dev score wins; otherwise all retained models are averaged
// directly.
func (t *Trainer) finishEnsemble(bestModels *agenda[*Model]) {
	if t.opts.CVAveragedModels && t.opts.Evaluator != nil {
		models, scores := bestModels.Descending()
		log.Println("Averaging", len(models), "models with scores")
		for _, score := range scores {
			log.Println(" ", score)
		}
		bestScore := -1.0
		bestSize := 0
		for i := 1; i <= len(models); i++ {
			log.Println("Testing with", i, "models averaged together")
			t.model.AverageModels(models[:i])
			score := t.opts.Evaluator.Evaluate(t.model)
			log.Println("Dev score for", i, "models:", score)
			if score > bestScore {
				bestScore = score
				bestSize = i
			}
		}
		t.model.AverageModels(models[:bestSize])
		log.Println("Dev score for", bestSize, "models:", bestScore)
	} else {
		models, scores := bestModels.Descending()
		log.Println("Averaging", len(models), "models with scores")
		for _, score := range scores {
			log.Println(" ", score)
		}
		t.model.AverageModels(models)
	}
}
