package perceptron

import "sync"

type batchResult struct {
	updates     []TrainingUpdate
	numCorrect  int
	numWrong    int
	firstErrors []firstError
}

// trainBatch scores a batch of examples against the current weights
// and collects their updates without applying any of them. With more
// than one thread the examples fan out to a fixed worker pool; every
// worker reads the same frozen weights, results are collected in
// dispatch order behind a join barrier, and the caller applies updates
// afterwards on its own goroutine. Batch results are therefore
// identical regardless of worker count.
func (t *Trainer) trainBatch(examples []*TrainingExample) batchResult {
	results := make([]exampleResult, len(examples))
	if t.opts.Threads <= 1 {
		for i, example := range examples {
			results[i] = t.trainExample(example)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for worker := 0; worker < t.opts.Threads; worker++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = t.trainExample(examples[i])
				}
			}()
		}
		for i := range examples {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	var batch batchResult
	for _, result := range results {
		batch.updates = append(batch.updates, result.updates...)
		batch.numCorrect += result.numCorrect
		batch.numWrong += result.numWrong
		if result.firstError != nil {
			batch.firstErrors = append(batch.firstErrors, *result.firstError)
		}
	}
	return batch
}
