package sequence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"srparser/alg/perceptron"
	"srparser/alg/transition"
)

// ReadCorpus reads gold transition sequences, one per line as
// space-separated transition names, registering every name in the
// index. Empty lines and '#' comment lines are skipped.
func ReadCorpus(reader io.Reader, index *transition.Index) ([]*perceptron.TrainingExample, error) {
	labels := make(map[string]*Label)
	var examples []*perceptron.TrainingExample
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		names := strings.Fields(line)
		transitions := make([]transition.Transition, len(names))
		for i, name := range names {
			label, exists := labels[name]
			if !exists {
				label = NewLabel(name)
				labels[name] = label
				index.Add(label)
			}
			transitions[i] = label
		}
		examples = append(examples, perceptron.NewTrainingExample(&Sentence{Length: len(transitions)}, transitions, 0))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus at line %d: %v", lineNum, err)
	}
	return examples, nil
}

func ReadCorpusFile(filename string, index *transition.Index) ([]*perceptron.TrainingExample, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCorpus(file, index)
}
