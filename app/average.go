package app

import (
	"fmt"
	"log"

	"srparser/alg/perceptron"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var averageOut string

// Average merges previously trained models into one by per-cell
// averaging, zero-filling features absent from some models. All models
// must share the same transition vocabulary.
func Average(cmd *commander.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no model files to average")
	}
	var (
		reference *Serialization
		models    []*perceptron.Model
	)
	for _, file := range args {
		if !VerifyExists(file) {
			return fmt.Errorf("model file %q not found", file)
		}
		data := ReadModel(file)
		if reference == nil {
			reference = data
		} else if len(data.Transitions) != len(reference.Transitions) {
			return fmt.Errorf("model %q has %d transitions, expected %d", file, len(data.Transitions), len(reference.Transitions))
		}
		model := perceptron.New(SetupTransitionIndex(data.Transitions), nil)
		model.SetWeights(data.Weights)
		models = append(models, model)
		log.Println("Read model from", file)
	}

	merged := perceptron.New(SetupTransitionIndex(reference.Transitions), nil)
	merged.AverageModels(models)
	merged.Condense()
	merged.LogStats()

	WriteModel(averageOut, &Serialization{
		Transitions: reference.Transitions,
		Weights:     merged.WeightsCopy(),
	})
	log.Println("Wrote averaged model to", averageOut)
	return nil
}

func AverageCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Average,
		UsageLine: "average -o <model out> <model files>",
		Short:     "averages trained models into one",
		Long: `
averages trained models into one

	$ ./srparser average -o merged.gob model1.gob model2.gob [...]

`,
		Flag: *flag.NewFlagSet("average", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&averageOut, "o", "averaged.gob", "Output model file")
	return cmd
}
