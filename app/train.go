package app

import (
	"fmt"
	"log"
	"strings"

	"srparser/alg/perceptron"
	"srparser/alg/transition"
	"srparser/nlp/sequence"
	"srparser/util/conf"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func TrainConfigOut() {
	log.Println("Configuration")
	log.Printf("Training method:\t%s", method)
	log.Printf("Iterations:\t\t%d", iterations)
	log.Printf("Beam Size:\t\t%d", beamSize)
	log.Printf("Batch Size:\t\t%d", batchSize)
	log.Printf("Threads:\t\t%d", CPUs)
	log.Printf("Model file:\t\t%s", modelFile)
	log.Printf("Features:\t\t%s", featuresSpec)
	log.Println()
	log.Println("Data")
	log.Printf("Train file:\t\t%s", trainFile)
	if len(devFile) > 0 {
		log.Printf("Dev file:\t\t%s", devFile)
	}
}

// featureFactorySpec resolves the -f flag: a file of factory lines if
// one exists at that path, otherwise an inline "name(arg);name2" spec.
func featureFactorySpec(value string) (string, error) {
	if VerifyExists(value) {
		factoryConf, err := conf.ReadFile(value)
		if err != nil {
			return "", err
		}
		return strings.Join(factoryConf.Values, ";"), nil
	}
	return value, nil
}

func TrainModel(cmd *commander.Command, args []string) error {
	TrainConfigOut()
	if !VerifyExists(trainFile) {
		return fmt.Errorf("training file %q not found", trainFile)
	}

	trainingMethod, err := perceptron.ParseTrainingMethod(method)
	if err != nil {
		return err
	}
	if trainingMethod == perceptron.MethodReorderOracle || trainingMethod == perceptron.MethodReorderBeam {
		return fmt.Errorf("training method %v requires a reordering oracle; none exists for sequence corpora", trainingMethod)
	}

	spec, err := featureFactorySpec(featuresSpec)
	if err != nil {
		return err
	}
	factory, err := transition.NewFactory(spec)
	if err != nil {
		return err
	}

	index := transition.NewIndex()
	log.Println("Reading training corpus from", trainFile)
	trainingData, err := sequence.ReadCorpusFile(trainFile, index)
	if err != nil {
		return err
	}
	log.Println("Read", len(trainingData), "training sequences;", index.Len(), "transitions")

	var evaluator perceptron.Evaluator
	if len(devFile) > 0 {
		devData, err := sequence.ReadCorpusFile(devFile, index)
		if err != nil {
			return err
		}
		log.Println("Read", len(devData), "dev sequences")
		evaluator = &sequence.AccuracyEvaluator{Examples: devData}
	}
	index.Freeze()

	model := perceptron.New(index, factory)
	opts := perceptron.Options{
		Method:                  trainingMethod,
		BeamSize:                beamSize,
		BatchSize:               batchSize,
		Threads:                 CPUs,
		Iterations:              iterations,
		StalledIterationLimit:   stalledLimit,
		LearningRate:            learningRate,
		DecayLearningRate:       decayRate,
		L1Reg:                   l1Reg,
		L2Reg:                   l2Reg,
		FeatureFrequencyCutoff:  freqCutoff,
		RetrainAfterCutoff:      retrainCutoff,
		RetrainShards:           retrainShards,
		RetrainShardFeatureDrop: shardDrop,
		AveragedModels:          averagedModels,
		CVAveragedModels:        cvAveraged,
		AugmentSubsentences:     !noAugment,
		Oracle:                  sequence.Oracle{},
		Evaluator:               evaluator,
	}
	if saveEvery > 0 {
		opts.Checkpoint = checkpointModel
		opts.CheckpointEvery = saveEvery
	}

	trainer, err := perceptron.NewTrainer(model, opts, seed)
	if err != nil {
		return err
	}

	log.Println("Training started")
	trainer.Train(trainingData)
	log.Println("Training done")

	WriteModel(modelFile, &Serialization{
		Transitions: index.Names(),
		Weights:     model.WeightsCopy(),
	})
	log.Println("Wrote model to", modelFile)
	return nil
}

func checkpointModel(m *perceptron.Model, iteration int, devScore float64) error {
	name := fmt.Sprintf("%s-%04d-%.2f", modelFile, iteration, devScore)
	WriteModel(name, &Serialization{
		Transitions: m.Index.Names(),
		Weights:     m.WeightsCopy(),
	})
	log.Println("Saved intermediate model to", name)
	return nil
}

func TrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       TrainModel,
		UsageLine: "train <file options> [arguments]",
		Short:     "trains a transition scoring model from gold transition sequences",
		Long: `
trains a transition scoring model from gold transition sequences

	$ ./srparser train -t <train corpus> -m <model out> [-d <dev corpus>] [options]

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&method, "method", "gold", "Training method [gold, early, oracle, reorder-oracle, beam, reorder-beam]")
	cmd.Flag.IntVar(&iterations, "it", 10, "Number of training iterations")
	cmd.Flag.IntVar(&beamSize, "b", 8, "Beam size (beam methods)")
	cmd.Flag.IntVar(&batchSize, "batch", 32, "Training batch size")
	cmd.Flag.IntVar(&stalledLimit, "stall", 0, "Stop after this many iterations without dev improvement; 0 = never")
	cmd.Flag.Float64Var(&learningRate, "lr", 1.0, "Initial learning rate")
	cmd.Flag.Float64Var(&decayRate, "decay", 0, "Learning rate decay factor, applied every 10 iterations; 0 = off")
	cmd.Flag.Float64Var(&l1Reg, "l1", 0, "L1 regularization rate per iteration")
	cmd.Flag.Float64Var(&l2Reg, "l2", 0, "L2 regularization rate per iteration")
	cmd.Flag.IntVar(&freqCutoff, "cutoff", 0, "Feature frequency cutoff; 0 = keep all")
	cmd.Flag.BoolVar(&retrainCutoff, "retrain", false, "Retrain on surviving features after cutoff")
	cmd.Flag.IntVar(&retrainShards, "shards", 1, "Number of retraining shards to average")
	cmd.Flag.Float64Var(&shardDrop, "sharddrop", 0.1, "Feature drop probability per retraining shard")
	cmd.Flag.IntVar(&averagedModels, "avg", 0, "Number of best checkpoints to average; 0 = off")
	cmd.Flag.BoolVar(&cvAveraged, "cvavg", false, "Cross-validate the averaged ensemble size on dev data")
	cmd.Flag.BoolVar(&noAugment, "noaugment", false, "Disable subsequence data augmentation")
	cmd.Flag.Int64Var(&seed, "seed", 1, "Random seed")
	cmd.Flag.IntVar(&saveEvery, "savei", 0, "Save intermediate models every N iterations; 0 = off")
	cmd.Flag.StringVar(&trainFile, "t", "", "Training corpus (one transition sequence per line)")
	cmd.Flag.StringVar(&devFile, "d", "", "Optional dev corpus for convergence tracking")
	cmd.Flag.StringVar(&modelFile, "m", "model.gob", "Output model file")
	cmd.Flag.StringVar(&featuresSpec, "f", "history(3);position", "Feature factory spec or spec file")
	return cmd
}
