package app

import (
	"encoding/gob"
	"log"
	"os"

	"srparser/alg/perceptron"
	"srparser/alg/transition"
	"srparser/nlp/sequence"
)

func init() {
	gob.Register(&Serialization{})
}

var (
	// processing options
	method         string
	beamSize       int
	batchSize      int
	iterations     int
	stalledLimit   int
	learningRate   float64
	decayRate      float64
	l1Reg, l2Reg   float64
	freqCutoff     int
	retrainCutoff  bool
	retrainShards  int
	shardDrop      float64
	averagedModels int
	cvAveraged     bool
	noAugment      bool
	seed           int64

	// file names
	trainFile    string
	devFile      string
	modelFile    string
	featuresSpec string
	saveEvery    int
)

// Serialization is the gob form of a trained model: the transition
// names ordered by id, plus the sparse weight map.
type Serialization struct {
	Transitions []string
	Weights     map[string]perceptron.Weight
}

func WriteModel(file string, data *Serialization) {
	fObj, err := os.Create(file)
	if err != nil {
		log.Fatalln("Failed creating model file", file, err)
		return
	}
	defer fObj.Close()
	writer := gob.NewEncoder(fObj)
	if err := writer.Encode(data); err != nil {
		log.Fatalln("Failed encoding model to", file, err)
	}
}

func ReadModel(file string) *Serialization {
	data := &Serialization{}
	fObj, err := os.Open(file)
	if err != nil {
		log.Fatalln("Failed reading model from", file, err)
		return nil
	}
	defer fObj.Close()
	reader := gob.NewDecoder(fObj)
	if err := reader.Decode(data); err != nil {
		log.Fatalln("Failed decoding model from", file, err)
	}
	return data
}

// SetupTransitionIndex rebuilds a transition index from serialized
// transition names, preserving ids.
func SetupTransitionIndex(names []string) *transition.Index {
	index := transition.NewIndex()
	for _, name := range names {
		index.Add(sequence.NewLabel(name))
	}
	index.Freeze()
	return index
}

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}
