package transition

// Constraint is an opaque restriction on transition legality, passed
// through to the transition system by callers that have one.
type Constraint interface{}

// Transition is an atomic action that advances a parser configuration
// one step. Concrete transition systems provide their own legality and
// application logic behind this interface; the trainer never depends on
// concrete transition kinds.
type Transition interface {
	Name() string
	IsLegal(c Configuration, constraints []Constraint) bool

	// Apply produces a new configuration; configurations are never
	// mutated in place. The score is added to the configuration's
	// accumulated score.
	Apply(c Configuration, score float64) Configuration
}

// Configuration is the parser's working state at one point in the
// transition sequence.
type Configuration interface {
	Terminal() bool
	Score() float64
	Transitions() []Transition
	TransitionsEqual(other Configuration) bool
}
