package transition

import (
	"fmt"
	"sync"
)

// Index is a stable, bijective enumeration of all transitions in the
// model's output vocabulary. The integer id of a transition is the
// column index into every weight vector, so the enumeration must not
// change once a model has been trained against it; Freeze makes any
// further addition a programming error.
type Index struct {
	mu          sync.RWMutex
	ids         map[string]int
	transitions []Transition
	frozen      bool
}

func NewIndex() *Index {
	return &Index{
		ids:         make(map[string]int),
		transitions: make([]Transition, 0, 16),
	}
}

// Add enumerates a transition by name, returning its id. Adding an
// already known name returns the existing id and false.
func (x *Index) Add(t Transition) (int, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.frozen {
		panic("Cannot add transition to frozen index")
	}
	id, exists := x.ids[t.Name()]
	if exists {
		return id, false
	}
	id = len(x.transitions)
	x.ids[t.Name()] = id
	x.transitions = append(x.transitions, t)
	return id, true
}

func (x *Index) IndexOf(t Transition) (int, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	id, exists := x.ids[t.Name()]
	return id, exists
}

func (x *Index) At(id int) Transition {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if id < 0 || id >= len(x.transitions) {
		panic(fmt.Sprintf("Unknown transition requested: %v of %v", id, len(x.transitions)))
	}
	return x.transitions[id]
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.transitions)
}

func (x *Index) Freeze() {
	x.mu.Lock()
	x.frozen = true
	x.mu.Unlock()
}

// Names returns the transition names ordered by id.
func (x *Index) Names() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	names := make([]string, len(x.transitions))
	for i, t := range x.transitions {
		names[i] = t.Name()
	}
	return names
}
