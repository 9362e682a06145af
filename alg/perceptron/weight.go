package perceptron

// Weight is the sparse score vector of a single feature over all
// transitions, keyed by transition id. Entries may be explicitly zero
// between updates; Condense on the owning model removes them.
type Weight map[int]float64

func NewWeight() Weight {
	return make(Weight)
}

func (w Weight) Copy() Weight {
	copied := make(Weight, len(w))
	for id, val := range w {
		copied[id] = val
	}
	return copied
}

// Score adds this weight's contribution into a dense score vector
// sized to the transition vocabulary.
func (w Weight) Score(scores []float64) {
	for id, val := range w {
		scores[id] += val
	}
}

// Update adds delta at the given transition id; negative ids mean the
// update has no transition on that side and are ignored.
func (w Weight) Update(id int, delta float64) {
	if id < 0 {
		return
	}
	w[id] += delta
}

// AddScaled adds coeff * other into this weight.
func (w Weight) AddScaled(other Weight, coeff float64) {
	for id, val := range other {
		w[id] += val * coeff
	}
}

// condensed returns a new weight holding only the non-zero entries.
func (w Weight) condensed() Weight {
	result := make(Weight, len(w))
	for id, val := range w {
		if val != 0 {
			result[id] = val
		}
	}
	return result
}

// L1Reg shrinks every entry toward zero by a fixed step, clipping at
// the zero crossing.
func (w Weight) L1Reg(rate float64) {
	for id, val := range w {
		switch {
		case val > rate:
			w[id] = val - rate
		case val < -rate:
			w[id] = val + rate
		default:
			w[id] = 0
		}
	}
}

// L2Reg decays every entry multiplicatively.
func (w Weight) L2Reg(rate float64) {
	for id, val := range w {
		w[id] = val - val*rate
	}
}
