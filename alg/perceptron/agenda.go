package perceptron

// agenda is a fixed-capacity collection ordered ascending by score, so
// the lowest-scoring entry is the eviction candidate when capacity is
// exceeded. A new entry displaces the current minimum only when its
// score is strictly greater; on ties the incumbent survives, which
// makes selection deterministic in first-seen order.
type agenda[T any] struct {
	capacity int
	items    []T
	scores   []float64
}

func newAgenda[T any](capacity int) *agenda[T] {
	if capacity <= 0 {
		panic("Agenda capacity must be positive")
	}
	return &agenda[T]{
		capacity: capacity,
		items:    make([]T, 0, capacity),
		scores:   make([]float64, 0, capacity),
	}
}

func (a *agenda[T]) Len() int {
	return len(a.items)
}

// Add inserts an item, evicting the current minimum if the agenda is
// full and the new score is strictly greater.
func (a *agenda[T]) Add(item T, score float64) {
	if len(a.items) == a.capacity {
		if !(a.scores[0] < score) {
			return
		}
		a.PopMin()
	}
	a.items = append(a.items, item)
	a.scores = append(a.scores, score)
	a.up(len(a.items) - 1)
}

func (a *agenda[T]) Min() (T, float64) {
	if len(a.items) == 0 {
		panic("Can't retrieve minimum of empty agenda")
	}
	return a.items[0], a.scores[0]
}

func (a *agenda[T]) PopMin() (T, float64) {
	if len(a.items) == 0 {
		panic("Can't pop from empty agenda")
	}
	n := len(a.items) - 1
	a.swap(0, n)
	item, score := a.items[n], a.scores[n]
	var zero T
	a.items[n] = zero
	a.items = a.items[:n]
	a.scores = a.scores[:n]
	a.down(0)
	return item, score
}

// Items exposes the underlying heap slice; order is heap layout, which
// is deterministic for a given insertion sequence.
func (a *agenda[T]) Items() []T {
	return a.items
}

// Descending drains the agenda, returning items and scores from the
// highest score down.
func (a *agenda[T]) Descending() ([]T, []float64) {
	n := len(a.items)
	items := make([]T, n)
	scores := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		items[i], scores[i] = a.PopMin()
	}
	return items, scores
}

func (a *agenda[T]) swap(i, j int) {
	a.items[i], a.items[j] = a.items[j], a.items[i]
	a.scores[i], a.scores[j] = a.scores[j], a.scores[i]
}

func (a *agenda[T]) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !(a.scores[j] < a.scores[i]) {
			break
		}
		a.swap(i, j)
		j = i
	}
}

func (a *agenda[T]) down(i int) {
	n := len(a.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		smallest := left
		if right := left + 1; right < n && a.scores[right] < a.scores[left] {
			smallest = right
		}
		if !(a.scores[smallest] < a.scores[i]) {
			break
		}
		a.swap(i, smallest)
		i = smallest
	}
}
