package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"srparser/alg/transition"
)

func init() {
	transition.RegisterFactory("history", newHistoryFactory)
	transition.RegisterFactory("position", newPositionFactory)
}

// historyFactory emits n-gram features over the most recent window of
// applied transitions: "H1=c", "H2=b,c", up to the window size.
type historyFactory struct {
	window int
}

func newHistoryFactory(arg string) (transition.FeatureFactory, error) {
	window := 3
	if len(arg) > 0 {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("bad history window %q", arg)
		}
		window = parsed
	}
	return &historyFactory{window: window}, nil
}

func (f *historyFactory) Featurize(c transition.Configuration) []string {
	state := c.(*State)
	recent := state.LastNames(f.window)
	features := make([]string, 0, f.window+1)
	features = append(features, "B")
	for n := 1; n <= f.window; n++ {
		if n > len(recent) {
			break
		}
		gram := make([]string, n)
		for i := 0; i < n; i++ {
			// oldest first, so H2=b,c reads in application order
			gram[i] = recent[n-1-i]
		}
		features = append(features, fmt.Sprintf("H%d=%s", n, strings.Join(gram, ",")))
	}
	return features
}

// positionFactory emits the absolute step and a coarse tenth-of-input
// progress bucket.
type positionFactory struct{}

func newPositionFactory(arg string) (transition.FeatureFactory, error) {
	if len(arg) > 0 {
		return nil, fmt.Errorf("position factory takes no argument, got %q", arg)
	}
	return positionFactory{}, nil
}

func (positionFactory) Featurize(c transition.Configuration) []string {
	state := c.(*State)
	features := []string{fmt.Sprintf("P=%d", state.count)}
	if state.length > 0 {
		features = append(features, fmt.Sprintf("P10=%d", state.count*10/state.length))
	}
	return features
}
