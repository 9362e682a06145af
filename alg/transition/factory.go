package transition

import (
	"fmt"
	"strings"
)

// FeatureFactory extracts the sparse string features of a configuration
// used to score candidate transitions. Features are opaque to the
// trainer; equality is exact string match.
type FeatureFactory interface {
	Featurize(c Configuration) []string
}

// FactoryBuilder constructs a feature factory from the optional
// argument in a factory spec, e.g. the "3" of "history(3)".
type FactoryBuilder func(arg string) (FeatureFactory, error)

var factories = make(map[string]FactoryBuilder)

// RegisterFactory makes a feature factory available to NewFactory under
// the given name. Registration happens at startup; duplicate names are
// a programming error.
func RegisterFactory(name string, builder FactoryBuilder) {
	if _, exists := factories[name]; exists {
		panic("Feature factory registered twice: " + name)
	}
	factories[name] = builder
}

// NewFactory resolves a factory spec of the form "name(arg);name2;..."
// against the registry. Multiple factories combine into a composite
// that concatenates child outputs in spec order.
func NewFactory(spec string) (FeatureFactory, error) {
	parts := strings.Split(spec, ";")
	built := make([]FeatureFactory, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		name, arg := part, ""
		if paren := strings.IndexByte(part, '('); paren >= 0 {
			if part[len(part)-1] != ')' {
				return nil, fmt.Errorf("malformed feature factory spec %q", part)
			}
			name, arg = part[:paren], part[paren+1:len(part)-1]
		}
		builder, exists := factories[name]
		if !exists {
			return nil, fmt.Errorf("unknown feature factory %q", name)
		}
		factory, err := builder(arg)
		if err != nil {
			return nil, fmt.Errorf("feature factory %q: %v", name, err)
		}
		built = append(built, factory)
	}
	if len(built) == 0 {
		return nil, fmt.Errorf("empty feature factory spec %q", spec)
	}
	if len(built) == 1 {
		return built[0], nil
	}
	return combinationFactory(built), nil
}

type combinationFactory []FeatureFactory

func (c combinationFactory) Featurize(conf Configuration) []string {
	var features []string
	for _, factory := range c {
		features = append(features, factory.Featurize(conf)...)
	}
	return features
}
