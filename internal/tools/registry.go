package tools

import (
	"sort"

	"github.com/flarebyte/diaflow/internal/stage"
)

// Factory builds a strategy bound to a run's environment.
type Factory func(env *Env) stage.Strategy

var registry = map[string]Factory{}

// Register adds a strategy factory.
func Register(name string, f Factory) {
	registry[name] = f
}

// Build instantiates the named strategies in order.
func Build(names []string, env *Env) ([]stage.Strategy, error) {
	out := make([]stage.Strategy, 0, len(names))
	for _, n := range names {
		f, ok := registry[n]
		if !ok {
			return nil, ErrUnknown{name: n}
		}
		out = append(out, f(env))
	}
	return out, nil
}

// Names lists every registered stage.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ErrUnknown is returned when a stage is not registered.
type ErrUnknown struct{ name string }

func (e ErrUnknown) Error() string { return "unknown stage: " + e.name }

// requireAll returns the first failing precondition.
func requireAll(checks ...func() error) error {
	for _, c := range checks {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}
