package sequences

import (
	"fmt"
	"sort"

	"github.com/san-kum/uniconv/internal/convergence"
)

// Entry describes a named sequence, its limit and the interval it is
// meant to be checked on.
type Entry struct {
	Name        string
	Description string
	Sequence    convergence.Sequence
	Limit       convergence.Limit
	Start       float64
	End         float64
	// Monotone reports whether the sup-norm is known to be non-increasing
	// in n, which the bisect strategy relies on.
	Monotone bool
}

type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns a registry holding the built-in sequences.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Entry)}
	for _, e := range builtins() {
		r.entries[e.Name] = e
	}
	return r
}

// Register adds e, replacing any entry of the same name.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("sequence name is empty")
	}
	if e.Sequence == nil || e.Limit == nil {
		return fmt.Errorf("sequence %s: missing sequence or limit", e.Name)
	}
	r.entries[e.Name] = e
	return nil
}

func (r *Registry) Get(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("unknown sequence: %s", name)
	}
	return e, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
