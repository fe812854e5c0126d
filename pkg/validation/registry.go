// Package validation implements the per-field validation registry: a live
// input normalizer plus a submit-time check per field key. Entries are
// evaluated in registration order at submit time and every entry is
// responsible for locating its own control; an entry whose field is absent
// from the current form passes trivially.
package validation

import "fmt"

// Control is one rendered input a validator can inspect. The tree package
// provides the concrete implementation; tests use lightweight fakes.
type Control interface {
	Name() string
	Kind() string
	Value() string
	Required() bool
	Focus()
}

// Scope exposes the mounted form to submit-time validators.
type Scope interface {
	Control(name string) (Control, bool)
	Controls() []Control
}

// Report surfaces a validation failure. Kind is "error" for every built-in.
type Report func(kind, message string)

// Entry pairs the two behaviours registered for a field key.
type Entry struct {
	// Key is the exact nameKey this entry is registered under.
	Key string

	// Normalize coerces raw keystrokes into canonical form as the user
	// types. Nil means the input is passed through untouched.
	Normalize func(raw string) string

	// Validate runs at submit time, after native required checks. It must
	// return true when its field is absent or empty-and-optional. On failure
	// it reports a message, focuses the offending control, and returns
	// false. Nil means the entry never fails.
	Validate func(scope Scope, report Report) bool
}

// Registry holds validation entries in registration order.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// NewRegistry constructs a registry from the given entries.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(entries))}
	for _, entry := range entries {
		if err := r.Register(entry); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends an entry. Duplicate keys are an error.
func (r *Registry) Register(entry Entry) error {
	if entry.Key == "" {
		return fmt.Errorf("validation: entry key is required")
	}
	if _, exists := r.index[entry.Key]; exists {
		return fmt.Errorf("validation: entry %q already registered", entry.Key)
	}
	r.index[entry.Key] = len(r.entries)
	r.entries = append(r.entries, entry)
	return nil
}

// Lookup retrieves the entry registered under the exact key.
func (r *Registry) Lookup(key string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	idx, ok := r.index[key]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Entries returns the registered entries in order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	return r.entries
}

// ValidateAll runs every entry in registration order against the scope,
// stopping at the first failure. Entries whose field does not exist in this
// form instance pass through their own absence check.
func (r *Registry) ValidateAll(scope Scope, report Report) bool {
	if r == nil {
		return true
	}
	for _, entry := range r.entries {
		if entry.Validate == nil {
			continue
		}
		if !entry.Validate(scope, report) {
			return false
		}
	}
	return true
}
