// Package scenario loads the YAML scenarios the CLI diffs and replays.
//
//	version: v1.0.0
//	kinds:
//	  - name: card
//	    diff: key
//	    key: id
//	    max_recycled: 3
//	  - name: label
//	old:
//	  - {kind: label, item: Inbox}
//	  - {kind: card, item: {id: 1, title: hello}}
//	new:
//	  - {kind: card, item: {id: 1, title: hello again}}
//	steps:
//	  - {op: add, kind: label, item: Archive}
//	  - {op: remove, at: 0}
package scenario

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/delegapter/pkg/errors"
	"github.com/go-drift/delegapter/pkg/kind"
)

// Diff strategies of a kind.
const (
	DiffIdentity = "identity"
	DiffEquality = "equality"
	DiffKey      = "key"
)

// Step operations.
const (
	OpAdd         = "add"
	OpAddAll      = "add_all"
	OpSet         = "set"
	OpRemove      = "remove"
	OpRemoveItem  = "remove_item"
	OpRemoveRange = "remove_range"
	OpRemoveAll   = "remove_all"
	OpRemoveKind  = "remove_kind"
	OpClear       = "clear"
	OpReplace     = "replace"
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Version string     `yaml:"version"`
	Kinds   []KindSpec `yaml:"kinds"`
	Old     []Entry    `yaml:"old"`
	New     []Entry    `yaml:"new"`
	Steps   []Step     `yaml:"steps"`

	kinds map[string]*kind.Kind
}

// KindSpec declares a kind.
type KindSpec struct {
	Name string `yaml:"name"`
	// Diff is identity (default), equality or key.
	Diff string `yaml:"diff"`
	// Key is the item field compared by the key strategy.
	Key         string `yaml:"key"`
	MaxRecycled *int   `yaml:"max_recycled"`
}

// Entry is one (kind, item) pair.
type Entry struct {
	Kind string `yaml:"kind"`
	Item any    `yaml:"item"`
}

// Step is one mutation of a replay.
type Step struct {
	Op      string   `yaml:"op"`
	Kind    string   `yaml:"kind"`
	Kinds   []string `yaml:"kinds"`
	At      *int     `yaml:"at"`
	From    int      `yaml:"from"`
	To      int      `yaml:"to"`
	Item    any      `yaml:"item"`
	Items   []any    `yaml:"items"`
	Payload any      `yaml:"payload"`
	Entries []Entry  `yaml:"entries"`
	Moves   *bool    `yaml:"moves"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

func invalid(format string, args ...any) error {
	return &errors.Error{Op: "scenario.Parse", Kind: errors.KindConfig, Err: fmt.Errorf(format, args...)}
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, invalid("empty scenario")
		}
		return nil, invalid("%v", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if !semver.IsValid(s.Version) {
		return invalid("version %q is not a semantic version", s.Version)
	}
	if major := semver.Major(s.Version); major != "v1" {
		return invalid("unsupported scenario version %s (want v1)", major)
	}

	s.kinds = make(map[string]*kind.Kind, len(s.Kinds))
	for _, spec := range s.Kinds {
		if spec.Name == "" {
			return invalid("kind without a name")
		}
		if _, dup := s.kinds[spec.Name]; dup {
			return invalid("kind %q declared twice", spec.Name)
		}
		k, err := spec.build()
		if err != nil {
			return err
		}
		s.kinds[spec.Name] = k
	}

	for i, e := range slices.Concat(s.Old, s.New) {
		if _, ok := s.kinds[e.Kind]; !ok {
			return invalid("entry %d: unknown kind %q", i, e.Kind)
		}
	}
	for i, st := range s.Steps {
		if err := s.validateStep(st); err != nil {
			return invalid("step %d (%s): %v", i+1, st.Op, err)
		}
	}
	return nil
}

func (s *Scenario) validateStep(st Step) error {
	needKind := func() error {
		if _, ok := s.kinds[st.Kind]; !ok {
			return fmt.Errorf("unknown kind %q", st.Kind)
		}
		return nil
	}
	switch st.Op {
	case OpAdd, OpAddAll, OpSet:
		if err := needKind(); err != nil {
			return err
		}
		if st.Op == OpSet && st.At == nil {
			return fmt.Errorf("set needs at")
		}
	case OpRemove:
		if st.At == nil {
			return fmt.Errorf("remove needs at")
		}
	case OpRemoveKind:
		for _, name := range st.Kinds {
			if _, ok := s.kinds[name]; !ok {
				return fmt.Errorf("unknown kind %q", name)
			}
		}
	case OpReplace:
		for _, e := range st.Entries {
			if _, ok := s.kinds[e.Kind]; !ok {
				return fmt.Errorf("unknown kind %q", e.Kind)
			}
		}
	case OpRemoveItem, OpRemoveRange, OpRemoveAll, OpClear:
	default:
		return fmt.Errorf("unknown op")
	}
	return nil
}

func (spec KindSpec) build() (*kind.Kind, error) {
	k := kind.New(spec.Name, nil)
	switch spec.Diff {
	case "", DiffIdentity:
	case DiffEquality:
		k = k.WithEquality()
	case DiffKey:
		if spec.Key == "" {
			return nil, invalid("kind %q: key diff needs a key field", spec.Name)
		}
		k = k.WithDiff(keyDiff(spec.Key))
	default:
		return nil, invalid("kind %q: unknown diff %q (want identity, equality or key)", spec.Name, spec.Diff)
	}
	if spec.MaxRecycled != nil {
		if *spec.MaxRecycled < 0 {
			return nil, invalid("kind %q: negative max_recycled", spec.Name)
		}
		k = k.MaxRecycled(*spec.MaxRecycled)
	}
	return k, nil
}

// keyDiff matches mapping items by one field. The change payload lists the
// other fields that differ.
func keyDiff(key string) kind.DiffFuncs[map[string]any] {
	return kind.DiffFuncs[map[string]any]{
		ItemsSame: func(a, b map[string]any) bool {
			av, aok := a[key]
			bv, bok := b[key]
			return aok && bok && kind.Identical(av, bv)
		},
		Payload: func(a, b map[string]any) any {
			var fields []string
			for f, v := range b {
				if w, ok := a[f]; !ok || fmt.Sprint(w) != fmt.Sprint(v) {
					fields = append(fields, f)
				}
			}
			for f := range a {
				if _, ok := b[f]; !ok {
					fields = append(fields, f)
				}
			}
			sort.Strings(fields)
			return fmt.Sprint(fields)
		},
	}
}

// Kind returns the declared kind called name, or nil.
func (s *Scenario) Kind(name string) *kind.Kind {
	return s.kinds[name]
}
