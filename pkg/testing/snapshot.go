package testing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Script is the serialized form of an event sequence, one line per event.
type Script struct {
	Events []string `yaml:"events"`
}

// ScriptOf serializes events.
func ScriptOf(events []Event) *Script {
	s := &Script{Events: make([]string, len(events))}
	for i, e := range events {
		s.Events[i] = e.String()
	}
	return s
}

// MatchesFile compares this script against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// DELEGAPTER_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Script) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("DELEGAPTER_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update script: %v", err)
		}
		return
	}

	expected, err := loadScript(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("script file missing: %s\n\nTo create: DELEGAPTER_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load script: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("script mismatch: %s\n%s\n\nTo update: DELEGAPTER_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this script to the given path, creating directories
// as needed.
func (s *Script) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a (-expected +actual) diff between other and this script.
// Returns empty string if equal.
func (s *Script) Diff(expected *Script) string {
	return cmp.Diff(expected.Events, s.Events)
}

func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid script YAML: %w", err)
	}
	return &s, nil
}
