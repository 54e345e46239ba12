package scenario

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/delegapter/pkg/delegapter"
	"github.com/go-drift/delegapter/pkg/errors"
	delegaptertest "github.com/go-drift/delegapter/pkg/testing"
)

const cards = `
version: v1.2.0
kinds:
  - name: card
    diff: key
    key: id
    max_recycled: 2
  - name: label
old:
  - {kind: label, item: Inbox}
  - {kind: card, item: {id: 1, title: hello}}
  - {kind: card, item: {id: 2, title: world}}
new:
  - {kind: card, item: {id: 2, title: world}}
  - {kind: card, item: {id: 1, title: hello again}}
steps:
  - {op: add, kind: label, item: Archive, at: 0}
  - {op: remove_kind, kinds: [label]}
  - {op: replace, moves: false, entries: [{kind: label, item: Done}]}
`

func TestParseAndDiff(t *testing.T) {
	s, err := Parse([]byte(cards))
	require.NoError(t, err)
	require.NotNil(t, s.Kind("card"))
	assert.Equal(t, 2, s.Kind("card").MaxRecycledHint())

	rec := &delegaptertest.Recorder{}
	d := delegapter.New(rec)
	s.Fill(d, s.Old)
	rec.Reset()
	require.NoError(t, d.Replace(true, func(b *delegapter.Builder) error {
		s.Build(b, s.New)
		return nil
	}))

	// either card may be the one that moves
	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, delegaptertest.Removed(0, 1), events[0])
	assert.Equal(t, delegaptertest.OpMoved, events[1].Op)
	assert.Equal(t, delegaptertest.Changed(1, 1, "[title]"), events[2])
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, map[string]any{"id": 1, "title": "hello again"}, d.ItemAt(1))
}

func TestApplySteps(t *testing.T) {
	s, err := Parse([]byte(cards))
	require.NoError(t, err)
	rec := &delegaptertest.Recorder{}
	d := delegapter.New(rec)
	s.Fill(d, s.Old)
	rec.Reset()

	for _, st := range s.Steps {
		require.NoError(t, s.Apply(d, st, true))
	}
	assert.Equal(t, []delegaptertest.Event{
		delegaptertest.Inserted(0, 1),
		delegaptertest.Removed(0, 2),
		delegaptertest.Removed(0, 2),
		delegaptertest.Inserted(0, 1),
	}, rec.Events())
	assert.Equal(t, "Done", d.ItemAt(0))

	at := 5
	assert.ErrorIs(t, s.Apply(d, Step{Op: OpRemove, At: &at}, true), errors.ErrIndexOutOfRange)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"empty":             "",
		"bad version":       "version: one\n",
		"major two":         "version: v2.0.0\n",
		"unknown field":     "version: v1.0.0\nextra: 1\n",
		"unknown kind":      "version: v1.0.0\nold: [{kind: nope, item: 1}]\n",
		"unknown diff":      "version: v1.0.0\nkinds: [{name: a, diff: fuzzy}]\n",
		"key without field": "version: v1.0.0\nkinds: [{name: a, diff: key}]\n",
		"duplicate kind":    "version: v1.0.0\nkinds: [{name: a}, {name: a}]\n",
		"unknown op":        "version: v1.0.0\nsteps: [{op: shuffle}]\n",
		"set without at":    "version: v1.0.0\nkinds: [{name: a}]\nsteps: [{op: set, kind: a, item: 1}]\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			var e *errors.Error
			require.True(t, stderrors.As(err, &e), "got %v", err)
			assert.Equal(t, errors.KindConfig, e.Kind)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cards), 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
