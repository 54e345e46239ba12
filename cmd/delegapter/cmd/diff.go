package cmd

import (
	"fmt"

	"github.com/go-drift/delegapter/pkg/delegapter"
	delegaptertest "github.com/go-drift/delegapter/pkg/testing"
)

func init() {
	RegisterCommand(&Command{
		Name:  "diff",
		Short: "Diff the old list of a scenario against the new one",
		Long: `Build the scenario's old list, replace it with the new list in one
transaction and print the notifications of the replacement.

Flags:
  --moves            Report reordered entries as moves
  --no-moves         Report reordered entries as removals and insertions
  --config FILE      Read configuration from FILE instead of delegapter.yaml
                     next to the scenario
  --script FILE      Write the notifications to FILE as YAML
  --verify           Replay the notifications and check they yield the new list
  --metrics          Print the collected metrics`,
		Usage: "delegapter diff [flags] <scenario.yaml>",
		Run:   runDiff,
	})
}

func runDiff(args []string) error {
	s, err := newSession("diff", args)
	if err != nil {
		return err
	}
	sc := s.scenario

	rec := &delegaptertest.Recorder{}
	d := s.newList(rec)
	sc.Fill(d, sc.Old)
	old := items(d)
	rec.Reset()

	if err := d.Replace(s.moves, func(b *delegapter.Builder) error {
		sc.Build(b, sc.New)
		return nil
	}); err != nil {
		return fmt.Errorf("replace failed: %w", err)
	}

	events := rec.Events()
	printEvents("events", events)
	printList(d)
	if s.verify {
		if err := check(old, items(d), events); err != nil {
			return err
		}
	}
	return s.finish(events)
}
