package cmd

import (
	"fmt"

	delegaptertest "github.com/go-drift/delegapter/pkg/testing"
)

func init() {
	RegisterCommand(&Command{
		Name:  "replay",
		Short: "Apply the steps of a scenario one by one",
		Long: `Fill a list with the scenario's old entries, then apply every step and
print the notifications each one produced. Replace steps use the move
detection of the configuration unless they set moves themselves.

Flags:
  --moves            Detect moves in replace steps without a moves setting
  --no-moves         Do not detect moves in those steps
  --config FILE      Read configuration from FILE instead of delegapter.yaml
                     next to the scenario
  --script FILE      Write all notifications to FILE as YAML
  --verify           Replay the notifications and check they yield the final list
  --metrics          Print the collected metrics`,
		Usage: "delegapter replay [flags] <scenario.yaml>",
		Run:   runReplay,
	})
}

func runReplay(args []string) error {
	s, err := newSession("replay", args)
	if err != nil {
		return err
	}
	sc := s.scenario

	rec := &delegaptertest.Recorder{}
	d := s.newList(rec)
	sc.Fill(d, sc.Old)
	initial := items(d)
	rec.Reset()

	var all []delegaptertest.Event
	for i, st := range sc.Steps {
		if err := sc.Apply(d, st, s.moves); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		events := rec.Reset()
		printEvents(fmt.Sprintf("step %d (%s)", i+1, st.Op), events)
		all = append(all, events...)
	}
	printList(d)
	if s.verify {
		if err := check(initial, items(d), all); err != nil {
			return err
		}
	}
	return s.finish(all)
}
