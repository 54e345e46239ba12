// Package testing provides test doubles for list update consumers.
//
// # Recording events
//
// A Recorder is a consumer that keeps every notification it receives:
//
//	func TestAdd(t *testing.T) {
//	    rec := &delegaptertest.Recorder{}
//	    d := delegapter.New(rec)
//	    d.Add(row, "a")
//
//	    want := []delegaptertest.Event{delegaptertest.Inserted(0, 1)}
//	    if diff := cmp.Diff(want, rec.Events()); diff != "" {
//	        t.Errorf("events (-want +got):\n%s", diff)
//	    }
//	}
//
// # Replaying scripts
//
// A Shadow starts as a copy of the old list and applies notifications to
// it, so a test can check that an edit script really turns the old list into
// the new one:
//
//	shadow := delegaptertest.NewShadow(old)
//	result.DispatchUpdatesTo(shadow)
//	if err := shadow.Verify(new, equal); err != nil {
//	    t.Error(err)
//	}
//
// # Golden scripts
//
// Scripts can be compared against golden YAML files:
//
//	delegaptertest.ScriptOf(rec.Events()).MatchesFile(t, "testdata/move.yaml")
//
// Update golden files with:
//
//	DELEGAPTER_UPDATE_SNAPSHOTS=1 go test ./...
package testing
