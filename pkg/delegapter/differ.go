package delegapter

import (
	"github.com/go-drift/delegapter/pkg/diff"
	"github.com/go-drift/delegapter/pkg/entries"
	"github.com/go-drift/delegapter/pkg/errors"
	"github.com/go-drift/delegapter/pkg/kind"
)

// differ adapts two entry lists to diff.Callback. One differ is shared by a
// root list and its children and holds its lists only while running.
type differ struct {
	old, new *entries.List
}

func (d *differ) lists() (*entries.List, *entries.List) {
	if d.old == nil || d.new == nil {
		panic(errors.Precondition("delegapter.differ", "old and new lists must be set"))
	}
	return d.old, d.new
}

func (d *differ) OldSize() int {
	old, _ := d.lists()
	return old.Len()
}

func (d *differ) NewSize() int {
	_, new := d.lists()
	return new.Len()
}

func (d *differ) AreItemsTheSame(oldPos, newPos int) bool {
	old, new := d.lists()
	return kind.ItemsSame(old.KindAt(oldPos), new.KindAt(newPos), old.ItemAt(oldPos), new.ItemAt(newPos))
}

func (d *differ) AreContentsTheSame(oldPos, newPos int) bool {
	old, new := d.lists()
	return kind.ContentsSame(old.KindAt(oldPos), new.KindAt(newPos), old.ItemAt(oldPos), new.ItemAt(newPos))
}

func (d *differ) ChangePayload(oldPos, newPos int) any {
	old, new := d.lists()
	return kind.ChangePayload(old.KindAt(oldPos), new.KindAt(newPos), old.ItemAt(oldPos), new.ItemAt(newPos))
}

// run diffs old against new and dispatches the script to target. The lists
// are released when run returns, also if target panics.
func (d *differ) run(old, new *entries.List, detectMoves bool, target diff.ListUpdateCallback) *diff.Result {
	if d.old != nil || d.new != nil {
		panic(errors.Precondition("delegapter.differ", "differ is already running"))
	}
	d.old, d.new = old, new
	defer func() { d.old, d.new = nil, nil }()

	r := diff.Calculate(d, detectMoves)
	r.DispatchUpdatesTo(target)
	return r
}
