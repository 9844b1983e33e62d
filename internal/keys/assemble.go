package keys

import "github.com/ppiankov/mucprep/internal/model"

// assign stores a parsed field on the template. Non-list slots take the
// latest value; list slots append in source order. An explicit null only
// sticks while the slot holds no fillers.
func assign(t *model.Template, f field) {
	cur := t.Slots[f.slot]

	if f.null {
		if cur == nil || len(cur.Fillers) == 0 {
			t.Slots[f.slot] = model.NullSlot()
		}
		return
	}

	if !model.IsListSlot(f.slot) {
		t.Slots[f.slot] = &model.SlotValue{Fillers: f.fillers}
		return
	}

	if cur == nil || cur.Null {
		cur = &model.SlotValue{}
		t.Slots[f.slot] = cur
	}
	cur.Fillers = append(cur.Fillers, f.fillers...)
}
