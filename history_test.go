package paint

import (
	"errors"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory(0)
	if h.Capacity() != DefaultHistoryCapacity {
		t.Errorf("Capacity() = %d, want %d", h.Capacity(), DefaultHistoryCapacity)
	}
	if h.Position() != -1 || h.Len() != 0 {
		t.Errorf("empty history Position() = %d, Len() = %d, want -1, 0", h.Position(), h.Len())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history can undo or redo")
	}
	if _, ok := h.Current(); ok {
		t.Error("Current() on empty history ok = true")
	}
}

func TestHistory_UndoRedo(t *testing.T) {
	h := NewHistory(10)
	for w := 1; w <= 3; w++ {
		h.Save(Record{Width: w, Height: 1, BoundIndex: -1})
	}

	steps := []struct {
		op        string
		wantOK    bool
		wantWidth int
	}{
		{"undo", true, 2},
		{"undo", true, 1},
		{"undo", false, 0},
		{"redo", true, 2},
		{"redo", true, 3},
		{"redo", false, 0},
	}
	for i, s := range steps {
		var rec Record
		var ok bool
		if s.op == "undo" {
			rec, ok = h.Undo()
		} else {
			rec, ok = h.Redo()
		}
		if ok != s.wantOK || rec.Width != s.wantWidth {
			t.Errorf("step %d %s() = (width %d, %v), want (width %d, %v)", i, s.op, rec.Width, ok, s.wantWidth, s.wantOK)
		}
	}
}

func TestHistory_SaveDropsRedo(t *testing.T) {
	h := NewHistory(10)
	for w := 1; w <= 3; w++ {
		h.Save(Record{Width: w, Height: 1, BoundIndex: -1})
	}
	h.Undo()
	h.Undo()
	h.Save(Record{Width: 9, Height: 1, BoundIndex: -1})

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
	if h.CanRedo() {
		t.Error("CanRedo() = true after save, want false")
	}
	if rec, _ := h.Current(); rec.Width != 9 {
		t.Errorf("Current().Width = %d, want 9", rec.Width)
	}
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for w := 1; w <= 5; w++ {
		h.Save(Record{Width: w, Height: 1, BoundIndex: -1})
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if h.Position() != 2 {
		t.Errorf("Position() = %d, want 2", h.Position())
	}

	var widths []int
	for {
		rec, ok := h.Undo()
		if !ok {
			break
		}
		widths = append(widths, rec.Width)
	}
	if len(widths) != 2 || widths[0] != 4 || widths[1] != 3 {
		t.Errorf("undo widths = %v, want [4 3]", widths)
	}
}

func TestHistory_RecordsAreCopies(t *testing.T) {
	h := NewHistory(4)
	layer := filledLayer(t, "red", BlendSourceOver, 2, 2, colorRed)
	h.Save(Record{Width: 2, Height: 2, Layers: []Layer{layer}, BoundIndex: 0})

	rec, _ := h.Current()
	rec.Layers[0].(*ImageLayer).Pixels().Clear()

	again, _ := h.Current()
	if got := again.Layers[0].(*ImageLayer).Pixels().PixelAt(0, 0); got != colorRed {
		t.Errorf("stored record PixelAt(0, 0) = %v, want red", got)
	}
}

func TestRecord_Validate(t *testing.T) {
	pm, _ := NewPixmap(1, 1)
	good := &ImageLayer{name: "ok", pixels: pm}

	tests := []struct {
		name    string
		rec     Record
		wantErr bool
	}{
		{"valid", Record{Width: 1, Height: 1, Layers: []Layer{good}, BoundIndex: 0}, false},
		{"unbound", Record{Width: 1, Height: 1, BoundIndex: -1}, false},
		{"zero size", Record{Width: 0, Height: 1, BoundIndex: -1}, true},
		{"bound out of range", Record{Width: 1, Height: 1, BoundIndex: 1, Layers: []Layer{good}}, true},
		{"nil layer", Record{Width: 1, Height: 1, BoundIndex: -1, Layers: []Layer{nil}}, true},
		{"layer without pixels", Record{Width: 1, Height: 1, BoundIndex: -1, Layers: []Layer{&ImageLayer{}}}, true},
		{"negative group", Record{Width: 1, Height: 1, BoundIndex: -1, Groups: []Group{{Start: -1}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr && !errors.Is(err, ErrCorruptRecord) {
				t.Errorf("Validate() error = %v, want ErrCorruptRecord", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}
