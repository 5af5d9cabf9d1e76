package paint

import (
	"fmt"
	"slices"

	intImage "github.com/gogpu/paint/internal/image"
)

// DefaultHistoryCapacity is the number of records a History keeps.
const DefaultHistoryCapacity = 256

// Record is a full snapshot of canvas state. Records held by a History are
// never mutated; callers receive deep copies.
type Record struct {
	Width      int
	Height     int
	Layers     []Layer
	Groups     []Group
	BoundIndex int

	state uint64
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{
		Width:      r.Width,
		Height:     r.Height,
		Layers:     cloneLayers(r.Layers),
		Groups:     slices.Clone(r.Groups),
		BoundIndex: r.BoundIndex,
		state:      r.state,
	}
}

// Validate checks the record's internal invariants.
func (r Record) Validate() error {
	if !intImage.ValidDimensions(r.Width, r.Height) {
		return fmt.Errorf("%w: size %dx%d", ErrCorruptRecord, r.Width, r.Height)
	}
	if r.BoundIndex < -1 || r.BoundIndex >= len(r.Layers) {
		return fmt.Errorf("%w: bound index %d with %d layers", ErrCorruptRecord, r.BoundIndex, len(r.Layers))
	}
	for i, l := range r.Layers {
		if l == nil {
			return fmt.Errorf("%w: nil layer %d", ErrCorruptRecord, i)
		}
		if img, ok := l.(*ImageLayer); ok && img.pixels == nil {
			return fmt.Errorf("%w: layer %d has no pixels", ErrCorruptRecord, i)
		}
	}
	for _, g := range r.Groups {
		if g.Start < 0 || g.Length < 0 {
			return fmt.Errorf("%w: group %v", ErrCorruptRecord, g)
		}
	}
	return nil
}

// History is a bounded linear undo/redo log of records with a cursor on the
// current record.
//
// Thread safety: History is not safe for concurrent access.
type History struct {
	records  []Record
	position int
	capacity int
}

// NewHistory creates an empty log. A non-positive capacity means
// DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{position: -1, capacity: capacity}
}

// Save drops every record after the cursor, appends rec and moves the cursor
// onto it. When the log is over capacity the oldest record is evicted and
// the cursor moves down with it. The log takes ownership of rec.
func (h *History) Save(rec Record) {
	clear(h.records[h.position+1:])
	h.records = append(h.records[:h.position+1], rec)
	h.position = len(h.records) - 1

	if len(h.records) > h.capacity {
		h.records[0] = Record{}
		h.records = h.records[1:]
		h.position--
	}
}

// Undo moves the cursor back one record and returns a copy of it.
// Returns false when the cursor is already on the oldest record.
func (h *History) Undo() (Record, bool) {
	if h.position <= 0 {
		return Record{}, false
	}
	h.position--
	return h.records[h.position].Clone(), true
}

// Redo moves the cursor forward one record and returns a copy of it.
// Returns false when the cursor is already on the newest record.
func (h *History) Redo() (Record, bool) {
	if h.position >= len(h.records)-1 {
		return Record{}, false
	}
	h.position++
	return h.records[h.position].Clone(), true
}

// Current returns a copy of the record under the cursor.
func (h *History) Current() (Record, bool) {
	if h.position < 0 {
		return Record{}, false
	}
	return h.records[h.position].Clone(), true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.position > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.position < len(h.records)-1 }

// Len returns the number of records.
func (h *History) Len() int { return len(h.records) }

// Position returns the cursor, or -1 on an empty log.
func (h *History) Position() int { return h.position }

// Capacity returns the maximum number of records.
func (h *History) Capacity() int { return h.capacity }
