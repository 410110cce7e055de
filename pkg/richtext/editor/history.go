package editor

import "estate-listing-be/pkg/richtext"

// DefaultMaxHistory bounds the undo stack when no WithMaxHistory option is
// given.
const DefaultMaxHistory = 100

type snapshot struct {
	doc richtext.Document
	sel richtext.Range
}

// history is a linear undo/redo stack. Documents are never modified after
// they are produced, so snapshots share them without copying.
type history struct {
	undo  []snapshot
	redo  []snapshot
	limit int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultMaxHistory
	}
	return &history{limit: limit}
}

// record saves the state before a mutation and drops the redo branch.
func (h *history) record(s snapshot) {
	h.undo = append(h.undo, s)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

func (h *history) stepBack(cur snapshot) (snapshot, bool) {
	if len(h.undo) == 0 {
		return snapshot{}, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cur)
	return last, true
}

func (h *history) stepForward(cur snapshot) (snapshot, bool) {
	if len(h.redo) == 0 {
		return snapshot{}, false
	}
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cur)
	return last, true
}

func (h *history) clear() {
	h.undo, h.redo = nil, nil
}

func (h *history) canUndo() bool { return len(h.undo) > 0 }
func (h *history) canRedo() bool { return len(h.redo) > 0 }
