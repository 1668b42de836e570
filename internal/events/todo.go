package events

import (
	"time"
)

// TodoToggleEvent is the payload of TodoToggle.
type TodoToggleEvent struct {
	NoteID    string
	Completed bool
	Timestamp time.Time
}

// NewTodoToggleEvent creates a todo toggle event.
func NewTodoToggleEvent(noteID string, completed bool) TodoToggleEvent {
	return TodoToggleEvent{
		NoteID:    noteID,
		Completed: completed,
		Timestamp: time.Now(),
	}
}

// NoteTypeToggleEvent is the payload of NoteTypeToggle.
type NoteTypeToggleEvent struct {
	NoteID    string
	IsTodo    bool
	Timestamp time.Time
}

// NewNoteTypeToggleEvent creates a note type toggle event.
func NewNoteTypeToggleEvent(noteID string, isTodo bool) NoteTypeToggleEvent {
	return NoteTypeToggleEvent{
		NoteID:    noteID,
		IsTodo:    isTodo,
		Timestamp: time.Now(),
	}
}
