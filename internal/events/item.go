package events

import "time"

// ItemChangeType describes what happened to an item.
type ItemChangeType string

// Item change types.
const (
	ItemCreated ItemChangeType = "created"
	ItemUpdated ItemChangeType = "updated"
	ItemDeleted ItemChangeType = "deleted"
)

// ItemChangeEvent is the payload of ItemChange.
type ItemChangeEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	ItemType  string
	ItemID    string
	Type      ItemChangeType
	Timestamp time.Time

	// Optional
	ChangedFields []string
}

// NewItemChangeEvent creates an item change event.
func NewItemChangeEvent(itemType, itemID string, typ ItemChangeType, changedFields ...string) ItemChangeEvent {
	return ItemChangeEvent{
		ItemType:      itemType,
		ItemID:        itemID,
		Type:          typ,
		ChangedFields: changedFields,
		Timestamp:     time.Now(),
	}
}

// NoteContentEvent is the payload of NoteContentChange.
type NoteContentEvent struct {
	NoteID    string
	Body      string
	Timestamp time.Time
}

// NewNoteContentEvent creates a note content event.
func NewNoteContentEvent(noteID, body string) NoteContentEvent {
	return NoteContentEvent{
		NoteID:    noteID,
		Body:      body,
		Timestamp: time.Now(),
	}
}
