package events

import "time"

// ResourceEvent is the payload of ResourceCreate and ResourceChange.
type ResourceEvent struct {
	ResourceID string
	Timestamp  time.Time
}

// NewResourceEvent creates a resource event.
func NewResourceEvent(resourceID string) ResourceEvent {
	return ResourceEvent{
		ResourceID: resourceID,
		Timestamp:  time.Now(),
	}
}

// OcrResourcesEvent is the payload of OcrServiceResourcesProcessed.
type OcrResourcesEvent struct {
	ResourceIDs []string
	Timestamp   time.Time
}

// NewOcrResourcesEvent creates an OCR batch event.
func NewOcrResourcesEvent(resourceIDs []string) OcrResourcesEvent {
	return OcrResourcesEvent{
		ResourceIDs: resourceIDs,
		Timestamp:   time.Now(),
	}
}

// NoteResourceIndexedEvent is the payload of NoteResourceIndexed.
type NoteResourceIndexedEvent struct {
	NoteID     string
	ResourceID string
	Timestamp  time.Time
}

// NewNoteResourceIndexedEvent creates a resource indexed event.
func NewNoteResourceIndexedEvent(noteID, resourceID string) NoteResourceIndexedEvent {
	return NoteResourceIndexedEvent{
		NoteID:     noteID,
		ResourceID: resourceID,
		Timestamp:  time.Now(),
	}
}
