package events

import (
	"testing"
	"time"
)

func TestNewResourceEvent(t *testing.T) {
	before := time.Now()
	event := NewResourceEvent("res-1")
	after := time.Now()

	if event.ResourceID != "res-1" {
		t.Errorf("expected ResourceID 'res-1', got %q", event.ResourceID)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Error("timestamp should be within test bounds")
	}
}

func TestNewSyncEvents(t *testing.T) {
	t.Run("start has no completion fields", func(t *testing.T) {
		event := NewSyncStartEvent("dropbox")
		if event.Target != "dropbox" {
			t.Errorf("expected Target 'dropbox', got %q", event.Target)
		}
		if event.WithErrors || event.Duration != 0 {
			t.Error("start event should not carry completion fields")
		}
	})

	t.Run("complete carries outcome", func(t *testing.T) {
		event := NewSyncCompleteEvent("dropbox", true, 2*time.Second)
		if !event.WithErrors {
			t.Error("expected WithErrors")
		}
		if event.Duration != 2*time.Second {
			t.Errorf("expected 2s duration, got %v", event.Duration)
		}
	})
}

func TestNewItemChangeEvent(t *testing.T) {
	t.Run("records changed fields", func(t *testing.T) {
		event := NewItemChangeEvent("note", "n1", ItemUpdated, "title", "body")
		if event.Type != ItemUpdated {
			t.Errorf("expected ItemUpdated, got %q", event.Type)
		}
		if len(event.ChangedFields) != 2 || event.ChangedFields[1] != "body" {
			t.Errorf("unexpected changed fields: %v", event.ChangedFields)
		}
	})

	t.Run("no changed fields", func(t *testing.T) {
		event := NewItemChangeEvent("folder", "f1", ItemDeleted)
		if len(event.ChangedFields) != 0 {
			t.Errorf("expected no changed fields, got %v", event.ChangedFields)
		}
	})
}

func TestNewTodoToggleEvent(t *testing.T) {
	event := NewTodoToggleEvent("n1", true)
	if event.NoteID != "n1" || !event.Completed {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestNewAlarmEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	event := NewAlarmEvent("n1", at)
	if !event.AlarmTime.Equal(at) {
		t.Errorf("expected alarm time %v, got %v", at, event.AlarmTime)
	}
}

func TestNewSettingsEvent(t *testing.T) {
	event := NewSettingsEvent("theme", "locale")
	if len(event.Keys) != 2 || event.Keys[0] != "theme" {
		t.Errorf("unexpected keys: %v", event.Keys)
	}
}
