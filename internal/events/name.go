// Package events defines the plain-event channel names and their payloads.
package events

import "fmt"

// Name identifies a plain event channel.
type Name string

// Plain event channels.
const (
	ResourceCreate               Name = "resourceCreate"
	ResourceChange               Name = "resourceChange"
	SettingsChange               Name = "settingsChange"
	TodoToggle                   Name = "todoToggle"
	NoteTypeToggle               Name = "noteTypeToggle"
	SyncStart                    Name = "syncStart"
	SessionEstablished           Name = "sessionEstablished"
	SyncComplete                 Name = "syncComplete"
	ItemChange                   Name = "itemChange"
	NoteAlarmTrigger             Name = "noteAlarmTrigger"
	AlarmChange                  Name = "alarmChange"
	KeymapChange                 Name = "keymapChange"
	NoteContentChange            Name = "noteContentChange"
	OcrServiceResourcesProcessed Name = "ocrServiceResourcesProcessed"
	NoteResourceIndexed          Name = "noteResourceIndexed"
)

var allNames = []Name{
	ResourceCreate,
	ResourceChange,
	SettingsChange,
	TodoToggle,
	NoteTypeToggle,
	SyncStart,
	SessionEstablished,
	SyncComplete,
	ItemChange,
	NoteAlarmTrigger,
	AlarmChange,
	KeymapChange,
	NoteContentChange,
	OcrServiceResourcesProcessed,
	NoteResourceIndexed,
}

// AllNames returns every plain event name in declaration order.
func AllNames() []Name {
	names := make([]Name, len(allNames))
	copy(names, allNames)
	return names
}

// Valid reports whether n belongs to the closed set of plain events.
func (n Name) Valid() bool {
	for _, known := range allNames {
		if n == known {
			return true
		}
	}
	return false
}

// String returns the channel identifier.
func (n Name) String() string {
	return string(n)
}

// ParseName converts s to a Name, rejecting anything outside the closed set.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !n.Valid() {
		return "", fmt.Errorf("unknown event name %q", s)
	}
	return n, nil
}
