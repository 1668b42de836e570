package events

import "time"

// SettingsEvent is the payload of SettingsChange.
type SettingsEvent struct {
	Keys      []string
	Timestamp time.Time
}

// NewSettingsEvent creates a settings change event.
func NewSettingsEvent(keys ...string) SettingsEvent {
	return SettingsEvent{
		Keys:      keys,
		Timestamp: time.Now(),
	}
}

// KeymapEvent is the payload of KeymapChange.
type KeymapEvent struct {
	Command     string
	Accelerator string
	Timestamp   time.Time
}

// NewKeymapEvent creates a keymap change event.
func NewKeymapEvent(command, accelerator string) KeymapEvent {
	return KeymapEvent{
		Command:     command,
		Accelerator: accelerator,
		Timestamp:   time.Now(),
	}
}
