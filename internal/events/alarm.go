package events

import "time"

// AlarmEvent is the payload of NoteAlarmTrigger and AlarmChange.
type AlarmEvent struct {
	NoteID    string
	AlarmTime time.Time
	Timestamp time.Time
}

// NewAlarmEvent creates an alarm event.
func NewAlarmEvent(noteID string, alarmTime time.Time) AlarmEvent {
	return AlarmEvent{
		NoteID:    noteID,
		AlarmTime: alarmTime,
		Timestamp: time.Now(),
	}
}
