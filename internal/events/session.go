package events

import "time"

// SyncEvent is the payload of SyncStart and SyncComplete.
type SyncEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	Target    string
	Timestamp time.Time

	// Set on SyncComplete only.
	WithErrors bool
	Duration   time.Duration
}

// NewSyncStartEvent creates a sync start event.
func NewSyncStartEvent(target string) SyncEvent {
	return SyncEvent{
		Target:    target,
		Timestamp: time.Now(),
	}
}

// NewSyncCompleteEvent creates a sync complete event.
func NewSyncCompleteEvent(target string, withErrors bool, duration time.Duration) SyncEvent {
	return SyncEvent{
		Target:     target,
		WithErrors: withErrors,
		Duration:   duration,
		Timestamp:  time.Now(),
	}
}

// SessionEvent is the payload of SessionEstablished.
type SessionEvent struct {
	SessionID string
	Target    string
	Timestamp time.Time
}

// NewSessionEstablishedEvent creates a session established event.
func NewSessionEstablishedEvent(sessionID, target string) SessionEvent {
	return SessionEvent{
		SessionID: sessionID,
		Target:    target,
		Timestamp: time.Now(),
	}
}
