package store

import "time"

// Session is one client identity, keyed by the opaque session_id cookie value.
type Session struct {
	ID        int64
	SessionID string
	CreatedAt time.Time
}

// Task is one persisted pipeline run for a (session, video URL) pair.
type Task struct {
	ID            int64
	SessionID     string
	VideoURL      string
	VideoTitle    string
	AudioPath     string
	Transcription string
	Summary       string
	CreatedAt     time.Time
}
