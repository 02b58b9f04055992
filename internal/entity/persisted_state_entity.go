package entity

import "time"

// PersistedState is the long-lived subset of the client state that survives
// a restart. Timeline, evidence and the active source are never part of it.
type PersistedState struct {
	Sessions         []ChatSession `json:"sessions"`
	CurrentSessionId string        `json:"current_session_id"`
	Documents        []Document    `json:"documents"`
	SavedAt          time.Time     `json:"saved_at"`
}
