// internal/types/models.go
package types

import (
	"encoding/json"
	"time"
)

// Session is one tracked unit of agent execution as reported by the
// upstream sessions API. Timestamps are passed through verbatim.
type Session struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	AgentUUID string `json:"agent_uuid"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Known session statuses. Anything else passes through unchanged.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
	StatusFailed     = "failed"
)

// Subagent is a child execution unit under a session.
type Subagent struct {
	SubagentID string `json:"subagent_id"`
	SessionID  string `json:"session_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Event is a timestamped occurrence under a session, optionally scoped
// to one subagent.
type Event struct {
	EventID    string          `json:"event_id,omitempty"`
	SessionID  string          `json:"session_id,omitempty"`
	SubagentID string          `json:"subagent_id,omitempty"`
	EventType  string          `json:"event_type"`
	Timestamp  string          `json:"timestamp,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// ListingSummary holds locally computed status counts over one filtered
// listing. Total is the length of the returned list, not an upstream value.
type ListingSummary struct {
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Failed     int `json:"failed"`
	Total      int `json:"total_sessions"`
}

// Listing is the payload of the sessions JSON route.
type Listing struct {
	Sessions []Session      `json:"sessions"`
	Summary  ListingSummary `json:"summary"`
}

// FilterOptions are the distinct filter values present in one listing,
// recomputed per request and never persisted. Slices are sorted.
type FilterOptions struct {
	SessionIDs []string `json:"session_ids"`
	UserIDs    []string `json:"user_ids"`
	AgentUUIDs []string `json:"agent_uuids"`
}

// SessionView is the assembled detail view for one session. Any of the
// upstream-sourced fields may be absent (nil or empty) when the
// corresponding endpoint did not return data; the view still renders.
type SessionView struct {
	SessionID     string
	StatusSummary *Session
	Summary       json.RawMessage
	EventStats    json.RawMessage
	Subagents     []Subagent
	SubagentStats json.RawMessage
	Events        []Event
	EventTypes    []string

	// Echoed filter parameters for pre-selecting UI controls.
	CurrentSubagent  string
	CurrentEventType string
}

// AuthSession is the server-side record for one browser session. It is
// distinct from the domain Session above. The token field is rewritten on
// every authenticated upstream call; concurrent requests from the same
// browser are not coordinated and the last write wins.
type AuthSession struct {
	ID            AuthSessionID `json:"id"`
	Authenticated bool          `json:"authenticated"`
	UserID        string        `json:"user_id"`
	Token         string        `json:"token"`
	CreatedAt     time.Time     `json:"created_at"`
	ExpiresAt     time.Time     `json:"expires_at"`
}

// Expired reports whether the record is past its store lifetime.
func (s *AuthSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
