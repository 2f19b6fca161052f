// Package reader provides the read-side data access layer for the
// cue-session CLI.
//
// All read-only commands consume journal files through this package; the
// commands never touch a live coordinator.
package reader

import "time"

// InspectSessionResponse is the deep view of one journaled session.
type InspectSessionResponse struct {
	SessionID string `json:"session_id"`
	VideoID   string `json:"video_id"`

	Commands    int `json:"commands"`
	Failures    int `json:"failures"`
	Retries     int `json:"retries"`
	TotalErrors int `json:"total_errors"`

	FinalState   string  `json:"final_state"`
	FinalVersion uint64  `json:"final_version"`
	FinalTime    float64 `json:"final_time"`
	Messages     int     `json:"messages"`

	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

// ListEntryItem is one journal entry in list output.
type ListEntryItem struct {
	Seq         uint64    `json:"seq"`
	Time        time.Time `json:"time"`
	CommandType string    `json:"command_type"`
	Status      string    `json:"status"`
	Attempts    int       `json:"attempts"`
	Error       string    `json:"error,omitempty"`
	State       string    `json:"state"`
	Version     uint64    `json:"version"`
	VideoTime   float64   `json:"video_time"`
}

// ListEntriesOptions filters entry listings.
type ListEntriesOptions struct {
	// Status keeps only entries with the given command status.
	Status string
	// Limit caps the number of entries returned, 0 for all.
	Limit int
}

// SessionStats aggregates a journal by command type and status.
type SessionStats struct {
	Commands int `json:"commands"`
	Done     int `json:"done"`
	Failed   int `json:"failed"`

	ByType map[string]int `json:"by_type"`
}
