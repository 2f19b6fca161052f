// Package journal records executed commands as length-prefixed msgpack
// frames for post-session replay and inspection.
//
// Frame layout: 4-byte big-endian payload length, then a msgpack-encoded
// Entry. The journal is an append-only diagnostic artifact; it is not part
// of the coordination contract and the coordinator runs fine without one.
package journal

import (
	"time"

	"github.com/pithecene-io/cue/types"
)

// FormatVersion is the journal frame format version.
const FormatVersion = "1.0.0"

// Entry is one executed command with its resulting snapshot digest.
type Entry struct {
	// FormatVersion is the frame format version.
	FormatVersion string `msgpack:"format_version"`
	// Seq is the monotonic entry number, starts at 1.
	Seq int64 `msgpack:"seq"`
	// Ts is the entry timestamp in ISO 8601 UTC format.
	Ts string `msgpack:"ts"`

	// SessionID and VideoID identify the session at execution time.
	SessionID string `msgpack:"session_id"`
	VideoID   string `msgpack:"video_id,omitempty"`

	// CommandID and CommandType identify the executed command.
	CommandID   string `msgpack:"command_id"`
	CommandType string `msgpack:"command_type"`
	// Attempts is the attempt count at completion.
	Attempts int `msgpack:"attempts"`
	// Status is the command's final status (done or failed).
	Status string `msgpack:"status"`
	// Error is the failure message for failed commands.
	Error string `msgpack:"error,omitempty"`

	// Snapshot digest after the command.
	State        string  `msgpack:"state"`
	Version      uint64  `msgpack:"version"`
	VideoTime    float64 `msgpack:"video_time"`
	MessageCount int     `msgpack:"message_count"`
	ErrorCount   int     `msgpack:"error_count"`
}

// NewEntry builds an entry from an executed command and the snapshot it
// produced. Seq is assigned by the sink on record.
func NewEntry(cmd *types.Command, snap types.Snapshot, execErr error) *Entry {
	e := &Entry{
		FormatVersion: FormatVersion,
		Ts:            time.Now().UTC().Format(time.RFC3339Nano),
		SessionID:     snap.SessionID,
		VideoID:       snap.VideoID,
		CommandID:     cmd.ID,
		CommandType:   string(cmd.Type()),
		Attempts:      cmd.Attempts,
		Status:        string(cmd.Status),
		State:         string(snap.State),
		Version:       snap.Version,
		VideoTime:     snap.Video.CurrentTime,
		MessageCount:  len(snap.Messages),
		ErrorCount:    len(snap.Errors),
	}
	if execErr != nil {
		e.Error = execErr.Error()
	}
	return e
}

// Sink accepts journal entries. The coordinator treats journaling as
// best-effort: sink errors are logged, never propagated into command
// execution.
type Sink interface {
	Record(entry *Entry) error
	Close() error
}
