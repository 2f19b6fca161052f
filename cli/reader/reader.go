package reader

import (
	"time"

	"github.com/pithecene-io/cue/journal"
	"github.com/pithecene-io/cue/types"
)

// Reader abstracts read-only journal access for CLI commands.
type Reader interface {
	InspectSession() *InspectSessionResponse
	ListEntries(opts ListEntriesOptions) []ListEntryItem
	Stats() *SessionStats
}

// JournalReader reads a recorded session journal file.
type JournalReader struct {
	entries []*journal.Entry
}

// Open loads a journal file into a reader. The whole file is read up
// front; journals are small (one digest entry per command).
func Open(path string) (*JournalReader, error) {
	entries, err := journal.Load(path)
	if err != nil {
		return nil, err
	}
	return &JournalReader{entries: entries}, nil
}

// NewJournalReader wraps already-loaded entries (for testing).
func NewJournalReader(entries []*journal.Entry) *JournalReader {
	return &JournalReader{entries: entries}
}

// InspectSession summarizes the journaled session.
func (r *JournalReader) InspectSession() *InspectSessionResponse {
	resp := &InspectSessionResponse{}
	if len(r.entries) == 0 {
		return resp
	}

	first, last := r.entries[0], r.entries[len(r.entries)-1]
	resp.SessionID = last.SessionID
	resp.VideoID = last.VideoID
	resp.Commands = len(r.entries)
	resp.FinalState = last.State
	resp.FinalVersion = last.Version
	resp.FinalTime = last.VideoTime
	resp.Messages = last.MessageCount
	resp.TotalErrors = last.ErrorCount

	for _, e := range r.entries {
		if e.Status == string(types.CommandFailed) {
			resp.Failures++
		}
		if e.Attempts > 1 {
			resp.Retries += e.Attempts - 1
		}
	}

	if t, err := time.Parse(time.RFC3339Nano, first.Ts); err == nil {
		resp.StartedAt = &t
	}
	if t, err := time.Parse(time.RFC3339Nano, last.Ts); err == nil {
		resp.EndedAt = &t
	}
	return resp
}

// ListEntries returns journal entries, optionally filtered.
func (r *JournalReader) ListEntries(opts ListEntriesOptions) []ListEntryItem {
	items := make([]ListEntryItem, 0, len(r.entries))
	for _, e := range r.entries {
		if opts.Status != "" && e.Status != opts.Status {
			continue
		}
		item := ListEntryItem{
			Seq:         uint64(e.Seq),
			CommandType: e.CommandType,
			Status:      e.Status,
			Attempts:    e.Attempts,
			Error:       e.Error,
			State:       e.State,
			Version:     e.Version,
			VideoTime:   e.VideoTime,
		}
		if t, err := time.Parse(time.RFC3339Nano, e.Ts); err == nil {
			item.Time = t
		}
		items = append(items, item)
	}
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items
}

// Stats aggregates the journal by command type and status.
func (r *JournalReader) Stats() *SessionStats {
	stats := &SessionStats{
		Commands: len(r.entries),
		ByType:   make(map[string]int),
	}
	for _, e := range r.entries {
		stats.ByType[e.CommandType]++
		switch e.Status {
		case string(types.CommandDone):
			stats.Done++
		case string(types.CommandFailed):
			stats.Failed++
		}
	}
	return stats
}

var _ Reader = (*JournalReader)(nil)
