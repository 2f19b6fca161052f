// Package transcript implements the transcript lookup collaborator.
//
// Providers return the transcript text overlapping a time range. A missing
// transcript is an expected condition reported through the ok value, never
// an error; errors are reserved for transport failures.
package transcript

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Cue is one timed transcript segment.
type Cue struct {
	// Start and End are positions in seconds.
	Start float64
	End   float64
	Text  string
}

// Provider looks up transcript text for a video time range.
type Provider interface {
	// Lookup returns the concatenated text of cues overlapping
	// [from, to]. ok is false when the video has no transcript or no
	// cues overlap the range.
	Lookup(ctx context.Context, videoID string, from, to float64) (text string, ok bool, err error)
}

// StaticProvider serves transcripts from an in-memory cue index.
// Used by tests and the offline replay CLI.
type StaticProvider struct {
	mu   sync.RWMutex
	cues map[string][]Cue
}

// NewStaticProvider creates an empty in-memory provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{cues: make(map[string][]Cue)}
}

// SetCues replaces the cue list for a video. Cues are kept sorted by
// start time.
func (p *StaticProvider) SetCues(videoID string, cues []Cue) {
	sorted := append([]Cue(nil), cues...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	p.mu.Lock()
	p.cues[videoID] = sorted
	p.mu.Unlock()
}

// Lookup returns the text of cues overlapping [from, to].
func (p *StaticProvider) Lookup(ctx context.Context, videoID string, from, to float64) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	p.mu.RLock()
	cues, exists := p.cues[videoID]
	p.mu.RUnlock()
	if !exists {
		return "", false, nil
	}

	return Collect(cues, from, to)
}

// Collect concatenates the text of cues overlapping [from, to].
// Shared by all providers so overlap semantics stay uniform.
func Collect(cues []Cue, from, to float64) (string, bool, error) {
	var parts []string
	for _, cue := range cues {
		if cue.End < from || cue.Start > to {
			continue
		}
		if text := strings.TrimSpace(cue.Text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", false, nil
	}
	return strings.Join(parts, " "), true, nil
}

var _ Provider = (*StaticProvider)(nil)
