package journal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pithecene-io/cue/types"
)

func testEntry(seq int64) *Entry {
	return &Entry{
		FormatVersion: FormatVersion,
		Seq:           seq,
		Ts:            time.Now().UTC().Format(time.RFC3339Nano),
		SessionID:     "session-1",
		VideoID:       "vid-1",
		CommandID:     "cmd-1",
		CommandType:   string(types.ActionVideoTimeUpdated),
		Attempts:      1,
		Status:        string(types.CommandDone),
		State:         string(types.SessionIdle),
		Version:       3,
		VideoTime:     12.5,
		MessageCount:  2,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	for i := int64(1); i <= 3; i++ {
		if err := w.Record(testEntry(i)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	entries, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("read %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Seq != int64(i+1) {
			t.Errorf("entry %d seq = %d, want %d", i, e.Seq, i+1)
		}
	}
	if entries[0].SessionID != "session-1" || entries[0].CommandType != string(types.ActionVideoTimeUpdated) {
		t.Errorf("entry fields did not survive round trip: %+v", entries[0])
	}
}

func TestRecord_AssignsSequence(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	// Entries without a seq get consecutive numbers from the writer.
	for range 2 {
		e := testEntry(0)
		if err := w.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	// An entry that already carries a seq keeps it.
	pre := testEntry(99)
	if err := w.Record(pre); err != nil {
		t.Fatalf("record presequenced: %v", err)
	}

	entries, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if entries[0].Seq != 1 || entries[1].Seq != 2 {
		t.Errorf("assigned seqs = %d, %d, want 1, 2", entries[0].Seq, entries[1].Seq)
	}
	if entries[2].Seq != 99 {
		t.Errorf("presequenced seq = %d, want 99", entries[2].Seq)
	}
}

func TestNext_EOFOnEmptyStream(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("next on empty stream = %v, want io.EOF", err)
	}
}

func TestNext_PartialPrefix(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x00, 0x00}))

	_, err := r.Next()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("next = %v, want FrameError", err)
	}
	if frameErr.Kind != FrameErrorPartial {
		t.Errorf("kind = %v, want FrameErrorPartial", frameErr.Kind)
	}
}

func TestNext_PartialPayload(t *testing.T) {
	var buf bytes.Buffer
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], 100)
	buf.Write(prefix[:])
	buf.Write([]byte("short"))

	_, err := NewReader(&buf).Next()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("next = %v, want FrameError", err)
	}
	if frameErr.Kind != FrameErrorPartial {
		t.Errorf("kind = %v, want FrameErrorPartial", frameErr.Kind)
	}
}

func TestNext_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], MaxPayloadSize+1)
	buf.Write(prefix[:])

	_, err := NewReader(&buf).Next()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("next = %v, want FrameError", err)
	}
	if frameErr.Kind != FrameErrorTooLarge {
		t.Errorf("kind = %v, want FrameErrorTooLarge", frameErr.Kind)
	}
}

func TestNext_DecodeError(t *testing.T) {
	garbage := []byte{0xc1, 0xc1, 0xc1, 0xc1}
	var buf bytes.Buffer
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(garbage)))
	buf.Write(prefix[:])
	buf.Write(garbage)

	_, err := NewReader(&buf).Next()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("next = %v, want FrameError", err)
	}
	if frameErr.Kind != FrameErrorDecode {
		t.Errorf("kind = %v, want FrameErrorDecode", frameErr.Kind)
	}
}

func TestReadAll_ReturnsPartialEntriesOnError(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Record(testEntry(1)); err != nil {
		t.Fatalf("record: %v", err)
	}
	// Append a truncated frame after the good one.
	buf.Write([]byte{0x00, 0x00})

	entries, err := ReadAll(&buf)
	if err == nil {
		t.Fatal("expected error for trailing truncated frame")
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries before error, want 1", len(entries))
	}
}

func TestCreateAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.journal")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for range 2 {
		if err := w.Record(testEntry(0)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(entries))
	}
	if entries[1].Seq != 2 {
		t.Errorf("second entry seq = %d, want 2", entries[1].Seq)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.journal")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewEntry_FromCommand(t *testing.T) {
	cmd := types.NewCommand(types.VideoSeek{Time: 10}, 3)
	cmd.Attempts = 2
	cmd.Status = types.CommandFailed

	snap := types.NewSnapshot(types.SessionMeta{SessionID: "s-1", VideoID: "vid-1"})
	snap.Version = 7
	snap.Video.CurrentTime = 42.5

	e := NewEntry(cmd, snap, os.ErrDeadlineExceeded)
	if e.CommandID != cmd.ID {
		t.Errorf("command id = %q, want %q", e.CommandID, cmd.ID)
	}
	if e.CommandType != string(types.ActionVideoSeek) {
		t.Errorf("command type = %q, want %q", e.CommandType, types.ActionVideoSeek)
	}
	if e.Attempts != 2 || e.Status != string(types.CommandFailed) {
		t.Errorf("attempts/status = %d/%s", e.Attempts, e.Status)
	}
	if e.Version != 7 || e.VideoTime != 42.5 {
		t.Errorf("digest = v%d t%.1f", e.Version, e.VideoTime)
	}
	if e.Error == "" {
		t.Error("expected error message recorded")
	}
	if e.Seq != 0 {
		t.Errorf("seq = %d, want 0 before sink assignment", e.Seq)
	}
}
