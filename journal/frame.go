package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Frame size constants.
const (
	// MaxFrameSize is the maximum frame size (1 MiB), including prefix.
	// Entries are digests, not full snapshots; anything bigger is corrupt.
	MaxFrameSize = 1 * 1024 * 1024
	// MaxPayloadSize is the maximum payload size.
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
)

// FrameErrorKind classifies frame decoding errors.
type FrameErrorKind int

const (
	// FrameErrorPartial indicates a truncated or incomplete frame.
	FrameErrorPartial FrameErrorKind = iota
	// FrameErrorTooLarge indicates a frame exceeding MaxFrameSize.
	FrameErrorTooLarge
	// FrameErrorDecode indicates a msgpack decoding error.
	FrameErrorDecode
)

// FrameError represents a frame decoding error.
type FrameError struct {
	Kind FrameErrorKind
	Msg  string
	Err  error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Writer appends entries as length-prefixed msgpack frames.
// Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
	// closer is set when the writer owns the underlying file.
	closer io.Closer
	seq    int64
}

// NewWriter creates a writer over an existing stream.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Create opens (or truncates) a journal file and returns a writer that
// owns it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("journal create: %w", err)
	}
	return &Writer{out: f, closer: f}, nil
}

// Record encodes and appends one entry, assigning its sequence number
// unless the entry already carries one.
func (w *Writer) Record(entry *Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if entry.Seq == 0 {
		w.seq++
		entry.Seq = w.seq
	}

	payload, err := msgpack.Marshal(entry)
	if err != nil {
		return fmt.Errorf("journal encode: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", len(payload), MaxPayloadSize),
		}
	}

	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.out.Write(prefix[:]); err != nil {
		return fmt.Errorf("journal write prefix: %w", err)
	}
	if _, err := w.out.Write(payload); err != nil {
		return fmt.Errorf("journal write payload: %w", err)
	}
	return nil
}

// Close closes the underlying file if the writer owns one.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

var _ Sink = (*Writer)(nil)

// Reader decodes length-prefixed entries from a stream.
type Reader struct {
	in io.Reader
}

// NewReader creates a reader over a journal stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{in: r}
}

// Next reads a single entry.
//
// Errors:
//   - io.EOF: stream ended cleanly (no more entries)
//   - *FrameError with Kind=FrameErrorPartial: incomplete frame
//   - *FrameError with Kind=FrameErrorTooLarge: frame exceeds limit
//   - *FrameError with Kind=FrameErrorDecode: msgpack decode failure
func (r *Reader) Next() (*Entry, error) {
	var prefix [LengthPrefixSize]byte
	_, err := io.ReadFull(r.in, prefix[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read length prefix",
			Err:  err,
		}
	}

	payloadSize := binary.BigEndian.Uint32(prefix[:])
	if payloadSize > MaxPayloadSize {
		return nil, &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r.in, payload); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read payload",
			Err:  err,
		}
	}

	var entry Entry
	if err := msgpack.Unmarshal(payload, &entry); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode entry",
			Err:  err,
		}
	}
	return &entry, nil
}

// ReadAll reads every entry until EOF.
func ReadAll(r io.Reader) ([]*Entry, error) {
	reader := NewReader(r)
	var entries []*Entry
	for {
		entry, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return entries, err
		}
		entries = append(entries, entry)
	}
}

// Load reads every entry from a journal file.
func Load(path string) ([]*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal open: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadAll(f)
}
