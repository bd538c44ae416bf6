// Package capture buffers client audio between start and stop of one
// recording attempt and assembles the finished clip.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrAlreadyRecording = errors.New("capture: recording already in progress")
	ErrNotRecording     = errors.New("capture: no recording in progress")
	ErrPermissionDenied = errors.New("capture: audio source permission denied")
	ErrFrameTooLarge    = errors.New("capture: audio frame too large for buffer")
	ErrCorruptFrame     = errors.New("capture: corrupt audio frame")
)

// Capture is the finished clip produced by one Stop. Zero value is empty.
type Capture struct {
	WAV      []byte
	MIMEType string
	Chunks   int
	PCMBytes int
}

// Empty reports whether anything was actually captured.
func (c Capture) Empty() bool {
	return c.PCMBytes == 0
}

// Source abstracts acquisition of the audio input device. Remote clients own
// the real microphone; their source is a handshake over the live connection.
type Source interface {
	Acquire(ctx context.Context) error
	Release()
}

type noopSource struct{}

func (noopSource) Acquire(context.Context) error { return nil }
func (noopSource) Release()                      {}

// Recorder buffers chunks between Start and Stop. Start while recording is
// rejected; Stop while idle is a no-op returning an empty Capture.
type Recorder struct {
	mu        sync.Mutex
	source    Source
	buf       *chunkBuffer
	recording bool
}

// NewRecorder builds a recorder over a ring buffer of bufSize bytes.
// A nil source means the device is owned elsewhere.
func NewRecorder(source Source, bufSize int) *Recorder {
	if source == nil {
		source = noopSource{}
	}
	if bufSize <= 0 {
		bufSize = 1024 * 1024
	}
	return &Recorder{
		source: source,
		buf:    newChunkBuffer(bufSize),
	}
}

// Start acquires the source and begins buffering.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrAlreadyRecording
	}
	if err := r.source.Acquire(ctx); err != nil {
		return fmt.Errorf("failed to acquire audio source: %w", err)
	}
	r.buf.Reset()
	r.recording = true
	return nil
}

// Append buffers one chunk; only legal while recording.
func (r *Recorder) Append(c Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return ErrNotRecording
	}
	return r.buf.Enqueue(c)
}

// Stop finalizes buffered chunks into a single WAV clip and releases the
// source. Calling Stop while not recording returns an empty Capture.
func (r *Recorder) Stop() Capture {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return Capture{}
	}
	r.recording = false
	r.source.Release()

	var chunks []Chunk
	pcmBytes := 0
	for {
		chunk, ok := r.buf.Dequeue()
		if !ok {
			break
		}
		pcmBytes += len(chunk.Data)
		chunks = append(chunks, chunk)
	}

	if pcmBytes == 0 {
		return Capture{}
	}
	return Capture{
		WAV:      assembleWAV(chunks),
		MIMEType: "audio/wav",
		Chunks:   len(chunks),
		PCMBytes: pcmBytes,
	}
}

// Recording reports whether a recording attempt is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Discard drops any buffered chunks and releases the source if held.
func (r *Recorder) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		r.source.Release()
		r.recording = false
	}
	r.buf.Reset()
}
