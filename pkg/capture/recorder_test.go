package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deniedSource struct{}

func (deniedSource) Acquire(context.Context) error { return ErrPermissionDenied }
func (deniedSource) Release()                      {}

type countingSource struct {
	acquired int
	released int
}

func (s *countingSource) Acquire(context.Context) error {
	s.acquired++
	return nil
}
func (s *countingSource) Release() { s.released++ }

func testChunk(data []byte) Chunk {
	return Chunk{
		Data:       data,
		Timestamp:  time.Now(),
		SampleRate: 16000,
		Channels:   1,
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	r := NewRecorder(nil, 4096)
	require.NoError(t, r.Start(context.Background()))

	require.NoError(t, r.Append(testChunk([]byte{1, 2, 3, 4})))
	require.NoError(t, r.Append(testChunk([]byte{5, 6})))

	clip := r.Stop()
	require.False(t, clip.Empty())
	assert.Equal(t, 2, clip.Chunks)
	assert.Equal(t, 6, clip.PCMBytes)
	assert.Equal(t, "audio/wav", clip.MIMEType)

	// RIFF header plus all PCM bytes
	require.Len(t, clip.WAV, 44+6)
	assert.Equal(t, "RIFF", string(clip.WAV[0:4]))
	assert.Equal(t, "WAVE", string(clip.WAV[8:12]))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, clip.WAV[44:])
}

func TestRecorderDoubleStartRejected(t *testing.T) {
	src := &countingSource{}
	r := NewRecorder(src, 1024)
	require.NoError(t, r.Start(context.Background()))

	err := r.Start(context.Background())
	require.ErrorIs(t, err, ErrAlreadyRecording)
	// the rejected start must not have touched the source
	assert.Equal(t, 1, src.acquired)
}

func TestRecorderStopWhileIdleIsNoop(t *testing.T) {
	r := NewRecorder(nil, 1024)
	clip := r.Stop()
	assert.True(t, clip.Empty())
	assert.Nil(t, clip.WAV)
}

func TestRecorderAppendWhileIdle(t *testing.T) {
	r := NewRecorder(nil, 1024)
	err := r.Append(testChunk([]byte{1}))
	require.ErrorIs(t, err, ErrNotRecording)
}

func TestRecorderPermissionDenied(t *testing.T) {
	r := NewRecorder(deniedSource{}, 1024)
	err := r.Start(context.Background())
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, r.Recording())
}

func TestRecorderStopWithoutContent(t *testing.T) {
	src := &countingSource{}
	r := NewRecorder(src, 1024)
	require.NoError(t, r.Start(context.Background()))

	clip := r.Stop()
	assert.True(t, clip.Empty())
	assert.Equal(t, 1, src.released)
}

func TestRecorderOverflowKeepsTail(t *testing.T) {
	r := NewRecorder(nil, 256)
	require.NoError(t, r.Start(context.Background()))

	// far more data than the buffer holds; oldest frames get dropped
	for i := 0; i < 50; i++ {
		require.NoError(t, r.Append(testChunk(make([]byte, 32))))
	}

	clip := r.Stop()
	require.False(t, clip.Empty())
	assert.Less(t, clip.PCMBytes, 50*32)
}

func TestRecorderFrameTooLarge(t *testing.T) {
	r := NewRecorder(nil, 64)
	require.NoError(t, r.Start(context.Background()))
	err := r.Append(testChunk(make([]byte, 256)))
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestRecorderDiscardReleasesSource(t *testing.T) {
	src := &countingSource{}
	r := NewRecorder(src, 1024)
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Append(testChunk([]byte{9})))

	r.Discard()
	assert.False(t, r.Recording())
	assert.Equal(t, 1, src.released)
	assert.True(t, r.Stop().Empty())
}
