package tts

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeakerMutedRefusesWithoutNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := New(srv.URL)
	s.SetMuted(true)

	_, _, err := s.Speak(context.Background(), "Explain recursion.", "")
	require.ErrorIs(t, err, ErrMuted)
	assert.False(t, called)
}

func TestSpeakerQueryEncoding(t *testing.T) {
	var gotText, gotVoice string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotText = r.URL.Query().Get("text")
		gotVoice = r.URL.Query().Get("voice")
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFF"))
	}))
	defer srv.Close()

	s := New(srv.URL)
	s.Voice = "en_US-amy-medium"

	body, ct, err := s.Speak(context.Background(), "What is a goroutine?", "")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data))
	assert.Equal(t, "audio/wav", ct)
	assert.Equal(t, "What is a goroutine?", gotText)
	assert.Equal(t, "en_US-amy-medium", gotVoice)
}

func TestSpeakerStreamedBodyReadableAfterReturn(t *testing.T) {
	chunk := bytes.Repeat([]byte("a"), 16*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(chunk)
		w.(http.Flusher).Flush()
		time.Sleep(300 * time.Millisecond)
		w.Write(chunk)
	}))
	defer srv.Close()

	s := New(srv.URL)
	body, _, err := s.Speak(context.Background(), "Describe the select statement.", "")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Len(t, data, 2*len(chunk))
}

func TestSpeakerTimeoutCoversSlowStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFF"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	s := New(srv.URL)
	s.Timeout = 100 * time.Millisecond

	body, _, err := s.Speak(context.Background(), "hello", "")
	require.NoError(t, err)
	defer body.Close()

	_, err = io.ReadAll(body)
	require.Error(t, err)
}

func TestSpeakerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := New(srv.URL)
	_, _, err := s.Speak(context.Background(), "hello", "missing-voice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
