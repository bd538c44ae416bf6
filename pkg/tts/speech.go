// Package tts wraps the HTTP text-to-speech service that reads interview
// questions aloud.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrMuted is returned when speech is requested while the speaker is muted.
var ErrMuted = fmt.Errorf("tts: speaker is muted")

// Speaker talks to a piper-style HTTP TTS endpoint. Voice, rate and pitch are
// session-scoped configuration passed in by the owning controller.
type Speaker struct {
	BaseURL string
	Client  *http.Client // inject; default if nil
	Voice   string       // default voice (override per-call)
	Rate    float32      // speaking rate, 1.0 = normal
	Pitch   float32      // 1.0 = normal
	Timeout time.Duration
	muted   bool
}

func New(baseURL string) *Speaker {
	return &Speaker{BaseURL: baseURL, Rate: 1.0, Pitch: 1.0}
}

// SetMuted toggles spoken playback for this speaker only.
func (s *Speaker) SetMuted(muted bool) { s.muted = muted }

// Muted reports the current mute flag.
func (s *Speaker) Muted() bool { return s.muted }

// Speak converts text into spoken audio. The caller must Close the returned
// body. Muted speakers refuse without touching the network.
func (s *Speaker) Speak(ctx context.Context, text string, optVoice string) (io.ReadCloser, string, error) {
	if s.muted {
		return nil, "", ErrMuted
	}
	if text == "" {
		return nil, "", fmt.Errorf("empty text")
	}

	voice := s.Voice
	if optVoice != "" {
		voice = optVoice
	}

	// piper-compatible HTTP: GET /api/text-to-speech?text=...&voice=...
	// The API streams a WAV body on success.
	u, err := url.Parse(s.BaseURL + "/api/text-to-speech")
	if err != nil {
		return nil, "", err
	}
	q := u.Query()
	q.Set("text", text)
	if voice != "" {
		q.Set("voice", voice)
	}
	if s.Rate > 0 && s.Rate != 1.0 {
		q.Set("rate", strconv.FormatFloat(float64(s.Rate), 'f', 2, 32))
	}
	if s.Pitch > 0 && s.Pitch != 1.0 {
		q.Set("pitch", strconv.FormatFloat(float64(s.Pitch), 'f', 2, 32))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "audio/wav")

	hc := s.Client
	if hc == nil {
		hc = &http.Client{}
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	// The body streams past Speak's return, so the timeout has to outlive
	// the call. Close on the returned body releases the context.
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	req = req.WithContext(ctx2)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		cancel()
		return nil, "", fmt.Errorf("tts http request failed: %w (url=%s)", err, u.String())
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		return nil, "", fmt.Errorf("tts http %d: %s (url=%s, dur=%s)", resp.StatusCode, string(b), u.String(), time.Since(start))
	}
	ct := resp.Header.Get("Content-Type") // e.g. audio/wav
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, ct, nil
}

// cancelOnClose releases the request context once the caller is done
// reading the streamed body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
