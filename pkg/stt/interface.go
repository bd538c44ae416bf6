// Package stt defines the speech-to-text seam used by live interview sessions.
package stt

import (
	"context"
	"errors"
)

var (
	ErrEmptyResult = errors.New("stt: transcription returned no text")
	ErrUnavailable = errors.New("stt: transcription service unavailable")
)

// Clip is one finished audio recording submitted for transcription.
type Clip struct {
	Data     []byte
	MIMEType string
}

// Transcriber converts a captured clip into plain text. One attempt per call;
// the caller owns any retry decision.
type Transcriber interface {
	Transcribe(ctx context.Context, clip Clip) (string, error)
}
