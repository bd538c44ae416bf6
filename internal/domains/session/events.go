package session

import "github.com/xpanvictor/mockmate/internal/domains/answer"

// EventKind tags updates pushed to the presentation layer.
type EventKind string

const (
	EventState      EventKind = "state"
	EventQuestion   EventKind = "question"
	EventTimer      EventKind = "timer"
	EventTranscript EventKind = "transcript"
	EventFeedback   EventKind = "feedback"
	EventSaved      EventKind = "saved"
	EventError      EventKind = "error"
	EventCompleted  EventKind = "completed"
)

// Event is one session update. Fields are populated per kind.
type Event struct {
	Kind          EventKind          `json:"kind"`
	QuestionIndex int                `json:"questionIndex"`
	State         string             `json:"state,omitempty"`
	Question      string             `json:"question,omitempty"`
	SecondsLeft   int                `json:"secondsLeft,omitempty"`
	Percent       int                `json:"percent,omitempty"`
	Transcript    string             `json:"transcript,omitempty"`
	Confidence    int                `json:"confidence,omitempty"`
	Assessment    *answer.Assessment `json:"assessment,omitempty"`
	RecordID      uint               `json:"recordId,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// Snapshot is the full observable session state for status queries.
type Snapshot struct {
	MockID        string `json:"mockId"`
	State         string `json:"state"`
	ActiveIndex   int    `json:"activeIndex"`
	QuestionCount int    `json:"questionCount"`
	SecondsLeft   int    `json:"secondsLeft"`
	Percent       int    `json:"percent"`
	Transcript    string `json:"transcript,omitempty"`
	Confidence    int    `json:"confidence"`
	Completed     bool   `json:"completed"`
	Muted         bool   `json:"muted"`
}
