package session

import "github.com/looplab/fsm"

// Lifecycle states for the active question. One machine per session; it is
// reset whenever the cursor moves.
const (
	StateIdle             = "idle"
	StateRecording        = "recording"
	StateTranscribing     = "transcribing"
	StateAwaitingFeedback = "awaiting_feedback"
	StatePersisted        = "persisted"
)

const (
	eventStart       = "start"
	eventStop        = "stop"
	eventDiscard     = "discard"
	eventTranscribed = "transcribed"
	eventSaved       = "saved"
	eventFail        = "fail"
)

// newLifecycle builds the per-question FSM:
// idle -> recording -> transcribing -> awaiting_feedback -> persisted,
// with recording -> idle on empty capture and any active state -> idle on
// external failure.
func newLifecycle() *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventStart, Src: []string{StateIdle, StatePersisted}, Dst: StateRecording},
			{Name: eventStop, Src: []string{StateRecording}, Dst: StateTranscribing},
			{Name: eventDiscard, Src: []string{StateRecording}, Dst: StateIdle},
			{Name: eventTranscribed, Src: []string{StateTranscribing}, Dst: StateAwaitingFeedback},
			{Name: eventSaved, Src: []string{StateAwaitingFeedback}, Dst: StatePersisted},
			{Name: eventFail, Src: []string{StateRecording, StateTranscribing, StateAwaitingFeedback}, Dst: StateIdle},
		},
		fsm.Callbacks{},
	)
}
