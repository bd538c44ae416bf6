// Package session owns the live interview loop: the ordered question list,
// the active-question cursor, the per-question answer timer, and the
// capture -> transcribe -> score -> persist pipeline behind it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/xpanvictor/mockmate/internal/domains/answer"
	"github.com/xpanvictor/mockmate/internal/domains/interview"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"github.com/xpanvictor/mockmate/pkg/capture"
	"github.com/xpanvictor/mockmate/pkg/stt"
	"github.com/xpanvictor/mockmate/pkg/tts"
)

// Common errors
var (
	ErrNoQuestions      = errors.New("session: no questions loaded")
	ErrAlreadyRecording = errors.New("session: recording already in progress")
	ErrNotRecording     = errors.New("session: no recording in progress")
	ErrNothingToRetry   = errors.New("session: no unsaved answer to retry")
	ErrCompleted        = errors.New("session: session already completed")
	ErrAnswerTooShort   = errors.New("session: transcript below minimum length")
)

// pipelineTag identifies the question an async result belongs to. Results
// carrying a stale tag are discarded, never merged into the current question.
type pipelineTag struct {
	epoch uint64
	index int
}

// Controller drives one interview session for one user. All methods are safe
// for concurrent use; the async pipeline runs on its own goroutine and
// re-validates its tag before touching session state.
type Controller struct {
	logger      *Logger.Logger
	recorder    *capture.Recorder
	transcriber stt.Transcriber
	answers     answer.AnswerService
	speaker     *tts.Speaker

	answerBudget   int
	minAnswerChars int

	mu          sync.Mutex
	machine     *fsm.FSM
	mockID      string
	userEmail   string
	questions   []interview.Question
	active      int
	epoch       uint64
	secondsLeft int
	transcript  string
	confidence  int
	completed   bool
	pending     *answer.Record

	events chan Event
}

// NewController wires a session controller. The speaker may be nil when the
// client plays questions itself; minAnswerChars of zero disables the length
// floor on transcripts.
func NewController(
	logger *Logger.Logger,
	recorder *capture.Recorder,
	transcriber stt.Transcriber,
	answers answer.AnswerService,
	speaker *tts.Speaker,
	answerBudget int,
	minAnswerChars int,
) *Controller {
	if answerBudget <= 0 {
		answerBudget = 300
	}
	return &Controller{
		logger:         logger,
		recorder:       recorder,
		transcriber:    transcriber,
		answers:        answers,
		speaker:        speaker,
		answerBudget:   answerBudget,
		minAnswerChars: minAnswerChars,
		machine:        newLifecycle(),
		events:         make(chan Event, 64),
	}
}

// Events exposes session updates for the presentation layer.
func (c *Controller) Events() <-chan Event { return c.events }

// Load binds the controller to an interview record: the payload is parsed,
// the cursor resets to the first question and the timer to a full budget.
func (c *Controller) Load(record *interview.Interview, userEmail string) error {
	questions, err := record.Questions()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mockID = record.MockID
	c.userEmail = userEmail
	c.questions = questions
	c.active = 0
	c.epoch++
	c.secondsLeft = c.answerBudget
	c.transcript = ""
	c.confidence = 0
	c.completed = false
	c.pending = nil
	c.machine.SetState(StateIdle)

	c.emitQuestionLocked()
	return nil
}

// LoadQuestions accepts a raw question payload directly, for sessions not
// backed by a stored interview record.
func (c *Controller) LoadQuestions(raw interface{}) error {
	questions, err := interview.ParseQuestionPayload(raw)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.questions = questions
	c.active = 0
	c.epoch++
	c.secondsLeft = c.answerBudget
	c.transcript = ""
	c.confidence = 0
	c.completed = false
	c.pending = nil
	c.machine.SetState(StateIdle)

	c.emitQuestionLocked()
	return nil
}

// Navigate moves the cursor to target when in bounds; otherwise a no-op
// returning false. Any in-progress capture is cleared, the timer rewinds to
// a full budget and in-flight results for the old question become stale.
func (c *Controller) Navigate(target int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigateLocked(target)
}

func (c *Controller) navigateLocked(target int) bool {
	if target < 0 || target >= len(c.questions) {
		return false
	}

	c.recorder.Discard()
	c.active = target
	c.epoch++
	c.secondsLeft = c.answerBudget
	c.transcript = ""
	c.confidence = 0
	c.pending = nil
	c.machine.SetState(StateIdle)

	c.emitQuestionLocked()
	return true
}

// Advance moves to the next question, or signals completion when the cursor
// already sits on the last one.
func (c *Controller) Advance() (completed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.questions) == 0 {
		return false
	}
	if c.active == len(c.questions)-1 {
		c.completed = true
		c.recorder.Discard()
		c.emitLocked(Event{Kind: EventCompleted, QuestionIndex: c.active, Percent: 100})
		return true
	}
	c.navigateLocked(c.active + 1)
	return false
}

// Previous moves the cursor one question back.
func (c *Controller) Previous() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigateLocked(c.active - 1)
}

// StartRecording begins a fresh capture for the active question. Starting
// while already recording is rejected, not silently restarted.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.questions) == 0 {
		return ErrNoQuestions
	}
	if c.completed {
		return ErrCompleted
	}
	if c.machine.Current() == StateRecording {
		return ErrAlreadyRecording
	}

	if err := c.recorder.Start(ctx); err != nil {
		c.emitLocked(Event{Kind: EventError, QuestionIndex: c.active, Error: err.Error()})
		return err
	}

	if err := c.machine.Event(ctx, eventStart); err != nil {
		c.recorder.Discard()
		return fmt.Errorf("cannot start recording from state %s: %w", c.machine.Current(), err)
	}

	// fresh recording, fresh budget
	c.secondsLeft = c.answerBudget
	c.emitStateLocked()
	return nil
}

// Append buffers one audio chunk from the client; legal only while recording.
func (c *Controller) Append(chunk capture.Chunk) error {
	c.mu.Lock()
	recording := c.machine.Current() == StateRecording
	c.mu.Unlock()

	if !recording {
		return ErrNotRecording
	}
	return c.recorder.Append(chunk)
}

// StopRecording finalizes the capture. An empty capture returns the question
// to idle without a transcription attempt; otherwise the async pipeline runs
// transcription, feedback scoring and persistence for this question.
func (c *Controller) StopRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.Current() != StateRecording {
		// stop while not recording is a no-op
		return nil
	}

	clip := c.recorder.Stop()
	if clip.Empty() {
		_ = c.machine.Event(ctx, eventDiscard)
		c.emitStateLocked()
		return nil
	}

	if err := c.machine.Event(ctx, eventStop); err != nil {
		return err
	}
	c.emitStateLocked()

	tag := pipelineTag{epoch: c.epoch, index: c.active}
	question := c.questions[c.active]
	go c.runPipeline(ctx, tag, question, clip)
	return nil
}

// runPipeline carries one capture through transcription, scoring and
// persistence. Each stage re-checks the tag so a result landing after the
// user navigated away is dropped with a warning.
func (c *Controller) runPipeline(ctx context.Context, tag pipelineTag, q interview.Question, clip capture.Capture) {
	text, err := c.transcriber.Transcribe(ctx, stt.Clip{Data: clip.WAV, MIMEType: clip.MIMEType})
	if err != nil {
		c.failPipeline(tag, "transcription failed", err)
		return
	}

	if !c.applyTranscript(ctx, tag, text) {
		return
	}

	// transcript stays visible, but answers below the length floor are not
	// worth a feedback round-trip
	if c.minAnswerChars > 0 && len(strings.TrimSpace(text)) < c.minAnswerChars {
		c.failPipeline(tag, "answer rejected", fmt.Errorf("%w (%d chars, minimum %d)", ErrAnswerTooShort, len(text), c.minAnswerChars))
		return
	}

	assessment, err := c.answers.GenerateFeedback(ctx, q.Question, q.Answer, text)
	if err != nil {
		c.failPipeline(tag, "feedback generation failed", err)
		return
	}

	record := &answer.Record{
		MockID:     c.snapshotMockID(),
		Question:   q.Question,
		CorrectAns: q.Answer,
		UserAns:    text,
		Feedback:   assessment.Feedback,
		Rating:     assessment.Rating,
		UserEmail:  c.snapshotUserEmail(),
		CreatedAt:  time.Now(),
	}

	c.mu.Lock()
	if c.stale(tag) {
		c.mu.Unlock()
		c.logger.Warnf("discarding stale feedback for question %d", tag.index)
		return
	}
	c.emitLocked(Event{Kind: EventFeedback, QuestionIndex: tag.index, Assessment: assessment})
	c.mu.Unlock()

	id, err := c.answers.Save(ctx, record)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(tag) {
		c.logger.Warnf("discarding stale persistence result for question %d", tag.index)
		return
	}
	if err != nil {
		// answer kept in memory so the user can retry the save
		c.pending = record
		_ = c.machine.Event(ctx, eventFail)
		c.emitLocked(Event{Kind: EventError, QuestionIndex: tag.index, Error: err.Error()})
		c.emitStateLocked()
		return
	}
	_ = c.machine.Event(ctx, eventSaved)
	c.pending = nil
	c.emitLocked(Event{Kind: EventSaved, QuestionIndex: tag.index, RecordID: id})
	c.emitStateLocked()
}

// applyTranscript installs a transcription result unless it is stale.
func (c *Controller) applyTranscript(ctx context.Context, tag pipelineTag, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(tag) {
		c.logger.Warnf("discarding stale transcript for question %d", tag.index)
		return false
	}

	// only the most recent transcript is retained
	c.transcript = text
	c.confidence = confidenceScore(text)
	if err := c.machine.Event(ctx, eventTranscribed); err != nil {
		c.logger.Errorf("transcription landed in state %s: %v", c.machine.Current(), err)
		return false
	}
	c.emitLocked(Event{
		Kind:          EventTranscript,
		QuestionIndex: tag.index,
		Transcript:    text,
		Confidence:    c.confidence,
	})
	c.emitStateLocked()
	return true
}

func (c *Controller) failPipeline(tag pipelineTag, stage string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(tag) {
		c.logger.Warnf("discarding stale failure (%s) for question %d: %v", stage, tag.index, err)
		return
	}
	_ = c.machine.Event(context.Background(), eventFail)
	c.logger.Errorf("%s for question %d: %v", stage, tag.index, err)
	c.emitLocked(Event{Kind: EventError, QuestionIndex: tag.index, Error: fmt.Sprintf("%s: %v", stage, err)})
	c.emitStateLocked()
}

// RetrySave re-attempts persistence of the last answer whose write failed.
// The retried save is tagged like any pipeline stage; if the user navigates
// while it is in flight the completion is discarded.
func (c *Controller) RetrySave(ctx context.Context) error {
	c.mu.Lock()
	record := c.pending
	tag := pipelineTag{epoch: c.epoch, index: c.active}
	c.mu.Unlock()

	if record == nil {
		return ErrNothingToRetry
	}

	id, err := c.answers.Save(ctx, record)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(tag) {
		c.logger.Warnf("discarding stale retried save for question %d", tag.index)
		return nil
	}
	c.pending = nil
	c.machine.SetState(StatePersisted)
	c.emitLocked(Event{Kind: EventSaved, QuestionIndex: tag.index, RecordID: id})
	c.emitStateLocked()
	return nil
}

// Tick advances the countdown by one second while recording; hitting zero
// forces an automatic stop.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	if c.machine.Current() != StateRecording {
		c.mu.Unlock()
		return
	}

	c.secondsLeft--
	if c.secondsLeft > 0 {
		c.emitLocked(Event{Kind: EventTimer, QuestionIndex: c.active, SecondsLeft: c.secondsLeft})
		c.mu.Unlock()
		return
	}
	c.secondsLeft = 0
	c.emitLocked(Event{Kind: EventTimer, QuestionIndex: c.active, SecondsLeft: 0})
	c.mu.Unlock()

	if err := c.StopRecording(ctx); err != nil {
		c.logger.Errorf("forced stop on timer expiry failed: %v", err)
	}
}

// Run drives the 1-second countdown until ctx is cancelled; teardown releases
// the capture device and stops periodic work deterministically.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.recorder.Discard()
			return
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// SpeakActiveQuestion reads the active question aloud through the speech
// adapter. Callers must close the returned body.
func (c *Controller) SpeakActiveQuestion(ctx context.Context) (io.ReadCloser, string, error) {
	c.mu.Lock()
	if c.speaker == nil || len(c.questions) == 0 {
		c.mu.Unlock()
		return nil, "", ErrNoQuestions
	}
	text := c.questions[c.active].Question
	speaker := c.speaker
	c.mu.Unlock()

	return speaker.Speak(ctx, text, "")
}

// SetMuted toggles question playback for this session only.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.speaker != nil {
		c.speaker.SetMuted(muted)
	}
}

// State returns the active question's lifecycle state.
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// ActiveIndex returns the cursor position.
func (c *Controller) ActiveIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// SecondsLeft returns the remaining answer budget for the active question.
func (c *Controller) SecondsLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.secondsLeft
}

// Completed reports whether the final question has been advanced past.
func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// PercentComplete reports cursor progress through the question list.
func (c *Controller) PercentComplete() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.percentLocked()
}

// Snapshot returns the full observable state for status queries.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	muted := false
	if c.speaker != nil {
		muted = c.speaker.Muted()
	}
	return Snapshot{
		MockID:        c.mockID,
		State:         c.machine.Current(),
		ActiveIndex:   c.active,
		QuestionCount: len(c.questions),
		SecondsLeft:   c.secondsLeft,
		Percent:       c.percentLocked(),
		Transcript:    c.transcript,
		Confidence:    c.confidence,
		Completed:     c.completed,
		Muted:         muted,
	}
}

func (c *Controller) percentLocked() int {
	if len(c.questions) == 0 {
		return 0
	}
	return int(math.Round(float64((c.active+1)*100) / float64(len(c.questions))))
}

func (c *Controller) stale(tag pipelineTag) bool {
	return tag.epoch != c.epoch || tag.index != c.active
}

func (c *Controller) snapshotMockID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mockID
}

func (c *Controller) snapshotUserEmail() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userEmail
}

func (c *Controller) emitQuestionLocked() {
	if len(c.questions) == 0 {
		return
	}
	c.emitLocked(Event{
		Kind:          EventQuestion,
		QuestionIndex: c.active,
		Question:      c.questions[c.active].Question,
		SecondsLeft:   c.secondsLeft,
		Percent:       c.percentLocked(),
	})
	c.emitStateLocked()
}

func (c *Controller) emitStateLocked() {
	c.emitLocked(Event{Kind: EventState, QuestionIndex: c.active, State: c.machine.Current()})
}

// emitLocked delivers best-effort; a slow consumer drops updates rather than
// blocking the session.
func (c *Controller) emitLocked(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Debugf("session event channel full, dropping %s", ev.Kind)
	}
}

// confidenceScore is a word-count placeholder metric, not real signal
// confidence.
func confidenceScore(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	score := words * 100 / 50
	if score > 100 {
		score = 100
	}
	return score
}
