package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/mockmate/internal/domains/answer"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"github.com/xpanvictor/mockmate/pkg/capture"
	"github.com/xpanvictor/mockmate/pkg/stt"
)

// fakeTranscriber returns a canned transcript, optionally gated on a channel
// so tests can control when the async result lands.
type fakeTranscriber struct {
	mu    sync.Mutex
	text  string
	err   error
	gate  chan struct{}
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, clip stt.Clip) (string, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-time.After(5 * time.Second):
			return "", errors.New("test gate never opened")
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeAnswers scores every answer identically and records saves in memory.
// saveGate, when set, blocks Save until closed so tests can hold a write
// in flight.
type fakeAnswers struct {
	mu        sync.Mutex
	saved     []answer.Record
	saveErr   error
	scoreErr  error
	rating    int
	feedback  string
	saveGate  chan struct{}
	saveCalls int
}

func (f *fakeAnswers) GenerateFeedback(ctx context.Context, question, correctAnswer, userAnswer string) (*answer.Assessment, error) {
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	return &answer.Assessment{Rating: f.rating, Feedback: f.feedback}, nil
}

func (f *fakeAnswers) Save(ctx context.Context, record *answer.Record) (uint, error) {
	f.mu.Lock()
	f.saveCalls++
	gate := f.saveGate
	saveErr := f.saveErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-time.After(5 * time.Second):
			return 0, errors.New("test save gate never opened")
		}
	}
	if saveErr != nil {
		return 0, saveErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	record.ID = uint(len(f.saved) + 1)
	f.saved = append(f.saved, *record)
	return record.ID, nil
}

func (f *fakeAnswers) saveCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveCalls
}

func (f *fakeAnswers) ListByInterview(ctx context.Context, mockID string) ([]answer.Record, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, 0, nil
}

func (f *fakeAnswers) savedRecords() []answer.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]answer.Record, len(f.saved))
	copy(out, f.saved)
	return out
}

func newTestController(t *testing.T, transcriber stt.Transcriber, answers answer.AnswerService) *Controller {
	t.Helper()
	return NewController(
		Logger.New(true),
		capture.NewRecorder(nil, 64*1024),
		transcriber,
		answers,
		nil,
		300,
		0,
	)
}

func loadQuestions(t *testing.T, c *Controller, payload string) {
	t.Helper()
	require.NoError(t, c.LoadQuestions(payload))
}

func record(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.StartRecording(context.Background()))
	require.NoError(t, c.Append(capture.Chunk{Data: []byte("pcmpcm"), SampleRate: 16000, Channels: 1}))
}

func waitForState(t *testing.T, c *Controller, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.State() == want
	}, 3*time.Second, 5*time.Millisecond, "never reached state %s (at %s)", want, c.State())
}

const threeQuestions = `{"questions":[
	{"question":"Explain recursion.","answer":"A function calling itself."},
	{"question":"What is a goroutine?","answer":"A lightweight thread."},
	{"question":"What is a channel?","answer":"A typed conduit."}]}`

func TestLoadQuestionsRejectsBadPayloads(t *testing.T) {
	c := newTestController(t, &fakeTranscriber{}, &fakeAnswers{})

	for _, payload := range []string{`{}`, `{"questions":[]}`, `{"questions":"not-an-array"}`, `{"questions":[{}]}`} {
		err := c.LoadQuestions(payload)
		require.Error(t, err, "payload %s", payload)
	}
}

func TestNavigationStaysInBounds(t *testing.T) {
	c := newTestController(t, &fakeTranscriber{}, &fakeAnswers{})
	loadQuestions(t, c, threeQuestions)

	moves := []int{-1, 0, 1, 5, 2, -10, 1, 3, 0}
	for _, target := range moves {
		c.Navigate(target)
		idx := c.ActiveIndex()
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 3)
	}

	assert.False(t, c.Navigate(3))
	assert.False(t, c.Navigate(-1))
	assert.True(t, c.Navigate(2))
	assert.Equal(t, 2, c.ActiveIndex())
}

func TestAdvanceSignalsCompletionOnLastQuestion(t *testing.T) {
	c := newTestController(t, &fakeTranscriber{}, &fakeAnswers{})
	loadQuestions(t, c, `{"questions":[{"question":"Explain recursion.","answer":"A function calling itself."}]}`)

	require.Equal(t, 0, c.ActiveIndex())
	completed := c.Advance()
	assert.True(t, completed)
	assert.True(t, c.Completed())
	// the cursor must not have moved past the end
	assert.Equal(t, 0, c.ActiveIndex())
}

func TestNavigateResetsTimerMidCountdown(t *testing.T) {
	c := newTestController(t, &fakeTranscriber{gate: make(chan struct{})}, &fakeAnswers{})
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	for i := 0; i < 40; i++ {
		c.Tick(context.Background())
	}
	require.Equal(t, 260, c.SecondsLeft())

	require.True(t, c.Navigate(1))
	assert.Equal(t, 300, c.SecondsLeft())
	assert.Equal(t, StateIdle, c.State())
}

func TestTimerExpiryForcesStop(t *testing.T) {
	transcriber := &fakeTranscriber{text: "my answer about recursion and base cases"}
	answers := &fakeAnswers{rating: 6, feedback: "ok"}
	c := newTestController(t, transcriber, answers)
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	for i := 0; i < 300; i++ {
		c.Tick(context.Background())
	}

	// recording must have been force-stopped and the pipeline kicked off
	require.NotEqual(t, StateRecording, c.State())
	waitForState(t, c, StatePersisted)
	assert.Equal(t, 1, transcriber.callCount())
}

func TestDoubleStartRejected(t *testing.T) {
	c := newTestController(t, &fakeTranscriber{}, &fakeAnswers{})
	loadQuestions(t, c, threeQuestions)

	require.NoError(t, c.StartRecording(context.Background()))
	err := c.StartRecording(context.Background())
	require.ErrorIs(t, err, ErrAlreadyRecording)
	assert.Equal(t, StateRecording, c.State())
}

func TestEmptyCaptureSkipsTranscription(t *testing.T) {
	transcriber := &fakeTranscriber{text: "should never be used"}
	c := newTestController(t, transcriber, &fakeAnswers{})
	loadQuestions(t, c, threeQuestions)

	require.NoError(t, c.StartRecording(context.Background()))
	// no chunks appended
	require.NoError(t, c.StopRecording(context.Background()))

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 0, transcriber.callCount())
}

func TestFullPipelinePersistsAnswer(t *testing.T) {
	transcriber := &fakeTranscriber{text: "a function that calls itself until a base case"}
	answers := &fakeAnswers{rating: 8, feedback: "Well explained."}
	c := newTestController(t, transcriber, answers)
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	require.NoError(t, c.StopRecording(context.Background()))
	waitForState(t, c, StatePersisted)

	saved := answers.savedRecords()
	require.Len(t, saved, 1)
	assert.Equal(t, "Explain recursion.", saved[0].Question)
	assert.Equal(t, "A function calling itself.", saved[0].CorrectAns)
	assert.Equal(t, "a function that calls itself until a base case", saved[0].UserAns)
	assert.Equal(t, 8, saved[0].Rating)
	assert.Equal(t, "Well explained.", saved[0].Feedback)
}

func TestStaleTranscriptDiscardedAfterNavigation(t *testing.T) {
	gate := make(chan struct{})
	transcriber := &fakeTranscriber{text: "late answer", gate: gate}
	answers := &fakeAnswers{rating: 5, feedback: "late"}
	c := newTestController(t, transcriber, answers)
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	require.NoError(t, c.StopRecording(context.Background()))
	waitForState(t, c, StateTranscribing)

	// user moves on before the transcription returns
	require.True(t, c.Navigate(1))
	close(gate)

	// the late result must not touch question 1's state
	time.Sleep(100 * time.Millisecond)
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.ActiveIndex)
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Transcript)
	assert.Empty(t, answers.savedRecords())
}

func TestTranscriptionFailureReturnsToIdle(t *testing.T) {
	transcriber := &fakeTranscriber{err: stt.ErrUnavailable}
	c := newTestController(t, transcriber, &fakeAnswers{})
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	require.NoError(t, c.StopRecording(context.Background()))
	waitForState(t, c, StateIdle)
}

func TestFeedbackFailureReturnsToIdle(t *testing.T) {
	transcriber := &fakeTranscriber{text: "some answer"}
	answers := &fakeAnswers{scoreErr: answer.ErrFeedbackUnavailable}
	c := newTestController(t, transcriber, answers)
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	require.NoError(t, c.StopRecording(context.Background()))
	waitForState(t, c, StateIdle)
	assert.Empty(t, answers.savedRecords())
}

func TestSaveFailureKeepsAnswerForRetry(t *testing.T) {
	transcriber := &fakeTranscriber{text: "some answer"}
	answers := &fakeAnswers{rating: 7, feedback: "fine", saveErr: errors.New("write timeout")}
	c := newTestController(t, transcriber, answers)
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	require.NoError(t, c.StopRecording(context.Background()))
	waitForState(t, c, StateIdle)

	// storage recovers; manual retry succeeds
	answers.mu.Lock()
	answers.saveErr = nil
	answers.mu.Unlock()

	require.NoError(t, c.RetrySave(context.Background()))
	assert.Equal(t, StatePersisted, c.State())

	saved := answers.savedRecords()
	require.Len(t, saved, 1)
	assert.Equal(t, 7, saved[0].Rating)
}

func TestShortTranscriptSkipsFeedback(t *testing.T) {
	transcriber := &fakeTranscriber{text: "uh"}
	answers := &fakeAnswers{rating: 9, feedback: "should never be asked"}
	c := NewController(
		Logger.New(true),
		capture.NewRecorder(nil, 64*1024),
		transcriber,
		answers,
		nil,
		300,
		20,
	)
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	require.NoError(t, c.StopRecording(context.Background()))
	waitForState(t, c, StateIdle)

	// the transcript is still shown, but nothing was scored or saved
	snap := c.Snapshot()
	assert.Equal(t, "uh", snap.Transcript)
	assert.Empty(t, answers.savedRecords())
}

func TestStaleRetriedSaveDiscardedAfterNavigation(t *testing.T) {
	transcriber := &fakeTranscriber{text: "some answer"}
	answers := &fakeAnswers{rating: 7, feedback: "fine", saveErr: errors.New("write timeout")}
	c := newTestController(t, transcriber, answers)
	loadQuestions(t, c, threeQuestions)

	record(t, c)
	require.NoError(t, c.StopRecording(context.Background()))
	waitForState(t, c, StateIdle)
	require.Equal(t, 1, answers.saveCallCount())

	// storage recovers, but the retried write is held in flight
	gate := make(chan struct{})
	answers.mu.Lock()
	answers.saveErr = nil
	answers.saveGate = gate
	answers.mu.Unlock()

	retryErr := make(chan error, 1)
	go func() { retryErr <- c.RetrySave(context.Background()) }()
	require.Eventually(t, func() bool {
		return answers.saveCallCount() == 2
	}, 3*time.Second, 5*time.Millisecond)

	// user moves on before the write completes
	require.True(t, c.Navigate(1))
	close(gate)
	require.NoError(t, <-retryErr)

	// the late completion must not mark question 1 persisted
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.ActiveIndex)
	assert.Equal(t, StateIdle, snap.State)
}

func TestRetrySaveWithoutPendingAnswer(t *testing.T) {
	c := newTestController(t, &fakeTranscriber{}, &fakeAnswers{})
	loadQuestions(t, c, threeQuestions)
	require.ErrorIs(t, c.RetrySave(context.Background()), ErrNothingToRetry)
}

func TestPercentComplete(t *testing.T) {
	c := newTestController(t, &fakeTranscriber{}, &fakeAnswers{})
	loadQuestions(t, c, threeQuestions)

	assert.Equal(t, 33, c.PercentComplete())
	c.Navigate(1)
	assert.Equal(t, 67, c.PercentComplete())
	c.Navigate(2)
	assert.Equal(t, 100, c.PercentComplete())
}

func TestRunTeardownStopsTimer(t *testing.T) {
	c := newTestController(t, &fakeTranscriber{gate: make(chan struct{})}, &fakeAnswers{})
	loadQuestions(t, c, threeQuestions)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	record(t, c)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
	// teardown must have discarded the in-progress capture
	require.NoError(t, c.StopRecording(context.Background()))
}
