package answer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/mockmate/internal/models/processor"
	"github.com/xpanvictor/mockmate/pkg/Logger"
)

// fakeProcessor replays a canned JSON reply or error.
type fakeProcessor struct {
	reply string
	err   error
}

func (f *fakeProcessor) ProcessWithType(_ context.Context, _ string, _ interface{}, out interface{}) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.reply), out)
}

// memoryAnswerRepo is an in-memory append-only store.
type memoryAnswerRepo struct {
	records []Record
	failing bool
}

func (m *memoryAnswerRepo) Save(record *Record) (uint, error) {
	if m.failing {
		return 0, errors.New("disk full")
	}
	record.ID = uint(len(m.records) + 1)
	m.records = append(m.records, *record)
	return record.ID, nil
}

func (m *memoryAnswerRepo) ListByInterview(mockID string) ([]Record, error) {
	var out []Record
	for _, r := range m.records {
		if r.MockID == mockID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestService(p processor.Processor, repo AnswerRepository) AnswerService {
	return NewAnswerService(repo, p, Logger.New(true))
}

func TestGenerateFeedback(t *testing.T) {
	svc := newTestService(&fakeProcessor{reply: `{"rating":7,"feedback":"Good structure, missing edge cases."}`}, &memoryAnswerRepo{})

	assessment, err := svc.GenerateFeedback(context.Background(), "Explain recursion.", "A function calling itself.", "It calls itself.")
	require.NoError(t, err)
	assert.Equal(t, 7, assessment.Rating)
	assert.Equal(t, "Good structure, missing edge cases.", assessment.Feedback)
}

func TestGenerateFeedbackMalformedReply(t *testing.T) {
	svc := newTestService(&fakeProcessor{err: processor.ErrMalformedReply}, &memoryAnswerRepo{})

	_, err := svc.GenerateFeedback(context.Background(), "q", "a", "u")
	require.ErrorIs(t, err, ErrFeedbackMalformed)
}

func TestGenerateFeedbackRatingOutOfRange(t *testing.T) {
	svc := newTestService(&fakeProcessor{reply: `{"rating":14,"feedback":"x"}`}, &memoryAnswerRepo{})

	_, err := svc.GenerateFeedback(context.Background(), "q", "a", "u")
	require.ErrorIs(t, err, ErrFeedbackMalformed)
}

func TestGenerateFeedbackTransportError(t *testing.T) {
	svc := newTestService(&fakeProcessor{err: errors.New("connection reset")}, &memoryAnswerRepo{})

	_, err := svc.GenerateFeedback(context.Background(), "q", "a", "u")
	require.ErrorIs(t, err, ErrFeedbackUnavailable)
}

func TestSaveAndReadBackRoundTrip(t *testing.T) {
	repo := &memoryAnswerRepo{}
	svc := newTestService(&fakeProcessor{}, repo)

	record := &Record{
		MockID:     "mock-1",
		Question:   "Explain recursion.",
		CorrectAns: "A function calling itself.",
		UserAns:    "A function that invokes itself until a base case.",
		Feedback:   "Solid answer.",
		Rating:     8,
		UserEmail:  "dev@example.com",
	}
	id, err := svc.Save(context.Background(), record)
	require.NoError(t, err)
	assert.NotZero(t, id)

	records, avg, err := svc.ListByInterview(context.Background(), "mock-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.Question, records[0].Question)
	assert.Equal(t, record.UserAns, records[0].UserAns)
	assert.Equal(t, record.Rating, records[0].Rating)
	assert.InDelta(t, 8.0, avg, 0.001)
}

func TestSaveDuplicatesAppend(t *testing.T) {
	repo := &memoryAnswerRepo{}
	svc := newTestService(&fakeProcessor{}, repo)

	record := Record{MockID: "mock-1", Question: "q", Rating: 4}
	first := record
	second := record
	second.Rating = 9

	_, err := svc.Save(context.Background(), &first)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), &second)
	require.NoError(t, err)

	records, avg, err := svc.ListByInterview(context.Background(), "mock-1")
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.InDelta(t, 6.5, avg, 0.001)
}

func TestSaveWriteFailure(t *testing.T) {
	svc := newTestService(&fakeProcessor{}, &memoryAnswerRepo{failing: true})

	_, err := svc.Save(context.Background(), &Record{MockID: "mock-1"})
	require.ErrorIs(t, err, ErrWriteFailure)
}

func TestListByInterviewEmpty(t *testing.T) {
	svc := newTestService(&fakeProcessor{}, &memoryAnswerRepo{})

	_, _, err := svc.ListByInterview(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNoAnswers)
}
