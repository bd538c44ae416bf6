package interview

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

// fakeProcessor returns a canned JSON reply or an error.
type fakeProcessor struct {
	reply string
	err   error
	calls int
}

func (f *fakeProcessor) ProcessWithType(ctx context.Context, instruction string, input, out interface{}) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.reply), out)
}

type memoryInterviewRepo struct {
	byMockID map[string]*Interview
}

func newMemoryInterviewRepo() *memoryInterviewRepo {
	return &memoryInterviewRepo{byMockID: map[string]*Interview{}}
}

func (m *memoryInterviewRepo) Create(d *Interview) error {
	m.byMockID[d.MockID] = d
	return nil
}

func (m *memoryInterviewRepo) GetByMockID(mockID string) (*Interview, error) {
	if d, ok := m.byMockID[mockID]; ok {
		return d, nil
	}
	return nil, ErrInterviewNotFound
}

func (m *memoryInterviewRepo) ListByCreator(email string, offset, limit int) ([]Interview, int64, error) {
	var out []Interview
	for _, d := range m.byMockID {
		if d.CreatedBy == email {
			out = append(out, *d)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryInterviewRepo) Delete(mockID string) error {
	if _, ok := m.byMockID[mockID]; !ok {
		return ErrInterviewNotFound
	}
	delete(m.byMockID, mockID)
	return nil
}

const generatedReply = `{"questions":[
	{"question":"Explain goroutine scheduling.","answer":"The runtime multiplexes goroutines onto OS threads."},
	{"question":"What does defer do?","answer":"Schedules a call to run when the function returns."}]}`

func newInterviewTestService(p processor.Processor) (InterviewService, *memoryInterviewRepo) {
	repo := newMemoryInterviewRepo()
	return NewInterviewService(repo, p, Logger.New(true), 5), repo
}

func TestCreateStoresValidatedQuestions(t *testing.T) {
	svc, repo := newInterviewTestService(&fakeProcessor{reply: generatedReply})
	ctx := context.Background()

	created, err := svc.Create(ctx, "jane@example.com", CreateInterviewRequest{
		JobPosition:   "Backend Engineer",
		JobDesc:       "Go services and MySQL",
		JobExperience: 3,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.MockID)
	assert.Len(t, created.Questions, 2)
	assert.Equal(t, "jane@example.com", created.CreatedBy)

	stored, err := repo.GetByMockID(created.MockID)
	require.NoError(t, err)
	questions, err := stored.Questions()
	require.NoError(t, err)
	assert.Equal(t, "Explain goroutine scheduling.", questions[0].Question)
}

func TestCreateRejectsEmptyGeneration(t *testing.T) {
	svc, repo := newInterviewTestService(&fakeProcessor{reply: `{"questions":[]}`})

	_, err := svc.Create(context.Background(), "jane@example.com", CreateInterviewRequest{
		JobPosition: "Backend Engineer",
		JobDesc:     "Go services",
	})
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Empty(t, repo.byMockID)
}

func TestCreateRejectsMalformedGeneration(t *testing.T) {
	svc, repo := newInterviewTestService(&fakeProcessor{reply: `{"questions":[{"answer":"no question text"}]}`})

	_, err := svc.Create(context.Background(), "jane@example.com", CreateInterviewRequest{
		JobPosition: "Backend Engineer",
		JobDesc:     "Go services",
	})
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Empty(t, repo.byMockID)
}

func TestCreateSurfacesTransportFailure(t *testing.T) {
	svc, _ := newInterviewTestService(&fakeProcessor{err: errors.New("upstream timeout")})

	_, err := svc.Create(context.Background(), "jane@example.com", CreateInterviewRequest{
		JobPosition: "Backend Engineer",
		JobDesc:     "Go services",
	})
	require.ErrorIs(t, err, ErrGenerationFailed)
}

func TestQuestionsPropagatesParseFailure(t *testing.T) {
	svc, repo := newInterviewTestService(&fakeProcessor{reply: generatedReply})

	repo.byMockID["broken"] = &Interview{
		MockID:          "broken",
		QuestionPayload: json.RawMessage(`{"questions":"oops"}`),
	}

	_, err := svc.Questions(context.Background(), "broken")
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestGetRecordReturnsRawPayload(t *testing.T) {
	svc, _ := newInterviewTestService(&fakeProcessor{reply: generatedReply})
	ctx := context.Background()

	created, err := svc.Create(ctx, "jane@example.com", CreateInterviewRequest{
		JobPosition: "Backend Engineer",
		JobDesc:     "Go services",
	})
	require.NoError(t, err)

	record, err := svc.GetRecord(ctx, created.MockID)
	require.NoError(t, err)
	assert.JSONEq(t, generatedReply, string(record.QuestionPayload))

	questions, err := record.Questions()
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	_, err = svc.GetRecord(ctx, "missing")
	require.ErrorIs(t, err, ErrInterviewNotFound)
}

func TestDeleteMissingInterview(t *testing.T) {
	svc, _ := newInterviewTestService(&fakeProcessor{reply: generatedReply})
	require.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrInterviewNotFound)
}
