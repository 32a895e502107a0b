package summary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/agentmeet-team/agentmeet/errors"
	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
	"github.com/agentmeet-team/agentmeet/pkg/ai"
	"github.com/agentmeet-team/agentmeet/pkg/config"
)

// --- fakes ---

type fakeJobRepo struct {
	checkpoints []entities.SummaryJobCheckpoint
	completed   []uuid.UUID
	failed      []uuid.UUID
}

func (f *fakeJobRepo) Create(ctx context.Context, job *entities.SummaryJob) error { return nil }

func (f *fakeJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.SummaryJob, error) {
	return nil, entities.ErrJobNotFound
}

func (f *fakeJobRepo) ListPending(ctx context.Context, limit int) ([]entities.SummaryJob, error) {
	return nil, nil
}

func (f *fakeJobRepo) Claim(ctx context.Context, jobID uuid.UUID) (bool, error) {
	return true, nil
}

func (f *fakeJobRepo) SaveCheckpoint(ctx context.Context, jobID uuid.UUID, checkpoint entities.SummaryJobCheckpoint) error {
	f.checkpoints = append(f.checkpoints, checkpoint)
	return nil
}

func (f *fakeJobRepo) MarkCompleted(ctx context.Context, jobID uuid.UUID) error {
	f.completed = append(f.completed, jobID)
	return nil
}

func (f *fakeJobRepo) MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	f.failed = append(f.failed, jobID)
	return nil
}

func (f *fakeJobRepo) ResetStale(ctx context.Context) (int64, error) { return 0, nil }

type fakeMeetingRepo struct {
	completedID      uuid.UUID
	completedSummary string
}

func (f *fakeMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error { return nil }
func (f *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return nil, entities.ErrMeetingNotFound
}
func (f *fakeMeetingRepo) FindByIDWithStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) (*entities.Meeting, error) {
	return nil, entities.ErrMeetingNotFound
}
func (f *fakeMeetingRepo) Activate(ctx context.Context, id uuid.UUID, startedAt time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeMeetingRepo) MarkProcessing(ctx context.Context, id uuid.UUID, endedAt time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeMeetingRepo) SetTranscriptURL(ctx context.Context, id uuid.UUID, url string) (int64, error) {
	return 0, nil
}
func (f *fakeMeetingRepo) SetRecordingURL(ctx context.Context, id uuid.UUID, url string) (int64, error) {
	return 0, nil
}
func (f *fakeMeetingRepo) CompleteWithSummary(ctx context.Context, id uuid.UUID, summary string) error {
	f.completedID = id
	f.completedSummary = summary
	return nil
}

type fakeAgentRepo struct {
	agents []*entities.Agent
	err    error
}

func (f *fakeAgentRepo) Create(ctx context.Context, a *entities.Agent) error { return nil }
func (f *fakeAgentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Agent, error) {
	return nil, entities.ErrAgentNotFound
}
func (f *fakeAgentRepo) FindByIDs(ctx context.Context, ids []string) ([]*entities.Agent, error) {
	return f.agents, f.err
}

type fakeUserRepo struct {
	users []*entities.User
	err   error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entities.User) error { return nil }
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	return f.users, f.err
}

type fakeCompleter struct {
	reply    string
	err      error
	received []ai.ChatMessage
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ai.ChatMessage) (string, error) {
	f.received = messages
	return f.reply, f.err
}

type fakeArchiver struct {
	archived map[uuid.UUID][]byte
}

func (f *fakeArchiver) ArchiveTranscript(ctx context.Context, meetingID uuid.UUID, data []byte) error {
	if f.archived == nil {
		f.archived = make(map[uuid.UUID][]byte)
	}
	f.archived[meetingID] = data
	return nil
}

type noopWaiter struct{}

func (noopWaiter) WaitForWake(ctx context.Context, timeout time.Duration) {}

func testConfig() config.SummaryConfig {
	return config.SummaryConfig{
		WorkerCount:  1,
		PollInterval: time.Second,
		ExcerptCount: 5,
		ExcerptChars: 100,
	}
}

func newTestService(jobs *fakeJobRepo, meetings *fakeMeetingRepo, agents *fakeAgentRepo, users *fakeUserRepo, completer *fakeCompleter, archiver Archiver) *Service {
	return NewService(jobs, meetings, agents, users, completer, NewTranscriptFetcher(), archiver, noopWaiter{}, testConfig(), zap.NewNop())
}

// --- tests ---

func transcriptServer(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(doc))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProcessJobFullPipeline(t *testing.T) {
	userID := uuid.New()
	agentID := uuid.New()
	meetingID := uuid.New()

	doc := `{"speaker_id":"` + userID.String() + `","text":"shall we start?","start_ts":0,"stop_ts":5000}
{"speaker_id":"` + agentID.String() + `","text":"yes, here is the agenda","start_ts":6000,"stop_ts":60000}
`
	srv := transcriptServer(t, doc)

	jobs := &fakeJobRepo{}
	meetings := &fakeMeetingRepo{}
	agents := &fakeAgentRepo{agents: []*entities.Agent{{ID: agentID, Name: "Coach"}}}
	users := &fakeUserRepo{users: []*entities.User{{ID: userID, Name: "Ana"}}}
	completer := &fakeCompleter{reply: "### Overview\nA good meeting."}
	archiver := &fakeArchiver{}

	svc := newTestService(jobs, meetings, agents, users, completer, archiver)
	job := entities.NewSummaryJob(meetingID, srv.URL)

	if err := svc.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}

	if meetings.completedID != meetingID {
		t.Errorf("meeting not completed")
	}
	if meetings.completedSummary != "### Overview\nA good meeting." {
		t.Errorf("unexpected summary persisted: %q", meetings.completedSummary)
	}
	if len(jobs.completed) != 1 {
		t.Errorf("job not marked completed")
	}

	// Enriched transcript checkpointed after fetch/parse/enrich
	if len(jobs.checkpoints) != 1 || len(jobs.checkpoints[0].Enriched) != 2 {
		t.Fatalf("expected one checkpoint with 2 items, got %+v", jobs.checkpoints)
	}
	if jobs.checkpoints[0].Enriched[0].User.Name != "Ana" {
		t.Errorf("user speaker not resolved: %+v", jobs.checkpoints[0].Enriched[0])
	}
	if jobs.checkpoints[0].Enriched[1].User.Name != "Coach" {
		t.Errorf("agent speaker not resolved: %+v", jobs.checkpoints[0].Enriched[1])
	}

	if data, ok := archiver.archived[meetingID]; !ok || string(data) != doc {
		t.Errorf("raw transcript not archived")
	}

	// The summarizer saw the enriched transcript, not the raw one
	if len(completer.received) != 2 || !strings.Contains(completer.received[1].Content, `"Ana"`) {
		t.Errorf("summarizer prompt missing enriched speakers")
	}
}

func TestProcessJobUnknownSpeaker(t *testing.T) {
	meetingID := uuid.New()
	doc := `{"speaker_id":"ghost","text":"who am I speaking with today","start_ts":0,"stop_ts":1000}
`
	srv := transcriptServer(t, doc)

	jobs := &fakeJobRepo{}
	completer := &fakeCompleter{reply: "### Overview\nok"}
	svc := newTestService(jobs, &fakeMeetingRepo{}, &fakeAgentRepo{}, &fakeUserRepo{}, completer, nil)

	job := entities.NewSummaryJob(meetingID, srv.URL)
	if err := svc.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}
	if len(jobs.checkpoints) != 1 || jobs.checkpoints[0].Enriched[0].User.Name != "Unknown" {
		t.Errorf("unresolved speaker should be labeled Unknown: %+v", jobs.checkpoints)
	}
}

func TestProcessJobAIFailureFallsBack(t *testing.T) {
	meetingID := uuid.New()
	doc := `{"speaker_id":"u1","text":"a long enough discussion item","start_ts":0,"stop_ts":120000}
`
	srv := transcriptServer(t, doc)

	jobs := &fakeJobRepo{}
	meetings := &fakeMeetingRepo{}
	completer := &fakeCompleter{err: errors.New("quota exceeded")}
	svc := newTestService(jobs, meetings, &fakeAgentRepo{}, &fakeUserRepo{}, completer, nil)

	job := entities.NewSummaryJob(meetingID, srv.URL)
	if err := svc.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("AI failure must not fail the job: %v", err)
	}
	if !strings.Contains(meetings.completedSummary, "automatically generated summary") {
		t.Errorf("expected statistics fallback, got %q", meetings.completedSummary)
	}
	if len(jobs.completed) != 1 {
		t.Errorf("job should complete despite AI failure")
	}
}

func TestProcessJobResumesFromCheckpoint(t *testing.T) {
	meetingID := uuid.New()
	// Fetch would fail; the checkpoint must make it unnecessary
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	jobs := &fakeJobRepo{}
	meetings := &fakeMeetingRepo{}
	completer := &fakeCompleter{reply: "### Overview\nresumed"}
	svc := newTestService(jobs, meetings, &fakeAgentRepo{}, &fakeUserRepo{}, completer, nil)

	job := entities.NewSummaryJob(meetingID, srv.URL)
	job.Checkpoint = datatypes.NewJSONType(entities.SummaryJobCheckpoint{
		Enriched: []entities.EnrichedTranscriptItem{
			enrichedItem("u1", "Ana", "already enriched earlier", 0, 60000),
		},
	})

	if err := svc.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}
	if meetings.completedSummary != "### Overview\nresumed" {
		t.Errorf("checkpointed job did not complete: %q", meetings.completedSummary)
	}
	if len(jobs.checkpoints) != 0 {
		t.Errorf("checkpoint should not be rewritten on resume")
	}
}

func TestProcessJobFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	jobs := &fakeJobRepo{}
	svc := newTestService(jobs, &fakeMeetingRepo{}, &fakeAgentRepo{}, &fakeUserRepo{}, &fakeCompleter{}, nil)

	job := entities.NewSummaryJob(uuid.New(), srv.URL)
	err := svc.ProcessJob(context.Background(), job)
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_SUMMARY_FETCH_FAILED {
		t.Fatalf("expected fetch failure, got %v", err)
	}
}

func TestProcessJobParseFailure(t *testing.T) {
	srv := transcriptServer(t, "this is not jsonl\n")

	svc := newTestService(&fakeJobRepo{}, &fakeMeetingRepo{}, &fakeAgentRepo{}, &fakeUserRepo{}, &fakeCompleter{}, nil)
	job := entities.NewSummaryJob(uuid.New(), srv.URL)

	err := svc.ProcessJob(context.Background(), job)
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_SUMMARY_PARSE_FAILED {
		t.Fatalf("expected parse failure, got %v", err)
	}
}
