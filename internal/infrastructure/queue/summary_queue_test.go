package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
)

type fakeJobRepo struct {
	created []*entities.SummaryJob
	err     error
}

func (f *fakeJobRepo) Create(ctx context.Context, job *entities.SummaryJob) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, job)
	return nil
}

func (f *fakeJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.SummaryJob, error) {
	return nil, nil
}

func (f *fakeJobRepo) ListPending(ctx context.Context, limit int) ([]entities.SummaryJob, error) {
	return nil, nil
}

func (f *fakeJobRepo) Claim(ctx context.Context, jobID uuid.UUID) (bool, error) { return false, nil }

func (f *fakeJobRepo) SaveCheckpoint(ctx context.Context, jobID uuid.UUID, checkpoint entities.SummaryJobCheckpoint) error {
	return nil
}

func (f *fakeJobRepo) MarkCompleted(ctx context.Context, jobID uuid.UUID) error { return nil }

func (f *fakeJobRepo) MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	return nil
}

func (f *fakeJobRepo) ResetStale(ctx context.Context) (int64, error) { return 0, nil }

func TestEnqueueSummaryCreatesJobRow(t *testing.T) {
	jobs := &fakeJobRepo{}
	q := NewSummaryQueue(jobs, nil, zap.NewNop())

	meetingID := uuid.New()
	if err := q.EnqueueSummary(context.Background(), meetingID, "https://cdn/t.jsonl"); err != nil {
		t.Fatalf("EnqueueSummary: %v", err)
	}

	if len(jobs.created) != 1 {
		t.Fatalf("expected one job row, got %d", len(jobs.created))
	}
	job := jobs.created[0]
	if job.MeetingID != meetingID {
		t.Errorf("job bound to wrong meeting: %s", job.MeetingID)
	}
	if job.TranscriptURL != "https://cdn/t.jsonl" {
		t.Errorf("transcript URL not carried: %q", job.TranscriptURL)
	}
	if job.Status != entities.SummaryJobStatusPending {
		t.Errorf("new job should be pending, got %s", job.Status)
	}
}

func TestEnqueueSummaryCreateFailure(t *testing.T) {
	jobs := &fakeJobRepo{err: errors.New("db down")}
	q := NewSummaryQueue(jobs, nil, zap.NewNop())

	if err := q.EnqueueSummary(context.Background(), uuid.New(), "u"); err == nil {
		t.Fatal("expected error when the job row cannot be created")
	}
}

func TestWaitForWakeWithoutRedis(t *testing.T) {
	q := NewSummaryQueue(&fakeJobRepo{}, nil, zap.NewNop())

	start := time.Now()
	q.WaitForWake(context.Background(), 20*time.Millisecond)
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("WaitForWake returned too early: %v", elapsed)
	}
}

func TestWaitForWakeCancelled(t *testing.T) {
	q := NewSummaryQueue(&fakeJobRepo{}, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		q.WaitForWake(ctx, time.Minute)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForWake did not honor context cancellation")
	}
}
