package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/agentmeet-team/agentmeet/errors"
	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
	"github.com/agentmeet-team/agentmeet/internal/domain/repositories"
	"github.com/agentmeet-team/agentmeet/internal/infrastructure/queue"
	"github.com/agentmeet-team/agentmeet/pkg/ai"
	"github.com/agentmeet-team/agentmeet/pkg/config"
	"github.com/agentmeet-team/agentmeet/pkg/jobcontext"
)

const jobTypeMeetingSummary = "meeting_summary"

// pendingBatchSize caps how many pending jobs one poll pass considers
const pendingBatchSize = 5

const summarizerPrompt = `You are an expert summarizer. You write readable, concise, simple content. You are given a transcript of a meeting and you need to summarize it.

Use the following markdown structure for every output:

### Overview
Provide a detailed, engaging summary of the session's content. Focus on major features, user workflows, and any key takeaways. Write in a narrative style, using full sentences. Highlight unique or powerful aspects of the product, platform, or discussion.

### Notes
Break down key content into thematic sections with timestamp ranges. Each section should summarize key points, actions, or demos in bullet format.

Example:
#### Section Name
- Main point or demo shown here
- Another key insight or interaction
- Follow-up tool or explanation provided

#### Next Section
- Feature X automatically does Y
- Mention of integration with Z`

// Archiver persists a copy of the raw transcript document
type Archiver interface {
	ArchiveTranscript(ctx context.Context, meetingID uuid.UUID, data []byte) error
}

// Service runs the transcript summarization pipeline: fetch, parse, enrich
// speakers, summarize, persist. Jobs are durable rows claimed by a worker
// pool; every step tolerates re-execution so delivery is at-least-once.
type Service struct {
	jobs        repositories.SummaryJobRepository
	meetings    repositories.MeetingRepository
	agents      repositories.AgentRepository
	users       repositories.UserRepository
	completions ai.CompletionClient
	fetcher     *TranscriptFetcher
	archiver    Archiver
	waiter      queue.Waiter
	cfg         config.SummaryConfig
	logger      *zap.Logger

	workerWg      sync.WaitGroup
	workerMutex   sync.Mutex
	cancelWorkers context.CancelFunc
	running       bool
}

// NewService constructs the summarization service. archiver may be nil when
// object storage is disabled.
func NewService(
	jobs repositories.SummaryJobRepository,
	meetings repositories.MeetingRepository,
	agents repositories.AgentRepository,
	users repositories.UserRepository,
	completions ai.CompletionClient,
	fetcher *TranscriptFetcher,
	archiver Archiver,
	waiter queue.Waiter,
	cfg config.SummaryConfig,
	logger *zap.Logger,
) *Service {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	return &Service{
		jobs:        jobs,
		meetings:    meetings,
		agents:      agents,
		users:       users,
		completions: completions,
		fetcher:     fetcher,
		archiver:    archiver,
		waiter:      waiter,
		cfg:         cfg,
		logger:      logger,
	}
}

// StartWorkerPool starts background workers that poll for pending jobs
func (s *Service) StartWorkerPool(ctx context.Context) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.running {
		return fmt.Errorf("worker pool already running")
	}
	s.running = true

	workerCtx, cancel := context.WithCancel(ctx)
	s.cancelWorkers = cancel

	s.logger.Info("starting summary worker pool",
		zap.Int("worker_count", s.cfg.WorkerCount),
		zap.Duration("poll_interval", s.cfg.PollInterval),
	)

	for i := 0; i < s.cfg.WorkerCount; i++ {
		s.workerWg.Add(1)
		go s.worker(workerCtx, i)
	}

	s.workerWg.Add(1)
	go s.staleJobSweeper(workerCtx)

	return nil
}

// StopWorkerPool stops all workers and waits for in-flight jobs
func (s *Service) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.running {
		return fmt.Errorf("worker pool not running")
	}

	s.logger.Info("stopping summary worker pool")
	s.cancelWorkers()
	s.workerWg.Wait()
	s.running = false
	s.logger.Info("summary worker pool stopped")
	return nil
}

// worker claims and processes pending jobs, blocking on the wake channel
// between empty polls
func (s *Service) worker(ctx context.Context, workerID int) {
	defer s.workerWg.Done()

	s.logger.Info("summary worker started", zap.Int("worker_id", workerID))

	for {
		if ctx.Err() != nil {
			s.logger.Info("summary worker stopping", zap.Int("worker_id", workerID))
			return
		}

		if !s.processPending(ctx, workerID) {
			s.waiter.WaitForWake(ctx, s.cfg.PollInterval)
		}
	}
}

// processPending claims and runs up to one batch of pending jobs. Returns
// true when at least one job was processed.
func (s *Service) processPending(ctx context.Context, workerID int) bool {
	jobs, err := s.jobs.ListPending(ctx, pendingBatchSize)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("failed to poll summary jobs",
				zap.Int("worker_id", workerID),
				zap.Error(err),
			)
		}
		return false
	}

	processed := false
	for i := range jobs {
		job := jobs[i]

		claimed, err := s.jobs.Claim(ctx, job.ID)
		if err != nil {
			s.logger.Error("failed to claim summary job",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if !claimed {
			// Another worker got there first
			continue
		}
		processed = true

		s.logger.Info("worker claimed summary job",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", job.MeetingID.String()),
		)

		jobCtx, cancel := jobcontext.JobBegin(ctx, job.ID, jobTypeMeetingSummary, workerID)
		err = s.ProcessJob(jobCtx, &job)
		cancel()

		if err != nil {
			s.logger.Error("summary job failed",
				zap.String("job_id", job.ID.String()),
				zap.Bool("retryable", jobcontext.IsRetryableError(err)),
				zap.Error(err),
			)
			if markErr := s.jobs.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				s.logger.Error("failed to record job failure",
					zap.String("job_id", job.ID.String()),
					zap.Error(markErr),
				)
			}
			continue
		}

		s.logger.Info("summary job completed",
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", job.MeetingID.String()),
		)
	}
	return processed
}

// staleJobSweeper re-queues running jobs abandoned by dead workers
func (s *Service) staleJobSweeper(ctx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reset, err := s.jobs.ResetStale(ctx)
			if err != nil {
				s.logger.Error("failed to reset stale summary jobs", zap.Error(err))
				continue
			}
			if reset > 0 {
				s.logger.Warn("re-queued stale summary jobs", zap.Int64("count", reset))
			}
		}
	}
}

// ProcessJob runs the pipeline for one claimed job. The enriched transcript
// is checkpointed on the job row, so a retried job skips straight to
// summarization.
func (s *Service) ProcessJob(ctx context.Context, job *entities.SummaryJob) error {
	var enriched []entities.EnrichedTranscriptItem

	if job.HasEnrichedCheckpoint() {
		enriched = job.Checkpoint.Data().Enriched
		s.logger.Info("resuming summary job from checkpoint",
			zap.String("job_id", job.ID.String()),
			zap.Int("items", len(enriched)),
		)
	} else {
		data, err := s.fetcher.Fetch(ctx, job.TranscriptURL)
		if err != nil {
			return apperrors.ErrSummaryFetchFailed(err)
		}

		if s.archiver != nil {
			if err := s.archiver.ArchiveTranscript(ctx, job.MeetingID, data); err != nil {
				s.logger.Warn("failed to archive transcript",
					zap.String("meeting_id", job.MeetingID.String()),
					zap.Error(err),
				)
			}
		}

		items, err := ParseTranscript(data)
		if err != nil {
			return apperrors.ErrSummaryParseFailed(err)
		}

		enriched, err = s.enrich(ctx, items)
		if err != nil {
			return err
		}

		checkpoint := entities.SummaryJobCheckpoint{Enriched: enriched}
		job.Checkpoint = datatypes.NewJSONType(checkpoint)
		if err := s.jobs.SaveCheckpoint(ctx, job.ID, checkpoint); err != nil {
			// A retried job repeats the earlier steps, which are all safe
			s.logger.Warn("failed to checkpoint enriched transcript",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
	}

	text := s.generateSummary(ctx, enriched)

	if err := s.meetings.CompleteWithSummary(ctx, job.MeetingID, text); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	return s.jobs.MarkCompleted(ctx, job.ID)
}

// enrich resolves each speaker id against users and agents concurrently.
// Speakers found in neither table are labeled Unknown.
func (s *Service) enrich(ctx context.Context, items []entities.TranscriptItem) ([]entities.EnrichedTranscriptItem, error) {
	ids := SpeakerIDs(items)
	names := make(map[string]string, len(ids))

	if len(ids) > 0 {
		var (
			wg        sync.WaitGroup
			userRows  []*entities.User
			agentRows []*entities.Agent
			userErr   error
			agentErr  error
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			userRows, userErr = s.users.FindByIDs(ctx, ids)
		}()
		go func() {
			defer wg.Done()
			agentRows, agentErr = s.agents.FindByIDs(ctx, ids)
		}()
		wg.Wait()

		if userErr != nil {
			return nil, apperrors.ErrDBQueryFailed(userErr)
		}
		if agentErr != nil {
			return nil, apperrors.ErrDBQueryFailed(agentErr)
		}

		for _, u := range userRows {
			names[u.ID.String()] = u.Name
		}
		for _, a := range agentRows {
			names[a.ID.String()] = a.Name
		}
	}

	enriched := make([]entities.EnrichedTranscriptItem, 0, len(items))
	for _, item := range items {
		name, ok := names[item.SpeakerID]
		if !ok || name == "" {
			name = "Unknown"
		}
		enriched = append(enriched, entities.EnrichedTranscriptItem{
			TranscriptItem: item,
			User:           entities.SpeakerLabel{Name: name},
		})
	}
	return enriched, nil
}

// generateSummary asks the AI provider for a markdown summary and falls back
// to transcript statistics on any failure. The pipeline never fails a job
// because summarization failed.
func (s *Service) generateSummary(ctx context.Context, enriched []entities.EnrichedTranscriptItem) string {
	if len(enriched) == 0 {
		s.logger.Warn("summarizing empty transcript", zap.Error(entities.ErrEmptyTranscript))
		return FallbackSummary(enriched, s.cfg.ExcerptCount, s.cfg.ExcerptChars)
	}

	payload, err := json.Marshal(enriched)
	if err != nil {
		s.logger.Warn("failed to encode transcript for summarization", zap.Error(err))
		return FallbackSummary(enriched, s.cfg.ExcerptCount, s.cfg.ExcerptChars)
	}

	text, err := s.completions.Complete(ctx, []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: summarizerPrompt},
		{Role: ai.RoleUser, Content: "Summarize the following transcript: " + string(payload)},
	})
	if err != nil || text == "" {
		s.logger.Warn("ai summarization failed, using statistics fallback", zap.Error(err))
		return FallbackSummary(enriched, s.cfg.ExcerptCount, s.cfg.ExcerptChars)
	}
	return text
}
