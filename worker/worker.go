package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/cache"
)

// ScoringWorker polls for batches of hands and answers them
type ScoringWorker struct {
	config     *WorkerConfig
	client     *QueueClient
	analyzer   *analyzer.Analyzer
	retryDelay time.Duration
}

// NewScoringWorker creates a new worker
func NewScoringWorker(cfg *WorkerConfig) *ScoringWorker {
	an := analyzer.NewAnalyzer(cfg.Config)
	an.SetTranspositionTable(cache.GlobalTranspositionTable)
	return &ScoringWorker{
		config:     cfg,
		client:     NewQueueClient(cfg.QueueURL, cfg.APIKey),
		analyzer:   an,
		retryDelay: time.Second,
	}
}

// Run starts the worker main loop
func (w *ScoringWorker) Run(ctx context.Context) error {
	log.Info().
		Str("queue-url", w.config.QueueURL).
		Dur("poll-interval", w.config.PollInterval).
		Dur("heartbeat-interval", w.config.HeartbeatInterval).
		Msg("starting scoring worker")

	pollTicker := time.NewTicker(w.config.PollInterval)
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			return ctx.Err()

		case <-pollTicker.C:
			job, err := w.client.ClaimJob(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("failed to claim job")
				continue
			}
			if job == nil {
				log.Debug().Msg("no jobs available")
				continue
			}
			log.Info().
				Str("job-id", job.JobID).
				Int("requests", len(job.Requests)).
				Msg("claimed job")

			if err := w.processJob(ctx, job); err != nil {
				log.Error().
					Err(err).
					Str("job-id", job.JobID).
					Msg("failed to process job")
			}
		}
	}
}

// processJob answers every request of a job and submits the results. A
// failed heartbeat abandons the job.
func (w *ScoringWorker) processJob(ctx context.Context, job *Job) error {
	jobCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	heartbeatTicker := time.NewTicker(w.config.HeartbeatInterval)
	defer heartbeatTicker.Stop()

	var done atomic.Int64
	finished := make(chan struct{})
	defer close(finished)

	go func() {
		for {
			select {
			case <-finished:
				return
			case <-jobCtx.Done():
				return
			case <-heartbeatTicker.C:
				progress := &HeartbeatProgress{
					Done:   int(done.Load()),
					Total:  len(job.Requests),
					Status: "scoring",
				}
				if err := w.client.SendHeartbeat(jobCtx, job.JobID, progress); err != nil {
					log.Warn().
						Err(err).
						Str("job-id", job.JobID).
						Msg("heartbeat failed")
					cancel(err)
					return
				}
				log.Debug().Str("job-id", job.JobID).Msg("sent heartbeat")
			}
		}
	}()

	result := &JobResult{JobID: job.JobID, Results: make([]ItemResult, len(job.Requests))}
	for i := range job.Requests {
		if jobCtx.Err() != nil {
			return fmt.Errorf("job abandoned: %w", context.Cause(jobCtx))
		}
		resp, err := w.analyzer.Do(&job.Requests[i])
		if err != nil {
			result.Results[i].Error = err.Error()
		} else {
			result.Results[i].Response = resp
		}
		done.Add(1)
	}

	log.Info().
		Str("job-id", job.JobID).
		Int("answered", len(result.Results)).
		Msg("submitting result")

	err := retry.Do(
		func() error {
			return w.client.SubmitResult(jobCtx, result)
		},
		retry.Context(jobCtx),
		retry.Attempts(w.config.SubmitAttempts),
		retry.Delay(w.retryDelay),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrRejected) && !errors.Is(err, ErrJobReclaimed)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Err(err).Uint("n", n).Str("job-id", job.JobID).Msg("submit-failed-try-again")
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("failed to submit result: %w", err)
	}

	log.Info().Str("job-id", job.JobID).Msg("job completed successfully")
	return nil
}
