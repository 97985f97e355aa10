package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ankit723/Dream-Definers/internal/mailer"
	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
	"github.com/ankit723/Dream-Definers/internal/metrics"
)

// Store is the slice of the queue store the processor mutates.
type Store interface {
	ClaimDue(ctx context.Context, limit int) ([]domain.EmailJob, error)
	MarkSent(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID, errMsg string) error
}

// Result summarizes one processing pass.
type Result struct {
	Processed int `json:"processed"`
	Success   int `json:"success"`
	Failed    int `json:"failed"`
}

// Config holds processor configuration.
type Config struct {
	Logger         *slog.Logger
	Store          Store
	Sender         mailer.Sender
	Renderer       *mailer.Renderer
	FromAddress    string
	BatchSize      int
	AttemptTimeout time.Duration
}

// Processor executes delivery passes over the email queue. It owns no
// background loop; each pass is driven by an external trigger.
type Processor struct {
	logger         *slog.Logger
	store          Store
	sender         mailer.Sender
	renderer       *mailer.Renderer
	fromAddress    string
	batchSize      int
	attemptTimeout time.Duration
}

// NewProcessor creates a new Processor instance.
func NewProcessor(cfg *Config) *Processor {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}
	attemptTimeout := cfg.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = 30 * time.Second
	}

	return &Processor{
		logger:         cfg.Logger,
		store:          cfg.Store,
		sender:         cfg.Sender,
		renderer:       cfg.Renderer,
		fromAddress:    cfg.FromAddress,
		batchSize:      batchSize,
		attemptTimeout: attemptTimeout,
	}
}

// ProcessQueue runs one pass: claim due jobs, attempt each sequentially,
// record the outcome per job. A delivery failure is recorded on the job and
// never aborts the batch; a storage failure stops the pass cleanly and
// returns the partial result alongside the error.
func (p *Processor) ProcessQueue(ctx context.Context) (Result, error) {
	metrics.QueuePasses.Inc()

	var res Result

	jobs, err := p.store.ClaimDue(ctx, p.batchSize)
	if err != nil {
		return res, fmt.Errorf("failed to claim due jobs: %w", err)
	}

	if len(jobs) == 0 {
		return res, nil
	}

	p.logger.Info("Processing email queue",
		slog.Int("claimed", len(jobs)),
	)

	for i := range jobs {
		job := &jobs[i]
		res.Processed++

		sent, err := p.attempt(ctx, job)
		if sent {
			res.Success++
		} else if err == nil {
			res.Failed++
		}
		if err != nil {
			p.logger.Error("Queue pass stopped on storage failure",
				slog.String("job_id", job.ID),
				slog.String("error", err.Error()),
			)
			return res, err
		}
	}

	p.logger.Info("Email queue pass complete",
		slog.Int("processed", res.Processed),
		slog.Int("success", res.Success),
		slog.Int("failed", res.Failed),
	)

	return res, nil
}

// attempt delivers one claimed job. The returned error is reserved for
// storage failures; delivery and render problems are recorded on the job.
func (p *Processor) attempt(ctx context.Context, job *domain.EmailJob) (bool, error) {
	subject, html, err := p.renderer.Render(job)
	if err != nil {
		metrics.EmailFailures.Inc()
		if mfErr := p.store.MarkFailed(ctx, job.ID, err.Error()); mfErr != nil {
			return false, mfErr
		}
		return false, nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
	err = p.sender.Send(sendCtx, mailer.Message{
		From:    p.fromAddress,
		To:      job.Recipient,
		Subject: subject,
		HTML:    html,
	})
	cancel()

	if err != nil {
		metrics.EmailFailures.Inc()
		p.logger.Warn("Email delivery failed",
			slog.String("job_id", job.ID),
			slog.String("recipient", job.Recipient),
			slog.String("error", err.Error()),
		)
		if mfErr := p.store.MarkFailed(ctx, job.ID, err.Error()); mfErr != nil {
			return false, mfErr
		}
		return false, nil
	}

	if err := p.store.MarkSent(ctx, job.ID); err != nil {
		return true, err
	}

	metrics.EmailsSent.Inc()
	return true, nil
}
