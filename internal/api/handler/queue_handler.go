package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ankit723/Dream-Definers/internal/api/dto"
	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
	"github.com/ankit723/Dream-Definers/internal/mailq/storage"
	"github.com/gin-gonic/gin"
)

// QueueHandler exposes the operator view of the email queue and the
// processing trigger.
type QueueHandler struct {
	logger     *slog.Logger
	queue      QueueStore
	processor  QueueProcessor
	cronSecret string
}

// NewQueueHandler creates a new QueueHandler instance
func NewQueueHandler(deps *Dependencies) *QueueHandler {
	return &QueueHandler{
		logger:     deps.Logger,
		queue:      deps.Queue,
		processor:  deps.Processor,
		cronSecret: deps.CronSecret,
	}
}

// Process handles GET|POST /cron/process-email-queue
// Runs one processing pass; the scheduler invokes this at least once per
// interval, overlapping invocations included.
func (h *QueueHandler) Process(c *gin.Context) {
	if h.cronSecret != "" {
		if c.GetHeader("Authorization") != "Bearer "+h.cronSecret {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}
	}

	// The pass runs to completion even if the caller stops waiting.
	result, err := h.processor.ProcessQueue(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.logger.Error("Queue pass ended with storage failure",
			slog.String("error", err.Error()),
			slog.Int("processed", result.Processed),
		)
		if result.Processed == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to process email queue",
			})
			return
		}
		// Partial results still get reported to the scheduler.
	}

	c.JSON(http.StatusOK, dto.ProcessResponse{
		Processed: result.Processed,
		Success:   result.Success,
		Failed:    result.Failed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Retry handles POST /admin/email-queue/:id/retry
// Resets one job to pending with immediate eligibility, then runs a pass so
// it gets attempted right away. The retry count is untouched.
func (h *QueueHandler) Retry(c *gin.Context) {
	jobID := c.Param("id")

	err := h.queue.ResetForRetry(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Email not found",
			})
			return
		}
		h.logger.Error("Failed to reset email job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retry email",
		})
		return
	}

	if _, err := h.processor.ProcessQueue(context.WithoutCancel(c.Request.Context())); err != nil {
		h.logger.Error("Queue pass after manual retry failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email queued for retry",
	})
}

// Due handles GET /admin/email-queue/due
// Previews what the next processing pass would pick up, oldest first.
func (h *QueueHandler) Due(c *gin.Context) {
	limit := domain.DefaultBatchSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	jobs, err := h.queue.ListDue(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list due email jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list due emails",
		})
		return
	}

	if jobs == nil {
		jobs = []domain.EmailJob{}
	}

	c.JSON(http.StatusOK, gin.H{
		"emails": jobs,
		"count":  len(jobs),
	})
}

// List handles GET /admin/email-queue
// Paginated listing with optional status/type filters plus aggregate stats.
func (h *QueueHandler) List(c *gin.Context) {
	var req dto.ListQueueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	filter := storage.ListFilter{
		Status: req.Status,
		Type:   req.Type,
	}

	emails, total, err := h.queue.ListPaged(c.Request.Context(), filter, req.Page, req.Limit)
	if err != nil {
		h.logger.Error("Failed to list email queue", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list email queue",
		})
		return
	}

	stats, err := h.queue.CountByStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get queue stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get queue stats",
		})
		return
	}

	if emails == nil {
		emails = []domain.EmailJob{}
	}

	totalPages := (total + req.Limit - 1) / req.Limit

	c.JSON(http.StatusOK, dto.QueueListResponse{
		Emails: emails,
		Pagination: dto.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
		Stats: stats,
	})
}

// Get handles GET /admin/email-queue/:id
func (h *QueueHandler) Get(c *gin.Context) {
	jobID := c.Param("id")

	job, err := h.queue.GetByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Email not found",
			})
			return
		}
		h.logger.Error("Failed to get email job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get email",
		})
		return
	}

	c.JSON(http.StatusOK, job)
}
