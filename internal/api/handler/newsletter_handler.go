package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ankit723/Dream-Definers/internal/api/dto"
	formsdomain "github.com/ankit723/Dream-Definers/internal/forms/domain"
	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
	"github.com/ankit723/Dream-Definers/internal/mailq/storage"
	"github.com/gin-gonic/gin"
)

// NewsletterHandler manages subscriptions and the blog-publish fan-out.
type NewsletterHandler struct {
	logger     *slog.Logger
	queue      QueueStore
	forms      FormStore
	maxRetries int
}

// NewNewsletterHandler creates a new NewsletterHandler instance
func NewNewsletterHandler(deps *Dependencies) *NewsletterHandler {
	return &NewsletterHandler{
		logger:     deps.Logger,
		queue:      deps.Queue,
		forms:      deps.Forms,
		maxRetries: deps.MaxRetries,
	}
}

// Subscribe handles POST /api/v1/newsletter/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A valid email is required",
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var name *string
	if trimmed := strings.TrimSpace(req.Name); trimmed != "" {
		name = &trimmed
	}

	reactivated, err := h.forms.Subscribe(c.Request.Context(), email, name)
	if err != nil {
		if errors.Is(err, formsdomain.ErrAlreadySubscribed) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "This email is already subscribed",
			})
			return
		}
		h.logger.Error("Failed to subscribe", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to subscribe",
		})
		return
	}

	if reactivated {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Subscription reactivated successfully",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Successfully subscribed to blog updates",
	})
}

// Unsubscribe handles POST /api/v1/newsletter/unsubscribe
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req dto.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A valid email is required",
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.forms.Unsubscribe(c.Request.Context(), email); err != nil {
		if errors.Is(err, formsdomain.ErrSubscriberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Subscriber not found",
			})
			return
		}
		h.logger.Error("Failed to unsubscribe", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to unsubscribe",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully unsubscribed",
	})
}

// Notify handles POST /admin/blogs/notify
// Enqueues one blog_notification job per active subscriber; delivery and
// retries are the queue's problem from here on.
func (h *NewsletterHandler) Notify(c *gin.Context) {
	var req dto.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing or invalid fields",
		})
		return
	}

	subscribers, err := h.forms.ListActiveSubscribers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list subscribers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to send notifications",
		})
		return
	}

	if len(subscribers) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "No active subscribers to notify",
			"queued":  0,
		})
		return
	}

	queued := 0
	for _, sub := range subscribers {
		subscriberName := "Subscriber"
		if sub.Name != nil && *sub.Name != "" {
			subscriberName = *sub.Name
		}

		metadata, err := domain.EncodeMetadata(domain.BlogMetadata{
			SubscriberName: subscriberName,
			BlogTitle:      req.Title,
			BlogExcerpt:    req.Excerpt,
			BlogSlug:       req.Slug,
			BlogCoverImage: req.CoverImage,
		})
		if err != nil {
			h.logger.Error("Failed to encode blog metadata", slog.String("error", err.Error()))
			continue
		}

		_, err = h.queue.Enqueue(c.Request.Context(), storage.EnqueueParams{
			Type:       domain.TypeBlogNotification,
			Recipient:  sub.Email,
			Subject:    fmt.Sprintf("New Post: %s", req.Title),
			Metadata:   metadata,
			MaxRetries: h.maxRetries,
		})
		if err != nil {
			// One bad enqueue must not lose the rest of the fan-out.
			h.logger.Error("Failed to enqueue blog notification",
				slog.String("recipient", sub.Email),
				slog.String("error", err.Error()),
			)
			continue
		}
		queued++
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Notification queued for %d subscribers", queued),
		"queued":  queued,
	})
}
