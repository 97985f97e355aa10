package handler

import (
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

// FormsHandler captures public form submissions and enqueues their
// confirmation and admin-notification emails.
type FormsHandler struct {
	logger       *slog.Logger
	queue        QueueStore
	forms        FormStore
	adminAddress string
	maxRetries   int
}

// NewFormsHandler creates a new FormsHandler instance
func NewFormsHandler(deps *Dependencies) *FormsHandler {
	return &FormsHandler{
		logger:       deps.Logger,
		queue:        deps.Queue,
		forms:        deps.Forms,
		adminAddress: deps.AdminAddress,
		maxRetries:   deps.MaxRetries,
	}
}

// Contact handles POST /api/v1/contact
func (h *FormsHandler) Contact(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing or invalid fields",
		})
		return
	}

	submission := formsdomain.ContactSubmission{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}

	if err := h.forms.CreateContact(c.Request.Context(), &submission); err != nil {
		h.logger.Error("Failed to store contact submission", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit message",
		})
		return
	}

	metadata, err := domain.EncodeMetadata(domain.ContactMetadata{
		Name:    submission.Name,
		Email:   submission.Email,
		Phone:   submission.Phone,
		Subject: submission.Subject,
		Message: submission.Message,
	})
	if err != nil {
		h.logger.Error("Failed to encode contact metadata", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit message",
		})
		return
	}

	// Confirmation to the sender, notification copy to the admin inbox.
	jobs := []storage.EnqueueParams{
		{
			Type:       domain.TypeContact,
			Recipient:  submission.Email,
			Subject:    "Thank you for contacting us",
			Metadata:   metadata,
			MaxRetries: h.maxRetries,
		},
		{
			Type:       domain.TypeContactAdmin,
			Recipient:  h.adminAddress,
			Subject:    fmt.Sprintf("New Contact Form Submission: %s", submission.Subject),
			Metadata:   metadata,
			MaxRetries: h.maxRetries,
		},
	}

	for _, p := range jobs {
		if _, err := h.queue.Enqueue(c.Request.Context(), p); err != nil {
			h.logger.Error("Failed to enqueue contact email",
				slog.String("type", p.Type),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to submit message",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message sent successfully. We'll get back to you soon.",
		"id":      submission.ID,
	})
}

// Consultancy handles POST /api/v1/consultancy
func (h *FormsHandler) Consultancy(c *gin.Context) {
	var req dto.ConsultancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing or invalid fields",
		})
		return
	}

	request := formsdomain.ConsultancyRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Program: strings.TrimSpace(req.Program),
		Message: strings.TrimSpace(req.Message),
	}

	if err := h.forms.CreateConsultancy(c.Request.Context(), &request); err != nil {
		h.logger.Error("Failed to store consultancy request", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit request",
		})
		return
	}

	metadata, err := domain.EncodeMetadata(domain.ConsultancyMetadata{
		Name:    request.Name,
		Email:   request.Email,
		Phone:   request.Phone,
		Program: request.Program,
		Message: request.Message,
	})
	if err != nil {
		h.logger.Error("Failed to encode consultancy metadata", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit request",
		})
		return
	}

	jobs := []storage.EnqueueParams{
		{
			Type:       domain.TypeConsultancy,
			Recipient:  request.Email,
			Subject:    "Your Free Consultancy Request",
			Metadata:   metadata,
			MaxRetries: h.maxRetries,
		},
		{
			Type:       domain.TypeConsultancyAdmin,
			Recipient:  h.adminAddress,
			Subject:    fmt.Sprintf("New Free Consultancy Request: %s", request.Program),
			Metadata:   metadata,
			MaxRetries: h.maxRetries,
		},
	}

	for _, p := range jobs {
		if _, err := h.queue.Enqueue(c.Request.Context(), p); err != nil {
			h.logger.Error("Failed to enqueue consultancy email",
				slog.String("type", p.Type),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to submit request",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Request received. A counselor will reach out to schedule your session.",
		"id":      request.ID,
	})
}
