package dto

import (
	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
)

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type ConsultancyRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Program string `json:"program" binding:"required"`
	Message string `json:"message"`
}

type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type UnsubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// NotifyRequest fans one blog_notification job out per active subscriber.
type NotifyRequest struct {
	Title      string `json:"title" binding:"required"`
	Excerpt    string `json:"excerpt" binding:"required"`
	Slug       string `json:"slug" binding:"required"`
	CoverImage string `json:"coverImage"`
}

type ListQueueRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
	Type   string `form:"type"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type QueueListResponse struct {
	Emails     []domain.EmailJob `json:"emails"`
	Pagination Pagination        `json:"pagination"`
	Stats      domain.QueueStats `json:"stats"`
}

type ProcessResponse struct {
	Processed int    `json:"processed"`
	Success   int    `json:"success"`
	Failed    int    `json:"failed"`
	Timestamp string `json:"timestamp"`
}
