package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/ankit723/Dream-Definers/internal/api/dto"
	formsdomain "github.com/ankit723/Dream-Definers/internal/forms/domain"
	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsletterRouter(deps *Dependencies) *gin.Engine {
	h := NewNewsletterHandler(deps)
	engine := gin.New()
	engine.POST("/api/v1/newsletter/subscribe", h.Subscribe)
	engine.POST("/api/v1/newsletter/unsubscribe", h.Unsubscribe)
	engine.POST("/admin/blogs/notify", h.Notify)
	return engine
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name        string
		forms       *fakeFormStore
		body        dto.SubscribeRequest
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "new subscriber",
			forms:       &fakeFormStore{},
			body:        dto.SubscribeRequest{Email: "maya@example.com", Name: "Maya"},
			wantStatus:  http.StatusCreated,
			wantMessage: "Successfully subscribed to blog updates",
		},
		{
			name:        "reactivated subscriber",
			forms:       &fakeFormStore{subscribeReactivated: true},
			body:        dto.SubscribeRequest{Email: "maya@example.com"},
			wantStatus:  http.StatusOK,
			wantMessage: "Subscription reactivated successfully",
		},
		{
			name:        "already subscribed",
			forms:       &fakeFormStore{subscribeErr: formsdomain.ErrAlreadySubscribed},
			body:        dto.SubscribeRequest{Email: "maya@example.com"},
			wantStatus:  http.StatusConflict,
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := testDeps(newFakeQueueStore(), tt.forms, &fakeProcessor{})

			rec := performJSON(t, newsletterRouter(deps), http.MethodPost, "/api/v1/newsletter/subscribe", tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, decodeBody(t, rec)["message"])
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	deps := testDeps(newFakeQueueStore(), &fakeFormStore{}, &fakeProcessor{})
	engine := newsletterRouter(deps)

	rec := performJSON(t, engine, http.MethodPost, "/api/v1/newsletter/subscribe", dto.SubscribeRequest{Email: "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(t, engine, http.MethodPost, "/api/v1/newsletter/subscribe", dto.SubscribeRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnsubscribe(t *testing.T) {
	t.Run("existing subscriber", func(t *testing.T) {
		deps := testDeps(newFakeQueueStore(), &fakeFormStore{}, &fakeProcessor{})

		rec := performJSON(t, newsletterRouter(deps), http.MethodPost, "/api/v1/newsletter/unsubscribe",
			dto.UnsubscribeRequest{Email: "maya@example.com"}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown subscriber", func(t *testing.T) {
		forms := &fakeFormStore{unsubscribeErr: formsdomain.ErrSubscriberNotFound}
		deps := testDeps(newFakeQueueStore(), forms, &fakeProcessor{})

		rec := performJSON(t, newsletterRouter(deps), http.MethodPost, "/api/v1/newsletter/unsubscribe",
			dto.UnsubscribeRequest{Email: "stranger@example.com"}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Subscriber not found", decodeBody(t, rec)["error"])
	})
}

func validNotify() dto.NotifyRequest {
	return dto.NotifyRequest{
		Title:      "Cracking the PMP Exam",
		Excerpt:    "Our five-step study plan.",
		Slug:       "cracking-the-pmp-exam",
		CoverImage: "https://cdn.example/cover.png",
	}
}

func TestNotifyFanOut(t *testing.T) {
	name := "Maya"
	queue := newFakeQueueStore()
	forms := &fakeFormStore{subscribers: []formsdomain.Subscriber{
		{Email: "maya@example.com", Name: &name, Active: true},
		{Email: "anon@example.com", Active: true},
	}}
	deps := testDeps(queue, forms, &fakeProcessor{})

	rec := performJSON(t, newsletterRouter(deps), http.MethodPost, "/admin/blogs/notify", validNotify(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["queued"])
	assert.Equal(t, "Notification queued for 2 subscribers", body["message"])

	require.Len(t, queue.enqueued, 2)
	for _, p := range queue.enqueued {
		assert.Equal(t, domain.TypeBlogNotification, p.Type)
		assert.Equal(t, "New Post: Cracking the PMP Exam", p.Subject)
	}

	var md domain.BlogMetadata
	require.NoError(t, json.Unmarshal([]byte(queue.enqueued[0].Metadata), &md))
	assert.Equal(t, "Maya", md.SubscriberName)
	assert.Equal(t, "cracking-the-pmp-exam", md.BlogSlug)

	// Nameless subscribers fall back to the generic salutation.
	require.NoError(t, json.Unmarshal([]byte(queue.enqueued[1].Metadata), &md))
	assert.Equal(t, "Subscriber", md.SubscriberName)
}

func TestNotifyNoSubscribers(t *testing.T) {
	deps := testDeps(newFakeQueueStore(), &fakeFormStore{}, &fakeProcessor{})

	rec := performJSON(t, newsletterRouter(deps), http.MethodPost, "/admin/blogs/notify", validNotify(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(0), body["queued"])
	assert.Equal(t, "No active subscribers to notify", body["message"])
}

func TestNotifyValidation(t *testing.T) {
	deps := testDeps(newFakeQueueStore(), &fakeFormStore{}, &fakeProcessor{})
	engine := newsletterRouter(deps)

	req := validNotify()
	req.Title = ""
	rec := performJSON(t, engine, http.MethodPost, "/admin/blogs/notify", req, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = validNotify()
	req.Slug = ""
	rec = performJSON(t, engine, http.MethodPost, "/admin/blogs/notify", req, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotifyEnqueueFailureContinues(t *testing.T) {
	queue := newFakeQueueStore()
	queue.enqueueErr = errors.New("connection refused")
	forms := &fakeFormStore{subscribers: []formsdomain.Subscriber{
		{Email: "maya@example.com", Active: true},
	}}
	deps := testDeps(queue, forms, &fakeProcessor{})

	rec := performJSON(t, newsletterRouter(deps), http.MethodPost, "/admin/blogs/notify", validNotify(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["queued"])
}
