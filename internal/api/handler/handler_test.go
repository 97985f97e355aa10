package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	formsdomain "github.com/ankit723/Dream-Definers/internal/forms/domain"
	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
	"github.com/ankit723/Dream-Definers/internal/mailq/processor"
	"github.com/ankit723/Dream-Definers/internal/mailq/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeQueueStore records enqueues and serves canned jobs and stats.
type fakeQueueStore struct {
	enqueued   []storage.EnqueueParams
	enqueueErr error

	jobs map[string]*domain.EmailJob

	resetIDs []string
	resetErr error

	dueJobs  []domain.EmailJob
	dueErr   error
	dueLimit int

	listJobs  []domain.EmailJob
	listTotal int
	listErr   error
	gotFilter storage.ListFilter
	gotPage   int
	gotSize   int

	stats    domain.QueueStats
	statsErr error
}

func newFakeQueueStore() *fakeQueueStore {
	return &fakeQueueStore{jobs: make(map[string]*domain.EmailJob)}
}

func (f *fakeQueueStore) Enqueue(ctx context.Context, p storage.EnqueueParams) (*domain.EmailJob, error) {
	if f.enqueueErr != nil {
		return nil, f.enqueueErr
	}
	f.enqueued = append(f.enqueued, p)
	now := time.Now()
	return &domain.EmailJob{
		ID:          fmt.Sprintf("job-%d", len(f.enqueued)),
		Type:        p.Type,
		Recipient:   p.Recipient,
		Subject:     p.Subject,
		Status:      domain.StatusPending,
		MaxRetries:  p.MaxRetries,
		NextRetryAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (f *fakeQueueStore) GetByID(ctx context.Context, jobID string) (*domain.EmailJob, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeQueueStore) ResetForRetry(ctx context.Context, jobID string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	job, ok := f.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	// Mirrors the store's reset: retry count survives, everything else is
	// wiped back to an immediately eligible pending job.
	now := time.Now()
	job.Status = domain.StatusPending
	job.NextRetryAt = &now
	job.ErrorMessage = nil
	job.SentAt = nil
	f.resetIDs = append(f.resetIDs, jobID)
	return nil
}

func (f *fakeQueueStore) CountByStatus(ctx context.Context) (domain.QueueStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeQueueStore) ListDue(ctx context.Context, limit int) ([]domain.EmailJob, error) {
	f.dueLimit = limit
	return f.dueJobs, f.dueErr
}

func (f *fakeQueueStore) ListPaged(ctx context.Context, filter storage.ListFilter, page, pageSize int) ([]domain.EmailJob, int, error) {
	f.gotFilter = filter
	f.gotPage = page
	f.gotSize = pageSize
	return f.listJobs, f.listTotal, f.listErr
}

// fakeFormStore records writes and serves a canned subscriber list.
type fakeFormStore struct {
	contacts      []*formsdomain.ContactSubmission
	consultancies []*formsdomain.ConsultancyRequest
	createErr     error

	subscribeReactivated bool
	subscribeErr         error
	unsubscribeErr       error

	subscribers []formsdomain.Subscriber
	listErr     error
}

func (f *fakeFormStore) CreateContact(ctx context.Context, c *formsdomain.ContactSubmission) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = fmt.Sprintf("contact-%d", len(f.contacts)+1)
	f.contacts = append(f.contacts, c)
	return nil
}

func (f *fakeFormStore) CreateConsultancy(ctx context.Context, c *formsdomain.ConsultancyRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = fmt.Sprintf("consultancy-%d", len(f.consultancies)+1)
	f.consultancies = append(f.consultancies, c)
	return nil
}

func (f *fakeFormStore) Subscribe(ctx context.Context, email string, name *string) (bool, error) {
	return f.subscribeReactivated, f.subscribeErr
}

func (f *fakeFormStore) Unsubscribe(ctx context.Context, email string) error {
	return f.unsubscribeErr
}

func (f *fakeFormStore) ListActiveSubscribers(ctx context.Context) ([]formsdomain.Subscriber, error) {
	return f.subscribers, f.listErr
}

// fakeProcessor returns a canned pass result.
type fakeProcessor struct {
	result processor.Result
	err    error
	calls  int
}

func (f *fakeProcessor) ProcessQueue(ctx context.Context) (processor.Result, error) {
	f.calls++
	return f.result, f.err
}

func testDeps(queue *fakeQueueStore, forms *fakeFormStore, proc *fakeProcessor) *Dependencies {
	return &Dependencies{
		Logger:       slog.New(slog.DiscardHandler),
		Queue:        queue,
		Forms:        forms,
		Processor:    proc,
		AdminAddress: "admin@dreamdefiners.example",
		CronSecret:   "test-secret",
		MaxRetries:   5,
	}
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func bearer(secret string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + secret}
}
