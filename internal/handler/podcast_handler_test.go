package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hakivo/podcastd/internal/model"
	"github.com/hakivo/podcastd/internal/queue"
	"github.com/hakivo/podcastd/internal/service"
	"github.com/hakivo/podcastd/internal/status"
)

const testSecret = "test-secret"

type handlerFixture struct {
	handler *PodcastHandler
	jobs    *queue.Memory
	store   *status.MemoryStore
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	jobs := queue.NewMemory(8)
	store := status.NewMemoryStore(time.Hour)
	t.Cleanup(func() {
		jobs.Close()
		store.Close()
	})
	submitter := service.NewSubmitter(jobs, store)
	return &handlerFixture{
		handler: NewPodcastHandler(submitter, store, jobs, nil, testSecret),
		jobs:    jobs,
		store:   store,
	}
}

func postSubmit(t *testing.T, h *PodcastHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/submit-job", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func TestSubmitReturnsJobID(t *testing.T) {
	f := newHandlerFixture(t)

	rec := postSubmit(t, f.handler, `{"userId":"user-1","type":"daily"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp SubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.JobID == "" {
		t.Fatalf("resp = %+v", resp)
	}

	job, err := f.jobs.TryDequeue(context.Background())
	if err != nil || job == nil {
		t.Fatalf("job not enqueued: %v %v", job, err)
	}
	if job.Kind != model.KindDailyBrief {
		t.Fatalf("kind = %s", job.Kind)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newHandlerFixture(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing userId", `{"type":"daily"}`},
		{"missing type", `{"userId":"user-1"}`},
		{"bad type", `{"userId":"user-1","type":"monthly"}`},
		{"bad body", `{not json`},
		{"bill count over cap", `{"userId":"user-1","type":"daily","billCount":100}`},
	}
	for _, c := range cases {
		rec := postSubmit(t, f.handler, c.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", c.name, rec.Code)
		}
	}
}

func TestStatusReflectsSubmittedJob(t *testing.T) {
	f := newHandlerFixture(t)

	rec := postSubmit(t, f.handler, `{"userId":"user-1","type":"weekly"}`)
	var submitted SubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/job-status/"+submitted.JobID+"?userId=user-1", nil)
	statusRec := httptest.NewRecorder()
	f.handler.Status(statusRec, req)

	if statusRec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", statusRec.Code, statusRec.Body.String())
	}
	var resp StatusResponse
	if err := json.Unmarshal(statusRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != string(model.StateQueued) || resp.Progress != 0 {
		t.Fatalf("resp = %+v, want queued/0", resp)
	}
}

func TestStatusNotFound(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/job-status/unknown-job?userId=user-1", nil)
	rec := httptest.NewRecorder()
	f.handler.Status(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"not found"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

// TestStatusSupersededJob checks that polling an old job ID after the
// owner submitted a new job reads as not found, since the owner has a
// single status slot.
func TestStatusSupersededJob(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	old := model.JobStatus{JobID: "old-job", UserID: "user-1", State: model.StateComplete, Attempt: 1}
	if err := f.store.Put(ctx, old); err != nil {
		t.Fatalf("put: %v", err)
	}
	replacement := model.JobStatus{JobID: "new-job", UserID: "user-1", State: model.StateQueued, Attempt: 1}
	if err := f.store.Put(ctx, replacement); err != nil {
		t.Fatalf("put: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/job-status/old-job?userId=user-1", nil)
	rec := httptest.NewRecorder()
	f.handler.Status(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for superseded job", rec.Code)
	}
}

func TestStatusRequiresUserID(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/job-status/some-job", nil)
	rec := httptest.NewRecorder()
	f.handler.Status(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProcessQueueRejectsBadSecret(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/process-queue", nil)
	req.Header.Set(InternalSecretHeader, "wrong")
	rec := httptest.NewRecorder()
	f.handler.ProcessQueue(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProcessQueueEmpty(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/process-queue", nil)
	req.Header.Set(InternalSecretHeader, testSecret)
	rec := httptest.NewRecorder()
	f.handler.ProcessQueue(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No jobs to process") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
