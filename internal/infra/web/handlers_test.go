//go:build !integration

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/domain/ports/adapter"
	"sample-media-gateway/internal/infra/backend"
)

const testSecret = "test-session-secret"

func newTestServer(track *mockTrackUC, sample *mockSampleUC, plan *mockPlanUC) *Server {
	if track == nil {
		track = &mockTrackUC{}
	}
	if sample == nil {
		sample = &mockSampleUC{ListFunc: func(ctx context.Context, limit, offset int) ([]model.Sample, error) {
			return []model.Sample{}, nil
		}}
	}
	if plan == nil {
		plan = &mockPlanUC{}
	}
	auth := NewAuthManager(testSecret, time.Hour)
	return NewServer(track, sample, plan, auth, newTestLogger())
}

func doRequest(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSubmitAuth(t *testing.T) {
	srv := newTestServer(&mockTrackUC{
		SubmitFunc: func(ctx context.Context, provider, rawURL, bearer, subject string) (model.Task, error) {
			t.Error("handler must not be reached without a valid session")
			return model.Task{}, nil
		},
	}, nil, nil)
	h := srv.Routes()

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/process/tiktok", "", `{"url":"https://tiktok.com/v/1"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var body map[string]string
		decodeBody(t, rec, &body)
		if body["error"] != "authentication required" {
			t.Errorf("unexpected error body: %v", body)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/process/tiktok", strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthManager("some-other-secret", time.Hour)
		tok, _ := other.Mint("user-1")
		rec := doRequest(t, h, http.MethodPost, "/api/v1/process/tiktok", tok, `{}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewAuthManager(testSecret, -time.Minute)
		tok, _ := expired.Mint("user-1")
		rec := doRequest(t, h, http.MethodPost, "/api/v1/process/tiktok", tok, `{}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestSubmitHandler(t *testing.T) {
	auth := NewAuthManager(testSecret, time.Hour)
	token, err := auth.Mint("user-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	t.Run("accepted submission returns the tracked task", func(t *testing.T) {
		var gotProvider, gotURL, gotBearer, gotSubject string
		srv := newTestServer(&mockTrackUC{
			SubmitFunc: func(ctx context.Context, provider, rawURL, bearer, subject string) (model.Task, error) {
				gotProvider, gotURL, gotBearer, gotSubject = provider, rawURL, bearer, subject
				return model.Task{TaskID: "abc123", URL: rawURL, Status: model.TaskStatusPending}, nil
			},
		}, nil, nil)

		rec := doRequest(t, srv.Routes(), http.MethodPost, "/api/v1/process/tiktok", token, `{"url":"https://tiktok.com/v/1"}`)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
		var task model.Task
		decodeBody(t, rec, &task)
		if task.TaskID != "abc123" || task.Status != model.TaskStatusPending {
			t.Errorf("unexpected task: %+v", task)
		}
		if gotProvider != "tiktok" || gotURL != "https://tiktok.com/v/1" {
			t.Errorf("unexpected submit args: %s %s", gotProvider, gotURL)
		}
		// the raw session token and its subject flow through to the use case
		if gotBearer != token || gotSubject != "user-1" {
			t.Errorf("session must be forwarded: bearer match=%v subject=%s", gotBearer == token, gotSubject)
		}
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		srv := newTestServer(&mockTrackUC{
			SubmitFunc: func(ctx context.Context, provider, rawURL, bearer, subject string) (model.Task, error) {
				t.Error("use case must not see a malformed body")
				return model.Task{}, nil
			},
		}, nil, nil)
		rec := doRequest(t, srv.Routes(), http.MethodPost, "/api/v1/process/tiktok", token, `{"url": `)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("domain errors map to status codes", func(t *testing.T) {
		cases := []struct {
			name string
			err  error
			want int
		}{
			{"invalid argument", domain.ErrInvalidArgument, http.StatusBadRequest},
			{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
			{"backend unconfigured", domain.ErrBackendUnavailable, http.StatusServiceUnavailable},
			{"backend rejection passthrough", &backend.APIError{StatusCode: http.StatusPaymentRequired, Message: "insufficient credits"}, http.StatusPaymentRequired},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				srv := newTestServer(&mockTrackUC{
					SubmitFunc: func(ctx context.Context, provider, rawURL, bearer, subject string) (model.Task, error) {
						return model.Task{}, c.err
					},
				}, nil, nil)
				rec := doRequest(t, srv.Routes(), http.MethodPost, "/api/v1/process/tiktok", token, `{"url":"https://tiktok.com/v/1"}`)
				if rec.Code != c.want {
					t.Errorf("expected %d, got %d", c.want, rec.Code)
				}
			})
		}
	})
}

func TestTaskStatusHandler(t *testing.T) {
	t.Run("processing exposes progress", func(t *testing.T) {
		srv := newTestServer(&mockTrackUC{
			StatusFunc: func(ctx context.Context, taskID string) (adapter.JobStatus, error) {
				return adapter.JobStatus{Status: model.TaskStatusProcessing, Message: "separating stems", Progress: 62}, nil
			},
		}, nil, nil)

		rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/process/status/abc123", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body statusResponse
		decodeBody(t, rec, &body)
		if body.Status != model.TaskStatusProcessing || body.Progress == nil || *body.Progress != 62 {
			t.Errorf("unexpected status body: %+v", body)
		}
	})

	t.Run("terminal states omit progress", func(t *testing.T) {
		srv := newTestServer(&mockTrackUC{
			StatusFunc: func(ctx context.Context, taskID string) (adapter.JobStatus, error) {
				return adapter.JobStatus{Status: model.TaskStatusCompleted, Message: "ready", Progress: 100}, nil
			},
		}, nil, nil)

		rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/process/status/abc123", "", "")
		var raw map[string]interface{}
		decodeBody(t, rec, &raw)
		if _, present := raw["progress"]; present {
			t.Error("progress must only be reported while processing")
		}
	})

	t.Run("unknown task is a 404", func(t *testing.T) {
		srv := newTestServer(&mockTrackUC{
			StatusFunc: func(ctx context.Context, taskID string) (adapter.JobStatus, error) {
				return adapter.JobStatus{}, domain.ErrNotFound
			},
		}, nil, nil)
		rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/process/status/nope", "", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestListSamplesHandler(t *testing.T) {
	t.Run("serves the listing with count and offset", func(t *testing.T) {
		sample := &mockSampleUC{ListFunc: func(ctx context.Context, limit, offset int) ([]model.Sample, error) {
			if limit != 20 || offset != 40 {
				t.Errorf("query params not forwarded: limit=%d offset=%d", limit, offset)
			}
			return []model.Sample{{ID: "s1", Provider: model.ProviderTikTok}}, nil
		}}
		srv := newTestServer(nil, sample, nil)

		rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/samples?limit=20&offset=40", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			Data   []model.Sample `json:"data"`
			Count  int            `json:"count"`
			Offset int            `json:"offset"`
		}
		decodeBody(t, rec, &body)
		if body.Count != 1 || body.Offset != 40 || len(body.Data) != 1 {
			t.Errorf("unexpected listing body: %+v", body)
		}
	})

	t.Run("degraded backend still yields an empty page", func(t *testing.T) {
		sample := &mockSampleUC{ListFunc: func(ctx context.Context, limit, offset int) ([]model.Sample, error) {
			return []model.Sample{}, nil
		}}
		srv := newTestServer(nil, sample, nil)
		rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/samples", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			Count int `json:"count"`
		}
		decodeBody(t, rec, &body)
		if body.Count != 0 {
			t.Errorf("expected an empty page, got count %d", body.Count)
		}
	})
}

func TestListPlansHandler(t *testing.T) {
	plan := &mockPlanUC{plans: []model.Plan{{ID: "free", Name: "Free"}, {ID: "pro", Name: "Pro", PriceCents: 999}}}
	srv := newTestServer(nil, nil, plan)

	rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/plans", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Plans []model.Plan `json:"plans"`
	}
	decodeBody(t, rec, &body)
	if len(body.Plans) != 2 || body.Plans[1].ID != "pro" {
		t.Errorf("unexpected plans body: %+v", body)
	}
}

func TestHistoryHandler(t *testing.T) {
	auth := NewAuthManager(testSecret, time.Hour)
	token, _ := auth.Mint("user-1")

	t.Run("requires a session", func(t *testing.T) {
		srv := newTestServer(nil, nil, nil)
		rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/tasks/history", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("serves recent entries", func(t *testing.T) {
		srv := newTestServer(&mockTrackUC{
			HistoryFunc: func(ctx context.Context, limit int) ([]*model.TaskLogEntry, error) {
				return []*model.TaskLogEntry{{TaskID: "t1", Provider: "tiktok", Status: model.TaskStatusCompleted}}, nil
			},
		}, nil, nil)
		rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/tasks/history?limit=10", token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			Entries []*model.TaskLogEntry `json:"entries"`
		}
		decodeBody(t, rec, &body)
		if len(body.Entries) != 1 || body.Entries[0].TaskID != "t1" {
			t.Errorf("unexpected history body: %+v", body)
		}
	})
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(nil, nil, nil)
	rec := doRequest(t, srv.Routes(), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestListTasksHandler(t *testing.T) {
	srv := newTestServer(&mockTrackUC{
		TasksFunc: func(ctx context.Context) []model.Task {
			return []model.Task{{TaskID: "t1", Status: model.TaskStatusProcessing, Progress: 30}}
		},
	}, nil, nil)

	rec := doRequest(t, srv.Routes(), http.MethodGet, "/api/v1/tasks", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Tasks []model.Task `json:"tasks"`
	}
	decodeBody(t, rec, &body)
	if len(body.Tasks) != 1 || body.Tasks[0].TaskID != "t1" {
		t.Errorf("unexpected tasks body: %+v", body)
	}
}
