package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/infra/backend"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain and backend errors onto HTTP responses. Backend
// rejections pass the server-provided text through with the original
// status code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrRateLimited):
		writeJSONError(w, http.StatusTooManyRequests, "too many submissions, slow down")
	case errors.Is(err, domain.ErrBackendUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "processing backend not configured")
	case errors.As(err, &apiErr):
		writeJSONError(w, apiErr.StatusCode, apiErr.Message)
	default:
		s.log.Error().Err(err).Msg("unhandled error")
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

type submitRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	task, err := s.trackUC.Submit(r.Context(), provider, req.URL, sess.token, sess.subject)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, task)
}

type statusResponse struct {
	Status   model.TaskStatus `json:"status"`
	Message  string           `json:"message,omitempty"`
	Progress *int             `json:"progress,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	st, err := s.trackUC.Status(r.Context(), taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := statusResponse{Status: st.Status, Message: st.Message, Error: st.Error}
	// Progress is only meaningful while processing.
	if st.Status == model.TaskStatusProcessing && st.Progress >= 0 {
		p := st.Progress
		resp.Progress = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	samples, err := s.sampleUC.List(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data   []model.Sample `json:"data"`
		Count  int            `json:"count"`
		Offset int            `json:"offset"`
	}{Data: samples, Count: len(samples), Offset: offset})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.trackUC.Tasks(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Tasks []model.Task `json:"tasks"`
	}{Tasks: tasks})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Plans []model.Plan `json:"plans"`
	}{Plans: plans})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.trackUC.History(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Entries []*model.TaskLogEntry `json:"entries"`
	}{Entries: entries})
}
