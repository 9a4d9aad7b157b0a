package web

import (
	"context"
	"net/http"
	"strings"

	"sample-media-gateway/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	trackUC  usecase.TrackUseCase
	sampleUC usecase.SampleUseCase
	planUC   usecase.PlanUseCase
	auth     *AuthManager
	log      *zerolog.Logger
}

func NewServer(
	trackUC usecase.TrackUseCase,
	sampleUC usecase.SampleUseCase,
	planUC usecase.PlanUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	srvLog := logger.With().Str("component", "Web").Logger()
	return &Server{
		trackUC:  trackUC,
		sampleUC: sampleUC,
		planUC:   planUC,
		auth:     auth,
		log:      &srvLog,
	}
}

// Routes builds the gateway router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(s.log))
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/samples", s.handleListSamples)
		r.Get("/plans", s.handleListPlans)
		r.Get("/tasks", s.handleListTasks)
		r.Get("/process/status/{taskID}", s.handleTaskStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/process/{provider}", s.handleSubmit)
			r.Get("/tasks/history", s.handleHistory)
		})
	})

	return r
}

// session carries the verified credential through the request context. The
// raw token is kept so the submission handler can forward it to the
// backend unchanged.
type session struct {
	token   string
	subject string
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) (session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session)
	return s, ok
}

// requireSession guards the authenticated surface with Bearer/JWT
// verification.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := s.auth.Verify(parts[1])
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, session{
			token:   parts[1],
			subject: claims.Subject,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
