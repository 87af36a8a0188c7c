// Package httpapp provides the HTTP API for OpenBoard.
package httpapp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openboard-dev/openboard/internal/auth"
	"github.com/openboard-dev/openboard/internal/config"
	"github.com/openboard-dev/openboard/internal/logutil"
	"github.com/openboard-dev/openboard/internal/store"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

type Server struct {
	store   store.Store
	auth    *auth.Service
	cfg     config.Config
	handler http.Handler
}

func NewServer(st store.Store, authSvc *auth.Service, cfg config.Config) *Server {
	s := &Server{store: st, auth: authSvc, cfg: cfg}

	r := httprouter.New()
	r.POST("/api/users", s.handleRegister)
	r.POST("/api/auth", s.handleLogin)
	r.GET("/api/users/me", s.requireAuth(s.handleMe))

	r.POST("/api/posts", s.requireAuth(s.handleCreatePost))
	r.GET("/api/posts", s.handleListPosts)
	// httprouter cannot register /api/posts/count next to a wildcard,
	// so handleGetPost also serves the count endpoint.
	r.GET("/api/posts/:id", s.handleGetPost)
	r.PUT("/api/posts/:id", s.requireAuth(s.handleUpdatePost))
	r.DELETE("/api/posts/:id", s.requireAuth(s.handleDeletePost))

	r.POST("/api/comments", s.requireAuth(s.handleCreateComment))
	r.GET("/api/comments", s.handleListComments)
	r.GET("/api/comments/:id", s.handleGetComment)
	r.PUT("/api/comments/:id", s.requireAuth(s.handleUpdateComment))
	r.DELETE("/api/comments/:id", s.requireAuth(s.handleDeleteComment))

	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})

	s.handler = s.requestLogger(s.withTimeout(r))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// requireAuth is the request authenticator: it resolves the bearer
// credential into a Principal and attaches it to the request context,
// or rejects without ever invoking the handler.
func (s *Server) requireAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		principal, err := s.auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		next(w, r.WithContext(ctx), ps)
	}
}

func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timeout := s.cfg.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logutil.GetOrDefault(r.Context()).With().
			Str("req.id", uuid.NewString()).
			Str("req.method", r.Method).
			Str("req.path", r.URL.Path).
			Logger()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logutil.WithLogger(r.Context(), logger)))
		logger.Info().
			Int("resp.status", rec.status).
			Dur("resp.duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
