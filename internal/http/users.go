package httpapp

import (
	"net/http"

	"github.com/openboard-dev/openboard/internal/auth"

	"github.com/julienschmidt/httprouter"
)

type credentialsRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req credentialsRequest
	if err := readJSON(r.Body, &req); err != nil {
		s.writeDomainError(w, r, auth.ErrInvalidInput)
		return
	}
	token, err := s.auth.Register(r.Context(), req.Account, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req credentialsRequest
	if err := readJSON(r.Body, &req); err != nil {
		s.writeDomainError(w, r, auth.ErrInvalidInput)
		return
	}
	token, err := s.auth.Login(r.Context(), req.Account, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		s.writeDomainError(w, r, auth.ErrMissingCredential)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{"account": principal.Account},
	})
}
