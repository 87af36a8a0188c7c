package httpapp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openboard-dev/openboard/internal/auth"
	"github.com/openboard-dev/openboard/internal/model"

	"github.com/julienschmidt/httprouter"
)

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		s.writeDomainError(w, r, auth.ErrMissingCredential)
		return
	}

	var req struct {
		Content string `json:"content"`
		PostID  int64  `json:"postId"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	if strings.TrimSpace(req.Content) == "" || req.PostID <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("missing content or post id"))
		return
	}

	// The target post must exist; a dangling comment is a 404, not a
	// constraint error.
	if _, err := s.store.GetPost(r.Context(), req.PostID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	now := time.Now()
	comment := model.Comment{
		PostID:      req.PostID,
		Content:     req.Content,
		AccountID:   principal.UserID,
		AccountName: principal.Account,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.store.CreateComment(r.Context(), &comment)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	comment.ID = id
	writeJSON(w, http.StatusOK, map[string]any{"comment": comment})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	postID, err := parseID(r.URL.Query().Get("postId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing post id"))
		return
	}
	comments, err := s.store.ListCommentsByPost(r.Context(), postID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps.ByName("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid comment id"))
		return
	}
	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comment": comment})
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		s.writeDomainError(w, r, auth.ErrMissingCredential)
		return
	}

	id, err := parseID(ps.ByName("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid comment id"))
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing content"))
		return
	}

	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := auth.AuthorizeMutation(principal, comment); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.store.UpdateComment(r.Context(), id, req.Content); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	updated, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comment": updated})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		s.writeDomainError(w, r, auth.ErrMissingCredential)
		return
	}

	id, err := parseID(ps.ByName("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid comment id"))
		return
	}

	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := auth.AuthorizeMutation(principal, comment); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.store.DeleteComment(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comment": comment})
}
