package httpapp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/openboard-dev/openboard/internal/auth"
	"github.com/openboard-dev/openboard/internal/model"
	"github.com/openboard-dev/openboard/internal/store"

	"github.com/julienschmidt/httprouter"
)

const postsPerPage = 10

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		s.writeDomainError(w, r, auth.ErrMissingCredential)
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing title or content"))
		return
	}

	now := time.Now()
	post := model.Post{
		Title:       req.Title,
		Content:     req.Content,
		AccountID:   principal.UserID,
		AccountName: principal.Account,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.store.CreatePost(r.Context(), &post)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	post.ID = id
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pageStr := r.URL.Query().Get("page")
	if pageStr == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing page"))
		return
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid page"))
		return
	}
	posts, err := s.store.ListPosts(r.Context(), store.PostListOpts{Page: page, PerPage: postsPerPage})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	idStr := ps.ByName("id")
	if idStr == "count" {
		s.handleCountPosts(w, r)
		return
	}
	id, err := parseID(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (s *Server) handleCountPosts(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountPosts(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": count})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		s.writeDomainError(w, r, auth.ErrMissingCredential)
		return
	}

	id, err := parseID(ps.ByName("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	if req.Title == "" && req.Content == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing title and content"))
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := auth.AuthorizeMutation(principal, post); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	// Omitted fields keep their stored values.
	title := req.Title
	if title == "" {
		title = post.Title
	}
	content := req.Content
	if content == "" {
		content = post.Content
	}

	if err := s.store.UpdatePost(r.Context(), id, title, content); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	updated, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": updated})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		s.writeDomainError(w, r, auth.ErrMissingCredential)
		return
	}

	id, err := parseID(ps.ByName("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := auth.AuthorizeMutation(principal, post); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.store.DeletePost(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}
