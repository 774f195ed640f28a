package httpapi

import (
	"fmt"
	"net/http"

	"github.com/hamed0406/uptime/internal/domain"
	"github.com/hamed0406/uptime/internal/httpapi/middleware"
	"github.com/hamed0406/uptime/internal/repo"
)

// ---- users ----

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var spec repo.UserSpec
	if err := decode(r, &spec); err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.Repo.CreateUser(r.Context(), spec); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"phone": spec.Phone})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	tok := middleware.TokenFrom(r.Context())
	u, err := s.Repo.GetUser(r.Context(), tok, phone)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Phone string `json:"phone"`
		repo.UserPatch
	}
	if err := decode(r, &payload); err != nil {
		s.writeErr(w, err)
		return
	}
	tok := middleware.TokenFrom(r.Context())
	if err := s.Repo.UpdateUser(r.Context(), tok, payload.Phone, payload.UserPatch); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	tok := middleware.TokenFrom(r.Context())
	if err := s.Repo.DeleteUser(r.Context(), tok, phone); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

// ---- tokens ----

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := decode(r, &payload); err != nil {
		s.writeErr(w, err)
		return
	}
	tok, err := s.Auth.Issue(r.Context(), payload.Phone, payload.Password)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tok)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !domain.ValidKey(id) {
		s.writeErr(w, fmt.Errorf("%w: token id must be %d characters", repo.ErrInvalidInput, domain.KeyLength))
		return
	}
	tok, err := s.Auth.Get(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tok)
}

func (s *Server) handleExtendToken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID     string `json:"id"`
		Extend bool   `json:"extend"`
	}
	if err := decode(r, &payload); err != nil {
		s.writeErr(w, err)
		return
	}
	if !payload.Extend || !domain.ValidKey(payload.ID) {
		s.writeErr(w, fmt.Errorf("%w: id and extend=true are required", repo.ErrInvalidInput))
		return
	}
	tok, err := s.Auth.Extend(r.Context(), payload.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tok)
}

func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !domain.ValidKey(id) {
		s.writeErr(w, fmt.Errorf("%w: token id must be %d characters", repo.ErrInvalidInput, domain.KeyLength))
		return
	}
	if err := s.Auth.Revoke(r.Context(), id); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

// ---- checks ----

func (s *Server) handleCreateCheck(w http.ResponseWriter, r *http.Request) {
	var spec domain.CheckSpec
	if err := decode(r, &spec); err != nil {
		s.writeErr(w, err)
		return
	}
	tok := middleware.TokenFrom(r.Context())
	chk, err := s.Repo.CreateCheck(r.Context(), tok, spec)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, chk)
}

func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	tok := middleware.TokenFrom(r.Context())
	chk, err := s.Repo.GetCheck(r.Context(), tok, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, chk)
}

func (s *Server) handleUpdateCheck(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID string `json:"id"`
		domain.CheckPatch
	}
	if err := decode(r, &payload); err != nil {
		s.writeErr(w, err)
		return
	}
	tok := middleware.TokenFrom(r.Context())
	chk, err := s.Repo.UpdateCheck(r.Context(), tok, payload.ID, payload.CheckPatch)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, chk)
}

func (s *Server) handleDeleteCheck(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	tok := middleware.TokenFrom(r.Context())
	if err := s.Repo.DeleteCheck(r.Context(), tok, id); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}
