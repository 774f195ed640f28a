package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/uptime/internal/auth"
	"github.com/hamed0406/uptime/internal/httpapi/middleware"
	"github.com/hamed0406/uptime/internal/repo"
	"github.com/hamed0406/uptime/internal/store"
)

type Server struct {
	Log  *zap.Logger
	Repo *repo.Repository
	Auth *auth.Authority
}

func NewServer(l *zap.Logger, r *repo.Repository, a *auth.Authority) *Server {
	return &Server{Log: l, Repo: r, Auth: a}
}

func (s *Server) Router(rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(rpm, burst))
	r.Use(middleware.WithToken)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Get("/", s.handleGetUser)
		r.Put("/", s.handleUpdateUser)
		r.Delete("/", s.handleDeleteUser)
	})
	r.Route("/tokens", func(r chi.Router) {
		r.Post("/", s.handleIssueToken)
		r.Get("/", s.handleGetToken)
		r.Put("/", s.handleExtendToken)
		r.Delete("/", s.handleRevokeToken)
	})
	r.Route("/checks", func(r chi.Router) {
		r.Post("/", s.handleCreateCheck)
		r.Get("/", s.handleGetCheck)
		r.Put("/", s.handleUpdateCheck)
		r.Delete("/", s.handleDeleteCheck)
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeErr translates the error taxonomy to a status code. Corrupt records
// and integrity conflicts are logged loudly so operators can tell "data
// damaged" apart from an ordinary miss.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrInvalidInput):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, repo.ErrQuotaExceeded):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, auth.ErrExpired):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "token has expired and cannot be extended"})
	case errors.Is(err, auth.ErrUnauthorized):
		s.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
	case errors.Is(err, repo.ErrUnauthorized):
		s.writeJSON(w, http.StatusForbidden, errorBody{Error: "missing or invalid token"})
	case errors.Is(err, store.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, store.ErrExists):
		s.writeJSON(w, http.StatusConflict, errorBody{Error: "already exists"})
	case errors.Is(err, store.ErrCorrupt):
		s.Log.Error("record_corrupt", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "record damaged"})
	case errors.Is(err, repo.ErrConflict):
		s.Log.Error("integrity_conflict", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "data integrity fault"})
	default:
		s.Log.Error("internal_error", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return repo.ErrInvalidInput
	}
	return nil
}
