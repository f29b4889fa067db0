package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/server/auth"
	"github.com/dmitrijs2005/yardcms/internal/server/content"
	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.logger.Error(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "store unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) getContent(w http.ResponseWriter, r *http.Request) {
	live, err := s.content.Live(r.Context())
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "content not found"})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, live)
}

func (s *HTTPServer) updateContent(w http.ResponseWriter, r *http.Request) {
	var req content.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.content.Update(r.Context(), req); err != nil {
		s.writeError(w, r, err)
		return
	}

	username, _ := auth.UsernameFromContext(r.Context())
	s.logger.Info(r.Context(), "Content updated", "username", username)
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Content updated successfully"})
}

func (s *HTTPServer) contentHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.content.History(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{History: history})
}

func (s *HTTPServer) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.content.Snapshot(r.Context(), chi.URLParam(r, "timestamp"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "snapshot not found"})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *HTTPServer) revertContent(w http.ResponseWriter, r *http.Request) {
	var req content.RevertRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ts, err := s.content.Revert(r.Context(), req.Timestamp)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "snapshot not found"})
			return
		}
		s.writeError(w, r, err)
		return
	}

	username, _ := auth.UsernameFromContext(r.Context())
	s.logger.Info(r.Context(), "Content reverted", "username", username, "timestamp", ts)
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Content reverted to " + ts})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			s.logger.Warn(r.Context(), "Failed login", "username", req.Username)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		s.writeError(w, r, err)
		return
	}

	auth.SetTokenCookie(w, token, s.users.SessionValidity(), s.cookie)
	s.logger.Info(r.Context(), "Logged in", "username", req.Username)
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Logged in successfully"})
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, s.cookie)
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Logged out successfully"})
}

func (s *HTTPServer) checkAuth(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())
	writeJSON(w, http.StatusOK, authResponse{Authenticated: true, Username: username})
}
