package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/web"
)

// RegisterHTTP mounts the auth endpoints. Login and register are public;
// everything else on the site sits behind the session middleware.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Post("/accounts/register", s.handleRegister)
	r.Post("/accounts/login", s.handleLogin)
	r.Post("/accounts/logout", s.handleLogout)
	r.Get("/accounts/me", s.handleMe)
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			web.Error(w, http.StatusConflict, "username already taken")
		case errors.Is(err, ErrInvalidCredentials):
			web.Error(w, http.StatusBadRequest, "username and password are required")
		default:
			web.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	web.JSON(w, http.StatusCreated, u)
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		web.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	sess, err := s.CreateSession(r.Context(), u.ID)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
	SetSessionCookie(w, sess, secure)
	web.JSON(w, http.StatusOK, u)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sid := kit.GetSessionID(r.Context()); sid != "" {
		s.DeleteSession(r.Context(), sid)
	}
	ClearSessionCookie(w)
	web.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if kit.GetUserID(ctx) == "" {
		web.Error(w, http.StatusUnauthorized, "login required")
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"id":           kit.GetUserID(ctx),
		"username":     kit.GetUsername(ctx),
		"role":         kit.GetRole(ctx),
		"can_moderate": CanModerate(kit.GetRole(ctx)),
	})
}
