package handlers

import (
	"errors"
	"geo-photo-game/internal/api/dto"
	"geo-photo-game/internal/api/session"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/services"
	"net/http"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	Auth     *services.AuthService
	Sessions *session.Manager
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	user, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			zerolog.Ctx(r.Context()).Info().Msg("login rejected")
		}
		writeServiceError(w, r, "login", err)
		return
	}

	if err := h.Sessions.Issue(w, user.Email); err != nil {
		writeServiceError(w, r, "login", err)
		return
	}
	writeSuccess(w, r)
}

func (h *AuthHandler) CheckLogin(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	writeJSON(w, r, http.StatusOK, dto.CheckLoginResponse{LoggedIn: s.LoggedIn})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	writeSuccess(w, r)
}

// RequireSession rejects requests without a logged-in session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).LoggedIn {
			writeError(w, r, http.StatusUnauthorized, domain.ErrAccessDenied.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
