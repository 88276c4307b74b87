package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      AuthService
}

func newAuthHandler(auth AuthService, production bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder: NewResponder(logger, production),
		logger:    logger,
		auth:      auth,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login exchanges credentials for a token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} Envelope "Token and user"
// @Failure 401 {object} Envelope "Invalid credentials"
// @Failure 423 {object} Envelope "Account locked"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, "login request", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		res, err := h.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errs.IsAccountLockedError(err):
				h.logger.Warn().Str("remoteAddr", r.RemoteAddr).Msg("Login attempt on locked account")
			case errs.IsInvalidCredentialsError(err):
				h.logger.Info().Str("remoteAddr", r.RemoteAddr).Msg("Login rejected")
			}
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "Login successful", res)
	}
}

func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.auth.Me(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", user)
	}
}

func (h authHandler) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.ChangePasswordInput
		if err := decodeJSON(w, r, "password change", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.auth.ChangePassword(r.Context(), userID, in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "Password changed successfully", nil)
	}
}
