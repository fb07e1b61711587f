package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/utils"
)

// PasswordResetHandler handles the two-step password reset flow.
type PasswordResetHandler struct {
	resetService PasswordResetManager
	tokenExpiry  time.Duration
	secureCookie bool
}

// NewPasswordResetHandler creates a new PasswordResetHandler
func NewPasswordResetHandler(resetService PasswordResetManager, tokenExpiry time.Duration, secureCookie bool) *PasswordResetHandler {
	if resetService == nil {
		panic("resetService cannot be nil")
	}
	return &PasswordResetHandler{
		resetService: resetService,
		tokenExpiry:  tokenExpiry,
		secureCookie: secureCookie,
	}
}

// ForgotPassword issues a reset token and emails it to the account holder.
// An unknown email address is reported as not found.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.resetService.RequestReset(r.Context(), req.Email); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

// ResetPassword redeems a reset token for a new password and logs the user
// in with a fresh session token.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, constants.ParamResetToken)

	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, sessionToken, err := h.resetService.ConsumeReset(r.Context(), token, req.Password)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionTokenCookie,
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.tokenExpiry.Seconds()),
		Expires:  time.Now().Add(h.tokenExpiry),
	})

	utils.JSONWithToken(w, http.StatusOK, user, sessionToken)
}
