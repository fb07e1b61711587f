package handlers

import (
	"net/http"
	"time"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/utils"
)

// AuthHandler handles registration, login and account maintenance routes.
type AuthHandler struct {
	authService  AuthManager
	tokenExpiry  time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthManager, tokenExpiry time.Duration, secureCookie bool) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService:  authService,
		tokenExpiry:  tokenExpiry,
		secureCookie: secureCookie,
	}
}

// setSessionCookie delivers the session token as an HTTP-only cookie. The
// same token also travels in the response body, so cookie-less clients can
// use the Authorization header instead.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.tokenExpiry.Seconds()),
		Expires:  time.Now().Add(h.tokenExpiry),
	})
}

// clearSessionCookie expires the session cookie.
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// Register handles user registration. A successful registration logs the
// user in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.UserRegistration
	if err := utils.DecodeAndValidate(r, &reg); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, token, err := h.authService.RegisterUser(r.Context(), &reg)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	h.setSessionCookie(w, token)
	utils.JSONWithToken(w, http.StatusCreated, user, token)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.UserCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, token, err := h.authService.AuthenticateUser(r.Context(), &creds)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	h.setSessionCookie(w, token)
	utils.JSONWithToken(w, http.StatusOK, user, token)
}

// Logout clears the session cookie. Tokens are stateless, so a client
// holding the raw token simply stops using it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	user, err := h.authService.GetCurrentUser(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// UpdateDetails changes the authenticated user's name and/or email
func (h *AuthHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	var update models.UserUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, err := h.authService.UpdateDetails(r.Context(), userID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// UpdatePassword changes the authenticated user's password and rotates the
// session token.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	var update models.PasswordUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	token, err := h.authService.UpdatePassword(r.Context(), userID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	h.setSessionCookie(w, token)
	utils.JSONWithToken(w, http.StatusOK, map[string]string{"message": "Password updated"}, token)
}
