package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/api/shared"
	"github.com/listoapp/listo-api/internal/service"
	"github.com/listoapp/listo-api/internal/service/auth"
)

// AuthHandler handles registration, login, token refresh and the password
// reset flow.
type AuthHandler struct {
	userService  service.UserService
	resetService service.PasswordResetService
	jwtService   auth.JWTService
	validator    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	resetService service.PasswordResetService,
	jwtService auth.JWTService,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		resetService: resetService,
		jwtService:   jwtService,
		validator:    validator.New(),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp, err := h.issueTokens(r, user.ID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, shared.CodeInternalError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp, err := h.issueTokens(r, user.ID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, shared.CodeInternalError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// RefreshToken handles POST /api/auth/refresh. A valid refresh token yields
// a fresh access and refresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp, err := h.issueTokens(r, claims.UserID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", err, "user_id", claims.UserID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, shared.CodeInternalError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// RequestPasswordReset handles POST /api/auth/password-reset. The response
// is 202 regardless of whether the email maps to an account.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	if err := h.resetService.RequestReset(r.Context(), req.Email); err != nil {
		slog.Error("password reset request failed", "error", err)
		// Still 202: the caller learns nothing about account existence.
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]string{
		"message": "Si la dirección existe, recibirás un correo con instrucciones",
	})
}

// ConfirmPasswordReset handles POST /api/auth/password-reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirm
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	if err := h.resetService.ConfirmReset(r.Context(), req.Token, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Contraseña actualizada correctamente",
	})
}

func (h *AuthHandler) issueTokens(r *http.Request, userID uuid.UUID) (AuthResponse, error) {
	token, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		return AuthResponse{}, err
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{UserID: userID, Token: token, RefreshToken: refresh}, nil
}
