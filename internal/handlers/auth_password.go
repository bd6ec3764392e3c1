package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"todoapp/internal/logger"
	"todoapp/internal/reqctx"
	"todoapp/internal/services"
	helpers "todoapp/internal/utils/helpers"
	"todoapp/internal/validation"

	"go.uber.org/zap"
)

type PasswordHandler struct {
	svc *services.PasswordService
}

func NewPasswordHandler(svc *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

type forgotReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetReq struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type changeReq struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

const genericResetMessage = "If an account with that email exists, a password reset link has been sent."

// Forgot godoc
// @Summary Request a password reset
// @Description Sends an email with a reset link. The response is the same whether or not the email is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body forgotReq true "Account email"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Failure 500 {object} helpers.Response "Email delivery failed"
// @Router /auth/forgot-password [post]
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req forgotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid payload in Forgot")
		helpers.Error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if details := validation.Struct(req); details != nil {
		helpers.JSON(w, http.StatusBadRequest, map[string]any{"details": details})
		return
	}

	if err := h.svc.RequestReset(r.Context(), req.Email); err != nil {
		log.Error("password reset request failed", zap.String("email_masked", maskEmail(req.Email)), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "failed to send password reset email, please try again later")
		return
	}

	log.Info("password reset requested", zap.String("email_masked", maskEmail(req.Email)))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": genericResetMessage})
}

// Reset godoc
// @Summary Reset the password with an emailed token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body resetReq true "Token and new password"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Invalid or expired token"
// @Failure 404 {object} helpers.Response "Token owner no longer exists"
// @Router /auth/reset-password [post]
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid payload in Reset")
		helpers.Error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if details := validation.Struct(req); details != nil {
		helpers.JSON(w, http.StatusBadRequest, map[string]any{"details": details})
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrTokenInvalid), errors.Is(err, services.ErrPasswordTooShort):
			log.Warn("password reset rejected", zap.Error(err))
			helpers.Error(w, http.StatusBadRequest, "invalid or expired token")
		case errors.Is(err, services.ErrUserNotFound):
			helpers.Error(w, http.StatusNotFound, "user not found")
		default:
			log.Error("password reset failed", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "could not reset password")
		}
		return
	}

	log.Info("password reset completed")
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully."})
}

// Change godoc
// @Summary Change the password of the authenticated user
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body changeReq true "Current and new password"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response "Wrong current password"
// @Failure 404 {object} helpers.Response
// @Router /auth/change-password [post]
func (h *PasswordHandler) Change(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, ok := reqctx.GetUserID(r.Context())
	if !ok || userID == 0 {
		log.Warn("Change without user_id in context")
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid payload in Change", zap.Int("user_id", userID))
		helpers.Error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if details := validation.Struct(req); details != nil {
		helpers.JSON(w, http.StatusBadRequest, map[string]any{"details": details})
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			helpers.Error(w, http.StatusNotFound, "user not found")
		case errors.Is(err, services.ErrWrongPassword):
			helpers.Error(w, http.StatusUnauthorized, "invalid current password")
		case errors.Is(err, services.ErrPasswordTooShort):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("password change failed", zap.Int("user_id", userID), zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "could not change password")
		}
		return
	}

	log.Info("password changed", zap.Int("user_id", userID))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Password has been changed successfully."})
}

func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
