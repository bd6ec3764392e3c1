package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"todoapp/internal/logger"
	"todoapp/internal/models"
	"todoapp/internal/reqctx"
	"todoapp/internal/services"
	helpers "todoapp/internal/utils/helpers"
	"todoapp/internal/validation"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	jwtSecret   string
	accessTTL   time.Duration
}

func NewAuthHandler(authService *services.AuthService, jwtSecret string, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   jwtSecret,
		accessTTL:   accessTTL,
	}
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Registration data"
// @Success 201 {object} models.UserProfileResponse
// @Failure 400 {object} helpers.Response "Validation error or duplicate username/email"
// @Failure 500 {object} helpers.Response
// @Router /auth/ [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON in Register", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if details := validation.Struct(req); details != nil {
		log.Warn("validation failed in Register", zap.Any("details", details))
		helpers.JSON(w, http.StatusBadRequest, map[string]any{"details": details})
		return
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
	}

	err := h.authService.RegisterUser(r.Context(), user, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrUsernameTaken):
			log.Warn("registration conflict", zap.String("username", req.Username), zap.Error(err))
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("registration failed", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "could not create user")
		}
		return
	}

	helpers.JSON(w, http.StatusCreated, user.Profile())
}

// Login godoc
// @Summary Issue an access token
// @Description Accepts form fields username and password and returns a bearer token.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} helpers.Response "Bad credentials"
// @Router /auth/token [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		log.Warn("invalid form in Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid form data")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.authService.LoginUser(r.Context(), username, password, h.jwtSecret, h.accessTTL)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// same response whether the user is unknown, inactive or the
			// password is wrong
			helpers.Error(w, http.StatusUnauthorized, "could not validate user")
			return
		}
		log.Error("login failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	// token endpoints conventionally answer with a bare OAuth2-style object
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Profile godoc
// @Summary Current user profile
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.UserProfileResponse
// @Failure 401 {object} helpers.Response
// @Router /auth/me [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Warn("profile lookup failed", zap.Int("user_id", userID), zap.Error(err))
		helpers.Error(w, http.StatusNotFound, "user not found")
		return
	}

	helpers.JSON(w, http.StatusOK, user.Profile())
}
