package services

import (
	"context"
	"errors"
	"time"

	"todoapp/internal/logger"
	"todoapp/internal/models"
	"todoapp/internal/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	repo UserRepo
}

func NewAuthService(repo UserRepo) *AuthService {
	return &AuthService{repo: repo}
}

type UserRepo interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
}

// RegisterUser creates an active user with a freshly hashed password.
// Email is checked before username, and the unique indexes backstop both
// checks, so a failed insert leaves the store unchanged.
func (s *AuthService) RegisterUser(ctx context.Context, input *models.User, plainPassword string) error {
	logger.Log.Info("registering user (service)", zap.String("username", input.Username), zap.String("email", input.Email))

	if exists, err := s.repo.IsEmailTaken(ctx, input.Email); err != nil {
		logger.Log.Error("email check failed (service)", zap.Error(err))
		return err
	} else if exists {
		return ErrEmailTaken
	}
	if exists, err := s.repo.IsUsernameTaken(ctx, input.Username); err != nil {
		logger.Log.Error("username check failed (service)", zap.Error(err))
		return err
	} else if exists {
		return ErrUsernameTaken
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		logger.Log.Error("password hashing failed (service)", zap.Error(err))
		return err
	}

	input.PasswordHash = hashed
	input.IsActive = true
	if input.Role == "" {
		input.Role = "user"
	}

	if err := s.repo.CreateUser(ctx, input); err != nil {
		logger.Log.Error("creating user failed (service)", zap.Error(err))
		return err
	}
	logger.Log.Info("user registered (service)", zap.String("username", input.Username), zap.Int("user_id", input.ID))
	return nil
}

// Authenticate returns nil for an unknown username, an inactive user or a
// wrong password. The three cases are indistinguishable to the caller and
// none of them has side effects.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Log.Warn("login attempt for unknown user (service)", zap.String("username", username))
			return nil, nil
		}
		return nil, err
	}

	if !user.IsActive {
		logger.Log.Warn("login attempt for inactive user (service)", zap.String("username", username))
		return nil, nil
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("wrong password (service)", zap.String("username", username))
		return nil, nil
	}

	return user, nil
}

// LoginUser authenticates and issues an access token embedding subject, user
// id and role.
func (s *AuthService) LoginUser(ctx context.Context, username, password, jwtSecret string, accessTTL time.Duration) (string, error) {
	logger.Log.Info("login attempt (service)", zap.String("username", username))

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		logger.Log.Error("authentication failed (service)", zap.Error(err))
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(jwtSecret, user.Username, user.ID, user.Role, accessTTL)
	if err != nil {
		logger.Log.Error("access token generation failed (service)", zap.Error(err))
		return "", err
	}

	logger.Log.Info("login succeeded (service)", zap.String("username", username), zap.Int("user_id", user.ID))
	return token, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Warn("user not found by id (service)", zap.Int("user_id", id), zap.Error(err))
	}
	return user, err
}
