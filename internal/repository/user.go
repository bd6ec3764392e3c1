package repository

import (
	"context"

	"todoapp/internal/logger"
	"todoapp/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("creating user (repo)", zap.String("username", user.Username), zap.String("email", user.Email))
	query := `
	INSERT INTO users (username, email, first_name, last_name, password_hash, role, is_active, phone_number)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.PhoneNumber,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.Log.Error("creating user failed (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	logger.Log.Debug("checking username uniqueness (repo)", zap.String("username", username))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		logger.Log.Error("username check failed (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("checking email uniqueness (repo)", zap.String("email", email))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("email check failed (repo)", zap.Error(err))
	}
	return exists, err
}

const userColumns = `id, username, email, first_name, last_name, password_hash, role, is_active, phone_number, created_at, updated_at`

func (r *UserRepository) scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.PhoneNumber,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	logger.Log.Debug("fetching user by username (repo)", zap.String("username", username))
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	logger.Log.Debug("fetching user by id (repo)", zap.Int("user_id", id))
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("fetching user by email (repo)", zap.String("email", email))
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	logger.Log.Info("updating password hash (repo)", zap.Int("user_id", userID))
	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		logger.Log.Error("password update failed (repo)", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}
