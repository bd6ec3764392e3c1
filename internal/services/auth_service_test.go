package services

import (
	"context"
	"testing"
	"time"

	"todoapp/internal/models"
	"todoapp/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// map-backed stand-in for the user repository
type mockUserRepo struct {
	users       map[string]*models.User
	nextID      int
	createCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	_, exists := m.users[username]
	return exists, nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	m.createCalls++
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID int, passwordHash string) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return pgx.ErrNoRows
}

func registeredUser(t *testing.T, repo *mockUserRepo, username, email, password string) *models.User {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)
	repo.nextID++
	u := &models.User{
		ID:           repo.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         "user",
		IsActive:     true,
	}
	repo.users[username] = u
	return u
}

func TestRegisterUser_ThenLogin(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	user := &models.User{
		Username:  "alice",
		Email:     "alice@x.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Role:      "user",
	}

	err := service.RegisterUser(context.Background(), user, "password1")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password1", user.PasswordHash)

	token, err := service.LoginUser(context.Background(), "alice", "password1", "mysecret", 30*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := utils.ParseToken("mysecret", token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)
	registeredUser(t, repo, "alice", "alice@x.com", "password1")

	err := service.RegisterUser(context.Background(), &models.User{
		Username: "bob",
		Email:    "alice@x.com",
	}, "password1")

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Zero(t, repo.createCalls)
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)
	registeredUser(t, repo, "alice", "alice@x.com", "password1")

	err := service.RegisterUser(context.Background(), &models.User{
		Username: "alice",
		Email:    "other@x.com",
	}, "password1")

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Zero(t, repo.createCalls)
}

func TestLoginUser_BadCredentialsIndistinguishable(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)
	registeredUser(t, repo, "alice", "alice@x.com", "password1")

	_, errWrongPassword := service.LoginUser(context.Background(), "alice", "wrong", "mysecret", 30*time.Minute)
	_, errUnknownUser := service.LoginUser(context.Background(), "nobody", "password1", "mysecret", 30*time.Minute)

	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword, errUnknownUser)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)
	u := registeredUser(t, repo, "alice", "alice@x.com", "password1")
	u.IsActive = false

	user, err := service.Authenticate(context.Background(), "alice", "password1")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLoginToken_ExpiryWindow(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)
	registeredUser(t, repo, "alice", "alice@x.com", "password1")

	expired, err := service.LoginUser(context.Background(), "alice", "password1", "mysecret", -time.Second)
	require.NoError(t, err)

	_, err = utils.ParseToken("mysecret", expired)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}
