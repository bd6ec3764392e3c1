package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoapp/internal/reqctx"
	"todoapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "testsecret"

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := reqctx.GetUserID(r.Context())
		require.True(t, ok)
		role, _ := reqctx.GetRole(r.Context())
		w.Header().Set("X-Test-Role", role)
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "alice", 7, "user", 30*time.Minute)
	require.NoError(t, err)

	handler := JWTAuth(testSecret)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", rec.Header().Get("X-Test-Role"))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	handler := JWTAuth(testSecret)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "alice", 7, "user", -time.Minute)
	require.NoError(t, err)

	handler := JWTAuth(testSecret)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	token, err := utils.GenerateToken("othersecret", "alice", 7, "user", 30*time.Minute)
	require.NoError(t, err)

	handler := JWTAuth(testSecret)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOnlyRole_Admin(t *testing.T) {
	adminToken, err := utils.GenerateToken(testSecret, "root", 1, "admin", 30*time.Minute)
	require.NoError(t, err)
	userToken, err := utils.GenerateToken(testSecret, "alice", 7, "user", 30*time.Minute)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTAuth(testSecret)(OnlyRole("admin")(ok))

	req := httptest.NewRequest(http.MethodGet, "/admin/todos", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/todos", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
