package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/register", Register)
	r.POST("/api/login", Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/api/register", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.UserID)
	require.Equal(t, "alice", resp.Username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/api/register", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/register", map[string]string{"username": "alice", "password": "password456"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/api/register", map[string]string{"username": "alice", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/api/register", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/login", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/api/register", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/login", map[string]string{"username": "alice", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/api/login", map[string]string{"username": "ghost", "password": "password123"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
