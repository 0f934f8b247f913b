package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"hobbymatch-api/internal/auth"
	"hobbymatch-api/internal/database"
	"hobbymatch-api/internal/models"
	"hobbymatch-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// authedJSON performs a request with a bearer token and optional JSON payload.
func authedJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// setupTestDB swaps in a fresh in-memory database for one test.
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
}

// createTestUser seeds a user and returns it with a valid token.
func createTestUser(t *testing.T, username string) (models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		ID:          uuid.NewString(),
		Username:    username,
		Password:    string(hash),
		DisplayName: username,
	}
	require.NoError(t, database.GetDB().Create(&user).Error)

	token, err := auth.GenerateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

// testClient records hub deliveries so handler tests can assert on
// realtime fan-out.
type testClient struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *testClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return true
}

func (c *testClient) Close() {}

type receivedEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (c *testClient) events(t *testing.T) []receivedEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]receivedEvent, 0, len(c.messages))
	for _, raw := range c.messages {
		var env receivedEvent
		require.NoError(t, json.Unmarshal(raw, &env))
		out = append(out, env)
	}
	return out
}

func (c *testClient) eventNames(t *testing.T) []string {
	t.Helper()
	names := []string{}
	for _, e := range c.events(t) {
		names = append(names, e.Event)
	}
	return names
}
