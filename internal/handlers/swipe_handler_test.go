package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"hobbymatch-api/internal/database"
	"hobbymatch-api/internal/middleware"
	"hobbymatch-api/internal/models"
	"hobbymatch-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func swipeRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", middleware.JWTAuthMiddleware())
	api.POST("/swipes", CreateSwipe)
	api.GET("/matches", GetMatches)
	return r
}

func TestCreateSwipe_LikeNotifiesTarget(t *testing.T) {
	setupTestDB(t)
	realtime.ResetHub()
	defer realtime.ResetHub()

	hub := realtime.NewHub()
	realtime.SetHub(hub)

	_, tokenA := createTestUser(t, "alice")
	userB, _ := createTestUser(t, "bob")

	bobClient := &testClient{}
	hub.Register(bobClient)
	hub.Join(realtime.UserRoom(userB.ID), bobClient)

	r := swipeRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/swipes", tokenA, map[string]any{
		"targetId": userB.ID,
		"liked":    true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Matched bool `json:"matched"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Matched)

	// Bob got both the notification and the new-like event
	require.Contains(t, bobClient.eventNames(t), realtime.EventNotification)
	require.Contains(t, bobClient.eventNames(t), realtime.EventNewLike)

	var notifications []models.Notification
	require.NoError(t, database.GetDB().Where("user_id = ?", userB.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationLike, notifications[0].Type)
}

func TestCreateSwipe_MutualLikeCreatesMatchAndChat(t *testing.T) {
	setupTestDB(t)
	realtime.ResetHub()
	defer realtime.ResetHub()
	realtime.SetHub(realtime.NewHub())

	userA, tokenA := createTestUser(t, "alice")
	userB, tokenB := createTestUser(t, "bob")

	r := swipeRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/swipes", tokenA, map[string]any{"targetId": userB.ID, "liked": true})
	require.Equal(t, http.StatusCreated, w.Code)

	w = authedJSON(t, r, http.MethodPost, "/api/swipes", tokenB, map[string]any{"targetId": userA.ID, "liked": true})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Matched bool         `json:"matched"`
		Match   models.Match `json:"match"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Matched)
	require.NotEmpty(t, resp.Match.ChatID)

	var chat models.Chat
	require.NoError(t, database.GetDB().Where("id = ?", resp.Match.ChatID).First(&chat).Error)

	// Both sides see the match
	w = authedJSON(t, r, http.MethodGet, "/api/matches", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var matches struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
	require.Equal(t, 1, matches.Count)
}

func TestCreateSwipe_PassDoesNotNotify(t *testing.T) {
	setupTestDB(t)
	realtime.ResetHub()
	defer realtime.ResetHub()
	realtime.SetHub(realtime.NewHub())

	_, tokenA := createTestUser(t, "alice")
	userB, _ := createTestUser(t, "bob")

	r := swipeRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/swipes", tokenA, map[string]any{"targetId": userB.ID, "liked": false})
	require.Equal(t, http.StatusCreated, w.Code)

	var notifications []models.Notification
	require.NoError(t, database.GetDB().Where("user_id = ?", userB.ID).Find(&notifications).Error)
	require.Empty(t, notifications)
}

func TestCreateSwipe_DuplicateRejected(t *testing.T) {
	setupTestDB(t)
	realtime.ResetHub()
	defer realtime.ResetHub()
	realtime.SetHub(realtime.NewHub())

	_, tokenA := createTestUser(t, "alice")
	userB, _ := createTestUser(t, "bob")

	r := swipeRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/swipes", tokenA, map[string]any{"targetId": userB.ID, "liked": true})
	require.Equal(t, http.StatusCreated, w.Code)

	w = authedJSON(t, r, http.MethodPost, "/api/swipes", tokenA, map[string]any{"targetId": userB.ID, "liked": false})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateSwipe_SelfRejected(t *testing.T) {
	setupTestDB(t)
	userA, tokenA := createTestUser(t, "alice")

	r := swipeRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/swipes", tokenA, map[string]any{"targetId": userA.ID, "liked": true})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSwipe_UnknownTarget(t *testing.T) {
	setupTestDB(t)
	_, tokenA := createTestUser(t, "alice")

	r := swipeRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/swipes", tokenA, map[string]any{"targetId": "nope", "liked": true})
	require.Equal(t, http.StatusNotFound, w.Code)
}
