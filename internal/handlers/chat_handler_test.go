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

func chatRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", middleware.JWTAuthMiddleware())
	api.GET("/chats", GetChats)
	api.POST("/chats", OpenChat)
	api.GET("/chats/:id/messages", GetMessages)
	api.POST("/chats/:id/messages", SendMessage)
	return r
}

func TestOpenChat_FindOrCreate(t *testing.T) {
	setupTestDB(t)
	_, tokenA := createTestUser(t, "alice")
	userB, _ := createTestUser(t, "bob")

	r := chatRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/chats", tokenA, map[string]string{"userId": userB.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var chat models.Chat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))

	// Opening again returns the same chat
	w = authedJSON(t, r, http.MethodPost, "/api/chats", tokenA, map[string]string{"userId": userB.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var again models.Chat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	require.Equal(t, chat.ID, again.ID)
}

func TestSendMessage_PersistsAndFansOut(t *testing.T) {
	setupTestDB(t)
	realtime.ResetHub()
	defer realtime.ResetHub()

	hub := realtime.NewHub()
	realtime.SetHub(hub)

	_, tokenA := createTestUser(t, "alice")
	userB, _ := createTestUser(t, "bob")

	r := chatRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/chats", tokenA, map[string]string{"userId": userB.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var chat models.Chat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))

	roomClient := &testClient{}
	hub.Register(roomClient)
	hub.Join(realtime.ChatRoom(chat.ID), roomClient)

	bobClient := &testClient{}
	hub.Register(bobClient)
	hub.Join(realtime.UserRoom(userB.ID), bobClient)

	w = authedJSON(t, r, http.MethodPost, "/api/chats/"+chat.ID+"/messages", tokenA, map[string]string{"content": "hi bob"})
	require.Equal(t, http.StatusCreated, w.Code)
	var message models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &message))
	require.Equal(t, "hi bob", message.Content)

	// Chat room got the message, Bob's user room got a notification
	require.Equal(t, []string{realtime.EventNewMessage}, roomClient.eventNames(t))
	require.Contains(t, bobClient.eventNames(t), realtime.EventNotification)

	var stored models.Message
	require.NoError(t, database.GetDB().Where("chat_id = ?", chat.ID).First(&stored).Error)
	require.Equal(t, "hi bob", stored.Content)
}

func TestSendMessage_NonParticipantForbidden(t *testing.T) {
	setupTestDB(t)
	realtime.ResetHub()
	defer realtime.ResetHub()
	realtime.SetHub(realtime.NewHub())

	_, tokenA := createTestUser(t, "alice")
	userB, _ := createTestUser(t, "bob")
	_, tokenC := createTestUser(t, "carol")

	r := chatRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/chats", tokenA, map[string]string{"userId": userB.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var chat models.Chat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))

	w = authedJSON(t, r, http.MethodPost, "/api/chats/"+chat.ID+"/messages", tokenC, map[string]string{"content": "intruding"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetMessages_PaginatedHistory(t *testing.T) {
	setupTestDB(t)
	realtime.ResetHub()
	defer realtime.ResetHub()
	realtime.SetHub(realtime.NewHub())

	_, tokenA := createTestUser(t, "alice")
	userB, tokenB := createTestUser(t, "bob")

	r := chatRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/chats", tokenA, map[string]string{"userId": userB.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var chat models.Chat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))

	for _, content := range []string{"one", "two", "three"} {
		w = authedJSON(t, r, http.MethodPost, "/api/chats/"+chat.ID+"/messages", tokenA, map[string]string{"content": content})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = authedJSON(t, r, http.MethodGet, "/api/chats/"+chat.ID+"/messages?limit=2", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Messages []models.Message `json:"messages"`
		Total    int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	require.Equal(t, int64(3), resp.Total)
}

func TestGetChats_IncludesLastMessage(t *testing.T) {
	setupTestDB(t)
	realtime.ResetHub()
	defer realtime.ResetHub()
	realtime.SetHub(realtime.NewHub())

	_, tokenA := createTestUser(t, "alice")
	userB, tokenB := createTestUser(t, "bob")

	r := chatRouter()
	w := authedJSON(t, r, http.MethodPost, "/api/chats", tokenA, map[string]string{"userId": userB.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var chat models.Chat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))

	w = authedJSON(t, r, http.MethodPost, "/api/chats/"+chat.ID+"/messages", tokenA, map[string]string{"content": "latest"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = authedJSON(t, r, http.MethodGet, "/api/chats", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Chats []struct {
			ID          string          `json:"id"`
			User        ProfileCard     `json:"user"`
			LastMessage *models.Message `json:"lastMessage"`
		} `json:"chats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Chats, 1)
	require.Equal(t, "alice", resp.Chats[0].User.Username)
	require.NotNil(t, resp.Chats[0].LastMessage)
	require.Equal(t, "latest", resp.Chats[0].LastMessage.Content)
}
