package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"hobbymatch-api/internal/database"
	"hobbymatch-api/internal/models"
	"hobbymatch-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenChatRequest represents the request payload for opening a chat
type OpenChatRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// SendMessageRequest represents the request payload for sending a message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// chatBetween finds the direct chat for a user pair in either column order.
func chatBetween(userA, userB string) (models.Chat, error) {
	var chat models.Chat
	err := database.GetDB().
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)",
			userA, userB, userB, userA).
		First(&chat).Error
	return chat, err
}

func isChatParticipant(chat models.Chat, userID string) bool {
	return chat.UserAID == userID || chat.UserBID == userID
}

/*
*
OpenChat handles POST /api/chats
Finds or creates the direct chat between the authenticated user and userId.
*/
func OpenChat(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req OpenChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	if req.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open a chat with yourself"})
		return
	}

	var other models.User
	if err := database.GetDB().Where("id = ?", req.UserID).First(&other).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return
	}

	chat, err := chatBetween(userID, req.UserID)
	if err == nil {
		c.JSON(http.StatusOK, chat)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat"})
		return
	}

	chat = models.Chat{
		ID:      uuid.NewString(),
		UserAID: userID,
		UserBID: req.UserID,
	}
	if err := database.GetDB().Create(&chat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
		return
	}

	c.JSON(http.StatusCreated, chat)
}

/*
*
GetChats handles GET /api/chats
Returns the authenticated user's chats with the other participant's card
and the latest message.
*/
func GetChats(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var chats []models.Chat
	if err := database.GetDB().
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&chats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
		return
	}

	type chatResponse struct {
		ID          string          `json:"id"`
		User        ProfileCard     `json:"user"`
		LastMessage *models.Message `json:"lastMessage"`
	}

	resp := make([]chatResponse, 0, len(chats))
	for _, chat := range chats {
		otherID := chat.UserAID
		if otherID == userID {
			otherID = chat.UserBID
		}
		var other models.User
		if err := database.GetDB().Preload("Hobbies").Where("id = ?", otherID).First(&other).Error; err != nil {
			continue
		}

		item := chatResponse{ID: chat.ID, User: toProfileCard(other)}
		var last models.Message
		if err := database.GetDB().
			Where("chat_id = ?", chat.ID).
			Order("created_at desc").
			First(&last).Error; err == nil {
			item.LastMessage = &last
		}
		resp = append(resp, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"chats": resp,
		"count": len(resp),
	})
}

/*
*
GetMessages handles GET /api/chats/:id/messages
Returns the chat history, newest page first.
Query params: page (default 1), limit (default 20), sort (asc|desc, default desc).
*/
func GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	chatID := c.Param("id")
	var chat models.Chat
	if err := database.GetDB().Where("id = ?", chatID).First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat"})
		}
		return
	}
	if !isChatParticipant(chat, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this chat"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	order := "created_at desc"
	if strings.ToLower(c.DefaultQuery("sort", "desc")) == "asc" {
		order = "created_at asc"
	}

	var total int64
	if err := database.GetDB().Model(&models.Message{}).Where("chat_id = ?", chatID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count messages"})
		return
	}

	var messages []models.Message
	if err := database.GetDB().
		Where("chat_id = ?", chatID).
		Order(order).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

/*
*
SendMessage handles POST /api/chats/:id/messages
Persists the message, then pushes new-message to the chat room and a
notification to the other participant. The write succeeds even when no
realtime delivery happens.
*/
func SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	chatID := c.Param("id")
	var chat models.Chat
	if err := database.GetDB().Where("id = ?", chatID).First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat"})
		}
		return
	}
	if !isChatParticipant(chat, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this chat"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	message := models.Message{
		ID:       uuid.NewString(),
		ChatID:   chatID,
		SenderID: userID,
		Content:  req.Content,
	}
	if err := database.GetDB().Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	// Touch the chat so the chat list sorts by activity
	database.GetDB().Model(&chat).Update("updated_at", message.CreatedAt)

	realtime.ToChat(chatID, realtime.EventNewMessage, message)

	otherID := chat.UserAID
	if otherID == userID {
		otherID = chat.UserBID
	}
	var sender models.User
	if err := database.GetDB().Where("id = ?", userID).First(&sender).Error; err == nil {
		notification := models.Notification{
			ID:      uuid.NewString(),
			UserID:  otherID,
			Type:    models.NotificationMessage,
			Message: fmt.Sprintf("New message from %s", sender.DisplayName),
		}
		if err := database.GetDB().Create(&notification).Error; err == nil {
			realtime.ToUser(otherID, realtime.EventNotification, notification)
		}
	}

	c.JSON(http.StatusCreated, message)
}
