package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"hobbymatch-api/internal/database"
	"hobbymatch-api/internal/models"
	"hobbymatch-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendRequestRequest represents the request payload for sending a friend request
type FriendRequestRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
}

/*
*
CreateFriendRequest handles POST /api/friend-requests
Sends a friend request; the receiver is notified in realtime and a
notification row is persisted for later fetching.
*/
func CreateFriendRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req FriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiverId is required"})
		return
	}
	if req.ReceiverID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a friend request to yourself"})
		return
	}

	var receiver models.User
	if err := database.GetDB().Where("id = ?", req.ReceiverID).First(&receiver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch receiver"})
		}
		return
	}

	// Reject duplicates in either direction while one is still pending,
	// and reject if they are already friends.
	var existing models.FriendRequest
	err := database.GetDB().
		Where("status = ?", models.FriendRequestPending).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, req.ReceiverID, req.ReceiverID, userID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A pending friend request already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing requests"})
		return
	}

	var friendship models.Friendship
	err = database.GetDB().
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)",
			userID, req.ReceiverID, req.ReceiverID, userID).
		First(&friendship).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already friends"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check friendship"})
		return
	}

	friendRequest := models.FriendRequest{
		ID:         uuid.NewString(),
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Status:     models.FriendRequestPending,
	}
	if err := database.GetDB().Create(&friendRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create friend request"})
		return
	}

	var sender models.User
	if err := database.GetDB().Where("id = ?", userID).First(&sender).Error; err == nil {
		notification := models.Notification{
			ID:      uuid.NewString(),
			UserID:  receiver.ID,
			Type:    models.NotificationFriendRequest,
			Message: fmt.Sprintf("%s sent you a friend request", sender.DisplayName),
		}
		if err := database.GetDB().Create(&notification).Error; err == nil {
			realtime.ToUser(receiver.ID, realtime.EventNotification, notification)
		}
	}
	realtime.ToUser(receiver.ID, realtime.EventFriendRequestReceived, gin.H{
		"friendRequest": friendRequest,
	})

	c.JSON(http.StatusCreated, friendRequest)
}

/*
*
GetFriendRequests handles GET /api/friend-requests
Returns pending requests involving the authenticated user, split into
incoming and outgoing.
*/
func GetFriendRequests(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var incoming []models.FriendRequest
	if err := database.GetDB().
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("created_at desc").Find(&incoming).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	var outgoing []models.FriendRequest
	if err := database.GetDB().
		Where("sender_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("created_at desc").Find(&outgoing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"incoming": incoming,
		"outgoing": outgoing,
	})
}

/*
*
AcceptFriendRequest handles POST /api/friend-requests/:id/accept
Only the receiver may accept, and only while the request is pending.
Creates the friendship and notifies the sender in realtime.
*/
func AcceptFriendRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	requestID := c.Param("id")
	var friendRequest models.FriendRequest
	if err := database.GetDB().Where("id = ?", requestID).First(&friendRequest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend request"})
		}
		return
	}

	if friendRequest.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the receiver can accept a friend request"})
		return
	}
	if friendRequest.Status != models.FriendRequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Friend request is not pending"})
		return
	}

	friendRequest.Status = models.FriendRequestAccepted
	if err := database.GetDB().Save(&friendRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update friend request"})
		return
	}

	friendship := models.Friendship{
		ID:      uuid.NewString(),
		UserAID: friendRequest.SenderID,
		UserBID: friendRequest.ReceiverID,
	}
	if err := database.GetDB().Create(&friendship).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create friendship"})
		return
	}

	realtime.ToUser(friendRequest.SenderID, realtime.EventFriendRequestAccepted, gin.H{
		"friendRequestId": friendRequest.ID,
		"friendship":      friendship,
	})

	c.JSON(http.StatusOK, gin.H{
		"friendRequest": friendRequest,
		"friendship":    friendship,
	})
}

/*
*
DeclineFriendRequest handles POST /api/friend-requests/:id/decline
Only the receiver may decline a pending request. The sender is not notified.
*/
func DeclineFriendRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	requestID := c.Param("id")
	var friendRequest models.FriendRequest
	if err := database.GetDB().Where("id = ?", requestID).First(&friendRequest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend request"})
		}
		return
	}

	if friendRequest.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the receiver can decline a friend request"})
		return
	}
	if friendRequest.Status != models.FriendRequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Friend request is not pending"})
		return
	}

	friendRequest.Status = models.FriendRequestDeclined
	if err := database.GetDB().Save(&friendRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update friend request"})
		return
	}

	c.JSON(http.StatusOK, friendRequest)
}

/*
*
GetFriends handles GET /api/friends
Returns the authenticated user's friends as profile cards.
*/
func GetFriends(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var friendships []models.Friendship
	if err := database.GetDB().
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&friendships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	friends := make([]ProfileCard, 0, len(friendships))
	for _, f := range friendships {
		otherID := f.UserAID
		if otherID == userID {
			otherID = f.UserBID
		}
		var other models.User
		if err := database.GetDB().Preload("Hobbies").Where("id = ?", otherID).First(&other).Error; err != nil {
			continue
		}
		friends = append(friends, toProfileCard(other))
	}

	c.JSON(http.StatusOK, gin.H{
		"friends": friends,
		"count":   len(friends),
	})
}
