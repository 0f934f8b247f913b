package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"hobbymatch-api/internal/database"
	"hobbymatch-api/internal/models"
	"hobbymatch-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SwipeRequest represents the request payload for swiping on a profile
type SwipeRequest struct {
	TargetID string `json:"targetId" binding:"required"`
	Liked    *bool  `json:"liked" binding:"required"`
}

/*
*
CreateSwipe handles POST /api/swipes
Records a like/pass on a target profile. A like notifies the target in
realtime; a mutual like creates a match plus a chat and notifies both sides.
The write always succeeds regardless of realtime delivery.
*/
func CreateSwipe(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetId and liked are required"})
		return
	}
	if req.TargetID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot swipe on yourself"})
		return
	}

	var target models.User
	if err := database.GetDB().Where("id = ?", req.TargetID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch target user"})
		}
		return
	}

	var existing models.Swipe
	err := database.GetDB().Where("swiper_id = ? AND target_id = ?", userID, req.TargetID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already swiped on this user"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing swipe"})
		return
	}

	swipe := models.Swipe{
		ID:       uuid.NewString(),
		SwiperID: userID,
		TargetID: req.TargetID,
		Liked:    *req.Liked,
	}
	if err := database.GetDB().Create(&swipe).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record swipe"})
		return
	}

	// The swiped profile must not reappear in the feed
	discoverCache.Delete(userID)

	if !swipe.Liked {
		c.JSON(http.StatusCreated, gin.H{"swipe": swipe, "matched": false})
		return
	}

	var swiper models.User
	if err := database.GetDB().Where("id = ?", userID).First(&swiper).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	notifyLike(swiper, target)

	// Mutual like?
	var reciprocal models.Swipe
	err = database.GetDB().Where("swiper_id = ? AND target_id = ? AND liked = ?", req.TargetID, userID, true).First(&reciprocal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusCreated, gin.H{"swipe": swipe, "matched": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check reciprocal swipe"})
		return
	}

	match, err := createMatch(swiper, target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"swipe": swipe, "matched": true, "match": match})
}

// notifyLike persists a notification for the liked user and pushes a
// best-effort new-like event to their room.
func notifyLike(liker, target models.User) {
	message := fmt.Sprintf("%s liked your profile", liker.DisplayName)
	notification := models.Notification{
		ID:      uuid.NewString(),
		UserID:  target.ID,
		Type:    models.NotificationLike,
		Message: message,
	}
	if err := database.GetDB().Create(&notification).Error; err == nil {
		realtime.ToUser(target.ID, realtime.EventNotification, notification)
	}

	realtime.ToUser(target.ID, realtime.EventNewLike, realtime.NewLikePayload{
		Message:    message,
		LikerName:  liker.DisplayName,
		LikerImage: liker.ImageURL,
		LikerID:    liker.ID,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// createMatch records the match, opens the chat and notifies both users.
func createMatch(userA, userB models.User) (models.Match, error) {
	chat := models.Chat{
		ID:      uuid.NewString(),
		UserAID: userA.ID,
		UserBID: userB.ID,
	}
	if err := database.GetDB().Create(&chat).Error; err != nil {
		return models.Match{}, err
	}

	match := models.Match{
		ID:      uuid.NewString(),
		UserAID: userA.ID,
		UserBID: userB.ID,
		ChatID:  chat.ID,
	}
	if err := database.GetDB().Create(&match).Error; err != nil {
		return models.Match{}, err
	}

	for _, pair := range [][2]models.User{{userA, userB}, {userB, userA}} {
		recipient, other := pair[0], pair[1]
		notification := models.Notification{
			ID:      uuid.NewString(),
			UserID:  recipient.ID,
			Type:    models.NotificationMatch,
			Message: fmt.Sprintf("You matched with %s", other.DisplayName),
		}
		if err := database.GetDB().Create(&notification).Error; err == nil {
			realtime.ToUser(recipient.ID, realtime.EventNotification, notification)
		}
	}

	return match, nil
}

/*
*
GetMatches handles GET /api/matches
Returns the authenticated user's matches with the other user's profile card.
*/
func GetMatches(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var matches []models.Match
	err := database.GetDB().
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at desc").
		Find(&matches).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matches"})
		return
	}

	type matchResponse struct {
		ID     string      `json:"id"`
		ChatID string      `json:"chatId"`
		User   ProfileCard `json:"user"`
	}

	resp := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		otherID := m.UserAID
		if otherID == userID {
			otherID = m.UserBID
		}
		var other models.User
		if err := database.GetDB().Preload("Hobbies").Where("id = ?", otherID).First(&other).Error; err != nil {
			continue
		}
		resp = append(resp, matchResponse{ID: m.ID, ChatID: m.ChatID, User: toProfileCard(other)})
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": resp,
		"count":   len(resp),
	})
}
