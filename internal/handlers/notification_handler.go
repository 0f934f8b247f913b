package handlers

import (
	"errors"
	"net/http"

	"hobbymatch-api/internal/database"
	"hobbymatch-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

/*
*
GetNotifications handles GET /api/notifications
Returns the authenticated user's notifications, unread first, newest first.
*/
func GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var notifications []models.Notification
	if err := database.GetDB().
		Where("user_id = ?", userID).
		Order("is_read asc, created_at desc").
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	unread := lo.CountBy(notifications, func(n models.Notification) bool {
		return !n.Read
	})

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
		"unread":        unread,
	})
}

/*
*
MarkNotificationRead handles POST /api/notifications/:id/read
*/
func MarkNotificationRead(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	notificationID := c.Param("id")
	var notification models.Notification
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification"})
		}
		return
	}

	notification.Read = true
	if err := database.GetDB().Save(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, notification)
}

/*
*
ClearNotifications handles DELETE /api/notifications
Removes every notification belonging to the authenticated user.
*/
func ClearNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	if err := database.GetDB().
		Where("user_id = ?", userID).
		Delete(&models.Notification{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}
