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

// CreateEventRequest represents the request payload for creating an event
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	City        string `json:"city" binding:"required"`
	StartDate   string `json:"startDate" binding:"required"`
	Capacity    int    `json:"capacity"`
}

// UpdateEventRequest represents the request payload for updating an event
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	City        *string `json:"city"`
	StartDate   *string `json:"startDate"`
	Capacity    *int    `json:"capacity"`
}

func participantCount(eventID string) int64 {
	var count int64
	database.GetDB().Model(&models.EventMember{}).Where("event_id = ?", eventID).Count(&count)
	return count
}

/*
*
GetEvents handles GET /api/events
Returns all events, paginated and sorted by creation time.
Query params: page (default 1), limit (default 5), sort (asc|desc, default desc),
city to filter by location.
*/
func GetEvents(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}
	if limit > 100 {
		limit = 100
	}
	sortParam := strings.ToLower(c.DefaultQuery("sort", "desc"))
	order := "created_at desc"
	if sortParam == "asc" {
		order = "created_at asc"
	}

	db := database.GetDB()
	query := db.Model(&models.Event{})
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count events"})
		return
	}

	var events []models.Event
	if err := query.Session(&gorm.Session{}).Order(order).Limit(limit).Offset((page - 1) * limit).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
		"total":  total,
		"page":   page,
		"limit":  limit,
		"sort":   sortParam,
	})
}

/*
*
CreateEvent handles POST /api/events
Creates an event hosted by the authenticated user; the host is the first member.
*/
func CreateEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.Event{
		ID:          uuid.NewString(),
		HostID:      userID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		StartDate:   req.StartDate,
		Capacity:    req.Capacity,
	}
	if err := database.GetDB().Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	member := models.EventMember{ID: uuid.NewString(), EventID: event.ID, UserID: userID}
	if err := database.GetDB().Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add host as member"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

/*
*
GetEventByID handles GET /api/events/:id
Returns one event with its participant count and pending join requests
(the latter only for the host).
*/
func GetEventByID(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	var event models.Event
	if err := database.GetDB().Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return
	}

	resp := gin.H{
		"event":            event,
		"participantCount": participantCount(event.ID),
	}

	if event.HostID == userID {
		var pending []models.JoinRequest
		if err := database.GetDB().
			Where("event_id = ? AND status = ?", event.ID, models.JoinRequestPending).
			Find(&pending).Error; err == nil {
			resp["pendingJoinRequests"] = pending
		}
	}

	c.JSON(http.StatusOK, resp)
}

/*
*
UpdateEvent handles PUT /api/events/:id
Only the host can update an event.
*/
func UpdateEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	eventID := c.Param("id")
	var event models.Event
	if err := database.GetDB().Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return
	}
	if event.HostID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can update the event"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}

	if err := database.GetDB().Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

/*
*
DeleteEvent handles DELETE /api/events/:id
Only the host can delete; members and join requests go with it.
*/
func DeleteEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	eventID := c.Param("id")
	var event models.Event
	if err := database.GetDB().Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return
	}
	if event.HostID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can delete the event"})
		return
	}

	database.GetDB().Where("event_id = ?", eventID).Delete(&models.EventMember{})
	database.GetDB().Where("event_id = ?", eventID).Delete(&models.JoinRequest{})
	if err := database.GetDB().Delete(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

/*
*
CreateJoinRequest handles POST /api/events/:id/join-requests
Asks the host to join an event. The host resolves it via approve/reject.
*/
func CreateJoinRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	eventID := c.Param("id")
	var event models.Event
	if err := database.GetDB().Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return
	}
	if event.HostID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Host is already a member"})
		return
	}

	var member models.EventMember
	if err := database.GetDB().Where("event_id = ? AND user_id = ?", eventID, userID).First(&member).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already a member of this event"})
		return
	}

	var existing models.JoinRequest
	err := database.GetDB().
		Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, models.JoinRequestPending).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A pending join request already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check join requests"})
		return
	}

	if event.Capacity > 0 && participantCount(eventID) >= int64(event.Capacity) {
		c.JSON(http.StatusConflict, gin.H{"error": "Event is full"})
		return
	}

	joinRequest := models.JoinRequest{
		ID:      uuid.NewString(),
		EventID: eventID,
		UserID:  userID,
		Status:  models.JoinRequestPending,
	}
	if err := database.GetDB().Create(&joinRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create join request"})
		return
	}

	var requester models.User
	if err := database.GetDB().Where("id = ?", userID).First(&requester).Error; err == nil {
		notification := models.Notification{
			ID:      uuid.NewString(),
			UserID:  event.HostID,
			Type:    models.NotificationEvent,
			Message: fmt.Sprintf("%s wants to join %s", requester.DisplayName, event.Title),
		}
		if err := database.GetDB().Create(&notification).Error; err == nil {
			realtime.ToUser(event.HostID, realtime.EventNotification, notification)
		}
	}

	c.JSON(http.StatusCreated, joinRequest)
}

// resolveJoinRequest loads and authorizes a join-request transition for the host.
func resolveJoinRequest(c *gin.Context) (models.Event, models.JoinRequest, bool) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")
	requestID := c.Param("reqId")

	var event models.Event
	if err := database.GetDB().Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return event, models.JoinRequest{}, false
	}
	if event.HostID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can resolve join requests"})
		return event, models.JoinRequest{}, false
	}

	var joinRequest models.JoinRequest
	if err := database.GetDB().Where("id = ? AND event_id = ?", requestID, eventID).First(&joinRequest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Join request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch join request"})
		}
		return event, joinRequest, false
	}
	if joinRequest.Status != models.JoinRequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Join request is not pending"})
		return event, joinRequest, false
	}
	return event, joinRequest, true
}

/*
*
ApproveJoinRequest handles POST /api/events/:id/join-requests/:reqId/approve
The requester becomes a member; the event room hears event-joined and the
requester's user room gets a notification.
*/
func ApproveJoinRequest(c *gin.Context) {
	event, joinRequest, ok := resolveJoinRequest(c)
	if !ok {
		return
	}

	joinRequest.Status = models.JoinRequestApproved
	if err := database.GetDB().Save(&joinRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update join request"})
		return
	}

	member := models.EventMember{ID: uuid.NewString(), EventID: event.ID, UserID: joinRequest.UserID}
	if err := database.GetDB().Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	var joiner models.User
	userName := ""
	if err := database.GetDB().Where("id = ?", joinRequest.UserID).First(&joiner).Error; err == nil {
		userName = joiner.DisplayName
	}

	count := participantCount(event.ID)
	realtime.ToEvent(event.ID, realtime.EventJoined, realtime.MembershipPayload{
		EventID:          event.ID,
		UserID:           joinRequest.UserID,
		UserName:         userName,
		ParticipantCount: count,
	})

	notification := models.Notification{
		ID:      uuid.NewString(),
		UserID:  joinRequest.UserID,
		Type:    models.NotificationEvent,
		Message: fmt.Sprintf("Your request to join %s was approved", event.Title),
	}
	if err := database.GetDB().Create(&notification).Error; err == nil {
		realtime.ToUser(joinRequest.UserID, realtime.EventNotification, notification)
	}

	c.JSON(http.StatusOK, gin.H{
		"joinRequest":      joinRequest,
		"participantCount": count,
	})
}

/*
*
RejectJoinRequest handles POST /api/events/:id/join-requests/:reqId/reject
*/
func RejectJoinRequest(c *gin.Context) {
	event, joinRequest, ok := resolveJoinRequest(c)
	if !ok {
		return
	}

	joinRequest.Status = models.JoinRequestRejected
	if err := database.GetDB().Save(&joinRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update join request"})
		return
	}

	notification := models.Notification{
		ID:      uuid.NewString(),
		UserID:  joinRequest.UserID,
		Type:    models.NotificationEvent,
		Message: fmt.Sprintf("Your request to join %s was declined", event.Title),
	}
	if err := database.GetDB().Create(&notification).Error; err == nil {
		realtime.ToUser(joinRequest.UserID, realtime.EventNotification, notification)
	}

	c.JSON(http.StatusOK, joinRequest)
}

/*
*
LeaveEvent handles POST /api/events/:id/leave
A member (not the host) leaves; the event room hears event-left.
*/
func LeaveEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	eventID := c.Param("id")
	var event models.Event
	if err := database.GetDB().Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return
	}
	if event.HostID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The host cannot leave their own event"})
		return
	}

	var member models.EventMember
	if err := database.GetDB().Where("event_id = ? AND user_id = ?", eventID, userID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this event"})
		return
	}
	if err := database.GetDB().Delete(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave event"})
		return
	}

	// Re-requesting later starts a fresh approval cycle
	database.GetDB().
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.JoinRequest{})

	var user models.User
	userName := ""
	if err := database.GetDB().Where("id = ?", userID).First(&user).Error; err == nil {
		userName = user.DisplayName
	}

	realtime.ToEvent(event.ID, realtime.EventLeft, realtime.MembershipPayload{
		EventID:          event.ID,
		UserID:           userID,
		UserName:         userName,
		ParticipantCount: participantCount(event.ID),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Left event"})
}
