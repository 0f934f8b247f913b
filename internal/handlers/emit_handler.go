package handlers

import (
	"net/http"

	"hobbymatch-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

/*
*
Emit handles the cross-process broadcast gateway
POST /emit with {room, event, data}
A stateless instance that holds no live hub POSTs here so the instance that
does host the hub performs the broadcast. If this instance has no hub either,
that is reported as a soft failure, not an error: callers treat realtime
delivery as best-effort.
*/
func Emit(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	var req realtime.EmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Room == "" || req.Event == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room and event are required"})
		return
	}

	hub := realtime.CurrentHub()
	if hub == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": "io not ready"})
		return
	}

	hub.Broadcast(req.Room, req.Event, req.Data)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
