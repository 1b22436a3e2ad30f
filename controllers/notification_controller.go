package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idea-portfolio-api/config"
	"idea-portfolio-api/services"
)

// GET /api/v1/notifications?unread=1
func ListNotifications(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	limit := parseIntOrDefault(c.Query("limit"), 20)
	offset := parseIntOrDefault(c.Query("offset"), 0)
	unreadOnly := c.Query("unread") == "1" || c.Query("unread") == "true"

	items, unread, err := services.NewNotificationService(config.DB).ListForUser(c.Request.Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "unread": unread})
}

// PUT /api/v1/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewNotificationService(config.DB).MarkRead(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
