package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/auth"
)

func (a *API) listNotifications(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	items, err := a.notifications.ListForUser(c.Request.Context(), claims.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (a *API) markNotificationRead(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	if err := a.notifications.MarkRead(c.Request.Context(), c.Param("id"), claims.UID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
