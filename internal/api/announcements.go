package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/announce"
	"github.com/leostarkx/MyBatch/internal/auth"
	"github.com/leostarkx/MyBatch/internal/live"
	"github.com/leostarkx/MyBatch/internal/queue"
)

func (a *API) listAnnouncements(c *gin.Context) {
	items, err := a.announcements.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": items})
}

func (a *API) createAnnouncement(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	var req struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		Priority string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, err := a.users.Get(c.Request.Context(), claims.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ann, err := a.announcements.Create(c.Request.Context(), announce.Announcement{
		Title:      req.Title,
		Content:    req.Content,
		Priority:   req.Priority,
		AuthorID:   author.UID,
		AuthorName: author.Name,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Announcements)

	if ann.Priority == announce.PriorityHigh {
		job := queue.Job{
			Kind:    queue.JobAnnouncement,
			Content: ann.Title,
			LinkTo:  "announcements",
			ActorID: ann.AuthorID,
		}
		if err := a.jobs.Publish(c.Request.Context(), job); err != nil {
			log.Printf("announcement notification enqueue failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, ann)
}

func (a *API) deleteAnnouncement(c *gin.Context) {
	if err := a.announcements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Announcements)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
