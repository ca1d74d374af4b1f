package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/auth"
	"github.com/leostarkx/MyBatch/internal/chat"
	"github.com/leostarkx/MyBatch/internal/live"
	"github.com/leostarkx/MyBatch/internal/queue"
)

func (a *API) listMessages(c *gin.Context) {
	messages, err := a.chat.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (a *API) sendMessage(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	var req struct {
		Content   string `json:"content" binding:"required"`
		ReplyToID string `json:"replyToId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sender, err := a.users.Get(c.Request.Context(), claims.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Reply snapshot is copied here, at send time. If the quoted message
	// is later deleted the snapshot survives unchanged.
	var replyTo *chat.ReplyRef
	if req.ReplyToID != "" {
		orig, err := a.chat.Get(c.Request.Context(), req.ReplyToID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reply target not found"})
			return
		}
		replyTo = &chat.ReplyRef{ID: orig.ID, SenderName: orig.SenderName, Content: orig.Content}
	}

	msg, err := a.chat.Send(c.Request.Context(), chat.Sender{
		ID:     sender.UID,
		Name:   sender.Name,
		Role:   sender.Role,
		Avatar: sender.Profile.Avatar,
		Color:  sender.Profile.SignatureColor,
	}, req.Content, replyTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Chat)

	if mentions := chat.Mentions(msg.Content); len(mentions) > 0 {
		job := queue.Job{
			Kind:      queue.JobMention,
			Usernames: mentions,
			Content:   sender.Name + " mentioned you: " + msg.Content,
			LinkTo:    "chat/" + msg.ID,
			ActorID:   sender.UID,
		}
		if err := a.jobs.Publish(c.Request.Context(), job); err != nil {
			log.Printf("mention notification enqueue failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, msg)
}

func (a *API) deleteMessage(c *gin.Context) {
	if err := a.chat.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Chat)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
