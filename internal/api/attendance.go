package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/live"
)

func (a *API) listSessions(c *gin.Context) {
	sessions, err := a.attendance.Sessions(c.Request.Context(), c.Query("course_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (a *API) createSession(c *gin.Context) {
	var req struct {
		CourseID string `json:"courseId" binding:"required"`
		Date     string `json:"date" binding:"required"`
		Title    string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := a.attendance.CreateSession(c.Request.Context(), req.CourseID, req.Date, req.Title)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.AttendanceSessions)
	c.JSON(http.StatusCreated, s)
}

func (a *API) deleteSession(c *gin.Context) {
	if err := a.attendance.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.AttendanceSessions)
	a.hub.Notify(live.AttendanceRecords)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (a *API) listRecords(c *gin.Context) {
	records, err := a.attendance.Records(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (a *API) markAttendance(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
		StudentID string `json:"studentId" binding:"required"`
		Present   *bool  `json:"present" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := a.attendance.Mark(c.Request.Context(), req.SessionID, req.StudentID, *req.Present)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.AttendanceRecords)
	c.JSON(http.StatusOK, rec)
}
