package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/gradebook"
	"github.com/leostarkx/MyBatch/internal/live"
)

type courseReq struct {
	Name        string                 `json:"name" binding:"required"`
	Professors  []string               `json:"professors" binding:"required"`
	Assessments []gradebook.Assessment `json:"assessments" binding:"required"`
}

func (a *API) listCourses(c *gin.Context) {
	courses, err := a.gradebook.Courses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (a *API) createCourse(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := a.gradebook.CreateCourse(c.Request.Context(), req.Name, req.Professors, req.Assessments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Courses)
	c.JSON(http.StatusCreated, course)
}

func (a *API) updateCourse(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := a.gradebook.UpdateCourse(c.Request.Context(), c.Param("id"), req.Name, req.Professors, req.Assessments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Courses)
	c.JSON(http.StatusOK, course)
}

// deleteCourse removes a course and everything hanging off it, so the
// notify set covers all dependent collections.
func (a *API) deleteCourse(c *gin.Context) {
	if err := a.gradebook.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, col := range []string{live.Courses, live.Grades, live.AttendanceSessions, live.AttendanceRecords, live.MaterialSections, live.Materials} {
		a.hub.Notify(col)
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (a *API) listGrades(c *gin.Context) {
	grades, err := a.gradebook.Grades(c.Request.Context(), c.Query("course_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"grades": grades})
}

func (a *API) saveGrade(c *gin.Context) {
	var req struct {
		CourseID     string  `json:"courseId" binding:"required"`
		AssessmentID string  `json:"assessmentId" binding:"required"`
		StudentID    string  `json:"studentId" binding:"required"`
		Score        float64 `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := a.gradebook.SaveGrade(c.Request.Context(), req.CourseID, req.AssessmentID, req.StudentID, req.Score)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Grades)
	c.JSON(http.StatusOK, g)
}

func (a *API) saveSheet(c *gin.Context) {
	var req struct {
		CourseID     string             `json:"courseId" binding:"required"`
		AssessmentID string             `json:"assessmentId" binding:"required"`
		Scores       map[string]float64 `json:"scores" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := a.gradebook.SaveSheet(c.Request.Context(), req.CourseID, req.AssessmentID, req.Scores)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Grades)
	status := http.StatusOK
	if len(res.Failed) > 0 {
		// Partial failure: the saved rows stay committed, the caller
		// gets the breakdown.
		status = http.StatusMultiStatus
	}
	c.JSON(status, res)
}
