package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/live"
	"github.com/leostarkx/MyBatch/internal/material"
)

func (a *API) listSections(c *gin.Context) {
	sections, err := a.materials.ListSections(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

func (a *API) createSection(c *gin.Context) {
	var req struct {
		CourseID string `json:"courseId" binding:"required"`
		Title    string `json:"title" binding:"required"`
		Icon     string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := a.materials.CreateSection(c.Request.Context(), req.CourseID, req.Title, req.Icon)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.MaterialSections)
	c.JSON(http.StatusCreated, s)
}

func (a *API) deleteSection(c *gin.Context) {
	if err := a.materials.DeleteSection(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.MaterialSections)
	a.hub.Notify(live.Materials)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (a *API) listMaterials(c *gin.Context) {
	items, err := a.materials.ListMaterials(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": items})
}

func (a *API) createMaterial(c *gin.Context) {
	var req struct {
		CourseID  string `json:"courseId" binding:"required"`
		SectionID string `json:"sectionId" binding:"required"`
		Title     string `json:"title" binding:"required"`
		Type      string `json:"type" binding:"required"`
		URL       string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := a.materials.CreateMaterial(c.Request.Context(), material.Material{
		CourseID:  req.CourseID,
		SectionID: req.SectionID,
		Title:     req.Title,
		Kind:      req.Type,
		URL:       req.URL,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Materials)
	c.JSON(http.StatusCreated, m)
}

func (a *API) deleteMaterial(c *gin.Context) {
	if err := a.materials.DeleteMaterial(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Materials)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
