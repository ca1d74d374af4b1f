package api

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/auth"
	"github.com/leostarkx/MyBatch/internal/blob"
)

// upload stores a file (avatar, banner or course material) and returns its
// public URL. Accepts multipart form data or a JSON body with a base64
// data URL.
func (a *API) upload(c *gin.Context) {
	if a.blobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage not configured"})
		return
	}
	claims, _ := auth.ClaimsFrom(c)

	kind := c.Query("kind")
	switch kind {
	case "avatar", "banner", "material":
	default:
		kind = "material"
	}

	contentType := c.ContentType()
	var result *blob.UploadResult
	var err error

	switch {
	case strings.Contains(contentType, "multipart/form-data"):
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
			return
		}
		defer file.Close()
		data, ferr := io.ReadAll(file)
		if ferr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "read file failed"})
			return
		}
		resourceType := "image"
		if strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			resourceType = "raw"
		}
		result, err = a.blobs.UploadBytes(data, blob.UserPath(claims.UID, kind, header.Filename), resourceType)

	default:
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&body); berr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
			return
		}
		result, err = a.blobs.UploadBase64(body.Data, blob.UserPath(claims.UID, kind, "upload"))
	}

	if err != nil {
		log.Printf("blob upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "file upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       result.SecureURL,
		"public_id": result.PublicID,
		"bytes":     result.Bytes,
	})
}
