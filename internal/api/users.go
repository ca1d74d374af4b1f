package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/auth"
	"github.com/leostarkx/MyBatch/internal/identity"
	"github.com/leostarkx/MyBatch/internal/live"
)

type credentialsReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

func (a *API) signUp(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := a.users.SignUp(c.Request.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Users)
	a.issueTokens(c, http.StatusCreated, u)
}

func (a *API) signIn(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := a.users.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	a.issueTokens(c, http.StatusOK, u)
}

func (a *API) issueTokens(c *gin.Context, status int, u identity.User) {
	tokens, err := auth.Issue(u.UID, u.Role, a.cfg.JWTIssuer, a.cfg.JWTSigningKey, a.cfg.AccessTTL, a.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(status, gin.H{
		"user":          u,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

// authStatus maps the four typed auth failures onto HTTP statuses.
func authStatus(err error) int {
	switch {
	case errors.Is(err, identity.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, identity.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// me returns the caller's profile document. A 404 here is retried by the
// client during the signup race window.
func (a *API) me(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	u, err := a.users.Get(c.Request.Context(), claims.UID)
	if errors.Is(err, identity.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (a *API) updateProfile(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	var p identity.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.users.UpdateProfile(c.Request.Context(), claims.UID, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Users)
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (a *API) listUsers(c *gin.Context) {
	users, err := a.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (a *API) getUser(c *gin.Context) {
	u, err := a.users.Get(c.Request.Context(), c.Param("uid"))
	if errors.Is(err, identity.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (a *API) addOfficialStudent(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := a.users.AddOfficialStudent(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Users)
	c.JSON(http.StatusCreated, u)
}

func (a *API) addAdmin(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := a.users.AddAdmin(c.Request.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Users)
	c.JSON(http.StatusCreated, u)
}

func (a *API) promoteUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := a.users.Promote(c.Request.Context(), req.Username)
	if errors.Is(err, identity.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "username not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Users)
	c.JSON(http.StatusOK, u)
}

func (a *API) deleteUser(c *gin.Context) {
	if err := a.users.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.hub.Notify(live.Users)
	a.hub.Notify(live.Grades)
	a.hub.Notify(live.AttendanceRecords)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
