package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leostarkx/MyBatch/internal/announce"
	"github.com/leostarkx/MyBatch/internal/attendance"
	"github.com/leostarkx/MyBatch/internal/auth"
	"github.com/leostarkx/MyBatch/internal/blob"
	"github.com/leostarkx/MyBatch/internal/chat"
	"github.com/leostarkx/MyBatch/internal/config"
	"github.com/leostarkx/MyBatch/internal/gradebook"
	"github.com/leostarkx/MyBatch/internal/httpmiddleware"
	"github.com/leostarkx/MyBatch/internal/identity"
	"github.com/leostarkx/MyBatch/internal/live"
	"github.com/leostarkx/MyBatch/internal/material"
	"github.com/leostarkx/MyBatch/internal/notify"
	"github.com/leostarkx/MyBatch/internal/queue"
	"github.com/leostarkx/MyBatch/internal/store"
)

// API bundles the services behind the HTTP surface.
type API struct {
	cfg           config.App
	users         *identity.Service
	announcements *announce.Repository
	gradebook     *gradebook.Service
	attendance    *attendance.Service
	materials     *material.Repository
	chat          *chat.Repository
	notifications *notify.Repository
	hub           *live.Hub
	blobs         *blob.Store
	jobs          queue.Queue
	redis         *store.Redis
	healthyDB     func() bool
}

// Deps carries everything the router needs.
type Deps struct {
	Cfg           config.App
	Users         *identity.Service
	Announcements *announce.Repository
	Gradebook     *gradebook.Service
	Attendance    *attendance.Service
	Materials     *material.Repository
	Chat          *chat.Repository
	Notifications *notify.Repository
	Hub           *live.Hub
	Blobs         *blob.Store
	Jobs          queue.Queue
	Redis         *store.Redis
	HealthyDB     func() bool
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps, limiter httpmiddleware.Limiter) *gin.Engine {
	a := &API{
		cfg:           d.Cfg,
		users:         d.Users,
		announcements: d.Announcements,
		gradebook:     d.Gradebook,
		attendance:    d.Attendance,
		materials:     d.Materials,
		chat:          d.Chat,
		notifications: d.Notifications,
		hub:           d.Hub,
		blobs:         d.Blobs,
		jobs:          d.Jobs,
		redis:         d.Redis,
		healthyDB:     d.HealthyDB,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.GinMiddleware(limiter))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", a.health)

	r.POST("/v1/auth/signup", a.signUp)
	r.POST("/v1/auth/signin", a.signIn)

	v1 := r.Group("/v1", auth.UserAuth(d.Cfg.JWTSigningKey, d.Cfg.JWTIssuer))
	{
		v1.GET("/me", a.me)
		v1.PUT("/me/profile", a.updateProfile)
		v1.POST("/upload", a.upload)

		v1.GET("/users", a.listUsers)
		v1.GET("/users/:uid", a.getUser)

		v1.GET("/announcements", a.listAnnouncements)
		v1.GET("/courses", a.listCourses)
		v1.GET("/grades", a.listGrades)
		v1.GET("/attendance/sessions", a.listSessions)
		v1.GET("/attendance/records", a.listRecords)
		v1.GET("/materials/sections", a.listSections)
		v1.GET("/materials", a.listMaterials)

		v1.GET("/chat", a.listMessages)
		v1.POST("/chat", a.sendMessage)

		v1.GET("/notifications", a.listNotifications)
		v1.POST("/notifications/:id/read", a.markNotificationRead)
	}

	admin := v1.Group("", auth.AdminOnly())
	{
		admin.POST("/users/official", a.addOfficialStudent)
		admin.POST("/users/admins", a.addAdmin)
		admin.POST("/users/promote", a.promoteUser)
		admin.DELETE("/users/:uid", a.deleteUser)

		admin.POST("/announcements", a.createAnnouncement)
		admin.DELETE("/announcements/:id", a.deleteAnnouncement)

		admin.POST("/courses", a.createCourse)
		admin.PUT("/courses/:id", a.updateCourse)
		admin.DELETE("/courses/:id", a.deleteCourse)
		admin.PUT("/grades", a.saveGrade)
		admin.PUT("/grades/sheet", a.saveSheet)

		admin.POST("/attendance/sessions", a.createSession)
		admin.DELETE("/attendance/sessions/:id", a.deleteSession)
		admin.PUT("/attendance/records", a.markAttendance)

		admin.POST("/materials/sections", a.createSection)
		admin.DELETE("/materials/sections/:id", a.deleteSection)
		admin.POST("/materials", a.createMaterial)
		admin.DELETE("/materials/:id", a.deleteMaterial)

		admin.DELETE("/chat/:id", a.deleteMessage)
	}

	r.GET("/v1/subscribe", live.WSHandler(d.Hub, d.Cfg.JWTSigningKey, d.Cfg.JWTIssuer))

	return r
}

func (a *API) health(c *gin.Context) {
	redisHealthy := a.redis.Healthy(c.Request.Context())
	dbHealthy := a.healthyDB()
	status := http.StatusOK
	if !redisHealthy || !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
}

// CORS middleware for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
