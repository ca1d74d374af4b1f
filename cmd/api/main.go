package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leostarkx/MyBatch/internal/announce"
	"github.com/leostarkx/MyBatch/internal/api"
	"github.com/leostarkx/MyBatch/internal/attendance"
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

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	ctx := context.Background()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		jobs = queue.NewInMemory(64)
	} else {
		jobs = queue.NewRedisQueue(redisClient.Client, "mybatch:notifications")
	}

	users := identity.NewService(identity.NewRepository(db.Client), cfg.AuthDomain, cfg.MinPasswordLen)
	announcements := announce.NewRepository(db.Client)
	courses := gradebook.NewService(gradebook.NewRepository(db.Client))
	att := attendance.NewService(attendance.NewRepository(db.Client))
	materials := material.NewRepository(db.Client)
	messages := chat.NewRepository(db.Client)
	notifications := notify.NewRepository(db.Client)

	// Cloudinary-backed blob store (nil when not configured).
	var blobs *blob.Store
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		blobs = blob.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("blob storage configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("blob storage not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	hub := live.NewHub()
	hub.Register(live.Users, func(ctx context.Context) (any, error) { return users.List(ctx) })
	hub.Register(live.Announcements, func(ctx context.Context) (any, error) { return announcements.List(ctx) })
	hub.Register(live.Courses, func(ctx context.Context) (any, error) { return courses.Courses(ctx) })
	hub.Register(live.Chat, func(ctx context.Context) (any, error) { return messages.List(ctx) })
	hub.Register(live.Grades, func(ctx context.Context) (any, error) { return courses.Grades(ctx, "") })
	hub.Register(live.AttendanceSessions, func(ctx context.Context) (any, error) { return att.Sessions(ctx, "") })
	hub.Register(live.AttendanceRecords, func(ctx context.Context) (any, error) { return att.Records(ctx, "") })
	hub.Register(live.MaterialSections, func(ctx context.Context) (any, error) { return materials.ListSections(ctx) })
	hub.Register(live.Materials, func(ctx context.Context) (any, error) { return materials.ListMaterials(ctx) })
	live.Bridge(ctx, hub, redisClient)

	limiter := httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)

	r := api.NewRouter(api.Deps{
		Cfg:           cfg,
		Users:         users,
		Announcements: announcements,
		Gradebook:     courses,
		Attendance:    att,
		Materials:     materials,
		Chat:          messages,
		Notifications: notifications,
		Hub:           hub,
		Blobs:         blobs,
		Jobs:          jobs,
		Redis:         redisClient,
		HealthyDB:     func() bool { return db.Client.PingContext(ctx) == nil },
	}, limiter)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}
