package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/leostarkx/MyBatch/internal/config"
	"github.com/leostarkx/MyBatch/internal/identity"
	"github.com/leostarkx/MyBatch/internal/notify"
	"github.com/leostarkx/MyBatch/internal/queue"
	"github.com/leostarkx/MyBatch/internal/store"
)

// The worker drains the notification queue and fans jobs out into
// per-user notification rows.
func main() {
	cfg := config.Load()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	jobs := queue.NewRedisQueue(redisClient.Client, "mybatch:notifications")

	users := identity.NewRepository(db.Client)
	notifications := notify.NewRepository(db.Client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("worker shutting down...")
		cancel()
	}()

	stream, err := jobs.Consume(ctx)
	if err != nil {
		log.Fatalf("queue: %v", err)
	}

	log.Println("worker started, waiting for jobs")
	for job := range stream {
		if err := process(ctx, job, users, notifications); err != nil {
			log.Printf("job %s failed: %v", job.Kind, err)
		}
	}
	log.Println("worker exited")
}

func process(ctx context.Context, job queue.Job, users *identity.Repository, notifications *notify.Repository) error {
	switch job.Kind {
	case queue.JobMention:
		return processMention(ctx, job, users, notifications)
	case queue.JobAnnouncement:
		return processAnnouncement(ctx, job, users, notifications)
	default:
		log.Printf("unknown job kind %q, dropping", job.Kind)
		return nil
	}
}

// processMention resolves each mentioned username to a user and writes one
// notification per target. Usernames with no matching account are skipped;
// self-mentions are not notified.
func processMention(ctx context.Context, job queue.Job, users *identity.Repository, notifications *notify.Repository) error {
	for _, username := range job.Usernames {
		u, err := users.GetByUsername(ctx, username)
		if err != nil {
			if err == identity.ErrNotFound {
				continue
			}
			return err
		}
		if u.UID == job.ActorID {
			continue
		}
		if _, err := notifications.Insert(ctx, notify.Notification{
			UserID:  u.UID,
			Kind:    notify.KindMention,
			Content: job.Content,
			LinkTo:  job.LinkTo,
		}); err != nil {
			return err
		}
	}
	return nil
}

// processAnnouncement notifies every user except the author.
func processAnnouncement(ctx context.Context, job queue.Job, users *identity.Repository, notifications *notify.Repository) error {
	all, err := users.List(ctx)
	if err != nil {
		return err
	}
	targets := make([]string, 0, len(all))
	for _, u := range all {
		if u.UID == job.ActorID {
			continue
		}
		targets = append(targets, u.UID)
	}
	return notifications.InsertForAll(ctx, targets, notify.KindAnnouncement, job.Content, job.LinkTo)
}
