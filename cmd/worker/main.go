package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusops/tigerpatrol/internal/config"
	"github.com/campusops/tigerpatrol/internal/database"
	"github.com/campusops/tigerpatrol/internal/notify"
	"github.com/campusops/tigerpatrol/internal/queue"
)

// Worker consumes notification messages and sends them by email.
// A failed send is logged and the message is dropped; nothing about a
// ride's stored state depends on this process at all.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	var notifyQueue queue.Queue
	if cfg.QueueBackend == "memory" {
		log.Fatal("worker requires QUEUE_BACKEND=redis; the in-memory queue does not cross processes")
	} else {
		redis, err := database.NewRedis(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
		notifyQueue = queue.NewRedisQueue(redis.Client, cfg.QueueKey)
	}

	var mailer notify.Mailer
	if cfg.SMTPHost == "" {
		log.Println("no SMTP host configured, logging mail instead of sending")
		mailer = notify.LogMailer{}
	} else {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	messages, err := notifyQueue.Consume(ctx)
	if err != nil {
		log.Fatalf("Failed to consume queue: %v", err)
	}

	log.Println("Notification worker started")

	for msg := range messages {
		if msg.Type != notify.MessageTypeEmail {
			log.Printf("skipping message of unknown type %q", msg.Type)
			continue
		}

		var email notify.EmailMessage
		if err := json.Unmarshal(msg.Body, &email); err != nil {
			log.Printf("bad email message: %v", err)
			continue
		}

		if err := mailer.Send(ctx, email.To, email.Subject, email.Body); err != nil {
			log.Printf("send %s to %s failed: %v", email.ID, email.To, err)
			continue
		}
		log.Printf("sent %s to %s", email.ID, email.To)
	}

	log.Println("Notification worker stopped")
}
