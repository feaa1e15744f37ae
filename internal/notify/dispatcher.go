package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/campusops/tigerpatrol/internal/queue"
	"github.com/google/uuid"
)

// MessageTypeEmail tags queue messages carrying an EmailMessage body.
const MessageTypeEmail = "email"

// EmailMessage is the payload the worker consumes.
type EmailMessage struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Notifier is the side-channel that tells a requester about their ride.
// It is strictly best-effort: implementations absorb and log every failure,
// so a ride's durable state can never depend on notification succeeding.
type Notifier interface {
	Notify(ctx context.Context, contact, subject, body string)
}

// Dispatcher publishes email messages onto a queue for the worker to send.
type Dispatcher struct {
	queue   queue.Queue
	timeout time.Duration
}

func NewDispatcher(q queue.Queue) *Dispatcher {
	return &Dispatcher{queue: q, timeout: 3 * time.Second}
}

// Notify enqueues the message in the background with its own short deadline,
// detached from the caller's context: a slow or down queue backend must not
// block or fail the state transition that triggered the notification.
func (d *Dispatcher) Notify(ctx context.Context, contact, subject, body string) {
	if contact == "" {
		return
	}

	msg := EmailMessage{
		ID:         uuid.New().String(),
		To:         contact,
		Subject:    subject,
		Body:       body,
		EnqueuedAt: time.Now(),
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("notification %s: marshal failed: %v", msg.ID, err)
			return
		}

		if err := d.queue.Publish(pubCtx, queue.Message{Type: MessageTypeEmail, Body: data}); err != nil {
			log.Printf("notification %s to %s dropped: %v", msg.ID, contact, err)
		}
	}()
}
