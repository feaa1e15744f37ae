package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/campusops/tigerpatrol/internal/queue"
)

type capturingQueue struct {
	published chan queue.Message
	err       error
}

func (q *capturingQueue) Publish(ctx context.Context, msg queue.Message) error {
	if q.err != nil {
		return q.err
	}
	q.published <- msg
	return nil
}

func (q *capturingQueue) Consume(ctx context.Context) (<-chan queue.Message, error) {
	return q.published, nil
}

func TestNotifyPublishesEmail(t *testing.T) {
	q := &capturingQueue{published: make(chan queue.Message, 1)}
	d := NewDispatcher(q)

	d.Notify(context.Background(), "alice@example.edu", "Request Received", "Your ride request has been received.")

	select {
	case msg := <-q.published:
		if msg.Type != MessageTypeEmail {
			t.Errorf("type = %q, want %q", msg.Type, MessageTypeEmail)
		}
		var email EmailMessage
		if err := json.Unmarshal(msg.Body, &email); err != nil {
			t.Fatalf("body did not unmarshal: %v", err)
		}
		if email.To != "alice@example.edu" || email.Subject != "Request Received" {
			t.Errorf("email = %+v", email)
		}
		if email.ID == "" {
			t.Error("email message has no id")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for publish")
	}
}

func TestNotifyAbsorbsPublishFailure(t *testing.T) {
	q := &capturingQueue{published: make(chan queue.Message, 1), err: errors.New("redis down")}
	d := NewDispatcher(q)

	// Must neither panic nor block the caller. The error is only logged.
	done := make(chan struct{})
	go func() {
		d.Notify(context.Background(), "alice@example.edu", "Request Updated", "Your ride request is now Accepted.")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a failing queue")
	}
}

func TestNotifySkipsEmptyContact(t *testing.T) {
	q := &capturingQueue{published: make(chan queue.Message, 1)}
	d := NewDispatcher(q)

	d.Notify(context.Background(), "", "Request Received", "body")

	select {
	case msg := <-q.published:
		t.Fatalf("unexpected publish: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
