package queue

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)

	want := Message{Type: "email", Body: []byte(`{"to":"alice@example.edu"}`)}
	if err := q.Publish(ctx, want); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	select {
	case got := <-messages:
		if got.Type != want.Type || string(got.Body) != string(want.Body) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishCancelled(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	// Fill the queue so the next publish would block
	if err := q.Publish(ctx, Message{Type: "email"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	cancel()
	if err := q.Publish(ctx, Message{Type: "email"}); err == nil {
		t.Error("Publish() on cancelled context should fail")
	}
}

func TestInMemoryConsumeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := NewInMemory(1)

	messages, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	cancel()

	select {
	case _, open := <-messages:
		if open {
			t.Error("expected channel to close after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel did not close after cancel")
	}
}

func TestCodecRoundtrip(t *testing.T) {
	want := Message{Type: "email", Body: []byte("hello")}
	encoded, err := encode(want)
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	got, err := decode(encoded)
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if got.Type != want.Type || string(got.Body) != string(want.Body) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
