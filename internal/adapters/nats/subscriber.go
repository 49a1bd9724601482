package natsadapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// Subscriber implements ports.FrameSubscriber over a plain NATS connection.
type Subscriber struct {
	conn *nats.Conn
}

// NewSubscriber wraps an existing connection.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// SubscribeSession relays every frame published for sessionID to handler
// until the returned func is called or ctx is done.
func (s *Subscriber) SubscribeSession(ctx context.Context, sessionID string, handler func(frame []byte)) (func(), error) {
	sub, err := s.conn.Subscribe(SessionSubjects(sessionID), func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe session %s: %w", sessionID, err)
	}

	return unsubscribeOnce(ctx, sub.Unsubscribe), nil
}

// unsubscribeOnce returns a func that runs unsub synchronously, at most once.
// A done ctx triggers the same call from a watcher goroutine.
func unsubscribeOnce(ctx context.Context, unsub func() error) func() {
	var once sync.Once
	done := make(chan struct{})
	stop := func() {
		once.Do(func() {
			_ = unsub()
			close(done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()

	return stop
}
