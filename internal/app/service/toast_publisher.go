package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sifan077/linkdash/internal/app/linkrow"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/app/session"
)

// JetStreamPublisher is the part of nats.JetStreamContext the publisher needs.
type JetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// ToastPublisher publishes toasts for the session in the context to JetStream.
type ToastPublisher struct {
	js JetStreamPublisher
}

// NewToastPublisher creates a toast publisher.
func NewToastPublisher(js JetStreamPublisher) *ToastPublisher {
	return &ToastPublisher{js: js}
}

// Add implements linkrow.Notifier.
func (p *ToastPublisher) Add(ctx context.Context, n linkrow.Notification) error {
	sid, err := session.Require(ctx)
	if err != nil {
		return err
	}

	toast := model.Toast{
		ID:          uuid.New().String(),
		Session:     sid,
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(toast)
	if err != nil {
		return fmt.Errorf("encode toast: %w", err)
	}

	if _, err := p.js.Publish(model.ToastStreamSubject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish toast: %w", err)
	}
	return nil
}
