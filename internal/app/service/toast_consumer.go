package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/infra/prometheus"
	"go.uber.org/zap"
)

var errMalformedToast = errors.New("malformed toast")

// ToastSink stores a toast until its session collects it.
type ToastSink interface {
	Push(ctx context.Context, toast model.Toast) error
}

// ToastConsumer relays toasts from JetStream into session inboxes.
type ToastConsumer struct {
	js      nats.JetStreamContext
	logger  *zap.Logger
	sink    ToastSink
	metrics *prometheus.Metrics
}

// NewToastConsumer creates a toast relay.
func NewToastConsumer(js nats.JetStreamContext, logger *zap.Logger, sink ToastSink, metrics *prometheus.Metrics) *ToastConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}
	return &ToastConsumer{js: js, logger: logger, sink: sink, metrics: metrics}
}

// Start ensures the durable consumer exists and relays until ctx is done.
func (c *ToastConsumer) Start(ctx context.Context) error {
	if _, err := c.js.ConsumerInfo(model.ToastStreamName, model.ToastConsumerName); err != nil {
		_, err = c.js.AddConsumer(model.ToastStreamName, &nats.ConsumerConfig{
			Durable:   model.ToastConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.ToastStreamSubject, model.ToastConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(ctx, sub)
	return nil
}

func (c *ToastConsumer) consume(ctx context.Context, sub *nats.Subscription) {
	defer func() { _ = sub.Unsubscribe() }()

	for {
		if ctx.Err() != nil {
			c.logger.Info("toast consumer stopped")
			return
		}

		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && !errors.Is(err, nats.ErrTimeout) && !errors.Is(err, context.DeadlineExceeded) {
			c.logger.Error("failed to fetch toasts", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			if err := c.handle(ctx, msg.Data); err != nil {
				c.logger.Error("failed to relay toast", zap.Error(err))
				if errors.Is(err, errMalformedToast) {
					_ = msg.Term()
				} else {
					_ = msg.Nak()
				}
				continue
			}
			_ = msg.Ack()
		}
	}
}

func (c *ToastConsumer) handle(ctx context.Context, data []byte) error {
	var toast model.Toast
	if err := json.Unmarshal(data, &toast); err != nil {
		return fmt.Errorf("%w: %v", errMalformedToast, err)
	}
	if toast.Session == "" {
		return fmt.Errorf("%w: no session", errMalformedToast)
	}

	if err := c.sink.Push(ctx, toast); err != nil {
		return fmt.Errorf("store toast %s: %w", toast.ID, err)
	}

	c.metrics.ToastsRelayed.Inc()
	c.logger.Debug("toast relayed",
		zap.String("id", toast.ID),
		zap.String("session", toast.Session),
		zap.String("title", toast.Title),
	)
	return nil
}
