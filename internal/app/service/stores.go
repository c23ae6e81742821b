package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/app/session"
)

const (
	clipboardKeyPrefix = "linkdash:clipboard:"
	qrTargetKeyPrefix  = "linkdash:qr:"
	toastKeyPrefix     = "linkdash:toasts:"

	defaultStoreTTL = 10 * time.Minute
)

// RedisClipboard keeps the last copied text per session for the browser to pick up.
type RedisClipboard struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisClipboard returns a clipboard whose entries expire after ttl.
func NewRedisClipboard(rdb redis.Cmdable, ttl time.Duration) *RedisClipboard {
	if ttl <= 0 {
		ttl = defaultStoreTTL
	}
	return &RedisClipboard{rdb: rdb, ttl: ttl}
}

// Write implements linkrow.Clipboard for the session in ctx.
func (c *RedisClipboard) Write(ctx context.Context, text string) error {
	sid, err := session.Require(ctx)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, clipboardKeyPrefix+sid, text, c.ttl).Err()
}

// Read returns the session's clipboard, or "" when empty.
func (c *RedisClipboard) Read(ctx context.Context, sid string) (string, error) {
	text, err := c.rdb.Get(ctx, clipboardKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return text, err
}

// RedisQRTargets remembers which link a session last asked to show as a QR code.
type RedisQRTargets struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisQRTargets returns a QR target store whose entries expire after ttl.
func NewRedisQRTargets(rdb redis.Cmdable, ttl time.Duration) *RedisQRTargets {
	if ttl <= 0 {
		ttl = defaultStoreTTL
	}
	return &RedisQRTargets{rdb: rdb, ttl: ttl}
}

func (q *RedisQRTargets) SetCurrent(ctx context.Context, sid, linkID string) error {
	return q.rdb.Set(ctx, qrTargetKeyPrefix+sid, linkID, q.ttl).Err()
}

func (q *RedisQRTargets) Current(ctx context.Context, sid string) (string, error) {
	id, err := q.rdb.Get(ctx, qrTargetKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, err
}

// RedisToastInbox queues toasts per session.
type RedisToastInbox struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisToastInbox returns an inbox whose queues expire ttl after the last push.
func NewRedisToastInbox(rdb redis.Cmdable, ttl time.Duration) *RedisToastInbox {
	if ttl <= 0 {
		ttl = defaultStoreTTL
	}
	return &RedisToastInbox{rdb: rdb, ttl: ttl}
}

// Push implements ToastSink.
func (i *RedisToastInbox) Push(ctx context.Context, toast model.Toast) error {
	data, err := json.Marshal(toast)
	if err != nil {
		return err
	}
	key := toastKeyPrefix + toast.Session
	_, err = i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, i.ttl)
		return nil
	})
	return err
}

// Drain returns and clears the session's queued toasts, oldest first.
func (i *RedisToastInbox) Drain(ctx context.Context, sid string) ([]model.Toast, error) {
	key := toastKeyPrefix + sid

	var items *redis.StringSliceCmd
	_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain toasts: %w", err)
	}

	toasts := make([]model.Toast, 0, len(items.Val()))
	for _, raw := range items.Val() {
		var t model.Toast
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			continue
		}
		toasts = append(toasts, t)
	}
	return toasts, nil
}
