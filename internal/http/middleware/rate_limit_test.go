package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/linkdash/internal/http/util"
	"go.uber.org/zap"
)

// counterStore implements the Incr and Expire calls the limiter makes.
type counterStore struct {
	redis.Cmdable

	mu     sync.Mutex
	counts map[string]int64
}

func (s *counterStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return redis.NewIntResult(s.counts[key], nil)
}

func (s *counterStore) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func TestRateLimitKeys(t *testing.T) {
	keys := rateLimitKeys("rl", "", "10.0.0.1")
	if len(keys) != 1 || keys[0] != "rl:ip:10.0.0.1" {
		t.Fatalf("keys without session = %v", keys)
	}
	keys = rateLimitKeys("rl", "s1", "10.0.0.1")
	if len(keys) != 2 || keys[0] != "rl:ip:10.0.0.1" || keys[1] != "rl:session:s1" {
		t.Fatalf("keys with session = %v", keys)
	}
}

func TestRateLimit_FreshSessionsShareIPBucket(t *testing.T) {
	store := &counterStore{}
	signer := util.NewSessionSigner([]byte("test-secret"), time.Hour)

	app := fiber.New()
	app.Use(Session(signer, false, zap.NewNop()))
	app.Post("/act", RateLimit(store, RateLimitConfig{
		MaxRequests: 2,
		Window:      time.Minute,
		KeyPrefix:   "rl",
	}, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// No cookie is sent back, so every request starts a new session.
	want := []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}
	for i, status := range want {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/act", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != status {
			t.Fatalf("request %d: status = %d, want %d", i+1, resp.StatusCode, status)
		}
	}
}
