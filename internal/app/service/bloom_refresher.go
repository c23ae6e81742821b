package service

import (
	"context"
	"time"

	"github.com/sifan077/linkdash/internal/infra/prometheus"
	"go.uber.org/zap"
)

// BloomRefresher periodically reloads the resolver's key filter so deleted keys age out.
type BloomRefresher struct {
	logger   *zap.Logger
	resolver *KeyResolver
	metrics  *prometheus.Metrics
	interval time.Duration
	stopChan chan struct{}
}

// NewBloomRefresher creates a refresher running every interval.
func NewBloomRefresher(logger *zap.Logger, resolver *KeyResolver, metrics *prometheus.Metrics, interval time.Duration) *BloomRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &BloomRefresher{
		logger:   logger,
		resolver: resolver,
		metrics:  metrics,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start loads the filter once, then keeps refreshing in the background.
func (b *BloomRefresher) Start() {
	b.refresh()
	go b.run()
}

// Stop ends the background refresh.
func (b *BloomRefresher) Stop() {
	close(b.stopChan)
}

func (b *BloomRefresher) run() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.refresh()
		case <-b.stopChan:
			b.logger.Info("bloom refresher stopped")
			return
		}
	}
}

func (b *BloomRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), b.interval)
	defer cancel()

	n, err := b.resolver.Refresh(ctx)
	if err != nil {
		b.logger.Error("failed to refresh resolver keys", zap.Error(err))
		return
	}

	b.metrics.BloomKeys.Set(float64(n))
	b.logger.Debug("resolver keys refreshed", zap.Int("count", n))
}
