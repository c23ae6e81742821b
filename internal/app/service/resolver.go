package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const bloomFalsePositiveRate = 0.01

// ErrUnknownKey is returned when a url key matches no stored link.
var ErrUnknownKey = errors.New("unknown url key")

// KeySource is the storage view the resolver needs.
type KeySource interface {
	ExistsByKey(ctx context.Context, urlKey string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
}

// KeyResolver turns url keys into short links under a base URL.
//
// The bloom filter is advisory. Keys that pass it skip the storage lookup, so a
// key deleted from storage, or a false positive at bloomFalsePositiveRate, still
// resolves until the next Refresh rebuilds the filter. Misses are checked
// against storage and learned.
type KeyResolver struct {
	base     string
	keys     KeySource
	capacity uint

	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// NewKeyResolver returns a resolver with an empty filter sized for capacity keys.
func NewKeyResolver(base string, keys KeySource, capacity uint) *KeyResolver {
	if capacity == 0 {
		capacity = 1024
	}
	return &KeyResolver{
		base:     strings.TrimRight(base, "/"),
		keys:     keys,
		capacity: capacity,
		filter:   bloom.NewWithEstimates(capacity, bloomFalsePositiveRate),
	}
}

// Resolve implements linkrow.Resolver. ErrUnknownKey is only guaranteed for
// keys absent from the filter; see KeyResolver.
func (r *KeyResolver) Resolve(ctx context.Context, urlKey string) (string, error) {
	if urlKey == "" {
		return "", ErrUnknownKey
	}

	if !r.known(urlKey) {
		ok, err := r.keys.ExistsByKey(ctx, urlKey)
		if err != nil {
			return "", fmt.Errorf("lookup key: %w", err)
		}
		if !ok {
			return "", ErrUnknownKey
		}
		r.learn(urlKey)
	}

	return r.base + "/" + url.PathEscape(urlKey), nil
}

// Refresh rebuilds the filter from storage and returns the number of keys loaded.
func (r *KeyResolver) Refresh(ctx context.Context) (int, error) {
	keys, err := r.keys.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("load keys: %w", err)
	}

	size := r.capacity
	if uint(len(keys)) > size {
		size = uint(len(keys))
	}
	filter := bloom.NewWithEstimates(size, bloomFalsePositiveRate)
	for _, k := range keys {
		filter.AddString(k)
	}

	r.mu.Lock()
	r.filter = filter
	r.mu.Unlock()

	return len(keys), nil
}

func (r *KeyResolver) known(urlKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter.TestString(urlKey)
}

func (r *KeyResolver) learn(urlKey string) {
	r.mu.Lock()
	r.filter.AddString(urlKey)
	r.mu.Unlock()
}
