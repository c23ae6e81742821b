package service

import (
	"context"
	"errors"
	"testing"
)

func TestKeyResolver_Resolve(t *testing.T) {
	lookups := 0
	repo := &mockLinkRepository{
		existsFn: func(ctx context.Context, urlKey string) (bool, error) {
			lookups++
			return urlKey == "abc123", nil
		},
	}
	r := NewKeyResolver("https://sho.rt/", repo, 64)

	link, err := r.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if link != "https://sho.rt/abc123" {
		t.Fatalf("Resolve = %q", link)
	}
	if lookups != 1 {
		t.Fatalf("expected one storage lookup, got %d", lookups)
	}

	// Learned keys are answered from the filter.
	if _, err := r.Resolve(context.Background(), "abc123"); err != nil {
		t.Fatal(err)
	}
	if lookups != 1 {
		t.Fatalf("expected learned key to skip storage, got %d lookups", lookups)
	}

	if _, err := r.Resolve(context.Background(), "nope"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), ""); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey for empty key, got %v", err)
	}
}

func TestKeyResolver_Refresh(t *testing.T) {
	repo := &mockLinkRepository{
		keysFn: func(ctx context.Context) ([]string, error) {
			return []string{"a", "b", "c"}, nil
		},
		existsFn: func(ctx context.Context, urlKey string) (bool, error) {
			t.Fatalf("unexpected storage lookup for %q", urlKey)
			return false, nil
		},
	}
	r := NewKeyResolver("https://sho.rt", repo, 0)

	n, err := r.Refresh(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("Refresh() = %d, %v", n, err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, err := r.Resolve(context.Background(), k); err != nil {
			t.Fatalf("Resolve(%q) error: %v", k, err)
		}
	}
}

func TestKeyResolver_StorageError(t *testing.T) {
	boom := errors.New("db down")
	repo := &mockLinkRepository{
		existsFn: func(ctx context.Context, urlKey string) (bool, error) { return false, boom },
	}
	r := NewKeyResolver("https://sho.rt", repo, 8)
	if _, err := r.Resolve(context.Background(), "k"); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestKeyResolver_EscapesKey(t *testing.T) {
	r := NewKeyResolver("https://sho.rt", &mockLinkRepository{}, 8)
	link, err := r.Resolve(context.Background(), "a b")
	if err != nil {
		t.Fatal(err)
	}
	if link != "https://sho.rt/a%20b" {
		t.Fatalf("Resolve = %q", link)
	}
}

func TestKeyResolver_DeletedKeyResolvesUntilRefresh(t *testing.T) {
	stored := map[string]bool{"gone": true}
	repo := &mockLinkRepository{
		existsFn: func(ctx context.Context, urlKey string) (bool, error) {
			return stored[urlKey], nil
		},
		keysFn: func(ctx context.Context) ([]string, error) {
			keys := make([]string, 0, len(stored))
			for k := range stored {
				keys = append(keys, k)
			}
			return keys, nil
		},
	}
	r := NewKeyResolver("https://sho.rt", repo, 64)

	if _, err := r.Resolve(context.Background(), "gone"); err != nil {
		t.Fatalf("Resolve before delete: %v", err)
	}

	delete(stored, "gone")

	// The filter still holds the key.
	if _, err := r.Resolve(context.Background(), "gone"); err != nil {
		t.Fatalf("expected stale filter hit, got %v", err)
	}

	if n, err := r.Refresh(context.Background()); err != nil || n != 0 {
		t.Fatalf("Refresh() = %d, %v", n, err)
	}
	if _, err := r.Resolve(context.Background(), "gone"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey after refresh, got %v", err)
	}
}
