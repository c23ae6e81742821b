package service

import (
	"context"
	"sync"

	"github.com/sifan077/linkdash/internal/app/linkrow"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/app/repository"
)

type mockLinkRepository struct {
	createFn func(ctx context.Context, link *model.Link) error
	getFn    func(ctx context.Context, id string) (*model.Link, error)
	listFn   func(ctx context.Context, limit, offset int) ([]model.Link, error)
	deleteFn func(ctx context.Context, id string) error
	existsFn func(ctx context.Context, urlKey string) (bool, error)
	keysFn   func(ctx context.Context) ([]string, error)
}

func (m *mockLinkRepository) Create(ctx context.Context, link *model.Link) error {
	if m.createFn != nil {
		return m.createFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) GetByID(ctx context.Context, id string) (*model.Link, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrLinkNotFound
}

func (m *mockLinkRepository) List(ctx context.Context, limit, offset int) ([]model.Link, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockLinkRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockLinkRepository) ExistsByKey(ctx context.Context, urlKey string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, urlKey)
	}
	return true, nil
}

func (m *mockLinkRepository) Keys(ctx context.Context) ([]string, error) {
	if m.keysFn != nil {
		return m.keysFn(ctx)
	}
	return nil, nil
}

type memQRTargets struct {
	mu      sync.Mutex
	targets map[string]string
}

func (m *memQRTargets) SetCurrent(ctx context.Context, sid, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.targets == nil {
		m.targets = map[string]string{}
	}
	m.targets[sid] = linkID
	return nil
}

func (m *memQRTargets) Current(ctx context.Context, sid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.targets[sid], nil
}

type memClipboard struct {
	writes []string
}

func (m *memClipboard) Write(ctx context.Context, text string) error {
	m.writes = append(m.writes, text)
	return nil
}

type memNotifier struct {
	sent []linkrow.Notification
}

func (m *memNotifier) Add(ctx context.Context, n linkrow.Notification) error {
	m.sent = append(m.sent, n)
	return nil
}

type memToastSink struct {
	pushed []model.Toast
	err    error
}

func (m *memToastSink) Push(ctx context.Context, toast model.Toast) error {
	if m.err != nil {
		return m.err
	}
	m.pushed = append(m.pushed, toast)
	return nil
}
