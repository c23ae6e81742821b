package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sifan077/linkdash/internal/app/linkrow"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/app/repository"
	"github.com/sifan077/linkdash/internal/app/session"
)

var created = time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)

func sampleLink() model.Link {
	return model.Link{
		ID:        "42",
		URLKey:    "abc123",
		URL:       "https://example.com/page",
		Clicks:    3,
		CreatedAt: created,
	}
}

type fixture struct {
	svc       DashboardService
	repo      *mockLinkRepository
	clipboard *memClipboard
	notifier  *memNotifier
	qrTargets *memQRTargets
}

func newFixture(links ...model.Link) *fixture {
	repo := &mockLinkRepository{
		listFn: func(ctx context.Context, limit, offset int) ([]model.Link, error) {
			return links, nil
		},
		getFn: func(ctx context.Context, id string) (*model.Link, error) {
			for i := range links {
				if links[i].ID == id {
					l := links[i]
					return &l, nil
				}
			}
			return nil, repository.ErrLinkNotFound
		},
	}
	clip := &memClipboard{}
	notes := &memNotifier{}
	targets := &memQRTargets{}

	registry := linkrow.NewRegistry(linkrow.Deps{
		Resolver:  NewKeyResolver("https://sho.rt/", repo, 16),
		Clipboard: clip,
		Notifier:  notes,
	})

	svc := NewDashboardService(DashboardDeps{
		Links:     repo,
		Registry:  registry,
		QRTargets: targets,
		QR:        NewQRService(128),
	})
	return &fixture{svc: svc, repo: repo, clipboard: clip, notifier: notes, qrTargets: targets}
}

func sessionCtx() context.Context {
	return session.WithID(context.Background(), "sess-1")
}

func TestDashboardService_Rows(t *testing.T) {
	expires := created.Add(30 * 24 * time.Hour)
	icon := "https://cdn.example.com/i.png"
	second := model.Link{ID: "43", URLKey: "xyz", URL: "https://golang.org", CreatedAt: created, ExpiresAt: &expires, Favicon: &icon}
	f := newFixture(sampleLink(), second)

	rows, err := f.svc.Rows(sessionCtx(), 20, 0)
	if err != nil {
		t.Fatalf("Rows error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0].Display
	if first.ShortLink != "https://sho.rt/abc123" || first.Hostname != "example.com" {
		t.Fatalf("unexpected display %+v", first)
	}
	if first.ShowExpiration {
		t.Fatal("row without expiration must hide it")
	}

	d := rows[1].Display
	if !d.ShowExpiration || d.ExpiresAt != "2024-04-04" {
		t.Fatalf("unexpected expiration display %+v", d)
	}
	if d.Favicon != icon {
		t.Fatalf("favicon = %q, want %q", d.Favicon, icon)
	}
}

func TestDashboardService_Rows_InvalidURL(t *testing.T) {
	bad := sampleLink()
	bad.URL = "not a url"
	f := newFixture(bad)

	_, err := f.svc.Rows(sessionCtx(), 20, 0)
	var urlErr *linkrow.InvalidURLError
	if !errors.As(err, &urlErr) {
		t.Fatalf("expected InvalidURLError, got %v", err)
	}
}

func TestDashboardService_DispatchCopy(t *testing.T) {
	f := newFixture(sampleLink())

	out, err := f.svc.Dispatch(sessionCtx(), "42", linkrow.ActionCopy)
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if out.Navigate {
		t.Fatal("copy must not navigate")
	}
	if len(f.clipboard.writes) != 1 || f.clipboard.writes[0] != "https://sho.rt/abc123" {
		t.Fatalf("clipboard writes = %v", f.clipboard.writes)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].Title != "Success" {
		t.Fatalf("notifications = %+v", f.notifier.sent)
	}
}

func TestDashboardService_DispatchOpen(t *testing.T) {
	f := newFixture(sampleLink())

	out, err := f.svc.Dispatch(sessionCtx(), "42", linkrow.ActionOpen)
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if !out.Navigate || out.Href != "https://example.com/page" || out.Target != "_blank" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestDashboardService_DispatchDelete(t *testing.T) {
	var deleted []string
	f := newFixture(sampleLink())
	f.repo.deleteFn = func(ctx context.Context, id string) error {
		deleted = append(deleted, id)
		return nil
	}

	if _, err := f.svc.Dispatch(sessionCtx(), "42", linkrow.ActionDelete); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "42" {
		t.Fatalf("deleted = %v", deleted)
	}
	if len(f.clipboard.writes) != 0 || len(f.notifier.sent) != 0 {
		t.Fatal("delete must not copy or notify")
	}
}

func TestDashboardService_DispatchNotFound(t *testing.T) {
	f := newFixture(sampleLink())
	if _, err := f.svc.Dispatch(sessionCtx(), "missing", linkrow.ActionOpen); !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestDashboardService_QRFlow(t *testing.T) {
	f := newFixture(sampleLink())
	ctx := sessionCtx()

	if _, err := f.svc.CurrentQR(ctx); !errors.Is(err, ErrNoQRTarget) {
		t.Fatalf("expected ErrNoQRTarget before any QR action, got %v", err)
	}

	if _, err := f.svc.Dispatch(ctx, "42", linkrow.ActionQR); err != nil {
		t.Fatalf("Dispatch QR error: %v", err)
	}

	img, err := f.svc.CurrentQR(ctx)
	if err != nil {
		t.Fatalf("CurrentQR error: %v", err)
	}
	if img.LinkID != "42" || img.ShortLink != "https://sho.rt/abc123" {
		t.Fatalf("unexpected qr image %+v", img)
	}
	if len(img.PNG) < 8 || string(img.PNG[1:4]) != "PNG" {
		t.Fatal("expected PNG bytes")
	}
}

func TestDashboardService_QRRequiresSession(t *testing.T) {
	f := newFixture(sampleLink())
	if _, err := f.svc.Dispatch(context.Background(), "42", linkrow.ActionQR); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestToRecord(t *testing.T) {
	expires := time.Date(2025, 1, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	link := sampleLink()
	link.ExpiresAt = &expires

	rec := ToRecord(&link)
	if rec.CreatedAt != "2024-03-05T10:20:30Z" {
		t.Fatalf("created at = %q", rec.CreatedAt)
	}
	if rec.ExpirationTime != "2024-12-31T23:00:00Z" {
		t.Fatalf("expiration = %q", rec.ExpirationTime)
	}
	if rec.Favicon != "" {
		t.Fatalf("favicon = %q", rec.Favicon)
	}
}
