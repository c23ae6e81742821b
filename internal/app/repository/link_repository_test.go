package repository

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/sifan077/linkdash/config"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/infra/sqlite"
)

func newTestRepository(t *testing.T) LinkRepository {
	t.Helper()
	db, err := sqlite.NewGorm(config.SQLiteConfig{}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Link{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewLinkRepository(db)
}

func seed(t *testing.T, repo LinkRepository, links ...model.Link) {
	t.Helper()
	for i := range links {
		if err := repo.Create(context.Background(), &links[i]); err != nil {
			t.Fatalf("create %s: %v", links[i].ID, err)
		}
	}
}

func TestLinkRepository_ListNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, repo,
		model.Link{ID: "1", URLKey: "a", URL: "https://a.example", CreatedAt: base},
		model.Link{ID: "2", URLKey: "b", URL: "https://b.example", CreatedAt: base.Add(time.Hour)},
		model.Link{ID: "3", URLKey: "c", URL: "https://c.example", CreatedAt: base.Add(2 * time.Hour)},
	)

	links, err := repo.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 || links[0].ID != "3" || links[1].ID != "2" {
		t.Fatalf("unexpected page %+v", links)
	}

	links, err = repo.List(context.Background(), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 || links[0].ID != "1" {
		t.Fatalf("unexpected second page %+v", links)
	}
}

func TestLinkRepository_GetAndDelete(t *testing.T) {
	repo := newTestRepository(t)
	favicon := "https://a.example/icon.png"
	seed(t, repo, model.Link{ID: "1", URLKey: "a", URL: "https://a.example", Clicks: 4, Favicon: &favicon})

	link, err := repo.GetByID(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if link.Clicks != 4 || link.Favicon == nil || *link.Favicon != favicon {
		t.Fatalf("unexpected link %+v", link)
	}

	if err := repo.Delete(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(context.Background(), "1"); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound after delete, got %v", err)
	}
	if err := repo.Delete(context.Background(), "1"); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("second delete = %v, want ErrLinkNotFound", err)
	}
}

func TestLinkRepository_Keys(t *testing.T) {
	repo := newTestRepository(t)
	seed(t, repo,
		model.Link{ID: "1", URLKey: "a", URL: "https://a.example"},
		model.Link{ID: "2", URLKey: "b", URL: "https://b.example"},
	)

	ok, err := repo.ExistsByKey(context.Background(), "b")
	if err != nil || !ok {
		t.Fatalf("ExistsByKey(b) = %v, %v", ok, err)
	}
	ok, err = repo.ExistsByKey(context.Background(), "zzz")
	if err != nil || ok {
		t.Fatalf("ExistsByKey(zzz) = %v, %v", ok, err)
	}

	keys, err := repo.Keys(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("keys = %v", keys)
	}
}
