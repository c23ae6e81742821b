package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sifan077/linkdash/internal/app/linkrow"
	"github.com/sifan077/linkdash/internal/app/service"
	"github.com/sifan077/linkdash/internal/http/middleware"
	"github.com/sifan077/linkdash/internal/http/util"
)

type stubDashboard struct{}

func (stubDashboard) Rows(ctx context.Context, limit, offset int) ([]linkrow.Row, error) {
	return nil, nil
}

func (stubDashboard) Dispatch(ctx context.Context, id string, action linkrow.ActionName) (linkrow.Outcome, error) {
	return linkrow.Outcome{Action: action}, nil
}

func (stubDashboard) CurrentQR(ctx context.Context) (*service.QRImage, error) {
	return nil, service.ErrNoQRTarget
}

func newTestServer() *Server {
	return New(Dependencies{
		Dashboard: stubDashboard{},
		Sessions:  util.NewSessionSigner([]byte("test-secret"), time.Hour),
	})
}

func TestHealth_NoBackends(t *testing.T) {
	resp, err := newTestServer().App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected payload %s", body)
	}
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			t.Fatal("health must not start a session")
		}
	}
}

func TestDashboardRoutes_IssueSession(t *testing.T) {
	resp, err := newTestServer().App().Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/links", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	found := false
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a session cookie")
	}
}
