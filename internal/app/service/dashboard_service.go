package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sifan077/linkdash/internal/app/linkrow"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/app/repository"
	"github.com/sifan077/linkdash/internal/app/session"
	"github.com/sifan077/linkdash/internal/infra/logger"
	"github.com/sifan077/linkdash/internal/infra/prometheus"
	"go.uber.org/zap"
)

// ErrNoQRTarget is returned when the session has not asked for a QR code yet.
var ErrNoQRTarget = errors.New("no qr code requested")

// DashboardService renders dashboard rows and runs their actions.
type DashboardService interface {
	Rows(ctx context.Context, limit, offset int) ([]linkrow.Row, error)
	Dispatch(ctx context.Context, id string, action linkrow.ActionName) (linkrow.Outcome, error)
	CurrentQR(ctx context.Context) (*QRImage, error)
}

// QRTargets remembers the link each session wants shown as a QR code.
type QRTargets interface {
	SetCurrent(ctx context.Context, sid, linkID string) error
	Current(ctx context.Context, sid string) (string, error)
}

// QRImage is a rendered QR code for a link's short URL.
type QRImage struct {
	LinkID    string
	ShortLink string
	PNG       []byte
}

// DataURL returns the image as an inline data URL.
func (q *QRImage) DataURL() string {
	return pngDataURL(q.PNG)
}

// DashboardDeps groups the collaborators of the dashboard service.
type DashboardDeps struct {
	Logger    *zap.Logger
	Links     repository.LinkRepository
	Registry  *linkrow.Registry
	QRTargets QRTargets
	QR        QRService
	Metrics   *prometheus.Metrics
}

type dashboardService struct {
	logger    *zap.Logger
	links     repository.LinkRepository
	registry  *linkrow.Registry
	qrTargets QRTargets
	qr        QRService
	metrics   *prometheus.Metrics
}

// NewDashboardService returns a DashboardService backed by deps.
func NewDashboardService(deps DashboardDeps) DashboardService {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}
	return &dashboardService{
		logger:    logger.OrNop(deps.Logger),
		links:     deps.Links,
		registry:  deps.Registry,
		qrTargets: deps.QRTargets,
		qr:        deps.QR,
		metrics:   metrics,
	}
}

func (s *dashboardService) Rows(ctx context.Context, limit, offset int) ([]linkrow.Row, error) {
	links, err := s.links.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	rows := make([]linkrow.Row, 0, len(links))
	for i := range links {
		row, err := s.render(ctx, &links[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *dashboardService) Dispatch(ctx context.Context, id string, action linkrow.ActionName) (linkrow.Outcome, error) {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		return linkrow.Outcome{}, fmt.Errorf("load link: %w", err)
	}

	row, err := s.render(ctx, link)
	if err != nil {
		return linkrow.Outcome{}, err
	}

	outcome, err := s.registry.Dispatch(ctx, row.Actions, action)
	if err != nil {
		s.metrics.Actions.WithLabelValues(string(action), "error").Inc()
		s.logger.Warn("row action failed",
			zap.String("link_id", id),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return outcome, err
	}

	s.metrics.Actions.WithLabelValues(string(action), "ok").Inc()
	s.logger.Debug("row action dispatched",
		zap.String("link_id", id),
		zap.String("action", string(action)),
		zap.Bool("navigate", outcome.Navigate),
	)
	return outcome, nil
}

func (s *dashboardService) CurrentQR(ctx context.Context) (*QRImage, error) {
	sid, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	linkID, err := s.qrTargets.Current(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("load qr target: %w", err)
	}
	if linkID == "" {
		return nil, ErrNoQRTarget
	}

	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("load link: %w", err)
	}

	shortLink, err := s.registry.ResolveShortLink(ctx, link.URLKey)
	if err != nil {
		return nil, err
	}

	png, err := s.qr.PNG(shortLink)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	return &QRImage{LinkID: link.ID, ShortLink: shortLink, PNG: png}, nil
}

func (s *dashboardService) render(ctx context.Context, link *model.Link) (linkrow.Row, error) {
	row, err := s.registry.Render(ctx, ToRecord(link), s.callbacks(link))
	if err != nil {
		s.metrics.RenderFailures.WithLabelValues(failureReason(err)).Inc()
		s.logger.Error("failed to render link row", zap.String("link_id", link.ID), zap.Error(err))
		return linkrow.Row{}, fmt.Errorf("render link %s: %w", link.ID, err)
	}

	if row.Display.ExpirationErr != nil {
		s.logger.Warn("hiding unreadable expiration",
			zap.String("link_id", link.ID),
			zap.Error(row.Display.ExpirationErr),
		)
	}
	s.metrics.RowsRendered.Inc()
	return row, nil
}

// callbacks binds the row's QR and delete signals to link.
func (s *dashboardService) callbacks(link *model.Link) linkrow.Callbacks {
	return linkrow.Callbacks{
		OnShowQR: func(ctx context.Context) error {
			sid, err := session.Require(ctx)
			if err != nil {
				return err
			}
			return s.qrTargets.SetCurrent(ctx, sid, link.ID)
		},
		OnDelete: func(ctx context.Context, id string) error {
			if err := s.links.Delete(ctx, id); err != nil {
				return fmt.Errorf("delete link: %w", err)
			}
			s.logger.Info("link deleted", zap.String("link_id", id), zap.String("url_key", link.URLKey))
			return nil
		},
		OnCopied: func(ctx context.Context, shortLink string) {
			s.logger.Debug("short link copied", zap.String("link_id", link.ID), zap.String("short_link", shortLink))
		},
	}
}

// ToRecord converts a stored link into the row contract.
func ToRecord(link *model.Link) linkrow.Record {
	rec := linkrow.Record{
		ID:        link.ID,
		URLKey:    link.URLKey,
		URL:       link.URL,
		Clicks:    link.Clicks,
		CreatedAt: link.CreatedAt.UTC().Format(time.RFC3339),
	}
	if link.Favicon != nil {
		rec.Favicon = *link.Favicon
	}
	if link.ExpiresAt != nil {
		rec.ExpirationTime = link.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return rec
}

func failureReason(err error) string {
	var (
		urlErr  *linkrow.InvalidURLError
		dateErr *linkrow.InvalidDateError
		resErr  *linkrow.ResolverError
	)
	switch {
	case errors.As(err, &urlErr):
		return "invalid_url"
	case errors.As(err, &dateErr):
		return "invalid_date"
	case errors.As(err, &resErr):
		return "resolver"
	default:
		return "invalid_record"
	}
}
