package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sifan077/linkdash/config"
	"github.com/sifan077/linkdash/internal/app/linkrow"
	"github.com/sifan077/linkdash/internal/app/repository"
	"github.com/sifan077/linkdash/internal/app/service"
	"github.com/sifan077/linkdash/internal/app/session"
	"github.com/sifan077/linkdash/internal/infra/database"
	"github.com/sifan077/linkdash/internal/infra/logger"
)

// cliSession scopes clipboard, toasts and QR targets for terminal use.
const cliSession = "dashctl"

// env is the wiring shared by every subcommand.
type env struct {
	dashboard service.DashboardService
	close     func()
}

func newEnv(ctx context.Context, out io.Writer) (*env, error) {
	logCfg := logger.ConfigFromEnv()
	if logCfg.Output == "" {
		// Rows and QR codes go to stdout.
		logCfg.Output = logger.OutputStderr
	}
	if logCfg.Level == "" {
		logCfg.Level = "warn"
	}
	log, err := logger.Init(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql db: %w", err)
	}

	links := repository.NewLinkRepository(db)
	resolver := service.NewKeyResolver(cfg.Dashboard.ShortLinkBase, links, cfg.Dashboard.BloomCapacity)

	registry := linkrow.NewRegistry(linkrow.Deps{
		Resolver:  resolver,
		Clipboard: &terminalClipboard{out: out},
		Notifier:  &terminalNotifier{out: out},
		Deriver: linkrow.Deriver{
			FaviconTemplate: cfg.Dashboard.FaviconTemplate,
			Dates:           linkrow.DateFormatter{Layout: cfg.Dashboard.DateLayout},
		},
	})

	qr := service.NewQRService(cfg.Dashboard.QRSize)
	dashboard := service.NewDashboardService(service.DashboardDeps{
		Logger:   log.Named("dashctl"),
		Links:    links,
		Registry: registry,
		QRTargets: &terminalQR{
			out:      out,
			links:    links,
			registry: registry,
			qr:       qr,
		},
		QR: qr,
	})

	return &env{
		dashboard: dashboard,
		close: func() {
			_ = sqlDB.Close()
			_ = logger.Sync()
		},
	}, nil
}

func cliContext(ctx context.Context) context.Context {
	return session.WithID(ctx, cliSession)
}

// terminalClipboard prints the copied text; the terminal is the clipboard.
type terminalClipboard struct {
	out io.Writer
}

func (c *terminalClipboard) Write(ctx context.Context, text string) error {
	_, err := fmt.Fprintln(c.out, linkStyle.Render(text))
	return err
}

type terminalNotifier struct {
	out io.Writer
}

func (n *terminalNotifier) Add(ctx context.Context, note linkrow.Notification) error {
	_, err := fmt.Fprintln(n.out, renderNotification(note))
	return err
}

// terminalQR draws the QR code as soon as a row asks for it.
type terminalQR struct {
	out      io.Writer
	links    repository.LinkRepository
	registry *linkrow.Registry
	qr       service.QRService

	mu      sync.Mutex
	current string
}

func (q *terminalQR) SetCurrent(ctx context.Context, sid, linkID string) error {
	link, err := q.links.GetByID(ctx, linkID)
	if err != nil {
		return err
	}
	shortLink, err := q.registry.ResolveShortLink(ctx, link.URLKey)
	if err != nil {
		return err
	}
	art, err := q.qr.Terminal(shortLink)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}

	q.mu.Lock()
	q.current = linkID
	q.mu.Unlock()

	_, err = fmt.Fprintf(q.out, "%s\n%s\n", art, linkStyle.Render(shortLink))
	return err
}

func (q *terminalQR) Current(ctx context.Context, sid string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current, nil
}
