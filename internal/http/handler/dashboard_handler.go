package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/linkdash/internal/app/linkrow"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/app/repository"
	"github.com/sifan077/linkdash/internal/app/service"
	"github.com/sifan077/linkdash/internal/app/session"
	"github.com/sifan077/linkdash/internal/http/view"
	"github.com/sifan077/linkdash/internal/infra/logger"
	"go.uber.org/zap"
)

// ClipboardReader exposes a session's clipboard to the browser.
type ClipboardReader interface {
	Read(ctx context.Context, sid string) (string, error)
}

// ToastDrainer hands a session its pending toasts.
type ToastDrainer interface {
	Drain(ctx context.Context, sid string) ([]model.Toast, error)
}

// DashboardDeps groups dependencies required by dashboard handlers.
type DashboardDeps struct {
	Logger     *zap.Logger
	Dashboard  service.DashboardService
	Clipboard  ClipboardReader
	Toasts     ToastDrainer
	ActionGate fiber.Handler
}

// DashboardHandler serves the dashboard rows and their actions.
type DashboardHandler struct {
	logger     *zap.Logger
	dashboard  service.DashboardService
	clipboard  ClipboardReader
	toasts     ToastDrainer
	actionGate fiber.Handler
}

// NewDashboardHandler creates a dashboard handler with the provided dependencies.
func NewDashboardHandler(deps DashboardDeps) *DashboardHandler {
	return &DashboardHandler{
		logger:     logger.OrNop(deps.Logger),
		dashboard:  deps.Dashboard,
		clipboard:  deps.Clipboard,
		toasts:     deps.Toasts,
		actionGate: deps.ActionGate,
	}
}

// Register wires dashboard routes onto the provided router.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.Page)

	api := router.Group("/api/dashboard")
	{
		api.Get("/links", h.ListRows)
		if h.actionGate != nil {
			api.Post("/links/:id/actions/:action", h.actionGate, h.Dispatch)
		} else {
			api.Post("/links/:id/actions/:action", h.Dispatch)
		}
		api.Get("/qr", h.QR)
		api.Get("/clipboard", h.Clipboard)
		api.Get("/toasts", h.Toasts)
	}
}

// ActionResponse describes one action of a row.
type ActionResponse struct {
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	StyleClass string `json:"style_class,omitempty"`
	Href       string `json:"href,omitempty"`
	Target     string `json:"target,omitempty"`
	Rel        string `json:"rel,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
}

// RowResponse is one dashboard row.
type RowResponse struct {
	ID      string           `json:"id"`
	Display linkrow.Display  `json:"display"`
	Actions []ActionResponse `json:"actions"`
}

func toRowResponse(row linkrow.Row) RowResponse {
	v := view.NewRowView(row)
	resp := RowResponse{ID: row.ID, Display: row.Display, Actions: make([]ActionResponse, 0, len(v.Actions))}
	for _, a := range v.Actions {
		resp.Actions = append(resp.Actions, ActionResponse{
			Name:       a.Name,
			Icon:       a.Icon,
			StyleClass: a.Class,
			Href:       a.Href,
			Target:     a.Target,
			Rel:        a.Rel,
			Endpoint:   a.PostURL,
		})
	}
	return resp
}

func pagination(c *fiber.Ctx) (int, int) {
	limit := 20
	offset := 0
	if parsed := c.QueryInt("limit"); parsed > 0 && parsed <= 100 {
		limit = parsed
	}
	if parsed := c.QueryInt("offset"); parsed >= 0 {
		offset = parsed
	}
	return limit, offset
}

// ListRows handles GET /api/dashboard/links
func (h *DashboardHandler) ListRows(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	rows, err := h.dashboard.Rows(c.UserContext(), limit, offset)
	if err != nil {
		return h.fail(c, "failed to list rows", err)
	}

	response := make([]RowResponse, len(rows))
	for i, row := range rows {
		response[i] = toRowResponse(row)
	}

	return c.JSON(fiber.Map{
		"links":  response,
		"limit":  limit,
		"offset": offset,
		"count":  len(response),
	})
}

// Page handles GET /dashboard
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	rows, err := h.dashboard.Rows(c.UserContext(), limit, offset)
	if err != nil {
		return h.fail(c, "failed to render dashboard", err)
	}

	html, err := view.RenderDashboard("Links", rows)
	if err != nil {
		h.logger.Error("failed to render dashboard page", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render page",
		})
	}

	return c.Type("html", "utf-8").SendString(html)
}

// Dispatch handles POST /api/dashboard/links/:id/actions/:action
func (h *DashboardHandler) Dispatch(c *fiber.Ctx) error {
	id := c.Params("id")
	name, ok := linkrow.ParseActionName(c.Params("action"))
	if id == "" || !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown action",
		})
	}

	outcome, err := h.dashboard.Dispatch(c.UserContext(), id, name)
	if err != nil {
		return h.fail(c, "failed to run action", err, zap.String("link_id", id), zap.String("action", string(name)))
	}

	return c.JSON(outcome)
}

// QR handles GET /api/dashboard/qr
func (h *DashboardHandler) QR(c *fiber.Ctx) error {
	img, err := h.dashboard.CurrentQR(c.UserContext())
	if err != nil {
		return h.fail(c, "failed to render qr code", err)
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	if c.Query("format") == "json" {
		return c.JSON(fiber.Map{
			"link_id":    img.LinkID,
			"short_link": img.ShortLink,
			"data_url":   img.DataURL(),
		})
	}

	c.Set("X-Link-ID", img.LinkID)
	return c.Type("png").Send(img.PNG)
}

// Clipboard handles GET /api/dashboard/clipboard
func (h *DashboardHandler) Clipboard(c *fiber.Ctx) error {
	sid, err := session.Require(c.UserContext())
	if err != nil {
		return h.fail(c, "no session", err)
	}

	text, err := h.clipboard.Read(c.UserContext(), sid)
	if err != nil {
		return h.fail(c, "failed to read clipboard", err)
	}
	return c.JSON(fiber.Map{"text": text})
}

// Toasts handles GET /api/dashboard/toasts
func (h *DashboardHandler) Toasts(c *fiber.Ctx) error {
	sid, err := session.Require(c.UserContext())
	if err != nil {
		return h.fail(c, "no session", err)
	}

	toasts, err := h.toasts.Drain(c.UserContext(), sid)
	if err != nil {
		return h.fail(c, "failed to load toasts", err)
	}
	return c.JSON(fiber.Map{"toasts": toasts, "time": time.Now().UTC().Format(time.RFC3339)})
}

// fail maps service errors to HTTP statuses and logs the ones that indicate bugs or outages.
func (h *DashboardHandler) fail(c *fiber.Ctx, msg string, err error, fields ...zap.Field) error {
	status := statusFor(err)
	fields = append(fields, zap.Error(err), zap.Int("status", status))
	if status >= fiber.StatusInternalServerError {
		h.logger.Error(msg, fields...)
	} else {
		h.logger.Debug(msg, fields...)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": errorMessage(status),
	})
}

func statusFor(err error) int {
	var (
		urlErr  *linkrow.InvalidURLError
		dateErr *linkrow.InvalidDateError
		clipErr *linkrow.ClipboardWriteError
		resErr  *linkrow.ResolverError
	)
	switch {
	case errors.Is(err, repository.ErrLinkNotFound), errors.Is(err, service.ErrNoQRTarget), errors.Is(err, service.ErrUnknownKey):
		return fiber.StatusNotFound
	case errors.Is(err, linkrow.ErrUnknownAction):
		return fiber.StatusBadRequest
	case errors.Is(err, linkrow.ErrActionInFlight):
		return fiber.StatusConflict
	case errors.Is(err, session.ErrNoSession):
		return fiber.StatusUnauthorized
	case errors.As(err, &clipErr), errors.As(err, &resErr):
		return fiber.StatusBadGateway
	case errors.As(err, &urlErr), errors.As(err, &dateErr):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

func errorMessage(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "not found"
	case fiber.StatusBadRequest:
		return "unknown action"
	case fiber.StatusConflict:
		return linkrow.ErrActionInFlight.Error()
	case fiber.StatusUnauthorized:
		return "no session"
	case fiber.StatusBadGateway:
		return "action failed"
	default:
		return "internal server error"
	}
}
