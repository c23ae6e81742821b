package linkrow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sifan077/linkdash/internal/app/session"
)

// Notification is a toast shown to the dashboard user.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var (
	// CopySuccess is sent once the short link is on the clipboard.
	CopySuccess = Notification{Title: "Success", Description: "The url has been copied to the clipboard!"}
	// CopyFailure is sent best-effort when Copy cannot complete.
	CopyFailure = Notification{Title: "Error", Description: "The url could not be copied to the clipboard."}
)

// Clipboard writes text to the user's clipboard.
type Clipboard interface {
	Write(ctx context.Context, text string) error
}

// Notifier delivers toasts.
type Notifier interface {
	Add(ctx context.Context, n Notification) error
}

// Resolver turns a url key into the shareable short link.
type Resolver interface {
	Resolve(ctx context.Context, urlKey string) (string, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, urlKey string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, urlKey string) (string, error) {
	return f(ctx, urlKey)
}

// Callbacks are the caller-owned mutation signals of a row.
// OnShowQR receives no record: the caller knows which row it built the callbacks for.
type Callbacks struct {
	OnShowQR func(ctx context.Context) error
	OnDelete func(ctx context.Context, id string) error
	// OnCopied is optional and runs after the success notification.
	OnCopied func(ctx context.Context, shortLink string)
}

// Deps bundles the collaborators a Registry needs.
type Deps struct {
	Resolver  Resolver
	Clipboard Clipboard
	Notifier  Notifier
	Deriver   Deriver
}

// Registry builds and dispatches row actions.
// Copy and Delete are not re-entrant per session and record: a second call from
// the same session while the first is still running returns ErrActionInFlight.
// Other sessions are not affected.
type Registry struct {
	resolver  Resolver
	clipboard Clipboard
	notifier  Notifier
	deriver   Deriver

	mu       sync.Mutex
	inflight map[inflightKey]struct{}
}

type inflightKey struct {
	session string
	id      string
	action  ActionName
}

// NewRegistry returns a Registry using the given collaborators.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		resolver:  deps.Resolver,
		clipboard: deps.Clipboard,
		notifier:  deps.Notifier,
		deriver:   deps.Deriver,
		inflight:  make(map[inflightKey]struct{}),
	}
}

// BuildActions returns Open, Copy, QR and Delete for rec, in that order.
func (r *Registry) BuildActions(rec Record, cb Callbacks) []Action {
	return []Action{
		NavigateAction{
			actionMeta: actionMeta{name: ActionOpen, icon: IconOpen},
			Href:       rec.URL,
			Target:     "_blank",
			Rel:        "noopener noreferrer",
		},
		InvokeAction{
			actionMeta: actionMeta{name: ActionCopy, icon: IconCopy},
			Handler:    r.copyHandler(rec, cb),
		},
		InvokeAction{
			actionMeta: actionMeta{name: ActionQR, icon: IconQR},
			Handler: func(ctx context.Context) error {
				if cb.OnShowQR == nil {
					return fmt.Errorf("show qr: %w", ErrMissingCallback)
				}
				return cb.OnShowQR(ctx)
			},
		},
		InvokeAction{
			actionMeta: actionMeta{name: ActionDelete, icon: IconDelete, style: DestructiveStyle},
			Handler:    r.deleteHandler(rec, cb),
		},
	}
}

func (r *Registry) copyHandler(rec Record, cb Callbacks) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		release, ok := r.acquire(ctx, rec.ID, ActionCopy)
		if !ok {
			return ErrActionInFlight
		}
		defer release()

		link, err := r.resolve(ctx, rec.URLKey)
		if err != nil {
			r.notifyFailure(ctx)
			return err
		}

		if err := r.clipboard.Write(ctx, link); err != nil {
			r.notifyFailure(ctx)
			return &ClipboardWriteError{Err: err}
		}

		if err := r.notifier.Add(ctx, CopySuccess); err != nil {
			return fmt.Errorf("notify copy: %w", err)
		}

		if cb.OnCopied != nil {
			cb.OnCopied(ctx, link)
		}
		return nil
	}
}

func (r *Registry) deleteHandler(rec Record, cb Callbacks) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if cb.OnDelete == nil {
			return fmt.Errorf("delete: %w", ErrMissingCallback)
		}
		release, ok := r.acquire(ctx, rec.ID, ActionDelete)
		if !ok {
			return ErrActionInFlight
		}
		defer release()
		return cb.OnDelete(ctx, rec.ID)
	}
}

// ResolveShortLink resolves urlKey through the registry's resolver.
func (r *Registry) ResolveShortLink(ctx context.Context, urlKey string) (string, error) {
	return r.resolve(ctx, urlKey)
}

func (r *Registry) resolve(ctx context.Context, urlKey string) (string, error) {
	link, err := r.resolver.Resolve(ctx, urlKey)
	if err != nil {
		var resErr *ResolverError
		if errors.As(err, &resErr) {
			return "", err
		}
		return "", &ResolverError{Key: urlKey, Err: err}
	}
	return link, nil
}

func (r *Registry) notifyFailure(ctx context.Context) {
	_ = r.notifier.Add(ctx, CopyFailure)
}

func (r *Registry) acquire(ctx context.Context, id string, action ActionName) (func(), bool) {
	sid, _ := session.FromContext(ctx)
	key := inflightKey{session: sid, id: id, action: action}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inflight[key]; busy {
		return nil, false
	}
	r.inflight[key] = struct{}{}

	return func() {
		r.mu.Lock()
		delete(r.inflight, key)
		r.mu.Unlock()
	}, true
}

// Outcome describes what a dispatched action did.
type Outcome struct {
	Action   ActionName `json:"action"`
	Navigate bool       `json:"navigate"`
	Href     string     `json:"href,omitempty"`
	Target   string     `json:"target,omitempty"`
	Rel      string     `json:"rel,omitempty"`
}

// Dispatch selects the action called name. Navigations are returned to the caller;
// handlers run before Dispatch returns.
func (r *Registry) Dispatch(ctx context.Context, actions []Action, name ActionName) (Outcome, error) {
	for _, a := range actions {
		if a.Name() != name {
			continue
		}
		switch act := a.(type) {
		case NavigateAction:
			return Outcome{Action: name, Navigate: true, Href: act.Href, Target: act.Target, Rel: act.Rel}, nil
		case InvokeAction:
			if err := act.Invoke(ctx); err != nil {
				return Outcome{Action: name}, err
			}
			return Outcome{Action: name}, nil
		}
	}
	return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
