package linkrow

import (
	"context"
	"strings"
)

// ActionName identifies one of the row actions.
type ActionName string

const (
	ActionOpen   ActionName = "Open"
	ActionCopy   ActionName = "Copy"
	ActionQR     ActionName = "QR"
	ActionDelete ActionName = "Delete"
)

// ActionOrder is the order BuildActions always returns.
var ActionOrder = []ActionName{ActionOpen, ActionCopy, ActionQR, ActionDelete}

// ParseActionName matches s case-insensitively against the known action names.
func ParseActionName(s string) (ActionName, bool) {
	for _, name := range ActionOrder {
		if strings.EqualFold(string(name), s) {
			return name, true
		}
	}
	return "", false
}

// Icon names are opaque to this package; they follow the heroicons set the dashboard uses.
const (
	IconOpen   = "arrow-top-right-on-square"
	IconCopy   = "clipboard-document"
	IconQR     = "qr-code"
	IconDelete = "trash"

	// DestructiveStyle marks actions that remove data.
	DestructiveStyle = "text-red-500"
)

// Action is either a NavigateAction or an InvokeAction.
type Action interface {
	Name() ActionName
	Icon() string
	StyleClass() string

	sealed()
}

type actionMeta struct {
	name  ActionName
	icon  string
	style string
}

func (m actionMeta) Name() ActionName   { return m.name }
func (m actionMeta) Icon() string       { return m.icon }
func (m actionMeta) StyleClass() string { return m.style }

// NavigateAction opens Href in a new browsing context.
type NavigateAction struct {
	actionMeta
	Href   string
	Target string
	Rel    string
}

func (NavigateAction) sealed() {}

// InvokeAction runs a side-effecting handler.
type InvokeAction struct {
	actionMeta
	Handler func(ctx context.Context) error
}

func (InvokeAction) sealed() {}

// Invoke runs the handler.
func (a InvokeAction) Invoke(ctx context.Context) error {
	return a.Handler(ctx)
}
