package linkrow

import "context"

// Row is one render pass over a record.
type Row struct {
	ID      string   `json:"id"`
	Display Display  `json:"display"`
	Actions []Action `json:"-"`
}

// Render validates rec, derives its display and builds its actions.
// Invalid required fields and resolver failures abort the render.
func (r *Registry) Render(ctx context.Context, rec Record, cb Callbacks) (Row, error) {
	if err := rec.Validate(); err != nil {
		return Row{}, err
	}

	shortLink, err := r.resolve(ctx, rec.URLKey)
	if err != nil {
		return Row{}, err
	}

	display, err := r.deriver.Derive(rec, shortLink)
	if err != nil {
		return Row{}, err
	}

	return Row{
		ID:      rec.ID,
		Display: display,
		Actions: r.BuildActions(rec, cb),
	}, nil
}

// Deriver returns the display deriver the registry renders with.
func (r *Registry) Deriver() Deriver {
	return r.deriver
}
