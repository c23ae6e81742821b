package linkrow

import "net/url"

// Display holds the derived strings for one row.
type Display struct {
	Hostname       string `json:"hostname"`
	Favicon        string `json:"favicon"`
	ShortLink      string `json:"short_link"`
	URL            string `json:"url"`
	Clicks         int64  `json:"clicks"`
	AnalyticsPath  string `json:"analytics_path"`
	CreatedAt      string `json:"created_at"`
	ExpiresAt      string `json:"expires_at,omitempty"`
	ShowExpiration bool   `json:"show_expiration"`

	// ExpirationErr is set when an expiration was supplied but could not be shown.
	ExpirationErr error `json:"-"`
}

// Deriver computes Display values. The zero value uses the default favicon
// service and date formatter.
type Deriver struct {
	FaviconTemplate string
	Dates           DateFormatter
}

// Favicon returns the record's icon or the fallback built from FaviconTemplate.
func (d Deriver) Favicon(r Record) string {
	return faviconWith(d.FaviconTemplate, r)
}

// Derive builds the display for rec. Failures on required fields are returned;
// a bad expiration only hides the expiration field.
func (d Deriver) Derive(rec Record, shortLink string) (Display, error) {
	host, err := Hostname(rec.URL)
	if err != nil {
		return Display{}, err
	}

	created, err := d.Dates.Format(rec.CreatedAt)
	if err != nil {
		if de, ok := err.(*InvalidDateError); ok {
			de.Field = "created_at"
		}
		return Display{}, err
	}

	out := Display{
		Hostname:      host,
		Favicon:       d.Favicon(rec),
		ShortLink:     shortLink,
		URL:           rec.URL,
		Clicks:        rec.Clicks,
		AnalyticsPath: AnalyticsPath(rec.URLKey),
		CreatedAt:     created,
	}

	if rec.HasExpiration() {
		expires, err := d.Dates.Format(rec.ExpirationTime)
		if err != nil {
			if de, ok := err.(*InvalidDateError); ok {
				de.Field = "expiration_time"
			}
			out.ExpirationErr = err
		} else {
			out.ExpiresAt = expires
			out.ShowExpiration = true
		}
	}

	return out, nil
}

// AnalyticsPath is the dashboard page that breaks down a link's clicks.
func AnalyticsPath(urlKey string) string {
	return "/dashboard/analytics/" + url.PathEscape(urlKey)
}
