// Package linkrow holds the logic behind one row of the links dashboard:
// the record contract, the derived display values and the row's actions.
// It performs no I/O of its own; storage, clipboard, notifications and
// short-link resolution are supplied by the caller.
package linkrow

import (
	"errors"
	"net/url"
)

// Record is the caller-owned input for one dashboard row.
type Record struct {
	ID             string `json:"id"`
	URLKey         string `json:"url_key"`
	URL            string `json:"url"`
	Clicks         int64  `json:"clicks"`
	Favicon        string `json:"favicon,omitempty"`
	CreatedAt      string `json:"created_at"`
	ExpirationTime string `json:"expiration_time,omitempty"`
}

// HasExpiration reports whether the record carries an expiration timestamp.
func (r Record) HasExpiration() bool {
	return r.ExpirationTime != ""
}

// Validate checks the required fields. Optional fields are never rejected here.
func (r Record) Validate() error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if r.URLKey == "" {
		return ErrEmptyURLKey
	}
	if r.Clicks < 0 {
		return ErrNegativeClicks
	}
	if _, err := Hostname(r.URL); err != nil {
		return err
	}
	if _, err := ParseTimestamp(r.CreatedAt); err != nil {
		return &InvalidDateError{Field: "created_at", Value: r.CreatedAt, Err: err}
	}
	return nil
}

// Hostname returns the host name of an absolute URL, without port.
func Hostname(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &InvalidURLError{URL: rawURL, Err: err}
	}
	if u.Scheme == "" {
		return "", &InvalidURLError{URL: rawURL, Err: errors.New("missing scheme")}
	}
	host := u.Hostname()
	if host == "" {
		return "", &InvalidURLError{URL: rawURL, Err: errors.New("missing host")}
	}
	return host, nil
}
