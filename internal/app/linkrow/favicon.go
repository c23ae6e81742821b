package linkrow

// DefaultFaviconTemplate is the icon service prefix; the raw destination URL is appended as-is.
const DefaultFaviconTemplate = "https://www.google.com/s2/favicons?sz=128&domain_url="

// BuildFaviconFallback composes the icon-service URL for rawURL.
func BuildFaviconFallback(rawURL string) string {
	return buildFavicon(DefaultFaviconTemplate, rawURL)
}

// Favicon returns the record's own icon, or the fallback when it has none.
func Favicon(r Record) string {
	return faviconWith(DefaultFaviconTemplate, r)
}

func faviconWith(template string, r Record) string {
	if r.Favicon != "" {
		return r.Favicon
	}
	return buildFavicon(template, r.URL)
}

func buildFavicon(template, rawURL string) string {
	if template == "" {
		template = DefaultFaviconTemplate
	}
	return template + rawURL
}
