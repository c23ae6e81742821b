package view

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/sifan077/linkdash/internal/app/linkrow"
)

// ActionView is one entry of a row's action menu.
type ActionView struct {
	Name     string
	Icon     string
	Class    string
	Navigate bool
	Href     string
	Target   string
	Rel      string
	PostURL  string
}

// RowView is a row prepared for the template.
type RowView struct {
	ID      string
	Display linkrow.Display
	Actions []ActionView
}

// DashboardPageData feeds the dashboard template.
type DashboardPageData struct {
	Title string
	Rows  []RowView
}

// ActionPath is where invocable actions are posted.
func ActionPath(id string, name linkrow.ActionName) string {
	return "/api/dashboard/links/" + url.PathEscape(id) + "/actions/" + strings.ToLower(string(name))
}

// NewRowView flattens a rendered row and its actions.
func NewRowView(row linkrow.Row) RowView {
	out := RowView{ID: row.ID, Display: row.Display}
	for _, a := range row.Actions {
		av := ActionView{Name: string(a.Name()), Icon: a.Icon(), Class: a.StyleClass()}
		switch act := a.(type) {
		case linkrow.NavigateAction:
			av.Navigate = true
			av.Href = act.Href
			av.Target = act.Target
			av.Rel = act.Rel
		case linkrow.InvokeAction:
			av.PostURL = ActionPath(row.ID, a.Name())
		}
		out.Actions = append(out.Actions, av)
	}
	return out
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{.Title}}</title>
</head>
<body>
{{range .Rows}}
	<div class="link-row" data-id="{{.ID}}">
		<div class="link-main">
			<img alt="{{.Display.Hostname}}" src="{{.Display.Favicon}}" class="favicon" />
			<a href="{{.Display.ShortLink}}" target="_blank" rel="noopener noreferrer" class="short-link">{{.Display.ShortLink}}</a>
			<a href="{{.Display.URL}}" target="_blank" rel="noopener noreferrer" class="destination">{{.Display.URL}}</a>
		</div>
		<div class="link-dates">
			{{- if .Display.ShowExpiration}}
			<div class="expires"><span>{{.Display.ExpiresAt}}</span><span class="label">Expire At</span></div>
			{{- end}}
			<div class="created"><span>{{.Display.CreatedAt}}</span><span class="label">Created At</span></div>
		</div>
		<a href="{{.Display.AnalyticsPath}}" class="clicks">{{.Display.Clicks}} clicks</a>
		<ul class="actions">
			{{- range .Actions}}
			<li data-action="{{.Name}}" data-icon="{{.Icon}}">
				{{- if .Navigate}}
				<a href="{{.Href}}" target="{{.Target}}" rel="{{.Rel}}"{{if .Class}} class="{{.Class}}"{{end}}>{{.Name}}</a>
				{{- else}}
				<form method="post" action="{{.PostURL}}"><button type="submit"{{if .Class}} class="{{.Class}}"{{end}}>{{.Name}}</button></form>
				{{- end}}
			</li>
			{{- end}}
		</ul>
	</div>
{{else}}
	<p class="empty">No links yet.</p>
{{end}}
</body>
</html>
`))

// RenderDashboard expands the dashboard template for rows.
func RenderDashboard(title string, rows []linkrow.Row) (string, error) {
	if title == "" {
		title = "Links"
	}
	data := DashboardPageData{Title: title}
	for _, r := range rows {
		data.Rows = append(data.Rows, NewRowView(r))
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
