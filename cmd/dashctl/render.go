package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sifan077/linkdash/internal/app/linkrow"
)

var (
	accent = lipgloss.Color("#7C3AED")
	subtle = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#EF4444")
	green  = lipgloss.Color("#10B981")

	hostStyle    = lipgloss.NewStyle().Bold(true)
	linkStyle    = lipgloss.NewStyle().Foreground(accent)
	dimStyle     = lipgloss.NewStyle().Foreground(subtle)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
)

// actionStyle maps a row action's style class to a terminal style.
func actionStyle(class string) lipgloss.Style {
	if class == linkrow.DestructiveStyle {
		return lipgloss.NewStyle().Foreground(danger)
	}
	return dimStyle
}

func renderRows(w io.Writer, rows []linkrow.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, dimStyle.Render("No links yet."))
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, renderRow(row)); err != nil {
			return err
		}
	}
	return nil
}

func renderRow(row linkrow.Row) string {
	d := row.Display

	var b strings.Builder
	b.WriteString(hostStyle.Render(d.Hostname))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("#" + row.ID))
	b.WriteString("\n  ")
	b.WriteString(linkStyle.Render(d.ShortLink))
	b.WriteString(" -> ")
	b.WriteString(d.URL)
	b.WriteString("\n  ")

	meta := []string{
		strconv.FormatInt(d.Clicks, 10) + " clicks",
		"Created " + d.CreatedAt,
	}
	if d.ShowExpiration {
		meta = append(meta, "Expire At "+d.ExpiresAt)
	}
	b.WriteString(dimStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n  ")

	names := make([]string, 0, len(row.Actions))
	for _, a := range row.Actions {
		names = append(names, actionStyle(a.StyleClass()).Render("["+strings.ToLower(string(a.Name()))+"]"))
	}
	b.WriteString(strings.Join(names, " "))
	return b.String()
}

func renderOutcome(w io.Writer, out linkrow.Outcome) error {
	if !out.Navigate {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s %s\n", dimStyle.Render("open:"), linkStyle.Render(out.Href))
	return err
}

func renderNotification(n linkrow.Notification) string {
	title := successStyle.Render(n.Title)
	if n.Title == linkrow.CopyFailure.Title {
		title = errorStyle.Render(n.Title)
	}
	return title + " " + n.Description
}
