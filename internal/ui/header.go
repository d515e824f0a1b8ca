package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/showroom/internal/catalog"
	"github.com/five82/showroom/internal/fakestore"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	view := m.catalog.View()

	parts := []string{bg.Render("showroom", styles.Logo)}

	switch view.State {
	case catalog.Loading:
		parts = append(parts, bg.Render("Loading collection...", styles.WarningText.Bold(true)))
	case catalog.Error:
		parts = append(parts,
			bg.Render("STORE "+classifyConnectionError(view.LastError), styles.DangerText),
			bg.Render("r to retry", styles.MutedText),
		)
	case catalog.Loaded:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("Idle", styles.MutedText))
	}

	parts = append(parts,
		bg.Render("Products:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d/%d", len(view.Results), view.Total), styles.Text),
		bg.Render("♥", styles.Favorite)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", m.favorites.Len()), styles.Text),
	)

	if filters := describeFilter(view.Filter); filters != "" && m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(filters, styles.InfoText))
	}
	if ts := formatLoadedAt(view.LoadedAt); ts != "" && m.width >= LayoutWideWidth {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// describeFilter summarizes the active non-text filters.
func describeFilter(f catalog.Filter) string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, titleCase(f.Category))
	}
	if f.Sort != catalog.SortNone {
		parts = append(parts, f.Sort.Label())
	}
	if f.FavoritesOnly {
		parts = append(parts, "Favorites")
	}
	return strings.Join(parts, " · ")
}

func formatLoadedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := time.Since(t)
	ts := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		return ts + " (now)"
	case since < time.Hour:
		return ts + fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	default:
		return ts
	}
}

// classifyConnectionError returns a short description of a load failure.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, fakestore.ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, errNoSource):
		return "NOT CONFIGURED"
	}
	var statusErr *fakestore.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("HTTP %d", statusErr.Code)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.searching:
		commands = []cmd{
			{"enter", "Keep"},
			{"esc", "Clear"},
		}
	case m.currentView == ViewDetail:
		favLabel := "Favorite"
		if m.favorites.Has(m.detail.id) {
			favLabel = "Unfavorite"
		}
		commands = []cmd{
			{"esc", "Back"},
			{"f", favLabel},
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"?", "More"},
		}
	default:
		filter := m.catalog.Filter()
		category := "All"
		if filter.Category != "" {
			category = titleCase(filter.Category)
		}
		favOnly := "Favorites"
		if filter.FavoritesOnly {
			favOnly = "All items"
		}
		commands = []cmd{
			{"/", "Search"},
			{"c", category},
			{"s", filter.Sort.Label()},
			{"F", favOnly},
			{"f", "Favorite"},
			{"enter", "Details"},
			{"?", "More"},
		}
	}

	if m.width < LayoutCompactWidth && len(commands) > 4 {
		commands = append(commands[:3], commands[len(commands)-1])
	}

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	parts := make([]string, 0, len(commands))
	for _, c := range commands {
		parts = append(parts, bg.Render(c.key, keyStyle)+bg.Space()+bg.Render(c.desc, styles.MutedText))
	}
	return bg.FillLine(bg.Spaces(1)+bg.Join(parts, "   "), m.width)
}
