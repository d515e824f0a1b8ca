package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/showroom/internal/catalog"
	"github.com/five82/showroom/internal/fakestore"
)

// openDetail switches to the detail page and requests product id.
func (m Model) openDetail(id int64) (tea.Model, tea.Cmd) {
	m.detail.seq++
	m.detail.id = id
	m.detail.loading = true
	m.detail.result = catalog.Detail{ID: id}
	m.currentView = ViewDetail
	m.detailViewport.GotoTop()
	m.updateDetailViewport()
	return m, fetchDetailCmd(m.ctx, m.source, m.fetchTimeout, m.detail.seq, id)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		// Leaving invalidates any request still in flight.
		m.detail.seq++
		m.detail.loading = false
		m.currentView = ViewDashboard
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.ToggleFavorite):
		if m.detail.result.Found() {
			m.favorites.Toggle(m.detail.id)
			m.updateDetailViewport()
		}
	case key.Matches(msg, m.keys.Retry):
		if !m.detail.loading {
			return m.openDetail(m.detail.id)
		}
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.LineDown(1)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
	}
	return m, nil
}

// updateDetailViewport refreshes the viewport content from the detail state.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	m.detailViewport.SetContent(m.detailContent())
}

func (m Model) renderDetail() string {
	if m.detail.loading {
		styles := m.theme.Styles()
		return m.renderCentered(m.contentHeight(),
			m.spinner.View()+" "+styles.MutedText.Render("Loading product..."))
	}
	if !m.detail.result.Found() {
		return m.renderCentered(m.contentHeight(), m.detailContent())
	}
	return m.detailViewport.View()
}

// detailContent renders the body of the detail page.
func (m Model) detailContent() string {
	styles := m.theme.Styles()
	d := m.detail.result

	if m.detail.loading {
		return ""
	}
	if !d.Found() {
		lines := []string{
			styles.DangerText.Render(d.Message),
			"",
			styles.MutedText.Render("esc to go back, r to try again"),
		}
		return lipgloss.JoinVertical(lipgloss.Center, lines...)
	}

	p := d.Product
	width := max(min(m.width-4, 100), 20)
	textBlock := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + styles.Category.Render(strings.ToUpper(p.Category)))
	b.WriteString("\n\n")

	title := styles.Text.Bold(true).Render(p.Title)
	if m.favorites.Has(p.ID) {
		title += "  " + styles.Favorite.Render("♥ Favorite")
	}
	b.WriteString(indent(textBlock.Render(title), 2))
	b.WriteString("\n\n")

	b.WriteString("  " + renderRating(styles, p.Rating))
	b.WriteString("\n\n")
	b.WriteString("  " + styles.Price.Render(p.FormatPrice()))
	b.WriteString("\n\n")

	b.WriteString("  " + styles.AccentText.Bold(true).Render("Overview"))
	b.WriteString("\n")
	description := strings.TrimSpace(p.Description)
	if description == "" {
		description = "No description provided."
	}
	b.WriteString(indent(textBlock.Inherit(styles.Text).Render(description), 2))
	b.WriteString("\n")
	return b.String()
}

func renderRating(styles Styles, r fakestore.Rating) string {
	reviews := fmt.Sprintf("%d Customer %s", r.Count, pluralize(r.Count, "Review", "Reviews"))
	return styles.Star.Render(r.Stars()) + " " +
		styles.Text.Render(fmt.Sprintf("%.1f", r.Rate)) + "  " +
		styles.MutedText.Render(reviews)
}

func indent(block string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
