package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/showroom/internal/catalog"
	"github.com/five82/showroom/internal/fakestore"
)

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.selectRow(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selectRow(len(m.catalog.Results()) - 1)

	case key.Matches(msg, m.keys.NextCategory):
		m.catalog.CycleCategory(1)
		m.clampSelection()
	case key.Matches(msg, m.keys.PrevCategory):
		m.catalog.CycleCategory(-1)
		m.clampSelection()
	case key.Matches(msg, m.keys.CycleSort):
		m.catalog.CycleSortOrder()
		m.clampSelection()
		m.savePrefs()
	case key.Matches(msg, m.keys.FavoritesOnly):
		m.catalog.SetShowFavoritesOnly(!m.catalog.Filter().FavoritesOnly)
		m.clampSelection()

	case key.Matches(msg, m.keys.ToggleFavorite):
		if p, ok := m.selectedProduct(); ok {
			on := m.favorites.Toggle(p.ID)
			m.logger.Debug("favorite toggled", zap.Int64("id", p.ID), zap.Bool("favorite", on))
			m.clampSelection()
		}

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selectedProduct(); ok {
			return m.openDetail(p.ID)
		}

	case key.Matches(msg, m.keys.Retry):
		return m, m.startLoad()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.catalog.SetSearchText("")
		m.clampSelection()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.catalog.Filter().SearchText {
		m.catalog.SetSearchText(m.searchInput.Value())
		m.clampSelection()
	}
	return m, cmd
}

func (m Model) selectedProduct() (fakestore.Product, bool) {
	results := m.catalog.Results()
	if m.selectedRow < 0 || m.selectedRow >= len(results) {
		return fakestore.Product{}, false
	}
	return results[m.selectedRow], true
}

func (m *Model) moveSelection(delta int) {
	m.selectRow(m.selectedRow + delta)
}

func (m *Model) selectRow(row int) {
	results := m.catalog.Results()
	if len(results) == 0 {
		m.selectedRow, m.selectedID = 0, 0
		return
	}
	row = min(max(row, 0), len(results)-1)
	m.selectedRow = row
	m.selectedID = results[row].ID
}

// clampSelection keeps the cursor on the same product when it is still
// visible, otherwise on the nearest row.
func (m *Model) clampSelection() {
	results := m.catalog.Results()
	for i, p := range results {
		if p.ID == m.selectedID {
			m.selectedRow = i
			return
		}
	}
	m.selectRow(m.selectedRow)
}

// renderDashboard renders the search line and the product list.
func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	view := m.catalog.View()
	height := m.contentHeight()

	var b strings.Builder
	if m.searching || view.Filter.SearchText != "" {
		b.WriteString(" " + m.searchInput.View())
		b.WriteString("\n")
		height--
	}

	switch view.State {
	case catalog.Idle, catalog.Loading:
		b.WriteString(m.renderCentered(height,
			m.spinner.View()+" "+styles.MutedText.Render("Loading collection..."),
		))
		return b.String()
	case catalog.Error:
		if len(view.Results) == 0 {
			b.WriteString(m.renderErrorBox(height, view))
			return b.String()
		}
	}

	if len(view.Results) == 0 {
		b.WriteString(m.renderEmpty(height, view.Filter))
		return b.String()
	}

	summary := fmt.Sprintf("Showing %d %s", len(view.Results), pluralize(len(view.Results), "Result", "Results"))
	b.WriteString(" " + styles.AccentText.Bold(true).Render(summary))
	if view.State == catalog.Error {
		b.WriteString("  " + styles.WarningText.Render("(last refresh failed, r to retry)"))
	}
	b.WriteString("\n")
	b.WriteString(m.renderRows(view.Results, max(height-1, 1)))
	return b.String()
}

// renderRows renders the visible window of product rows around the cursor.
func (m Model) renderRows(results []fakestore.Product, height int) string {
	start := 0
	if m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := min(start+height, len(results))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(results[i], i == m.selectedRow))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(p fakestore.Product, selected bool) string {
	rowBg := m.theme.Background
	if selected {
		rowBg = m.theme.SelectionBg
	}
	styles := m.theme.Styles().WithBackground(rowBg)
	bg := NewBgStyle(rowBg)

	showCategory := m.width >= LayoutCompactWidth
	showRating := m.width >= LayoutWideWidth

	titleWidth := m.width - markerColumnWidth - priceColumnWidth - 2
	if showCategory {
		titleWidth -= categoryColumnWidth + 1
	}
	if showRating {
		titleWidth -= ratingColumnWidth + 1
	}
	titleWidth = max(titleWidth, 10)

	marker := bg.Spaces(markerColumnWidth)
	if m.favorites.Has(p.ID) {
		marker = bg.Render(" ♥ ", styles.Favorite)
	}

	titleStyle := styles.Text
	if selected {
		titleStyle = titleStyle.Foreground(lipgloss.Color(m.theme.SelectionText)).Bold(true)
	}
	cols := []string{
		marker,
		bg.Render(padRight(truncate(p.Title, titleWidth), titleWidth), titleStyle),
	}
	if showCategory {
		cols = append(cols, bg.Render(padRight(truncate(p.Category, categoryColumnWidth), categoryColumnWidth), styles.MutedText))
	}
	if showRating {
		cols = append(cols, bg.Render(padRight(fmt.Sprintf("★ %.1f", p.Rating.Rate), ratingColumnWidth), styles.Star))
	}
	cols = append(cols, bg.Render(padLeft(p.FormatPrice(), priceColumnWidth), styles.Price))

	return bg.FillLine(bg.Join(cols, " "), m.width)
}

func (m Model) renderEmpty(height int, f catalog.Filter) string {
	styles := m.theme.Styles()
	lines := []string{styles.Text.Bold(true).Render("No products found")}
	switch {
	case f.SearchText != "":
		lines = append(lines, styles.MutedText.Render(fmt.Sprintf("We couldn't find anything matching %q", f.SearchText)))
	case f.FavoritesOnly:
		lines = append(lines, styles.MutedText.Render("You have no favorites here yet. Press f on a product to add one."))
	default:
		lines = append(lines, styles.MutedText.Render("Try another category or clear your filters."))
	}
	return m.renderCentered(height, lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m Model) renderErrorBox(height int, view catalog.View) string {
	styles := m.theme.Styles()
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.DangerText.Render("Connection Error"),
		"",
		styles.Text.Render("We couldn't load the collection."),
		styles.MutedText.Render(classifyConnectionError(view.LastError)+": "+truncate(errorText(view.LastError), 60)),
		"",
		styles.WarningText.Render("Press r to try again"),
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 3).
		Render(body)
	return m.renderCentered(height, box)
}

func (m Model) renderCentered(height int, content string) string {
	return lipgloss.Place(m.width, max(height, 1), lipgloss.Center, lipgloss.Center, content)
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
