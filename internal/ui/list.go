package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nomadex/nomadex/internal/catalog"
	"github.com/nomadex/nomadex/internal/store"
)

// handleListKey processes keyboard input for the catalog list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending delete confirmation swallows everything except its answer.
	if m.confirmDeleteID != 0 {
		switch msg.String() {
		case "y":
			id := m.confirmDeleteID
			m.confirmDeleteID = 0
			return m, m.deleteCmd(id)
		case "n", "esc":
			m.confirmDeleteID = 0
		}
		return m, nil
	}

	// While the search box is focused, keystrokes edit the filter term and
	// the list narrows immediately.
	if m.searchFocused {
		switch msg.String() {
		case "esc", "enter":
			m.searchFocused = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.catalog.SetSearchTerm(m.searchInput.Value())
		m.refreshVisible()
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.cycleTheme()
		return m, nil

	case "/":
		m.searchFocused = true
		m.searchInput.Focus()
		return m, nil

	case "esc":
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.catalog.SetSearchTerm("")
			m.refreshVisible()
		}
		return m, nil

	case "j", "down":
		if m.selectedRow < len(m.visible)-1 {
			m.selectedRow++
		}
		return m, nil

	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case "g", "home":
		m.selectedRow = 0
		return m, nil

	case "G", "end":
		if len(m.visible) > 0 {
			m.selectedRow = len(m.visible) - 1
		}
		return m, nil

	case "f":
		m.catalog.SetVisibility(m.catalog.Query().Visibility.Next())
		m.refreshVisible()
		return m, nil

	case "s":
		m.catalog.SetSort(m.catalog.Query().Sort.Next())
		m.refreshVisible()
		return m, nil

	case "r":
		return m, m.reloadCmd()

	case "enter":
		if v, ok := m.selectedVoyage(); ok {
			m.catalog.Select(v.ID)
			m.detailJournals = nil
			m.journalsErr = false
			m.currentView = ViewDetail
			m.updateDetailViewport()
			return m, m.journalsCmd(v.ID)
		}
		return m, nil

	case "c":
		m.openForm(nil)
		return m, nil

	case "e":
		if v, ok := m.selectedVoyage(); ok {
			m.openForm(&v)
		}
		return m, nil

	case "d":
		if v, ok := m.selectedVoyage(); ok {
			m.confirmDeleteID = v.ID
		}
		return m, nil
	}

	return m, nil
}

func (m Model) selectedVoyage() (store.Voyage, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.visible) {
		return store.Voyage{}, false
	}
	return m.visible[m.selectedRow], true
}

// renderMain renders the header, the active view and the footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.renderList()
	case ViewForm:
		return m.renderForm()
	case ViewDetail:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	q := m.catalog.Query()
	parts := []string{
		styles.Logo.Render("NOMADEX"),
		styles.MutedText.Render(fmt.Sprintf("%d voyages", len(m.visible))),
		styles.Text.Render(fmt.Sprintf("Filter: %s", q.Visibility.Label())),
		styles.Text.Render(fmt.Sprintf("Sort: %s", q.Sort.Label())),
	}

	if toast, on := m.catalog.Toast(); on {
		style := styles.SuccessText
		if toast.Variant == catalog.ToastError {
			style = styles.DangerText
		}
		parts = append(parts, style.Render(toast.Message))
	}

	return styles.Header.Render(strings.Join(parts, "  •  "))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	if m.confirmDeleteID != 0 {
		return styles.Footer.Render(styles.WarningText.Render("Delete this voyage? y/n"))
	}

	var hints string
	switch m.currentView {
	case ViewList:
		hints = "j/k move  enter open  c create  e edit  d delete  / search  f filter  s sort  r reload  T theme  ? help  q quit"
	case ViewForm:
		hints = "tab next field  ctrl+s save  esc cancel  ? see help for map keys"
	case ViewDetail:
		hints = "j/k scroll  e edit  d delete  esc back"
	}
	return styles.Footer.Render(hints)
}

// renderList renders the search box and the visible catalog rows.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(styles.MutedText.Render("No voyages match."))
		return b.String()
	}

	deletingID := m.catalog.DeletingID()
	height := m.listHeight()
	top := m.listScrollTop(height)

	for i := top; i < len(m.visible) && i < top+height; i++ {
		v := m.visible[i]
		line := m.renderListRow(v, deletingID == v.ID)
		if i == m.selectedRow {
			line = styles.Selected.Render(line)
		}
		b.WriteString(line)
		if i < len(m.visible)-1 && i < top+height-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderListRow(v store.Voyage, deleting bool) string {
	styles := m.theme.Styles()

	visibility := "private"
	if v.Public {
		visibility = "public"
	}

	place := v.Destination
	if v.Country != "" {
		place += ", " + v.Country
	}

	parts := []string{
		styles.Text.Render(truncate(v.Title, 32)),
		styles.MutedText.Render(truncate(place, 28)),
		styles.FaintText.Render(v.StartDate + " → " + v.EndDate),
		styles.InfoText.Render(visibility),
	}
	if deleting {
		parts = append(parts, styles.WarningText.Render("deleting…"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) listHeight() int {
	h := m.height - 6 // header, footer, search box, spacing
	if h < 3 {
		h = 3
	}
	return h
}

// listScrollTop keeps the selection inside the visible window.
func (m Model) listScrollTop(height int) int {
	if m.selectedRow < height {
		return 0
	}
	return m.selectedRow - height + 1
}
