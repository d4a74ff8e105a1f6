package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

	switch msg.String() {
	case "esc", "q":
		m.catalog.ClearSelection()
		m.currentView = ViewList
		return m, nil

	case "e":
		if v, ok := m.catalog.Selected(); ok {
			m.openForm(&v)
		}
		return m, nil

	case "d":
		if v, ok := m.catalog.Selected(); ok {
			m.confirmDeleteID = v.ID
		}
		return m, nil

	case "T":
		m.cycleTheme()
		return m, nil

	case "h", "?":
		m.showHelp = true
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// updateDetailViewport rebuilds the detail content for the selected record.
func (m *Model) updateDetailViewport() {
	v, ok := m.catalog.Selected()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}

	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render(v.Title))
	b.WriteString("\n")

	place := v.Destination
	if v.Country != "" {
		place += ", " + v.Country
	}
	b.WriteString(styles.Text.Render(place))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(v.StartDate + " → " + v.EndDate))
	b.WriteString("\n")

	visibility := "private"
	if v.Public {
		visibility = "public"
	}
	b.WriteString(styles.Badge.Render(visibility))
	if v.HasCoordinates() {
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%.4f, %.4f", *v.Latitude, *v.Longitude)))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.Text.Render(v.Description))
	b.WriteString("\n")

	if n := len(v.Gallery); n > 0 {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d images in the gallery", n)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("Journals"))
	b.WriteString("\n")
	switch {
	case m.journalsErr:
		b.WriteString(styles.DangerText.Render("Journals could not be loaded."))
	case len(m.detailJournals) == 0:
		b.WriteString(styles.MutedText.Render("No journal entries yet."))
	default:
		for i, j := range m.detailJournals {
			b.WriteString(styles.Text.Bold(true).Render(j.Title))
			meta := j.Date
			if j.Place != "" {
				meta += "  " + j.Place
			}
			if j.Mood != "" {
				meta += "  " + j.Mood
			}
			if j.Weather != "" {
				meta += "  " + j.Weather
			}
			b.WriteString("\n")
			b.WriteString(styles.FaintText.Render(meta))
			b.WriteString("\n")
			b.WriteString(styles.Text.Render(j.Content))
			if i < len(m.detailJournals)-1 {
				b.WriteString("\n\n")
			}
		}
	}

	m.detailViewport.SetContent(b.String())
	m.detailViewport.GotoTop()
}

func (m Model) renderDetail() string {
	return m.detailViewport.View()
}
