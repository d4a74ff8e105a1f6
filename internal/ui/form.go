package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nomadex/nomadex/internal/form"
	"github.com/nomadex/nomadex/internal/mapsync"
	"github.com/nomadex/nomadex/internal/store"
)

// Form focus stops, in tab order. The map is a focus stop like any field so
// the whole form stays keyboard-driven.
const (
	focusTitle = iota
	focusLocation
	focusStart
	focusEnd
	focusDescription
	focusImagePath
	focusMap
	focusCount
)

// formFields holds the editable widgets of the authoring form.
type formFields struct {
	title       textinput.Model
	location    textinput.Model
	start       textinput.Model
	end         textinput.Model
	description textarea.Model
	imagePath   textinput.Model
	focus       int
}

func newFormFields(d *form.Draft) formFields {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 120
	title.SetValue(d.Title)
	title.Focus()

	location := textinput.New()
	location.Placeholder = "Search a destination"
	location.CharLimit = 120
	location.SetValue(d.LocationSearch)

	start := textinput.New()
	start.Placeholder = "YYYY-MM-DD"
	start.CharLimit = 10
	start.SetValue(d.StartDate)

	end := textinput.New()
	end.Placeholder = "YYYY-MM-DD"
	end.CharLimit = 10
	end.SetValue(d.EndDate)

	description := textarea.New()
	description.Placeholder = "Tell the story"
	description.SetWidth(44)
	description.SetHeight(4)
	description.SetValue(d.Description)

	imagePath := textinput.New()
	imagePath.Placeholder = "Image paths, space-separated"
	imagePath.CharLimit = 400

	return formFields{
		title:       title,
		location:    location,
		start:       start,
		end:         end,
		description: description,
		imagePath:   imagePath,
	}
}

// openForm starts an authoring session: create mode when existing is nil,
// edit mode otherwise. Every session gets a fresh map lifecycle.
func (m *Model) openForm(existing *store.Voyage) {
	m.form.Load(existing)
	if existing != nil {
		m.catalog.StartEditing(existing.ID)
	}

	d := m.form.Draft()
	m.fields = newFormFields(d)
	m.formError = ""
	m.suggestions = nil
	m.suggestionIdx = 0

	send := m.send
	m.mapPanel = newMapPanel()
	m.mapCtl = mapsync.New(m.geocoder, func(city, country, label string) {
		send(placePatchedMsg{city: city, country: country, label: label})
	})
	lat, lon := 0.0, 0.0
	if d.HasCoordinates() {
		lat, lon = *d.Latitude, *d.Longitude
	}
	m.mapCtl.Attach(m.mapPanel, lat, lon, d.HasCoordinates())

	m.currentView = ViewForm
}

// closeForm tears the authoring session down without saving.
func (m *Model) closeForm() {
	if m.mapCtl != nil {
		m.mapCtl.Dispose()
	}
	m.mapCtl = nil
	m.mapPanel = nil
	m.form.Reset()
	m.catalog.StopEditing()
	m.suggestions = nil
	m.formError = ""
}

// handleFormKey processes keyboard input for the authoring form.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.currentView = ViewList
		return m, nil

	case "ctrl+s":
		return m.submitForm()

	case "tab":
		m.advanceFocus(1)
		return m, nil

	case "shift+tab":
		m.advanceFocus(-1)
		return m, nil

	case "ctrl+p":
		m.form.Draft().Public = !m.form.Draft().Public
		return m, nil

	case "ctrl+x":
		gallery := m.form.Draft().Gallery
		if len(gallery) > 0 {
			m.form.RemoveImage(len(gallery) - 1)
		}
		return m, nil

	case "ctrl+a":
		paths := strings.Fields(m.fields.imagePath.Value())
		if len(paths) == 0 {
			return m, nil
		}
		return m, m.attachCmd(paths)
	}

	if m.fields.focus == focusMap {
		return m.handleMapKey(msg)
	}

	// Suggestion navigation sits on top of the location input.
	if m.fields.focus == focusLocation && len(m.suggestions) > 0 {
		switch msg.String() {
		case "down":
			if m.suggestionIdx < len(m.suggestions)-1 {
				m.suggestionIdx++
			}
			return m, nil
		case "up":
			if m.suggestionIdx > 0 {
				m.suggestionIdx--
			}
			return m, nil
		case "enter":
			m.applySuggestion()
			return m, nil
		}
	}

	return m.updateFocusedField(msg)
}

// handleMapKey drives the map cursor. Enter acts as the map click: marker
// first, place resolution async.
func (m Model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mapPanel == nil {
		return m, nil
	}

	switch msg.String() {
	case "left":
		m.mapPanel.moveCursor(0, -1)
	case "right":
		m.mapPanel.moveCursor(0, 1)
	case "up":
		m.mapPanel.moveCursor(-1, 0)
	case "down":
		m.mapPanel.moveCursor(1, 0)
	case "enter":
		lat, lon := m.mapPanel.cursorLatLon()
		m.form.SetCoordinates(lat, lon)
		m.mapCtl.Click(m.ctx, lat, lon)
	case "c":
		m.form.ClearLocation()
		m.fields.location.SetValue("")
		m.mapCtl.Clear()
	}
	return m, nil
}

// applySuggestion commits the highlighted candidate to the draft and moves
// the map marker onto it.
func (m *Model) applySuggestion() {
	cand := m.suggestions[m.suggestionIdx]
	m.form.SelectLocation(cand)
	m.fields.location.SetValue(m.form.Draft().LocationSearch)
	m.mapCtl.SetCoordinates(cand.Latitude, cand.Longitude)
	m.suggestions = nil
	m.suggestionIdx = 0
}

// advanceFocus moves the focus ring and marks the field just left as
// touched so its validation message may render.
func (m *Model) advanceFocus(delta int) {
	m.touchFocused()
	m.blurAll()

	m.fields.focus = (m.fields.focus + delta + focusCount) % focusCount
	switch m.fields.focus {
	case focusTitle:
		m.fields.title.Focus()
	case focusLocation:
		m.fields.location.Focus()
	case focusStart:
		m.fields.start.Focus()
	case focusEnd:
		m.fields.end.Focus()
	case focusDescription:
		m.fields.description.Focus()
	case focusImagePath:
		m.fields.imagePath.Focus()
	}
	m.form.Revalidate()
}

func (m *Model) blurAll() {
	m.fields.title.Blur()
	m.fields.location.Blur()
	m.fields.start.Blur()
	m.fields.end.Blur()
	m.fields.description.Blur()
	m.fields.imagePath.Blur()
}

func (m *Model) touchFocused() {
	switch m.fields.focus {
	case focusTitle:
		m.form.Touch("title")
	case focusStart:
		m.form.Touch("startDate")
	case focusEnd:
		m.form.Touch("endDate")
	case focusDescription:
		m.form.Touch("description")
	}
}

// updateFocusedField routes the key to the focused widget and mirrors its
// value into the draft. Keystrokes in the location box feed the debounced
// search pipeline.
func (m Model) updateFocusedField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	d := m.form.Draft()

	switch m.fields.focus {
	case focusTitle:
		m.fields.title, cmd = m.fields.title.Update(msg)
		d.Title = m.fields.title.Value()
	case focusLocation:
		m.fields.location, cmd = m.fields.location.Update(msg)
		d.LocationSearch = m.fields.location.Value()
		m.pipeline.Input(m.fields.location.Value())
	case focusStart:
		m.fields.start, cmd = m.fields.start.Update(msg)
		d.StartDate = m.fields.start.Value()
	case focusEnd:
		m.fields.end, cmd = m.fields.end.Update(msg)
		d.EndDate = m.fields.end.Value()
	case focusDescription:
		m.fields.description, cmd = m.fields.description.Update(msg)
		d.Description = m.fields.description.Value()
	case focusImagePath:
		m.fields.imagePath, cmd = m.fields.imagePath.Update(msg)
	}

	return m, cmd
}

// submitForm validates and, when clean, hands the payload to the catalog.
// Validation failures stay local: messages render inline and nothing is
// sent.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	payload, err := m.form.Submit()
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			m.formError = "Fix the highlighted fields."
			return m, nil
		}
		m.formError = err.Error()
		return m, nil
	}
	m.formError = ""
	return m, m.saveCmd(payload)
}

// renderForm renders the field column next to the map and gallery column.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	d := m.form.Draft()

	var left strings.Builder

	title := "New voyage"
	if m.form.Editing() {
		title = fmt.Sprintf("Edit voyage #%d", m.form.EditingID())
	}
	left.WriteString(styles.AccentText.Bold(true).Render(title))
	left.WriteString("\n\n")

	left.WriteString(m.renderField("Title", m.fields.title.View(), "title"))
	left.WriteString(m.renderField("Location", m.fields.location.View(), ""))

	if m.fields.focus == focusLocation && len(m.suggestions) > 0 {
		for i, cand := range m.suggestions {
			line := "  " + cand.Label()
			if i == m.suggestionIdx {
				line = styles.Selected.Render(line)
			} else {
				line = styles.MutedText.Render(line)
			}
			left.WriteString(line)
			left.WriteString("\n")
		}
	}

	place := d.Destination
	if d.Country != "" {
		place += ", " + d.Country
	}
	if place != "" {
		left.WriteString(styles.FieldLabel.Render("Resolved"))
		left.WriteString(styles.InfoText.Render(place))
		left.WriteString("\n")
	}

	left.WriteString(m.renderField("Start", m.fields.start.View(), "startDate"))
	left.WriteString(m.renderField("End", m.fields.end.View(), "endDate"))

	left.WriteString(styles.FieldLabel.Render("Description"))
	left.WriteString("\n")
	left.WriteString(m.fields.description.View())
	left.WriteString("\n")
	if msg := m.form.FieldError("description"); msg != "" {
		left.WriteString(styles.FieldError.Render(msg))
		left.WriteString("\n")
	}

	left.WriteString(m.renderField("Images", m.fields.imagePath.View(), ""))

	visibility := "private"
	if d.Public {
		visibility = "public"
	}
	left.WriteString(styles.FieldLabel.Render("Visibility"))
	left.WriteString(styles.InfoText.Render(visibility + "  (ctrl+p toggles)"))
	left.WriteString("\n")

	if m.formError != "" {
		left.WriteString("\n")
		left.WriteString(styles.DangerText.Render(m.formError))
		left.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "   ", m.renderFormSidebar())
}

func (m Model) renderField(label, widget, errKey string) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.FieldLabel.Render(label))
	b.WriteString(widget)
	b.WriteString("\n")
	if errKey != "" {
		if msg := m.form.FieldError(errKey); msg != "" {
			b.WriteString(styles.FieldLabel.Render(""))
			b.WriteString(styles.FieldError.Render(msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderFormSidebar renders the map panel and the staged gallery.
func (m Model) renderFormSidebar() string {
	styles := m.theme.Styles()
	d := m.form.Draft()

	var b strings.Builder

	mapTitle := "Map"
	if m.fields.focus == focusMap {
		mapTitle = "Map  (arrows move, enter places, c clears)"
	}
	b.WriteString(styles.AccentText.Render(mapTitle))
	b.WriteString("\n")
	if m.mapPanel != nil {
		b.WriteString(m.mapPanel.render(styles, m.fields.focus == focusMap))
		b.WriteString("\n")
	}
	if d.HasCoordinates() {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%.4f, %.4f", *d.Latitude, *d.Longitude)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render(fmt.Sprintf("Gallery (%d)", len(d.Gallery))))
	b.WriteString("\n")
	for i := range d.Gallery {
		label := fmt.Sprintf("image %d", i+1)
		if i == 0 {
			label += "  (cover)"
		}
		b.WriteString(styles.MutedText.Render(label))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("ctrl+a attach  ctrl+x remove last"))

	return b.String()
}
