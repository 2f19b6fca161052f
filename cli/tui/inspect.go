package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/cue/cli/reader"
)

// InspectModel is a Bubble Tea model for inspect views.
type InspectModel struct {
	viewType string
	data     any
	cursor   int
	width    int
	height   int
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(viewType string, data any) InspectModel {
	return InspectModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if entries, ok := m.data.([]reader.ListEntryItem); ok && m.cursor < len(entries)-1 {
				m.cursor++
			}
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "inspect_session":
		content = m.renderSession()
	case "inspect_entries":
		content = m.renderEntries()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m InspectModel) renderSession() string {
	data, ok := m.data.(*reader.InspectSessionResponse)
	if !ok {
		return "Invalid data type for inspect_session"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Session Details"))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Session ID", data.SessionID},
		{"Video ID", data.VideoID},
		{"Commands", fmt.Sprintf("%d", data.Commands)},
		{"Failures", fmt.Sprintf("%d", data.Failures)},
		{"Retries", fmt.Sprintf("%d", data.Retries)},
		{"Final State", data.FinalState},
		{"Version", fmt.Sprintf("%d", data.FinalVersion)},
		{"Video Time", fmt.Sprintf("%.1fs", data.FinalTime)},
		{"Messages", fmt.Sprintf("%d", data.Messages)},
	}

	if data.StartedAt != nil {
		rows = append(rows, []string{"Started At", data.StartedAt.Format("2006-01-02 15:04:05")})
	}
	if data.EndedAt != nil {
		rows = append(rows, []string{"Ended At", data.EndedAt.Format("2006-01-02 15:04:05")})
	}

	for _, row := range rows {
		label := LabelStyle.Render(row[0] + ":")
		value := row[1]
		if row[0] == "Final State" {
			value = StateStyle(data.FinalState).Render(value)
		} else {
			value = ValueStyle.Render(value)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label, value))
	}

	return BoxStyle.Render(b.String())
}

func (m InspectModel) renderEntries() string {
	entries, ok := m.data.([]reader.ListEntryItem)
	if !ok {
		return "Invalid data type for inspect_entries"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Journal Entries"))
	b.WriteString("\n\n")

	if len(entries) == 0 {
		b.WriteString(ValueStyle.Render("(no entries)"))
		return BoxStyle.Render(b.String())
	}

	for i, e := range entries {
		line := fmt.Sprintf("%4d  %-24s  %-7s  v%d  %.1fs",
			e.Seq, e.CommandType, e.Status, e.Version, e.VideoTime)
		if e.Error != "" {
			line += "  " + e.Error
		}
		switch {
		case i == m.cursor:
			line = SelectedRowStyle.Render("> " + line)
		case e.Status == "failed":
			line = ErrorStyle.Render("  " + line)
		default:
			line = ValueStyle.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}

	return BoxStyle.Render(b.String())
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "move down"),
	),
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(viewType string, data any) error {
	model := NewInspectModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders inspect data without full TUI (for fallback).
func RenderInspectStatic(viewType string, data any) string {
	model := NewInspectModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
