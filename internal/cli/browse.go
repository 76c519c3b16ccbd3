package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mduarte/ata/internal/cli/formatter"
	"github.com/mduarte/ata/internal/domain"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse meeting records interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("browse needs an interactive terminal")
			}
			p := tea.NewProgram(newBrowseModel(app), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

// documentsLoadedMsg signals that the record list has been loaded.
type documentsLoadedMsg struct {
	docs []*domain.Document
	err  error
}

// browseKeyMap holds the key bindings of the browse view.
type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var browseKeys = browseKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// browseModel shows a navigable list of records with a detail pane.
type browseModel struct {
	app     *App
	docs    []*domain.Document
	cursor  int
	loading bool
	err     error

	// Detail mode shows the selected record full-screen.
	selected *domain.Document

	// Filtering
	filtering bool
	filter    string
}

func newBrowseModel(app *App) *browseModel {
	return &browseModel{app: app, loading: true}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadDocuments()
}

func (m *browseModel) loadDocuments() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		docs, err := app.Documents.List(context.Background())
		return documentsLoadedMsg{docs: docs, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case documentsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.docs = msg.docs
		return m, nil

	case tea.KeyMsg:
		if m.selected != nil {
			return m.updateDetail(msg)
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *browseModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleDocuments()

	switch {
	case key.Matches(msg, browseKeys.Quit), key.Matches(msg, browseKeys.Back):
		return m, tea.Quit
	case key.Matches(msg, browseKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, browseKeys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, browseKeys.Open):
		if m.cursor < len(visible) {
			m.selected = visible[m.cursor]
		}
	case key.Matches(msg, browseKeys.Filter):
		m.filtering = true
		m.filter = ""
	}
	return m, nil
}

func (m *browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, browseKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, browseKeys.Back):
		m.selected = nil
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
		m.cursor = 0
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		return m, nil
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.cursor = 0
		}
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.cursor = 0
		}
	}
	return m, nil
}

func (m *browseModel) visibleDocuments() []*domain.Document {
	if m.filter == "" {
		return m.docs
	}
	lf := strings.ToLower(m.filter)
	var filtered []*domain.Document
	for _, d := range m.docs {
		if strings.Contains(strings.ToLower(d.Header.Title), lf) ||
			strings.Contains(strings.ToLower(d.Header.Number), lf) ||
			strings.Contains(strings.ToLower(d.Header.Project), lf) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func (m *browseModel) View() string {
	if m.loading {
		return "\n  " + formatter.Dim("Loading records...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error())
	}
	if m.selected != nil {
		return "\n" + formatter.FormatDocumentShow(m.selected) +
			"\n" + formatter.Dim(helpLine(browseKeys.Back, browseKeys.Quit)) + "\n"
	}

	visible := m.visibleDocuments()

	var b strings.Builder
	b.WriteString("\n")

	if m.filtering {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + m.filter + "█\n\n")
	}

	if len(visible) == 0 {
		b.WriteString("  " + formatter.Dim("No meeting records found.") + "\n")
		return b.String()
	}

	for i, d := range visible {
		cursor := "  "
		titleStyle := formatter.StyleFg
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			titleStyle = formatter.StyleBold
		}

		number := d.Header.Number
		if number == "" {
			number = "—"
		}
		flag := ""
		if d.Archived {
			flag = "  " + formatter.Dim("archived")
		}

		b.WriteString(fmt.Sprintf("%s%-9s %s  %s%s\n",
			cursor,
			formatter.StyleGreen.Render(number),
			titleStyle.Render(padRight(d.Header.Title, 28)),
			formatter.Dim(d.Header.Date),
			flag,
		))
	}

	b.WriteString("\n  " + formatter.Dim(helpLine(browseKeys.Open, browseKeys.Filter, browseKeys.Quit)) + "\n")
	return b.String()
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

// padRight pads a string to a minimum width, truncating if needed.
func padRight(s string, width int) string {
	if len(s) > width {
		return s[:width-1] + "…"
	}
	return s + strings.Repeat(" ", width-len(s))
}
