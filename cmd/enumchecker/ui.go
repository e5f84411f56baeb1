package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list        list.Model
	diagnostics []analysis.Diagnostic
	lastUpdate  time.Time
	fileCount   int
	enumCount   int
}

type updateMsg struct {
	diagnostics []analysis.Diagnostic
	fileCount   int
	enumCount   int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.diagnostics = msg.diagnostics
		m.fileCount = msg.fileCount
		m.enumCount = msg.enumCount
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, d := range m.diagnostics {
			loc := d.Location()
			items = append(items, item{
				title: kindTitle(d.Kind),
				desc:  fmt.Sprintf("%s (%s:%d:%d)", d.Message, loc.File, loc.Line, loc.Column),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d enums",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.enumCount))

	var summary string
	if len(m.diagnostics) == 0 {
		summary = successStyle.Render("✅ All Enums Clean")
	} else {
		unknown, conflicts, other := 0, 0, 0
		for _, d := range m.diagnostics {
			switch d.Kind {
			case analysis.KindUnknownMember:
				unknown++
			case analysis.KindConflictingDefinition:
				conflicts++
			default:
				other++
			}
		}
		summary = fmt.Sprintf("⚠️  %s | %s | %s",
			errorStyle.Render(fmt.Sprintf("%d Unknown Members", unknown)),
			errorStyle.Render(fmt.Sprintf("%d Conflicts", conflicts)),
			warningStyle.Render(fmt.Sprintf("%d Other", other)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Enum Definition Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func kindTitle(kind analysis.DiagnosticKind) string {
	switch kind {
	case analysis.KindUnknownMember:
		return "Unknown Enum Member"
	case analysis.KindConflictingDefinition:
		return "Conflicting Definitions"
	case analysis.KindDuplicateMember:
		return "Duplicate Member"
	case analysis.KindParseFailure:
		return "Parse Failure"
	default:
		return string(kind)
	}
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Detected Issues"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

// RunUI renders watch-mode results in a terminal list. Results from the
// watcher callback are pushed through teaProgram.Send.
func (a *App) RunUI(initial *analysis.Result) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(resultMsg(initial))
	}()

	_, err := p.Run()
	return err
}

func (a *App) PushResult(result *analysis.Result) {
	if a.teaProgram != nil {
		a.teaProgram.Send(resultMsg(result))
	}
}

func resultMsg(result *analysis.Result) updateMsg {
	return updateMsg{
		diagnostics: result.Diagnostics,
		fileCount:   result.Files,
		enumCount:   result.EnumCount,
	}
}
