package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jobscout/internal/ledger"
)

// Lines per ledger item in the list view (title + subtitle + blank separator).
const entryItemHeight = 3

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	entryTitleStyle = lipgloss.NewStyle().
			Bold(true)

	entrySubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedEntryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedEntrySubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	emptyHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 2)
)

type pane int

const (
	paneList pane = iota
	paneDetail
)

type browserModel struct {
	entries []ledger.Entry
	cursor  int
	offset  int // first visible list item
	focus   pane

	detail viewport.Model
	width  int
	height int
	ready  bool
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.focus == paneList {
				m.focus = paneDetail
			} else {
				m.focus = paneList
			}
			return m, nil
		}

		if m.focus == paneDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.entries) - 1
		}
		m.scrollList()
		m.renderDetail()
		return m, nil
	}

	return m, nil
}

func (m *browserModel) layout() {
	listWidth := m.width / 2
	paneHeight := m.height - 4 // borders + status bar
	if paneHeight < entryItemHeight {
		paneHeight = entryItemHeight
	}
	m.detail = viewport.New(m.width-listWidth-4, paneHeight)
	m.scrollList()
	m.renderDetail()
}

// scrollList keeps the cursor inside the visible window.
func (m *browserModel) scrollList() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *browserModel) visibleRows() int {
	rows := (m.height - 4) / entryItemHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *browserModel) renderDetail() {
	if len(m.entries) == 0 {
		m.detail.SetContent("")
		return
	}
	e := m.entries[m.cursor]

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Title", e.Title)
	row("Company", e.Company)
	row("First seen", e.FirstSeenAt.Local().Format(time.RFC1123))
	row("Age", humanAge(time.Since(e.FirstSeenAt)))
	b.WriteString("\n")
	row("Fingerprint", "")
	b.WriteString(entrySubtitleStyle.Render(wrap(e.Fingerprint, m.detail.Width)))

	m.detail.SetContent(b.String())
}

func (m browserModel) View() string {
	if !m.ready {
		return "loading..."
	}
	if len(m.entries) == 0 {
		return emptyHintStyle.Render("Ledger is empty — nothing has been dispatched yet.\nPress q to quit.")
	}

	listWidth := m.width / 2

	var list strings.Builder
	visible := m.visibleRows()
	for i := m.offset; i < len(m.entries) && i < m.offset+visible; i++ {
		e := m.entries[i]
		title := truncate(fmt.Sprintf("%s — %s", e.Company, e.Title), listWidth-4)
		subtitle := truncate("first seen "+humanAge(time.Since(e.FirstSeenAt))+" ago", listWidth-4)
		if i == m.cursor {
			list.WriteString(selectedEntryTitleStyle.Render(" "+title) + "\n")
			list.WriteString(selectedEntrySubtitleStyle.Render(" "+subtitle) + "\n\n")
		} else {
			list.WriteString(entryTitleStyle.Render(" "+title) + "\n")
			list.WriteString(entrySubtitleStyle.Render(" "+subtitle) + "\n\n")
		}
	}

	listHeader := inactiveHeaderStyle
	detailHeader := activeHeaderStyle
	listBorder := inactiveBorderStyle
	detailBorder := activeBorderStyle
	if m.focus == paneList {
		listHeader, detailHeader = detailHeader, listHeader
		listBorder, detailBorder = detailBorder, listBorder
	}

	left := listBorder.Width(listWidth).Height(m.height - 4).Render(
		listHeader.Render(fmt.Sprintf("Ledger (%d)", len(m.entries))) + "\n" + list.String())
	right := detailBorder.Width(m.width - listWidth - 2).Height(m.height - 4).Render(
		detailHeader.Render("Detail") + "\n" + m.detail.View())

	status := statusBarStyle.Width(m.width).Render(
		"j/k navigate  g/G top/bottom  tab switch pane  q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		status,
	)
}

// RunBrowser opens the full-screen ledger browser over the given entries
// (expected newest first).
func RunBrowser(entries []ledger.Entry) error {
	m := browserModel{entries: entries}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\n")
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}

func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "moments"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
