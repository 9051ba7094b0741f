package mailbox

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/webmail/internal/keys"
	"github.com/nhle/webmail/internal/model"
	"github.com/nhle/webmail/internal/theme"
)

// OpenEmailMsg is emitted when the user opens the row under the cursor.
type OpenEmailMsg struct {
	Email   model.Email
	Mailbox model.Mailbox
}

// rowHeight is the number of lines a row occupies including its top border.
const rowHeight = 2

// Model is the mailbox listing panel.
type Model struct {
	keys    *keys.KeyMap
	mailbox model.Mailbox
	emails  []model.Email
	rows    []Row
	cursor  int
	offset  int
	loading bool
	err     error
	width   int
	height  int
}

// New creates a mailbox panel showing the inbox.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:    k,
		mailbox: model.MailboxInbox,
		width:   width,
		height:  height,
	}
}

// SetMailbox switches the panel to mb and clears the current rows while
// the new listing loads.
func (m *Model) SetMailbox(mb model.Mailbox) {
	m.mailbox = mb
	m.emails = nil
	m.rows = nil
	m.cursor = 0
	m.offset = 0
	m.loading = true
	m.err = nil
}

// SetEmails replaces the listing with the server's response. When the
// selected email is still listed the cursor follows it.
func (m *Model) SetEmails(emails []model.Email) {
	prev, hadPrev := m.Selected()

	m.emails = emails
	m.rows = BuildRows(m.mailbox, emails)
	m.loading = false
	m.err = nil

	if hadPrev {
		for i, e := range emails {
			if e.ID == prev.ID {
				m.cursor = i
				break
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.clampOffset()
}

// SetError records a failed load. The heading stays and the rows stay empty.
func (m *Model) SetError(err error) {
	m.loading = false
	m.err = err
}

// Mailbox returns the mailbox currently shown.
func (m Model) Mailbox() model.Mailbox {
	return m.mailbox
}

// Emails returns the emails currently listed, in server order.
func (m Model) Emails() []model.Email {
	return m.emails
}

// Rows returns the rendered row data.
func (m Model) Rows() []Row {
	return m.rows
}

// Loading reports whether a fetch is outstanding.
func (m Model) Loading() bool {
	return m.loading
}

// Cursor returns the index of the selected row.
func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the email under the cursor.
func (m Model) Selected() (model.Email, bool) {
	if m.cursor < 0 || m.cursor >= len(m.emails) {
		return model.Email{}, false
	}
	return m.emails[m.cursor], true
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement and selection.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.clampOffset()

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampOffset()

	case key.Matches(keyMsg, m.keys.Select):
		e, ok := m.Selected()
		if !ok {
			return m, nil
		}
		mb := m.mailbox
		return m, func() tea.Msg {
			return OpenEmailMsg{Email: e, Mailbox: mb}
		}
	}

	return m, nil
}

// visibleRows returns how many rows fit in the panel below the heading.
func (m Model) visibleRows() int {
	n := (m.height - 3) / rowHeight
	if n < 1 {
		return 1
	}
	return n
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the heading followed by the rows or the empty notice.
func (m Model) View() string {
	heading := theme.TitleStyle.PaddingLeft(1).Render(m.mailbox.Title())

	var body string
	switch {
	case m.loading:
		body = theme.NoticeStyle.Render("Loading...")
	case m.err != nil:
		body = theme.NoticeStyle.Render(fmt.Sprintf("Could not load %s.", m.mailbox))
	case len(m.rows) == 0:
		body = theme.NoticeStyle.Render(EmptyNotice)
	default:
		body = m.renderRows()
	}

	return lipgloss.JoinVertical(lipgloss.Left, heading, body)
}

func (m Model) renderRows() string {
	end := min(m.offset+m.visibleRows(), len(m.rows))

	rendered := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rendered = append(rendered, m.renderRow(m.rows[i], i == m.cursor, i == end-1))
	}
	return strings.Join(rendered, "\n")
}

// renderRow lays out sender/recipients, subject, and timestamp on a
// single line. The last visible row always closes the box.
func (m Model) renderRow(r Row, selected, lastVisible bool) string {
	inner := max(m.width-4, 20)
	tsWidth := lipgloss.Width(r.Timestamp)
	firstWidth := inner / 3
	subjectWidth := max(inner-firstWidth-tsWidth-4, 1)

	first := truncate(r.FirstColumn, firstWidth)
	if r.Emphasized {
		first = theme.EmphasizedStyle.Render(first)
	}
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(firstWidth).Render(first),
		" ",
		lipgloss.NewStyle().Width(subjectWidth).Render(truncate(r.Subject, subjectWidth)),
		" ",
		r.Timestamp,
	)

	style := theme.RowStyle.Width(inner)
	if r.Border == BorderBox || lastVisible {
		style = theme.RowBorderBox(style)
	} else {
		style = theme.RowBorderTop(style)
	}
	if r.Bold {
		style = theme.UnreadRowStyle(style)
	}
	if r.Highlight {
		style = theme.ReadRowStyle(style)
	}
	if selected {
		style = theme.SelectedRowStyle(style)
	}

	return style.Render(line)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}
