package compose

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/webmail/internal/model"
	"github.com/nhle/webmail/internal/theme"
)

// SendRequestedMsg is emitted when the user submits a complete form.
type SendRequestedMsg struct {
	Draft model.Draft
}

// CancelMsg is emitted when the user abandons the form.
type CancelMsg struct{}

var errNoRecipients = errors.New("at least one recipient is required")

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	recipients string
	subject    string
	body       string
}

// Model is the compose panel.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	fields  Fields
	errText string
	sending bool
	width   int
	height  int
}

// New creates a compose panel. Call Start before showing it.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the panel for a new email or a reply to src, clearing any
// previous error.
func (m *Model) Start(mode Mode, src *model.Email) tea.Cmd {
	m.fields = Prefill(mode, src)
	m.fb.recipients = m.fields.Recipients
	m.fb.subject = m.fields.Subject
	m.fb.body = m.fields.Body
	m.errText = ""
	m.sending = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError shows a server error above the form and reopens the form with
// the values the user entered.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errText = msg
	m.sending = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetFailed reopens the form after a send that never reached the server.
// The values are kept and nothing is sent until the user submits again.
func (m *Model) SetFailed() tea.Cmd {
	m.sending = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Error returns the banner text, empty when no error is shown.
func (m Model) Error() string {
	return m.errText
}

// Fields returns the prefill the panel was started with.
func (m Model) Fields() Fields {
	return m.fields
}

// CanSubmit reports whether the recipients field is filled in.
func (m Model) CanSubmit() bool {
	return validateRecipients(m.fb.recipients) == nil
}

// Draft returns the current form values as a draft.
func (m Model) Draft() model.Draft {
	return model.Draft{
		Recipients: m.fb.recipients,
		Subject:    m.fb.subject,
		Body:       m.fb.body,
	}
}

// Submit returns the command that requests sending the current draft, or
// nil while recipients is empty or a send is already in flight.
func (m *Model) Submit() tea.Cmd {
	if !m.CanSubmit() || m.sending {
		return nil
	}
	m.sending = true
	draft := m.Draft()
	return func() tea.Msg { return SendRequestedMsg{Draft: draft} }
}

// Update handles messages for the compose form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if submit := m.Submit(); submit != nil {
			return m, submit
		}
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the compose panel.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	var parts []string
	if m.errText != "" {
		parts = append(parts, theme.ErrorBannerStyle.Render(m.errText))
	}
	parts = append(parts, theme.TitleStyle.Render(m.fields.Title))
	if m.sending {
		parts = append(parts, theme.HelpStyle.Render("Sending..."))
	} else {
		parts = append(parts, m.form.View())
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	var recipients huh.Field
	if m.fields.RecipientsReadOnly {
		recipients = huh.NewNote().
			Title("To").
			Description(m.fb.recipients)
	} else {
		recipients = huh.NewInput().
			Title("To").
			Placeholder("alice@example.com, bob@example.com").
			Value(&m.fb.recipients).
			Validate(validateRecipients)
	}

	return huh.NewForm(
		huh.NewGroup(
			recipients,
			huh.NewInput().
				Title("Subject").
				Value(&m.fb.subject),
			huh.NewText().
				Title("Body").
				Lines(10).
				Value(&m.fb.body),
		),
	).WithShowHelp(true).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-6, 14)
}

func validateRecipients(s string) error {
	if strings.TrimSpace(s) == "" {
		return errNoRecipients
	}
	return nil
}
