package settings

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/webmail/internal/credential"
	"github.com/nhle/webmail/internal/mailapi"
	"github.com/nhle/webmail/internal/model"
	"github.com/nhle/webmail/internal/theme"
)

// SavedMsg is emitted once the new settings are on disk, so the parent
// can rebuild its mail client.
type SavedMsg struct {
	Config model.AppConfig
	Token  string
}

// DoneMsg signals the parent to leave the settings panel.
type DoneMsg struct{}

// savedResultMsg carries the outcome of saving and testing the settings.
type savedResultMsg struct {
	cfg      model.AppConfig
	token    string
	saveErr  error
	validErr error
}

// Mode is the settings panel's current screen.
type Mode int

const (
	ModeForm Mode = iota
	ModeSaving
	ModeResult
)

// validateTimeout bounds the connection test after saving.
const validateTimeout = 10 * time.Second

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL  string
	username string
	token    string
	forget   bool
}

// Model is the server settings panel.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	mode       Mode
	spinner    spinner.Model
	configPath string
	cfg        model.AppConfig
	token      string
	saveToken   func(string) error
	deleteToken func() error
	saveErr    error
	validErr   error
	width      int
	height     int
}

// New creates a settings panel editing cfg, which is written to
// configPath on save. token is the currently stored API token.
func New(configPath string, cfg model.AppConfig, token string, width, height int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		fb:         &formBindings{},
		spinner:    s,
		configPath: configPath,
		cfg:        cfg,
		token:      token,
		saveToken: func(t string) error {
			return credential.Set(credential.TokenKey, t)
		},
		deleteToken: func() error {
			return credential.Delete(credential.TokenKey)
		},
		width:  width,
		height: height,
	}
}

// WithTokenSaver replaces the keyring writer, mainly for tests.
func (m Model) WithTokenSaver(fn func(string) error) Model {
	m.saveToken = fn
	return m
}

// WithTokenDeleter replaces the keyring remover, mainly for tests.
func (m Model) WithTokenDeleter(fn func() error) Model {
	m.deleteToken = fn
	return m
}

// Start resets the form from the current configuration.
func (m *Model) Start() tea.Cmd {
	m.fb.baseURL = m.cfg.Server.BaseURL
	m.fb.username = m.cfg.Server.Username
	m.fb.token = ""
	m.fb.forget = false
	m.mode = ModeForm
	m.saveErr = nil
	m.validErr = nil
	m.form = m.buildForm()
	return m.form.Init()
}

// Mode returns the current screen.
func (m Model) Mode() Mode {
	return m.mode
}

// Update handles messages for the settings panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedResultMsg:
		m.mode = ModeResult
		m.saveErr = msg.saveErr
		m.validErr = msg.validErr
		if msg.saveErr != nil {
			return m, nil
		}
		m.cfg = msg.cfg
		m.token = msg.token
		return m, func() tea.Msg {
			return SavedMsg{Config: msg.cfg, Token: msg.token}
		}

	case spinner.TickMsg:
		if m.mode == ModeSaving {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeSaving:
			return m, nil
		case ModeResult:
			switch msg.String() {
			case "enter", "esc":
				return m, func() tea.Msg { return DoneMsg{} }
			case "e":
				return m, m.Start()
			}
			return m, nil
		}
		if msg.Type == tea.KeyEsc {
			return m, func() tea.Msg { return DoneMsg{} }
		}
	}

	if m.form == nil || m.mode != ModeForm {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.mode = ModeSaving
		return m, tea.Batch(m.spinner.Tick, m.save())
	case huh.StateAborted:
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

// save writes the config file and token, then tests the connection.
func (m Model) save() tea.Cmd {
	cfg := m.cfg
	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(m.fb.baseURL), "/")
	cfg.Server.Username = strings.TrimSpace(m.fb.username)

	token := m.token
	newToken := strings.TrimSpace(m.fb.token)
	forget := m.fb.forget && newToken == ""
	path := m.configPath
	saveToken := m.saveToken
	deleteToken := m.deleteToken

	return func() tea.Msg {
		if err := model.SaveConfig(path, &cfg); err != nil {
			return savedResultMsg{saveErr: err}
		}
		if newToken != "" {
			if err := saveToken(newToken); err != nil {
				return savedResultMsg{saveErr: fmt.Errorf("storing token: %w", err)}
			}
			token = newToken
		}
		if forget {
			if err := deleteToken(); err != nil {
				return savedResultMsg{saveErr: fmt.Errorf("removing token: %w", err)}
			}
			token = ""
		}

		ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
		defer cancel()

		svc := mailapi.NewService(cfg.Server.BaseURL, token, time.Duration(cfg.Server.TimeoutSec)*time.Second)
		_, err := svc.ListMailbox(ctx, model.MailboxInbox)
		return savedResultMsg{cfg: cfg, token: token, validErr: err}
	}
}

// View renders the settings panel.
func (m Model) View() string {
	style := lipgloss.NewStyle().Padding(1, 2)
	title := theme.TitleStyle.Render("Server Settings")

	switch m.mode {
	case ModeSaving:
		return style.Render(title + "\n" + m.spinner.View() + " Saving and testing connection...")

	case ModeResult:
		var content string
		switch {
		case m.saveErr != nil:
			content = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorRed).Render("Save failed") +
				"\n\n" + m.saveErr.Error()
		case m.validErr != nil:
			content = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorYellow).Render("Saved, but the server is unreachable") +
				"\n\n" + m.validErr.Error()
		default:
			content = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen).Render("Connection successful")
		}
		hint := lipgloss.NewStyle().Foreground(theme.ColorGray).Render("e edit again | enter/esc back")
		return style.Render(title + "\n" + content + "\n\n" + hint)
	}

	if m.form == nil {
		return ""
	}
	return style.Render(title + "\n" + m.form.View())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m *Model) buildForm() *huh.Form {
	tokenDesc := "Bearer token sent with every request (optional)"
	if m.token != "" {
		tokenDesc = "Leave blank to keep the stored token"
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Server URL").
			Description("Mail server root (e.g., http://localhost:8000)").
			Placeholder("http://localhost:8000").
			Value(&m.fb.baseURL).
			Validate(validateURL),
		huh.NewInput().
			Title("Username").
			Description("Shown in the header").
			Value(&m.fb.username),
		huh.NewInput().
			Title("API Token").
			Description(tokenDesc).
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.token),
	}
	if m.token != "" {
		fields = append(fields, huh.NewConfirm().
			Title("Forget stored token?").
			Description("Ignored when a new token is entered above").
			Value(&m.fb.forget))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("server URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}
