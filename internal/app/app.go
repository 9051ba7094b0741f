package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/webmail/internal/mailapi"
	"github.com/nhle/webmail/internal/model"
	"github.com/nhle/webmail/internal/store"
	appsync "github.com/nhle/webmail/internal/sync"
	"github.com/nhle/webmail/internal/theme"
	"github.com/nhle/webmail/internal/ui"
	"github.com/nhle/webmail/internal/ui/command"
	"github.com/nhle/webmail/internal/ui/compose"
	helpview "github.com/nhle/webmail/internal/ui/help"
	"github.com/nhle/webmail/internal/ui/mailbox"
	"github.com/nhle/webmail/internal/ui/message"
	"github.com/nhle/webmail/internal/ui/settings"
)

// Options configures a new root model.
type Options struct {
	Config     model.AppConfig
	ConfigPath string
	Token      string
	Store      store.Store

	// Mailer overrides the REST client built from Config, e.g. in tests.
	Mailer mailapi.Mailer
}

// Model is the root Bubble Tea model. It owns view routing and all I/O;
// sub-models only emit messages.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *KeyMap

	cfg        model.AppConfig
	configPath string
	token      string
	mailer     mailapi.Mailer
	store      store.Store
	poller     *appsync.Poller

	mailbox     mailbox.Model
	message     message.Model
	compose     compose.Model
	settings    settings.Model
	helpView    helpview.Model
	commandView command.Model

	// Request tokens for the in-flight list and email fetches. A result
	// is applied only if its token is still current.
	listToken   uint64
	listCancel  context.CancelFunc
	emailToken  uint64
	emailCancel context.CancelFunc

	ready       bool
	unreadCount int
	statusErr   string
	statusInfo  string
}

// New creates the root model.
func New(opts Options) Model {
	k := DefaultKeyMap()

	m := Model{
		currentView: ViewList,
		keys:        k,
		cfg:         opts.Config,
		configPath:  opts.ConfigPath,
		token:       opts.Token,
		mailer:      opts.Mailer,
		store:       opts.Store,
		mailbox:     mailbox.New(k, 80, 22),
		message:     message.New(k, 80, 22),
		compose:     compose.New(80, 22),
		settings:    settings.New(opts.ConfigPath, opts.Config, opts.Token, 80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
	}

	if m.mailer == nil && opts.Config.Configured() {
		m.mailer = newService(opts.Config, opts.Token)
	}

	interval := time.Duration(opts.Config.Display.PollIntervalSec) * time.Second
	m.poller = appsync.New(m.mailer, opts.Store, interval)

	return m
}

func newService(cfg model.AppConfig, token string) *mailapi.Service {
	timeout := time.Duration(cfg.Server.TimeoutSec) * time.Second
	return mailapi.NewService(cfg.Server.BaseURL, token, timeout)
}

// Init loads the inbox and starts the poller. With no server configured
// the settings panel opens instead.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// startMsg lets Init's work run through Update, where state may change.
type startMsg struct{}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.mailbox.SetSize(w, h)
		m.message.SetSize(w, h)
		m.compose.SetSize(w, h)
		m.settings.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case startMsg:
		if m.mailer == nil {
			return m, m.openSettings()
		}
		return m, tea.Batch(
			m.loadMailbox(model.MailboxInbox),
			m.poller.Start(),
			fetchUnreadCount(m.store),
		)

	// === Mailbox list ===

	case mailboxLoadedMsg:
		if msg.token != m.listToken {
			return m, nil
		}
		m.listCancel = nil
		if msg.err != nil {
			m.mailbox.SetError(msg.err)
			m.reportError(fmt.Sprintf("loading %s", msg.mailbox), msg.err)
			return m, nil
		}
		m.statusErr = ""
		m.mailbox.SetEmails(msg.emails)
		return m, nil

	case mailbox.OpenEmailMsg:
		return m, m.openEmail(msg.Email, msg.Mailbox)

	// === Single email ===

	case emailLoadedMsg:
		if msg.token != m.emailToken {
			return m, nil
		}
		m.emailCancel = nil
		if msg.err != nil {
			m.message.SetError(msg.err)
			m.reportError("loading email", msg.err)
			return m, nil
		}
		m.message.SetEmail(*msg.email)
		return m, nil

	case message.BackMsg:
		m.currentView = Next(m.currentView, EventBack)
		return m, nil

	case message.ReplyMsg:
		e := msg.Email
		m.currentView = Next(m.currentView, EventCompose)
		return m, m.compose.Start(compose.ModeReply, &e)

	case message.ArchiveMsg:
		if m.mailer == nil {
			return m, nil
		}
		return m, setArchived(m.mailer, msg.ID, msg.Archived)

	case message.ExportMsg:
		return m, exportEmail(m.cfg.Storage.ExportDir, msg.Email)

	case archivedMsg:
		if msg.err != nil {
			m.reportError(fmt.Sprintf("updating email %d", msg.id), msg.err)
			return m, nil
		}
		return m, m.loadMailbox(model.MailboxInbox)

	// === Compose ===

	case compose.SendRequestedMsg:
		if m.mailer == nil {
			m.statusErr = "No server configured. Press : and run settings."
			return m, m.compose.SetFailed()
		}
		return m, sendEmail(m.mailer, msg.Draft)

	case compose.CancelMsg:
		m.currentView = Next(m.currentView, EventBack)
		return m, nil

	case emailSentMsg:
		if msg.err == nil {
			m.statusErr = ""
			m.statusInfo = "Email sent."
			return m, m.loadMailbox(model.MailboxSent)
		}
		if se, ok := mailapi.AsServerError(msg.err); ok {
			if m.currentView != ViewCompose {
				log.Printf("sending email: %v", se)
				m.statusErr = "Email not sent: " + se.Message
			}
			return m, m.compose.SetError(se.Message)
		}
		m.reportError("sending email", msg.err)
		return m, m.compose.SetFailed()

	// === Settings ===

	case settings.SavedMsg:
		m.cfg = msg.Config
		m.token = msg.Token
		m.mailer = newService(msg.Config, msg.Token)
		m.poller.SetMailer(m.mailer)
		m.statusErr = ""
		cmd := m.poller.Start()
		if cmd == nil {
			m.poller.Refresh()
		}
		return m, cmd

	case settings.DoneMsg:
		if m.mailer == nil {
			m.currentView = Next(m.currentView, EventSettingsDone)
			m.statusErr = "No server configured. Press : and run settings."
			return m, nil
		}
		return m, m.loadMailbox(model.MailboxInbox)

	// === Notifications ===

	case appsync.ResultMsg:
		if msg.AuthError {
			m.statusErr = "Authentication failed. Check the API token in settings."
		}

		cmds := []tea.Cmd{m.poller.WaitForNextResult(), fetchUnreadCount(m.store)}
		if msg.NewCount > 0 && m.currentView == ViewList && m.mailbox.Mailbox() == model.MailboxInbox {
			cmds = append(cmds, m.reloadMailbox(), clearNotifications(m.store))
		}
		return m, tea.Batch(cmds...)

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.reportError("exporting", msg.err)
			return m, nil
		}
		m.statusInfo = "Saved " + msg.path
		return m, nil

	// === Overlays ===

	case command.CommandMsg:
		m.currentView = Panel(m.currentView, m.previousView)
		return m, m.executeCommand(string(msg))

	case command.CloseMsg:
		m.currentView = Panel(m.currentView, m.previousView)
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work on the list and single panels.
// Text-entry views receive every key except ctrl+c.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewCompose, ViewSettings, ViewCommand:
		return m, nil, false
	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = Panel(m.currentView, m.previousView)
		}
		return m, nil, true
	}

	m.statusInfo = ""

	switch {
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewList:
		m.poller.Stop()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Inbox):
		return m, m.loadMailbox(model.MailboxInbox), true

	case key.Matches(msg, m.keys.Sent):
		return m, m.loadMailbox(model.MailboxSent), true

	case key.Matches(msg, m.keys.Archive):
		return m, m.loadMailbox(model.MailboxArchive), true

	case key.Matches(msg, m.keys.Compose):
		return m, m.startCompose(), true

	case key.Matches(msg, m.keys.Settings):
		return m, m.openSettings(), true

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh(), true

	case key.Matches(msg, m.keys.Export) && m.currentView == ViewList:
		return m, m.exportCurrent(), true
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.mailbox, cmd = m.mailbox.Update(msg)
	case ViewSingle:
		m.message, cmd = m.message.Update(msg)
	case ViewCompose:
		m.compose, cmd = m.compose.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// loadMailbox shows the list panel for mb and fetches its contents,
// superseding any list fetch still in flight.
func (m *Model) loadMailbox(mb model.Mailbox) tea.Cmd {
	m.currentView = Next(m.currentView, EventLoadMailbox)
	m.mailbox.SetMailbox(mb)

	fetch := m.reloadMailbox()
	if fetch == nil {
		m.mailbox.SetError(errors.New("no server configured"))
		return nil
	}
	if mb == model.MailboxInbox {
		return tea.Batch(fetch, clearNotifications(m.store))
	}
	return fetch
}

// reloadMailbox refetches the listed mailbox in place. The rows and the
// selection stay on screen until the new listing arrives.
func (m *Model) reloadMailbox() tea.Cmd {
	if m.listCancel != nil {
		m.listCancel()
		m.listCancel = nil
	}
	m.listToken++

	if m.mailer == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.listCancel = cancel
	return fetchMailbox(ctx, m.mailer, m.mailbox.Mailbox(), m.listToken)
}

// openEmail shows the single panel and fetches id, superseding any email
// fetch still in flight.
func (m *Model) openEmail(e model.Email, mb model.Mailbox) tea.Cmd {
	m.currentView = Next(m.currentView, EventOpenEmail)
	m.message.SetLoading(mb)

	if m.emailCancel != nil {
		m.emailCancel()
		m.emailCancel = nil
	}
	m.emailToken++

	if m.mailer == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.emailCancel = cancel
	return fetchEmail(ctx, m.mailer, e.ID, m.emailToken)
}

func (m *Model) startCompose() tea.Cmd {
	m.currentView = Next(m.currentView, EventCompose)
	return m.compose.Start(compose.ModeNew, nil)
}

func (m *Model) openSettings() tea.Cmd {
	m.currentView = Next(m.currentView, EventSettings)
	return m.settings.Start()
}

// refresh reloads the mailbox on screen and triggers a poll.
func (m *Model) refresh() tea.Cmd {
	m.poller.Refresh()
	if m.currentView == ViewSingle {
		if e, ok := m.message.Email(); ok {
			return m.openEmail(e, m.message.Mailbox())
		}
	}
	return m.loadMailbox(m.mailbox.Mailbox())
}

// exportCurrent saves the open email, or the listed mailbox.
func (m Model) exportCurrent() tea.Cmd {
	dir := m.cfg.Storage.ExportDir
	if m.currentView == ViewSingle {
		if e, ok := m.message.Email(); ok {
			return exportEmail(dir, e)
		}
		return nil
	}
	return exportMailbox(dir, m.mailbox.Mailbox(), m.mailbox.Emails())
}

// reportError logs a failure and shows it in the status bar.
func (m *Model) reportError(what string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	log.Printf("%s: %v", what, err)
	if mailapi.IsAuthError(err) {
		m.statusErr = "Authentication failed. Check the API token in settings."
		return
	}
	m.statusErr = fmt.Sprintf("Error %s: %v", what, err)
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	if mb, ok := model.ParseMailbox(cmd); ok {
		return m.loadMailbox(mb)
	}

	switch cmd {
	case command.Compose:
		return m.startCompose()
	case command.Refresh:
		return m.refresh()
	case command.Export:
		return m.exportCurrent()
	case command.Settings:
		return m.openSettings()
	case command.Quit:
		m.poller.Stop()
		return tea.Quit
	default:
		m.statusErr = fmt.Sprintf("Unknown command %q", cmd)
		return nil
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "Webmail"
	if m.cfg.Server.Username != "" {
		title += " · " + m.cfg.Server.Username
	}
	if m.unreadCount > 0 {
		title = fmt.Sprintf("%s [%d new]", title, m.unreadCount)
	}

	header := m.layout.RenderHeader(title, m.pollStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.statusErr)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.mailbox.View()
	case ViewSingle:
		return m.message.View()
	case ViewCompose:
		return m.compose.View()
	case ViewSettings:
		return m.settings.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// pollStatus returns a short label for the new-mail poller.
func (m Model) pollStatus() string {
	if m.mailer == nil {
		return theme.PollStyle("").Render("not configured")
	}

	st := m.poller.Status()
	switch st.State {
	case appsync.PollRunning:
		return theme.PollStyle("polling").Render("checking mail")
	case appsync.PollError:
		return theme.PollStyle("error").Render("offline")
	}
	if st.LastPoll.IsZero() {
		return theme.PollStyle("").Render("waiting")
	}
	return theme.PollStyle("idle").Render("checked " + st.LastPoll.Format("15:04"))
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusInfo != "" {
		return m.statusInfo
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc close"
	case ViewSingle:
		hints := "esc back | r reply"
		for _, a := range message.Actions(m.message.Mailbox()) {
			switch a {
			case message.ActionArchive:
				hints += " | a archive"
			case message.ActionUnarchive:
				hints += " | a unarchive"
			}
		}
		return hints + " | e export | j/k scroll"
	case ViewCompose:
		return "tab next field | enter send | esc cancel"
	case ViewSettings:
		return "enter save | esc back"
	default:
		return "1 inbox | 2 sent | 3 archive | c compose | enter open | e export | ? help | q quit"
	}
}
