package app

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/webmail/internal/export"
	"github.com/nhle/webmail/internal/mailapi"
	"github.com/nhle/webmail/internal/model"
	"github.com/nhle/webmail/internal/store"
)

// mailboxLoadedMsg carries a mailbox listing tagged with the request
// token it was issued under.
type mailboxLoadedMsg struct {
	token   uint64
	mailbox model.Mailbox
	emails  []model.Email
	err     error
}

// emailLoadedMsg carries a single email tagged with its request token.
type emailLoadedMsg struct {
	token uint64
	email *model.Email
	err   error
}

// emailSentMsg reports the outcome of POST /emails.
type emailSentMsg struct {
	err error
}

// archivedMsg reports the outcome of an archive toggle.
type archivedMsg struct {
	id       int
	archived bool
	err      error
}

// exportedMsg reports where an export was written.
type exportedMsg struct {
	path string
	err  error
}

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// fetchMailbox lists mb. The result is tagged with token so that a
// response to a superseded request can be discarded.
func fetchMailbox(ctx context.Context, m mailapi.Mailer, mb model.Mailbox, token uint64) tea.Cmd {
	return func() tea.Msg {
		emails, err := m.ListMailbox(ctx, mb)
		return mailboxLoadedMsg{token: token, mailbox: mb, emails: emails, err: err}
	}
}

// fetchEmail loads email id and marks it read if it was unread.
func fetchEmail(ctx context.Context, m mailapi.Mailer, id int, token uint64) tea.Cmd {
	return func() tea.Msg {
		e, err := m.GetEmail(ctx, id)
		if err != nil {
			return emailLoadedMsg{token: token, err: err}
		}
		if !e.Read {
			if err := m.MarkRead(ctx, e.ID); err != nil {
				log.Printf("marking email %d read: %v", e.ID, err)
			}
		}
		return emailLoadedMsg{token: token, email: e}
	}
}

// sendEmail posts a draft. The draft is not kept after the attempt.
func sendEmail(m mailapi.Mailer, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		return emailSentMsg{err: m.Send(context.Background(), d)}
	}
}

// setArchived updates the archived flag of email id.
func setArchived(m mailapi.Mailer, id int, archived bool) tea.Cmd {
	return func() tea.Msg {
		err := m.SetArchived(context.Background(), id, archived)
		return archivedMsg{id: id, archived: archived, err: err}
	}
}

// exportEmail writes e to dir as an .eml file.
func exportEmail(dir string, e model.Email) tea.Cmd {
	return func() tea.Msg {
		path, err := export.SaveEmail(dir, e)
		return exportedMsg{path: path, err: err}
	}
}

// exportMailbox writes the listed emails of mb to dir as an mbox file.
func exportMailbox(dir string, mb model.Mailbox, emails []model.Email) tea.Cmd {
	return func() tea.Msg {
		path, err := export.SaveMailbox(dir, mb, emails)
		return exportedMsg{path: path, err: err}
	}
}

// fetchUnreadCount queries the store for the number of unread
// notifications.
func fetchUnreadCount(s store.Store) tea.Cmd {
	return func() tea.Msg {
		notifications, err := s.GetUnreadNotifications(context.Background())
		if err != nil {
			log.Printf("counting notifications: %v", err)
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: len(notifications)}
	}
}

// clearNotifications marks every notification read once the inbox is shown.
func clearNotifications(s store.Store) tea.Cmd {
	return func() tea.Msg {
		if err := s.MarkAllNotificationsRead(context.Background()); err != nil {
			log.Printf("clearing notifications: %v", err)
		}
		return unreadCountMsg{count: 0}
	}
}
