package mailbox

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/webmail/internal/keys"
	"github.com/nhle/webmail/internal/model"
)

func sampleEmails() []model.Email {
	return []model.Email{
		{ID: 3, Sender: "a@b.com", Recipients: []string{"me@x.com"}, Subject: "Hi", Timestamp: "Jan 01 2021, 10:00 AM", Read: false},
		{ID: 2, Sender: "c@d.com", Recipients: []string{"me@x.com", "you@x.com"}, Subject: "Yo", Timestamp: "Jan 01 2021, 09:00 AM", Read: true},
	}
}

func TestBuildRows(t *testing.T) {
	tests := []struct {
		name          string
		mailbox       model.Mailbox
		wantFirst     []string
		wantBold      []bool
		wantHighlight []bool
		wantEmphasis  bool
	}{
		{
			name:          "inbox styles by read state",
			mailbox:       model.MailboxInbox,
			wantFirst:     []string{"From: a@b.com", "From: c@d.com"},
			wantBold:      []bool{true, false},
			wantHighlight: []bool{false, true},
		},
		{
			name:          "sent shows recipients",
			mailbox:       model.MailboxSent,
			wantFirst:     []string{"To: me@x.com", "To: me@x.com,you@x.com"},
			wantBold:      []bool{false, false},
			wantHighlight: []bool{false, false},
			wantEmphasis:  true,
		},
		{
			name:          "archive has no read styling",
			mailbox:       model.MailboxArchive,
			wantFirst:     []string{"From: a@b.com", "From: c@d.com"},
			wantBold:      []bool{false, false},
			wantHighlight: []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := BuildRows(tt.mailbox, sampleEmails())
			require.Len(t, rows, 2)

			for i, r := range rows {
				assert.Equal(t, tt.wantFirst[i], r.FirstColumn)
				assert.Equal(t, tt.wantBold[i], r.Bold)
				assert.Equal(t, tt.wantHighlight[i], r.Highlight)
				assert.Equal(t, tt.wantEmphasis, r.Emphasized)
			}
			assert.Equal(t, 3, rows[0].EmailID)
			assert.Equal(t, BorderTop, rows[0].Border)
			assert.Equal(t, BorderBox, rows[1].Border)
		})
	}
}

func TestBuildRowsEmpty(t *testing.T) {
	rows := BuildRows(model.MailboxInbox, nil)
	assert.Empty(t, rows)
}

func TestViewShowsHeadingAndEmptyNotice(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetMailbox(model.MailboxArchive)
	assert.True(t, m.Loading())

	m.SetEmails([]model.Email{})
	view := m.View()
	assert.Contains(t, view, "Archive")
	assert.Contains(t, view, EmptyNotice)
	assert.Empty(t, m.Rows())
}

func TestViewRendersRows(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 24)
	m.SetMailbox(model.MailboxInbox)
	m.SetEmails(sampleEmails())

	view := m.View()
	assert.Contains(t, view, "Inbox")
	assert.Contains(t, view, "From: a@b.com")
	assert.Contains(t, view, "Yo")
	assert.NotContains(t, view, EmptyNotice)
}

func TestSetError(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetMailbox(model.MailboxSent)
	m.SetError(errors.New("boom"))

	assert.False(t, m.Loading())
	assert.Contains(t, m.View(), "Could not load sent.")
}

func TestCursorAndOpen(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetMailbox(model.MailboxInbox)
	m.SetEmails(sampleEmails())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.Cursor())

	// Cursor stops at the last row.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.Cursor())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(OpenEmailMsg)
	require.True(t, ok)
	assert.Equal(t, 2, msg.Email.ID)
	assert.Equal(t, model.MailboxInbox, msg.Mailbox)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor())
}

func TestOpenOnEmptyListIsNoop(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetMailbox(model.MailboxInbox)
	m.SetEmails(nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestSetEmailsClampsCursor(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetMailbox(model.MailboxInbox)
	m.SetEmails(sampleEmails())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m.SetEmails(sampleEmails()[:1])
	assert.Equal(t, 0, m.Cursor())
}

func TestSetEmailsKeepsSelectedEmail(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetMailbox(model.MailboxInbox)
	m.SetEmails(sampleEmails())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	newer := model.Email{ID: 7, Sender: "e@f.com", Subject: "Fresh", Timestamp: "Jan 02 2021, 08:00 AM"}
	m.SetEmails(append([]model.Email{newer}, sampleEmails()...))

	assert.Equal(t, 2, m.Cursor())
	e, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, e.ID)
}
