package message

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/webmail/internal/keys"
	"github.com/nhle/webmail/internal/model"
)

var sample = model.Email{
	ID:         7,
	Sender:     "a@b.com",
	Recipients: []string{"me@x.com", "you@x.com"},
	Subject:    "Lunch",
	Body:       "<p>See you at <b>noon</b></p>",
	Timestamp:  "Jan 01 2021, 10:00 AM",
}

func TestActions(t *testing.T) {
	assert.Equal(t, []Action{ActionReply, ActionArchive}, Actions(model.MailboxInbox))
	assert.Equal(t, []Action{ActionReply, ActionUnarchive}, Actions(model.MailboxArchive))
	assert.Equal(t, []Action{ActionReply}, Actions(model.MailboxSent))
}

func open(t *testing.T, mb model.Mailbox) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetLoading(mb)
	m.SetEmail(sample)
	return m
}

func runKey(t *testing.T, m Model, r rune) tea.Msg {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestViewShowsHeaderFieldsAndConvertedBody(t *testing.T) {
	m := open(t, model.MailboxInbox)

	view := m.View()
	assert.Contains(t, view, "a@b.com")
	assert.Contains(t, view, "me@x.com,you@x.com")
	assert.Contains(t, view, "Lunch")
	assert.Contains(t, view, "Jan 01 2021, 10:00 AM")
	assert.Contains(t, view, "**noon**")
	assert.NotContains(t, view, "<p>")
	assert.Contains(t, view, "a Archive")
}

func TestLoadingState(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetLoading(model.MailboxInbox)

	assert.Contains(t, m.View(), "Loading email...")
	_, ok := m.Email()
	assert.False(t, ok)
}

func TestReplyFromEveryMailbox(t *testing.T) {
	for _, mb := range model.Mailboxes {
		t.Run(string(mb), func(t *testing.T) {
			msg := runKey(t, open(t, mb), 'r')
			reply, ok := msg.(ReplyMsg)
			require.True(t, ok)
			assert.Equal(t, 7, reply.Email.ID)
		})
	}
}

func TestArchiveToggle(t *testing.T) {
	msg := runKey(t, open(t, model.MailboxInbox), 'a')
	assert.Equal(t, ArchiveMsg{ID: 7, Archived: true}, msg)

	msg = runKey(t, open(t, model.MailboxArchive), 'a')
	assert.Equal(t, ArchiveMsg{ID: 7, Archived: false}, msg)

	msg = runKey(t, open(t, model.MailboxSent), 'a')
	assert.Nil(t, msg)
	assert.NotContains(t, open(t, model.MailboxSent).View(), "Archive")
}

func TestExportAndBack(t *testing.T) {
	msg := runKey(t, open(t, model.MailboxSent), 'e')
	export, ok := msg.(ExportMsg)
	require.True(t, ok)
	assert.Equal(t, "Lunch", export.Email.Subject)

	m := open(t, model.MailboxInbox)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
