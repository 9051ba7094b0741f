package compose

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/webmail/internal/model"
)

var original = model.Email{
	ID:        4,
	Sender:    "a@b.com",
	Subject:   "Hi",
	Body:      "hello",
	Timestamp: "Jan 01 2021, 10:00 AM",
}

func TestPrefillNew(t *testing.T) {
	f := Prefill(ModeNew, nil)
	assert.Equal(t, Fields{Title: "New Email"}, f)
}

func TestPrefillReply(t *testing.T) {
	f := Prefill(ModeReply, &original)

	assert.Equal(t, "Reply to Email", f.Title)
	assert.Equal(t, "a@b.com", f.Recipients)
	assert.True(t, f.RecipientsReadOnly)
	assert.Equal(t, "Re: Hi", f.Subject)
	assert.Equal(t, "\n\n>> On Jan 01 2021, 10:00 AM a@b.com wrote:\nhello", f.Body)
}

func TestPrefillReplyKeepsExistingPrefix(t *testing.T) {
	src := original
	src.Subject = "Re: Hi"
	assert.Equal(t, "Re: Hi", Prefill(ModeReply, &src).Subject)

	// Only the exact "Re:" prefix counts.
	src.Subject = "RE: Hi"
	assert.Equal(t, "Re: RE: Hi", Prefill(ModeReply, &src).Subject)
}

func TestSubmitGate(t *testing.T) {
	m := New(80, 30)
	m.Start(ModeNew, nil)

	assert.False(t, m.CanSubmit())
	assert.Nil(t, m.Submit())

	m.fb.recipients = "   "
	assert.False(t, m.CanSubmit())

	m.fb.recipients = "c@d.com"
	m.fb.subject = "S"
	m.fb.body = "B"
	assert.True(t, m.CanSubmit())

	cmd := m.Submit()
	require.NotNil(t, cmd)
	msg, ok := cmd().(SendRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, model.Draft{Recipients: "c@d.com", Subject: "S", Body: "B"}, msg.Draft)

	// A second submit while the first is in flight is ignored.
	assert.Nil(t, m.Submit())
}

func TestReplyCanSubmitImmediately(t *testing.T) {
	m := New(80, 30)
	m.Start(ModeReply, &original)

	assert.True(t, m.CanSubmit())
	assert.Equal(t, "a@b.com", m.Draft().Recipients)
	assert.Contains(t, m.View(), "Reply to Email")
}

func TestSetErrorKeepsValuesAndShowsBanner(t *testing.T) {
	m := New(80, 30)
	m.Start(ModeNew, nil)
	m.fb.recipients = "nobody@example.com"
	m.fb.subject = "S"
	require.NotNil(t, m.Submit())

	m.SetError("User with email nobody@example.com does not exist.")

	assert.Equal(t, "User with email nobody@example.com does not exist.", m.Error())
	assert.Contains(t, m.View(), "does not exist.")
	assert.Equal(t, "nobody@example.com", m.Draft().Recipients)
	assert.Equal(t, "S", m.Draft().Subject)
	assert.NotNil(t, m.Submit())
}

func TestStartClearsError(t *testing.T) {
	m := New(80, 30)
	m.Start(ModeNew, nil)
	m.SetError("boom")

	m.Start(ModeNew, nil)
	assert.Empty(t, m.Error())
	assert.Empty(t, m.Draft().Recipients)
}

func TestEscCancels(t *testing.T) {
	m := New(80, 30)
	m.Start(ModeNew, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{}, cmd())
}

func TestFailedSendIsNotResubmittedByLaterInput(t *testing.T) {
	m := New(80, 30)
	m.Start(ModeNew, nil)
	m.fb.recipients = "c@d.com"
	m.form.State = huh.StateCompleted

	m, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	require.NotNil(t, cmd)
	require.True(t, m.sending)

	m.SetFailed()
	assert.Equal(t, huh.StateNormal, m.form.State)
	assert.Equal(t, "c@d.com", m.Draft().Recipients)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.False(t, m.sending, "a keystroke after a failed send must not send the draft again")

	m, _ = m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	assert.False(t, m.sending)
}
