package compose

import (
	"fmt"
	"strings"

	"github.com/nhle/webmail/internal/model"
)

// Mode selects how the compose panel is initialised.
type Mode int

const (
	ModeNew Mode = iota
	ModeReply
)

// Fields is the initial content of the compose panel.
type Fields struct {
	Title              string
	Recipients         string
	Subject            string
	Body               string
	RecipientsReadOnly bool
}

// Prefill returns the compose fields for mode. In reply mode src must be
// the email being answered.
func Prefill(mode Mode, src *model.Email) Fields {
	if mode != ModeReply || src == nil {
		return Fields{Title: "New Email"}
	}

	subject := src.Subject
	if !strings.HasPrefix(subject, "Re:") {
		subject = "Re: " + subject
	}

	return Fields{
		Title:              "Reply to Email",
		Recipients:         src.Sender,
		Subject:            subject,
		Body:               fmt.Sprintf("\n\n>> On %s %s wrote:\n%s", src.Timestamp, src.Sender, src.Body),
		RecipientsReadOnly: true,
	}
}
