package model

import "strings"

// Mailbox names one of the server-side email collections.
type Mailbox string

const (
	MailboxInbox   Mailbox = "inbox"
	MailboxSent    Mailbox = "sent"
	MailboxArchive Mailbox = "archive"
)

// Mailboxes lists every mailbox in navigation order.
var Mailboxes = []Mailbox{MailboxInbox, MailboxSent, MailboxArchive}

// Valid reports whether mb is one of the known mailboxes.
func (mb Mailbox) Valid() bool {
	switch mb {
	case MailboxInbox, MailboxSent, MailboxArchive:
		return true
	}
	return false
}

// Title returns the mailbox name with its first letter capitalized,
// as shown in the list heading.
func (mb Mailbox) Title() string {
	s := string(mb)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseMailbox converts a user-supplied name into a Mailbox.
// "archived" is accepted as an alias for the archive mailbox.
func ParseMailbox(name string) (Mailbox, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "archived" {
		name = string(MailboxArchive)
	}
	mb := Mailbox(name)
	return mb, mb.Valid()
}

// Email is a single message as returned by the mail server.
type Email struct {
	// ID is the server-assigned identifier.
	ID int `json:"id"`

	// Sender is the address the email was sent from.
	Sender string `json:"sender"`

	// Recipients holds every To address.
	Recipients []string `json:"recipients"`

	// Subject is the subject line.
	Subject string `json:"subject"`

	// Body is the message text. It may contain HTML.
	Body string `json:"body"`

	// Timestamp is the server-formatted send time, used for display only.
	Timestamp string `json:"timestamp"`

	// Read is true once the email has been opened.
	Read bool `json:"read"`

	// Archived is true when the email lives in the archive mailbox.
	Archived bool `json:"archived"`
}

// RecipientList joins the recipients for display.
func (e Email) RecipientList() string {
	return strings.Join(e.Recipients, ",")
}

// Draft is an unsent email assembled from the compose form.
type Draft struct {
	// Recipients is a comma-separated list of addresses.
	Recipients string `json:"recipients"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}
