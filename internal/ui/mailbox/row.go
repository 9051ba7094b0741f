package mailbox

import (
	"strings"

	"github.com/nhle/webmail/internal/model"
)

// EmptyNotice is shown instead of rows when a mailbox has no emails.
const EmptyNotice = "You have 0 messages."

// Border selects how a row is framed.
type Border int

const (
	// BorderTop separates a row from the one above it.
	BorderTop Border = iota
	// BorderBox closes the list below the last row.
	BorderBox
)

// Row is the display form of one email in a mailbox listing.
type Row struct {
	EmailID     int
	FirstColumn string
	Subject     string
	Timestamp   string

	// Emphasized is set on the "To:" column of sent rows.
	Emphasized bool
	// Bold marks unread inbox emails.
	Bold bool
	// Highlight tints read inbox emails.
	Highlight bool
	Border    Border
}

// BuildRows converts emails into rows, preserving the server's order.
func BuildRows(mb model.Mailbox, emails []model.Email) []Row {
	rows := make([]Row, 0, len(emails))
	for i, e := range emails {
		r := Row{
			EmailID:     e.ID,
			FirstColumn: "From: " + e.Sender,
			Subject:     e.Subject,
			Timestamp:   e.Timestamp,
			Border:      BorderTop,
		}
		if mb == model.MailboxSent {
			r.FirstColumn = "To: " + strings.Join(e.Recipients, ",")
			r.Emphasized = true
		}
		if mb == model.MailboxInbox {
			r.Bold = !e.Read
			r.Highlight = e.Read
		}
		if i == len(emails)-1 {
			r.Border = BorderBox
		}
		rows = append(rows, r)
	}
	return rows
}
