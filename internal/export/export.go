// Package export writes emails to standard on-disk formats: single
// messages as RFC 5322 .eml files and whole mailboxes as mbox.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/webmail/internal/model"
)

// TimestampLayout is the display format the mail server uses for
// email timestamps (e.g., "Jan 02 2020, 03:04 PM").
const TimestampLayout = "Jan 02 2006, 03:04 PM"

// ParseTimestamp converts a server timestamp into a time. Unparseable
// values map to the Unix epoch so exported files stay well-formed.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(TimestampLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

func parseAddress(s string) *mail.Address {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return &mail.Address{Address: strings.TrimSpace(s)}
	}
	return addr
}

// WriteEML writes e as a single-part text/plain RFC 5322 message.
func WriteEML(w io.Writer, e model.Email) error {
	var h mail.Header
	h.SetDate(ParseTimestamp(e.Timestamp))
	h.SetSubject(e.Subject)
	h.SetAddressList("From", []*mail.Address{parseAddress(e.Sender)})

	to := make([]*mail.Address, 0, len(e.Recipients))
	for _, r := range e.Recipients {
		to = append(to, parseAddress(r))
	}
	if len(to) > 0 {
		h.SetAddressList("To", to)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	body, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := io.WriteString(body, e.Body); err != nil {
		body.Close()
		return fmt.Errorf("writing message body: %w", err)
	}
	if err := body.Close(); err != nil {
		return fmt.Errorf("closing message body: %w", err)
	}
	return nil
}

// WriteMbox writes emails as consecutive mbox entries, in the given order.
func WriteMbox(w io.Writer, emails []model.Email) error {
	mw := mbox.NewWriter(w)
	for _, e := range emails {
		var msg bytes.Buffer
		if err := WriteEML(&msg, e); err != nil {
			return fmt.Errorf("encoding email %d: %w", e.ID, err)
		}

		entry, err := mw.CreateMessage(e.Sender, ParseTimestamp(e.Timestamp))
		if err != nil {
			return fmt.Errorf("creating mbox entry for email %d: %w", e.ID, err)
		}
		if _, err := entry.Write(msg.Bytes()); err != nil {
			return fmt.Errorf("writing mbox entry for email %d: %w", e.ID, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing mbox: %w", err)
	}
	return nil
}

// SaveEmail writes e to dir/email-<id>.eml and returns the file path.
func SaveEmail(dir string, e model.Email) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("email-%d.eml", e.ID))
	return path, writeFile(path, func(w io.Writer) error {
		return WriteEML(w, e)
	})
}

// SaveMailbox writes emails to dir/<mailbox>.mbox and returns the file path.
func SaveMailbox(dir string, mb model.Mailbox, emails []model.Email) (string, error) {
	path := filepath.Join(dir, string(mb)+".mbox")
	return path, writeFile(path, func(w io.Writer) error {
		return WriteMbox(w, emails)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
