package mailapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/nhle/webmail/internal/model"
)

// Mailer defines the operations the client performs against the mail
// server. Every call maps to exactly one HTTP request.
type Mailer interface {
	// ListMailbox returns the emails of a mailbox in server order.
	ListMailbox(ctx context.Context, mailbox model.Mailbox) ([]model.Email, error)

	// GetEmail returns a single email by ID.
	GetEmail(ctx context.Context, id int) (*model.Email, error)

	// MarkRead flags an email as read.
	MarkRead(ctx context.Context, id int) error

	// SetArchived moves an email into or out of the archive.
	SetArchived(ctx context.Context, id int, archived bool) error

	// Send submits a draft. A *ServerError is returned when the server
	// rejects the draft (e.g., an unknown recipient).
	Send(ctx context.Context, draft model.Draft) error
}

// Service implements Mailer on top of Client.
type Service struct {
	client *Client
}

var _ Mailer = (*Service)(nil)

// NewService creates a Service for the server at baseURL.
func NewService(baseURL, token string, timeout time.Duration) *Service {
	return &Service{client: NewClient(baseURL, token, timeout)}
}

// ListMailbox calls GET /emails/<mailbox>.
func (s *Service) ListMailbox(
	ctx context.Context,
	mailbox model.Mailbox,
) ([]model.Email, error) {
	if !mailbox.Valid() {
		return nil, fmt.Errorf("unknown mailbox %q", mailbox)
	}

	var emails []model.Email
	path := "/emails/" + url.PathEscape(string(mailbox))
	if err := s.client.Get(ctx, path, &emails); err != nil {
		return nil, fmt.Errorf("listing %s: %w", mailbox, err)
	}
	if emails == nil {
		emails = []model.Email{}
	}
	return emails, nil
}

// GetEmail calls GET /emails/<id>.
func (s *Service) GetEmail(ctx context.Context, id int) (*model.Email, error) {
	var email model.Email
	if err := s.client.Get(ctx, emailPath(id), &email); err != nil {
		return nil, fmt.Errorf("fetching email %d: %w", id, err)
	}
	return &email, nil
}

// MarkRead calls PUT /emails/<id> with {"read": true}.
func (s *Service) MarkRead(ctx context.Context, id int) error {
	if err := s.client.Put(ctx, emailPath(id), readUpdate{Read: true}, nil); err != nil {
		return fmt.Errorf("marking email %d read: %w", id, err)
	}
	return nil
}

// SetArchived calls PUT /emails/<id> with {"archived": archived}.
func (s *Service) SetArchived(ctx context.Context, id int, archived bool) error {
	err := s.client.Put(ctx, emailPath(id), archiveUpdate{Archived: archived}, nil)
	if err != nil {
		return fmt.Errorf("setting archived=%t on email %d: %w", archived, id, err)
	}
	return nil
}

// Send calls POST /emails. The server signals failure with an "error"
// field; it is honored even on a 2xx status.
func (s *Service) Send(ctx context.Context, draft model.Draft) error {
	var resp SendResponse
	if err := s.client.Post(ctx, "/emails", draft, &resp); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if resp.Error != "" {
		return &ServerError{StatusCode: 200, Message: resp.Error}
	}
	return nil
}

func emailPath(id int) string {
	return fmt.Sprintf("/emails/%d", id)
}
