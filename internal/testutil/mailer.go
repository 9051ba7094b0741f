package testutil

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/nhle/webmail/internal/mailapi"
	"github.com/nhle/webmail/internal/model"
)

// FakeMailer is an in-memory mailapi.Mailer that records every call.
type FakeMailer struct {
	mu gosync.Mutex

	// Mailboxes maps a mailbox to the list ListMailbox returns.
	Mailboxes map[model.Mailbox][]model.Email

	// SendErr, ListErr and GetErr are returned by the matching calls.
	SendErr error
	ListErr error
	GetErr  error

	Sent      []model.Draft
	ReadIDs   []int
	Archived  map[int]bool
	ListCalls []model.Mailbox
}

var _ mailapi.Mailer = (*FakeMailer)(nil)

// NewFakeMailer returns an empty FakeMailer.
func NewFakeMailer() *FakeMailer {
	return &FakeMailer{
		Mailboxes: make(map[model.Mailbox][]model.Email),
		Archived:  make(map[int]bool),
	}
}

// SetMailbox replaces the contents of a mailbox.
func (f *FakeMailer) SetMailbox(mb model.Mailbox, emails []model.Email) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Mailboxes[mb] = emails
}

// ListMailbox implements mailapi.Mailer.
func (f *FakeMailer) ListMailbox(_ context.Context, mb model.Mailbox) ([]model.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls = append(f.ListCalls, mb)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	emails := append([]model.Email{}, f.Mailboxes[mb]...)
	return emails, nil
}

// GetEmail implements mailapi.Mailer.
func (f *FakeMailer) GetEmail(_ context.Context, id int) (*model.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	for _, emails := range f.Mailboxes {
		for _, e := range emails {
			if e.ID == id {
				found := e
				return &found, nil
			}
		}
	}
	return nil, fmt.Errorf("email %d not found", id)
}

// MarkRead implements mailapi.Mailer.
func (f *FakeMailer) MarkRead(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReadIDs = append(f.ReadIDs, id)
	return nil
}

// SetArchived implements mailapi.Mailer.
func (f *FakeMailer) SetArchived(_ context.Context, id int, archived bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Archived[id] = archived
	return nil
}

// Send implements mailapi.Mailer.
func (f *FakeMailer) Send(_ context.Context, draft model.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Sent = append(f.Sent, draft)
	return nil
}
