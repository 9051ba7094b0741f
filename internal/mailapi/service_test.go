package mailapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/webmail/internal/model"
)

func newTestService(t *testing.T, h http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewService(srv.URL, "secret", 5*time.Second)
}

func TestListMailboxKeepsServerOrder(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/emails/inbox", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[
			{"id": 7, "sender": "z@x.com", "recipients": ["me@x.com"], "subject": "later", "timestamp": "t2", "read": true},
			{"id": 3, "sender": "a@x.com", "recipients": ["me@x.com"], "subject": "earlier", "timestamp": "t1", "read": false}
		]`)
	})

	emails, err := svc.ListMailbox(context.Background(), model.MailboxInbox)
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, 7, emails[0].ID)
	assert.Equal(t, 3, emails[1].ID)
	assert.True(t, emails[0].Read)
	assert.Equal(t, []string{"me@x.com"}, emails[1].Recipients)
}

func TestListMailboxEmptyIsNonNil(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	emails, err := svc.ListMailbox(context.Background(), model.MailboxSent)
	require.NoError(t, err)
	assert.NotNil(t, emails)
	assert.Empty(t, emails)
}

func TestListMailboxRejectsUnknownMailbox(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := svc.ListMailbox(context.Background(), model.Mailbox("spam"))
	assert.Error(t, err)
}

func TestGetEmail(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails/42", r.URL.Path)
		_, _ = io.WriteString(w, `{"id": 42, "sender": "a@b.com", "subject": "Hi", "body": "hello", "timestamp": "t1"}`)
	})

	email, err := svc.GetEmail(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Hi", email.Subject)
	assert.Equal(t, "hello", email.Body)
}

func TestStatusUpdates(t *testing.T) {
	cases := []struct {
		name string
		call func(s *Service) error
		want map[string]bool
	}{
		{
			name: "mark read",
			call: func(s *Service) error { return s.MarkRead(context.Background(), 5) },
			want: map[string]bool{"read": true},
		},
		{
			name: "archive",
			call: func(s *Service) error { return s.SetArchived(context.Background(), 5, true) },
			want: map[string]bool{"archived": true},
		},
		{
			name: "unarchive",
			call: func(s *Service) error { return s.SetArchived(context.Background(), 5, false) },
			want: map[string]bool{"archived": false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/emails/5", r.URL.Path)
				var got map[string]bool
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				assert.Equal(t, tc.want, got)
				w.WriteHeader(http.StatusNoContent)
			})
			require.NoError(t, tc.call(svc))
		})
	}
}

func TestSend(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "success", status: http.StatusCreated, body: `{"message": "Email sent successfully."}`},
		{name: "null error", status: http.StatusOK, body: `{"error": null}`},
		{name: "rejected", status: http.StatusBadRequest, body: `{"error": "No recipients"}`, wantErr: "No recipients"},
		{name: "error on 2xx", status: http.StatusOK, body: `{"error": "User with email x does not exist."}`, wantErr: "User with email x does not exist."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/emails", r.URL.Path)
				var draft model.Draft
				require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
				assert.Equal(t, "a@b.com", draft.Recipients)
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			err := svc.Send(context.Background(), model.Draft{Recipients: "a@b.com", Subject: "x", Body: "y"})
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			se, ok := AsServerError(err)
			require.True(t, ok, "expected ServerError, got %v", err)
			assert.Equal(t, tc.wantErr, se.Message)
		})
	}
}

func TestTransportAndAuthErrors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := svc.GetEmail(context.Background(), 1)
		assert.True(t, IsAuthError(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{not json`)
		})
		_, err := svc.GetEmail(context.Background(), 1)
		require.Error(t, err)
		_, isServer := AsServerError(err)
		assert.False(t, isServer)
	})

	t.Run("plain 500", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		err := svc.MarkRead(context.Background(), 1)
		require.Error(t, err)
		_, isServer := AsServerError(err)
		assert.False(t, isServer)
	})

	t.Run("canceled context", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.ListMailbox(ctx, model.MailboxInbox)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
