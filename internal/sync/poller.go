package sync

import (
	"context"
	"fmt"
	"log"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/webmail/internal/mailapi"
	"github.com/nhle/webmail/internal/model"
	"github.com/nhle/webmail/internal/store"
)

// PollState represents the current state of the inbox poller.
type PollState int

const (
	PollIdle PollState = iota
	PollRunning
	PollError
)

// Status holds the poller state shown in the header.
type Status struct {
	State    PollState
	LastPoll time.Time
	Error    error
}

// ResultMsg is a tea.Msg sent when a poll completes.
type ResultMsg struct {
	NewCount  int
	Error     error
	AuthError bool
}

// fetchTimeout is the maximum time allowed for a single poll.
const fetchTimeout = 30 * time.Second

// Poller periodically lists the inbox and records notifications for
// emails it has not seen before.
type Poller struct {
	mailer    mailapi.Mailer
	store     store.Store
	interval  time.Duration
	status    Status
	primed    bool
	resultCh  chan ResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	pollMu    gosync.Mutex
	running   bool
}

// New creates a new Poller. A nil mailer leaves the poller idle until
// SetMailer is called.
func New(m mailapi.Mailer, s store.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Poller{
		mailer:    m,
		store:     s,
		interval:  interval,
		resultCh:  make(chan ResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// SetMailer swaps the backend, e.g. after the server settings change.
func (p *Poller) SetMailer(m mailapi.Mailer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mailer = m
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate poll.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A poll is already queued.
	}
}

// Status returns the current poller status.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop runs until Stop is called.
func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollAndSend()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.pollAndSend()
		case <-p.triggerCh:
			p.pollAndSend()
		}
	}
}

func (p *Poller) pollAndSend() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	n, err := p.Poll(ctx)
	if err != nil {
		log.Printf("inbox poll failed: %v", err)
		p.sendResult(ResultMsg{Error: err, AuthError: mailapi.IsAuthError(err)})
		return
	}
	p.sendResult(ResultMsg{NewCount: n})
}

// Poll performs a single poll cycle and returns how many notifications
// were created. The first poll against an empty ledger only records a
// baseline, so existing mail does not show up as new.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()

	p.mu.Lock()
	m := p.mailer
	p.mu.Unlock()
	if m == nil {
		return 0, nil
	}

	p.setStatus(PollRunning, nil)

	emails, err := m.ListMailbox(ctx, model.MailboxInbox)
	if err != nil {
		p.setStatus(PollError, err)
		return 0, err
	}

	baseline := false
	if !p.primed {
		seen, err := p.store.SeenCount(ctx)
		if err != nil {
			p.setStatus(PollError, err)
			return 0, err
		}
		baseline = seen == 0
		p.primed = true
	}

	byID := make(map[int]model.Email, len(emails))
	ids := make([]int, 0, len(emails))
	for _, e := range emails {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	fresh, err := p.store.MarkSeen(ctx, ids)
	if err != nil {
		p.setStatus(PollError, err)
		return 0, err
	}

	created := 0
	if !baseline {
		for _, id := range fresh {
			e := byID[id]
			if e.Read {
				continue
			}
			err := p.store.CreateNotification(ctx, model.Notification{
				EmailID:   id,
				Message:   fmt.Sprintf("New email from %s: %s", e.Sender, e.Subject),
				CreatedAt: time.Now(),
			})
			if err != nil {
				p.setStatus(PollError, err)
				return created, err
			}
			created++
		}
	}

	p.setStatus(PollIdle, nil)
	return created, nil
}

// setStatus updates the poller status.
func (p *Poller) setStatus(state PollState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == PollIdle && err == nil {
		p.status.LastPoll = time.Now()
	}
}

// sendResult sends a ResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg ResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll result.
// This should be called after processing a ResultMsg to continue
// listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
