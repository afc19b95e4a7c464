package feed

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gimenezdev/rentalops/internal/api"
)

// PollState represents the current state of the background refresh loop.
type PollState int

const (
	PollIdle PollState = iota
	PollRunning
	PollError
)

// PollStatus holds the silent-refresh loop's last outcome.
type PollStatus struct {
	State    PollState
	LastPoll time.Time
	Error    error
}

// ResultMsg is a tea.Msg sent for each completed silent refresh. Epoch is
// the feed epoch the fetch was dispatched under; stale results are dropped
// by Feed.ApplySilent.
type ResultMsg struct {
	Epoch     int
	Page      *api.NotificationPage
	Unread    int
	Error     error
	AuthError bool
}

// fetchTimeout is the maximum time allowed for a single poll cycle.
const fetchTimeout = 30 * time.Second

// Poller refreshes the notification feed in the background on a fixed
// interval. It owns its goroutine; the update loop subscribes to results
// with WaitForNextResult and pushes filter changes with SetQuery.
type Poller struct {
	client    *api.Client
	interval  time.Duration
	resultCh  chan ResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        sync.Mutex
	query     api.NotificationQuery
	epoch     int
	status    PollStatus
	running   bool
}

// NewPoller creates a poller for one workspace client. The interval is the
// silent-refresh period (the platform default is 45 seconds).
func NewPoller(client *api.Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 45 * time.Second
	}
	return &Poller{
		client:    client,
		interval:  interval,
		resultCh:  make(chan ResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// SetQuery installs the filters and epoch that future poll cycles fetch
// with. Call it after every filter change so superseded cycles are
// discarded on arrival.
func (p *Poller) SetQuery(q api.NotificationQuery, epoch int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q.Cursor = "" // silent refresh always fetches the newest page
	p.query = q
	p.epoch = epoch
}

// Start launches the polling goroutine and returns the subscription
// command that delivers ResultMsg messages to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return p.waitForResult()
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine. Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// TriggerNow requests an immediate refresh cycle without waiting for the
// next tick. Used after mark-all-read failures to resynchronize.
func (p *Poller) TriggerNow() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// Channel full; a refresh is already queued.
	}
	return nil
}

// Status returns the last poll outcome.
func (p *Poller) Status() PollStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop runs the refresh cycle until Stop.
func (p *Poller) loop() {
	defer close(p.resultCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetch()
		case <-p.triggerCh:
			p.fetch()
			ticker.Reset(p.interval)
		}
	}
}

// fetch performs one refresh cycle: the newest page plus the unread count,
// delivered as a single ResultMsg.
func (p *Poller) fetch() {
	p.mu.Lock()
	query := p.query
	epoch := p.epoch
	p.status.State = PollRunning
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	page, err := p.client.ListNotifications(ctx, query)
	if err != nil {
		p.setStatus(PollError, err)
		p.sendResult(ResultMsg{
			Epoch:     epoch,
			Error:     err,
			AuthError: api.IsAuthError(err),
		})
		return
	}

	unread, err := p.client.UnreadCount(ctx)
	if err != nil {
		p.setStatus(PollError, err)
		p.sendResult(ResultMsg{
			Epoch:     epoch,
			Error:     err,
			AuthError: api.IsAuthError(err),
		})
		return
	}

	p.setStatus(PollIdle, nil)
	p.sendResult(ResultMsg{
		Epoch:  epoch,
		Page:   page,
		Unread: unread,
	})
}

// setStatus updates the poll status under the lock.
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
		// Drop if channel is full to avoid blocking the poller.
	}
}

// waitForResult returns a tea.Cmd that waits for the next refresh result.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. Call it after processing a ResultMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
