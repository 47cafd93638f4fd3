// Package backend polls a TensorBoard server and turns state changes into
// bubbletea messages for the UI.
package backend

import (
	"context"
	"slices"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/log/v2"
)

// DefaultInterval is the polling interval used until the user changes it.
const DefaultInterval = 30 * time.Second

// Client is the slice of the TensorBoard API the poller needs.
type Client interface {
	Runs(ctx context.Context) ([]string, error)
}

// Pump receives messages for the UI, typically tea.Program.Send.
type Pump func(tea.Msg)

// RunsUpdatedMsg is sent when the set of runs known to the server changes.
type RunsUpdatedMsg struct {
	Runs []string
}

// ConnStatusMsg is sent when the connection to the server is established,
// lost, or fails with a new error.
type ConnStatusMsg struct {
	Connected bool
	Err       string
}

// Backend caches the runs list and reports changes through the pump.
type Backend struct {
	client Client
	pump   Pump

	mu        sync.Mutex
	runs      []string
	polled    bool
	connected bool
	lastErr   string

	refresh  chan struct{}
	interval chan time.Duration
}

// New returns a backend that reports changes through pump.
func New(client Client, pump Pump) *Backend {
	return &Backend{
		client:   client,
		pump:     pump,
		refresh:  make(chan struct{}, 1),
		interval: make(chan time.Duration, 1),
	}
}

// Runs returns a copy of the cached runs list.
func (b *Backend) Runs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.runs)
}

// Connected reports whether the last poll reached the server.
func (b *Backend) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

// LastError returns the most recent connection error message, or "".
func (b *Backend) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Refresh requests an immediate poll from the Run loop. It never blocks;
// a poll already pending is good enough.
func (b *Backend) Refresh() {
	select {
	case b.refresh <- struct{}{}:
	default:
	}
}

// SetInterval changes the polling interval used by the Run loop.
func (b *Backend) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case b.interval <- d:
	default:
	}
}

// Run polls until ctx is cancelled. It polls once immediately, then on
// every tick or Refresh call.
func (b *Backend) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	b.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Poll(ctx)
		case <-b.refresh:
			b.Poll(ctx)
		case d := <-b.interval:
			log.Debug("poll interval changed", "interval", d)
			ticker.Reset(d)
		}
	}
}

// Poll fetches the runs list once and pumps messages for anything that
// changed since the previous poll.
func (b *Backend) Poll(ctx context.Context) {
	runs, err := b.client.Runs(ctx)

	b.mu.Lock()
	var msgs []tea.Msg
	if err != nil {
		errMsg := err.Error()
		log.Error("poll failed", "err", errMsg)
		if b.connected || b.lastErr != errMsg {
			b.connected = false
			b.lastErr = errMsg
			msgs = append(msgs, ConnStatusMsg{Connected: false, Err: errMsg})
		}
	} else {
		if !b.polled || !slices.Equal(b.runs, runs) {
			log.Info("runs changed", "runs", runs)
			b.runs = slices.Clone(runs)
			b.polled = true
			msgs = append(msgs, RunsUpdatedMsg{Runs: runs})
		}
		if !b.connected || b.lastErr != "" {
			b.connected = true
			b.lastErr = ""
			msgs = append(msgs, ConnStatusMsg{Connected: true})
		}
	}
	b.mu.Unlock()

	for _, msg := range msgs {
		b.pump(msg)
	}
}
