package backend

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
)

// fakeClient returns the queued responses in order, repeating the last one.
type fakeClient struct {
	runs [][]string
	errs []error
	call int
}

func (f *fakeClient) Runs(ctx context.Context) ([]string, error) {
	i := f.call
	if i >= len(f.runs) {
		i = len(f.runs) - 1
	}
	f.call++
	return f.runs[i], f.errs[i]
}

type collector struct {
	msgs []tea.Msg
}

func (c *collector) pump(msg tea.Msg) {
	c.msgs = append(c.msgs, msg)
}

func TestPollFirstSuccess(t *testing.T) {
	client := &fakeClient{runs: [][]string{{"train", "eval"}}, errs: []error{nil}}
	sink := &collector{}
	b := New(client, sink.pump)

	b.Poll(context.Background())

	if len(sink.msgs) != 2 {
		t.Fatalf("got %d messages, want runs update + connection status", len(sink.msgs))
	}
	runs, ok := sink.msgs[0].(RunsUpdatedMsg)
	if !ok || len(runs.Runs) != 2 {
		t.Errorf("first message = %#v, want RunsUpdatedMsg with 2 runs", sink.msgs[0])
	}
	status, ok := sink.msgs[1].(ConnStatusMsg)
	if !ok || !status.Connected || status.Err != "" {
		t.Errorf("second message = %#v, want connected status", sink.msgs[1])
	}
	if !b.Connected() {
		t.Error("backend should report connected")
	}
}

func TestPollNoChangeNoMessages(t *testing.T) {
	client := &fakeClient{runs: [][]string{{"train"}}, errs: []error{nil}}
	sink := &collector{}
	b := New(client, sink.pump)

	b.Poll(context.Background())
	sink.msgs = nil
	b.Poll(context.Background())

	if len(sink.msgs) != 0 {
		t.Errorf("unchanged poll produced messages: %#v", sink.msgs)
	}
}

func TestPollRunsChanged(t *testing.T) {
	client := &fakeClient{
		runs: [][]string{{"train"}, {"train", "eval"}},
		errs: []error{nil, nil},
	}
	sink := &collector{}
	b := New(client, sink.pump)

	b.Poll(context.Background())
	sink.msgs = nil
	b.Poll(context.Background())

	if len(sink.msgs) != 1 {
		t.Fatalf("got %d messages, want a single runs update", len(sink.msgs))
	}
	runs, ok := sink.msgs[0].(RunsUpdatedMsg)
	if !ok || len(runs.Runs) != 2 {
		t.Errorf("message = %#v, want RunsUpdatedMsg with 2 runs", sink.msgs[0])
	}
}

func TestPollErrorTransitions(t *testing.T) {
	boom := errors.New("connection refused")
	client := &fakeClient{
		runs: [][]string{{"train"}, nil, nil, {"train"}},
		errs: []error{nil, boom, boom, nil},
	}
	sink := &collector{}
	b := New(client, sink.pump)

	b.Poll(context.Background()) // connected
	sink.msgs = nil

	b.Poll(context.Background()) // first failure
	if len(sink.msgs) != 1 {
		t.Fatalf("first failure: got %d messages, want 1", len(sink.msgs))
	}
	status, ok := sink.msgs[0].(ConnStatusMsg)
	if !ok || status.Connected || status.Err != "connection refused" {
		t.Errorf("message = %#v, want disconnected status with error", sink.msgs[0])
	}

	sink.msgs = nil
	b.Poll(context.Background()) // repeated identical failure
	if len(sink.msgs) != 0 {
		t.Errorf("repeated failure should be silent, got %#v", sink.msgs)
	}

	sink.msgs = nil
	b.Poll(context.Background()) // recovery
	found := false
	for _, msg := range sink.msgs {
		if status, ok := msg.(ConnStatusMsg); ok && status.Connected {
			found = true
		}
	}
	if !found {
		t.Errorf("recovery should emit a connected status, got %#v", sink.msgs)
	}
}

func TestPollEmptyRunsStillReports(t *testing.T) {
	client := &fakeClient{runs: [][]string{{}}, errs: []error{nil}}
	sink := &collector{}
	b := New(client, sink.pump)

	b.Poll(context.Background())

	// The first poll always reports the runs list, even when it is empty,
	// so the UI can replace its "Loading..." placeholder.
	if _, ok := sink.msgs[0].(RunsUpdatedMsg); !ok {
		t.Errorf("first message = %#v, want RunsUpdatedMsg", sink.msgs[0])
	}
}

func TestRefreshDoesNotBlock(t *testing.T) {
	b := New(&fakeClient{runs: [][]string{nil}, errs: []error{nil}}, func(tea.Msg) {})
	// No Run loop draining the channel; repeated calls must still return.
	b.Refresh()
	b.Refresh()
	b.Refresh()
}
