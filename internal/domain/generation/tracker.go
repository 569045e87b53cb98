// Package generation orders overlapping submissions: each new submission on a
// lane supersedes the previous one, cancelling it and making its response stale.
package generation

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by Commit for a ticket that is no longer the latest.
var ErrSuperseded = errors.New("superseded by a newer submission")

// Ticket identifies one submission on a lane.
type Ticket struct {
	Lane string
	Gen  uint64
}

type lane struct {
	gen    uint64
	cancel context.CancelFunc
}

// Tracker holds the latest generation per lane. The zero value is ready to use.
type Tracker struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

// Begin starts a submission on laneName and cancels the one in flight, if any.
// The returned context must be used for the submission's request.
func (t *Tracker) Begin(ctx context.Context, laneName string) (context.Context, Ticket) {
	cctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lanes == nil {
		t.lanes = make(map[string]*lane)
	}
	l, ok := t.lanes[laneName]
	if !ok {
		l = &lane{}
		t.lanes[laneName] = l
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	return cctx, Ticket{Lane: laneName, Gen: l.gen}
}

// Commit reports whether tk is still the latest submission on its lane.
// It returns ErrSuperseded otherwise. Either way the ticket's context is released.
func (t *Tracker) Commit(tk Ticket) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.lanes[tk.Lane]
	if !ok || l.gen != tk.Gen {
		return ErrSuperseded
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return nil
}

// Current returns the latest generation issued on laneName.
func (t *Tracker) Current(laneName string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.lanes[laneName]; ok {
		return l.gen
	}
	return 0
}
