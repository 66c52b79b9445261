package services

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/TFMV/querylab/pkg/errors"
)

// inflight keeps at most one outstanding request per action. Beginning a
// request cancels the previous one for the same action with ErrSuperseded
// as the cause.
type inflight struct {
	mu    sync.Mutex
	seq   uint64
	slots map[string]inflightSlot
}

type inflightSlot struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

func newInflight() *inflight {
	return &inflight{slots: make(map[string]inflightSlot)}
}

// begin registers a request for action and returns its context and the
// function that releases it.
func (f *inflight) begin(ctx context.Context, action string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)

	f.mu.Lock()
	if prev, ok := f.slots[action]; ok {
		prev.cancel(errors.ErrSuperseded)
	}
	f.seq++
	seq := f.seq
	f.slots[action] = inflightSlot{seq: seq, cancel: cancel}
	f.mu.Unlock()

	return ctx, func() {
		f.mu.Lock()
		if cur, ok := f.slots[action]; ok && cur.seq == seq {
			delete(f.slots, action)
		}
		f.mu.Unlock()
		cancel(nil)
	}
}

// superseded reports whether ctx was cancelled by a newer request.
func superseded(ctx context.Context) bool {
	return stderrors.Is(context.Cause(ctx), errors.ErrSuperseded)
}
