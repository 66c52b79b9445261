// Package poller runs a cancellable repeating task that is never armed twice.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is how often generation progress is polled.
const DefaultInterval = 2 * time.Second

// Func is one poll. Returning done=true disarms the poller. A non-nil error
// is logged and polling continues.
type Func func(ctx context.Context) (done bool, err error)

// Poller owns at most one polling goroutine.
type Poller struct {
	logger zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a disarmed poller.
func New(logger zerolog.Logger) *Poller {
	return &Poller{
		logger: logger.With().Str("component", "poller").Logger(),
	}
}

// Start arms the poller: fn runs every interval until it reports done, ctx
// is cancelled or Stop is called. Start returns false without side effects
// when the poller is already armed.
func (p *Poller) Start(ctx context.Context, interval time.Duration, fn Func) bool {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	go p.run(ctx, interval, fn, done)

	p.logger.Debug().Dur("interval", interval).Msg("Poller armed")
	return true
}

func (p *Poller) run(ctx context.Context, interval time.Duration, fn Func, done chan struct{}) {
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		p.mu.Lock()
		if p.done == done {
			p.cancel()
			p.cancel, p.done = nil, nil
		}
		p.mu.Unlock()
		close(done)
		p.logger.Debug().Msg("Poller disarmed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			finished, err := fn(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn().Err(err).Msg("Poll failed")
				continue
			}
			if finished {
				return
			}
		}
	}
}

// Stop disarms the poller and waits for the polling goroutine to exit. It is
// safe to call at any time and more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Armed reports whether a polling goroutine is running.
func (p *Poller) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil
}

// Done returns a channel closed when the current run ends. When disarmed the
// channel is already closed.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}
