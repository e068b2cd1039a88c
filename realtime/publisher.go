package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/comalice/combograph"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// Step is one actor's matched or rejected advance within a tick.
type Step struct {
	Tick   uint64
	Actor  uuid.UUID
	Result combograph.Result
}

// Publisher receives steps from the tick goroutine. Publish must not block.
type Publisher interface {
	Publish(ctx context.Context, s Step) error
	Close() error
}

// ChannelPublisher forwards steps to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	// mu orders Publish against Close so nothing is sent on a closed channel.
	mu      sync.RWMutex
	closed  bool
	ch      chan<- Step
	dropped atomic.Uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- Step) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, s Step) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.ch <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		return nil
	}
}

// Dropped returns how many steps were discarded because the channel was full.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the output channel. Safe to call more than once.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
