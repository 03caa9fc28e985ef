package engine

import (
	"context"
	"log"
	"sync"
)

// Response is a completed computation as seen by the event loop.
type Response struct {
	UCI string
	Err error
}

type result struct {
	gen int64
	uci string
	err error
}

// Bridge runs engine computations on a worker goroutine and hands results
// back through a single-slot mailbox that the event loop polls; the loop
// never blocks on the engine. At most one request is outstanding. Results
// are tagged with a request generation: a result whose generation no longer
// matches (superseded or cancelled request) is discarded silently.
type Bridge struct {
	eng    Engine
	limits Limits

	mu      sync.Mutex
	pending bool
	gen     int64
	cancel  context.CancelFunc

	slot chan result
}

// NewBridge wraps eng with the given default limits.
func NewBridge(eng Engine, limits Limits) *Bridge {
	return &Bridge{eng: eng, limits: limits, slot: make(chan result, 1)}
}

// Engine exposes the wrapped engine, e.g. for Close on shutdown.
func (b *Bridge) Engine() Engine {
	return b.eng
}

// Thinking reports whether a computation is in flight.
func (b *Bridge) Thinking() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Request starts a computation for the given position snapshot. Returns
// ErrBusy while a previous request is outstanding.
func (b *Bridge) Request(fen string, history []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending {
		return ErrBusy
	}
	b.gen++
	gen := b.gen
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.pending = true

	// Drop any stale result still sitting in the mailbox.
	select {
	case <-b.slot:
	default:
	}

	hist := make([]string, len(history))
	copy(hist, history)
	limits := b.limits

	go func() {
		defer cancel()
		uci, err := b.eng.BestMove(ctx, fen, hist, limits)
		b.mu.Lock()
		if gen == b.gen {
			b.pending = false
		}
		b.mu.Unlock()
		b.post(result{gen: gen, uci: uci, err: err})
	}()
	log.Printf("engine %s thinking", b.eng.Name())
	return nil
}

// post places a result in the mailbox. A stale occupant is evicted so the
// live result can never be lost to a full slot.
func (b *Bridge) post(res result) {
	for {
		select {
		case b.slot <- res:
			return
		default:
		}
		select {
		case <-b.slot:
		default:
		}
	}
}

// Poll retrieves a finished computation without blocking. Stale results are
// swallowed here; the caller only ever sees a response to its live request.
func (b *Bridge) Poll() (Response, bool) {
	select {
	case res := <-b.slot:
		b.mu.Lock()
		current := b.gen
		b.mu.Unlock()
		if res.gen != current {
			log.Printf("discarding stale engine result %q (gen %d != %d)", res.uci, res.gen, current)
			return Response{}, false
		}
		return Response{UCI: res.uci, Err: res.err}, true
	default:
		return Response{}, false
	}
}

// Cancel requests cooperative cancellation of the in-flight computation.
// The generation bump makes any late result provably discardable.
func (b *Bridge) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pending {
		return
	}
	b.gen++
	b.pending = false
	if b.cancel != nil {
		b.cancel()
	}
	log.Printf("engine %s cancelled", b.eng.Name())
}
