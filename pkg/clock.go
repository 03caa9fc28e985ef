package pkg

import (
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
)

// Clock tracks one side's remaining time. Elapsed time is derived from the
// wall clock at read time, so no ticker goroutine is needed; the event loop
// reads Remaining whenever it redraws.
type Clock struct {
	mu          sync.Mutex
	duration    time.Duration
	increment   time.Duration
	remaining   time.Duration
	lastStarted time.Time
	running     bool
}

func NewClock(duration, increment time.Duration) *Clock {
	return &Clock{
		duration:  duration,
		increment: increment,
		remaining: duration,
	}
}

func (cl *Clock) Start() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.running {
		cl.lastStarted = time.Now()
		cl.running = true
	}
}

// Stop freezes the clock and credits the increment for the completed move.
func (cl *Clock) Stop() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.running {
		cl.remaining -= time.Since(cl.lastStarted)
		cl.remaining += cl.increment
		cl.running = false
	}
}

// Pause freezes the clock without the move increment.
func (cl *Clock) Pause() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.running {
		cl.remaining -= time.Since(cl.lastStarted)
		cl.running = false
	}
}

func (cl *Clock) Running() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.running
}

func (cl *Clock) Remaining() time.Duration {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.running {
		return cl.remaining - time.Since(cl.lastStarted)
	}
	return cl.remaining
}

func (cl *Clock) Expired() bool {
	return cl.Remaining() <= 0
}

func (cl *Clock) Reset() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.remaining = cl.duration
	cl.running = false
}

// String renders the clock as m:ss, clamping at 0:00 once flagged.
func (cl *Clock) String() string {
	r := cl.Remaining()
	if r < 0 {
		r = 0
	}
	return fmt.Sprintf("%d:%02d", int(r.Minutes()), int(r.Seconds())%60)
}

// ClockPair orchestrates the two clocks for a timed game. A nil ClockPair
// means an untimed game; every method tolerates the nil receiver.
type ClockPair struct {
	white *Clock
	black *Clock
}

func NewClockPair(duration, increment time.Duration) *ClockPair {
	if duration <= 0 {
		return nil
	}
	return &ClockPair{
		white: NewClock(duration, increment),
		black: NewClock(duration, increment),
	}
}

func (cp *ClockPair) Clock(c chess.Color) *Clock {
	if cp == nil {
		return nil
	}
	if c == chess.White {
		return cp.white
	}
	return cp.black
}

// OnMoveApplied stops the mover's clock with increment and starts the clock
// of the side now to move.
func (cp *ClockPair) OnMoveApplied(sideToMove chess.Color) {
	if cp == nil {
		return
	}
	cp.Clock(sideToMove.Other()).Stop()
	cp.Clock(sideToMove).Start()
}

// Start begins timing for the side to move. Used when the first move of the
// game is pending rather than completed.
func (cp *ClockPair) Start(sideToMove chess.Color) {
	if cp == nil {
		return
	}
	cp.Clock(sideToMove).Start()
}

// Halt freezes both clocks without increments, for game end or undo.
func (cp *ClockPair) Halt() {
	if cp == nil {
		return
	}
	cp.white.Pause()
	cp.black.Pause()
}

func (cp *ClockPair) Reset() {
	if cp == nil {
		return
	}
	cp.white.Reset()
	cp.black.Reset()
}

// Expired reports the side that ran out of time, if any. When both read as
// expired the side whose clock is running flagged first.
func (cp *ClockPair) Expired() (chess.Color, bool) {
	if cp == nil {
		return chess.NoColor, false
	}
	if cp.white.Running() && cp.white.Expired() {
		return chess.White, true
	}
	if cp.black.Running() && cp.black.Expired() {
		return chess.Black, true
	}
	return chess.NoColor, false
}
