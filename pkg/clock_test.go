package pkg

import (
	"testing"
	"time"

	"github.com/notnil/chess"
)

func TestClockRunsOnlyWhileStarted(t *testing.T) {
	cl := NewClock(time.Second, 0)
	if cl.Running() {
		t.Fatal("fresh clock must not run")
	}
	before := cl.Remaining()

	cl.Start()
	time.Sleep(30 * time.Millisecond)
	cl.Pause()
	paused := cl.Remaining()
	if paused >= before {
		t.Fatalf("running clock did not lose time: %v -> %v", before, paused)
	}

	time.Sleep(30 * time.Millisecond)
	if got := cl.Remaining(); got != paused {
		t.Fatalf("paused clock lost time: %v -> %v", paused, got)
	}
}

func TestClockStopCreditsIncrement(t *testing.T) {
	cl := NewClock(time.Second, 200*time.Millisecond)
	cl.Start()
	time.Sleep(10 * time.Millisecond)
	cl.Stop()
	if got := cl.Remaining(); got <= time.Second {
		t.Fatalf("expected increment to push remaining above the base, got %v", got)
	}
}

func TestClockExpiry(t *testing.T) {
	cl := NewClock(20*time.Millisecond, 0)
	cl.Start()
	time.Sleep(40 * time.Millisecond)
	if !cl.Expired() {
		t.Fatalf("expected expiry, remaining %v", cl.Remaining())
	}
	if got := cl.String(); got != "0:00" {
		t.Fatalf("expired clock renders 0:00, got %q", got)
	}
}

func TestClockString(t *testing.T) {
	cl := NewClock(10*time.Minute, 0)
	if got := cl.String(); got != "10:00" {
		t.Fatalf("expected 10:00, got %q", got)
	}
}

func TestClockPairSwitchesOnMove(t *testing.T) {
	cp := NewClockPair(time.Minute, 0)
	cp.Start(chess.White)
	if !cp.Clock(chess.White).Running() || cp.Clock(chess.Black).Running() {
		t.Fatal("only the side to move runs")
	}

	// White moved; Black is now to move.
	cp.OnMoveApplied(chess.Black)
	if cp.Clock(chess.White).Running() || !cp.Clock(chess.Black).Running() {
		t.Fatal("clocks did not switch after the move")
	}

	cp.Halt()
	if cp.Clock(chess.White).Running() || cp.Clock(chess.Black).Running() {
		t.Fatal("halt must stop both clocks")
	}
}

func TestClockPairExpiredSide(t *testing.T) {
	cp := NewClockPair(20*time.Millisecond, 0)
	cp.Start(chess.Black)
	time.Sleep(40 * time.Millisecond)
	side, ok := cp.Expired()
	if !ok || side != chess.Black {
		t.Fatalf("expected Black flagged, got %v %v", side, ok)
	}
}

func TestNilClockPairIsUntimed(t *testing.T) {
	cp := NewClockPair(0, 0)
	if cp != nil {
		t.Fatal("zero duration means untimed, expected nil pair")
	}
	// Every method tolerates the nil receiver.
	cp.Start(chess.White)
	cp.OnMoveApplied(chess.Black)
	cp.Halt()
	cp.Reset()
	if _, ok := cp.Expired(); ok {
		t.Fatal("untimed game never expires")
	}
	if cp.Clock(chess.White) != nil {
		t.Fatal("untimed pair has no clocks")
	}
}
