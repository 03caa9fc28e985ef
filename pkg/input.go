package pkg

import (
	"log"
	"math"

	"github.com/notnil/chess"
)

// InputState is the observable state of the reconciler.
type InputState int

const (
	StateIdle InputState = iota
	StateSelected
	StateDragging
)

// dragThreshold is the pointer distance (in pointer units) that turns a
// primed press into a drag. Small hand movement stays a click.
const dragThreshold = 2.0

// MoveMethod records how a move was entered; click moves get animated,
// drags already happened on screen.
type MoveMethod int

const (
	MethodClick MoveMethod = iota
	MethodDrag
)

// EventKind classifies what a pointer interaction produced.
type EventKind int

const (
	EventNone EventKind = iota
	EventSelected
	EventDeselected
	EventMoved
	EventRejected
	EventPremoveQueued
	EventPromotionPending
)

// InputEvent is the reconciler's answer to a pointer event. Report is
// meaningful for EventMoved, Premove for EventPremoveQueued.
type InputEvent struct {
	Kind    EventKind
	Square  chess.Square
	Report  MoveReport
	Premove Move
	Method  MoveMethod
}

type dragState struct {
	primed bool
	active bool
	from   chess.Square
	piece  chess.Piece
	startX float64
	startY float64
	x      float64
	y      float64
}

type pendingPromotion struct {
	active       bool
	from         chess.Square
	to           chess.Square
	premoveEntry bool
	method       MoveMethod
}

// Reconciler turns raw pointer events into selections, moves and premoves.
// During normal entry legality comes from the real position; during premove
// entry it comes from the projected position (real position plus queued
// premoves). Drag and click share one completion path, so they can never
// disagree about legality.
type Reconciler struct {
	game           *Game
	humanColor     chess.Color
	premoveEnabled bool

	state    InputState
	selected chess.Square
	dests    []Move
	// justSelected marks a selection made by the current press, so that
	// releasing on the origin square keeps it instead of toggling it off.
	justSelected bool

	drag    dragState
	queue   premoveQueue
	pending pendingPromotion
}

// NewReconciler builds an input reconciler for the given game. humanColor is
// the side whose premoves are accepted while the opponent is thinking.
func NewReconciler(game *Game, humanColor chess.Color, premoveEnabled bool) *Reconciler {
	return &Reconciler{
		game:           game,
		humanColor:     humanColor,
		premoveEnabled: premoveEnabled,
		selected:       chess.NoSquare,
	}
}

// SetGame rebinds the reconciler after a reset, load or navigation jump.
// All transient state is invalidated.
func (r *Reconciler) SetGame(game *Game) {
	r.game = game
	r.Reset()
}

// SetHumanColor applies a new side choice; any captured input is stale.
func (r *Reconciler) SetHumanColor(c chess.Color) {
	r.humanColor = c
	r.Reset()
}

func (r *Reconciler) SetPremoveEnabled(on bool) {
	r.premoveEnabled = on
	if !on {
		r.queue.clear()
	}
}

// State is the current machine state.
func (r *Reconciler) State() InputState {
	return r.state
}

// Selected returns the selected square, if any.
func (r *Reconciler) Selected() (chess.Square, bool) {
	if r.state == StateIdle {
		return chess.NoSquare, false
	}
	return r.selected, true
}

// Destinations are the cached legal target squares for the selection,
// computed against the reference position at selection time.
func (r *Reconciler) Destinations() []chess.Square {
	out := make([]chess.Square, 0, len(r.dests))
	for _, m := range r.dests {
		out = append(out, m.To)
	}
	return out
}

// Premoves returns the queued premoves in order.
func (r *Reconciler) Premoves() []Move {
	return r.queue.snapshot()
}

// HasPremove reports whether any premove is queued.
func (r *Reconciler) HasPremove() bool {
	return r.queue.len() > 0
}

// Drag reports the active drag, if any, with the current pointer position.
func (r *Reconciler) Drag() (from chess.Square, piece chess.Piece, x, y float64, ok bool) {
	if !r.drag.active {
		return chess.NoSquare, chess.NoPiece, 0, 0, false
	}
	return r.drag.from, r.drag.piece, r.drag.x, r.drag.y, true
}

// HiddenSquares is the read-only skip set the renderer applies while a drag
// is in flight. The position itself is never mutated for rendering.
func (r *Reconciler) HiddenSquares() map[chess.Square]bool {
	if !r.drag.active {
		return nil
	}
	return map[chess.Square]bool{r.drag.from: true}
}

// PromotionPending reports whether a promotion choice is being awaited.
func (r *Reconciler) PromotionPending() bool {
	return r.pending.active
}

// referencePosition is the position legality is computed against: the real
// one during normal entry, the projection during premove entry.
func (r *Reconciler) referencePosition(premoveEntry bool) *chess.Position {
	if premoveEntry {
		return projectedPosition(r.game, r.queue.moves, r.humanColor)
	}
	return r.game.positionCopy()
}

// PointerDown handles a press on square sq at pointer position (x, y).
// sq is NoSquare for presses outside the board, which cancel everything.
// premoveEntry is true while input is being captured for a side whose real
// turn has not arrived.
func (r *Reconciler) PointerDown(sq chess.Square, x, y float64, premoveEntry bool) InputEvent {
	if r.pending.active {
		return InputEvent{Kind: EventNone}
	}
	if premoveEntry && !r.premoveEnabled {
		return InputEvent{Kind: EventNone}
	}
	if sq == chess.NoSquare {
		r.Reset()
		return InputEvent{Kind: EventDeselected, Square: chess.NoSquare}
	}

	ref := r.referencePosition(premoveEntry)
	piece := ref.Board().Piece(sq)
	ownPiece := piece != chess.NoPiece && piece.Color() == ref.Turn()

	r.justSelected = false
	switch r.state {
	case StateIdle:
		if !ownPiece {
			return InputEvent{Kind: EventNone}
		}
		r.selectSquare(sq, ref, piece, x, y)
		r.justSelected = true
		return InputEvent{Kind: EventSelected, Square: sq}
	case StateSelected:
		if sq == r.selected {
			// Prime a drag; release on the same square toggles off.
			r.primeDrag(sq, piece, x, y)
			return InputEvent{Kind: EventNone, Square: sq}
		}
		if ownPiece {
			r.selectSquare(sq, ref, piece, x, y)
			r.justSelected = true
			return InputEvent{Kind: EventSelected, Square: sq}
		}
		// Empty or opponent square: completion happens on release so that
		// click and drag resolve through the same path.
		return InputEvent{Kind: EventNone, Square: sq}
	default:
		return InputEvent{Kind: EventNone}
	}
}

func (r *Reconciler) selectSquare(sq chess.Square, ref *chess.Position, piece chess.Piece, x, y float64) {
	r.state = StateSelected
	r.selected = sq
	r.dests = movesFrom(ref, sq)
	r.primeDrag(sq, piece, x, y)
	log.Printf("selected %s at %s, %d legal destinations", piece.String(), sq.String(), len(r.dests))
}

func (r *Reconciler) primeDrag(sq chess.Square, piece chess.Piece, x, y float64) {
	r.drag = dragState{primed: true, from: sq, piece: piece, startX: x, startY: y, x: x, y: y}
}

func movesFrom(pos *chess.Position, sq chess.Square) []Move {
	var out []Move
	for _, vm := range pos.ValidMoves() {
		if vm.S1() == sq {
			out = append(out, moveOf(vm))
		}
	}
	return out
}

// PointerMotion tracks the pointer. Once it travels past the drag threshold
// from a primed press the interaction becomes a drag; the destination set
// stays the one computed at selection, so drag and click share one source
// of truth for legality.
func (r *Reconciler) PointerMotion(x, y float64) InputEvent {
	if r.pending.active || !r.drag.primed {
		return InputEvent{Kind: EventNone}
	}
	r.drag.x, r.drag.y = x, y
	if !r.drag.active {
		dx := x - r.drag.startX
		dy := y - r.drag.startY
		if math.Sqrt(dx*dx+dy*dy) > dragThreshold {
			r.drag.active = true
			r.state = StateDragging
			log.Printf("dragging from %s", r.drag.from.String())
		}
	}
	return InputEvent{Kind: EventNone}
}

// PointerUp handles release on square sq. Completion is shared between the
// click and drag paths.
func (r *Reconciler) PointerUp(sq chess.Square, x, y float64, premoveEntry bool) InputEvent {
	if r.pending.active {
		return InputEvent{Kind: EventNone}
	}
	wasDragging := r.drag.active
	justSelected := r.justSelected
	r.drag = dragState{}
	r.justSelected = false

	if sq == chess.NoSquare {
		// Released outside the board.
		r.Reset()
		return InputEvent{Kind: EventDeselected, Square: chess.NoSquare}
	}
	if r.state == StateIdle {
		return InputEvent{Kind: EventNone}
	}

	method := MethodClick
	if wasDragging {
		method = MethodDrag
		r.state = StateSelected
	}

	if sq == r.selected {
		// Release on the origin square is never a move attempt.
		if justSelected || wasDragging {
			return InputEvent{Kind: EventNone, Square: sq}
		}
		r.clearSelection()
		return InputEvent{Kind: EventDeselected, Square: sq}
	}

	// Reselection of another own piece already happened on pointer-down;
	// anything else is a completion attempt.
	ref := r.referencePosition(premoveEntry)
	if p := ref.Board().Piece(sq); !wasDragging && p != chess.NoPiece && p.Color() == ref.Turn() {
		return InputEvent{Kind: EventNone, Square: sq}
	}
	return r.completeMove(r.selected, sq, premoveEntry, method)
}

// completeMove resolves a candidate (from, to) for both entry modes. A
// structural promotion without a chosen piece parks the interaction until
// ResolvePromotion or CancelPromotion; nothing is mutated meanwhile.
func (r *Reconciler) completeMove(from, to chess.Square, premoveEntry bool, method MoveMethod) InputEvent {
	ref := r.referencePosition(premoveEntry)
	if isPromotion(ref, from, to) {
		r.pending = pendingPromotion{active: true, from: from, to: to, premoveEntry: premoveEntry, method: method}
		return InputEvent{Kind: EventPromotionPending, Square: to, Method: method}
	}
	return r.submit(Move{From: from, To: to}, premoveEntry, method)
}

// ResolvePromotion supplies the promotion piece for a pending completion.
func (r *Reconciler) ResolvePromotion(kind chess.PieceType) InputEvent {
	if !r.pending.active {
		return InputEvent{Kind: EventNone}
	}
	p := r.pending
	r.pending = pendingPromotion{}
	return r.submit(Move{From: p.from, To: p.to, Promo: kind}, p.premoveEntry, p.method)
}

// CancelPromotion aborts a pending promotion choice without mutating
// anything; the selection is cleared.
func (r *Reconciler) CancelPromotion() InputEvent {
	if !r.pending.active {
		return InputEvent{Kind: EventNone}
	}
	r.pending = pendingPromotion{}
	r.clearSelection()
	return InputEvent{Kind: EventDeselected}
}

func (r *Reconciler) submit(m Move, premoveEntry bool, method MoveMethod) InputEvent {
	if premoveEntry {
		proj := projectedPosition(r.game, r.queue.moves, r.humanColor)
		if _, err := findValid(proj.ValidMoves(), m); err != nil {
			log.Printf("premove %s rejected: %v", m, err)
			r.clearSelection()
			return InputEvent{Kind: EventRejected, Square: m.To, Method: method}
		}
		r.queue.append(m)
		r.clearSelection()
		log.Printf("premove queued: %s (%d in queue)", m, r.queue.len())
		return InputEvent{Kind: EventPremoveQueued, Square: m.To, Premove: m, Method: method}
	}

	report, err := r.game.TryMove(m)
	if err != nil {
		log.Printf("illegal move %s: %v", m, err)
		r.clearSelection()
		return InputEvent{Kind: EventRejected, Square: m.To, Method: method}
	}
	r.clearSelection()
	return InputEvent{Kind: EventMoved, Square: m.To, Report: report, Method: method}
}

// DrainPremove attempts the queue head against the now-live position. At
// most one queued move is applied per call; the caller invokes it once per
// opponent move. A head that fails re-validation invalidates the whole
// queue, since the remaining moves were built on top of it.
func (r *Reconciler) DrainPremove() (MoveReport, bool) {
	head, ok := r.queue.head()
	if !ok {
		return MoveReport{}, false
	}
	report, err := r.game.TryMove(head)
	if err != nil {
		log.Printf("premove %s invalidated: %v; clearing queue", head, err)
		r.queue.clear()
		r.clearSelection()
		return MoveReport{}, false
	}
	r.queue.popHead()
	log.Printf("premove applied: %s", head)
	return report, true
}

func (r *Reconciler) clearSelection() {
	r.state = StateIdle
	r.selected = chess.NoSquare
	r.dests = nil
	r.drag = dragState{}
	r.justSelected = false
}

// SoftReset drops selection and drag state but keeps the premove queue.
// Used when the position changed underneath a live selection.
func (r *Reconciler) SoftReset() {
	r.clearSelection()
	r.pending = pendingPromotion{}
}

// Reset clears selection, drag state, pending promotion and the premove
// queue. Used for new game, load, navigation and clicks outside the board.
func (r *Reconciler) Reset() {
	r.SoftReset()
	r.queue.clear()
}
