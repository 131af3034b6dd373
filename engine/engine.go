// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements board representation, move generation and
// position searching.
//
// Position (basic.go, position.go) uses:
//
//   * A 0x88 board and incrementally maintained Zobrist hash/lock pair.
//   * Piece lists per side for material and mobility bookkeeping.
//
// Search (search.go) features implemented are:
//
//   * Aspiration windows
//   * Check extension
//   * Fail soft
//   * Futility pruning
//   * History heuristic
//   * Killer move heuristic
//   * Late move reduction (LMR)
//   * Negamax framework
//   * Null move pruning (NMP)
//   * Principal variation search (PVS)
//   * Quiescence search
//   * Zobrist hashing with a caller-sized transposition table
//
// Move ordering (move_ordering.go) consists of a hash-move hint, MVV-LVA
// for captures, killer moves and the history heuristic for everything
// else.
//
// engine.go is the façade: it owns a Board and a Searcher, translates
// between the UI's row/column move and position encoding and the
// internal one, computes game-status codes, and optionally consults an
// opening book before falling back to search.
package engine

import (
	"context"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

const defaultTTSize = 4096

// Status is a game-status code, computed the same way after every move
// and queryable at any time.
type Status uint8

const (
	StatusNormal Status = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
	StatusDraw50
	StatusDrawRep
	StatusDrawMat
)

func (st Status) String() string {
	switch st {
	case StatusCheck:
		return "check"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	case StatusDraw50:
		return "draw_50"
	case StatusDrawRep:
		return "draw_rep"
	case StatusDrawMat:
		return "draw_mat"
	default:
		return "normal"
	}
}

// Book is the opening-book collaborator Think consults before running a
// search. The zero value isn't usable; NulBook is the always-miss default.
// Probe's result follows herohde/morlock's seekerror/stdlib convention of
// reporting "no value" with lang.Optional rather than a bare ok bool.
type Book interface {
	Probe(b *Board) lang.Optional[Move]
}

// BookInfo reports an opening book's readiness and size, for UI
// diagnostics; see Engine.BookInfo.
type BookInfo struct {
	Ready    bool
	Segments int
	Entries  int
}

// BookDiagnostics is satisfied by a Book that can additionally report
// BookInfo. Books that can't just leave Engine.BookInfo reporting the
// zero value.
type BookDiagnostics interface {
	Info() BookInfo
}

// NulBook never finds a book move, mirroring NulLogger's role as the
// zero-effort default collaborator.
type NulBook struct{}

// Probe always misses.
func (NulBook) Probe(b *Board) lang.Optional[Move] { return lang.Optional[Move]{} }

// Info reports a book that was never loaded.
func (NulBook) Info() BookInfo { return BookInfo{} }

// Logger receives one line of narration per completed iterative-deepening
// depth: current depth, score, node count and principal move. The zero
// value isn't usable; NulLogger is the default no-op collaborator, and
// LogwLogger (logger.go) adapts github.com/seekerror/logw for callers that
// want the search narrated through their own structured logging.
type Logger interface {
	Infof(format string, args ...interface{})
}

// NulLogger discards every message, the same role NulBook plays for the
// opening book.
type NulLogger struct{}

// Infof does nothing.
func (NulLogger) Infof(format string, args ...interface{}) {}

// Config holds the façade's fixed-strength and sizing knobs, settable up
// front or mutated between moves with the Set* methods.
type Config struct {
	TTSize       int          // transposition table size in entries, rounded up to a power of two
	MaxNodes     uint64       // 0 = unbounded
	UseBook      bool         // consult Book before searching
	BookMaxPly   int          // 0 = unlimited; book is only consulted up to this fullmove number
	EvalNoise    int32        // max +/- centipawn root-score noise, 0 = off
	MoveVariance int32        // cp threshold for randomized root move choice, 0 = off
	TimeFunc     func() uint32 // caller's monotonic millisecond clock; nil disables time-based stopping
	Logger       Logger       // search narration sink; nil falls back to NulLogger
}

// UIPosition is the 8x8 signed-grid position encoding described by the
// façade's external interface: row 0 is rank 8, row 7 is rank 1, piece
// codes are 1..6 for white pawn..king and negative for black.
type UIPosition struct {
	Board       [8][8]int8
	WhiteToMove bool
	Castling    Castle
	EPRow       int // -1 when there is no en-passant target
	EPCol       int
	Halfmove    uint8
	Fullmove    uint16
}

// UIMove is the façade's row/column move encoding, sharing the internal
// move's flag bits.
type UIMove struct {
	FromRow, FromCol int
	ToRow, ToCol     int
	Flags            MoveFlags
}

// uiMoveNone is returned wherever the C original returns a move with
// from_row == ENGINE_SQ_NONE: no move was found.
var uiMoveNone = UIMove{FromRow: -1}

// MoveEffects describes the side effects of a move that the UI must
// animate but that aren't visible from the from/to squares alone: the
// rook's travel on castling, and the captured pawn's square on en
// passant. Computed before the move is made.
type MoveEffects struct {
	HasRookMove              bool
	RookFromRow, RookFromCol int
	RookToRow, RookToCol     int
	HasEPCapture             bool
	EPCaptureRow, EPCaptureCol int
}

// BenchResult reports the node count and depth reached by a fixed-limit
// benchmarking search.
type BenchResult struct {
	Nodes uint64
	Depth int8
}

// SearchContext adapts a context.Context into the single polled time
// function search.go expects, so callers that prefer Go's cancellation
// idiom over a deadline baked into MaxTimeMS can cancel a running Think
// call exactly like they'd cancel any other blocking call. search.go
// itself knows nothing about context.Context; this is purely a TimeFunc
// that checks ctx.Done() before falling through to the underlying clock.
// search.go polls its TimeFunc only while a time deadline is set, so a
// cancelled ctx stops a Think call only when maxTimeMS is non-zero.
type SearchContext struct {
	ctx  context.Context
	base func() uint32
}

// NewSearchContext builds a SearchContext from a cancellable context and
// the façade's configured time source (which may be nil).
func NewSearchContext(ctx context.Context, base func() uint32) *SearchContext {
	return &SearchContext{ctx: ctx, base: base}
}

// Now reports a timestamp far in the future once ctx is done, so the
// next 256-node poll inside search.go observes a blown deadline (that
// poll runs only when the search has a time deadline); until then it
// defers to base.
func (sc *SearchContext) Now() uint32 {
	if contextx.IsCancelled(sc.ctx) {
		return ^uint32(0)
	}
	if sc.base != nil {
		return sc.base()
	}
	return 0
}

// Engine ties a Board and a Searcher together behind the UI-facing API:
// position I/O, legal move enumeration, move application with status
// reporting, and search.
type Engine struct {
	board    *Board
	searcher *Searcher
	book     Book
	config   Config

	lastWasBook bool
	inSearch    bool
}

// NewEngine builds an Engine at the starting position. A zero Config.TTSize
// falls back to defaultTTSize; a nil book falls back to NulBook.
func NewEngine(config Config, book Book) *Engine {
	if config.TTSize <= 0 {
		config.TTSize = defaultTTSize
	}
	if book == nil {
		book = NulBook{}
	}
	e := &Engine{
		board:    NewBoard(),
		searcher: NewSearcher(config.TTSize),
		book:     book,
		config:   config,
	}
	e.board.SetStartpos()
	e.searcher.PushHistory(e.board.Hash())
	return e
}

// NewGame resets search state and the board to the starting position.
func (e *Engine) NewGame() {
	e.searcher.Reset()
	e.board.SetStartpos()
	e.searcher.PushHistory(e.board.Hash())
}

// SetPosition replaces the current position and clears repetition
// history, since a freshly set position has no game leading up to it.
func (e *Engine) SetPosition(pos UIPosition) {
	e.board.SetFromUI(pos.Board, pos.WhiteToMove, pos.Castling, pos.EPRow, pos.EPCol, pos.Halfmove, pos.Fullmove)
	e.searcher.ClearHistory()
	e.searcher.PushHistory(e.board.Hash())
}

// GetPosition reads the current position back out in the UI encoding.
func (e *Engine) GetPosition() UIPosition {
	var out UIPosition
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			out.Board[r][f] = pieceToUI(e.board.PieceAt(RC(7-r, f)))
		}
	}
	out.WhiteToMove = e.board.Side() == White
	out.Castling = e.board.Castling()
	if ep := e.board.EPSquare(); ep != SquareNone {
		out.EPRow = 7 - ep.Row()
		out.EPCol = ep.File()
	} else {
		out.EPRow, out.EPCol = -1, -1
	}
	out.Halfmove = e.board.Halfmove()
	out.Fullmove = e.board.Fullmove()
	return out
}

func pieceToUI(p Piece) int8 {
	if p == NoPiece || p == PieceOffBoard {
		return 0
	}
	v := int8(p.Type())
	if p.Color() == Black {
		v = -v
	}
	return v
}

func uiToMove(um UIMove) Move {
	return Move{From: RC(7-um.FromRow, um.FromCol), To: RC(7-um.ToRow, um.ToCol), Flags: um.Flags}
}

func moveToUI(m Move) UIMove {
	return UIMove{
		FromRow: 7 - m.From.Row(), FromCol: m.From.File(),
		ToRow: 7 - m.To.Row(), ToCol: m.To.File(),
		Flags: m.Flags,
	}
}

// GetMovesFrom enumerates the legal moves starting at one square,
// generating pseudo-legal candidates and filtering with a real
// make/WasLegal/unmake probe.
func (e *Engine) GetMovesFrom(row, col int) []UIMove {
	from := RC(7-row, col)
	var buf [MaxMoves]Move
	return e.filterLegal(e.board.AppendMovesFrom(buf[:0], from))
}

// GetAllMoves enumerates every legal move for the side to move.
func (e *Engine) GetAllMoves() []UIMove {
	var buf [MaxMoves]Move
	return e.filterLegal(e.board.AppendMoves(buf[:0], GenAll))
}

func (e *Engine) filterLegal(moves []Move) []UIMove {
	out := make([]UIMove, 0, len(moves))
	for _, m := range moves {
		u := e.board.Make(m)
		legal := e.board.WasLegal()
		e.board.Unmake(m, u)
		if legal {
			out = append(out, moveToUI(m))
		}
	}
	return out
}

// findGenerated locates the pseudo-legal move generate_moves_from would
// produce matching target's from/to/promotion-kind, the way the C
// original re-derives full move flags (capture, en passant, castle, ...)
// from a bare UI move before making or legality-testing it.
func (e *Engine) findGenerated(target Move) (Move, bool) {
	var buf [MaxMoves]Move
	moves := e.board.AppendMovesFrom(buf[:0], target.From)
	for _, m := range moves {
		if m.To != target.To {
			continue
		}
		if (m.Flags&FlagPromotion) != (target.Flags&FlagPromotion) {
			continue
		}
		if m.Flags&FlagPromotion != 0 && (m.Flags&FlagPromoMask) != (target.Flags&FlagPromoMask) {
			continue
		}
		return m, true
	}
	return Move{}, false
}

// IsLegalMove reports whether um names a legal move in the current
// position.
func (e *Engine) IsLegalMove(um UIMove) bool {
	m, ok := e.findGenerated(uiToMove(um))
	if !ok {
		return false
	}
	u := e.board.Make(m)
	legal := e.board.WasLegal()
	e.board.Unmake(m, u)
	return legal
}

// MoveEffects computes um's side effects before it is made, so a UI can
// animate a castling rook or a captured en-passant pawn alongside the
// named move.
func (e *Engine) MoveEffects(um UIMove) MoveEffects {
	var fx MoveEffects
	if um.Flags&FlagCastle != 0 {
		fx.HasRookMove = true
		fx.RookFromRow = um.FromRow
		fx.RookToRow = um.FromRow
		if um.ToCol > um.FromCol {
			fx.RookFromCol, fx.RookToCol = 7, 5
		} else {
			fx.RookFromCol, fx.RookToCol = 0, 3
		}
	}
	if um.Flags&FlagEnPassant != 0 {
		fx.HasEPCapture = true
		fx.EPCaptureRow = um.FromRow
		fx.EPCaptureCol = um.ToCol
	}
	return fx
}

// MakeMove plays um if it names a legal move, updates repetition
// history, and returns the resulting game status. If um doesn't match
// any legal move, the board is left untouched and StatusNormal is
// returned, mirroring the C original's "shouldn't happen" fallback for
// invalid UI input.
func (e *Engine) MakeMove(um UIMove) Status {
	m, ok := e.findGenerated(uiToMove(um))
	if !ok {
		return StatusNormal
	}

	movedType := e.board.PieceAt(m.From).Type()
	u := e.board.Make(m)
	if !e.board.WasLegal() {
		e.board.Unmake(m, u)
		return StatusNormal
	}

	if movedType == Pawn || m.Flags&FlagCapture != 0 {
		e.searcher.SetIrreversible()
	}
	e.searcher.PushHistory(e.board.Hash())
	return e.computeStatus()
}

func isInsufficientMaterial(b *Board) bool {
	wc, bc := b.PieceCount(White), b.PieceCount(Black)
	if wc == 1 && bc == 1 {
		return true
	}
	if wc == 1 && bc == 2 {
		return hasOnlyMinor(b, Black)
	}
	if wc == 2 && bc == 1 {
		return hasOnlyMinor(b, White)
	}
	return false
}

func hasOnlyMinor(b *Board, side Color) bool {
	for _, sq := range b.PieceSquares(side) {
		switch b.PieceAt(sq).Type() {
		case Knight, Bishop:
			return true
		}
	}
	return false
}

// computeStatus mirrors compute_status: 50-move and insufficient-material
// draws first (cheap, no move generation needed), then repetition
// (supplemented: the original checked this only implicitly through
// search, the façade exposes it directly), then checkmate/stalemate/
// check/normal from a full legal-move scan.
func (e *Engine) computeStatus() Status {
	b := e.board
	if b.Halfmove() >= 100 {
		return StatusDraw50
	}
	if isInsufficientMaterial(b) {
		return StatusDrawMat
	}
	if e.searcher.isRepetition(b.Hash()) {
		return StatusDrawRep
	}

	inCheck := b.IsAttacked(b.KingSquare(b.Side()), b.Side().Opposite())

	var buf [MaxMoves]Move
	moves := b.AppendMoves(buf[:0], GenAll)
	hasLegal := false
	for _, m := range moves {
		u := b.Make(m)
		legal := b.WasLegal()
		b.Unmake(m, u)
		if legal {
			hasLegal = true
			break
		}
	}

	if !hasLegal {
		if inCheck {
			return StatusCheckmate
		}
		return StatusStalemate
	}
	if inCheck {
		return StatusCheck
	}
	return StatusNormal
}

// GetStatus recomputes the status of the current position without
// making a move.
func (e *Engine) GetStatus() Status {
	return e.computeStatus()
}

// InCheck reports whether the side to move is in check.
func (e *Engine) InCheck() bool {
	b := e.board
	return b.IsAttacked(b.KingSquare(b.Side()), b.Side().Opposite())
}

// SetMaxNodes bounds Think/Bench to at most n nodes; 0 removes the bound.
func (e *Engine) SetMaxNodes(n uint64) { e.config.MaxNodes = n }

// SetUseBook toggles whether Think consults the opening book.
func (e *Engine) SetUseBook(enabled bool) { e.config.UseBook = enabled }

// SetBookMaxPly restricts book use to at most the given fullmove number;
// 0 means unlimited.
func (e *Engine) SetBookMaxPly(ply int) { e.config.BookMaxPly = ply }

// SetEvalNoise sets the root-score noise amplitude used for
// weaker-than-maximum play.
func (e *Engine) SetEvalNoise(n int32) { e.config.EvalNoise = n }

// SetMoveVariance sets the centipawn threshold within which Think may
// pick a random near-best root move instead of the single best one.
func (e *Engine) SetMoveVariance(cp int32) { e.config.MoveVariance = cp }

// SetLogger sets the sink search narration is written to; nil restores
// NulLogger.
func (e *Engine) SetLogger(l Logger) { e.config.Logger = l }

func (e *Engine) bookMove() (Move, bool) {
	if !e.config.UseBook {
		return Move{}, false
	}
	if e.config.BookMaxPly != 0 && int(e.board.Fullmove()) > e.config.BookMaxPly {
		return Move{}, false
	}
	return e.book.Probe(e.board).V()
}

func (e *Engine) think(timeFunc func() uint32, maxDepth int8, maxTimeMS uint32) UIMove {
	if e.inSearch {
		return uiMoveNone
	}
	e.inSearch = true
	defer func() { e.inSearch = false }()

	if m, ok := e.bookMove(); ok {
		e.lastWasBook = true
		return moveToUI(m)
	}
	e.lastWasBook = false

	limits := Limits{
		MaxDepth:     maxDepth,
		MaxTimeMS:    maxTimeMS,
		MaxNodes:     e.config.MaxNodes,
		TimeFunc:     timeFunc,
		EvalNoise:    e.config.EvalNoise,
		MoveVariance: e.config.MoveVariance,
		Logger:       e.config.Logger,
	}
	result := e.searcher.Go(e.board, limits)
	if result.BestMove.IsZero() {
		return uiMoveNone
	}
	return moveToUI(result.BestMove)
}

// Think returns the engine's chosen move for the current position,
// trying the opening book first when enabled and falling back to search
// bounded by maxDepth and maxTimeMS (either may be 0 for "no limit" on
// that dimension, but not both when MaxNodes is also 0).
func (e *Engine) Think(maxDepth int8, maxTimeMS uint32) UIMove {
	return e.think(e.config.TimeFunc, maxDepth, maxTimeMS)
}

// ThinkContext is Think with additional cancellation via ctx, for
// callers that host Think on its own goroutine and want Go's standard
// cancellation idiom rather than only a millisecond deadline.
// Cancellation takes effect only when maxTimeMS is non-zero: without a
// time budget the search never polls its clock and runs to maxDepth.
func (e *Engine) ThinkContext(ctx context.Context, maxDepth int8, maxTimeMS uint32) UIMove {
	sc := NewSearchContext(ctx, e.config.TimeFunc)
	return e.think(sc.Now, maxDepth, maxTimeMS)
}

// Bench runs a search to the given limits purely for node/depth
// measurement: no node limit, no eval noise, no move variance, book
// bypassed entirely.
func (e *Engine) Bench(maxDepth int8, maxTimeMS uint32) BenchResult {
	limits := Limits{
		MaxDepth:  maxDepth,
		MaxTimeMS: maxTimeMS,
		TimeFunc:  e.config.TimeFunc,
	}
	result := e.searcher.Go(e.board, limits)
	return BenchResult{Nodes: result.Nodes, Depth: result.Depth}
}

// BookInfo reports the configured book's readiness and size, or the
// zero value if it doesn't implement BookDiagnostics.
func (e *Engine) BookInfo() BookInfo {
	if bd, ok := e.book.(BookDiagnostics); ok {
		return bd.Info()
	}
	return BookInfo{}
}

// LastMoveWasBook reports whether the most recent Think/ThinkContext
// call returned a book move rather than a searched one.
func (e *Engine) LastMoveWasBook() bool {
	return e.lastWasBook
}

// Cleanup releases any resources the configured book holds, for books
// that implement io.Closer-style cleanup; NulBook has none.
func (e *Engine) Cleanup() {
	if c, ok := e.book.(interface{ Close() error }); ok {
		c.Close()
	}
}
