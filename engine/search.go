// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// search.go implements iterative-deepening negamax with a quiescence
// leaf search, over the move pool, transposition table, and ordering
// state a Searcher owns. One Searcher belongs to exactly one Engine; two
// Engines never share a move pool, TT, or killer/history table.

package engine

const (
	maxGamePly       = 256
	maxRootCandidates = 16
	qsMaxDepth       = 8
)

// Limits bounds one Go call: any zero field is "no limit" for that
// dimension, except that all three being zero collapses to a one-ply
// search (there must be some stopping condition).
type Limits struct {
	MaxDepth     int8
	MaxTimeMS    uint32
	MaxNodes     uint64
	TimeFunc     func() uint32
	EvalNoise    int32 // max +/- centipawn noise added to root scores, 0 = off
	MoveVariance int32 // cp threshold for randomized root move choice, 0 = off
	Logger       Logger // narration sink for completed iterations; nil = NulLogger
}

// Result is what one iterative-deepening run produced.
type Result struct {
	BestMove Move
	Score    int32
	Depth    int8
	Nodes    uint64
}

// Searcher holds everything negamax/quiescence mutate across a tree walk:
// the shared move pool (SoA, stack-disciplined across plies since search
// is depth-first), the transposition table, move-ordering state, the
// repetition history, and the root-move bookkeeping iterative deepening
// needs for aspiration windows and move-variance selection.
type Searcher struct {
	tt        *HashTable
	pawnCache *pawnCache

	killers killerTable
	history historyTable

	posHistory             [maxGamePly]uint64
	posHistoryCount        int
	posHistoryIrreversible int

	pool       []Move
	poolScores []int32
	sp         int

	nodes        uint64
	stopped      bool
	deadline     uint32
	maxNodes     uint64
	nodeDeadline uint64
	timeFunc     func() uint32
	logger       Logger

	bestRootMove Move
	evalNoise    int32
	moveVariance int32
	rngState     uint32

	rootMoves        [maxRootCandidates]Move
	rootScores       [maxRootCandidates]int32
	rootCount        int
	rootMovesPending [maxRootCandidates]Move
	rootScoresPending [maxRootCandidates]int32
	rootCountPending int
}

// NewSearcher allocates a Searcher with a transposition table of at least
// ttSize entries (rounded up to a power of two).
func NewSearcher(ttSize int) *Searcher {
	return &Searcher{
		tt:         NewHashTable(ttSize),
		pawnCache:  &pawnCache{},
		pool:       make([]Move, movePoolSize),
		poolScores: make([]int32, movePoolSize),
	}
}

// Reset clears the transposition table, killer/history tables, repetition
// history and move pool, as if the Searcher were newly allocated.
func (s *Searcher) Reset() {
	s.tt.Clear()
	s.ClearHistory()
	s.sp = 0
	s.killers = killerTable{}
	s.history = historyTable{}
}

// PushHistory records hash as the position reached after the move most
// recently played, for repetition detection. The façade calls this for
// moves made outside search; search calls it for moves made during the
// tree walk.
func (s *Searcher) PushHistory(hash uint64) {
	if s.posHistoryCount < maxGamePly {
		s.posHistory[s.posHistoryCount] = hash
		s.posHistoryCount++
	}
}

// PopHistory undoes the most recent PushHistory.
func (s *Searcher) PopHistory() {
	if s.posHistoryCount > 0 {
		s.posHistoryCount--
	}
}

// ClearHistory empties the repetition history entirely.
func (s *Searcher) ClearHistory() {
	s.posHistoryCount = 0
	s.posHistoryIrreversible = 0
}

// SetIrreversible marks the current history length as the point before
// which no repetition can be claimed, called after an irreversible move
// (capture or pawn move).
func (s *Searcher) SetIrreversible() {
	s.posHistoryIrreversible = s.posHistoryCount
}

func (s *Searcher) isRepetition(hash uint64) bool {
	if s.posHistoryCount < 3 {
		return false
	}
	for i := s.posHistoryCount - 3; i >= s.posHistoryIrreversible; i -= 2 {
		if s.posHistory[i] == hash {
			return true
		}
	}
	return false
}

// RootCandidates returns the moves and scores gathered by the most
// recently completed Go iteration, for the random move-variance pick
// described in the façade's weaker-play mode.
func (s *Searcher) RootCandidates() ([]Move, []int32) {
	return s.rootMoves[:s.rootCount], s.rootScores[:s.rootCount]
}

// Nodes returns the node count from the most recent Go call.
func (s *Searcher) Nodes() uint64 { return s.nodes }

func (s *Searcher) checkTime() {
	if s.timeFunc != nil && s.deadline != 0 {
		if s.nodes&255 == 0 {
			if s.timeFunc() >= s.deadline {
				s.stopped = true
			}
		}
	}
	if s.maxNodes != 0 && s.nodes >= s.maxNodes {
		s.stopped = true
	}
	if s.nodeDeadline != 0 && s.nodes >= s.nodeDeadline {
		s.stopped = true
	}
}

func (s *Searcher) randNoise() int32 {
	x := s.rngState
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.rngState = x
	if s.evalNoise == 0 {
		return 0
	}
	return int32(x%uint32(2*s.evalNoise+1)) - s.evalNoise
}

// quiescence extends the search along captures (and, while in check,
// every evasion) until the position is quiet, bounding the horizon
// effect that would otherwise make negamax misjudge tactical lines cut
// off mid-exchange.
func (s *Searcher) quiescence(b *Board, alpha, beta int32, ply, qsDepth int) int32 {
	if s.stopped {
		return 0
	}
	s.nodes++
	s.checkTime()
	if s.stopped {
		return 0
	}

	if ply >= MaxPly || qsDepth >= qsMaxDepth {
		return Evaluate(b, s.pawnCache)
	}

	li := computeLegalInfo(b)

	if li.inCheck {
		legalFound := false
		base := s.sp
		if base+MaxMoves > movePoolSize {
			return Evaluate(b, s.pawnCache)
		}
		moves := b.AppendMoves(s.pool[base:base], GenAll)
		count := len(moves)
		scores := s.poolScores[base : base+count]
		s.sp = base + count
		scoreMoves(b, moves, scores, ply, NoMove, &s.killers, &s.history)

		alphaOrig := alpha
		for i := 0; i < count; i++ {
			pickMove(moves, scores, i)
			m := moves[i]
			if !isEvasionCandidate(b, &li, m) {
				continue
			}
			u := b.Make(m)
			if !b.WasLegal() {
				b.Unmake(m, u)
				continue
			}
			legalFound = true
			score := -s.quiescence(b, -beta, -alphaOrig, ply+1, qsDepth+1)
			b.Unmake(m, u)

			if s.stopped {
				s.sp = base
				return 0
			}
			if score > alphaOrig {
				alphaOrig = score
				if alphaOrig >= beta {
					s.sp = base
					return beta
				}
			}
		}

		s.sp = base
		if !legalFound {
			return -ScoreMate + int32(ply)
		}
		return alphaOrig
	}

	standPat := Evaluate(b, s.pawnCache)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if standPat+1100 < alpha {
		return alpha
	}

	base := s.sp
	if base+MaxMoves > movePoolSize {
		return alpha
	}
	moves := b.AppendMoves(s.pool[base:base], GenCaptures)
	count := len(moves)
	scores := s.poolScores[base : base+count]
	s.sp = base + count
	scoreCaptureMoves(b, moves, scores)

	for i := 0; i < count; i++ {
		pickMove(moves, scores, i)
		m := moves[i]
		needCheck := moveNeedsLegalityCheck(b, &li, m)
		u := b.Make(m)
		if needCheck && !b.WasLegal() {
			b.Unmake(m, u)
			continue
		}
		score := -s.quiescence(b, -beta, -alpha, ply+1, qsDepth+1)
		b.Unmake(m, u)

		if s.stopped {
			s.sp = base
			return 0
		}
		if score > alpha {
			alpha = score
			if alpha >= beta {
				s.sp = base
				return beta
			}
		}
	}

	s.sp = base
	return alpha
}

// negamax is alpha-beta with a transposition table, null-move pruning,
// futility pruning, PVS with late-move reductions, and a check/pin fast
// path (computeLegalInfo/moveNeedsLegalityCheck/isEvasionCandidate) that
// avoids a full make-then-test-for-check probe on most moves.
func (s *Searcher) negamax(b *Board, depth int8, alpha, beta int32, ply int, doNull bool, ext int) int32 {
	if s.stopped {
		return 0
	}
	s.nodes++
	s.checkTime()
	if s.stopped {
		return 0
	}

	if ply > 0 && (s.isRepetition(b.hash) || b.halfmove >= 100) {
		return ScoreDraw
	}

	if depth <= 0 {
		return s.quiescence(b, alpha, beta, ply, 0)
	}
	if ply >= MaxPly {
		return Evaluate(b, s.pawnCache)
	}

	ttMove := NoMove
	if ttScore, move, ttDepth, bound, ok := s.tt.Probe(b.hash, b.lock); ok {
		if ttScore > ScoreMate-MaxPly {
			ttScore -= int32(ply)
		} else if ttScore < -ScoreMate+MaxPly {
			ttScore += int32(ply)
		}
		if int32(ttDepth) >= int32(depth) {
			switch bound {
			case ttExact:
				return ttScore
			case ttBeta:
				if ttScore >= beta {
					return beta
				}
			case ttAlpha:
				if ttScore <= alpha {
					return alpha
				}
			}
		}
		if !move.IsZero() {
			ttMove = move
		}
	}

	li := computeLegalInfo(b)
	inCheck := li.inCheck

	if inCheck && ext < 2 {
		depth++
		ext++
	}

	canFutility := false
	if !inCheck && depth <= 2 && ply > 0 {
		margin := int32(200)
		if depth != 1 {
			margin = 500
		}
		if Evaluate(b, s.pawnCache)+margin <= alpha {
			canFutility = true
		}
	}

	if doNull && !inCheck && depth >= 3 && ply > 0 {
		hasPieces := false
		for _, sq := range b.PieceSquares(b.side) {
			if t := b.PieceAt(sq).Type(); t != Pawn && t != King {
				hasPieces = true
				break
			}
		}
		if hasPieces {
			u := b.MakeNull()
			s.PushHistory(b.hash)
			score := -s.negamax(b, depth-1-2, -beta, -beta+1, ply+1, false, ext)
			s.PopHistory()
			b.UnmakeNull(u)
			if s.stopped {
				return 0
			}
			if score >= beta {
				return beta
			}
		}
	}

	bestScore := -ScoreInfinity
	bestFlag := ttAlpha
	bestMove := NoMove
	legalMoves := 0
	cutoff := false

	for stage := 0; stage < 2 && !cutoff; stage++ {
		mode := GenCaptures
		if stage == 1 {
			mode = GenQuiets
		}

		base := s.sp
		if base+MaxMoves > movePoolSize {
			return Evaluate(b, s.pawnCache)
		}
		moves := b.AppendMoves(s.pool[base:base], mode)
		count := len(moves)
		scores := s.poolScores[base : base+count]
		s.sp = base + count
		scoreMoves(b, moves, scores, ply, ttMove, &s.killers, &s.history)

		for i := 0; i < count; i++ {
			pickMove(moves, scores, i)
			m := moves[i]
			if !isEvasionCandidate(b, &li, m) {
				continue
			}
			if canFutility && legalMoves > 0 && m.Flags&(FlagCapture|FlagPromotion) == 0 {
				continue
			}

			needCheck := moveNeedsLegalityCheck(b, &li, m)
			u := b.Make(m)
			if needCheck && !b.WasLegal() {
				b.Unmake(m, u)
				continue
			}
			legalMoves++

			if ply == 0 && s.bestRootMove.IsZero() {
				s.bestRootMove = m
			}

			s.PushHistory(b.hash)

			newDepth := depth - 1
			pvsFloor := alpha
			if ply == 0 && s.moveVariance != 0 {
				pvsFloor = alpha - s.moveVariance
			}

			var score int32
			gotAccurate := false
			switch {
			case legalMoves == 1:
				score = -s.negamax(b, newDepth, -beta, -alpha, ply+1, true, ext)
				gotAccurate = true
			case !inCheck && legalMoves > 4 && depth >= 3 && m.Flags&(FlagCapture|FlagPromotion) == 0:
				score = -s.negamax(b, newDepth-1, -alpha-1, -pvsFloor, ply+1, true, ext)
				if score > alpha && !s.stopped {
					score = -s.negamax(b, newDepth, -beta, -alpha, ply+1, true, ext)
					gotAccurate = true
				} else if score > pvsFloor {
					gotAccurate = true
				}
			default:
				score = -s.negamax(b, newDepth, -alpha-1, -pvsFloor, ply+1, true, ext)
				if score > alpha && score < beta && !s.stopped {
					score = -s.negamax(b, newDepth, -beta, -alpha, ply+1, true, ext)
					gotAccurate = true
				} else if score > pvsFloor {
					gotAccurate = true
				}
			}

			s.PopHistory()
			b.Unmake(m, u)

			if s.stopped {
				s.sp = base
				return 0
			}

			if ply == 0 && s.evalNoise != 0 {
				score += s.randNoise()
			}

			if ply == 0 && s.moveVariance != 0 && s.rootCountPending < maxRootCandidates && gotAccurate {
				s.rootMovesPending[s.rootCountPending] = m
				s.rootScoresPending[s.rootCountPending] = score
				s.rootCountPending++
			}

			if score > bestScore {
				bestScore = score
				bestMove = m
				if ply == 0 {
					s.bestRootMove = m
				}
				if score > alpha {
					alpha = score
					bestFlag = ttExact
					if alpha >= beta {
						bestFlag = ttBeta
						if m.Flags&FlagCapture == 0 {
							s.killers.update(ply, m)
							s.history.update(b.side, m, depth)
						}
						cutoff = true
					}
				}
			}
			if cutoff {
				break
			}
		}

		s.sp = base
	}

	if legalMoves == 0 {
		if inCheck {
			return -ScoreMate + int32(ply)
		}
		return ScoreDraw
	}

	storeScore := bestScore
	if storeScore > ScoreMate-MaxPly {
		storeScore += int32(ply)
	} else if storeScore < -ScoreMate+MaxPly {
		storeScore -= int32(ply)
	}
	s.tt.Store(b.hash, b.lock, storeScore, bestMove, depth, bestFlag)

	return bestScore
}

// Go runs iterative deepening from the current position until limits
// stops it, returning the best move found by the last completed
// iteration (or, failing that, the best root move the interrupted
// iteration had reached, which starts as the first legal root move).
func (s *Searcher) Go(b *Board, limits Limits) Result {
	s.nodes = 0
	s.stopped = false
	s.bestRootMove = NoMove
	s.sp = 0

	s.logger = limits.Logger
	if s.logger == nil {
		s.logger = NulLogger{}
	}

	s.timeFunc = limits.TimeFunc
	if limits.MaxTimeMS != 0 && s.timeFunc != nil {
		s.deadline = s.timeFunc() + limits.MaxTimeMS
	} else {
		s.deadline = 0
	}
	s.maxNodes = limits.MaxNodes
	s.nodeDeadline = uint64(limits.MaxTimeMS)
	s.evalNoise = limits.EvalNoise
	s.moveVariance = limits.MoveVariance
	s.rngState = uint32(b.hash) ^ 0xDEAD
	if s.timeFunc != nil {
		s.rngState ^= s.timeFunc()
	}

	maxDepth := limits.MaxDepth
	if maxDepth == 0 && limits.MaxTimeMS == 0 && limits.MaxNodes == 0 {
		maxDepth = 1
	}
	if maxDepth == 0 {
		maxDepth = MaxPly - 1
	}

	var result Result

	for d := int8(1); d <= maxDepth; d++ {
		s.bestRootMove = NoMove
		s.rootCountPending = 0

		var aspAlpha, aspBeta int32
		if d > 1 && !result.BestMove.IsZero() {
			aspAlpha = result.Score - 25
			aspBeta = result.Score + 25
		} else {
			aspAlpha = -ScoreInfinity
			aspBeta = ScoreInfinity
		}

		score := s.negamax(b, d, aspAlpha, aspBeta, 0, true, 0)

		if !s.stopped && (score <= aspAlpha || score >= aspBeta) {
			s.bestRootMove = NoMove
			s.rootCountPending = 0
			score = s.negamax(b, d, -ScoreInfinity, ScoreInfinity, 0, true, 0)
		}

		if s.stopped {
			if result.BestMove.IsZero() && s.bestRootMove.IsZero() && s.deadline != 0 && s.timeFunc != nil {
				s.deadline = s.timeFunc() + 5000
				s.nodeDeadline = s.nodes + 5000
				s.stopped = false
				d--
				continue
			}
			break
		}

		if !s.bestRootMove.IsZero() {
			result.BestMove = s.bestRootMove
			result.Score = score
			result.Depth = d
			result.Nodes = s.nodes
			s.rootCount = s.rootCountPending
			s.rootMoves = s.rootMovesPending
			s.rootScores = s.rootScoresPending
			s.logger.Infof("depth=%d score=%d nodes=%d pv=%v", d, score, s.nodes, s.bestRootMove)
		}
	}

	if result.BestMove.IsZero() && !s.bestRootMove.IsZero() {
		result.BestMove = s.bestRootMove
		result.Score = 0
		result.Depth = 0
		result.Nodes = s.nodes
	}

	if s.moveVariance != 0 && s.rootCount > 1 {
		best := int32(-30000)
		for i := 0; i < s.rootCount; i++ {
			if s.rootScores[i] > best {
				best = s.rootScores[i]
			}
		}
		threshold := best - s.moveVariance

		nCandidates := 0
		for i := 0; i < s.rootCount; i++ {
			if s.rootScores[i] >= threshold {
				nCandidates++
			}
		}

		if nCandidates > 1 {
			x := s.rngState
			x ^= x << 13
			x ^= x >> 17
			x ^= x << 5
			s.rngState = x
			pick := int(x % uint32(nCandidates))

			n := 0
			for i := 0; i < s.rootCount; i++ {
				if s.rootScores[i] >= threshold {
					if n == pick {
						result.BestMove = s.rootMoves[i]
						result.Score = s.rootScores[i]
						break
					}
					n++
				}
			}
		}
	}

	return result
}
