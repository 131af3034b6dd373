// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// uci implements the UCI protocol which is described here http://wbec-ridderkerk.nl/html/UCIProtocol.html.

package main

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/zurichess/engine/engine"
)

var errQuit = fmt.Errorf("quit")

const defaultHashTableSizeMB = 64

// UCI adapts the UCI text protocol to the engine façade. Unlike the
// original zurichess search engine this bridges to, the façade runs one
// synchronous Think call per "go" command; stop cancels it through
// ThinkContext rather than signalling a shared search-control struct,
// which only interrupts a "go" that produced a non-zero time budget.
type UCI struct {
	engine *engine.Engine
	ttSize int

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewUCI() *UCI {
	u := &UCI{ttSize: defaultHashTableSizeMB * 1024 * 128} // 128 entries/KB at 8B/entry
	u.engine = engine.NewEngine(engine.Config{TTSize: u.ttSize}, nil)
	return u
}

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

func (u *UCI) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line")
	}

	switch cmd {
	case "isready":
		return u.isready(line)
	case "quit":
		return errQuit
	case "stop":
		return u.stop(line)
	case "uci":
		return u.uci(line)
	case "ucinewgame":
		return u.ucinewgame(line)
	case "position":
		return u.position(line)
	case "go":
		return u.go_(line)
	case "setoption":
		return u.setoption(line)
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

func (u *UCI) uci(line string) error {
	fmt.Printf("id name zurichess %v\n", buildVersion)
	fmt.Printf("id author Alexandru Mosoi\n")
	fmt.Printf("\n")
	fmt.Printf("option name Hash type spin default %v min 1 max 65536\n", defaultHashTableSizeMB)
	fmt.Println("uciok")
	return nil
}

func (u *UCI) isready(line string) error {
	fmt.Println("readyok")
	return nil
}

func (u *UCI) ucinewgame(line string) error {
	u.engine.NewGame()
	return nil
}

// uiPositionFromBoard mirrors engine.Engine.GetPosition's row/column
// convention, needed here since the façade only accepts a UIPosition and
// "position fen ..." hands us a raw FEN.
func uiPositionFromBoard(b *engine.Board) engine.UIPosition {
	var out engine.UIPosition
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := engine.RC(7-r, f)
			p := b.PieceAt(sq)
			var v int8
			if p != engine.NoPiece && p != engine.PieceOffBoard {
				v = int8(p.Type())
				if p.Color() == engine.Black {
					v = -v
				}
			}
			out.Board[r][f] = v
		}
	}
	out.WhiteToMove = b.Side() == engine.White
	out.Castling = b.Castling()
	if ep := b.EPSquare(); ep != engine.SquareNone {
		out.EPRow = 7 - ep.Row()
		out.EPCol = ep.File()
	} else {
		out.EPRow, out.EPCol = -1, -1
	}
	out.Halfmove = b.Halfmove()
	out.Fullmove = b.Fullmove()
	return out
}

// uciMoveToUIMove parses a bare UCI move ("e2e4", "e7e8q") into the
// façade's row/column encoding; IsLegalMove/MakeMove re-derive the real
// capture/castle/en-passant flags from the board, so only the promotion
// bit needs to be supplied here.
func uciMoveToUIMove(s string) (engine.UIMove, error) {
	if len(s) < 4 {
		return engine.UIMove{}, fmt.Errorf("invalid move %q", s)
	}
	from, err := engine.SquareFromString(s[0:2])
	if err != nil {
		return engine.UIMove{}, err
	}
	to, err := engine.SquareFromString(s[2:4])
	if err != nil {
		return engine.UIMove{}, err
	}
	um := engine.UIMove{
		FromRow: 7 - from.Row(), FromCol: from.File(),
		ToRow: 7 - to.Row(), ToCol: to.File(),
	}
	if len(s) > 4 {
		um.Flags |= engine.FlagPromotion
		switch s[4] {
		case 'q':
			um.Flags |= engine.FlagPromoQ
		case 'r':
			um.Flags |= engine.FlagPromoR
		case 'b':
			um.Flags |= engine.FlagPromoB
		case 'n':
			um.Flags |= engine.FlagPromoN
		default:
			return engine.UIMove{}, fmt.Errorf("invalid promotion in move %q", s)
		}
	}
	return um, nil
}

func (u *UCI) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var b *engine.Board
	var err error

	i := 0
	switch args[i] {
	case "startpos":
		b, err = engine.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
		i++
	case "fen":
		j := i + 1
		for j < len(args) && args[j] != "moves" {
			j++
		}
		b, err = engine.ParseFEN(strings.Join(args[1:j], " "))
		i = j
	default:
		err = fmt.Errorf("unknown position command: %s", args[0])
	}
	if err != nil {
		return err
	}

	u.engine.SetPosition(uiPositionFromBoard(b))

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got '%s'", args[i])
		}
		for _, s := range args[i+1:] {
			um, err := uciMoveToUIMove(s)
			if err != nil {
				return err
			}
			if !u.engine.IsLegalMove(um) {
				return fmt.Errorf("illegal move %s", s)
			}
			u.engine.MakeMove(um)
		}
	}
	return nil
}

var validGoCommands = map[string]bool{
	"searchmoves": true,
	"ponder":      true,
	"wtime":       true,
	"btime":       true,
	"winc":        true,
	"binc":        true,
	"movestogo":   true,
	"depth":       true,
	"nodes":       true,
	"mate":        true,
	"movetime":    true,
	"infinite":    true,
}

// goParams is the subset of "go" parameters the façade's Think can act
// on: a depth bound and a time budget, the latter computed from
// wtime/btime/winc/binc/movestogo through engine.TimeControl.
type goParams struct {
	depth int8
	tc    engine.TimeControl
	movetime uint32
}

func parseGoParams(args []string, b *engine.Board) (goParams, error) {
	p := goParams{tc: *engine.NewTimeControl(b)}
	var movetime int64

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for i+1 < len(args) && !validGoCommands[args[i+1]] {
				i++
			}
		case "ponder", "infinite":
			// not supported; falls back to the configured depth/time below.
		case "wtime":
			i++
			v, _ := strconv.ParseInt(args[i], 10, 64)
			p.tc.WTimeMS = uint32(v)
		case "btime":
			i++
			v, _ := strconv.ParseInt(args[i], 10, 64)
			p.tc.BTimeMS = uint32(v)
		case "winc":
			i++
			v, _ := strconv.ParseInt(args[i], 10, 64)
			p.tc.WIncMS = uint32(v)
		case "binc":
			i++
			v, _ := strconv.ParseInt(args[i], 10, 64)
			p.tc.BIncMS = uint32(v)
		case "movestogo":
			i++
			v, _ := strconv.Atoi(args[i])
			p.tc.MovesToGo = v
		case "movetime":
			i++
			movetime, _ = strconv.ParseInt(args[i], 10, 64)
		case "depth":
			i++
			d, _ := strconv.Atoi(args[i])
			p.depth = int8(d)
		case "nodes", "mate":
			log.Println(args[i], "not implemented, ignoring")
			i++
		default:
			return p, fmt.Errorf("invalid go command %s", args[i])
		}
	}

	if movetime > 0 {
		p.movetime = uint32(movetime)
		return p, nil
	}
	if p.tc.WTimeMS > 0 || p.tc.BTimeMS > 0 {
		p.movetime = p.tc.Allocate()
	}
	return p, nil
}

func (u *UCI) go_(line string) error {
	args := strings.Fields(line)[1:]
	pos := u.engine.GetPosition()
	b := engine.NewBoard()
	b.SetFromUI(pos.Board, pos.WhiteToMove, pos.Castling, pos.EPRow, pos.EPCol, pos.Halfmove, pos.Fullmove)
	params, err := parseGoParams(args, b)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.mu.Lock()
	u.cancel = cancel
	u.running = true
	u.mu.Unlock()

	go func() {
		move := u.engine.ThinkContext(ctx, params.depth, params.movetime)

		u.mu.Lock()
		u.running = false
		u.cancel = nil
		u.mu.Unlock()

		if move == (engine.UIMove{FromRow: -1}) {
			fmt.Println("bestmove (none)")
			return
		}
		from := engine.RC(7-move.FromRow, move.FromCol)
		to := engine.RC(7-move.ToRow, move.ToCol)
		fmt.Printf("bestmove %v%v\n", from, to)
	}()
	return nil
}

func (u *UCI) stop(line string) error {
	u.mu.Lock()
	cancel := u.cancel
	u.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

var reOption = regexp.MustCompile(`^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)

func (u *UCI) setoption(line string) error {
	option := reOption.FindStringSubmatch(line)
	if option == nil {
		return fmt.Errorf("invalid setoption arguments")
	}

	switch option[1] {
	case "Clear Hash":
		u.engine.NewGame()
		return nil
	}

	if len(option) < 3 || option[3] == "" {
		return fmt.Errorf("missing setoption value")
	}
	switch option[1] {
	case "Hash":
		mb, err := strconv.ParseInt(option[3], 10, 64)
		if err != nil {
			return err
		}
		pos := u.engine.GetPosition()
		u.ttSize = int(mb) * 1024 * 128
		u.engine = engine.NewEngine(engine.Config{TTSize: u.ttSize}, nil)
		u.engine.SetPosition(pos)
		return nil
	default:
		return fmt.Errorf("unhandled option %s", option[1])
	}
}
