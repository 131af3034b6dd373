// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fen.go parses and formats Forsyth-Edwards Notation, the de facto
// standard text encoding for a chess position, on top of SetFromUI/the
// UI position grid rather than poking Board fields directly.

package engine

import (
	"fmt"
	"strconv"
	"strings"
)

var fenPieceSymbol = [...]string{"", "p", "n", "b", "r", "q", "k"}

// ParseFEN parses a FEN string into a new Board.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen: expected at least 4 fields, got %d", len(fields))
	}

	var grid [8][8]int8
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: expected 8 ranks, got %d", len(ranks))
	}
	for r, rank := range ranks {
		f := 0
		for _, c := range rank {
			if c >= '1' && c <= '8' {
				f += int(c - '0')
				continue
			}
			if f >= 8 {
				return nil, fmt.Errorf("fen: rank %q too long", rank)
			}
			pt, color, err := pieceFromSymbol(c)
			if err != nil {
				return nil, err
			}
			v := int8(pt)
			if color == Black {
				v = -v
			}
			grid[r][f] = v
			f++
		}
		if f != 8 {
			return nil, fmt.Errorf("fen: rank %q has wrong length", rank)
		}
	}

	var whiteToMove bool
	switch fields[1] {
	case "w":
		whiteToMove = true
	case "b":
		whiteToMove = false
	default:
		return nil, fmt.Errorf("fen: invalid side to move %q", fields[1])
	}

	var castling Castle
	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				castling |= CastleWK
			case 'Q':
				castling |= CastleWQ
			case 'k':
				castling |= CastleBK
			case 'q':
				castling |= CastleBQ
			default:
				return nil, fmt.Errorf("fen: invalid castling rights %q", fields[2])
			}
		}
	}

	epRow, epCol := -1, -1
	if fields[3] != "-" {
		sq, err := SquareFromString(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid en-passant square %q", fields[3])
		}
		epRow, epCol = 7-sq.Row(), sq.File()
	}

	halfmove, fullmove := uint8(0), uint16(1)
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid halfmove clock %q", fields[4])
		}
		halfmove = uint8(n)
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid fullmove number %q", fields[5])
		}
		fullmove = uint16(n)
	}

	b := NewBoard()
	b.SetFromUI(grid, whiteToMove, castling, epRow, epCol, halfmove, fullmove)
	return b, nil
}

func pieceFromSymbol(c rune) (PieceType, Color, error) {
	color := White
	lc := c
	if c >= 'a' && c <= 'z' {
		color = Black
	} else {
		lc = c + ('a' - 'A')
	}
	for pt := Pawn; pt <= King; pt++ {
		if fenPieceSymbol[pt] == string(lc) {
			return pt, color, nil
		}
	}
	return NoPieceType, White, fmt.Errorf("fen: invalid piece symbol %q", string(c))
}

// FEN formats the board as Forsyth-Edwards Notation.
func (b *Board) FEN() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := b.PieceAt(RC(r, f))
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sym := fenPieceSymbol[p.Type()]
			if p.Color() == White {
				sym = strings.ToUpper(sym)
			}
			sb.WriteString(sym)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.Side() == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if b.Castling() == CastleNone {
		sb.WriteByte('-')
	} else {
		c := b.Castling()
		if c&CastleWK != 0 {
			sb.WriteByte('K')
		}
		if c&CastleWQ != 0 {
			sb.WriteByte('Q')
		}
		if c&CastleBK != 0 {
			sb.WriteByte('k')
		}
		if c&CastleBQ != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	if ep := b.EPSquare(); ep != SquareNone {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", b.Halfmove(), b.Fullmove())
	return sb.String()
}
