// zobrist.go contains the keys used for Zobrist hashing.
//
// More information on Zobrist hashing can be found in the paper:
// http://research.cs.wisc.edu/techreports/1970/TR88.pdf

package engine

// Two independent key families are generated from the same PRNG stream:
// a 64-bit family for the full transposition hash and a 16-bit family
// for the cheap verification lock carried alongside it. Keeping the lock
// keys independent of the hash keys, rather than derived from them,
// means a hash collision and a lock collision are unlikely to coincide.
var (
	zobristPiece  [2 * PieceTypeArraySize][64]uint64
	zobristCastle [16]uint64
	zobristEPFile [8]uint64
	zobristSide   uint64

	lockPiece  [2 * PieceTypeArraySize][64]uint16
	lockCastle [16]uint16
	lockEPFile [8]uint16
	lockSide   uint16
)

// xorshift32 is the PRNG the original engine seeds its Zobrist tables
// and its eval-noise/move-variance randomisation from.
type xorshift32 struct {
	state uint32
}

func newXorshift32(seed uint32) *xorshift32 {
	if seed == 0 {
		seed = 0x12345678
	}
	return &xorshift32{state: seed}
}

func (x *xorshift32) next() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	return s
}

func (x *xorshift32) next64() uint64 {
	hi := uint64(x.next())
	lo := uint64(x.next())
	return hi<<32 | lo
}

func (x *xorshift32) next16() uint16 {
	return uint16(x.next() >> 16)
}

// pieceZobristIndex maps a Piece to a [0, 12) slot: 6 types x 2 colours.
func pieceZobristIndex(p Piece) int {
	idx := int(p.Type()) - 1
	if p.Color() == Black {
		idx += PieceTypeArraySize - 1
	}
	return idx
}

func initZobrist(seed uint32) {
	rng := newXorshift32(seed)

	for i := range zobristPiece {
		for j := range zobristPiece[i] {
			zobristPiece[i][j] = rng.next64()
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rng.next64()
	}
	for i := range zobristEPFile {
		zobristEPFile[i] = rng.next64()
	}
	zobristSide = rng.next64()

	for i := range lockPiece {
		for j := range lockPiece[i] {
			lockPiece[i][j] = rng.next16()
		}
	}
	for i := range lockCastle {
		lockCastle[i] = rng.next16()
	}
	for i := range lockEPFile {
		lockEPFile[i] = rng.next16()
	}
	lockSide = rng.next16()
}

func init() {
	initZobrist(0x12345678)
}
