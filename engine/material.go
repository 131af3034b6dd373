// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// material.go holds the combined material-plus-piece-square tables the
// evaluator is built from, in the PeSTO style: one table per piece type
// per game phase already folds in the piece's base material value, so
// tapering between mg_table and eg_table blends material and placement
// in a single pass.

package engine

// PhaseMax is the phase value of a full starting material set; Board.Phase
// is clamped to this before tapering so extra material (illegal, but
// cheap to guard) never overflows the blend.
const PhaseMax int32 = 24

// phaseWeight contributes to the running phase counter per piece placed
// or removed: pawns and kings don't count, queens count for four.
var phaseWeight = [PieceTypeArraySize]int32{
	NoPieceType: 0,
	Pawn:        0,
	Knight:      1,
	Bishop:      1,
	Rook:        2,
	Queen:       4,
	King:        0,
}

// mgTableSrc and egTableSrc are the PeSTO tables transcribed verbatim,
// index 0 = a8 .. 63 = h1 from white's perspective, exactly as published.
var mgTableSrc = [PieceTypeArraySize][64]int32{
	Pawn: {
		77, 77, 77, 77, 77, 77, 77, 77,
		168, 202, 133, 165, 140, 194, 108, 66,
		71, 83, 101, 105, 137, 129, 100, 58,
		63, 89, 82, 96, 98, 88, 92, 55,
		51, 75, 72, 88, 92, 82, 86, 53,
		52, 73, 73, 67, 79, 79, 107, 65,
		44, 76, 58, 55, 63, 99, 112, 56,
		77, 77, 77, 77, 77, 77, 77, 77,
	},
	Knight: {
		153, 223, 273, 259, 359, 216, 290, 207,
		238, 267, 368, 336, 324, 359, 310, 288,
		261, 358, 337, 362, 379, 420, 369, 343,
		295, 319, 321, 351, 337, 366, 320, 323,
		292, 307, 318, 315, 329, 321, 322, 296,
		283, 295, 314, 313, 321, 319, 326, 289,
		277, 256, 293, 301, 303, 320, 291, 286,
		209, 285, 251, 274, 288, 278, 286, 283,
	},
	Bishop: {
		300, 330, 253, 293, 304, 289, 332, 319,
		303, 340, 310, 315, 353, 379, 342, 284,
		312, 359, 365, 362, 357, 371, 359, 324,
		323, 331, 343, 371, 359, 359, 332, 324,
		321, 338, 338, 349, 357, 337, 335, 330,
		326, 340, 340, 340, 339, 350, 342, 335,
		330, 340, 340, 326, 332, 345, 356, 327,
		297, 324, 314, 307, 315, 315, 291, 307,
	},
	Rook: {
		445, 453, 445, 461, 472, 425, 444, 454,
		440, 445, 467, 471, 487, 475, 439, 455,
		412, 433, 439, 448, 432, 456, 470, 431,
		396, 407, 423, 439, 438, 447, 410, 399,
		385, 394, 406, 416, 425, 411, 422, 397,
		377, 395, 403, 402, 419, 417, 412, 388,
		378, 403, 399, 409, 416, 426, 411, 355,
		400, 405, 418, 432, 431, 423, 384, 394,
	},
	Queen: {
		970, 997, 1026, 1009, 1055, 1040, 1039, 1041,
		974, 960, 993, 998, 982, 1053, 1025, 1050,
		985, 981, 1004, 1005, 1026, 1052, 1043, 1053,
		971, 971, 982, 982, 996, 1014, 996, 998,
		989, 972, 989, 988, 996, 994, 1000, 995,
		984, 999, 987, 996, 993, 999, 1011, 1002,
		963, 990, 1008, 999, 1005, 1012, 995, 998,
		996, 980, 989, 1007, 983, 973, 967, 949,
	},
	King: {
		-65, 23, 16, -15, -56, -34, 2, 13,
		29, -1, -20, -7, -8, -4, -38, -29,
		-9, 24, 2, -16, -20, 6, 22, -22,
		-17, -20, -12, -27, -30, -25, -23, -36,
		-49, -1, -27, -39, -46, -44, -33, -51,
		-14, -14, -22, -46, -44, -30, -15, -27,
		1, 7, -8, -64, -43, -16, 9, 8,
		-15, 36, 12, -54, 8, -28, 24, 14,
	},
}

var egTableSrc = [PieceTypeArraySize][64]int32{
	Pawn: {
		105, 105, 105, 105, 105, 105, 105, 105,
		303, 297, 280, 254, 268, 251, 288, 313,
		209, 216, 199, 179, 167, 164, 196, 198,
		140, 131, 119, 110, 102, 109, 123, 123,
		119, 115, 101, 97, 97, 96, 108, 103,
		109, 112, 98, 106, 105, 99, 103, 96,
		119, 113, 113, 93, 119, 105, 107, 97,
		105, 105, 105, 105, 105, 105, 105, 105,
	},
	Knight: {
		241, 262, 289, 273, 270, 274, 235, 196,
		276, 295, 276, 301, 293, 276, 277, 247,
		277, 282, 314, 313, 302, 293, 283, 259,
		285, 306, 327, 327, 327, 315, 312, 284,
		284, 297, 320, 330, 320, 322, 307, 284,
		278, 300, 302, 319, 314, 300, 282, 279,
		258, 282, 292, 298, 301, 282, 278, 256,
		272, 248, 278, 287, 279, 284, 249, 234,
	},
	Bishop: {
		291, 284, 294, 298, 299, 297, 288, 281,
		298, 302, 313, 293, 303, 292, 302, 291,
		308, 298, 306, 305, 304, 312, 306, 310,
		303, 315, 318, 315, 320, 316, 309, 308,
		300, 309, 319, 325, 313, 316, 303, 297,
		293, 303, 314, 316, 319, 309, 299, 290,
		291, 287, 299, 305, 310, 297, 290, 278,
		282, 297, 282, 301, 297, 289, 301, 288,
	},
	Rook: {
		575, 572, 581, 578, 574, 574, 570, 567,
		573, 575, 575, 573, 558, 564, 570, 564,
		569, 569, 569, 567, 566, 558, 556, 558,
		566, 564, 575, 562, 563, 562, 560, 563,
		564, 567, 570, 566, 556, 555, 552, 549,
		557, 561, 556, 560, 554, 548, 552, 544,
		555, 555, 561, 563, 551, 551, 549, 558,
		551, 563, 564, 560, 556, 547, 566, 539,
	},
	Queen: {
		986, 1019, 1019, 1024, 1024, 1016, 1006, 1017,
		978, 1017, 1030, 1039, 1057, 1022, 1028, 996,
		974, 1002, 1005, 1048, 1046, 1033, 1016, 1005,
		999, 1019, 1021, 1043, 1056, 1038, 1056, 1034,
		976, 1025, 1016, 1046, 1029, 1032, 1037, 1020,
		979, 967, 1012, 1002, 1005, 1014, 1006, 1001,
		972, 971, 964, 979, 979, 971, 957, 962,
		961, 966, 972, 950, 990, 962, 974, 952,
	},
	King: {
		-76, -36, -18, -18, -11, 15, 4, -17,
		-12, 17, 14, 17, 17, 39, 24, 11,
		10, 17, 24, 15, 21, 46, 45, 13,
		-8, 23, 25, 28, 27, 34, 27, 3,
		-18, -4, 22, 25, 28, 24, 9, -11,
		-20, -3, 11, 22, 24, 16, 7, -9,
		-28, -11, 4, 13, 14, 4, -5, -17,
		-54, -35, -22, -11, -29, -14, -25, -44,
	},
}

// mgTable and egTable are mgTableSrc/egTableSrc with their rank order
// reversed so index 0 lands on a1 instead of a8: this package numbers
// squares with row 0 = rank 1 (see basic.go's Square), the opposite of
// the source tables' row 0 = rank 8. SQ64, and the XOR-56 mirror used
// for black pieces, both stay exactly as published; only this one-time
// load-time reindexing accounts for the different square convention.
var mgTable [PieceTypeArraySize][64]int32
var egTable [PieceTypeArraySize][64]int32

func init() {
	for pt := PieceTypeMinValue; pt <= PieceTypeMaxValue; pt++ {
		for r := 0; r < 8; r++ {
			for f := 0; f < 8; f++ {
				mgTable[pt][r*8+f] = mgTableSrc[pt][(7-r)*8+f]
				egTable[pt][r*8+f] = egTableSrc[pt][(7-r)*8+f]
			}
		}
	}
}

// pieceSquareScore returns the combined material+placement contribution
// of placing p on sq, already carrying p's base material value.
func pieceSquareScore(p Piece, sq Square) (mg, eg int32) {
	idx := sq.SQ64()
	if p.Color() == Black {
		idx ^= 56
	}
	pt := p.Type()
	return mgTable[pt][idx], egTable[pt][idx]
}
