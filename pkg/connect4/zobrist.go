package connect4

import "math/rand/v2"

// zobristSeed fixes the key table so hashes are stable across runs.
const zobristSeed = 42

var zobristTable [MaxWidth][MaxHeight][2]uint64

func init() {
	rng := rand.New(rand.NewPCG(zobristSeed, zobristSeed^0x9e3779b97f4a7c15))
	for c := range zobristTable {
		for r := range zobristTable[c] {
			zobristTable[c][r][0] = rng.Uint64()
			zobristTable[c][r][1] = rng.Uint64()
		}
	}
}

func zobristKey(col, row int, mark Mark) uint64 {
	return zobristTable[col][row][mark-1]
}

// ComputeHash recomputes the Zobrist key of b from scratch. It matches
// b.Hash() for any board built through Apply and Undo.
func ComputeHash(b *Board) uint64 {
	var h uint64
	for c := 0; c < b.width; c++ {
		for r := 0; r < b.heights[c]; r++ {
			h ^= zobristKey(c, r, b.cells[c*b.height+r])
		}
	}
	return h
}
