package neural

// Input layout for the standard 7x6 board.
const (
	StdWidth  = 7
	StdHeight = 6

	// NumCells is the number of grid features.
	NumCells = StdWidth * StdHeight

	// NumInputs is NumCells plus one playable flag per column.
	NumInputs = NumCells + StdWidth

	// NumOutputs is one score per column.
	NumOutputs = StdWidth
)

// Cell values relative to the player the encoding is built for.
const (
	CellSelf     float32 = 1
	CellOpponent float32 = -1
	CellEmpty    float32 = 0
)
