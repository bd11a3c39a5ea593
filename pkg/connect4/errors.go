package connect4

import "errors"

var (
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrColumnFull       = errors.New("column is full")
	ErrGameOver         = errors.New("game is over")
	ErrBoardSize        = errors.New("board size out of range")
	ErrNotation         = errors.New("invalid move notation")
	ErrFloatingToken    = errors.New("token above an empty cell")
)
