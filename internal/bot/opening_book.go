package bot

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

//go:embed opening_book.json
var openingBookJSON []byte

var bookData *OpeningBook
var bookOnce sync.Once

// getBook lazily loads and caches the embedded opening book.
func getBook() *OpeningBook {
	bookOnce.Do(func() {
		bookData = &OpeningBook{}
		if err := json.Unmarshal(openingBookJSON, bookData); err != nil {
			log.Error().Err(err).Msg("Failed to parse opening book")
			bookData = &OpeningBook{}
		}
		bookData.index = make(map[string]int, len(bookData.Entries))
		for _, e := range bookData.Entries {
			bookData.index[e.Position] = e.Column
		}
	})
	return bookData
}

// OpeningBook maps early positions to a prepared reply.
type OpeningBook struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Entries []BookEntry `json:"entries"`

	index map[string]int
}

// BookEntry is one position, written as connect4.Board.Key, and the
// 0-based column to answer with.
type BookEntry struct {
	Position string `json:"position"`
	Column   int    `json:"column"`
}

// Lookup returns the book move for b. Positions are also matched in their
// left-right reflection, with the answer reflected back.
func (ob *OpeningBook) Lookup(b *connect4.Board) (int, bool) {
	if b.Width() != ob.Width || b.Rows() != ob.Height {
		return -1, false
	}
	if col, ok := ob.index[b.Key()]; ok {
		return col, true
	}
	if col, ok := ob.index[b.Mirror().Key()]; ok {
		return b.Width() - 1 - col, true
	}
	return -1, false
}

// LookupBook consults the embedded book.
func LookupBook(b *connect4.Board) (int, bool) {
	return getBook().Lookup(b)
}
