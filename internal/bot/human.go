package bot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// HumanStrategy reads 1-based column numbers from a line-oriented input.
// Invalid or illegal entries are reported and asked again.
type HumanStrategy struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewHumanStrategy prompts on out and reads answers from in.
func NewHumanStrategy(in io.Reader, out io.Writer) *HumanStrategy {
	return &HumanStrategy{in: bufio.NewScanner(in), out: out}
}

func (HumanStrategy) Name() string { return "human" }

// ChooseMove blocks until a legal column is entered. It returns -1 when
// the input ends or the player types "q".
func (h *HumanStrategy) ChooseMove(b *connect4.Board, me, _ connect4.Mark) int {
	for {
		fmt.Fprintf(h.out, "%s to move, column (1-%d): ", me, b.Width())
		if !h.in.Scan() {
			return -1
		}
		text := strings.TrimSpace(h.in.Text())
		if text == "q" || text == "quit" {
			return -1
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintf(h.out, "invalid move: %q is not a column number\n", text)
			continue
		}
		if err := b.CheckMove(n - 1); err != nil {
			fmt.Fprintf(h.out, "invalid move: %v\n", err)
			continue
		}
		return n - 1
	}
}
