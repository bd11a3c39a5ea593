package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/bot"
	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// leftmost always plays the first column.
type leftmost struct{}

func (leftmost) Name() string { return "leftmost" }

func (leftmost) ChooseMove(*connect4.Board, connect4.Mark, connect4.Mark) int { return 0 }

func TestPlayHumanWins(t *testing.T) {
	var out bytes.Buffer
	human := bot.NewHumanStrategy(strings.NewReader("4\n4\n4\n4\n"), &out)
	play(&out, human, leftmost{}, false)

	if !strings.Contains(out.String(), "human (X) wins! Moves: 4141414") {
		t.Errorf("expected human win, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "leftmost (O) plays 1") {
		t.Errorf("expected bot moves to be announced, got:\n%s", out.String())
	}
}

func TestPlayBotFirstWins(t *testing.T) {
	var out bytes.Buffer
	human := bot.NewHumanStrategy(strings.NewReader("7\n7\n7\n"), &out)
	play(&out, human, leftmost{}, true)

	if !strings.Contains(out.String(), "leftmost (X) wins! Moves: 1717171") {
		t.Errorf("expected bot win, got:\n%s", out.String())
	}
}

func TestPlayAbandonedOnEOF(t *testing.T) {
	var out bytes.Buffer
	human := bot.NewHumanStrategy(strings.NewReader(""), &out)
	play(&out, human, leftmost{}, false)

	if !strings.Contains(out.String(), "Game abandoned.") {
		t.Errorf("expected abandoned game, got:\n%s", out.String())
	}
}
