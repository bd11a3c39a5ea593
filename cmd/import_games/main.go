// Command import_games reads JSONL game records and stores them as one
// match so externally played games show up next to arena results.
//
// Each line is {"id": 1, "moves": "4453..."} with optional "x" and "o"
// player names.
//
// Usage:
//
//	go run ./cmd/import_games/ --input games.jsonl --db postgres://...
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/model"
	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository/postgres"
	"github.com/AngelFireLA/Puissance4-L1ST/pkg/connect4"
)

// jsonGameRecord is one line of the input file.
type jsonGameRecord struct {
	ID    int    `json:"id"`
	X     string `json:"x"`
	O     string `json:"o"`
	Moves string `json:"moves"`
}

func main() {
	_ = godotenv.Load()

	inputFile := flag.String("input", "", "Path to JSONL file")
	dbURL := flag.String("db", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	namePrefix := flag.String("name-prefix", "imported", "Game name prefix")
	xName := flag.String("x", "x", "Default name of the first player")
	oName := flag.String("o", "o", "Default name of the second player")
	flag.Parse()

	if *inputFile == "" {
		log.Fatal("--input is required")
	}
	if *dbURL == "" {
		log.Fatal("--db or DATABASE_URL is required")
	}

	f, err := os.Open(*inputFile)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer f.Close()

	records, skipped, err := readRecords(f)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	m, games, unfinished := buildMatch(*namePrefix, *xName, *oName, records)
	if len(games) == 0 {
		log.Fatalf("no finished games to import (%d bad lines, %d unfinished)", skipped, unfinished)
	}

	db, err := postgres.Connect(*dbURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	id, err := postgres.NewMatchRepo(db).SaveMatch(ctx, m, games)
	if err != nil {
		log.Fatalf("save match: %v", err)
	}
	log.Printf("done: imported %d games as match %s (%d bad lines, %d unfinished skipped)", len(games), id, skipped, unfinished)
}

// readRecords decodes one record per non-blank line. Lines that are not
// valid JSON are counted and skipped.
func readRecords(r io.Reader) ([]jsonGameRecord, int, error) {
	scanner := bufio.NewScanner(r)
	var records []jsonGameRecord
	skipped := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec jsonGameRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Printf("WARN: skip line (bad JSON): %v", err)
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, scanner.Err()
}

// buildMatch replays every record and keeps the finished ones. Seat A is
// always the player moving first.
func buildMatch(prefix, xName, oName string, records []jsonGameRecord) (*model.Match, []model.MatchGame, int) {
	m := &model.Match{
		Label:  prefix,
		A:      xName,
		B:      oName,
		Width:  connect4.DefaultWidth,
		Height: connect4.DefaultHeight,
	}
	var games []model.MatchGame
	unfinished := 0
	for _, rec := range records {
		g, err := connect4.ParseMoves(rec.Moves)
		if err != nil {
			log.Printf("WARN: skip game %d: %v", rec.ID, err)
			unfinished++
			continue
		}
		if !g.Over() {
			unfinished++
			continue
		}
		first, second := orDefault(rec.X, xName), orDefault(rec.O, oName)
		mg := model.MatchGame{
			Seq:    len(games) + 1,
			Name:   fmt.Sprintf("%s-%03d", prefix, rec.ID),
			First:  first,
			Second: second,
			Moves:  connect4.FormatMoves(g.Moves()),
		}
		switch g.Winner() {
		case connect4.X:
			mg.Winner, mg.Mark = first, "X"
			m.WinsA++
		case connect4.O:
			mg.Winner, mg.Mark = second, "O"
			m.WinsB++
		default:
			m.Draws++
		}
		games = append(games, mg)
	}
	m.Games = len(games)
	return m, games, unfinished
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
