package notation

import (
	"fmt"
	"strings"

	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/fen"
	"github.com/tlindqvist/corvid/position"
)

// GameRecord holds the metadata and move history needed to export a Portable
// Game Notation string. Tags follow the PGN "Seven Tag Roster" (Result is
// the seventh, derived from the game's outcome).
type GameRecord struct {
	Event, Site, Date, Round, White, Black string
	Result                                 enum.Result
	SANMoves                               []string
}

func resultTag(r enum.Result, finalSideToMove enum.Color) string {
	switch r {
	case enum.ResultUnscored:
		return "*"
	case enum.ResultCheckmate:
		// Whoever moved last delivered mate; the side to move at the final
		// position is the loser.
		if finalSideToMove == enum.Black {
			return "1-0"
		}
		return "0-1"
	case enum.ResultResignation, enum.ResultTimeout:
		return "*"
	default:
		return "1/2-1/2"
	}
}

// SerializePGN renders g as a PGN string: the seven required tag pairs
// followed by the movetext in "1. e4 e5 2. Nf3 ..." form.
func SerializePGN(g GameRecord, finalSideToMove enum.Color) string {
	var b strings.Builder

	writeTag := func(name, value string) {
		if value == "" {
			value = "?"
		}
		fmt.Fprintf(&b, "[%s %q]\n", name, value)
	}

	writeTag("Event", g.Event)
	writeTag("Site", g.Site)
	writeTag("Date", g.Date)
	writeTag("Round", g.Round)
	writeTag("White", g.White)
	writeTag("Black", g.Black)
	result := resultTag(g.Result, finalSideToMove)
	writeTag("Result", result)
	b.WriteByte('\n')

	for i, san := range g.SANMoves {
		if i%2 == 0 {
			fmt.Fprintf(&b, "%d. ", i/2+1)
		}
		b.WriteString(san)
		b.WriteByte(' ')
	}
	b.WriteString(result)

	return b.String()
}

// ReplaySAN plays a sequence of UCI-ordering moves from start, recording
// their SAN strings as it goes, for building a GameRecord incrementally.
func ReplaySAN(start position.Board, moves []position.Move, legalAt func(b *position.Board) []position.Move) []string {
	san := make([]string, 0, len(moves))
	b := start
	for _, m := range moves {
		legal := legalAt(&b)
		san = append(san, FormatSAN(&b, m, legal))
		b = b.MakeMove(m)
	}
	return san
}

// StartFEN is used by callers that want to record the opening FEN tag for
// games that don't start from the standard position.
func StartFEN(b *position.Board) string { return fen.Serialize(b) }
