// Package san converts between moves and Short Algebraic Notation. Conversion is
// bidirectional and always relative to a specific position's legal moves: SAN carries no
// information (e.g. the piece's start square) that isn't otherwise recoverable from context, so
// decoding requires scanning the position's legal moves for the unique match.
package san

import (
	"fmt"
	"strings"

	"github.com/corvidchess/mindline/pkg/board"
)

// Language selects the piece-letter table used to encode/decode SAN.
type Language int

const (
	English Language = iota
	French
)

var pieceLetters = map[Language]map[board.Piece]string{
	English: {
		board.King: "K", board.Queen: "Q", board.Rook: "R", board.Bishop: "B", board.Knight: "N",
	},
	French: {
		board.King: "R", board.Queen: "D", board.Rook: "T", board.Bishop: "F", board.Knight: "C",
	},
}

func letterOf(lang Language, p board.Piece) string {
	return pieceLetters[lang][p]
}

func pieceOfLetter(lang Language, letter string) (board.Piece, bool) {
	for p, l := range pieceLetters[lang] {
		if l == letter {
			return p, true
		}
	}
	return 0, false
}

// Decode resolves s to the unique legal move it denotes in pos for turn.
func Decode(lang Language, pos *board.Position, turn board.Color, s string) (board.Move, error) {
	s = strings.TrimSuffix(strings.TrimSuffix(s, "+"), "#")
	moves := pos.LegalMoves(turn)

	if lower := strings.ToLower(s); lower == "o-o" || lower == "0-0" {
		return findCastle(moves, board.KingSideCastle, s)
	}
	if lower := strings.ToLower(s); lower == "o-o-o" || lower == "0-0-0" {
		return findCastle(moves, board.QueenSideCastle, s)
	}

	promotion := board.NoPiece
	if i := strings.IndexByte(s, '='); i >= 0 {
		letter := s[i+1:]
		p, ok := pieceOfLetter(lang, letter)
		if !ok {
			return board.Move{}, fmt.Errorf("san: invalid promotion piece %q in %q", letter, s)
		}
		promotion = p
		s = s[:i]
	}

	piece := board.Pawn
	rest := s
	for p, l := range pieceLetters[lang] {
		if l != "" && strings.HasPrefix(s, l) {
			piece = p
			rest = s[len(l):]
			break
		}
	}

	rest = strings.ReplaceAll(rest, "x", "")
	if len(rest) < 2 {
		return board.Move{}, fmt.Errorf("san: malformed move %q", s)
	}

	to, err := board.ParseSquareStr(rest[len(rest)-2:])
	if err != nil {
		return board.Move{}, fmt.Errorf("san: invalid destination square in %q: %w", s, err)
	}

	disambig := rest[:len(rest)-2]
	var disambigFile (func(board.File) bool)
	var disambigRank (func(board.Rank) bool)
	for _, r := range disambig {
		if f, ok := board.ParseFile(r); ok {
			disambigFile = func(got board.File) bool { return got == f }
		} else if rk, ok := board.ParseRank(r); ok {
			disambigRank = func(got board.Rank) bool { return got == rk }
		}
	}

	var candidates []board.Move
	for _, m := range moves {
		if m.Piece != piece || m.To != to {
			continue
		}
		if promotion != board.NoPiece && m.Promotion != promotion {
			continue
		}
		if promotion == board.NoPiece && m.IsPromotion() {
			continue
		}
		if disambigFile != nil && !disambigFile(m.From.File()) {
			continue
		}
		if disambigRank != nil && !disambigRank(m.From.Rank()) {
			continue
		}
		candidates = append(candidates, m)
	}

	switch len(candidates) {
	case 0:
		return board.Move{}, fmt.Errorf("san: no legal move matches %q", s)
	case 1:
		return candidates[0], nil
	default:
		return board.Move{}, fmt.Errorf("san: %q is ambiguous among %v candidates", s, len(candidates))
	}
}

func findCastle(moves []board.Move, typ board.MoveType, s string) (board.Move, error) {
	for _, m := range moves {
		if m.Type == typ {
			return m, nil
		}
	}
	return board.Move{}, fmt.Errorf("san: no legal castle matches %q", s)
}

// Encode renders m, played from pos by turn, in SAN, computing the minimal disambiguation
// needed among pos's legal moves and appending a check/mate suffix by probing the resulting
// position.
func Encode(lang Language, pos *board.Position, turn board.Color, m board.Move) string {
	var sb strings.Builder

	switch m.Type {
	case board.KingSideCastle:
		sb.WriteString("O-O")
	case board.QueenSideCastle:
		sb.WriteString("O-O-O")
	default:
		if m.Piece == board.Pawn {
			if m.IsCapture() {
				sb.WriteString(m.From.File().String())
			}
		} else {
			sb.WriteString(letterOf(lang, m.Piece))
			sb.WriteString(disambiguation(pos, turn, m))
		}
		if m.IsCapture() {
			sb.WriteString("x")
		}
		sb.WriteString(m.To.String())
		if m.IsPromotion() {
			sb.WriteString("=")
			sb.WriteString(letterOf(lang, m.Promotion))
		}
	}

	u := pos.MakeMove(turn, m)
	opp := turn.Opponent()
	if pos.IsChecked(opp) {
		if len(pos.LegalMoves(opp)) == 0 {
			sb.WriteString("#")
		} else {
			sb.WriteString("+")
		}
	}
	pos.UnmakeMove(turn, m, u)

	return sb.String()
}

// disambiguation returns the minimal from-square qualifier needed to distinguish m among pos's
// other legal moves of the same piece type to the same destination: file first, then
// rank, then both.
func disambiguation(pos *board.Position, turn board.Color, m board.Move) string {
	var sameFile, sameRank, other bool
	for _, cand := range pos.LegalMoves(turn) {
		if cand.Piece != m.Piece || cand.To != m.To || cand.From == m.From {
			continue
		}
		other = true
		if cand.From.File() == m.From.File() {
			sameFile = true
		}
		if cand.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	if !other {
		return ""
	}
	switch {
	case !sameFile:
		return m.From.File().String()
	case !sameRank:
		return m.From.Rank().String()
	default:
		return m.From.String()
	}
}
