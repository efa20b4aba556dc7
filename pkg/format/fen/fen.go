// Package fen reads and writes chess positions in Forsyth-Edwards Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/corvidchess/mindline/pkg/board"
)

// Initial is the FEN of the standard chess starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a six-field FEN record into a position, side to move, half-move clock and
// full-move number. Each field is validated independently and a malformed field produces a
// dedicated, typed error message rather than a generic parse failure.
func Decode(s string) (*board.Position, board.Color, int, int, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 6 {
		return nil, 0, 0, 0, fmt.Errorf("fen: expected 6 fields, got %v: %q", len(parts), s)
	}

	pieces, err := decodePlacement(parts[0])
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("fen: %w: %q", err, s)
	}

	turn, ok := parseColor(parts[1])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("fen: invalid active color %q: %q", parts[1], s)
	}

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("fen: invalid castling rights %q: %q", parts[2], s)
	}

	var ep board.Square
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, 0, 0, 0, fmt.Errorf("fen: invalid en passant target %q: %q", parts[3], s)
		}
		ep = sq
	}

	halfMove, err := strconv.Atoi(parts[4])
	if err != nil || halfMove < 0 {
		return nil, 0, 0, 0, fmt.Errorf("fen: invalid half-move clock %q: %q", parts[4], s)
	}

	fullMoves, err := strconv.Atoi(parts[5])
	if err != nil || fullMoves < 1 {
		return nil, 0, 0, 0, fmt.Errorf("fen: invalid full-move number %q: %q", parts[5], s)
	}

	pos, err := board.NewPosition(pieces, castling, ep)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("fen: %w: %q", err, s)
	}
	return pos, turn, halfMove, fullMoves, nil
}

func decodePlacement(field string) ([]board.Placement, error) {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("expected 8 ranks in placement, got %v", len(ranks))
	}

	var pieces []board.Placement
	for i, rankField := range ranks {
		rank := board.Rank8 - board.Rank(i)

		file := board.ZeroFile
		for _, r := range rankField {
			switch {
			case unicode.IsDigit(r):
				file += board.File(r - '0')
			default:
				color, piece, ok := parsePiece(r)
				if !ok {
					return nil, fmt.Errorf("invalid piece character %q", r)
				}
				if !file.IsValid() {
					return nil, fmt.Errorf("rank %v overflows 8 files", rank)
				}
				pieces = append(pieces, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
				file++
			}
		}
		if file != board.NumFiles {
			return nil, fmt.Errorf("rank %v does not describe exactly 8 files", rank)
		}
	}
	return pieces, nil
}

// Encode renders a position and its game metadata in FEN notation.
func Encode(pos *board.Position, turn board.Color, halfMove, fullMoves int) string {
	var sb strings.Builder
	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			color, piece, ok := pos.Square(board.NewSquare(f, board.Rank(r)))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > int(board.Rank1) {
			sb.WriteRune('/')
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), printColor(turn), printCastling(pos.Castling()), ep, halfMove, fullMoves)
}

func parseColor(s string) (board.Color, bool) {
	switch s {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parseCastling(s string) (board.Castling, bool) {
	var ret board.Castling
	if s == "-" {
		return ret, true
	}
	for _, r := range s {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	var sb strings.Builder
	if c.IsAllowed(board.WhiteKingSideCastle) {
		sb.WriteRune('K')
	}
	if c.IsAllowed(board.WhiteQueenSideCastle) {
		sb.WriteRune('Q')
	}
	if c.IsAllowed(board.BlackKingSideCastle) {
		sb.WriteRune('k')
	}
	if c.IsAllowed(board.BlackQueenSideCastle) {
		sb.WriteRune('q')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	color := board.White
	if unicode.IsLower(r) {
		color = board.Black
	}
	switch unicode.ToUpper(r) {
	case 'P':
		return color, board.Pawn, true
	case 'N':
		return color, board.Knight, true
	case 'B':
		return color, board.Bishop, true
	case 'R':
		return color, board.Rook, true
	case 'Q':
		return color, board.Queen, true
	case 'K':
		return color, board.King, true
	default:
		return 0, 0, false
	}
}

func printPiece(c board.Color, p board.Piece) rune {
	var r rune
	switch p {
	case board.Pawn:
		r = 'p'
	case board.Knight:
		r = 'n'
	case board.Bishop:
		r = 'b'
	case board.Rook:
		r = 'r'
	case board.Queen:
		r = 'q'
	case board.King:
		r = 'k'
	default:
		r = '?'
	}
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}
