package board

import "strings"

// Piece represents a chess piece (King, Pawn, etc) with no color. 3 bits.
type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Bishop
	Knight
	Rook
	Queen
	King
)

const (
	ZeroPiece Piece = 1 // Pawn, the first valid piece; use NoPiece explicitly for "empty".
	NumPieces Piece = 7 // includes NoPiece at index 0, so piece-indexed arrays can use it directly.
)

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'b', 'B':
		return Bishop, true
	case 'n', 'N':
		return Knight, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPiece, false
	}
}

func (p Piece) IsValid() bool {
	return Pawn <= p && p <= King
}

// IsSlider reports whether the piece slides along rays (Bishop, Rook, Queen).
func (p Piece) IsSlider() bool {
	return p == Bishop || p == Rook || p == Queen
}

// Letter renders the piece letter in the given color's case, as used in FEN/SAN: uppercase for
// White, lowercase for Black.
func (p Piece) Letter(c Color) rune {
	s := p.String()
	if c == White {
		s = strings.ToUpper(s)
	}
	return []rune(s)[0]
}

func (p Piece) String() string {
	switch p {
	case NoPiece:
		return " "
	case Pawn:
		return "p"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}
