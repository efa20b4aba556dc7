package board

import (
	"fmt"
	"strings"
)

// MoveType indicates the type of move. The no-progress counter is reset by any pawn move or capture (see ResetsHalfMoveClock).
type MoveType uint8

const (
	Normal    MoveType = iota
	Push               // Pawn single-square move
	Jump               // Pawn 2-square move
	EnPassant          // Implicitly a pawn capture
	QueenSideCastle
	KingSideCastle
	Capture
	Promotion
	CapturePromotion
)

// Move represents a not-necessarily legal move along with the metadata needed to make and
// unmake it without re-deriving it from the position.
type Move struct {
	Type      MoveType
	Piece     Piece // the piece making the move
	From, To  Square
	Promotion Piece // desired piece for promotion, if any.
	Capture   Piece // captured piece, if any.
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q". The
// parsed move carries no contextual information (type, captured piece); a position must be
// consulted to classify it fully, see Game.PushMove.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}

	return Move{From: from, To: to}, nil
}

// IsCapture reports whether the move removes an opposing piece from the board.
func (m Move) IsCapture() bool {
	return m.Type == Capture || m.Type == CapturePromotion || m.Type == EnPassant
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Type == Promotion || m.Type == CapturePromotion
}

// IsCastle reports whether the move is a castle.
func (m Move) IsCastle() bool {
	return m.Type == QueenSideCastle || m.Type == KingSideCastle
}

// IsQuiet reports whether the move is neither a capture nor a promotion, for killer-move and
// quiescence-search purposes.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// ResetsHalfMoveClock reports whether the move is irreversible for the purposes of the 50-move
// rule: any pawn move or any capture.
func (m Move) ResetsHalfMoveClock() bool {
	return m.Piece == Pawn || m.IsCapture()
}

// EnPassantCapture returns the square of the pawn captured by an en passant move.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return ZeroSquare, false
	}
	return NewSquare(m.To.File(), m.From.Rank()), true
}

// CastlingRookMove returns the rook's from/to squares for a castling move.
func (m Move) CastlingRookMove() (Square, Square, bool) {
	switch m.Type {
	case KingSideCastle:
		if m.From.Rank() == Rank1 {
			return H1, F1, true
		}
		return H8, F8, true
	case QueenSideCastle:
		if m.From.Rank() == Rank1 {
			return A1, D1, true
		}
		return A8, D8, true
	default:
		return ZeroSquare, ZeroSquare, false
	}
}

// CastlingRightsLost returns the castling rights this move revokes: a king move loses both of
// its side's rights, a rook move or a capture on a rook's home square loses that single right.
func (m Move) CastlingRightsLost() Castling {
	var lost Castling

	switch m.Piece {
	case King:
		switch m.From {
		case E1:
			lost |= WhiteKingSideCastle | WhiteQueenSideCastle
		case E8:
			lost |= BlackKingSideCastle | BlackQueenSideCastle
		}
	case Rook:
		lost |= rookHomeRight(m.From)
	}
	if m.IsCapture() {
		lost |= rookHomeRight(m.To)
	}
	return lost
}

func rookHomeRight(sq Square) Castling {
	switch sq {
	case A1:
		return WhiteQueenSideCastle
	case H1:
		return WhiteKingSideCastle
	case A8:
		return BlackQueenSideCastle
	case H8:
		return BlackKingSideCastle
	default:
		return 0
	}
}

// EnPassantTarget returns the skipped-over square for a 2-square pawn push, the square a future
// en passant capture would target.
func (m Move) EnPassantTarget() (Square, bool) {
	if m.Type != Jump {
		return ZeroSquare, false
	}
	if m.From.Rank() == Rank2 {
		return NewSquare(m.From.File(), Rank3), true
	}
	return NewSquare(m.From.File(), Rank6), true
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

func (m Move) String() string {
	if m.Promotion.IsValid() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// FormatMoves renders a move sequence space-separated, using fn to format each move.
func FormatMoves(moves []Move, fn func(Move) string) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(fn(m))
	}
	return sb.String()
}
