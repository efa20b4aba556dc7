package board

// CheckStatus classifies how many opposing pieces attack the side-to-move's king, which
// determines the legal move generation regime.
type CheckStatus uint8

const (
	NoCheck CheckStatus = iota
	SimpleCheck
	DoubleCheck
)

// Check returns the check status for the side to move, along with the attacker square for
// SimpleCheck (undefined otherwise).
func (p *Position) Check(turn Color) (CheckStatus, Square) {
	checkers := p.Checkers(turn)
	switch checkers.PopCount() {
	case 0:
		return NoCheck, ZeroSquare
	case 1:
		return SimpleCheck, checkers.LSB()
	default:
		return DoubleCheck, ZeroSquare
	}
}

// LegalMoves returns all legal moves for turn in the position, dispatching on check
// status: No-check filters pseudo-legal moves for discovered check; Simple-check restricts to king
// moves, capturing the checker, or interposing against a sliding checker; Double-check allows
// only king moves.
func (p *Position) LegalMoves(turn Color) []Move {
	status, attacker := p.Check(turn)

	switch status {
	case DoubleCheck:
		return p.kingMoves(turn)

	case SimpleCheck:
		var moves []Move
		moves = append(moves, p.kingMoves(turn)...)
		moves = append(moves, p.checkResponses(turn, attacker)...)
		return moves

	default:
		moves := p.pseudoLegalMovesExcludingKing(turn)
		legal := make([]Move, 0, len(moves)+8)
		for _, m := range moves {
			if !p.discoversCheck(turn, m) {
				legal = append(legal, m)
			}
		}
		legal = append(legal, p.kingMoves(turn)...)
		legal = append(legal, p.castlingMoves(turn)...)
		return legal
	}
}

// checkResponses generates the legal non-king responses to a single checking piece: capturing
// it, or interposing a piece between it and the king if the checker slides.
func (p *Position) checkResponses(turn Color, attacker Square) []Move {
	king := p.King(turn)
	var blockMask Bitboard
	if _, piece, ok := p.Square(attacker); ok && piece.IsSlider() {
		blockMask = between(attacker, king)
	}
	targetMask := BitMask(attacker) | blockMask

	var moves []Move
	for _, m := range p.pseudoLegalMovesExcludingKing(turn) {
		capturesChecker := m.To == attacker
		if epc, ok := m.EnPassantCapture(); ok && epc == attacker {
			capturesChecker = true
		}
		blocksCheck := targetMask&BitMask(m.To) != 0

		if !capturesChecker && !blocksCheck {
			continue
		}
		if p.discoversCheck(turn, m) {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

// between returns the bitboard of squares strictly between a and b along a shared rank, file,
// or diagonal; empty if they do not share one.
func between(a, b Square) Bitboard {
	af, ar := int(a.File()), int(a.Rank())
	bf, br := int(b.File()), int(b.Rank())

	df, dr := sign(bf-af), sign(br-ar)
	if df == 0 && dr == 0 {
		return 0
	}
	if df != 0 && dr != 0 && abs(bf-af) != abs(br-ar) {
		return 0
	}
	if df == 0 && af != bf {
		return 0
	}
	if dr == 0 && ar != br {
		return 0
	}

	var mask Bitboard
	f, r := af+df, ar+dr
	for f != bf || r != br {
		mask |= BitMask(NewSquare(File(f), Rank(r)))
		f, r = f+df, r+dr
	}
	return mask
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// discoversCheck reports whether making m would leave turn's own king in check: either the king
// itself moves into an attacked square, or the moving piece was pinned (sits on a ray from the
// king, leaves that ray, and a slider of the matching direction sees the king through the
// vacated/occupied squares). Implemented by simulated
// make/unmake rather than incremental ray tracking, since Go's make/unmake here is cheap.
func (p *Position) discoversCheck(turn Color, m Move) bool {
	u := p.MakeMove(turn, m)
	checked := p.IsAttacked(turn, p.King(turn))
	p.UnmakeMove(turn, m, u)
	return checked
}

// kingMoves generates king moves that do not land on an attacked square, via a full
// is-the-destination-attacked probe after the simulated move.
func (p *Position) kingMoves(turn Color) []Move {
	sq := p.King(turn)
	targets := KingAttackboard(sq) &^ p.ColorOccupancy(turn)

	var moves []Move
	for targets != 0 {
		to := targets.PopLSB()
		m := p.classify(turn, King, sq, to)
		if p.discoversCheck(turn, m) {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

func (p *Position) pseudoLegalMovesExcludingKing(turn Color) []Move {
	var moves []Move
	own := p.ColorOccupancy(turn)
	occ := p.Occupancy()

	for piece := Pawn; piece <= Queen; piece++ {
		if piece == Pawn {
			moves = append(moves, p.pawnMoves(turn)...)
			continue
		}
		pieces := p.PieceOccupancy(turn, piece)
		for pieces != 0 {
			from := pieces.PopLSB()
			targets := Attackboard(occ, from, piece) &^ own
			for targets != 0 {
				to := targets.PopLSB()
				moves = append(moves, p.classify(turn, piece, from, to))
			}
		}
	}
	return moves
}

// classify builds a fully-typed Move for a non-pawn, non-castling move from->to.
func (p *Position) classify(turn Color, piece Piece, from, to Square) Move {
	if _, capture, ok := p.Square(to); ok {
		return Move{Type: Capture, Piece: piece, From: from, To: to, Capture: capture}
	}
	return Move{Type: Normal, Piece: piece, From: from, To: to}
}

// pawnMoves generates all pseudo-legal pawn pushes, jumps, captures, en passant captures and
// promotions for turn.
func (p *Position) pawnMoves(turn Color) []Move {
	var moves []Move
	occ := p.Occupancy()
	pawns := p.PieceOccupancy(turn, Pawn)

	single := PawnMoveboard(occ, turn, pawns)
	for s := single; s != 0; {
		to := s.PopLSB()
		from := pawnPushOrigin(turn, to)
		moves = append(moves, p.expandPawnMove(turn, Push, from, to, NoPiece)...)
	}

	// A 2-square jump is only possible from the home rank, with both the one-step and
	// two-step squares empty; shifting the (already blocker-filtered) one-step landing
	// squares a second time yields exactly those still-clear two-step destinations.
	oneStepFromHome := PawnMoveboard(occ, turn, pawns&PawnHomeRank(turn))
	jumpTargets := PawnMoveboard(occ, turn, oneStepFromHome) & PawnJumpRank(turn)
	for j := jumpTargets; j != 0; {
		to := j.PopLSB()
		from := pawnPushOrigin(turn, pawnPushOrigin(turn, to))
		moves = append(moves, Move{Type: Jump, Piece: Pawn, From: from, To: to})
	}

	captures := PawnCaptureboard(turn, pawns)
	opp := p.ColorOccupancy(turn.Opponent())
	for c := captures & opp; c != 0; {
		to := c.PopLSB()
		for _, from := range pawnCaptureOrigins(turn, to, pawns) {
			_, capture, _ := p.Square(to)
			moves = append(moves, p.expandPawnMove(turn, Capture, from, to, capture)...)
		}
	}

	if ep, ok := p.EnPassant(); ok {
		for _, from := range pawnCaptureOrigins(turn, ep, pawns) {
			moves = append(moves, Move{Type: EnPassant, Piece: Pawn, From: from, To: ep, Capture: Pawn})
		}
	}

	return moves
}

// expandPawnMove returns a single move, or (if to lands on the promotion rank) the four
// promotion variants.
func (p *Position) expandPawnMove(turn Color, t MoveType, from, to Square, capture Piece) []Move {
	if PawnPromotionRank(turn)&BitMask(to) == 0 {
		return []Move{{Type: t, Piece: Pawn, From: from, To: to, Capture: capture}}
	}

	pt := Promotion
	if t == Capture {
		pt = CapturePromotion
	}
	promos := []Piece{Queen, Rook, Bishop, Knight}
	moves := make([]Move, 0, 4)
	for _, promo := range promos {
		moves = append(moves, Move{Type: pt, Piece: Pawn, From: from, To: to, Promotion: promo, Capture: capture})
	}
	return moves
}

func pawnPushOrigin(turn Color, to Square) Square {
	if turn == White {
		return to - 8
	}
	return to + 8
}

func pawnCaptureOrigins(turn Color, to Square, pawns Bitboard) []Square {
	var froms []Square
	candidates := PawnCaptureboard(turn.Opponent(), BitMask(to)) // reverse: squares that attack `to` as turn's pawns would
	for c := candidates & pawns; c != 0; {
		froms = append(froms, c.PopLSB())
	}
	return froms
}

// castlingMoves generates castling moves for turn, only valid when not in check (callers only
// invoke this from the No-check regime).
func (p *Position) castlingMoves(turn Color) []Move {
	var moves []Move
	occ := p.Occupancy()

	if turn == White {
		if p.Castling().IsAllowed(WhiteKingSideCastle) && occ&(BitMask(F1)|BitMask(G1)) == 0 &&
			!p.IsAttacked(White, E1) && !p.IsAttacked(White, F1) && !p.IsAttacked(White, G1) {
			moves = append(moves, Move{Type: KingSideCastle, Piece: King, From: E1, To: G1})
		}
		if p.Castling().IsAllowed(WhiteQueenSideCastle) && occ&(BitMask(B1)|BitMask(C1)|BitMask(D1)) == 0 &&
			!p.IsAttacked(White, E1) && !p.IsAttacked(White, D1) && !p.IsAttacked(White, C1) {
			moves = append(moves, Move{Type: QueenSideCastle, Piece: King, From: E1, To: C1})
		}
	} else {
		if p.Castling().IsAllowed(BlackKingSideCastle) && occ&(BitMask(F8)|BitMask(G8)) == 0 &&
			!p.IsAttacked(Black, E8) && !p.IsAttacked(Black, F8) && !p.IsAttacked(Black, G8) {
			moves = append(moves, Move{Type: KingSideCastle, Piece: King, From: E8, To: G8})
		}
		if p.Castling().IsAllowed(BlackQueenSideCastle) && occ&(BitMask(B8)|BitMask(C8)|BitMask(D8)) == 0 &&
			!p.IsAttacked(Black, E8) && !p.IsAttacked(Black, D8) && !p.IsAttacked(Black, C8) {
			moves = append(moves, Move{Type: QueenSideCastle, Piece: King, From: E8, To: C8})
		}
	}
	return moves
}
