// Package epd reads and writes Extended Position Description records: FEN's first
// four fields (placement, side to move, castling, en passant) followed by one or more
// semicolon-terminated operations.
package epd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/format/fen"
	"github.com/corvidchess/mindline/pkg/format/san"
)

// Operation is a single EPD opcode/operand pair, in the order it appeared in the record.
type Operation struct {
	Code    string // "bm", "am", "id", ...
	Operand string // raw operand text, as written (SAN move text or a quoted string's contents)
}

// Record is a decoded EPD position plus its operations, in their original order.
type Record struct {
	Position *board.Position
	Turn     board.Color
	Ops      []Operation

	// BestMoves and AvoidMoves hold the bm/am operations resolved against Position's legal
	// moves, in their original order.
	BestMoves, AvoidMoves []board.Move
}

// Decode parses an EPD record. bm/am operands must parse as legal SAN in the decoded position.
func Decode(lang san.Language, s string) (*Record, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil, fmt.Errorf("epd: expected at least 4 position fields: %q", s)
	}

	placement, turn, castling, ep := fields[0], fields[1], fields[2], fields[3]
	synthetic := strings.Join([]string{placement, turn, castling, ep, "0", "1"}, " ")

	pos, color, _, _, err := fen.Decode(synthetic)
	if err != nil {
		return nil, fmt.Errorf("epd: %w", err)
	}

	rest := strings.TrimSpace(afterFields(s, 4))
	ops, err := parseOperations(rest)
	if err != nil {
		return nil, fmt.Errorf("epd: %w: %q", err, s)
	}

	r := &Record{Position: pos, Turn: color, Ops: ops}
	for _, op := range ops {
		switch op.Code {
		case "bm":
			m, err := san.Decode(lang, pos, color, op.Operand)
			if err != nil {
				return nil, fmt.Errorf("epd: bm %w: %q", err, s)
			}
			r.BestMoves = append(r.BestMoves, m)
		case "am":
			m, err := san.Decode(lang, pos, color, op.Operand)
			if err != nil {
				return nil, fmt.Errorf("epd: am %w: %q", err, s)
			}
			r.AvoidMoves = append(r.AvoidMoves, m)
		}
	}
	return r, nil
}

// afterFields returns the substring of s following its first n whitespace-separated fields,
// preserving whatever follows verbatim (needed since operand text itself contains spaces).
func afterFields(s string, n int) string {
	i := 0
	for f := 0; f < n; f++ {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		for i < len(s) && s[i] != ' ' {
			i++
		}
	}
	return s[i:]
}

func parseOperations(s string) ([]Operation, error) {
	var ops []Operation
	for len(s) > 0 {
		s = strings.TrimSpace(s)
		if s == "" {
			break
		}

		sp := strings.IndexByte(s, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("malformed operation near %q", s)
		}
		code := s[:sp]
		s = strings.TrimSpace(s[sp+1:])

		var operand string
		if strings.HasPrefix(s, `"`) {
			end := strings.IndexByte(s[1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted operand near %q", s)
			}
			operand = s[1 : 1+end]
			s = s[1+end+1:]
			s = strings.TrimPrefix(strings.TrimSpace(s), ";")
		} else {
			semi := strings.IndexByte(s, ';')
			if semi < 0 {
				return nil, fmt.Errorf("operation %q not terminated with ';'", code)
			}
			operand = strings.TrimSpace(s[:semi])
			s = s[semi+1:]
		}

		ops = append(ops, Operation{Code: code, Operand: operand})
	}
	return ops, nil
}

// Encode renders r back to its canonical EPD form, preserving the original operation order.
func Encode(lang san.Language, r *Record) string {
	var sb strings.Builder
	sb.WriteString(encodeFEN4(r.Position, r.Turn))

	for _, op := range r.Ops {
		sb.WriteString(" ")
		sb.WriteString(op.Code)
		sb.WriteString(" ")
		if op.Code == "id" {
			sb.WriteString(strconv.Quote(op.Operand))
		} else {
			sb.WriteString(op.Operand)
		}
		sb.WriteString(";")
	}
	return sb.String()
}

func encodeFEN4(pos *board.Position, turn board.Color) string {
	full := fen.Encode(pos, turn, 0, 1)
	fields := strings.Fields(full)
	return strings.Join(fields[:4], " ")
}
