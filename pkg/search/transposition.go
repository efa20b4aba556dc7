package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable speeds up search by caching previously-searched positions, keyed by
// Zobrist hash. Must be thread-safe, though in this design a table is search-local and used
// by exactly one worker goroutine for the duration of a search.
type TranspositionTable interface {
	// Read returns the bound, search depth, score and best move recorded for hash, if present.
	Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool)
	// Write stores the entry, subject to the table's age-aware replacement policy:
	// an existing entry searched to greater depth in the current generation is kept.
	Write(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) bool
	// NewGeneration starts a new age bracket, so stale entries from a prior search on a
	// different position can be evicted in preference to fresh ones at equal depth.
	NewGeneration()

	Size() uint64
	Used() float64
}

type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

type tableEntry struct {
	used  bool
	hash  board.ZobristHash
	bound Bound
	depth int
	age   uint32
	score eval.Score
	move  board.Move
}

// table is a fixed-size, direct-mapped transposition table. Replacement is guarded by a
// single mutex rather than the lock-free atomic-pointer trick some engines use for this,
// since getting that right without being able to compile or race-test it here is not worth
// the risk; a single table serves one search goroutine at a time anyway.
type table struct {
	mu      sync.Mutex
	entries []tableEntry
	mask    uint64
	used    uint64
	age     uint32
}

func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	const bytesPerEntry = 48

	n := size / bytesPerEntry
	if n == 0 {
		n = 1
	}
	pow := uint64(1) << uint(63-bits.LeadingZeros64(n))

	logw.Infof(ctx, "Allocating %vMB TT with %v entries", size>>20, pow)

	return &table{
		entries: make([]tableEntry, pow),
		mask:    pow - 1,
	}
}

func (t *table) Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entries[uint64(hash)&t.mask]
	if !e.used || e.hash != hash {
		return 0, 0, eval.Score{}, board.Move{}, false
	}
	return e.bound, e.depth, e.score, e.move, true
}

func (t *table) Write(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := uint64(hash) & t.mask
	cur := t.entries[idx]
	if cur.used && cur.age == t.age && cur.depth > depth {
		return false // keep: existing entry searched deeper in the same generation
	}

	if !cur.used {
		t.used++
	}
	t.entries[idx] = tableEntry{used: true, hash: hash, bound: bound, depth: depth, age: t.age, score: score, move: move}
	return true
}

func (t *table) NewGeneration() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.age++
}

func (t *table) Size() uint64 {
	return uint64(len(t.entries)) * 48
}

func (t *table) Used() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.used) / float64(len(t.entries))
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// NoTranspositionTable is a Nop implementation, used when hashing is disabled.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	return 0, 0, eval.Score{}, board.Move{}, false
}

func (NoTranspositionTable) Write(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) bool {
	return false
}

func (NoTranspositionTable) NewGeneration() {}

func (NoTranspositionTable) Size() uint64 { return 0 }

func (NoTranspositionTable) Used() float64 { return 0 }
