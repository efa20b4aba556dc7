// Package mcts implements a Monte Carlo tree search engine, an alternative to the
// alpha-beta core for positions where a heuristic evaluation is less trustworthy than
// random playouts.
package mcts

import (
	"context"
	"math"
	"math/rand"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// nodeIdx indexes into Tree.nodes, an arena of nodes rather than a graph of heap-allocated,
// parent-pointing objects.
type nodeIdx int

const noNode nodeIdx = -1

type node struct {
	parent   nodeIdx
	via      board.Move // the move, from parent, that produced this node
	children []nodeIdx

	g            *board.Game
	untried      []board.Move
	visits, wins uint64
}

func (n *node) isTerminal() bool {
	return len(n.children) == 0 && len(n.untried) == 0 && !n.g.Result().None()
}

// Tree is an arena-backed Monte Carlo search tree rooted at a given game position.
type Tree struct {
	nodes []node
	rand  *rand.Rand

	// Exploration is the UCB1 exploration constant c. Defaults to sqrt(2) if zero.
	Exploration float64
	// Playouts is the number of random self-play games (K) run per simulation. Defaults to 1.
	Playouts int
}

// NewTree builds a tree rooted at g (cloned, so the caller retains ownership of its own copy).
func NewTree(g *board.Game, seed int64) *Tree {
	root := g.Clone()
	t := &Tree{rand: rand.New(rand.NewSource(seed))}
	t.nodes = append(t.nodes, node{parent: noNode, g: root, untried: root.LegalMoves()})
	return t
}

func (t *Tree) exploration() float64 {
	if t.Exploration == 0 {
		return math.Sqrt2
	}
	return t.Exploration
}

func (t *Tree) playouts() int {
	if t.Playouts == 0 {
		return 1
	}
	return t.Playouts
}

// Run executes iterations of select/expand/simulate/backpropagate until budget is exhausted or
// ctx is cancelled.12, then returns the root child with the most visits.
func (t *Tree) Run(ctx context.Context, iterations int) (board.Move, bool) {
	for i := 0; i < iterations; i++ {
		if contextx.IsCancelled(ctx) {
			break
		}
		leaf := t.selectAndExpand(0)
		wins, oppWins, visits := t.simulate(leaf)
		t.backpropagate(leaf, wins, oppWins, visits)
	}
	return t.bestChild(0)
}

// selectAndExpand descends from root, using UCB1 at each step, to the first node with untried
// moves; if that node is non-terminal, it expands one untried move at random and returns the
// new child. Terminal nodes are returned directly, short-circuiting expansion/simulation.
func (t *Tree) selectAndExpand(root nodeIdx) nodeIdx {
	cur := root
	for {
		n := &t.nodes[cur]
		if n.isTerminal() {
			return cur
		}
		if len(n.untried) > 0 {
			return t.expand(cur)
		}
		cur = t.selectBestChild(cur)
	}
}

// selectBestChild picks the child with maximum UCB1.12; an unvisited child has
// UCB1 = +Inf and is always preferred.
func (t *Tree) selectBestChild(idx nodeIdx) nodeIdx {
	n := &t.nodes[idx]

	best := n.children[0]
	bestScore := t.ucb1(best, n.visits)
	for _, c := range n.children[1:] {
		if score := t.ucb1(c, n.visits); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func (t *Tree) ucb1(idx nodeIdx, parentVisits uint64) float64 {
	n := &t.nodes[idx]
	if n.visits == 0 {
		return math.Inf(1)
	}
	exploitation := float64(n.wins) / float64(n.visits)
	exploration := t.exploration() * math.Sqrt(math.Log(float64(parentVisits))/float64(n.visits))
	return exploitation + exploration
}

// expand applies a random untried move from idx, adds the resulting position as a new child,
// and returns that child's index.
func (t *Tree) expand(idx nodeIdx) nodeIdx {
	n := &t.nodes[idx]

	i := t.rand.Intn(len(n.untried))
	m := n.untried[i]
	n.untried[i] = n.untried[len(n.untried)-1]
	n.untried = n.untried[:len(n.untried)-1]

	child := n.g.Clone()
	child.PushLegalMove(m)

	childIdx := nodeIdx(len(t.nodes))
	t.nodes = append(t.nodes, node{
		parent:  idx,
		via:     m,
		g:       child,
		untried: child.LegalMoves(),
	})

	// Re-fetch n: appending to t.nodes may have reallocated the backing array.
	t.nodes[idx].children = append(t.nodes[idx].children, childIdx)
	return childIdx
}

// simulate plays playouts() random self-play games from idx to completion, returning the wins
// credited to each side and the number of games played. Draws credit neither side.
func (t *Tree) simulate(idx nodeIdx) (wins, oppWins, visits uint64) {
	n := &t.nodes[idx]
	side := n.g.Turn()

	k := t.playouts()
	for i := 0; i < k; i++ {
		if result := t.playout(n.g); !result.None() {
			if winner, ok := result.Winner(); ok {
				if winner == side {
					wins++
				} else {
					oppWins++
				}
			}
		}
		visits++
	}
	return wins, oppWins, visits
}

// playout plays uniformly random legal moves from a clone of g until the game ends.
func (t *Tree) playout(g *board.Game) board.Result {
	game := g.Clone()
	for game.Result().None() {
		moves := game.LegalMoves()
		if len(moves) == 0 {
			break
		}
		game.PushLegalMove(moves[t.rand.Intn(len(moves))])
	}
	return game.Result()
}

// backpropagate walks from idx to the root, crediting each node with the playouts run. A
// node's wins are kept from the perspective of the side that moved into it, so that a parent
// selecting the child with maximal win rate (UCB1 exploitation) favors its own mover. The
// incoming wins are from idx's side-to-move perspective, hence the flip on the first step.
func (t *Tree) backpropagate(idx nodeIdx, wins, oppWins, visits uint64) {
	credit, other := oppWins, wins
	for cur := idx; cur != noNode; cur = t.nodes[cur].parent {
		n := &t.nodes[cur]
		n.visits += visits
		n.wins += credit
		credit, other = other, credit
	}
}

// RootWinRate returns the fraction of playouts won by the root's side to move, 0.5 if nothing
// has been simulated yet. Wins on the root's children are kept from the root mover's
// perspective, so they sum directly.
func (t *Tree) RootWinRate() float64 {
	var wins, visits uint64
	for _, c := range t.nodes[0].children {
		wins += t.nodes[c].wins
		visits += t.nodes[c].visits
	}
	if visits == 0 {
		return 0.5
	}
	return float64(wins) / float64(visits)
}

// bestChild returns the move labeling the root child with the most visits.
func (t *Tree) bestChild(root nodeIdx) (board.Move, bool) {
	n := &t.nodes[root]
	if len(n.children) == 0 {
		return board.Move{}, false
	}

	best := n.children[0]
	for _, c := range n.children[1:] {
		if t.nodes[c].visits > t.nodes[best].visits {
			best = c
		}
	}
	return t.nodes[best].via, true
}
