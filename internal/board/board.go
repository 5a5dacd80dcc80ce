// Package board is a falling-block playfield that serves the game loop's four
// board operations.
package board

import (
	"github.com/verte-zerg/blockfall/internal/game"
	"github.com/verte-zerg/blockfall/internal/score"
)

const (
	Width  = 10
	Height = 20
)

// Kind is a piece shape.
type Kind int

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
	Kinds = 7
)

// Cell is 0 when empty, otherwise the Kind+1 that filled it.
type Cell uint8

// Empty reports whether nothing occupies the cell.
func (c Cell) Empty() bool { return c == 0 }

// Kind returns the shape that filled the cell. Only meaningful if not empty.
func (c Cell) Kind() Kind { return Kind(c) - 1 }

// Dealer supplies piece kinds.
type Dealer interface {
	Next() int
	Reset()
}

type point struct{ x, y int }

type shape struct {
	size   int
	blocks [4]point
}

var shapes = [Kinds]shape{
	KindI: {size: 4, blocks: [4]point{{0, 1}, {1, 1}, {2, 1}, {3, 1}}},
	KindO: {size: 2, blocks: [4]point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	KindT: {size: 3, blocks: [4]point{{1, 0}, {0, 1}, {1, 1}, {2, 1}}},
	KindS: {size: 3, blocks: [4]point{{1, 0}, {2, 0}, {0, 1}, {1, 1}}},
	KindZ: {size: 3, blocks: [4]point{{0, 0}, {1, 0}, {1, 1}, {2, 1}}},
	KindJ: {size: 3, blocks: [4]point{{0, 0}, {0, 1}, {1, 1}, {2, 1}}},
	KindL: {size: 3, blocks: [4]point{{2, 0}, {0, 1}, {1, 1}, {2, 1}}},
}

// lineScores is indexed by rows cleared in one fix.
var lineScores = [5]uint32{0, 40, 100, 300, 1200}

type piece struct {
	kind   Kind
	x, y   int
	size   int
	blocks [4]point
}

func (p piece) cells() [4]point {
	var out [4]point
	for i, b := range p.blocks {
		out[i] = point{p.x + b.x, p.y + b.y}
	}
	return out
}

func (p piece) rotated() piece {
	q := p
	for i, b := range p.blocks {
		q.blocks[i] = point{p.size - 1 - b.y, b.x}
	}
	return q
}

// Board is the playfield plus the falling piece and running totals.
type Board struct {
	cells   [Height][Width]Cell
	current piece
	dealer  Dealer
	points  score.Counter
	rows    int
	pieces  int
}

// New returns an empty board. Call Reset before play.
func New(d Dealer) *Board {
	return &Board{dealer: d}
}

// Reset clears the playfield and totals and spawns the first piece.
func (b *Board) Reset() {
	b.cells = [Height][Width]Cell{}
	b.points.Reset()
	b.rows = 0
	b.pieces = 0
	b.dealer.Reset()
	b.spawn()
}

// AttemptMove shifts the falling piece one column.
func (b *Board) AttemptMove(dir game.Direction) bool {
	next := b.current
	if dir == game.Left {
		next.x--
	} else {
		next.x++
	}
	return b.try(next)
}

// AttemptRotation turns the falling piece clockwise, nudging it one column
// either way if it would collide.
func (b *Board) AttemptRotation() bool {
	if b.current.kind == KindO {
		return true
	}
	next := b.current.rotated()
	for _, dx := range []int{0, -1, 1} {
		kicked := next
		kicked.x += dx
		if b.try(kicked) {
			return true
		}
	}
	return false
}

// AttemptDropOneRow moves the falling piece down. false means it has landed.
func (b *Board) AttemptDropOneRow() bool {
	next := b.current
	next.y++
	return b.try(next)
}

// FixAndSpawn commits the falling piece, clears full rows, and spawns the
// next piece. false means the new piece has no room.
func (b *Board) FixAndSpawn() bool {
	for _, c := range b.current.cells() {
		if c.y >= 0 {
			b.cells[c.y][c.x] = Cell(b.current.kind) + 1
		}
	}
	cleared := b.clearRows()
	b.rows += cleared
	b.points.Add(lineScores[cleared])
	b.pieces++
	return b.spawn()
}

// Score is the running score.
func (b *Board) Score() uint32 {
	return b.points.Value()
}

// ClearedRows is the number of rows removed this game.
func (b *Board) ClearedRows() int {
	return b.rows
}

// Pieces is the number of pieces fixed this game.
func (b *Board) Pieces() int {
	return b.pieces
}

// Cells returns the playfield with the falling piece drawn in.
func (b *Board) Cells() [Height][Width]Cell {
	out := b.cells
	for _, c := range b.current.cells() {
		if c.y >= 0 && c.y < Height && c.x >= 0 && c.x < Width {
			out[c.y][c.x] = Cell(b.current.kind) + 1
		}
	}
	return out
}

func (b *Board) spawn() bool {
	kind := Kind(b.dealer.Next() % Kinds)
	s := shapes[kind]
	b.current = piece{
		kind:   kind,
		x:      (Width - s.size) / 2,
		y:      0,
		size:   s.size,
		blocks: s.blocks,
	}
	return b.fits(b.current)
}

func (b *Board) try(p piece) bool {
	if !b.fits(p) {
		return false
	}
	b.current = p
	return true
}

func (b *Board) fits(p piece) bool {
	for _, c := range p.cells() {
		if c.x < 0 || c.x >= Width || c.y >= Height {
			return false
		}
		if c.y >= 0 && !b.cells[c.y][c.x].Empty() {
			return false
		}
	}
	return true
}

func (b *Board) clearRows() int {
	cleared := 0
	dst := Height - 1
	for src := Height - 1; src >= 0; src-- {
		if full(b.cells[src]) {
			cleared++
			continue
		}
		b.cells[dst] = b.cells[src]
		dst--
	}
	for ; dst >= 0; dst-- {
		b.cells[dst] = [Width]Cell{}
	}
	return cleared
}

func full(row [Width]Cell) bool {
	for _, c := range row {
		if c.Empty() {
			return false
		}
	}
	return true
}
