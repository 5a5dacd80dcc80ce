package board

import (
	"testing"

	"github.com/verte-zerg/blockfall/internal/game"
)

// fixedDealer always deals the same kind.
type fixedDealer struct {
	kind   Kind
	resets int
}

func (d *fixedDealer) Next() int { return int(d.kind) }
func (d *fixedDealer) Reset()    { d.resets++ }

func newBoard(kind Kind) *Board {
	b := New(&fixedDealer{kind: kind})
	b.Reset()
	return b
}

func countFilled(cells [Height][Width]Cell) int {
	n := 0
	for _, row := range cells {
		for _, c := range row {
			if !c.Empty() {
				n++
			}
		}
	}
	return n
}

func TestDropUntilLanded(t *testing.T) {
	b := newBoard(KindO)
	drops := 0
	for b.AttemptDropOneRow() {
		drops++
	}
	if drops != Height-2 {
		t.Fatalf("expected %d drops, got %d", Height-2, drops)
	}
	if !b.FixAndSpawn() {
		t.Fatalf("expected room for the next piece")
	}
	if b.Pieces() != 1 {
		t.Fatalf("expected one fixed piece, got %d", b.Pieces())
	}
	if got := countFilled(b.Cells()); got != 8 {
		t.Fatalf("expected fixed and falling pieces drawn, got %d cells", got)
	}
}

func TestMoveStopsAtWalls(t *testing.T) {
	b := newBoard(KindO)
	moves := 0
	for b.AttemptMove(game.Left) {
		moves++
	}
	if moves != (Width-2)/2 {
		t.Fatalf("expected %d moves left, got %d", (Width-2)/2, moves)
	}
	moves = 0
	for b.AttemptMove(game.Right) {
		moves++
	}
	if moves != Width-2 {
		t.Fatalf("expected %d moves right, got %d", Width-2, moves)
	}
}

func TestRotationCycles(t *testing.T) {
	b := newBoard(KindT)
	b.AttemptDropOneRow()
	before := b.Cells()
	for i := 0; i < 4; i++ {
		if !b.AttemptRotation() {
			t.Fatalf("rotation %d blocked on an empty board", i)
		}
	}
	if b.Cells() != before {
		t.Fatalf("expected four rotations to restore the piece")
	}
}

func TestRotationKicksOffWall(t *testing.T) {
	b := newBoard(KindI)
	b.AttemptRotation()
	for b.AttemptMove(game.Right) {
	}
	for b.AttemptDropOneRow() {
		if b.current.y > 2 {
			break
		}
	}
	if !b.AttemptRotation() {
		t.Fatalf("expected the I piece to kick away from the wall")
	}
}

func TestClearingRowsScores(t *testing.T) {
	b := newBoard(KindO)
	for x := 0; x < Width; x += 2 {
		for b.AttemptMove(game.Left) {
		}
		for i := 0; i < x; i++ {
			b.AttemptMove(game.Right)
		}
		for b.AttemptDropOneRow() {
		}
		if !b.FixAndSpawn() {
			t.Fatalf("board filled unexpectedly")
		}
	}
	if b.ClearedRows() != 2 {
		t.Fatalf("expected two cleared rows, got %d", b.ClearedRows())
	}
	if b.Score() != 100 {
		t.Fatalf("expected 100 points, got %d", b.Score())
	}
	if got := countFilled(b.Cells()); got != 4 {
		t.Fatalf("expected only the falling piece left, got %d cells", got)
	}
}

func TestFullBoardEndsGame(t *testing.T) {
	b := newBoard(KindO)
	for i := 0; i < Height; i++ {
		for b.AttemptDropOneRow() {
		}
		if !b.FixAndSpawn() {
			return
		}
	}
	t.Fatalf("expected spawn to fail once the column is full")
}

func TestResetClearsTotals(t *testing.T) {
	d := &fixedDealer{kind: KindO}
	b := New(d)
	b.Reset()
	for b.AttemptDropOneRow() {
	}
	b.FixAndSpawn()
	b.Reset()
	if b.Pieces() != 0 || b.Score() != 0 || b.ClearedRows() != 0 {
		t.Fatalf("expected fresh totals after reset")
	}
	if countFilled(b.Cells()) != 4 {
		t.Fatalf("expected only the spawned piece after reset")
	}
	if d.resets != 2 {
		t.Fatalf("expected dealer reset each game, got %d", d.resets)
	}
}
