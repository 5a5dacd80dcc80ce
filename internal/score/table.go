// Package score keeps the running score and the ranked high-score table.
package score

import "math"

// Slots is the number of ranked entries.
const Slots = 5

// Sentinel marks an unused slot. It is what an erased cell pair reads back as
// and always yields to a new score.
const Sentinel uint32 = math.MaxUint32

// Entry is one ranked score with the player's two initials.
type Entry struct {
	Score    uint32
	Initials [2]byte
}

// Empty reports whether the slot is unused.
func (e Entry) Empty() bool {
	return e.Score == Sentinel
}

// Table holds exactly Slots entries in descending score order, with unused
// slots at the tail.
type Table struct {
	entries [Slots]Entry
}

// NewTable returns a table with every slot unused.
func NewTable() Table {
	var t Table
	for i := range t.entries {
		t.entries[i] = Entry{Score: Sentinel, Initials: [2]byte{' ', ' '}}
	}
	return t
}

// Entries returns a copy of the ranked entries.
func (t Table) Entries() [Slots]Entry {
	return t.entries
}

// Entry returns the entry at rank i.
func (t Table) Entry(i int) Entry {
	return t.entries[i]
}

// Rank returns the slot a new score would take: the first slot holding a
// lower score or no score at all. ok is false when the score does not place.
func (t *Table) Rank(score uint32) (rank int, ok bool) {
	for i, e := range t.entries {
		if e.Empty() || e.Score < score {
			return i, true
		}
	}
	return 0, false
}

// InsertAt shifts entries from rank down by one, discarding the last, and
// stores e at rank.
func (t *Table) InsertAt(rank int, e Entry) {
	if rank < 0 || rank >= Slots {
		return
	}
	copy(t.entries[rank+1:], t.entries[rank:Slots-1])
	t.entries[rank] = e
}

// SetInitials replaces the initials at rank.
func (t *Table) SetInitials(rank int, initials [2]byte) {
	if rank < 0 || rank >= Slots {
		return
	}
	t.entries[rank].Initials = initials
}
