package score

import (
	"fmt"

	"github.com/verte-zerg/blockfall/internal/eeprom"
)

// Layout places the table in non-volatile memory. Each score occupies two
// words (low, high) starting at ScoreBase; each initial occupies one word
// starting at InitialsBase.
type Layout struct {
	ScoreBase    uint16
	InitialsBase uint16
}

// DefaultLayout keeps scores at the start of the part and initials at 100.
var DefaultLayout = Layout{ScoreBase: 0, InitialsBase: 100}

func (l Layout) scoreAddr(i int) uint16 {
	return l.ScoreBase + uint16(i*4)
}

func (l Layout) initialAddr(i, j int) uint16 {
	return l.InitialsBase + uint16(i*4+j*2)
}

// Load reads the score words and initial words into a table.
func (l Layout) Load(dev eeprom.Device) (Table, error) {
	t := NewTable()
	for i := 0; i < Slots; i++ {
		lo, err := dev.ReadWord(l.scoreAddr(i))
		if err != nil {
			return Table{}, fmt.Errorf("read score %d: %w", i, err)
		}
		hi, err := dev.ReadWord(l.scoreAddr(i) + 2)
		if err != nil {
			return Table{}, fmt.Errorf("read score %d: %w", i, err)
		}
		t.entries[i].Score = uint32(hi)<<16 | uint32(lo)
		for j := 0; j < 2; j++ {
			w, err := dev.ReadWord(l.initialAddr(i, j))
			if err != nil {
				return Table{}, fmt.Errorf("read initials %d: %w", i, err)
			}
			t.entries[i].Initials[j] = byte(w)
		}
	}
	return t, nil
}

// SaveScores writes all score slots.
func (l Layout) SaveScores(dev eeprom.Device, t Table) error {
	for i, e := range t.entries {
		if err := dev.WriteWord(l.scoreAddr(i), uint16(e.Score)); err != nil {
			return fmt.Errorf("write score %d: %w", i, err)
		}
		if err := dev.WriteWord(l.scoreAddr(i)+2, uint16(e.Score>>16)); err != nil {
			return fmt.Errorf("write score %d: %w", i, err)
		}
	}
	return nil
}

// SaveInitials writes all initials slots.
func (l Layout) SaveInitials(dev eeprom.Device, t Table) error {
	for i, e := range t.entries {
		for j, c := range e.Initials {
			if err := dev.WriteWord(l.initialAddr(i, j), uint16(c)); err != nil {
				return fmt.Errorf("write initials %d: %w", i, err)
			}
		}
	}
	return nil
}
