package score

import (
	"errors"
	"fmt"
	"io"

	"github.com/verte-zerg/blockfall/internal/eeprom"
)

// Result describes what a finished game did to the table.
type Result struct {
	Qualified bool
	Rank      int
	Initials  [2]byte
}

// HighScores owns the working copy of the table and mirrors it to a device.
type HighScores struct {
	dev    eeprom.Device
	layout Layout
	filter Filter
	table  Table
}

// NewHighScores returns an empty table bound to dev. Call Load before the
// first game.
func NewHighScores(dev eeprom.Device, layout Layout, filter Filter) *HighScores {
	if filter == nil {
		filter = LegacyFilter
	}
	return &HighScores{
		dev:    dev,
		layout: layout,
		filter: filter,
		table:  NewTable(),
	}
}

// Load replaces the working table with the stored one.
func (h *HighScores) Load() error {
	t, err := h.layout.Load(h.dev)
	if err != nil {
		return err
	}
	h.table = t
	return nil
}

// Table returns a copy of the working table.
func (h *HighScores) Table() Table {
	return h.table
}

// Submit ranks a finished game's score. A qualifying score is inserted and the
// score and initials slots are persisted with a blank placeholder, then two
// initials are read from in (echoed to out) and the initials slots are
// persisted again. A score that does not place
// leaves the table and the device untouched and reads nothing.
//
// Storage failures do not stop the prompt; the working table stays
// authoritative and the failures are returned together.
func (h *HighScores) Submit(score uint32, in io.ByteReader, out io.Writer) (Result, error) {
	rank, ok := h.table.Rank(score)
	if !ok {
		return Result{}, nil
	}
	h.table.InsertAt(rank, Entry{Score: score, Initials: [2]byte{' ', ' '}})
	var errs []error
	if err := h.layout.SaveScores(h.dev, h.table); err != nil {
		errs = append(errs, err)
	}
	// The initials shift with the scores even if the prompt never finishes.
	if err := h.layout.SaveInitials(h.dev, h.table); err != nil {
		errs = append(errs, err)
	}

	if _, err := fmt.Fprint(out, "\r\nYou got a high score! Enter your initials: "); err != nil {
		errs = append(errs, fmt.Errorf("prompt: %w", err))
	}
	initials, err := ReadInitials(in, out, h.filter)
	if err != nil {
		errs = append(errs, err)
		return Result{Qualified: true, Rank: rank}, errors.Join(errs...)
	}
	h.table.SetInitials(rank, initials)
	if err := h.layout.SaveInitials(h.dev, h.table); err != nil {
		errs = append(errs, err)
	}
	return Result{Qualified: true, Rank: rank, Initials: initials}, errors.Join(errs...)
}
