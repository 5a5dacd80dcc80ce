// Package model defines shared data structures.
package model

import "time"

// Config defines game settings resolved from flags and the config file.
type Config struct {
	IntervalMs     int
	MinIntervalMs  int
	AccelFloorMs   int
	AccelStepMs    int
	HoldFreshMs    int
	HoldRepeatMs   int
	InitialsFilter string

	HoldLow     int
	HoldHigh    int
	LeftBelow   int
	RightAbove  int
	RotateAbove int
	DropBelow   int

	Keys  KeyMap
	Audio bool
	Mute  bool
	Vol   float64
}

// KeyMap assigns console keys to the emulated panel. Any byte not listed here
// is passed through to the serial stream.
type KeyMap struct {
	Buttons    [4]byte
	StickLeft  byte
	StickRight byte
	StickUp    byte
	StickDown  byte
	Mute       byte
}

// GameRecord captures a finished game.
type GameRecord struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Score      uint32
	Rows       int
	IntervalMs int
	// Rank is the high-score slot taken, or -1 when the score did not place.
	Rank     int
	Initials string
}

// HistoryConfig defines filters for the game history listing.
type HistoryConfig struct {
	Since *time.Time
	Last  int
}

// GameAggregate is a stored game as listed in history.
type GameAggregate struct {
	GameID     int64
	EndedAt    time.Time
	Score      uint32
	Rows       int
	DurationMs int64
	Rank       int
	Initials   string
}
