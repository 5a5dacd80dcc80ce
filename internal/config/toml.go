// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/blockfall/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game  GameConfig  `toml:"game"`
	Input InputConfig `toml:"input"`
	Keys  KeysConfig  `toml:"keys"`
	Audio AudioConfig `toml:"audio"`
}

// GameConfig maps drop timing and high-score settings. Durations are in
// milliseconds.
type GameConfig struct {
	Interval       *int    `toml:"interval"`
	MinInterval    *int    `toml:"min-interval"`
	AccelFloor     *int    `toml:"accel-floor"`
	AccelStep      *int    `toml:"accel-step"`
	HoldFresh      *int    `toml:"hold-fresh"`
	HoldRepeat     *int    `toml:"hold-repeat"`
	InitialsFilter *string `toml:"initials-filter"`
}

// InputConfig maps joystick thresholds on the 0..1023 reading scale.
type InputConfig struct {
	HoldLow     *int `toml:"hold-low"`
	HoldHigh    *int `toml:"hold-high"`
	LeftBelow   *int `toml:"left-below"`
	RightAbove  *int `toml:"right-above"`
	RotateAbove *int `toml:"rotate-above"`
	DropBelow   *int `toml:"drop-below"`
}

// KeysConfig maps console keys. Each value is a single character.
type KeysConfig struct {
	Buttons    []string `toml:"buttons"`
	StickLeft  *string  `toml:"stick-left"`
	StickRight *string  `toml:"stick-right"`
	StickUp    *string  `toml:"stick-up"`
	StickDown  *string  `toml:"stick-down"`
	Mute       *string  `toml:"mute"`
}

// AudioConfig maps sound output settings.
type AudioConfig struct {
	Enabled *bool    `toml:"enabled"`
	Volume  *float64 `toml:"volume"`
	Mute    *bool    `toml:"mute"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in settings.
func Defaults() model.Config {
	return model.Config{
		IntervalMs:     600,
		MinIntervalMs:  50,
		AccelFloorMs:   200,
		AccelStepMs:    25,
		HoldFreshMs:    300,
		HoldRepeatMs:   100,
		InitialsFilter: "legacy",

		HoldLow:     200,
		HoldHigh:    900,
		LeftBelow:   200,
		RightAbove:  900,
		RotateAbove: 900,
		DropBelow:   100,

		Keys: model.KeyMap{
			Buttons:    [4]byte{'3', '5', '7', '1'},
			StickLeft:  '4',
			StickRight: '6',
			StickUp:    '8',
			StickDown:  '2',
			Mute:       '0',
		},
		Audio: true,
		Vol:   0.5,
	}
}

// Apply overlays the values set in the file onto cfg.
func (f FileConfig) Apply(cfg *model.Config) error {
	g := f.Game
	setInt(&cfg.IntervalMs, g.Interval)
	setInt(&cfg.MinIntervalMs, g.MinInterval)
	setInt(&cfg.AccelFloorMs, g.AccelFloor)
	setInt(&cfg.AccelStepMs, g.AccelStep)
	setInt(&cfg.HoldFreshMs, g.HoldFresh)
	setInt(&cfg.HoldRepeatMs, g.HoldRepeat)
	if g.InitialsFilter != nil {
		cfg.InitialsFilter = *g.InitialsFilter
	}

	in := f.Input
	setInt(&cfg.HoldLow, in.HoldLow)
	setInt(&cfg.HoldHigh, in.HoldHigh)
	setInt(&cfg.LeftBelow, in.LeftBelow)
	setInt(&cfg.RightAbove, in.RightAbove)
	setInt(&cfg.RotateAbove, in.RotateAbove)
	setInt(&cfg.DropBelow, in.DropBelow)

	k := f.Keys
	if k.Buttons != nil {
		if len(k.Buttons) != len(cfg.Keys.Buttons) {
			return fmt.Errorf("keys.buttons needs %d keys, got %d", len(cfg.Keys.Buttons), len(k.Buttons))
		}
		for i, s := range k.Buttons {
			if err := setKey(&cfg.Keys.Buttons[i], &s, fmt.Sprintf("keys.buttons[%d]", i)); err != nil {
				return err
			}
		}
	}
	for _, m := range []struct {
		dst  *byte
		src  *string
		name string
	}{
		{&cfg.Keys.StickLeft, k.StickLeft, "keys.stick-left"},
		{&cfg.Keys.StickRight, k.StickRight, "keys.stick-right"},
		{&cfg.Keys.StickUp, k.StickUp, "keys.stick-up"},
		{&cfg.Keys.StickDown, k.StickDown, "keys.stick-down"},
		{&cfg.Keys.Mute, k.Mute, "keys.mute"},
	} {
		if err := setKey(m.dst, m.src, m.name); err != nil {
			return err
		}
	}

	a := f.Audio
	if a.Enabled != nil {
		cfg.Audio = *a.Enabled
	}
	if a.Volume != nil {
		cfg.Vol = *a.Volume
	}
	if a.Mute != nil {
		cfg.Mute = *a.Mute
	}
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setKey(dst *byte, src *string, name string) error {
	if src == nil {
		return nil
	}
	if len(*src) != 1 || (*src)[0] < 0x20 || (*src)[0] > 0x7e {
		return fmt.Errorf("%s must be a single printable character, got %q", name, *src)
	}
	*dst = (*src)[0]
	return nil
}
