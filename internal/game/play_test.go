package game

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/blockfall/internal/eeprom"
	"github.com/verte-zerg/blockfall/internal/model"
	"github.com/verte-zerg/blockfall/internal/score"
	"github.com/verte-zerg/blockfall/internal/sound"
)

func TestPlayRunsUntilBoardFull(t *testing.T) {
	r := newRig(&fakeBoard{landAfter: 2, fixLimit: 2}, false)
	r.game.Reset()
	if err := r.game.Play(context.Background()); err != nil {
		t.Fatalf("play: %v", err)
	}
	want := []sound.Cue{sound.CueStart, sound.CueRotate, sound.CueDrop}
	if len(r.cues.played) != len(want) {
		t.Fatalf("expected start jingle %v, got %v", want, r.cues.played)
	}
	for i := range want {
		if r.cues.played[i] != want[i] {
			t.Fatalf("cue %d: expected %v, got %v", i, want[i], r.cues.played[i])
		}
	}
	if r.board.fixes != 2 {
		t.Fatalf("expected two pieces fixed, got %d", r.board.fixes)
	}
	if len(r.view.frames) == 0 {
		t.Fatalf("expected frames to be drawn")
	}
	if r.buttons.flushes == 0 || r.serial.flushes == 0 {
		t.Fatalf("expected reset to flush pending input")
	}
}

func TestPlayMutedSkipsJingle(t *testing.T) {
	r := newRig(&fakeBoard{landAfter: 0, fixLimit: 0}, true)
	if err := r.game.Play(context.Background()); err != nil {
		t.Fatalf("play: %v", err)
	}
	if len(r.cues.played) != 0 {
		t.Fatalf("expected silence while muted, got %v", r.cues.played)
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	r := newRig(&fakeBoard{landAfter: 1000, fixLimit: 1}, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.game.Play(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestIdlePassesPollEveryTick(t *testing.T) {
	r := newRig(&fakeBoard{landAfter: 1000, fixLimit: 1}, true)
	start := r.clk.Mark()
	for i := 0; i < 10; i++ {
		if _, err := r.game.Pass(context.Background()); err != nil {
			t.Fatalf("pass: %v", err)
		}
	}
	if got := r.clk.Since(start); got != 10 {
		t.Fatalf("expected 10 idle ticks, got %d", got)
	}
}

type fakeRecorder struct {
	records []model.GameRecord
}

func (f *fakeRecorder) RecordGame(_ context.Context, rec model.GameRecord) (int64, error) {
	f.records = append(f.records, rec)
	return int64(len(f.records)), nil
}

func TestRoundRanksAndRecords(t *testing.T) {
	board := &fakeBoard{landAfter: 1, fixLimit: 2}
	r := newRig(board, true)
	board.onFull = func() { r.serial.data = []byte("1AB") }
	var out bytes.Buffer
	r.game.deps.Out = &out

	dev := eeprom.NewMemory()
	hs := score.NewHighScores(dev, score.DefaultLayout, score.LegacyFilter)
	if err := hs.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	rec := &fakeRecorder{}
	runner := NewRunner(r.game, hs, rec)

	got, err := runner.Round(context.Background())
	if err != nil {
		t.Fatalf("round: %v", err)
	}
	if got.Score != 20 || got.Rank != 0 || got.Initials != "AB" {
		t.Fatalf("unexpected record %+v", got)
	}
	if len(rec.records) != 1 {
		t.Fatalf("expected game recorded")
	}
	if len(r.view.gameOvers) != 1 || r.view.gameOvers[0] != 20 {
		t.Fatalf("expected game over screen with score, got %v", r.view.gameOvers)
	}
	if len(r.view.highScores) != 1 {
		t.Fatalf("expected table shown after game over")
	}
	if r.buttons.waits != 1 {
		t.Fatalf("expected wait for a button before the next game")
	}
	reloaded := score.NewHighScores(dev, score.DefaultLayout, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	tbl := reloaded.Table()
	if e := tbl.Entry(0); e.Score != 20 || string(e.Initials[:]) != "AB" {
		t.Fatalf("expected persisted entry, got %+v", e)
	}
}

func TestRoundWithoutPlacing(t *testing.T) {
	board := &fakeBoard{landAfter: 0, fixLimit: 0}
	r := newRig(board, true)
	dev := eeprom.NewMemory()
	seed := score.NewTable()
	for i := 0; i < score.Slots; i++ {
		seed.InsertAt(i, score.Entry{Score: 1000})
	}
	if err := score.DefaultLayout.SaveScores(dev, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	hs := score.NewHighScores(dev, score.DefaultLayout, nil)
	if err := hs.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	writes := dev.Writes()
	got, err := NewRunner(r.game, hs, nil).Round(context.Background())
	if err != nil {
		t.Fatalf("round: %v", err)
	}
	if got.Rank != -1 {
		t.Fatalf("expected no rank, got %d", got.Rank)
	}
	if dev.Writes() != writes {
		t.Fatalf("expected no writes for a non-placing score")
	}
}

type failingRecorder struct{}

func (failingRecorder) RecordGame(context.Context, model.GameRecord) (int64, error) {
	return 0, errors.New("disk full")
}

func TestRoundLogsRecordFailureAndCentresStick(t *testing.T) {
	board := &fakeBoard{landAfter: 0, fixLimit: 0}
	r := newRig(board, true)
	dev := eeprom.NewMemory()
	seed := score.NewTable()
	for i := 0; i < score.Slots; i++ {
		seed.InsertAt(i, score.Entry{Score: 1000})
	}
	if err := score.DefaultLayout.SaveScores(dev, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	hs := score.NewHighScores(dev, score.DefaultLayout, nil)
	if err := hs.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := NewRunner(r.game, hs, failingRecorder{}).Round(context.Background()); err != nil {
		t.Fatalf("round: %v", err)
	}
	if r.stick.releases != 1 {
		t.Fatalf("expected stick centred on reset, got %d releases", r.stick.releases)
	}
	if !strings.Contains(r.log.String(), "disk full") {
		t.Fatalf("expected record failure in log, got %q", r.log.String())
	}
}
