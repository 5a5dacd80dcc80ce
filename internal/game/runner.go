package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/blockfall/internal/model"
	"github.com/verte-zerg/blockfall/internal/score"
)

// Recorder stores finished games.
type Recorder interface {
	RecordGame(ctx context.Context, rec model.GameRecord) (int64, error)
}

// Runner cycles through games: show the table, wait for a button, play, rank
// the score, repeat.
type Runner struct {
	game    *Game
	scores  *score.HighScores
	history Recorder
	now     func() time.Time
}

// NewRunner wraps a game with high-score handling. history may be nil.
func NewRunner(g *Game, scores *score.HighScores, history Recorder) *Runner {
	return &Runner{game: g, scores: scores, history: history, now: time.Now}
}

// Run loads the stored table once and plays games until ctx is done or input
// is closed.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.scores.Load(); err != nil {
		return fmt.Errorf("failed to load high scores: %w", err)
	}
	r.game.deps.View.HighScores(r.scores.Table())
	if _, err := r.game.deps.Buttons.Wait(ctx); err != nil {
		return err
	}
	for {
		if _, err := r.Round(ctx); err != nil {
			return err
		}
	}
}

// Round plays one game through its game-over sequence.
func (r *Runner) Round(ctx context.Context) (model.GameRecord, error) {
	r.game.Reset()
	started := r.now()
	if err := r.game.Play(ctx); err != nil {
		return model.GameRecord{}, err
	}
	rec, err := r.gameOver(ctx, started)
	if err != nil {
		return rec, err
	}
	r.game.deps.Buttons.Flush()
	r.game.deps.View.HighScores(r.scores.Table())
	if _, err := r.game.deps.Buttons.Wait(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}

func (r *Runner) gameOver(ctx context.Context, started time.Time) (model.GameRecord, error) {
	deps := r.game.deps
	var points uint32
	var rows int
	if deps.Scorer != nil {
		points = deps.Scorer.Score()
		rows = deps.Scorer.ClearedRows()
	}
	deps.View.GameOver(points)

	res, err := r.scores.Submit(points, deps.Serial, deps.Out)
	if err != nil {
		if ctx.Err() != nil {
			return model.GameRecord{}, ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			return model.GameRecord{}, err
		}
		logErrf(deps.Log, "failed to save high score: %v\n", err)
	}

	rec := model.GameRecord{
		StartedAt:  started,
		EndedAt:    r.now(),
		Score:      points,
		Rows:       rows,
		IntervalMs: int(r.game.sched.Interval()),
		Rank:       -1,
	}
	if res.Qualified {
		rec.Rank = res.Rank
		rec.Initials = string(res.Initials[:])
	}
	if r.history != nil {
		if _, err := r.history.RecordGame(ctx, rec); err != nil {
			logErrf(deps.Log, "failed to record game: %v\n", err)
		}
	}
	return rec, nil
}
