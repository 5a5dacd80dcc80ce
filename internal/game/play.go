package game

import (
	"context"
	"io"

	"github.com/verte-zerg/blockfall/internal/clock"
	"github.com/verte-zerg/blockfall/internal/input"
	"github.com/verte-zerg/blockfall/internal/score"
	"github.com/verte-zerg/blockfall/internal/sound"
)

// pollPeriod is the longest an idle pass lasts.
const pollPeriod clock.Ticks = 1

// jingleGap separates the start-up cues.
const jingleGap clock.Ticks = 200

// Status is what the view shows every pass.
type Status struct {
	Score    uint32
	Rows     int
	Interval clock.Ticks
	Paused   bool
}

// View presents the game.
type View interface {
	Frame(st Status)
	GameOver(points uint32)
	HighScores(t score.Table)
}

// Scorer reports the running totals kept by the board.
type Scorer interface {
	Score() uint32
	ClearedRows() int
}

// Serial is the character stream with a receive-buffer flush.
type Serial interface {
	input.Serial
	Flush()
}

// Buttons is the push-button queue with a blocking wait.
type Buttons interface {
	input.Buttons
	Wait(ctx context.Context) (int, error)
}

// Deps wires a Game to its collaborators.
type Deps struct {
	Clock      Clock
	Board      Board
	Scorer     Scorer
	Accel      Accelerator
	Sampler    input.Sampler
	Buttons    Buttons
	Serial     Serial
	Out        io.Writer
	View       View
	Cues       Cues
	Mute       Switch
	Timing     Timing
	Thresholds input.Thresholds
	Stick      Releaser
	// Log receives diagnostics. While the console is in raw mode it should
	// hold them until the terminal is restored. Nil means stderr.
	Log io.Writer
}

// Game is one player's run of the foreground loop.
type Game struct {
	deps  Deps
	arb   *input.Arbitrator
	sched *Scheduler
	disp  *Dispatcher
}

// New builds a game from its collaborators.
func New(deps Deps) *Game {
	g := &Game{deps: deps}
	g.arb = input.NewArbitrator(deps.Sampler, deps.Buttons, deps.Serial, deps.Thresholds)
	g.sched = NewScheduler(deps.Clock, deps.Board, deps.Accel, deps.Timing)
	g.disp = &Dispatcher{
		clock:   deps.Clock,
		board:   deps.Board,
		sched:   g.sched,
		cues:    deps.Cues,
		mute:    deps.Mute,
		buttons: deps.Buttons,
		serial:  deps.Serial,
		view:    deps.View,
		status:  g.status,
		timing:  deps.Timing,
		log:     deps.Log,
	}
	return g
}

// Scheduler exposes the drop timer.
func (g *Game) Scheduler() *Scheduler {
	return g.sched
}

// Reset prepares a new game: fresh board and interval, a centred stick and
// no pending input.
func (g *Game) Reset() {
	g.deps.Board.Reset()
	g.sched.Reset()
	g.arb.Reset()
	if g.deps.Stick != nil {
		g.deps.Stick.Release()
	}
	g.deps.Buttons.Flush()
	g.deps.Serial.Flush()
}

// Play runs passes until the board fills up. It returns early only when ctx
// is done or an input source fails.
func (g *Game) Play(ctx context.Context) error {
	if err := g.jingle(ctx); err != nil {
		return err
	}
	g.sched.Rearm()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		over, err := g.Pass(ctx)
		if err != nil {
			return err
		}
		if over {
			return nil
		}
	}
}

// Pass runs one arbitration pass followed by the drop timer check. It returns
// true once the game is over.
func (g *Game) Pass(ctx context.Context) (bool, error) {
	start := g.deps.Clock.Mark()
	g.deps.View.Frame(g.status())

	dec, err := g.arb.Next()
	if err != nil {
		return false, err
	}
	over, err := g.disp.Dispatch(ctx, dec)
	if err != nil || over {
		return over, err
	}
	if !g.sched.Step() {
		return true, nil
	}
	if dec.Command == input.CommandNone && dec.Event.Kind == input.EventNone && !g.sched.Due() {
		return false, g.deps.Clock.WaitUntil(ctx, start, pollPeriod)
	}
	return false, nil
}

func (g *Game) jingle(ctx context.Context) error {
	if g.deps.Cues == nil || (g.deps.Mute != nil && g.deps.Mute.On()) {
		return nil
	}
	cues := []sound.Cue{sound.CueStart, sound.CueRotate, sound.CueDrop}
	for i, c := range cues {
		g.disp.cue(c)
		if i == len(cues)-1 {
			break
		}
		if err := g.deps.Clock.WaitUntil(ctx, g.deps.Clock.Mark(), jingleGap); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) status() Status {
	st := Status{Interval: g.sched.Interval()}
	if g.deps.Scorer != nil {
		st.Score = g.deps.Scorer.Score()
		st.Rows = g.deps.Scorer.ClearedRows()
	}
	return st
}
