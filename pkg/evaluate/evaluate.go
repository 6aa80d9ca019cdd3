// Package evaluate plays every target of an Environment from its cached
// opening guess and summarizes how many guesses each game took.
package evaluate

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/session"
	"github.com/bastiangx/wordsolve/pkg/solver"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxGuesses caps a single game.
const DefaultMaxGuesses = 250

// Options configures Run.
type Options struct {
	// MaxGuesses stops a game that has not found its target; <= 0 uses DefaultMaxGuesses.
	MaxGuesses int
	// Workers is the number of games played at once; <= 0 uses GOMAXPROCS.
	Workers int
	// Progress receives a progress bar; nil disables it.
	Progress io.Writer
}

// Game is the record of one played target.
type Game struct {
	Target  words.WordID
	Guesses []words.WordID
	Solved  bool
	Elapsed time.Duration
}

// Report summarizes a full evaluation. Games is ordered by target rank.
type Report struct {
	Games     []Game
	Solved    int
	Failed    int
	Min       int
	Max       int
	Mean      float64
	Histogram map[int]int
	// Elapsed is the summed per-game time, excluding scheduling overhead.
	Elapsed time.Duration
	// Wall is the time Run took end to end.
	Wall time.Duration
	// Selections is the number of engine calls made across all games.
	Selections int
}

// PerGame is the mean time spent on one target.
func (r *Report) PerGame() time.Duration {
	if len(r.Games) == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(len(r.Games))
}

// PerGuess is the mean time of one engine call.
func (r *Report) PerGuess() time.Duration {
	if r.Selections == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Selections)
}

// Play runs one game against target, starting from env's opening guess.
// The guess count includes the final, correct guess.
func Play(env *environment.Environment, engine *solver.Engine, target words.WordID, maxGuesses int) (Game, error) {
	if maxGuesses <= 0 {
		maxGuesses = DefaultMaxGuesses
	}
	if !env.IsTarget(target) {
		return Game{}, fmt.Errorf("word %d is not a target", target)
	}

	start := time.Now()
	s := session.New(env)
	guess := env.StartingGuess()
	g := Game{Target: target, Guesses: []words.WordID{guess}}

	for guess != target && len(g.Guesses) < maxGuesses {
		p, _ := env.Pattern(guess, target)
		if err := s.Narrow(guess, p); err != nil {
			return g, err
		}
		next, err := engine.Next(s)
		if err != nil {
			return g, fmt.Errorf("target %d after %d guesses: %w", target, len(g.Guesses), err)
		}
		guess = next
		g.Guesses = append(g.Guesses, guess)
	}
	g.Solved = guess == target
	g.Elapsed = time.Since(start)
	return g, nil
}

// Run plays every target of env. Games run concurrently, but the report does
// not depend on scheduling.
func Run(ctx context.Context, env *environment.Environment, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	// Parallelism comes from running games side by side.
	engine, err := solver.NewEngine(env, env.Strategy(), 1)
	if err != nil {
		return nil, err
	}

	targets := env.Targets()
	games := make([]Game, len(targets))

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(targets),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("games"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for rank, target := range targets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			game, err := Play(env, engine, target, opts.MaxGuesses)
			if err != nil {
				return err
			}
			games[rank] = game
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	r := summarize(games)
	r.Wall = time.Since(start)
	log.Debugf("Evaluated %d targets in %v (%d failed)", len(games), r.Wall, r.Failed)
	return r, nil
}

func summarize(games []Game) *Report {
	r := &Report{Games: games, Histogram: make(map[int]int)}
	total := 0
	for i, game := range games {
		n := len(game.Guesses)
		if i == 0 || n < r.Min {
			r.Min = n
		}
		if n > r.Max {
			r.Max = n
		}
		total += n
		r.Selections += n - 1
		r.Elapsed += game.Elapsed
		r.Histogram[n]++
		if game.Solved {
			r.Solved++
		} else {
			r.Failed++
		}
	}
	if len(games) > 0 {
		r.Mean = float64(total) / float64(len(games))
	}
	return r
}
