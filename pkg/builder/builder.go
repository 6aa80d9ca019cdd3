// Package builder turns a word pool and a target list into a persisted
// Environment: it assigns ids, precomputes every guess x target pattern and
// caches the opening guess for the chosen strategy.
package builder

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/bastiangx/wordsolve/internal/utils"
	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/session"
	"github.com/bastiangx/wordsolve/pkg/solver"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
)

var (
	ErrPoolRead      = errors.New("failed to read words file")
	ErrTargetsRead   = errors.New("failed to read targets file")
	ErrPoolFormat    = errors.New("words file formatted incorrectly")
	ErrTargetsFormat = errors.New("targets file formatted incorrectly")
	ErrPoolLength    = errors.New("words file too long")
	ErrSolverID      = errors.New("invalid solver ID")
	ErrDataWrite     = errors.New("failed to write data file")
)

// Options configures a build.
type Options struct {
	PoolPath    string
	TargetsPath string
	DataPath    string
	Strategy    environment.Strategy
	// Workers bounds the parallelism of the opening-guess search; <= 0 uses GOMAXPROCS.
	Workers int
	// Progress receives a progress bar while the pattern matrix is computed.
	// nil disables it.
	Progress io.Writer
}

// Build reads both word lists, compiles the Environment and writes it to
// opts.DataPath.
func Build(opts Options) (*environment.Environment, error) {
	start := time.Now()

	pool, err := utils.ReadLines(opts.PoolPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPoolRead, err)
	}
	targets, err := utils.ReadLines(opts.TargetsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTargetsRead, err)
	}
	log.Debugf("Read %d pool lines from %s, %d target lines from %s",
		len(pool), opts.PoolPath, len(targets), opts.TargetsPath)

	env, err := Compile(pool, targets, opts.Strategy, opts.Workers, opts.Progress)
	if err != nil {
		return nil, err
	}

	if err := environment.WriteFile(opts.DataPath, env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataWrite, err)
	}
	log.Debugf("Build finished in %v", time.Since(start))
	return env, nil
}

// Compile builds an Environment from raw word-list lines.
func Compile(poolLines, targetLines []string, strategy environment.Strategy, workers int, progress io.Writer) (*environment.Environment, error) {
	targetSet := make(map[words.Word]struct{}, len(targetLines))
	for i, line := range targetLines {
		w, err := words.ParseWord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrTargetsFormat, i+1, err)
		}
		targetSet[w] = struct{}{}
	}

	pool := make([]words.Word, 0, len(poolLines))
	for i, line := range poolLines {
		w, err := words.ParseWord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrPoolFormat, i+1, err)
		}
		pool = append(pool, w)
	}
	slices.SortFunc(pool, compareWords)
	pool = slices.Compact(pool)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: no words", ErrPoolFormat)
	}
	if len(pool) > words.MaxWords {
		return nil, fmt.Errorf("%w: %d unique words, limit is %d", ErrPoolLength, len(pool), words.MaxWords)
	}

	infos := make([]words.WordInfo, len(pool))
	targets := make([]words.WordID, 0, min(len(targetSet), len(pool)))
	for id, w := range pool {
		if _, ok := targetSet[w]; ok {
			infos[id] = words.NewWordInfo(w, len(targets))
			targets = append(targets, words.WordID(id))
		} else {
			infos[id] = words.NewWordInfo(w, -1)
		}
	}
	if missing := len(targetSet) - len(targets); missing > 0 {
		log.Debugf("%d target words are not in the pool and were left out", missing)
	}
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrSolverID, strategy)
	}

	patterns := computeMatrix(pool, targets, progress)

	env, err := environment.New(infos, targets, patterns, strategy, 0)
	if err != nil {
		return nil, err
	}
	engine, err := solver.NewEngine(env, strategy, workers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverID, err)
	}
	if len(targets) == 0 {
		// Nothing to narrow; the dataset still loads and every session starts exhausted.
		log.Debugf("No target words in the pool, keeping opening guess %s", pool[0])
		return env, nil
	}
	opening, err := engine.Next(session.New(env))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverID, err)
	}
	log.Debugf("Opening guess for %s: %s", strategy, pool[opening])
	return env.WithStartingGuess(opening)
}

func computeMatrix(pool []words.Word, targets []words.WordID, progress io.Writer) []words.Pattern {
	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(len(pool),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("patterns"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	patterns := make([]words.Pattern, 0, len(pool)*len(targets))
	for _, guess := range pool {
		for _, t := range targets {
			patterns = append(patterns, words.ComputePattern(guess, pool[t]))
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return patterns
}

func compareWords(a, b words.Word) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}
