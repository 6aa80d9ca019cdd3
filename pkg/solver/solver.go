/*
Package solver picks the next guess for a session.

Every pool word is scored against the session's remaining candidates using
only the precomputed pattern matrix. The pool scan is split into contiguous
id ranges scored in parallel; per-range winners are then reduced in range
order with the same total ordering used inside each range, so the chosen
word never depends on goroutine scheduling.

Two strategies are available:

  - Minimax sums the squared sizes of the pattern buckets and keeps the
    lowest score. Equal scores prefer a word that is itself a candidate.
  - Entropy keeps the highest expected information, with a 1/T bonus for a
    word that is itself one of the T candidates.

Remaining ties go to the lowest word id.
*/
package solver

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/words"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoCandidates    = errors.New("no candidate targets remain")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// View is the live candidate set a guess is scored against.
type View interface {
	// Candidates returns the remaining target ids in ascending order.
	Candidates() []words.WordID
	// IsCandidate reports whether id is among Candidates.
	IsCandidate(id words.WordID) bool
}

// Engine scores guesses over one Environment. It holds no mutable state and
// may be shared across goroutines.
type Engine struct {
	env      *environment.Environment
	strategy environment.Strategy
	workers  int
}

// NewEngine returns an engine for strategy. workers <= 0 uses GOMAXPROCS.
func NewEngine(env *environment.Environment, strategy environment.Strategy, workers int) (*Engine, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, strategy)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{env: env, strategy: strategy, workers: workers}, nil
}

// SelectGuess scores every pool word against v with strategy and returns the best.
func SelectGuess(strategy environment.Strategy, v View, env *environment.Environment) (words.WordID, error) {
	e, err := NewEngine(env, strategy, 0)
	if err != nil {
		return 0, err
	}
	return e.Next(v)
}

// Strategy returns the engine's scoring strategy.
func (e *Engine) Strategy() environment.Strategy {
	return e.strategy
}

// Next returns the best guess for v. A single remaining candidate is
// returned without scoring.
func (e *Engine) Next(v View) (words.WordID, error) {
	candidates := v.Candidates()
	switch len(candidates) {
	case 0:
		return 0, ErrNoCandidates
	case 1:
		return candidates[0], nil
	}

	ranks := make([]int, len(candidates))
	for i, id := range candidates {
		rank, ok := e.env.Rank(id)
		if !ok {
			return 0, fmt.Errorf("candidate %d is not a target", id)
		}
		ranks[i] = rank
	}

	switch e.strategy {
	case environment.Minimax:
		return scan(e, v, ranks, minimax), nil
	case environment.Entropy:
		return scan(e, v, ranks, entropy), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownStrategy, e.strategy)
}

type buckets = [words.PatternCount]int

type scored[T constraints.Ordered] struct {
	id        words.WordID
	score     T
	candidate bool
}

type ranking[T constraints.Ordered] struct {
	score           func(counts *buckets, total int, candidate bool) T
	lowerWins       bool
	preferCandidate bool
}

// better is a strict total order over scored words.
func (r ranking[T]) better(a, b scored[T]) bool {
	if a.score != b.score {
		if r.lowerWins {
			return a.score < b.score
		}
		return a.score > b.score
	}
	if r.preferCandidate && a.candidate != b.candidate {
		return a.candidate
	}
	return a.id < b.id
}

var minimax = ranking[uint64]{
	score: func(counts *buckets, _ int, _ bool) uint64 {
		var sum uint64
		for _, c := range counts {
			sum += uint64(c) * uint64(c)
		}
		return sum
	},
	lowerWins:       true,
	preferCandidate: true,
}

var entropy = ranking[float64]{
	score: func(counts *buckets, total int, candidate bool) float64 {
		t := float64(total)
		var h float64
		for _, c := range counts {
			if c > 0 {
				p := float64(c) / t
				h -= p * math.Log2(p)
			}
		}
		if candidate {
			h += 1 / t
		}
		return h
	},
}

func scan[T constraints.Ordered](e *Engine, v View, ranks []int, r ranking[T]) words.WordID {
	n := e.env.Len()
	workers := min(e.workers, n)
	size := (n + workers - 1) / workers

	best := make([]scored[T], workers)
	found := make([]bool, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo, hi := w*size, min((w+1)*size, n)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			var counts buckets
			for id := lo; id < hi; id++ {
				row := e.env.Row(words.WordID(id))
				clear(counts[:])
				for _, rank := range ranks {
					counts[row[rank]]++
				}
				cand := v.IsCandidate(words.WordID(id))
				s := scored[T]{id: words.WordID(id), score: r.score(&counts, len(ranks), cand), candidate: cand}
				if !found[w] || r.better(s, best[w]) {
					best[w] = s
					found[w] = true
				}
			}
			return nil
		})
	}
	// Workers never fail; Wait is only a barrier.
	_ = g.Wait()

	var winner scored[T]
	have := false
	for w := range best {
		if found[w] && (!have || r.better(best[w], winner)) {
			winner = best[w]
			have = true
		}
	}
	return winner.id
}
