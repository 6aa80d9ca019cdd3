/*
Package environment holds the immutable solver dataset: the sorted word pool,
the target ids, the precomputed guess x target pattern matrix, the scoring
strategy and the cached opening guess.

An Environment is built once (see package builder), persisted with WriteFile
and restored with Load. After construction it is never mutated, so any number
of sessions and scoring goroutines may read it concurrently.

# Layout

Word ids are positions in the sorted, deduplicated pool. Targets are a strictly
increasing subset of those ids; a target's rank is its index in that list. The
pattern matrix is flattened row-major with one row per word id and one column
per target rank:

	patterns[guessID*len(targets) + targetRank]
*/
package environment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bastiangx/wordsolve/pkg/words"
)

// ErrDataRead is returned for a dataset that is missing, truncated or fails validation.
var ErrDataRead = errors.New("data file missing or corrupted")

// Strategy selects the scoring rule used to pick guesses.
type Strategy uint8

const (
	// Minimax minimizes the sum of squared partition sizes.
	Minimax Strategy = iota
	// Entropy maximizes expected information.
	Entropy

	strategyCount
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	return s < strategyCount
}

func (s Strategy) String() string {
	switch s {
	case Minimax:
		return "minimax"
	case Entropy:
		return "entropy"
	}
	return "strategy(" + strconv.Itoa(int(s)) + ")"
}

// ParseStrategy accepts a numeric id or a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimax":
		return Minimax, nil
	case "entropy":
		return Entropy, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid strategy %q", s)
	}
	return Strategy(n), nil
}

// Environment is the read-only dataset shared by every session.
type Environment struct {
	words    []words.WordInfo
	targets  []words.WordID
	patterns []words.Pattern
	strategy Strategy
	start    words.WordID
}

// New assembles an Environment and checks every invariant. The slices are
// retained, not copied; callers must not modify them afterwards.
func New(infos []words.WordInfo, targets []words.WordID, patterns []words.Pattern, strategy Strategy, start words.WordID) (*Environment, error) {
	e := &Environment{
		words:    infos,
		targets:  targets,
		patterns: patterns,
		strategy: strategy,
		start:    start,
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// WithStartingGuess returns a copy of e with a different cached opening guess.
func (e *Environment) WithStartingGuess(id words.WordID) (*Environment, error) {
	return New(e.words, e.targets, e.patterns, e.strategy, id)
}

func (e *Environment) validate() error {
	w, k := len(e.words), len(e.targets)
	if w > words.MaxWords {
		return fmt.Errorf("%d words exceeds the id capacity of %d", w, words.MaxWords)
	}
	if !e.strategy.Valid() {
		return fmt.Errorf("unknown strategy id %d", e.strategy)
	}
	if int(e.start) >= w {
		return fmt.Errorf("starting guess %d out of range for %d words", e.start, w)
	}
	if k > w {
		return fmt.Errorf("%d targets exceeds %d words", k, w)
	}
	if len(e.patterns) != w*k {
		return fmt.Errorf("pattern matrix has %d entries, want %d", len(e.patterns), w*k)
	}
	for i, id := range e.targets {
		if int(id) >= w {
			return fmt.Errorf("target %d has id %d out of range", i, id)
		}
		if i > 0 && id <= e.targets[i-1] {
			return fmt.Errorf("target ids not strictly increasing at rank %d", i)
		}
		if rank, ok := e.words[id].Rank(); !ok || rank != i {
			return fmt.Errorf("word %d does not carry target rank %d", id, i)
		}
	}
	ranked := 0
	for _, info := range e.words {
		if info.IsTarget() {
			ranked++
		}
		for _, l := range info.Word {
			if l < 'A' || l > 'Z' {
				return fmt.Errorf("word %q is not uppercase alphabetic", info.Word.String())
			}
		}
	}
	if ranked != k {
		return fmt.Errorf("%d words carry a target rank, want %d", ranked, k)
	}
	for i, p := range e.patterns {
		if !p.Valid() {
			return fmt.Errorf("pattern %d at offset %d out of range", p, i)
		}
	}
	return nil
}

// Len returns the pool size.
func (e *Environment) Len() int { return len(e.words) }

// Targets returns the target ids in ascending order. The slice is shared and
// must not be modified.
func (e *Environment) Targets() []words.WordID { return e.targets }

// Strategy returns the configured scoring strategy.
func (e *Environment) Strategy() Strategy { return e.strategy }

// StartingGuess returns the cached opening guess.
func (e *Environment) StartingGuess() words.WordID { return e.start }

// Word returns the word with the given id.
func (e *Environment) Word(id words.WordID) (words.Word, bool) {
	if int(id) >= len(e.words) {
		return words.Word{}, false
	}
	return e.words[id].Word, true
}

// Info returns the WordInfo for id. It panics if id is out of range.
func (e *Environment) Info(id words.WordID) words.WordInfo {
	return e.words[id]
}

// IsTarget reports whether id is a possible answer.
func (e *Environment) IsTarget(id words.WordID) bool {
	return int(id) < len(e.words) && e.words[id].IsTarget()
}

// Pattern looks up the precomputed pattern for guess against target. ok is
// false when either id is out of range or target is not a target word.
func (e *Environment) Pattern(guess, target words.WordID) (p words.Pattern, ok bool) {
	if int(guess) >= len(e.words) || int(target) >= len(e.words) {
		return 0, false
	}
	rank, ok := e.words[target].Rank()
	if !ok {
		return 0, false
	}
	return e.patterns[int(guess)*len(e.targets)+rank], true
}

// Row returns the patterns of guess against every target, indexed by rank.
// The slice is shared and must not be modified.
func (e *Environment) Row(guess words.WordID) []words.Pattern {
	k := len(e.targets)
	off := int(guess) * k
	return e.patterns[off : off+k : off+k]
}

// Rank returns the target rank of id, or false if id is not a target.
func (e *Environment) Rank(id words.WordID) (int, bool) {
	if int(id) >= len(e.words) {
		return 0, false
	}
	return e.words[id].Rank()
}

// Words returns every pool word in id order.
func (e *Environment) Words() []words.Word {
	out := make([]words.Word, len(e.words))
	for i, info := range e.words {
		out[i] = info.Word
	}
	return out
}
