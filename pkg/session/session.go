// Package session tracks the shrinking set of targets still consistent with
// the feedback seen so far in one game.
package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/bits-and-blooms/bitset"
)

// ErrUnknownWord is returned when a guess id is outside the pool.
var ErrUnknownWord = errors.New("unknown word id")

// State is the lifecycle of a session.
type State int

const (
	// Active has more than one candidate left.
	Active State = iota
	// Solved has exactly one candidate: the answer.
	Solved
	// Exhausted has no candidates; the feedback was contradictory.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session is a mutable view over a shared Environment. It is owned by a
// single goroutine; separate sessions over the same Environment are
// independent.
type Session struct {
	env        *environment.Environment
	candidates []words.WordID
	// flags marks, per word id, whether the word is still a candidate.
	// Only used to break scoring ties.
	flags *bitset.BitSet
}

// New starts a session with every target as a candidate.
func New(env *environment.Environment) *Session {
	s := &Session{
		env:        env,
		candidates: slices.Clone(env.Targets()),
		flags:      bitset.New(uint(env.Len())),
	}
	for _, id := range s.candidates {
		s.flags.Set(uint(id))
	}
	return s
}

// Environment returns the dataset the session reads from.
func (s *Session) Environment() *environment.Environment {
	return s.env
}

// Narrow keeps only the candidates t for which guess scored against t gives
// p. Narrowing a Solved or Exhausted session is a no-op.
func (s *Session) Narrow(guess words.WordID, p words.Pattern) error {
	if int(guess) >= s.env.Len() {
		return fmt.Errorf("%w: %d", ErrUnknownWord, guess)
	}
	if s.State() != Active {
		return nil
	}

	row := s.env.Row(guess)
	kept := s.candidates[:0]
	for _, t := range s.candidates {
		rank, _ := s.env.Rank(t)
		if row[rank] == p {
			kept = append(kept, t)
		}
	}
	s.candidates = kept

	// Both the flags and kept are in ascending id order, so one pass clears
	// every flag that is no longer backed by a candidate.
	i := 0
	for id, ok := s.flags.NextSet(0); ok; id, ok = s.flags.NextSet(id + 1) {
		if i < len(kept) && uint(kept[i]) == id {
			i++
			continue
		}
		s.flags.Clear(id)
	}
	return nil
}

// Remaining returns the number of candidates left.
func (s *Session) Remaining() int {
	return len(s.candidates)
}

// Unique returns the answer once exactly one candidate remains.
func (s *Session) Unique() (words.WordID, bool) {
	if len(s.candidates) != 1 {
		return 0, false
	}
	return s.candidates[0], true
}

// State reports where the session is in its lifecycle.
func (s *Session) State() State {
	switch len(s.candidates) {
	case 0:
		return Exhausted
	case 1:
		return Solved
	}
	return Active
}

// Candidates returns the remaining target ids in ascending order. The slice
// is only valid until the next Narrow.
func (s *Session) Candidates() []words.WordID {
	return s.candidates
}

// IsCandidate reports whether id is still a possible answer.
func (s *Session) IsCandidate(id words.WordID) bool {
	return s.flags.Test(uint(id))
}
