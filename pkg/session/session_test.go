package session_test

import (
	"slices"
	"testing"

	"github.com/bastiangx/wordsolve/pkg/builder"
	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/session"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// Ids: ABBEY=0 ABYSS=1 CRANE=2 EERIE=3 SLATE=4 SPEED=5; everything but ABBEY is a target.
func newEnv(t *testing.T) *environment.Environment {
	t.Helper()
	pool := []string{"crane", "slate", "abbey", "abyss", "speed", "eerie"}
	targets := []string{"abyss", "crane", "slate", "speed", "eerie"}
	env, err := builder.Compile(pool, targets, environment.Minimax, 1, nil)
	require.NoError(t, err)
	return env
}

func requireFlagsMatch(t *testing.T, env *environment.Environment, s *session.Session) {
	t.Helper()
	for id := 0; id < env.Len(); id++ {
		want := slices.Contains(s.Candidates(), words.WordID(id))
		require.Equal(t, want, s.IsCandidate(words.WordID(id)), "flag for id %d", id)
	}
}

func TestNewSession(t *testing.T) {
	env := newEnv(t)
	s := session.New(env)

	assert.Equal(t, 5, s.Remaining())
	assert.Equal(t, session.Active, s.State())
	assert.Equal(t, env.Targets(), s.Candidates())
	assert.False(t, s.IsCandidate(0))
	assert.True(t, s.IsCandidate(1))
	_, ok := s.Unique()
	assert.False(t, ok)
	requireFlagsMatch(t, env, s)
}

func TestNarrowKeepsConsistentTargets(t *testing.T) {
	env := newEnv(t)

	for _, answer := range env.Targets() {
		for guess := 0; guess < env.Len(); guess++ {
			g := words.WordID(guess)
			p, ok := env.Pattern(g, answer)
			require.True(t, ok)

			s := session.New(env)
			before := slices.Clone(s.Candidates())
			require.NoError(t, s.Narrow(g, p))

			assert.Contains(t, s.Candidates(), answer)
			assert.LessOrEqual(t, s.Remaining(), len(before))
			for _, c := range before {
				got, _ := env.Pattern(g, c)
				assert.Equal(t, got == p, s.IsCandidate(c))
			}
			assert.True(t, slices.IsSorted(s.Candidates()))
			requireFlagsMatch(t, env, s)
		}
	}
}

func TestNarrowSolved(t *testing.T) {
	env := newEnv(t)
	s := session.New(env)

	require.NoError(t, s.Narrow(4, words.Solved))
	assert.Equal(t, session.Solved, s.State())
	id, ok := s.Unique()
	require.True(t, ok)
	assert.Equal(t, words.WordID(4), id)

	// Terminal sessions ignore further feedback.
	require.NoError(t, s.Narrow(1, words.Solved))
	assert.Equal(t, []words.WordID{4}, s.Candidates())
}

func TestNarrowExhausted(t *testing.T) {
	env := newEnv(t)
	s := session.New(env)

	// ABBEY is not a target, so an all-green answer contradicts every candidate.
	require.NoError(t, s.Narrow(0, words.Solved))
	assert.Equal(t, session.Exhausted, s.State())
	assert.Zero(t, s.Remaining())
	requireFlagsMatch(t, env, s)

	require.NoError(t, s.Narrow(2, 0))
	assert.Equal(t, session.Exhausted, s.State())
}

func TestNarrowIdempotent(t *testing.T) {
	env := newEnv(t)
	p, ok := env.Pattern(2, 3)
	require.True(t, ok)

	s := session.New(env)
	require.NoError(t, s.Narrow(2, p))
	once := slices.Clone(s.Candidates())
	require.NoError(t, s.Narrow(2, p))
	assert.Equal(t, once, s.Candidates())
}

func TestNarrowUnknownWord(t *testing.T) {
	env := newEnv(t)
	s := session.New(env)

	err := s.Narrow(words.WordID(env.Len()), 0)
	assert.ErrorIs(t, err, session.ErrUnknownWord)
	assert.Equal(t, 5, s.Remaining())
}

func TestSessionsAreIndependent(t *testing.T) {
	env := newEnv(t)
	a, b := session.New(env), session.New(env)

	require.NoError(t, a.Narrow(4, words.Solved))
	assert.Equal(t, 1, a.Remaining())
	assert.Equal(t, 5, b.Remaining())
	assert.Same(t, env, b.Environment())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", session.Active.String())
	assert.Equal(t, "solved", session.Solved.String())
	assert.Equal(t, "exhausted", session.Exhausted.String())
}
