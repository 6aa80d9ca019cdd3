package evaluate

import (
	"bytes"
	"context"
	"testing"

	"github.com/bastiangx/wordsolve/pkg/builder"
	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/solver"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.ErrorLevel)
	goleak.VerifyTestMain(m)
}

var (
	pool = []string{
		"crane", "slate", "abbey", "abyss", "speed", "eerie", "llama", "hello",
		"adieu", "story", "pious", "mound", "fjord", "gawky", "zebra", "quilt",
		"shard", "share", "shore", "shire", "shine", "shone", "stone", "store",
	}
	targets = []string{
		"abyss", "crane", "hello", "quilt", "speed", "story", "zebra",
		"shard", "share", "shore", "shire", "shine", "shone", "stone", "store",
	}
)

func newEnv(t *testing.T, strategy environment.Strategy) *environment.Environment {
	t.Helper()
	env, err := builder.Compile(pool, targets, strategy, 0, nil)
	require.NoError(t, err)
	return env
}

func TestRunSolvesEveryTarget(t *testing.T) {
	for _, strategy := range []environment.Strategy{environment.Minimax, environment.Entropy} {
		t.Run(strategy.String(), func(t *testing.T) {
			env := newEnv(t, strategy)
			r, err := Run(context.Background(), env, Options{Workers: 3, Progress: &bytes.Buffer{}})
			require.NoError(t, err)

			require.Len(t, r.Games, len(targets))
			assert.Equal(t, len(targets), r.Solved)
			assert.Zero(t, r.Failed)
			assert.GreaterOrEqual(t, r.Min, 1)
			assert.LessOrEqual(t, r.Min, r.Max)
			assert.GreaterOrEqual(t, r.Mean, float64(r.Min))
			assert.LessOrEqual(t, r.Mean, float64(r.Max))

			sum, selections := 0, 0
			for n, c := range r.Histogram {
				sum += c
				selections += (n - 1) * c
			}
			assert.Equal(t, len(targets), sum)
			assert.Equal(t, selections, r.Selections)

			for rank, g := range r.Games {
				assert.Equal(t, env.Targets()[rank], g.Target)
				assert.Equal(t, env.StartingGuess(), g.Guesses[0])
				assert.Equal(t, g.Target, g.Guesses[len(g.Guesses)-1])
			}
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	env := newEnv(t, environment.Entropy)

	serial, err := Run(context.Background(), env, Options{Workers: 1})
	require.NoError(t, err)
	parallel, err := Run(context.Background(), env, Options{Workers: 8})
	require.NoError(t, err)

	require.Len(t, parallel.Games, len(serial.Games))
	for i := range serial.Games {
		assert.Equal(t, serial.Games[i].Guesses, parallel.Games[i].Guesses)
	}
	assert.Equal(t, serial.Histogram, parallel.Histogram)
	assert.Equal(t, serial.Mean, parallel.Mean)
}

func TestRunGuessCap(t *testing.T) {
	env := newEnv(t, environment.Minimax)

	r, err := Run(context.Background(), env, Options{MaxGuesses: 1})
	require.NoError(t, err)

	wantSolved := 0
	if env.IsTarget(env.StartingGuess()) {
		wantSolved = 1
	}
	assert.Equal(t, wantSolved, r.Solved)
	assert.Equal(t, len(targets)-wantSolved, r.Failed)
	assert.Equal(t, 1, r.Max)
	assert.Zero(t, r.Selections)
	assert.Zero(t, r.PerGuess())
}

func TestRunCancelled(t *testing.T) {
	env := newEnv(t, environment.Minimax)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, env, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlay(t *testing.T) {
	env := newEnv(t, environment.Entropy)
	engine, err := solver.NewEngine(env, env.Strategy(), 1)
	require.NoError(t, err)

	target := env.Targets()[0]
	g, err := Play(env, engine, target, 0)
	require.NoError(t, err)
	assert.True(t, g.Solved)
	assert.Equal(t, target, g.Guesses[len(g.Guesses)-1])

	nonTarget := -1
	for id := 0; id < env.Len(); id++ {
		if !env.IsTarget(words.WordID(id)) {
			nonTarget = id
			break
		}
	}
	require.NotEqual(t, -1, nonTarget)
	_, err = Play(env, engine, words.WordID(nonTarget), 0)
	assert.Error(t, err)
}

func TestReportTimings(t *testing.T) {
	r := summarize(nil)
	assert.Zero(t, r.PerGame())
	assert.Zero(t, r.PerGuess())
	assert.Zero(t, r.Mean)
}
