package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/wordsolve/pkg/builder"
	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/session"
	"github.com/bastiangx/wordsolve/pkg/solver"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// AAAAB is the opening guess for both strategies.
func tinyEnv(t *testing.T) (*environment.Environment, *solver.Engine) {
	t.Helper()
	env, err := builder.Compile([]string{"aaaaa", "aaaab", "bbbbb"}, []string{"aaaab", "bbbbb"}, environment.Minimax, 1, nil)
	require.NoError(t, err)
	engine, err := solver.NewEngine(env, env.Strategy(), 1)
	require.NoError(t, err)
	return env, engine
}

func run(t *testing.T, env *environment.Environment, engine *solver.Engine, input string) string {
	t.Helper()
	var out bytes.Buffer
	h := NewInputHandler(env, engine, strings.NewReader(input), &out, 0)
	require.NoError(t, h.Start())
	return out.String()
}

func TestSolvedOnFirstGuess(t *testing.T) {
	env, engine := tinyEnv(t)
	out := run(t, env, engine, "GGGGG\n")

	assert.Contains(t, out, "Output from Wordle formatted with [B]lack, [Y]ellow, [G]reen")
	assert.Contains(t, out, `Guess "AAAAB" (2 options)`)
	assert.Contains(t, out, "What output did Wordle give you?")
	assert.Contains(t, out, `The word is "AAAAB"`)
}

func TestNoTargetsReportsNoOptions(t *testing.T) {
	env, err := builder.Compile([]string{"aaaaa", "bbbbb"}, []string{"ccccc"}, environment.Minimax, 1, nil)
	require.NoError(t, err)
	engine, err := solver.NewEngine(env, env.Strategy(), 1)
	require.NoError(t, err)

	out := run(t, env, engine, "")
	assert.Contains(t, out, "No options remain.")
	assert.NotContains(t, out, "What output did Wordle give you?")
}

func TestInvalidInputReprompts(t *testing.T) {
	env, engine := tinyEnv(t)
	out := run(t, env, engine, "xyz\nbbbbq\n\nbbbbg")

	assert.Equal(t, 3, strings.Count(out, "Invalid input."))
	assert.Equal(t, 4, strings.Count(out, "What output did Wordle give you?"))
	assert.Contains(t, out, `The word is "BBBBB"`)
}

func TestPlayOtherWord(t *testing.T) {
	env, engine := tinyEnv(t)
	out := run(t, env, engine, "play zzzzz\nplay aaaaa\nGGGGG\n")

	assert.Contains(t, out, `"zzzzz" is not in the word list.`)
	assert.Contains(t, out, `Guess "AAAAA" (2 options)`)
	assert.Contains(t, out, "No options remain.")
}

func TestListAndQuit(t *testing.T) {
	env, engine := tinyEnv(t)
	out := run(t, env, engine, "list\nlist b\nlist 9\nquit\nGGGGG\n")

	assert.Contains(t, out, "  1. AAAAB\n  2. BBBBB\n")
	assert.Contains(t, out, "  1. BBBBB\n")
	assert.Contains(t, out, "Invalid input.")
	assert.NotContains(t, out, "The word is")
}

func TestEndOfInput(t *testing.T) {
	env, engine := tinyEnv(t)
	out := run(t, env, engine, "")
	assert.Contains(t, out, `Guess "AAAAB"`)
	assert.NotContains(t, out, "The word is")
}

func TestPlaysEveryTarget(t *testing.T) {
	pool := []string{
		"crane", "slate", "abbey", "abyss", "speed", "eerie", "llama", "hello",
		"adieu", "story", "pious", "mound", "fjord", "gawky", "zebra", "quilt",
	}
	targets := []string{"abyss", "crane", "hello", "quilt", "speed", "story", "zebra"}
	env, err := builder.Compile(pool, targets, environment.Entropy, 0, nil)
	require.NoError(t, err)
	engine, err := solver.NewEngine(env, env.Strategy(), 0)
	require.NoError(t, err)

	for _, target := range env.Targets() {
		// Replay the game the engine will choose to build the user's input.
		var lines []string
		s := session.New(env)
		guess := env.StartingGuess()
		for s.State() == session.Active {
			p, _ := env.Pattern(guess, target)
			lines = append(lines, p.String())
			require.NoError(t, s.Narrow(guess, p))
			if s.State() == session.Active {
				guess, err = engine.Next(s)
				require.NoError(t, err)
			}
		}

		out := run(t, env, engine, strings.Join(lines, "\n")+"\n")
		w, _ := env.Word(target)
		assert.Contains(t, out, `The word is "`+w.String()+`"`)
		assert.NotContains(t, out, "Invalid input.")
	}
}
