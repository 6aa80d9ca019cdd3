package lexicon_test

import (
	"testing"

	"github.com/bastiangx/wordsolve/pkg/builder"
	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/lexicon"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// Ids: SLATE=0 SLEEP=1 SLOTH=2 SPEED=3 STORY=4
func newIndex(t *testing.T) (*lexicon.Index, *environment.Environment) {
	t.Helper()
	pool := []string{"story", "slate", "speed", "sloth", "sleep"}
	env, err := builder.Compile(pool, []string{"slate", "sloth", "story"}, environment.Minimax, 1, nil)
	require.NoError(t, err)
	return lexicon.New(env), env
}

func TestLookup(t *testing.T) {
	ix, _ := newIndex(t)
	assert.Equal(t, 5, ix.Len())

	id, err := ix.Lookup("speed")
	require.NoError(t, err)
	assert.Equal(t, words.WordID(3), id)

	id, err = ix.Lookup("SlAtE")
	require.NoError(t, err)
	assert.Equal(t, words.WordID(0), id)

	_, err = ix.Lookup("crane")
	assert.ErrorIs(t, err, lexicon.ErrNotInPool)

	_, err = ix.Lookup("sl")
	assert.ErrorIs(t, err, words.ErrWrongLength)
}

func TestWithPrefix(t *testing.T) {
	ix, env := newIndex(t)

	ids, err := ix.WithPrefix("sl", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []words.WordID{0, 1, 2}, ids)

	ids, err = ix.WithPrefix("", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []words.WordID{0, 1}, ids)

	ids, err = ix.WithPrefix("S", 0, env.IsTarget)
	require.NoError(t, err)
	assert.Equal(t, []words.WordID{0, 2, 4}, ids)

	ids, err = ix.WithPrefix("slate", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []words.WordID{0}, ids)

	ids, err = ix.WithPrefix("slates", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = ix.WithPrefix("x", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ix.WithPrefix("s1", 0, nil)
	assert.Error(t, err)
}
