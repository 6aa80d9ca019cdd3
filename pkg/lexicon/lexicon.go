// Package lexicon maps typed words and prefixes back to pool ids.
package lexicon

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ErrNotInPool is returned by Lookup for a well-formed word the pool lacks.
var ErrNotInPool = errors.New("word is not in the pool")

// Index is a read-only prefix trie over an Environment's pool.
type Index struct {
	trie *patricia.Trie
	size int
}

// New indexes every pool word of env.
func New(env *environment.Environment) *Index {
	trie := patricia.NewTrie()
	all := env.Words()
	for id, w := range all {
		trie.Insert(patricia.Prefix(w.String()), words.WordID(id))
	}
	log.Debugf("Indexed %d pool words", len(all))
	return &Index{trie: trie, size: len(all)}
}

// Len returns the number of indexed words.
func (ix *Index) Len() int {
	return ix.size
}

// Lookup resolves s, in any case, to its pool id.
func (ix *Index) Lookup(s string) (words.WordID, error) {
	w, err := words.ParseWord(s)
	if err != nil {
		return 0, err
	}
	item := ix.trie.Get(patricia.Prefix(w.String()))
	if item == nil {
		return 0, fmt.Errorf("%w: %s", ErrNotInPool, w)
	}
	return item.(words.WordID), nil
}

// WithPrefix returns, in id order, up to limit ids of words starting with
// prefix for which keep returns true. A nil keep accepts every word and a
// limit <= 0 means no limit.
func (ix *Index) WithPrefix(prefix string, limit int, keep func(words.WordID) bool) ([]words.WordID, error) {
	key := make([]byte, 0, words.Length)
	for _, r := range prefix {
		l, err := words.ParseLetter(r)
		if err != nil {
			return nil, fmt.Errorf("prefix %q: %w", prefix, err)
		}
		key = append(key, byte(l))
	}
	if len(key) > words.Length {
		return nil, nil
	}

	var ids []words.WordID
	err := ix.trie.VisitSubtree(patricia.Prefix(key), func(_ patricia.Prefix, item patricia.Item) error {
		id := item.(words.WordID)
		if keep == nil || keep(id) {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil, err
	}

	// Child order inside the trie is not guaranteed lexicographic.
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
