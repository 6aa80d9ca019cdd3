// Package words holds the fixed-length word model and the outcome patterns
// produced by comparing a guess against a target.
package words

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Length is the number of letters in every word.
const Length = 5

var (
	ErrWrongLength   = errors.New("wrong length")
	ErrInvalidLetter = errors.New("invalid letter")
	ErrInvalidSymbol = errors.New("invalid pattern symbol")
)

// Letter is an uppercase ASCII letter.
type Letter byte

// ParseLetter normalizes r to its uppercase form, rejecting anything outside A-Z.
func ParseLetter(r rune) (Letter, error) {
	switch {
	case r >= 'A' && r <= 'Z':
		return Letter(r), nil
	case r >= 'a' && r <= 'z':
		return Letter(r - 'a' + 'A'), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, r)
}

// Word is an immutable sequence of Length letters.
type Word [Length]Letter

// ParseWord accepts exactly five alphabetic characters in any case.
func ParseWord(s string) (Word, error) {
	var w Word
	if utf8.RuneCountInString(s) != Length {
		return w, fmt.Errorf("%w: %q has %d letters, want %d", ErrWrongLength, s, utf8.RuneCountInString(s), Length)
	}
	i := 0
	for _, r := range s {
		l, err := ParseLetter(r)
		if err != nil {
			return Word{}, fmt.Errorf("%q: %w", s, err)
		}
		w[i] = l
		i++
	}
	return w, nil
}

// MustParseWord is ParseWord for literals known to be valid.
func MustParseWord(s string) Word {
	w, err := ParseWord(s)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Word) String() string {
	b := make([]byte, Length)
	for i, l := range w {
		b[i] = byte(l)
	}
	return string(b)
}

// Bytes returns the canonical uppercase encoding used on disk.
func (w Word) Bytes() [Length]byte {
	var b [Length]byte
	for i, l := range w {
		b[i] = byte(l)
	}
	return b
}

// Less orders words by letter sequence.
func (w Word) Less(o Word) bool {
	for i := range w {
		if w[i] != o[i] {
			return w[i] < o[i]
		}
	}
	return false
}

// WordID is the position of a word in the sorted, deduplicated pool.
type WordID uint16

// MaxWords is the largest pool a 16-bit id can address. 0xFFFF itself is
// reserved as the "not a target" rank sentinel.
const MaxWords = 0xFFFF

// NoRank marks a WordInfo whose word is not a target.
const NoRank uint16 = 0xFFFF

// WordInfo is a word plus its rank in the target list, if it is a target.
type WordInfo struct {
	Word Word
	rank uint16
}

// NewWordInfo builds a WordInfo. A negative rank means the word is not a target.
func NewWordInfo(w Word, rank int) WordInfo {
	if rank < 0 {
		return WordInfo{Word: w, rank: NoRank}
	}
	return WordInfo{Word: w, rank: uint16(rank)}
}

// Rank returns the target rank and whether the word is a target at all.
func (wi WordInfo) Rank() (int, bool) {
	if wi.rank == NoRank {
		return 0, false
	}
	return int(wi.rank), true
}

// IsTarget reports whether the word is a possible answer.
func (wi WordInfo) IsTarget() bool {
	return wi.rank != NoRank
}

// RawRank returns the stored rank including the NoRank sentinel.
func (wi WordInfo) RawRank() uint16 {
	return wi.rank
}
