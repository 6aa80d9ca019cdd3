package words

import (
	"fmt"
	"unicode/utf8"
)

// Mark is the feedback for a single position.
type Mark uint8

const (
	Absent Mark = iota
	Present
	Correct
)

// Pattern packs five marks base-3, position i weighted 3^i, so it can index
// a [PatternCount] table directly.
type Pattern uint8

// PatternCount is the number of distinct patterns.
const PatternCount = 243

// Solved is the all-correct pattern.
const Solved Pattern = PatternCount - 1

var weights = [Length]Pattern{1, 3, 9, 27, 81}

// ComputePattern scores guess against target. Greens are marked first; the
// remaining guess positions are then walked left to right, each consuming the
// first unused non-green target slot holding the same letter.
func ComputePattern(guess, target Word) Pattern {
	var p Pattern
	var used [Length]bool
	for i := range guess {
		if guess[i] == target[i] {
			p += weights[i] * Pattern(Correct)
			continue
		}
		for j := range target {
			if i != j && guess[j] != target[j] && !used[j] && guess[i] == target[j] {
				used[j] = true
				p += weights[i] * Pattern(Present)
				break
			}
		}
	}
	return p
}

// Marks decodes the pattern into per-position marks.
func (p Pattern) Marks() [Length]Mark {
	var m [Length]Mark
	for i := range m {
		m[i] = Mark(p % 3)
		p /= 3
	}
	return m
}

// Valid reports whether p is in [0, PatternCount).
func (p Pattern) Valid() bool {
	return p < PatternCount
}

var symbols = [3]byte{'B', 'Y', 'G'}

// String renders the pattern as B/Y/G letters (black, yellow, green).
func (p Pattern) String() string {
	b := make([]byte, Length)
	for i, m := range p.Marks() {
		b[i] = symbols[m]
	}
	return string(b)
}

// ParsePattern reads a five-symbol B/Y/G string, case-insensitive.
func ParsePattern(s string) (Pattern, error) {
	if n := utf8.RuneCountInString(s); n != Length {
		return 0, fmt.Errorf("%w: %q has %d symbols, want %d", ErrWrongLength, s, n, Length)
	}
	var p Pattern
	i := 0
	for _, r := range s {
		switch r {
		case 'B', 'b':
		case 'Y', 'y':
			p += weights[i] * Pattern(Present)
		case 'G', 'g':
			p += weights[i] * Pattern(Correct)
		default:
			return 0, fmt.Errorf("%w: %q at position %d", ErrInvalidSymbol, r, i+1)
		}
		i++
	}
	return p, nil
}
