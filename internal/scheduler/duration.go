package scheduler

import "unicode/utf8"

// DurationFunc maps a task to the number of ticks it occupies a worker.
// Implementations must be pure: the same inputs always yield the same result.
type DurationFunc func(task string, baseOffset int) int

// Alphabet is an ordered set of single-rune task tokens.
type Alphabet string

// DefaultAlphabet orders the upper-case Latin letters.
const DefaultAlphabet Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Rank returns the 1-based position of task within the alphabet, or 0 if
// task is not a single rune of the alphabet.
func (a Alphabet) Rank(task string) int {
	r, size := utf8.DecodeRuneInString(task)
	if size == 0 || size != len(task) {
		return 0
	}
	rank := 0
	for _, c := range string(a) {
		rank++
		if c == r {
			return rank
		}
	}
	return 0
}

// Size returns the number of tokens in the alphabet.
func (a Alphabet) Size() int {
	return utf8.RuneCountInString(string(a))
}

// Duration is rank plus baseOffset. Tasks outside the alphabet get 0,
// which the simulator rejects.
func (a Alphabet) Duration(task string, baseOffset int) int {
	rank := a.Rank(task)
	if rank == 0 {
		return 0
	}
	return rank + baseOffset
}

// Validate checks that the alphabet is non-empty and free of repeats.
func (a Alphabet) Validate() error {
	if a == "" {
		return configf("alphabet is empty")
	}
	seen := make(map[rune]bool)
	for _, c := range string(a) {
		if seen[c] {
			return configf("alphabet repeats %q", c)
		}
		seen[c] = true
	}
	return nil
}

// AlphabetDuration returns the duration function for a.
func AlphabetDuration(a Alphabet) DurationFunc {
	return a.Duration
}
