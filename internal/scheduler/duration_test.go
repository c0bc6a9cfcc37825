package scheduler

import (
	"errors"
	"testing"
)

func TestAlphabetDuration(t *testing.T) {
	tests := []struct {
		alphabet Alphabet
		task     string
		offset   int
		want     int
	}{
		{DefaultAlphabet, "A", 0, 1},
		{DefaultAlphabet, "Z", 0, 26},
		{DefaultAlphabet, "A", 60, 61},
		{DefaultAlphabet, "Z", 60, 86},
		{DefaultAlphabet, "a", 0, 0},
		{DefaultAlphabet, "AB", 0, 0},
		{DefaultAlphabet, "", 0, 0},
		{"XYZ", "Y", 10, 12},
		{"αβγ", "γ", 0, 3},
	}

	for _, tt := range tests {
		fn := AlphabetDuration(tt.alphabet)
		if got := fn(tt.task, tt.offset); got != tt.want {
			t.Errorf("%q.Duration(%q, %d) = %d, want %d", tt.alphabet, tt.task, tt.offset, got, tt.want)
		}
	}
}

func TestAlphabetValidate(t *testing.T) {
	if err := DefaultAlphabet.Validate(); err != nil {
		t.Errorf("DefaultAlphabet.Validate() = %v", err)
	}
	if DefaultAlphabet.Size() != 26 {
		t.Errorf("DefaultAlphabet.Size() = %d, want 26", DefaultAlphabet.Size())
	}

	for _, a := range []Alphabet{"", "ABCA"} {
		if err := a.Validate(); !errors.Is(err, ErrConfig) {
			t.Errorf("%q.Validate() = %v, want ErrConfig", a, err)
		}
	}
}
