// Package instructions parses precedence instructions of the form
//
//	Step C must be finished before step A can begin.
//
// into scheduler dependencies.
package instructions

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aristath/stepweaver/internal/scheduler"
)

var instructionRe = regexp.MustCompile(`^Step\s+(\S+)\s+must be finished before step\s+(\S+)\s+can begin\.$`)

// ParseLine parses a single instruction. Identifiers must be a single rune
// and are normalized to upper case.
func ParseLine(line string) (scheduler.Dependency, error) {
	text := strings.TrimSpace(line)
	m := instructionRe.FindStringSubmatch(text)
	if m == nil {
		return scheduler.Dependency{}, &scheduler.ParseError{Text: text, Reason: "not a step instruction"}
	}

	before, err := token(m[1], text)
	if err != nil {
		return scheduler.Dependency{}, err
	}
	after, err := token(m[2], text)
	if err != nil {
		return scheduler.Dependency{}, err
	}
	return scheduler.Dependency{Before: before, After: after}, nil
}

// Parse reads one instruction per line. Blank lines are skipped; line order
// is irrelevant to the resulting graph.
func Parse(r io.Reader) ([]scheduler.Dependency, error) {
	var deps []scheduler.Dependency

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		dep, err := ParseLine(line)
		if err != nil {
			var pe *scheduler.ParseError
			if errors.As(err, &pe) {
				pe.Line = lineNo
			}
			return nil, err
		}
		deps = append(deps, dep)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading instructions: %w", err)
	}
	return deps, nil
}

// Format renders a dependency back into instruction form.
func Format(d scheduler.Dependency) string {
	return fmt.Sprintf("Step %s must be finished before step %s can begin.", d.Before, d.After)
}

func token(s, text string) (string, error) {
	if utf8.RuneCountInString(s) != 1 {
		return "", &scheduler.ParseError{Text: text, Reason: fmt.Sprintf("identifier %q is not a single character", s)}
	}
	return strings.ToUpper(s), nil
}
