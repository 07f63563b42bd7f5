// Package scanner finds lines containing a specific code point, typically an
// invisible one such as U+2060 WORD JOINER that slipped into a data file.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// WordJoiner is the zero-width code point scanned for by default.
const WordJoiner rune = '\u2060'

// Match is one line containing the target code point.
type Match struct {
	// Line is the 1-based line number.
	Line int

	// Content is the line with leading and trailing whitespace removed.
	Content string
}

// String formats the match for the operator console.
func (m Match) String() string {
	return fmt.Sprintf("line %d: %s", m.Line, m.Content)
}

// Scan reads r line by line and returns every line containing target.
// Lines have no length limit.
func Scan(r io.Reader, target rune) ([]Match, error) {
	var matches []Match

	br := bufio.NewReader(r)
	line := 0
	for {
		text, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to scan line %d: %w", line+1, err)
		}
		if text == "" && err == io.EOF {
			break
		}

		line++
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
		if strings.ContainsRune(text, target) {
			matches = append(matches, Match{Line: line, Content: strings.TrimSpace(text)})
		}

		if err == io.EOF {
			break
		}
	}

	return matches, nil
}

// ScanFile opens path and scans it for target.
func ScanFile(path string, target rune) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Scan(f, target)
}

// ParseCodePoint accepts "U+2060", "u+2060", "0x2060", "\u2060" or a single
// literal character.
func ParseCodePoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty code point")
	}

	hex := ""
	switch {
	case len(s) > 2 && (strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+")):
		hex = s[2:]
	case len(s) > 2 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")):
		hex = s[2:]
	case len(s) > 2 && strings.HasPrefix(s, `\u`):
		hex = s[2:]
	}

	if hex != "" {
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid code point %q: %w", s, err)
		}
		r := rune(n)
		if !utf8.ValidRune(r) {
			return 0, fmt.Errorf("invalid code point %q: not a valid Unicode scalar value", s)
		}
		return r, nil
	}

	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if r != utf8.RuneError {
			return r, nil
		}
	}

	return 0, fmt.Errorf("invalid code point %q", s)
}

// FormatCodePoint renders r as "U+XXXX".
func FormatCodePoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}
