package labels

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	minYear = 1900
	maxYear = 2099
)

// QuarterDate is a calendar quarter decoded from a header label
type QuarterDate struct {
	Year    int
	Quarter int
}

// Month returns the first month of the quarter
func (q QuarterDate) Month() int {
	return QuarterStartMonth(q.Quarter)
}

// String renders the ISO date of the first day of the quarter
func (q QuarterDate) String() string {
	return fmt.Sprintf("%04d-%02d-01", q.Year, q.Month())
}

// Time returns the first day of the quarter at midnight UTC
func (q QuarterDate) Time() time.Time {
	return time.Date(q.Year, time.Month(q.Month()), 1, 0, 0, 0, 0, time.UTC)
}

// QuarterStartMonth maps quarter 1..4 to month 1, 4, 7, 10. Anything else is 0.
func QuarterStartMonth(quarter int) int {
	if quarter < 1 || quarter > 4 {
		return 0
	}
	return (quarter-1)*3 + 1
}

// ParseQuarterLabel decodes labels such as "2024\n2nd quarter [provisional]".
// ok is false unless both a year token and a quarter token are present.
// When several candidates appear, the first of each wins.
func ParseQuarterLabel(label string) (QuarterDate, bool) {
	tokens := tokenize(clean(label))

	year, ok := matchYear(tokens)
	if !ok {
		return QuarterDate{}, false
	}

	quarter, ok := matchQuarter(tokens)
	if !ok {
		return QuarterDate{}, false
	}

	return QuarterDate{Year: year, Quarter: quarter}, true
}

var annotation = regexp.MustCompile(`\[[^\]]*\]`)

// clean lowercases, flattens line breaks and drops bracketed annotations
func clean(label string) string {
	s := strings.ToLower(label)
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return annotation.ReplaceAllString(s, "")
}

// token is a maximal run of word characters. sep holds the text between
// the previous token and this one.
type token struct {
	text string
	sep  string
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func tokenize(s string) []token {
	var tokens []token

	sepStart := 0
	for i := 0; i < len(s); {
		if !isWordByte(s[i]) {
			i++
			continue
		}

		start := i
		for i < len(s) && isWordByte(s[i]) {
			i++
		}
		tokens = append(tokens, token{text: s[start:i], sep: s[sepStart:start]})
		sepStart = i
	}

	return tokens
}

// matchYear returns the first four consecutive digits, anywhere in any
// token, that read as a year in [1900, 2099].
func matchYear(tokens []token) (int, bool) {
	for _, tok := range tokens {
		t := tok.text
		for i := 0; i+4 <= len(t); i++ {
			if !isDigits(t[i : i+4]) {
				continue
			}
			year, _ := strconv.Atoi(t[i : i+4])
			if year >= minYear && year <= maxYear {
				return year, true
			}
		}
	}
	return 0, false
}

// matchQuarter returns the first ordinal token ("1".."4", optionally
// "1st".."4th") directly followed, across whitespace only, by "quarter".
func matchQuarter(tokens []token) (int, bool) {
	for i := 0; i+1 < len(tokens); i++ {
		q, ok := quarterOrdinal(tokens[i].text)
		if !ok {
			continue
		}

		next := tokens[i+1]
		if next.text == "quarter" && next.sep != "" && strings.TrimSpace(next.sep) == "" {
			return q, true
		}
	}
	return 0, false
}

func quarterOrdinal(t string) (int, bool) {
	if t == "" || t[0] < '1' || t[0] > '4' {
		return 0, false
	}

	switch t[1:] {
	case "", "st", "nd", "rd", "th":
		return int(t[0] - '0'), true
	}
	return 0, false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
