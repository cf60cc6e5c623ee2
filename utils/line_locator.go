package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
)

// ColumnOrder says where the latest year sits in a multi-year table.
type ColumnOrder int

const (
	OrderUnknown ColumnOrder = iota
	LatestFirst
	LatestLast
)

func (o ColumnOrder) String() string {
	switch o {
	case LatestFirst:
		return "latest_first"
	case LatestLast:
		return "latest_last"
	default:
		return "unknown"
	}
}

const (
	// A leading value below noteIndexMax followed by one above
	// noteFollowerMin is a note reference, not an amount.
	noteIndexMax    = 200
	noteFollowerMin = 500

	minYear = 1950
	maxYear = 2099
)

var yearRegex = regexp.MustCompile(`\b(19[5-9]\d|20\d\d)\b`)

// SelectLatestValue picks the latest-year figure out of the amounts found on
// one statement line. A small leading note index is skipped; the remaining
// choice follows order, defaulting to the left-most column.
func SelectLatestValue(values []float64, order ColumnOrder) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	if len(values) >= 2 && math.Abs(values[0]) < noteIndexMax && math.Abs(values[1]) > noteFollowerMin {
		values = values[1:]
	}
	if order == LatestLast {
		return values[len(values)-1], true
	}
	return values[0], true
}

// DetectColumnOrder looks for a header line carrying two or more year labels
// and no other figures, and reports whether years run newest-first.
func DetectColumnOrder(text string) ColumnOrder {
	for _, line := range strings.Split(text, "\n") {
		if order := headerOrder(line); order != OrderUnknown {
			return order
		}
	}
	return OrderUnknown
}

func headerOrder(line string) ColumnOrder {
	matches := yearRegex.FindAllString(line, -1)
	if len(matches) < 2 {
		return OrderUnknown
	}

	years := make(map[float64]bool, len(matches))
	for _, m := range matches {
		y, _ := strconv.ParseFloat(m, 64)
		years[y] = true
	}
	for _, v := range ExtractNumbers(line) {
		// day numbers ("31 March") may sit beside the years
		if !years[v] && math.Abs(v) > 31 {
			return OrderUnknown
		}
	}

	first, _ := strconv.Atoi(matches[0])
	last, _ := strconv.Atoi(matches[len(matches)-1])
	switch {
	case first > last:
		return LatestFirst
	case first < last:
		return LatestLast
	}
	return OrderUnknown
}

// DetectRowColumnOrder applies the header check to normalized rows: the
// first row whose values are all years decides.
func DetectRowColumnOrder(rows []dto.NormalizedRow) ColumnOrder {
	for _, row := range rows {
		if len(row.Values) < 2 || !allYears(row.Values) {
			continue
		}
		first, last := row.Values[0], row.Values[len(row.Values)-1]
		switch {
		case first > last:
			return LatestFirst
		case first < last:
			return LatestLast
		}
	}
	return OrderUnknown
}

func allYears(values []float64) bool {
	for _, v := range values {
		if v != math.Trunc(v) || v < minYear || v > maxYear {
			return false
		}
	}
	return true
}

// Locator finds line-item amounts in statement text.
type Locator struct {
	lines []string
	order ColumnOrder
}

// NewLocator prepares text for keyword lookups. Column order is detected
// once from year headers.
func NewLocator(text string) *Locator {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.ToLower(text), "\n")
	return &Locator{
		lines: lines,
		order: DetectColumnOrder(text),
	}
}

func (l *Locator) Order() ColumnOrder {
	return l.order
}

// Without returns a locator in which lines mentioning any of terms are
// blanked. Line positions are kept so next-line lookups stay adjacent.
func (l *Locator) Without(terms []string) *Locator {
	if len(terms) == 0 {
		return l
	}
	lines := make([]string, len(l.lines))
	for i, line := range l.lines {
		if containsAny(line, terms) {
			continue
		}
		lines[i] = line
	}
	return &Locator{lines: lines, order: l.order}
}

// Find tries keywords in priority order. Amounts following a keyword on the
// same line are preferred; otherwise the first line mentioning a keyword
// supplies its own amounts, or those of the next line.
func (l *Locator) Find(keywords []string) (float64, bool) {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		for _, line := range l.lines {
			for _, idx := range keywordIndexes(line, kw) {
				tokens := ExtractNumbers(line[idx+len(kw):])
				if v, ok := SelectLatestValue(tokens, l.order); ok {
					return v, true
				}
			}
		}
	}

	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		for i, line := range l.lines {
			if len(keywordIndexes(line, kw)) == 0 {
				continue
			}
			if v, ok := l.lineOrNext(i); ok {
				return v, true
			}
		}
	}
	return 0, false
}

// FindAll returns the amount of the first line that mentions every keyword.
func (l *Locator) FindAll(keywords []string) (float64, bool) {
	if len(keywords) == 0 {
		return 0, false
	}
	for i, line := range l.lines {
		matched := true
		for _, kw := range keywords {
			if len(keywordIndexes(line, strings.ToLower(kw))) == 0 {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if v, ok := l.lineOrNext(i); ok {
			return v, true
		}
	}
	return 0, false
}

func (l *Locator) lineOrNext(i int) (float64, bool) {
	if v, ok := SelectLatestValue(ExtractNumbers(l.lines[i]), l.order); ok {
		return v, true
	}
	if i+1 < len(l.lines) {
		return SelectLatestValue(ExtractNumbers(l.lines[i+1]), l.order)
	}
	return 0, false
}

// FindAmount locates the amount for the first matching keyword in text.
func FindAmount(text string, keywords []string) (float64, bool) {
	return NewLocator(text).Find(keywords)
}

// FindAmountMatchingAll locates the amount on the first line of text that
// mentions every keyword.
func FindAmountMatchingAll(text string, keywords []string) (float64, bool) {
	return NewLocator(text).FindAll(keywords)
}

// keywordIndexes returns the offsets where kw occurs in line as a whole
// phrase, so "ebit" does not match inside "ebitda".
func keywordIndexes(line, kw string) []int {
	if kw == "" {
		return nil
	}
	var out []int
	for from := 0; from <= len(line)-len(kw); {
		i := strings.Index(line[from:], kw)
		if i < 0 {
			break
		}
		i += from
		if isPhraseBoundary(line, i, i+len(kw)) {
			out = append(out, i)
		}
		from = i + 1
	}
	return out
}

func isPhraseBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ContainsPhrase reports whether s contains phrase as a whole phrase,
// ignoring case.
func ContainsPhrase(s, phrase string) bool {
	return len(keywordIndexes(strings.ToLower(s), strings.ToLower(phrase))) > 0
}

func containsAny(line string, terms []string) bool {
	for _, t := range terms {
		if ContainsPhrase(line, t) {
			return true
		}
	}
	return false
}
