package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	lakh  = 1e5
	crore = 1e7
)

var (
	scaleSuffixRegex = regexp.MustCompile(`(?i)^(.*?)\s*(lakhs?|crores?|cr)\.?$`)
	currencyRegex    = regexp.MustCompile(`(?i)(rs\.?|inr|₹|\$)`)

	// numberCoreRegex matches the digits of one amount plus an optional unit word.
	numberCoreRegex = regexp.MustCompile(`(?i)\d[\d,]*(?:\.\d+)?(?:\s*(?:lakhs?|crores?|cr)\b)?`)
	openParenRegex  = regexp.MustCompile(`(?i)\(\s*(?:rs\.?|inr|₹|\$)?\s*$`)
	minusRegex      = regexp.MustCompile(`(?i)(?:^|[^0-9a-z,.])-(?:(?:rs\.?|inr|₹|\$)\s*)?$`)
	currencyTail    = regexp.MustCompile(`(?i)(?:^|[^a-z])(?:rs|inr)$`)
	closeParenRegex = regexp.MustCompile(`^\s*\)`)
)

var emptyTokens = map[string]bool{
	"-": true, "—": true, "–": true, "--": true,
	"na": true, "n/a": true, "n.a.": true, "nil": true, "none": true,
}

// ParseNumber converts a statement token such as "₹ 1,234.56", "(500)" or
// "1.5 crore" to a signed value. It reports false for blanks, dashes and
// anything that is not a number once symbols are stripped.
func ParseNumber(token string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(token, "\u00a0", " "))
	if s == "" || emptyTokens[strings.ToLower(s)] {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(s)

	scale := 1.0
	if m := scaleSuffixRegex.FindStringSubmatch(s); m != nil {
		s = m[1]
		scale = unitScale(m[2])
	}

	s = currencyRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
	}
	// stray parentheses are OCR noise
	s = strings.TrimSpace(strings.Trim(s, "()"))
	if s == "" || !startsNumeric(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	v *= scale
	if negative {
		v = -math.Abs(v)
	}
	return v, true
}

func unitScale(unit string) float64 {
	if strings.HasPrefix(strings.ToLower(unit), "l") {
		return lakh
	}
	return crore
}

// startsNumeric rejects strings strconv would accept but statements never
// contain, such as "inf" or "nan".
func startsNumeric(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= '0' && c <= '9') || c == '.'
}

// numericToken is a located amount inside a larger string.
type numericToken struct {
	text  string
	value float64
	start int
}

// tokenize finds every amount in s, resolving parentheses, leading minus
// and currency prefixes. Digits glued to letters ("FY2024", "Note4") are not
// amounts.
func tokenize(s string) []numericToken {
	var tokens []numericToken
	for _, loc := range numberCoreRegex.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		prefix := s[:start]

		if r, _ := utf8.DecodeLastRuneInString(prefix); unicode.IsLetter(r) && !currencyTail.MatchString(prefix) {
			continue
		}

		core := s[start:end]
		v, ok := ParseNumber(core)
		if !ok {
			continue
		}

		tail := s[end:]
		if openParenRegex.MatchString(prefix) && closeParenRegex.MatchString(tail) {
			v = -math.Abs(v)
		} else if minusRegex.MatchString(prefix) {
			v = -math.Abs(v)
		}
		tokens = append(tokens, numericToken{text: core, value: v, start: start})
	}
	return tokens
}

// ExtractNumbers returns every amount found in s, in order.
func ExtractNumbers(s string) []float64 {
	tokens := tokenize(s)
	if len(tokens) == 0 {
		return nil
	}
	values := make([]float64, len(tokens))
	for i, t := range tokens {
		values[i] = t.value
	}
	return values
}
