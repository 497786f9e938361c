package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fractionCupRe = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d+)\s*cup`)
	wholeCupRe    = regexp.MustCompile(`^\s*(\d+)\s*cup`)
	fractionRe    = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
	decimalRe     = regexp.MustCompile(`^\d*\.?\d+$`)
)

// ParseCups turns a free-text "given" quantity into cups.
// Accepted forms are "n/d cup", "<int> cup" and a bare decimal such as "0.75",
// digits only.
// The cup patterns match on prefix, so "3 cups" reads as 3. Anything else is 0.
func ParseCups(s string) float64 {
	lower := strings.ToLower(s)
	if m := fractionCupRe.FindStringSubmatch(lower); m != nil {
		return ratio(m[1], m[2])
	}
	if m := wholeCupRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return float64(n)
	}
	bare := strings.TrimSpace(lower)
	if !decimalRe.MatchString(bare) {
		return 0
	}
	v, err := strconv.ParseFloat(bare, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseEatenFraction turns a free-text "eaten" note into a fraction in [0,1].
// "all" anywhere in the text wins, then "none", then the first n/d pattern.
func ParseEatenFraction(s string) float64 {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "all"):
		return 1
	case strings.Contains(lower, "none"):
		return 0
	}
	m := fractionRe.FindStringSubmatch(lower)
	if m == nil {
		return 0
	}
	f := ratio(m[1], m[2])
	if f > 1 {
		return 1
	}
	return f
}

func ratio(num, den string) float64 {
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0
	}
	d, err := strconv.Atoi(den)
	if err != nil || d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
