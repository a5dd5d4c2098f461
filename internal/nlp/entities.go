package nlp

import (
	"regexp"
	"strconv"
)

// Entity extraction runs unconditionally, independent of intent, and every
// scan returns an empty slice (never an error) when nothing matches.

var (
	// Unsigned integers and decimals; no sign, no thousands separators.
	numberPattern = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)

	// Clock times (optionally am/pm-suffixed) and day-period words.
	timePattern = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}(?:am|pm)?|morning|afternoon|evening|night)\b`)

	// Slash-delimited dates, weekday names and relative day words.
	datePattern = regexp.MustCompile(`(?i)\b(\d{1,2}/\d{1,2}/\d{2,4}|monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|today)\b`)
)

// Entities holds everything extracted from a single text, in source order.
type Entities struct {
	Numbers         []float64 `json:"numbers"`
	TimeExpressions []string  `json:"time_expressions"`
	Dates           []string  `json:"dates"`
}

// Extract runs all three scans over the text.
func Extract(text string) Entities {
	return Entities{
		Numbers:         ExtractNumbers(text),
		TimeExpressions: ExtractTimeExpressions(text),
		Dates:           ExtractDates(text),
	}
}

// ExtractNumbers returns all numeric literals in source order.
func ExtractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	numbers := make([]float64, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// ExtractTimeExpressions returns clock-time and day-period substrings in
// source order.
func ExtractTimeExpressions(text string) []string {
	matches := timePattern.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

// ExtractDates returns date-like substrings in source order.
func ExtractDates(text string) []string {
	matches := datePattern.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
