package series

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// moneyVocabulary marks question labels whose options sort by monetary
// magnitude rather than by value.
var moneyVocabulary = []string{
	"income", "salary", "earnings", "price", "cost", "spend", "budget", "pay",
}

var declinePatterns = []string{
	"prefer not", "rather not", "decline", "no answer", "not to say",
}

var moneyToken = regexp.MustCompile(`[0-9][0-9,]*(\.[0-9]+)?`)

// IsMoneyLabel reports whether a question label matches money/income
// vocabulary.
func IsMoneyLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, word := range moneyVocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// MoneySortValue extracts a sortable magnitude from an option label such
// as "Under $25,000" or "$50,000–$74,999". "Under X" sorts just before X
// and "Over X" just after; "prefer not to say"-like phrases sort last.
// Unparseable text defaults to 0.
func MoneySortValue(label string) float64 {
	lower := strings.ToLower(label)

	for _, pattern := range declinePatterns {
		if strings.Contains(lower, pattern) {
			return math.MaxFloat64
		}
	}

	token := moneyToken.FindString(lower)
	if token == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
	if err != nil {
		return 0
	}

	switch {
	case strings.Contains(lower, "under") || strings.Contains(lower, "below") || strings.Contains(lower, "less than"):
		return value - 0.5
	case strings.Contains(lower, "over") || strings.Contains(lower, "above") || strings.Contains(lower, "more than") || strings.HasSuffix(strings.TrimSpace(lower), "+"):
		return value + 0.5
	}
	return value
}
