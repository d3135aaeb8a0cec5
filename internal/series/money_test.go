package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMoneyLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected bool
	}{
		{label: "Household Income", expected: true},
		{label: "What is your annual salary?", expected: true},
		{label: "Monthly grocery spend", expected: true},
		{label: "price sensitivity", expected: true},
		{label: "Which brands have you purchased?", expected: false},
		{label: "Age", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			require.Equal(t, tt.expected, IsMoneyLabel(tt.label))
		})
	}
}

func TestMoneySortValue(t *testing.T) {
	tests := []struct {
		label    string
		expected float64
	}{
		{label: "Under $25,000", expected: 24999.5},
		{label: "Below $25,000", expected: 24999.5},
		{label: "Less than $25,000", expected: 24999.5},
		{label: "$25,000–$49,999", expected: 25000},
		{label: "$50,000 - $74,999", expected: 50000},
		{label: "Over $100,000", expected: 100000.5},
		{label: "$150,000+", expected: 150000.5},
		{label: "About $19.99", expected: 19.99},
		{label: "No idea", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			require.Equal(t, tt.expected, MoneySortValue(tt.label))
		})
	}

	t.Run("decline phrases sort last", func(t *testing.T) {
		for _, label := range []string{"Prefer not to say", "I'd rather not answer", "Declined"} {
			require.Equal(t, math.MaxFloat64, MoneySortValue(label), label)
		}
	})

	t.Run("ordering is total", func(t *testing.T) {
		require.Less(t, MoneySortValue("Under $25,000"), MoneySortValue("$25,000–$49,999"))
		require.Less(t, MoneySortValue("$25,000–$49,999"), MoneySortValue("Over $100,000"))
		require.Less(t, MoneySortValue("Over $100,000"), MoneySortValue("Prefer not to say"))
	})
}
