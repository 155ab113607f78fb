package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSettlementRange parses "$<low>-<high>" into dollar amounts.
// Bounds may carry a K, M or B multiplier and thousands separators,
// e.g. "$100K-$500K" or "$50,000-$1.2M".
//
// The suffix scales the amount instead of being stripped with the other
// non-digits, so "$100K" is 100000, not 100.
func ParseSettlementRange(s string) (low, high float64, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("settlement range %q: want \"$<low>-<high>\"", s)
	}
	if low, err = parseAmount(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("settlement range %q: %w", s, err)
	}
	if high, err = parseAmount(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("settlement range %q: %w", s, err)
	}
	if low > high {
		return 0, 0, fmt.Errorf("settlement range %q: low bound exceeds high bound", s)
	}
	return low, high, nil
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	mult := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		mult = 1e3
	case 'm', 'M':
		mult = 1e6
	case 'b', 'B':
		mult = 1e9
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative amount %q", s)
	}
	return n * mult, nil
}
