package risk

import (
	"strconv"
	"strings"
)

// formatNumber prints a float without trailing zeros: 8.5, 8, 6.25
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatUSD(f float64) string {
	return "$" + formatNumber(f)
}

// groupThousands renders 5051 as "5,051"
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
