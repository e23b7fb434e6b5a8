package roi

import (
	"fmt"
	"strconv"
)

// FormatCurrency renders rubles compactly: millions with one decimal,
// thousands rounded, smaller amounts digit-grouped.
func FormatCurrency(v float64) string {
	rounded := float64(jsRound(v))
	switch {
	case rounded >= 1000000:
		return fmt.Sprintf("%.1f млн ₽", rounded/1000000)
	case rounded >= 1000:
		return fmt.Sprintf("%d тыс. ₽", jsRound(rounded/1000))
	default:
		return GroupDigits(int64(rounded)) + " ₽"
	}
}

// FormatNumber renders counters: 1.2M, 15K, 950.
func FormatNumber(v float64) string {
	switch {
	case v >= 1000000:
		return fmt.Sprintf("%.1fM", v/1000000)
	case v >= 1000:
		return fmt.Sprintf("%.0fK", v/1000)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

const nbsp = "\u00a0"

// GroupDigits separates thousands with a no-break space as the ru-RU locale
// does.
func GroupDigits(n int64) string {
	sign := ""
	u := uint64(n)
	if n < 0 {
		sign = "-"
		u = -u
	}
	s := strconv.FormatUint(u, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var out []byte
	head := len(s) % 3
	if head > 0 {
		out = append(out, s[:head]...)
	}
	for i := head; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, nbsp...)
		}
		out = append(out, s[i:i+3]...)
	}
	return sign + string(out)
}
