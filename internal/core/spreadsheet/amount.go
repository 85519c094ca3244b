package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary cell written in Brazilian ("1.234,56") or
// English ("1,234.56") notation, including "R$", parentheses and a leading
// minus. Empty cells and a lone "-" are zero. The value is kept exact.
//
// Without a comma a single dot is the decimal point ("1.234" is 1.234, as raw
// Excel values are written), while repeated dots are thousands grouping
// ("1.234.567" is 1234567).
func ParseAmount(val string) (decimal.Decimal, error) {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	// valores brutos do excel (ex.: 1234.5 ou 1.5E-2)
	if !strings.Contains(s, ",") {
		if d, err := decimal.NewFromString(s); err == nil {
			return d, nil
		}
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastDot > lastComma && strings.Count(s, ".") > 1:
		// "1.234.567" só pode ser milhar brasileiro sem centavos
		if lastComma >= 0 || !isGrouped(s, '.') {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, val)
		}
		s = strings.ReplaceAll(s, ".", "")
	case lastDot > lastComma:
		s = strings.ReplaceAll(s, ",", "")
	}

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, val)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, val)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// isGrouped reports whether every group after the first has exactly three digits.
func isGrouped(s string, sep byte) bool {
	parts := strings.Split(s, string(sep))
	if len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, part := range parts[1:] {
		if len(part) != 3 {
			return false
		}
	}
	return true
}
