// Package normalize canonicalizes tax IDs and dates taken from heterogeneous
// spreadsheet cells so they can be compared for equality. The results are
// never meant for display.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// excelEpoch is day zero of the Excel serial date system.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial caps serials to year 9999 so the time arithmetic cannot overflow.
const maxExcelSerial = 2958465

// Document strips every non-digit character from a CNPJ/CPF.
func Document(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Date converts an Excel serial or a DD/MM/YYYY (DD/MM/YY) date to YYYY-MM-DD.
// Anything else, and any input that fails to convert, comes back trimmed but
// otherwise unchanged.
func Date(raw string) string {
	date := strings.TrimSpace(raw)
	if date == "" {
		return ""
	}

	if isDigits(date) {
		converted, err := fromExcelSerial(date)
		if err != nil {
			return date
		}
		return converted
	}

	if strings.Contains(date, "/") {
		converted, err := fromDayFirst(date)
		if err != nil {
			return date
		}
		return converted
	}

	return date
}

func fromExcelSerial(s string) (string, error) {
	days, err := strconv.Atoi(s)
	if err != nil {
		return "", err
	}
	if days > maxExcelSerial {
		return "", fmt.Errorf("serial fora do intervalo: %d", days)
	}
	return excelEpoch.AddDate(0, 0, days).Format("2006-01-02"), nil
}

func fromDayFirst(s string) (string, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 3 {
		return "", fmt.Errorf("data incompleta: %q", s)
	}
	day, month, year := parts[0], parts[1], parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	return fmt.Sprintf("%s-%s-%s", year, padLeft(month), padLeft(day)), nil
}

// padLeft zero-pads a day or month to two characters.
func padLeft(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return s != ""
}
