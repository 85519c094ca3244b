package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"formatted cnpj", "12.345.678/0001-95", "12345678000195"},
		{"plain cnpj", "12345678000195", "12345678000195"},
		{"formatted cpf", "123.456.789-09", "12345678909"},
		{"empty", "", ""},
		{"letters only", "ISENTO", ""},
		{"spaces", " 12 34 ", "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Document(tt.in))
		})
	}
}

func TestDocument_FormattedAndPlainAreEqual(t *testing.T) {
	assert.Equal(t, Document("12345678000195"), Document("12.345.678/0001-95"))
}

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"excel serial", "45306", "2024-01-15"},
		{"excel serial day one", "1", "1899-12-31"},
		{"excel serial leap day", "45351", "2024-02-29"},
		{"day first four digit year", "15/01/2024", "2024-01-15"},
		{"day first two digit year", "15/01/24", "2024-01-15"},
		{"unpadded day and month", "5/1/2024", "2024-01-05"},
		{"iso date unchanged", "2024-01-15", "2024-01-15"},
		{"trimmed", "  15/01/2024 ", "2024-01-15"},
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"incomplete slash date kept", "15/01", "15/01"},
		{"unrecognized kept", "jan 15 2024", "jan 15 2024"},
		{"serial overflow kept", "99999999999999999999", "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.in))
		})
	}
}

func TestDate_SerialAndTextAgree(t *testing.T) {
	assert.Equal(t, Date("15/01/2024"), Date("45306"))
}
