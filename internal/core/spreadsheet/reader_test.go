package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"-", "0"},
		{"  ", "0"},
		{"1234.5", "1234.5"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"R$ 372.284,96", "372284.96"},
		{"(1.234,56)", "-1234.56"},
		{"-0,01", "-0.01"},
		{"0,011", "0.011"},
		{"1.5E-2", "0.015"},
		{"1.234.567,89", "1234567.89"},
		{"360566.55", "360566.55"},
		{"1.234", "1.234"},
		{"1.234.567", "1234567"},
		{"R$ 1.234.567", "1234567"},
		{"(1.234.567)", "-1234567"},
		{"1.234.567,00", "1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "12,3x", "N/A", "1.2.3", "12.34.567", "1,234.567.890"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestReadRecords_CSVSemicolonWithBOM(t *testing.T) {
	content := "\xEF\xBB\xBFNumeroDocumento;SerieDocumento;ValorTotalNota\n\n 100 ;1;1.234,56\n;;\n200;1;10,00\n"

	records, err := NewReader(zap.NewNop()).ReadRecords(strings.NewReader(content), "sat.csv")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{"NumeroDocumento": "100", "SerieDocumento": "1", "ValorTotalNota": "1.234,56"}, records[0])
	assert.Equal(t, "200", records[1]["NumeroDocumento"])
}

func TestReadRecords_CSVCommaAndShortRows(t *testing.T) {
	content := "\n\nNumero,Serie,Estado\n10,2\n"

	records, err := NewReader(nil).ReadRecords(strings.NewReader(content), "QUESTOR.CSV")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{"Numero": "10", "Serie": "2", "Estado": ""}, records[0])
}

func TestReadRecords_CSVLatin1(t *testing.T) {
	// "Número;Série" encoded as ISO-8859-1
	content := []byte("N\xfamero;S\xe9rie\n5;1\n")

	records, err := NewReader(nil).ReadRecords(bytes.NewReader(content), "questor.csv")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "5", records[0]["Número"])
	assert.Equal(t, "1", records[0]["Série"])
}

func TestReadRecords_XLSXRawValues(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"NumeroDocumento", "DataEmissao", "ValorTotalNota"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"100", 45306, 1234.5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, err := NewReader(nil).ReadRecords(buf, "sat.xlsx")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "100", records[0]["NumeroDocumento"])
	assert.Equal(t, "45306", records[0]["DataEmissao"])
	assert.Equal(t, "1234.5", records[0]["ValorTotalNota"])
}

func TestReadRecords_UnsupportedFormat(t *testing.T) {
	_, err := NewReader(nil).ReadRecords(strings.NewReader("x"), "notas.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadRecords_EmptySheet(t *testing.T) {
	_, err := NewReader(nil).ReadRecords(strings.NewReader("\n;;\n"), "vazio.csv")
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestToRecords_IgnoresDuplicateAndBlankHeaders(t *testing.T) {
	records, err := toRecords([][]string{
		{"Estado", "", "Estado", "Série"},
		{"SP", "x", "RJ", "1"},
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{"Estado": "SP", "Série": "1"}, records[0])
}
