package spreadsheet

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringSource(name, content string) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestLoadPair(t *testing.T) {
	sat := stringSource("sat.csv", "NumeroDocumento;SerieDocumento;ValorTotalNota\n100;1;1.234,56\n")
	questor := stringSource("questor.csv", "Número;Série;Valor Total\n100;1;1234,56\n200;1;10,00\n")

	satRows, questorRows, err := LoadPair(NewReader(nil), sat, questor)

	require.NoError(t, err)
	require.Len(t, satRows, 1)
	require.Len(t, questorRows, 2)
	assert.Equal(t, "100", satRows[0].NumeroDocumento)
	assert.Equal(t, "200", questorRows[1].Numero)
}

func TestLoadPair_PrefixesFailingSheet(t *testing.T) {
	sat := stringSource("sat.csv", "NumeroDocumento;ValorTotalNota\n1;10,00\n")
	questor := stringSource("questor.csv", "Número;Valor Total\n1;dez\n")

	_, _, err := LoadPair(NewReader(nil), sat, questor)

	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Contains(t, err.Error(), "planilha Questor")
}

func TestLoadPair_OpenFailure(t *testing.T) {
	openErr := errors.New("sem permissão")
	sat := Source{Name: "sat.xlsx", Open: func() (io.ReadCloser, error) { return nil, openErr }}
	questor := stringSource("questor.csv", "Número\n1\n")

	_, _, err := LoadPair(NewReader(nil), sat, questor)

	require.ErrorIs(t, err, openErr)
	assert.Contains(t, err.Error(), "planilha SAT")
	assert.Contains(t, err.Error(), "sat.xlsx")
}
