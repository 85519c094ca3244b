package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const satCSV = "NumeroDocumento;SerieDocumento;DataEmissao;CnpjOuCpfDoEmitente;CnpjOuCpfDoDestinatario;UfDestinatario;ModeloDocumento;TipoDocumento;TipoDeOperacaoEntradaOuSaida;Situacao;ValorTotalNota;ValorFrete\n" +
	"100;1;15/01/2024;12.345.678/0001-95;98.765.432/0001-10;SP;55;Nfe;S;Autorizado;1.000,00;0,50\n" +
	"200;1;16/01/2024;12.345.678/0001-95;98.765.432/0001-10;SP;55;Nfe;S;Autorizado;500,00;0\n"

const questorCSV = "Número;Série;Data Escrituração/Serviço;CNPJ EMITENTE;CNPJ DESTINATARIO;Estado;Valor Total\n" +
	"100;1;45306;12345678000195;98765432000110;SP;1.000,00\n"

func writeInputs(t *testing.T) (dir, sat, questor string) {
	t.Helper()
	dir = t.TempDir()
	sat = filepath.Join(dir, "sat.csv")
	questor = filepath.Join(dir, "questor.csv")
	require.NoError(t, os.WriteFile(sat, []byte(satCSV), 0o600))
	require.NoError(t, os.WriteFile(questor, []byte(questorCSV), 0o600))
	return dir, sat, questor
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	_, sat, questor := writeInputs(t)

	out, err := execute("validate", "--sat", sat, "--questor", questor, "--details")

	require.NoError(t, err)
	assert.Contains(t, out, "Validação SAT x Questor (emitidas)")
	assert.Contains(t, out, "Total de registros analisados: 2")
	assert.Contains(t, out, "Registros validados com sucesso: 1 (50%)")
	assert.Contains(t, out, "Total de problemas encontrados: 2 (1 erros, 1 alertas)")
	assert.Contains(t, out, "Valor Frete")
	assert.Contains(t, out, "Nota fiscal não encontrada na planilha Questor")
}

func TestValidateCommand_StrictFailsOnErrors(t *testing.T) {
	_, sat, questor := writeInputs(t)

	_, err := execute("validate", "--variant", "destinadas", "--sat", sat, "--questor", questor, "--strict")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 divergência")
}

func TestValidateCommand_WritesReportIntoDirectory(t *testing.T) {
	dir, sat, questor := writeInputs(t)
	timeNow = func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = time.Now })

	out, err := execute("validate", "--sat", sat, "--questor", questor, "--out", dir)

	require.NoError(t, err)
	path := filepath.Join(dir, "validacao-sat-questor_2024-01-15T10-00-00-000Z.xlsx")
	assert.Contains(t, out, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Resumo", "Divergências", "Tabela Completa"}, f.GetSheetList())
}

func TestValidateCommand_Errors(t *testing.T) {
	_, sat, questor := writeInputs(t)

	_, err := execute("validate", "--sat", sat)
	assert.Error(t, err)

	_, err = execute("validate", "--variant", "saidas", "--sat", sat, "--questor", questor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saidas")

	_, err = execute("validate", "--sat", filepath.Join(t.TempDir(), "nao-existe.csv"), "--questor", questor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planilha SAT")
}
