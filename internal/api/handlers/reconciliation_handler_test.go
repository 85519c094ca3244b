package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reconciliation-service/internal/core/export"
	"reconciliation-service/internal/core/reconciliation"
	"reconciliation-service/internal/core/spreadsheet"
	"reconciliation-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const satCSV = "NumeroDocumento;SerieDocumento;DataEmissao;CnpjOuCpfDoEmitente;CnpjOuCpfDoDestinatario;UfDestinatario;ModeloDocumento;TipoDocumento;TipoDeOperacaoEntradaOuSaida;Situacao;ValorTotalNota;ValorIPI\n" +
	"100;1;15/01/2024;12.345.678/0001-95;98.765.432/0001-10;SP;55;Nfe;S;Autorizado;1.000,00;0\n" +
	"200;1;16/01/2024;12.345.678/0001-95;98.765.432/0001-10;SP;55;Nfe;S;Autorizado;500,00;0\n"

const questorCSV = "Número;Série;Data Escrituração/Serviço;CNPJ EMITENTE;CNPJ DESTINATARIO;Estado;Valor Total\n" +
	"100;1;15/01/2024;12345678000195;98765432000110;SP;1.000,00\n"

type upload struct {
	field, filename, content string
}

func multipartBody(t *testing.T, uploads ...upload) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, u := range uploads {
		part, err := w.CreateFormFile(u.field, u.filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(u.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func newRouter(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	h := NewReconciliationHandler(
		reconciliation.NewService(logger),
		spreadsheet.NewReader(logger),
		export.NewWriter(logger),
		logger,
		maxBytes,
	)
	router := gin.New()
	apiV1 := router.Group("/api/v1")
	apiV1.POST("/validate/:variant", h.HandleValidate)
	apiV1.POST("/validate/:variant/report", h.HandleReport)
	return router
}

func post(t *testing.T, router *gin.Engine, path string, uploads ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, uploads...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  string                  `json:"status"`
	Data    domain.ValidationResult `json:"data"`
	Message string                  `json:"message"`
	Errors  []string                `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHandleValidate(t *testing.T) {
	rec := post(t, newRouter(0), "/api/v1/validate/emitidas",
		upload{"satFile", "sat.csv", satCSV},
		upload{"questorFile", "questor.csv", questorCSV},
	)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(RunIDHeader))
	assert.NoError(t, err)

	env := decode(t, rec)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, 2, env.Data.TotalRecords)
	assert.Equal(t, 1, env.Data.MatchedRecords)
	assert.False(t, env.Data.Success)
	require.Len(t, env.Data.Issues, 1)
	assert.Equal(t, "200", env.Data.Issues[0].DocumentNumber)
	assert.Equal(t, reconciliation.FieldDocument, env.Data.Issues[0].Field)
	assert.Equal(t, domain.SeverityError, env.Data.Issues[0].Severity)
}

func TestHandleValidate_DestinadasVariant(t *testing.T) {
	inbound := strings.Replace(satCSV, ";S;Autorizado;500,00", ";E;Autorizado;500,00", 1)

	rec := post(t, newRouter(0), "/api/v1/validate/destinadas",
		upload{"satFile", "sat.csv", inbound},
		upload{"questorFile", "questor.csv", questorCSV},
	)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.Len(t, env.Data.Issues, 1)
	assert.Equal(t, reconciliation.Destinadas.InboundMessage, env.Data.Issues[0].Description)
}

func TestHandleValidate_UnknownVariant(t *testing.T) {
	rec := post(t, newRouter(0), "/api/v1/validate/saidas",
		upload{"satFile", "sat.csv", satCSV},
		upload{"questorFile", "questor.csv", questorCSV},
	)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", decode(t, rec).Status)
	assert.NotEmpty(t, rec.Header().Get(RunIDHeader))
}

func TestHandleValidate_MissingFile(t *testing.T) {
	rec := post(t, newRouter(0), "/api/v1/validate/emitidas",
		upload{"satFile", "sat.csv", satCSV},
	)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "Questor")
}

func TestHandleValidate_ReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		uploads []upload
		want    string
	}{
		{
			name: "unsupported extension",
			uploads: []upload{
				{"satFile", "sat.pdf", satCSV},
				{"questorFile", "questor.csv", questorCSV},
			},
			want: "planilha SAT",
		},
		{
			name: "invalid amount",
			uploads: []upload{
				{"satFile", "sat.csv", satCSV},
				{"questorFile", "questor.csv", strings.Replace(questorCSV, "1.000,00", "mil", 1)},
			},
			want: "planilha Questor",
		},
		{
			name: "corrupt workbook",
			uploads: []upload{
				{"satFile", "sat.xlsx", "isto não é um xlsx"},
				{"questorFile", "questor.csv", questorCSV},
			},
			want: "planilha SAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newRouter(0), "/api/v1/validate/emitidas", tt.uploads...)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, "error", env.Status)
			require.Len(t, env.Errors, 1)
			assert.Contains(t, env.Errors[0], tt.want)
		})
	}
}

func TestHandleValidate_UploadTooLarge(t *testing.T) {
	rec := post(t, newRouter(64), "/api/v1/validate/emitidas",
		upload{"satFile", "sat.csv", satCSV},
		upload{"questorFile", "questor.csv", questorCSV},
	)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleReport(t *testing.T) {
	rec := post(t, newRouter(0), "/api/v1/validate/emitidas/report",
		upload{"satFile", "sat.csv", satCSV},
		upload{"questorFile", "questor.csv", questorCSV},
	)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=validacao-sat-questor_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{reconciliation.SummarySheet, reconciliation.IssuesSheet, reconciliation.DocumentSheet}, f.GetSheetList())
	number, err := f.GetCellValue(reconciliation.IssuesSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "200", number)
}
