// internal/api/handlers/reconciliation_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"reconciliation-service/internal/api/responses"
	"reconciliation-service/internal/core/export"
	"reconciliation-service/internal/core/reconciliation"
	"reconciliation-service/internal/core/spreadsheet"
	"reconciliation-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunIDHeader carries the validation run id back to the caller.
const RunIDHeader = "X-Run-ID"

// ReconciliationHandler handles SAT x Questor validation requests.
type ReconciliationHandler struct {
	service  reconciliation.Service
	reader   spreadsheet.Reader
	writer   export.Writer
	logger   *zap.Logger
	maxBytes int64
}

// NewReconciliationHandler creates a new reconciliation handler. A maxBytes of
// zero disables the upload limit.
func NewReconciliationHandler(service reconciliation.Service, reader spreadsheet.Reader, writer export.Writer, logger *zap.Logger, maxBytes int64) *ReconciliationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationHandler{
		service:  service,
		reader:   reader,
		writer:   writer,
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// HandleValidate returns the validation result as JSON.
func (h *ReconciliationHandler) HandleValidate(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	responses.Success(c, result, "Validação SAT x Questor concluída com sucesso")
}

// HandleReport returns the validation result as an .xlsx download.
func (h *ReconciliationHandler) HandleReport(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}

	data, err := h.writer.WriteReport(result)
	if err != nil {
		h.logger.Error("Erro ao gerar relatório", zap.String("run_id", c.GetString(responses.RunIDKey)), zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar o relatório", err.Error())
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.ReportFileName(time.Now()))
	c.Data(http.StatusOK, export.ContentType, data)
}

// run resolves the variant, loads both spreadsheets concurrently and validates
// them. On failure the error response has already been written.
func (h *ReconciliationHandler) run(c *gin.Context) (domain.ValidationResult, bool) {
	runID := uuid.NewString()
	c.Set(responses.RunIDKey, runID)
	c.Header(RunIDHeader, runID)

	variant, ok := reconciliation.VariantByName(c.Param("variant"))
	if !ok {
		responses.Error(c, http.StatusNotFound, fmt.Sprintf("Tipo de validação desconhecido: %s", c.Param("variant")))
		return domain.ValidationResult{}, false
	}

	if h.maxBytes > 0 {
		if c.Request.ContentLength > h.maxBytes {
			responses.Error(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Arquivos excedem o limite de %d bytes", h.maxBytes))
			return domain.ValidationResult{}, false
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	satHeader, err := c.FormFile("satFile")
	if err != nil {
		h.formFileError(c, err, "Arquivo SAT (.xlsx, .xls, .csv) não encontrado ou inválido")
		return domain.ValidationResult{}, false
	}
	questorHeader, err := c.FormFile("questorFile")
	if err != nil {
		h.formFileError(c, err, "Arquivo Questor (.xlsx, .xls, .csv) não encontrado ou inválido")
		return domain.ValidationResult{}, false
	}

	sat, questor, err := spreadsheet.LoadPair(h.reader, uploadSource(satHeader), uploadSource(questorHeader))
	if err != nil {
		h.logger.Warn("Falha ao carregar planilhas", zap.String("run_id", runID), zap.Error(err))
		code := http.StatusInternalServerError
		if isInputError(err) {
			code = http.StatusBadRequest
		}
		responses.Error(c, code, "Erro ao ler as planilhas", err.Error())
		return domain.ValidationResult{}, false
	}

	h.logger.Info("Iniciando validação",
		zap.String("run_id", runID),
		zap.String("variant", variant.Name),
		zap.Int("sat_rows", len(sat)),
		zap.Int("questor_rows", len(questor)))

	return h.service.Validate(variant, sat, questor), true
}

func uploadSource(header *multipart.FileHeader) spreadsheet.Source {
	return spreadsheet.Source{
		Name: header.Filename,
		Open: func() (io.ReadCloser, error) { return header.Open() },
	}
}

func (h *ReconciliationHandler) formFileError(c *gin.Context, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		responses.Error(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Arquivos excedem o limite de %d bytes", tooLarge.Limit))
		return
	}
	responses.Error(c, http.StatusBadRequest, message)
}

// isInputError reports whether the failure comes from the uploaded content
// rather than from the server.
func isInputError(err error) bool {
	return errors.Is(err, spreadsheet.ErrUnsupportedFormat) ||
		errors.Is(err, spreadsheet.ErrUnreadable) ||
		errors.Is(err, spreadsheet.ErrInvalidAmount) ||
		errors.Is(err, spreadsheet.ErrEmptySheet)
}
