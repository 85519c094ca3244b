// package export/writer.go
package export

import (
	"fmt"
	"strconv"
	"time"

	"reconciliation-service/internal/core/normalize"
	"reconciliation-service/internal/core/reconciliation"
	"reconciliation-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	moneyFormat = `"R$"#,##0.00;[Red]\-"R$"#,##0.00`
	dateFormat  = "dd/mm/yyyy"
)

// ReportFileName returns the download name of a report generated at t.
func ReportFileName(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("validacao-sat-questor_%s-%03dZ.xlsx", t.Format("2006-01-02T15-04-05"), t.Nanosecond()/int(time.Millisecond))
}

// Writer renders validation results as spreadsheets.
type Writer interface {
	WriteReport(result domain.ValidationResult) ([]byte, error)
}

type writer struct {
	logger *zap.Logger
}

// NewWriter creates a new report writer.
func NewWriter(logger *zap.Logger) Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &writer{logger: logger}
}

type styles struct {
	header int
	money  int
	date   int
	number int
}

// WriteReport builds the .xlsx report with one sheet per table.
func (w *writer) WriteReport(result domain.ValidationResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar estilos da planilha: %w", err)
	}

	for i, table := range reconciliation.Tables(result) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), table.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return nil, fmt.Errorf("falha ao criar aba %s: %w", table.Name, err)
		}

		if err := w.writeTable(f, table, st); err != nil {
			return nil, fmt.Errorf("falha ao preencher aba %s: %w", table.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("falha ao gerar o relatório: %w", err)
	}

	w.logger.Debug("Relatório gerado",
		zap.Int("issues", len(result.Issues)),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	money, date := moneyFormat, dateFormat
	if st.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, err
	}
	if st.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return st, err
	}
	if st.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &date}); err != nil {
		return st, err
	}
	if st.number, err = f.NewStyle(&excelize.Style{NumFmt: 1}); err != nil {
		return st, err
	}
	return st, nil
}

func (w *writer) writeTable(f *excelize.File, table domain.Table, st styles) error {
	sheet := table.Name

	for c, title := range table.Header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, st.header); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := w.writeCell(f, sheet, cell, value, table, r, c, st); err != nil {
				return err
			}
		}
	}

	for c, width := range table.Widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// writeCell stores money, dates and counts as typed cells when the value
// parses, and everything else as text. Identifiers such as CNPJs are never
// converted, so leading zeros survive.
func (w *writer) writeCell(f *excelize.File, sheet, cell, value string, table domain.Table, row, col int, st styles) error {
	if value == "" {
		return nil
	}

	switch {
	case table.IsMoneyCell(row, col):
		if d, err := decimal.NewFromString(value); err == nil {
			if err := f.SetCellFloat(sheet, cell, d.InexactFloat64(), 2, 64); err != nil {
				return err
			}
			return f.SetCellStyle(sheet, cell, cell, st.money)
		}
	case table.IsDateColumn(col):
		if t, err := time.Parse("2006-01-02", normalize.Date(value)); err == nil {
			if err := f.SetCellValue(sheet, cell, t); err != nil {
				return err
			}
			return f.SetCellStyle(sheet, cell, cell, st.date)
		}
		w.logger.Debug("Data não reconhecida, mantida como texto",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.String("value", value))
	case table.IsNumberColumn(col):
		if n, err := strconv.Atoi(value); err == nil {
			if err := f.SetCellValue(sheet, cell, n); err != nil {
				return err
			}
			return f.SetCellStyle(sheet, cell, cell, st.number)
		}
	}
	return f.SetCellStr(sheet, cell, value)
}
