// package spreadsheet/reader.go
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrUnsupportedFormat is returned for files that are not .xlsx, .xls or .csv.
	ErrUnsupportedFormat = errors.New("formato de arquivo não suportado")
	// ErrUnreadable is returned when the file content does not match its format.
	ErrUnreadable = errors.New("arquivo ilegível")
	// ErrEmptySheet is returned when the sheet has no header row.
	ErrEmptySheet = errors.New("planilha vazia")
	// ErrInvalidAmount is returned when a monetary cell cannot be parsed.
	ErrInvalidAmount = errors.New("valor monetário inválido")
)

// Record is one data row keyed by the header cell of each column.
type Record map[string]string

// Reader turns an uploaded spreadsheet into header-keyed records.
type Reader interface {
	ReadRecords(r io.Reader, filename string) ([]Record, error)
}

type reader struct {
	logger *zap.Logger
}

// NewReader creates a new spreadsheet reader.
func NewReader(logger *zap.Logger) Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reader{logger: logger}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRecords reads the first sheet of the file. The extension of filename
// picks the format.
func (rd *reader) ReadRecords(r io.Reader, filename string) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler o arquivo %s: %w", filename, err)
	}

	var rows [][]string
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	case ".csv":
		rows, err = readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao processar o arquivo %s: %w: %w", filename, ErrUnreadable, err)
	}

	records, err := toRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("falha ao processar o arquivo %s: %w", filename, err)
	}

	rd.logger.Debug("Planilha carregada",
		zap.String("file", filename),
		zap.String("format", ext),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// readXLSX returns the raw cell values of the first sheet, so dates come back
// as Excel serials and numbers without display formatting.
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// planilhas .xlsx renomeadas para .xls são comuns
		if rows, errX := readXLSX(data); errX == nil {
			return rows, nil
		}
		return nil, err
	}

	if len(workbook.GetSheets()) == 0 {
		return nil, fmt.Errorf("o arquivo .xls não contém planilhas")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// readCSV accepts UTF-8 (with or without BOM) or ISO-8859-1 input separated
// by ';' or ','.
func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// sniffDelimiter looks at the first non-blank line; ';' wins ties.
func sniffDelimiter(data []byte) rune {
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Count(line, ",") > strings.Count(line, ";") {
			return ','
		}
		return ';'
	}
	return ';'
}

// toRecords uses the first non-blank row as header and skips blank rows.
// Columns with an empty or repeated header are ignored.
func toRecords(rows [][]string) ([]Record, error) {
	headerAt := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmptySheet
	}

	header := make([]string, len(rows[headerAt]))
	seen := make(map[string]bool)
	for i, cell := range rows[headerAt] {
		name := strings.TrimSpace(cell)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		header[i] = name
	}

	records := make([]Record, 0, len(rows)-headerAt-1)
	for _, row := range rows[headerAt+1:] {
		if isBlank(row) {
			continue
		}
		record := make(Record, len(seen))
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[name] = value
		}
		records = append(records, record)
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
