package reconciliation

import (
	"strconv"

	"reconciliation-service/internal/domain"
)

// Sheet names of the exported report.
const (
	SummarySheet  = "Resumo"
	IssuesSheet   = "Divergências"
	DocumentSheet = "Tabela Completa"
)

const reportTitle = "Relatório de Validação - SAT vs Questor"

// Tables returns every tabular projection of the result, in sheet order.
func Tables(result domain.ValidationResult) []domain.Table {
	return []domain.Table{
		SummaryTable(result),
		IssuesTable(result),
		DocumentTable(result),
	}
}

// SuccessPercentage is round(matched/total*100), or 0 for an empty run.
func SuccessPercentage(result domain.ValidationResult) int {
	if result.TotalRecords <= 0 {
		return 0
	}
	return (result.MatchedRecords*200 + result.TotalRecords) / (2 * result.TotalRecords)
}

// SummaryTable holds the run counters.
func SummaryTable(result domain.ValidationResult) domain.Table {
	return domain.Table{
		Name:   SummarySheet,
		Header: []string{reportTitle},
		Rows: [][]string{
			{""},
			{"Total de registros analisados", strconv.Itoa(result.TotalRecords)},
			{"Registros validados com sucesso", strconv.Itoa(result.MatchedRecords)},
			{"Percentual de sucesso", strconv.Itoa(SuccessPercentage(result)) + "%"},
			{"Total de problemas encontrados", strconv.Itoa(len(result.Issues))},
			{""},
		},
		Widths:        []float64{35, 15},
		NumberColumns: []int{1},
	}
}

// IssuesTable lists one row per issue, in report order.
func IssuesTable(result domain.ValidationResult) domain.Table {
	rows := make([][]string, 0, len(result.Issues))
	moneyRows := make([]bool, 0, len(result.Issues))
	for _, issue := range result.Issues {
		moneyRows = append(moneyRows, IsMonetaryField(issue.Field))
		problem := issue.Difference
		if problem == "" {
			problem = issue.Description
		}
		rows = append(rows, []string{
			issue.DocumentNumber,
			issue.Series,
			issue.IssueDate,
			issue.Field,
			issue.SatValue,
			issue.QuestorValue,
			problem,
			issue.Severity.Label(),
		})
	}

	return domain.Table{
		Name:         IssuesSheet,
		Header:       []string{"Número", "Série", "Data", "Campo", "Valor SAT", "Valor Questor", "Diferença/Problema", "Severidade"},
		Rows:         rows,
		Widths:       []float64{10, 8, 12, 20, 15, 15, 15, 10},
		MoneyColumns: []int{4, 5, 6},
		MoneyRows:    moneyRows,
		DateColumns:  []int{2},
	}
}

var monetaryFields = func() map[string]bool {
	fields := map[string]bool{FieldIPIComplement: true, FieldStatus: true}
	for _, rule := range amountRules {
		fields[rule.label] = true
	}
	return fields
}()

// IsMonetaryField reports whether issues on the field carry amounts in their
// SAT and Questor values. Identity fields like CNPJ and Data stay text.
func IsMonetaryField(field string) bool {
	return monetaryFields[field]
}

// documentColumns maps issue field labels to their column in the document table.
var documentColumns = map[string]int{
	"CNPJ Emitente":           3,
	"CNPJ Destinatário":       4,
	"UF Destinatário":         5,
	FieldStatus:               6,
	"Valor Total Nota":        7,
	"Valor ICMS":              8,
	"Base Cálculo ICMS":       9,
	"Base Cálculo ST":         10,
	"Valor ICMS ST":           11,
	"Valor Frete":             12,
	"Valor Seguro":            13,
	"Valor Despesa Acessória": 14,
	"Valor Desconto":          15,
	"Valor IPI":               16,
	"Valor PIS":               17,
	"Valor COFINS":            18,
}

var documentHeader = []string{
	"Número", "Série", "Data", "CNPJ Emitente", "CNPJ Destinatário", "UF", "Situação",
	"Valor Total Nota", "Valor ICMS", "Base Cálculo ICMS", "Base Cálculo ST",
	"Valor ICMS ST", "Valor Frete", "Valor Seguro", "Valor Despesa",
	"Valor Desconto", "Valor IPI", "Valor PIS", "Valor COFINS", "Status",
}

// DocumentTable pivots issues into one row per document key, keeping the SAT
// value captured for each field and an Erro/Alerta status.
func DocumentTable(result domain.ValidationResult) domain.Table {
	var order []domain.DocumentKey
	byKey := make(map[domain.DocumentKey][]domain.ValidationIssue)
	for _, issue := range result.Issues {
		key := issue.Key()
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], issue)
	}

	statusCol := len(documentHeader) - 1
	rows := make([][]string, 0, len(order))
	for _, key := range order {
		issues := byKey[key]
		row := make([]string, len(documentHeader))
		row[0] = issues[0].DocumentNumber
		row[1] = issues[0].Series
		row[2] = issues[0].IssueDate

		status := domain.SeverityWarning
		for _, issue := range issues {
			if issue.Severity == domain.SeverityError {
				status = domain.SeverityError
			}
			if col, ok := documentColumns[issue.Field]; ok {
				row[col] = issue.SatValue
			}
		}
		row[statusCol] = status.Label()
		rows = append(rows, row)
	}

	widths := []float64{10, 8, 12, 20, 20, 6, 12}
	for i := 7; i < statusCol; i++ {
		widths = append(widths, 15)
	}
	widths = append(widths, 10)

	return domain.Table{
		Name:         DocumentSheet,
		Header:       documentHeader,
		Rows:         rows,
		Widths:       widths,
		MoneyColumns: []int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18},
		DateColumns:  []int{2},
	}
}
