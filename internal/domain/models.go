// package domain/models.go
package domain

import (
	"github.com/shopspring/decimal"
)

// Severity classifies a validation issue.
type Severity string

// Constants for issue severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Label returns the Portuguese label used in exported reports.
func (s Severity) Label() string {
	if s == SeverityError {
		return "Erro"
	}
	return "Alerta"
}

// DocumentKey identifies one logical invoice: document number plus series.
// Values are compared literally, no normalization is applied.
type DocumentKey struct {
	Number string
	Series string
}

// String renders the key as "number|series".
func (k DocumentKey) String() string {
	return k.Number + "|" + k.Series
}

// --- Planilha SAT ---

// SatAmountField names a monetary column of the SAT export.
type SatAmountField string

// Monetary columns of the SAT export.
const (
	SatValorTotalNota         SatAmountField = "ValorTotalNota"
	SatValorTotalICMS         SatAmountField = "ValorTotalICMS"
	SatValorBaseCalculoICMS   SatAmountField = "ValorBaseCalculoICMS"
	SatValorBaseCalculoICMSST SatAmountField = "ValorBaseCalculoICMSST"
	SatValorTotalICMSST       SatAmountField = "ValorTotalICMSST"
	SatValorFrete             SatAmountField = "ValorFrete"
	SatValorSeguro            SatAmountField = "ValorSeguro"
	SatValorDespesaAcessoria  SatAmountField = "ValorDespesaAcessoria"
	SatValorDesconto          SatAmountField = "ValorDesconto"
	SatValorIPI               SatAmountField = "ValorIPI"
	SatValorTotalIpiDevolvA58 SatAmountField = "ValorTotalIpiDevolvA58"
	SatValorPis               SatAmountField = "ValorPis"
	SatValorCofins            SatAmountField = "ValorCofins"
)

// SatAmountFields is the fixed set of SAT fields summed per invoice.
var SatAmountFields = []SatAmountField{
	SatValorTotalNota,
	SatValorTotalICMS,
	SatValorBaseCalculoICMS,
	SatValorBaseCalculoICMSST,
	SatValorTotalICMSST,
	SatValorFrete,
	SatValorSeguro,
	SatValorDespesaAcessoria,
	SatValorDesconto,
	SatValorIPI,
	SatValorTotalIpiDevolvA58,
	SatValorPis,
	SatValorCofins,
}

// SatInvoice is one row of the SAT export. An invoice may span several rows.
type SatInvoice struct {
	NumeroDocumento              string `json:"NumeroDocumento"`
	SerieDocumento               string `json:"SerieDocumento"`
	DataEmissao                  string `json:"DataEmissao"`
	CnpjOuCpfDoEmitente          string `json:"CnpjOuCpfDoEmitente"`
	CnpjOuCpfDoDestinatario      string `json:"CnpjOuCpfDoDestinatario"`
	UfDestinatario               string `json:"UfDestinatario"`
	ModeloDocumento              string `json:"ModeloDocumento"`
	TipoDocumento                string `json:"TipoDocumento"`
	TipoDeOperacaoEntradaOuSaida string `json:"TipoDeOperacaoEntradaOuSaida"`
	Situacao                     string `json:"Situacao"`

	ValorTotalNota         decimal.Decimal `json:"ValorTotalNota"`
	ValorTotalICMS         decimal.Decimal `json:"ValorTotalICMS"`
	ValorBaseCalculoICMS   decimal.Decimal `json:"ValorBaseCalculoICMS"`
	ValorBaseCalculoICMSST decimal.Decimal `json:"ValorBaseCalculoICMSST"`
	ValorTotalICMSST       decimal.Decimal `json:"ValorTotalICMSST"`
	ValorFrete             decimal.Decimal `json:"ValorFrete"`
	ValorSeguro            decimal.Decimal `json:"ValorSeguro"`
	ValorDespesaAcessoria  decimal.Decimal `json:"ValorDespesaAcessoria"`
	ValorDesconto          decimal.Decimal `json:"ValorDesconto"`
	ValorIPI               decimal.Decimal `json:"ValorIPI"`
	ValorTotalIpiDevolvA58 decimal.Decimal `json:"ValorTotalIpiDevolvA58"`
	ValorPis               decimal.Decimal `json:"ValorPis"`
	ValorCofins            decimal.Decimal `json:"ValorCofins"`
}

// Key returns the document key of the row.
func (s SatInvoice) Key() DocumentKey {
	return DocumentKey{Number: s.NumeroDocumento, Series: s.SerieDocumento}
}

// Amount returns the value of a monetary column. Unknown fields yield zero.
func (s SatInvoice) Amount(field SatAmountField) decimal.Decimal {
	switch field {
	case SatValorTotalNota:
		return s.ValorTotalNota
	case SatValorTotalICMS:
		return s.ValorTotalICMS
	case SatValorBaseCalculoICMS:
		return s.ValorBaseCalculoICMS
	case SatValorBaseCalculoICMSST:
		return s.ValorBaseCalculoICMSST
	case SatValorTotalICMSST:
		return s.ValorTotalICMSST
	case SatValorFrete:
		return s.ValorFrete
	case SatValorSeguro:
		return s.ValorSeguro
	case SatValorDespesaAcessoria:
		return s.ValorDespesaAcessoria
	case SatValorDesconto:
		return s.ValorDesconto
	case SatValorIPI:
		return s.ValorIPI
	case SatValorTotalIpiDevolvA58:
		return s.ValorTotalIpiDevolvA58
	case SatValorPis:
		return s.ValorPis
	case SatValorCofins:
		return s.ValorCofins
	}
	return decimal.Zero
}

// SetAmount assigns a monetary column. Unknown fields are ignored.
func (s *SatInvoice) SetAmount(field SatAmountField, v decimal.Decimal) {
	switch field {
	case SatValorTotalNota:
		s.ValorTotalNota = v
	case SatValorTotalICMS:
		s.ValorTotalICMS = v
	case SatValorBaseCalculoICMS:
		s.ValorBaseCalculoICMS = v
	case SatValorBaseCalculoICMSST:
		s.ValorBaseCalculoICMSST = v
	case SatValorTotalICMSST:
		s.ValorTotalICMSST = v
	case SatValorFrete:
		s.ValorFrete = v
	case SatValorSeguro:
		s.ValorSeguro = v
	case SatValorDespesaAcessoria:
		s.ValorDespesaAcessoria = v
	case SatValorDesconto:
		s.ValorDesconto = v
	case SatValorIPI:
		s.ValorIPI = v
	case SatValorTotalIpiDevolvA58:
		s.ValorTotalIpiDevolvA58 = v
	case SatValorPis:
		s.ValorPis = v
	case SatValorCofins:
		s.ValorCofins = v
	}
}

// SatTotals maps every SAT monetary field to its sum across an invoice group.
type SatTotals map[SatAmountField]decimal.Decimal

// --- Planilha Questor ---

// QuestorAmountField names a monetary column of the Questor export.
type QuestorAmountField string

// Monetary columns of the Questor export.
const (
	QuestorValorTotal        QuestorAmountField = "Valor Total"
	QuestorValorICMS         QuestorAmountField = "Valor ICMS"
	QuestorBaseCalculoICMS   QuestorAmountField = "Base Cálculo ICMS"
	QuestorBaseCalculoST     QuestorAmountField = "Base Cálculo Substituição Tributária"
	QuestorValorST           QuestorAmountField = "Valor Substituição Tributária"
	QuestorValorFrete        QuestorAmountField = "Valor Frete"
	QuestorValorSeguro       QuestorAmountField = "Valor Seguro"
	QuestorValorDespesaAcess QuestorAmountField = "Valor Despesa Acessória"
	QuestorValorDesconto     QuestorAmountField = "Valor Desconto"
	QuestorValorIPI          QuestorAmountField = "Valor IPI"
	QuestorValorPIS          QuestorAmountField = "Valor PIS"
	QuestorValorCOFINS       QuestorAmountField = "Valor COFINS"
)

// QuestorAmountFields is the fixed set of Questor monetary fields.
var QuestorAmountFields = []QuestorAmountField{
	QuestorValorTotal,
	QuestorValorICMS,
	QuestorBaseCalculoICMS,
	QuestorBaseCalculoST,
	QuestorValorST,
	QuestorValorFrete,
	QuestorValorSeguro,
	QuestorValorDespesaAcess,
	QuestorValorDesconto,
	QuestorValorIPI,
	QuestorValorPIS,
	QuestorValorCOFINS,
}

// QuestorInvoice is one row of the Questor export, normally one per invoice.
type QuestorInvoice struct {
	Numero           string `json:"Número"`
	Serie            string `json:"Série"`
	DataEscrituracao string `json:"Data Escrituração/Serviço"`
	CnpjEmitente     string `json:"CNPJ EMITENTE"`
	CnpjDestinatario string `json:"CNPJ DESTINATARIO"`
	Estado           string `json:"Estado"`

	ValorTotal        decimal.Decimal `json:"Valor Total"`
	ValorICMS         decimal.Decimal `json:"Valor ICMS"`
	BaseCalculoICMS   decimal.Decimal `json:"Base Cálculo ICMS"`
	BaseCalculoST     decimal.Decimal `json:"Base Cálculo Substituição Tributária"`
	ValorST           decimal.Decimal `json:"Valor Substituição Tributária"`
	ValorFrete        decimal.Decimal `json:"Valor Frete"`
	ValorSeguro       decimal.Decimal `json:"Valor Seguro"`
	ValorDespesaAcess decimal.Decimal `json:"Valor Despesa Acessória"`
	ValorDesconto     decimal.Decimal `json:"Valor Desconto"`
	ValorIPI          decimal.Decimal `json:"Valor IPI"`
	ValorPIS          decimal.Decimal `json:"Valor PIS"`
	ValorCOFINS       decimal.Decimal `json:"Valor COFINS"`
}

// Key returns the document key of the row.
func (q QuestorInvoice) Key() DocumentKey {
	return DocumentKey{Number: q.Numero, Series: q.Serie}
}

// Amount returns the value of a monetary column. Unknown fields yield zero.
func (q QuestorInvoice) Amount(field QuestorAmountField) decimal.Decimal {
	switch field {
	case QuestorValorTotal:
		return q.ValorTotal
	case QuestorValorICMS:
		return q.ValorICMS
	case QuestorBaseCalculoICMS:
		return q.BaseCalculoICMS
	case QuestorBaseCalculoST:
		return q.BaseCalculoST
	case QuestorValorST:
		return q.ValorST
	case QuestorValorFrete:
		return q.ValorFrete
	case QuestorValorSeguro:
		return q.ValorSeguro
	case QuestorValorDespesaAcess:
		return q.ValorDespesaAcess
	case QuestorValorDesconto:
		return q.ValorDesconto
	case QuestorValorIPI:
		return q.ValorIPI
	case QuestorValorPIS:
		return q.ValorPIS
	case QuestorValorCOFINS:
		return q.ValorCOFINS
	}
	return decimal.Zero
}

// SetAmount assigns a monetary column. Unknown fields are ignored.
func (q *QuestorInvoice) SetAmount(field QuestorAmountField, v decimal.Decimal) {
	switch field {
	case QuestorValorTotal:
		q.ValorTotal = v
	case QuestorValorICMS:
		q.ValorICMS = v
	case QuestorBaseCalculoICMS:
		q.BaseCalculoICMS = v
	case QuestorBaseCalculoST:
		q.BaseCalculoST = v
	case QuestorValorST:
		q.ValorST = v
	case QuestorValorFrete:
		q.ValorFrete = v
	case QuestorValorSeguro:
		q.ValorSeguro = v
	case QuestorValorDespesaAcess:
		q.ValorDespesaAcess = v
	case QuestorValorDesconto:
		q.ValorDesconto = v
	case QuestorValorIPI:
		q.ValorIPI = v
	case QuestorValorPIS:
		q.ValorPIS = v
	case QuestorValorCOFINS:
		q.ValorCOFINS = v
	}
}

// QuestorTotals maps every Questor monetary field to its sum across matching rows.
type QuestorTotals map[QuestorAmountField]decimal.Decimal

// --- Resultado da validação ---

// ValidationIssue is a single discrepancy found for an invoice.
type ValidationIssue struct {
	DocumentNumber string   `json:"documentNumber"`
	Series         string   `json:"series"`
	IssueDate      string   `json:"issueDate"`
	Field          string   `json:"field"`
	SatValue       string   `json:"satValue"`
	QuestorValue   string   `json:"questorValue"`
	Difference     string   `json:"difference,omitempty"`
	Description    string   `json:"description,omitempty"`
	Severity       Severity `json:"severity"`
}

// Key returns the document key the issue belongs to.
func (i ValidationIssue) Key() DocumentKey {
	return DocumentKey{Number: i.DocumentNumber, Series: i.Series}
}

// ValidationResult is the report of one reconciliation run.
type ValidationResult struct {
	Success        bool              `json:"success"`
	TotalRecords   int               `json:"totalRecords"`
	MatchedRecords int               `json:"matchedRecords"`
	Issues         []ValidationIssue `json:"issues"`
}

// CountBySeverity returns how many issues carry the given severity.
func (r ValidationResult) CountBySeverity(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}
