package reconciliation

import (
	"reconciliation-service/internal/core/normalize"
	"reconciliation-service/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	// Tolerance is the rounding slack allowed between SAT and Questor amounts.
	Tolerance = decimal.New(1, -2)
	// ErrorThreshold separates warning-level differences from error-level ones.
	ErrorThreshold = decimal.New(1, 0)
)

// Valores esperados na planilha SAT.
const (
	expectedModel       = "55"
	expectedType        = "Nfe"
	statusAuthorized    = "Autorizado"
	statusCancelled     = "CANCELADA"
	operationInbound    = "E"
	missingValue        = "-"
	divergenceMessage   = "Divergência entre SAT e Questor"
	invalidDataMessage  = "Dados básicos inválidos (Modelo, Tipo ou Situação)"
	notFoundMessage     = "Nota fiscal não encontrada na planilha Questor"
	complementarMessage = "VERIFICAR VALOR DE IPI EM COMPLEMENTARES"
)

// Rótulos dos campos nas divergências.
const (
	FieldBasicData     = "Dados Básicos"
	FieldOperationType = "TipoDeOperacaoEntradaOuSaida"
	FieldStatus        = "Situacao"
	FieldDocument      = "Documento"
	FieldIPIComplement = "IPI Complementar"
)

// identityRule compares one identifying field of the first SAT row with the
// matched Questor row. A nil normalizer means literal comparison.
type identityRule struct {
	label     string
	sat       func(domain.SatInvoice) string
	questor   func(domain.QuestorInvoice) string
	normalize func(string) string
}

var identityRules = []identityRule{
	{
		label:     "Data",
		sat:       func(s domain.SatInvoice) string { return s.DataEmissao },
		questor:   func(q domain.QuestorInvoice) string { return q.DataEscrituracao },
		normalize: normalize.Date,
	},
	{
		label:     "CNPJ Emitente",
		sat:       func(s domain.SatInvoice) string { return s.CnpjOuCpfDoEmitente },
		questor:   func(q domain.QuestorInvoice) string { return q.CnpjEmitente },
		normalize: normalize.Document,
	},
	{
		label:     "CNPJ Destinatário",
		sat:       func(s domain.SatInvoice) string { return s.CnpjOuCpfDoDestinatario },
		questor:   func(q domain.QuestorInvoice) string { return q.CnpjDestinatario },
		normalize: normalize.Document,
	},
	{
		label:   "UF Destinatário",
		sat:     func(s domain.SatInvoice) string { return s.UfDestinatario },
		questor: func(q domain.QuestorInvoice) string { return q.Estado },
	},
}

// amountRule compares an aggregated SAT amount against the sum of one or more
// Questor amounts.
type amountRule struct {
	sat     domain.SatAmountField
	questor []domain.QuestorAmountField
	label   string
}

var amountRules = []amountRule{
	{domain.SatValorTotalNota, []domain.QuestorAmountField{domain.QuestorValorTotal, domain.QuestorValorIPI}, "Valor Total Nota"},
	{domain.SatValorTotalICMS, []domain.QuestorAmountField{domain.QuestorValorICMS}, "Valor ICMS"},
	{domain.SatValorBaseCalculoICMS, []domain.QuestorAmountField{domain.QuestorBaseCalculoICMS}, "Base Cálculo ICMS"},
	{domain.SatValorBaseCalculoICMSST, []domain.QuestorAmountField{domain.QuestorBaseCalculoST}, "Base Cálculo ST"},
	{domain.SatValorTotalICMSST, []domain.QuestorAmountField{domain.QuestorValorST}, "Valor ICMS ST"},
	{domain.SatValorFrete, []domain.QuestorAmountField{domain.QuestorValorFrete}, "Valor Frete"},
	{domain.SatValorSeguro, []domain.QuestorAmountField{domain.QuestorValorSeguro}, "Valor Seguro"},
	{domain.SatValorDespesaAcessoria, []domain.QuestorAmountField{domain.QuestorValorDespesaAcess}, "Valor Despesa Acessória"},
	{domain.SatValorDesconto, []domain.QuestorAmountField{domain.QuestorValorDesconto}, "Valor Desconto"},
	{domain.SatValorIPI, []domain.QuestorAmountField{domain.QuestorValorIPI}, "Valor IPI"},
	{domain.SatValorPis, []domain.QuestorAmountField{domain.QuestorValorPIS}, "Valor PIS"},
	{domain.SatValorCofins, []domain.QuestorAmountField{domain.QuestorValorCOFINS}, "Valor COFINS"},
}

// issueFor starts an issue echoing the invoice key and the SAT issue date.
func issueFor(group InvoiceGroup[domain.SatInvoice]) domain.ValidationIssue {
	return domain.ValidationIssue{
		DocumentNumber: group.Key.Number,
		Series:         group.Key.Series,
		IssueDate:      group.First().DataEmissao,
	}
}

// checkBasicData requires every row to be an authorized or cancelled model 55 NF-e.
func checkBasicData(group InvoiceGroup[domain.SatInvoice]) (domain.ValidationIssue, bool) {
	for _, row := range group.Rows {
		validStatus := row.Situacao == statusAuthorized || row.Situacao == statusCancelled
		if row.ModeloDocumento != expectedModel || row.TipoDocumento != expectedType || !validStatus {
			issue := issueFor(group)
			issue.Field = FieldBasicData
			issue.SatValue = "Inválido"
			issue.QuestorValue = missingValue
			issue.Description = invalidDataMessage
			issue.Severity = domain.SeverityError
			return issue, false
		}
	}
	return domain.ValidationIssue{}, true
}

func inboundIssue(v Variant, group InvoiceGroup[domain.SatInvoice]) domain.ValidationIssue {
	issue := issueFor(group)
	issue.Field = FieldOperationType
	issue.SatValue = operationInbound
	issue.QuestorValue = missingValue
	issue.Description = v.InboundMessage
	issue.Severity = domain.SeverityError
	return issue
}

func cancelledIssue(v Variant, group InvoiceGroup[domain.SatInvoice], questorTotal decimal.Decimal) domain.ValidationIssue {
	issue := issueFor(group)
	issue.Field = FieldStatus
	issue.SatValue = statusCancelled
	issue.QuestorValue = questorTotal.String()
	issue.Description = v.CancelledMessage
	issue.Severity = domain.SeverityError
	return issue
}

func missingIssue(group InvoiceGroup[domain.SatInvoice]) domain.ValidationIssue {
	issue := issueFor(group)
	issue.Field = FieldDocument
	issue.SatValue = "Presente"
	issue.QuestorValue = "Ausente"
	issue.Description = notFoundMessage
	issue.Severity = domain.SeverityError
	return issue
}

// compareIdentity emits one error per mismatching identifying field.
func compareIdentity(group InvoiceGroup[domain.SatInvoice], questor domain.QuestorInvoice) []domain.ValidationIssue {
	sat := group.First()
	var issues []domain.ValidationIssue

	for _, rule := range identityRules {
		satValue := rule.sat(sat)
		questorValue := rule.questor(questor)

		left, right := satValue, questorValue
		if rule.normalize != nil {
			left, right = rule.normalize(satValue), rule.normalize(questorValue)
		}
		if left == right {
			continue
		}

		issue := issueFor(group)
		issue.Field = rule.label
		issue.SatValue = orMissing(satValue)
		issue.QuestorValue = orMissing(questorValue)
		issue.Description = divergenceMessage
		issue.Severity = domain.SeverityError
		issues = append(issues, issue)
	}
	return issues
}

// compareAmounts evaluates every amount rule independently. Differences up to
// Tolerance are ignored; above ErrorThreshold they are errors, otherwise warnings.
func compareAmounts(group InvoiceGroup[domain.SatInvoice], sat domain.SatTotals, questor domain.QuestorTotals) []domain.ValidationIssue {
	var issues []domain.ValidationIssue

	for _, rule := range amountRules {
		satValue := sat[rule.sat]
		questorValue := decimal.Zero
		for _, field := range rule.questor {
			questorValue = questorValue.Add(questor[field])
		}

		difference := satValue.Sub(questorValue).Abs()
		if !difference.GreaterThan(Tolerance) {
			continue
		}

		severity := domain.SeverityWarning
		if difference.GreaterThan(ErrorThreshold) {
			severity = domain.SeverityError
		}

		issue := issueFor(group)
		issue.Field = rule.label
		issue.SatValue = satValue.StringFixed(2)
		issue.QuestorValue = questorValue.StringFixed(2)
		issue.Difference = difference.StringFixed(2)
		issue.Severity = severity
		issues = append(issues, issue)
	}
	return issues
}

// checkIPIComplement warns when the SAT group carries IPI returned in complementary invoices.
func checkIPIComplement(group InvoiceGroup[domain.SatInvoice], sat domain.SatTotals) (domain.ValidationIssue, bool) {
	ipi := sat[domain.SatValorTotalIpiDevolvA58]
	if !ipi.IsPositive() {
		return domain.ValidationIssue{}, false
	}
	issue := issueFor(group)
	issue.Field = FieldIPIComplement
	issue.SatValue = ipi.StringFixed(2)
	issue.QuestorValue = missingValue
	issue.Description = complementarMessage
	issue.Severity = domain.SeverityWarning
	return issue, true
}

func orMissing(s string) string {
	if s == "" {
		return missingValue
	}
	return s
}
