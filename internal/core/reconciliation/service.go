// package reconciliation/service.go
package reconciliation

import (
	"reconciliation-service/internal/domain"

	"go.uber.org/zap"
)

// Verdict is the per-invoice outcome of the rule pass.
type Verdict string

// Possible invoice verdicts, in rule order.
const (
	VerdictInvalid    Verdict = "invalid"
	VerdictInbound    Verdict = "inbound"
	VerdictCancelled  Verdict = "cancelled"
	VerdictMissing    Verdict = "missing"
	VerdictDivergent  Verdict = "divergent"
	VerdictMismatched Verdict = "mismatched"
	VerdictMatched    Verdict = "matched"
)

// Service defines the interface for SAT x Questor reconciliation.
type Service interface {
	Validate(variant Variant, sat []domain.SatInvoice, questor []domain.QuestorInvoice) domain.ValidationResult
}

// Option configures the service.
type Option func(*service)

// WithRecorder attaches a metrics recorder that receives every run summary.
func WithRecorder(r Recorder) Option {
	return func(s *service) {
		s.recorder = r
	}
}

type service struct {
	logger   *zap.Logger
	recorder Recorder
}

// NewService creates a new reconciliation service.
func NewService(logger *zap.Logger, opts ...Option) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &service{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// outcome is what the rule pass produced for one invoice.
type outcome struct {
	issues  []domain.ValidationIssue
	verdict Verdict
}

// Validate reconciles SAT rows against Questor rows. It never fails: every
// business mismatch is reported as an issue in the result.
func (s *service) Validate(variant Variant, sat []domain.SatInvoice, questor []domain.QuestorInvoice) domain.ValidationResult {
	questorIndex := indexByKey(questor)
	report := newReportBuilder(variant, s.logger, s.recorder)

	for _, group := range GroupByKey(sat) {
		report.add(evaluate(variant, group, questorIndex))
	}

	return report.finish()
}

// evaluate applies the rules to one SAT invoice, in order. Rules 1 to 5
// short-circuit; the amount comparisons and the IPI advisory always run together.
func evaluate(variant Variant, group InvoiceGroup[domain.SatInvoice], questorIndex map[domain.DocumentKey]InvoiceGroup[domain.QuestorInvoice]) outcome {
	first := group.First()

	if issue, ok := checkBasicData(group); !ok {
		return outcome{issues: []domain.ValidationIssue{issue}, verdict: VerdictInvalid}
	}

	if first.TipoDeOperacaoEntradaOuSaida == operationInbound {
		return outcome{issues: []domain.ValidationIssue{inboundIssue(variant, group)}, verdict: VerdictInbound}
	}

	match, found := questorIndex[group.Key]

	if first.Situacao == statusCancelled {
		var issues []domain.ValidationIssue
		if found {
			total := AggregateQuestor(match.Rows)[domain.QuestorValorTotal]
			if total.IsPositive() {
				issues = append(issues, cancelledIssue(variant, group, total))
			}
		}
		return outcome{issues: issues, verdict: VerdictCancelled}
	}

	if !found {
		return outcome{issues: []domain.ValidationIssue{missingIssue(group)}, verdict: VerdictMissing}
	}

	if issues := compareIdentity(group, match.First()); len(issues) > 0 {
		return outcome{issues: issues, verdict: VerdictDivergent}
	}

	satTotals := AggregateSat(group.Rows)
	issues := compareAmounts(group, satTotals, AggregateQuestor(match.Rows))
	if issue, ok := checkIPIComplement(group, satTotals); ok {
		issues = append(issues, issue)
	}

	verdict := VerdictMatched
	for _, issue := range issues {
		if issue.Severity == domain.SeverityError {
			verdict = VerdictMismatched
			break
		}
	}
	return outcome{issues: issues, verdict: verdict}
}
