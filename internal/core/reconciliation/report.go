package reconciliation

import (
	"reconciliation-service/internal/domain"

	"go.uber.org/zap"
)

// RunSummary is the outcome breakdown of one reconciliation run.
type RunSummary struct {
	Total    int
	Matched  int
	Errors   int
	Warnings int
	Verdicts map[Verdict]int
}

// Recorder receives run summaries, e.g. to export them as metrics.
type Recorder interface {
	ObserveRun(variant string, summary RunSummary)
}

// reportBuilder accumulates per-invoice outcomes into a ValidationResult.
type reportBuilder struct {
	variant  Variant
	logger   *zap.Logger
	recorder Recorder

	total    int
	matched  int
	issues   []domain.ValidationIssue
	verdicts map[Verdict]int
}

func newReportBuilder(variant Variant, logger *zap.Logger, recorder Recorder) *reportBuilder {
	return &reportBuilder{
		variant:  variant,
		logger:   logger,
		recorder: recorder,
		issues:   []domain.ValidationIssue{},
		verdicts: make(map[Verdict]int),
	}
}

func (b *reportBuilder) add(o outcome) {
	b.total++
	if o.verdict == VerdictMatched {
		b.matched++
	}
	b.verdicts[o.verdict]++
	b.issues = append(b.issues, o.issues...)
}

// finish builds the result and logs the run breakdown.
func (b *reportBuilder) finish() domain.ValidationResult {
	result := domain.ValidationResult{
		Success:        len(b.issues) == 0,
		TotalRecords:   b.total,
		MatchedRecords: b.matched,
		Issues:         b.issues,
	}

	summary := RunSummary{
		Total:    result.TotalRecords,
		Matched:  result.MatchedRecords,
		Errors:   result.CountBySeverity(domain.SeverityError),
		Warnings: result.CountBySeverity(domain.SeverityWarning),
		Verdicts: b.verdicts,
	}

	fields := []zap.Field{
		zap.String("variant", b.variant.Name),
		zap.Int("total_records", summary.Total),
		zap.Int("matched_records", summary.Matched),
		zap.Int("issues", len(result.Issues)),
		zap.Int("errors", summary.Errors),
		zap.Int("warnings", summary.Warnings),
	}
	for verdict, n := range b.verdicts {
		fields = append(fields, zap.Int("verdict_"+string(verdict), n))
	}
	b.logger.Info("Validação SAT x Questor concluída", fields...)

	if b.recorder != nil {
		b.recorder.ObserveRun(b.variant.Name, summary)
	}
	return result
}
