package reconciliation

import (
	"reconciliation-service/internal/domain"

	"github.com/shopspring/decimal"
)

// AggregateSat sums every SAT monetary field across the rows of one invoice.
// The returned map always carries the full field set.
func AggregateSat(rows []domain.SatInvoice) domain.SatTotals {
	totals := make(domain.SatTotals, len(domain.SatAmountFields))
	for _, field := range domain.SatAmountFields {
		sum := decimal.Zero
		for _, row := range rows {
			sum = sum.Add(row.Amount(field))
		}
		totals[field] = sum
	}
	return totals
}

// AggregateQuestor sums every Questor monetary field across matching rows.
func AggregateQuestor(rows []domain.QuestorInvoice) domain.QuestorTotals {
	totals := make(domain.QuestorTotals, len(domain.QuestorAmountFields))
	for _, field := range domain.QuestorAmountFields {
		sum := decimal.Zero
		for _, row := range rows {
			sum = sum.Add(row.Amount(field))
		}
		totals[field] = sum
	}
	return totals
}
