package calculator

import (
	"juros-justos/internal/domain"

	"github.com/shopspring/decimal"
)

// Classify places rate against the thresholds of row. Both comparisons are
// inclusive. Consignado INSS only distinguishes controlled from opportunity.
func Classify(creditType string, rate decimal.Decimal, row domain.RateRow) domain.Outcome {
	if rate.GreaterThanOrEqual(row.Abusiva) {
		return domain.OutcomeOpportunity
	}
	if creditType != domain.ConsignadoINSS && rate.GreaterThanOrEqual(row.AcimaMedia) {
		return domain.OutcomeImprovement
	}
	return domain.OutcomeControlled
}
