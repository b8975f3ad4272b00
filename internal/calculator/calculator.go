// Package calculator classifies a contracted monthly interest rate against
// the reference rates for the product and period of the contract.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"juros-justos/internal/analytics"
	"juros-justos/internal/domain"
	"juros-justos/internal/rates"
)

var ErrDataNotFound = errors.New("no reference rates for credit type and period")

// MsgDataNotFound is the general error shown when the lookup misses.
const MsgDataNotFound = "Dados não encontrados para o período selecionado"

type Result struct {
	domain.Classification
	Template
}

type Calculator struct {
	table   *rates.Table
	years   []int
	tracker analytics.Tracker
}

func New(table *rates.Table, tracker analytics.Tracker) *Calculator {
	return &Calculator{table: table, years: table.Years(), tracker: analytics.OrNoop(tracker)}
}

func (c *Calculator) Table() *rates.Table {
	return c.table
}

// Calculate validates in, looks up the reference row and classifies the rate.
// It returns *ValidationError for field problems and ErrDataNotFound when
// the table has no row for the product and period.
func (c *Calculator) Calculate(ctx context.Context, in Input) (*Result, error) {
	if errs := in.Validate(); !errs.Empty() {
		return nil, &ValidationError{Errors: errs}
	}
	p := in.parse()
	// the year select only offers years present in the table
	if !slices.Contains(c.years, p.year) {
		return nil, &ValidationError{Errors: Errors{Year: MsgInvalidYear}}
	}

	row, ok := c.table.Lookup(p.creditType, rates.PeriodKey(p.month, p.year))
	if !ok {
		return nil, ErrDataNotFound
	}

	period := fmt.Sprintf("%d/%d", p.month, p.year)
	analytics.Emit(ctx, c.tracker, analytics.EventCalculatorUsed, map[string]any{
		"tipo_credito": p.creditType,
		"periodo":      period,
		"taxa_juros":   in.normalized().Rate,
	})

	classification := domain.Classification{
		Outcome:    Classify(p.creditType, p.rate, row),
		CreditType: p.creditType,
		Rate:       p.rate,
		Row:        row,
		Period:     period,
	}
	return &Result{Classification: classification, Template: TemplateFor(classification)}, nil
}

// ErrorsOf maps an error returned by Calculate to the error record shown to
// the user. ok is false for unexpected errors.
func ErrorsOf(err error) (errs Errors, ok bool) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Errors, true
	case errors.Is(err, ErrDataNotFound):
		return Errors{General: MsgDataNotFound}, true
	}
	return Errors{}, false
}
