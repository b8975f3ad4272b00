package calculator

import (
	"context"
	"fmt"
)

// Form is one calculator on screen: the raw input, the errors on display
// and the last result. Any field change discards the result; the user has
// to submit again.
type Form struct {
	calc   *Calculator
	input  Input
	errors Errors
	result *Result
}

func (c *Calculator) NewForm() *Form {
	return &Form{calc: c}
}

func (f *Form) Set(field Field, value string) error {
	switch field {
	case FieldCreditType:
		f.input.CreditType = value
		f.errors.CreditType = ""
	case FieldMonth:
		f.input.Month = value
		f.errors.Month = ""
	case FieldYear:
		f.input.Year = value
		f.errors.Year = ""
	case FieldRate:
		f.input.Rate = value
		f.errors.Rate = ""
	default:
		return fmt.Errorf("unknown calculator field %q", field)
	}
	f.result = nil
	return nil
}

func (f *Form) Input() Input   { return f.input }
func (f *Form) Errors() Errors { return f.errors }

// Result is nil until a successful Submit and after any field change.
func (f *Form) Result() *Result { return f.result }

func (f *Form) Submit(ctx context.Context) (*Result, error) {
	res, err := f.calc.Calculate(ctx, f.input)
	if err != nil {
		f.result = nil
		if errs, ok := ErrorsOf(err); ok {
			f.errors = errs
		}
		return nil, err
	}
	f.errors = Errors{}
	f.result = res
	return res, nil
}
