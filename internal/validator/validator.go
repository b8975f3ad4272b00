// internal/validator/validator.go
package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var Validate *validator.Validate

var (
	nonBlank   = regexp.MustCompile(`\S`)
	emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)
	nonDigit   = regexp.MustCompile(`\D`)
	// Plain decimal: up to 4 integer digits and 6 decimals, no sign or
	// exponent.
	rateShape = regexp.MustCompile(`^\d{1,4}([.,]\d{1,6})?$`)
)

// MinPhoneDigits is the shortest national number accepted: area code + 8 digits.
const MinPhoneDigits = 10

func init() {
	Validate = validator.New()

	// Period key: "2024-12"
	_ = Validate.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		_, err := time.Parse("2006-01", s)
		return err == nil
	})

	// Not empty and not only whitespace
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonBlank.MatchString(fl.Field().String())
	})

	// local@domain.tld, nothing stricter
	_ = Validate.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})

	_ = Validate.RegisterValidation("phonebr", func(fl validator.FieldLevel) bool {
		return len(nonDigit.ReplaceAllString(fl.Field().String(), "")) >= MinPhoneDigits
	})

	_ = Validate.RegisterValidation("positiverate", func(fl validator.FieldLevel) bool {
		_, ok := ParseRate(fl.Field().String())
		return ok
	})

	_ = Validate.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		m, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && m >= 1 && m <= 12
	})

	_ = Validate.RegisterValidation("yearnum", func(fl validator.FieldLevel) bool {
		y, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && y > 0
	})
}

// ParseRate reads a user-typed percentage. Both "8.50" and "8,50" are
// accepted; the value must be strictly positive. Signs, exponents and
// thousands separators are rejected.
func ParseRate(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !rateShape.MatchString(s) {
		return decimal.Decimal{}, false
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}
