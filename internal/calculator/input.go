package calculator

import (
	"errors"
	"strconv"
	"strings"

	val "juros-justos/internal/validator"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Input holds the raw calculator fields exactly as the user filled them.
type Input struct {
	CreditType string `json:"tipo_credito" form:"tipo_credito" validate:"required"`
	Month      string `json:"mes" form:"mes" validate:"required,month"`
	Year       string `json:"ano" form:"ano" validate:"required,yearnum"`
	Rate       string `json:"taxa_juros" form:"taxa_juros" validate:"required,positiverate"`
}

// Errors is the per-field error record parallel to Input. General carries
// errors that are not tied to a single field.
type Errors struct {
	CreditType string `json:"tipo_credito,omitempty"`
	Month      string `json:"mes,omitempty"`
	Year       string `json:"ano,omitempty"`
	Rate       string `json:"taxa_juros,omitempty"`
	General    string `json:"geral,omitempty"`
}

func (e Errors) Empty() bool {
	return e == Errors{}
}

// ValidationError is returned when one or more fields are missing or invalid.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	return "invalid calculator input"
}

const MsgInvalidYear = "Ano inválido"

type Field string

const (
	FieldCreditType Field = "tipo_credito"
	FieldMonth      Field = "mes"
	FieldYear       Field = "ano"
	FieldRate       Field = "taxa_juros"
)

func (in Input) normalized() Input {
	return Input{
		CreditType: strings.TrimSpace(in.CreditType),
		Month:      strings.TrimSpace(in.Month),
		Year:       strings.TrimSpace(in.Year),
		Rate:       strings.TrimSpace(in.Rate),
	}
}

// Validate checks all four fields and returns the per-field messages.
func (in Input) Validate() Errors {
	var out Errors
	err := val.Validate.Struct(in.normalized())
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.General = "Dados inválidos"
		return out
	}
	for _, fe := range verrs {
		required := fe.Tag() == "required"
		switch fe.StructField() {
		case "CreditType":
			out.CreditType = "Selecione o tipo de crédito"
		case "Month":
			out.Month = pick(required, "Selecione o mês", "Mês inválido")
		case "Year":
			out.Year = pick(required, "Selecione o ano", MsgInvalidYear)
		case "Rate":
			out.Rate = pick(required, "Informe a taxa de juros", "Taxa inválida")
		}
	}
	return out
}

func pick(required bool, requiredMsg, invalidMsg string) string {
	if required {
		return requiredMsg
	}
	return invalidMsg
}

type parsedInput struct {
	creditType string
	month      int
	year       int
	rate       decimal.Decimal
}

// parse must only be called on input that passed Validate.
func (in Input) parse() parsedInput {
	n := in.normalized()
	month, _ := strconv.Atoi(n.Month)
	year, _ := strconv.Atoi(n.Year)
	rate, _ := val.ParseRate(n.Rate)
	return parsedInput{creditType: n.CreditType, month: month, year: year, rate: rate}
}
