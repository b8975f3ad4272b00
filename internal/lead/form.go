package lead

import (
	"errors"

	"juros-justos/internal/domain"
	"juros-justos/internal/phone"
	val "juros-justos/internal/validator"

	"github.com/go-playground/validator/v10"
)

// Form holds the capture fields as typed by the user.
type Form struct {
	Name      string `json:"nome" form:"nome" validate:"required,notblank"`
	Email     string `json:"email" form:"email" validate:"required,notblank,basicemail"`
	WhatsApp  string `json:"whatsapp" form:"whatsapp" validate:"required,notblank,phonebr"`
	City      string `json:"cidade" form:"cidade"`
	Situation string `json:"situacao" form:"situacao"`
}

// Errors is the per-field error record parallel to Form.
type Errors struct {
	Name     string `json:"nome,omitempty"`
	Email    string `json:"email,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

func (e Errors) Empty() bool {
	return e == Errors{}
}

type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	return "invalid lead form"
}

type Field string

const (
	FieldName      Field = "nome"
	FieldEmail     Field = "email"
	FieldWhatsApp  Field = "whatsapp"
	FieldCity      Field = "cidade"
	FieldSituation Field = "situacao"
)

func (f Form) Validate() Errors {
	var out Errors
	err := val.Validate.Struct(f)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Name = "Dados inválidos"
		return out
	}
	for _, fe := range verrs {
		blank := fe.Tag() == "required" || fe.Tag() == "notblank"
		switch fe.StructField() {
		case "Name":
			out.Name = "Nome é obrigatório"
		case "Email":
			out.Email = "E-mail inválido"
			if blank {
				out.Email = "E-mail é obrigatório"
			}
		case "WhatsApp":
			out.WhatsApp = "WhatsApp inválido"
			if blank {
				out.WhatsApp = "WhatsApp é obrigatório"
			}
		}
	}
	return out
}

// Lead converts a validated form into the stored record. The phone keeps
// digits only; every other field is sent as typed.
func (f Form) Lead() domain.Lead {
	return domain.Lead{
		NomeCompleto:      f.Name,
		WhatsApp:          phone.Digits(f.WhatsApp),
		Email:             f.Email,
		CidadeEstado:      f.City,
		DescricaoSituacao: f.Situation,
	}
}

func (f Form) hasSituation() bool {
	return len(f.Situation) > 0
}
