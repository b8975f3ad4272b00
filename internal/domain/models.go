// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsignadoINSS is the payroll-deducted retirement credit. Its reference
// value is the CNPS ceiling, so it only has two outcomes.
const ConsignadoINSS = "consignado_inss"

type CreditType struct {
	Key   string `json:"chave"`
	Label string `json:"rotulo"`
}

// RateRow holds the reference thresholds (% a.m.) for one product and period.
type RateRow struct {
	AcimaMedia decimal.Decimal `json:"acima_media"`
	Abusiva    decimal.Decimal `json:"abusiva"`
}

type Outcome string

const (
	OutcomeControlled  Outcome = "controlada"
	OutcomeImprovement Outcome = "melhoria"
	OutcomeOpportunity Outcome = "oportunidade"
)

type Classification struct {
	Outcome    Outcome         `json:"categoria"`
	CreditType string          `json:"tipo_credito"`
	Rate       decimal.Decimal `json:"taxa"`
	Row        RateRow         `json:"dados"`
	Period     string          `json:"periodo"`
}

// Lead mirrors a row of the juros_justos table.
type Lead struct {
	ID                string    `json:"id,omitempty"`
	NomeCompleto      string    `json:"nome_completo"`
	WhatsApp          string    `json:"whatsapp"`
	Email             string    `json:"email"`
	CidadeEstado      string    `json:"cidade_estado"`
	DescricaoSituacao string    `json:"descricao_situacao"`
	CreatedAt         time.Time `json:"created_at,omitzero"`
}
