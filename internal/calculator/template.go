package calculator

import (
	"juros-justos/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Template is the fixed presentation of an outcome.
type Template struct {
	Title   string `json:"titulo"`
	Message string `json:"mensagem"`
	ShowCTA bool   `json:"mostrar_cta"`
}

// CTALabel is the follow-up action shown for improvement and opportunity.
const CTALabel = "🚀 SOLICITAR CONSULTORIA PERSONALIZADA"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// TemplateFor renders the headline and message for a classification.
func TemplateFor(c domain.Classification) Template {
	rate := printer.Sprintf("%v%%", c.Rate.InexactFloat64())
	inss := c.CreditType == domain.ConsignadoINSS

	switch c.Outcome {
	case domain.OutcomeOpportunity:
		msg := "Sua taxa de " + rate + " está muito acima da média de mercado no período, conforme dados oficiais do BANCO CENTRAL. " +
			"Você poderá tentar reduzir suas taxas e o valor das suas parcelas."
		if inss {
			msg = "Sua taxa de " + rate + " está acima do valor definido pelo Conselho Nacional da Previdência Social (CNPS) para o período da contratação. " +
				"Você pode tentar a redução do valor das suas parcelas!"
		}
		return Template{Title: "🚨 OPORTUNIDADE IDENTIFICADA", Message: msg, ShowCTA: true}

	case domain.OutcomeImprovement:
		return Template{
			Title: "⚠️ OPORTUNIDADE IDENTIFICADA",
			Message: "Sua taxa de " + rate + " está acima da média de mercado no período, conforme dados oficiais do BANCO CENTRAL. " +
				"Você poderá tentar reduzir suas taxas e o valor das suas parcelas.",
			ShowCTA: true,
		}

	default:
		msg := "Sua taxa de " + rate + " está dentro da faixa normal de mercado no período. Continue monitorando as oportunidades!"
		if inss {
			msg = "Sua taxa de " + rate + " está dentro do valor definido pelo Conselho Nacional da Previdência Social (CNPS) para o período. " +
				"Continue monitorando as oportunidades!"
		}
		return Template{Title: "✅ SITUAÇÃO CONTROLADA", Message: msg, ShowCTA: false}
	}
}
