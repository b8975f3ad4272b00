package bot

import (
	"context"
	"errors"
	"strings"

	"juros-justos/internal/lead"
)

type step int

const (
	stepNone step = iota
	stepName
	stepEmail
	stepWhatsApp
	stepCity
	stepSituation
	// stepReview waits for /enviar after a failed submission.
	stepReview
)

// skipAnswer leaves an optional field empty.
const skipAnswer = "-"

var stepFields = map[step]lead.Field{
	stepName:      lead.FieldName,
	stepEmail:     lead.FieldEmail,
	stepWhatsApp:  lead.FieldWhatsApp,
	stepCity:      lead.FieldCity,
	stepSituation: lead.FieldSituation,
}

var stepPrompts = map[step]string{
	stepName:      "Qual é o seu nome completo?",
	stepEmail:     "Qual é o seu e-mail?",
	stepWhatsApp:  "Qual é o seu WhatsApp com DDD?",
	stepCity:      "Cidade/Estado? (envie - para pular)",
	stepSituation: "Descreva brevemente a sua situação. (envie - para pular)",
}

func (b *Bot) startCapture(ctx context.Context, ch *chat) string {
	if ch.capture != nil {
		if ch.step == stepReview {
			return "Você tem uma solicitação pendente. Envie /enviar ou /cancelar."
		}
		return "Vamos continuar. " + stepPrompts[ch.step]
	}

	ch.capture = b.leads.NewCapture()
	ch.capture.Open(ctx)
	ch.step = stepName
	ch.review = false
	return "📋 Solicitar consultoria\n\n" + stepPrompts[stepName]
}

// answer stores a reply to the current question and moves on. Once every
// question has been asked, corrections go straight back to submission.
func (b *Bot) answer(ctx context.Context, ch *chat, text string) string {
	if ch.step == stepReview {
		return "Envie /enviar para tentar novamente ou /cancelar."
	}

	value := text
	if (ch.step == stepCity || ch.step == stepSituation) && value == skipAnswer {
		value = ""
	}
	if err := ch.capture.Set(stepFields[ch.step], value); err != nil {
		b.logger.Error("Capture rejected field", "error", err)
		return lead.MsgFailure
	}

	if ch.review || ch.step == stepSituation {
		ch.review = true
		return b.submit(ctx, ch)
	}
	ch.step++
	return stepPrompts[ch.step]
}

func (b *Bot) submit(ctx context.Context, ch *chat) string {
	_, err := ch.capture.Submit(ctx)
	if err == nil {
		notice := ch.capture.Notice()
		ch.reset()
		return notice
	}

	var verr *lead.ValidationError
	switch {
	case errors.As(err, &verr):
		ch.step = firstInvalid(verr.Errors)
		return formatLeadErrors(verr.Errors) + "\n\n" + stepPrompts[ch.step]
	case errors.Is(err, lead.ErrSubmissionInProgress):
		return lead.MsgInProgress
	}
	ch.step = stepReview
	return lead.MsgFailure + "\nEnvie /enviar para tentar novamente ou /cancelar."
}

func firstInvalid(errs lead.Errors) step {
	switch {
	case errs.Name != "":
		return stepName
	case errs.Email != "":
		return stepEmail
	default:
		return stepWhatsApp
	}
}

func formatLeadErrors(errs lead.Errors) string {
	lines := []string{"❌ Verifique os dados:"}
	for _, msg := range []string{errs.Name, errs.Email, errs.WhatsApp} {
		if msg != "" {
			lines = append(lines, "• "+msg)
		}
	}
	return strings.Join(lines, "\n")
}
