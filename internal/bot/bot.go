// Package bot offers the calculator and the consultation request in a
// Telegram chat.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"juros-justos/internal/calculator"
	"juros-justos/internal/lead"
	"juros-justos/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "⚖️ Juros Justos\n\n" +
	"Descubra se a taxa do seu empréstimo está acima da média do mercado.\n\n" +
	"Comandos:\n" +
	"/tipos: lista os tipos de crédito\n" +
	"/calc <tipo> <MM/AAAA> <taxa>: analisa a sua taxa mensal\n" +
	"   exemplo: /calc credito_pessoal 03/2024 7,5\n" +
	"/consultoria: solicita uma consultoria gratuita\n" +
	"/cancelar: cancela a solicitação em andamento"

const (
	msgUnknownCommand = "Comando desconhecido. Envie /help"
	msgCalcUsage      = "❌ Use: /calc <tipo> <MM/AAAA> <taxa>\nexemplo: /calc credito_pessoal 03/2024 7,5\nEnvie /tipos para ver os tipos."
	msgNoDialog       = "Envie /help para ver os comandos."
	msgCancelled      = "Solicitação cancelada."
	msgNothingToSend  = "Nenhuma solicitação pendente. Envie /consultoria para começar."
)

// abandonedAfter is how long an unfinished consultation dialog is kept.
const abandonedAfter = 24 * time.Hour

type Bot struct {
	calc   *calculator.Calculator
	leads  *lead.Service
	sender notify.Sender
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	chats     map[int64]*chat
	lastSweep time.Time
}

// chat is the state of one conversation. Messages of the same chat are
// handled one at a time. Only chats with a dialog in progress stay in
// Bot.chats.
type chat struct {
	mu       sync.Mutex
	form     *calculator.Form
	capture  *lead.Capture
	step     step
	review   bool
	lastSeen time.Time
	evicted  bool
}

func New(calc *calculator.Calculator, leads *lead.Service, sender notify.Sender) *Bot {
	return &Bot{
		calc:   calc,
		leads:  leads,
		sender: sender,
		logger: slog.Default().With("component", "bot"),
		now:    time.Now,
		chats:  make(map[int64]*chat),
	}
}

// Run handles updates until ctx is done or the channel is closed.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	b.logger.Debug("Message received", "chat_id", chatID)

	reply := b.Reply(ctx, chatID, update.Message.Text)
	if reply == "" {
		return
	}
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, reply)); err != nil {
		b.logger.Error("Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// Reply computes the answer to one message of a chat.
func (b *Bot) Reply(ctx context.Context, chatID int64, text string) string {
	text = strings.TrimSpace(FixEncoding(text))
	if text == "" {
		return ""
	}

	ch := b.lockChat(chatID)
	defer b.unlockChat(chatID, ch)

	if !strings.HasPrefix(text, "/") {
		if ch.capture == nil || ch.step == stepNone {
			return msgNoDialog
		}
		return b.answer(ctx, ch, text)
	}

	cmd, args := parseCommand(text)
	switch cmd {
	case "/start", "/help":
		return helpText
	case "/tipos":
		return b.listCreditTypes()
	case "/calc":
		return b.calculate(ctx, ch, args)
	case "/consultoria":
		return b.startCapture(ctx, ch)
	case "/enviar":
		if ch.capture == nil || ch.step != stepReview {
			return msgNothingToSend
		}
		return b.submit(ctx, ch)
	case "/cancelar":
		if ch.capture != nil {
			ch.capture.Close()
		}
		ch.reset()
		return msgCancelled
	}
	return msgUnknownCommand
}

// lockChat returns the locked state of a chat, skipping a state that was
// evicted while this call waited for it.
func (b *Bot) lockChat(id int64) *chat {
	for {
		ch := b.chat(id)
		ch.mu.Lock()
		if !ch.evicted {
			ch.lastSeen = b.now()
			return ch
		}
		ch.mu.Unlock()
	}
}

// unlockChat drops the chat from the map when no dialog is in progress.
func (b *Bot) unlockChat(id int64, ch *chat) {
	if ch.capture == nil {
		b.mu.Lock()
		if b.chats[id] == ch {
			delete(b.chats, id)
		}
		b.mu.Unlock()
		ch.evicted = true
	}
	ch.mu.Unlock()
}

func (b *Bot) chat(id int64) *chat {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.chats[id]
	if !ok {
		b.sweepLocked()
		ch = &chat{form: b.calc.NewForm()}
		b.chats[id] = ch
	}
	return ch
}

// sweepLocked evicts dialogs abandoned for longer than abandonedAfter. It
// runs at most once per abandonedAfter and skips chats that are busy.
func (b *Bot) sweepLocked() {
	now := b.now()
	if now.Sub(b.lastSweep) < abandonedAfter {
		return
	}
	b.lastSweep = now
	for id, ch := range b.chats {
		if !ch.mu.TryLock() {
			continue
		}
		if now.Sub(ch.lastSeen) > abandonedAfter {
			if ch.capture != nil {
				ch.capture.Close()
			}
			ch.evicted = true
			delete(b.chats, id)
		}
		ch.mu.Unlock()
	}
}

func (b *Bot) listCreditTypes() string {
	lines := []string{"Tipos de crédito:"}
	for i, ct := range b.calc.Table().CreditTypes() {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, ct.Label, ct.Key))
	}
	lines = append(lines, "", "Use o número ou a chave no /calc.")
	return strings.Join(lines, "\n")
}

func (b *Bot) calculate(ctx context.Context, ch *chat, args []string) string {
	in, ok := b.parseCalc(args)
	if !ok {
		return msgCalcUsage
	}

	f := ch.form
	_ = f.Set(calculator.FieldCreditType, in.CreditType)
	_ = f.Set(calculator.FieldMonth, in.Month)
	_ = f.Set(calculator.FieldYear, in.Year)
	_ = f.Set(calculator.FieldRate, in.Rate)

	res, err := f.Submit(ctx)
	if err != nil {
		errs, known := calculator.ErrorsOf(err)
		if !known {
			b.logger.Error("Calculate failed", "error", err)
			return "❌ Não foi possível analisar a taxa agora."
		}
		return formatCalcErrors(errs)
	}
	return formatResult(res)
}

// parseCalc reads "<tipo> <MM/AAAA> <taxa>". The type may be given by key
// or by its position in /tipos.
func (b *Bot) parseCalc(args []string) (calculator.Input, bool) {
	if len(args) != 3 {
		return calculator.Input{}, false
	}
	month, year, ok := strings.Cut(args[1], "/")
	if !ok {
		return calculator.Input{}, false
	}

	creditType := strings.ToLower(args[0])
	if n, err := strconv.Atoi(creditType); err == nil {
		types := b.calc.Table().CreditTypes()
		if n >= 1 && n <= len(types) {
			creditType = types[n-1].Key
		}
	}

	return calculator.Input{
		CreditType: creditType,
		Month:      month,
		Year:       year,
		Rate:       strings.TrimSuffix(args[2], "%"),
	}, true
}

func formatCalcErrors(errs calculator.Errors) string {
	lines := []string{"❌ Verifique os dados:"}
	for _, msg := range []string{errs.CreditType, errs.Month, errs.Year, errs.Rate, errs.General} {
		if msg != "" {
			lines = append(lines, "• "+msg)
		}
	}
	return strings.Join(lines, "\n")
}

func formatResult(res *calculator.Result) string {
	out := res.Title + "\n\n" + res.Message
	if res.ShowCTA {
		out += "\n\n" + calculator.CTALabel + ": envie /consultoria"
	}
	return out
}

func (ch *chat) reset() {
	ch.capture = nil
	ch.step = stepNone
	ch.review = false
}

