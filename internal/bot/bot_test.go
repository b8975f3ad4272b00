package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"juros-justos/internal/analytics"
	"juros-justos/internal/calculator"
	"juros-justos/internal/domain"
	"juros-justos/internal/lead"
	"juros-justos/internal/rates"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	leads []domain.Lead
	err   error
}

func (s *fakeStore) InsertLead(_ context.Context, l *domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.leads = append(s.leads, *l)
	return nil
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func newBot(t *testing.T) (*Bot, *fakeStore, *fakeSender, *analytics.Recorder) {
	t.Helper()
	rec := &analytics.Recorder{}
	store := &fakeStore{}
	sender := &fakeSender{}
	b := New(calculator.New(rates.MustLoad(), rec), lead.NewService(store, rec, nil), sender)
	return b, store, sender, rec
}

func TestFixEncoding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "São Paulo", FixEncoding("São Paulo"))
	assert.Equal(t, "São Paulo", FixEncoding("S\xe3o Paulo"))
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	cmd, args := parseCommand("/CALC@JurosJustosBot  credito_pessoal\t03/2024   7,5")
	assert.Equal(t, "/calc", cmd)
	assert.Equal(t, []string{"credito_pessoal", "03/2024", "7,5"}, args)

	cmd, args = parseCommand("/help")
	assert.Equal(t, "/help", cmd)
	assert.Empty(t, args)
}

func TestCalcCommand(t *testing.T) {
	t.Parallel()

	b, _, _, rec := newBot(t)
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "opportunity", text: "/calc credito_pessoal 03/2024 7,68", want: "🚨 OPORTUNIDADE IDENTIFICADA"},
		{name: "improvement", text: "/calc credito_pessoal 3/2024 5.12%", want: "⚠️ OPORTUNIDADE IDENTIFICADA"},
		{name: "controlled_by_index", text: "/calc 1 03/2024 1,5", want: "✅ SITUAÇÃO CONTROLADA"},
		{name: "usage", text: "/calc credito_pessoal 7,5", want: "❌ Use: /calc"},
		{name: "invalid_rate", text: "/calc credito_pessoal 03/2024 abc", want: "Taxa inválida"},
		{name: "invalid_month", text: "/calc credito_pessoal 13/2024 3", want: "Mês inválido"},
		{name: "year_outside_table", text: "/calc credito_pessoal 01/1990 3", want: calculator.MsgInvalidYear},
		{name: "no_data", text: "/calc inexistente 01/2024 3", want: calculator.MsgDataNotFound},
		{name: "exponent_rate", text: "/calc credito_pessoal 03/2024 1e-10000000", want: "Taxa inválida"},
	}
	for _, tt := range tests {
		assert.Contains(t, b.Reply(ctx, 1, tt.text), tt.want, tt.name)
	}

	assert.Len(t, rec.Named(analytics.EventCalculatorUsed), 3)
	assert.Contains(t, b.Reply(ctx, 1, "/calc credito_pessoal 03/2024 7,68"), "/consultoria")
	assert.NotContains(t, b.Reply(ctx, 1, "/calc 1 03/2024 1,5"), "/consultoria")
}

func TestCaptureDialog(t *testing.T) {
	t.Parallel()

	b, store, _, rec := newBot(t)
	ctx := context.Background()

	assert.Contains(t, b.Reply(ctx, 7, "/consultoria"), "nome completo")
	assert.Len(t, rec.Named(analytics.EventCaptureOpened), 1)

	assert.Contains(t, b.Reply(ctx, 7, "Maria da Silva"), "e-mail")
	assert.Contains(t, b.Reply(ctx, 7, "maria@exemplo"), "WhatsApp")
	assert.Contains(t, b.Reply(ctx, 7, "11999998888"), "Cidade")
	assert.Contains(t, b.Reply(ctx, 7, "-"), "situação")

	reply := b.Reply(ctx, 7, "-")
	assert.Contains(t, reply, "E-mail inválido")
	assert.Contains(t, reply, "e-mail?")
	assert.Empty(t, store.leads)

	assert.Equal(t, lead.MsgSuccess, b.Reply(ctx, 7, "maria@exemplo.com"))
	require.Len(t, store.leads, 1)
	got := store.leads[0]
	assert.Equal(t, "Maria da Silva", got.NomeCompleto)
	assert.Equal(t, "11999998888", got.WhatsApp)
	assert.Empty(t, got.CidadeEstado)
	assert.Empty(t, got.DescricaoSituacao)

	assert.Equal(t, msgNoDialog, b.Reply(ctx, 7, "olá"))
}

func TestCaptureFailureAndRetry(t *testing.T) {
	t.Parallel()

	b, store, _, _ := newBot(t)
	ctx := context.Background()
	store.err = errors.New("timeout")

	for _, text := range []string{"/consultoria", "João", "joao@exemplo.com", "(81) 98888-7777", "Recife/PE"} {
		b.Reply(ctx, 9, text)
	}
	reply := b.Reply(ctx, 9, "Tenho três empréstimos consignados.")
	assert.Contains(t, reply, lead.MsgFailure)
	assert.Contains(t, reply, "/enviar")

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	assert.Equal(t, lead.MsgSuccess, b.Reply(ctx, 9, "/enviar"))
	require.Len(t, store.leads, 1)
	assert.Equal(t, "Recife/PE", store.leads[0].CidadeEstado)
	assert.Equal(t, "81988887777", store.leads[0].WhatsApp)

	assert.Equal(t, msgNothingToSend, b.Reply(ctx, 9, "/enviar"))
}

func TestCancel(t *testing.T) {
	t.Parallel()

	b, store, _, _ := newBot(t)
	ctx := context.Background()

	b.Reply(ctx, 3, "/consultoria")
	b.Reply(ctx, 3, "Ana")
	assert.Equal(t, msgCancelled, b.Reply(ctx, 3, "/cancelar"))
	assert.Equal(t, msgNoDialog, b.Reply(ctx, 3, "ana@exemplo.com"))
	assert.Empty(t, store.leads)
}

func TestHandleUpdateSendsReply(t *testing.T) {
	t.Parallel()

	b, _, sender, _ := newBot(t)
	b.HandleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{Text: "/start", Chat: &tgbotapi.Chat{ID: 55}},
	})
	b.HandleUpdate(context.Background(), tgbotapi.Update{})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(55), sender.sent[0].ChatID)
	assert.Equal(t, helpText, sender.sent[0].Text)
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	b, _, _, _ := newBot(t)
	assert.Equal(t, msgUnknownCommand, b.Reply(context.Background(), 1, "/xyz"))
	assert.Contains(t, b.Reply(context.Background(), 1, "/tipos"), "1. ")
}

func chatCount(b *Bot) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chats)
}

func TestChatsWithoutDialogAreEvicted(t *testing.T) {
	t.Parallel()

	b, _, _, _ := newBot(t)
	ctx := context.Background()

	for i := int64(0); i < 50; i++ {
		b.Reply(ctx, 1000+i, "/calc credito_pessoal 03/2024 7,5")
		b.Reply(ctx, 2000+i, "/start")
		b.Reply(ctx, 3000+i, "olá")
	}
	assert.Zero(t, chatCount(b))

	b.Reply(ctx, 4, "/consultoria")
	assert.Equal(t, 1, chatCount(b))
	b.Reply(ctx, 4, "/cancelar")
	assert.Zero(t, chatCount(b))

	for _, text := range []string{"/consultoria", "Ana Souza", "ana@exemplo.com", "11977776666", "-"} {
		b.Reply(ctx, 5, text)
	}
	assert.Equal(t, 1, chatCount(b))
	assert.Equal(t, lead.MsgSuccess, b.Reply(ctx, 5, "-"))
	assert.Zero(t, chatCount(b))
}

func TestAbandonedDialogsAreSwept(t *testing.T) {
	t.Parallel()

	b, store, _, _ := newBot(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.Reply(ctx, 1, "/consultoria")
	b.Reply(ctx, 1, "Ana")
	require.Equal(t, 1, chatCount(b))

	now = now.Add(abandonedAfter + time.Minute)
	b.Reply(ctx, 2, "/start")
	assert.Zero(t, chatCount(b))

	assert.Equal(t, msgNoDialog, b.Reply(ctx, 1, "ana@exemplo.com"))
	assert.Empty(t, store.leads)
}
