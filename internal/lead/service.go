// Package lead validates contact requests and hands them to the lead storage.
package lead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"juros-justos/internal/analytics"
	"juros-justos/internal/domain"
	"juros-justos/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrSubmissionInProgress = errors.New("lead submission already in progress")
	ErrSubmissionFailed     = errors.New("lead submission failed")
)

const (
	MsgSuccess = "✅ Solicitação enviada com sucesso! Nossa equipe entrará em contato em breve."
	MsgFailure = "❌ Erro ao enviar solicitação. Tente novamente."
	// MsgInProgress answers a second request for a contact whose first one
	// is still being stored.
	MsgInProgress = "⏳ Sua solicitação já está sendo enviada."
)

const notifyTimeout = 10 * time.Second

// Notifier is told about every stored lead. Failures are only logged.
type Notifier interface {
	NotifyLead(ctx context.Context, lead domain.Lead) error
}

type Service struct {
	store    storage.LeadStorage
	tracker  analytics.Tracker
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService wires the lead flow. tracker and notifier may be nil.
func NewService(store storage.LeadStorage, tracker analytics.Tracker, notifier Notifier) *Service {
	return &Service{
		store:    store,
		tracker:  analytics.OrNoop(tracker),
		notifier: notifier,
		logger:   slog.Default().With("component", "lead"),
		inflight: make(map[string]struct{}),
	}
}

// Submit validates the form and inserts the lead once. While an insert for
// the same WhatsApp number is pending, further submissions get
// ErrSubmissionInProgress. Storage errors are logged and reported as
// ErrSubmissionFailed; nothing is retried.
func (s *Service) Submit(ctx context.Context, form Form) (*domain.Lead, error) {
	if errs := form.Validate(); !errs.Empty() {
		return nil, &ValidationError{Errors: errs}
	}

	lead := form.Lead()
	if !s.acquire(lead.WhatsApp) {
		return nil, ErrSubmissionInProgress
	}
	defer s.release(lead.WhatsApp)

	analytics.Emit(ctx, s.tracker, analytics.EventLeadSubmitted, map[string]any{
		"nome":         form.Name,
		"cidade":       form.City,
		"tem_situacao": form.hasSituation(),
	})

	lead.ID = uuid.NewString()
	if err := s.store.InsertLead(ctx, &lead); err != nil {
		s.logger.Error("Failed to save lead", "error", err, "lead_id", lead.ID)
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	s.logger.Info("Lead saved", "lead_id", lead.ID)

	if s.notifier != nil {
		go s.notify(context.WithoutCancel(ctx), lead)
	}
	return &lead, nil
}

func (s *Service) notify(ctx context.Context, lead domain.Lead) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.NotifyLead(ctx, lead); err != nil {
		s.logger.Warn("Lead notification failed", "error", err, "lead_id", lead.ID)
	}
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}
