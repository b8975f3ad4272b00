package lead

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"juros-justos/internal/analytics"
	"juros-justos/internal/domain"
	"juros-justos/internal/phone"
)

type State int

const (
	StateClosed State = iota
	StateIdle
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	LabelSubmit  = "SOLICITAR CONSULTORIA AGORA"
	LabelSending = "ENVIANDO..."
)

var ErrCaptureClosed = errors.New("capture is closed")

// Capture is a single capture surface: the form a visitor is filling in,
// the errors shown next to each field and the submit flag. At most one
// submission runs at a time.
type Capture struct {
	svc *Service

	mu     sync.Mutex
	state  State
	form   Form
	errors Errors
	notice string
}

func (s *Service) NewCapture() *Capture {
	return &Capture{svc: s}
}

// Open shows the surface. Reopening an open surface is a no-op.
func (c *Capture) Open(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.notice = ""
	c.mu.Unlock()

	analytics.Emit(ctx, c.svc.tracker, analytics.EventCaptureOpened, map[string]any{})
}

// Close hides the surface. The typed fields are kept.
func (c *Capture) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle {
		c.state = StateClosed
	}
}

// Set updates one field and clears its error. WhatsApp is reformatted as
// typed.
func (c *Capture) Set(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldName:
		c.form.Name = value
		c.errors.Name = ""
	case FieldEmail:
		c.form.Email = value
		c.errors.Email = ""
	case FieldWhatsApp:
		c.form.WhatsApp = phone.Format(value)
		c.errors.WhatsApp = ""
	case FieldCity:
		c.form.City = value
	case FieldSituation:
		c.form.Situation = value
	default:
		return fmt.Errorf("unknown lead field %q", field)
	}
	return nil
}

// Submit validates locally and, when valid, sends the form through the
// service. Success resets the fields and closes the surface; failure keeps
// everything so the user can try again.
func (c *Capture) Submit(ctx context.Context) (*domain.Lead, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return nil, ErrSubmissionInProgress
	case StateClosed:
		c.mu.Unlock()
		return nil, ErrCaptureClosed
	}
	if errs := c.form.Validate(); !errs.Empty() {
		c.errors = errs
		c.mu.Unlock()
		return nil, &ValidationError{Errors: errs}
	}
	c.errors = Errors{}
	c.state = StateSubmitting
	form := c.form
	c.mu.Unlock()

	lead, err := c.svc.Submit(ctx, form)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateIdle
		switch {
		case errors.Is(err, ErrSubmissionInProgress):
			c.notice = MsgInProgress
		case errors.Is(err, ErrSubmissionFailed):
			c.notice = MsgFailure
		}
		return nil, err
	}
	c.state = StateClosed
	c.form = Form{}
	c.notice = MsgSuccess
	return lead, nil
}

func (c *Capture) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Capture) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Capture) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

// Notice is the acknowledgement of the last submission, if any.
func (c *Capture) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

func (c *Capture) SubmitLabel() string {
	if c.State() == StateSubmitting {
		return LabelSending
	}
	return LabelSubmit
}
