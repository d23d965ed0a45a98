package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
	"github.com/yungbote/converse-backend/internal/validate"
)

const apologyText = "Sorry, I couldn't understand that. Let's move on."

// Prompter delivers outbound prompts toward the user's channel.
type Prompter interface {
	Send(ctx context.Context, prompt domain.OutboundPrompt) error
}

// Binder writes an accepted (or sentinel) value into the session's
// variables.
type Binder interface {
	BindVariable(ctx context.Context, sessionID uuid.UUID, name string, value any) error
}

// Resumption is handed to the Resumer when a suspended dialog turn can
// continue: either an accepted value or the empty sentinel after
// exhaustion. OK is false only for the sentinel case.
type Resumption struct {
	ContinuationID uuid.UUID
	SessionID      uuid.UUID
	Variable       string
	Value          string
	Metadata       map[string]any
	OK             bool
}

// Resumer continues the suspended dialog turn. The script runtime registers
// one at startup.
type Resumer func(ctx context.Context, r Resumption)

// Controller owns the per-session capture state machine:
// Idle -> AwaitingInput -> Validating -> {Idle, AwaitingInput}.
// A per-session mutex serializes transitions; sessions never block one
// another.
type Controller struct {
	log     *logger.Logger
	store   Store
	sup     *Supervisor
	prompts Prompter
	binder  Binder
	resumer Resumer

	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

// sessionLock is refcounted so the controller can drop entries once no
// goroutine holds or waits on them.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewController(log *logger.Logger, store Store, sup *Supervisor, prompts Prompter, binder Binder) *Controller {
	return &Controller{
		log:     log.With("component", "CaptureController"),
		store:   store,
		sup:     sup,
		prompts: prompts,
		binder:  binder,
		locks:   map[uuid.UUID]*sessionLock{},
	}
}

// SetResumer registers the continuation callback. Must be called before
// traffic flows.
func (c *Controller) SetResumer(r Resumer) { c.resumer = r }

// SetBinder replaces the variable binder. Wiring uses it to break the
// controller/session-service construction cycle.
func (c *Controller) SetBinder(b Binder) { c.binder = b }

// lockSession serializes capture transitions for one session. The returned
// func releases the lock and evicts the map entry once idle.
func (c *Controller) lockSession(sessionID uuid.UUID) func() {
	c.mu.Lock()
	l, ok := c.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		c.locks[sessionID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, sessionID)
		}
		c.mu.Unlock()
	}
}

// Begin suspends the dialog on a typed input request: it arms the pending
// capture and asks the question. Any capture already pending for the
// session is replaced.
func (c *Controller) Begin(ctx context.Context, sessionID uuid.UUID, variable, typeTag, promptText string, params domain.CaptureParams) (*domain.PendingCapture, error) {
	if variable == "" {
		return nil, fmt.Errorf("capture variable name required")
	}

	unlock := c.lockSession(sessionID)
	defer unlock()

	pc := &domain.PendingCapture{
		SessionID:      sessionID,
		Variable:       variable,
		TypeTag:        typeTag,
		Params:         params,
		AttemptCount:   0,
		MaxRetries:     c.sup.ResolveBudget(typeTag, params),
		ContinuationID: uuid.New(),
		State:          domain.CaptureAwaitingInput,
		CreatedAt:      time.Now().UTC(),
	}
	if err := c.store.Put(ctx, pc); err != nil {
		return nil, fmt.Errorf("arm pending capture: %w", err)
	}

	c.log.Info("capture armed",
		"session_id", sessionID, "variable", variable, "type_tag", typeTag,
		"max_retries", pc.MaxRetries)

	if promptText != "" {
		c.send(ctx, domain.OutboundPrompt{
			SessionID:   sessionID.String(),
			Kind:        domain.PromptAsk,
			Text:        promptText,
			Suggestions: params.Options,
		})
	}
	return pc, nil
}

// HandleInbound routes one user reply. It returns false when no capture is
// pending, so the caller can treat the event as a fresh top-level turn.
func (c *Controller) HandleInbound(ctx context.Context, sessionID uuid.UUID, event domain.InboundEvent) (bool, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()

	pc, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("load pending capture: %w", err)
	}
	if pc == nil {
		return false, nil
	}

	pc.State = domain.CaptureValidating
	marked, err := c.store.Replace(ctx, pc)
	if err != nil {
		return true, fmt.Errorf("mark capture validating: %w", err)
	}
	if !marked {
		// Cancelled or replaced since the load.
		return false, nil
	}

	in := validate.Input{
		Text:       event.Text,
		Attachment: event.Attachment,
	}
	outcome := c.sup.Submit(ctx, pc, in)

	// A media validator may have been in flight while the capture was
	// cancelled or replaced. Only act on the result if the stored record
	// still belongs to this continuation.
	current, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return true, fmt.Errorf("reload pending capture: %w", err)
	}
	if current == nil || current.ContinuationID != pc.ContinuationID {
		c.log.Info("discarding orphaned capture result",
			"session_id", sessionID, "variable", pc.Variable)
		return true, nil
	}

	switch outcome.Kind {
	case OutcomeAccepted:
		existed, err := c.store.Delete(ctx, sessionID)
		if err != nil {
			return true, fmt.Errorf("consume pending capture: %w", err)
		}
		if !existed {
			return true, nil
		}
		if err := c.bind(ctx, pc, outcome.Value); err != nil {
			return true, err
		}
		c.resume(ctx, Resumption{
			ContinuationID: pc.ContinuationID,
			SessionID:      sessionID,
			Variable:       pc.Variable,
			Value:          outcome.Value,
			Metadata:       outcome.Metadata,
			OK:             true,
		})
		return true, nil

	case OutcomeExhausted:
		if _, err := c.store.Delete(ctx, sessionID); err != nil {
			return true, fmt.Errorf("clear exhausted capture: %w", err)
		}
		if err := c.bind(ctx, pc, ""); err != nil {
			return true, err
		}
		c.send(ctx, domain.OutboundPrompt{
			SessionID: sessionID.String(),
			Kind:      domain.PromptApology,
			Text:      apologyText,
		})
		c.resume(ctx, Resumption{
			ContinuationID: pc.ContinuationID,
			SessionID:      sessionID,
			Variable:       pc.Variable,
			Value:          "",
			OK:             false,
		})
		return true, nil

	default: // OutcomeRejected
		pc.AttemptCount++
		pc.State = domain.CaptureAwaitingInput
		rearmed, err := c.store.Replace(ctx, pc)
		if err != nil {
			return true, fmt.Errorf("re-arm pending capture: %w", err)
		}
		if !rearmed {
			// A cancel won between the reload and the re-arm. The capture
			// stays cleared.
			c.log.Info("discarding orphaned capture result",
				"session_id", sessionID, "variable", pc.Variable)
			return true, nil
		}
		c.send(ctx, domain.OutboundPrompt{
			SessionID:   sessionID.String(),
			Kind:        domain.PromptCorrection,
			Text:        outcome.Hint,
			Suggestions: pc.Params.Options,
		})
		return true, nil
	}
}

// Complete finishes a pending capture out of band, bypassing validation.
// Used by the LOGIN auth callback, where the accepted value arrives on a
// different transport than the user's reply.
func (c *Controller) Complete(ctx context.Context, sessionID uuid.UUID, value string, metadata map[string]any) error {
	unlock := c.lockSession(sessionID)
	defer unlock()

	pc, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load pending capture: %w", err)
	}
	if pc == nil {
		return fmt.Errorf("no capture pending for session %s", sessionID)
	}
	if _, err := c.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("consume pending capture: %w", err)
	}
	if err := c.bind(ctx, pc, value); err != nil {
		return err
	}
	c.resume(ctx, Resumption{
		ContinuationID: pc.ContinuationID,
		SessionID:      sessionID,
		Variable:       pc.Variable,
		Value:          value,
		Metadata:       metadata,
		OK:             true,
	})
	return nil
}

// Cancel atomically clears any pending capture. In-flight validations for
// the cancelled continuation are discarded when they complete.
func (c *Controller) Cancel(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	existed, err := c.store.Delete(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("cancel pending capture: %w", err)
	}
	if existed {
		c.log.Info("capture cancelled", "session_id", sessionID)
	}
	return existed, nil
}

func (c *Controller) bind(ctx context.Context, pc *domain.PendingCapture, value string) error {
	if c.binder == nil {
		return nil
	}
	if err := c.binder.BindVariable(ctx, pc.SessionID, pc.Variable, value); err != nil {
		return fmt.Errorf("bind variable %q: %w", pc.Variable, err)
	}
	return nil
}

func (c *Controller) send(ctx context.Context, prompt domain.OutboundPrompt) {
	if c.prompts == nil {
		return
	}
	if err := c.prompts.Send(ctx, prompt); err != nil {
		c.log.Warn("prompt delivery failed", "session_id", prompt.SessionID, "error", err)
	}
}

func (c *Controller) resume(ctx context.Context, r Resumption) {
	if c.resumer == nil {
		c.log.Warn("no resumer registered, dropping continuation",
			"session_id", r.SessionID, "variable", r.Variable)
		return
	}
	c.resumer(ctx, r)
}
