package capture

import (
	"context"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
	"github.com/yungbote/converse-backend/internal/validate"
)

type OutcomeKind string

const (
	OutcomeAccepted  OutcomeKind = "accepted"
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeExhausted OutcomeKind = "exhausted"
)

// Outcome is the supervisor's verdict on one reply. Rejected means the
// budget still has room and Hint should be re-asked; Exhausted means the
// dialog resumes with the empty sentinel and no further prompt for this
// capture.
type Outcome struct {
	Kind      OutcomeKind
	Value     string
	Metadata  map[string]any
	ErrorKind validate.ErrorKind
	Hint      string
	Remaining int
}

// Recorder appends to the capture audit trail. A nil recorder disables
// auditing (tests).
type Recorder interface {
	Record(ctx context.Context, attempt *domain.CaptureAttempt) error
}

// Supervisor runs the resolved validator for a pending capture and applies
// the retry budget. It never blocks beyond the validator itself and never
// mutates the store; the controller owns state transitions.
type Supervisor struct {
	log      *logger.Logger
	registry *validate.Registry
	recorder Recorder
}

func NewSupervisor(log *logger.Logger, registry *validate.Registry, recorder Recorder) *Supervisor {
	return &Supervisor{
		log:      log.With("component", "RetrySupervisor"),
		registry: registry,
		recorder: recorder,
	}
}

// Submit validates one reply against the pending capture's declared type.
func (s *Supervisor) Submit(ctx context.Context, pc *domain.PendingCapture, in validate.Input) Outcome {
	spec := s.registry.Resolve(pc.TypeTag, pc.Params)
	res := spec.Fn(ctx, in, pc.Params)

	if res.OK {
		s.record(ctx, pc, domain.OutcomeAccepted, "", res)
		return Outcome{
			Kind:     OutcomeAccepted,
			Value:    res.Value,
			Metadata: res.Metadata,
		}
	}

	hint := res.Hint
	if hint == "" {
		hint = spec.Hint
	}

	attempt := pc.AttemptCount + 1
	if attempt >= pc.MaxRetries {
		s.log.Info("capture retry budget exhausted",
			"session_id", pc.SessionID, "variable", pc.Variable, "type_tag", pc.TypeTag,
			"attempts", attempt, "error_kind", res.Kind)
		s.record(ctx, pc, domain.OutcomeExhausted, string(validate.KindRetryBudgetExhausted), res)
		return Outcome{
			Kind:      OutcomeExhausted,
			ErrorKind: validate.KindRetryBudgetExhausted,
		}
	}

	s.log.Debug("capture attempt rejected",
		"session_id", pc.SessionID, "variable", pc.Variable, "type_tag", pc.TypeTag,
		"attempt", attempt, "error_kind", res.Kind)
	s.record(ctx, pc, domain.OutcomeRejected, string(res.Kind), res)
	return Outcome{
		Kind:      OutcomeRejected,
		ErrorKind: res.Kind,
		Hint:      hint,
		Remaining: pc.MaxRetries - attempt,
	}
}

// ResolveBudget yields the effective retry budget for a declared type:
// per-capture override first, then the type's own budget.
func (s *Supervisor) ResolveBudget(typeTag string, params domain.CaptureParams) int {
	if params.MaxRetries != nil && *params.MaxRetries > 0 {
		return *params.MaxRetries
	}
	spec := s.registry.Resolve(typeTag, params)
	if spec.MaxRetries > 0 {
		return spec.MaxRetries
	}
	return validate.DefaultMaxRetries
}

func (s *Supervisor) record(ctx context.Context, pc *domain.PendingCapture, outcome domain.CaptureOutcome, errorKind string, res validate.Result) {
	if s.recorder == nil {
		return
	}
	att := &domain.CaptureAttempt{
		SessionID: pc.SessionID,
		Variable:  pc.Variable,
		TypeTag:   pc.TypeTag,
		Outcome:   outcome,
		ErrorKind: errorKind,
		Attempt:   pc.AttemptCount + 1,
	}
	if outcome == domain.OutcomeAccepted {
		att.NormalizedPreview = res.Value
	}
	if err := s.recorder.Record(ctx, att); err != nil {
		s.log.Warn("capture audit write failed", "session_id", pc.SessionID, "error", err)
	}
}
