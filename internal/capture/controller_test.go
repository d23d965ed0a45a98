package capture

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
	"github.com/yungbote/converse-backend/internal/validate"
)

type memPrompter struct {
	sent []domain.OutboundPrompt
}

func (p *memPrompter) Send(_ context.Context, prompt domain.OutboundPrompt) error {
	p.sent = append(p.sent, prompt)
	return nil
}

type memBinder struct {
	bound map[string]any
}

func (b *memBinder) BindVariable(_ context.Context, _ uuid.UUID, name string, value any) error {
	if b.bound == nil {
		b.bound = map[string]any{}
	}
	b.bound[name] = value
	return nil
}

type fnDispatcher func(ctx context.Context, att *domain.Attachment, capability domain.Capability, prompt string) (string, map[string]any, error)

func (f fnDispatcher) Dispatch(ctx context.Context, att *domain.Attachment, capability domain.Capability, prompt string) (string, map[string]any, error) {
	return f(ctx, att, capability, prompt)
}

type testHarness struct {
	ctrl        *Controller
	store       *MemoryStore
	prompts     *memPrompter
	binder      *memBinder
	resumptions []Resumption
}

func newHarness(t *testing.T, gw validate.Dispatcher) *testHarness {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if gw == nil {
		gw = nopDispatcher{}
	}

	h := &testHarness{
		store:   NewMemoryStore(),
		prompts: &memPrompter{},
		binder:  &memBinder{},
	}
	reg := validate.NewDefault(log, gw, nopAssets{}, validate.DefaultPolicy())
	sup := NewSupervisor(log, reg, nil)
	h.ctrl = NewController(log, h.store, sup, h.prompts, h.binder)
	h.ctrl.SetResumer(func(_ context.Context, r Resumption) {
		h.resumptions = append(h.resumptions, r)
	})
	return h
}

func TestEmailCaptureEndToEnd(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	sid := uuid.New()

	pc, err := h.ctrl.Begin(ctx, sid, "email", "EMAIL", "What is your email?", domain.CaptureParams{})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if len(h.prompts.sent) != 1 || h.prompts.sent[0].Kind != domain.PromptAsk {
		t.Fatalf("prompts after Begin = %+v", h.prompts.sent)
	}

	// First reply is garbage: correction, capture stays armed.
	handled, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "not an email"})
	if err != nil || !handled {
		t.Fatalf("HandleInbound: handled=%v err=%v", handled, err)
	}
	if len(h.prompts.sent) != 2 || h.prompts.sent[1].Kind != domain.PromptCorrection {
		t.Fatalf("prompts after bad reply = %+v", h.prompts.sent)
	}
	if len(h.resumptions) != 0 {
		t.Fatalf("resumed too early: %+v", h.resumptions)
	}

	// Second reply is valid: bound, resumed, capture consumed.
	handled, err = h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "User@Example.com"})
	if err != nil || !handled {
		t.Fatalf("HandleInbound: handled=%v err=%v", handled, err)
	}
	if got := h.binder.bound["email"]; got != "user@example.com" {
		t.Fatalf("bound email = %v", got)
	}
	if len(h.resumptions) != 1 {
		t.Fatalf("resumptions = %+v", h.resumptions)
	}
	r := h.resumptions[0]
	if !r.OK || r.Value != "user@example.com" || r.ContinuationID != pc.ContinuationID {
		t.Fatalf("resumption = %+v", r)
	}
	if left, _ := h.store.Get(ctx, sid); left != nil {
		t.Fatalf("capture still pending after accept: %+v", left)
	}
}

func TestExhaustionBindsSentinelAndApologizes(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	sid := uuid.New()

	if _, err := h.ctrl.Begin(ctx, sid, "age", "INTEGER", "How old are you?", domain.CaptureParams{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "banana"}); err != nil {
			t.Fatalf("reply %d: %v", i+1, err)
		}
	}

	// ask + 2 corrections + apology; never a third correction.
	if len(h.prompts.sent) != 4 {
		t.Fatalf("prompt count = %d: %+v", len(h.prompts.sent), h.prompts.sent)
	}
	if h.prompts.sent[1].Kind != domain.PromptCorrection || h.prompts.sent[2].Kind != domain.PromptCorrection {
		t.Fatalf("prompts = %+v", h.prompts.sent)
	}
	if h.prompts.sent[3].Kind != domain.PromptApology {
		t.Fatalf("final prompt = %+v", h.prompts.sent[3])
	}

	if got, ok := h.binder.bound["age"]; !ok || got != "" {
		t.Fatalf("sentinel binding = %v (present=%v)", got, ok)
	}
	if len(h.resumptions) != 1 || h.resumptions[0].OK || h.resumptions[0].Value != "" {
		t.Fatalf("resumptions = %+v", h.resumptions)
	}
	if left, _ := h.store.Get(ctx, sid); left != nil {
		t.Fatal("capture still pending after exhaustion")
	}

	// A further reply is no longer a capture matter.
	handled, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "42"})
	if err != nil {
		t.Fatalf("post-exhaustion reply: %v", err)
	}
	if handled {
		t.Fatal("exhausted capture must not keep consuming replies")
	}
}

func TestMenuCaptureCarriesSuggestions(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	sid := uuid.New()

	params := domain.CaptureParams{Options: []string{"Apple", "Banana", "Orange"}}
	if _, err := h.ctrl.Begin(ctx, sid, "fruit", "MENU", "Pick a fruit", params); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if got := h.prompts.sent[0].Suggestions; len(got) != 3 {
		t.Fatalf("ask suggestions = %v", got)
	}

	if _, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "grape"}); err != nil {
		t.Fatalf("HandleInbound: %v", err)
	}
	if got := h.prompts.sent[1].Suggestions; len(got) != 3 {
		t.Fatalf("correction must repeat the options, got %v", got)
	}

	if _, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "2"}); err != nil {
		t.Fatalf("HandleInbound: %v", err)
	}
	if got := h.binder.bound["fruit"]; got != "Banana" {
		t.Fatalf("bound fruit = %v", got)
	}
}

func TestQRCodeCaptureFlow(t *testing.T) {
	gw := fnDispatcher(func(_ context.Context, _ *domain.Attachment, capability domain.Capability, _ string) (string, map[string]any, error) {
		if capability != domain.CapabilityDecodeQR {
			t.Fatalf("capability = %q", capability)
		}
		return "https://example.com/ticket/9", nil, nil
	})
	h := newHarness(t, gw)
	ctx := context.Background()
	sid := uuid.New()

	if _, err := h.ctrl.Begin(ctx, sid, "ticket", "QRCODE", "Scan your ticket", domain.CaptureParams{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// Text without an image cannot be a QR code.
	if _, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "here you go"}); err != nil {
		t.Fatalf("HandleInbound: %v", err)
	}
	if len(h.prompts.sent) != 2 || h.prompts.sent[1].Kind != domain.PromptCorrection {
		t.Fatalf("prompts = %+v", h.prompts.sent)
	}

	att := &domain.Attachment{MimeType: "image/jpeg", AssetRef: "captures/t.jpg"}
	if _, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Attachment: att}); err != nil {
		t.Fatalf("HandleInbound: %v", err)
	}
	if got := h.binder.bound["ticket"]; got != "https://example.com/ticket/9" {
		t.Fatalf("bound ticket = %v", got)
	}
	if len(h.resumptions) != 1 || !h.resumptions[0].OK {
		t.Fatalf("resumptions = %+v", h.resumptions)
	}
}

func TestCancelDuringValidationDiscardsResult(t *testing.T) {
	var h *testHarness
	sid := uuid.New()

	// The gateway call races a cancel: by the time the decode returns, the
	// pending capture is gone.
	gw := fnDispatcher(func(ctx context.Context, _ *domain.Attachment, _ domain.Capability, _ string) (string, map[string]any, error) {
		if _, err := h.store.Delete(ctx, sid); err != nil {
			t.Fatalf("mid-flight delete: %v", err)
		}
		return "late result", nil, nil
	})
	h = newHarness(t, gw)
	ctx := context.Background()

	if _, err := h.ctrl.Begin(ctx, sid, "ticket", "QRCODE", "Scan your ticket", domain.CaptureParams{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	att := &domain.Attachment{MimeType: "image/jpeg", AssetRef: "captures/t.jpg"}
	handled, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Attachment: att})
	if err != nil || !handled {
		t.Fatalf("HandleInbound: handled=%v err=%v", handled, err)
	}

	if _, ok := h.binder.bound["ticket"]; ok {
		t.Fatal("orphaned result must not bind")
	}
	if len(h.resumptions) != 0 {
		t.Fatalf("orphaned result must not resume: %+v", h.resumptions)
	}
}

// replaceHookStore lets a test interleave work ahead of each Replace, the
// window between validation finishing and the correction re-arm.
type replaceHookStore struct {
	Store
	calls     int
	onReplace func(n int)
}

func (s *replaceHookStore) Replace(ctx context.Context, pc *domain.PendingCapture) (bool, error) {
	s.calls++
	if s.onReplace != nil {
		s.onReplace(s.calls)
	}
	return s.Store.Replace(ctx, pc)
}

func TestCancelBeforeReArmStaysCancelled(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	sid := uuid.New()

	hook := &replaceHookStore{Store: h.store}
	h.ctrl.store = hook
	hook.onReplace = func(n int) {
		// Replace 1 marks the capture validating; the cancel lands just
		// before the correction re-arm (Replace 2).
		if n == 2 {
			if existed, err := h.ctrl.Cancel(ctx, sid); err != nil || !existed {
				t.Fatalf("Cancel: existed=%v err=%v", existed, err)
			}
		}
	}

	if _, err := h.ctrl.Begin(ctx, sid, "age", "INTEGER", "How old are you?", domain.CaptureParams{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	handled, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "banana"})
	if err != nil || !handled {
		t.Fatalf("HandleInbound: handled=%v err=%v", handled, err)
	}

	if left, _ := h.store.Get(ctx, sid); left != nil {
		t.Fatalf("cancelled capture written back: %+v", left)
	}
	// Ask only; no correction for the cancelled capture.
	if len(h.prompts.sent) != 1 {
		t.Fatalf("prompts = %+v", h.prompts.sent)
	}
	handled, err = h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "42"})
	if err != nil {
		t.Fatalf("post-cancel reply: %v", err)
	}
	if handled {
		t.Fatal("cancelled capture kept consuming replies")
	}
}

func TestSessionLocksDoNotAccumulate(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		sid := uuid.New()
		if _, err := h.ctrl.Begin(ctx, sid, "email", "EMAIL", "Email?", domain.CaptureParams{}); err != nil {
			t.Fatalf("Begin: %v", err)
		}
		if _, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "a@b.com"}); err != nil {
			t.Fatalf("HandleInbound: %v", err)
		}
	}

	h.ctrl.mu.Lock()
	n := len(h.ctrl.locks)
	h.ctrl.mu.Unlock()
	if n != 0 {
		t.Fatalf("lock map entries = %d", n)
	}
}

func TestCompleteFinishesLoginOutOfBand(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	sid := uuid.New()

	if _, err := h.ctrl.Begin(ctx, sid, "user", "LOGIN", "Tap the button to sign in", domain.CaptureParams{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// Typed replies never satisfy LOGIN.
	if _, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "my password is hunter2"}); err != nil {
		t.Fatalf("HandleInbound: %v", err)
	}
	if _, ok := h.binder.bound["user"]; ok {
		t.Fatal("typed reply bound a LOGIN capture")
	}

	if err := h.ctrl.Complete(ctx, sid, "auth0|u123", map[string]any{"name": "Ada"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := h.binder.bound["user"]; got != "auth0|u123" {
		t.Fatalf("bound user = %v", got)
	}
	if len(h.resumptions) != 1 || !h.resumptions[0].OK {
		t.Fatalf("resumptions = %+v", h.resumptions)
	}

	if err := h.ctrl.Complete(ctx, sid, "again", nil); err == nil {
		t.Fatal("Complete on a consumed capture must fail")
	}
}

func TestCancelClearsPendingCapture(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	sid := uuid.New()

	if _, err := h.ctrl.Begin(ctx, sid, "email", "EMAIL", "Email?", domain.CaptureParams{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	existed, err := h.ctrl.Cancel(ctx, sid)
	if err != nil || !existed {
		t.Fatalf("Cancel: existed=%v err=%v", existed, err)
	}

	handled, err := h.ctrl.HandleInbound(ctx, sid, domain.InboundEvent{Text: "a@b.com"})
	if err != nil {
		t.Fatalf("HandleInbound: %v", err)
	}
	if handled {
		t.Fatal("cancelled capture must not consume replies")
	}
	if existed, _ := h.ctrl.Cancel(ctx, sid); existed {
		t.Fatal("second cancel found a capture")
	}
}
