package validate

import (
	"context"
	"strings"
	"sync"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

const DefaultMaxRetries = 3

// Spec binds one semantic type tag to its validator, synonyms and the
// corrective hint shown on rejection.
type Spec struct {
	Tag        string
	Synonyms   []string
	Hint       string
	MaxRetries int
	Fn         Func
}

// Registry resolves declared type tokens (case-insensitive, with synonyms)
// to validator specs. Lookup never fails: unknown tokens resolve to a
// pass-through spec, and a literal option list resolves to the menu matcher.
type Registry struct {
	log *logger.Logger

	mu    sync.RWMutex
	byTag map[string]Spec
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		log:   log.With("component", "TypeRegistry"),
		byTag: map[string]Spec{},
	}
}

func (r *Registry) Register(spec Spec) {
	if spec.Tag == "" || spec.Fn == nil {
		return
	}
	if spec.MaxRetries <= 0 {
		spec.MaxRetries = DefaultMaxRetries
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTag[normalizeTag(spec.Tag)] = spec
	for _, syn := range spec.Synonyms {
		r.byTag[normalizeTag(syn)] = spec
	}
}

// Resolve maps a declared type token plus params to a runnable spec.
// Captures declared with an inline option list always get the menu matcher
// regardless of the token.
func (r *Registry) Resolve(token string, params domain.CaptureParams) Spec {
	if len(params.Options) > 0 {
		return menuSpec()
	}

	key := normalizeTag(token)
	r.mu.RLock()
	spec, ok := r.byTag[key]
	r.mu.RUnlock()
	if ok {
		return spec
	}

	if r.log != nil && key != "" && key != "ANY" {
		r.log.Debug("unknown capture type, using passthrough", "type_tag", token)
	}
	return passthroughSpec()
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

func passthroughSpec() Spec {
	return Spec{
		Tag:        "ANY",
		MaxRetries: DefaultMaxRetries,
		Fn: func(_ context.Context, in Input, _ domain.CaptureParams) Result {
			return Accept(strings.TrimSpace(in.Text))
		},
	}
}

func menuSpec() Spec {
	return Spec{
		Tag:        "MENU",
		Hint:       "Please pick one of the listed options.",
		MaxRetries: DefaultMaxRetries,
		Fn:         validateMenu,
	}
}

// NewDefault builds the full production registry. Media validators need the
// dispatch gateway and the asset store; everything else is pure.
func NewDefault(log *logger.Logger, gw Dispatcher, assets AssetStore, policy Policy) *Registry {
	r := NewRegistry(log)

	r.Register(Spec{Tag: "EMAIL", Synonyms: []string{"MAIL", "E-MAIL"},
		Hint: "Please enter a valid email address.", Fn: validateEmail})
	r.Register(Spec{Tag: "NAME", Synonyms: []string{"FULLNAME", "FULL_NAME"},
		Hint: "Please enter a valid name (letters only, at least 2 characters).", Fn: validateName})
	r.Register(Spec{Tag: "URL", Synonyms: []string{"LINK", "WEBSITE"},
		Hint: "Please enter a valid URL, like example.com.", Fn: validateURL})
	r.Register(Spec{Tag: "PASSWORD", Synonyms: []string{"PASS", "SENHA"},
		Hint: "Password must be at least 8 characters.", Fn: validatePassword})
	r.Register(Spec{Tag: "COLOR", Synonyms: []string{"COLOUR", "COR"},
		Hint: "Please enter a color name, #hex or rgb() value.", Fn: validateColor})
	r.Register(Spec{Tag: "UUID", Synonyms: []string{"GUID"},
		Hint: "Please enter a valid UUID.", Fn: validateUUID})
	r.Register(Spec{Tag: "LANGUAGE", Synonyms: []string{"LANG", "IDIOMA"},
		Hint: "Please enter a language, like English or pt.", Fn: validateLanguage})

	r.Register(Spec{Tag: "INTEGER", Synonyms: []string{"INT", "WHOLE"},
		Hint: "Please enter a whole number.", Fn: validateInteger})
	r.Register(Spec{Tag: "FLOAT", Synonyms: []string{"DECIMAL", "NUMBER", "NUMERIC"},
		Hint: "Please enter a number.", Fn: validateFloat})
	r.Register(Spec{Tag: "MONEY", Synonyms: []string{"CURRENCY", "AMOUNT", "PRICE"},
		Hint: "Please enter an amount, like 1234.56 or 1.234,56.", Fn: validateMoney})

	r.Register(Spec{Tag: "DATE", Synonyms: []string{"DAY", "DATA"},
		Hint: "Please enter a date, like 25/12/2024 or 2024-12-25.",
		Fn:   dateValidator(policy)})
	r.Register(Spec{Tag: "HOUR", Synonyms: []string{"TIME", "HORA"},
		Hint: "Please enter a time, like 14:30 or 2:30 PM.", Fn: validateHour})

	r.Register(Spec{Tag: "CPF",
		Hint: "Please enter a valid CPF (11 digits).", Fn: validateCPF})
	r.Register(Spec{Tag: "CNPJ",
		Hint: "Please enter a valid CNPJ (14 digits).", Fn: validateCNPJ})
	r.Register(Spec{Tag: "CREDITCARD", Synonyms: []string{"CARD", "CREDIT_CARD", "CARTAO"},
		Hint: "Please enter a valid card number.", Fn: validateCreditCard})

	r.Register(Spec{Tag: "MOBILE", Synonyms: []string{"PHONE", "TELEPHONE", "CELLPHONE", "CELULAR", "TELEFONE"},
		Hint: "Please enter a valid phone number (10-15 digits).", Fn: validateMobile})
	r.Register(Spec{Tag: "ZIPCODE", Synonyms: []string{"ZIP", "CEP", "POSTALCODE", "POSTCODE"},
		Hint: "Please enter a valid postal code.", Fn: validateZipcode})

	r.Register(Spec{Tag: "BOOLEAN", Synonyms: []string{"BOOL", "YESNO", "CONFIRM"},
		Hint: "Please answer yes or no.", Fn: booleanValidator(policy)})

	r.Register(Spec{Tag: "IMAGE", Synonyms: []string{"PHOTO", "PICTURE", "FOTO"},
		Hint: "Please send an image.", Fn: imageValidator(assets)})
	r.Register(Spec{Tag: "QRCODE", Synonyms: []string{"QR", "QR_CODE"},
		Hint: "Please send a photo of the QR code.", Fn: qrValidator(gw)})
	r.Register(Spec{Tag: "AUDIO", Synonyms: []string{"VOICE", "SPEECH"},
		Hint: "Please send a voice message.", Fn: audioValidator(gw)})
	r.Register(Spec{Tag: "VIDEO",
		Hint: "Please send a video.", Fn: videoValidator(gw)})
	r.Register(Spec{Tag: "FILE", Synonyms: []string{"DOCUMENT", "DOC", "ATTACHMENT"},
		Hint: "Please send a document file.", Fn: fileValidator(assets)})
	r.Register(Spec{Tag: "LOGIN", Synonyms: []string{"AUTH", "SIGNIN"},
		Hint: "Please use the login button to sign in.", Fn: validateLogin})

	return r
}
