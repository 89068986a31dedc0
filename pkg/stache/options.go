package stache

import "fmt"

const (
	defaultLeftDelim  = "{{"
	defaultRightDelim = "}}"
)

// MissingKeyPolicy controls what happens when a variable, section, or
// partial name resolves to nothing.
type MissingKeyPolicy int

const (
	// MissingKeyIgnore substitutes empty output. The default.
	MissingKeyIgnore MissingKeyPolicy = iota
	// MissingKeyWarn substitutes empty output and logs a warning.
	MissingKeyWarn
	// MissingKeyFail aborts the render with a typed error.
	MissingKeyFail
)

func (p MissingKeyPolicy) String() string {
	switch p {
	case MissingKeyIgnore:
		return "ignore"
	case MissingKeyWarn:
		return "warn"
	case MissingKeyFail:
		return "error"
	default:
		return "unknown"
	}
}

// ParseMissingKeyPolicy converts a policy name ("ignore", "warn", "error")
// to its enum value.
func ParseMissingKeyPolicy(s string) (MissingKeyPolicy, error) {
	switch s {
	case "ignore", "":
		return MissingKeyIgnore, nil
	case "warn":
		return MissingKeyWarn, nil
	case "error", "strict":
		return MissingKeyFail, nil
	default:
		return MissingKeyIgnore, fmt.Errorf("invalid missing-key policy %q", s)
	}
}

// Options holds the per-render configuration. Zero values are filled from
// defaults; use the With* functions to build one.
type Options struct {
	// EscapeHTML controls HTML-escaping of {{variable}} interpolations.
	// Raw tags ({{{x}}}, {{&x}}) are never escaped regardless.
	EscapeHTML bool
	// OnMissingKey is the policy for unresolvable variable, section, and
	// partial names.
	OnMissingKey MissingKeyPolicy
	// KeepMissingTags re-emits unresolved variable tags, using the
	// template's starting delimiter pair, instead of producing empty output.
	KeepMissingTags bool
	// Partials resolves {{>name}} references.
	Partials PartialSource
	// LeftDelim and RightDelim are the delimiters a template (and every
	// partial it includes) starts out with.
	LeftDelim  string
	RightDelim string
	// MaxDepth bounds section, partial, and lambda nesting during a render.
	MaxDepth int
	// Logger receives missing-key diagnostics under the warn policy.
	Logger *Logger
}

// Option mutates render options.
type Option func(*Options)

func defaultOptions() *Options {
	config := GetGlobalConfig()
	policy := MissingKeyIgnore
	if config.StrictMode {
		policy = MissingKeyFail
	}
	return &Options{
		EscapeHTML:   true,
		OnMissingKey: policy,
		LeftDelim:    defaultLeftDelim,
		RightDelim:   defaultRightDelim,
		MaxDepth:     config.MaxRenderDepth,
		Logger:       GetLogger(),
	}
}

func buildOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return normalizeOptions(o)
}

// normalizeOptions backfills any zero values an Option cleared.
func normalizeOptions(o *Options) *Options {
	if o.LeftDelim == "" {
		o.LeftDelim = defaultLeftDelim
	}
	if o.RightDelim == "" {
		o.RightDelim = defaultRightDelim
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultConfig().MaxRenderDepth
	}
	if o.Logger == nil {
		o.Logger = GetLogger()
	}
	return o
}

// WithPartials sets the partial source consulted for {{>name}} tags.
func WithPartials(source PartialSource) Option {
	return func(o *Options) { o.Partials = source }
}

// WithDelimiters sets the default delimiter pair the template starts with.
func WithDelimiters(left, right string) Option {
	return func(o *Options) { o.LeftDelim, o.RightDelim = left, right }
}

// WithMissingKeyPolicy sets the missing-key policy.
func WithMissingKeyPolicy(policy MissingKeyPolicy) Option {
	return func(o *Options) { o.OnMissingKey = policy }
}

// WithHTMLEscaping enables or disables HTML-escaping of plain variables.
func WithHTMLEscaping(enabled bool) Option {
	return func(o *Options) { o.EscapeHTML = enabled }
}

// WithKeepMissingTags re-emits unresolved variable tags instead of
// dropping them.
func WithKeepMissingTags() Option {
	return func(o *Options) { o.KeepMissingTags = true }
}

// WithMaxDepth bounds render nesting depth.
func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

// WithLogger routes warn-policy diagnostics to the given logger.
func WithLogger(logger *Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
