package stache

// Render expands a Mustache template against a data context and returns the
// result. Data is typically a map[string]any (for example the result of
// decoding JSON or YAML), but structs, slices, scalars, and lambdas work
// anywhere a value can appear.
//
//	out, err := stache.Render("Hello, {{name}}!", map[string]any{"name": "world"})
//
// Options customize escaping, delimiters, partial resolution, and the
// missing-key policy; see the With* functions.
func Render(template string, data any, opts ...Option) (string, error) {
	return renderTemplate(template, data, buildOptions(opts))
}

// Engine renders templates with a shared configuration and a parsed-tree
// cache. Independent renders through one Engine may run concurrently.
type Engine struct {
	config *Config
	cache  *TemplateCache
}

// New creates an engine with the global configuration.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		cache: NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
	}
}

// Prepare parses a template once and returns a reusable handle. The parsed
// tree is cached keyed by template text and delimiter pair, so preparing
// the same text again is cheap.
func (e *Engine) Prepare(template string, opts ...Option) (*Template, error) {
	options := e.buildOptions(opts)

	key := cacheKey(template, options.LeftDelim, options.RightDelim)
	if cached := e.cache.Get(key); cached != nil {
		return cached.withOptions(options), nil
	}

	nodes, err := parse(template, options.LeftDelim, options.RightDelim)
	if err != nil {
		return nil, err
	}
	tmpl := &Template{source: template, nodes: nodes, opts: options}
	e.cache.Put(key, tmpl)
	return tmpl, nil
}

// Render parses (or reuses a cached parse of) the template and renders it.
func (e *Engine) Render(template string, data any, opts ...Option) (string, error) {
	tmpl, err := e.Prepare(template, opts...)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}

// buildOptions seeds render options from the engine's configuration, then
// lets per-call options override.
func (e *Engine) buildOptions(opts []Option) *Options {
	o := defaultOptions()
	if e.config.StrictMode {
		o.OnMissingKey = MissingKeyFail
	}
	if e.config.MaxRenderDepth > 0 {
		o.MaxDepth = e.config.MaxRenderDepth
	}
	for _, opt := range opts {
		opt(o)
	}
	return normalizeOptions(o)
}

// Template is a parsed template ready for rendering. It is immutable and
// safe for concurrent Render calls.
type Template struct {
	source string
	nodes  []*Node
	opts   *Options
}

// Render expands the template against a data context.
func (t *Template) Render(data any, opts ...Option) (string, error) {
	options := t.opts
	if len(opts) > 0 {
		copied := *t.opts
		for _, opt := range opts {
			opt(&copied)
		}
		options = normalizeOptions(&copied)
	}
	return renderTree(t.nodes, data, options)
}

// Source returns the template text the handle was parsed from.
func (t *Template) Source() string {
	return t.source
}

// withOptions returns a handle sharing the parsed tree but carrying
// different render options.
func (t *Template) withOptions(opts *Options) *Template {
	return &Template{source: t.source, nodes: t.nodes, opts: opts}
}
