package stache

import (
	"errors"
	"fmt"
	"strings"
)

// renderer walks a parsed node tree against a context stack. A renderer is
// local to one render call; depth counts section, partial, and lambda
// nesting so runaway recursion fails with a typed error instead of
// exhausting the call stack.
type renderer struct {
	opts  *Options
	depth int
}

// renderTemplate parses and renders a template string in one pass.
func renderTemplate(template string, data any, opts *Options) (string, error) {
	nodes, err := parse(template, opts.LeftDelim, opts.RightDelim)
	if err != nil {
		return "", err
	}
	return renderTree(nodes, data, opts)
}

// renderTree renders an already-parsed node tree.
func renderTree(nodes []*Node, data any, opts *Options) (string, error) {
	r := &renderer{opts: opts}
	var sb strings.Builder
	if err := r.renderNodes(nodes, newContextStack(data), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *renderer) enter() error {
	r.depth++
	if r.depth > r.opts.MaxDepth {
		return &RecursionError{Depth: r.opts.MaxDepth}
	}
	return nil
}

func (r *renderer) leave() {
	r.depth--
}

func (r *renderer) renderNodes(nodes []*Node, stack *contextStack, sb *strings.Builder) error {
	for _, node := range nodes {
		var err error
		switch node.Type {
		case NodeText:
			sb.WriteString(node.Text)
		case NodeVariable:
			err = r.renderVariable(node, stack, sb, r.opts.EscapeHTML)
		case NodeRawVariable:
			err = r.renderVariable(node, stack, sb, false)
		case NodeSection:
			err = r.renderSection(node, stack, sb)
		case NodeInverted:
			err = r.renderInverted(node, stack, sb)
		case NodePartial:
			err = r.renderPartial(node, stack, sb)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderVariable(node *Node, stack *contextStack, sb *strings.Builder, escape bool) error {
	v, found := stack.lookup(node.Name)
	if !found {
		if err := r.missingKey(node.Name); err != nil {
			return err
		}
		if r.opts.KeepMissingTags {
			fmt.Fprintf(sb, "%s %s %s", r.opts.LeftDelim, node.Name, r.opts.RightDelim)
		}
		return nil
	}

	if fn, ok := asLambda(v); ok {
		text, err := fn()
		if err != nil {
			return &LambdaError{Name: node.Name, Cause: err}
		}
		v = text
	}

	text := stringify(v)
	if escape {
		text = htmlEscape(text)
	}
	sb.WriteString(text)
	return nil
}

func (r *renderer) renderSection(node *Node, stack *contextStack, sb *strings.Builder) error {
	v, found := stack.lookup(node.Name)
	if !found {
		if err := r.missingKey(node.Name); err != nil {
			return err
		}
		return nil
	}

	if fn, ok := asSectionLambda(v); ok {
		return r.renderSectionLambda(node, fn, stack, sb)
	}

	if isFalsy(v) {
		return nil
	}

	if err := r.enter(); err != nil {
		return err
	}
	defer r.leave()

	if items, ok := sequenceOf(v); ok {
		for _, item := range items {
			stack.push(item)
			err := r.renderNodes(node.Children, stack, sb)
			stack.pop()
			if err != nil {
				return err
			}
		}
		return nil
	}

	if isMapping(v) {
		stack.push(v)
		defer stack.pop()
		return r.renderNodes(node.Children, stack, sb)
	}

	// Truthy scalar: render the body once against the existing frames.
	return r.renderNodes(node.Children, stack, sb)
}

// renderSectionLambda invokes a callable section value with the raw,
// unparsed body text and a render callback, then expands the returned text
// as a template against the current context using the delimiters that were
// in effect at the section's open tag.
func (r *renderer) renderSectionLambda(node *Node, fn SectionLambda, stack *contextStack, sb *strings.Builder) error {
	callback := func(template string) (string, error) {
		return r.renderString(template, node.LDelim, node.RDelim, stack)
	}

	returned, err := fn(node.RawBody, callback)
	if err != nil {
		return &LambdaError{Name: node.Name, Cause: err}
	}

	expanded, err := r.renderString(returned, node.LDelim, node.RDelim, stack)
	if err != nil {
		return err
	}
	sb.WriteString(expanded)
	return nil
}

func (r *renderer) renderInverted(node *Node, stack *contextStack, sb *strings.Builder) error {
	v, found := stack.lookup(node.Name)
	if found && !isFalsy(v) {
		return nil
	}

	if err := r.enter(); err != nil {
		return err
	}
	defer r.leave()

	// Inverted sections never push a frame.
	return r.renderNodes(node.Children, stack, sb)
}

func (r *renderer) renderPartial(node *Node, stack *contextStack, sb *strings.Builder) error {
	text, err := r.loadPartial(node.Name)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	if err := r.enter(); err != nil {
		return err
	}
	defer r.leave()

	// Partials always start from the default delimiter pair; delimiter
	// changes in the including template do not leak in.
	nodes, err := parse(text, r.opts.LeftDelim, r.opts.RightDelim)
	if err != nil {
		return err
	}

	if node.Indent == "" {
		return r.renderNodes(nodes, stack, sb)
	}

	var partial strings.Builder
	if err := r.renderNodes(nodes, stack, &partial); err != nil {
		return err
	}
	sb.WriteString(indentLines(partial.String(), node.Indent))
	return nil
}

// loadPartial resolves a partial name through the configured source,
// applying the missing-key policy when it cannot be found.
func (r *renderer) loadPartial(name string) (string, error) {
	notFound := func(cause error) (string, error) {
		switch r.opts.OnMissingKey {
		case MissingKeyWarn:
			r.opts.Logger.Warn("could not load partial '%s'", name)
		case MissingKeyFail:
			return "", &MissingPartialError{Name: name, Cause: cause}
		}
		return "", nil
	}

	if r.opts.Partials == nil {
		return notFound(nil)
	}
	text, err := r.opts.Partials.Get(name)
	if err != nil {
		if errors.Is(err, ErrPartialNotFound) {
			return notFound(err)
		}
		return "", err
	}
	return text, nil
}

// renderString tokenizes, parses, and renders a template fragment against
// the current context stack. Lambda return values and lambda render
// callbacks go through here, so the fragment counts against render depth.
func (r *renderer) renderString(template, ldel, rdel string, stack *contextStack) (string, error) {
	if template == "" {
		return "", nil
	}
	if err := r.enter(); err != nil {
		return "", err
	}
	defer r.leave()

	nodes, err := parse(template, ldel, rdel)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := r.renderNodes(nodes, stack, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *renderer) missingKey(name string) error {
	switch r.opts.OnMissingKey {
	case MissingKeyWarn:
		r.opts.Logger.Warn("could not find key '%s' in data", name)
	case MissingKeyFail:
		return &MissingKeyError{Key: name}
	}
	return nil
}

// asLambda matches the callable shapes accepted in a variable position.
func asLambda(v any) (Lambda, bool) {
	switch fn := v.(type) {
	case Lambda:
		return fn, true
	case func() (string, error):
		return fn, true
	case func() string:
		return func() (string, error) { return fn(), nil }, true
	}
	return nil, false
}

// asSectionLambda matches the callable shapes accepted in a section
// position. A no-argument lambda used as a section value is called and its
// result expanded, ignoring the body text.
func asSectionLambda(v any) (SectionLambda, bool) {
	switch fn := v.(type) {
	case SectionLambda:
		return fn, true
	case func(string, RenderFunc) (string, error):
		return fn, true
	case func(string) (string, error):
		return func(text string, _ RenderFunc) (string, error) { return fn(text) }, true
	case func(string) string:
		return func(text string, _ RenderFunc) (string, error) { return fn(text), nil }, true
	}
	if fn, ok := asLambda(v); ok {
		return func(string, RenderFunc) (string, error) { return fn() }, true
	}
	return nil, false
}

// indentLines prefixes every line of a partial's output with the
// indentation its standalone tag carried, leaving a trailing newline's
// empty remainder alone.
func indentLines(s, indent string) string {
	if s == "" || indent == "" {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2*len(indent))
	sb.WriteString(indent)
	for i := 0; i < len(s); i++ {
		sb.WriteByte(s[i])
		if s[i] == '\n' && i != len(s)-1 {
			sb.WriteString(indent)
		}
	}
	return sb.String()
}
