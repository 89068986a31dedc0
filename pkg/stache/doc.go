// Package stache renders Mustache templates: a logic-light substitution
// language where {{tag}} markers are replaced by values looked up in a
// hierarchical data context.
//
// Basic usage:
//
//	out, err := stache.Render(
//	    "Hello, {{name}}! You have {{#messages}}*{{/messages}} messages.",
//	    map[string]any{
//	        "name":     "Ada",
//	        "messages": []any{1, 2, 3},
//	    },
//	)
//
// Supported syntax, with the default {{ }} delimiters:
//
//	{{name}}              variable, HTML-escaped
//	{{{name}}} / {{&name}} variable, unescaped
//	{{#name}}...{{/name}} section: conditional, iterated, or lambda-driven
//	{{^name}}...{{/name}} inverted section, rendered when name is falsy
//	{{>name}}             partial, resolved through a PartialSource
//	{{!comment}}          comment, never rendered
//	{{=<% %>=}}           delimiter change
//
// Sections push their value onto a context stack: name resolution walks the
// stack from the innermost frame outward, and dotted names like {{a.b.c}}
// descend into the first frame that has the leading segment. Tags that
// occupy a line by themselves (sections, comments, partials, delimiter
// changes) are trimmed away together with their line's whitespace, per the
// Mustache specification.
//
// For repeated rendering of the same template text, an Engine caches parsed
// templates:
//
//	engine := stache.New()
//	tmpl, err := engine.Prepare(text)
//	out, err := tmpl.Render(data)
//
// Context values may be callables: a Lambda in variable position supplies
// interpolated text, and a SectionLambda receives its section's raw body
// plus a render callback, enabling custom block behavior.
package stache
