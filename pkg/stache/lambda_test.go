package stache

import (
	"errors"
	"strings"
	"testing"
)

func TestVariableLambda(t *testing.T) {
	t.Run("result is interpolated as text", func(t *testing.T) {
		data := map[string]any{
			"planet": "world",
			"lambda": Lambda(func() (string, error) { return "hello", nil }),
		}
		got, err := Render("{{lambda}}, {{planet}}!", data)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		if got != "hello, world!" {
			t.Errorf("Render = %q, want %q", got, "hello, world!")
		}
	})

	t.Run("result is not re-parsed as a template", func(t *testing.T) {
		data := map[string]any{
			"planet": "world",
			"lambda": Lambda(func() (string, error) { return "{{planet}}", nil }),
		}
		got, err := Render("{{lambda}}", data)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		// Braces pass through (escaped by default, but { is not an
		// escapable character).
		if got != "{{planet}}" {
			t.Errorf("Render = %q, want %q", got, "{{planet}}")
		}
	})

	t.Run("result is escaped like any variable", func(t *testing.T) {
		data := map[string]any{
			"lambda": Lambda(func() (string, error) { return "<b>", nil }),
		}
		got, err := Render("{{lambda}} {{&lambda}}", data)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		if got != "&lt;b&gt; <b>" {
			t.Errorf("Render = %q, want %q", got, "&lt;b&gt; <b>")
		}
	})

	t.Run("bare func shapes are accepted", func(t *testing.T) {
		data := map[string]any{
			"a": func() string { return "A" },
			"b": func() (string, error) { return "B", nil },
		}
		got, err := Render("{{a}}{{b}}", data)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		if got != "AB" {
			t.Errorf("Render = %q, want %q", got, "AB")
		}
	})

	t.Run("lambda error aborts the render", func(t *testing.T) {
		boom := errors.New("boom")
		data := map[string]any{
			"lambda": Lambda(func() (string, error) { return "", boom }),
		}
		_, err := Render("{{lambda}}", data)
		if err == nil {
			t.Fatal("Render succeeded, want error")
		}
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want it to wrap the lambda's error", err)
		}
	})
}

func TestSectionLambda(t *testing.T) {
	t.Run("receives the raw unparsed body", func(t *testing.T) {
		var gotText string
		data := map[string]any{
			"wrapped": SectionLambda(func(text string, _ RenderFunc) (string, error) {
				gotText = text
				return "", nil
			}),
		}
		if _, err := Render("{{#wrapped}} raw {{name}} body {{/wrapped}}", data); err != nil {
			t.Fatalf("Render error = %v", err)
		}
		if gotText != " raw {{name}} body " {
			t.Errorf("lambda text = %q, want the raw body", gotText)
		}
	})

	t.Run("render callback expands against the current context", func(t *testing.T) {
		data := map[string]any{
			"name": "Willy",
			"wrapped": SectionLambda(func(text string, render RenderFunc) (string, error) {
				inner, err := render(text)
				if err != nil {
					return "", err
				}
				return "<b>" + inner + "</b>", nil
			}),
		}
		got, err := Render("{{#wrapped}}{{name}} is awesome.{{/wrapped}}", data)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		if got != "<b>Willy is awesome.</b>" {
			t.Errorf("Render = %q, want %q", got, "<b>Willy is awesome.</b>")
		}
	})

	t.Run("return value is rendered as a template", func(t *testing.T) {
		data := map[string]any{
			"planet": "Earth",
			"lambda": SectionLambda(func(string, RenderFunc) (string, error) {
				return "{{planet}} => |planet|", nil
			}),
		}
		got, err := Render("{{#lambda}}-{{/lambda}}", data)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		if got != "Earth => |planet|" {
			t.Errorf("Render = %q, want %q", got, "Earth => |planet|")
		}
	})

	t.Run("return value honors the section's delimiters", func(t *testing.T) {
		data := map[string]any{
			"planet": "Earth",
			"lambda": SectionLambda(func(string, RenderFunc) (string, error) {
				return "{{planet}} => <%planet%>", nil
			}),
		}
		got, err := Render("{{=<% %>=}}<%#lambda%>-<%/lambda%>", data)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		if got != "{{planet}} => Earth" {
			t.Errorf("Render = %q, want %q", got, "{{planet}} => Earth")
		}
	})

	t.Run("text transform shapes are accepted", func(t *testing.T) {
		data := map[string]any{
			"upper": func(text string) string { return strings.ToUpper(text) },
		}
		got, err := Render("{{#upper}}shout{{/upper}}", data)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		if got != "SHOUT" {
			t.Errorf("Render = %q, want %q", got, "SHOUT")
		}
	})

	t.Run("runaway lambda recursion fails", func(t *testing.T) {
		data := map[string]any{
			"loop": SectionLambda(func(string, RenderFunc) (string, error) {
				return "{{#loop}}again{{/loop}}", nil
			}),
		}
		_, err := Render("{{#loop}}go{{/loop}}", data, WithMaxDepth(16))
		if !IsRecursionError(err) {
			t.Fatalf("error = %v, want *RecursionError", err)
		}
	})
}
