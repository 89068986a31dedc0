package stache

import (
	"strings"
	"testing"
)

// collectTokens drains a tokenizer, failing the test on error.
func collectTokens(t *testing.T, src, ldel, rdel string) []Token {
	t.Helper()
	tz := newTokenizer(src, ldel, rdel)
	var tokens []Token
	for {
		tok, err := tz.next()
		if err != nil {
			t.Fatalf("next() error = %v", err)
		}
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestTokenizeBasic(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		types []TokenType
		names []string
	}{
		{
			name:  "plain text",
			src:   "hello world",
			types: []TokenType{TokenText},
			names: []string{"hello world"},
		},
		{
			name:  "variable",
			src:   "a {{x}} b",
			types: []TokenType{TokenText, TokenVariable, TokenText},
			names: []string{"a ", "x", " b"},
		},
		{
			name:  "variable name is trimmed",
			src:   "{{  x  }}",
			types: []TokenType{TokenVariable},
			names: []string{"x"},
		},
		{
			name:  "triple mustache",
			src:   "{{{x}}}",
			types: []TokenType{TokenRawVariable},
			names: []string{"x"},
		},
		{
			name:  "ampersand",
			src:   "{{& x }}",
			types: []TokenType{TokenRawVariable},
			names: []string{"x"},
		},
		{
			name:  "section pair",
			src:   "{{#s}}body{{/s}}",
			types: []TokenType{TokenSectionOpen, TokenText, TokenSectionClose},
			names: []string{"s", "body", "s"},
		},
		{
			name:  "inverted section",
			src:   "{{^s}}{{/s}}",
			types: []TokenType{TokenInvertedOpen, TokenSectionClose},
			names: []string{"s", "s"},
		},
		{
			name:  "partial",
			src:   "{{> part }}",
			types: []TokenType{TokenPartial},
			names: []string{"part"},
		},
		{
			name:  "comment",
			src:   "{{! ignore me }}",
			types: []TokenType{TokenComment},
			names: []string{"ignore me"},
		},
		{
			name:  "dotted name",
			src:   "{{a.b.c}}",
			types: []TokenType{TokenVariable},
			names: []string{"a.b.c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := collectTokens(t, tt.src, "{{", "}}")
			if len(tokens) != len(tt.types) {
				t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(tt.types), tokens)
			}
			for i, tok := range tokens {
				if tok.Type != tt.types[i] {
					t.Errorf("token %d type = %v, want %v", i, tok.Type, tt.types[i])
				}
				if tok.Name != tt.names[i] {
					t.Errorf("token %d name = %q, want %q", i, tok.Name, tt.names[i])
				}
			}
		})
	}
}

func TestTokensTileInput(t *testing.T) {
	src := "pre {{#a}}one {{x}} two{{/a}} {{! c }} post\n{{>p}}"
	tokens := collectTokens(t, src, "{{", "}}")

	pos := 0
	for i, tok := range tokens {
		if tok.Start != pos {
			t.Fatalf("token %d starts at %d, want %d (gap or overlap)", i, tok.Start, pos)
		}
		if tok.End < tok.Start {
			t.Fatalf("token %d has End %d before Start %d", i, tok.End, tok.Start)
		}
		pos = tok.End
	}
	if pos != len(src) {
		t.Errorf("tokens cover %d bytes, want %d", pos, len(src))
	}
}

func TestTokenizeDelimiterChange(t *testing.T) {
	tokens := collectTokens(t, "{{=<% %>=}}<%x%> {{n}}", "{{", "}}")

	want := []struct {
		typ  TokenType
		name string
	}{
		{TokenSetDelimiters, "<% %>"},
		{TokenVariable, "x"},
		{TokenText, " {{n}}"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || tokens[i].Name != w.name {
			t.Errorf("token %d = (%v, %q), want (%v, %q)",
				i, tokens[i].Type, tokens[i].Name, w.typ, w.name)
		}
	}
}

func TestTokenizeCustomStartingDelimiters(t *testing.T) {
	tokens := collectTokens(t, "<%x%>", "<%", "%>")
	if len(tokens) != 1 || tokens[0].Type != TokenVariable || tokens[0].Name != "x" {
		t.Fatalf("tokens = %+v, want single variable 'x'", tokens)
	}
}

func TestTokenizeStandalone(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		tagIndex   int
		standalone bool
		indent     string
	}{
		{"section alone on line", "a\n{{#s}}\nb", 1, true, ""},
		{"section indented alone", "a\n  {{#s}}\nb", 1, true, "  "},
		{"section at input start", "{{#s}}\nb", 0, true, ""},
		{"section at input end", "a\n{{#s}}", 1, true, ""},
		{"trailing spaces allowed", "a\n{{#s}}   \nb", 1, true, ""},
		{"crlf line end", "a\r\n{{#s}}\r\nb", 1, true, ""},
		{"text before tag", "a{{#s}}\nb", 1, false, ""},
		{"text after tag", "{{#s}}b\n", 0, false, ""},
		{"variable never standalone", "a\n{{v}}\nb", 1, false, ""},
		{"comment alone", "a\n{{! note }}\nb", 1, true, ""},
		{"partial indented", "a\n   {{>p}}\nb", 1, true, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := collectTokens(t, tt.src, "{{", "}}")
			tok := tokens[tt.tagIndex]
			if tok.Standalone != tt.standalone {
				t.Errorf("Standalone = %v, want %v (token %+v)", tok.Standalone, tt.standalone, tok)
			}
			if tok.Indent != tt.indent {
				t.Errorf("Indent = %q, want %q", tok.Indent, tt.indent)
			}
		})
	}
}

func TestTokenizeLineTracking(t *testing.T) {
	tokens := collectTokens(t, "one\ntwo\n{{x}}", "{{", "}}")
	last := tokens[len(tokens)-1]
	if last.Type != TokenVariable || last.Line != 3 {
		t.Errorf("variable on line %d, want 3", last.Line)
	}
	if last.Col != 1 {
		t.Errorf("variable at column %d, want 1", last.Col)
	}
}

func TestTokenizeUnterminatedTag(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no close at all", "text {{x"},
		{"single brace close", "{{x}"},
		{"unterminated triple", "{{{x}}"},
		{"unterminated delimiter change", "{{=<% %>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz := newTokenizer(tt.src, "{{", "}}")
			for {
				tok, err := tz.next()
				if err != nil {
					if !IsSyntaxError(err) {
						t.Fatalf("error = %v, want *SyntaxError", err)
					}
					if !strings.Contains(err.Error(), "unterminated") {
						t.Fatalf("error = %v, want mention of unterminated tag", err)
					}
					return
				}
				if tok.Type == TokenEOF {
					t.Fatal("reached EOF without error")
				}
			}
		})
	}
}

func TestTokenizeInvalidDelimiterSpec(t *testing.T) {
	tz := newTokenizer("{{=onlyone=}}", "{{", "}}")
	_, err := tz.next()
	if err == nil || !IsSyntaxError(err) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
}
