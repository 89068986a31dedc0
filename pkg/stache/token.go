package stache

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a template token.
type TokenType int

const (
	TokenText TokenType = iota
	TokenVariable
	TokenRawVariable
	TokenSectionOpen
	TokenInvertedOpen
	TokenSectionClose
	TokenPartial
	TokenComment
	TokenSetDelimiters
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "text"
	case TokenVariable:
		return "variable"
	case TokenRawVariable:
		return "raw variable"
	case TokenSectionOpen:
		return "section"
	case TokenInvertedOpen:
		return "inverted section"
	case TokenSectionClose:
		return "section close"
	case TokenPartial:
		return "partial"
	case TokenComment:
		return "comment"
	case TokenSetDelimiters:
		return "set delimiters"
	case TokenEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token represents a single lexical element of a template: either a run of
// literal text or one tag occurrence. Start and End are byte offsets into
// the source covering the whole token, so the token stream tiles the input
// with no gaps.
type Token struct {
	Type  TokenType
	Name  string // trimmed tag name; literal content for text tokens
	Start int
	End   int
	Line  int
	Col   int

	// Standalone is set when the tag is the only non-whitespace content on
	// its source line. Indent holds the whitespace that precedes such a tag,
	// used to re-indent partial output.
	Standalone bool
	Indent     string
}

// tokenizer scans a template under a current delimiter pair, producing one
// token per call to next. Set-delimiter tags take effect immediately for
// all subsequent scanning by the same tokenizer.
type tokenizer struct {
	src  string
	pos  int
	line int
	ldel string
	rdel string
}

func newTokenizer(src, ldel, rdel string) *tokenizer {
	if ldel == "" {
		ldel = defaultLeftDelim
	}
	if rdel == "" {
		rdel = defaultRightDelim
	}
	return &tokenizer{src: src, pos: 0, line: 1, ldel: ldel, rdel: rdel}
}

// next returns the next token. After the input is exhausted it returns a
// TokenEOF token; it never returns one twice with an advancing position.
func (tz *tokenizer) next() (Token, error) {
	if tz.pos >= len(tz.src) {
		return Token{Type: TokenEOF, Start: tz.pos, End: tz.pos, Line: tz.line}, nil
	}

	rel := strings.Index(tz.src[tz.pos:], tz.ldel)
	if rel != 0 {
		// Everything up to the next open delimiter (or end of input) is a
		// single text token.
		end := len(tz.src)
		if rel > 0 {
			end = tz.pos + rel
		}
		tok := Token{
			Type:  TokenText,
			Name:  tz.src[tz.pos:end],
			Start: tz.pos,
			End:   end,
			Line:  tz.line,
		}
		tz.line += strings.Count(tok.Name, "\n")
		tz.pos = end
		return tok, nil
	}

	return tz.scanTag()
}

// scanTag reads one tag starting at the current position, which must point
// at the open delimiter.
func (tz *tokenizer) scanTag() (Token, error) {
	start := tz.pos
	startLine := tz.line
	startCol := tz.column(start)

	body := tz.pos + len(tz.ldel)
	kind := TokenVariable
	closer := tz.rdel

	if body < len(tz.src) {
		switch tz.src[body] {
		case '#':
			kind, body = TokenSectionOpen, body+1
		case '^':
			kind, body = TokenInvertedOpen, body+1
		case '/':
			kind, body = TokenSectionClose, body+1
		case '>':
			kind, body = TokenPartial, body+1
		case '!':
			kind, body = TokenComment, body+1
		case '&':
			kind, body = TokenRawVariable, body+1
		case '{':
			kind, body = TokenRawVariable, body+1
			closer = "}" + tz.rdel
		case '=':
			kind, body = TokenSetDelimiters, body+1
			closer = "=" + tz.rdel
		}
	}

	rel := strings.Index(tz.src[body:], closer)
	if rel < 0 {
		return Token{}, NewSyntaxError(
			fmt.Sprintf("unterminated tag opened with %q", tz.ldel),
			startLine, startCol,
		)
	}

	content := tz.src[body : body+rel]
	end := body + rel + len(closer)

	tok := Token{
		Type:  kind,
		Name:  strings.TrimSpace(content),
		Start: start,
		End:   end,
		Line:  startLine,
		Col:   startCol,
	}

	if standaloneEligible(kind) && tz.leftStandalone(start) && tz.rightStandalone(end) {
		tok.Standalone = true
		tok.Indent = tz.src[tz.lineStart(start):start]
	}

	tz.line += strings.Count(tz.src[start:end], "\n")
	tz.pos = end

	if kind == TokenSetDelimiters {
		if err := tz.applyDelimiters(tok.Name, startLine, startCol); err != nil {
			return Token{}, err
		}
	}

	return tok, nil
}

// applyDelimiters switches the scan delimiters per a {{=ld rd=}} tag.
func (tz *tokenizer) applyDelimiters(spec string, line, col int) error {
	parts := strings.Fields(spec)
	if len(parts) != 2 {
		return NewSyntaxError(
			fmt.Sprintf("invalid delimiter specification %q", spec),
			line, col,
		)
	}
	tz.ldel, tz.rdel = parts[0], parts[1]
	return nil
}

// standaloneEligible reports whether the tag kind participates in
// standalone-line whitespace trimming. Interpolation tags never do.
func standaloneEligible(kind TokenType) bool {
	switch kind {
	case TokenSectionOpen, TokenInvertedOpen, TokenSectionClose,
		TokenPartial, TokenComment, TokenSetDelimiters:
		return true
	default:
		return false
	}
}

// leftStandalone reports whether only spaces and tabs separate the offset
// from the start of its line.
func (tz *tokenizer) leftStandalone(off int) bool {
	for i := off - 1; i >= 0; i-- {
		switch tz.src[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// rightStandalone reports whether only spaces and tabs separate the offset
// from the next newline or the end of input.
func (tz *tokenizer) rightStandalone(off int) bool {
	for i := off; i < len(tz.src); i++ {
		switch tz.src[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		case '\r':
			return i+1 < len(tz.src) && tz.src[i+1] == '\n'
		default:
			return false
		}
	}
	return true
}

// lineStart returns the offset of the first byte of the line containing off.
func (tz *tokenizer) lineStart(off int) int {
	for i := off - 1; i >= 0; i-- {
		if tz.src[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// column returns the 1-based column of an offset on its line.
func (tz *tokenizer) column(off int) int {
	return off - tz.lineStart(off) + 1
}
