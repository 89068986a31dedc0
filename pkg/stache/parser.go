package stache

import (
	"fmt"
	"strings"
)

// NodeType represents the type of a parsed template node.
type NodeType int

const (
	NodeText NodeType = iota
	NodeVariable
	NodeRawVariable
	NodeSection
	NodeInverted
	NodePartial
)

// Node is one element of a parsed template tree. Section and inverted
// section nodes own their body as Children; all other nodes are leaves.
type Node struct {
	Type     NodeType
	Name     string
	Text     string // literal content, text nodes only
	Children []*Node

	// RawBody is the unparsed source of a section body, handed to section
	// lambdas so they can reprocess it. LDelim/RDelim are the delimiters
	// that were current at the section's open tag.
	RawBody string
	LDelim  string
	RDelim  string

	// Indent is the whitespace stripped from before a standalone partial
	// tag, re-applied to each line the partial renders.
	Indent string
}

// openSection tracks an in-progress section while parsing.
type openSection struct {
	node    *Node
	bodyOff int // source offset just past the open tag
	line    int
	col     int
}

// parse tokenizes and parses a template into a node tree, applying
// standalone-line whitespace trimming and validating section nesting.
func parse(src, ldel, rdel string) ([]*Node, error) {
	tz := newTokenizer(src, ldel, rdel)

	root := make([]*Node, 0, 8)
	var stack []*openSection

	// children returns the node list currently being appended to.
	children := func() *[]*Node {
		if len(stack) == 0 {
			return &root
		}
		return &stack[len(stack)-1].node.Children
	}

	// pendingStrip is set after a standalone tag: the following text token
	// must lose its leading spaces/tabs and one newline.
	pendingStrip := false

	for {
		tok, err := tz.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenEOF {
			break
		}

		if tok.Type == TokenText {
			text := tok.Name
			if pendingStrip {
				text = stripLeadingLine(text)
				pendingStrip = false
			}
			if text != "" {
				*children() = append(*children(), &Node{Type: NodeText, Text: text})
			}
			continue
		}

		if tok.Standalone {
			trimTrailingIndent(children())
			pendingStrip = true
		}

		switch tok.Type {
		case TokenVariable:
			*children() = append(*children(), &Node{Type: NodeVariable, Name: tok.Name})

		case TokenRawVariable:
			*children() = append(*children(), &Node{Type: NodeRawVariable, Name: tok.Name})

		case TokenPartial:
			*children() = append(*children(), &Node{
				Type:   NodePartial,
				Name:   tok.Name,
				Indent: tok.Indent,
			})

		case TokenSectionOpen, TokenInvertedOpen:
			nt := NodeSection
			if tok.Type == TokenInvertedOpen {
				nt = NodeInverted
			}
			stack = append(stack, &openSection{
				node: &Node{
					Type:   nt,
					Name:   tok.Name,
					LDelim: tz.ldel,
					RDelim: tz.rdel,
				},
				bodyOff: tok.End,
				line:    tok.Line,
				col:     tok.Col,
			})

		case TokenSectionClose:
			if len(stack) == 0 {
				return nil, NewSyntaxError(
					fmt.Sprintf("unexpected section close '%s'", tok.Name),
					tok.Line, tok.Col,
				)
			}
			open := stack[len(stack)-1]
			if open.node.Name != tok.Name {
				return nil, NewSyntaxError(
					fmt.Sprintf("mismatched section close: got '%s', expected '%s'",
						tok.Name, open.node.Name),
					tok.Line, tok.Col,
				)
			}
			open.node.RawBody = src[open.bodyOff:tok.Start]
			stack = stack[:len(stack)-1]
			*children() = append(*children(), open.node)

		case TokenComment, TokenSetDelimiters:
			// Consumed at parse time. Comments contribute nothing to the
			// tree; delimiter changes already took effect in the tokenizer.
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return nil, NewSyntaxError(
			fmt.Sprintf("unclosed section '%s'", open.node.Name),
			open.line, open.col,
		)
	}

	return root, nil
}

// trimTrailingIndent removes the spaces/tabs a standalone tag was preceded
// by from the text node before it, dropping the node if it becomes empty.
func trimTrailingIndent(nodes *[]*Node) {
	n := len(*nodes)
	if n == 0 {
		return
	}
	last := (*nodes)[n-1]
	if last.Type != NodeText {
		return
	}
	last.Text = strings.TrimRight(last.Text, " \t")
	if last.Text == "" {
		*nodes = (*nodes)[:n-1]
	}
}

// stripLeadingLine removes the spaces/tabs and single newline that follow a
// standalone tag from the start of the next text run.
func stripLeadingLine(text string) string {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i < len(text) && text[i] == '\r' {
		i++
	}
	if i < len(text) && text[i] == '\n' {
		return text[i+1:]
	}
	// The tag sat at end of input with no trailing newline.
	if i == len(text) {
		return ""
	}
	return text
}
