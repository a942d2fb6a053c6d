// ABOUTME: Markdown to plain terminal text via the goldmark AST.
// ABOUTME: Persona responses are markdown; the TUI wants readable plain text.

// Package markdown renders markdown response text as plain text suitable
// for terminal output. Formatting markers are dropped, paragraph and list
// structure is kept.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Plain converts markdown source to plain text. Emphasis, headings, links,
// and code markers are stripped; paragraphs, line breaks, list items, and
// code block content survive.
func Plain(src string) string {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}

		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(source))
				}
				if !bytes.HasSuffix(buf.Bytes(), []byte{'\n'}) {
					buf.WriteByte('\n')
				}
				buf.WriteByte('\n')
				return ast.WalkSkipChildren, nil
			}

		case *ast.ListItem:
			if entering {
				buf.WriteString("- ")
			}

		case *ast.TextBlock:
			if !entering {
				buf.WriteByte('\n')
			}

		case *ast.Paragraph, *ast.Heading:
			if !entering {
				buf.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimRight(buf.String(), "\n")
}
