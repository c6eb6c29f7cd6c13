package docintel

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FlattenMarkdown strips markdown structure and returns the plain text
// content, one line per block-level element. Table cells within a row are
// joined by single spaces.
func FlattenMarkdown(source []byte) string {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var sb strings.Builder
	var line strings.Builder

	flush := func() {
		if line.Len() == 0 {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.TrimSpace(line.String()))
		line.Reset()
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				line.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					flush()
				}
			}
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
			if !entering {
				flush()
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					line.Write(seg.Value(source))
					flush()
				}
			}
		}
		return ast.WalkContinue, nil
	})
	flush()
	return sb.String()
}
