// Configures the markdown parser used to read frontmatter and measure posts
package parser

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Document is a parsed static content file.
type Document struct {
	Meta      map[string]interface{}
	Body      string // markdown after the frontmatter block
	WordCount int
}

// New returns a goldmark instance with YAML frontmatter support. The instance
// is safe for concurrent Parse calls as long as each call uses its own context.
func New() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)
}

// ParseDocument reads frontmatter and counts words of the body.
func ParseDocument(md goldmark.Markdown, source []byte) (*Document, error) {
	ctx := parser.NewContext()
	docNode := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	metaData, err := meta.TryGet(ctx)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if metaData == nil {
		metaData = map[string]interface{}{}
	}

	plain := ExtractPlainText(docNode, source)
	return &Document{
		Meta:      metaData,
		Body:      string(stripFrontmatter(source)),
		WordCount: len(strings.Fields(plain)),
	}, nil
}

// WordCount counts the words of a markdown body that carries no frontmatter.
func WordCount(md goldmark.Markdown, markdown string) int {
	if strings.TrimSpace(markdown) == "" {
		return 0
	}
	source := []byte(markdown)
	docNode := md.Parser().Parse(text.NewReader(source))
	return len(strings.Fields(ExtractPlainText(docNode, source)))
}

// ReadingTime converts a word count to whole minutes, rounding up.
func ReadingTime(words, wordsPerMinute int) int {
	if words <= 0 || wordsPerMinute <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / float64(wordsPerMinute)))
}

// ExtractPlainText walks the AST and returns a clean string of all text content
func ExtractPlainText(node ast.Node, source []byte) string {
	var out strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindText:
			t := n.(*ast.Text)
			out.Write(t.Segment.Value(source))
			out.WriteString(" ")
		case ast.KindCodeBlock, ast.KindFencedCodeBlock:
			l := n.Lines().Len()
			for i := 0; i < l; i++ {
				line := n.Lines().At(i)
				out.Write(line.Value(source))
			}
			out.WriteString(" ")
		case ast.KindHeading:
			out.WriteString("\n")
		}
		return ast.WalkContinue, nil
	})
	return out.String()
}

var fence = []byte("---")

// stripFrontmatter drops a leading "---" delimited block.
func stripFrontmatter(source []byte) []byte {
	trimmed := bytes.TrimPrefix(source, []byte("\ufeff"))
	if !bytes.HasPrefix(trimmed, fence) {
		return source
	}
	rest := trimmed[len(fence):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return source
	}
	rest = rest[nl+1:]
	for len(rest) > 0 {
		line := rest
		next := []byte(nil)
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, next = rest[:i], rest[i+1:]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
			return bytes.TrimLeft(next, "\r\n")
		}
		rest = next
	}
	return source
}
