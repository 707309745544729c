package tldr

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/cheatfind/pkg/corpus"
)

// pageParser extracts corpus records from tldr pages.
type pageParser struct {
	md goldmark.Markdown
}

func newPageParser() *pageParser {
	return &pageParser{md: goldmark.New()}
}

// pageState tracks where the walk is inside a page.
type pageState struct {
	source []byte

	inItem    bool
	inQuote   bool
	inCommand bool

	descr   strings.Builder
	command strings.Builder
	records []corpus.Record
}

// Parse returns one record per example in source. The text of the last
// list item becomes the description of the next inline code span found
// outside list items and block quotes.
func (p *pageParser) Parse(source []byte) []corpus.Record {
	doc := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	state := &pageState{source: source}
	_ = ast.Walk(doc, state.visit)
	return state.records
}

// ParsePage extracts records from a single tldr page.
func ParsePage(source []byte) []corpus.Record {
	return newPageParser().Parse(source)
}

func (s *pageState) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	case *ast.Blockquote:
		s.inQuote = entering

	case *ast.ListItem:
		s.inItem = entering

	case *ast.CodeSpan:
		if entering {
			s.inCommand = !s.inItem && !s.inQuote
			return ast.WalkContinue, nil
		}
		if s.inCommand {
			s.emit()
			s.inCommand = false
		}

	case *ast.Text:
		if entering {
			s.appendText(string(n.Segment.Value(s.source)))
			if n.SoftLineBreak() || n.HardLineBreak() {
				s.appendText(" ")
			}
		}

	case *ast.String:
		if entering {
			s.appendText(string(n.Value))
		}
	}
	return ast.WalkContinue, nil
}

func (s *pageState) appendText(value string) {
	switch {
	case s.inItem:
		s.descr.WriteString(value)
	case s.inCommand:
		s.command.WriteString(value)
	}
}

func (s *pageState) emit() {
	command := strings.TrimSpace(s.command.String())
	descr := strings.TrimSuffix(strings.TrimSpace(s.descr.String()), ":")
	if command != "" {
		s.records = append(s.records, corpus.Record(command+corpus.Separator+descr))
	}
	s.command.Reset()
	s.descr.Reset()
}
