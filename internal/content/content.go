// Package content ingests a book file into the flat block list the
// reading view operates on. Supported inputs are HTML, Markdown, and
// plain text; chapter boundaries are derived from headings.
package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/mpetrov/folio/pkg/models"
)

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// LoadFile parses a book file by extension and returns its content
// with chapters and word counts attached.
func LoadFile(path string) (*models.BookContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var blocks []models.Block
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		blocks, err = ParseHTML(strings.NewReader(string(data)))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".md", ".markdown":
		blocks = ParseMarkdown(string(data))
	default:
		blocks = ParseText(string(data))
	}

	bc := &models.BookContent{
		Title:  titleFromBlocks(blocks, path),
		Path:   path,
		Blocks: blocks,
	}
	bc.Chapters = BuildChapters(blocks)
	for _, ch := range bc.Chapters {
		bc.TotalWords += ch.WordCount
	}
	return bc, nil
}

// blockTags maps HTML elements to block kinds
var blockTags = map[string]string{
	"p":          models.BlockParagraph,
	"blockquote": models.BlockQuote,
	"pre":        models.BlockCode,
	"li":         models.BlockListItem,
	"h1":         models.BlockHeading,
	"h2":         models.BlockHeading,
	"h3":         models.BlockHeading,
	"h4":         models.BlockHeading,
	"h5":         models.BlockHeading,
	"h6":         models.BlockHeading,
}

// ParseHTML walks an HTML document and emits its block- and
// heading-level elements in document order. Inline markup is flattened
// to text; structure beyond block boundaries is not validated.
func ParseHTML(r io.Reader) ([]models.Block, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var blocks []models.Block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if kind, ok := blockTags[n.Data]; ok {
				text := strings.TrimSpace(nodeText(n))
				if text != "" {
					b := models.Block{Kind: kind, Text: text}
					if kind == models.BlockHeading {
						b.Level = int(n.Data[1] - '0')
					}
					blocks = append(blocks, b)
				}
				return // do not descend into a captured block
			}
			switch n.Data {
			case "script", "style", "head":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks, nil
}

// nodeText collects the text content of a node subtree
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// ParseMarkdown splits markdown source into heading and paragraph
// blocks. Headers become heading blocks; runs of non-blank lines become
// paragraphs.
func ParseMarkdown(src string) []models.Block {
	var blocks []models.Block
	var para []string

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, models.Block{
				Kind: models.BlockParagraph,
				Text: strings.Join(para, " "),
			})
			para = nil
		}
	}

	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimRight(line, "\r")
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			blocks = append(blocks, models.Block{
				Kind:  models.BlockHeading,
				Level: len(match[1]),
				Text:  strings.TrimSpace(match[2]),
			})
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		para = append(para, strings.TrimSpace(line))
	}
	flush()
	return blocks
}

// ParseText splits plain text into paragraph blocks on blank lines
func ParseText(src string) []models.Block {
	var blocks []models.Block
	for _, chunk := range strings.Split(src, "\n\n") {
		text := strings.Join(strings.Fields(chunk), " ")
		if text == "" {
			continue
		}
		blocks = append(blocks, models.Block{Kind: models.BlockParagraph, Text: text})
	}
	return blocks
}

// BuildChapters derives the chapter index from top-level headings
// (levels 1 and 2). Content before the first heading, or heading-free
// content, forms a single chapter.
func BuildChapters(blocks []models.Block) []models.Chapter {
	var chapters []models.Chapter

	for i, b := range blocks {
		if b.IsHeading() && b.Level <= 2 {
			if len(chapters) == 0 && i > 0 {
				chapters = append(chapters, models.Chapter{Title: "Front Matter", BlockStart: 0})
			}
			chapters = append(chapters, models.Chapter{Title: b.Text, BlockStart: i})
		}
	}
	if len(chapters) == 0 {
		chapters = append(chapters, models.Chapter{Title: "Chapter 1", BlockStart: 0})
	}

	for i := range chapters {
		chapters[i].Index = i
		end := len(blocks)
		if i+1 < len(chapters) {
			end = chapters[i+1].BlockStart
		}
		words := 0
		for _, b := range blocks[chapters[i].BlockStart:end] {
			words += CountWords(b.Text)
		}
		chapters[i].WordCount = words
	}
	return chapters
}

// CountWords counts whitespace-separated words
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// titleFromBlocks uses the first heading as the book title, falling
// back to the file name.
func titleFromBlocks(blocks []models.Block, path string) string {
	for _, b := range blocks {
		if b.IsHeading() {
			return b.Text
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
