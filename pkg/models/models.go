package models

import "time"

// Block kind constants
const (
	BlockParagraph = "paragraph"
	BlockHeading   = "heading"
	BlockQuote     = "quote"
	BlockCode      = "code"
	BlockListItem  = "list_item"
)

// Block is a paragraph- or heading-granularity content unit. Blocks are
// the atomic units of pagination and position anchoring.
type Block struct {
	Kind  string `json:"kind"`
	Level int    `json:"level,omitempty"` // heading level 1-6, 0 otherwise
	Text  string `json:"text"`
}

// IsHeading returns true if the block is a heading
func (b Block) IsHeading() bool {
	return b.Kind == BlockHeading
}

// Chapter describes one chapter of a book: where it starts in the block
// list and how many words it holds.
type Chapter struct {
	Index      int    `json:"index"`
	Title      string `json:"title"`
	BlockStart int    `json:"block_start"`
	WordCount  int    `json:"word_count"`
}

// BookContent is the parsed content of a book: a flat ordered block list
// plus the chapter index derived from headings.
type BookContent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Path       string    `json:"path,omitempty"`
	Blocks     []Block   `json:"blocks"`
	Chapters   []Chapter `json:"chapters"`
	TotalWords int       `json:"total_words"`
}

// ChapterWordCounts returns the ordered per-chapter word counts
func (bc *BookContent) ChapterWordCounts() []int {
	counts := make([]int, len(bc.Chapters))
	for i, ch := range bc.Chapters {
		counts[i] = ch.WordCount
	}
	return counts
}

// Typography holds the settings that affect rendered text geometry.
// All values are in layout units (a px-like abstract unit).
type Typography struct {
	FontSize    float64
	LineHeight  float64
	ParaSpacing float64 // em-equivalent, multiplied by FontSize for gaps
	FontFamily  string
}

// ParaGap returns the vertical gap between blocks in layout units
func (t Typography) ParaGap() float64 {
	return t.ParaSpacing * t.FontSize
}

// Viewport is the visible container geometry in layout units
type Viewport struct {
	Width  float64
	Height float64
}

// ProgressSnapshot is the derived reading progress for one scroll tick.
// It is recomputed transiently; only the persisted ReadingPosition form
// outlives the tick.
type ProgressSnapshot struct {
	ScrollPercent      float64 `json:"scroll_percent"` // 0..1 over the whole document
	ChapterIndex       int     `json:"chapter_index"`
	WordsReadTotal     int     `json:"words_read_total"`
	WordsReadInChapter int     `json:"words_read_in_chapter"`
	ChapterWordTotal   int     `json:"chapter_word_total"`
}

// ReadingPosition is the persisted per-book progress record, also the
// payload sent to the remote sync endpoint.
type ReadingPosition struct {
	BookID       string    `json:"book_id"`
	Chapter      int       `json:"chapter"`
	ScrollOffset float64   `json:"scroll_offset"`
	Progress     float64   `json:"progress"` // 0..1
	UpdatedAt    time.Time `json:"updated_at"`
}
