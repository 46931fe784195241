// Package anchor captures and restores a stable reading position across
// reflows. An anchor identifies the block nearest the reader's eye line by
// a text fingerprint plus its ordinal index, both of which survive
// typography changes that invalidate every pixel offset.
package anchor

// FingerprintLen is the number of leading characters of a block's text
// used as the restoration key.
const FingerprintLen = 50

// targetFraction places the anchor line one third down the viewport
const targetFraction = 3.0

// BlockPosition is one block's rendered geometry: its text and its
// absolute top offset from the start of the document, in layout units.
type BlockPosition struct {
	Text string
	Top  float64
}

// Anchor is a transient reading-position descriptor. It is only valid
// against the document version it was captured from; discard it whenever
// the content is replaced.
type Anchor struct {
	Fingerprint  string
	BlockIndex   int
	ElementTop   float64 // last-resort signal only
	TargetOffset float64
}

// Fingerprint returns the first FingerprintLen characters of text
func Fingerprint(text string) string {
	runes := []rune(text)
	if len(runes) > FingerprintLen {
		runes = runes[:FingerprintLen]
	}
	return string(runes)
}

// Capture records the block nearest to the target viewport line
// (one third of the viewport height below the current scroll offset).
// Ties are broken by the lowest block index. Returns nil when there is
// no content to anchor to; restoration then degrades to a no-op.
func Capture(blocks []BlockPosition, scrollOffset, viewportHeight float64) *Anchor {
	if len(blocks) == 0 {
		return nil
	}

	target := scrollOffset + viewportHeight/targetFraction

	best := 0
	bestDist := abs(blocks[0].Top - target)
	for i := 1; i < len(blocks); i++ {
		d := abs(blocks[i].Top - target)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	return &Anchor{
		Fingerprint:  Fingerprint(blocks[best].Text),
		BlockIndex:   best,
		ElementTop:   blocks[best].Top,
		TargetOffset: target - scrollOffset,
	}
}

// Restore resolves an anchor against a reflowed block enumeration and
// returns the scroll offset that places the anchored block one third of
// the viewport height from the top. Matching tries the fingerprint first
// (first match wins; identical prefixes may resolve to the wrong
// occurrence, a known limitation), then falls back to the same block
// index. Returns ok=false when neither resolves.
func Restore(a *Anchor, blocks []BlockPosition, viewportHeight float64) (offset float64, ok bool) {
	if a == nil || len(blocks) == 0 {
		return 0, false
	}

	match := -1
	if a.Fingerprint != "" {
		for i, b := range blocks {
			if Fingerprint(b.Text) == a.Fingerprint {
				match = i
				break
			}
		}
	}
	if match < 0 {
		if a.BlockIndex >= 0 && a.BlockIndex < len(blocks) {
			match = a.BlockIndex
		} else {
			return 0, false
		}
	}

	offset = blocks[match].Top - viewportHeight/targetFraction
	if offset < 0 {
		offset = 0
	}
	return offset, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
