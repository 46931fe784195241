package anchor

import (
	"strings"
	"testing"
)

func makeBlocks(texts []string, heights []float64) []BlockPosition {
	blocks := make([]BlockPosition, len(texts))
	top := 0.0
	for i, text := range texts {
		blocks[i] = BlockPosition{Text: text, Top: top}
		top += heights[i]
	}
	return blocks
}

func TestCaptureSelectsNearestBlock(t *testing.T) {
	// Blocks at tops 0, 100, 200, 300
	blocks := makeBlocks(
		[]string{"first paragraph", "second paragraph", "third paragraph", "fourth paragraph"},
		[]float64{100, 100, 100, 100},
	)

	// Scrolled to 150 with a 300-high viewport: target line = 150 + 100 = 250.
	// Block tops 200 and 300 are 50 off each; the tie goes to the lower index.
	a := Capture(blocks, 150, 300)
	if a == nil {
		t.Fatal("Capture returned nil for non-empty content")
	}
	if a.BlockIndex != 2 {
		t.Errorf("BlockIndex = %d, want 2", a.BlockIndex)
	}
	if a.Fingerprint != "third paragraph" {
		t.Errorf("Fingerprint = %q, want %q", a.Fingerprint, "third paragraph")
	}
}

func TestCaptureEmptyContent(t *testing.T) {
	if a := Capture(nil, 0, 300); a != nil {
		t.Errorf("Capture(nil) = %+v, want nil", a)
	}
}

func TestFingerprintTruncation(t *testing.T) {
	long := strings.Repeat("a", 80)
	fp := Fingerprint(long)
	if len([]rune(fp)) != FingerprintLen {
		t.Errorf("fingerprint length = %d, want %d", len([]rune(fp)), FingerprintLen)
	}

	short := "short text"
	if Fingerprint(short) != short {
		t.Errorf("short text should fingerprint to itself")
	}
}

func TestRestoreRoundTripIdentity(t *testing.T) {
	blocks := makeBlocks(
		[]string{"alpha", "beta", "gamma", "delta", "epsilon"},
		[]float64{80, 120, 90, 200, 60},
	)

	// A no-op reflow (identical geometry) must land back on the same offset
	// for offsets where the anchored block sits exactly on the target line.
	const vh = 300.0
	for _, scroll := range []float64{0, 100, 190} {
		a := Capture(blocks, scroll, vh)
		if a == nil {
			t.Fatalf("Capture at %v returned nil", scroll)
		}
		got, ok := Restore(a, blocks, vh)
		if !ok {
			t.Fatalf("Restore at %v failed", scroll)
		}
		// The restored offset places the anchored block at vh/3; the capture
		// picked the block nearest vh/3, so the error is bounded by half the
		// largest inter-block distance.
		if diff := got - scroll; diff > 110 || diff < -110 {
			t.Errorf("restore after no-op reflow at %v: got %v (diff %v)", scroll, got, diff)
		}
	}
}

func TestRestoreExactWhenBlockOnTargetLine(t *testing.T) {
	blocks := makeBlocks(
		[]string{"one", "two", "three"},
		[]float64{100, 100, 100},
	)
	// target = 100 + 300/3 = 200, exactly block index 2's top
	a := Capture(blocks, 100, 300)
	got, ok := Restore(a, blocks, 300)
	if !ok || got != 100 {
		t.Errorf("Restore = %v, %v; want 100, true", got, ok)
	}
}

func TestRestoreFingerprintSurvivesReflow(t *testing.T) {
	before := makeBlocks(
		[]string{"intro", "the anchored text", "outro"},
		[]float64{100, 100, 100},
	)
	a := Capture(before, 40, 180) // target 100 -> block 1

	// Same content reflowed at a larger font: every height doubles.
	after := makeBlocks(
		[]string{"intro", "the anchored text", "outro"},
		[]float64{200, 200, 200},
	)
	got, ok := Restore(a, after, 180)
	if !ok {
		t.Fatal("Restore failed after reflow")
	}
	want := 200.0 - 60.0 // block top 200, minus vh/3
	if got != want {
		t.Errorf("Restore = %v, want %v", got, want)
	}
}

func TestRestoreBlockIndexFallback(t *testing.T) {
	a := &Anchor{Fingerprint: "does not exist anywhere", BlockIndex: 1}
	blocks := makeBlocks(
		[]string{"aaa", "bbb", "ccc"},
		[]float64{100, 100, 100},
	)
	got, ok := Restore(a, blocks, 300)
	if !ok {
		t.Fatal("Restore should fall back to block index")
	}
	if got != 0 {
		// block 1 top = 100, minus 100 = 0
		t.Errorf("Restore = %v, want 0", got)
	}
}

func TestRestoreNoOpWhenNothingResolves(t *testing.T) {
	a := &Anchor{Fingerprint: "missing", BlockIndex: 99}
	blocks := makeBlocks([]string{"only"}, []float64{50})
	if _, ok := Restore(a, blocks, 300); ok {
		t.Error("Restore should report no match")
	}

	if _, ok := Restore(nil, blocks, 300); ok {
		t.Error("Restore(nil) should be a no-op")
	}
	if _, ok := Restore(a, nil, 300); ok {
		t.Error("Restore against empty content should be a no-op")
	}
}

func TestRestoreClampsToZero(t *testing.T) {
	blocks := makeBlocks([]string{"top block", "next"}, []float64{10, 100})
	a := &Anchor{Fingerprint: "top block", BlockIndex: 0}
	got, ok := Restore(a, blocks, 600)
	if !ok || got != 0 {
		t.Errorf("Restore = %v, %v; want clamped 0, true", got, ok)
	}
}

func TestRestoreFirstMatchWinsOnDuplicateFingerprints(t *testing.T) {
	blocks := makeBlocks(
		[]string{"repeated header", "body", "repeated header", "more body"},
		[]float64{50, 400, 50, 400},
	)
	a := &Anchor{Fingerprint: "repeated header", BlockIndex: 2}
	got, ok := Restore(a, blocks, 300)
	if !ok {
		t.Fatal("Restore failed")
	}
	// Documented behavior: the fingerprint scan stops at the first
	// occurrence even when the index points at a later duplicate.
	if got != 0 {
		t.Errorf("Restore = %v, want 0 (first occurrence)", got)
	}
}
