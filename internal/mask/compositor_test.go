package mask

import "testing"

func TestComposeDimensionsMatchCanvas(t *testing.T) {
	strokes := []Stroke{{{X: 10, Y: 10, Radius: 4, Mode: ModePaint}}}
	m, err := Compose(strokes, 64, 48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Width() != 64 || m.Height() != 48 {
		t.Fatalf("mask dimensions = %dx%d, want 64x48", m.Width(), m.Height())
	}
}

func TestComposeEmptyStrokesYieldsAllExcluded(t *testing.T) {
	m, err := Compose(nil, 32, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.IncludedCount(); got != 0 {
		t.Fatalf("included pixels = %d, want 0", got)
	}
	if !m.Empty() {
		t.Fatalf("mask should report empty")
	}
}

func TestComposePaintIncludesDisk(t *testing.T) {
	strokes := []Stroke{{{X: 16, Y: 16, Radius: 6, Mode: ModePaint}}}
	m, err := Compose(strokes, 32, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Included(16, 16) {
		t.Fatalf("disk centre should be included")
	}
	if m.Included(30, 30) {
		t.Fatalf("pixel far outside the disk should be excluded")
	}
	if m.IncludedCount() == 0 {
		t.Fatalf("paint stroke produced no included pixels")
	}
}

func TestComposeEraseOverridesPaint(t *testing.T) {
	strokes := []Stroke{
		{{X: 16, Y: 16, Radius: 6, Mode: ModePaint}},
		{{X: 16, Y: 16, Radius: 6, Mode: ModeErase}},
	}
	m, err := Compose(strokes, 32, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.IncludedCount(); got != 0 {
		t.Fatalf("included pixels after identical erase = %d, want 0", got)
	}
}

func TestComposeReplayIsOrderSensitive(t *testing.T) {
	strokes := []Stroke{
		{{X: 16, Y: 16, Radius: 6, Mode: ModeErase}},
		{{X: 16, Y: 16, Radius: 6, Mode: ModePaint}},
	}
	m, err := Compose(strokes, 32, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Included(16, 16) {
		t.Fatalf("paint after erase should include the disk again")
	}
}

func TestComposeRejectsNonPositiveCanvas(t *testing.T) {
	if _, err := Compose(nil, 0, 32); err == nil {
		t.Fatalf("expected error for zero width")
	}
	if _, err := Compose(nil, 32, -1); err == nil {
		t.Fatalf("expected error for negative height")
	}
}

func TestEncodePNGRoundTripsThroughFromImage(t *testing.T) {
	strokes := []Stroke{{{X: 8, Y: 8, Radius: 3, Mode: ModePaint}}}
	m, err := Compose(strokes, 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rebuilt := FromImage(m.Image())
	if rebuilt.IncludedCount() != m.IncludedCount() {
		t.Fatalf("rebuilt mask has %d included pixels, want %d", rebuilt.IncludedCount(), m.IncludedCount())
	}
}
