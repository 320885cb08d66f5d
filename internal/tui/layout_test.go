package tui

import (
	"testing"
)

// TestCalculateLayout_Minimum tests layout at 80x24 (minimum terminal size)
func TestCalculateLayout_Minimum(t *testing.T) {
	width, height := 80, 24
	layout := CalculateLayout(width, height, true)

	// Should be compact mode
	if layout.Mode != LayoutCompact {
		t.Errorf("Expected LayoutCompact mode at %dx%d, got %v", width, height, layout.Mode)
	}

	if layout.Area.Dx() != width || layout.Area.Dy() != height {
		t.Errorf("Area size mismatch: got %dx%d, want %dx%d",
			layout.Area.Dx(), layout.Area.Dy(), width, height)
	}

	if layout.Header.Dy() != HeaderHeight {
		t.Errorf("Header height mismatch: got %d, want %d", layout.Header.Dy(), HeaderHeight)
	}
	if layout.Footer.Dy() != FooterHeight {
		t.Errorf("Footer height mismatch: got %d, want %d", layout.Footer.Dy(), FooterHeight)
	}

	// In compact mode, the detail pane should be empty
	if !layout.Detail.Empty() {
		t.Errorf("Detail should be empty in compact mode, got %dx%d",
			layout.Detail.Dx(), layout.Detail.Dy())
	}

	// List should occupy full width
	if layout.List.Dx() != width {
		t.Errorf("List width should equal total width in compact mode: got %d, want %d",
			layout.List.Dx(), width)
	}

	expectedListHeight := height - HeaderHeight - FooterHeight
	if layout.List.Dy() != expectedListHeight {
		t.Errorf("List height mismatch: got %d, want %d", layout.List.Dy(), expectedListHeight)
	}
}

// TestCalculateLayout_Standard tests layout at 120x40 (standard terminal size)
func TestCalculateLayout_Standard(t *testing.T) {
	width, height := 120, 40
	layout := CalculateLayout(width, height, true)

	if layout.Mode != LayoutDesktop {
		t.Errorf("Expected LayoutDesktop mode at %dx%d, got %v", width, height, layout.Mode)
	}

	// Detail pane is capped at half the width
	if layout.Detail.Dx() != DetailWidthDesktop {
		t.Errorf("Detail width mismatch: got %d, want %d", layout.Detail.Dx(), DetailWidthDesktop)
	}

	// 1-char gap between list and detail
	if layout.Detail.Min.X-layout.List.Max.X != 1 {
		t.Errorf("Expected a 1-char gap, list ends at %d, detail starts at %d",
			layout.List.Max.X, layout.Detail.Min.X)
	}
}

// TestCalculateLayout_DetailHidden tests that the preference drops the pane
func TestCalculateLayout_DetailHidden(t *testing.T) {
	layout := CalculateLayout(200, 60, false)
	if !layout.IsCompact() {
		t.Error("Expected compact layout when the detail pane is hidden")
	}
	if layout.List.Dx() != 200 {
		t.Errorf("List should take the full width, got %d", layout.List.Dx())
	}
}

// TestCalculateLayout_CompactModeTransition tests transition at breakpoints
func TestCalculateLayout_CompactModeTransition(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		wantMode LayoutMode
	}{
		{
			name:     "just below width breakpoint",
			width:    CompactWidthBreakpoint - 1,
			wantMode: LayoutCompact,
		},
		{
			name:     "just at width breakpoint",
			width:    CompactWidthBreakpoint,
			wantMode: LayoutDesktop,
		},
		{
			name:     "wide",
			width:    CompactWidthBreakpoint * 2,
			wantMode: LayoutDesktop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := CalculateLayout(tt.width, 30, true)
			if layout.Mode != tt.wantMode {
				t.Errorf("Mode mismatch at width %d: got %v, want %v",
					tt.width, layout.Mode, tt.wantMode)
			}
		})
	}
}

// TestCalculateLayout_NoOverlaps verifies that layout rectangles don't overlap
func TestCalculateLayout_NoOverlaps(t *testing.T) {
	sizes := []struct {
		width  int
		height int
	}{
		{80, 24},
		{120, 40},
		{200, 60},
	}

	for _, size := range sizes {
		t.Run("no overlaps", func(t *testing.T) {
			layout := CalculateLayout(size.width, size.height, true)

			if layout.Header.Min.Y != 0 {
				t.Errorf("Header should start at Y=0, got Y=%d", layout.Header.Min.Y)
			}
			if layout.List.Min.Y != layout.Header.Max.Y {
				t.Errorf("List should start where the header ends")
			}
			if layout.Footer.Min.Y != layout.List.Max.Y {
				t.Errorf("Footer should start where the list ends")
			}
			if layout.Footer.Max.Y != size.height {
				t.Errorf("Footer should end at total height %d, got %d",
					size.height, layout.Footer.Max.Y)
			}
			if !layout.IsCompact() && layout.Detail.Max.X != size.width {
				t.Errorf("Detail should end at total width %d, got %d",
					size.width, layout.Detail.Max.X)
			}
		})
	}
}
