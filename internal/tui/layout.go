package tui

import uv "github.com/charmbracelet/ultraviolet"

// Layout breakpoints and dimensions
const (
	// CompactWidthBreakpoint is the minimum width for the detail pane
	CompactWidthBreakpoint = 100
	// DetailWidthDesktop is the widest the detail pane gets
	DetailWidthDesktop = 60
	// HeaderHeight is the height of the title bar in rows
	HeaderHeight = 1
	// FooterHeight is the height of the hint bar in rows
	FooterHeight = 1
)

// LayoutMode represents the layout mode based on terminal size
type LayoutMode int

const (
	// LayoutDesktop shows the history list next to the entry detail
	LayoutDesktop LayoutMode = iota
	// LayoutCompact shows the history list only
	LayoutCompact
)

// Layout defines the rectangular regions of the console
type Layout struct {
	Mode   LayoutMode
	Area   uv.Rectangle
	Header uv.Rectangle
	List   uv.Rectangle
	Detail uv.Rectangle
	Footer uv.Rectangle
}

// IsCompact returns true if the layout is in compact mode
func (l Layout) IsCompact() bool {
	return l.Mode == LayoutCompact
}

// CalculateLayout computes the layout rectangles based on terminal dimensions.
// The detail pane is dropped when showDetail is false.
func CalculateLayout(width, height int, showDetail bool) Layout {
	mode := LayoutDesktop
	if width < CompactWidthBreakpoint || !showDetail {
		mode = LayoutCompact
	}

	area := uv.Rectangle{
		Max: uv.Position{X: width, Y: height},
	}

	headerRect, rest := uv.SplitVertical(area, uv.Fixed(HeaderHeight))
	contentRect, footerRect := uv.SplitVertical(rest, uv.Fixed(rest.Dy()-FooterHeight))

	var listRect, detailRect uv.Rectangle
	if mode == LayoutDesktop {
		detailWidth := DetailWidthDesktop
		if contentRect.Dx()/2 < detailWidth {
			detailWidth = contentRect.Dx() / 2
		}
		// 1-char gap so the panel rules don't merge
		listRect, detailRect = uv.SplitHorizontal(contentRect, uv.Fixed(contentRect.Dx()-detailWidth))
		listRect.Max.X -= 1
	} else {
		listRect = contentRect
	}

	return Layout{
		Mode:   mode,
		Area:   area,
		Header: headerRect,
		List:   listRect,
		Detail: detailRect,
		Footer: footerRect,
	}
}
