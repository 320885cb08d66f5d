package wizard

import (
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw renders the form centered in area and returns the rectangle it
// occupies. The rectangle is empty when the wizard is closed.
func (f *Form) Draw(scr uv.Screen, area uv.Rectangle) uv.Rectangle {
	content := f.View()
	if content == "" {
		return uv.Rectangle{}
	}
	w, h := lipgloss.Width(content), lipgloss.Height(content)
	x := area.Min.X + max(0, (area.Dx()-w)/2)
	y := area.Min.Y + max(0, (area.Dy()-h)/2)
	rect := uv.Rect(x, y, min(w, area.Dx()), min(h, area.Dy()))
	uv.NewStyledString(content).Draw(scr, rect)
	return rect
}

// DrawToast renders the toast at the bottom-right corner of area.
func DrawToast(scr uv.Screen, area uv.Rectangle, t *Toast) {
	if !t.IsVisible() {
		return
	}
	content := t.View(area.Dx())
	if content == "" {
		return
	}
	h := lipgloss.Height(content)
	y := max(area.Min.Y, area.Max.Y-1-h)
	uv.NewStyledString(content).Draw(scr, uv.Rect(area.Min.X, y, area.Dx(), h))
}
