package tui

import (
	"fmt"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/fbcorp/gleo/internal/journal"
	"github.com/fbcorp/gleo/internal/tui/theme"
)

// HistoryTimeLayout formats entry timestamps in the list.
const HistoryTimeLayout = "2006-01-02 15:04"

// History is the list of recorded submissions with a detail pane for the
// selected entry.
type History struct {
	entries  []journal.Entry
	selected int
	offset   int
	err      error

	// entry to select on the first load
	preferred string

	// rendered detail markdown keyed by entry ID and width
	detailKey string
	detail    string
}

// NewHistory creates an empty history view.
func NewHistory() *History {
	return &History{}
}

// SetEntries replaces the entries, keeping the selection on the same entry
// when it is still present.
func (h *History) SetEntries(entries []journal.Entry, err error) {
	keep := h.preferred
	if e, ok := h.Selected(); ok {
		keep = e.ID
	}
	h.preferred = ""
	h.entries = entries
	h.err = err
	h.selected = 0
	for i, e := range entries {
		if e.ID == keep {
			h.selected = i
			break
		}
	}
}

// Prefer selects the entry with id once it is loaded.
func (h *History) Prefer(id string) {
	h.preferred = id
}

// Selected returns the focused entry.
func (h *History) Selected() (journal.Entry, bool) {
	if h.selected < 0 || h.selected >= len(h.entries) {
		return journal.Entry{}, false
	}
	return h.entries[h.selected], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Move shifts the selection by delta, clamped to the list.
func (h *History) Move(delta int) {
	if len(h.entries) == 0 {
		return
	}
	h.selected = max(0, min(len(h.entries)-1, h.selected+delta))
}

// Draw renders the list into area.
func (h *History) Draw(scr uv.Screen, area uv.Rectangle) {
	inner := DrawPanel(scr, area, fmt.Sprintf("History (%d)", len(h.entries)), true)
	s := theme.Current().S()

	switch {
	case h.err != nil:
		DrawLines(scr, inner, []string{s.Muted.Render("Could not load history: " + h.err.Error())})
		return
	case len(h.entries) == 0:
		DrawLines(scr, inner, []string{s.Muted.Render("No events yet. Press n to create one.")})
		return
	}

	rows := inner.Dy()
	if h.selected < h.offset {
		h.offset = h.selected
	}
	if rows > 0 && h.selected >= h.offset+rows {
		h.offset = h.selected - rows + 1
	}

	lines := make([]string, 0, rows)
	for i := h.offset; i < len(h.entries) && len(lines) < rows; i++ {
		lines = append(lines, h.renderRow(h.entries[i], i == h.selected, inner.Dx()))
	}
	DrawLines(scr, inner, lines)
}

func (h *History) renderRow(e journal.Entry, selected bool, width int) string {
	s := theme.Current().S()
	when := e.Timestamp.Local().Format(HistoryTimeLayout)
	text := fmt.Sprintf("%s  %-5s  %s", when, e.Code, e.Name)
	if selected {
		return outcomeBadge(e.Outcome) + " " + selectedRow().Width(max(0, width-2)).Render(text)
	}
	return outcomeBadge(e.Outcome) + " " + s.Value.Render(text)
}

// DrawDetail renders the selected entry into area.
func (h *History) DrawDetail(scr uv.Screen, area uv.Rectangle) {
	inner := DrawPanel(scr, area, "Details", false)
	e, ok := h.Selected()
	if !ok || inner.Dx() <= 0 {
		return
	}
	key := fmt.Sprintf("%s/%d", e.ID, inner.Dx())
	if key != h.detailKey {
		h.detailKey = key
		h.detail = renderMarkdown(EntryMarkdown(e), inner.Dx())
	}
	DrawLines(scr, inner, strings.Split(h.detail, "\n"))
}

// EntryMarkdown describes an entry as markdown.
func EntryMarkdown(e journal.Entry) string {
	var b strings.Builder
	title := e.Name
	if title == "" {
		title = "(unnamed)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Code | `%s` |\n", e.Code)
	fmt.Fprintf(&b, "| Outcome | %s |\n", e.Outcome)
	fmt.Fprintf(&b, "| When | %s |\n", e.Timestamp.Local().Format(HistoryTimeLayout))
	fmt.Fprintf(&b, "| Vendors | %d |\n", e.Vendors)
	fmt.Fprintf(&b, "| Menu items | %d |\n", e.Items)
	if e.Transport != "" {
		fmt.Fprintf(&b, "| Sent via | %s |\n", e.Transport)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, "\n> %s\n", strings.ReplaceAll(e.Message, "\n", " "))
	}
	return b.String()
}

