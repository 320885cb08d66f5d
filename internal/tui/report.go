package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	wiz "github.com/fbcorp/gleo/internal/wizard"
)

// PayloadMarkdown summarizes a payload as markdown, one section per vendor.
func PayloadMarkdown(p wiz.Payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (`%s`)\n\n", p.Name, p.Code)
	if p.StartAt != nil || p.EndAt != nil {
		fmt.Fprintf(&b, "%s → %s\n\n", orDash(p.StartAt), orDash(p.EndAt))
	}
	for _, v := range p.Vendors {
		fmt.Fprintf(&b, "## %s\n\n", v.Name)
		if v.Pin != "" {
			b.WriteString("PIN set\n\n")
		}
		b.WriteString("| Item | Price | Max per order |\n|---|---|---|\n")
		for _, item := range v.MenuItems {
			limit := "-"
			if item.MaxPerOrder != nil {
				limit = fmt.Sprint(*item.MaxPerOrder)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", item.Name, item.Price, limit)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// RenderReport renders the payload summary followed by the highlighted JSON
// body that would be sent.
func RenderReport(p wiz.Payload, width int) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return renderMarkdown(PayloadMarkdown(p), width) + "\n\n" + syntaxHighlight(string(data), "payload.json"), nil
}
