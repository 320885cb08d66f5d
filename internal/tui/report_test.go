package tui

import (
	"testing"

	wiz "github.com/fbcorp/gleo/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadMarkdown(t *testing.T) {
	start := "2025-10-20T18:00"
	limit := 2
	p := wiz.Payload{
		Code:    "A1234",
		Name:    "Spring Fest",
		StartAt: &start,
		Vendors: []wiz.VendorPayload{{
			Name: "BRGR",
			Pin:  "0042",
			MenuItems: []wiz.MenuItemPayload{
				{Name: "Burger", Price: "5.00", MaxPerOrder: &limit},
				{Name: "Fries", Price: "2.50"},
			},
		}},
	}

	md := PayloadMarkdown(p)
	assert.Contains(t, md, "# Spring Fest (`A1234`)")
	assert.Contains(t, md, "2025-10-20T18:00 → -")
	assert.Contains(t, md, "## BRGR")
	assert.Contains(t, md, "PIN set")
	assert.NotContains(t, md, "0042")
	assert.Contains(t, md, "| Burger | 5.00 | 2 |")
	assert.Contains(t, md, "| Fries | 2.50 | - |")
}

func TestRenderReport(t *testing.T) {
	out, err := RenderReport(wiz.Payload{Code: "A1234", Name: "Spring Fest"}, 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Spring Fest")
	assert.Contains(t, out, "A1234")
}

func TestSyntaxHighlightFallsBack(t *testing.T) {
	out := syntaxHighlight("plain words", "notes.unknownext")
	assert.Contains(t, out, "plain")
}
