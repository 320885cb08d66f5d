package wizard

import (
	"fmt"
	"strings"

	wiz "github.com/fbcorp/gleo/internal/wizard"
)

type fieldKind int

const (
	fieldCode fieldKind = iota
	fieldName
	fieldStartAt
	fieldEndAt
	fieldVendorName
	fieldVendorPin
	fieldItemName
	fieldItemPrice
	fieldItemMax
)

// field is one focusable input on the active step. Vendor and item rows are
// addressed by handle so focus survives removals elsewhere in the list.
type field struct {
	kind   fieldKind
	vendor wiz.VendorID
	item   wiz.ItemID
}

func (f field) label() string {
	switch f.kind {
	case fieldCode:
		return "Code"
	case fieldName:
		return "Name"
	case fieldStartAt:
		return "Starts"
	case fieldEndAt:
		return "Ends"
	case fieldVendorName, fieldItemName:
		return "Name"
	case fieldVendorPin:
		return "PIN"
	case fieldItemPrice:
		return "Price"
	case fieldItemMax:
		return "Max/order"
	default:
		return fmt.Sprintf("field %d", int(f.kind))
	}
}

func (f field) placeholder() string {
	switch f.kind {
	case fieldCode:
		return "A1234"
	case fieldName:
		return "Spring Fest"
	case fieldStartAt, fieldEndAt:
		return "2025-10-20T18:00 (optional)"
	case fieldVendorPin:
		return "optional"
	case fieldItemPrice:
		return "0.00"
	case fieldItemMax:
		return "no limit"
	default:
		return ""
	}
}

// value reads the field from a snapshot.
func (f field) value(s wiz.Session) string {
	switch f.kind {
	case fieldCode:
		return s.Event.Code
	case fieldName:
		return s.Event.Name
	case fieldStartAt:
		return s.Event.StartAt
	case fieldEndAt:
		return s.Event.EndAt
	}

	v, ok := s.Vendor(f.vendor)
	if !ok {
		return ""
	}
	switch f.kind {
	case fieldVendorName:
		return v.Name
	case fieldVendorPin:
		return v.Pin
	}
	for _, item := range v.MenuItems {
		if item.ID != f.item {
			continue
		}
		switch f.kind {
		case fieldItemName:
			return item.Name
		case fieldItemPrice:
			return item.Price
		case fieldItemMax:
			return item.MaxPerOrder
		}
	}
	return ""
}

// commit writes value through the matching controller setter.
func (f field) commit(c *wiz.Controller, value string) bool {
	switch f.kind {
	case fieldCode:
		return c.SetCode(value)
	case fieldName:
		return c.SetName(value)
	case fieldStartAt:
		return c.SetStartAt(value)
	case fieldEndAt:
		return c.SetEndAt(value)
	case fieldVendorName:
		return c.SetVendorName(f.vendor, value)
	case fieldVendorPin:
		return c.SetVendorPin(f.vendor, value)
	case fieldItemName:
		return c.SetItemName(f.vendor, f.item, value)
	case fieldItemPrice:
		return c.SetItemPrice(f.vendor, f.item, value)
	case fieldItemMax:
		return c.SetItemMaxPerOrder(f.vendor, f.item, value)
	default:
		return false
	}
}

// fieldsFor lists the focusable fields of a step in display order.
func fieldsFor(s wiz.Session) []field {
	switch s.Step {
	case wiz.StepEventDetails:
		return []field{{kind: fieldCode}, {kind: fieldName}, {kind: fieldStartAt}, {kind: fieldEndAt}}
	case wiz.StepVendors:
		out := make([]field, 0, 2*len(s.Vendors))
		for _, v := range s.Vendors {
			out = append(out, field{kind: fieldVendorName, vendor: v.ID}, field{kind: fieldVendorPin, vendor: v.ID})
		}
		return out
	case wiz.StepMenuItems:
		out := make([]field, 0, 3*s.ItemCount())
		for _, v := range s.Vendors {
			for _, item := range v.MenuItems {
				out = append(out,
					field{kind: fieldItemName, vendor: v.ID, item: item.ID},
					field{kind: fieldItemPrice, vendor: v.ID, item: item.ID},
					field{kind: fieldItemMax, vendor: v.ID, item: item.ID},
				)
			}
		}
		return out
	default:
		return nil
	}
}

// indexOf finds the field of the given kind for a vendor/item pair.
func indexOf(fields []field, kind fieldKind, vendor wiz.VendorID, item wiz.ItemID) int {
	for i, f := range fields {
		if f.kind == kind && f.vendor == vendor && f.item == item {
			return i
		}
	}
	return -1
}

// fieldForError maps a validation failure to the field to focus.
func fieldForError(e *wiz.ValidationError) (fieldKind, bool) {
	switch {
	case e.Field == "code":
		return fieldCode, true
	case e.Field == "name":
		return fieldName, true
	case e.Field == "startAt":
		return fieldStartAt, true
	case e.Field == "endAt":
		return fieldEndAt, true
	case e.Step == wiz.StepVendors && e.Vendor != 0:
		return fieldVendorName, true
	case e.Step == wiz.StepMenuItems && e.Item != 0:
		return itemFieldKind(e.Field), true
	}
	return 0, false
}

func itemFieldKind(path string) fieldKind {
	switch {
	case strings.HasSuffix(path, ".price"):
		return fieldItemPrice
	case strings.HasSuffix(path, ".maxPerOrder"):
		return fieldItemMax
	default:
		return fieldItemName
	}
}
