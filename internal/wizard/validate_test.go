package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEventCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"A1234", true},
		{"Z0000", true},
		{"a1234", false},
		{"a123", false},
		{"A123", false},
		{"A12345", false},
		{"AB123", false},
		{"", false},
		{"Ä1234", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEventCode(tt.code))
		})
	}
}

func validSession() Session {
	return Session{
		Step:  StepEventDetails,
		Event: EventDraft{Code: "A1234", Name: "Spring Fest"},
		Vendors: []VendorDraft{{
			ID:        1,
			Name:      "BRGR",
			MenuItems: []MenuItemDraft{{ID: 1, Name: "Burger", Price: "5.00"}},
		}},
	}
}

func TestCheckStep1(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(ev *EventDraft)
		field string
	}{
		{"valid", func(ev *EventDraft) {}, ""},
		{"lowercase code", func(ev *EventDraft) { ev.Code = "a1234" }, "code"},
		{"code surrounded by spaces", func(ev *EventDraft) { ev.Code = " A1234 " }, ""},
		{"short name", func(ev *EventDraft) { ev.Name = "ab" }, "name"},
		{"name padded to three", func(ev *EventDraft) { ev.Name = "  ab  " }, "name"},
		{"multibyte name", func(ev *EventDraft) { ev.Name = "Fêt" }, ""},
		{"code wins over name", func(ev *EventDraft) { ev.Code, ev.Name = "x", "" }, "code"},
		{"start only", func(ev *EventDraft) { ev.StartAt = "2025-10-20T18:00" }, ""},
		{"with seconds", func(ev *EventDraft) { ev.StartAt = "2025-10-20T18:00:30" }, ""},
		{"bad start", func(ev *EventDraft) { ev.StartAt = "tomorrow" }, "startAt"},
		{"bad end", func(ev *EventDraft) { ev.EndAt = "2025-13-01T00:00" }, "endAt"},
		{"ordered range", func(ev *EventDraft) {
			ev.StartAt, ev.EndAt = "2025-10-20T18:00", "2025-10-21T02:00"
		}, ""},
		{"end before start", func(ev *EventDraft) {
			ev.StartAt, ev.EndAt = "2025-10-21T02:00", "2025-10-20T18:00"
		}, "endAt"},
		{"end equals start", func(ev *EventDraft) {
			ev.StartAt, ev.EndAt = "2025-10-20T18:00", "2025-10-20T18:00"
		}, "endAt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSession()
			tt.edit(&s.Event)
			err := CheckStep1(s)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, StepEventDetails, verr.Step)
		})
	}
}

func TestCheckStep2(t *testing.T) {
	s := validSession()
	require.NoError(t, CheckStep2(s))

	s.Vendors = append(s.Vendors, VendorDraft{ID: 7, Name: "   "})
	err := CheckStep2(s)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, VendorID(7), verr.Vendor)
	assert.Equal(t, "Vendor 2 needs a name", verr.Message)

	s.Vendors = nil
	require.EqualError(t, CheckStep2(s), "Add at least one vendor")

	s.Vendors = make([]VendorDraft, MaxVendors+1)
	for i := range s.Vendors {
		s.Vendors[i].Name = "v"
	}
	require.Error(t, CheckStep2(s))
}

func TestCheckStep3(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(item *MenuItemDraft)
		message string
	}{
		{"valid", func(*MenuItemDraft) {}, ""},
		{"zero price", func(it *MenuItemDraft) { it.Price = "0" }, ""},
		{"integer price", func(it *MenuItemDraft) { it.Price = "12" }, ""},
		{"missing name", func(it *MenuItemDraft) { it.Name = "" }, "Menu item 1 of BRGR needs a name"},
		{"empty price", func(it *MenuItemDraft) { it.Price = "" }, `Price of "Burger" must be a number of 0 or more`},
		{"negative price", func(it *MenuItemDraft) { it.Price = "-0.01" }, `Price of "Burger" must be a number of 0 or more`},
		{"text price", func(it *MenuItemDraft) { it.Price = "five" }, `Price of "Burger" must be a number of 0 or more`},
		{"nan price", func(it *MenuItemDraft) { it.Price = "NaN" }, `Price of "Burger" must be a number of 0 or more`},
		{"limit", func(it *MenuItemDraft) { it.MaxPerOrder = "3" }, ""},
		{"zero limit", func(it *MenuItemDraft) { it.MaxPerOrder = "0" }, "Max per order of \"Burger\" must be a whole number above 0, or empty for no limit"},
		{"fractional limit", func(it *MenuItemDraft) { it.MaxPerOrder = "1.5" }, "Max per order of \"Burger\" must be a whole number above 0, or empty for no limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSession()
			tt.edit(&s.Vendors[0].MenuItems[0])
			err := CheckStep3(s)
			if tt.message == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.message)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, ItemID(1), verr.Item)
			assert.Equal(t, VendorID(1), verr.Vendor)
		})
	}
}

func TestCheckStep3VendorWithoutItems(t *testing.T) {
	s := validSession()
	s.Vendors = append(s.Vendors, VendorDraft{ID: 2})
	require.EqualError(t, CheckStep3(s), "Vendor 2 needs at least one menu item")
}

func TestCheckAllOrder(t *testing.T) {
	s := validSession()
	s.Event.Code = "bad"
	s.Vendors[0].Name = ""
	s.Vendors[0].MenuItems[0].Price = "x"

	var verr *ValidationError
	require.ErrorAs(t, CheckAll(s), &verr)
	assert.Equal(t, StepEventDetails, verr.Step)

	s.Event.Code = "A1234"
	require.ErrorAs(t, CheckAll(s), &verr)
	assert.Equal(t, StepVendors, verr.Step)

	s.Vendors[0].Name = "BRGR"
	require.ErrorAs(t, CheckAll(s), &verr)
	assert.Equal(t, StepMenuItems, verr.Step)
}

func TestCheckStepUnknown(t *testing.T) {
	require.Error(t, CheckStep(Step(9), validSession()))
	assert.Equal(t, "Step(9)", Step(9).String())
	assert.Equal(t, "Menu Items", StepMenuItems.String())
}
