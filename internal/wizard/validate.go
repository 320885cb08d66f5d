package wizard

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MinEventNameLength is the minimum event name length in characters.
const MinEventNameLength = 3

var eventCodePattern = regexp.MustCompile(`^[A-Z][0-9]{4}$`)

// DateTimeLayouts are the accepted start/end formats, the same ones an HTML
// datetime-local input produces.
var DateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ValidationError describes the first violation a step validator found.
// Vendor and Item point at the offending row when the field belongs to one.
type ValidationError struct {
	Step    Step
	Field   string
	Vendor  VendorID
	Item    ItemID
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(step Step, field, format string, args ...any) *ValidationError {
	return &ValidationError{Step: step, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidEventCode reports whether code is one uppercase letter followed by
// exactly four digits.
func ValidEventCode(code string) bool {
	return eventCodePattern.MatchString(code)
}

// ParseDateTime parses a start/end value in one of DateTimeLayouts.
func ParseDateTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range DateTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParsePrice parses a price and rejects negatives, NaN and infinities.
func ParsePrice(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("price out of range: %s", value)
	}
	return f, nil
}

// ParseMaxPerOrder parses an optional per-order limit. Blank means
// unlimited and yields nil.
func ParseMaxPerOrder(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("max per order must be positive: %d", n)
	}
	return &n, nil
}

// CheckStep1 validates the event details. It returns nil or the
// *ValidationError for the first invalid field.
func CheckStep1(s Session) error {
	ev := s.Event

	if !ValidEventCode(strings.TrimSpace(ev.Code)) {
		return invalid(StepEventDetails, "code",
			"Event code must be one uppercase letter followed by four digits (e.g. A1234)")
	}
	if utf8.RuneCountInString(strings.TrimSpace(ev.Name)) < MinEventNameLength {
		return invalid(StepEventDetails, "name",
			"Event name must be at least %d characters", MinEventNameLength)
	}

	var start, end time.Time
	var err error
	if v := strings.TrimSpace(ev.StartAt); v != "" {
		if start, err = ParseDateTime(v); err != nil {
			return invalid(StepEventDetails, "startAt",
				"Start time must be a date and time like 2025-10-20T18:00")
		}
	}
	if v := strings.TrimSpace(ev.EndAt); v != "" {
		if end, err = ParseDateTime(v); err != nil {
			return invalid(StepEventDetails, "endAt",
				"End time must be a date and time like 2025-10-21T02:00")
		}
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return invalid(StepEventDetails, "endAt", "End time must be after the start time")
	}
	return nil
}

// CheckStep2 validates the vendor list.
func CheckStep2(s Session) error {
	if len(s.Vendors) < MinVendors {
		return invalid(StepVendors, "vendors", "Add at least one vendor")
	}
	if len(s.Vendors) > MaxVendors {
		return invalid(StepVendors, "vendors", "An event can have at most %d vendors", MaxVendors)
	}
	for i, v := range s.Vendors {
		if strings.TrimSpace(v.Name) == "" {
			e := invalid(StepVendors, fmt.Sprintf("vendors[%d].name", i), "Vendor %d needs a name", i+1)
			e.Vendor = v.ID
			return e
		}
	}
	return nil
}

// CheckStep3 validates every vendor's menu items.
func CheckStep3(s Session) error {
	for i, v := range s.Vendors {
		label := vendorLabel(v, i)
		field := fmt.Sprintf("vendors[%d].menuItems", i)

		if len(v.MenuItems) < MinMenuItems {
			e := invalid(StepMenuItems, field, "%s needs at least one menu item", label)
			e.Vendor = v.ID
			return e
		}
		if len(v.MenuItems) > MaxMenuItems {
			e := invalid(StepMenuItems, field, "%s can have at most %d menu items", label, MaxMenuItems)
			e.Vendor = v.ID
			return e
		}

		for j, item := range v.MenuItems {
			var e *ValidationError
			name := strings.TrimSpace(item.Name)
			switch {
			case name == "":
				e = invalid(StepMenuItems, fmt.Sprintf("%s[%d].name", field, j),
					"Menu item %d of %s needs a name", j+1, label)
			case !validPrice(item.Price):
				e = invalid(StepMenuItems, fmt.Sprintf("%s[%d].price", field, j),
					"Price of %q must be a number of 0 or more", name)
			case !validMaxPerOrder(item.MaxPerOrder):
				e = invalid(StepMenuItems, fmt.Sprintf("%s[%d].maxPerOrder", field, j),
					"Max per order of %q must be a whole number above 0, or empty for no limit", name)
			}
			if e != nil {
				e.Vendor, e.Item = v.ID, item.ID
				return e
			}
		}
	}
	return nil
}

// CheckStep runs the validator of the given step.
func CheckStep(step Step, s Session) error {
	switch step {
	case StepEventDetails:
		return CheckStep1(s)
	case StepVendors:
		return CheckStep2(s)
	case StepMenuItems:
		return CheckStep3(s)
	default:
		return invalid(step, "step", "Unknown wizard step %d", int(step))
	}
}

// CheckAll runs the validators of steps 1 through 3 in order and returns the
// first failure.
func CheckAll(s Session) error {
	for _, step := range []Step{StepEventDetails, StepVendors, StepMenuItems} {
		if err := CheckStep(step, s); err != nil {
			return err
		}
	}
	return nil
}

func validPrice(v string) bool {
	_, err := ParsePrice(v)
	return err == nil
}

func validMaxPerOrder(v string) bool {
	_, err := ParseMaxPerOrder(v)
	return err == nil
}

func vendorLabel(v VendorDraft, index int) string {
	if name := strings.TrimSpace(v.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Vendor %d", index+1)
}
