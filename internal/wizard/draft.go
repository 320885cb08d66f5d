// Package wizard implements the multi-step event-creation wizard as a
// headless state machine. A Controller owns one draft at a time (an event
// with 1–8 vendors, each with 1–5 menu items), gates step transitions with
// step validators and submits the assembled payload through a Transport.
// Rendering layers read Snapshot and mutate only through Controller methods.
package wizard

import "fmt"

// Step identifies the active wizard panel.
type Step int

const (
	StepEventDetails Step = 1
	StepVendors      Step = 2
	StepMenuItems    Step = 3
)

// String returns the panel title for a step.
func (s Step) String() string {
	switch s {
	case StepEventDetails:
		return "Event Details"
	case StepVendors:
		return "Vendors"
	case StepMenuItems:
		return "Menu Items"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Collection limits.
const (
	MinVendors   = 1
	MaxVendors   = 8
	MinMenuItems = 1
	MaxMenuItems = 5
)

// VendorID is a stable handle for a vendor card. Handles come from a
// per-session monotonic counter and are never reused after removal.
type VendorID int

// ItemID is a stable handle for a menu item, allocated like VendorID.
type ItemID int

// EventDraft holds the step-1 fields as the user typed them.
type EventDraft struct {
	Code    string
	Name    string
	StartAt string
	EndAt   string
}

// MenuItemDraft is one menu item row. Price and MaxPerOrder keep the raw
// input; they are parsed by the step-3 validator and the payload builder.
type MenuItemDraft struct {
	ID          ItemID
	Name        string
	Price       string
	MaxPerOrder string
}

// VendorDraft is one vendor card and the menu-item section it owns.
type VendorDraft struct {
	ID        VendorID
	Name      string
	Pin       string
	MenuItems []MenuItemDraft
}

// Session is the state of one open wizard instance.
type Session struct {
	Step       Step
	Event      EventDraft
	Vendors    []VendorDraft
	Submitting bool

	nextVendor VendorID
	nextItem   ItemID
}

func newSession() *Session {
	return &Session{Step: StepEventDetails}
}

// clone returns a deep copy so callers can never alias the live draft.
func (s *Session) clone() Session {
	out := *s
	out.Vendors = make([]VendorDraft, len(s.Vendors))
	for i, v := range s.Vendors {
		v.MenuItems = append([]MenuItemDraft(nil), v.MenuItems...)
		out.Vendors[i] = v
	}
	return out
}

func (s *Session) allocVendor() VendorID {
	s.nextVendor++
	return s.nextVendor
}

func (s *Session) allocItem() ItemID {
	s.nextItem++
	return s.nextItem
}

func (s *Session) vendorIndex(id VendorID) int {
	for i := range s.Vendors {
		if s.Vendors[i].ID == id {
			return i
		}
	}
	return -1
}

func (v *VendorDraft) itemIndex(id ItemID) int {
	for i := range v.MenuItems {
		if v.MenuItems[i].ID == id {
			return i
		}
	}
	return -1
}

// Vendor returns the vendor with the given handle.
func (s Session) Vendor(id VendorID) (VendorDraft, bool) {
	if i := s.vendorIndex(id); i >= 0 {
		return s.Vendors[i], true
	}
	return VendorDraft{}, false
}

// ItemCount returns the total number of menu items across all vendors.
func (s Session) ItemCount() int {
	n := 0
	for _, v := range s.Vendors {
		n += len(v.MenuItems)
	}
	return n
}

// ItemPrefill seeds a new menu item.
type ItemPrefill struct {
	Name        string
	Price       string
	MaxPerOrder *int
}

// VendorPrefill seeds a new vendor. An empty MenuItems list seeds one empty item.
type VendorPrefill struct {
	Name      string
	Pin       string
	MenuItems []ItemPrefill
}

// EventPrefill seeds a whole draft, see Controller.Load.
type EventPrefill struct {
	Code    string
	Name    string
	StartAt string
	EndAt   string
	Vendors []VendorPrefill
}

func (p ItemPrefill) draft(id ItemID) MenuItemDraft {
	item := MenuItemDraft{ID: id, Name: p.Name, Price: p.Price}
	if p.MaxPerOrder != nil {
		item.MaxPerOrder = fmt.Sprintf("%d", *p.MaxPerOrder)
	}
	return item
}
