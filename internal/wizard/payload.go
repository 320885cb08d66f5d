package wizard

import "strings"

// Payload is the body sent to the event service.
type Payload struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	StartAt *string         `json:"startAt"`
	EndAt   *string         `json:"endAt"`
	Vendors []VendorPayload `json:"vendors"`
}

// VendorPayload is one vendor in a Payload. Pin is "" when not set.
type VendorPayload struct {
	Name      string            `json:"name"`
	Pin       string            `json:"pin"`
	MenuItems []MenuItemPayload `json:"menuItems"`
}

// MenuItemPayload is one menu item in a Payload. MaxPerOrder is null for
// unlimited.
type MenuItemPayload struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	MaxPerOrder *int   `json:"maxPerOrder"`
}

// BuildPayload transforms a draft into the wire format. It never modifies s.
// Values that do not parse (only possible before step 3 passed) are sent as
// null rather than guessed.
func BuildPayload(s Session) Payload {
	p := Payload{
		Code:    strings.TrimSpace(s.Event.Code),
		Name:    strings.TrimSpace(s.Event.Name),
		StartAt: optionalString(s.Event.StartAt),
		EndAt:   optionalString(s.Event.EndAt),
		Vendors: make([]VendorPayload, 0, len(s.Vendors)),
	}

	for _, v := range s.Vendors {
		vp := VendorPayload{
			Name:      strings.TrimSpace(v.Name),
			Pin:       v.Pin,
			MenuItems: make([]MenuItemPayload, 0, len(v.MenuItems)),
		}
		for _, item := range v.MenuItems {
			limit, err := ParseMaxPerOrder(item.MaxPerOrder)
			if err != nil {
				limit = nil
			}
			vp.MenuItems = append(vp.MenuItems, MenuItemPayload{
				Name:        strings.TrimSpace(item.Name),
				Price:       strings.TrimSpace(item.Price),
				MaxPerOrder: limit,
			})
		}
		p.Vendors = append(p.Vendors, vp)
	}

	return p
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
