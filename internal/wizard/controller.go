package wizard

import (
	"errors"
	"sync"
	"time"

	"github.com/fbcorp/gleo/internal/logger"
)

// Mode selects how the wizard is embedded.
type Mode int

const (
	// ModePopup shows the wizard over a host surface; Close hides it.
	ModePopup Mode = iota
	// ModeStandalone makes the wizard the whole surface. It is open from
	// construction and Close only resets the draft.
	ModeStandalone
)

// Defaults for the optional controller settings.
const (
	DefaultSeedVendors  = 1
	DefaultSeedItems    = 1
	DefaultRefreshDelay = 1500 * time.Millisecond
)

// Precondition failures. Their text is shown to the user as a warning.
var (
	ErrNoSession     = errors.New("The event wizard is not open")
	ErrUnknownVendor = errors.New("That vendor no longer exists")
	ErrUnknownItem   = errors.New("That menu item no longer exists")
	ErrVendorLimit   = errors.New("An event can have at most 8 vendors")
	ErrItemLimit     = errors.New("A vendor can have at most 5 menu items")
	ErrLastVendor    = errors.New("An event needs at least one vendor")
	ErrLastItem      = errors.New("A vendor needs at least one menu item")
)

// Controller is the wizard state machine. All methods are safe for
// concurrent use; the draft is only reachable through them.
type Controller struct {
	mu sync.Mutex

	notifier  Notifier
	transport Transport
	host      Host
	scheduler Scheduler
	log       *logger.Logger

	mode         Mode
	seedVendors  int
	seedItems    int
	refreshDelay time.Duration
	timeout      time.Duration

	session *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithHost sets the surface that is refreshed after a successful submit.
func WithHost(h Host) Option {
	return func(c *Controller) { c.host = h }
}

// WithScheduler replaces time.AfterFunc for the delayed host refresh.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

// WithMode selects popup or standalone embedding.
func WithMode(m Mode) Option {
	return func(c *Controller) { c.mode = m }
}

// WithSeed sets how many empty vendors, and items per vendor, Open creates.
// Values are clamped to the collection limits.
func WithSeed(vendors, items int) Option {
	return func(c *Controller) {
		c.seedVendors = clamp(vendors, 0, MaxVendors)
		c.seedItems = clamp(items, MinMenuItems, MaxMenuItems)
	}
}

// WithRefreshDelay sets the pause between the success notification and the
// host refresh.
func WithRefreshDelay(d time.Duration) Option {
	return func(c *Controller) { c.refreshDelay = d }
}

// WithTimeout bounds each transport call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// New creates a controller. A standalone controller is opened immediately.
func New(notifier Notifier, transport Transport, opts ...Option) *Controller {
	c := &Controller{
		notifier:     notifier,
		transport:    transport,
		scheduler:    SystemScheduler(),
		log:          logger.Default.With("wizard"),
		mode:         ModePopup,
		seedVendors:  DefaultSeedVendors,
		seedItems:    DefaultSeedItems,
		refreshDelay: DefaultRefreshDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = NotifyFunc(func(string, Severity) {})
	}
	if c.mode == ModeStandalone {
		c.Open()
	}
	return c
}

// Open discards any draft and starts a fresh session on step 1, seeded with
// empty vendor and menu-item rows.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = c.seededSession()
	c.log.Debug("opened (mode=%d, vendors=%d)", c.mode, len(c.session.Vendors))
}

func (c *Controller) seededSession() *Session {
	s := newSession()
	for range c.seedVendors {
		v := VendorDraft{ID: s.allocVendor()}
		for range c.seedItems {
			v.MenuItems = append(v.MenuItems, MenuItemDraft{ID: s.allocItem()})
		}
		s.Vendors = append(s.Vendors, v)
	}
	return s
}

// Close hides a popup wizard and discards its draft. A standalone wizard
// gets a fresh draft instead. Calling Close repeatedly is harmless.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	if c.mode == ModeStandalone {
		c.session = c.seededSession()
		return
	}
	if c.session != nil {
		c.log.Debug("closed")
	}
	c.session = nil
}

// IsOpen reports whether a session exists.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Mode returns the embedding mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Step returns the active step, or 0 when closed.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.Step
}

// IsSubmitting reports whether a submission is in flight.
func (c *Controller) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.Submitting
}

// Snapshot returns a deep copy of the draft for rendering.
func (c *Controller) Snapshot() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return c.session.clone(), true
}

// CollectPayload builds the wire payload from the current draft without
// changing it.
func (c *Controller) CollectPayload() Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return BuildPayload(Session{})
	}
	return BuildPayload(*c.session)
}

// Next validates the active step and advances when it passes. On step 3 a
// passing validation does not move. It reports whether validation passed.
func (c *Controller) Next() bool {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		c.warn(ErrNoSession)
		return false
	}
	from := s.Step
	err := CheckStep(from, *s)
	if err == nil && s.Step < StepMenuItems {
		s.Step++
	}
	to := s.Step
	c.mu.Unlock()

	if err != nil {
		c.log.Debug("next refused on step %d: %v", from, err)
		c.warn(err)
		return false
	}
	c.log.Debug("next: step %d -> %d", from, to)
	return true
}

// Prev moves back one step without validating.
func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && c.session.Step > StepEventDetails {
		c.session.Step--
	}
}

// ValidateStep1 runs the event details validator, warning on failure.
func (c *Controller) ValidateStep1() bool { return c.validate(StepEventDetails) }

// ValidateStep2 runs the vendor validator, warning on failure.
func (c *Controller) ValidateStep2() bool { return c.validate(StepVendors) }

// ValidateStep3 runs the menu item validator, warning on failure.
func (c *Controller) ValidateStep3() bool { return c.validate(StepMenuItems) }

func (c *Controller) validate(step Step) bool {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		c.warn(ErrNoSession)
		return false
	}
	err := CheckStep(step, *s)
	c.mu.Unlock()

	if err != nil {
		c.warn(err)
		return false
	}
	return true
}

// AddVendor appends a vendor with one empty menu item, or with the prefill's
// items. It is refused when the event already has MaxVendors vendors.
func (c *Controller) AddVendor(prefill *VendorPrefill) (VendorID, bool) {
	c.mu.Lock()
	id, err := c.addVendorLocked(prefill)
	c.mu.Unlock()
	if err != nil {
		c.warn(err)
		return 0, false
	}
	return id, true
}

func (c *Controller) addVendorLocked(prefill *VendorPrefill) (VendorID, error) {
	s := c.session
	if s == nil {
		return 0, ErrNoSession
	}
	if len(s.Vendors) >= MaxVendors {
		return 0, ErrVendorLimit
	}

	v := VendorDraft{ID: s.allocVendor()}
	items := []ItemPrefill{{}}
	if prefill != nil {
		v.Name, v.Pin = prefill.Name, prefill.Pin
		if len(prefill.MenuItems) > MaxMenuItems {
			return 0, ErrItemLimit
		}
		if len(prefill.MenuItems) > 0 {
			items = prefill.MenuItems
		}
	}
	for _, p := range items {
		v.MenuItems = append(v.MenuItems, p.draft(s.allocItem()))
	}
	s.Vendors = append(s.Vendors, v)
	return v.ID, nil
}

// RemoveVendor deletes a vendor and its menu-item section. The last vendor
// cannot be removed.
func (c *Controller) RemoveVendor(id VendorID) bool {
	c.mu.Lock()
	err := c.removeVendorLocked(id)
	c.mu.Unlock()
	if err != nil {
		c.warn(err)
		return false
	}
	return true
}

func (c *Controller) removeVendorLocked(id VendorID) error {
	s := c.session
	if s == nil {
		return ErrNoSession
	}
	i := s.vendorIndex(id)
	if i < 0 {
		return ErrUnknownVendor
	}
	if len(s.Vendors) <= MinVendors {
		return ErrLastVendor
	}
	s.Vendors = append(s.Vendors[:i], s.Vendors[i+1:]...)
	return nil
}

// AddMenuItem appends an empty or prefilled item to a vendor. It is refused
// when the vendor already has MaxMenuItems items.
func (c *Controller) AddMenuItem(vendor VendorID, prefill *ItemPrefill) (ItemID, bool) {
	c.mu.Lock()
	id, err := c.addMenuItemLocked(vendor, prefill)
	c.mu.Unlock()
	if err != nil {
		c.warn(err)
		return 0, false
	}
	return id, true
}

func (c *Controller) addMenuItemLocked(vendor VendorID, prefill *ItemPrefill) (ItemID, error) {
	v, err := c.vendorLocked(vendor)
	if err != nil {
		return 0, err
	}
	if len(v.MenuItems) >= MaxMenuItems {
		return 0, ErrItemLimit
	}
	var p ItemPrefill
	if prefill != nil {
		p = *prefill
	}
	item := p.draft(c.session.allocItem())
	v.MenuItems = append(v.MenuItems, item)
	return item.ID, nil
}

// RemoveMenuItem deletes an item from a vendor. A vendor's last item cannot
// be removed.
func (c *Controller) RemoveMenuItem(vendor VendorID, item ItemID) bool {
	c.mu.Lock()
	err := c.removeMenuItemLocked(vendor, item)
	c.mu.Unlock()
	if err != nil {
		c.warn(err)
		return false
	}
	return true
}

func (c *Controller) removeMenuItemLocked(vendor VendorID, item ItemID) error {
	v, err := c.vendorLocked(vendor)
	if err != nil {
		return err
	}
	j := v.itemIndex(item)
	if j < 0 {
		return ErrUnknownItem
	}
	if len(v.MenuItems) <= MinMenuItems {
		return ErrLastItem
	}
	v.MenuItems = append(v.MenuItems[:j], v.MenuItems[j+1:]...)
	return nil
}

func (c *Controller) vendorLocked(id VendorID) (*VendorDraft, error) {
	s := c.session
	if s == nil {
		return nil, ErrNoSession
	}
	i := s.vendorIndex(id)
	if i < 0 {
		return nil, ErrUnknownVendor
	}
	return &s.Vendors[i], nil
}

func (c *Controller) itemLocked(vendor VendorID, item ItemID) (*MenuItemDraft, error) {
	v, err := c.vendorLocked(vendor)
	if err != nil {
		return nil, err
	}
	j := v.itemIndex(item)
	if j < 0 {
		return nil, ErrUnknownItem
	}
	return &v.MenuItems[j], nil
}

// Load replaces the draft with a prefilled one on step 1. Vendors and items
// beyond the limits are dropped with a single warning. It reports whether
// everything in the prefill was kept.
func (c *Controller) Load(p EventPrefill) bool {
	c.mu.Lock()
	c.session = newSession()
	s := c.session
	s.Event = EventDraft{Code: p.Code, Name: p.Name, StartAt: p.StartAt, EndAt: p.EndAt}

	var dropped error
	for i, vp := range p.Vendors {
		if i >= MaxVendors {
			dropped = ErrVendorLimit
			break
		}
		if len(vp.MenuItems) > MaxMenuItems {
			vp.MenuItems = vp.MenuItems[:MaxMenuItems]
			dropped = ErrItemLimit
		}
		if _, err := c.addVendorLocked(&vp); err != nil {
			dropped = err
		}
	}
	if len(s.Vendors) == 0 {
		_, _ = c.addVendorLocked(nil)
	}
	c.mu.Unlock()

	if dropped != nil {
		c.warn(dropped)
		return false
	}
	return true
}

func (c *Controller) setEvent(apply func(ev *EventDraft)) bool {
	c.mu.Lock()
	s := c.session
	if s != nil {
		apply(&s.Event)
	}
	c.mu.Unlock()
	if s == nil {
		c.warn(ErrNoSession)
		return false
	}
	return true
}

// SetCode sets the event code.
func (c *Controller) SetCode(v string) bool {
	return c.setEvent(func(ev *EventDraft) { ev.Code = v })
}

// SetName sets the event name.
func (c *Controller) SetName(v string) bool {
	return c.setEvent(func(ev *EventDraft) { ev.Name = v })
}

// SetStartAt sets the start date-time; "" clears it.
func (c *Controller) SetStartAt(v string) bool {
	return c.setEvent(func(ev *EventDraft) { ev.StartAt = v })
}

// SetEndAt sets the end date-time; "" clears it.
func (c *Controller) SetEndAt(v string) bool {
	return c.setEvent(func(ev *EventDraft) { ev.EndAt = v })
}

func (c *Controller) setVendor(id VendorID, apply func(v *VendorDraft)) bool {
	c.mu.Lock()
	v, err := c.vendorLocked(id)
	if err == nil {
		apply(v)
	}
	c.mu.Unlock()
	if err != nil {
		c.warn(err)
		return false
	}
	return true
}

// SetVendorName sets a vendor's display name.
func (c *Controller) SetVendorName(id VendorID, name string) bool {
	return c.setVendor(id, func(v *VendorDraft) { v.Name = name })
}

// SetVendorPin sets a vendor's pickup PIN; "" clears it.
func (c *Controller) SetVendorPin(id VendorID, pin string) bool {
	return c.setVendor(id, func(v *VendorDraft) { v.Pin = pin })
}

func (c *Controller) setItem(vendor VendorID, item ItemID, apply func(it *MenuItemDraft)) bool {
	c.mu.Lock()
	it, err := c.itemLocked(vendor, item)
	if err == nil {
		apply(it)
	}
	c.mu.Unlock()
	if err != nil {
		c.warn(err)
		return false
	}
	return true
}

// SetItemName sets a menu item's name.
func (c *Controller) SetItemName(vendor VendorID, item ItemID, name string) bool {
	return c.setItem(vendor, item, func(it *MenuItemDraft) { it.Name = name })
}

// SetItemPrice sets a menu item's price text.
func (c *Controller) SetItemPrice(vendor VendorID, item ItemID, price string) bool {
	return c.setItem(vendor, item, func(it *MenuItemDraft) { it.Price = price })
}

// SetItemMaxPerOrder sets a menu item's per-order limit text; "" means unlimited.
func (c *Controller) SetItemMaxPerOrder(vendor VendorID, item ItemID, max string) bool {
	return c.setItem(vendor, item, func(it *MenuItemDraft) { it.MaxPerOrder = max })
}

func (c *Controller) warn(err error) {
	c.notifier.Notify(err.Error(), SeverityWarning)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
