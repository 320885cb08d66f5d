// Package wizard renders the event-creation wizard in the terminal. The Form
// component is a projection of a wiz.Controller: it keeps no draft of its
// own and routes every edit through the controller's setters.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/fbcorp/gleo/internal/tui/theme"
	wiz "github.com/fbcorp/gleo/internal/wizard"
)

// SubmittedMsg carries the outcome of a submission started by the form.
type SubmittedMsg struct {
	Result  wiz.Result
	Payload wiz.Payload
}

// ClosedMsg is sent when the user dismisses the wizard.
type ClosedMsg struct{}

// chromeHeight is the number of rows used around the step body (title,
// progress, buttons, hints, modal border and padding).
const chromeHeight = 12

// Form is the wizard UI component.
type Form struct {
	ctx     context.Context
	ctrl    *wiz.Controller
	toasts  *Toasts
	toast   *Toast
	input   textinput.Model
	spinner spinner.Model

	fields     []field
	focus      int
	step       wiz.Step
	submitting bool

	width  int
	height int
}

// NewForm creates a form over ctrl. toasts must be the controller's notifier
// so notifications surface as toasts.
func NewForm(ctx context.Context, ctrl *wiz.Controller, toasts *Toasts) *Form {
	th := theme.Current()

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 80
	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(th.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(40)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Primary))

	f := &Form{
		ctx:     ctx,
		ctrl:    ctrl,
		toasts:  toasts,
		toast:   NewToast(),
		input:   input,
		spinner: sp,
		width:   80,
		height:  30,
	}
	f.sync()
	return f
}

// Init starts the cursor blink.
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Toast returns the toast the form reports notifications on.
func (f *Form) Toast() *Toast {
	return f.toast
}

// SetSize updates the space available to the form.
func (f *Form) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// Reset reloads the form after the controller was opened or loaded from
// outside.
func (f *Form) Reset() tea.Cmd {
	f.focus = 0
	f.sync()
	return tea.Batch(f.input.Focus(), f.drainToasts())
}

// Submitting reports whether a submission started by the form is in flight.
func (f *Form) Submitting() bool {
	return f.submitting
}

// Update handles a message and returns follow-up commands.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		cmds = append(cmds, f.handleKey(msg))

	case SubmittedMsg:
		f.submitting = false
		f.sync()
		if msg.Result.Status == wiz.ResultInvalid {
			f.focusError(msg.Result.Err)
		}

	case spinner.TickMsg:
		if f.submitting {
			var cmd tea.Cmd
			f.spinner, cmd = f.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case ToastDismissMsg:
		cmds = append(cmds, f.toast.Update(msg))

	default:
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, f.drainToasts())
	return tea.Batch(cmds...)
}

func (f *Form) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if f.submitting {
		// Edits stay blocked until the result is in.
		return nil
	}
	if !f.ctrl.IsOpen() {
		return nil
	}

	switch msg.String() {
	case "tab", "down":
		f.moveFocus(1)
		return nil
	case "shift+tab", "up":
		f.moveFocus(-1)
		return nil
	case "enter":
		if f.focus < len(f.fields)-1 {
			f.moveFocus(1)
			return nil
		}
		if f.step == wiz.StepMenuItems {
			return f.submit()
		}
		f.next()
		return nil
	case "ctrl+n":
		f.next()
		return nil
	case "ctrl+b":
		f.back()
		return nil
	case "esc":
		if f.step == wiz.StepEventDetails {
			return f.close()
		}
		f.back()
		return nil
	case "ctrl+a":
		f.add()
		return nil
	case "ctrl+d":
		f.remove()
		return nil
	case "ctrl+s":
		if f.step == wiz.StepMenuItems {
			return f.submit()
		}
		return nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// sync rebuilds the field list from the controller and loads the focused
// value into the input.
func (f *Form) sync() {
	s, ok := f.ctrl.Snapshot()
	if !ok {
		f.fields = nil
		f.step = 0
		f.input.SetValue("")
		return
	}
	if s.Step != f.step {
		f.focus = 0
	}
	f.step = s.Step
	f.fields = fieldsFor(s)
	if f.focus >= len(f.fields) {
		f.focus = len(f.fields) - 1
	}
	if f.focus < 0 {
		f.focus = 0
	}
	f.load(s)
}

func (f *Form) load(s wiz.Session) {
	if len(f.fields) == 0 {
		f.input.SetValue("")
		return
	}
	fld := f.fields[f.focus]
	f.input.Placeholder = fld.placeholder()
	f.input.SetValue(fld.value(s))
	f.input.CursorEnd()
}

// commit writes the input back to the controller when it changed.
func (f *Form) commit() {
	if f.focus >= len(f.fields) {
		return
	}
	s, ok := f.ctrl.Snapshot()
	if !ok {
		return
	}
	fld := f.fields[f.focus]
	if v := f.input.Value(); v != fld.value(s) {
		fld.commit(f.ctrl, v)
	}
}

func (f *Form) moveFocus(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.commit()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.sync()
}

func (f *Form) focusOn(kind fieldKind, vendor wiz.VendorID, item wiz.ItemID) {
	if i := indexOf(f.fields, kind, vendor, item); i >= 0 {
		f.focus = i
		if s, ok := f.ctrl.Snapshot(); ok {
			f.load(s)
		}
	}
}

func (f *Form) focusFirstError() {
	s, ok := f.ctrl.Snapshot()
	if !ok {
		return
	}
	f.focusError(wiz.CheckStep(s.Step, s))
}

// focusError moves back to the step that err belongs to and focuses the
// offending field.
func (f *Form) focusError(err error) {
	var verr *wiz.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for f.ctrl.Step() > verr.Step {
		f.ctrl.Prev()
	}
	f.sync()
	if kind, ok := fieldForError(verr); ok {
		f.focusOn(kind, verr.Vendor, verr.Item)
	}
}

func (f *Form) next() {
	f.commit()
	if f.ctrl.Next() {
		f.sync()
		return
	}
	f.sync()
	f.focusFirstError()
}

func (f *Form) back() {
	f.commit()
	f.ctrl.Prev()
	f.sync()
}

func (f *Form) close() tea.Cmd {
	f.ctrl.Close()
	f.sync()
	return func() tea.Msg { return ClosedMsg{} }
}

func (f *Form) focused() (field, bool) {
	if f.focus < len(f.fields) {
		return f.fields[f.focus], true
	}
	return field{}, false
}

func (f *Form) add() {
	f.commit()
	switch f.step {
	case wiz.StepVendors:
		if id, ok := f.ctrl.AddVendor(nil); ok {
			f.sync()
			f.focusOn(fieldVendorName, id, 0)
		}
	case wiz.StepMenuItems:
		fld, ok := f.focused()
		if !ok {
			return
		}
		if id, ok := f.ctrl.AddMenuItem(fld.vendor, nil); ok {
			f.sync()
			f.focusOn(fieldItemName, fld.vendor, id)
		}
	}
}

func (f *Form) remove() {
	fld, ok := f.focused()
	if !ok {
		return
	}
	f.commit()
	switch f.step {
	case wiz.StepVendors:
		f.ctrl.RemoveVendor(fld.vendor)
	case wiz.StepMenuItems:
		f.ctrl.RemoveMenuItem(fld.vendor, fld.item)
	}
	f.sync()
}

func (f *Form) submit() tea.Cmd {
	f.commit()
	if f.ctrl.IsSubmitting() {
		return nil
	}
	f.submitting = true
	ctx, ctrl := f.ctx, f.ctrl
	return tea.Batch(f.spinner.Tick, func() tea.Msg {
		payload := ctrl.CollectPayload()
		return SubmittedMsg{Result: ctrl.Submit(ctx), Payload: payload}
	})
}

func (f *Form) drainToasts() tea.Cmd {
	var cmd tea.Cmd
	for _, n := range f.toasts.Drain() {
		cmd = f.toast.Show(n)
	}
	return cmd
}

// View renders the wizard panel without positioning it.
func (f *Form) View() string {
	s, ok := f.ctrl.Snapshot()
	if !ok {
		return ""
	}
	st := theme.Current().S()

	title := st.Title.Render(fmt.Sprintf("New Event · Step %d of 3: %s", s.Step, s.Step))
	sections := []string{title, f.renderProgress(s.Step), ""}

	lines, focusLine := f.renderBody(s)
	sections = append(sections, window(lines, focusLine, f.height-chromeHeight)...)

	bar := NewButtonBar(stepButtons(int(s.Step), s.Step == wiz.StepMenuItems, f.submitting))
	bar.SetWidth(f.contentWidth())
	sections = append(sections, "", bar.Render())
	if f.submitting {
		sections = append(sections, f.spinner.View()+" "+st.Subtle.Render("Sending event…"))
	} else {
		sections = append(sections, f.hints(s.Step))
	}

	return st.Modal.Width(f.contentWidth() + 6).Render(strings.Join(sections, "\n"))
}

func (f *Form) contentWidth() int {
	w := f.width - 10
	if w < 50 {
		w = 50
	}
	if w > 90 {
		w = 90
	}
	return w
}

func (f *Form) renderProgress(current wiz.Step) string {
	st := theme.Current().S()
	parts := make([]string, 0, 3)
	for step := wiz.StepEventDetails; step <= wiz.StepMenuItems; step++ {
		switch {
		case step == current:
			parts = append(parts, st.Section.Render("● "+step.String()))
		case step < current:
			parts = append(parts, st.Subtle.Render("✓ "+step.String()))
		default:
			parts = append(parts, st.Muted.Render("○ "+step.String()))
		}
	}
	return strings.Join(parts, st.Muted.Render("  ─  "))
}

func (f *Form) hints(step wiz.Step) string {
	switch step {
	case wiz.StepEventDetails:
		return renderHintBar("tab", "next field", "enter", "next", "esc", "cancel")
	case wiz.StepVendors:
		return renderHintBar("tab", "next field", "ctrl+a", "add vendor", "ctrl+d", "remove", "esc", "back")
	default:
		return renderHintBar("tab", "next field", "ctrl+a", "add item", "ctrl+d", "remove", "ctrl+s", "submit", "esc", "back")
	}
}

// renderField renders one labelled input. The focused field shows the live
// text input.
func (f *Form) renderField(s wiz.Session, fld field, index int) string {
	st := theme.Current().S()
	if index == f.focus {
		return st.LabelFocused.Render("› "+fld.label()) + f.input.View()
	}
	value := fld.value(s)
	if value == "" {
		return st.Label.Render("  "+fld.label()) + st.Muted.Render(fld.placeholder())
	}
	return st.Label.Render("  "+fld.label()) + st.Value.Render(value)
}

// renderBody returns the step body lines and the line holding focus.
func (f *Form) renderBody(s wiz.Session) ([]string, int) {
	st := theme.Current().S()
	var lines []string
	focusLine := 0
	index := 0

	emit := func(fld field) {
		if index == f.focus {
			focusLine = len(lines)
		}
		lines = append(lines, f.renderField(s, fld, index))
		index++
	}

	switch s.Step {
	case wiz.StepEventDetails:
		for _, fld := range f.fields {
			emit(fld)
		}

	case wiz.StepVendors:
		lines = append(lines, st.Subtle.Render(fmt.Sprintf("%d of %d vendors", len(s.Vendors), wiz.MaxVendors)))
		for i, v := range s.Vendors {
			lines = append(lines, "", st.Section.Render(vendorTitle(v, i)))
			emit(field{kind: fieldVendorName, vendor: v.ID})
			emit(field{kind: fieldVendorPin, vendor: v.ID})
		}

	case wiz.StepMenuItems:
		for i, v := range s.Vendors {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, st.Section.Render(fmt.Sprintf("%s · %d of %d items",
				vendorTitle(v, i), len(v.MenuItems), wiz.MaxMenuItems)))
			for _, item := range v.MenuItems {
				emit(field{kind: fieldItemName, vendor: v.ID, item: item.ID})
				emit(field{kind: fieldItemPrice, vendor: v.ID, item: item.ID})
				emit(field{kind: fieldItemMax, vendor: v.ID, item: item.ID})
			}
		}
	}
	return lines, focusLine
}

func vendorTitle(v wiz.VendorDraft, index int) string {
	if name := strings.TrimSpace(v.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Vendor %d", index+1)
}

// window returns at most height lines around focus.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := focus - height/2
	if start < 0 {
		start = 0
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}
