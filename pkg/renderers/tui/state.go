package tui

import (
	"github.com/goliatone/go-loanform/pkg/controller"
	"github.com/goliatone/go-loanform/pkg/loan"
)

// State is what the page currently shows: form values, control visibility,
// rows and the active notice. The page guards it with its own lock.
type State struct {
	values  loan.Values
	visible map[controller.Control]bool
	rows    []loan.Record
	empty   bool
	notice  *controller.Notice
}

func newState() State {
	return State{
		values:  loan.Values{},
		visible: map[controller.Control]bool{},
	}
}

// Values returns a copy of the form values.
func (s State) Values() loan.Values {
	return s.values.Clone()
}

// Visible reports whether a control is shown.
func (s State) Visible(control controller.Control) bool {
	return s.visible[control]
}

// Rows returns the rendered records.
func (s State) Rows() []loan.Record {
	return append([]loan.Record(nil), s.rows...)
}

// Empty reports whether the empty-state indicator is shown.
func (s State) Empty() bool {
	return s.empty
}

// Notice returns the active notice, if any.
func (s State) Notice() (controller.Notice, bool) {
	if s.notice == nil {
		return controller.Notice{}, false
	}
	return *s.notice, true
}

func (s State) clone() State {
	out := State{
		values:  s.values.Clone(),
		visible: make(map[controller.Control]bool, len(s.visible)),
		rows:    append([]loan.Record(nil), s.rows...),
		empty:   s.empty,
	}
	for k, v := range s.visible {
		out.visible[k] = v
	}
	if s.notice != nil {
		n := *s.notice
		out.notice = &n
	}
	return out
}
