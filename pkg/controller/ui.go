package controller

import (
	"context"

	"github.com/goliatone/go-loanform/pkg/loan"
)

// Mode is the form mode.
type Mode int

const (
	// ModeAdding submits new records. It is the initial mode.
	ModeAdding Mode = iota
	// ModeEditing submits replacements for the edit target.
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	default:
		return "adding"
	}
}

// Control names a form action whose visibility depends on the mode.
type Control string

const (
	ControlAdd    Control = "add"
	ControlUpdate Control = "update"
	ControlCancel Control = "cancel"
)

// Controls lists every mode-dependent control.
func Controls() []Control {
	return []Control{ControlAdd, ControlUpdate, ControlCancel}
}

// NoticeKind distinguishes success and error notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message shown to the user.
type Notice struct {
	ID      uint64
	Kind    NoticeKind
	Message string
}

// UI is the rendering surface the controller drives. Calls other than
// Confirm happen while the controller holds its lock, so implementations must
// not call back into the controller and must tolerate calls from the notice
// timer goroutine.
type UI interface {
	FieldValues() loan.Values
	SetFieldValues(values loan.Values)
	ResetForm()
	SetVisible(control Control, visible bool)
	RenderRows(records []loan.Record)
	SetEmptyState(empty bool)
	ShowNotice(notice Notice)
	ClearNotice()
	Confirm(ctx context.Context, message string) (bool, error)
}

// API is the consumed REST surface. *client.Client satisfies it.
type API interface {
	List(ctx context.Context) ([]loan.Record, error)
	Get(ctx context.Context, id int64) (loan.Record, error)
	Create(ctx context.Context, record loan.Record) error
	Update(ctx context.Context, id int64, record loan.Record) error
	Delete(ctx context.Context, id int64) error
}

// State is a snapshot of the edit state.
type State struct {
	Mode       Mode
	EditTarget int64
	Editing    bool
}
