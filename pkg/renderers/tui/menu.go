package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-loanform/pkg/controller"
)

// Action is one menu entry.
type Action string

const (
	ActionRefresh Action = "refresh"
	ActionAdd     Action = "add"
	ActionUpdate  Action = "update"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionCancel  Action = "cancel"
	ActionQuit    Action = "quit"
)

// Actions is the part of the controller the menu loop drives.
type Actions interface {
	LoadList(ctx context.Context) error
	BeginEdit(ctx context.Context, id int64) error
	SubmitForm(ctx context.Context) error
	DeleteRecord(ctx context.Context, id int64) error
	CancelEdit()
}

var _ Actions = (*controller.Controller)(nil)

type menuEntry struct {
	action Action
	label  string
}

// entries lists the menu in display order. Add, update and cancel follow the
// control visibility set by the controller.
func (p *Page) entries() []menuEntry {
	p.mu.Lock()
	visible := make(map[controller.Control]bool, len(p.state.visible))
	for k, v := range p.state.visible {
		visible[k] = v
	}
	p.mu.Unlock()

	out := []menuEntry{{ActionRefresh, "Refresh list"}}
	if visible[controller.ControlAdd] {
		out = append(out, menuEntry{ActionAdd, p.actionLabel("actions.add", "Add Loan")})
	}
	if visible[controller.ControlUpdate] {
		out = append(out, menuEntry{ActionUpdate, p.actionLabel("actions.update", "Update Loan")})
	}
	out = append(out,
		menuEntry{ActionEdit, "Edit a loan"},
		menuEntry{ActionDelete, "Delete a loan"},
	)
	if visible[controller.ControlCancel] {
		out = append(out, menuEntry{ActionCancel, p.actionLabel("actions.cancel", "Cancel")})
	}
	return append(out, menuEntry{ActionQuit, "Quit"})
}

func (p *Page) actionLabel(key, fallback string) string {
	if label := p.form.Metadata[key]; label != "" {
		return label
	}
	return fallback
}

// Menu asks for the next action.
func (p *Page) Menu(ctx context.Context) (Action, error) {
	entries := p.entries()
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.label
	}

	title := p.form.Title
	if title == "" {
		title = "Loan Applications"
	}
	idx, err := p.driver.Select(ctx, SelectConfig{
		Message: title,
		Options: labels,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(entries) {
		return "", fmt.Errorf("tui: menu selection %d out of range", idx)
	}
	return entries[idx].action, nil
}

// AskID prompts for a record id.
func (p *Page) AskID(ctx context.Context, message string) (int64, error) {
	raw, err := p.driver.Input(ctx, InputConfig{Message: message})
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// Run loads the list and serves the menu until quit, abort or ctx ends.
// Operation failures are already reported as notices, so the loop keeps
// going after them.
func (p *Page) Run(ctx context.Context, actions Actions) error {
	_ = actions.LoadList(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, err := p.Menu(ctx)
		if err != nil {
			return quitErr(err)
		}

		switch action {
		case ActionQuit:
			return nil
		case ActionRefresh:
			_ = actions.LoadList(ctx)
		case ActionAdd, ActionUpdate:
			if err := p.Prompt(ctx); err != nil {
				if errors.Is(err, ErrAborted) {
					continue
				}
				return err
			}
			_ = actions.SubmitForm(ctx)
		case ActionEdit, ActionDelete:
			id, err := p.AskID(ctx, "Loan ID")
			if errors.Is(err, ErrInvalidID) {
				_ = p.driver.Info(ctx, err.Error())
				continue
			}
			if err != nil {
				return quitErr(err)
			}
			if action == ActionEdit {
				_ = actions.BeginEdit(ctx, id)
			} else {
				_ = actions.DeleteRecord(ctx, id)
			}
		case ActionCancel:
			actions.CancelEdit()
		}
	}
}

func quitErr(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}
