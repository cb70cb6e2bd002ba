package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-loanform/internal/logger"
	"github.com/goliatone/go-loanform/pkg/client"
	"github.com/goliatone/go-loanform/pkg/loan"
)

// Controller keeps one form in sync with the loan list. It owns the edit
// target and form mode; the UI only renders what it is told.
//
// Methods are safe for concurrent use. The lock is never held across API
// calls or Confirm.
type Controller struct {
	api            API
	ui             UI
	log            logger.Logger
	observer       NoticeObserver
	noticeInterval time.Duration

	mu          sync.Mutex
	mode        Mode
	target      int64
	editSeq     uint64
	noticeSeq   uint64
	noticeTimer *time.Timer
}

// New builds a controller in adding mode and applies the matching control
// visibility to ui. It panics when api or ui is nil.
func New(api API, ui UI, options ...Option) *Controller {
	if api == nil {
		panic(ErrNilAPI)
	}
	if ui == nil {
		panic(ErrNilUI)
	}

	c := &Controller{
		api:            api,
		ui:             ui,
		log:            logger.NewNoOpLogger(),
		noticeInterval: DefaultNoticeInterval,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	c.mu.Lock()
	c.applyModeLocked()
	c.mu.Unlock()
	return c
}

// State returns a snapshot of the edit state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Mode: c.mode, EditTarget: c.target, Editing: c.mode == ModeEditing}
}

// LoadList replaces the rendered rows with the current collection. On failure
// the previous rows stay as they are.
func (c *Controller) LoadList(ctx context.Context) error {
	records, err := c.api.List(ctx)
	if err != nil {
		c.log.WithError(err).Error("load loan list failed", nil)
		c.notify(NoticeError, MsgLoadFailed)
		return fmt.Errorf("controller: load list: %w", err)
	}
	if records == nil {
		records = []loan.Record{}
	}

	c.mu.Lock()
	c.ui.SetEmptyState(len(records) == 0)
	c.ui.RenderRows(records)
	c.mu.Unlock()

	c.log.Debug("loan list loaded", map[string]interface{}{"count": len(records)})
	return nil
}

// BeginEdit loads a record into the form and switches to editing mode. Only
// the most recent call may populate the form; responses that arrive after a
// newer BeginEdit, CancelEdit, BeginAdd or successful submit are dropped.
func (c *Controller) BeginEdit(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.editSeq++
	seq := c.editSeq
	c.mu.Unlock()

	record, err := c.api.Get(ctx, id)

	c.mu.Lock()
	if seq != c.editSeq {
		c.mu.Unlock()
		c.log.Debug("discarding stale edit response", map[string]interface{}{"id": id})
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		c.log.WithError(err).Error("load loan for editing failed", map[string]interface{}{"id": id})
		c.notify(NoticeError, MsgEditLoadFailed)
		return fmt.Errorf("controller: begin edit %d: %w", id, err)
	}

	c.ui.SetFieldValues(loan.ValuesFromRecord(record))
	c.target = id
	c.mode = ModeEditing
	c.applyModeLocked()
	c.mu.Unlock()

	c.log.Debug("editing loan", map[string]interface{}{"id": id})
	c.notify(NoticeSuccess, editingMessage(id))
	return nil
}

// SubmitForm submits the values currently in the form.
func (c *Controller) SubmitForm(ctx context.Context) error {
	return c.Submit(ctx, c.ui.FieldValues())
}

// Submit creates a record, or replaces the edit target when one is set. On
// failure the form and edit target are left for a retry.
func (c *Controller) Submit(ctx context.Context, values loan.Values) error {
	record, err := loan.ParseValues(values)
	if err != nil {
		c.notify(NoticeError, validationMessage(err))
		return fmt.Errorf("controller: submit: %w", err)
	}

	c.mu.Lock()
	editing := c.mode == ModeEditing
	target := c.target
	seq := c.editSeq
	c.mu.Unlock()

	action, success := "add", MsgAdded
	if editing {
		action, success = "update", MsgUpdated
		err = c.api.Update(ctx, target, record)
	} else {
		err = c.api.Create(ctx, record)
	}
	if err != nil {
		c.log.WithError(err).Error("submit loan failed", map[string]interface{}{
			"action": action,
			"target": target,
		})
		c.notify(NoticeError, failureMessage(action, err))
		return fmt.Errorf("controller: submit %s: %w", action, err)
	}

	c.mu.Lock()
	// Only clear the edit state the request was made for. A cancel or a new
	// edit while the request was out bumps editSeq.
	if c.editSeq == seq && (c.mode == ModeEditing) == editing && c.target == target {
		c.resetLocked()
	}
	c.mu.Unlock()

	c.log.Info("loan submitted", map[string]interface{}{"action": action, "target": target})
	c.notify(NoticeSuccess, success)
	return c.reload(ctx)
}

// DeleteRecord asks for confirmation and deletes the record. Declining sends
// nothing.
func (c *Controller) DeleteRecord(ctx context.Context, id int64) error {
	ok, err := c.ui.Confirm(ctx, MsgConfirmDelete)
	if err != nil {
		return fmt.Errorf("controller: delete %d: confirm: %w", id, err)
	}
	if !ok {
		c.log.Debug("delete declined", map[string]interface{}{"id": id})
		return nil
	}

	if err := c.api.Delete(ctx, id); err != nil {
		c.log.WithError(err).Error("delete loan failed", map[string]interface{}{"id": id})
		message := failureMessage("delete", err)
		if client.IsNotFound(err) {
			message = MsgNotFound
		}
		c.notify(NoticeError, message)
		return fmt.Errorf("controller: delete %d: %w", id, err)
	}

	c.mu.Lock()
	if c.mode == ModeEditing && c.target == id {
		c.resetLocked()
	}
	c.mu.Unlock()

	c.log.Info("loan deleted", map[string]interface{}{"id": id})
	c.notify(NoticeSuccess, MsgDeleted)
	return c.reload(ctx)
}

// reload refreshes the list after a change the server already accepted.
func (c *Controller) reload(ctx context.Context) error {
	if err := c.LoadList(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return nil
}

// CancelEdit drops the edit target and returns to adding mode.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// BeginAdd re-enters adding mode with an empty form.
func (c *Controller) BeginAdd() {
	c.CancelEdit()
}

func (c *Controller) resetLocked() {
	c.editSeq++
	c.target = 0
	c.mode = ModeAdding
	c.ui.ResetForm()
	c.applyModeLocked()
}

func (c *Controller) applyModeLocked() {
	editing := c.mode == ModeEditing
	c.ui.SetVisible(ControlAdd, !editing)
	c.ui.SetVisible(ControlUpdate, editing)
	c.ui.SetVisible(ControlCancel, editing)
}

func (c *Controller) notify(kind NoticeKind, message string) {
	if c.observer != nil {
		c.observer.ObserveNotice(string(kind))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.noticeSeq++
	notice := Notice{ID: c.noticeSeq, Kind: kind, Message: message}
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
	c.ui.ShowNotice(notice)

	if c.noticeInterval > 0 {
		c.noticeTimer = time.AfterFunc(c.noticeInterval, func() {
			c.dismiss(notice.ID)
		})
	}
}

func (c *Controller) dismiss(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.noticeSeq != id {
		return
	}
	c.noticeTimer = nil
	c.ui.ClearNotice()
}
