package controller

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-loanform/internal/logger"
	"github.com/goliatone/go-loanform/pkg/client"
	"github.com/goliatone/go-loanform/pkg/loan"
	"github.com/goliatone/go-loanform/pkg/testsupport"
)

type recordingUI struct {
	mu        sync.Mutex
	fields    loan.Values
	visible   map[Control]bool
	rows      []loan.Record
	renders   int
	empty     bool
	notice    *Notice
	notices   []Notice
	resets    int
	confirm   bool
	confirmed []string
}

func newRecordingUI() *recordingUI {
	return &recordingUI{fields: loan.Values{}, visible: map[Control]bool{}}
}

func (u *recordingUI) FieldValues() loan.Values {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.fields.Clone()
}

func (u *recordingUI) SetFieldValues(values loan.Values) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fields = values.Clone()
}

func (u *recordingUI) ResetForm() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fields = loan.Values{}
	u.resets++
}

func (u *recordingUI) SetVisible(control Control, visible bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.visible[control] = visible
}

func (u *recordingUI) RenderRows(records []loan.Record) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rows = append([]loan.Record(nil), records...)
	u.renders++
}

func (u *recordingUI) SetEmptyState(empty bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.empty = empty
}

func (u *recordingUI) ShowNotice(notice Notice) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notice = &notice
	u.notices = append(u.notices, notice)
}

func (u *recordingUI) ClearNotice() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notice = nil
}

func (u *recordingUI) Confirm(_ context.Context, message string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.confirmed = append(u.confirmed, message)
	return u.confirm, nil
}

func (u *recordingUI) currentNotice() *Notice {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.notice == nil {
		return nil
	}
	n := *u.notice
	return &n
}

func (u *recordingUI) lastNotice(t *testing.T) Notice {
	t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	require.NotEmpty(t, u.notices, "expected a notice")
	return u.notices[len(u.notices)-1]
}

func (u *recordingUI) visibility() map[Control]bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(map[Control]bool, len(u.visible))
	for k, v := range u.visible {
		out[k] = v
	}
	return out
}

type stubAPI struct {
	mu      sync.Mutex
	records map[int64]loan.Record
	calls   []string

	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	getHook    func(id int64)
	updateHook func(id int64)
}

func newStubAPI(records ...loan.Record) *stubAPI {
	api := &stubAPI{records: map[int64]loan.Record{}}
	for _, rec := range records {
		api.records[rec.ID] = rec
	}
	return api
}

func (s *stubAPI) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubAPI) List(context.Context) ([]loan.Record, error) {
	s.record("list")
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]loan.Record, 0, len(s.records))
	for _, rec := range testsupport.SampleRecords() {
		if stored, ok := s.records[rec.ID]; ok {
			out = append(out, stored)
		}
	}
	return out, nil
}

func (s *stubAPI) Get(_ context.Context, id int64) (loan.Record, error) {
	s.record("get")
	if s.getHook != nil {
		s.getHook(id)
	}
	if s.getErr != nil {
		return loan.Record{}, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return loan.Record{}, &client.HTTPError{Op: client.OpGet, StatusCode: http.StatusNotFound}
	}
	return rec, nil
}

func (s *stubAPI) Create(context.Context, loan.Record) error {
	s.record("create")
	return s.createErr
}

func (s *stubAPI) Update(_ context.Context, id int64, _ loan.Record) error {
	s.record("update")
	if s.updateHook != nil {
		s.updateHook(id)
	}
	return s.updateErr
}

func (s *stubAPI) Delete(_ context.Context, id int64) error {
	s.record("delete")
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func newTestController(t *testing.T, api API, ui UI) *Controller {
	t.Helper()
	return New(api, ui, WithNoticeInterval(0), WithLogger(logger.NewTestLogger(t)))
}

func TestNew_StartsInAddingMode(t *testing.T) {
	ui := newRecordingUI()
	c := newTestController(t, newStubAPI(), ui)

	if diff := cmp.Diff(State{Mode: ModeAdding}, c.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	want := map[Control]bool{ControlAdd: true, ControlUpdate: false, ControlCancel: false}
	if diff := cmp.Diff(want, ui.visibility()); diff != "" {
		t.Fatalf("visibility mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_PanicsWithoutCollaborators(t *testing.T) {
	assert.PanicsWithValue(t, ErrNilAPI, func() { New(nil, newRecordingUI()) })
	assert.PanicsWithValue(t, ErrNilUI, func() { New(newStubAPI(), nil) })
}

func TestLoadList_RendersRows(t *testing.T) {
	ui := newRecordingUI()
	c := newTestController(t, newStubAPI(testsupport.SampleRecords()...), ui)

	require.NoError(t, c.LoadList(context.Background()))
	assert.False(t, ui.empty)
	if diff := cmp.Diff(testsupport.SampleRecords(), ui.rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadList_EmptyShowsEmptyState(t *testing.T) {
	ui := newRecordingUI()
	c := newTestController(t, newStubAPI(), ui)

	require.NoError(t, c.LoadList(context.Background()))
	assert.True(t, ui.empty)
	assert.Empty(t, ui.rows)
	assert.Equal(t, 1, ui.renders)
}

func TestLoadList_FailureKeepsPreviousRows(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)
	c := newTestController(t, api, ui)
	require.NoError(t, c.LoadList(context.Background()))

	api.listErr = &client.NetworkError{Op: client.OpList, Err: errors.New("connection refused")}
	err := c.LoadList(context.Background())
	require.Error(t, err)

	assert.Len(t, ui.rows, 3)
	assert.Equal(t, 1, ui.renders)
	assert.Equal(t, Notice{ID: 1, Kind: NoticeError, Message: MsgLoadFailed}, ui.lastNotice(t))
}

func TestBeginEdit_PopulatesForm(t *testing.T) {
	ui := newRecordingUI()
	records := testsupport.SampleRecords()
	c := newTestController(t, newStubAPI(records...), ui)

	require.NoError(t, c.BeginEdit(context.Background(), 3))

	if diff := cmp.Diff(State{Mode: ModeEditing, EditTarget: 3, Editing: true}, c.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(loan.ValuesFromRecord(records[1]), ui.FieldValues()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	want := map[Control]bool{ControlAdd: false, ControlUpdate: true, ControlCancel: true}
	if diff := cmp.Diff(want, ui.visibility()); diff != "" {
		t.Fatalf("visibility mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Editing Loan ID: 3", ui.lastNotice(t).Message)
	assert.Equal(t, NoticeSuccess, ui.lastNotice(t).Kind)
}

func TestBeginEdit_FailureLeavesTargetUnset(t *testing.T) {
	ui := newRecordingUI()
	c := newTestController(t, newStubAPI(), ui)

	err := c.BeginEdit(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))

	assert.Equal(t, State{Mode: ModeAdding}, c.State())
	assert.Equal(t, Notice{ID: 1, Kind: NoticeError, Message: MsgEditLoadFailed}, ui.lastNotice(t))
	assert.Empty(t, ui.FieldValues())
}

func TestBeginEdit_FailureKeepsExistingTarget(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)
	c := newTestController(t, api, ui)
	require.NoError(t, c.BeginEdit(context.Background(), 1))

	api.getErr = &client.NetworkError{Op: client.OpGet, Err: errors.New("timeout")}
	require.Error(t, c.BeginEdit(context.Background(), 3))

	assert.Equal(t, State{Mode: ModeEditing, EditTarget: 1, Editing: true}, c.State())
	assert.Equal(t, "Ada Lovelace", ui.FieldValues()[loan.FieldApplicantName])
}

func TestBeginEdit_StaleResponseIsDiscarded(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)

	entered := make(chan struct{})
	release := make(chan struct{})
	api.getHook = func(id int64) {
		if id == 1 {
			close(entered)
			<-release
		}
	}
	c := newTestController(t, api, ui)

	done := make(chan error, 1)
	go func() { done <- c.BeginEdit(context.Background(), 1) }()
	<-entered

	require.NoError(t, c.BeginEdit(context.Background(), 7))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, State{Mode: ModeEditing, EditTarget: 7, Editing: true}, c.State())
	assert.Equal(t, "Grace Hopper", ui.FieldValues()[loan.FieldApplicantName])
}

func TestBeginEdit_CancelInvalidatesInFlight(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)

	entered := make(chan struct{})
	release := make(chan struct{})
	api.getHook = func(int64) {
		close(entered)
		<-release
	}
	c := newTestController(t, api, ui)

	done := make(chan error, 1)
	go func() { done <- c.BeginEdit(context.Background(), 1) }()
	<-entered

	c.CancelEdit()
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, State{Mode: ModeAdding}, c.State())
	assert.Empty(t, ui.FieldValues())
}

func TestSubmit_CreateWhenAdding(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)
	c := newTestController(t, api, ui)

	require.NoError(t, c.Submit(context.Background(), testsupport.SampleValues()))

	assert.Equal(t, []string{"create", "list"}, api.Calls())
	assert.Equal(t, State{Mode: ModeAdding}, c.State())
	assert.Equal(t, 1, ui.resets)
	assert.Equal(t, 1, ui.renders)

	var messages []string
	for _, n := range ui.notices {
		messages = append(messages, n.Message)
	}
	assert.Equal(t, []string{MsgAdded}, messages)
}

func TestSubmit_UpdateWhenEditing(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)
	c := newTestController(t, api, ui)
	require.NoError(t, c.BeginEdit(context.Background(), 3))

	require.NoError(t, c.SubmitForm(context.Background()))

	assert.Equal(t, []string{"get", "update", "list"}, api.Calls())
	if diff := cmp.Diff(State{Mode: ModeAdding}, c.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, ui.FieldValues())
	assert.Equal(t, MsgUpdated, ui.lastNotice(t).Message)
	assert.True(t, ui.visibility()[ControlAdd])
	assert.False(t, ui.visibility()[ControlUpdate])
}

func TestSubmit_ServerErrorKeepsTargetAndFields(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)
	c := newTestController(t, api, ui)
	require.NoError(t, c.BeginEdit(context.Background(), 3))
	before := ui.FieldValues()

	api.updateErr = &client.HTTPError{Op: client.OpUpdate, StatusCode: http.StatusInternalServerError}
	err := c.SubmitForm(context.Background())
	require.Error(t, err)

	assert.Equal(t, State{Mode: ModeEditing, EditTarget: 3, Editing: true}, c.State())
	if diff := cmp.Diff(before, ui.FieldValues()); diff != "" {
		t.Fatalf("fields changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, Notice{ID: 2, Kind: NoticeError, Message: "Error: Failed to update loan. Status: 500"}, ui.lastNotice(t))
	assert.Equal(t, []string{"get", "update"}, api.Calls())
}

func TestSubmit_ReeditDuringUpdateKeepsNewEdit(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)
	c := newTestController(t, api, ui)
	require.NoError(t, c.BeginEdit(context.Background(), 3))

	entered := make(chan struct{})
	release := make(chan struct{})
	api.updateHook = func(int64) {
		close(entered)
		<-release
	}

	edited := testsupport.SampleValues()
	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background(), edited) }()
	<-entered

	c.CancelEdit()
	require.NoError(t, c.BeginEdit(context.Background(), 3))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, State{Mode: ModeEditing, EditTarget: 3, Editing: true}, c.State())
	assert.Equal(t, "Alan Turing", ui.FieldValues()[loan.FieldApplicantName])
	assert.True(t, ui.visibility()[ControlUpdate])
}

func TestSubmit_ReloadFailureAfterCreate(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI()
	api.listErr = &client.HTTPError{Op: client.OpList, StatusCode: http.StatusServiceUnavailable}
	c := newTestController(t, api, ui)

	err := c.Submit(context.Background(), testsupport.SampleValues())
	require.ErrorIs(t, err, ErrReloadFailed)
	assert.Equal(t, http.StatusServiceUnavailable, client.StatusCode(err))

	assert.Equal(t, []string{"create", "list"}, api.Calls())
	assert.Equal(t, State{Mode: ModeAdding}, c.State())
	assert.Equal(t, MsgLoadFailed, ui.lastNotice(t).Message)
}

func TestSubmit_MutationFailureIsNotReloadFailure(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI()
	api.createErr = &client.HTTPError{Op: client.OpCreate, StatusCode: http.StatusBadRequest}
	c := newTestController(t, api, ui)

	err := c.Submit(context.Background(), testsupport.SampleValues())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrReloadFailed))
}

func TestSubmit_CreateFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "http status",
			err:  &client.HTTPError{Op: client.OpCreate, StatusCode: http.StatusBadRequest},
			want: "Error: Failed to add loan. Status: 400",
		},
		{
			name: "network",
			err:  &client.NetworkError{Op: client.OpCreate, Err: errors.New("connection refused")},
			want: "Error: client: create: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := newRecordingUI()
			api := newStubAPI()
			api.createErr = tt.err
			c := newTestController(t, api, ui)

			require.Error(t, c.Submit(context.Background(), testsupport.SampleValues()))
			assert.Equal(t, tt.want, ui.lastNotice(t).Message)
			assert.Equal(t, 0, ui.resets)
		})
	}
}

func TestSubmit_InvalidValuesSendNothing(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI()
	c := newTestController(t, api, ui)

	values := testsupport.SampleValues()
	values[loan.FieldLoanAmount] = "-5"
	err := c.Submit(context.Background(), values)

	var verr *loan.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, loan.FieldLoanAmount, verr.Field)
	assert.Empty(t, api.Calls())
	assert.Equal(t, NoticeError, ui.lastNotice(t).Kind)
	assert.Equal(t, "Error: loanAmount must not be negative", ui.lastNotice(t).Message)
}

func TestCancelEdit_Idempotent(t *testing.T) {
	ui := newRecordingUI()
	c := newTestController(t, newStubAPI(testsupport.SampleRecords()...), ui)
	require.NoError(t, c.BeginEdit(context.Background(), 1))

	c.CancelEdit()
	once := c.State()
	onceVisible := ui.visibility()
	c.CancelEdit()

	assert.Equal(t, State{Mode: ModeAdding}, once)
	assert.Equal(t, once, c.State())
	assert.Equal(t, onceVisible, ui.visibility())
	assert.Empty(t, ui.FieldValues())
}

func TestBeginAdd_ResetsEditing(t *testing.T) {
	ui := newRecordingUI()
	c := newTestController(t, newStubAPI(testsupport.SampleRecords()...), ui)
	require.NoError(t, c.BeginEdit(context.Background(), 1))

	c.BeginAdd()
	assert.Equal(t, State{Mode: ModeAdding}, c.State())
	assert.True(t, ui.visibility()[ControlAdd])
}

func TestDeleteRecord_Declined(t *testing.T) {
	ui := newRecordingUI()
	api := newStubAPI(testsupport.SampleRecords()...)
	c := newTestController(t, api, ui)
	require.NoError(t, c.BeginEdit(context.Background(), 3))
	before := c.State()

	require.NoError(t, c.DeleteRecord(context.Background(), 7))

	assert.Equal(t, []string{MsgConfirmDelete}, ui.confirmed)
	assert.Equal(t, []string{"get"}, api.Calls())
	assert.Equal(t, before, c.State())
}

func TestDeleteRecord_Success(t *testing.T) {
	ui := newRecordingUI()
	ui.confirm = true
	api := newStubAPI(testsupport.SampleRecords()...)
	c := newTestController(t, api, ui)

	require.NoError(t, c.DeleteRecord(context.Background(), 7))

	assert.Equal(t, []string{"delete", "list"}, api.Calls())
	assert.Len(t, ui.rows, 2)
	assert.Equal(t, Notice{ID: 1, Kind: NoticeSuccess, Message: MsgDeleted}, ui.lastNotice(t))
}

func TestDeleteRecord_ReloadFailure(t *testing.T) {
	ui := newRecordingUI()
	ui.confirm = true
	api := newStubAPI(testsupport.SampleRecords()...)
	api.listErr = &client.NetworkError{Op: client.OpList, Err: errors.New("connection refused")}
	c := newTestController(t, api, ui)

	err := c.DeleteRecord(context.Background(), 7)
	require.ErrorIs(t, err, ErrReloadFailed)

	_, stillThere := api.records[7]
	assert.False(t, stillThere)
	assert.Equal(t, []string{"delete", "list"}, api.Calls())
}

func TestDeleteRecord_EditTargetResetsToAdding(t *testing.T) {
	ui := newRecordingUI()
	ui.confirm = true
	c := newTestController(t, newStubAPI(testsupport.SampleRecords()...), ui)
	require.NoError(t, c.BeginEdit(context.Background(), 7))

	require.NoError(t, c.DeleteRecord(context.Background(), 7))
	assert.Equal(t, State{Mode: ModeAdding}, c.State())
	assert.Empty(t, ui.FieldValues())
}

func TestDeleteRecord_OtherRecordKeepsEditing(t *testing.T) {
	ui := newRecordingUI()
	ui.confirm = true
	c := newTestController(t, newStubAPI(testsupport.SampleRecords()...), ui)
	require.NoError(t, c.BeginEdit(context.Background(), 1))

	require.NoError(t, c.DeleteRecord(context.Background(), 7))
	assert.Equal(t, State{Mode: ModeEditing, EditTarget: 1, Editing: true}, c.State())
}

func TestDeleteRecord_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found",
			err:  &client.HTTPError{Op: client.OpDelete, StatusCode: http.StatusNotFound},
			want: MsgNotFound,
		},
		{
			name: "server error",
			err:  &client.HTTPError{Op: client.OpDelete, StatusCode: http.StatusInternalServerError},
			want: "Error: Failed to delete loan. Status: 500",
		},
		{
			name: "network",
			err:  &client.NetworkError{Op: client.OpDelete, Err: errors.New("reset by peer")},
			want: "Error: client: delete: reset by peer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := newRecordingUI()
			ui.confirm = true
			api := newStubAPI(testsupport.SampleRecords()...)
			api.deleteErr = tt.err
			c := newTestController(t, api, ui)

			require.Error(t, c.DeleteRecord(context.Background(), 7))
			assert.Equal(t, tt.want, ui.lastNotice(t).Message)
			assert.Equal(t, []string{"delete"}, api.Calls())
		})
	}
}

func TestNotice_AutoDismiss(t *testing.T) {
	ui := newRecordingUI()
	c := New(newStubAPI(), ui, WithNoticeInterval(10*time.Millisecond))

	c.notify(NoticeSuccess, "hello")
	require.NotNil(t, ui.currentNotice())

	assert.Eventually(t, func() bool { return ui.currentNotice() == nil }, time.Second, 5*time.Millisecond)
}

func TestNotice_DismissOnlyClearsOwnNotice(t *testing.T) {
	ui := newRecordingUI()
	c := newTestController(t, newStubAPI(), ui)

	c.notify(NoticeSuccess, "first")
	c.notify(NoticeError, "second")
	c.dismiss(1)

	current := ui.currentNotice()
	require.NotNil(t, current)
	assert.Equal(t, "second", current.Message)

	c.dismiss(2)
	assert.Nil(t, ui.currentNotice())
}

type noticeCounter struct {
	mu    sync.Mutex
	kinds []string
}

func (n *noticeCounter) ObserveNotice(kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func TestNotice_Observer(t *testing.T) {
	counter := &noticeCounter{}
	ui := newRecordingUI()
	c := New(newStubAPI(), ui, WithNoticeInterval(0), WithNoticeObserver(counter))

	require.Error(t, c.BeginEdit(context.Background(), 1))
	assert.Equal(t, []string{"error"}, counter.kinds)
}
