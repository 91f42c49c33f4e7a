// Package coordinator implements the admin screen's selection and mutation
// state machine.
//
// It tracks the active filter, the selection set, the confirm dialog, the
// per-row action menu, the edit form and every in-flight mutation, and
// reconciles all of them against the user list cache. Mutations never patch
// the cached list; their visible effect arrives with the refetch that follows
// cache invalidation.
package coordinator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/useradmin/internal/admin/cache"
	"github.com/festy23/useradmin/internal/admin/filter"
	"github.com/festy23/useradmin/internal/admin/selection"
	"github.com/festy23/useradmin/internal/user/model"
)

// Store is the mutation surface of the remote user store.
type Store interface {
	UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	DeleteUsers(ctx context.Context, ids []int64) error
}

// ListCache is the cache surface the coordinator reconciles against.
// UsersWithVersion must return the list and its version as one snapshot.
type ListCache interface {
	UsersWithVersion(ctx context.Context) ([]model.User, int64, error)
	User(ctx context.Context, id int64) (*model.User, error)
	InvalidateList()
	InvalidateUser(id int64)
	Subscribe(fn func()) func()
}

var _ ListCache = (*cache.Cache)(nil)

// DeleteMode distinguishes the two delete confirmation flows.
type DeleteMode string

// Delete modes.
const (
	DeleteSingle DeleteMode = "single"
	DeleteBulk   DeleteMode = "bulk"
)

// User-facing messages.
const (
	noticeUsersDeleted = "Selected users deleted successfully"
	alertDeleteFailed  = "Delete failed. Please try again."
	alertStatusFailed  = "Failed to update status"
	alertSaveFailed    = "Save failed. Please try again."
)

// noticeTTL is how long the transient success notice stays up.
const noticeTTL = 2000 * time.Millisecond

// Form is the edit dialog's local state.
// Status only offers active/absent; anything else seeds as active.
type Form struct {
	Name   string
	Title  string
	Status model.Status
}

// Coordinator coordinates selection state and mutations for the users table.
type Coordinator struct {
	store  Store
	cache  ListCache
	logger *zap.SugaredLogger

	mu     sync.Mutex
	closed bool

	filterValue filter.Value
	selected    []int64

	// visible-rows memo, keyed on (list version, filter)
	memoValid   bool
	memoVersion int64
	memoFilter  filter.Value
	memoRows    []model.User

	confirmOpen bool
	deleteMode  DeleteMode
	targetID    int64
	deleting    bool

	actionsID      int64 // 0 means no menu open
	actionsGen     int64
	actionsUser    *model.User
	actionsLoading bool
	toggling       bool

	editOpen    bool
	editID      int64
	editGen     int64
	editLoading bool
	editSeeded  bool
	form        Form
	saving      bool

	notice      string
	noticeTimer *time.Timer
	alert       string

	onChange    func()
	unsubscribe func()
}

// New creates a coordinator over the given store and cache.
func New(store Store, listCache ListCache, logger *zap.SugaredLogger) *Coordinator {
	c := &Coordinator{
		store:       store,
		cache:       listCache,
		logger:      logger,
		filterValue: filter.All,
		selected:    []int64{},
	}
	c.unsubscribe = listCache.Subscribe(c.notifyChange)
	return c
}

// SetOnChange registers a hook invoked after every observable state change.
func (c *Coordinator) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Close tears the coordinator down. The pending notice timer is cancelled and
// late fetch resolutions are dropped.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.actionsGen++
	c.editGen++
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (c *Coordinator) notifyChange() {
	c.mu.Lock()
	fn := c.onChange
	closed := c.closed
	c.mu.Unlock()

	if fn != nil && !closed {
		fn()
	}
}

// Load performs the initial list fetch.
func (c *Coordinator) Load(ctx context.Context) error {
	_, _, err := c.cache.UsersWithVersion(ctx)
	return err
}

// Filter returns the active filter.
func (c *Coordinator) Filter() filter.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterValue
}

// SetFilter changes the active filter. The selection is kept as-is; ids
// hidden by the new filter stay selected.
func (c *Coordinator) SetFilter(v filter.Value) {
	if !v.Valid() {
		return
	}

	c.mu.Lock()
	changed := c.filterValue != v
	c.filterValue = v
	c.mu.Unlock()

	if changed {
		c.notifyChange()
	}
}

// VisibleRows returns the rows passing the active filter. The result is
// memoized on (list version, filter), so unchanged inputs yield the identical
// slice. Rows and version are taken from one cache snapshot, so a refetch
// landing mid-call can never memoize old rows under a new version.
func (c *Coordinator) VisibleRows(ctx context.Context) ([]model.User, error) {
	users, version, err := c.cache.UsersWithVersion(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.memoValid && c.memoVersion == version && c.memoFilter == c.filterValue {
		return c.memoRows, nil
	}

	rows := filter.VisibleRows(users, c.filterValue)
	c.memoValid = true
	c.memoVersion = version
	c.memoFilter = c.filterValue
	c.memoRows = rows
	return rows, nil
}

// Selected returns a copy of the canonical selection.
func (c *Coordinator) Selected() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.selected))
	copy(out, c.selected)
	return out
}

// UpdateSelection normalizes a selection event against the currently visible
// rows and replaces the selection set.
func (c *Coordinator) UpdateSelection(ctx context.Context, ev selection.Event) error {
	visible, err := c.VisibleRows(ctx)
	if err != nil {
		return err
	}

	ids := selection.Normalize(visible, ev)

	c.mu.Lock()
	c.selected = ids
	c.mu.Unlock()

	c.logger.Debugw("selection updated", "count", len(ids))
	c.notifyChange()
	return nil
}

// RequestSingleDelete opens the confirm dialog for one user.
func (c *Coordinator) RequestSingleDelete(id int64) {
	c.mu.Lock()
	c.deleteMode = DeleteSingle
	c.targetID = id
	c.confirmOpen = true
	c.mu.Unlock()
	c.notifyChange()
}

// RequestBulkDelete opens the confirm dialog for the selected users.
// A no-op while the selection is empty.
func (c *Coordinator) RequestBulkDelete() bool {
	c.mu.Lock()
	if len(c.selected) == 0 {
		c.mu.Unlock()
		return false
	}
	c.deleteMode = DeleteBulk
	c.confirmOpen = true
	c.mu.Unlock()
	c.notifyChange()
	return true
}

// CancelConfirm closes the confirm dialog without deleting.
func (c *Coordinator) CancelConfirm() {
	c.mu.Lock()
	c.confirmOpen = false
	c.targetID = 0
	c.mu.Unlock()
	c.notifyChange()
}

// ConfirmOpen reports whether the confirm dialog is open.
func (c *Coordinator) ConfirmOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmOpen
}

// DeleteMode returns the current delete confirmation mode.
func (c *Coordinator) DeleteMode() DeleteMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteMode
}

// Deleting reports whether a delete request is in flight.
func (c *Coordinator) Deleting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleting
}

// ConfirmDelete fires the confirmed delete. On success the dialog closes, the
// list cache is invalidated and a transient notice is shown; a bulk delete
// additionally clears the selection. On failure an alert is raised and the
// dialog stays open for retry.
func (c *Coordinator) ConfirmDelete(ctx context.Context) {
	c.mu.Lock()
	if !c.confirmOpen || c.deleting {
		c.mu.Unlock()
		return
	}
	mode := c.deleteMode
	target := c.targetID
	ids := make([]int64, len(c.selected))
	copy(ids, c.selected)
	c.deleting = true
	c.mu.Unlock()
	c.notifyChange()

	switch mode {
	case DeleteBulk:
		c.bulkDelete(ctx, ids)
	case DeleteSingle:
		c.singleDelete(ctx, target)
	}
}

func (c *Coordinator) singleDelete(ctx context.Context, id int64) {
	c.logger.Infow("single delete", "id", id)

	err := c.store.DeleteUser(ctx, id)

	c.mu.Lock()
	c.deleting = false
	if err != nil {
		c.logger.Errorw("single delete failed", "id", id, "error", err)
		c.alert = alertDeleteFailed
		c.mu.Unlock()
		c.notifyChange()
		return
	}

	c.confirmOpen = false
	c.targetID = 0
	c.closeActionsLocked()
	// Selection is untouched; a stale id is pruned by the next refetch.
	c.showNoticeLocked(noticeUsersDeleted)
	c.mu.Unlock()

	c.cache.InvalidateList()
	c.notifyChange()
}

func (c *Coordinator) bulkDelete(ctx context.Context, ids []int64) {
	c.logger.Infow("bulk delete", "count", len(ids))

	err := c.store.DeleteUsers(ctx, ids)

	c.mu.Lock()
	c.deleting = false
	if err != nil {
		c.logger.Errorw("bulk delete failed", "error", err)
		// Selection is preserved so the user can retry.
		c.alert = alertDeleteFailed
		c.mu.Unlock()
		c.notifyChange()
		return
	}

	c.confirmOpen = false
	c.selected = []int64{}
	c.showNoticeLocked(noticeUsersDeleted)
	c.mu.Unlock()

	c.cache.InvalidateList()
	c.notifyChange()
}

// OpenActions opens the action menu for id, implicitly closing any other open
// menu, and lazily fetches the row's details.
func (c *Coordinator) OpenActions(ctx context.Context, id int64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.actionsID = id
	c.actionsGen++
	gen := c.actionsGen
	c.actionsUser = nil
	c.actionsLoading = true
	c.mu.Unlock()
	c.notifyChange()

	go func() {
		user, err := c.cache.User(ctx, id)

		c.mu.Lock()
		if c.closed || gen != c.actionsGen || c.actionsID != id {
			// The menu moved on; never show this row's data under another id.
			c.mu.Unlock()
			return
		}
		c.actionsLoading = false
		if err != nil {
			// Includes a deleted id: show the neutral no-details state.
			c.logger.Debugw("actions detail fetch failed", "id", id, "error", err)
			c.actionsUser = nil
		} else {
			c.actionsUser = user
		}
		c.mu.Unlock()
		c.notifyChange()
	}()
}

// CloseActions closes the action menu.
func (c *Coordinator) CloseActions() {
	c.mu.Lock()
	c.closeActionsLocked()
	c.mu.Unlock()
	c.notifyChange()
}

func (c *Coordinator) closeActionsLocked() {
	c.actionsID = 0
	c.actionsGen++
	c.actionsUser = nil
	c.actionsLoading = false
}

// ActionsUserID returns the id whose action menu is open, or 0.
func (c *Coordinator) ActionsUserID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actionsID
}

// ActionsDetail returns the fetched detail for the open action menu and
// whether the fetch is still in flight.
func (c *Coordinator) ActionsDetail() (*model.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actionsUser, c.actionsLoading
}

// Toggling reports whether a status toggle is in flight.
func (c *Coordinator) Toggling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toggling
}

// ToggleStatus flips the open action menu's user between active and absent.
// An active user becomes absent; any other status (absent, pending) becomes
// active. A no-op until the detail fetch has resolved.
func (c *Coordinator) ToggleStatus(ctx context.Context) {
	c.mu.Lock()
	if c.actionsID == 0 || c.actionsUser == nil || c.toggling {
		c.mu.Unlock()
		return
	}
	id := c.actionsID
	next := model.StatusActive
	if c.actionsUser.Status.IsActive() {
		next = model.StatusAbsent
	}
	c.toggling = true
	c.mu.Unlock()
	c.notifyChange()

	c.logger.Infow("toggle status", "id", id, "next", next)

	_, err := c.store.UpdateStatus(ctx, id, next)

	c.mu.Lock()
	c.toggling = false
	if err != nil {
		c.logger.Errorw("toggle status failed", "id", id, "error", err)
		// Menu stays open so the user can retry.
		c.alert = alertStatusFailed
		c.mu.Unlock()
		c.notifyChange()
		return
	}
	c.closeActionsLocked()
	c.mu.Unlock()

	c.cache.InvalidateList()
	c.cache.InvalidateUser(id)
	c.notifyChange()
}

// OpenEdit opens the edit dialog for id and lazily fetches the record. The
// form is seeded exactly once per fetch resolution; later background
// refetches of the same id do not clobber in-progress edits.
func (c *Coordinator) OpenEdit(ctx context.Context, id int64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.editOpen = true
	c.editID = id
	c.editGen++
	gen := c.editGen
	c.editSeeded = false
	c.editLoading = true
	c.form = Form{Status: model.StatusActive}
	c.mu.Unlock()
	c.notifyChange()

	go func() {
		user, err := c.cache.User(ctx, id)

		c.mu.Lock()
		if c.closed || gen != c.editGen || !c.editOpen {
			c.mu.Unlock()
			return
		}
		c.editLoading = false
		if err != nil {
			c.logger.Debugw("edit fetch failed", "id", id, "error", err)
			c.mu.Unlock()
			c.notifyChange()
			return
		}
		if !c.editSeeded {
			c.form = seedForm(user)
			c.editSeeded = true
		}
		c.mu.Unlock()
		c.notifyChange()
	}()
}

// seedForm maps a fetched record into the edit form. Only "absent" survives
// as absent; anything else, including "pending", seeds as active.
func seedForm(u *model.User) Form {
	status := model.StatusActive
	if u.Status == model.StatusAbsent {
		status = model.StatusAbsent
	}
	return Form{Name: u.Name, Title: u.Title, Status: status}
}

// CloseEdit closes the edit dialog. Ignored while a save is in flight.
func (c *Coordinator) CloseEdit() {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return
	}
	c.closeEditLocked()
	c.mu.Unlock()
	c.notifyChange()
}

func (c *Coordinator) closeEditLocked() {
	c.editOpen = false
	c.editID = 0
	c.editGen++
	c.editSeeded = false
	c.editLoading = false
	c.form = Form{}
}

// EditOpen reports whether the edit dialog is open and for which id.
func (c *Coordinator) EditOpen() (bool, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editOpen, c.editID
}

// EditLoading reports whether the edit dialog's record fetch is in flight.
func (c *Coordinator) EditLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editLoading
}

// Form returns the edit form state.
func (c *Coordinator) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetForm replaces the edit form state with the user's edits.
func (c *Coordinator) SetForm(f Form) {
	c.mu.Lock()
	if !c.editOpen {
		c.mu.Unlock()
		return
	}
	c.form = f
	c.mu.Unlock()
	c.notifyChange()
}

// Saving reports whether an edit save is in flight.
func (c *Coordinator) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// SaveEdit submits the edit form as a patch. On success the list cache and
// the record's detail cache are invalidated and the dialog closes; on failure
// an alert is raised and the form stays open for retry.
func (c *Coordinator) SaveEdit(ctx context.Context) {
	c.mu.Lock()
	if !c.editOpen || !c.editSeeded || c.saving {
		c.mu.Unlock()
		return
	}
	id := c.editID
	form := c.form
	c.saving = true
	c.mu.Unlock()
	c.notifyChange()

	c.logger.Infow("save edit", "id", id)

	patch := model.UserPatch{
		Name:   &form.Name,
		Title:  &form.Title,
		Status: &form.Status,
	}
	_, err := c.store.UpdateUser(ctx, id, patch)

	c.mu.Lock()
	c.saving = false
	if err != nil {
		c.logger.Errorw("save edit failed", "id", id, "error", err)
		c.alert = alertSaveFailed
		c.mu.Unlock()
		c.notifyChange()
		return
	}
	c.closeEditLocked()
	c.mu.Unlock()

	c.cache.InvalidateList()
	c.cache.InvalidateUser(id)
	c.notifyChange()
}

// Notice returns the transient success notice, or "".
func (c *Coordinator) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// DismissNotice clears the notice before its timer fires.
func (c *Coordinator) DismissNotice() {
	c.mu.Lock()
	c.clearNoticeLocked()
	c.mu.Unlock()
	c.notifyChange()
}

func (c *Coordinator) clearNoticeLocked() {
	c.notice = ""
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
}

// showNoticeLocked raises the notice and schedules its auto-dismissal.
func (c *Coordinator) showNoticeLocked(msg string) {
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
	}
	c.notice = msg
	c.noticeTimer = time.AfterFunc(noticeTTL, func() {
		c.mu.Lock()
		if c.notice != msg {
			c.mu.Unlock()
			return
		}
		c.notice = ""
		c.noticeTimer = nil
		c.mu.Unlock()
		c.notifyChange()
	})
}

// Alert returns the pending error alert, or "".
func (c *Coordinator) Alert() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alert
}

// ClearAlert acknowledges the error alert.
func (c *Coordinator) ClearAlert() {
	c.mu.Lock()
	c.alert = ""
	c.mu.Unlock()
	c.notifyChange()
}
