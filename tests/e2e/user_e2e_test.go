//go:build e2e
// +build e2e

package e2e

import (
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/festy23/useradmin/internal/admin/filter"
	"github.com/festy23/useradmin/internal/admin/selection"
	"github.com/festy23/useradmin/internal/user/model"
	"github.com/festy23/useradmin/internal/user/seed"
)

func (s *E2ETestSuite) TestListUsers() {
	users, err := s.store.ListUsers(s.ctx)

	require.NoError(s.T(), err)
	assert.Len(s.T(), users, len(seed.Users()))
	assert.Equal(s.T(), "Olivia Rhye", users[0].Name)
	assert.NotEmpty(s.T(), users[0].Documents)
}

func (s *E2ETestSuite) TestGetUser() {
	user, err := s.store.GetUser(s.ctx, 3)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Lana Steiner", user.Name)
	assert.Equal(s.T(), model.StatusActive, user.Status)

	_, err = s.store.GetUser(s.ctx, 999)
	assert.ErrorIs(s.T(), err, model.ErrUserNotFound)
}

func (s *E2ETestSuite) TestPatchUser() {
	user, err := s.store.UpdateStatus(s.ctx, 1, model.StatusAbsent)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), model.StatusAbsent, user.Status)

	var stored model.User
	require.NoError(s.T(), s.db.Where("id = ?", 1).First(&stored).Error)
	assert.Equal(s.T(), model.StatusAbsent, stored.Status)
	assert.Equal(s.T(), "Olivia Rhye", stored.Name)
}

func (s *E2ETestSuite) TestDeleteUser() {
	require.NoError(s.T(), s.store.DeleteUser(s.ctx, 2))

	var stored model.User
	err := s.db.Where("id = ?", 2).First(&stored).Error
	assert.ErrorIs(s.T(), err, gorm.ErrRecordNotFound)

	var docs int64
	s.db.Model(&model.Document{}).Where("user_id = ?", 2).Count(&docs)
	assert.Zero(s.T(), docs)
}

func (s *E2ETestSuite) TestBulkDeleteThroughCoordinator() {
	coord := s.newCoordinator()
	require.NoError(s.T(), coord.Load(s.ctx))
	before := s.countUsers()

	require.NoError(s.T(), coord.UpdateSelection(s.ctx, selection.Event{
		Kind: selection.ExplicitIDs,
		IDs:  []int64{2, 6},
	}))
	require.True(s.T(), coord.RequestBulkDelete())

	coord.ConfirmDelete(s.ctx)

	assert.Empty(s.T(), coord.Selected())
	assert.Equal(s.T(), before-2, s.countUsers())
}

func (s *E2ETestSuite) TestFilteredBulkDelete() {
	coord := s.newCoordinator()
	require.NoError(s.T(), coord.Load(s.ctx))

	coord.SetFilter(filter.Absent)
	rows, err := coord.VisibleRows(s.ctx)
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), rows)

	// Select everything the absent filter shows.
	require.NoError(s.T(), coord.UpdateSelection(s.ctx, selection.Event{Kind: selection.ExcludeIDs}))
	require.True(s.T(), coord.RequestBulkDelete())

	coord.ConfirmDelete(s.ctx)

	var remaining int64
	s.db.Model(&model.User{}).Where("status <> ?", model.StatusActive).Count(&remaining)
	assert.Zero(s.T(), remaining)
}

func (s *E2ETestSuite) TestToggleStatusThroughCoordinator() {
	coord := s.newCoordinator()
	require.NoError(s.T(), coord.Load(s.ctx))

	coord.OpenActions(s.ctx, 1)
	require.Eventually(s.T(), func() bool {
		user, loading := coord.ActionsDetail()
		return !loading && user != nil
	}, 5*time.Second, 20*time.Millisecond)

	coord.ToggleStatus(s.ctx)

	var stored model.User
	require.NoError(s.T(), s.db.Where("id = ?", 1).First(&stored).Error)
	assert.Equal(s.T(), model.StatusAbsent, stored.Status)
}

func (s *E2ETestSuite) TestEditThroughCoordinator() {
	coord := s.newCoordinator()
	require.NoError(s.T(), coord.Load(s.ctx))

	coord.OpenEdit(s.ctx, 5)
	require.Eventually(s.T(), func() bool {
		return !coord.EditLoading()
	}, 5*time.Second, 20*time.Millisecond)

	form := coord.Form()
	assert.Equal(s.T(), "Candice Wu", form.Name)

	form.Title = "Principal Engineer"
	coord.SetForm(form)
	coord.SaveEdit(s.ctx)

	var stored model.User
	require.NoError(s.T(), s.db.Where("id = ?", 5).First(&stored).Error)
	assert.Equal(s.T(), "Principal Engineer", stored.Title)
}
