// Package filter derives the visible row subset from the user list.
package filter

import "github.com/festy23/useradmin/internal/user/model"

// Value is the active table filter.
type Value string

// Supported filter values.
const (
	All    Value = "all"
	Active Value = "active"
	Absent Value = "absent"
)

// Valid reports whether v is a supported filter value.
func (v Value) Valid() bool {
	return v == All || v == Active || v == Absent
}

// Matches reports whether a user with the given status passes the filter.
// Absent matches every status other than "active", so both "inactive" and
// "pending" count as absent.
func (v Value) Matches(status model.Status) bool {
	switch v {
	case Active:
		return status.IsActive()
	case Absent:
		return !status.IsActive()
	default:
		return true
	}
}

// VisibleRows returns the users passing the filter, preserving fetch order.
// Pure: no side effects, and All returns the input slice unchanged.
func VisibleRows(users []model.User, v Value) []model.User {
	if v == All {
		return users
	}

	rows := make([]model.User, 0, len(users))
	for _, u := range users {
		if v.Matches(u.Status) {
			rows = append(rows, u)
		}
	}
	return rows
}

// VisibleIDs returns the ids of the users passing the filter, in order.
func VisibleIDs(users []model.User, v Value) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		if v.Matches(u.Status) {
			ids = append(ids, u.ID)
		}
	}
	return ids
}
