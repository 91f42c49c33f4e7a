// Package selection normalizes table selection events.
//
// The table widget may report selection in several shapes: an explicit id
// list, an exclude set ("select all except"), or a raw id set. All of them
// are validated once at the boundary and normalized into a canonical ordered
// id sequence.
package selection

import (
	"slices"

	"github.com/festy23/useradmin/internal/user/model"
)

// Kind tags the shape of a selection event payload.
type Kind int

// Selection event kinds.
const (
	// Empty is an unsupported or empty payload; it clears the selection.
	Empty Kind = iota
	// ExplicitIDs carries the selected ids directly.
	ExplicitIDs
	// ExcludeIDs selects all visible rows except the excluded ids.
	ExcludeIDs
	// IDSet carries the selected ids as an unordered set.
	IDSet
)

// Event is a selection change reported by the table widget.
type Event struct {
	Kind Kind
	// IDs is the payload for ExplicitIDs and ExcludeIDs (the exclusions).
	IDs []int64
	// Set is the payload for IDSet.
	Set map[int64]struct{}
}

// Normalize resolves an event against the currently visible rows and returns
// the canonical selection as an ordered id sequence.
func Normalize(visible []model.User, ev Event) []int64 {
	switch ev.Kind {
	case ExplicitIDs:
		ids := make([]int64, len(ev.IDs))
		copy(ids, ev.IDs)
		return ids

	case ExcludeIDs:
		excluded := make(map[int64]struct{}, len(ev.IDs))
		for _, id := range ev.IDs {
			excluded[id] = struct{}{}
		}
		ids := make([]int64, 0, len(visible))
		for _, u := range visible {
			if _, ok := excluded[u.ID]; !ok {
				ids = append(ids, u.ID)
			}
		}
		return ids

	case IDSet:
		// Sets are unordered; sort so the canonical form is deterministic.
		ids := make([]int64, 0, len(ev.Set))
		for id := range ev.Set {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return ids

	default:
		return []int64{}
	}
}
