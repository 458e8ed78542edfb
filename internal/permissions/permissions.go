package permissions

import "github.com/workloghq/timesheet-api/internal/models"

// Actor is the identity context every operation receives. It replaces any
// hidden global user state: just the id and the privileged ("staff") flag
// extracted from the authenticated token.
type Actor struct {
	ID    uint
	Staff bool
}

// Capability is one of the actions an actor may hold over an entry.
type Capability uint8

const (
	CapView Capability = 1 << iota
	CapEditFields
	CapDelete
	CapApproveL1
	CapApproveL2
)

func (c Capability) String() string {
	switch c {
	case CapView:
		return "view"
	case CapEditFields:
		return "edit_fields"
	case CapDelete:
		return "delete"
	case CapApproveL1:
		return "approve_l1"
	case CapApproveL2:
		return "approve_l2"
	default:
		return "unknown"
	}
}

type role int

const (
	roleOwner role = iota
	roleStaff
)

// grants is the explicit (role, state) → capability-set table. All
// authorization decisions funnel through it so the whole policy is
// testable in one place.
var grants = map[role]map[models.EntryStatus]Capability{
	roleOwner: {
		models.StatusDraft:      CapView | CapEditFields | CapDelete,
		models.StatusInProgress: CapView,
		models.StatusCompleted:  CapView,
		models.StatusUnknown:    CapView,
	},
	roleStaff: {
		models.StatusDraft:      CapView | CapApproveL1 | CapApproveL2,
		models.StatusInProgress: CapView | CapEditFields | CapApproveL1 | CapApproveL2,
		models.StatusCompleted:  CapView | CapApproveL1 | CapApproveL2,
		models.StatusUnknown:    CapView | CapApproveL1 | CapApproveL2,
	},
}

// Granted returns the full capability set of actor over entry. A staff
// member who also owns the entry holds the union of both roles.
func Granted(actor Actor, entry *models.TimeEntry) Capability {
	var caps Capability
	state := entry.State()
	if actor.ID == entry.UserID {
		caps |= grants[roleOwner][state]
	}
	if actor.Staff {
		caps |= grants[roleStaff][state]
	}
	return caps
}

// Evaluate reports whether actor holds the capability over entry. Pure
// function of the current entry state and the actor identity; no side
// effects.
func Evaluate(actor Actor, entry *models.TimeEntry, cap Capability) bool {
	return Granted(actor, entry)&cap != 0
}
