package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/workloghq/timesheet-api/internal/models"
)

// EntryFSM wraps a time entry with its approval state machine. The flow is
// strictly forward: draft → in_progress → completed, with completed terminal.
type EntryFSM struct {
	entry *models.TimeEntry
	fsm   *fsm.FSM
}

// NewEntryFSM creates a new entry state machine seeded from the entry's
// canonical state.
func NewEntryFSM(entry *models.TimeEntry) *EntryFSM {
	efsm := &EntryFSM{
		entry: entry,
	}

	efsm.fsm = fsm.NewFSM(
		entry.State().String(),
		fsm.Events{
			// draft → in_progress (level-1 sign-off)
			{Name: "l1_approve", Src: []string{models.StatusDraft.String()}, Dst: models.StatusInProgress.String()},

			// in_progress → completed (level-2 sign-off)
			{Name: "l2_approve", Src: []string{models.StatusInProgress.String()}, Dst: models.StatusCompleted.String()},
		},
		fsm.Callbacks{},
	)

	return efsm
}

// ApproveL1 transitions the entry to in_progress
func (e *EntryFSM) ApproveL1(ctx context.Context) (models.EntryStatus, error) {
	if !e.entry.MayApproveL1() {
		return models.StatusUnknown, fmt.Errorf("entry cannot receive an L1 approval in current state: %s", e.entry.State())
	}

	if err := e.fsm.Event(ctx, "l1_approve"); err != nil {
		return models.StatusUnknown, fmt.Errorf("failed to L1-approve entry: %w", err)
	}

	return models.StatusInProgress, nil
}

// ApproveL2 transitions the entry to completed
func (e *EntryFSM) ApproveL2(ctx context.Context) (models.EntryStatus, error) {
	if !e.entry.MayApproveL2() {
		return models.StatusUnknown, fmt.Errorf("entry cannot receive an L2 approval in current state: %s", e.entry.State())
	}

	if err := e.fsm.Event(ctx, "l2_approve"); err != nil {
		return models.StatusUnknown, fmt.Errorf("failed to L2-approve entry: %w", err)
	}

	return models.StatusCompleted, nil
}

// Current returns the current state
func (e *EntryFSM) Current() string {
	return e.fsm.Current()
}

// Can checks if a transition is possible
func (e *EntryFSM) Can(event string) bool {
	return e.fsm.Can(event)
}
