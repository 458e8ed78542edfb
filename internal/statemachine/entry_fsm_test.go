package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workloghq/timesheet-api/internal/models"
)

func entryInState(statusName string) *models.TimeEntry {
	return &models.TimeEntry{Status: models.Status{Name: statusName}}
}

func TestApproveL1FromDraft(t *testing.T) {
	entry := entryInState("draft")
	efsm := NewEntryFSM(entry)

	assert.Equal(t, "draft", efsm.Current())
	assert.True(t, efsm.Can("l1_approve"))

	next, err := efsm.ApproveL1(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, next)
	assert.Equal(t, "in_progress", efsm.Current())
}

func TestApproveL2FromInProgress(t *testing.T) {
	approver := uint(3)
	entry := entryInState("inprogress")
	entry.L1ApproverID = &approver
	efsm := NewEntryFSM(entry)

	next, err := efsm.ApproveL2(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, next)
	assert.Equal(t, "completed", efsm.Current())
}

func TestApproveL2RequiresPriorL1(t *testing.T) {
	entry := entryInState("draft")
	efsm := NewEntryFSM(entry)

	_, err := efsm.ApproveL2(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "draft", efsm.Current())
}

func TestApproveL1Twice(t *testing.T) {
	approver := uint(3)
	entry := entryInState("inprogress")
	entry.L1ApproverID = &approver
	efsm := NewEntryFSM(entry)

	_, err := efsm.ApproveL1(context.Background())
	assert.Error(t, err)
}

func TestCompletedIsTerminal(t *testing.T) {
	approver := uint(3)
	entry := entryInState("completed")
	entry.L1ApproverID = &approver
	entry.L2ApproverID = &approver
	efsm := NewEntryFSM(entry)

	assert.False(t, efsm.Can("l1_approve"))
	assert.False(t, efsm.Can("l2_approve"))

	_, err := efsm.ApproveL1(context.Background())
	assert.Error(t, err)
	_, err = efsm.ApproveL2(context.Background())
	assert.Error(t, err)
}
