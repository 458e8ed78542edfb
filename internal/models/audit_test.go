package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func TestSnapshotOf(t *testing.T) {
	desc := "cleanup batch import"
	bitrix := "BX-1042"
	entry := &TimeEntry{
		Duration:    7.5,
		Description: &desc,
		BitrixID:    &bitrix,
		Status:      Status{Name: "inprogress", DisplayName: "In Progress"},
	}

	snap := SnapshotOf(entry)
	assert.Equal(t, "In Progress", snap.Status)
	assert.Equal(t, 7.5, snap.Duration)
	assert.Equal(t, desc, snap.Description)
	assert.Equal(t, bitrix, snap.BitrixID)
}

func TestSnapshotOfFallsBackToName(t *testing.T) {
	entry := &TimeEntry{Status: Status{Name: "draft"}}
	snap := SnapshotOf(entry)
	assert.Equal(t, "draft", snap.Status)
	assert.Empty(t, snap.Description)
}

func TestNewAuditLog(t *testing.T) {
	old := EntrySnapshot{Status: "Draft", Duration: 2}
	updated := EntrySnapshot{Status: "In Progress", Duration: 2}

	log := NewAuditLog(42, AuditActionL1Approve, 7, &old, &updated, "looks good", "10.0.0.5", "curl/8.0")

	assert.Equal(t, uint(42), log.EntryID)
	assert.Equal(t, AuditActionL1Approve, log.Action)
	assert.Equal(t, uint(7), log.PerformedByID)
	require.NotNil(t, log.Remarks)
	assert.Equal(t, "looks good", *log.Remarks)
	assert.Equal(t, "10.0.0.5", log.IPAddress)

	var decoded EntrySnapshot
	require.NoError(t, json.Unmarshal(log.OldValues, &decoded))
	assert.Equal(t, old, decoded)
	require.NoError(t, json.Unmarshal(log.NewValues, &decoded))
	assert.Equal(t, updated, decoded)
}

func TestNewAuditLogNilSnapshots(t *testing.T) {
	log := NewAuditLog(1, AuditActionCreate, 3, nil, &EntrySnapshot{Status: "Draft"}, "", "", "")

	assert.Nil(t, log.OldValues)
	assert.NotNil(t, log.NewValues)
	assert.Nil(t, log.Remarks)

	deleted := NewAuditLog(1, AuditActionDelete, 3, &EntrySnapshot{Status: "Draft"}, nil, "", "", "")
	assert.NotNil(t, deleted.OldValues)
	assert.Nil(t, deleted.NewValues)
}
