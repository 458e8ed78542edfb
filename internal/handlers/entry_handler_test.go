package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workloghq/timesheet-api/internal/services"
	"github.com/workloghq/timesheet-api/pkg/logger"
)

func TestEntryRequestToInput(t *testing.T) {
	duration := 7.5
	desc := "sprint planning"
	subtask := uint(4)

	req := entryRequest{
		Date:        "2026-02-02",
		PlatformID:  1,
		TaskID:      2,
		SubtaskID:   &subtask,
		Duration:    &duration,
		Description: &desc,
	}

	input, err := req.toInput()
	require.NoError(t, err)
	assert.Equal(t, "2026-02-02", input.Date.Format("2006-01-02"))
	assert.Equal(t, uint(1), input.PlatformID)
	assert.Equal(t, uint(2), input.TaskID)
	assert.Equal(t, 7.5, input.Duration)
	require.NotNil(t, input.SubtaskID)
	assert.Equal(t, uint(4), *input.SubtaskID)
}

func TestEntryRequestRejectsBadDate(t *testing.T) {
	duration := 1.0
	req := entryRequest{Date: "02/02/2026", Duration: &duration}

	_, err := req.toInput()
	assert.Error(t, err)
}

func TestActionRequestUnmarshal(t *testing.T) {
	var action actionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"action": "l2_approve", "remarks": "ok"}`), &action))
	assert.Equal(t, "l2_approve", action.Action)
	assert.Equal(t, "ok", action.Remarks)

	// A plain field update carries no action
	action = actionRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"date": "2026-02-02", "duration": 8}`), &action))
	assert.Empty(t, action.Action)
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Setup("test")

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"Not Found", services.ErrNotFound, http.StatusNotFound},
		{"Permission", services.ErrPermission, http.StatusForbidden},
		{"Wrapped Permission", fmt.Errorf("%w: staff only", services.ErrPermission), http.StatusForbidden},
		{"Validation", services.ErrValidation, http.StatusBadRequest},
		{"Invalid State", services.ErrInvalidState, http.StatusBadRequest},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			respondError(c, tt.err)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPaginationResponse(t *testing.T) {
	page := paginationResponse(2, 50, 101)
	assert.Equal(t, int64(3), page["total_pages"])
	assert.Equal(t, int64(101), page["total"])

	empty := paginationResponse(1, 50, 0)
	assert.Equal(t, int64(0), empty["total_pages"])
}
