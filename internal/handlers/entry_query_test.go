package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workloghq/timesheet-api/internal/models"
	"github.com/workloghq/timesheet-api/internal/repository"
	"github.com/workloghq/timesheet-api/internal/services"
	"gorm.io/gorm"
)

// stubEntryRepo captures the query the handler builds from the request
type stubEntryRepo struct {
	captured *repository.EntryQuery
}

func (s *stubEntryRepo) FindByID(_ context.Context, _ uint) (*models.TimeEntry, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEntryRepo) List(_ context.Context, query *repository.EntryQuery) ([]models.TimeEntry, int64, error) {
	s.captured = query
	return nil, 0, nil
}

func (s *stubEntryRepo) Create(_ context.Context, _ *models.TimeEntry, _ *models.EntryAuditLog) error {
	return nil
}

func (s *stubEntryRepo) Mutate(_ context.Context, _ uint, _ repository.EntryMutator) (*models.TimeEntry, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEntryRepo) Delete(_ context.Context, _ uint, _ repository.EntryMutator) error {
	return gorm.ErrRecordNotFound
}

type stubRefRepo struct{}

func (stubRefRepo) ListPlatforms(_ context.Context) ([]models.Platform, error) { return nil, nil }
func (stubRefRepo) ListTasks(_ context.Context) ([]models.Task, error)         { return nil, nil }
func (stubRefRepo) ListSubtasks(_ context.Context, _ uint) ([]models.Subtask, error) {
	return nil, nil
}
func (stubRefRepo) ListStatuses(_ context.Context) ([]models.Status, error) { return nil, nil }
func (stubRefRepo) FindSubtask(_ context.Context, _ uint) (*models.Subtask, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubRefRepo) FindStatus(_ context.Context, _ uint) (*models.Status, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubRefRepo) FindStatusByState(_ context.Context, _ models.EntryStatus) (*models.Status, error) {
	return nil, gorm.ErrRecordNotFound
}

func listRouter(repo *stubEntryRepo, staff bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEntryHandler(services.NewEntryService(repo, stubRefRepo{}))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", uint(9))
		c.Set("userStaff", staff)
	})
	router.GET("/tasks", h.Index)
	return router
}

func TestIndexQueryParameterNames(t *testing.T) {
	repo := &stubEntryRepo{}
	router := listRouter(repo, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/tasks?search=import&user_id=3&start_date=2026-02-01&end_date=2026-02-28&platform=2&task=4&status=1&page=2&per_page=10", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.captured)

	q := repo.captured
	assert.Equal(t, "import", q.Search)
	assert.Equal(t, uint(3), q.UserID)
	assert.Equal(t, "2026-02-01", q.StartDate)
	assert.Equal(t, "2026-02-28", q.EndDate)
	assert.Equal(t, uint(2), q.PlatformID)
	assert.Equal(t, uint(4), q.TaskID)
	assert.Equal(t, uint(1), q.StatusID)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 10, q.PerPage)
}

func TestIndexOwnerFilterRequiresStaff(t *testing.T) {
	repo := &stubEntryRepo{}
	router := listRouter(repo, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/tasks?user_id=3", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.captured)

	// Non-staff actors are pinned to their own entries
	assert.Equal(t, uint(0), repo.captured.UserID)
	assert.Equal(t, uint(9), repo.captured.ActorID)
	assert.False(t, repo.captured.Staff)
}
