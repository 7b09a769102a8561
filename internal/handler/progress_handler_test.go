package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/handler"
	"github.com/hearthschool/hearth-go-api/internal/service"
)

type stubProgressService struct {
	stats    dto.StudentStatsResponse
	today    dto.TodaysLessonsResponse
	week     dto.WeeklyScheduleResponse
	family   dto.FamilyProgressResponse
	err      error
	lastWeek *int
}

func (s *stubProgressService) StudentStats(_ context.Context, _ uint) (dto.StudentStatsResponse, error) {
	if s.err != nil {
		return dto.StudentStatsResponse{}, s.err
	}
	return s.stats, nil
}

func (s *stubProgressService) TodaysLessons(_ context.Context, _ uint) (dto.TodaysLessonsResponse, error) {
	if s.err != nil {
		return dto.TodaysLessonsResponse{}, s.err
	}
	return s.today, nil
}

func (s *stubProgressService) WeeklySchedule(_ context.Context, _ uint, weekOverride *int) (dto.WeeklyScheduleResponse, error) {
	s.lastWeek = weekOverride
	if s.err != nil {
		return dto.WeeklyScheduleResponse{}, s.err
	}
	return s.week, nil
}

func (s *stubProgressService) FamilyProgress(_ context.Context, _ uint) (dto.FamilyProgressResponse, error) {
	if s.err != nil {
		return dto.FamilyProgressResponse{}, s.err
	}
	return s.family, nil
}

var _ service.ProgressService = (*stubProgressService)(nil)

func newProgressApp(svc service.ProgressService, userID uint, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/students", func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	})
	handler.NewProgressHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func TestProgressHandler_Stats(t *testing.T) {
	svc := &stubProgressService{stats: dto.StudentStatsResponse{
		StudentID:       5,
		PointsTotal:     120,
		CurrentStreak:   4,
		AccuracyPercent: 92,
	}}
	app := newProgressApp(svc, 5, "student")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/5/stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                     `json:"success"`
		Data    dto.StudentStatsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()

	require.True(t, payload.Success)
	require.Equal(t, 120, payload.Data.PointsTotal)
	require.Equal(t, 92, payload.Data.AccuracyPercent)
}

func TestProgressHandler_StudentCannotReadSibling(t *testing.T) {
	svc := &stubProgressService{}
	app := newProgressApp(svc, 5, "student")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/6/stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProgressHandler_ParentReadsAnyStudent(t *testing.T) {
	svc := &stubProgressService{today: dto.TodaysLessonsResponse{
		StudentID:   6,
		WeekNumber:  2,
		DayNumber:   3,
		IsSchoolDay: true,
	}}
	app := newProgressApp(svc, 2, "parent")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/6/today", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.TodaysLessonsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.True(t, payload.Data.IsSchoolDay)
	require.Equal(t, 2, payload.Data.WeekNumber)
}

func TestProgressHandler_WeekOverride(t *testing.T) {
	svc := &stubProgressService{week: dto.WeeklyScheduleResponse{WeekNumber: 7}}
	app := newProgressApp(svc, 2, "parent")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/6/week?week=7", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, svc.lastWeek)
	require.Equal(t, 7, *svc.lastWeek)
}

func TestProgressHandler_UnknownStudent(t *testing.T) {
	svc := &stubProgressService{err: service.ErrStudentNotFound}
	app := newProgressApp(svc, 2, "parent")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/99/stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
