package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/repository"
)

// mondayNoon falls in the first curriculum week of the fixture family.
var mondayNoon = time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)

func newAggregator(t *testing.T, db *gorm.DB, withCache bool) (ProgressService, *progressService) {
	t.Helper()

	svc := NewProgressService(
		repository.NewUserRepository(db),
		repository.NewFamilyRepository(db),
		repository.NewStudentProfileRepository(db),
		repository.NewCurriculumRepository(db),
		repository.NewLessonRepository(db),
		repository.NewProgressRepository(db),
		nil,
		time.Minute,
		testLogger(),
	)
	inner := svc.(*progressService)
	if withCache {
		inner.cache = newTestCache(t)
	}
	inner.now = func() time.Time { return mondayNoon }

	return svc, inner
}

func TestStudentStatsAggregates(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	lessons, inner, responses := newProgressStack(t, db)
	inner.now = func() time.Time { return mondayNoon }
	svc, _ := newAggregator(t, db, false)

	ctx := context.Background()
	_, err := responses.Submit(ctx, fixture.Student.ID, fixture.Choice.ID, dto.SubmitAnswerRequest{Answer: json.RawMessage(`0`)})
	require.NoError(t, err)
	_, err = responses.Submit(ctx, fixture.Student.ID, fixture.Blank.ID, dto.SubmitAnswerRequest{Answer: json.RawMessage(`"wrong"`)})
	require.NoError(t, err)
	_, err = responses.Submit(ctx, fixture.Student.ID, fixture.Verse.ID, dto.SubmitAnswerRequest{Answer: json.RawMessage(`true`)})
	require.NoError(t, err)
	_, err = lessons.Complete(ctx, fixture.Student.ID, fixture.Lesson.ID)
	require.NoError(t, err)

	stats, err := svc.StudentStats(ctx, fixture.Student.ID)
	require.NoError(t, err)
	require.Equal(t, "Noah", stats.FirstName)
	require.Equal(t, 20, stats.PointsTotal)
	require.Equal(t, 1, stats.LessonsCompleted)
	require.Equal(t, 3, stats.ActivitiesGraded)
	require.Equal(t, 67, stats.AccuracyPercent)
	require.Len(t, stats.Courses, 1)
	require.Equal(t, 1, stats.Courses[0].LessonsTotal)
	require.Equal(t, 1, stats.Courses[0].LessonsComplete)
	require.Equal(t, 100, stats.Courses[0].PercentComplete)
}

func TestStudentStatsEmptyState(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	svc, _ := newAggregator(t, db, false)

	stats, err := svc.StudentStats(context.Background(), fixture.Student.ID)
	require.NoError(t, err)
	require.Zero(t, stats.PointsTotal)
	require.Zero(t, stats.AccuracyPercent)
	require.Zero(t, stats.LessonsCompleted)
	require.Len(t, stats.Courses, 1)
	require.Zero(t, stats.Courses[0].PercentComplete)
}

func TestStudentStatsServedFromCache(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	svc, _ := newAggregator(t, db, true)

	ctx := context.Background()
	first, err := svc.StudentStats(ctx, fixture.Student.ID)
	require.NoError(t, err)

	// A direct write bypasses invalidation; the cached payload wins.
	require.NoError(t, db.Model(&models.StudentProfile{}).
		Where("user_id = ?", fixture.Student.ID).
		Update("current_streak", 42).Error)

	second, err := svc.StudentStats(ctx, fixture.Student.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTodaysLessonsOnSchoolDay(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	svc, _ := newAggregator(t, db, false)

	today, err := svc.TodaysLessons(context.Background(), fixture.Student.ID)
	require.NoError(t, err)
	require.Equal(t, 1, today.WeekNumber)
	require.Equal(t, 1, today.DayNumber)
	require.True(t, today.IsSchoolDay)
	require.Len(t, today.Lessons, 1)
	require.Equal(t, fixture.Lesson.ID, today.Lessons[0].ID)
	require.Equal(t, models.ProgressStatusNotStarted, today.Lessons[0].Status)
	require.Equal(t, "Bible", today.Lessons[0].SubjectName)
}

func TestTodaysLessonsOnWeekend(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	_, inner := newAggregator(t, db, false)

	saturday := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	inner.now = func() time.Time { return saturday }

	today, err := inner.TodaysLessons(context.Background(), fixture.Student.ID)
	require.NoError(t, err)
	require.Equal(t, 6, today.DayNumber)
	require.False(t, today.IsSchoolDay)
	require.Empty(t, today.Lessons)
}

func TestWeeklyScheduleGroupsByDay(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	svc, _ := newAggregator(t, db, false)

	tuesday := models.Lesson{CourseID: fixture.Course.ID, UnitID: fixture.Unit.ID, Title: "Day Two", WeekNumber: 1, DayNumber: 2, IsActive: true}
	require.NoError(t, db.Create(&tuesday).Error)

	week, err := svc.WeeklySchedule(context.Background(), fixture.Student.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 1, week.WeekNumber)
	require.Len(t, week.Days, 5)
	require.Len(t, week.Days[0].Lessons, 1)
	require.Len(t, week.Days[1].Lessons, 1)
	require.Empty(t, week.Days[2].Lessons)
	require.True(t, week.Days[0].IsSchoolDay)

	override := 2
	later, err := svc.WeeklySchedule(context.Background(), fixture.Student.ID, &override)
	require.NoError(t, err)
	require.Equal(t, 2, later.WeekNumber)
	for _, day := range later.Days {
		require.Empty(t, day.Lessons)
	}
}

func TestWeeklyScheduleSkipsNonSchoolDays(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	svc, _ := newAggregator(t, db, false)

	// Four-day school week; the Friday lesson stays out of the schedule.
	require.NoError(t, db.Model(&models.Family{}).
		Where("id = ?", fixture.Family.ID).
		Update("school_days", datatypes.NewJSONSlice([]int{1, 2, 3, 4})).Error)
	friday := models.Lesson{CourseID: fixture.Course.ID, UnitID: fixture.Unit.ID, Title: "Day Five", WeekNumber: 1, DayNumber: 5, IsActive: true}
	require.NoError(t, db.Create(&friday).Error)

	week, err := svc.WeeklySchedule(context.Background(), fixture.Student.ID, nil)
	require.NoError(t, err)
	require.Len(t, week.Days, 5)
	require.True(t, week.Days[0].IsSchoolDay)
	require.Len(t, week.Days[0].Lessons, 1)
	require.False(t, week.Days[4].IsSchoolDay)
	require.Empty(t, week.Days[4].Lessons)
}

func TestFamilyProgressRollsUpStudents(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	lessons, inner, responses := newProgressStack(t, db)
	inner.now = func() time.Time { return mondayNoon }
	svc, _ := newAggregator(t, db, false)

	ctx := context.Background()
	_, err := responses.Submit(ctx, fixture.Student.ID, fixture.Choice.ID, dto.SubmitAnswerRequest{Answer: json.RawMessage(`0`)})
	require.NoError(t, err)
	_, err = lessons.Complete(ctx, fixture.Student.ID, fixture.Lesson.ID)
	require.NoError(t, err)

	family, err := svc.FamilyProgress(ctx, fixture.Family.ID)
	require.NoError(t, err)
	require.Equal(t, 1, family.WeekNumber)
	require.Equal(t, 1, family.DayNumber)
	require.Len(t, family.Students, 1)

	row := family.Students[0]
	require.Equal(t, "Noah", row.FirstName)
	require.Equal(t, "1st Grade", row.GradeName)
	require.Equal(t, 10, row.PointsTotal)
	require.Equal(t, 1, row.CurrentStreak)
	require.Equal(t, 1, row.LessonsToday)
	require.Equal(t, 1, row.LessonsTodayDone)
	require.Equal(t, 100, row.OverallPercent)
	require.Equal(t, "Day One", row.LastCompletedTitle)

	// Points come from the ledger; a stale profile cache must not leak
	// into the roll-up.
	require.NoError(t, db.Model(&models.StudentProfile{}).
		Where("user_id = ?", fixture.Student.ID).
		Update("points_total", 999).Error)
	again, err := svc.FamilyProgress(ctx, fixture.Family.ID)
	require.NoError(t, err)
	require.Equal(t, 10, again.Students[0].PointsTotal)
}

type flakyProgressRepository struct {
	repository.ProgressRepository
	failFor uint
}

func (r flakyProgressRepository) ListLessonProgressByStudent(ctx context.Context, studentID uint) ([]models.LessonProgress, error) {
	if studentID == r.failFor {
		return nil, errors.New("ledger unavailable")
	}
	return r.ProgressRepository.ListLessonProgressByStudent(ctx, studentID)
}

func TestFamilyProgressDegradesPerStudent(t *testing.T) {
	db := newServiceDB(t)
	fixture := seedCurriculumFixture(t, db)
	lessons, stack, _ := newProgressStack(t, db)
	stack.now = func() time.Time { return mondayNoon }
	svc, inner := newAggregator(t, db, false)

	sibling := models.User{FamilyID: fixture.Family.ID, Role: models.RoleStudent, FirstName: "Lily", LastName: "Walker"}
	require.NoError(t, db.Create(&sibling).Error)
	require.NoError(t, db.Create(&models.StudentProfile{
		UserID:         sibling.ID,
		FamilyID:       fixture.Family.ID,
		CurrentGradeID: &fixture.Grade.ID,
	}).Error)

	ctx := context.Background()
	_, err := lessons.Complete(ctx, fixture.Student.ID, fixture.Lesson.ID)
	require.NoError(t, err)

	inner.progress = flakyProgressRepository{ProgressRepository: inner.progress, failFor: sibling.ID}

	family, err := svc.FamilyProgress(ctx, fixture.Family.ID)
	require.NoError(t, err)
	require.Len(t, family.Students, 2)

	rows := map[uint]dto.FamilyStudentProgress{}
	for _, row := range family.Students {
		rows[row.StudentID] = row
	}
	require.Equal(t, 1, rows[fixture.Student.ID].LessonsCompleted)
	require.Equal(t, "Lily", rows[sibling.ID].FirstName)
	require.Zero(t, rows[sibling.ID].LessonsCompleted)
	require.Zero(t, rows[sibling.ID].PointsTotal)
}

func TestFamilyProgressUnknownFamily(t *testing.T) {
	db := newServiceDB(t)
	svc, _ := newAggregator(t, db, false)

	_, err := svc.FamilyProgress(context.Background(), 404)
	require.ErrorIs(t, err, ErrFamilyNotFound)
}
