package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Family{}, &models.User{}, &models.StudentProfile{},
		&models.Grade{}, &models.Subject{}, &models.Course{}, &models.Unit{},
		&models.Lesson{}, &models.LessonContentBlock{}, &models.Activity{},
		&models.LessonProgress{}, &models.ActivityResponse{},
		&models.Achievement{}, &models.StudentAchievement{},
	))

	return db
}

func seedLessonWithActivity(t *testing.T, db *gorm.DB) (models.Lesson, models.Activity) {
	t.Helper()

	grade := models.Grade{Name: "1st Grade", OrderIndex: 1, IsActive: true}
	require.NoError(t, db.Create(&grade).Error)
	subject := models.Subject{Name: "Bible", Color: "#6366f1", OrderIndex: 1, IsActive: true}
	require.NoError(t, db.Create(&subject).Error)
	course := models.Course{GradeID: grade.ID, SubjectID: subject.ID, Title: "Bible 1", IsActive: true}
	require.NoError(t, db.Create(&course).Error)
	unit := models.Unit{CourseID: course.ID, Title: "Creation", WeekNumber: 1}
	require.NoError(t, db.Create(&unit).Error)
	lesson := models.Lesson{CourseID: course.ID, UnitID: unit.ID, Title: "Day One", WeekNumber: 1, DayNumber: 1, IsActive: true}
	require.NoError(t, db.Create(&lesson).Error)
	activity := models.Activity{
		LessonID:     lesson.ID,
		ActivityType: models.ActivityTypeMultipleChoice,
		Title:        "Who created the world?",
		Data:         datatypes.JSON(`{"options":["God","Nobody"],"correct":0}`),
		Points:       10,
	}
	require.NoError(t, db.Create(&activity).Error)

	return lesson, activity
}

func TestUpsertResponseLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	_, activity := seedLessonWithActivity(t, db)

	ctx := context.Background()
	studentID := uint(7)

	first := models.ActivityResponse{
		StudentID:    studentID,
		ActivityID:   activity.ID,
		ResponseData: datatypes.JSON(`{"answer":1}`),
		IsCorrect:    false,
		PointsEarned: 0,
	}
	require.NoError(t, repo.UpsertResponse(ctx, &first))

	second := models.ActivityResponse{
		StudentID:    studentID,
		ActivityID:   activity.ID,
		ResponseData: datatypes.JSON(`{"answer":0}`),
		IsCorrect:    true,
		PointsEarned: 10,
	}
	require.NoError(t, repo.UpsertResponse(ctx, &second))

	rows, err := repo.ListResponsesByStudent(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].IsCorrect)
	require.Equal(t, 10, rows[0].PointsEarned)
}

func TestResponseDataScalarPayloadRoundTrips(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	lesson, activity := seedLessonWithActivity(t, db)

	ctx := context.Background()
	studentID := uint(7)

	// Multiple choice answers are bare JSON numbers; they must come back
	// from the column as the same JSON document, not a driver integer.
	require.NoError(t, repo.UpsertResponse(ctx, &models.ActivityResponse{
		StudentID:    studentID,
		ActivityID:   activity.ID,
		ResponseData: datatypes.JSON(`0`),
		IsCorrect:    true,
		PointsEarned: 10,
	}))

	stored, err := repo.GetResponse(ctx, studentID, activity.ID)
	require.NoError(t, err)
	require.JSONEq(t, `0`, string(stored.ResponseData))

	rows, err := repo.ListResponsesForLesson(ctx, studentID, lesson.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.JSONEq(t, `0`, string(rows[0].ResponseData))
}

func TestUpsertLessonProgressByKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	lesson, _ := seedLessonWithActivity(t, db)

	ctx := context.Background()
	studentID := uint(7)
	started := time.Now().UTC()

	require.NoError(t, repo.UpsertLessonProgress(ctx, &models.LessonProgress{
		StudentID: studentID,
		LessonID:  lesson.ID,
		Status:    models.ProgressStatusInProgress,
		StartedAt: &started,
	}))

	completed := started.Add(20 * time.Minute)
	require.NoError(t, repo.UpsertLessonProgress(ctx, &models.LessonProgress{
		StudentID:    studentID,
		LessonID:     lesson.ID,
		Status:       models.ProgressStatusCompleted,
		PointsEarned: 10,
		StartedAt:    &started,
		CompletedAt:  &completed,
	}))

	rows, err := repo.ListLessonProgressByStudent(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, models.ProgressStatusCompleted, rows[0].Status)
	require.Equal(t, 10, rows[0].PointsEarned)
	require.NotNil(t, rows[0].CompletedAt)
}

func TestListResponsesForLessonJoinsActivities(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	lesson, activity := seedLessonWithActivity(t, db)

	other := models.Activity{
		LessonID:     lesson.ID,
		ActivityType: models.ActivityTypeTrueFalse,
		Title:        "The world was created",
		Data:         datatypes.JSON(`{"correct":true}`),
		Points:       5,
	}
	require.NoError(t, db.Create(&other).Error)

	ctx := context.Background()
	require.NoError(t, repo.UpsertResponse(ctx, &models.ActivityResponse{
		StudentID: 7, ActivityID: activity.ID, ResponseData: datatypes.JSON(`{"answer":0}`), IsCorrect: true, PointsEarned: 10,
	}))
	require.NoError(t, repo.UpsertResponse(ctx, &models.ActivityResponse{
		StudentID: 7, ActivityID: other.ID, ResponseData: datatypes.JSON(`{"answer":true}`), IsCorrect: true, PointsEarned: 5,
	}))
	require.NoError(t, repo.UpsertResponse(ctx, &models.ActivityResponse{
		StudentID: 8, ActivityID: activity.ID, ResponseData: datatypes.JSON(`{"answer":1}`), IsCorrect: false, PointsEarned: 0,
	}))

	rows, err := repo.ListResponsesForLesson(ctx, 7, lesson.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
