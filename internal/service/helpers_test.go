package service

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New()
}

func newServiceDB(t *testing.T) *gorm.DB {
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

func newTestCache(t *testing.T) *redis.Client {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	return redis.NewClient(&redis.Options{Addr: mini.Addr()})
}

type curriculumFixture struct {
	Family  models.Family
	Student models.User
	Profile models.StudentProfile
	Grade   models.Grade
	Subject models.Subject
	Course  models.Course
	Unit    models.Unit
	Lesson  models.Lesson
	Choice  models.Activity
	Blank   models.Activity
	Verse   models.Activity
}

// seedCurriculumFixture builds one family with one student enrolled in a
// single-lesson course carrying three gradable activities.
func seedCurriculumFixture(t *testing.T, db *gorm.DB) curriculumFixture {
	t.Helper()

	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC) // a Monday
	family := models.Family{
		Name:                "Walker",
		Email:               "walker@example.com",
		TrialEndsAt:         start.AddDate(0, 0, 14),
		CurriculumStartDate: &start,
	}
	require.NoError(t, db.Create(&family).Error)

	grade := models.Grade{Name: "1st Grade", OrderIndex: 1, IsActive: true}
	require.NoError(t, db.Create(&grade).Error)
	subject := models.Subject{Name: "Bible", Color: "#6366f1", OrderIndex: 1, IsActive: true}
	require.NoError(t, db.Create(&subject).Error)
	course := models.Course{GradeID: grade.ID, SubjectID: subject.ID, Title: "Bible 1", IsActive: true}
	require.NoError(t, db.Create(&course).Error)
	unit := models.Unit{CourseID: course.ID, Title: "Creation", WeekNumber: 1, MemoryVerse: "In the beginning...", VerseReference: "Genesis 1:1"}
	require.NoError(t, db.Create(&unit).Error)

	student := models.User{FamilyID: family.ID, Role: models.RoleStudent, FirstName: "Noah", LastName: "Walker"}
	require.NoError(t, db.Create(&student).Error)
	profile := models.StudentProfile{UserID: student.ID, FamilyID: family.ID, CurrentGradeID: &grade.ID}
	require.NoError(t, db.Create(&profile).Error)

	lesson := models.Lesson{CourseID: course.ID, UnitID: unit.ID, Title: "Day One", WeekNumber: 1, DayNumber: 1, IsActive: true}
	require.NoError(t, db.Create(&lesson).Error)

	choice := models.Activity{
		LessonID:     lesson.ID,
		ActivityType: models.ActivityTypeMultipleChoice,
		Title:        "Who created the world?",
		Data:         datatypes.JSON(`{"options":["God","Nobody","The sea"],"correct":0}`),
		Points:       10,
	}
	require.NoError(t, db.Create(&choice).Error)

	blank := models.Activity{
		LessonID:     lesson.ID,
		ActivityType: models.ActivityTypeFillBlank,
		Title:        "Fill the blank",
		Data:         datatypes.JSON(`{"display":"___ built the ark","answers":["Noah"]}`),
		Points:       5,
	}
	require.NoError(t, db.Create(&blank).Error)

	verse := models.Activity{
		LessonID:     lesson.ID,
		ActivityType: models.ActivityTypeMemoryVerse,
		Title:        "Memory verse",
		Data:         datatypes.JSON(`{"verse":"In the beginning...","reference":"Genesis 1:1"}`),
		Points:       10,
	}
	require.NoError(t, db.Create(&verse).Error)

	return curriculumFixture{
		Family:  family,
		Student: student,
		Profile: profile,
		Grade:   grade,
		Subject: subject,
		Course:  course,
		Unit:    unit,
		Lesson:  lesson,
		Choice:  choice,
		Blank:   blank,
		Verse:   verse,
	}
}
