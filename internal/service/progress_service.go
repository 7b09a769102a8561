package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/repository"
	"github.com/hearthschool/hearth-go-api/internal/schedule"
)

// ErrStudentNotFound indicates no student profile exists for the user.
var ErrStudentNotFound = errors.New("student not found")

const schoolWeekDays = 5

// ProgressService is the read side of the ledgers: it aggregates lesson
// progress and activity responses into dashboard and schedule payloads.
type ProgressService interface {
	StudentStats(ctx context.Context, studentID uint) (dto.StudentStatsResponse, error)
	TodaysLessons(ctx context.Context, studentID uint) (dto.TodaysLessonsResponse, error)
	WeeklySchedule(ctx context.Context, studentID uint, weekOverride *int) (dto.WeeklyScheduleResponse, error)
	FamilyProgress(ctx context.Context, familyID uint) (dto.FamilyProgressResponse, error)
}

type progressService struct {
	users      repository.UserRepository
	families   repository.FamilyRepository
	profiles   repository.StudentProfileRepository
	curriculum repository.CurriculumRepository
	lessons    repository.LessonRepository
	progress   repository.ProgressRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewProgressService constructs the aggregator.
func NewProgressService(users repository.UserRepository, families repository.FamilyRepository, profiles repository.StudentProfileRepository, curriculum repository.CurriculumRepository, lessons repository.LessonRepository, progress repository.ProgressRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ProgressService {
	return &progressService{
		users:      users,
		families:   families,
		profiles:   profiles,
		curriculum: curriculum,
		lessons:    lessons,
		progress:   progress,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "progress_service").Logger(),
		now:        time.Now,
	}
}

func (s *progressService) StudentStats(ctx context.Context, studentID uint) (dto.StudentStatsResponse, error) {
	cacheKey := studentStatsCacheKey(studentID)
	if cached, ok := readCache[dto.StudentStatsResponse](ctx, s.cache, s.logger, cacheKey); ok {
		return cached, nil
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentStatsResponse{}, ErrStudentNotFound
		}
		return dto.StudentStatsResponse{}, err
	}
	if student.Profile == nil {
		return dto.StudentStatsResponse{}, ErrStudentNotFound
	}
	profile := *student.Profile

	ledger, err := s.progress.ListLessonProgressByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}

	responses, err := s.progress.ListResponsesByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}
	correct := 0
	for _, response := range responses {
		if response.IsCorrect {
			correct++
		}
	}

	courses, err := s.coursesForProfile(ctx, profile)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}

	completedByCourse := map[uint]int{}
	pointsTotal := 0
	lessonsCompleted := 0
	for _, entry := range ledger {
		if !entry.IsCompleted() {
			continue
		}
		lessonsCompleted++
		pointsTotal += entry.PointsEarned
		completedByCourse[entry.Lesson.CourseID]++
	}

	courseProgress := make([]dto.CourseProgress, 0, len(courses))
	for _, course := range courses {
		total, err := s.lessons.CountActiveByCourse(ctx, course.ID)
		if err != nil {
			return dto.StudentStatsResponse{}, err
		}
		complete := completedByCourse[course.ID]
		courseProgress = append(courseProgress, dto.CourseProgress{
			CourseID:        course.ID,
			CourseTitle:     course.Title,
			SubjectName:     course.Subject.Name,
			SubjectColor:    course.Subject.Color,
			LessonsTotal:    int(total),
			LessonsComplete: complete,
			PercentComplete: roundPercent(complete, int(total)),
		})
	}

	response := dto.StudentStatsResponse{
		StudentID:        studentID,
		FirstName:        student.FirstName,
		PointsTotal:      pointsTotal,
		CurrentStreak:    profile.CurrentStreak,
		LongestStreak:    profile.LongestStreak,
		LessonsCompleted: lessonsCompleted,
		ActivitiesGraded: len(responses),
		AccuracyPercent:  roundPercent(correct, len(responses)),
		Courses:          courseProgress,
	}

	writeCache(ctx, s.cache, s.logger, cacheKey, s.cacheTTL, response)

	return response, nil
}

func (s *progressService) TodaysLessons(ctx context.Context, studentID uint) (dto.TodaysLessonsResponse, error) {
	profile, family, err := s.loadStudentContext(ctx, studentID)
	if err != nil {
		return dto.TodaysLessonsResponse{}, err
	}

	slot := schedule.Resolve(family.CurriculumStartDate, s.now())
	response := dto.TodaysLessonsResponse{
		StudentID:   studentID,
		WeekNumber:  slot.Week,
		DayNumber:   slot.Day,
		IsSchoolDay: slot.Day <= schoolWeekDays && family.IsSchoolDay(slot.Day),
		Lessons:     []dto.LessonSummary{},
	}
	if !response.IsSchoolDay {
		return response, nil
	}

	summaries, err := s.lessonSummaries(ctx, profile, studentID, slot.Week, &slot.Day)
	if err != nil {
		return dto.TodaysLessonsResponse{}, err
	}
	response.Lessons = summaries

	return response, nil
}

func (s *progressService) WeeklySchedule(ctx context.Context, studentID uint, weekOverride *int) (dto.WeeklyScheduleResponse, error) {
	profile, family, err := s.loadStudentContext(ctx, studentID)
	if err != nil {
		return dto.WeeklyScheduleResponse{}, err
	}

	week := schedule.Resolve(family.CurriculumStartDate, s.now()).Week
	if weekOverride != nil && *weekOverride > 0 {
		week = *weekOverride
	}

	summaries, err := s.lessonSummaries(ctx, profile, studentID, week, nil)
	if err != nil {
		return dto.WeeklyScheduleResponse{}, err
	}

	byDay := map[int][]dto.LessonSummary{}
	for _, summary := range summaries {
		byDay[summary.DayNumber] = append(byDay[summary.DayNumber], summary)
	}

	days := make([]dto.ScheduleDay, 0, schoolWeekDays)
	for day := 1; day <= schoolWeekDays; day++ {
		schoolDay := family.IsSchoolDay(day)
		lessons := []dto.LessonSummary{}
		if schoolDay && byDay[day] != nil {
			lessons = byDay[day]
		}
		days = append(days, dto.ScheduleDay{
			DayNumber:   day,
			IsSchoolDay: schoolDay,
			Lessons:     lessons,
		})
	}

	return dto.WeeklyScheduleResponse{
		StudentID:  studentID,
		WeekNumber: week,
		Days:       days,
	}, nil
}

func (s *progressService) FamilyProgress(ctx context.Context, familyID uint) (dto.FamilyProgressResponse, error) {
	cacheKey := familyProgressCacheKey(familyID)
	if cached, ok := readCache[dto.FamilyProgressResponse](ctx, s.cache, s.logger, cacheKey); ok {
		return cached, nil
	}

	family, err := s.families.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FamilyProgressResponse{}, ErrFamilyNotFound
		}
		return dto.FamilyProgressResponse{}, err
	}

	students, err := s.users.ListStudentsByFamily(ctx, familyID)
	if err != nil {
		return dto.FamilyProgressResponse{}, err
	}

	slot := schedule.Resolve(family.CurriculumStartDate, s.now())
	schoolToday := slot.Day <= schoolWeekDays && family.IsSchoolDay(slot.Day)

	rows := make([]dto.FamilyStudentProgress, 0, len(students))
	for _, student := range students {
		if student.Profile == nil {
			continue
		}
		row, err := s.familyStudentRow(ctx, student, slot, schoolToday)
		if err != nil {
			// One student's broken read must not take down the whole
			// family roll-up.
			s.logger.Warn().Err(err).Uint("student_id", student.ID).Msg("failed to aggregate student progress")
			row = dto.FamilyStudentProgress{
				StudentID: student.ID,
				FirstName: student.FirstName,
			}
		}
		rows = append(rows, row)
	}

	response := dto.FamilyProgressResponse{
		FamilyID:   familyID,
		WeekNumber: slot.Week,
		DayNumber:  slot.Day,
		Students:   rows,
	}

	writeCache(ctx, s.cache, s.logger, cacheKey, s.cacheTTL, response)

	return response, nil
}

func (s *progressService) familyStudentRow(ctx context.Context, student models.User, slot schedule.Slot, schoolToday bool) (dto.FamilyStudentProgress, error) {
	profile := *student.Profile

	row := dto.FamilyStudentProgress{
		StudentID:     student.ID,
		FirstName:     student.FirstName,
		CurrentStreak: profile.CurrentStreak,
	}
	if profile.CurrentGrade != nil {
		row.GradeName = profile.CurrentGrade.Name
	}

	ledger, err := s.progress.ListLessonProgressByStudent(ctx, student.ID)
	if err != nil {
		return dto.FamilyStudentProgress{}, err
	}

	completedLessonIDs := map[uint]bool{}
	var lastCompleted *models.LessonProgress
	for i, entry := range ledger {
		if !entry.IsCompleted() {
			continue
		}
		row.LessonsCompleted++
		row.PointsTotal += entry.PointsEarned
		completedLessonIDs[entry.LessonID] = true
		if entry.CompletedAt != nil && (lastCompleted == nil || lastCompleted.CompletedAt.Before(*entry.CompletedAt)) {
			lastCompleted = &ledger[i]
		}
	}
	if lastCompleted != nil {
		row.LastCompletedTitle = lastCompleted.Lesson.Title
	}

	courses, err := s.coursesForProfile(ctx, profile)
	if err != nil {
		return dto.FamilyStudentProgress{}, err
	}

	totalLessons := 0
	for _, course := range courses {
		count, err := s.lessons.CountActiveByCourse(ctx, course.ID)
		if err != nil {
			return dto.FamilyStudentProgress{}, err
		}
		totalLessons += int(count)
	}
	row.OverallPercent = roundPercent(row.LessonsCompleted, totalLessons)

	if schoolToday {
		today, err := s.lessons.ListByCourses(ctx, courseIDs(courses), repository.LessonFilter{
			WeekNumber: &slot.Week,
			DayNumber:  &slot.Day,
			ActiveOnly: true,
		})
		if err != nil {
			return dto.FamilyStudentProgress{}, err
		}
		row.LessonsToday = len(today)
		for _, lesson := range today {
			if completedLessonIDs[lesson.ID] {
				row.LessonsTodayDone++
			}
		}
	}

	return row, nil
}

func (s *progressService) loadStudentContext(ctx context.Context, studentID uint) (models.StudentProfile, models.Family, error) {
	profile, err := s.profiles.GetByUserID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, models.Family{}, ErrStudentNotFound
		}
		return models.StudentProfile{}, models.Family{}, err
	}

	family, err := s.families.GetByID(ctx, profile.FamilyID)
	if err != nil {
		return models.StudentProfile{}, models.Family{}, err
	}

	return profile, family, nil
}

// lessonSummaries lists the student's lessons for a schedule slot, joined with
// their progress rows. A nil day spans the whole week.
func (s *progressService) lessonSummaries(ctx context.Context, profile models.StudentProfile, studentID uint, week int, day *int) ([]dto.LessonSummary, error) {
	courses, err := s.coursesForProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessons.ListByCourses(ctx, courseIDs(courses), repository.LessonFilter{
		WeekNumber: &week,
		DayNumber:  day,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}

	ledger, err := s.progress.ListLessonProgressByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	byLesson := map[uint]models.LessonProgress{}
	for _, entry := range ledger {
		byLesson[entry.LessonID] = entry
	}

	summaries := make([]dto.LessonSummary, 0, len(lessons))
	for _, lesson := range lessons {
		var progress *models.LessonProgress
		if entry, ok := byLesson[lesson.ID]; ok {
			progress = &entry
		}
		summaries = append(summaries, dto.NewLessonSummary(lesson, progress))
	}

	return summaries, nil
}

// coursesForProfile returns the active courses for the student's grade. A
// student without a grade assignment has no courses yet.
func (s *progressService) coursesForProfile(ctx context.Context, profile models.StudentProfile) ([]models.Course, error) {
	if profile.CurrentGradeID == nil {
		return []models.Course{}, nil
	}
	return s.curriculum.ListCoursesByGrade(ctx, *profile.CurrentGradeID, true)
}

func courseIDs(courses []models.Course) []uint {
	ids := make([]uint, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}
	return ids
}

// roundPercent computes round(100*part/total), with an empty total pinned to 0.
func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func readCache[T any](ctx context.Context, cache *redis.Client, logger zerolog.Logger, key string) (T, bool) {
	var zero T
	if cache == nil {
		return zero, false
	}

	cached, err := cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("key", key).Msg("failed to read cache")
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal([]byte(cached), &value); err != nil {
		return zero, false
	}

	logger.Debug().Str("key", key).Msg("cache hit")
	return value, true
}

func writeCache(ctx context.Context, cache *redis.Client, logger zerolog.Logger, key string, ttl time.Duration, value interface{}) {
	if cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("failed to store cache")
	}
}
