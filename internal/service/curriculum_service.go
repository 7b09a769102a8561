package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/grading"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/repository"
)

var (
	// ErrCourseNotFound indicates the course was not located.
	ErrCourseNotFound = errors.New("course not found")
	// ErrGradeNotFound indicates the grade was not located.
	ErrGradeNotFound = errors.New("grade not found")
	// ErrInvalidActivityKey indicates an answer-key payload that does not
	// decode for its declared activity type.
	ErrInvalidActivityKey = errors.New("answer key rejected")
)

// CurriculumService serves the curriculum catalog and authors new content.
// All authored rich text passes through the HTML sanitizer before persisting.
type CurriculumService interface {
	ListGrades(ctx context.Context) ([]dto.GradeResponse, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	ListCourses(ctx context.Context, gradeID uint) ([]dto.CourseResponse, error)
	CourseDetail(ctx context.Context, courseID uint) (dto.CourseDetailResponse, error)
	LessonDetail(ctx context.Context, lessonID uint, studentView bool) (dto.LessonDetailResponse, error)
	CreateCourse(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	CreateUnit(ctx context.Context, payload dto.UnitCreateRequest) (dto.UnitResponse, error)
	CreateLesson(ctx context.Context, payload dto.LessonCreateRequest) (dto.LessonDetailResponse, error)
	CreateContentBlock(ctx context.Context, payload dto.ContentBlockCreateRequest) (dto.ContentBlockResponse, error)
	CreateActivity(ctx context.Context, payload dto.ActivityCreateRequest) (dto.ActivityView, error)
}

type curriculumService struct {
	curriculum repository.CurriculumRepository
	lessons    repository.LessonRepository
	activities repository.ActivityRepository
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewCurriculumService constructs the curriculum service.
func NewCurriculumService(curriculum repository.CurriculumRepository, lessons repository.LessonRepository, activities repository.ActivityRepository, validate *validator.Validate, logger zerolog.Logger) CurriculumService {
	return &curriculumService{
		curriculum: curriculum,
		lessons:    lessons,
		activities: activities,
		validator:  validate,
		sanitizer:  bluemonday.UGCPolicy(),
		logger:     logger.With().Str("component", "curriculum_service").Logger(),
	}
}

func (s *curriculumService) ListGrades(ctx context.Context) ([]dto.GradeResponse, error) {
	grades, err := s.curriculum.ListGrades(ctx, true)
	if err != nil {
		return nil, err
	}

	return dto.NewGradeResponseSlice(grades), nil
}

func (s *curriculumService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.curriculum.ListSubjects(ctx, true)
	if err != nil {
		return nil, err
	}

	return dto.NewSubjectResponseSlice(subjects), nil
}

func (s *curriculumService) ListCourses(ctx context.Context, gradeID uint) ([]dto.CourseResponse, error) {
	if _, err := s.curriculum.GetGrade(ctx, gradeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}

	courses, err := s.curriculum.ListCoursesByGrade(ctx, gradeID, true)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *curriculumService) CourseDetail(ctx context.Context, courseID uint) (dto.CourseDetailResponse, error) {
	course, err := s.curriculum.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseDetailResponse{}, ErrCourseNotFound
		}
		return dto.CourseDetailResponse{}, err
	}

	units, err := s.curriculum.ListUnitsByCourse(ctx, courseID)
	if err != nil {
		return dto.CourseDetailResponse{}, err
	}

	detail := dto.CourseDetailResponse{
		CourseResponse: dto.NewCourseResponse(course),
		GradeName:      course.Grade.Name,
		Units:          make([]dto.UnitResponse, 0, len(units)),
	}
	for _, unit := range units {
		detail.Units = append(detail.Units, dto.NewUnitResponse(unit))
	}

	return detail, nil
}

func (s *curriculumService) LessonDetail(ctx context.Context, lessonID uint, studentView bool) (dto.LessonDetailResponse, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonDetailResponse{}, ErrLessonNotFound
		}
		return dto.LessonDetailResponse{}, err
	}

	return dto.NewLessonDetailResponse(lesson, studentView), nil
}

func (s *curriculumService) CreateCourse(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		GradeID:    payload.GradeID,
		SubjectID:  payload.SubjectID,
		Title:      strings.TrimSpace(payload.Title),
		TotalWeeks: payload.TotalWeeks,
		IsActive:   true,
	}
	if err := s.curriculum.CreateCourse(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	created, err := s.curriculum.GetCourse(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course created")

	return dto.NewCourseResponse(created), nil
}

func (s *curriculumService) CreateUnit(ctx context.Context, payload dto.UnitCreateRequest) (dto.UnitResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UnitResponse{}, err
	}

	if _, err := s.curriculum.GetCourse(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UnitResponse{}, ErrCourseNotFound
		}
		return dto.UnitResponse{}, err
	}

	unit := models.Unit{
		CourseID:       payload.CourseID,
		Title:          strings.TrimSpace(payload.Title),
		WeekNumber:     payload.WeekNumber,
		MemoryVerse:    s.clean(payload.MemoryVerse),
		VerseReference: strings.TrimSpace(payload.VerseReference),
	}
	if err := s.curriculum.CreateUnit(ctx, &unit); err != nil {
		return dto.UnitResponse{}, err
	}

	return dto.NewUnitResponse(unit), nil
}

func (s *curriculumService) CreateLesson(ctx context.Context, payload dto.LessonCreateRequest) (dto.LessonDetailResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonDetailResponse{}, err
	}

	lesson := models.Lesson{
		CourseID:         payload.CourseID,
		UnitID:           payload.UnitID,
		Title:            strings.TrimSpace(payload.Title),
		WeekNumber:       payload.WeekNumber,
		DayNumber:        payload.DayNumber,
		OrderIndex:       payload.OrderIndex,
		EstimatedMinutes: payload.EstimatedMinutes,
		Objectives:       payload.Objectives,
		TeacherScript:    s.clean(payload.TeacherScript),
		ClosingPrayer:    s.clean(payload.ClosingPrayer),
		IsActive:         true,
	}
	if err := s.lessons.Create(ctx, &lesson); err != nil {
		return dto.LessonDetailResponse{}, err
	}

	return s.LessonDetail(ctx, lesson.ID, false)
}

func (s *curriculumService) CreateContentBlock(ctx context.Context, payload dto.ContentBlockCreateRequest) (dto.ContentBlockResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ContentBlockResponse{}, err
	}

	if _, err := s.lessons.GetByID(ctx, payload.LessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ContentBlockResponse{}, ErrLessonNotFound
		}
		return dto.ContentBlockResponse{}, err
	}

	forStudent := true
	if payload.ForStudent != nil {
		forStudent = *payload.ForStudent
	}

	block := models.LessonContentBlock{
		LessonID:    payload.LessonID,
		ContentType: payload.ContentType,
		Title:       strings.TrimSpace(payload.Title),
		Body:        s.clean(payload.Body),
		OrderIndex:  payload.OrderIndex,
		ForStudent:  forStudent,
		AudioEnable: payload.AudioEnabled,
	}
	if err := s.lessons.CreateContentBlock(ctx, &block); err != nil {
		return dto.ContentBlockResponse{}, err
	}

	return dto.NewContentBlockResponse(block), nil
}

// CreateActivity validates that the answer-key payload decodes for its type
// before persisting. Unknown activity types are allowed into the catalog;
// they surface to clients as unsupported until the grader learns them.
func (s *curriculumService) CreateActivity(ctx context.Context, payload dto.ActivityCreateRequest) (dto.ActivityView, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityView{}, err
	}

	if _, err := s.lessons.GetByID(ctx, payload.LessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityView{}, ErrLessonNotFound
		}
		return dto.ActivityView{}, err
	}

	if _, err := grading.DecodeKey(payload.ActivityType, json.RawMessage(payload.Data)); err != nil {
		return dto.ActivityView{}, fmt.Errorf("%w: %v", ErrInvalidActivityKey, err)
	}

	points := payload.Points
	if points <= 0 {
		points = 10
	}

	activity := models.Activity{
		LessonID:     payload.LessonID,
		ActivityType: payload.ActivityType,
		Title:        strings.TrimSpace(payload.Title),
		Instructions: s.clean(payload.Instructions),
		QuestionText: s.clean(payload.QuestionText),
		Data:         datatypes.JSON(payload.Data),
		Points:       points,
		Hint:         payload.Hint,
		Explanation:  s.clean(payload.Explanation),
		OrderIndex:   payload.OrderIndex,
	}
	if err := s.activities.Create(ctx, &activity); err != nil {
		return dto.ActivityView{}, err
	}

	return dto.NewActivityView(activity), nil
}

func (s *curriculumService) clean(input string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(input))
}
