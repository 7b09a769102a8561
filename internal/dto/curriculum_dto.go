package dto

import "github.com/hearthschool/hearth-go-api/internal/models"

// GradeResponse serializes a grade-level reference entry.
type GradeResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
	IsActive   bool   `json:"is_active"`
}

// SubjectResponse serializes a curriculum subject.
type SubjectResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	OrderIndex int    `json:"order_index"`
	IsActive   bool   `json:"is_active"`
}

// CourseResponse serializes a course with its inherited subject display data.
type CourseResponse struct {
	ID         uint            `json:"id"`
	GradeID    uint            `json:"grade_id"`
	Title      string          `json:"title"`
	TotalWeeks int             `json:"total_weeks"`
	IsActive   bool            `json:"is_active"`
	Subject    SubjectResponse `json:"subject"`
}

// UnitResponse serializes one curriculum week within a course.
type UnitResponse struct {
	ID             uint   `json:"id"`
	CourseID       uint   `json:"course_id"`
	Title          string `json:"title"`
	WeekNumber     int    `json:"week_number"`
	MemoryVerse    string `json:"memory_verse,omitempty"`
	VerseReference string `json:"verse_reference,omitempty"`
}

// CourseDetailResponse is a course plus its ordered units.
type CourseDetailResponse struct {
	CourseResponse
	GradeName string         `json:"grade_name"`
	Units     []UnitResponse `json:"units"`
}

// CourseCreateRequest describes an admin course definition.
type CourseCreateRequest struct {
	GradeID    uint   `json:"grade_id" validate:"required,gt=0"`
	SubjectID  uint   `json:"subject_id" validate:"required,gt=0"`
	Title      string `json:"title" validate:"required,min=2,max=255"`
	TotalWeeks int    `json:"total_weeks" validate:"omitempty,gt=0,lte=52"`
}

// UnitCreateRequest describes an admin unit definition.
type UnitCreateRequest struct {
	CourseID       uint   `json:"course_id" validate:"required,gt=0"`
	Title          string `json:"title" validate:"required,min=2,max=255"`
	WeekNumber     int    `json:"week_number" validate:"required,gt=0"`
	MemoryVerse    string `json:"memory_verse"`
	VerseReference string `json:"verse_reference" validate:"max=128"`
}

// NewGradeResponse converts a Grade model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	return GradeResponse{
		ID:         model.ID,
		Name:       model.Name,
		OrderIndex: model.OrderIndex,
		IsActive:   model.IsActive,
	}
}

// NewSubjectResponse converts a Subject model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:         model.ID,
		Name:       model.Name,
		Color:      model.Color,
		OrderIndex: model.OrderIndex,
		IsActive:   model.IsActive,
	}
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:         model.ID,
		GradeID:    model.GradeID,
		Title:      model.Title,
		TotalWeeks: model.TotalWeeks,
		IsActive:   model.IsActive,
		Subject:    NewSubjectResponse(model.Subject),
	}
}

// NewUnitResponse converts a Unit model into a DTO.
func NewUnitResponse(model models.Unit) UnitResponse {
	return UnitResponse{
		ID:             model.ID,
		CourseID:       model.CourseID,
		Title:          model.Title,
		WeekNumber:     model.WeekNumber,
		MemoryVerse:    model.MemoryVerse,
		VerseReference: model.VerseReference,
	}
}

// NewGradeResponseSlice maps a list of grades.
func NewGradeResponseSlice(grades []models.Grade) []GradeResponse {
	out := make([]GradeResponse, 0, len(grades))
	for _, grade := range grades {
		out = append(out, NewGradeResponse(grade))
	}
	return out
}

// NewSubjectResponseSlice maps a list of subjects.
func NewSubjectResponseSlice(subjects []models.Subject) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, NewSubjectResponse(subject))
	}
	return out
}

// NewCourseResponseSlice maps a list of courses.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, NewCourseResponse(course))
	}
	return out
}
