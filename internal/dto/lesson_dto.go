package dto

import (
	"encoding/json"
	"time"

	"github.com/hearthschool/hearth-go-api/internal/grading"
	"github.com/hearthschool/hearth-go-api/internal/models"
)

// LessonSummary is the compact lesson shape used in schedules and listings.
type LessonSummary struct {
	ID               uint   `json:"id"`
	CourseID         uint   `json:"course_id"`
	Title            string `json:"title"`
	WeekNumber       int    `json:"week_number"`
	DayNumber        int    `json:"day_number"`
	OrderIndex       int    `json:"order_index"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	SubjectName      string `json:"subject_name"`
	SubjectColor     string `json:"subject_color"`
	Status           string `json:"status"`
	PointsEarned     int    `json:"points_earned"`
}

// ContentBlockResponse serializes one passage of lesson material.
type ContentBlockResponse struct {
	ID           uint   `json:"id"`
	ContentType  string `json:"content_type"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	OrderIndex   int    `json:"order_index"`
	ForStudent   bool   `json:"for_student"`
	AudioEnabled bool   `json:"audio_enabled"`
}

// ActivityView is the student-safe activity shape: presentation data only,
// with the answer key stripped. Unsupported types carry Supported=false so
// clients render them read-only with a notice.
type ActivityView struct {
	ID           uint     `json:"id"`
	ActivityType string   `json:"activity_type"`
	Title        string   `json:"title"`
	Instructions string   `json:"instructions"`
	QuestionText string   `json:"question_text"`
	Points       int      `json:"points"`
	Hint         *string  `json:"hint,omitempty"`
	Explanation  string   `json:"explanation"`
	OrderIndex   int      `json:"order_index"`
	Supported    bool     `json:"supported"`
	Options      []string `json:"options,omitempty"`
	Display      string   `json:"display,omitempty"`
	Verse        string   `json:"verse,omitempty"`
	Reference    string   `json:"reference,omitempty"`
}

// LessonDetailResponse is the full lesson payload for the lesson page.
type LessonDetailResponse struct {
	ID                  uint                   `json:"id"`
	CourseID            uint                   `json:"course_id"`
	Title               string                 `json:"title"`
	WeekNumber          int                    `json:"week_number"`
	DayNumber           int                    `json:"day_number"`
	EstimatedMinutes    int                    `json:"estimated_minutes"`
	Objectives          []string               `json:"objectives"`
	TeacherScript       string                 `json:"teacher_script,omitempty"`
	DiscussionQuestions string                 `json:"discussion_questions,omitempty"`
	ClosingPrayer       string                 `json:"closing_prayer,omitempty"`
	SubjectName         string                 `json:"subject_name"`
	SubjectColor        string                 `json:"subject_color"`
	MemoryVerse         string                 `json:"memory_verse,omitempty"`
	VerseReference      string                 `json:"verse_reference,omitempty"`
	ContentBlocks       []ContentBlockResponse `json:"content_blocks"`
	Activities          []ActivityView         `json:"activities"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// LessonCreateRequest describes an admin lesson definition.
type LessonCreateRequest struct {
	CourseID         uint     `json:"course_id" validate:"required,gt=0"`
	UnitID           uint     `json:"unit_id" validate:"required,gt=0"`
	Title            string   `json:"title" validate:"required,min=2,max=255"`
	WeekNumber       int      `json:"week_number" validate:"required,gt=0"`
	DayNumber        int      `json:"day_number" validate:"required,gte=1,lte=5"`
	OrderIndex       int      `json:"order_index" validate:"gte=0"`
	EstimatedMinutes int      `json:"estimated_minutes" validate:"omitempty,gt=0"`
	Objectives       []string `json:"objectives"`
	TeacherScript    string   `json:"teacher_script"`
	ClosingPrayer    string   `json:"closing_prayer"`
}

// ContentBlockCreateRequest describes an admin content block definition.
// ForStudent is a pointer so an omitted field (default student-visible) is
// distinguishable from an explicit false (parent-only note).
type ContentBlockCreateRequest struct {
	LessonID     uint   `json:"lesson_id" validate:"required,gt=0"`
	ContentType  string `json:"content_type" validate:"required,oneof=scripture story vocabulary note other"`
	Title        string `json:"title" validate:"max=255"`
	Body         string `json:"body" validate:"required"`
	OrderIndex   int    `json:"order_index" validate:"gte=0"`
	ForStudent   *bool  `json:"for_student"`
	AudioEnabled bool   `json:"audio_enabled"`
}

// ActivityCreateRequest describes an admin activity definition. Data carries
// the activity-type-specific answer key.
type ActivityCreateRequest struct {
	LessonID     uint            `json:"lesson_id" validate:"required,gt=0"`
	ActivityType string          `json:"activity_type" validate:"required"`
	Title        string          `json:"title" validate:"required,min=2,max=255"`
	Instructions string          `json:"instructions"`
	QuestionText string          `json:"question_text"`
	Data         json.RawMessage `json:"data" validate:"required"`
	Points       int             `json:"points" validate:"omitempty,gt=0"`
	Hint         *string         `json:"hint"`
	Explanation  string          `json:"explanation"`
	OrderIndex   int             `json:"order_index" validate:"gte=0"`
}

// NewContentBlockResponse converts a content block model into a DTO.
func NewContentBlockResponse(model models.LessonContentBlock) ContentBlockResponse {
	return ContentBlockResponse{
		ID:           model.ID,
		ContentType:  model.ContentType,
		Title:        model.Title,
		Body:         model.Body,
		OrderIndex:   model.OrderIndex,
		ForStudent:   model.ForStudent,
		AudioEnabled: model.AudioEnable,
	}
}

// NewActivityView builds the student-safe view of an activity. The decoded
// answer key contributes presentation fields only.
func NewActivityView(model models.Activity) ActivityView {
	view := ActivityView{
		ID:           model.ID,
		ActivityType: model.ActivityType,
		Title:        model.Title,
		Instructions: model.Instructions,
		QuestionText: model.QuestionText,
		Points:       model.Points,
		Hint:         model.Hint,
		Explanation:  model.Explanation,
		OrderIndex:   model.OrderIndex,
	}

	key, err := grading.DecodeKey(model.ActivityType, json.RawMessage(model.Data))
	if err != nil {
		return view
	}

	switch k := key.(type) {
	case grading.MultipleChoiceKey:
		view.Supported = true
		view.Options = k.Options
	case grading.TrueFalseKey:
		view.Supported = true
	case grading.FillBlankKey:
		view.Supported = true
		view.Display = k.Display
	case grading.MemoryVerseKey:
		view.Supported = true
		view.Verse = k.Verse
		view.Reference = k.Reference
	}

	return view
}

// NewLessonSummary converts a lesson plus its progress row (if any) into the
// listing shape.
func NewLessonSummary(model models.Lesson, progress *models.LessonProgress) LessonSummary {
	summary := LessonSummary{
		ID:               model.ID,
		CourseID:         model.CourseID,
		Title:            model.Title,
		WeekNumber:       model.WeekNumber,
		DayNumber:        model.DayNumber,
		OrderIndex:       model.OrderIndex,
		EstimatedMinutes: model.EstimatedMinutes,
		SubjectName:      model.Course.Subject.Name,
		SubjectColor:     model.Course.Subject.Color,
		Status:           models.ProgressStatusNotStarted,
	}

	if progress != nil {
		summary.Status = progress.Status
		summary.PointsEarned = progress.PointsEarned
	}

	return summary
}

// NewLessonDetailResponse converts a fully loaded lesson into the page payload.
// Student views exclude parent-only content blocks and teaching material.
func NewLessonDetailResponse(model models.Lesson, studentView bool) LessonDetailResponse {
	response := LessonDetailResponse{
		ID:               model.ID,
		CourseID:         model.CourseID,
		Title:            model.Title,
		WeekNumber:       model.WeekNumber,
		DayNumber:        model.DayNumber,
		EstimatedMinutes: model.EstimatedMinutes,
		Objectives:       model.Objectives,
		SubjectName:      model.Course.Subject.Name,
		SubjectColor:     model.Course.Subject.Color,
		MemoryVerse:      model.Unit.MemoryVerse,
		VerseReference:   model.Unit.VerseReference,
		UpdatedAt:        model.UpdatedAt,
	}

	if !studentView {
		response.TeacherScript = model.TeacherScript
		response.DiscussionQuestions = model.DiscussionQuestions
		response.ClosingPrayer = model.ClosingPrayer
	}

	response.ContentBlocks = make([]ContentBlockResponse, 0, len(model.ContentBlocks))
	for _, block := range model.ContentBlocks {
		if studentView && !block.ForStudent {
			continue
		}
		response.ContentBlocks = append(response.ContentBlocks, NewContentBlockResponse(block))
	}

	response.Activities = make([]ActivityView, 0, len(model.Activities))
	for _, activity := range model.Activities {
		response.Activities = append(response.Activities, NewActivityView(activity))
	}

	return response
}
