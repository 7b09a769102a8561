package dto

// CourseProgress reports a student's completion within one course.
type CourseProgress struct {
	CourseID        uint   `json:"course_id"`
	CourseTitle     string `json:"course_title"`
	SubjectName     string `json:"subject_name"`
	SubjectColor    string `json:"subject_color"`
	LessonsTotal    int    `json:"lessons_total"`
	LessonsComplete int    `json:"lessons_complete"`
	PercentComplete int    `json:"percent_complete"`
}

// StudentStatsResponse is the dashboard headline block for one student.
type StudentStatsResponse struct {
	StudentID        uint             `json:"student_id"`
	FirstName        string           `json:"first_name"`
	PointsTotal      int              `json:"points_total"`
	CurrentStreak    int              `json:"current_streak"`
	LongestStreak    int              `json:"longest_streak"`
	LessonsCompleted int              `json:"lessons_completed"`
	ActivitiesGraded int              `json:"activities_graded"`
	AccuracyPercent  int              `json:"accuracy_percent"`
	Courses          []CourseProgress `json:"courses"`
}

// TodaysLessonsResponse lists the lessons scheduled for the resolved
// curriculum day, or an empty list on non-school days.
type TodaysLessonsResponse struct {
	StudentID   uint            `json:"student_id"`
	WeekNumber  int             `json:"week_number"`
	DayNumber   int             `json:"day_number"`
	IsSchoolDay bool            `json:"is_school_day"`
	Lessons     []LessonSummary `json:"lessons"`
}

// ScheduleDay is one weekday column in the weekly schedule.
type ScheduleDay struct {
	DayNumber   int             `json:"day_number"`
	IsSchoolDay bool            `json:"is_school_day"`
	Lessons     []LessonSummary `json:"lessons"`
}

// WeeklyScheduleResponse lays out one curriculum week for a student.
type WeeklyScheduleResponse struct {
	StudentID  uint          `json:"student_id"`
	WeekNumber int           `json:"week_number"`
	Days       []ScheduleDay `json:"days"`
}

// FamilyStudentProgress is one student's row on the parent dashboard.
type FamilyStudentProgress struct {
	StudentID          uint   `json:"student_id"`
	FirstName          string `json:"first_name"`
	GradeName          string `json:"grade_name,omitempty"`
	PointsTotal        int    `json:"points_total"`
	CurrentStreak      int    `json:"current_streak"`
	LessonsToday       int    `json:"lessons_today"`
	LessonsTodayDone   int    `json:"lessons_today_done"`
	LessonsCompleted   int    `json:"lessons_completed"`
	OverallPercent     int    `json:"overall_percent"`
	LastCompletedTitle string `json:"last_completed_title,omitempty"`
}

// FamilyProgressResponse is the parent dashboard payload.
type FamilyProgressResponse struct {
	FamilyID   uint                    `json:"family_id"`
	WeekNumber int                     `json:"week_number"`
	DayNumber  int                     `json:"day_number"`
	Students   []FamilyStudentProgress `json:"students"`
}
