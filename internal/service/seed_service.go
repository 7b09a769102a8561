package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedReport summarizes what a seeding run touched.
type SeedReport struct {
	Grades       int64 `json:"grades"`
	Subjects     int64 `json:"subjects"`
	Achievements int64 `json:"achievements"`
}

// SeedService loads the reference data a fresh install needs: the grade
// ladder, the subject palette and the badge catalog.
type SeedService interface {
	SeedReferenceData(ctx context.Context, token string) (SeedReport, error)
}

type seedService struct {
	curriculum   repository.CurriculumRepository
	achievements repository.AchievementRepository
	enabled      bool
	token        string
	logger       zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(curriculum repository.CurriculumRepository, achievements repository.AchievementRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		curriculum:   curriculum,
		achievements: achievements,
		enabled:      enabled,
		token:        token,
		logger:       logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedReferenceData(ctx context.Context, token string) (SeedReport, error) {
	if !s.enabled {
		return SeedReport{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return SeedReport{}, ErrSeedUnauthorized
	}

	report := SeedReport{}

	grades, err := s.curriculum.UpsertGrades(ctx, gradeLadder())
	if err != nil {
		return SeedReport{}, err
	}
	report.Grades = grades

	subjects, err := s.curriculum.UpsertSubjects(ctx, subjectPalette())
	if err != nil {
		return SeedReport{}, err
	}
	report.Subjects = subjects

	badges, err := s.achievements.UpsertCatalog(ctx, CatalogDefaults())
	if err != nil {
		return SeedReport{}, err
	}
	report.Achievements = badges

	s.logger.Info().
		Int64("grades", report.Grades).
		Int64("subjects", report.Subjects).
		Int64("achievements", report.Achievements).
		Msg("reference data seeded")

	return report, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtleConstantTimeCompare(expected, strings.TrimSpace(token))
}

func subtleConstantTimeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}

func gradeLadder() []models.Grade {
	names := []string{
		"Kindergarten", "1st Grade", "2nd Grade", "3rd Grade", "4th Grade",
		"5th Grade", "6th Grade", "7th Grade", "8th Grade",
	}
	grades := make([]models.Grade, 0, len(names))
	for i, name := range names {
		grades = append(grades, models.Grade{Name: name, OrderIndex: i + 1, IsActive: true})
	}
	return grades
}

func subjectPalette() []models.Subject {
	return []models.Subject{
		{Name: "Bible", Color: "#6366f1", OrderIndex: 1, IsActive: true},
		{Name: "Math", Color: "#f59e0b", OrderIndex: 2, IsActive: true},
		{Name: "Reading", Color: "#10b981", OrderIndex: 3, IsActive: true},
		{Name: "Science", Color: "#3b82f6", OrderIndex: 4, IsActive: true},
		{Name: "History", Color: "#ef4444", OrderIndex: 5, IsActive: true},
	}
}
