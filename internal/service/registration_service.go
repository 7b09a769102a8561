package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/repository"
)

const trialDays = 14

var (
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates login failed. The cause (missing user or
	// wrong password) is deliberately not distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrFamilyNotFound indicates the family was not located.
	ErrFamilyNotFound = errors.New("family not found")
)

// RegistrationService handles family signup, login and enrolling children.
type RegistrationService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	AddChild(ctx context.Context, familyID uint, payload dto.AddChildRequest) (dto.UserResponse, error)
	ListChildren(ctx context.Context, familyID uint) ([]dto.UserResponse, error)
	Family(ctx context.Context, familyID uint) (dto.FamilyResponse, error)
}

type registrationService struct {
	families  repository.FamilyRepository
	users     repository.UserRepository
	profiles  repository.StudentProfileRepository
	validator *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(families repository.FamilyRepository, users repository.UserRepository, profiles repository.StudentProfileRepository, validate *validator.Validate, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) RegistrationService {
	return &registrationService{
		families:  families,
		users:     users,
		profiles:  profiles,
		validator: validate,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "registration_service").Logger(),
		now:       time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	family := models.Family{
		Name:        strings.TrimSpace(payload.FamilyName),
		Email:       email,
		TrialEndsAt: s.now().AddDate(0, 0, trialDays),
	}
	if err := s.families.Create(ctx, &family); err != nil {
		return dto.AuthResponse{}, err
	}

	parent := models.User{
		FamilyID:        family.ID,
		Role:            models.RoleParent,
		FirstName:       strings.TrimSpace(payload.FirstName),
		LastName:        strings.TrimSpace(payload.LastName),
		Email:           &email,
		PasswordHash:    string(hash),
		IsPrimaryParent: true,
	}
	if err := s.users.Create(ctx, &parent); err != nil {
		return dto.AuthResponse{}, err
	}

	token, err := s.issueToken(parent)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("family_id", family.ID).Msg("family registered")

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(parent)}, nil
}

func (s *registrationService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *registrationService) AddChild(ctx context.Context, familyID uint, payload dto.AddChildRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.families.GetByID(ctx, familyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrFamilyNotFound
		}
		return dto.UserResponse{}, err
	}

	student := models.User{
		FamilyID:  familyID,
		Role:      models.RoleStudent,
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
	}
	if err := s.users.Create(ctx, &student); err != nil {
		return dto.UserResponse{}, err
	}

	profile := models.StudentProfile{
		UserID:         student.ID,
		FamilyID:       familyID,
		BirthDate:      payload.BirthDate,
		CurrentGradeID: payload.GradeID,
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return dto.UserResponse{}, err
	}
	student.Profile = &profile

	s.logger.Info().Uint("family_id", familyID).Uint("student_id", student.ID).Msg("child enrolled")

	return dto.NewUserResponse(student), nil
}

func (s *registrationService) Family(ctx context.Context, familyID uint) (dto.FamilyResponse, error) {
	family, err := s.families.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FamilyResponse{}, ErrFamilyNotFound
		}
		return dto.FamilyResponse{}, err
	}

	return dto.NewFamilyResponse(family), nil
}

func (s *registrationService) ListChildren(ctx context.Context, familyID uint) ([]dto.UserResponse, error) {
	if _, err := s.families.GetByID(ctx, familyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, err
	}

	students, err := s.users.ListStudentsByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	children := make([]dto.UserResponse, 0, len(students))
	for _, student := range students {
		children = append(children, dto.NewUserResponse(student))
	}

	return children, nil
}

func (s *registrationService) issueToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"role":      user.Role,
		"family_id": user.FamilyID,
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
