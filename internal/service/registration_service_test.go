package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/repository"
)

func newRegistrationService(t *testing.T) (RegistrationService, *registrationService) {
	t.Helper()

	db := newServiceDB(t)
	svc := NewRegistrationService(
		repository.NewFamilyRepository(db),
		repository.NewUserRepository(db),
		repository.NewStudentProfileRepository(db),
		testValidator(),
		"test-secret",
		time.Hour,
		testLogger(),
	)

	return svc, svc.(*registrationService)
}

func TestRegisterCreatesFamilyWithTrial(t *testing.T) {
	svc, inner := newRegistrationService(t)
	registeredAt := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	inner.now = func() time.Time { return registeredAt }

	response, err := svc.Register(context.Background(), dto.RegisterRequest{
		FamilyName: "Walker",
		FirstName:  "Sarah",
		LastName:   "Walker",
		Email:      "Sarah@Example.com",
		Password:   "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.Equal(t, models.RoleParent, response.User.Role)
	require.True(t, response.User.IsPrimaryParent)
	require.NotNil(t, response.User.Email)
	require.Equal(t, "sarah@example.com", *response.User.Email)

	family, err := inner.families.GetByID(context.Background(), response.User.FamilyID)
	require.NoError(t, err)
	require.Equal(t, registeredAt.AddDate(0, 0, 14), family.TrialEndsAt)
	require.ElementsMatch(t, []int{1, 2, 3, 4, 5}, []int(family.SchoolDays))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newRegistrationService(t)
	payload := dto.RegisterRequest{
		FamilyName: "Walker",
		FirstName:  "Sarah",
		LastName:   "Walker",
		Email:      "sarah@example.com",
		Password:   "hunter2hunter2",
	}

	_, err := svc.Register(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), payload)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, _ := newRegistrationService(t)
	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		FamilyName: "Walker",
		FirstName:  "Sarah",
		LastName:   "Walker",
		Email:      "sarah@example.com",
		Password:   "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "sarah@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "hunter2hunter2"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	response, err := svc.Login(context.Background(), dto.LoginRequest{Email: "sarah@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
}

func TestAddChildCreatesStudentProfile(t *testing.T) {
	svc, inner := newRegistrationService(t)
	parent, err := svc.Register(context.Background(), dto.RegisterRequest{
		FamilyName: "Walker",
		FirstName:  "Sarah",
		LastName:   "Walker",
		Email:      "sarah@example.com",
		Password:   "hunter2hunter2",
	})
	require.NoError(t, err)

	child, err := svc.AddChild(context.Background(), parent.User.FamilyID, dto.AddChildRequest{
		FirstName: "Noah",
		LastName:  "Walker",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, child.Role)
	require.NotNil(t, child.Profile)
	require.Zero(t, child.Profile.PointsTotal)

	students, err := inner.users.ListStudentsByFamily(context.Background(), parent.User.FamilyID)
	require.NoError(t, err)
	require.Len(t, students, 1)

	_, err = svc.AddChild(context.Background(), 999, dto.AddChildRequest{FirstName: "Lost", LastName: "Child"})
	require.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestFamilyAndChildrenRoundTrip(t *testing.T) {
	svc, _ := newRegistrationService(t)

	registered, err := svc.Register(context.Background(), dto.RegisterRequest{
		FamilyName: "Walker",
		FirstName:  "Sarah",
		LastName:   "Walker",
		Email:      "sarah@example.com",
		Password:   "hunter2hunter2",
	})
	require.NoError(t, err)
	familyID := registered.User.FamilyID

	family, err := svc.Family(context.Background(), familyID)
	require.NoError(t, err)
	require.Equal(t, "Walker", family.Name)
	require.Equal(t, "sarah@example.com", family.Email)

	_, err = svc.AddChild(context.Background(), familyID, dto.AddChildRequest{FirstName: "Noah", LastName: "Walker"})
	require.NoError(t, err)
	_, err = svc.AddChild(context.Background(), familyID, dto.AddChildRequest{FirstName: "Lily", LastName: "Walker"})
	require.NoError(t, err)

	children, err := svc.ListChildren(context.Background(), familyID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	require.Equal(t, "Noah", children[0].FirstName)
	require.Equal(t, "Lily", children[1].FirstName)

	_, err = svc.Family(context.Background(), 999)
	require.ErrorIs(t, err, ErrFamilyNotFound)
}
