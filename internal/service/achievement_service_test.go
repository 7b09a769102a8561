package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hearthschool/hearth-go-api/internal/repository"
)

func TestEvaluateCompletionAwardsOnce(t *testing.T) {
	db := newServiceDB(t)
	repo := repository.NewAchievementRepository(db)
	_, err := repo.UpsertCatalog(context.Background(), CatalogDefaults())
	require.NoError(t, err)

	svc := NewAchievementService(repo, testLogger())

	snapshot := ProgressSnapshot{
		LessonsCompleted: 1,
		PointsTotal:      120,
		CurrentStreak:    7,
	}

	awarded, err := svc.EvaluateCompletion(context.Background(), 1, snapshot)
	require.NoError(t, err)
	require.Len(t, awarded, 3)

	again, err := svc.EvaluateCompletion(context.Background(), 1, snapshot)
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestEvaluateCompletionAccuracyThreshold(t *testing.T) {
	db := newServiceDB(t)
	repo := repository.NewAchievementRepository(db)
	_, err := repo.UpsertCatalog(context.Background(), CatalogDefaults())
	require.NoError(t, err)

	svc := NewAchievementService(repo, testLogger())

	// Exactly 90% accuracy qualifies.
	awarded, err := svc.EvaluateCompletion(context.Background(), 2, ProgressSnapshot{
		LessonsCompleted: 1,
		GradedResponses:  10,
		CorrectResponses: 9,
	})
	require.NoError(t, err)
	require.Len(t, awarded, 2)

	// Too few graded responses never awards the accuracy badge.
	awarded, err = svc.EvaluateCompletion(context.Background(), 3, ProgressSnapshot{
		LessonsCompleted: 1,
		GradedResponses:  4,
		CorrectResponses: 4,
	})
	require.NoError(t, err)
	require.Len(t, awarded, 1)
}

func TestEvaluateCompletionMissingCatalog(t *testing.T) {
	db := newServiceDB(t)
	svc := NewAchievementService(repository.NewAchievementRepository(db), testLogger())

	awarded, err := svc.EvaluateCompletion(context.Background(), 1, ProgressSnapshot{LessonsCompleted: 5})
	require.NoError(t, err)
	require.Empty(t, awarded)
}
