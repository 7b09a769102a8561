package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func studentStatsCacheKey(studentID uint) string {
	return fmt.Sprintf("stats:student:%d", studentID)
}

func familyProgressCacheKey(familyID uint) string {
	return fmt.Sprintf("progress:family:%d", familyID)
}

// invalidateProgressCaches drops the cached dashboard payloads touched by a
// progress write. Cache misses after invalidation rebuild from the ledgers.
func invalidateProgressCaches(ctx context.Context, cache *redis.Client, logger zerolog.Logger, studentID, familyID uint) {
	if cache == nil {
		return
	}

	keys := []string{studentStatsCacheKey(studentID)}
	if familyID > 0 {
		keys = append(keys, familyProgressCacheKey(familyID))
	}

	if err := cache.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to invalidate progress caches")
	}
}
