package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cmacbench/logger"

	"github.com/redis/go-redis/v9"
)

// QC verdicts are cached per annotation file so re-running the qc
// stage skips files that have not changed since the last run. The key
// fingerprints the file by path, size and mtime; any edit invalidates
// the entry.

const (
	// VerdictOK marks a file that passed all checks.
	VerdictOK = "ok"

	qcCacheTTL = 7 * 24 * time.Hour
)

// QCCacheKey builds the cache key for an annotation file. Returns an
// error when the file cannot be stat'd.
func QCCacheKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s for qc cache key: %w", path, err)
	}
	return fmt.Sprintf("qc:%s:%d:%d", path, info.Size(), info.ModTime().UnixNano()), nil
}

// SetQCVerdict caches the verdict for a file: VerdictOK or a
// quarantine reason.
func SetQCVerdict(key, verdict string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Set(ctx, key, verdict, qcCacheTTL).Err(); err != nil {
		logger.Error("Failed to set qc verdict cache",
			logger.String("key", key),
			logger.ErrorField(err))
		return err
	}
	return nil
}

// GetQCVerdict returns the cached verdict for a file, or "" on a cache
// miss. Transient Redis errors are retried with backoff and finally
// treated as a miss, so QC falls back to re-checking the file rather
// than failing the run.
func GetQCVerdict(key string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	maxRetries := 2
	retryDelay := 100 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		verdict, err := RedisClient.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ""
			}
			if attempt < maxRetries-1 {
				logger.Warn("Failed to get qc verdict cache, retrying",
					logger.String("key", key),
					logger.Int("attempt", attempt+1),
					logger.ErrorField(err))
				time.Sleep(retryDelay)
				retryDelay *= 2
				continue
			}
			logger.Error("Failed to get qc verdict cache, treating as miss",
				logger.String("key", key),
				logger.ErrorField(err))
			return ""
		}
		return verdict
	}
	return ""
}
