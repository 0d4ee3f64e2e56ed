package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const RevokedTaskTTL = 24 * time.Hour

// RevocationList mirrors task revocations into Redis so workers can skip
// cancelled tasks without a database round trip. The database row stays
// the source of truth.
type RevocationList struct {
	client *redis.Client
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Mark a task as revoked
func (r *RevocationList) Mark(ctx context.Context, taskID string) error {
	return r.client.Set(ctx, RevokedTaskKey(taskID), "1", RevokedTaskTTL).Err()
}

// IsRevoked reports whether the task appears in the revocation list. Redis
// errors are treated as "not revoked" so a cache outage never blocks work.
func (r *RevocationList) IsRevoked(ctx context.Context, taskID string) bool {
	_, err := r.client.Get(ctx, RevokedTaskKey(taskID)).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logrus.WithError(err).Warnf("Failed to check revocation list for task %s", taskID)
		return false
	}
	return true
}

// Build cache key for a revoked task
func RevokedTaskKey(taskID string) string {
	return fmt.Sprintf("task:revoked:%s", taskID)
}
