package workflow

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// Purger deletes expired idempotency entries.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// ActivityDependencies holds the dependencies needed by activities
type ActivityDependencies struct {
	Purger Purger
}

var activityDeps *ActivityDependencies

// SetActivityDependencies sets the dependencies for activities
func SetActivityDependencies(purger Purger) {
	activityDeps = &ActivityDependencies{
		Purger: purger,
	}
}

// PurgeResult reports what a purge run removed.
type PurgeResult struct {
	Deleted int64 `json:"deleted"`
}

// PurgeExpiredEntriesActivity removes the entries whose expiry has passed
func PurgeExpiredEntriesActivity(ctx context.Context) (PurgeResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Purging expired idempotency entries")

	if activityDeps == nil || activityDeps.Purger == nil {
		logger.Error("Activity dependencies not set")
		return PurgeResult{}, temporal.NewApplicationError("activity dependencies not initialized", "DependencyError")
	}

	deleted, err := activityDeps.Purger.PurgeExpired(ctx)
	if err != nil {
		logger.Error("Failed to purge expired idempotency entries", "error", err)
		return PurgeResult{}, err
	}

	logger.Info("Purged expired idempotency entries", "deleted", deleted)
	return PurgeResult{Deleted: deleted}, nil
}
