package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// PurgeExpiredEntries runs one purge pass. It is started on a cron schedule
// because the Postgres substrate has no native expiry.
func PurgeExpiredEntries(ctx workflow.Context) (PurgeResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting purge workflow")

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        30 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{"DependencyError"},
		},
	}
	activityCtx := workflow.WithActivityOptions(ctx, activityOptions)

	var result PurgeResult
	if err := workflow.ExecuteActivity(activityCtx, PurgeExpiredEntriesActivity).Get(ctx, &result); err != nil {
		logger.Error("Purge workflow failed", "error", err)
		return PurgeResult{}, err
	}

	logger.Info("Purge workflow completed", "deleted", result.Deleted)
	return result, nil
}
