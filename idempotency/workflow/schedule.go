package workflow

import (
	"context"
	"fmt"

	"encore.dev/rlog"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
)

// PurgeWorkflowID is the fixed id of the cron purge workflow, so every
// process scheduling it ends up sharing one execution.
const PurgeWorkflowID = "idempotency-purge"

// Register adds the purge workflow and activity to w.
func Register(w worker.Registry) {
	w.RegisterWorkflow(PurgeExpiredEntries)
	w.RegisterActivity(PurgeExpiredEntriesActivity)
}

// StartPurgeSchedule starts the cron purge workflow on taskQueue.
func StartPurgeSchedule(ctx context.Context, c client.Client, taskQueue, cronSchedule string) error {
	options := client.StartWorkflowOptions{
		ID:           PurgeWorkflowID,
		TaskQueue:    taskQueue,
		CronSchedule: cronSchedule,
	}

	_, err := c.ExecuteWorkflow(ctx, options, PurgeExpiredEntries)
	if err != nil {
		// Distinguish AlreadyStarted (benign) vs real failure
		if temporal.IsWorkflowExecutionAlreadyStartedError(err) {
			rlog.Info("purge workflow already scheduled", "workflow_id", PurgeWorkflowID)
			return nil
		}
		return fmt.Errorf("execute workflow %s: %w", PurgeWorkflowID, err)
	}

	rlog.Info("purge workflow scheduled", "workflow_id", PurgeWorkflowID, "cron", cronSchedule)
	return nil
}
