package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/trailhub/internal/core/domain"
)

// ArchiveInput is the input for the trail archival workflow.
type ArchiveInput struct {
	TrailID string
	EndedAt time.Time
}

// TrailArchiveWorkflow closes a finished trail, computes and persists its
// summary statistics, and announces the archived trail. If the announcement
// fails, the persisted stats are removed again (saga compensation).
func TrailArchiveWorkflow(ctx workflow.Context, input ArchiveInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting trail archival", "trailID", input.TrailID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: mark the trail as finished
	err := workflow.ExecuteActivity(ctx, "CloseTrail", input.TrailID, input.EndedAt).Get(ctx, nil)
	if err != nil {
		return err
	}

	// Step 2: compute summary statistics from the stored fixes
	var stats domain.TrailStats
	err = workflow.ExecuteActivity(ctx, "ComputeTrailStats", input.TrailID).Get(ctx, &stats)
	if err != nil {
		return err
	}

	// Step 3: persist the summary
	err = workflow.ExecuteActivity(ctx, "SaveTrailStats", stats).Get(ctx, nil)
	if err != nil {
		return err
	}

	// Step 4: announce the archived trail
	err = workflow.ExecuteActivity(ctx, "PublishTrailArchived", input.TrailID).Get(ctx, nil)
	if err != nil {
		logger.Warn("announce failed, rolling back stats", "error", err)
		// Compensate: remove the persisted stats
		_ = workflow.ExecuteActivity(ctx, "DeleteTrailStats", input.TrailID).Get(ctx, nil)
		return err
	}

	logger.Info("Trail archived", "trailID", input.TrailID, "fixes", stats.FixCount)
	return nil
}
