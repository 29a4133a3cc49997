package prep

import (
	"context"
	"fmt"
	"os"

	"cmacbench/logger"
	"cmacbench/model"
)

// Clean removes all generated directories: the dataset root and the
// restricted root. Inventory rows for the cleaned groups are deleted
// as well, so the database never describes data that no longer exists.
func (r *Runner) Clean(ctx context.Context, groups []model.BiosoundGroup) error {
	for _, root := range []string{r.cfg.DatasetRoot, r.cfg.RestrictedRoot} {
		logger.Info("Removing generated root", logger.String("dir", root))
		if r.dryRun {
			continue
		}
		if err := os.RemoveAll(root); err != nil {
			return fmt.Errorf("failed to remove %s: %w", root, err)
		}
	}

	if r.samples != nil && !r.dryRun {
		for _, g := range groups {
			n, err := r.samples.DeleteByGroup(string(g))
			if err != nil {
				logger.Warn("Failed to delete inventory rows",
					logger.String("group", string(g)),
					logger.ErrorField(err))
				continue
			}
			logger.Info("Deleted inventory rows",
				logger.String("group", string(g)),
				logger.Int64("rows", n))
		}
	}

	r.publish(string(StageClean), "", "generated directories removed", 0, false)
	return nil
}
