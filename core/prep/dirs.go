package prep

import (
	"fmt"
	"os"

	"cmacbench/logger"
	"cmacbench/model"
)

// Mkdirs creates the dataset roots and one destination directory per
// group.
func (r *Runner) Mkdirs(groups []model.BiosoundGroup) error {
	roots := []string{r.cfg.DatasetRoot}
	for _, g := range groups {
		if g.Restricted() {
			roots = append(roots, r.cfg.RestrictedRoot)
			break
		}
	}

	for _, root := range roots {
		logger.Info("Making dataset root", logger.String("dir", root))
		if !r.dryRun {
			if err := os.MkdirAll(root, 0755); err != nil {
				return fmt.Errorf("failed to make dataset root %s: %w", root, err)
			}
		}
	}

	for _, g := range groups {
		dst := GroupRoot(r.cfg, g)
		logger.Info("Making group directory",
			logger.String("group", string(g)),
			logger.String("dir", dst))
		if !r.dryRun {
			if err := os.MkdirAll(dst, 0755); err != nil {
				return fmt.Errorf("failed to make group directory %s: %w", dst, err)
			}
		}
	}
	r.publish(string(StageMkdirs), "", "directories created", 0, false)
	return nil
}
