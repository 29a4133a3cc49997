package cmd

import (
	"context"
	"fmt"

	"cmacbench/core/prep"
	"cmacbench/model"
	"cmacbench/storage"

	"github.com/spf13/cobra"
)

var (
	publishGroups []string
	fetchGroups   []string
	fetchDest     string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload prepared dataset artifacts to object storage",
	Long: `Upload the prepared artifacts of one or more groups (audio, annotations,
metadata, targets, split manifests) to the configured bucket. Restricted
groups are refused: data we can't share never leaves the machine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := model.ParseGroups(publishGroups)
		if err != nil {
			return err
		}
		if len(publishGroups) == 0 {
			// default to everything shareable
			var shareable []model.BiosoundGroup
			for _, g := range groups {
				if !g.Restricted() {
					shareable = append(shareable, g)
				}
			}
			groups = shareable
		}
		for _, g := range groups {
			if g.Restricted() {
				return fmt.Errorf("group %s is restricted and cannot be published", g)
			}
		}

		if err := storage.InitMinio(cfg); err != nil {
			return err
		}

		ctx := context.Background()
		for _, g := range groups {
			groupDir := prep.GroupRoot(cfg, g)
			if _, err := storage.PublishGroup(ctx, cfg, groupDir, string(g)); err != nil {
				return err
			}
		}
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download prepared dataset artifacts from object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := model.ParseGroups(fetchGroups)
		if err != nil {
			return err
		}

		if err := storage.InitMinio(cfg); err != nil {
			return err
		}

		dest := fetchDest
		if dest == "" {
			dest = cfg.DatasetRoot
		}
		ctx := context.Background()
		for _, g := range groups {
			if _, err := storage.FetchGroup(ctx, cfg, dest, string(g)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().StringSliceVar(&publishGroups, "groups", nil, "groups to publish (default: all non-restricted)")
	fetchCmd.Flags().StringSliceVar(&fetchGroups, "groups", nil, "groups to fetch (default: all)")
	fetchCmd.Flags().StringVar(&fetchDest, "dest", "", "destination directory (default: dataset root)")
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(fetchCmd)
}
