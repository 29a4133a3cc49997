package cmd

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	"cmacbench/cache"
	"cmacbench/core/prep"
	"cmacbench/db"
	"cmacbench/logger"
	"cmacbench/model"
	"cmacbench/repository"

	"github.com/spf13/cobra"
)

var (
	prepStage  string
	prepGroups []string
	prepDryRun bool
	prepWatch  bool
	prepNoDB   bool
)

var prepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Prepare the CMACBench dataset",
	Long: `Run the dataset preparation pipeline, either one stage or all of them:
clean, mkdirs, copy, labels, qc, make, split. By default this is a dry run
that logs what would happen without touching anything; pass --dry-run=false
to actually prepare data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := prep.ParseStage(prepStage)
		if err != nil {
			return err
		}
		groups, err := model.ParseGroups(prepGroups)
		if err != nil {
			return err
		}

		opts := []prep.Option{}

		if !prepNoDB {
			if err := db.ConnectDB(cfg); err != nil {
				logger.Warn("Database unavailable, running without inventory", logger.ErrorField(err))
			} else {
				defer db.DB.Close()
				if err := db.InitDB(); err != nil {
					return err
				}
				opts = append(opts, prep.WithInventory(
					repository.NewMySQLSampleRepository(),
					repository.NewMySQLQCReportRepository(),
					repository.NewMySQLSplitRepository(),
				))
				if err := db.ConnectGormDB(cfg); err != nil {
					logger.Warn("GORM connection failed, runs will not be recorded", logger.ErrorField(err))
				} else {
					defer db.CloseGormDB()
					if err := db.AutoMigrateModels(&model.PrepRun{}); err != nil {
						return err
					}
					opts = append(opts, prep.WithRunLog(repository.NewGormRunRepository()))
				}
			}
		}

		if err := cache.ConnectRedis(cfg); err != nil {
			logger.Warn("Redis unavailable, running without qc cache", logger.ErrorField(err))
		} else {
			defer cache.CloseRedis()
			opts = append(opts,
				prep.WithQCCache(),
				prep.WithProgress(func(ev prep.ProgressEvent) {
					payload, err := json.Marshal(ev)
					if err != nil {
						return
					}
					cache.PublishProgress(payload)
				}),
			)
		}

		if prepWatch {
			opts = append(opts, prep.WithWatch())
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runner := prep.NewRunner(cfg, opts...)
		return runner.Run(ctx, stage, groups, prepDryRun)
	},
}

func init() {
	prepCmd.Flags().StringVar(&prepStage, "stage", "all", "stage to run: all, clean, mkdirs, copy, labels, qc, make, split")
	prepCmd.Flags().StringSliceVar(&prepGroups, "groups", nil, "biosound groups to prepare (default: all)")
	prepCmd.Flags().BoolVar(&prepDryRun, "dry-run", true, "log what would happen without touching anything")
	prepCmd.Flags().BoolVar(&prepWatch, "watch", false, "keep watching raw directories for new files during the copy stage")
	prepCmd.Flags().BoolVar(&prepNoDB, "no-db", false, "skip the inventory database entirely")
	rootCmd.AddCommand(prepCmd)
}
