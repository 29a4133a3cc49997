package cmd

import (
	"encoding/json"
	"fmt"

	"cmacbench/core/stats"
	"cmacbench/db"
	"cmacbench/model"
	"cmacbench/repository"

	"github.com/spf13/cobra"
)

var statsGroups []string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print duration statistics of the prepared dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := model.ParseGroups(statsGroups)
		if err != nil {
			return err
		}

		if err := db.ConnectDB(cfg); err != nil {
			return err
		}
		defer db.DB.Close()

		samples := repository.NewMySQLSampleRepository()
		var summaries []*stats.GroupSummary
		for _, g := range groups {
			summary, err := stats.Summarize(samples, string(g))
			if err != nil {
				// groups that were never prepped just have no rows
				continue
			}
			summaries = append(summaries, summary)
		}

		out, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringSliceVar(&statsGroups, "groups", nil, "biosound groups to summarize (default: all)")
	rootCmd.AddCommand(statsCmd)
}
