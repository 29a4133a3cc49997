package cmd

import (
	"encoding/json"
	"fmt"

	"cmacbench/core/eval"

	"github.com/spf13/cobra"
)

var (
	evalReference  string
	evalHypothesis string
	evalTolerance  float64
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score a predicted segmentation against a reference annotation",
	Long: `Compare the segment boundaries of a hypothesis annotation file against a
reference annotation file. A hypothesis boundary within the tolerance of an
unmatched reference boundary counts as a hit; precision, recall and fscore
are printed as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tolerance := evalTolerance
		if tolerance <= 0 {
			tolerance = cfg.ToleranceS
		}
		result, err := eval.Files(evalReference, evalHypothesis, tolerance)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalReference, "reference", "", "reference annotation CSV (required)")
	evalCmd.Flags().StringVar(&evalHypothesis, "hypothesis", "", "hypothesis annotation CSV (required)")
	evalCmd.Flags().Float64Var(&evalTolerance, "tolerance", 0, "boundary matching tolerance in seconds (default from config)")
	evalCmd.MarkFlagRequired("reference")
	evalCmd.MarkFlagRequired("hypothesis")
	rootCmd.AddCommand(evalCmd)
}
