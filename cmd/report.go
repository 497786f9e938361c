package main

import (
	"encoding/json"
	"fmt"
	"os"

	"pupcare/services"

	"github.com/spf13/cobra"
)

var (
	reportPuppy uint
	reportRange string
	reportJSON  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a puppy's care summary",
	Long:  `Aggregates the stored day logs for one puppy over a range (7d, 30d, ytd or all) and prints the text digest, or the range summary as JSON.`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().UintVar(&reportPuppy, "puppy", 0, "puppy id (required)")
	reportCmd.Flags().StringVar(&reportRange, "range", "7d", "range: 7d, 30d, ytd or all")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the range summary as JSON")
	_ = reportCmd.MarkFlagRequired("puppy")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	key, ok := services.ParseRange(reportRange)
	if !ok {
		return fmt.Errorf("unknown range %q", reportRange)
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := buildApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	if reportJSON {
		sum, err := a.analytics.Summary(cmd.Context(), reportPuppy, key)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	text, err := a.analytics.TextSummary(cmd.Context(), reportPuppy, key)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}
