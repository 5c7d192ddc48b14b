package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"rfm-dash/internal/analytics"
	"rfm-dash/internal/ingest"
	"rfm-dash/internal/store"
)

var (
	processOutput string
	processRange  string
)

var processCmd = &cobra.Command{
	Use:   "process <transactions.csv>",
	Short: "Parse a transaction CSV and build the dashboard view-model",
	Long: `Parses and cleans the given CSV, runs the full aggregation pipeline,
persists the resulting dataset as a snapshot, and writes the view-model JSON
to stdout or --output. A read failure or a file with zero usable rows leaves
any previously saved snapshot untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		records := ingest.Parse(string(raw), cfg.ReferenceNow)
		if len(records) == 0 {
			return fmt.Errorf("%s: %w", args[0], ingest.ErrNoUsableData)
		}

		cleaned := ingest.Clean(records, cfg.ReferenceNow)
		if cleaned.Modified > 0 {
			log.Info().Int("rows", cleaned.Modified).Msg("Cleaned rows during ingestion")
		}

		st := store.New(cfg.ReferenceNow)
		st.SetTimeRange(cfg.TimeRange)
		st.SetData(analytics.Process(cleaned.Records, cfg.ReferenceNow))

		if err := st.SaveSnapshot(cfg.SnapshotDir); err != nil {
			log.Warn().Err(err).Msg("Failed to persist snapshot")
		}

		dataset := st.GetData()
		if processRange != "" {
			st.SetTimeRange(processRange)
			dataset = st.GetFilteredData()
		}

		out, err := json.MarshalIndent(dataset, "", "  ")
		if err != nil {
			return fmt.Errorf("encode view-model: %w", err)
		}
		out = append(out, '\n')

		if processOutput == "" || processOutput == "-" {
			_, err = os.Stdout.Write(out)
			return err
		}
		if err := os.WriteFile(processOutput, out, 0644); err != nil {
			return fmt.Errorf("write %s: %w", processOutput, err)
		}
		log.Info().Str("path", processOutput).Msg("View-model written")
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "-", "view-model JSON destination ('-' for stdout)")
	processCmd.Flags().StringVar(&processRange, "range", "", "apply a time-range filter (24h|7d|30d|90d) to the output")
	rootCmd.AddCommand(processCmd)
}
