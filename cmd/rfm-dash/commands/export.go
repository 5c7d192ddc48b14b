package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"rfm-dash/internal/ingest"
	"rfm-dash/internal/store"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export the current dataset's transactions as CSV",
	Long: `Loads the persisted snapshot and writes its transactions back out as
comma-separated text with the canonical header names. Values are not quoted,
matching the parser's embedded-comma limitation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.New(cfg.ReferenceNow)
		if err := st.LoadSnapshot(cfg.SnapshotDir); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}

		dataset := st.GetData()
		if dataset == nil {
			return fmt.Errorf("%w: run 'rfm-dash process' first", store.ErrNoDataset)
		}

		csv := ingest.Export(dataset.Transactions)

		if exportOutput == "" || exportOutput == "-" {
			_, err := os.Stdout.WriteString(csv)
			return err
		}
		if err := os.WriteFile(exportOutput, []byte(csv), 0644); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		log.Info().Str("path", exportOutput).Int("transactions", len(dataset.Transactions)).Msg("CSV exported")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "analytics-results.csv", "CSV destination ('-' for stdout)")
	rootCmd.AddCommand(exportCmd)
}
