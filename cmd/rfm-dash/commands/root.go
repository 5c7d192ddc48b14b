package commands

import (
	"rfm-dash/internal/config"
	"rfm-dash/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "rfm-dash",
	Short: "rfm-dash turns transaction CSVs into a customer-value dashboard",
	Long: `A customer analytics engine that ingests transaction CSV data, derives
recency/frequency/monetary metrics per customer, partitions customers into four
value segments, and produces the full dashboard view-model (totals, category
shares, cohort retention, CLV distribution, per-segment RFM scores, revenue
time series).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Time("referenceNow", cfg.ReferenceNow).
			Msg("rfm-dash starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
