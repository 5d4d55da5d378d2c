package cli

import (
	"fmt"

	"jobmatch/internal/common"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [user-id]",
	Short: "Produce ranked job recommendations for a user",
	Long: `Produce a ranked, explainable recommendation list for one user.

Seekers receive job postings ranked by rule score; employers receive the
candidate pool ranked against their profile. Data-layer failures never abort
a run: the result falls back to example opportunities and carries a notice.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		// Apply default format if not specified
		if recommendConfig.OutputFormat == "" {
			recommendConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(recommendConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRecommend,
}

var recommendConfig common.CommandConfig

var (
	recommendEmployer bool
	recommendRefresh  bool
	recommendSeedFile string
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	recommendCmd.Flags().StringVar(&recommendConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	recommendCmd.Flags().BoolVar(&recommendEmployer, "employer", false, "Rank the candidate pool for an employer instead of postings for a seeker")
	recommendCmd.Flags().BoolVar(&recommendRefresh, "refresh", false, "Force a fresh ranking run")
	recommendCmd.Flags().StringVar(&recommendSeedFile, "seed-file", "", "Store seed file (overrides config)")

	// Add completion for format flag
	_ = recommendCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if recommendSeedFile != "" {
		if err := common.NewFileProcessor(logger).ValidateSeedFile(recommendSeedFile); err != nil {
			return err
		}
	}

	comps, err := buildComponents(cfg, logger, recommendSeedFile, nil)
	if err != nil {
		return err
	}
	defer comps.Close()

	userID := args[0]
	audience := "seeker"
	if recommendEmployer {
		audience = "employer"
	}
	logger.Info("Starting ranking run",
		"user_id", userID,
		"audience", audience,
		"refresh", recommendRefresh,
		"output_format", recommendConfig.OutputFormat)

	run := comps.Pipeline.Recommend
	if recommendRefresh {
		run = comps.Pipeline.Refresh
	}

	result, err := run(cmd.Context(), userID, recommendEmployer)
	if err != nil {
		return fmt.Errorf("failed to produce recommendations: %w", err)
	}

	logger.Info("Ranking run completed",
		"candidates", len(result.Candidates),
		"fallback", result.SoftError != "")

	return common.NewOutputHandler(logger).HandleOutput(result, recommendConfig)
}
