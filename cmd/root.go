package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"strmsync/config"
	"strmsync/internal/classify"
)

var (
	cfg      *config.Config
	logLevel = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "strmsync",
	Short: "Sync a remote media drive into a local library of .strm files",
	Long: `strmsync lists a remote media drive, decides per file whether it becomes a
stream reference (.strm), a metadata download, a failure or a skip, and
materializes the result in a local media library.
Configuration is loaded from .env file or environment variables, and the
classification rules from a YAML processing config (see --config).`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if isVerbose(cmd) {
			logLevel.Set(slog.LevelDebug)
		}
	},
}

func Execute(config *config.Config) error {
	cfg = config
	logLevel.Set(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(syncCmd)

	rootCmd.PersistentFlags().StringP("bucket", "b", "", "Override bucket name from config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Processing config file (default: PROCESS_CONFIG or strmsync.yaml)")
}

func getBucketName(cmd *cobra.Command) string {
	bucket, _ := cmd.Flags().GetString("bucket")
	if bucket != "" {
		return bucket
	}
	return cfg.BucketName
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func processConfigPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return path
	}
	return cfg.ProcessConfig
}

func loadProcessor(cmd *cobra.Command) (*classify.Processor, error) {
	processCfg, err := config.LoadProcessConfig(processConfigPath(cmd))
	if err != nil {
		return nil, err
	}
	return classify.NewProcessorFromConfig(processCfg), nil
}
