package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"strmsync/internal/classify"
	"strmsync/internal/models"
	"strmsync/pkg/utils"
)

var scanCmd = &cobra.Command{
	Use:   "scan [prefix]",
	Short: "Classify the remote drive listing without writing anything",
	Long: `List every object of the bucket under the given prefix and classify it in
batches. The prefix defaults to the pan_media_dir of the processing config.

Nothing is written locally; the command prints per category results and
counts so the rules can be checked before running sync.`,
	Example: `  # Scan the configured media directory
  strmsync scan

  # Scan a sub folder with smaller batches
  strmsync scan media/tv/ --batch-size 200

  # Only print the counts
  strmsync scan --summary-only`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args)
	},
}

func runScan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	startTime := time.Now()

	processor, err := loadProcessor(cmd)
	if err != nil {
		utils.WriteError(out, err, "scan")
		return err
	}

	remote, err := openRemote(getBucketName(cmd))
	if err != nil {
		utils.WriteError(out, err, "scan")
		return err
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	prefix := listingPrefix(args, processor)
	if isVerbose(cmd) {
		cmd.Printf("Scanning bucket %s with prefix %q\n", remote.Bucket(), prefix)
	}

	results := classify.NewPackedResult()
	stats, err := classifyRemote(ctx, remote, processor, prefix, batchSize(cmd), func(r classify.PackedResult) error {
		results.Merge(r)
		return nil
	})
	if err != nil {
		utils.WriteError(out, err, "scan")
		return err
	}

	scan := &models.ScanResult{
		BucketName:     remote.Bucket(),
		Prefix:         prefix,
		PanMediaDir:    processor.Config().PanMediaDir,
		Batches:        stats.batches,
		ItemsListed:    stats.items,
		TotalSizeBytes: stats.totalBytes,
		TotalSizeHuman: utils.FormatBytes(stats.totalBytes),
		Summary:        results.Summary(),
		OperationTime:  utils.FormatTime(startTime),
		ScanDuration:   time.Since(startTime).String(),
	}
	if summaryOnly, _ := cmd.Flags().GetBool("summary-only"); !summaryOnly {
		scan.Results = &results
	}

	return writeResult(cmd, "scan", scan)
}

func batchSize(cmd *cobra.Command) int {
	if n, _ := cmd.Flags().GetInt("batch-size"); n > 0 {
		return n
	}
	return cfg.BatchSize
}

func writeResult(cmd *cobra.Command, command string, result any) error {
	if err := utils.WriteJSON(cmd.OutOrStdout(), result); err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, command)
		return err
	}
	return nil
}

func init() {
	scanCmd.Flags().Int("batch-size", 0, "Items per classification batch (default: BATCH_SIZE or 1000)")
	scanCmd.Flags().Int("timeout", 600, "Timeout in seconds for the operation")
	scanCmd.Flags().Bool("summary-only", false, "Print counts without per item results")
}
