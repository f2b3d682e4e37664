package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"strmsync/internal/classify"
	"strmsync/pkg/utils"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a JSON batch of drive entries without touching the drive",
	Long: `Read a JSON array of drive entries and print how each one is routed.

Each entry has the fields name, path, is_dir and optionally size, pickcode
and sha1. The output is a single JSON object with strm_results,
download_results, fail_results and skip_results.

The rules come from the processing config file, or from --config-json when a
host program passes them inline.`,
	Example: `  # Classify a batch file with the configured rules
  strmsync classify --batch listing.json

  # Pipe a batch through stdin with inline rules
  cat listing.json | strmsync classify --config-json '{"pan_media_dir":"/media","rmt_mediaext":["mkv"],"download_mediaext":[]}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(cmd)
	},
}

func runClassify(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	processor, err := classifyProcessor(cmd)
	if err != nil {
		utils.WriteError(out, err, "classify")
		return err
	}

	batch, err := readBatch(cmd)
	if err != nil {
		utils.WriteError(out, err, "classify")
		return err
	}

	result, err := processor.ProcessBatch(batch)
	if err != nil {
		utils.WriteError(out, err, "classify")
		return err
	}

	data, err := classify.EncodeResult(result)
	if err != nil {
		utils.WriteError(out, err, "classify")
		return err
	}
	fmt.Fprintln(out, string(data))

	s := result.Summary()
	slog.Debug("batch classified", "stream", s.Stream, "download", s.Download, "fail", s.Fail, "skip", s.Skip)
	return nil
}

func classifyProcessor(cmd *cobra.Command) (*classify.Processor, error) {
	if inline, _ := cmd.Flags().GetString("config-json"); inline != "" {
		return classify.NewProcessor([]byte(inline))
	}
	return loadProcessor(cmd)
}

func readBatch(cmd *cobra.Command) ([]byte, error) {
	batchPath, _ := cmd.Flags().GetString("batch")
	if batchPath == "" || batchPath == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read batch from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(batchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", batchPath, err)
	}
	return data, nil
}

func init() {
	classifyCmd.Flags().String("batch", "-", "Batch JSON file, - for stdin")
	classifyCmd.Flags().String("config-json", "", "Inline processing config JSON (overrides --config)")
}
