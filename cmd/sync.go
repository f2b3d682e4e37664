package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"strmsync/internal/classify"
	"strmsync/internal/metrics"
	"strmsync/internal/models"
	"strmsync/internal/strm"
	"strmsync/pkg/utils"
)

var syncCmd = &cobra.Command{
	Use:   "sync [prefix]",
	Short: "Write .strm files and download media metadata into the local library",
	Long: `List the remote drive, classify every object and act on the result:

- stream results become .strm files pointing at STRM_BASE_URL
- download results (subtitles, nfo, ...) are fetched next to them
- fail results are reported, skip results are ignored

Files are placed under LOCAL_MEDIA_LIBRARY_DIR, mirroring their path below
pan_media_dir. Existing .strm files with the same content are left alone.`,
	Example: `  # Sync the configured media directory
  strmsync sync --confirm

  # See what would be written without touching the library
  strmsync sync --dry-run

  # Sync into another library and export metrics for node_exporter
  strmsync sync --library /srv/media --metrics-file /var/lib/node_exporter/strmsync.prom --confirm`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, args)
	},
}

func runSync(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	startTime := time.Now()
	confirm, _ := cmd.Flags().GetBool("confirm")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	processor, err := loadProcessor(cmd)
	if err != nil {
		utils.WriteError(out, err, "sync")
		return err
	}

	writer, err := strm.NewWriter(libraryDir(cmd), baseURL(cmd), processor.Config().PanMediaDir)
	if err != nil {
		utils.WriteError(out, err, "sync")
		return err
	}
	if writer.BaseURL == "" && !dryRun {
		utils.WriteError(out, strm.ErrNoBaseURL, "sync")
		return strm.ErrNoBaseURL
	}

	prefix := listingPrefix(args, processor)

	// Show confirmation prompt if not in confirm mode and not dry-run
	if !confirm && !dryRun {
		fmt.Fprintf(out, "Sync operation summary:\n")
		fmt.Fprintf(out, "Bucket: %s\n", getBucketName(cmd))
		fmt.Fprintf(out, "Prefix: %s\n", prefix)
		fmt.Fprintf(out, "Library: %s\n", writer.LibraryDir)

		fmt.Fprint(out, "Continue with sync? (y/N): ")
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if !slices.Contains([]string{"y", "yes"}, strings.ToLower(response)) {
			fmt.Fprintln(out, "Sync cancelled.")
			return nil
		}
	}

	remote, err := openRemote(getBucketName(cmd))
	if err != nil {
		utils.WriteError(out, err, "sync")
		return err
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	recorder := metrics.NewRecorder()
	result := &models.SyncResult{
		BucketName: remote.Bucket(),
		LibraryDir: writer.LibraryDir,
		DryRun:     dryRun,
		StrmFiles:  []models.SyncItem{},
		Downloads:  []models.SyncItem{},
		Errors:     []models.SyncError{},
		Failed:     []classify.FailResult{},
	}
	s := &syncer{remote: remote, writer: writer, recorder: recorder, result: result, dryRun: dryRun}

	var summary classify.Summary
	_, err = classifyRemote(ctx, remote, processor, prefix, batchSize(cmd), func(r classify.PackedResult) error {
		recorder.ObserveBatch(r)
		bs := r.Summary()
		summary.Stream += bs.Stream
		summary.Download += bs.Download
		summary.Fail += bs.Fail
		summary.Skip += bs.Skip
		return s.apply(ctx, r)
	})
	if err != nil {
		utils.WriteError(out, err, "sync")
		return err
	}

	recorder.MarkCompleted()
	if metricsFile != "" {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			slog.Warn("Failed to export metrics", "path", metricsFile, "error", err)
		}
	}

	result.Summary = summary
	result.DownloadedHuman = utils.FormatBytes(result.DownloadedBytes)
	result.OperationTime = utils.FormatTime(startTime)
	result.SyncDuration = time.Since(startTime).String()

	if isVerbose(cmd) {
		cmd.Printf("Sync finished: %d .strm files, %d downloads, %d errors\n",
			len(result.StrmFiles), len(result.Downloads), len(result.Errors))
	}
	return writeResult(cmd, "sync", result)
}

// syncer applies classified batches to the local library. A failing item is
// recorded and never aborts the rest of the run.
type syncer struct {
	remote   remoteDrive
	writer   *strm.Writer
	recorder *metrics.Recorder
	result   *models.SyncResult
	dryRun   bool
}

func (s *syncer) apply(ctx context.Context, r classify.PackedResult) error {
	for _, st := range r.StrmResults {
		s.writeStream(st)
	}
	for _, dl := range r.DownloadResults {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.download(ctx, dl)
	}
	for _, f := range r.FailResults {
		slog.Warn("Item needs attention", "path", f.PathInPan, "reason", f.Reason)
	}
	s.result.Failed = append(s.result.Failed, r.FailResults...)
	return nil
}

func (s *syncer) writeStream(st classify.StreamResult) {
	if s.dryRun {
		s.result.StrmFiles = append(s.result.StrmFiles, models.SyncItem{
			PathInPan: st.PathInPan,
			LocalPath: s.writer.StrmPath(st.PathInPan),
		})
		return
	}

	target, written, err := s.writer.WriteStream(st)
	if err != nil {
		s.fail(st.PathInPan, err)
		return
	}
	if written {
		s.recorder.StrmWritten()
	}
	s.result.StrmFiles = append(s.result.StrmFiles, models.SyncItem{
		PathInPan: st.PathInPan,
		LocalPath: target,
		Unchanged: !written,
	})
}

func (s *syncer) download(ctx context.Context, dl classify.DownloadResult) {
	target := s.writer.DownloadTarget(dl)
	if s.dryRun {
		s.result.Downloads = append(s.result.Downloads, models.SyncItem{PathInPan: dl.PathInPan, LocalPath: target})
		return
	}

	n, err := s.remote.DownloadObject(ctx, dl.PathInPan, target)
	if err != nil {
		s.fail(dl.PathInPan, err)
		return
	}
	s.recorder.MetadataDownloaded(n)
	s.result.DownloadedBytes += n
	s.result.Downloads = append(s.result.Downloads, models.SyncItem{PathInPan: dl.PathInPan, LocalPath: target, Size: n})
	slog.Debug("Downloaded media info", "path", dl.PathInPan, "local", target, "bytes", n)
}

func (s *syncer) fail(pathInPan string, err error) {
	slog.Error("Sync failed for item", "path", pathInPan, "error", err)
	s.recorder.TransferFailed()
	s.result.Errors = append(s.result.Errors, models.SyncError{PathInPan: pathInPan, Error: err.Error()})
}

func libraryDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("library"); dir != "" {
		return dir
	}
	return cfg.LibraryDir
}

func baseURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("base-url"); u != "" {
		return u
	}
	return cfg.StrmBaseURL
}

func init() {
	syncCmd.Flags().String("library", "", "Local media library directory (default: LOCAL_MEDIA_LIBRARY_DIR)")
	syncCmd.Flags().String("base-url", "", "Base URL written into .strm files (default: STRM_BASE_URL)")
	syncCmd.Flags().Int("batch-size", 0, "Items per classification batch (default: BATCH_SIZE or 1000)")
	syncCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	syncCmd.Flags().Bool("dry-run", false, "Report what would be written without touching the library")
	syncCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	syncCmd.Flags().Int("timeout", 3600, "Timeout in seconds for the operation (default: 1 hour)")
}
