// Package metrics counts sync outcomes and exports them for the node
// exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"strmsync/internal/classify"
)

const (
	DispositionStream   = "stream"
	DispositionDownload = "download"
	DispositionFail     = "fail"
	DispositionSkip     = "skip"
)

type Recorder struct {
	registry *prometheus.Registry

	itemsTotal        *prometheus.CounterVec
	batchesTotal      prometheus.Counter
	strmFilesWritten  prometheus.Counter
	metadataBytes     prometheus.Counter
	transferErrors    prometheus.Counter
	lastSyncTimestamp prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		itemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strmsync_items_total",
				Help: "Total number of classified items by disposition",
			},
			[]string{"disposition"},
		),
		batchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "strmsync_batches_total",
				Help: "Total number of listing batches classified",
			},
		),
		strmFilesWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "strmsync_strm_files_written_total",
				Help: "Total number of .strm files created or updated",
			},
		),
		metadataBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "strmsync_metadata_bytes_downloaded_total",
				Help: "Total bytes of media metadata downloaded",
			},
		),
		transferErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "strmsync_transfer_errors_total",
				Help: "Total number of failed .strm writes or metadata downloads",
			},
		),
		lastSyncTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "strmsync_last_run_timestamp_seconds",
				Help: "Unix time of the last completed run",
			},
		),
	}

	r.registry.MustRegister(
		r.itemsTotal,
		r.batchesTotal,
		r.strmFilesWritten,
		r.metadataBytes,
		r.transferErrors,
		r.lastSyncTimestamp,
	)

	// Expose every disposition even when a run produced none of it.
	for _, d := range []string{DispositionStream, DispositionDownload, DispositionFail, DispositionSkip} {
		r.itemsTotal.WithLabelValues(d)
	}
	return r
}

// ObserveBatch records one classified batch.
func (r *Recorder) ObserveBatch(result classify.PackedResult) {
	s := result.Summary()
	r.batchesTotal.Inc()
	r.itemsTotal.WithLabelValues(DispositionStream).Add(float64(s.Stream))
	r.itemsTotal.WithLabelValues(DispositionDownload).Add(float64(s.Download))
	r.itemsTotal.WithLabelValues(DispositionFail).Add(float64(s.Fail))
	r.itemsTotal.WithLabelValues(DispositionSkip).Add(float64(s.Skip))
}

func (r *Recorder) StrmWritten() {
	r.strmFilesWritten.Inc()
}

func (r *Recorder) MetadataDownloaded(bytes int64) {
	r.metadataBytes.Add(float64(bytes))
}

func (r *Recorder) TransferFailed() {
	r.transferErrors.Inc()
}

func (r *Recorder) MarkCompleted() {
	r.lastSyncTimestamp.SetToCurrentTime()
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
