package cmd

import (
	"context"
	"log/slog"

	"strmsync/config"
	"strmsync/internal/classify"
	"strmsync/internal/s3client"
)

type remoteDrive interface {
	Bucket() string
	ListBatches(ctx context.Context, prefix string, batchSize int, fn func([]classify.Item) error) error
	DownloadObject(ctx context.Context, pathInPan, localPath string) (int64, error)
}

// newRemote is swapped out in tests.
var newRemote = func(c *config.Config) (remoteDrive, error) {
	return s3client.New(c)
}

func openRemote(bucket string) (remoteDrive, error) {
	c := *cfg
	c.BucketName = bucket
	return newRemote(&c)
}

type batchStats struct {
	batches    int
	items      int
	totalBytes int64
}

// classifyRemote lists the drive under prefix and calls fn with every
// classified batch, in listing order.
func classifyRemote(ctx context.Context, remote remoteDrive, processor *classify.Processor, prefix string, batchSize int, fn func(classify.PackedResult) error) (batchStats, error) {
	var stats batchStats
	err := remote.ListBatches(ctx, prefix, batchSize, func(items []classify.Item) error {
		stats.batches++
		stats.items += len(items)
		for _, item := range items {
			stats.totalBytes += int64(item.Size)
		}

		result := processor.Process(items)
		s := result.Summary()
		slog.Debug("batch classified",
			"batch", stats.batches,
			"items", len(items),
			"stream", s.Stream,
			"download", s.Download,
			"fail", s.Fail,
			"skip", s.Skip,
		)
		return fn(result)
	})
	return stats, err
}

func listingPrefix(args []string, processor *classify.Processor) string {
	if len(args) > 0 {
		return args[0]
	}
	return s3client.PrefixFromMediaDir(processor.Config().PanMediaDir)
}
