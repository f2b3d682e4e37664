package s3client

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appConfig "strmsync/config"
	"strmsync/internal/classify"
)

// User metadata keys carrying the drive identifiers of an object.
const (
	metaPickcode = "pickcode"
	metaSHA1     = "sha1"
)

// API is the subset of the S3 client used here.
type API interface {
	s3.ListObjectsV2APIClient
	s3.HeadObjectAPIClient
	manager.DownloadAPIClient
}

type Client struct {
	s3Client API
	bucket   string
}

func New(cfg *appConfig.Config) (*Client, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if cfg.ApiURL != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.ApiURL)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return NewWithAPI(s3Client, cfg.BucketName), nil
}

func NewWithAPI(api API, bucket string) *Client {
	return &Client{
		s3Client: api,
		bucket:   bucket,
	}
}

func (c *Client) Bucket() string {
	return c.bucket
}

// ListBatches pages through every object under prefix and hands them to fn
// as classify items, at most batchSize per call, in listing order.
func (c *Client) ListBatches(ctx context.Context, prefix string, batchSize int, fn func([]classify.Item) error) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be greater than 0, got %d", batchSize)
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(c.s3Client, input)

	batch := make([]classify.Item, 0, batchSize)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			item, err := c.toItem(ctx, obj)
			if err != nil {
				return err
			}
			batch = append(batch, item)
			if len(batch) == batchSize {
				if err := fn(batch); err != nil {
					return err
				}
				batch = make([]classify.Item, 0, batchSize)
			}
		}
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

func (c *Client) toItem(ctx context.Context, obj types.Object) (classify.Item, error) {
	key := aws.ToString(obj.Key)
	item := classify.Item{
		Name:  path.Base(strings.TrimSuffix(key, "/")),
		Path:  "/" + key,
		IsDir: strings.HasSuffix(key, "/"),
	}
	if item.Name == "." || item.Name == "/" {
		item.Name = ""
	}
	if size := aws.ToInt64(obj.Size); size > 0 {
		item.Size = uint64(size)
	}
	if item.IsDir {
		return item, nil
	}

	head, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		ChecksumMode: types.ChecksumModeEnabled,
	})
	if err != nil {
		return classify.Item{}, fmt.Errorf("failed to head object %s: %w", key, err)
	}

	item.Pickcode = head.Metadata[metaPickcode]
	item.SHA1 = sha1Hex(aws.ToString(head.ChecksumSHA1))
	if item.SHA1 == "" {
		item.SHA1 = head.Metadata[metaSHA1]
	}
	return item, nil
}

// sha1Hex converts the base64 checksum S3 reports into lowercase hex.
func sha1Hex(checksum string) string {
	if checksum == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(checksum)
	if err != nil {
		slog.Debug("ignoring malformed SHA1 checksum", "checksum", checksum, "error", err)
		return ""
	}
	return hex.EncodeToString(raw)
}

// DownloadObject fetches the object behind pathInPan into localPath,
// creating parent directories as needed.
func (c *Client) DownloadObject(ctx context.Context, pathInPan, localPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", localPath, err)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	defer file.Close()

	downloader := manager.NewDownloader(c.s3Client)
	n, err := downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(KeyFromPath(pathInPan)),
	})
	if err != nil {
		file.Close()
		os.Remove(localPath)
		return 0, fmt.Errorf("failed to download %s: %w", pathInPan, err)
	}

	return n, nil
}

// KeyFromPath maps a drive path such as "/media/a.mkv" to its object key.
func KeyFromPath(pathInPan string) string {
	return strings.TrimLeft(strings.ReplaceAll(pathInPan, `\`, "/"), "/")
}

// PrefixFromMediaDir returns the listing prefix covering a media root.
func PrefixFromMediaDir(mediaDir string) string {
	key := strings.Trim(strings.ReplaceAll(strings.TrimSpace(mediaDir), `\`, "/"), "/")
	if key == "" {
		return ""
	}
	return key + "/"
}
