package classify

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrConfigDecode = errors.New("config JSON decode failed")
	ErrBatchDecode  = errors.New("batch JSON decode failed")
)

// RawConfig mirrors Config with optional fields so that missing required keys
// and omitted defaults can be told apart. It is shared with the YAML loader.
type RawConfig struct {
	PanMediaDir           *string   `json:"pan_media_dir" yaml:"pan_media_dir"`
	RmtMediaExt           *[]string `json:"rmt_mediaext" yaml:"rmt_mediaext"`
	DownloadMediaExt      *[]string `json:"download_mediaext" yaml:"download_mediaext"`
	MinFileSize           *uint64   `json:"min_file_size" yaml:"min_file_size"`
	AutoDownloadMediaInfo *bool     `json:"auto_download_mediainfo" yaml:"auto_download_mediainfo"`
	DetailLog             *bool     `json:"detail_log" yaml:"detail_log"`
}

// Resolve applies defaults and checks required keys.
func (r RawConfig) Resolve() (Config, error) {
	cfg := Config{DetailLog: true}
	if r.PanMediaDir == nil {
		return Config{}, errors.New("missing field `pan_media_dir`")
	}
	if r.RmtMediaExt == nil {
		return Config{}, errors.New("missing field `rmt_mediaext`")
	}
	if r.DownloadMediaExt == nil {
		return Config{}, errors.New("missing field `download_mediaext`")
	}
	cfg.PanMediaDir = *r.PanMediaDir
	cfg.RmtMediaExt = *r.RmtMediaExt
	cfg.DownloadMediaExt = *r.DownloadMediaExt
	if r.MinFileSize != nil {
		cfg.MinFileSize = *r.MinFileSize
	}
	if r.AutoDownloadMediaInfo != nil {
		cfg.AutoDownloadMediaInfo = *r.AutoDownloadMediaInfo
	}
	if r.DetailLog != nil {
		cfg.DetailLog = *r.DetailLog
	}
	return cfg, nil
}

type rawItem struct {
	Name     *string `json:"name"`
	Path     *string `json:"path"`
	IsDir    *bool   `json:"is_dir"`
	Size     uint64  `json:"size"`
	Pickcode string  `json:"pickcode"`
	SHA1     string  `json:"sha1"`
}

func DecodeConfig(data []byte) (Config, error) {
	var raw RawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigDecode, err)
	}
	cfg, err := raw.Resolve()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigDecode, err)
	}
	return cfg, nil
}

func DecodeBatch(data []byte) ([]Item, error) {
	var raw []rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBatchDecode, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrBatchDecode)
	}

	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		switch {
		case r.Name == nil:
			return nil, fmt.Errorf("%w: item %d: missing field `name`", ErrBatchDecode, i)
		case r.Path == nil:
			return nil, fmt.Errorf("%w: item %d: missing field `path`", ErrBatchDecode, i)
		case r.IsDir == nil:
			return nil, fmt.Errorf("%w: item %d: missing field `is_dir`", ErrBatchDecode, i)
		}
		items = append(items, Item{
			Name:     *r.Name,
			Path:     *r.Path,
			IsDir:    *r.IsDir,
			Size:     r.Size,
			Pickcode: r.Pickcode,
			SHA1:     r.SHA1,
		})
	}
	return items, nil
}

func EncodeResult(r PackedResult) ([]byte, error) {
	if r.StrmResults == nil {
		r.StrmResults = []StreamResult{}
	}
	if r.DownloadResults == nil {
		r.DownloadResults = []DownloadResult{}
	}
	if r.FailResults == nil {
		r.FailResults = []FailResult{}
	}
	if r.SkipResults == nil {
		r.SkipResults = []SkipResult{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return data, nil
}

// Processor binds one decoded Config to repeated batch calls. It is
// read-only after construction and safe for concurrent use.
type Processor struct {
	config Config
}

func NewProcessor(configJSON []byte) (*Processor, error) {
	cfg, err := DecodeConfig(configJSON)
	if err != nil {
		return nil, err
	}
	return &Processor{config: cfg}, nil
}

func NewProcessorFromConfig(cfg Config) *Processor {
	return &Processor{config: cfg}
}

func (p *Processor) Config() Config {
	return p.config
}

func (p *Processor) Process(items []Item) PackedResult {
	return Classify(p.config, items)
}

func (p *Processor) ProcessBatch(batchJSON []byte) (PackedResult, error) {
	items, err := DecodeBatch(batchJSON)
	if err != nil {
		return PackedResult{}, err
	}
	return Classify(p.config, items), nil
}
