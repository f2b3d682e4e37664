// Package classify decides, per entry of a remote drive listing, whether it
// becomes a stream reference, a metadata download, a failure or a skip.
package classify

import (
	"fmt"
)

type Config struct {
	PanMediaDir           string   `json:"pan_media_dir"`
	RmtMediaExt           []string `json:"rmt_mediaext"`
	DownloadMediaExt      []string `json:"download_mediaext"`
	MinFileSize           uint64   `json:"min_file_size"`
	AutoDownloadMediaInfo bool     `json:"auto_download_mediainfo"`
	DetailLog             bool     `json:"detail_log"`
}

// Item is one entry of a remote drive listing.
type Item struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	Size     uint64 `json:"size"`
	Pickcode string `json:"pickcode"`
	SHA1     string `json:"sha1"`
}

const (
	reasonOutsideMediaDir   = "path not under the remote media directory"
	reasonNoPickcodeInfo    = "no pickcode, cannot download media info"
	reasonNoPickcodeStream  = "no pickcode, cannot create stream reference"
	reasonInvalidPickcodeFm = "invalid pickcode value: %s"
	reasonExtensionFm       = "extension %s not in the organizable media list"
	reasonSizeFm            = "file size %d below minimum %d"
)

type dispositionKind int

const (
	dropped dispositionKind = iota
	stream
	download
	fail
	skip
)

// disposition is the routing decision for a single item. reason is only
// set for fail and skip.
type disposition struct {
	kind   dispositionKind
	reason string
}

// Classify routes every item of a batch into one of the four result
// categories, or drops it. Items keep their input order within each category.
func Classify(cfg Config, items []Item) PackedResult {
	rmt := NormalizeExtensions(cfg.RmtMediaExt)
	dl := NormalizeExtensions(cfg.DownloadMediaExt)

	result := NewPackedResult()
	for _, item := range items {
		d := decide(cfg, rmt, dl, item)
		switch d.kind {
		case stream:
			result.StrmResults = append(result.StrmResults, StreamResult{
				PathInPan:        item.Path,
				Pickcode:         item.Pickcode,
				OriginalFileName: item.Name,
			})
		case download:
			result.DownloadResults = append(result.DownloadResults, DownloadResult{
				PathInPan: item.Path,
				Pickcode:  item.Pickcode,
				SHA1:      item.SHA1,
			})
		case fail:
			result.FailResults = append(result.FailResults, FailResult{
				PathInPan: item.Path,
				Reason:    d.reason,
			})
		case skip:
			result.SkipResults = append(result.SkipResults, SkipResult{
				PathInPan: item.Path,
				Reason:    d.reason,
			})
		}
	}
	return result
}

func decide(cfg Config, rmt, dl ExtensionSet, item Item) disposition {
	if item.Name == "" || item.Path == "" {
		return disposition{kind: dropped}
	}
	if item.IsDir {
		return disposition{kind: dropped}
	}
	if !InMediaDir(item.Path, cfg.PanMediaDir) {
		return skipped(cfg, reasonOutsideMediaDir)
	}

	ext := FileExtension(item.Name)

	// Download diversion wins over the stream list even if both contain ext.
	if cfg.AutoDownloadMediaInfo && dl.Contains(ext) {
		if item.Pickcode == "" {
			return disposition{kind: fail, reason: reasonNoPickcodeInfo}
		}
		if !IsValidPickcode(item.Pickcode) {
			return disposition{kind: fail, reason: fmt.Sprintf(reasonInvalidPickcodeFm, item.Pickcode)}
		}
		return disposition{kind: download}
	}

	if !rmt.Contains(ext) {
		return skipped(cfg, fmt.Sprintf(reasonExtensionFm, ext))
	}
	if item.Size < cfg.MinFileSize {
		return skipped(cfg, fmt.Sprintf(reasonSizeFm, item.Size, cfg.MinFileSize))
	}
	if item.Pickcode == "" {
		return disposition{kind: fail, reason: reasonNoPickcodeStream}
	}
	if !IsValidPickcode(item.Pickcode) {
		return disposition{kind: fail, reason: fmt.Sprintf(reasonInvalidPickcodeFm, item.Pickcode)}
	}
	return disposition{kind: stream}
}

func skipped(cfg Config, reason string) disposition {
	if !cfg.DetailLog {
		return disposition{kind: dropped}
	}
	return disposition{kind: skip, reason: reason}
}
