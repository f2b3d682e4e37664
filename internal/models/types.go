package models

import "strmsync/internal/classify"

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}

type ScanResult struct {
	BucketName     string                 `json:"bucket_name"`
	Prefix         string                 `json:"prefix"`
	PanMediaDir    string                 `json:"pan_media_dir"`
	Batches        int                    `json:"batches"`
	ItemsListed    int                    `json:"items_listed"`
	TotalSizeBytes int64                  `json:"total_size_bytes"`
	TotalSizeHuman string                 `json:"total_size_human"`
	Summary        classify.Summary       `json:"summary"`
	Results        *classify.PackedResult `json:"results,omitempty"`
	OperationTime  string                 `json:"operation_time"`
	ScanDuration   string                 `json:"scan_duration"`
}

type SyncItem struct {
	PathInPan string `json:"path_in_pan"`
	LocalPath string `json:"local_path"`
	Size      int64  `json:"size,omitempty"`
	Unchanged bool   `json:"unchanged,omitempty"`
}

type SyncError struct {
	PathInPan string `json:"path_in_pan"`
	Error     string `json:"error"`
}

type SyncResult struct {
	BucketName      string                `json:"bucket_name"`
	LibraryDir      string                `json:"library_dir"`
	DryRun          bool                  `json:"dry_run"`
	Summary         classify.Summary      `json:"summary"`
	StrmFiles       []SyncItem            `json:"strm_files"`
	Downloads       []SyncItem            `json:"downloads"`
	Errors          []SyncError           `json:"errors"`
	Failed          []classify.FailResult `json:"failed"`
	DownloadedBytes int64                 `json:"downloaded_bytes"`
	DownloadedHuman string                `json:"downloaded_human"`
	OperationTime   string                `json:"operation_time"`
	SyncDuration    string                `json:"sync_duration"`
}
