package classify

type StreamResult struct {
	PathInPan        string `json:"path_in_pan"`
	Pickcode         string `json:"pickcode"`
	OriginalFileName string `json:"original_file_name"`
}

type DownloadResult struct {
	PathInPan string `json:"path_in_pan"`
	Pickcode  string `json:"pickcode"`
	SHA1      string `json:"sha1"`
}

type FailResult struct {
	PathInPan string `json:"path_in_pan"`
	Reason    string `json:"reason"`
}

type SkipResult struct {
	PathInPan string `json:"path_in_pan"`
	Reason    string `json:"reason"`
}

// PackedResult is the output of one Classify call.
type PackedResult struct {
	StrmResults     []StreamResult   `json:"strm_results"`
	DownloadResults []DownloadResult `json:"download_results"`
	FailResults     []FailResult     `json:"fail_results"`
	SkipResults     []SkipResult     `json:"skip_results"`
}

type Summary struct {
	Stream   int `json:"stream"`
	Download int `json:"download"`
	Fail     int `json:"fail"`
	Skip     int `json:"skip"`
}

func (s Summary) Total() int {
	return s.Stream + s.Download + s.Fail + s.Skip
}

// NewPackedResult returns a result whose categories encode as empty arrays.
func NewPackedResult() PackedResult {
	return PackedResult{
		StrmResults:     []StreamResult{},
		DownloadResults: []DownloadResult{},
		FailResults:     []FailResult{},
		SkipResults:     []SkipResult{},
	}
}

func (r PackedResult) Summary() Summary {
	return Summary{
		Stream:   len(r.StrmResults),
		Download: len(r.DownloadResults),
		Fail:     len(r.FailResults),
		Skip:     len(r.SkipResults),
	}
}

// Merge appends other's categories after r's, keeping batch order.
func (r *PackedResult) Merge(other PackedResult) {
	if r.StrmResults == nil {
		*r = NewPackedResult()
	}
	r.StrmResults = append(r.StrmResults, other.StrmResults...)
	r.DownloadResults = append(r.DownloadResults, other.DownloadResults...)
	r.FailResults = append(r.FailResults, other.FailResults...)
	r.SkipResults = append(r.SkipResults, other.SkipResults...)
}
