package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPickcode = "AAAAAAAAAAAAAAAAA"

func baseConfig() Config {
	return Config{
		PanMediaDir:      "/media",
		RmtMediaExt:      []string{"mp4", "mkv"},
		DownloadMediaExt: []string{"srt", "nfo"},
		DetailLog:        true,
	}
}

func TestClassify_EndToEnd(t *testing.T) {
	cfg := Config{
		PanMediaDir:      "/media",
		RmtMediaExt:      []string{"mp4"},
		DownloadMediaExt: []string{},
		MinFileSize:      1000,
		DetailLog:        true,
	}
	items := []Item{
		{Name: "a.mp4", Path: "/media/a.mp4", Size: 2000, Pickcode: validPickcode},
		{Name: "b.txt", Path: "/media/b.txt", Size: 5000},
		{Name: "c.mp4", Path: "/other/c.mp4", Size: 5000},
	}

	got := Classify(cfg, items)

	assert.Equal(t, []StreamResult{{"/media/a.mp4", validPickcode, "a.mp4"}}, got.StrmResults)
	assert.Equal(t, []SkipResult{
		{"/media/b.txt", "extension .txt not in the organizable media list"},
		{"/other/c.mp4", "path not under the remote media directory"},
	}, got.SkipResults)
	assert.Empty(t, got.DownloadResults)
	assert.Empty(t, got.FailResults)
	assert.NotNil(t, got.DownloadResults)
	assert.NotNil(t, got.FailResults)
}

func TestClassify_DecisionChain(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		item   Item
		want   Summary
		reason string
	}{
		{
			name: "empty name is dropped",
			item: Item{Path: "/media/a.mp4", Pickcode: validPickcode},
		},
		{
			name: "empty path is dropped",
			item: Item{Name: "a.mp4", Pickcode: validPickcode},
		},
		{
			name: "directory is dropped",
			item: Item{Name: "a.mp4", Path: "/media/a.mp4", IsDir: true, Pickcode: validPickcode},
		},
		{
			name:   "outside media dir is skipped",
			item:   Item{Name: "a.mp4", Path: "/media2/a.mp4", Pickcode: validPickcode},
			want:   Summary{Skip: 1},
			reason: "path not under the remote media directory",
		},
		{
			name:   "outside media dir without detail log is dropped",
			mutate: func(c *Config) { c.DetailLog = false },
			item:   Item{Name: "a.mp4", Path: "/other/a.mp4", Pickcode: validPickcode},
		},
		{
			name:   "download ext without auto download is skipped as non media",
			item:   Item{Name: "a.srt", Path: "/media/a.srt", Pickcode: validPickcode},
			want:   Summary{Skip: 1},
			reason: "extension .srt not in the organizable media list",
		},
		{
			name:   "download ext with auto download",
			mutate: func(c *Config) { c.AutoDownloadMediaInfo = true },
			item:   Item{Name: "a.SRT", Path: "/media/a.SRT", Pickcode: validPickcode, SHA1: "abc"},
			want:   Summary{Download: 1},
		},
		{
			name:   "download without pickcode fails",
			mutate: func(c *Config) { c.AutoDownloadMediaInfo = true },
			item:   Item{Name: "a.nfo", Path: "/media/a.nfo"},
			want:   Summary{Fail: 1},
			reason: "no pickcode, cannot download media info",
		},
		{
			name:   "download with invalid pickcode fails",
			mutate: func(c *Config) { c.AutoDownloadMediaInfo = true },
			item:   Item{Name: "a.nfo", Path: "/media/a.nfo", Pickcode: "bad-code"},
			want:   Summary{Fail: 1},
			reason: "invalid pickcode value: bad-code",
		},
		{
			name:   "download ignores min size",
			mutate: func(c *Config) { c.AutoDownloadMediaInfo = true; c.MinFileSize = 1 << 20 },
			item:   Item{Name: "a.nfo", Path: "/media/a.nfo", Size: 10, Pickcode: validPickcode},
			want:   Summary{Download: 1},
		},
		{
			name:   "below min size is skipped",
			mutate: func(c *Config) { c.MinFileSize = 100 },
			item:   Item{Name: "a.mkv", Path: "/media/a.mkv", Size: 99, Pickcode: validPickcode},
			want:   Summary{Skip: 1},
			reason: "file size 99 below minimum 100",
		},
		{
			name:   "size equal to minimum passes",
			mutate: func(c *Config) { c.MinFileSize = 100 },
			item:   Item{Name: "a.mkv", Path: "/media/a.mkv", Size: 100, Pickcode: validPickcode},
			want:   Summary{Stream: 1},
		},
		{
			name:   "size check runs before pickcode check",
			mutate: func(c *Config) { c.MinFileSize = 100 },
			item:   Item{Name: "a.mkv", Path: "/media/a.mkv", Size: 1},
			want:   Summary{Skip: 1},
			reason: "file size 1 below minimum 100",
		},
		{
			name:   "stream without pickcode fails",
			item:   Item{Name: "a.mkv", Path: "/media/a.mkv"},
			want:   Summary{Fail: 1},
			reason: "no pickcode, cannot create stream reference",
		},
		{
			name:   "stream with short pickcode fails",
			item:   Item{Name: "a.mkv", Path: "/media/a.mkv", Pickcode: "AAAAAAAAAAAAAAAA"},
			want:   Summary{Fail: 1},
			reason: "invalid pickcode value: AAAAAAAAAAAAAAAA",
		},
		{
			name:   "no extension is skipped",
			item:   Item{Name: "README", Path: "/media/README", Pickcode: validPickcode},
			want:   Summary{Skip: 1},
			reason: "extension  not in the organizable media list",
		},
		{
			name: "stream",
			item: Item{Name: "Movie.MKV", Path: "/media/films/Movie.MKV", Pickcode: validPickcode},
			want: Summary{Stream: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			got := Classify(cfg, []Item{tt.item})
			require.Equal(t, tt.want, got.Summary())

			switch {
			case tt.want.Fail == 1:
				assert.Equal(t, tt.reason, got.FailResults[0].Reason)
				assert.Equal(t, tt.item.Path, got.FailResults[0].PathInPan)
			case tt.want.Skip == 1:
				assert.Equal(t, tt.reason, got.SkipResults[0].Reason)
				assert.Equal(t, tt.item.Path, got.SkipResults[0].PathInPan)
			case tt.want.Download == 1:
				assert.Equal(t, DownloadResult{tt.item.Path, tt.item.Pickcode, tt.item.SHA1}, got.DownloadResults[0])
			case tt.want.Stream == 1:
				assert.Equal(t, StreamResult{tt.item.Path, tt.item.Pickcode, tt.item.Name}, got.StrmResults[0])
			}
		})
	}
}

func TestClassify_DownloadWinsOverStream(t *testing.T) {
	cfg := baseConfig()
	cfg.RmtMediaExt = []string{"mp4", "nfo"}
	cfg.AutoDownloadMediaInfo = true

	got := Classify(cfg, []Item{{Name: "x.nfo", Path: "/media/x.nfo", Pickcode: validPickcode}})

	assert.Len(t, got.DownloadResults, 1)
	assert.Empty(t, got.StrmResults)
}

func TestClassify_DetailLogOnlyAffectsSkips(t *testing.T) {
	items := []Item{
		{Name: "a.mp4", Path: "/media/a.mp4", Size: 100, Pickcode: validPickcode},
		{Name: "b.mp4", Path: "/media/b.mp4", Size: 100},
		{Name: "c.srt", Path: "/media/c.srt", Pickcode: validPickcode},
		{Name: "d.txt", Path: "/media/d.txt"},
		{Name: "e.mp4", Path: "/elsewhere/e.mp4"},
		{Name: "f.mp4", Path: "/media/f.mp4", Size: 1, Pickcode: validPickcode},
	}
	on := baseConfig()
	on.AutoDownloadMediaInfo = true
	on.MinFileSize = 10
	off := on
	off.DetailLog = false

	withLog := Classify(on, items)
	withoutLog := Classify(off, items)

	assert.Equal(t, Summary{Stream: 1, Download: 1, Fail: 1, Skip: 3}, withLog.Summary())
	assert.Empty(t, withoutLog.SkipResults)
	assert.Equal(t, withLog.StrmResults, withoutLog.StrmResults)
	assert.Equal(t, withLog.DownloadResults, withoutLog.DownloadResults)
	assert.Equal(t, withLog.FailResults, withoutLog.FailResults)
}

func TestClassify_PreservesOrder(t *testing.T) {
	items := []Item{
		{Name: "3.mp4", Path: "/media/3.mp4", Pickcode: validPickcode},
		{Name: "x.txt", Path: "/media/x.txt"},
		{Name: "1.mp4", Path: "/media/1.mp4", Pickcode: validPickcode},
		{Name: "dir", Path: "/media/dir", IsDir: true},
		{Name: "2.mp4", Path: "/media/2.mp4", Pickcode: validPickcode},
	}

	got := Classify(baseConfig(), items)

	require.Len(t, got.StrmResults, 3)
	assert.Equal(t, "/media/3.mp4", got.StrmResults[0].PathInPan)
	assert.Equal(t, "/media/1.mp4", got.StrmResults[1].PathInPan)
	assert.Equal(t, "/media/2.mp4", got.StrmResults[2].PathInPan)
}

func TestClassify_EmptyMediaDirMatchesAll(t *testing.T) {
	cfg := baseConfig()
	cfg.PanMediaDir = "  /  "

	got := Classify(cfg, []Item{
		{Name: "a.mp4", Path: "/anywhere/a.mp4", Pickcode: validPickcode},
		{Name: "b.mp4", Path: "b.mp4", Pickcode: validPickcode},
	})

	assert.Len(t, got.StrmResults, 2)
	assert.Empty(t, got.SkipResults)
}

func TestClassify_EmptyBatch(t *testing.T) {
	got := Classify(baseConfig(), nil)
	assert.Equal(t, 0, got.Summary().Total())
}

func TestPackedResult_Merge(t *testing.T) {
	var total PackedResult
	total.Merge(Classify(baseConfig(), []Item{{Name: "a.mp4", Path: "/media/a.mp4", Pickcode: validPickcode}}))
	total.Merge(Classify(baseConfig(), []Item{{Name: "b.mp4", Path: "/media/b.mp4"}, {Name: "c.mp4", Path: "/media/c.mp4", Pickcode: validPickcode}}))

	assert.Equal(t, Summary{Stream: 2, Fail: 1}, total.Summary())
	assert.Equal(t, "/media/c.mp4", total.StrmResults[1].PathInPan)
	assert.NotNil(t, total.SkipResults)
}
