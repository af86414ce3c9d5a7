package reduce

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dataprompt/dataprompt/internal/config"
)

func TestGenericBinaryShortCircuit(t *testing.T) {
	r := newTestReducer(config.DefaultReduceOptions())

	tests := []struct {
		name string
		file string
	}{
		{"null byte with text extension", "blob.txt"},
		{"null byte without extension", "blob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "text before\x00text after"
			target := writeTempFile(t, tt.file, content)
			res := r.Reduce(target)

			if res.Status != StatusSkippedBinary {
				t.Fatalf("Status = %v, want %v", res.Status, StatusSkippedBinary)
			}
			if strings.Contains(res.Content, "text after") {
				t.Error("binary file content leaked into output")
			}
		})
	}
}

func TestGenericSmallFileReadWhole(t *testing.T) {
	r := newTestReducer(config.DefaultReduceOptions())

	target := writeTempFile(t, "notes.md", "# Notes\n\nplain text here\n")
	res := r.Reduce(target)

	if res.Status != StatusRead {
		t.Fatalf("Status = %v, want %v", res.Status, StatusRead)
	}
	if !strings.HasPrefix(res.Content, "```md\n") {
		t.Errorf("missing extension-tagged fence:\n%s", res.Content)
	}
	if !strings.Contains(res.Content, "plain text here") {
		t.Error("file content missing from output")
	}
}

func TestGenericOversizedFileTruncated(t *testing.T) {
	opts := config.DefaultReduceOptions()
	opts.MaxFileSizeKB = 1
	r := newTestReducer(opts)

	// 50 KB of text, well over the 1 KB threshold.
	target := writeTempFile(t, "big.log", strings.Repeat("log line content\n", 3200))
	res := r.Reduce(target)

	if res.Status != StatusTruncated {
		t.Fatalf("Status = %v, want %v", res.Status, StatusTruncated)
	}
	if !strings.Contains(res.Content, truncationNote) {
		t.Error("missing truncation marker")
	}
	// Raw body is at most 10 KiB plus fences and the fixed marker.
	if len(res.Content) > truncatedHeadSize+256 {
		t.Errorf("content length = %d, want <= ~10KiB", len(res.Content))
	}
}

func TestGenericTruncationBoundByCap(t *testing.T) {
	opts := config.DefaultReduceOptions()
	opts.MaxFileSizeKB = 1

	// Output stays bounded no matter how far past the threshold the
	// input grows.
	for _, multiple := range []int{1, 10, 100} {
		r := newTestReducer(opts)
		body := strings.Repeat("x", 1024*multiple+1)
		target := writeTempFile(t, "grow.txt", body)
		res := r.Reduce(target)

		if res.Status != StatusTruncated {
			t.Fatalf("multiple %d: Status = %v, want %v", multiple, res.Status, StatusTruncated)
		}
		if len(res.Content) > truncatedHeadSize+256 {
			t.Errorf("multiple %d: content length = %d exceeds bound", multiple, len(res.Content))
		}
	}
}

func TestGenericFenceGrowsPastEmbeddedFences(t *testing.T) {
	r := newTestReducer(config.DefaultReduceOptions())

	target := writeTempFile(t, "README.md", "example:\n```go\ncode\n```\n")
	res := r.Reduce(target)

	if !strings.HasPrefix(res.Content, "````md\n") {
		t.Errorf("fence should outgrow embedded fences:\n%s", res.Content)
	}
	if !strings.HasSuffix(res.Content, "````") {
		t.Errorf("fence not closed:\n%s", res.Content)
	}
}

func TestGenericMissingFileYieldsError(t *testing.T) {
	r := newTestReducer(config.DefaultReduceOptions())

	target := config.NewFileTarget(filepath.Join(t.TempDir(), "gone.txt"), "gone.txt", 10)
	res := r.Reduce(target)

	if res.Status != StatusError {
		t.Fatalf("Status = %v, want %v", res.Status, StatusError)
	}
	if res.Content != "*Could not read file.*" {
		t.Errorf("Content = %q", res.Content)
	}
}

func TestGenericInvalidUTF8Repaired(t *testing.T) {
	r := newTestReducer(config.DefaultReduceOptions())

	target := writeTempFile(t, "latin.txt", "caf\xe9 latte\n")
	res := r.Reduce(target)

	if res.Status != StatusRead {
		t.Fatalf("Status = %v, want %v", res.Status, StatusRead)
	}
	if !strings.Contains(res.Content, "�") {
		t.Error("undecodable byte should be substituted, not dropped silently")
	}
	if !strings.Contains(res.Content, "latte") {
		t.Error("valid text around bad byte should survive")
	}
}
