package reduce

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/dataprompt/dataprompt/internal/config"
)

const (
	// binaryProbeSize is how many leading bytes are inspected for a null
	// byte before a file is treated as text.
	binaryProbeSize = 1024

	// truncatedHeadSize is how much of an oversized text file is kept.
	truncatedHeadSize = 10 * 1024

	binarySkipNote  = "*Note: binary content detected. Content skipped.*"
	truncationNote  = "*Note: file truncated, showing first 10KB.*"
	omittedSizeNote = "*Note: file content omitted (size cap is zero).*"
)

// reduceGeneric is the fallback for unrecognized extensions: a binary
// probe short-circuits to a skip note, oversized text files keep only a
// 10 KiB head, and everything else is emitted whole inside a fence tagged
// with the file's extension.
func (r *Reducer) reduceGeneric(target config.FileTarget) (Result, error) {
	f, err := os.Open(target.Path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	probe := make([]byte, binaryProbeSize)
	n, err := f.Read(probe)
	if err != nil && err != io.EOF {
		return Result{}, err
	}
	if bytes.IndexByte(probe[:n], 0) >= 0 {
		return Result{Content: binarySkipNote, Status: StatusSkippedBinary, DisplayType: "Binary"}, nil
	}

	lang := strings.TrimPrefix(target.Extension, ".")

	if target.Size > int64(r.opts.MaxFileSizeKB)*1024 {
		if r.opts.MaxFileSizeKB == 0 {
			// A zero cap keeps markers only.
			return Result{Content: omittedSizeNote, Status: StatusTruncated, DisplayType: "Text"}, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return Result{}, err
		}
		head := make([]byte, truncatedHeadSize)
		m, err := io.ReadFull(f, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return Result{}, err
		}
		content := fencedBlock(lang, sanitizeText(head[:m])) + "\n\n" + truncationNote
		return Result{Content: content, Status: StatusTruncated, DisplayType: "Text"}, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Result{}, err
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return Result{}, err
	}
	return Result{Content: fencedBlock(lang, sanitizeText(raw)), Status: StatusRead, DisplayType: "Text"}, nil
}

// sanitizeText repairs undecodable byte sequences instead of failing.
func sanitizeText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "�")
}
