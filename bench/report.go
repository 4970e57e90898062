package bench

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	apperrors "github.com/imgbench/codec-bench/errors"
)

// ReportWriter streams benchmark results as JSON lines, zstd-compressed when
// the path carries a ".zst" suffix.
type ReportWriter struct {
	file *os.File
	zw   *zstd.Encoder
	enc  *json.Encoder
}

// NewReportWriter opens (truncating) the report file at path.
func NewReportWriter(path string) (*ReportWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryBench, "report.open", err)
	}
	w := &ReportWriter{file: f}
	var sink io.Writer = f
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, apperrors.Wrap(apperrors.CategoryBench, "report.zstd", err)
		}
		w.zw = zw
		sink = zw
	}
	w.enc = json.NewEncoder(sink)
	return w, nil
}

// Write appends one result record.
func (w *ReportWriter) Write(r Result) error {
	if err := w.enc.Encode(r); err != nil {
		return apperrors.Wrap(apperrors.CategoryBench, "report.write", err)
	}
	return nil
}

// Close flushes and closes the report.
func (w *ReportWriter) Close() error {
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			w.file.Close()
			return apperrors.Wrap(apperrors.CategoryBench, "report.close", err)
		}
	}
	if err := w.file.Close(); err != nil {
		return apperrors.Wrap(apperrors.CategoryBench, "report.close", err)
	}
	return nil
}

// WriteReport writes all results to path in one call.
func WriteReport(path string, results []Result) error {
	w, err := NewReportWriter(path)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write(r); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
