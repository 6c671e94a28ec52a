package report

import (
	"encoding/json"
	"io"

	"github.com/seodiff/seodiff/internal/model"
)

// SnapshotWriter outputs a single-site crawl as a snapshot artifact.
// The artifact is the scan command's output: a JSON document with the
// discovered URL list and the rendered markup per page, keyed by
// sanitized URL.
type SnapshotWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool
}

// SnapshotWriterOption configures a SnapshotWriter.
type SnapshotWriterOption func(*SnapshotWriter)

// WithSnapshotPrettyPrint enables pretty-printed JSON output.
func WithSnapshotPrettyPrint() SnapshotWriterOption {
	return func(w *SnapshotWriter) {
		w.indent = true
	}
}

// NewSnapshotWriter creates a SnapshotWriter that outputs to the given
// writer.
func NewSnapshotWriter(output io.Writer, opts ...SnapshotWriterOption) *SnapshotWriter {
	w := &SnapshotWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteCrawl outputs the crawl result as a snapshot artifact.
func (w *SnapshotWriter) WriteCrawl(result *model.CrawlResult) (int, error) {
	artifact := model.NewSnapshotArtifact(result)

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(artifact, "", "  ")
	} else {
		data, err = json.Marshal(artifact)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
