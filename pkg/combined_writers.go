package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans out every write to all of its writers,
// e.g. the log file and stdout.
type CombinedWriter struct {
	Writers []io.Writer
	Err     error
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

// Write returns the total number of bytes written across all writers.
// A failing writer does not stop the others; errors are combined.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var total int
	var err error
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		total += written
	}
	cw.Err = err
	return total, err
}
