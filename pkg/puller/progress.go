package puller

import (
	"io"

	"github.com/docker/go-units"
)

// progressReportStep is how many bytes pass between two progress lines.
const progressReportStep int64 = 16 << 20

// progressWriter logs byte progress while the payload streams to disk.
type progressWriter struct {
	w          io.Writer
	written    int64
	lastReport int64
	total      int64
	logf       func(format string, args ...any)
}

func (pw *progressWriter) Write(b []byte) (int, error) {
	n, err := pw.w.Write(b)
	pw.written += int64(n)
	if pw.written-pw.lastReport >= progressReportStep {
		pw.lastReport = pw.written
		if pw.total > 0 {
			pw.logf("Downloaded %s of %s.",
				units.HumanSize(float64(pw.written)), units.HumanSize(float64(pw.total)))
		} else {
			pw.logf("Downloaded %s.", units.HumanSize(float64(pw.written)))
		}
	}
	return n, err
}
