package commands

import (
	"bufio"
	"fmt"
	"io"

	"github.com/xlucas/ssl-inspector/tlsscan"
)

type lineReporter struct {
	out     *bufio.Writer
	verbose bool
}

func newLineReporter(w io.Writer, verbose bool) *lineReporter {
	return &lineReporter{
		out:     bufio.NewWriter(w),
		verbose: verbose,
	}
}

// Report flushes after every line so results show up while the scan is still
// running.
func (r *lineReporter) Report(result tlsscan.Result) error {
	if result.Status != tlsscan.Enabled && !r.verbose {
		return nil
	}

	fmt.Fprintf(r.out, "%-50s [%s]\n", result.Suite.Name, result.Status)
	return r.out.Flush()
}
