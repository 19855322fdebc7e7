package track

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ReportHeader is the column contract consumed by downstream analysis
// tooling. Field order and presence must not change.
const ReportHeader = "tid," +
	"calling_func,calling_file,calling_line," +
	"called_func,called_file,called_line," +
	"call_file,call_loc," +
	"max_instrs,min_instrs,avg_instrs," +
	"total_instrs,call_count"

// Flush closes out every half-open measurement: each thread whose tick
// counter is still running gets one synthetic boundary with the empty
// identity, applied immediately rather than deferred, so the last edge
// of every thread is captured.
func (t *Tracker) Flush() {
	for tid := range t.threads {
		if t.threads[tid].instrCount != 0 {
			idx := t.OnCallBoundary(tid, "", "", 0)
			t.ApplyMeasurement(tid, idx)
		}
	}
}

// WriteReport flushes the open measurements and renders the whole
// table: the header row, then one record per call event, thread-major
// and in insertion order within each thread. The output is
// deterministic given identical execution.
func (t *Tracker) WriteReport(w io.Writer) error {
	if t.threads == nil {
		return ErrNotInitialized
	}

	t.Flush()

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, ReportHeader); err != nil {
		return errors.Wrap(err, "failed to write report header")
	}

	rows := 0
	for tid := range t.threads {
		for _, evt := range t.threads[tid].events {
			_, err := fmt.Fprintf(bw, "%d,%s,%s,%d,%s,%s,%d,%s,%d,%d,%d,%d,%d,%d\n",
				tid,
				evt.Calling.Name, evt.Calling.Loc.File, evt.Calling.Loc.Line,
				evt.Called.Name, evt.Called.Loc.File, evt.Called.Loc.Line,
				evt.CallSite.File, evt.CallSite.Line,
				evt.MaxInstrs, evt.MinInstrs, evt.AvgInstrs,
				evt.TotalInstrs, evt.CallCount,
			)
			if err != nil {
				return errors.Wrapf(err, "failed to write report row for thread %d", tid)
			}
			rows++
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush report")
	}

	t.logger.Debug().Int("rows", rows).Msg("report written")

	return nil
}
