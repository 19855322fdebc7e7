package replay

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/maxgio92/slicer/internal/output"
)

func (r *Replayer) printStatusBar(ctx context.Context) {
	if !r.status {
		return
	}
	output.StatusBar(ctx,
		1*time.Second, // bar refresh interval.
		func() {
			output.PrintRight(output.PrettyReplayStatus(
				atomic.SwapUint64(&r.consumed, 0), // event rate reset at each bar refresh.
			))
		},
	)
}
