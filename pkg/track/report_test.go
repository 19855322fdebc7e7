package track_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxgio92/slicer/pkg/track"
)

func TestReportHeader(t *testing.T) {
	require.Equal(t,
		"tid,calling_func,calling_file,calling_line,called_func,called_file,called_line,call_file,call_loc,max_instrs,min_instrs,avg_instrs,total_instrs,call_count",
		track.ReportHeader,
	)
}

func TestWriteReport_Empty(t *testing.T) {
	tracker := newTestTracker(t)

	var buf bytes.Buffer
	require.NoError(t, tracker.WriteReport(&buf))
	require.Equal(t, track.ReportHeader+"\n", buf.String())
}

func TestWriteReport_NotInitialized(t *testing.T) {
	tracker := track.NewTracker(track.WithTrackerLogger(testLogger))

	var buf bytes.Buffer
	err := tracker.WriteReport(&buf)
	require.Error(t, err)
	require.ErrorIs(t, err, track.ErrNotInitialized)
}

func TestWriteReport_Rows(t *testing.T) {
	tracker := newTestTracker(t)

	boundary(tracker, 1, "main", "a.c", 1)
	ticks(tracker, 1, 5, "a.c", 10)
	boundary(tracker, 1, "foo", "b.c", 2)

	var buf bytes.Buffer
	require.NoError(t, tracker.WriteReport(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, track.ReportHeader, lines[0])
	require.Equal(t, "1,,,0,main,a.c,1,,0,0,0,0,0,1", lines[1])
	require.Equal(t, "1,main,a.c,1,foo,b.c,2,a.c,10,5,5,5,5,1", lines[2])
}

func TestWriteReport_FlushesOpenMeasurement(t *testing.T) {
	tracker := newTestTracker(t)

	boundary(tracker, 0, "main", "a.c", 1)
	ticks(tracker, 0, 4, "a.c", 10)
	require.Equal(t, uint64(4), tracker.TickCount(0))

	events := tracker.NumEvents(0)

	var buf bytes.Buffer
	require.NoError(t, tracker.WriteReport(&buf))

	// Exactly one synthetic edge with the empty called identity closes
	// the thread's last open measurement.
	require.Equal(t, events+1, tracker.NumEvents(0))
	require.Equal(t, uint64(0), tracker.TickCount(0))

	closing := tracker.Event(0, events)
	require.Equal(t, "main", closing.Calling.Name)
	require.Empty(t, closing.Called.Name)
	require.Equal(t, uint64(4), closing.TotalInstrs)
	require.Equal(t, uint64(1), closing.CallCount)

	// An idle thread contributes nothing.
	require.Equal(t, 0, tracker.NumEvents(1))
	require.Contains(t, buf.String(), "0,main,a.c,1,,,0,a.c,10,4,4,4,4,1")
}

func TestWriteReport_ThreadMajorOrder(t *testing.T) {
	tracker := newTestTracker(t)

	// Drive the higher thread id first: the report is still ordered
	// by thread id, then by insertion within each thread.
	boundary(tracker, 2, "late", "l.c", 1)
	boundary(tracker, 1, "early", "e.c", 1)

	var buf bytes.Buffer
	require.NoError(t, tracker.WriteReport(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "1,"))
	require.True(t, strings.HasPrefix(lines[2], "2,"))
}

func TestWriteReport_Deterministic(t *testing.T) {
	run := func() string {
		tracker := newTestTracker(t)
		for _, n := range []int{5, 9, 7} {
			boundary(tracker, 1, "main", "a.c", 1)
			ticks(tracker, 1, n, "a.c", 10)
			boundary(tracker, 1, "foo", "b.c", 1)
		}

		var buf bytes.Buffer
		require.NoError(t, tracker.WriteReport(&buf))

		return buf.String()
	}

	require.Equal(t, run(), run())
}
