package track

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
)

// Tracker is the call event tracking engine. It owns a fixed registry
// of per-thread states, sized once at Init and never resized, and
// reacts synchronously to the notifications delivered by an
// instrumentation harness.
//
// The registry is partitioned by thread id with no overlapping writes:
// each slot must only be driven by notifications of its own thread.
type Tracker struct {
	threads []threadState

	*TrackerOptions
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		TrackerOptions: &TrackerOptions{
			maxThreads: DefaultMaxThreads,
			maxEvents:  DefaultMaxEvents,
		},
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Init allocates the thread registry. Per-thread tables are pre-sized
// so that the notification paths never allocate.
func (t *Tracker) Init() error {
	if t.maxThreads <= 0 {
		return ErrMaxThreadsInvalid
	}
	if t.maxEvents <= 0 {
		return ErrMaxEventsInvalid
	}
	if !t.logSet {
		t.logger = log.New(log.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	t.threads = make([]threadState, t.maxThreads)
	for tid := range t.threads {
		t.threads[tid].tid = tid
		t.threads[tid].maxEvents = t.maxEvents
		t.threads[tid].events = make([]*CallEvent, 0, t.maxEvents)
	}

	t.logger.Debug().
		Int("max_threads", t.maxThreads).
		Int("max_events", t.maxEvents).
		Msg("thread registry initialized")

	return nil
}

// Teardown releases the thread registry. The tracker must not be used
// afterwards.
func (t *Tracker) Teardown() {
	t.threads = nil
}

// OnCallBoundary records that control entered the named function and
// resolves the (calling, called, call site) triple of the closing
// measurement to a table index, creating the entry on first sight.
// The returned index must be passed to ApplyMeasurement to fold the
// accumulated ticks in: resolution and mutation are deliberately two
// separate calls on the contract.
func (t *Tracker) OnCallBoundary(tid int, name, file string, line uint32) int {
	ts := t.thread(tid)

	ts.curCalled.Name = truncName(name)
	ts.curCalled.Loc.File = truncName(file)
	ts.curCalled.Loc.Line = line

	idx, found := ts.findEvent()
	if !found {
		idx = ts.insertEvent()
	}
	ts.lastExamined = idx

	return idx
}

// ApplyMeasurement performs the deferred statistics update for the
// event resolved by the preceding OnCallBoundary on the same thread.
func (t *Tracker) ApplyMeasurement(tid, idx int) {
	t.thread(tid).applyMeasurement(idx)
}

// OnTick accounts one executed instruction to the open measurement and
// tracks the most recent location for call site attribution. This is
// the hottest path in the system: the file is only copied when it
// differs from the one already recorded.
func (t *Tracker) OnTick(tid int, file string, line uint32) {
	ts := t.thread(tid)
	ts.instrCount++
	if ts.curCallLoc.File != file {
		ts.curCallLoc.File = truncName(file)
	}
	ts.curCallLoc.Line = line
}

// NumEvents returns the number of distinct call events recorded for
// the given thread.
func (t *Tracker) NumEvents(tid int) int {
	return len(t.thread(tid).events)
}

// Event returns a copy of the call event at idx for the given thread.
func (t *Tracker) Event(tid, idx int) CallEvent {
	return *t.thread(tid).events[idx]
}

// CacheHits returns how many lookups on the given thread were resolved
// by the last-examined entry rather than the fallback scan.
func (t *Tracker) CacheHits(tid int) uint64 {
	return t.thread(tid).cacheHits
}

// TickCount returns the ticks accumulated on the given thread since
// its last call boundary.
func (t *Tracker) TickCount(tid int) uint64 {
	return t.thread(tid).instrCount
}

// thread resolves a thread slot. A thread id outside the pre-sized
// registry stops the run: statistics attributed to a nonexistent slot
// could not be reported.
func (t *Tracker) thread(tid int) *threadState {
	if t.threads == nil {
		panic(ErrNotInitialized)
	}
	if tid < 0 || tid >= len(t.threads) {
		panic(errors.Wrapf(ErrThreadOutOfRange, "tid %d, %d slots", tid, len(t.threads)))
	}

	return &t.threads[tid]
}
