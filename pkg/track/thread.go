package track

// threadState holds the per-thread measurement cursor and the bounded
// call event table. Each state is owned and mutated exclusively by the
// thread of its registry slot, so no locking is involved on the
// notification paths.
type threadState struct {
	tid int

	curCalling FuncIdent
	curCalled  FuncIdent
	curCallLoc SourceLocation

	// instrCount counts ticks since the last call boundary.
	instrCount uint64

	// events is pre-sized at Init: insertion never reallocates, and
	// the index of an entry is its durable identifier.
	events    []*CallEvent
	maxEvents int

	lastExamined int

	// cacheHits counts lookups satisfied by the last-examined entry.
	cacheHits uint64
}

// findEvent resolves the current identity triple to a table index.
// The entry at lastExamined is probed first: call edges tend to repeat
// consecutively, which makes the common case constant time. On a miss
// the table is scanned in insertion order and the first exact match
// wins.
func (ts *threadState) findEvent() (int, bool) {
	if len(ts.events) == 0 {
		return 0, false
	}

	if ts.events[ts.lastExamined].matches(ts.curCalling, ts.curCalled, ts.curCallLoc) {
		ts.cacheHits++

		return ts.lastExamined, true
	}

	for i, evt := range ts.events {
		if evt.matches(ts.curCalling, ts.curCalled, ts.curCallLoc) {
			return i, true
		}
	}

	return 0, false
}

// insertEvent appends a fresh event for the current identity triple
// and returns its index. Exceeding the table capacity stops the run:
// evicting or overwriting entries would corrupt the aggregates without
// any observable signal.
func (ts *threadState) insertEvent() int {
	if len(ts.events) >= ts.maxEvents {
		panic(ErrTooManyEvents)
	}

	ts.events = append(ts.events, newCallEvent(ts.curCalling, ts.curCalled, ts.curCallLoc))

	return len(ts.events) - 1
}

// applyMeasurement folds the ticks accumulated since the previous
// boundary into the event at idx, re-arming the cursor for the next
// measurement.
func (ts *threadState) applyMeasurement(idx int) {
	evt := ts.events[idx]

	if ts.instrCount > evt.MaxInstrs {
		evt.MaxInstrs = ts.instrCount
	}
	if ts.instrCount < evt.MinInstrs {
		evt.MinInstrs = ts.instrCount
	}

	evt.TotalInstrs += ts.instrCount
	ts.instrCount = 0
	evt.CallCount++
	evt.AvgInstrs = evt.TotalInstrs / evt.CallCount

	// The called function becomes the reference point for the next
	// slice, unless the two identities are already equal: a direct
	// self call leaves the calling reference in place. Indirect
	// recursion through an intermediate frame is not detected.
	if !ts.curCalling.Equal(ts.curCalled) {
		ts.curCalling = ts.curCalled
	}
}
