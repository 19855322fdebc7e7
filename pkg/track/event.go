package track

import "math"

// CallEvent aggregates instruction counts for one distinct
// (calling function, called function, call site) triple within a
// single thread. Note that the call site may not be within the calling
// function's own body.
//
// An event is created once per distinct triple and lives for the
// lifetime of its thread's table: never deleted, never merged across
// threads.
type CallEvent struct {
	Calling  FuncIdent
	Called   FuncIdent
	CallSite SourceLocation

	MaxInstrs   uint64
	MinInstrs   uint64
	AvgInstrs   uint64
	TotalInstrs uint64
	CallCount   uint64
}

func newCallEvent(calling, called FuncIdent, site SourceLocation) *CallEvent {
	return &CallEvent{
		Calling:   calling,
		Called:    called,
		CallSite:  site,
		MinInstrs: math.MaxUint64,
	}
}

// matches reports whether the event identity equals the given triple.
func (e *CallEvent) matches(calling, called FuncIdent, site SourceLocation) bool {
	return e.CallSite.Equal(site) && e.Calling.Equal(calling) && e.Called.Equal(called)
}
