package track

import (
	log "github.com/rs/zerolog"
)

type TrackerOptions struct {
	maxThreads int
	maxEvents  int

	logger log.Logger
	logSet bool
}

type TrackerOption func(*Tracker)

func WithTrackerMaxThreads(n int) TrackerOption {
	return func(t *Tracker) {
		t.maxThreads = n
	}
}

func WithTrackerMaxEvents(n int) TrackerOption {
	return func(t *Tracker) {
		t.maxEvents = n
	}
}

func WithTrackerLogger(logger log.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
		t.logSet = true
	}
}
