package replay

import (
	"io"

	log "github.com/rs/zerolog"

	"github.com/maxgio92/slicer/pkg/track"
)

type ReplayerOptions struct {
	source io.Reader
	filter *track.FuncFilter
	status bool

	logger log.Logger
}

type ReplayerOpt func(*Replayer)

func WithReplayerSource(source io.Reader) ReplayerOpt {
	return func(r *Replayer) {
		r.source = source
	}
}

func WithReplayerTracker(tracker *track.Tracker) ReplayerOpt {
	return func(r *Replayer) {
		r.tracker = tracker
	}
}

func WithReplayerFilter(filter *track.FuncFilter) ReplayerOpt {
	return func(r *Replayer) {
		r.filter = filter
	}
}

func WithReplayerStatus(status bool) ReplayerOpt {
	return func(r *Replayer) {
		r.status = status
	}
}

func WithReplayerLogger(logger log.Logger) ReplayerOpt {
	return func(r *Replayer) {
		r.logger = logger
	}
}
