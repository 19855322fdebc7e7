package track

import (
	"github.com/pkg/errors"
)

var (
	ErrTooManyEvents     = errors.New("maximum number of call events exceeded")
	ErrThreadOutOfRange  = errors.New("thread id out of registry range")
	ErrMaxThreadsInvalid = errors.New("max threads must be positive")
	ErrMaxEventsInvalid  = errors.New("max events must be positive")
	ErrNotInitialized    = errors.New("tracker is not initialized")
)
