package replay

import (
	"github.com/pkg/errors"
)

var (
	ErrSourceNil         = errors.New("no stream source specified")
	ErrTrackerNil        = errors.New("no tracker specified")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrUnknownRecordKind = errors.New("unknown record kind")
)
