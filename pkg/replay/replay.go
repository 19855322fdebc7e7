package replay

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/maxgio92/slicer/pkg/track"
)

// Record kinds in the notification stream.
const (
	recCallBoundary = "C"
	recTick         = "I"
)

// emptyField stands for metadata the harness could not resolve: it is
// replayed as an empty name with a zero line.
const emptyField = "-"

const recordChBufSize = 1024

const maxRecordLen = 1024 * 1024

type record struct {
	tid  int
	call bool
	name string
	file string
	line uint32
}

// Replayer drives a Tracker from a recorded notification stream:
//
//	C <tid> <func> <file> <line>   call-boundary notification
//	I <tid> <file> <line>          tick notification
//
// Blank lines and lines starting with '#' are skipped. The stream is
// scanned sequentially and demultiplexed to one worker per thread id,
// so every thread slot of the tracker keeps a single writer and stream
// order is preserved within each thread.
type Replayer struct {
	tracker  *track.Tracker
	consumed uint64

	*ReplayerOptions
}

func NewReplayer(opts ...ReplayerOpt) (*Replayer, error) {
	r := &Replayer{
		ReplayerOptions: &ReplayerOptions{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.source == nil {
		return nil, ErrSourceNil
	}
	if r.tracker == nil {
		return nil, ErrTrackerNil
	}

	return r, nil
}

// Run replays the whole stream and returns once every record has been
// applied. A capacity violation in the tracker aborts the run.
func (r *Replayer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	go r.printStatusBar(ctx)

	chans := make(map[int]chan record)

	scanner := bufio.NewScanner(r.source)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLen)

	var runErr error
	lineNo := 0
scan:
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rec, err := parseRecord(text)
		if err != nil {
			runErr = errors.Wrapf(err, "line %d", lineNo)

			break
		}

		ch, found := chans[rec.tid]
		if !found {
			ch = make(chan record, recordChBufSize)
			chans[rec.tid] = ch
			g.Go(func() error {
				r.apply(ch)

				return nil
			})
		}

		select {
		case ch <- rec:
		case <-ctx.Done():
			runErr = ctx.Err()

			break scan
		}
	}
	if runErr == nil && scanner.Err() != nil {
		runErr = errors.Wrap(scanner.Err(), "failed to scan stream")
	}

	for _, ch := range chans {
		close(ch)
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.logger.Debug().Int("lines", lineNo).Int("threads", len(chans)).Msg("stream replayed")

	return runErr
}

// apply delivers the records of a single thread to the tracker, in
// stream order. Boundaries for functions kept out by the allow-list
// never reach the table; their ticks still count toward the next
// tracked edge.
func (r *Replayer) apply(ch <-chan record) {
	for rec := range ch {
		if rec.call {
			if r.filter != nil && !r.filter.Allow(rec.name) {
				continue
			}
			idx := r.tracker.OnCallBoundary(rec.tid, rec.name, rec.file, rec.line)
			r.tracker.ApplyMeasurement(rec.tid, idx)
		} else {
			r.tracker.OnTick(rec.tid, rec.file, rec.line)
		}
		atomic.AddUint64(&r.consumed, 1)
	}
}

func parseRecord(text string) (record, error) {
	fields := strings.Fields(text)

	switch fields[0] {
	case recCallBoundary:
		if len(fields) != 5 {
			return record{}, errors.Wrapf(ErrMalformedRecord, "%q", text)
		}

		rec, err := parseCommon(fields[1], fields[3], fields[4])
		if err != nil {
			return record{}, errors.Wrapf(err, "%q", text)
		}
		rec.call = true
		rec.name = parseName(fields[2])

		return rec, nil
	case recTick:
		if len(fields) != 4 {
			return record{}, errors.Wrapf(ErrMalformedRecord, "%q", text)
		}

		rec, err := parseCommon(fields[1], fields[2], fields[3])
		if err != nil {
			return record{}, errors.Wrapf(err, "%q", text)
		}

		return rec, nil
	default:
		return record{}, errors.Wrapf(ErrUnknownRecordKind, "%q", fields[0])
	}
}

func parseCommon(tidField, fileField, lineField string) (record, error) {
	tid, err := strconv.Atoi(tidField)
	if err != nil {
		return record{}, errors.Wrap(ErrMalformedRecord, "bad thread id")
	}

	line, err := strconv.ParseUint(lineField, 10, 32)
	if err != nil {
		return record{}, errors.Wrap(ErrMalformedRecord, "bad line number")
	}

	return record{
		tid:  tid,
		file: parseName(fileField),
		line: uint32(line),
	}, nil
}

func parseName(field string) string {
	if field == emptyField {
		return ""
	}

	return field
}
