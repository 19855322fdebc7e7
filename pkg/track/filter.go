package track

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
)

// FuncFilter restricts tracking to an allow-list of function names.
// An empty filter allows every function.
type FuncFilter struct {
	names map[string]struct{}
}

func NewFuncFilter(names ...string) *FuncFilter {
	f := &FuncFilter{
		names: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		f.names[name] = struct{}{}
	}

	return f
}

// LoadFuncFilter reads a newline-delimited list of function names from
// path. An empty path or a missing file is not an error: tracking
// proceeds with all functions.
func LoadFuncFilter(path string, logger log.Logger) (*FuncFilter, error) {
	filter := NewFuncFilter()
	if path == "" {
		return filter, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("function list not found, proceeding with all functions")

			return filter, nil
		}

		return nil, errors.Wrapf(err, "failed to open function list %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		filter.names[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read function list %s", path)
	}

	logger.Debug().Int("functions", len(filter.names)).Str("path", path).Msg("function list loaded")

	return filter, nil
}

// Allow reports whether call-boundary notifications for name should
// reach the tracker.
func (f *FuncFilter) Allow(name string) bool {
	if len(f.names) == 0 {
		return true
	}
	_, found := f.names[name]

	return found
}

// Len returns the number of names on the allow-list.
func (f *FuncFilter) Len() int {
	return len(f.names)
}
