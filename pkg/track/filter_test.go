package track_test

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxgio92/slicer/pkg/track"
)

func TestNewFuncFilter(t *testing.T) {
	filter := track.NewFuncFilter()
	require.Equal(t, 0, filter.Len())
	require.True(t, filter.Allow("anything"))

	filter = track.NewFuncFilter("foo", "bar")
	require.Equal(t, 2, filter.Len())
	require.True(t, filter.Allow("foo"))
	require.True(t, filter.Allow("bar"))
	require.False(t, filter.Allow("baz"))
}

func TestLoadFuncFilter(t *testing.T) {
	listPath := path.Join(t.TempDir(), "funcs.txt")
	require.NoError(t, os.WriteFile(listPath, []byte("foo\n\n  bar  \n"), 0644))

	filter, err := track.LoadFuncFilter(listPath, testLogger)
	require.NoError(t, err)
	require.Equal(t, 2, filter.Len())
	require.True(t, filter.Allow("foo"))
	require.True(t, filter.Allow("bar"))
	require.False(t, filter.Allow("main"))
}

func TestLoadFuncFilter_EmptyPath(t *testing.T) {
	filter, err := track.LoadFuncFilter("", testLogger)
	require.NoError(t, err)
	require.Equal(t, 0, filter.Len())
	require.True(t, filter.Allow("main"))
}

func TestLoadFuncFilter_MissingFile(t *testing.T) {
	// A missing list is not an error: tracking proceeds with all
	// functions.
	filter, err := track.LoadFuncFilter(path.Join(t.TempDir(), "nonexistent"), testLogger)
	require.NoError(t, err)
	require.Equal(t, 0, filter.Len())
	require.True(t, filter.Allow("main"))
}

func TestLoadFuncFilter_EmptyFile(t *testing.T) {
	listPath := path.Join(t.TempDir(), "funcs.txt")
	require.NoError(t, os.WriteFile(listPath, nil, 0644))

	filter, err := track.LoadFuncFilter(listPath, testLogger)
	require.NoError(t, err)
	require.True(t, filter.Allow("anything"))
}
