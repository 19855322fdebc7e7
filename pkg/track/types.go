package track

const (
	// MaxNameLen bounds every function and file name stored by the
	// tracker. Longer names are silently truncated on each write path,
	// so both sides of an identity comparison always see the same
	// prefix.
	MaxNameLen = 256

	// DefaultMaxEvents is the per-thread call event table capacity.
	DefaultMaxEvents = 10000

	// DefaultMaxThreads is the number of schedulable thread slots.
	DefaultMaxThreads = 512
)

// SourceLocation identifies a file and line in the profiled program.
type SourceLocation struct {
	File string
	Line uint32
}

// Equal reports whether two locations match exactly.
func (l SourceLocation) Equal(other SourceLocation) bool {
	return l.Line == other.Line && l.File == other.File
}

// FuncIdent identifies a function by name and by the location the
// function reference was observed at. For the calling side this is not
// guaranteed to be the function's entry point.
type FuncIdent struct {
	Name string
	Loc  SourceLocation
}

// Equal reports whether two function identities match exactly.
func (f FuncIdent) Equal(other FuncIdent) bool {
	return f.Loc.Equal(other.Loc) && f.Name == other.Name
}

// truncName bounds a name or file string to MaxNameLen bytes.
func truncName(s string) string {
	if len(s) > MaxNameLen {
		return s[:MaxNameLen]
	}

	return s
}
