// Package statepath resolves dot-delimited field paths against state
// snapshots: Go maps, structs, slices, and JSON documents.
package statepath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is matched by every InvalidPathError.
var ErrInvalidPath = errors.New("invalid state property path")

// InvalidPathError reports a path that is malformed or names a field that
// is absent from the state.
type InvalidPathError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *InvalidPathError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("invalid state property path %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid state property path %q: %s %q", e.Path, e.Reason, e.Segment)
}

// Is makes errors.Is(err, ErrInvalidPath) succeed.
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// Path is a parsed dot-delimited path.
type Path []string

// Parse splits path on dots. Empty paths and empty segments are malformed.
func Parse(path string) (Path, error) {
	if path == "" {
		return nil, &InvalidPathError{Path: path, Reason: "empty path"}
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, &InvalidPathError{Path: path, Reason: "empty segment"}
		}
	}
	return Path(segments), nil
}

// String joins the segments back into dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Lookup is the tagged result of resolving a path. Exactly one of Found or
// a non-nil Err() holds.
type Lookup struct {
	Path  string
	Value any
	Found bool

	// Missing is the first segment absent from the state.
	Missing string
	// Depth is the index of Missing within the path.
	Depth int

	malformed error
}

// Err returns nil when the value was found and an *InvalidPathError otherwise.
func (l Lookup) Err() error {
	if l.Found {
		return nil
	}
	if l.malformed != nil {
		return l.malformed
	}
	return &InvalidPathError{Path: l.Path, Segment: l.Missing, Reason: "missing field"}
}

// Resolve walks state one segment at a time and stops at the first segment
// the current value does not have.
func Resolve(state any, path string) Lookup {
	p, err := parsed.parse(path)
	if err != nil {
		return Lookup{Path: path, malformed: err}
	}
	return ResolvePath(state, p)
}

// ResolvePath is Resolve for an already parsed path.
func ResolvePath(state any, p Path) Lookup {
	path := p.String()
	if doc, ok := asJSON(state); ok {
		return resolveJSON(doc, path, p)
	}

	current := state
	for i, seg := range p {
		next, ok := field(current, seg)
		if !ok {
			return Lookup{Path: path, Missing: seg, Depth: i}
		}
		current = next
	}
	return Lookup{Path: path, Value: current, Found: true, Depth: len(p)}
}

// Get resolves path and converts a failed lookup into an error.
func Get(state any, path string) (any, error) {
	l := Resolve(state, path)
	if err := l.Err(); err != nil {
		return nil, err
	}
	return l.Value, nil
}
