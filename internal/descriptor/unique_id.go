package descriptor

import (
	"fmt"
	"strings"
)

// Segment is one typed component of a UniqueID, e.g. "class:Calculator".
type Segment struct {
	Type  string
	Value string
}

func (s Segment) String() string {
	return fmt.Sprintf("[%s:%s]", s.Type, s.Value)
}

// UniqueID identifies a descriptor within a test tree. Values are immutable;
// Append returns a new UniqueID.
type UniqueID struct {
	segments []Segment
}

// Root returns a UniqueID with a single segment.
func Root(segmentType, value string) UniqueID {
	return UniqueID{segments: []Segment{{Type: segmentType, Value: value}}}
}

// Append returns a new UniqueID extending u with one segment.
func (u UniqueID) Append(segmentType, value string) UniqueID {
	segments := make([]Segment, len(u.segments), len(u.segments)+1)
	copy(segments, u.segments)
	return UniqueID{segments: append(segments, Segment{Type: segmentType, Value: value})}
}

// Segments returns a copy of the segments, root first.
func (u UniqueID) Segments() []Segment {
	return append([]Segment(nil), u.segments...)
}

// Last returns the final segment, or the zero Segment for an empty id.
func (u UniqueID) Last() Segment {
	if len(u.segments) == 0 {
		return Segment{}
	}
	return u.segments[len(u.segments)-1]
}

// Depth returns the number of segments below the root.
func (u UniqueID) Depth() int {
	if len(u.segments) == 0 {
		return 0
	}
	return len(u.segments) - 1
}

// IsZero reports whether u has no segments.
func (u UniqueID) IsZero() bool {
	return len(u.segments) == 0
}

// String renders "[engine:probe]/[class:x]/[method:y]".
func (u UniqueID) String() string {
	parts := make([]string, 0, len(u.segments))
	for _, s := range u.segments {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "/")
}
