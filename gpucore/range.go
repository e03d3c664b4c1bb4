package gpucore

import "fmt"

// Range is a half-open interval [Start, End) of vertices, indices or
// instances.
type Range struct {
	Start uint32
	End   uint32
}

// Span returns the range [0, n).
func Span(n uint32) Range {
	return Range{End: n}
}

// Len returns the number of elements in the range. An inverted range is empty.
func (r Range) Len() uint32 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the range contains no elements.
func (r Range) Empty() bool { return r.Len() == 0 }

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
