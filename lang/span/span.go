// Package span defines Span, a half-open byte range into source text shared
// by every later stage of the pipeline (tokens, syntax tree nodes, bytecode
// source maps, and diagnostics).
package span

import "fmt"

// Span is a half-open byte range [Start, End) into a source string. The zero
// Span is the empty range at offset 0 and is used as a placeholder where no
// position is known.
type Span struct {
	Start, End int
}

// Make builds a Span from a start and end offset. It panics if end < start,
// since a Span can never have negative length.
func Make(start, end int) Span {
	if end < start {
		panic(fmt.Sprintf("span: end %d before start %d", end, start))
	}
	return Span{Start: start, End: end}
}

// At returns the empty, zero-length Span at the given offset.
func At(offset int) Span { return Span{Start: offset, End: offset} }

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether s covers no bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// Union returns the smallest Span that covers both s and other.
func (s Span) Union(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// Slice returns the substring of src covered by s.
func (s Span) Slice(src string) string { return src[s.Start:s.End] }

func (s Span) String() string { return fmt.Sprintf("%d:%d", s.Start, s.End) }
