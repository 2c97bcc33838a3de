package grading

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedCutoffs is returned when an adaptive outcome carries no
// cutoffs or cutoffs that are not finite. It indicates a programming
// error upstream, not bad input.
var ErrMalformedCutoffs = errors.New("grading: malformed cutoff set")

// Range is the inclusive integer mark interval that earns a grade.
type Range struct {
	Grade Grade `json:"grade"`
	Lower int   `json:"lower"`
	Upper int   `json:"upper"`
}

// Label renders the range for reports, e.g. "61 - 70" or "Below 50".
func (r Range) Label() string {
	switch {
	case r.Grade == GradeU:
		return fmt.Sprintf("Below %d", PassMark)
	case r.Lower == r.Upper:
		return fmt.Sprintf("%d", r.Lower)
	default:
		return fmt.Sprintf("%d - %d", r.Lower, r.Upper)
	}
}

// Contains reports whether the integer mark falls inside the range.
func (r Range) Contains(mark int) bool {
	return mark >= r.Lower && mark <= r.Upper
}

var staticRanges = []Range{
	{GradeO, 91, MaxMark},
	{GradeAPlus, 81, 90},
	{GradeA, 71, 80},
	{GradeBPlus, 61, 70},
	{GradeB, 56, 60},
	{GradeC, PassMark, 55},
	{GradeU, 0, PassMark - 1},
}

// StaticRanges returns the fixed-scale range table, highest grade first.
func StaticRanges() []Range {
	out := make([]Range, len(staticRanges))
	copy(out, staticRanges)
	return out
}

// SynthesizeRanges derives the display range of every grade from the way
// the cohort was graded. The result always holds seven ranges, highest
// grade first, disjoint and covering 0..100.
func SynthesizeRanges(o Outcome) ([]Range, error) {
	switch o.Kind {
	case OutcomeFixed, OutcomeAdaptiveFallback:
		return StaticRanges(), nil
	case OutcomeAdaptive:
		if o.Cutoffs == nil {
			return nil, ErrMalformedCutoffs
		}
		return RangesFromCutoffs(*o.Cutoffs)
	default:
		return nil, fmt.Errorf("grading: unknown outcome kind %d", o.Kind)
	}
}

// RangesFromCutoffs rounds the cutoffs to whole marks and lays the passing
// grades out top-down from 100, then re-walks them so the ranges stay
// ordered and non-empty even when the cutoffs are skewed or inverted.
func RangesFromCutoffs(c CutoffSet) ([]Range, error) {
	if !c.finite() {
		return nil, ErrMalformedCutoffs
	}
	bounds := c.values()

	out := make([]Range, 0, len(passingGrades)+1)
	upper := MaxMark
	for i, g := range passingGrades {
		lower := PassMark
		if i < len(bounds) {
			lower = max(int(math.Round(bounds[i])), PassMark)
		}
		out = append(out, Range{Grade: g, Lower: lower, Upper: upper})
		upper = max(lower-1, PassMark)
	}

	// Each grade keeps at least one mark: the k-th passing grade from the
	// bottom may not start below PassMark+k.
	for i := range out {
		if i == 0 {
			out[i].Upper = MaxMark
		} else {
			out[i].Upper = max(out[i-1].Lower-1, PassMark-1)
		}
		floor := PassMark + len(out) - 1 - i
		out[i].Lower = min(max(out[i].Lower, floor), out[i].Upper)
	}

	return append(out, Range{Grade: GradeU, Lower: 0, Upper: PassMark - 1}), nil
}

// CheckRanges verifies that ranges are ordered highest grade first,
// non-empty, disjoint and cover 0..100 without gaps.
func CheckRanges(rs []Range) error {
	want := AllGrades()
	if len(rs) != len(want) {
		return fmt.Errorf("grading: %d ranges, want %d", len(rs), len(want))
	}
	next := MaxMark
	for i, r := range rs {
		if r.Grade != want[i] {
			return fmt.Errorf("grading: range %d is %s, want %s", i, r.Grade, want[i])
		}
		if r.Lower > r.Upper {
			return fmt.Errorf("grading: %s range %d-%d is inverted", r.Grade, r.Lower, r.Upper)
		}
		if r.Upper != next {
			return fmt.Errorf("grading: %s range ends at %d, want %d", r.Grade, r.Upper, next)
		}
		next = r.Lower - 1
	}
	if next != -1 {
		return fmt.Errorf("grading: ranges stop at %d, want 0", next+1)
	}
	return nil
}
