package grading

import "math"

type threshold struct {
	min   float64
	grade Grade
}

// fixedScale is evaluated top-down; the first threshold met wins.
var fixedScale = []threshold{
	{91, GradeO},
	{81, GradeAPlus},
	{71, GradeA},
	{61, GradeBPlus},
	{56, GradeB},
	{PassMark, GradeC},
}

// FixedGrade maps a single mark to a grade on the static scale. Missing
// and non-finite marks are U.
func FixedGrade(mark float64, present bool) Grade {
	if !present || math.IsNaN(mark) || math.IsInf(mark, 0) {
		return GradeU
	}
	return matchThreshold(mark, fixedScale, GradeU)
}

// matchThreshold returns the grade of the first threshold the mark meets,
// or def when none is met. scale must be ordered highest first.
func matchThreshold(mark float64, scale []threshold, def Grade) Grade {
	for _, t := range scale {
		if mark >= t.min {
			return t.grade
		}
	}
	return def
}

// GradeFixed grades every record on the static scale.
func GradeFixed(cohort []Record) Outcome {
	out := newOutcome(OutcomeFixed, len(cohort))
	for i, r := range cohort {
		out.Grades[i] = FixedGrade(r.Mark, r.present())
	}
	minMaxNormalize(cohort, out.Normalized, Record.present)
	return out
}

// minMaxNormalize writes (mark-min)/(max-min) for every record selected
// by include. A zero spread normalizes every selected mark to 1.
func minMaxNormalize(cohort []Record, dst []float64, include func(Record) bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range cohort {
		if !include(r) {
			continue
		}
		lo = math.Min(lo, r.Mark)
		hi = math.Max(hi, r.Mark)
	}
	spread := hi - lo
	for i, r := range cohort {
		if !include(r) {
			continue
		}
		if spread > 0 {
			dst[i] = (r.Mark - lo) / spread
		} else {
			dst[i] = 1
		}
	}
}
