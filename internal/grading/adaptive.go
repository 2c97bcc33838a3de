package grading

import (
	"fmt"
	"math"
)

// Standard-deviation multipliers for the O, A+, A, B+ and B cutoffs.
const (
	kO     = 1.65
	kAPlus = 0.85
	kA     = 0.0
	kBPlus = -0.9
	kB     = -1.8
)

// Fallback reasons recorded on OutcomeAdaptiveFallback.
const (
	ReasonNoPassingMarks = "no passing marks"
	ReasonTooFewDistinct = "fewer than 2 distinct passing marks"
	ReasonZeroDeviation  = "zero standard deviation"
	ReasonNonFinite      = "non-finite statistics"
)

// CutoffSet holds the raw-mark lower bound of each relative grade.
// O >= APlus >= A >= BPlus >= B for any set built from real statistics.
type CutoffSet struct {
	O     float64 `json:"o"`
	APlus float64 `json:"a_plus"`
	A     float64 `json:"a"`
	BPlus float64 `json:"b_plus"`
	B     float64 `json:"b"`
}

// Stats are the passing-mark statistics behind a CutoffSet.
type Stats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // sample (n-1) standard deviation
}

// NewCutoffSet derives cutoffs from passing-mark statistics.
func NewCutoffSet(mean, std float64) CutoffSet {
	return CutoffSet{
		O:     mean + kO*std,
		APlus: mean + kAPlus*std,
		A:     mean + kA*std,
		BPlus: mean + kBPlus*std,
		B:     mean + kB*std,
	}
}

func (c CutoffSet) values() []float64 {
	return []float64{c.O, c.APlus, c.A, c.BPlus, c.B}
}

func (c CutoffSet) finite() bool {
	for _, v := range c.values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// scale returns the cutoffs as thresholds, highest grade first.
func (c CutoffSet) scale() []threshold {
	return []threshold{
		{c.O, GradeO},
		{c.APlus, GradeAPlus},
		{c.A, GradeA},
		{c.BPlus, GradeBPlus},
		{c.B, GradeB},
	}
}

// GradeAdaptive grades the passing subset of the cohort relative to its
// mean and standard deviation. Records below the pass mark or without a
// mark are U. Unusable statistics fall back to the static scale for the
// passing records; this never fails.
func GradeAdaptive(cohort []Record) Outcome {
	passing := make([]float64, 0, len(cohort))
	distinct := make(map[float64]struct{})
	for _, r := range cohort {
		if r.passing() {
			passing = append(passing, r.Mark)
			distinct[r.Mark] = struct{}{}
		}
	}

	switch {
	case len(passing) == 0:
		out := newOutcome(OutcomeAdaptiveFallback, len(cohort))
		out.FallbackReason = ReasonNoPassingMarks
		return out
	case len(distinct) < 2:
		return adaptiveFallback(cohort, ReasonTooFewDistinct)
	}

	st, err := sampleStats(passing)
	if err != nil {
		return adaptiveFallback(cohort, err.Error())
	}
	cut := NewCutoffSet(st.Mean, st.StdDev)
	if !cut.finite() {
		return adaptiveFallback(cohort, ReasonNonFinite)
	}

	out := newOutcome(OutcomeAdaptive, len(cohort))
	out.Cutoffs = &cut
	out.Stats = &st
	scale := cut.scale()
	for i, r := range cohort {
		if !r.passing() {
			continue
		}
		out.Grades[i] = matchThreshold(r.Mark, scale, GradeC)
		out.Normalized[i] = (r.Mark - st.Mean) / st.StdDev
	}
	return out
}

func adaptiveFallback(cohort []Record, reason string) Outcome {
	out := newOutcome(OutcomeAdaptiveFallback, len(cohort))
	out.FallbackReason = reason
	for i, r := range cohort {
		if r.passing() {
			out.Grades[i] = FixedGrade(r.Mark, true)
		}
	}
	minMaxNormalize(cohort, out.Normalized, Record.passing)
	return out
}

type statsError string

func (e statsError) Error() string { return string(e) }

// sampleStats computes the mean and sample standard deviation of xs.
// xs must hold at least two values.
func sampleStats(xs []float64) (Stats, error) {
	if len(xs) < 2 {
		return Stats{}, statsError(fmt.Sprintf("%s (n=%d)", ReasonTooFewDistinct, len(xs)))
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(xs)-1))
	switch {
	case math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(std) || math.IsInf(std, 0):
		return Stats{}, statsError(ReasonNonFinite)
	case std == 0:
		return Stats{}, statsError(ReasonZeroDeviation)
	}
	return Stats{N: len(xs), Mean: mean, StdDev: std}, nil
}
