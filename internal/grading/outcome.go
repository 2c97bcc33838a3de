package grading

import "math"

// OutcomeKind tags how a cohort was graded.
type OutcomeKind int

const (
	// OutcomeFixed: the cohort was small enough for the static scale.
	OutcomeFixed OutcomeKind = iota + 1
	// OutcomeAdaptive: relative grading succeeded and produced cutoffs.
	OutcomeAdaptive
	// OutcomeAdaptiveFallback: relative grading was selected but the
	// statistics were unusable, so passing marks went through the static scale.
	OutcomeAdaptiveFallback
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFixed:
		return "fixed"
	case OutcomeAdaptive:
		return "adaptive"
	case OutcomeAdaptiveFallback:
		return "adaptive_fallback"
	default:
		return "unknown"
	}
}

// Outcome is the result of grading one cohort. Grades and Normalized are
// index-aligned with the cohort. Cutoffs is set only for OutcomeAdaptive
// and belongs to this outcome alone.
type Outcome struct {
	Kind       OutcomeKind
	Grades     []Grade
	Normalized []float64 // NaN when a record has no normalized value
	Cutoffs    *CutoffSet
	Stats      *Stats
	// FallbackReason explains an OutcomeAdaptiveFallback.
	FallbackReason string
}

// Policy reports the policy that was selected for the cohort. A fallback
// still counts as relative grading.
func (o Outcome) Policy() Policy {
	if o.Kind == OutcomeFixed {
		return PolicyFixed
	}
	return PolicyAdaptive
}

func newOutcome(kind OutcomeKind, n int) Outcome {
	out := Outcome{
		Kind:       kind,
		Grades:     make([]Grade, n),
		Normalized: make([]float64, n),
	}
	for i := range out.Grades {
		out.Grades[i] = GradeU
		out.Normalized[i] = math.NaN()
	}
	return out
}

// GradeCohort runs policy selection and the selected grader.
func GradeCohort(cohort []Record) Outcome {
	if SelectPolicy(CountPresent(cohort)) == PolicyAdaptive {
		return GradeAdaptive(cohort)
	}
	return GradeFixed(cohort)
}
