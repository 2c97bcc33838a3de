package grading

import "math"

// Policy names the grading scheme applied to a whole cohort. The string
// values are the tokens reports use to pick a range table.
type Policy string

const (
	PolicyFixed    Policy = "fixed_grading"
	PolicyAdaptive Policy = "relative_grading"
)

// FixedCohortLimit is the largest number of present marks still graded on
// the fixed scale. Larger cohorts are graded relative to each other.
const FixedCohortLimit = 30

// Record is one student's raw result. A record without a mark is still
// graded (always U) but never contributes to statistics.
type Record struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Mark    float64 `json:"mark"`
	HasMark bool    `json:"has_mark"`
}

// present reports whether the record carries a usable numeric mark.
func (r Record) present() bool {
	return r.HasMark && !math.IsNaN(r.Mark) && !math.IsInf(r.Mark, 0)
}

// passing reports whether the record is eligible for relative grading.
func (r Record) passing() bool {
	return r.present() && r.Mark >= PassMark
}

// CountPresent counts records with a usable numeric mark.
func CountPresent(cohort []Record) int {
	n := 0
	for _, r := range cohort {
		if r.present() {
			n++
		}
	}
	return n
}

// SelectPolicy picks the grading policy from the number of present marks.
func SelectPolicy(present int) Policy {
	if present <= FixedCohortLimit {
		return PolicyFixed
	}
	return PolicyAdaptive
}
