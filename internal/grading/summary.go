package grading

import (
	"fmt"
	"math"
)

// Assignment is the grade given to one record.
type Assignment struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	Mark       *float64 `json:"mark"`
	Grade      Grade    `json:"grade"`
	Points     int      `json:"grade_points"`
	Normalized *float64 `json:"normalized_value"`
}

// SchemeRow is one line of the grade scheme shown on reports.
type SchemeRow struct {
	Grade   Grade  `json:"grade"`
	Range   string `json:"range"`
	Lower   int    `json:"lower"`
	Upper   int    `json:"upper"`
	Points  int    `json:"points"`
	Members int    `json:"members"`
}

// Summary holds the cohort aggregates reports need.
type Summary struct {
	Count          int              `json:"count"`
	Average        float64          `json:"average"`
	Max            float64          `json:"max"`
	Min            float64          `json:"min"`
	GradingMethod  Policy           `json:"grading_method"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
	Cutoffs        *CutoffSet       `json:"cutoffs,omitempty"`
	GradeRanges    map[Grade]string `json:"grade_ranges"`
	GradeCounts    map[Grade]int    `json:"grade_counts"`
	ObservedRanges map[Grade]string `json:"observed_ranges"`
	Scheme         []SchemeRow      `json:"scheme"`
}

// Assign pairs each record with its grade, points and normalized value.
func Assign(cohort []Record, o Outcome) []Assignment {
	out := make([]Assignment, len(cohort))
	for i, r := range cohort {
		a := Assignment{ID: r.ID, Name: r.Name, Grade: o.Grades[i], Points: Points(o.Grades[i])}
		if r.present() {
			m := r.Mark
			a.Mark = &m
		}
		if v := o.Normalized[i]; !math.IsNaN(v) {
			a.Normalized = &v
		}
		out[i] = a
	}
	return out
}

// Summarize reduces a graded cohort to report aggregates.
func Summarize(cohort []Record, o Outcome, ranges []Range) Summary {
	s := Summary{
		GradingMethod:  o.Policy(),
		FallbackReason: o.FallbackReason,
		Cutoffs:        o.Cutoffs,
		GradeRanges:    make(map[Grade]string, len(ranges)),
		GradeCounts:    make(map[Grade]int, len(ranges)),
		ObservedRanges: make(map[Grade]string),
	}
	for _, g := range AllGrades() {
		s.GradeCounts[g] = 0
	}

	lo := map[Grade]float64{}
	hi := map[Grade]float64{}
	sum := 0.0
	for i, r := range cohort {
		g := o.Grades[i]
		s.GradeCounts[g]++
		if !r.present() {
			continue
		}
		if s.Count == 0 {
			s.Min, s.Max = r.Mark, r.Mark
		}
		s.Count++
		sum += r.Mark
		s.Min = math.Min(s.Min, r.Mark)
		s.Max = math.Max(s.Max, r.Mark)
		if _, ok := lo[g]; !ok {
			lo[g], hi[g] = r.Mark, r.Mark
		}
		lo[g] = math.Min(lo[g], r.Mark)
		hi[g] = math.Max(hi[g], r.Mark)
	}
	if s.Count > 0 {
		s.Average = math.Round(sum/float64(s.Count)*100) / 100
	}
	for g := range lo {
		l, h := int(lo[g]), int(hi[g])
		if l == h {
			s.ObservedRanges[g] = fmt.Sprintf("%d", l)
		} else {
			s.ObservedRanges[g] = fmt.Sprintf("%d - %d", l, h)
		}
	}
	for _, r := range ranges {
		s.GradeRanges[r.Grade] = r.Label()
		s.Scheme = append(s.Scheme, SchemeRow{
			Grade:   r.Grade,
			Range:   r.Label(),
			Lower:   r.Lower,
			Upper:   r.Upper,
			Points:  Points(r.Grade),
			Members: s.GradeCounts[r.Grade],
		})
	}
	return s
}
