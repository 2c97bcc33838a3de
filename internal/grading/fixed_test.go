package grading_test

import (
	"math"
	"testing"

	"github.com/mind-engage/gradecurve/internal/grading"
)

func rank(g grading.Grade) int {
	for i, x := range grading.AllGrades() {
		if x == g {
			return len(grading.AllGrades()) - i
		}
	}
	return -1
}

func TestFixedGradeThresholds(t *testing.T) {
	cases := []struct {
		mark    float64
		present bool
		want    grading.Grade
	}{
		{100, true, grading.GradeO},
		{91, true, grading.GradeO},
		{90.99, true, grading.GradeAPlus},
		{81, true, grading.GradeAPlus},
		{80, true, grading.GradeA},
		{71, true, grading.GradeA},
		{70.5, true, grading.GradeBPlus},
		{61, true, grading.GradeBPlus},
		{60, true, grading.GradeB},
		{56, true, grading.GradeB},
		{55.9, true, grading.GradeC},
		{50, true, grading.GradeC},
		{49.99, true, grading.GradeU},
		{0, true, grading.GradeU},
		{95, false, grading.GradeU},
		{math.NaN(), true, grading.GradeU},
		{math.Inf(1), true, grading.GradeU},
	}
	for _, c := range cases {
		if got := grading.FixedGrade(c.mark, c.present); got != c.want {
			t.Errorf("FixedGrade(%v, %v) = %s, want %s", c.mark, c.present, got, c.want)
		}
	}
}

func TestFixedGradeTotalAndMonotone(t *testing.T) {
	prev := grading.GradeU
	for m := -10.0; m <= 110; m += 0.25 {
		g := grading.FixedGrade(m, true)
		if !g.Valid() {
			t.Fatalf("mark %v produced invalid grade %q", m, g)
		}
		if rank(g) < rank(prev) {
			t.Fatalf("mark %v graded %s, lower than %s for a smaller mark", m, g, prev)
		}
		prev = g
	}
}

func TestGradeFixedNormalizesPresentMarks(t *testing.T) {
	cohort := []grading.Record{
		{ID: "a", Mark: 40, HasMark: true},
		{ID: "b", Mark: 90, HasMark: true},
		{ID: "c"},
	}
	o := grading.GradeFixed(cohort)
	if o.Kind != grading.OutcomeFixed || o.Cutoffs != nil {
		t.Fatalf("unexpected outcome: kind=%s cutoffs=%v", o.Kind, o.Cutoffs)
	}
	if o.Normalized[0] != 0 || o.Normalized[1] != 1 {
		t.Fatalf("normalized = %v, want [0 1 NaN]", o.Normalized)
	}
	if !math.IsNaN(o.Normalized[2]) {
		t.Fatalf("missing mark normalized to %v", o.Normalized[2])
	}
}

func TestPoints(t *testing.T) {
	want := map[grading.Grade]int{
		grading.GradeO: 10, grading.GradeAPlus: 9, grading.GradeA: 8,
		grading.GradeBPlus: 7, grading.GradeB: 6, grading.GradeC: 5, grading.GradeU: 0,
		grading.Grade("F"): 0,
	}
	for g, p := range want {
		if got := grading.Points(g); got != p {
			t.Errorf("Points(%s) = %d, want %d", g, got, p)
		}
	}
}

func TestSelectPolicy(t *testing.T) {
	if got := grading.SelectPolicy(30); got != grading.PolicyFixed {
		t.Fatalf("30 present marks: got %s", got)
	}
	if got := grading.SelectPolicy(31); got != grading.PolicyAdaptive {
		t.Fatalf("31 present marks: got %s", got)
	}

	// 30 marks plus missing ones is still a fixed cohort.
	cohort := make([]grading.Record, 0, 40)
	for i := 0; i < 30; i++ {
		cohort = append(cohort, grading.Record{Mark: 75, HasMark: true})
	}
	for i := 0; i < 10; i++ {
		cohort = append(cohort, grading.Record{})
	}
	cohort = append(cohort, grading.Record{Mark: math.NaN(), HasMark: true})
	if n := grading.CountPresent(cohort); n != 30 {
		t.Fatalf("CountPresent = %d, want 30", n)
	}
	if o := grading.GradeCohort(cohort); o.Kind != grading.OutcomeFixed {
		t.Fatalf("kind = %s, want fixed", o.Kind)
	}
}
