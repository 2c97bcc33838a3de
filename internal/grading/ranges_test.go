package grading_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/mind-engage/gradecurve/internal/grading"
)

func TestStaticRanges(t *testing.T) {
	want := []string{"91 - 100", "81 - 90", "71 - 80", "61 - 70", "56 - 60", "50 - 55", "Below 50"}
	rs := grading.StaticRanges()
	if err := grading.CheckRanges(rs); err != nil {
		t.Fatal(err)
	}
	for i, r := range rs {
		if r.Label() != want[i] {
			t.Errorf("%s: %q, want %q", r.Grade, r.Label(), want[i])
		}
	}
	// Callers get a copy.
	rs[0].Lower = 0
	if grading.StaticRanges()[0].Lower != 91 {
		t.Fatal("static table was mutated through the returned slice")
	}
}

func TestRangesFromCutoffs(t *testing.T) {
	std := math.Sqrt(250)
	rs, err := grading.RangesFromCutoffs(grading.NewCutoffSet(70, std))
	if err != nil {
		t.Fatal(err)
	}
	want := []grading.Range{
		{Grade: grading.GradeO, Lower: 96, Upper: 100},
		{Grade: grading.GradeAPlus, Lower: 83, Upper: 95},
		{Grade: grading.GradeA, Lower: 70, Upper: 82},
		{Grade: grading.GradeBPlus, Lower: 56, Upper: 69},
		{Grade: grading.GradeB, Lower: 51, Upper: 55},
		{Grade: grading.GradeC, Lower: 50, Upper: 50},
		{Grade: grading.GradeU, Lower: 0, Upper: 49},
	}
	for i := range want {
		if rs[i] != want[i] {
			t.Errorf("range %d = %+v, want %+v", i, rs[i], want[i])
		}
	}
	if rs[5].Label() != "50" {
		t.Errorf("single-mark label = %q", rs[5].Label())
	}
}

func TestRangesFromPathologicalCutoffs(t *testing.T) {
	cases := map[string]grading.CutoffSet{
		"inverted":      {O: 55, APlus: 70, A: 80, BPlus: 90, B: 99},
		"all above 100": {O: 180, APlus: 150, A: 130, BPlus: 120, B: 110},
		"all below 50":  {O: 40, APlus: 30, A: 20, BPlus: 10, B: -5},
		"collapsed":     {O: 75, APlus: 75, A: 75, BPlus: 75, B: 75},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			rs, err := grading.RangesFromCutoffs(c)
			if err != nil {
				t.Fatal(err)
			}
			if err := grading.CheckRanges(rs); err != nil {
				t.Fatalf("%v: %+v", err, rs)
			}
		})
	}
}

func TestRangesInvariantRandomCutoffs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		c := grading.CutoffSet{
			O:     rng.Float64()*250 - 75,
			APlus: rng.Float64()*250 - 75,
			A:     rng.Float64()*250 - 75,
			BPlus: rng.Float64()*250 - 75,
			B:     rng.Float64()*250 - 75,
		}
		rs, err := grading.RangesFromCutoffs(c)
		if err != nil {
			t.Fatal(err)
		}
		if err := grading.CheckRanges(rs); err != nil {
			t.Fatalf("cutoffs %+v: %v", c, err)
		}
		for m := 0; m <= grading.MaxMark; m++ {
			hits := 0
			for _, r := range rs {
				if r.Contains(m) {
					hits++
				}
			}
			if hits != 1 {
				t.Fatalf("mark %d is in %d ranges for cutoffs %+v", m, hits, c)
			}
		}
	}
}

func TestUniformCohortRanges(t *testing.T) {
	cohort := make([]grading.Record, 40)
	for i := range cohort {
		cohort[i] = grading.Record{Mark: 50 + float64(i)*50/39, HasMark: true}
	}
	o := grading.GradeCohort(cohort)
	if o.Kind != grading.OutcomeAdaptive {
		t.Fatalf("kind = %s (%s), want adaptive", o.Kind, o.FallbackReason)
	}
	rs, err := grading.SynthesizeRanges(o)
	if err != nil {
		t.Fatal(err)
	}
	if err := grading.CheckRanges(rs); err != nil {
		t.Fatal(err)
	}

	// The B cutoff rounds to 48, below the pass mark. Grading uses the raw
	// cutoff, so a mark of 50 is B, while the range table floors B at 51
	// to keep C non-empty.
	if got := o.Grades[0]; got != grading.GradeB {
		t.Fatalf("mark 50 graded %s, want B", got)
	}
	if rs[4].Grade != grading.GradeB || rs[4].Label() != "51 - 61" {
		t.Fatalf("B range = %+v", rs[4])
	}
	if rs[5].Grade != grading.GradeC || rs[5].Label() != "50" {
		t.Fatalf("C range = %+v", rs[5])
	}
}

func TestSynthesizeRangesRejectsMalformedCutoffs(t *testing.T) {
	o := grading.Outcome{Kind: grading.OutcomeAdaptive}
	if _, err := grading.SynthesizeRanges(o); !errors.Is(err, grading.ErrMalformedCutoffs) {
		t.Fatalf("nil cutoffs: err = %v", err)
	}
	o.Cutoffs = &grading.CutoffSet{O: math.NaN()}
	if _, err := grading.SynthesizeRanges(o); !errors.Is(err, grading.ErrMalformedCutoffs) {
		t.Fatalf("NaN cutoff: err = %v", err)
	}
	if _, err := grading.SynthesizeRanges(grading.Outcome{}); err == nil {
		t.Fatal("zero outcome kind should be rejected")
	}
}
