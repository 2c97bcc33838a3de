package grading_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/mind-engage/gradecurve/internal/grading"
)

func TestRunSmallCohort(t *testing.T) {
	cohort := []grading.Record{
		{ID: "s1", Mark: 95, HasMark: true},
		{ID: "s2", Mark: 85, HasMark: true},
		{ID: "s3", Mark: 65, HasMark: true},
		{ID: "s4", Mark: 40, HasMark: true},
		{ID: "s5"},
	}
	res, err := grading.NewEngine().Run(context.Background(), cohort)
	if err != nil {
		t.Fatal(err)
	}
	if res.Policy != grading.PolicyFixed {
		t.Fatalf("policy = %s", res.Policy)
	}
	wantGrades := []grading.Grade{grading.GradeO, grading.GradeAPlus, grading.GradeBPlus, grading.GradeU, grading.GradeU}
	wantPoints := []int{10, 9, 7, 0, 0}
	for i, a := range res.Assignments {
		if a.ID != cohort[i].ID || a.Grade != wantGrades[i] || a.Points != wantPoints[i] {
			t.Errorf("assignment %d = %+v, want %s/%d", i, a, wantGrades[i], wantPoints[i])
		}
	}
	if res.Assignments[4].Mark != nil || res.Assignments[4].Normalized != nil {
		t.Errorf("missing mark should have no mark or normalized value: %+v", res.Assignments[4])
	}
	if !reflect.DeepEqual(res.Ranges, grading.StaticRanges()) {
		t.Errorf("ranges = %+v, want static table", res.Ranges)
	}

	s := res.Summary
	if s.Count != 4 || s.Average != 71.25 || s.Min != 40 || s.Max != 95 {
		t.Errorf("summary aggregates = %+v", s)
	}
	if s.GradeCounts[grading.GradeU] != 2 || s.GradeCounts[grading.GradeA] != 0 || len(s.GradeCounts) != 7 {
		t.Errorf("grade counts = %v", s.GradeCounts)
	}
	if s.GradeRanges[grading.GradeU] != "Below 50" || len(s.Scheme) != 7 {
		t.Errorf("grade ranges = %v", s.GradeRanges)
	}
	if s.ObservedRanges[grading.GradeU] != "40" {
		t.Errorf("observed U range = %q", s.ObservedRanges[grading.GradeU])
	}
	if _, ok := s.ObservedRanges[grading.GradeA]; ok {
		t.Errorf("grades without members should have no observed range")
	}
}

func TestRunEmptyCohort(t *testing.T) {
	res, err := grading.NewEngine().Run(context.Background(), []grading.Record{{ID: "x"}, {ID: "y"}})
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range res.Assignments {
		if a.Grade != grading.GradeU {
			t.Fatalf("grade = %s, want U", a.Grade)
		}
	}
	if res.Summary.Count != 0 || res.Summary.Average != 0 {
		t.Fatalf("summary = %+v", res.Summary)
	}
	if !reflect.DeepEqual(res.Ranges, grading.StaticRanges()) {
		t.Fatalf("ranges = %+v", res.Ranges)
	}
}

func spreadCohort(n int, lo, hi float64) []grading.Record {
	out := make([]grading.Record, n)
	for i := range out {
		out[i] = grading.Record{ID: fmt.Sprintf("r%d", i), Mark: lo + float64(i)*(hi-lo)/float64(n-1), HasMark: true}
	}
	return out
}

func TestRunIsIdempotent(t *testing.T) {
	cohort := spreadCohort(45, 30, 100)
	eng := grading.NewEngine()
	a, err := eng.Run(context.Background(), cohort)
	if err != nil {
		t.Fatal(err)
	}
	b, err := eng.Run(context.Background(), cohort)
	if err != nil {
		t.Fatal(err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if !bytes.Equal(ja, jb) {
		t.Fatalf("two runs differ:\n%s\n%s", ja, jb)
	}
}

func TestRunConcurrentCohortsKeepTheirOwnRanges(t *testing.T) {
	eng := grading.NewEngine()
	cohorts := [][]grading.Record{
		spreadCohort(40, 50, 100),
		spreadCohort(60, 55, 75),
		spreadCohort(35, 80, 99),
		spreadCohort(10, 0, 100),
	}
	want := make([][]grading.Range, len(cohorts))
	for i, c := range cohorts {
		res, err := eng.Run(context.Background(), c)
		if err != nil {
			t.Fatal(err)
		}
		want[i] = res.Ranges
	}

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for round := 0; round < 50; round++ {
		for i, c := range cohorts {
			wg.Add(1)
			go func(i int, c []grading.Record) {
				defer wg.Done()
				res, err := eng.Run(context.Background(), c)
				if err != nil {
					errs <- err
					return
				}
				if !reflect.DeepEqual(res.Ranges, want[i]) {
					errs <- fmt.Errorf("cohort %d got ranges %+v", i, res.Ranges)
				}
			}(i, c)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRunLogsFallback(t *testing.T) {
	var buf bytes.Buffer
	l := log.New("test")
	l.SetOutput(&buf)
	l.SetLevel(log.WARN)

	vals := make([]float64, 35)
	for i := range vals {
		vals[i] = 70
	}
	res, err := grading.NewEngine(grading.WithLogger(l)).Run(context.Background(), marks(vals...))
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.FallbackReason != grading.ReasonTooFewDistinct {
		t.Fatalf("fallback reason = %q", res.Summary.FallbackReason)
	}
	if !bytes.Contains(buf.Bytes(), []byte(grading.ReasonTooFewDistinct)) {
		t.Fatalf("fallback not logged: %q", buf.String())
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := grading.NewEngine().Run(ctx, marks(70)); err == nil {
		t.Fatal("expected context error")
	}
}
