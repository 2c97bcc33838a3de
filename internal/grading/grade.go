package grading

// Grade is a letter grade on the ten-point scale.
type Grade string

const (
	GradeO     Grade = "O"
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeU     Grade = "U"
)

const (
	// PassMark is the lowest mark that can earn a grade above U.
	PassMark = 50
	// MaxMark is the top of the mark scale.
	MaxMark = 100
)

// passingGrades is ordered highest first; U is never a passing grade.
var passingGrades = []Grade{GradeO, GradeAPlus, GradeA, GradeBPlus, GradeB, GradeC}

var gradePoints = map[Grade]int{
	GradeO:     10,
	GradeAPlus: 9,
	GradeA:     8,
	GradeBPlus: 7,
	GradeB:     6,
	GradeC:     5,
	GradeU:     0,
}

// AllGrades returns every grade from highest to lowest, U last.
func AllGrades() []Grade {
	out := make([]Grade, 0, len(passingGrades)+1)
	out = append(out, passingGrades...)
	return append(out, GradeU)
}

// Points maps a grade to its grade-point value. Unknown grades earn 0.
func Points(g Grade) int {
	return gradePoints[g]
}

// Valid reports whether g is one of the seven grades.
func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}
