package gradebook

import "math"

// GradePercent computes the rounded percentage score of one student in one
// course from mirrored data. The denominator is the sum of the course's
// assessment max scores; with no assessments the result is 0. Only grades
// matching the student, the course and one of its assessments contribute,
// and reordering assessments does not change the result.
func GradePercent(studentID string, course Course, grades []Grade) int {
	var maxTotal float64
	byAssessment := make(map[string]bool, len(course.Assessments))
	for _, a := range course.Assessments {
		maxTotal += a.MaxScore
		byAssessment[a.ID] = true
	}
	if maxTotal <= 0 {
		return 0
	}
	var total float64
	for _, g := range grades {
		if g.StudentID == studentID && g.CourseID == course.ID && byAssessment[g.AssessmentID] {
			total += g.Score
		}
	}
	return int(math.Round(100 * total / maxTotal))
}

// CourseTotal sums a student's raw scores across a course's assessments.
func CourseTotal(studentID string, course Course, grades []Grade) float64 {
	byAssessment := make(map[string]bool, len(course.Assessments))
	for _, a := range course.Assessments {
		byAssessment[a.ID] = true
	}
	var total float64
	for _, g := range grades {
		if g.StudentID == studentID && g.CourseID == course.ID && byAssessment[g.AssessmentID] {
			total += g.Score
		}
	}
	return total
}
