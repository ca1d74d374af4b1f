package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixtureCourse() Course {
	return Course{
		ID:   "c1",
		Name: "Algorithms",
		Assessments: []Assessment{
			{ID: "a1", Name: "Midterm", MaxScore: 20},
			{ID: "a2", Name: "Final", MaxScore: 60},
			{ID: "a3", Name: "Project", MaxScore: 20},
		},
	}
}

func TestGradePercent(t *testing.T) {
	course := fixtureCourse()
	tests := []struct {
		name    string
		student string
		grades  []Grade
		want    int
	}{
		{name: "no grades", student: "s1", grades: nil, want: 0},
		{
			name:    "full marks",
			student: "s1",
			grades: []Grade{
				{StudentID: "s1", CourseID: "c1", AssessmentID: "a1", Score: 20},
				{StudentID: "s1", CourseID: "c1", AssessmentID: "a2", Score: 60},
				{StudentID: "s1", CourseID: "c1", AssessmentID: "a3", Score: 20},
			},
			want: 100,
		},
		{
			name:    "partial rounds to nearest",
			student: "s1",
			grades: []Grade{
				{StudentID: "s1", CourseID: "c1", AssessmentID: "a1", Score: 15},
				{StudentID: "s1", CourseID: "c1", AssessmentID: "a2", Score: 41},
			},
			// 56/100 = 56%
			want: 56,
		},
		{
			name:    "half rounds up",
			student: "s1",
			grades: []Grade{
				{StudentID: "s1", CourseID: "c1", AssessmentID: "a1", Score: 12.5},
				{StudentID: "s1", CourseID: "c1", AssessmentID: "a2", Score: 60},
			},
			// 72.5/100 rounds to 73
			want: 73,
		},
		{
			name:    "other students and courses ignored",
			student: "s1",
			grades: []Grade{
				{StudentID: "s2", CourseID: "c1", AssessmentID: "a1", Score: 20},
				{StudentID: "s1", CourseID: "c2", AssessmentID: "a1", Score: 20},
				{StudentID: "s1", CourseID: "c1", AssessmentID: "zzz", Score: 20},
				{StudentID: "s1", CourseID: "c1", AssessmentID: "a1", Score: 10},
			},
			want: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradePercent(tt.student, course, tt.grades))
		})
	}
}

func TestGradePercentNoAssessments(t *testing.T) {
	course := Course{ID: "c1", Name: "Empty"}
	grades := []Grade{{StudentID: "s1", CourseID: "c1", AssessmentID: "a1", Score: 20}}
	assert.Equal(t, 0, GradePercent("s1", course, grades))
}

func TestGradePercentOrderIndependent(t *testing.T) {
	course := fixtureCourse()
	grades := []Grade{
		{StudentID: "s1", CourseID: "c1", AssessmentID: "a1", Score: 17},
		{StudentID: "s1", CourseID: "c1", AssessmentID: "a2", Score: 44},
		{StudentID: "s1", CourseID: "c1", AssessmentID: "a3", Score: 9},
	}
	want := GradePercent("s1", course, grades)

	reversed := []Grade{grades[2], grades[1], grades[0]}
	assert.Equal(t, want, GradePercent("s1", course, reversed))

	shuffledCourse := course
	shuffledCourse.Assessments = []Assessment{
		course.Assessments[2], course.Assessments[0], course.Assessments[1],
	}
	assert.Equal(t, want, GradePercent("s1", shuffledCourse, grades))
}

func TestCourseTotal(t *testing.T) {
	course := fixtureCourse()
	grades := []Grade{
		{StudentID: "s1", CourseID: "c1", AssessmentID: "a1", Score: 11},
		{StudentID: "s1", CourseID: "c1", AssessmentID: "a2", Score: 33.5},
		{StudentID: "s2", CourseID: "c1", AssessmentID: "a1", Score: 20},
	}
	assert.Equal(t, 44.5, CourseTotal("s1", course, grades))
	assert.Equal(t, 20.0, CourseTotal("s2", course, grades))
	assert.Equal(t, 0.0, CourseTotal("s3", course, grades))
}
