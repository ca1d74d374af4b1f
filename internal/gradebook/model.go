package gradebook

import (
	"fmt"
	"time"
)

// Assessment is a named, max-scored grading component embedded in its
// course (e.g. "Midterm", max 20).
type Assessment struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	MaxScore float64 `json:"maxScore"`
	Date     string  `json:"date,omitempty"`
}

// Course owns its assessment specs inline.
type Course struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Professors  []string     `json:"professors"`
	Code        string       `json:"code"`
	Assessments []Assessment `json:"assessments"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Grade scores one student on one assessment. Its ID is the deterministic
// composite key returned by GradeKey, which makes saves idempotent
// upserts: two writers racing on the same (student, assessment) pair land
// on the same row instead of creating duplicates.
type Grade struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"studentId"`
	CourseID     string  `json:"courseId"`
	AssessmentID string  `json:"assessmentId"`
	Score        float64 `json:"score"`
}

// GradeKey derives the primary key for a (student, assessment) pair.
func GradeKey(studentID, assessmentID string) string {
	return fmt.Sprintf("%s:%s", studentID, assessmentID)
}
