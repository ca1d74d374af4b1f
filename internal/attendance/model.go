package attendance

import (
	"fmt"
	"time"
)

// Record statuses. A session with no record for a student counts toward
// neither status.
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
)

// Session is one recorded lecture occurrence for a course.
type Session struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Date      string    `json:"date"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Record marks one student's status in one session. Its ID is the
// deterministic composite key from RecordKey, so marking the same student
// twice lands on the same row.
type Record struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
}

// RecordKey derives the primary key for a (session, student) pair.
func RecordKey(sessionID, studentID string) string {
	return fmt.Sprintf("%s:%s", sessionID, studentID)
}
