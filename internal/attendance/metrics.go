package attendance

import "math"

// Summary is the derived attendance standing of one student in one course.
type Summary struct {
	Sessions int `json:"sessions"`
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Percent  int `json:"percent"`
}

// Summarize computes a student's attendance for the given course sessions
// from mirrored data. The percentage denominator is the number of sessions;
// with no sessions yet the convention is full credit (100). The absent
// count reflects explicit ABSENT records only: an unrecorded session still
// widens the denominator but is not counted as an absence.
func Summarize(studentID string, sessions []Session, records []Record) Summary {
	bySession := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		bySession[s.ID] = true
	}
	sum := Summary{Sessions: len(sessions)}
	for _, r := range records {
		if r.StudentID != studentID || !bySession[r.SessionID] {
			continue
		}
		switch r.Status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		}
	}
	if sum.Sessions == 0 {
		sum.Percent = 100
		return sum
	}
	sum.Percent = int(math.Round(100 * float64(sum.Present) / float64(sum.Sessions)))
	return sum
}
