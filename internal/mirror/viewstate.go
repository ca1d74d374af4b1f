package mirror

// Drill-down view state for the two nested screens. These are plain
// serializable values owned by the screen controller, never persisted;
// a restart resets navigation to the top level. An empty string means
// "nothing selected at this level".

// MaterialsView is the course > section > material list drill-down.
type MaterialsView struct {
	CourseID  string `json:"courseId"`
	SectionID string `json:"sectionId"`
}

// Open selects a course, resetting any deeper selection.
func (v *MaterialsView) Open(courseID string) {
	v.CourseID = courseID
	v.SectionID = ""
}

// OpenSection selects a section within the current course.
func (v *MaterialsView) OpenSection(sectionID string) {
	if v.CourseID == "" {
		return
	}
	v.SectionID = sectionID
}

// Back nulls the deepest selected level. It reports false when already at
// the top.
func (v *MaterialsView) Back() bool {
	switch {
	case v.SectionID != "":
		v.SectionID = ""
	case v.CourseID != "":
		v.CourseID = ""
	default:
		return false
	}
	return true
}

// AttendanceView is the course > session drill-down with an extra
// "marking one student" leaf.
type AttendanceView struct {
	CourseID       string `json:"courseId"`
	SessionID      string `json:"sessionId"`
	MarkingStudent string `json:"markingStudent"`
}

// Open selects a course, resetting any deeper selection.
func (v *AttendanceView) Open(courseID string) {
	v.CourseID = courseID
	v.SessionID = ""
	v.MarkingStudent = ""
}

// OpenSession selects a session within the current course.
func (v *AttendanceView) OpenSession(sessionID string) {
	if v.CourseID == "" {
		return
	}
	v.SessionID = sessionID
	v.MarkingStudent = ""
}

// MarkStudent enters the single-student marking leaf.
func (v *AttendanceView) MarkStudent(studentID string) {
	if v.SessionID == "" {
		return
	}
	v.MarkingStudent = studentID
}

// Back nulls the deepest selected level. It reports false when already at
// the top.
func (v *AttendanceView) Back() bool {
	switch {
	case v.MarkingStudent != "":
		v.MarkingStudent = ""
	case v.SessionID != "":
		v.SessionID = ""
	case v.CourseID != "":
		v.CourseID = ""
	default:
		return false
	}
	return true
}
