package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaterialsViewBack(t *testing.T) {
	var v MaterialsView

	v.OpenSection("sec1") // no course selected yet, ignored
	assert.Empty(t, v.SectionID)

	v.Open("c1")
	v.OpenSection("sec1")
	assert.Equal(t, "c1", v.CourseID)
	assert.Equal(t, "sec1", v.SectionID)

	assert.True(t, v.Back())
	assert.Equal(t, "c1", v.CourseID)
	assert.Empty(t, v.SectionID)

	assert.True(t, v.Back())
	assert.Empty(t, v.CourseID)

	assert.False(t, v.Back(), "already at top level")
}

func TestMaterialsViewOpenResetsDeeper(t *testing.T) {
	v := MaterialsView{CourseID: "c1", SectionID: "sec1"}
	v.Open("c2")
	assert.Equal(t, "c2", v.CourseID)
	assert.Empty(t, v.SectionID)
}

func TestAttendanceViewBack(t *testing.T) {
	var v AttendanceView

	v.Open("c1")
	v.OpenSession("l1")
	v.MarkStudent("s1")

	assert.True(t, v.Back())
	assert.Empty(t, v.MarkingStudent)
	assert.Equal(t, "l1", v.SessionID)

	assert.True(t, v.Back())
	assert.Empty(t, v.SessionID)
	assert.Equal(t, "c1", v.CourseID)

	assert.True(t, v.Back())
	assert.False(t, v.Back())
}

func TestAttendanceViewGuards(t *testing.T) {
	var v AttendanceView
	v.OpenSession("l1")
	assert.Empty(t, v.SessionID, "cannot open a session without a course")
	v.MarkStudent("s1")
	assert.Empty(t, v.MarkingStudent, "cannot mark without a session")

	v.Open("c1")
	v.OpenSession("l1")
	v.Open("c2")
	assert.Empty(t, v.SessionID, "switching course resets deeper levels")
}
