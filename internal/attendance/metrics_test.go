package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeNoSessions(t *testing.T) {
	sum := Summarize("s1", nil, nil)
	assert.Equal(t, 100, sum.Percent, "no sessions yet means full credit")
	assert.Zero(t, sum.Sessions)
	assert.Zero(t, sum.Present)
	assert.Zero(t, sum.Absent)
}

func TestSummarize(t *testing.T) {
	sessions := []Session{
		{ID: "l1", CourseID: "c1"},
		{ID: "l2", CourseID: "c1"},
		{ID: "l3", CourseID: "c1"},
		{ID: "l4", CourseID: "c1"},
	}
	records := []Record{
		{SessionID: "l1", StudentID: "s1", Status: StatusPresent},
		{SessionID: "l2", StudentID: "s1", Status: StatusAbsent},
		{SessionID: "l3", StudentID: "s1", Status: StatusPresent},
		// l4 has no record for s1
		{SessionID: "l1", StudentID: "s2", Status: StatusAbsent},
		{SessionID: "other", StudentID: "s1", Status: StatusPresent},
	}

	sum := Summarize("s1", sessions, records)
	assert.Equal(t, 4, sum.Sessions)
	assert.Equal(t, 2, sum.Present)
	assert.Equal(t, 1, sum.Absent, "unrecorded session is not an absence")
	// 2/4 = 50%
	assert.Equal(t, 50, sum.Percent)
}

func TestSummarizeUnrecordedWidensDenominator(t *testing.T) {
	sessions := []Session{{ID: "l1"}}
	records := []Record{{SessionID: "l1", StudentID: "s1", Status: StatusPresent}}

	before := Summarize("s1", sessions, records)
	assert.Equal(t, 100, before.Percent)

	// an extra session with no record lowers the percentage without
	// raising the absent count
	sessions = append(sessions, Session{ID: "l2"})
	after := Summarize("s1", sessions, records)
	assert.Equal(t, 50, after.Percent)
	assert.Equal(t, before.Absent, after.Absent)
}

func TestSummarizePercentNeverExceedsBounds(t *testing.T) {
	sessions := []Session{{ID: "l1"}, {ID: "l2"}, {ID: "l3"}}
	all := []Record{
		{SessionID: "l1", StudentID: "s1", Status: StatusPresent},
		{SessionID: "l2", StudentID: "s1", Status: StatusPresent},
		{SessionID: "l3", StudentID: "s1", Status: StatusPresent},
	}
	for n := 0; n <= len(all); n++ {
		sum := Summarize("s1", sessions, all[:n])
		assert.GreaterOrEqual(t, sum.Percent, 0)
		assert.LessOrEqual(t, sum.Percent, 100)
	}
	// more present records never lowers the percentage
	prev := -1
	for n := 0; n <= len(all); n++ {
		p := Summarize("s1", sessions, all[:n]).Percent
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func TestSummarizeRounding(t *testing.T) {
	sessions := []Session{{ID: "l1"}, {ID: "l2"}, {ID: "l3"}}
	records := []Record{
		{SessionID: "l1", StudentID: "s1", Status: StatusPresent},
		{SessionID: "l2", StudentID: "s1", Status: StatusPresent},
	}
	// 2/3 = 66.67 rounds to 67
	assert.Equal(t, 67, Summarize("s1", sessions, records).Percent)
}
