package gradebook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps courses and grades in maps, mimicking the repository's
// composite-key upsert behavior.
type fakeStore struct {
	courses map[string]Course
	grades  map[string]Grade
	failFor map[string]error // studentID -> error on UpsertGrade
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses: map[string]Course{},
		grades:  map[string]Grade{},
		failFor: map[string]error{},
	}
}

func (f *fakeStore) InsertCourse(_ context.Context, c Course) (Course, error) {
	f.courses[c.ID] = c
	return c, nil
}

func (f *fakeStore) UpdateCourse(_ context.Context, c Course) error {
	if _, ok := f.courses[c.ID]; !ok {
		return errors.New("no such course")
	}
	f.courses[c.ID] = c
	return nil
}

func (f *fakeStore) GetCourse(_ context.Context, id string) (Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return Course{}, errors.New("no such course")
	}
	return c, nil
}

func (f *fakeStore) ListCourses(_ context.Context) ([]Course, error) {
	out := make([]Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) DeleteCourse(_ context.Context, id string) error {
	delete(f.courses, id)
	return nil
}

func (f *fakeStore) UpsertGrade(_ context.Context, g Grade) (Grade, error) {
	if err := f.failFor[g.StudentID]; err != nil {
		return Grade{}, err
	}
	g.ID = GradeKey(g.StudentID, g.AssessmentID)
	f.grades[g.ID] = g
	return g, nil
}

func (f *fakeStore) ListGrades(_ context.Context, courseID string) ([]Grade, error) {
	out := make([]Grade, 0, len(f.grades))
	for _, g := range f.grades {
		if courseID == "" || g.CourseID == courseID {
			out = append(out, g)
		}
	}
	return out, nil
}

func seedCourse(t *testing.T, svc *Service) Course {
	t.Helper()
	c, err := svc.CreateCourse(context.Background(), "Databases", []string{"Dr. Salem"}, []Assessment{
		{ID: "mid", Name: "Midterm", MaxScore: 30},
		{ID: "fin", Name: "Final", MaxScore: 70},
	})
	require.NoError(t, err)
	return c
}

func TestCreateCourseValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	tests := []struct {
		name       string
		course     string
		professors []string
		specs      []Assessment
	}{
		{name: "empty name", course: "  ", professors: []string{"p"}, specs: []Assessment{{Name: "A", MaxScore: 10}}},
		{name: "no professors", course: "X", professors: nil, specs: []Assessment{{Name: "A", MaxScore: 10}}},
		{name: "no assessments", course: "X", professors: []string{"p"}, specs: nil},
		{name: "unnamed assessment", course: "X", professors: []string{"p"}, specs: []Assessment{{Name: " ", MaxScore: 10}}},
		{name: "zero max score", course: "X", professors: []string{"p"}, specs: []Assessment{{Name: "A", MaxScore: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCourse(ctx, tt.course, tt.professors, tt.specs)
			assert.Error(t, err)
		})
	}
}

func TestCreateCourseFillsIDsAndCode(t *testing.T) {
	svc := NewService(newFakeStore())
	c := seedCourse(t, svc)

	assert.NotEmpty(t, c.ID)
	assert.NotEmpty(t, c.Code)
	for _, a := range c.Assessments {
		assert.NotEmpty(t, a.ID)
	}
}

func TestUpdateCourseKeepsCode(t *testing.T) {
	svc := NewService(newFakeStore())
	c := seedCourse(t, svc)

	updated, err := svc.UpdateCourse(context.Background(), c.ID, "Databases II", []string{"Dr. Salem"}, c.Assessments)
	require.NoError(t, err)
	assert.Equal(t, c.Code, updated.Code)
	assert.Equal(t, "Databases II", updated.Name)
}

func TestSaveGradeRange(t *testing.T) {
	svc := NewService(newFakeStore())
	c := seedCourse(t, svc)
	ctx := context.Background()

	_, err := svc.SaveGrade(ctx, c.ID, "mid", "s1", 31)
	assert.Error(t, err, "above max")

	_, err = svc.SaveGrade(ctx, c.ID, "mid", "s1", -1)
	assert.Error(t, err, "negative")

	_, err = svc.SaveGrade(ctx, c.ID, "nope", "s1", 10)
	assert.Error(t, err, "unknown assessment")

	g, err := svc.SaveGrade(ctx, c.ID, "mid", "s1", 30)
	require.NoError(t, err)
	assert.Equal(t, GradeKey("s1", "mid"), g.ID)
}

func TestSaveGradeSameKeyOverwrites(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	c := seedCourse(t, svc)
	ctx := context.Background()

	_, err := svc.SaveGrade(ctx, c.ID, "mid", "s1", 12)
	require.NoError(t, err)
	_, err = svc.SaveGrade(ctx, c.ID, "mid", "s1", 18)
	require.NoError(t, err)

	grades, err := svc.Grades(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, grades, 1, "same (student, assessment) pair must land on one row")
	assert.Equal(t, 18.0, grades[0].Score)
}

func TestSaveSheetPartialFailure(t *testing.T) {
	store := newFakeStore()
	store.failFor["s2"] = errors.New("connection reset")
	svc := NewService(store)
	c := seedCourse(t, svc)

	res, err := svc.SaveSheet(context.Background(), c.ID, "fin", map[string]float64{
		"s1": 55,
		"s2": 60,
		"s3": 70,
	})
	require.NoError(t, err)
	assert.Len(t, res.Saved, 2)
	require.Contains(t, res.Failed, "s2")

	// successful rows stay committed
	grades, _ := svc.Grades(context.Background(), c.ID)
	assert.Len(t, grades, 2)
}
