package gradebook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs. *Repository
// implements it.
type Store interface {
	InsertCourse(ctx context.Context, c Course) (Course, error)
	UpdateCourse(ctx context.Context, c Course) error
	GetCourse(ctx context.Context, id string) (Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	DeleteCourse(ctx context.Context, id string) error
	UpsertGrade(ctx context.Context, g Grade) (Grade, error)
	ListGrades(ctx context.Context, courseID string) ([]Grade, error)
}

// Service validates and coordinates course and grade writes.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateCourse validates and inserts a course. Each assessment spec needs
// a name and a positive max score; missing spec ids are generated.
func (s *Service) CreateCourse(ctx context.Context, name string, professors []string, specs []Assessment) (Course, error) {
	c := Course{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Professors:  professors,
		Code:        generateCode(),
		Assessments: specs,
	}
	if err := validateCourse(c); err != nil {
		return Course{}, err
	}
	for i := range c.Assessments {
		if c.Assessments[i].ID == "" {
			c.Assessments[i].ID = "asm_" + uuid.NewString()
		}
	}
	return s.store.InsertCourse(ctx, c)
}

// UpdateCourse overwrites an existing course's definition. The generated
// code is kept.
func (s *Service) UpdateCourse(ctx context.Context, id, name string, professors []string, specs []Assessment) (Course, error) {
	existing, err := s.store.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	c := Course{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Professors:  professors,
		Code:        existing.Code,
		Assessments: specs,
		CreatedAt:   existing.CreatedAt,
	}
	if err := validateCourse(c); err != nil {
		return Course{}, err
	}
	for i := range c.Assessments {
		if c.Assessments[i].ID == "" {
			c.Assessments[i].ID = "asm_" + uuid.NewString()
		}
	}
	return c, s.store.UpdateCourse(ctx, c)
}

func validateCourse(c Course) error {
	if c.Name == "" {
		return errors.New("course name required")
	}
	if len(c.Professors) == 0 {
		return errors.New("at least one professor required")
	}
	if len(c.Assessments) == 0 {
		return errors.New("at least one assessment required")
	}
	for _, a := range c.Assessments {
		if strings.TrimSpace(a.Name) == "" {
			return errors.New("assessment name required")
		}
		if a.MaxScore <= 0 {
			return fmt.Errorf("assessment %q needs a max score > 0", a.Name)
		}
	}
	return nil
}

// Courses lists all courses.
func (s *Service) Courses(ctx context.Context) ([]Course, error) {
	return s.store.ListCourses(ctx)
}

// DeleteCourse removes a course with its dependents.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	return s.store.DeleteCourse(ctx, id)
}

// SaveGrade upserts one student's score on one assessment. The score is
// validated against the assessment's max before any write.
func (s *Service) SaveGrade(ctx context.Context, courseID, assessmentID, studentID string, score float64) (Grade, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return Grade{}, err
	}
	var spec *Assessment
	for i := range course.Assessments {
		if course.Assessments[i].ID == assessmentID {
			spec = &course.Assessments[i]
			break
		}
	}
	if spec == nil {
		return Grade{}, errors.New("assessment not in course")
	}
	if score < 0 || score > spec.MaxScore {
		return Grade{}, fmt.Errorf("score must be between 0 and %g", spec.MaxScore)
	}
	return s.store.UpsertGrade(ctx, Grade{
		StudentID:    studentID,
		CourseID:     courseID,
		AssessmentID: assessmentID,
		Score:        score,
	})
}

// SheetResult reports the outcome of a full-class save. Each row is an
// independent upsert; a partial failure leaves the successful rows
// committed, so the caller gets the per-student breakdown.
type SheetResult struct {
	Saved  []Grade           `json:"saved"`
	Failed map[string]string `json:"failed,omitempty"`
}

// SaveSheet writes scores for many students on one assessment.
func (s *Service) SaveSheet(ctx context.Context, courseID, assessmentID string, scores map[string]float64) (SheetResult, error) {
	res := SheetResult{Failed: map[string]string{}}
	for studentID, score := range scores {
		g, err := s.SaveGrade(ctx, courseID, assessmentID, studentID, score)
		if err != nil {
			res.Failed[studentID] = err.Error()
			continue
		}
		res.Saved = append(res.Saved, g)
	}
	if len(res.Failed) == 0 {
		res.Failed = nil
	}
	return res, nil
}

// Grades lists grades, optionally by course.
func (s *Service) Grades(ctx context.Context, courseID string) ([]Grade, error) {
	return s.store.ListGrades(ctx, courseID)
}

// generateCode builds a short human-readable course code.
func generateCode() string {
	return fmt.Sprintf("CODE%04d", time.Now().UnixNano()%10000)
}
