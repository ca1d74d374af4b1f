package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs. *Repository
// implements it.
type Store interface {
	InsertSession(ctx context.Context, s Session) (Session, error)
	ListSessions(ctx context.Context, courseID string) ([]Session, error)
	DeleteSession(ctx context.Context, id string) error
	UpsertRecord(ctx context.Context, rec Record) (Record, error)
	ListRecords(ctx context.Context, sessionID string) ([]Record, error)
}

// Service validates and coordinates attendance writes.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateSession records a new lecture occurrence. An empty title defaults
// to "Lecture {date}".
func (s *Service) CreateSession(ctx context.Context, courseID, date, title string) (Session, error) {
	if courseID == "" || date == "" {
		return Session{}, errors.New("course and date required")
	}
	if title == "" {
		title = fmt.Sprintf("Lecture %s", date)
	}
	return s.store.InsertSession(ctx, Session{
		ID:       uuid.NewString(),
		CourseID: courseID,
		Date:     date,
		Title:    title,
	})
}

// Sessions lists sessions, optionally by course.
func (s *Service) Sessions(ctx context.Context, courseID string) ([]Session, error) {
	return s.store.ListSessions(ctx, courseID)
}

// DeleteSession removes a session with its records.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.store.DeleteSession(ctx, id)
}

// Mark upserts one student's status for one session.
func (s *Service) Mark(ctx context.Context, sessionID, studentID string, present bool) (Record, error) {
	if sessionID == "" || studentID == "" {
		return Record{}, errors.New("session and student required")
	}
	status := StatusAbsent
	if present {
		status = StatusPresent
	}
	return s.store.UpsertRecord(ctx, Record{
		SessionID: sessionID,
		StudentID: studentID,
		Status:    status,
	})
}

// Records lists records, optionally by session.
func (s *Service) Records(ctx context.Context, sessionID string) ([]Record, error) {
	return s.store.ListRecords(ctx, sessionID)
}
