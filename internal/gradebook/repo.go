package gradebook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// Repository persists courses and grades in Postgres. Professors and
// assessment specs are stored inline on the course row as JSONB, mirroring
// the document shape the rest of the app sees.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertCourse writes a new course.
func (r *Repository) InsertCourse(ctx context.Context, c Course) (Course, error) {
	profs, err := json.Marshal(c.Professors)
	if err != nil {
		return Course{}, err
	}
	specs, err := json.Marshal(c.Assessments)
	if err != nil {
		return Course{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO courses (id, name, professors, code, assessments)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, c.ID, c.Name, profs, c.Code, specs)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Course{}, err
	}
	return c, nil
}

// UpdateCourse overwrites name, professors and assessment specs.
func (r *Repository) UpdateCourse(ctx context.Context, c Course) error {
	profs, err := json.Marshal(c.Professors)
	if err != nil {
		return err
	}
	specs, err := json.Marshal(c.Assessments)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE courses SET name = $2, professors = $3, assessments = $4 WHERE id = $1
	`, c.ID, c.Name, profs, specs)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("course not found")
	}
	return nil
}

// GetCourse returns one course.
func (r *Repository) GetCourse(ctx context.Context, id string) (Course, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, professors, code, assessments, created_at FROM courses WHERE id = $1
	`, id)
	return scanCourse(row.Scan)
}

// ListCourses returns every course.
func (r *Repository) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, professors, code, assessments, created_at FROM courses ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Course
	for rows.Next() {
		c, err := scanCourse(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCourse(scan func(dest ...any) error) (Course, error) {
	var (
		c     Course
		profs []byte
		specs []byte
	)
	if err := scan(&c.ID, &c.Name, &profs, &c.Code, &specs, &c.CreatedAt); err != nil {
		return Course{}, err
	}
	if err := json.Unmarshal(profs, &c.Professors); err != nil {
		return Course{}, err
	}
	if err := json.Unmarshal(specs, &c.Assessments); err != nil {
		return Course{}, err
	}
	return c, nil
}

// DeleteCourse removes a course and every dependent document in one
// transaction: grades, attendance sessions and their records, material
// sections and their materials.
func (r *Repository) DeleteCourse(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range []string{
		`DELETE FROM grades WHERE course_id = $1`,
		`DELETE FROM attendance_records WHERE session_id IN (SELECT id FROM attendance_sessions WHERE course_id = $1)`,
		`DELETE FROM attendance_sessions WHERE course_id = $1`,
		`DELETE FROM materials WHERE course_id = $1`,
		`DELETE FROM material_sections WHERE course_id = $1`,
		`DELETE FROM courses WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpsertGrade writes a grade row keyed by GradeKey. Conflicts overwrite
// the score, so repeated saves never duplicate.
func (r *Repository) UpsertGrade(ctx context.Context, g Grade) (Grade, error) {
	g.ID = GradeKey(g.StudentID, g.AssessmentID)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO grades (id, student_id, course_id, assessment_id, score)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()
	`, g.ID, g.StudentID, g.CourseID, g.AssessmentID, g.Score)
	if err != nil {
		return Grade{}, err
	}
	return g, nil
}

// ListGrades returns every grade, optionally filtered by course.
func (r *Repository) ListGrades(ctx context.Context, courseID string) ([]Grade, error) {
	query := `SELECT id, student_id, course_id, assessment_id, score FROM grades`
	args := []any{}
	if courseID != "" {
		query += ` WHERE course_id = $1`
		args = append(args, courseID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Grade
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.StudentID, &g.CourseID, &g.AssessmentID, &g.Score); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
