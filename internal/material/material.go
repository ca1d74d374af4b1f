package material

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Material kinds.
const (
	KindPDF   = "PDF"
	KindImage = "IMAGE"
	KindLink  = "LINK"
)

// Section icons.
const (
	IconFolder = "FOLDER"
	IconBook   = "BOOK"
	IconFlask  = "FLASK"
)

// Section groups materials inside a course, folder style.
type Section struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

// Material is one file or link inside a section.
type Material struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	SectionID  string    `json:"sectionId"`
	Title      string    `json:"title"`
	Kind       string    `json:"type"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadDate"`
}

// Repository persists sections and materials in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateSection validates and inserts a folder for a course.
func (r *Repository) CreateSection(ctx context.Context, courseID, title, icon string) (Section, error) {
	if courseID == "" || strings.TrimSpace(title) == "" {
		return Section{}, errors.New("course and title required")
	}
	switch icon {
	case IconFolder, IconBook, IconFlask:
	default:
		icon = IconFolder
	}
	s := Section{ID: uuid.NewString(), CourseID: courseID, Title: strings.TrimSpace(title), Icon: icon}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO material_sections (id, course_id, title, icon)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, s.ID, s.CourseID, s.Title, s.Icon)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return Section{}, err
	}
	return s, nil
}

// ListSections returns every section; the client filters by course.
func (r *Repository) ListSections(ctx context.Context) ([]Section, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, course_id, title, icon, created_at FROM material_sections ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Section
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Title, &s.Icon, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSection removes a folder together with its materials, so nothing
// is orphaned.
func (r *Repository) DeleteSection(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM materials WHERE section_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM material_sections WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateMaterial validates and inserts a material in a section.
func (r *Repository) CreateMaterial(ctx context.Context, m Material) (Material, error) {
	if strings.TrimSpace(m.Title) == "" || strings.TrimSpace(m.URL) == "" || m.SectionID == "" || m.CourseID == "" {
		return Material{}, errors.New("title, url, course and section required")
	}
	switch m.Kind {
	case KindPDF, KindImage, KindLink:
	default:
		return Material{}, errors.New("type must be PDF, IMAGE or LINK")
	}
	m.ID = uuid.NewString()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO materials (id, course_id, section_id, title, kind, url)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING uploaded_at
	`, m.ID, m.CourseID, m.SectionID, m.Title, m.Kind, m.URL)
	if err := row.Scan(&m.UploadedAt); err != nil {
		return Material{}, err
	}
	return m, nil
}

// ListMaterials returns every material; the client filters by section.
func (r *Repository) ListMaterials(ctx context.Context) ([]Material, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, course_id, section_id, title, kind, url, uploaded_at FROM materials ORDER BY uploaded_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.CourseID, &m.SectionID, &m.Title, &m.Kind, &m.URL, &m.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMaterial removes one material.
func (r *Repository) DeleteMaterial(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	return err
}
