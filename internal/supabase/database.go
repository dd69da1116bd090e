package supabase

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/policy"
)

// ErrNotFound is returned when a queried row does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotADesigner is returned when an assignment targets a user that does
// not hold the diseñador role.
var ErrNotADesigner = errors.New("user is not a designer")

const projectColumns = "id, title, description, files, status, brand_id, designer_id, created_at, updated_at"

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientWithDB wraps an existing handle; used by tests.
func NewDatabaseClientWithDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

// ProjectFilters narrows and pages a project listing.
type ProjectFilters struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// ListProjects returns one page of projects plus the total match count.
// Ordering is stable (created_at, then id) so offset pagination yields
// disjoint pages.
func (d *DatabaseClient) ListProjects(filters ProjectFilters) ([]models.Project, int, error) {
	var conditions []string
	var args []interface{}

	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	err := d.db.QueryRow("SELECT COUNT(*) FROM projects"+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(
		"SELECT %s FROM projects%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		projectColumns, whereClause, len(args)-1, len(args),
	)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

func (d *DatabaseClient) GetProject(projectID uuid.UUID) (*models.Project, error) {
	row := d.db.QueryRow(
		"SELECT "+projectColumns+" FROM projects WHERE id = $1",
		projectID,
	)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// CreateProject inserts a new project for the creating marca user. Status
// and designer assignment are forced to their initial values regardless of
// input.
func (d *DatabaseClient) CreateProject(title, description string, files []string, brandID uuid.UUID) (*models.Project, error) {
	if files == nil {
		files = []string{}
	}

	row := d.db.QueryRow(`
		INSERT INTO projects (title, description, files, status, brand_id)
		VALUES ($1, $2, $3, 'creado', $4)
		RETURNING `+projectColumns,
		title, description, pq.Array(files), brandID,
	)

	project, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// UpdateProject applies only the supplied fields. Status is not updatable
// here; status changes go through UpdateProjectStatus after the transition
// policy has validated them.
func (d *DatabaseClient) UpdateProject(projectID uuid.UUID, updates models.UpdateProjectRequest) (*models.Project, error) {
	var assignments []string
	var args []interface{}

	if updates.Title != nil {
		args = append(args, *updates.Title)
		assignments = append(assignments, fmt.Sprintf("title = $%d", len(args)))
	}
	if updates.Description != nil {
		args = append(args, *updates.Description)
		assignments = append(assignments, fmt.Sprintf("description = $%d", len(args)))
	}
	if updates.DesignerID != nil {
		designerID, err := uuid.Parse(*updates.DesignerID)
		if err != nil {
			return nil, fmt.Errorf("invalid designer id: %w", err)
		}
		args = append(args, designerID)
		assignments = append(assignments, fmt.Sprintf("designer_id = $%d", len(args)))
	}
	if updates.Files != nil {
		args = append(args, pq.Array(*updates.Files))
		assignments = append(assignments, fmt.Sprintf("files = $%d", len(args)))
	}

	if len(assignments) == 0 {
		return d.GetProject(projectID)
	}

	assignments = append(assignments, "updated_at = NOW()")
	args = append(args, projectID)

	query := fmt.Sprintf(
		"UPDATE projects SET %s WHERE id = $%d RETURNING %s",
		strings.Join(assignments, ", "), len(args), projectColumns,
	)

	project, err := scanProject(d.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject hard-deletes; a missing id is an error, not a no-op.
func (d *DatabaseClient) DeleteProject(projectID uuid.UUID) error {
	result, err := d.db.Exec("DELETE FROM projects WHERE id = $1", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignDesigner verifies the target user actually holds the diseñador role,
// then sets designer_id and status in a single statement so the pair is
// both-or-neither.
func (d *DatabaseClient) AssignDesigner(projectID, designerID uuid.UUID) (*models.Project, error) {
	var role sql.NullString
	err := d.db.QueryRow("SELECT role FROM profiles WHERE id = $1", designerID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotADesigner
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up designer: %w", err)
	}
	if !role.Valid || role.String != string(policy.RoleDisenador) {
		return nil, ErrNotADesigner
	}

	row := d.db.QueryRow(`
		UPDATE projects
		SET designer_id = $1, status = 'asignado', updated_at = NOW()
		WHERE id = $2
		RETURNING `+projectColumns,
		designerID, projectID,
	)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to assign designer: %w", err)
	}
	return project, nil
}

// UpdateProjectStatus is the only status write path.
func (d *DatabaseClient) UpdateProjectStatus(projectID uuid.UUID, status string) (*models.Project, error) {
	row := d.db.QueryRow(`
		UPDATE projects
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+projectColumns,
		status, projectID,
	)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	return project, nil
}

func (d *DatabaseClient) CreateProfile(userID uuid.UUID, fullName string) error {
	_, err := d.db.Exec(
		"INSERT INTO profiles (id, full_name) VALUES ($1, $2)",
		userID, fullName,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetProfile(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := d.db.QueryRow(`
		SELECT id, full_name, role, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, userID).Scan(
		&profile.ID, &profile.FullName, &profile.Role, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// SetProfileRole updates the role mirror kept alongside the auth claim.
func (d *DatabaseClient) SetProfileRole(userID uuid.UUID, role policy.Role) error {
	result, err := d.db.Exec(
		"UPDATE profiles SET role = $1, updated_at = NOW() WHERE id = $2",
		string(role), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set profile role: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set profile role: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseClient) ListDesigners() ([]models.Designer, error) {
	rows, err := d.db.Query(`
		SELECT id, COALESCE(full_name, '')
		FROM profiles
		WHERE role = 'diseñador'
		ORDER BY full_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list designers: %w", err)
	}
	defer rows.Close()

	var designers []models.Designer
	for rows.Next() {
		var designer models.Designer
		if err := rows.Scan(&designer.ID, &designer.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan designer: %w", err)
		}
		designers = append(designers, designer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list designers: %w", err)
	}

	return designers, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID, &project.Title, &project.Description, pq.Array(&project.Files),
		&project.Status, &project.BrandID, &project.DesignerID,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}
