package supabase_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/supabase"
)

var projectColumns = []string{
	"id", "title", "description", "files", "status", "brand_id", "designer_id", "created_at", "updated_at",
}

func newMockClient(t *testing.T) (*supabase.DatabaseClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return supabase.NewDatabaseClientWithDB(db), mock
}

func projectRow(id, brandID uuid.UUID, title, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(projectColumns).
		AddRow(id.String(), title, nil, "{}", status, brandID.String(), nil, now, now)
}

func TestCreateProject_ForcesInitialState(t *testing.T) {
	client, mock := newMockClient(t)
	projectID := uuid.New()
	brandID := uuid.New()

	mock.ExpectQuery("INSERT INTO projects").
		WithArgs("Logo", "Need a logo for my shop", sqlmock.AnyArg(), brandID).
		WillReturnRows(projectRow(projectID, brandID, "Logo", "creado"))

	project, err := client.CreateProject("Logo", "Need a logo for my shop", nil, brandID)
	assert.NoError(t, err)
	assert.Equal(t, "creado", project.Status)
	assert.Equal(t, brandID, project.BrandID)
	assert.False(t, project.DesignerID.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProject_NotFound(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id").
		WillReturnError(sql.ErrNoRows)

	_, err := client.GetProject(uuid.New())
	assert.ErrorIs(t, err, supabase.ErrNotFound)
}

func TestListProjects_PaginatesWithStableOrdering(t *testing.T) {
	client, mock := newMockClient(t)
	brandID := uuid.New()

	// page 1
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))
	mock.ExpectQuery(`SELECT (.+) FROM projects ORDER BY created_at DESC, id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(projectRow(uuid.New(), brandID, "Logo Restaurante", "creado"))

	items, total, err := client.ListProjects(supabase.ProjectFilters{Page: 1, PageSize: 10})
	assert.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Len(t, items, 1)

	// page 2 uses offset (page-1)*pageSize
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))
	mock.ExpectQuery(`SELECT (.+) FROM projects ORDER BY created_at DESC, id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(projectColumns))

	_, _, err = client.ListProjects(supabase.ProjectFilters{Page: 2, PageSize: 10})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProjects_AppliesFilters(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects WHERE status = \$1 AND title ILIKE \$2`).
		WithArgs("creado", "%Logo%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM projects WHERE status = \$1 AND title ILIKE \$2 ORDER BY (.+) LIMIT \$3 OFFSET \$4`).
		WithArgs("creado", "%Logo%", 10, 0).
		WillReturnRows(projectRow(uuid.New(), uuid.New(), "Logo Restaurante", "creado"))

	items, total, err := client.ListProjects(supabase.ProjectFilters{
		Page: 1, PageSize: 10, Status: "creado", Search: "Logo",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
	assert.Equal(t, "Logo Restaurante", items[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProject_OnlySuppliedFields(t *testing.T) {
	client, mock := newMockClient(t)
	projectID := uuid.New()
	title := "Nuevo título"

	mock.ExpectQuery(`UPDATE projects SET title = \$1, updated_at = NOW\(\) WHERE id = \$2 RETURNING`).
		WithArgs(title, projectID).
		WillReturnRows(projectRow(projectID, uuid.New(), title, "creado"))

	project, err := client.UpdateProject(projectID, models.UpdateProjectRequest{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, title, project.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProject_NoFieldsFallsBackToGet(t *testing.T) {
	client, mock := newMockClient(t)
	projectID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id").
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, uuid.New(), "Logo", "creado"))

	project, err := client.UpdateProject(projectID, models.UpdateProjectRequest{})
	assert.NoError(t, err)
	assert.Equal(t, "Logo", project.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProject_MissingIDIsNotFound(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectExec("DELETE FROM projects WHERE id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := client.DeleteProject(uuid.New())
	assert.ErrorIs(t, err, supabase.ErrNotFound)
}

func TestAssignDesigner_SetsDesignerAndStatusTogether(t *testing.T) {
	client, mock := newMockClient(t)
	projectID := uuid.New()
	designerID := uuid.New()

	mock.ExpectQuery("SELECT role FROM profiles WHERE id").
		WithArgs(designerID).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("diseñador"))

	now := time.Now()
	mock.ExpectQuery(`UPDATE projects\s+SET designer_id = \$1, status = 'asignado', updated_at = NOW\(\)`).
		WithArgs(designerID, projectID).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(projectID.String(), "Logo", nil, "{}", "asignado", uuid.New().String(), designerID.String(), now, now))

	project, err := client.AssignDesigner(projectID, designerID)
	assert.NoError(t, err)
	assert.Equal(t, "asignado", project.Status)
	assert.True(t, project.DesignerID.Valid)
	assert.Equal(t, designerID, project.DesignerID.UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignDesigner_RejectsNonDesigner(t *testing.T) {
	client, mock := newMockClient(t)
	designerID := uuid.New()

	mock.ExpectQuery("SELECT role FROM profiles WHERE id").
		WithArgs(designerID).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("marca"))

	_, err := client.AssignDesigner(uuid.New(), designerID)
	assert.ErrorIs(t, err, supabase.ErrNotADesigner)
}

func TestAssignDesigner_RejectsUnknownUser(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SELECT role FROM profiles WHERE id").
		WillReturnError(sql.ErrNoRows)

	_, err := client.AssignDesigner(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, supabase.ErrNotADesigner)
}

func TestUpdateProjectStatus(t *testing.T) {
	client, mock := newMockClient(t)
	projectID := uuid.New()

	mock.ExpectQuery(`UPDATE projects\s+SET status = \$1, updated_at = NOW\(\)`).
		WithArgs("en_progreso", projectID).
		WillReturnRows(projectRow(projectID, uuid.New(), "Logo", "en_progreso"))

	project, err := client.UpdateProjectStatus(projectID, "en_progreso")
	assert.NoError(t, err)
	assert.Equal(t, "en_progreso", project.Status)
}

func TestListDesigners(t *testing.T) {
	client, mock := newMockClient(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, COALESCE\\(full_name, ''\\)\\s+FROM profiles\\s+WHERE role = 'diseñador'").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).AddRow(id.String(), "Ana Diseño"))

	designers, err := client.ListDesigners()
	assert.NoError(t, err)
	assert.Len(t, designers, 1)
	assert.Equal(t, "Ana Diseño", designers[0].FullName)
	assert.Equal(t, id, designers[0].ID)
}
