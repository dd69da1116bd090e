package handlers

import (
	"github.com/google/uuid"

	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/policy"
	"flash-designer-backend/internal/supabase"
)

// The handler structs depend on these narrow interfaces rather than the
// concrete Supabase clients so tests can stand in fakes.

type ProjectStore interface {
	ListProjects(filters supabase.ProjectFilters) ([]models.Project, int, error)
	GetProject(projectID uuid.UUID) (*models.Project, error)
	CreateProject(title, description string, files []string, brandID uuid.UUID) (*models.Project, error)
	UpdateProject(projectID uuid.UUID, updates models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(projectID uuid.UUID) error
	AssignDesigner(projectID, designerID uuid.UUID) (*models.Project, error)
	UpdateProjectStatus(projectID uuid.UUID, status string) (*models.Project, error)
}

type ProfileStore interface {
	CreateProfile(userID uuid.UUID, fullName string) error
	SetProfileRole(userID uuid.UUID, role policy.Role) error
	ListDesigners() ([]models.Designer, error)
}

type FileStore interface {
	UploadMany(projectID string, files []supabase.FileUpload) []supabase.UploadResult
	DeleteMany(fileURLs []string) []supabase.DeleteResult
}

type AuthService interface {
	SignUp(email, password, fullName string) (models.SessionUser, error)
	SignIn(email, password string) (*supabase.Session, error)
	SignOut(accessToken string) error
	SetUserRole(userID uuid.UUID, role policy.Role) error
}
