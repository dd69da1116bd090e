package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flash-designer-backend/internal/config"
	apierrors "flash-designer-backend/internal/errors"
	"flash-designer-backend/internal/middleware"
	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/policy"
	"flash-designer-backend/internal/supabase"
)

type ProjectsHandler struct {
	store ProjectStore
	cfg   *config.Config
}

func NewProjectsHandler(store ProjectStore, cfg *config.Config) *ProjectsHandler {
	return &ProjectsHandler{
		store: store,
		cfg:   cfg,
	}
}

// ListProjects godoc
// @Summary     List projects
// @Description Lists projects with optional status and title filters, paginated.
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       page query int false "Page number (1-based)"
// @Param       pageSize query int false "Page size (1-100)"
// @Param       status query string false "Exact status filter"
// @Param       search query string false "Case-insensitive title substring"
// @Success     200 {object} models.ProjectListResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	var req models.ListProjectsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.Validation(c, "invalid list filters", err.Error())
		return
	}

	projects, total, err := h.store.ListProjects(supabase.ProjectFilters{
		Page:     req.Page,
		PageSize: req.PageSize,
		Status:   req.Status,
		Search:   req.Search,
	})
	if err != nil {
		log.Printf("project listing failed: %v", err)
		apierrors.Upstream(c, "failed to list projects")
		return
	}

	items := make([]models.ProjectResponse, len(projects))
	for i := range projects {
		items[i] = models.NewProjectResponse(&projects[i])
	}

	respondOK(c, models.ProjectListResponse{Items: items, Total: total})
}

// CreateProject inserts a project owned by the calling marca user; status is
// always creado and no designer is assigned, whatever the body says.
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	user, ok := middleware.GetSessionUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "invalid project", err.Error())
		return
	}

	project, err := h.store.CreateProject(req.Title, req.Description, req.Files, user.ID)
	if err != nil {
		log.Printf("project creation failed: %v", err)
		apierrors.Upstream(c, "failed to create project")
		return
	}

	respondCreated(c, models.NewProjectResponse(project))
}

func (h *ProjectsHandler) GetProject(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	project, err := h.store.GetProject(projectID)
	if errors.Is(err, supabase.ErrNotFound) {
		apierrors.NotFound(c, "project not found")
		return
	}
	if err != nil {
		log.Printf("project lookup failed: %v", err)
		apierrors.Upstream(c, "failed to get project")
		return
	}

	respondOK(c, models.NewProjectResponse(project))
}

// UpdateProject applies a partial content update. Status changes are not
// accepted here; they go through UpdateStatus and the transition policy.
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "invalid project update", err.Error())
		return
	}

	project, err := h.store.UpdateProject(projectID, req)
	if errors.Is(err, supabase.ErrNotFound) {
		apierrors.NotFound(c, "project not found")
		return
	}
	if err != nil {
		log.Printf("project update failed: %v", err)
		apierrors.Upstream(c, "failed to update project")
		return
	}

	respondOK(c, models.NewProjectResponse(project))
}

func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	err := h.store.DeleteProject(projectID)
	if errors.Is(err, supabase.ErrNotFound) {
		apierrors.NotFound(c, "project not found")
		return
	}
	if err != nil {
		log.Printf("project deletion failed: %v", err)
		apierrors.Upstream(c, "failed to delete project")
		return
	}

	respondOK(c, models.MessageResponse{Message: "project deleted"})
}

// AssignDesigner sets the designer and moves the project to asignado as one
// atomic update. The target must actually hold the diseñador role.
func (h *ProjectsHandler) AssignDesigner(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req models.AssignDesignerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "invalid assignment", err.Error())
		return
	}

	designerID, err := uuid.Parse(req.DesignerID)
	if err != nil {
		apierrors.Validation(c, "invalid designer id", nil)
		return
	}

	project, err := h.store.AssignDesigner(projectID, designerID)
	if errors.Is(err, supabase.ErrNotADesigner) {
		apierrors.Validation(c, "designer_id does not reference a designer", nil)
		return
	}
	if errors.Is(err, supabase.ErrNotFound) {
		apierrors.NotFound(c, "project not found")
		return
	}
	if err != nil {
		log.Printf("designer assignment failed: %v", err)
		apierrors.Upstream(c, "failed to assign designer")
		return
	}

	respondOK(c, models.NewProjectResponse(project))
}

// UpdateStatus validates the requested transition against the actor's role
// and the project's current state, then persists it. Admin authorization is
// tried first; a non-admin session falls through to the designer rules.
func (h *ProjectsHandler) UpdateStatus(c *gin.Context) {
	user, ok := middleware.GetSessionUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "invalid status request", err.Error())
		return
	}
	if !policy.ValidStatus(policy.Status(req.Status)) {
		apierrors.Validation(c, "unknown status", nil)
		return
	}

	project, err := h.store.GetProject(projectID)
	if errors.Is(err, supabase.ErrNotFound) {
		apierrors.NotFound(c, "project not found")
		return
	}
	if err != nil {
		log.Printf("project lookup failed: %v", err)
		apierrors.Upstream(c, "failed to get project")
		return
	}

	transition := policy.TransitionRequest{
		Role:             user.Role,
		Current:          policy.Status(project.Status),
		Requested:        policy.Status(req.Status),
		AssignedDesigner: project.DesignerID.Valid && project.DesignerID.UUID == user.ID,
	}
	opts := policy.Options{Strict: h.cfg.StrictStatusTransitions}

	if err := policy.Validate(transition, opts); err != nil {
		var violation *policy.ViolationError
		if errors.As(err, &violation) {
			apierrors.PolicyViolation(c, violation.Error())
			return
		}
		apierrors.PolicyViolation(c, "status transition not permitted")
		return
	}

	updated, err := h.store.UpdateProjectStatus(projectID, req.Status)
	if errors.Is(err, supabase.ErrNotFound) {
		apierrors.NotFound(c, "project not found")
		return
	}
	if err != nil {
		log.Printf("status update failed: %v", err)
		apierrors.Upstream(c, "failed to update status")
		return
	}

	respondOK(c, models.NewProjectResponse(updated))
}

// GetProjectFiles returns the attached file URLs for one project.
func (h *ProjectsHandler) GetProjectFiles(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	project, err := h.store.GetProject(projectID)
	if errors.Is(err, supabase.ErrNotFound) {
		apierrors.NotFound(c, "project not found")
		return
	}
	if err != nil {
		log.Printf("project lookup failed: %v", err)
		apierrors.Upstream(c, "failed to get project")
		return
	}

	files := project.Files
	if files == nil {
		files = []string{}
	}

	respondOK(c, models.ProjectFilesResponse{
		ProjectID: project.ID.String(),
		Files:     files,
		Count:     len(files),
	})
}

func projectIDParam(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		apierrors.Validation(c, "invalid project id", nil)
		return uuid.Nil, false
	}
	return projectID, true
}
