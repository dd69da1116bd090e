package models

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,min=2"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateRoleRequest carries the one-time role selection. Admin is not
// self-assignable.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=marca diseñador"`
}

type CreateProjectRequest struct {
	Title       string   `json:"title" binding:"required,min=3"`
	Description string   `json:"description" binding:"required,min=10"`
	Files       []string `json:"files"`
}

// UpdateProjectRequest is a partial update; only non-nil fields are applied.
// Status is deliberately absent — it can only change through the status
// endpoint, which runs the transition policy.
type UpdateProjectRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=3"`
	Description *string   `json:"description" binding:"omitempty,min=10"`
	DesignerID  *string   `json:"designer_id" binding:"omitempty,uuid"`
	Files       *[]string `json:"files"`
}

type AssignDesignerRequest struct {
	DesignerID string `json:"designer_id" binding:"required,uuid"`
}

type UpdateStatusRequest struct {
	// Validated against the actor's allowed set by the transition policy,
	// not by the binding layer.
	Status string `json:"status" binding:"required"`
}

type ListProjectsRequest struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize,default=10" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=creado asignado en_progreso entregado aprobado rechazado"`
	Search   string `form:"search"`
}

type DeleteFilesRequest struct {
	FileURLs []string `json:"fileUrls" binding:"required,min=1"`
}
