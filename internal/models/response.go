package models

import "time"

type ProjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Files       []string  `json:"files"`
	Status      string    `json:"status"`
	BrandID     string    `json:"brand_id"`
	DesignerID  *string   `json:"designer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProjectResponse(p *Project) ProjectResponse {
	resp := ProjectResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Files:     p.Files,
		Status:    p.Status,
		BrandID:   p.BrandID.String(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if resp.Files == nil {
		resp.Files = []string{}
	}
	if p.Description.Valid {
		resp.Description = &p.Description.String
	}
	if p.DesignerID.Valid {
		id := p.DesignerID.UUID.String()
		resp.DesignerID = &id
	}
	return resp
}

type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Total int               `json:"total"`
}

type ProjectFilesResponse struct {
	ProjectID string   `json:"projectId"`
	Files     []string `json:"files"`
	Count     int      `json:"count"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Role     *string `json:"role"`
	FullName string  `json:"full_name"`
}

func NewUserResponse(u SessionUser) UserResponse {
	resp := UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		FullName: u.FullName,
	}
	if u.HasRole() {
		role := string(u.Role)
		resp.Role = &role
	}
	return resp
}

type SignInResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
}

type RoleResponse struct {
	Role string `json:"role"`
}

type DesignerResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// FileOpError reports one failed item of a batch file operation.
type FileOpError struct {
	// Filename for uploads, URL for deletes.
	Item  string `json:"item"`
	Error string `json:"error"`
}

// UploadFilesResponse reports batch upload results per item: URLs for the
// files that stored successfully, one error entry for each that did not.
type UploadFilesResponse struct {
	Files  []string      `json:"files"`
	Count  int           `json:"count"`
	Errors []FileOpError `json:"errors,omitempty"`
}

type DeleteFilesResponse struct {
	Count  int           `json:"count"`
	Errors []FileOpError `json:"errors,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
