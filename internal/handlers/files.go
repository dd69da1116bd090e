package handlers

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"

	apierrors "flash-designer-backend/internal/errors"
	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/supabase"
)

const maxUploadMemory = 32 << 20 // 32MB

type FilesHandler struct {
	storage FileStore
}

func NewFilesHandler(storage FileStore) *FilesHandler {
	return &FilesHandler{storage: storage}
}

// UploadFiles godoc
// @Summary     Upload project files
// @Description Uploads one or more files into a project's storage namespace.
// @Description Files are stored concurrently and the response reports one
// @Description outcome per file; earlier successes are not rolled back when
// @Description a sibling fails.
// @Tags        files
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       projectId formData string true "Project ID"
// @Param       files formData file true "Files to attach (multiple allowed)"
// @Success     200 {object} models.UploadFilesResponse
// @Failure     400 {object} errors.APIError
// @Router      /files [post]
func (h *FilesHandler) UploadFiles(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		apierrors.Validation(c, "failed to parse multipart form", err.Error())
		return
	}

	projectID := c.PostForm("projectId")
	if projectID == "" {
		apierrors.Validation(c, "projectId is required", nil)
		return
	}

	form := c.Request.MultipartForm
	if form == nil || len(form.File["files"]) == 0 {
		apierrors.Validation(c, "at least one file is required", nil)
		return
	}

	// Zero-byte files are rejected here; the storage layer does no size
	// validation of its own.
	var uploads []supabase.FileUpload
	for _, header := range form.File["files"] {
		if header.Size <= 0 {
			continue
		}

		src, err := header.Open()
		if err != nil {
			apierrors.Validation(c, "failed to read uploaded file", header.Filename)
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			apierrors.Validation(c, "failed to read uploaded file", header.Filename)
			return
		}

		uploads = append(uploads, supabase.FileUpload{Filename: header.Filename, Data: data})
	}

	if len(uploads) == 0 {
		apierrors.Validation(c, "files must not be empty", nil)
		return
	}

	results := h.storage.UploadMany(projectID, uploads)

	resp := models.UploadFilesResponse{Files: []string{}}
	for _, result := range results {
		if result.Err != nil {
			log.Printf("upload of %s to project %s failed: %v", result.Filename, projectID, result.Err)
			resp.Errors = append(resp.Errors, models.FileOpError{
				Item:  result.Filename,
				Error: "upload failed",
			})
			continue
		}
		resp.Files = append(resp.Files, result.URL)
	}
	resp.Count = len(resp.Files)

	respondOK(c, resp)
}

// DeleteFiles godoc
// @Summary     Delete project files
// @Description Removes the storage objects behind the given access URLs.
// @Description One outcome is reported per URL.
// @Tags        files
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DeleteFilesResponse
// @Failure     400 {object} errors.APIError
// @Router      /files [delete]
func (h *FilesHandler) DeleteFiles(c *gin.Context) {
	var req models.DeleteFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "fileUrls are required", err.Error())
		return
	}

	results := h.storage.DeleteMany(req.FileURLs)

	var resp models.DeleteFilesResponse
	for _, result := range results {
		if result.Err != nil {
			log.Printf("delete of %s failed: %v", result.URL, result.Err)
			resp.Errors = append(resp.Errors, models.FileOpError{
				Item:  result.URL,
				Error: "delete failed",
			})
			continue
		}
		resp.Count++
	}

	respondOK(c, resp)
}
