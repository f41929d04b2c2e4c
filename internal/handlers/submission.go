package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/middleware"
	"github.com/editorialstats/backend/internal/services"
	"github.com/editorialstats/backend/pkg/response"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
	evidenceService   *services.EvidenceService
}

func NewSubmissionHandler(db *gorm.DB, evidence *services.EvidenceService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: services.NewSubmissionService(db),
		evidenceService:   evidence,
	}
}

// Create records a new editorial decision report
// POST /api/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req services.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user := middleware.GetUser(c)
	result, err := h.submissionService.Create(user, &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, result)
}

// ListMine returns the caller's own reports
// GET /api/submissions/my
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	user := middleware.GetUser(c)
	subs, err := h.submissionService.ListMine(user)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, subs)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// UploadEvidence attaches an encrypted evidence file to one of the
// caller's submissions
// POST /api/submissions/:id/evidence
func (h *SubmissionHandler) UploadEvidence(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "evidence file required")
		return
	}

	content, err := readUpload(file)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	user := middleware.GetUser(c)
	result, err := h.evidenceService.Store(
		user,
		c.Param("id"),
		file.Filename,
		file.Header.Get("Content-Type"),
		content,
	)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			response.NotFound(c, "submission not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, result)
}
