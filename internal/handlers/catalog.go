package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/middleware"
	"github.com/editorialstats/backend/internal/services"
	"github.com/editorialstats/backend/pkg/response"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{
		catalogService: services.NewCatalogService(db),
	}
}

// Publishers lists all publishers
// GET /api/publishers
func (h *CatalogHandler) Publishers(c *gin.Context) {
	publishers, err := h.catalogService.Publishers()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, publishers)
}

// Journals lists journals, optionally filtered by publisher
// GET /api/journals
func (h *CatalogHandler) Journals(c *gin.Context) {
	journals, err := h.catalogService.Journals(c.Query("publisher_id"))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, journals)
}

// AddJournal registers a user-suggested journal
// POST /api/journals
func (h *CatalogHandler) AddJournal(c *gin.Context) {
	var req services.AddJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user := middleware.GetUser(c)
	journal, err := h.catalogService.AddJournal(user, &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, journal)
}
