package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/utils"
)

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Publishers lists all publishers alphabetically.
func (s *CatalogService) Publishers() ([]models.Publisher, error) {
	var publishers []models.Publisher
	err := s.db.Order("name ASC").Find(&publishers).Error
	return publishers, err
}

// Journals lists journals alphabetically, optionally scoped to one
// publisher.
func (s *CatalogService) Journals(publisherID string) ([]models.Journal, error) {
	scope := s.db.Order("name ASC")
	if publisherID != "" {
		scope = scope.Where("publisher_id = ?", publisherID)
	}
	var journals []models.Journal
	err := scope.Find(&journals).Error
	return journals, err
}

type AddJournalRequest struct {
	Name        string `json:"name" binding:"required"`
	PublisherID string `json:"publisher_id" binding:"required"`
}

type AddJournalResponse struct {
	JournalID   string `json:"journal_id"`
	Name        string `json:"name"`
	PublisherID string `json:"publisher_id"`
}

// AddJournal registers a user-suggested journal. It starts unverified and
// earns verification through validated submissions.
func (s *CatalogService) AddJournal(user *models.User, req *AddJournalRequest) (*AddJournalResponse, error) {
	journal := models.Journal{
		JournalID:       utils.NewID("journal"),
		Name:            strings.TrimSpace(req.Name),
		PublisherID:     req.PublisherID,
		IsUserAdded:     true,
		IsVerified:      false,
		AddedByHashedID: user.HashedID,
	}
	if err := s.db.Create(&journal).Error; err != nil {
		return nil, err
	}
	return &AddJournalResponse{
		JournalID:   journal.JournalID,
		Name:        journal.Name,
		PublisherID: journal.PublisherID,
	}, nil
}
