package services

import (
	"taskify/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

func NewPagination(page, pageSize int, totalCount int64) Pagination {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

type HistoryService interface {
	GetHistory(db *gorm.DB, userID uuid.UUID, page, pageSize int) ([]models.HistoryEntry, Pagination, error)
	DeleteEntry(db *gorm.DB, userID, id uuid.UUID) error
}

type HistoryServiceImpl struct{}

func NewHistoryService() *HistoryServiceImpl {
	return &HistoryServiceImpl{}
}

func (s *HistoryServiceImpl) GetHistory(db *gorm.DB, userID uuid.UUID, page, pageSize int) ([]models.HistoryEntry, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var totalCount int64
	if err := db.Model(&models.HistoryEntry{}).
		Where("user_id = ?", userID).
		Count(&totalCount).Error; err != nil {
		return nil, Pagination{}, err
	}

	var entries []models.HistoryEntry
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return entries, NewPagination(page, pageSize, totalCount), nil
}

func (s *HistoryServiceImpl) DeleteEntry(db *gorm.DB, userID, id uuid.UUID) error {
	var entry models.HistoryEntry
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		return err
	}
	return db.Delete(&entry).Error
}
