package services

import (
	"context"
	"errors"

	"github.com/kendall-kelly/servicemen-api/models"
	"gorm.io/gorm"
)

// ErrPermissionNotFound is returned when no permission has the requested code
var ErrPermissionNotFound = errors.New("permission not found")

// PermissionService reads the permissions seeded by migrations
type PermissionService struct {
	db *gorm.DB
}

// NewPermissionService creates a permission reader over db
func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// List returns every permission in insertion order
func (s *PermissionService) List(ctx context.Context) ([]models.Permission, error) {
	var permissions []models.Permission
	if err := s.db.WithContext(ctx).Order("id").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// FindByCode loads a permission by its unique code. Codes are case sensitive.
func (s *PermissionService) FindByCode(ctx context.Context, code string) (*models.Permission, error) {
	var permission models.Permission
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&permission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	return &permission, nil
}
