package services

import (
	"context"
	"errors"

	"github.com/kendall-kelly/servicemen-api/models"
	"gorm.io/gorm"
)

// ErrServiceStationNotFound is returned when no service station has the requested id
var ErrServiceStationNotFound = errors.New("service station not found")

// ServiceStationService stores and looks up service stations
type ServiceStationService struct {
	db *gorm.DB
}

// NewServiceStationService creates a service station store over db
func NewServiceStationService(db *gorm.DB) *ServiceStationService {
	return &ServiceStationService{db: db}
}

// Create persists a new service station
func (s *ServiceStationService) Create(ctx context.Context, station *models.ServiceStation) error {
	return s.db.WithContext(ctx).Create(station).Error
}

// FindByID loads a service station by id
func (s *ServiceStationService) FindByID(ctx context.Context, id uint) (*models.ServiceStation, error) {
	var station models.ServiceStation
	if err := s.db.WithContext(ctx).First(&station, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceStationNotFound
		}
		return nil, err
	}
	return &station, nil
}

// List returns every service station ordered by name
func (s *ServiceStationService) List(ctx context.Context) ([]models.ServiceStation, error) {
	var stations []models.ServiceStation
	if err := s.db.WithContext(ctx).Order("name").Order("id").Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}
