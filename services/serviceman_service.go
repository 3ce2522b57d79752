package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/kendall-kelly/servicemen-api/validators"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned when a username/password pair does not match
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrServicemanNotFound is returned when no serviceman has the requested id
	ErrServicemanNotFound = errors.New("serviceman not found")
)

// ProfileUpdate holds the profile fields a serviceman may change. Nil fields are left alone.
type ProfileUpdate struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
}

// ServicemanService is the persistence gateway for servicemen and their related records
type ServicemanService struct {
	db *gorm.DB
}

// NewServicemanService creates a gateway over db
func NewServicemanService(db *gorm.DB) *ServicemanService {
	return &ServicemanService{db: db}
}

// Create persists a new serviceman with its email trimmed and lowercased. The Client is
// provisioned by the model's create hook in the same transaction.
func (s *ServicemanService) Create(ctx context.Context, serviceman *models.Serviceman) error {
	serviceman.Email = normalizeEmail(serviceman.Email)
	return translateWriteError(s.db.WithContext(ctx).Create(serviceman).Error)
}

// Register creates a serviceman from a validated sign-up request, hashing its password
func (s *ServicemanService) Register(ctx context.Context, req validators.SignUpRequest) (*models.Serviceman, error) {
	if err := validators.ValidateSignUp(req); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	serviceman := &models.Serviceman{
		FirstName:   req.Name,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       normalizeEmail(req.Email),
		Password:    string(hashed),
	}
	if err := s.Create(ctx, serviceman); err != nil {
		return nil, err
	}
	return serviceman, nil
}

// Authenticate resolves the username as an email (when it contains "@") or a phone
// number and checks the password. When several servicemen share the phone number,
// the lowest id whose password matches signs in. Unknown users and wrong passwords
// both return ErrInvalidCredentials.
func (s *ServicemanService) Authenticate(ctx context.Context, req validators.SignInRequest) (*models.Serviceman, error) {
	if err := validators.ValidateSignIn(req); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx)
	if req.UsernameIsEmail() {
		query = query.Where("email = ?", normalizeEmail(req.Username))
	} else {
		query = query.Where("phone_number = ?", strings.TrimSpace(req.Username))
	}

	// Phone numbers are not unique, so every account sharing one is a candidate
	var candidates []models.Serviceman
	if err := query.Order("id").Find(&candidates).Error; err != nil {
		return nil, err
	}

	for i := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].Password), []byte(req.Password)) == nil {
			return &candidates[i], nil
		}
	}
	return nil, ErrInvalidCredentials
}

// FindByID loads a serviceman by id
func (s *ServicemanService) FindByID(ctx context.Context, id uint) (*models.Serviceman, error) {
	var serviceman models.Serviceman
	if err := s.db.WithContext(ctx).First(&serviceman, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServicemanNotFound
		}
		return nil, err
	}
	return &serviceman, nil
}

// UpdateProfile applies the update and saves, re-running every field rule.
// Changing the email or phone number clears the matching verification flag.
func (s *ServicemanService) UpdateProfile(ctx context.Context, serviceman *models.Serviceman, update ProfileUpdate) error {
	updated := *serviceman

	if update.FirstName != nil {
		updated.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		updated.LastName = *update.LastName
	}
	if update.PhoneNumber != nil && *update.PhoneNumber != updated.PhoneNumber {
		updated.PhoneNumber = *update.PhoneNumber
		updated.PhoneNumberIsVerified = false
	}
	if update.Email != nil {
		if email := normalizeEmail(*update.Email); email != updated.Email {
			updated.Email = email
			updated.EmailIsVerified = false
		}
	}

	if err := translateWriteError(s.db.WithContext(ctx).Save(&updated).Error); err != nil {
		return err
	}
	*serviceman = updated
	return nil
}

// Client loads the serviceman's provisioned client
func (s *ServicemanService) Client(ctx context.Context, serviceman *models.Serviceman) (*models.Client, error) {
	if serviceman.ClientID == nil {
		return nil, fmt.Errorf("serviceman %d has no client: %w", serviceman.ID, gorm.ErrRecordNotFound)
	}
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, *serviceman.ClientID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Image loads the serviceman's profile image, or nil when there is none
func (s *ServicemanService) Image(ctx context.Context, serviceman *models.Serviceman) (*models.Image, error) {
	if serviceman.ImageID == nil {
		return nil, nil
	}
	var image models.Image
	if err := s.db.WithContext(ctx).First(&image, *serviceman.ImageID).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// ServiceStation loads the station the serviceman belongs to, or nil when there is none
func (s *ServicemanService) ServiceStation(ctx context.Context, serviceman *models.Serviceman) (*models.ServiceStation, error) {
	if serviceman.ServiceStationID == nil {
		return nil, nil
	}
	var station models.ServiceStation
	if err := s.db.WithContext(ctx).First(&station, *serviceman.ServiceStationID).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

// AttachImage stores the image row and makes it the serviceman's profile image.
// It returns the image it replaced, if any, so the caller can remove the stored object.
func (s *ServicemanService) AttachImage(ctx context.Context, serviceman *models.Serviceman, image *models.Image) (*models.Image, error) {
	previous, err := s.Image(ctx, serviceman)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(image).Error; err != nil {
			return err
		}
		if err := updateForeignKey(tx, serviceman.ID, "image_id", image.ID); err != nil {
			return err
		}
		if previous != nil {
			return tx.Delete(&models.Image{}, previous.ID).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	serviceman.ImageID = &image.ID
	return previous, nil
}

// AssignServiceStation makes the serviceman a member of the station
func (s *ServicemanService) AssignServiceStation(ctx context.Context, serviceman *models.Serviceman, stationID uint) error {
	if _, err := NewServiceStationService(s.db).FindByID(ctx, stationID); err != nil {
		return err
	}
	if err := updateForeignKey(s.db.WithContext(ctx), serviceman.ID, "service_station_id", stationID); err != nil {
		return err
	}
	serviceman.ServiceStationID = &stationID
	return nil
}

// LeaveServiceStation removes the serviceman from its station
func (s *ServicemanService) LeaveServiceStation(ctx context.Context, serviceman *models.Serviceman) error {
	if err := updateForeignKey(s.db.WithContext(ctx), serviceman.ID, "service_station_id", nil); err != nil {
		return err
	}
	serviceman.ServiceStationID = nil
	return nil
}

// ListByServiceStation returns the station's servicemen ordered by id
func (s *ServicemanService) ListByServiceStation(ctx context.Context, stationID uint) ([]models.Serviceman, error) {
	var servicemen []models.Serviceman
	if err := s.db.WithContext(ctx).
		Where("service_station_id = ?", stationID).
		Order("id").
		Find(&servicemen).Error; err != nil {
		return nil, err
	}
	return servicemen, nil
}

// updateForeignKey writes a single association column. Hooks are skipped because they
// would validate the zero-value model used to address the row.
func updateForeignKey(tx *gorm.DB, servicemanID uint, column string, value interface{}) error {
	return tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Serviceman{}).
		Where("id = ?", servicemanID).
		Update(column, value).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &models.UniquenessError{Entity: "serviceman", Field: "email", Err: err}
	}
	return err
}
