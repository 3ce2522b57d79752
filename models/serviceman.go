package models

import (
	"time"

	"github.com/kendall-kelly/servicemen-api/validators"
	"gorm.io/gorm"
)

var fieldValidator = validators.New()

// Serviceman represents a service-provider account.
// Related records are referenced by id only; use the services gateway to load them.
type Serviceman struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	FirstName             string    `gorm:"size:50;not null" json:"firstName" validate:"required,min=2,max=50"`
	LastName              string    `gorm:"size:50" json:"lastName" validate:"omitempty,min=2,max=50"`
	PhoneNumber           string    `gorm:"size:11" json:"phoneNumber" validate:"omitempty,phone11"`
	Email                 string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password              string    `gorm:"not null" json:"-" validate:"required"` // bcrypt hash
	EmailIsVerified       bool      `gorm:"not null;default:false" json:"emailIsVerified"`
	PhoneNumberIsVerified bool      `gorm:"not null;default:false" json:"phoneNumberIsVerified"`
	ImageID               *uint     `gorm:"index" json:"imageId"`
	ClientID              *uint     `gorm:"index" json:"clientId"`
	ServiceStationID      *uint     `gorm:"index" json:"serviceStationId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Serviceman model
func (Serviceman) TableName() string {
	return "servicemen"
}

// Validate checks every field rule and returns a *ValidationError listing the failures
func (s *Serviceman) Validate() error {
	err := fieldValidator.Struct(s)
	if err == nil {
		return nil
	}

	violations := validators.Violations(err)
	if len(violations) == 0 {
		return err
	}

	fields := make([]*FieldError, 0, len(violations))
	for _, v := range violations {
		kind := ErrFormatViolation
		if v.Rule == "required" {
			kind = ErrRequiredFieldMissing
		}
		fields = append(fields, &FieldError{Field: v.Field, Rule: v.Rule, Message: v.Message, Kind: kind})
	}
	return &ValidationError{Entity: "serviceman", Fields: fields}
}

// BeforeSave runs the field rules on every create and save
func (s *Serviceman) BeforeSave(tx *gorm.DB) error {
	return s.Validate()
}

// BeforeCreate provisions the serviceman's Client inside the create transaction.
// Any later failure in the same create rolls the client back.
func (s *Serviceman) BeforeCreate(tx *gorm.DB) error {
	client := Client{}
	if err := tx.Create(&client).Error; err != nil {
		return &ProvisioningError{Dependency: "client", Err: err}
	}
	s.ClientID = &client.ID
	return nil
}
