package models

import "time"

// Image is an uploaded picture stored in object storage or on local disk
type Image struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StorageKey  string    `gorm:"not null" json:"storageKey"`
	ContentType string    `gorm:"not null" json:"contentType"`
	Size        int64     `gorm:"not null;default:0" json:"size"`
	URL         string    `gorm:"-" json:"url,omitempty"` // computed, presigned or local URL
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Image model
func (Image) TableName() string {
	return "images"
}
