package models

import "time"

// ServiceStation groups many servicemen. Members are found by service_station_id.
type ServiceStation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Address     string    `gorm:"size:255" json:"address"`
	PhoneNumber string    `gorm:"size:11" json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the ServiceStation model
func (ServiceStation) TableName() string {
	return "service_stations"
}
