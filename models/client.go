package models

import "time"

// Client is the customer-side account created for every serviceman
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
