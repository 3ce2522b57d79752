package models

import "time"

// Codes of the permissions seeded by migration 000002
const (
	PermissionAllRead   = "All_READ"
	PermissionAllUpdate = "ALL_UPDATE"
	PermissionAllDelete = "ALL_DELETE"
)

// Permission is a named capability. Rows are created by migrations only.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Code      string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Permission model
func (Permission) TableName() string {
	return "permissions"
}

// SeededPermissionCodes lists the codes inserted by the permission seed
func SeededPermissionCodes() []string {
	return []string{PermissionAllRead, PermissionAllUpdate, PermissionAllDelete}
}
