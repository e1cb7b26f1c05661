package model

import (
	"time"
)

// Tenant roles
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Tenant represents a vendor/company account. Every stock item, customer and
// order in the system is scoped to exactly one tenant.
type Tenant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password    string    `json:"-" gorm:"type:varchar(255);not null"`
	Name        string    `json:"name" gorm:"type:varchar(255)"`
	CompanyName string    `json:"company_name" gorm:"type:varchar(255)"`
	UniqueCode  string    `json:"unique_code" gorm:"type:varchar(16);uniqueIndex;not null"`
	Role        string    `json:"role" gorm:"type:varchar(20);default:'admin'"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedBy   *uint     `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
