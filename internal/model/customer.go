package model

import "time"

// Customer represents an end customer of one tenant. ExternalID is the id
// the vendor assigned to the customer in their own books and is what the
// customer types in to identify themselves; it is unique per tenant.
type Customer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TenantID   uint      `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_customers_tenant_external"`
	ExternalID string    `json:"external_id" gorm:"type:varchar(100);not null;uniqueIndex:idx_customers_tenant_external"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	Phone      string    `json:"phone" gorm:"type:varchar(50)"`
	Email      string    `json:"email" gorm:"type:varchar(255)"`
	Address    string    `json:"address" gorm:"type:text"`
	City       string    `json:"city" gorm:"type:varchar(100)"`
	UniqueCode string    `json:"unique_code" gorm:"type:varchar(16)"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
