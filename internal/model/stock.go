package model

import "time"

// StockItem represents one catalog entry of a tenant. Quantity is allowed to
// go negative when the backorder policy permits it; low-stock views surface
// those rows. DistPrice and MRP are reference prices carried onto order
// items for display only and never enter the charged amount.
type StockItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_stock_tenant_code"`
	ItemCode  string    `json:"item_code" gorm:"type:varchar(100);not null;uniqueIndex:idx_stock_tenant_code"`
	ItemName  string    `json:"item_name" gorm:"type:varchar(255);not null"`
	Category  string    `json:"category" gorm:"type:varchar(255)"`
	Unit      string    `json:"unit" gorm:"type:varchar(50);default:'Pcs'"`
	Quantity  int       `json:"quantity" gorm:"default:0"`
	Price     float64   `json:"price" gorm:"default:0"`
	DistPrice float64   `json:"dist_price" gorm:"default:0"`
	MRP       float64   `json:"mrp" gorm:"default:0"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Offer represents a promotional rule attached to one stock item. OfferText
// carries a free-form "buy X get Y" rule such as "5+1". At most one offer
// per stock item is active; superseded offers are deactivated, never
// deleted.
type Offer struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	TenantID        uint      `json:"tenant_id" gorm:"index;not null"`
	StockID         uint      `json:"stock_id" gorm:"index;not null"`
	OfferText       string    `json:"offer_text" gorm:"type:varchar(255)"`
	DiscountPercent float64   `json:"discount_percent" gorm:"default:0"`
	OfferPrice      *float64  `json:"offer_price,omitempty"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
