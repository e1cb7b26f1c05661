package model

import "time"

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order represents an order header. OrderNumber is unique per tenant and
// formatted as ORD-<prefix>-<6 digit sequence>.
type Order struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TenantID    uint      `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_orders_tenant_number"`
	OrderNumber string    `json:"order_number" gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_tenant_number"`
	CustomerID  uint      `json:"customer_id" gorm:"index;not null"`
	TotalAmount float64   `json:"total_amount" gorm:"default:0"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderItem is an immutable snapshot of one priced cart line. ItemName and
// the price columns are copied from the stock row at order time so later
// catalog edits do not rewrite history. StockID is nil for manual free-text
// requests, which carry no price. AppliedOffer and OfferSkipped are mutually
// exclusive: an item either got its bonus or had the offer withheld for low
// stock, never both.
type OrderItem struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	OrderID         uint      `json:"order_id" gorm:"index;not null"`
	StockID         *uint     `json:"stock_id,omitempty" gorm:"index"`
	ItemName        string    `json:"item_name" gorm:"type:varchar(255);not null"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	UnitPrice       float64   `json:"unit_price" gorm:"default:0"`
	TotalPrice      float64   `json:"total_price" gorm:"default:0"`
	IsOfferItem     bool      `json:"is_offer_item" gorm:"default:false"`
	BonusQuantity   int       `json:"bonus_quantity" gorm:"default:0"`
	AppliedOffer    *string   `json:"applied_offer,omitempty" gorm:"type:varchar(255)"`
	OfferSkipped    bool      `json:"offer_skipped" gorm:"default:false"`
	MissedOfferText *string   `json:"missed_offer_text,omitempty" gorm:"type:varchar(255)"`
	DistPrice       float64   `json:"dist_price" gorm:"default:0"`
	MRP             float64   `json:"mrp" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
}
