package order

import (
	"context"
	"errors"
	"fmt"

	"orderportal/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Policy configures commit-time inventory behavior.
type Policy struct {
	// AllowBackorder permits stock decrements to drive quantity negative.
	// When false, a decrement below zero rolls the whole order back.
	AllowBackorder bool
}

type gormRepository struct {
	db     *gorm.DB
	policy Policy
	log    *zap.Logger
}

// NewRepository returns the Postgres-backed Repository. The database handle
// is injected here; nothing in the order core reaches for a global
// connection.
func NewRepository(db *gorm.DB, policy Policy, log *zap.Logger) Repository {
	return &gormRepository{db: db, policy: policy, log: log}
}

func (r *gormRepository) FindActiveCustomer(ctx context.Context, tenantCode, externalID string) (*CustomerAccount, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).
		Where("unique_code = ? AND is_active = ?", tenantCode, true).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	var customer model.Customer
	err = r.db.WithContext(ctx).
		Where("tenant_id = ? AND external_id = ? AND is_active = ?", tenant.ID, externalID, true).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	return &CustomerAccount{Customer: customer, CompanyName: tenant.CompanyName}, nil
}

// FindStockForPricing loads the stock row and its active offer. The row is
// not filtered on is_active: a just-deactivated item can still be ordered by
// id until the catalog refresh reaches the customer.
func (r *gormRepository) FindStockForPricing(ctx context.Context, tenantID, stockID uint) (*StockWithOffer, error) {
	var stock model.StockItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", stockID, tenantID).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	row := StockWithOffer{Stock: stock}
	var offer model.Offer
	err = r.db.WithContext(ctx).
		Where("stock_id = ? AND tenant_id = ? AND is_active = ?", stock.ID, tenantID, true).
		First(&offer).Error
	if err == nil {
		row.Offer = &offer
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &row, nil
}

// CreateOrder persists the order header, its items and the stock decrements
// in one transaction. The tenant row is locked for the duration so the
// order-number sequence cannot collide between concurrent placements for the
// same tenant; the unique index on (tenant_id, order_number) backs that up.
func (r *gormRepository) CreateOrder(ctx context.Context, draft *Draft) (*Receipt, error) {
	var receipt Receipt

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant model.Tenant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tenant, draft.TenantID).Error; err != nil {
			return err
		}

		var numbers []string
		if err := tx.Model(&model.Order{}).
			Where("tenant_id = ?", draft.TenantID).
			Pluck("order_number", &numbers).Error; err != nil {
			return err
		}
		maxSeq := 0
		for _, n := range numbers {
			if seq := SequenceFromNumber(n); seq > maxSeq {
				maxSeq = seq
			}
		}
		orderNumber := FormatOrderNumber(draft.NumberPrefix, maxSeq+1)

		order := model.Order{
			TenantID:    draft.TenantID,
			OrderNumber: orderNumber,
			CustomerID:  draft.CustomerID,
			TotalAmount: draft.TotalAmount,
			Status:      model.OrderStatusPending,
			Notes:       draft.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range draft.Lines {
			item := model.OrderItem{
				OrderID:         order.ID,
				StockID:         line.StockID,
				ItemName:        line.ItemName,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				TotalPrice:      line.TotalPrice,
				IsOfferItem:     line.AppliedOffer != nil,
				BonusQuantity:   line.BonusQuantity,
				AppliedOffer:    line.AppliedOffer,
				OfferSkipped:    line.OfferSkipped,
				MissedOfferText: line.MissedOfferText,
				DistPrice:       line.DistPrice,
				MRP:             line.MRP,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			if line.StockID == nil {
				continue
			}

			// Paid and bonus units both leave inventory.
			decrement := line.Quantity + line.BonusQuantity
			q := tx.Model(&model.StockItem{}).
				Where("id = ? AND tenant_id = ?", *line.StockID, draft.TenantID)
			if !r.policy.AllowBackorder {
				q = q.Where("quantity >= ?", decrement)
			}
			res := q.Update("quantity", gorm.Expr("quantity - ?", decrement))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if !r.policy.AllowBackorder {
					return fmt.Errorf("stock item %d: %w", *line.StockID, ErrInsufficientStock)
				}
				return fmt.Errorf("stock item %d disappeared during commit", *line.StockID)
			}
		}

		receipt = Receipt{OrderID: order.ID, OrderNumber: orderNumber, TotalAmount: draft.TotalAmount}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		r.log.Error("order transaction rolled back", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	return &receipt, nil
}
