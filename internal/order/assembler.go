package order

import (
	"context"

	"orderportal/internal/model"

	"go.uber.org/zap"
)

// CartLine is one submitted cart entry: either a catalog reference (StockID
// set) or a free-text request (ItemName set). Exactly one of the two is
// expected.
type CartLine struct {
	StockID  *uint  `json:"stockId,omitempty"`
	ItemName string `json:"itemName,omitempty"`
	Quantity int    `json:"quantity"`
}

// PlaceOrderRequest is the logical order-placement payload.
type PlaceOrderRequest struct {
	TenantCode string
	CustomerID string // tenant-scoped external customer id
	Lines      []CartLine
	Notes      string
}

// Receipt is returned after a successful commit. The line counts summarize
// what happened during pricing so callers can report on it without reloading
// the order.
type Receipt struct {
	OrderID          uint    `json:"orderId"`
	OrderNumber      string  `json:"orderNumber"`
	TotalAmount      float64 `json:"totalAmount"`
	SuppressedOffers int     `json:"-"`
	BackorderedLines int     `json:"-"`
}

// CustomerAccount is a verified customer together with vendor display data.
type CustomerAccount struct {
	Customer    model.Customer
	CompanyName string
}

// Draft is the fully assembled order handed to the transactional commit.
// The order number itself is allocated inside the commit transaction; the
// draft only carries the tenant prefix.
type Draft struct {
	TenantID     uint
	CustomerID   uint
	NumberPrefix string
	TotalAmount  float64
	Notes        string
	Lines        []PricedLine
}

// Repository is the persistence seam the assembler depends on. CreateOrder
// must persist header, items and stock decrements atomically and allocate
// the order-number sequence inside that same transaction.
type Repository interface {
	StockLookup
	FindActiveCustomer(ctx context.Context, tenantCode, externalID string) (*CustomerAccount, error)
	CreateOrder(ctx context.Context, draft *Draft) (*Receipt, error)
}

// Service orchestrates order placement end to end.
type Service struct {
	repo   Repository
	pricer *Pricer
	log    *zap.Logger
}

// NewService wires the assembler to its repository. The repository carries
// the database handle; the service holds no ambient connection state.
func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, pricer: NewPricer(repo, log), log: log}
}

// VerifyCustomer resolves an active customer under an active tenant.
func (s *Service) VerifyCustomer(ctx context.Context, tenantCode, customerID string) (*CustomerAccount, error) {
	return s.repo.FindActiveCustomer(ctx, tenantCode, customerID)
}

// PlaceOrder runs the whole order pipeline: verify the customer, price each
// cart line in submission order, then commit header, items and stock
// decrements in one transaction. Any invalid catalog line aborts the whole
// order; nothing persists on any failure.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Receipt, error) {
	account, err := s.repo.FindActiveCustomer(ctx, req.TenantCode, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	customer := account.Customer
	s.log.Info("processing order",
		zap.Uint("tenant_id", customer.TenantID),
		zap.String("customer", customer.Name))

	lines := make([]PricedLine, 0, len(req.Lines))
	total := 0.0
	for _, cl := range req.Lines {
		if cl.StockID == nil {
			lines = append(lines, ManualLine(cl.ItemName, cl.Quantity))
			continue
		}
		qty := cl.Quantity
		if qty <= 0 {
			qty = 1
		}
		priced, err := s.pricer.PriceLine(ctx, customer.TenantID, *cl.StockID, qty)
		if err != nil {
			return nil, &LineError{StockID: *cl.StockID, Err: err}
		}
		lines = append(lines, priced)
		total += priced.TotalPrice
	}

	// Unreachable today, but future line kinds could all fall through
	// without producing a priced line.
	if len(lines) == 0 {
		return nil, ErrNoValidItems
	}

	draft := &Draft{
		TenantID:     customer.TenantID,
		CustomerID:   customer.ID,
		NumberPrefix: NumberPrefix(account.CompanyName),
		TotalAmount:  total,
		Notes:        req.Notes,
		Lines:        lines,
	}

	receipt, err := s.repo.CreateOrder(ctx, draft)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if line.OfferSkipped {
			receipt.SuppressedOffers++
		}
		if line.Backordered {
			receipt.BackorderedLines++
		}
	}

	s.log.Info("order committed",
		zap.String("order_number", receipt.OrderNumber),
		zap.Uint("order_id", receipt.OrderID),
		zap.Float64("total_amount", receipt.TotalAmount))
	return receipt, nil
}
