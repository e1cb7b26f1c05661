package order

import (
	"context"
	"testing"

	"orderportal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepository backs the assembler with in-memory customers and stock and
// allocates order numbers the way the real store does, per tenant prefix.
type fakeRepository struct {
	fakeStockLookup
	customers map[string]*CustomerAccount // keyed by tenantCode + "/" + externalID
	strict    bool

	lastSeq      map[string]int
	createdDraft *Draft
	createCalls  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		fakeStockLookup: fakeStockLookup{rows: map[uint]*StockWithOffer{}},
		customers:       map[string]*CustomerAccount{},
		lastSeq:         map[string]int{},
	}
}

func (f *fakeRepository) addCustomer(tenantCode, externalID, companyName string, tenantID uint) {
	f.customers[tenantCode+"/"+externalID] = &CustomerAccount{
		Customer: model.Customer{
			ID:         100,
			TenantID:   tenantID,
			ExternalID: externalID,
			Name:       "Corner Pharmacy",
			IsActive:   true,
		},
		CompanyName: companyName,
	}
}

func (f *fakeRepository) FindActiveCustomer(_ context.Context, tenantCode, externalID string) (*CustomerAccount, error) {
	acct, ok := f.customers[tenantCode+"/"+externalID]
	if !ok {
		return nil, ErrAuthenticationFailed
	}
	return acct, nil
}

func (f *fakeRepository) CreateOrder(_ context.Context, draft *Draft) (*Receipt, error) {
	f.createCalls++
	if f.strict {
		for _, line := range draft.Lines {
			if line.StockID == nil {
				continue
			}
			if row, ok := f.rows[*line.StockID]; ok && row.Stock.Quantity < line.Quantity+line.BonusQuantity {
				return nil, ErrInsufficientStock
			}
		}
	}
	f.lastSeq[draft.NumberPrefix]++
	f.createdDraft = draft
	return &Receipt{
		OrderID:     uint(f.createCalls),
		OrderNumber: FormatOrderNumber(draft.NumberPrefix, f.lastSeq[draft.NumberPrefix]),
		TotalAmount: draft.TotalAmount,
	}, nil
}

func newTestService(repo *fakeRepository) *Service {
	return NewService(repo, zap.NewNop())
}

func catalogLine(stockID uint, qty int) CartLine {
	id := stockID
	return CartLine{StockID: &id, Quantity: qty}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	repo := newFakeRepository()
	repo.addCustomer("abc123", "CUST-9", "Acme Traders", 1)
	repo.rows[7] = withOffer(stockRow(7, 100, 10), "5+1", nil)

	svc := newTestService(repo)
	receipt, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "CUST-9",
		Lines:      []CartLine{catalogLine(7, 10)},
		Notes:      "deliver monday",
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-ACME-000001", receipt.OrderNumber)
	assert.Equal(t, 100.0, receipt.TotalAmount)

	draft := repo.createdDraft
	require.NotNil(t, draft)
	assert.Equal(t, uint(1), draft.TenantID)
	assert.Equal(t, uint(100), draft.CustomerID)
	assert.Equal(t, "ACME", draft.NumberPrefix)
	assert.Equal(t, "deliver monday", draft.Notes)
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, 2, draft.Lines[0].BonusQuantity)
}

func TestPlaceOrderSequentialNumbers(t *testing.T) {
	repo := newFakeRepository()
	repo.addCustomer("abc123", "CUST-9", "Acme Traders", 1)
	repo.rows[7] = stockRow(7, 100, 10)

	svc := newTestService(repo)
	req := PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "CUST-9",
		Lines:      []CartLine{catalogLine(7, 1)},
	}

	first, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "ORD-ACME-000001", first.OrderNumber)
	assert.Equal(t, "ORD-ACME-000002", second.OrderNumber)
}

func TestPlaceOrderManualLinesFree(t *testing.T) {
	repo := newFakeRepository()
	repo.addCustomer("abc123", "CUST-9", "Acme Traders", 1)
	repo.rows[7] = stockRow(7, 100, 10)

	svc := newTestService(repo)
	receipt, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "CUST-9",
		Lines: []CartLine{
			catalogLine(7, 3),
			{ItemName: "Bandages, assorted", Quantity: 2},
		},
	})
	require.NoError(t, err)

	// Only catalog lines contribute to the charged total.
	assert.Equal(t, 30.0, receipt.TotalAmount)
	require.Len(t, repo.createdDraft.Lines, 2)
	manual := repo.createdDraft.Lines[1]
	assert.Nil(t, manual.StockID)
	assert.Equal(t, "Bandages, assorted", manual.ItemName)
	assert.Zero(t, manual.TotalPrice)
}

func TestPlaceOrderZeroQuantityDefaultsToOne(t *testing.T) {
	repo := newFakeRepository()
	repo.addCustomer("abc123", "CUST-9", "Acme Traders", 1)
	repo.rows[7] = stockRow(7, 100, 10)

	svc := newTestService(repo)
	receipt, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "CUST-9",
		Lines:      []CartLine{catalogLine(7, 0)},
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, receipt.TotalAmount)
	assert.Equal(t, 1, repo.createdDraft.Lines[0].Quantity)
}

func TestPlaceOrderUnknownCustomer(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "WHO",
		Lines:      []CartLine{catalogLine(7, 1)},
	})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Zero(t, repo.createCalls)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	repo := newFakeRepository()
	repo.addCustomer("abc123", "CUST-9", "Acme Traders", 1)

	svc := newTestService(repo)
	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "CUST-9",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, repo.createCalls)
}

func TestPlaceOrderBadLineAbortsWholeOrder(t *testing.T) {
	repo := newFakeRepository()
	repo.addCustomer("abc123", "CUST-9", "Acme Traders", 1)
	repo.rows[7] = stockRow(7, 100, 10)

	svc := newTestService(repo)
	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "CUST-9",
		Lines:      []CartLine{catalogLine(7, 2), catalogLine(99, 1)},
	})

	require.Error(t, err)
	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, uint(99), lineErr.StockID)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Zero(t, repo.createCalls)
}

func TestPlaceOrderStrictStockPolicy(t *testing.T) {
	repo := newFakeRepository()
	repo.strict = true
	repo.addCustomer("abc123", "CUST-9", "Acme Traders", 1)
	repo.rows[7] = stockRow(7, 2, 10)

	svc := newTestService(repo)
	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "CUST-9",
		Lines:      []CartLine{catalogLine(7, 5)},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The same order sails through once backorders are allowed.
	repo.strict = false
	receipt, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TenantCode: "abc123",
		CustomerID: "CUST-9",
		Lines:      []CartLine{catalogLine(7, 5)},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, receipt.TotalAmount)
	assert.True(t, repo.createdDraft.Lines[0].Backordered)
	assert.Equal(t, 1, receipt.BackorderedLines)
}

func TestVerifyCustomer(t *testing.T) {
	repo := newFakeRepository()
	repo.addCustomer("abc123", "CUST-9", "Acme Traders", 1)

	svc := newTestService(repo)
	acct, err := svc.VerifyCustomer(context.Background(), "abc123", "CUST-9")
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", acct.CompanyName)
	assert.Equal(t, "Corner Pharmacy", acct.Customer.Name)

	_, err = svc.VerifyCustomer(context.Background(), "abc123", "NOPE")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
