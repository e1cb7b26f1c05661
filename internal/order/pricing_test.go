package order

import (
	"context"
	"testing"

	"orderportal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStockLookup serves stock rows from memory, keyed by stock id.
type fakeStockLookup struct {
	rows map[uint]*StockWithOffer
}

func (f *fakeStockLookup) FindStockForPricing(_ context.Context, _, stockID uint) (*StockWithOffer, error) {
	row, ok := f.rows[stockID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return row, nil
}

func stockRow(id uint, qty int, price float64) *StockWithOffer {
	return &StockWithOffer{Stock: model.StockItem{
		ID:       id,
		TenantID: 1,
		ItemCode: "SKU-1",
		ItemName: "Paracetamol 500mg",
		Quantity: qty,
		Price:    price,
		IsActive: true,
	}}
}

func withOffer(row *StockWithOffer, text string, offerPrice *float64) *StockWithOffer {
	row.Offer = &model.Offer{
		StockID:    row.Stock.ID,
		OfferText:  text,
		OfferPrice: offerPrice,
		IsActive:   true,
	}
	return row
}

func newTestPricer(rows ...*StockWithOffer) *Pricer {
	lookup := &fakeStockLookup{rows: map[uint]*StockWithOffer{}}
	for _, r := range rows {
		lookup.rows[r.Stock.ID] = r
	}
	return NewPricer(lookup, zap.NewNop())
}

func TestPriceLinePlainItem(t *testing.T) {
	p := newTestPricer(stockRow(7, 50, 12.5))

	line, err := p.PriceLine(context.Background(), 1, 7, 4)
	require.NoError(t, err)

	assert.Equal(t, uint(7), *line.StockID)
	assert.Equal(t, "Paracetamol 500mg", line.ItemName)
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, 12.5, line.UnitPrice)
	assert.Equal(t, 50.0, line.TotalPrice)
	assert.Equal(t, 0, line.BonusQuantity)
	assert.Nil(t, line.AppliedOffer)
	assert.False(t, line.OfferSkipped)
	assert.False(t, line.Backordered)
}

func TestPriceLineUnknownItem(t *testing.T) {
	p := newTestPricer()

	_, err := p.PriceLine(context.Background(), 1, 99, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPriceLineGrantsBonus(t *testing.T) {
	p := newTestPricer(withOffer(stockRow(7, 100, 10), "5+1", nil))

	line, err := p.PriceLine(context.Background(), 1, 7, 12)
	require.NoError(t, err)

	assert.Equal(t, 2, line.BonusQuantity)
	require.NotNil(t, line.AppliedOffer)
	assert.Equal(t, "5+1", *line.AppliedOffer)
	assert.False(t, line.OfferSkipped)
	// Charged amount covers paid units only.
	assert.Equal(t, 120.0, line.TotalPrice)
}

func TestPriceLineOfferBelowThreshold(t *testing.T) {
	// Offer applies but grants nothing below the buy threshold. The offer
	// stays visible on the line so the customer knows it exists.
	p := newTestPricer(withOffer(stockRow(7, 100, 10), "5+1", nil))

	line, err := p.PriceLine(context.Background(), 1, 7, 4)
	require.NoError(t, err)

	assert.Equal(t, 0, line.BonusQuantity)
	require.NotNil(t, line.AppliedOffer)
	assert.Equal(t, "5+1", *line.AppliedOffer)
	assert.False(t, line.OfferSkipped)
}

func TestPriceLineSuppressionBoundary(t *testing.T) {
	// Stock of 5 under a "3+1" rule: buying 3 needs 4 units total and fits,
	// buying 5 would need 6 and suppresses the bonus.
	p := newTestPricer(withOffer(stockRow(7, 5, 10), "3+1", nil))

	kept, err := p.PriceLine(context.Background(), 1, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, kept.BonusQuantity)
	assert.False(t, kept.OfferSkipped)
	assert.Nil(t, kept.MissedOfferText)

	suppressed, err := p.PriceLine(context.Background(), 1, 7, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, suppressed.BonusQuantity)
	assert.Nil(t, suppressed.AppliedOffer)
	assert.True(t, suppressed.OfferSkipped)
	require.NotNil(t, suppressed.MissedOfferText)
	assert.Equal(t, "3+1", *suppressed.MissedOfferText)
	// Suppressed lines fall back to the list price.
	assert.Equal(t, 50.0, suppressed.TotalPrice)
}

func TestPriceLineOfferPriceOverride(t *testing.T) {
	offerPrice := 8.0
	p := newTestPricer(withOffer(stockRow(7, 100, 10), "5+1", &offerPrice))

	line, err := p.PriceLine(context.Background(), 1, 7, 5)
	require.NoError(t, err)

	assert.Equal(t, 8.0, line.UnitPrice)
	assert.Equal(t, 40.0, line.TotalPrice)
	assert.Equal(t, 1, line.BonusQuantity)
}

func TestPriceLineOverrideNotAppliedWhenSuppressed(t *testing.T) {
	offerPrice := 8.0
	p := newTestPricer(withOffer(stockRow(7, 5, 10), "3+1", &offerPrice))

	line, err := p.PriceLine(context.Background(), 1, 7, 5)
	require.NoError(t, err)

	assert.True(t, line.OfferSkipped)
	assert.Equal(t, 10.0, line.UnitPrice)
	assert.Equal(t, 50.0, line.TotalPrice)
}

func TestPriceLineInactiveOfferIgnored(t *testing.T) {
	row := withOffer(stockRow(7, 100, 10), "5+1", nil)
	row.Offer.IsActive = false
	p := newTestPricer(row)

	line, err := p.PriceLine(context.Background(), 1, 7, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, line.BonusQuantity)
	assert.Nil(t, line.AppliedOffer)
	assert.False(t, line.OfferSkipped)
}

func TestPriceLineBackorder(t *testing.T) {
	p := newTestPricer(stockRow(7, 2, 10))

	line, err := p.PriceLine(context.Background(), 1, 7, 5)
	require.NoError(t, err)

	assert.True(t, line.Backordered)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 50.0, line.TotalPrice)
}

func TestPriceLineIdempotent(t *testing.T) {
	p := newTestPricer(withOffer(stockRow(7, 100, 10), "5+1", nil))

	first, err := p.PriceLine(context.Background(), 1, 7, 12)
	require.NoError(t, err)
	second, err := p.PriceLine(context.Background(), 1, 7, 12)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestManualLine(t *testing.T) {
	line := ManualLine("Surgical gloves, large", 3)
	assert.Equal(t, "Surgical gloves, large", line.ItemName)
	assert.Equal(t, 3, line.Quantity)
	assert.Nil(t, line.StockID)
	assert.Zero(t, line.UnitPrice)
	assert.Zero(t, line.TotalPrice)

	defaulted := ManualLine("", 0)
	assert.Equal(t, "Custom Item", defaulted.ItemName)
	assert.Equal(t, 1, defaulted.Quantity)
}
