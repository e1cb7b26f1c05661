package order

import (
	"context"

	"orderportal/internal/model"

	"go.uber.org/zap"
)

// StockWithOffer is a stock row loaded together with its active offer, if
// one exists.
type StockWithOffer struct {
	Stock model.StockItem
	Offer *model.Offer
}

// StockLookup loads stock rows for pricing, scoped to a tenant.
type StockLookup interface {
	FindStockForPricing(ctx context.Context, tenantID, stockID uint) (*StockWithOffer, error)
}

// PricedLine is one resolved cart line, ready to persist as an order item.
// AppliedOffer and OfferSkipped are mutually exclusive by construction.
type PricedLine struct {
	StockID         *uint
	ItemName        string
	Quantity        int
	UnitPrice       float64
	TotalPrice      float64
	BonusQuantity   int
	AppliedOffer    *string
	OfferSkipped    bool
	MissedOfferText *string
	DistPrice       float64
	MRP             float64
	Backordered     bool
}

// Pricer resolves catalog cart lines against live stock and offers.
type Pricer struct {
	stock StockLookup
	log   *zap.Logger
}

// NewPricer returns a Pricer using the given stock lookup
func NewPricer(stock StockLookup, log *zap.Logger) *Pricer {
	return &Pricer{stock: stock, log: log}
}

// PriceLine loads the stock row for one catalog line and decides effective
// unit price, bonus quantity and offer suppression.
//
// A requested quantity beyond on-hand stock is accepted as a backorder and
// only noted in the log. The offer bonus is withheld when stock cannot cover
// paid plus bonus units together; in that case the offer's price override is
// not applied either and the missed offer text is recorded on the line.
func (p *Pricer) PriceLine(ctx context.Context, tenantID, stockID uint, quantity int) (PricedLine, error) {
	row, err := p.stock.FindStockForPricing(ctx, tenantID, stockID)
	if err != nil {
		return PricedLine{}, err
	}

	stock := row.Stock
	line := PricedLine{
		StockID:   &stock.ID,
		ItemName:  stock.ItemName,
		Quantity:  quantity,
		DistPrice: stock.DistPrice,
		MRP:       stock.MRP,
	}

	if stock.Quantity < quantity {
		line.Backordered = true
		p.log.Info("accepting backorder",
			zap.String("item", stock.ItemName),
			zap.Int("requested", quantity),
			zap.Int("available", stock.Quantity))
	}

	var appliedOffer *string
	bonusQty := 0
	if row.Offer != nil && row.Offer.IsActive {
		bonusQty = ComputeBonus(row.Offer.OfferText, quantity)
		text := row.Offer.OfferText
		appliedOffer = &text
	}

	if bonusQty > 0 && stock.Quantity < quantity+bonusQty {
		p.log.Warn("offer suppressed for low stock",
			zap.String("item", stock.ItemName),
			zap.Int("requested", quantity),
			zap.Int("bonus", bonusQty),
			zap.Int("available", stock.Quantity))
		line.OfferSkipped = true
		line.MissedOfferText = appliedOffer
		appliedOffer = nil
		bonusQty = 0
	}

	unitPrice := stock.Price
	if appliedOffer != nil && row.Offer.OfferPrice != nil {
		unitPrice = *row.Offer.OfferPrice
	}

	line.UnitPrice = unitPrice
	line.TotalPrice = unitPrice * float64(quantity)
	line.BonusQuantity = bonusQty
	line.AppliedOffer = appliedOffer
	return line, nil
}

// ManualLine builds the priced line for a free-text item request. Manual
// items never carry a price; staff quote them after the order lands. A
// missing or invalid quantity defaults to 1.
func ManualLine(itemName string, quantity int) PricedLine {
	if quantity <= 0 {
		quantity = 1
	}
	if itemName == "" {
		itemName = "Custom Item"
	}
	return PricedLine{
		ItemName: itemName,
		Quantity: quantity,
	}
}
