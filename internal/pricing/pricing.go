package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
)

// Quote is the resolved price breakdown for an order before it is persisted.
type Quote struct {
	TotalPrice int64
	DPPercent  int
	DPAmount   int64
}

// Resolve computes the order total from the chosen category and optional tier.
// A tier price overrides the category base price. The tier must belong to the
// category and both must be active.
func Resolve(category *models.Category, tier *models.PriceTier, dpPercent int) (*Quote, error) {
	if category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
	}
	if !category.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is not bookable")
	}
	if dpPercent < 0 || dpPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dp percent must be between 0 and 100")
	}

	total := category.BasePrice
	if tier != nil {
		if tier.CategoryID != category.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price tier does not belong to category")
		}
		if !tier.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price tier is not bookable")
		}
		total = tier.Price
	}
	if total < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resolved price is negative")
	}

	return &Quote{
		TotalPrice: total,
		DPPercent:  dpPercent,
		DPAmount:   DownPayment(total, dpPercent),
	}, nil
}

// DownPayment returns the rupiah down payment for the given total and percent,
// rounded half-up to a whole rupiah.
func DownPayment(total int64, dpPercent int) int64 {
	amount := decimal.NewFromInt(total).
		Mul(decimal.NewFromInt(int64(dpPercent))).
		Div(decimal.NewFromInt(100))
	return amount.Round(0).IntPart()
}
