package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

// Total sums unit price times quantity over the lines.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return types.RoundMoney(total)
}

// Discounted subtracts a flat coupon amount from total. The result is not
// floored at zero.
func Discounted(total, amount decimal.Decimal) decimal.Decimal {
	return types.RoundMoney(total.Sub(amount))
}

// Payable is the amount an order is charged for the cart.
func Payable(c *models.Cart) decimal.Decimal {
	if c.TotalItemsPriceAfterDiscount.Valid {
		return c.TotalItemsPriceAfterDiscount.Decimal
	}
	return c.TotalItemsPrice
}

// reprice recomputes the total and drops any previously applied coupon.
func reprice(c *models.Cart) {
	for i := range c.Items {
		c.Items[i].Position = i
	}
	c.TotalItemsPrice = Total(c.Items)
	c.TotalItemsPriceAfterDiscount = decimal.NullDecimal{}
}
