package types

import "github.com/shopspring/decimal"

// MoneyPlaces is the precision every stored total carries.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ToMinorUnits converts an amount to the gateway's integer minor units.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(MoneyPlaces).Round(0).IntPart()
}

// FromMinorUnits converts gateway minor units back to an amount.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -MoneyPlaces)
}
