package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod records how an order is settled. Cash orders are collected
// on delivery; card orders are charged through a hosted checkout before the
// order exists.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodCash || p == PaymentMethodCard
}

// PaidOnCreation reports whether an order placed with p is already paid.
func (p PaymentMethod) PaidOnCreation() bool {
	return p == PaymentMethodCard
}

// ParsePaymentMethod accepts the method name in any case.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(value)))
	if !method.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}
	return method, nil
}
