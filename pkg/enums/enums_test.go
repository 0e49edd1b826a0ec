package enums

import "testing"

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Manager ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != RoleManager {
		t.Fatalf("expected manager, got %s", role)
	}
	if _, err := ParseRole("owner"); err == nil {
		t.Fatal("expected unknown role to fail")
	}
	if Role("").IsValid() {
		t.Fatal("empty role must be invalid")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	method, err := ParsePaymentMethod(" Card")
	if err != nil || method != PaymentMethodCard {
		t.Fatalf("expected card, got %s err=%v", method, err)
	}
	if _, err := ParsePaymentMethod("ach"); err == nil {
		t.Fatal("expected ach to be rejected")
	}
}

func TestPaidOnCreation(t *testing.T) {
	if !PaymentMethodCard.PaidOnCreation() {
		t.Fatal("card orders are paid when placed")
	}
	if PaymentMethodCash.PaidOnCreation() {
		t.Fatal("cash orders are paid on delivery")
	}
}
