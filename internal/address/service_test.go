package address

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddListsAddressBook(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	book, err := svc.Add(ctx, userID, AddAddressRequest{Alias: " home ", City: "Cairo", Phone: "01012345678"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(book) != 1 || book[0].Alias != "home" {
		t.Fatalf("unexpected address book %+v", book)
	}

	book, err = svc.Add(ctx, userID, AddAddressRequest{Alias: "work", City: "Giza"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(book) != 2 {
		t.Fatalf("expected two addresses, got %d", len(book))
	}
	aliases := map[string]AddressDTO{book[0].Alias: book[0], book[1].Alias: book[1]}
	if got := aliases["home"].ShippingAddress(); got.City != "Cairo" || got.Phone != "01012345678" {
		t.Fatalf("unexpected shipping snapshot %+v", got)
	}
}

func TestAliasUniquePerUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	if _, err := svc.Add(ctx, first, AddAddressRequest{Alias: "home"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, first, AddAddressRequest{Alias: "home"}); !errors.Is(err, ErrAliasInUse) {
		t.Fatalf("expected alias conflict, got %v", err)
	}
	if _, err := svc.Add(ctx, second, AddAddressRequest{Alias: "home"}); err != nil {
		t.Fatalf("another user may reuse the alias: %v", err)
	}
}

func TestRemoveRequiresOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	book, err := svc.Add(ctx, owner, AddAddressRequest{Alias: "home"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Remove(ctx, stranger, book[0].ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
	remaining, err := svc.Remove(ctx, owner, book[0].ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty book, got %+v", remaining)
	}
}
