package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundMoneyHalfAwayFromZero(t *testing.T) {
	cases := map[string]string{
		"10.005":  "10.01",
		"-10.005": "-10.01",
		"3.6666":  "3.67",
		"2":       "2",
	}
	for in, want := range cases {
		got := RoundMoney(decimal.RequireFromString(in))
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("RoundMoney(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestMinorUnits(t *testing.T) {
	if got := ToMinorUnits(decimal.RequireFromString("199.995")); got != 20000 {
		t.Fatalf("expected 20000, got %d", got)
	}
	if got := FromMinorUnits(12345); !got.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("expected 123.45, got %s", got)
	}
}

func TestShippingAddressRoundTrip(t *testing.T) {
	addr := ShippingAddress{Details: "12 Nile St", Phone: "01000000000", City: "Cairo", PostalCode: "11511"}

	meta := addr.Metadata()
	if ShippingAddressFromMetadata(meta) != addr {
		t.Fatalf("metadata round trip mismatch: %+v", meta)
	}

	value, err := addr.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	var scanned ShippingAddress
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if scanned != addr {
		t.Fatalf("expected %+v, got %+v", addr, scanned)
	}

	if err := scanned.Scan(nil); err != nil || !scanned.IsZero() {
		t.Fatalf("nil scan should reset the address, got %+v err=%v", scanned, err)
	}
	if err := scanned.Scan(42); err == nil {
		t.Fatal("expected unsupported type to fail")
	}
}

func TestImageURL(t *testing.T) {
	cases := []struct {
		base, folder, name, want string
	}{
		{"http://localhost:8000/", ImageFolderProducts, "cover.jpeg", "http://localhost:8000/products/cover.jpeg"},
		{"http://localhost:8000", ImageFolderBrands, "/logo.png", "http://localhost:8000/brands/logo.png"},
		{"http://localhost:8000", ImageFolderUsers, "https://cdn.example.com/u.png", "https://cdn.example.com/u.png"},
		{"http://localhost:8000", ImageFolderCategories, "  ", ""},
	}
	for _, tc := range cases {
		if got := ImageURL(tc.base, tc.folder, tc.name); got != tc.want {
			t.Fatalf("ImageURL(%q, %q, %q) = %q, want %q", tc.base, tc.folder, tc.name, got, tc.want)
		}
	}

	urls := ImageURLs("http://h", ImageFolderProducts, []string{"a.png", "", "b.png"})
	if len(urls) != 2 || urls[1] != "http://h/products/b.png" {
		t.Fatalf("unexpected urls %v", urls)
	}
	if OptionalImageURL("http://h", ImageFolderUsers, nil) != nil {
		t.Fatalf("nil name should map to nil")
	}
}
