package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ShippingAddress is the address snapshot stored on an order.
type ShippingAddress struct {
	Details    string `json:"details,omitempty"`
	Phone      string `json:"phone,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// IsZero reports whether no field was provided.
func (a ShippingAddress) IsZero() bool {
	return a == ShippingAddress{}
}

// Metadata flattens the address into gateway metadata.
func (a ShippingAddress) Metadata() map[string]string {
	out := map[string]string{}
	put := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			out[key] = v
		}
	}
	put("details", a.Details)
	put("phone", a.Phone)
	put("city", a.City)
	put("postalCode", a.PostalCode)
	return out
}

// ShippingAddressFromMetadata is the inverse of Metadata.
func ShippingAddressFromMetadata(meta map[string]string) ShippingAddress {
	return ShippingAddress{
		Details:    meta["details"],
		Phone:      meta["phone"],
		City:       meta["city"],
		PostalCode: meta["postalCode"],
	}
}

// Value marshals the address into JSON.
func (a ShippingAddress) Value() (driver.Value, error) {
	buf, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON column into the address.
func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("shipping address: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*a = ShippingAddress{}
		return nil
	}
	return json.Unmarshal(raw, a)
}
