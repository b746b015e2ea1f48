package checkout

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// BuyerInfo is the shipping/billing identity attached to an order, collected
// from the guest form or from the authenticated profile.
type BuyerInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// Validate returns field-keyed messages for every missing field, empty map
// when complete.
func (b BuyerInfo) Validate() map[string]string {
	fields := make(map[string]string)
	if b.Name == "" {
		fields["name"] = "name is required"
	}
	if b.Email == "" {
		fields["email"] = "email is required"
	}
	if b.Address == "" {
		fields["address"] = "address is required"
	}
	if b.City == "" {
		fields["city"] = "city is required"
	}
	if b.Country == "" {
		fields["country"] = "country is required"
	}
	if b.PostalCode == "" {
		fields["postal_code"] = "postal code is required"
	}
	return fields
}
