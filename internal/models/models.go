package models

// DTOs for the remote commerce API. Field names mirror the upstream JSON
// exactly; all monetary values are server-computed and rendered as-is.

type Product struct {
	ID            int         `json:"id"`
	Title         string      `json:"title"`
	Price         float64     `json:"price"`
	DiscountPrice *float64    `json:"discount_price"`
	Category      string      `json:"category"`
	Label         *string     `json:"label"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	Image         string      `json:"image"`
	Variations    []Variation `json:"variations,omitempty"`
}

type Variation struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	ItemVariations []ItemVariation `json:"item_variations"`
}

type ItemVariation struct {
	ID         int     `json:"id"`
	Value      string  `json:"value"`
	Attachment *string `json:"attachment"`
}

type Order struct {
	ID         int         `json:"id"`
	OrderItems []OrderItem `json:"order_items"`
	Total      float64     `json:"total"`
	Coupon     *Coupon     `json:"coupon"`
}

type OrderItem struct {
	ID             int             `json:"id"`
	Item           Product         `json:"item"`
	Quantity       uint            `json:"quantity"`
	FinalPrice     float64         `json:"final_price"`
	ItemVariations []ItemVariation `json:"item_variations"`
}

type Coupon struct {
	ID     int     `json:"id"`
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

type AddressType string

const (
	AddressTypeBilling  AddressType = "B"
	AddressTypeShipping AddressType = "S"
)

func (t AddressType) Valid() bool {
	return t == AddressTypeBilling || t == AddressTypeShipping
}

type Address struct {
	ID               int         `json:"id,omitempty"`
	User             int         `json:"user,omitempty"`
	StreetAddress    string      `json:"street_address"`
	ApartmentAddress string      `json:"apartment_address"`
	Country          string      `json:"country"`
	Zip              string      `json:"zip"`
	Default          bool        `json:"default"`
	AddressType      AddressType `json:"address_type"`
}

// Countries is the upstream code -> display name mapping for select inputs.
type Countries map[string]string

// CartSummary is the projection the cart badge reads from the global store.
type CartSummary struct {
	ItemCount uint    `json:"item_count"`
	Total     float64 `json:"total"`
}

func Summarize(o *Order) CartSummary {
	var s CartSummary
	if o == nil {
		return s
	}
	for _, it := range o.OrderItems {
		s.ItemCount += it.Quantity
	}
	s.Total = o.Total
	return s
}
