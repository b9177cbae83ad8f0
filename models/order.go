package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// LineStatus is the lifecycle state of one line item. An order has no status
// of its own; it is the union of its line items.
type LineStatus string

const (
	StatusPlaced         LineStatus = "placed"
	StatusCooking        LineStatus = "cooking"
	StatusOutForDelivery LineStatus = "out for delivery"
	StatusCompleted      LineStatus = "completed"
	StatusCancelled      LineStatus = "cancelled"
)

// LineKind tells regular restaurant food apart from custom burgers. The value
// doubles as the orderType shown to riders.
type LineKind string

const (
	KindRegular LineKind = "regular order"
	KindCustom  LineKind = "custom burger"
)

// ParseLineKind accepts both the short route names and the display names.
func ParseLineKind(s string) (LineKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular", "regular order", "cartfood":
		return KindRegular, true
	case "custom", "custom burger", "burger":
		return KindCustom, true
	}
	return "", false
}

// RiderFlatFee is credited to a rider for every completed delivery,
// independent of the order value.
const RiderFlatFee = 50

const (
	markerAccepted  = "accepted by "
	markerDelivered = "delivered by "
)

// AcceptedMarker is the rider marker written when a rider claims an item.
func AcceptedMarker(rider string) string { return markerAccepted + rider }

// DeliveredMarker is the rider marker written when a rider completes an item.
func DeliveredMarker(rider string) string { return markerDelivered + rider }

// IsClaimed reports whether marker names a rider who accepted but has not
// yet delivered the item.
func IsClaimed(marker string) bool { return strings.HasPrefix(marker, markerAccepted) }

// Price is a line total as sent by clients, either a JSON string or number.
// It is kept as text and parsed on aggregation.
type Price string

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = Price(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// Int parses the leading integer part, so "250" and "250.75" both yield 250.
func (p Price) Int() (int, error) {
	s := strings.TrimSpace(string(p))
	if n, err := strconv.Atoi(s); err == nil {
		if n > maxPrice || n < -maxPrice {
			return 0, fmt.Errorf("price %q: %w", s, strconv.ErrRange)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > maxPrice || f < -maxPrice {
		return 0, fmt.Errorf("price %q: %w", s, strconv.ErrRange)
	}
	return int(f), nil
}

// maxPrice bounds a single price so revenue sums stay well inside int.
const maxPrice = math.MaxInt32

type Order struct {
	ID            string     `json:"_id" gorm:"primaryKey;size:64"`
	Email         string     `json:"email" gorm:"index;not null"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	Region        string     `json:"region" gorm:"index"`
	PaymentMethod string     `json:"paymentMethod"`
	OrderTotal    int        `json:"orderTotal"`
	Date          string     `json:"date"`
	Sequence      int64      `json:"order" gorm:"index"`
	CartFood      []LineItem `json:"cartFood" gorm:"-"`
	Burger        []LineItem `json:"burger" gorm:"-"`
	Items         []LineItem `json:"-" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PackItems moves CartFood and Burger into Items, stamping each line with its
// kind and owning order.
func (o *Order) PackItems() {
	o.Items = make([]LineItem, 0, len(o.CartFood)+len(o.Burger))
	for _, it := range o.CartFood {
		it.Kind = KindRegular
		it.OrderID = o.ID
		o.Items = append(o.Items, it)
	}
	for _, it := range o.Burger {
		it.Kind = KindCustom
		it.OrderID = o.ID
		o.Items = append(o.Items, it)
	}
}

// UnpackItems is the inverse of PackItems, used after loading from the store.
func (o *Order) UnpackItems() {
	o.CartFood, o.Burger = nil, nil
	for _, it := range o.Items {
		switch it.Kind {
		case KindRegular:
			o.CartFood = append(o.CartFood, it)
		case KindCustom:
			o.Burger = append(o.Burger, it)
		}
	}
}

// LineItem is one embedded unit of an order: a restaurant's food or a
// single custom burger. Every item carries its own status. ID is assigned by
// the server; the identifier the client sent is kept as FoodID.
type LineItem struct {
	ID          string         `json:"_id" gorm:"primaryKey;size:64"`
	FoodID      string         `json:"foodId,omitempty" gorm:"index;size:64"`
	OrderID     string         `json:"orderId,omitempty" gorm:"index;not null"`
	Kind        LineKind       `json:"orderType,omitempty" gorm:"index;not null"`
	Restaurant  string         `json:"restaurant" gorm:"index"`
	TotalPrice  Price          `json:"totalPrice"`
	Status      LineStatus     `json:"status" gorm:"index;not null;default:'placed'"`
	RiderMarker string         `json:"deliveryStatus,omitempty" gorm:"index"`
	Reviewed    bool           `json:"reviewed"`
	Details     map[string]any `json:"details,omitempty" gorm:"serializer:json"`
}

// lineItemKeys are the fields LineItem owns; every other key a client sends
// is kept verbatim in Details.
var lineItemKeys = []string{
	"_id", "foodId", "orderId", "orderType", "restaurant", "totalPrice", "status", "deliveryStatus", "reviewed",
}

type lineItemFields struct {
	ID          string     `json:"_id"`
	FoodID      string     `json:"foodId"`
	OrderID     string     `json:"orderId"`
	Kind        LineKind   `json:"orderType"`
	Restaurant  string     `json:"restaurant"`
	TotalPrice  Price      `json:"totalPrice"`
	Status      LineStatus `json:"status"`
	RiderMarker string     `json:"deliveryStatus"`
	Reviewed    bool       `json:"reviewed"`
}

// UnmarshalJSON reads the owned fields and collects the rest into Details.
func (it *LineItem) UnmarshalJSON(b []byte) error {
	var f lineItemFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	var rest map[string]any
	if err := json.Unmarshal(b, &rest); err != nil {
		return err
	}
	for _, k := range lineItemKeys {
		delete(rest, k)
	}
	if len(rest) == 0 {
		rest = nil
	}
	*it = LineItem{
		ID:          f.ID,
		FoodID:      f.FoodID,
		OrderID:     f.OrderID,
		Kind:        f.Kind,
		Restaurant:  f.Restaurant,
		TotalPrice:  f.TotalPrice,
		Status:      f.Status,
		RiderMarker: f.RiderMarker,
		Reviewed:    f.Reviewed,
		Details:     rest,
	}
	return nil
}

// MarshalJSON writes Details back at the top level next to the owned fields.
func (it LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.fields())
}

func (it LineItem) fields() map[string]any {
	out := make(map[string]any, len(it.Details)+len(lineItemKeys))
	for k, v := range it.Details {
		out[k] = v
	}
	out["_id"] = it.ID
	out["restaurant"] = it.Restaurant
	out["totalPrice"] = it.TotalPrice
	out["status"] = it.Status
	out["reviewed"] = it.Reviewed
	if it.FoodID != "" {
		out["foodId"] = it.FoodID
	}
	if it.OrderID != "" {
		out["orderId"] = it.OrderID
	}
	if it.Kind != "" {
		out["orderType"] = it.Kind
	}
	if it.RiderMarker != "" {
		out["deliveryStatus"] = it.RiderMarker
	}
	return out
}

// Delivery is a line item joined with the order fields a rider needs.
type Delivery struct {
	LineItem
	CustomerName  string `json:"customerName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Region        string `json:"region"`
	PaymentMethod string `json:"paymentMethod"`
}

// MarshalJSON keeps the flattened item layout; the embedded LineItem would
// otherwise hide the order fields.
func (d Delivery) MarshalJSON() ([]byte, error) {
	out := d.LineItem.fields()
	out["customerName"] = d.CustomerName
	out["phone"] = d.Phone
	out["address"] = d.Address
	out["region"] = d.Region
	out["paymentMethod"] = d.PaymentMethod
	return json.Marshal(out)
}

// PendingOrder stages an order while a gateway checkout session is open.
// Rows are never deleted.
type PendingOrder struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Correlation   string     `json:"randString" gorm:"index;not null"`
	TransactionID string     `json:"tranId" gorm:"uniqueIndex;size:64;not null"`
	Payload       Order      `json:"payload" gorm:"serializer:json"`
	PromotedAt    *time.Time `json:"promotedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Revenue is the completed-sales summary for one restaurant or provider.
type Revenue struct {
	RegularTotal int `json:"regularTotal"`
	CustomTotal  int `json:"customTotal"`
	GrandTotal   int `json:"grandTotal"`
}
