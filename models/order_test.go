package models

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathnameFor(t *testing.T) {
	assert.Equal(t, "joe's-diner", PathnameFor("Joe's Diner"))
	assert.Equal(t, "the-burger-lab", PathnameFor("The  Burger\tLab"))
	assert.Equal(t, "kacchi-bhai", PathnameFor("Kacchi Bhai"))
}

func TestParseLineKind(t *testing.T) {
	tests := []struct {
		in   string
		want LineKind
		ok   bool
	}{
		{"regular", KindRegular, true},
		{"Regular Order", KindRegular, true},
		{"custom", KindCustom, true},
		{"custom burger", KindCustom, true},
		{"pizza", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLineKind(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPriceAcceptsStringsAndNumbers(t *testing.T) {
	var item struct {
		A Price `json:"a"`
		B Price `json:"b"`
		C Price `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"350","b":420,"c":"199.90"}`), &item))

	a, err := item.A.Int()
	require.NoError(t, err)
	assert.Equal(t, 350, a)

	b, err := item.B.Int()
	require.NoError(t, err)
	assert.Equal(t, 420, b)

	c, err := item.C.Int()
	require.NoError(t, err)
	assert.Equal(t, 199, c)

	_, err = Price("free").Int()
	assert.Error(t, err)
}

func TestPriceRejectsNonFiniteAndHuge(t *testing.T) {
	for _, p := range []Price{"1e30", "-1e30", "NaN", "Inf", "-Inf", "99999999999"} {
		_, err := p.Int()
		assert.ErrorIs(t, err, strconv.ErrRange, string(p))
	}

	n, err := Price("2147483647").Int()
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, n)
}

func TestPackAndUnpackItems(t *testing.T) {
	o := Order{
		ID:       "o1",
		CartFood: []LineItem{{ID: "c1", Restaurant: "Kacchi Bhai"}},
		Burger:   []LineItem{{ID: "b1", Restaurant: "Burger Lab"}, {ID: "b2", Restaurant: "Burger Lab"}},
	}
	o.PackItems()
	require.Len(t, o.Items, 3)
	assert.Equal(t, KindRegular, o.Items[0].Kind)
	assert.Equal(t, KindCustom, o.Items[2].Kind)
	assert.Equal(t, "o1", o.Items[1].OrderID)

	o.CartFood, o.Burger = nil, nil
	o.UnpackItems()
	assert.Len(t, o.CartFood, 1)
	assert.Len(t, o.Burger, 2)
}

func TestMarkers(t *testing.T) {
	assert.Equal(t, "accepted by Rahim", AcceptedMarker("Rahim"))
	assert.Equal(t, "delivered by Rahim", DeliveredMarker("Rahim"))

	assert.True(t, IsClaimed(AcceptedMarker("Rahim")))
	assert.False(t, IsClaimed(DeliveredMarker("Rahim")))
	assert.False(t, IsClaimed(""))
}

func TestLineItemKeepsClientFields(t *testing.T) {
	var it LineItem
	require.NoError(t, json.Unmarshal([]byte(
		`{"_id":"l1","restaurant":"Joe's Diner","totalPrice":"250","status":"placed","name":"Kacchi","quantity":2}`,
	), &it))

	assert.Equal(t, "l1", it.ID)
	assert.Equal(t, "Joe's Diner", it.Restaurant)
	assert.Equal(t, Price("250"), it.TotalPrice)
	assert.Equal(t, StatusPlaced, it.Status)
	assert.Equal(t, map[string]any{"name": "Kacchi", "quantity": float64(2)}, it.Details)

	b, err := json.Marshal(Delivery{LineItem: it, CustomerName: "Rahim", Region: "Mirpur"})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "Kacchi", out["name"])
	assert.Equal(t, "Rahim", out["customerName"])
	assert.Equal(t, "Mirpur", out["region"])
	assert.Equal(t, "250", out["totalPrice"])
	assert.NotContains(t, out, "deliveryStatus")
}
