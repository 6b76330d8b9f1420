package estimator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGroupCost is returned by GroupCost.Validate.
var ErrInvalidGroupCost = errors.New("invalid group cost")

// Upper bounds accepted by Validate. Within them every unit price, group
// amount and order subtotal stays well inside int64.
const (
	MaxAmount   = 1e15
	MaxQuantity = 1_000_000_000
)

// GroupCost aggregates the costs of one processing group of an order.
// Fee fields left at zero are treated as absent.
type GroupCost struct {
	Quantity              int     `json:"quantity" yaml:"quantity"`
	BringInQuantity       int     `json:"bringInQuantity" yaml:"bringInQuantity"`
	TshirtCost            float64 `json:"tshirtCost" yaml:"tshirtCost"`
	SilkscreenPrintCost   float64 `json:"silkscreenPrintCost,omitempty" yaml:"silkscreenPrintCost,omitempty"`
	DtfPrintCost          float64 `json:"dtfPrintCost,omitempty" yaml:"dtfPrintCost,omitempty"`
	SetupCost             float64 `json:"setupCost,omitempty" yaml:"setupCost,omitempty"`
	AdditionalOptionsCost float64 `json:"additionalOptionsCost,omitempty" yaml:"additionalOptionsCost,omitempty"`
	CustomItemsCost       float64 `json:"customItemsCost,omitempty" yaml:"customItemsCost,omitempty"`
	SampleItemsCost       float64 `json:"sampleItemsCost,omitempty" yaml:"sampleItemsCost,omitempty"`
}

// ProcessingFees returns the sum of all non-material fees of the group.
func (g GroupCost) ProcessingFees() float64 {
	return g.SilkscreenPrintCost +
		g.DtfPrintCost +
		g.SetupCost +
		g.AdditionalOptionsCost +
		g.CustomItemsCost +
		g.SampleItemsCost
}

// SalesQuantity is the number of items sold by the shop, excluding bring-in items.
func (g GroupCost) SalesQuantity() int {
	return g.Quantity - g.BringInQuantity
}

// Validate checks the preconditions the calculators rely on. The calculators
// never call it themselves.
func (g GroupCost) Validate() error {
	if g.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0, got %d", ErrInvalidGroupCost, g.Quantity)
	}
	if g.BringInQuantity < 0 {
		return fmt.Errorf("%w: bringInQuantity must be >= 0, got %d", ErrInvalidGroupCost, g.BringInQuantity)
	}
	if g.Quantity > MaxQuantity {
		return fmt.Errorf("%w: quantity must be <= %d, got %d", ErrInvalidGroupCost, MaxQuantity, g.Quantity)
	}
	if g.BringInQuantity > g.Quantity {
		return fmt.Errorf("%w: bringInQuantity (%d) exceeds quantity (%d)", ErrInvalidGroupCost, g.BringInQuantity, g.Quantity)
	}

	amounts := []struct {
		field string
		value float64
	}{
		{"tshirtCost", g.TshirtCost},
		{"silkscreenPrintCost", g.SilkscreenPrintCost},
		{"dtfPrintCost", g.DtfPrintCost},
		{"setupCost", g.SetupCost},
		{"additionalOptionsCost", g.AdditionalOptionsCost},
		{"customItemsCost", g.CustomItemsCost},
		{"sampleItemsCost", g.SampleItemsCost},
	}
	for _, a := range amounts {
		if a.value < 0 || math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return fmt.Errorf("%w: %s must be a non-negative amount, got %v", ErrInvalidGroupCost, a.field, a.value)
		}
		if a.value > MaxAmount {
			return fmt.Errorf("%w: %s must be <= %g, got %v", ErrInvalidGroupCost, a.field, MaxAmount, a.value)
		}
	}

	return nil
}

// LaborUnitPrice returns the average labor cost per item of the group.
// Bring-in items count, since they are printed too. A group with no items
// yields 0.
func LaborUnitPrice(g GroupCost) int {
	if g.Quantity == 0 {
		return 0
	}
	return round(g.ProcessingFees() / float64(g.Quantity))
}

// SalesUnitPrice returns the average price per sold item: the rounded material
// cost per sold item plus laborUnitPrice. laborUnitPrice is used as given.
// A group where every item is brought in yields 0.
func SalesUnitPrice(g GroupCost, laborUnitPrice int) int {
	salesQuantity := g.SalesQuantity()
	if salesQuantity == 0 {
		return 0
	}

	// Material and labor are rounded separately before being added.
	salesItemCostPerItem := round(g.TshirtCost / float64(salesQuantity))
	return salesItemCostPerItem + laborUnitPrice
}

// round rounds half away from zero.
func round(v float64) int {
	return int(math.Round(v))
}
