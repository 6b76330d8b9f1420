package estimator

import (
	"errors"
	"testing"
)

func TestLaborUnitPrice(t *testing.T) {
	tests := []struct {
		name  string
		group GroupCost
		want  int
	}{
		{
			name:  "silkscreen only",
			group: GroupCost{Quantity: 10, TshirtCost: 1000, SilkscreenPrintCost: 500},
			want:  50,
		},
		{
			name:  "setup spread over bring-in items",
			group: GroupCost{Quantity: 5, BringInQuantity: 5, SetupCost: 100},
			want:  20,
		},
		{
			name:  "zero quantity is guarded",
			group: GroupCost{SilkscreenPrintCost: 300, SetupCost: 200},
			want:  0,
		},
		{
			name:  "rounds down below half",
			group: GroupCost{Quantity: 3, DtfPrintCost: 10},
			want:  3,
		},
		{
			name:  "rounds half up",
			group: GroupCost{Quantity: 2, SetupCost: 5},
			want:  3,
		},
		{
			name: "sums every fee",
			group: GroupCost{
				Quantity:              4,
				SilkscreenPrintCost:   100,
				DtfPrintCost:          40,
				SetupCost:             60,
				AdditionalOptionsCost: 20,
				CustomItemsCost:       12,
				SampleItemsCost:       8,
			},
			want: 60,
		},
		{
			name:  "material cost is not labor",
			group: GroupCost{Quantity: 10, TshirtCost: 9999},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LaborUnitPrice(tt.group); got != tt.want {
				t.Fatalf("LaborUnitPrice(%+v) = %d, want %d", tt.group, got, tt.want)
			}
		})
	}
}

func TestSalesUnitPrice(t *testing.T) {
	tests := []struct {
		name  string
		group GroupCost
		labor int
		want  int
	}{
		{
			name:  "material plus labor",
			group: GroupCost{Quantity: 10, TshirtCost: 1000, SilkscreenPrintCost: 500},
			labor: 50,
			want:  150,
		},
		{
			name:  "all items brought in",
			group: GroupCost{Quantity: 5, BringInQuantity: 5, SetupCost: 100},
			labor: 20,
			want:  0,
		},
		{
			name:  "bring-in items leave the denominator",
			group: GroupCost{Quantity: 10, BringInQuantity: 6, TshirtCost: 2000},
			labor: 7,
			want:  507,
		},
		{
			name:  "labor is trusted as given",
			group: GroupCost{Quantity: 2, TshirtCost: 100},
			labor: 1234,
			want:  1284,
		},
		{
			name:  "material rounded before labor is added",
			group: GroupCost{Quantity: 4, TshirtCost: 1002},
			labor: 0,
			want:  251,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SalesUnitPrice(tt.group, tt.labor); got != tt.want {
				t.Fatalf("SalesUnitPrice(%+v, %d) = %d, want %d", tt.group, tt.labor, got, tt.want)
			}
		})
	}
}

func TestSalesUnitPrice_RoundsMaterialIndependently(t *testing.T) {
	// Material 5/2 and labor 5/2 each round up to 3, giving 6. Dividing the
	// combined 10 by 2 once would give 5.
	g := GroupCost{Quantity: 2, TshirtCost: 5, SetupCost: 5}

	labor := LaborUnitPrice(g)
	if labor != 3 {
		t.Fatalf("labor = %d, want 3", labor)
	}
	if got := SalesUnitPrice(g, labor); got != 6 {
		t.Fatalf("sales = %d, want 6", got)
	}
}

func TestCalculatorsAreIdempotent(t *testing.T) {
	g := GroupCost{Quantity: 7, BringInQuantity: 2, TshirtCost: 3333, DtfPrintCost: 123, SampleItemsCost: 45}

	firstLabor := LaborUnitPrice(g)
	firstSales := SalesUnitPrice(g, firstLabor)
	for i := 0; i < 5; i++ {
		if got := LaborUnitPrice(g); got != firstLabor {
			t.Fatalf("labor changed on call %d: %d != %d", i, got, firstLabor)
		}
		if got := SalesUnitPrice(g, firstLabor); got != firstSales {
			t.Fatalf("sales changed on call %d: %d != %d", i, got, firstSales)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := []GroupCost{
		{},
		{Quantity: 10, BringInQuantity: 10},
		{Quantity: 3, TshirtCost: 0.5, SetupCost: 100},
		{Quantity: MaxQuantity, BringInQuantity: 1, TshirtCost: MaxAmount, SetupCost: MaxAmount},
	}
	for _, g := range valid {
		if err := g.Validate(); err != nil {
			t.Fatalf("Validate(%+v) returned error: %v", g, err)
		}
	}

	invalid := []GroupCost{
		{Quantity: -1},
		{Quantity: 1, BringInQuantity: -1},
		{Quantity: 1, BringInQuantity: 2},
		{Quantity: 1, TshirtCost: -10},
		{Quantity: 1, SampleItemsCost: -0.01},
		{Quantity: 1, TshirtCost: 1e20},
		{Quantity: 1, DtfPrintCost: MaxAmount * 2},
		{Quantity: MaxQuantity + 1},
	}
	for _, g := range invalid {
		err := g.Validate()
		if err == nil {
			t.Fatalf("Validate(%+v) expected error", g)
		}
		if !errors.Is(err, ErrInvalidGroupCost) {
			t.Fatalf("Validate(%+v) error %v is not ErrInvalidGroupCost", g, err)
		}
	}
}

func TestPricesStayNonNegativeAtCeilings(t *testing.T) {
	groups := []GroupCost{
		{Quantity: 1, TshirtCost: MaxAmount, SilkscreenPrintCost: MaxAmount, DtfPrintCost: MaxAmount, SetupCost: MaxAmount, AdditionalOptionsCost: MaxAmount, CustomItemsCost: MaxAmount, SampleItemsCost: MaxAmount},
		{Quantity: MaxQuantity, TshirtCost: MaxAmount, SetupCost: MaxAmount},
		{Quantity: MaxQuantity, BringInQuantity: MaxQuantity - 1, TshirtCost: MaxAmount},
	}
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			t.Fatalf("Validate(%+v) returned error: %v", g, err)
		}
		labor := LaborUnitPrice(g)
		sales := SalesUnitPrice(g, labor)
		if labor < 0 || sales < 0 {
			t.Fatalf("negative price for %+v: labor=%d sales=%d", g, labor, sales)
		}
		if summary := Summarize([]Group{{GroupCost: g}}); summary.Subtotal < 0 {
			t.Fatalf("negative subtotal for %+v: %d", g, summary.Subtotal)
		}
	}
}
