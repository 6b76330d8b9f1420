package estimator

// UnitPrices holds the display-ready unit prices of one group.
type UnitPrices struct {
	LaborUnitPrice int `json:"laborUnitPrice" yaml:"laborUnitPrice"`
	SalesUnitPrice int `json:"salesUnitPrice" yaml:"salesUnitPrice"`
}

// Price computes the labor unit price and then the sales unit price of g.
func Price(g GroupCost) UnitPrices {
	labor := LaborUnitPrice(g)
	return UnitPrices{
		LaborUnitPrice: labor,
		SalesUnitPrice: SalesUnitPrice(g, labor),
	}
}

// Group is a named processing group of an order.
type Group struct {
	Name string `json:"name" yaml:"name"`
	GroupCost `yaml:",inline"`
}

// GroupSummary is the priced view of a single group.
type GroupSummary struct {
	Name string `json:"name"`
	UnitPrices
	SalesQuantity   int `json:"salesQuantity"`
	BringInQuantity int `json:"bringInQuantity"`
	Amount          int `json:"amount"`
}

// Summary is the priced view of a whole order.
type Summary struct {
	Groups   []GroupSummary `json:"groups"`
	Subtotal int            `json:"subtotal"`
}

// Summarize prices every group of an order. Sold items are charged the sales
// unit price and bring-in items the labor unit price only.
func Summarize(groups []Group) Summary {
	summary := Summary{Groups: make([]GroupSummary, 0, len(groups))}
	for _, g := range groups {
		prices := Price(g.GroupCost)
		amount := prices.SalesUnitPrice*g.SalesQuantity() + prices.LaborUnitPrice*g.BringInQuantity

		summary.Groups = append(summary.Groups, GroupSummary{
			Name:            g.Name,
			UnitPrices:      prices,
			SalesQuantity:   g.SalesQuantity(),
			BringInQuantity: g.BringInQuantity,
			Amount:          amount,
		})
		summary.Subtotal += amount
	}
	return summary
}
