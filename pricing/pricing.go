// Package pricing prices a consolidated grocery list and checks it against
// the session budget.
package pricing

import (
	"fmt"
	"strings"

	"mealplanner/planner"
	"mealplanner/recipes"
)

// PricedItem is one grocery line with its price.
type PricedItem struct {
	Item     string        `json:"item"`
	Quantity string        `json:"quantity"`
	Price    recipes.Price `json:"price"`
}

// Quote is the priced shopping list and whether it fits the budget.
type Quote struct {
	Items        []PricedItem  `json:"priced_items"`
	Total        recipes.Price `json:"total"`
	Budget       recipes.Price `json:"budget"`
	WithinBudget bool          `json:"within_budget"`
}

// Overage is how far the total exceeds the budget, or zero.
func (q Quote) Overage() recipes.Price {
	if q.WithinBudget {
		return 0
	}
	return q.Total - q.Budget
}

// String renders the quote as plain text lines.
func (q Quote) String() string {
	var b strings.Builder
	for _, it := range q.Items {
		fmt.Fprintf(&b, "- %s (%s): %s\n", it.Item, it.Quantity, it.Price)
	}
	fmt.Fprintf(&b, "Total: %s of %s budget", q.Total, q.Budget)
	if q.WithinBudget {
		b.WriteString(" (within budget)")
	} else {
		fmt.Fprintf(&b, " (over by %s)", q.Overage())
	}
	return b.String()
}

// PriceAndCheck prices every line at its consolidated ingredient price. A
// total equal to the budget is within it.
func PriceAndCheck(items []planner.ConsolidatedItem, budget recipes.Price) Quote {
	q := Quote{Items: make([]PricedItem, 0, len(items)), Budget: budget}
	for _, it := range items {
		q.Items = append(q.Items, PricedItem{
			Item:     it.Item,
			Quantity: it.QuantityLabel(),
			Price:    it.TotalPrice,
		})
		q.Total += it.TotalPrice
	}
	q.WithinBudget = q.Total <= budget
	return q
}
