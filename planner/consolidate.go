package planner

import (
	"fmt"

	"mealplanner/recipes"
)

// ConsolidatedItem is one grocery line: every quantity requested for an item
// and the summed price. Quantities are kept verbatim and never added.
type ConsolidatedItem struct {
	Item       string        `json:"item"`
	Quantities []string      `json:"quantities"`
	TotalPrice recipes.Price `json:"total_price"`
}

// QuantityLabel is the single quantity, or "Nx portions" when merged.
func (c ConsolidatedItem) QuantityLabel() string {
	if len(c.Quantities) == 1 {
		return c.Quantities[0]
	}
	return fmt.Sprintf("%dx portions", len(c.Quantities))
}

// Consolidate groups ingredients by exact item name in first-seen order.
func Consolidate(ingredients []recipes.Ingredient) []ConsolidatedItem {
	out := make([]ConsolidatedItem, 0, len(ingredients))
	index := make(map[string]int, len(ingredients))
	for _, ing := range ingredients {
		i, ok := index[ing.Item]
		if !ok {
			i = len(out)
			index[ing.Item] = i
			out = append(out, ConsolidatedItem{Item: ing.Item, Quantities: []string{}})
		}
		out[i].Quantities = append(out[i].Quantities, ing.Quantity)
		out[i].TotalPrice += ing.Price
	}
	return out
}

// GroceryTotal sums the price of every line.
func GroceryTotal(items []ConsolidatedItem) recipes.Price {
	var total recipes.Price
	for _, it := range items {
		total += it.TotalPrice
	}
	return total
}
