package recipes

import (
	"slices"
	"strings"
)

// Ingredient is one line of a recipe. Quantity is free text ("1 lb", "2 cups")
// and is never parsed.
type Ingredient struct {
	Item     string `json:"item" yaml:"item"`
	Quantity string `json:"quantity" yaml:"quantity"`
	Price    Price  `json:"price" yaml:"price"`
}

// Recipe is a named dish with an ordered ingredient list and a set of dietary tags.
type Recipe struct {
	Name        string       `json:"name" yaml:"name"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Tags        []string     `json:"tags" yaml:"tags"`
}

// TotalCost is the sum of the ingredient prices.
func (r Recipe) TotalCost() Price {
	var total Price
	for _, ing := range r.Ingredients {
		total += ing.Price
	}
	return total
}

// HasAnyTag reports whether the recipe carries at least one of tags,
// compared case-insensitively.
func (r Recipe) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range r.Tags {
			if strings.EqualFold(strings.TrimSpace(want), have) {
				return true
			}
		}
	}
	return false
}

// IngredientMatching returns the first ingredient whose item contains sub
// (case-insensitive).
func (r Recipe) IngredientMatching(sub string) (Ingredient, bool) {
	sub = strings.ToLower(sub)
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Item), sub) {
			return ing, true
		}
	}
	return Ingredient{}, false
}

func (r Recipe) clone() Recipe {
	return Recipe{
		Name:        r.Name,
		Ingredients: slices.Clone(r.Ingredients),
		Tags:        slices.Clone(r.Tags),
	}
}
