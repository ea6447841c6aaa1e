package planner

import "mealplanner/recipes"

// Overlap is an ingredient item that occurs more than once.
type Overlap struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// DetectOverlap maps each item occurring at least twice to its occurrence
// count. Items are compared by exact string.
func DetectOverlap(ingredients []recipes.Ingredient) map[string]int {
	out := map[string]int{}
	for _, o := range Overlaps(ingredients) {
		out[o.Item] = o.Count
	}
	return out
}

// Overlaps is DetectOverlap ordered by first occurrence.
func Overlaps(ingredients []recipes.Ingredient) []Overlap {
	counts := make(map[string]int, len(ingredients))
	order := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if counts[ing.Item] == 0 {
			order = append(order, ing.Item)
		}
		counts[ing.Item]++
	}

	out := make([]Overlap, 0)
	for _, item := range order {
		if n := counts[item]; n > 1 {
			out = append(out, Overlap{Item: item, Count: n})
		}
	}
	return out
}
