package planner

import (
	"fmt"
	"strings"

	"mealplanner"
)

// CostCalculationMarker ends the Optimize message; hosts look for it to hand
// the grocery list to the cost calculation.
const CostCalculationMarker = "[CALCULATE_COST]"

const (
	maxOverlapLines = 5
	maxGroceryLines = 10
)

func gatherMessage(req mealplanner.Requirement) string {
	prefs := "no specific restrictions"
	if len(req.DietaryTags) > 0 {
		prefs = strings.Join(req.DietaryTags, ", ")
	}
	return fmt.Sprintf(
		"I'll plan %d dinners under $%.0f total. Dietary preferences detected: %s. Moving to recipe suggestions.",
		req.NumRecipes, req.Budget.Float64(), prefs,
	)
}

func recipeList(names []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Selected %d recipes:", len(names))
	for i, n := range names {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, n)
	}
	return b.String()
}

func suggestMessage(names []string) string {
	return recipeList(names) + "\n\nMoving to ingredient overlap check."
}

func overlapMessage(overlaps []Overlap) string {
	var b strings.Builder
	b.WriteString("Checked ingredient overlap across recipes.")
	if len(overlaps) > 0 {
		lines := make([]string, 0, maxOverlapLines)
		for _, o := range overlaps[:min(len(overlaps), maxOverlapLines)] {
			lines = append(lines, fmt.Sprintf("%s (used in %d recipes)", o.Item, o.Count))
		}
		b.WriteString("\n\nIngredient overlap found for: ")
		b.WriteString(strings.Join(lines, ", "))
	}
	b.WriteString("\n\nPreparing to optimize grocery list.")
	return b.String()
}

func optimizeMessage(names []string, list []ConsolidatedItem) string {
	var b strings.Builder
	b.WriteString(recipeList(names))
	b.WriteString("\n\nOptimized grocery list ready:")
	for _, it := range list[:min(len(list), maxGroceryLines)] {
		fmt.Fprintf(&b, "\n  - %s: %s", it.Item, it.QuantityLabel())
	}
	if extra := len(list) - maxGroceryLines; extra > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", extra)
	}
	b.WriteString("\n\nRequesting cost calculation. ")
	b.WriteString(CostCalculationMarker)
	return b.String()
}
