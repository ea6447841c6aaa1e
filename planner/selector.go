package planner

import (
	"context"
	"fmt"
	"strings"

	"mealplanner"
	"mealplanner/recipes"
)

// Select picks req.NumRecipes recipe names. Recipes matching any dietary tag
// come first in catalog order; the rest of the catalog pads the selection
// when too few match. The result is shorter than requested only when the
// catalog itself is.
func Select(ctx context.Context, catalog recipes.Reader, req mealplanner.Requirement) ([]string, error) {
	if req.NumRecipes <= 0 {
		return []string{}, nil
	}

	selected := []string{}
	seen := map[string]bool{}
	add := func(rs []recipes.Recipe) {
		for _, r := range rs {
			if len(selected) == req.NumRecipes {
				return
			}
			if seen[r.Name] {
				continue
			}
			seen[r.Name] = true
			selected = append(selected, r.Name)
		}
	}

	if tags := dietaryTags(req); len(tags) > 0 {
		matched, err := catalog.FilterByTags(ctx, tags)
		if err != nil {
			return nil, fmt.Errorf("failed to filter recipes by tags: %w", err)
		}
		add(matched)
	}

	if len(selected) < req.NumRecipes {
		all, err := catalog.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list recipes: %w", err)
		}
		add(all)
	}

	return selected, nil
}

func dietaryTags(req mealplanner.Requirement) []string {
	tags := make([]string, 0, len(req.DietaryTags))
	for _, t := range req.DietaryTags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
