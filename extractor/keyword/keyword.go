// Package keyword is a deterministic PreferenceExtractor that reads simple
// patterns: "$N" or "N dollars" for the budget, the first remaining number
// for the recipe count, and known dietary words for tags.
package keyword

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"mealplanner"
	"mealplanner/extractor"
	"mealplanner/recipes"
)

var ErrEmptyRequest = errors.New("request is empty")

var (
	budgetPattern = regexp.MustCompile(`(?i)\$\s*(\d+(?:\.\d{1,2})?)|(\d+(?:\.\d{1,2})?)\s*(?:dollars|bucks|usd)\b`)
	numberPattern = regexp.MustCompile(`\b(\d+)\b`)
	wordPattern   = regexp.MustCompile(`(?i)\b(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\b`)
)

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

var tagPatterns = []struct {
	tag     string
	pattern *regexp.Regexp
}{
	{"vegetarian", regexp.MustCompile(`(?i)\bvegetarian\b`)},
	{"vegan", regexp.MustCompile(`(?i)\bvegan\b`)},
	{"gluten-free", regexp.MustCompile(`(?i)\bgluten[\s-]?free\b`)},
	{"low-carb", regexp.MustCompile(`(?i)\blow[\s-]?carbs?\b`)},
}

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(ctx context.Context, text string) (mealplanner.Requirement, error) {
	if err := ctx.Err(); err != nil {
		return mealplanner.Requirement{}, extractor.Failed(err)
	}
	if strings.TrimSpace(text) == "" {
		return mealplanner.Requirement{}, extractor.Failed(ErrEmptyRequest)
	}

	req := mealplanner.DefaultRequirement()

	rest := text
	if m := budgetPattern.FindStringSubmatch(text); m != nil {
		amount := m[1]
		if amount == "" {
			amount = m[2]
		}
		p, err := recipes.ParsePrice(amount)
		if err != nil {
			return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("budget: %w", err))
		}
		req.Budget = p
		rest = budgetPattern.ReplaceAllString(text, " ")
	}

	if m := numberPattern.FindStringSubmatch(rest); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			req.NumRecipes = n
		}
	} else if m := wordPattern.FindStringSubmatch(rest); m != nil {
		req.NumRecipes = wordNumbers[strings.ToLower(m[1])]
	}

	for _, tp := range tagPatterns {
		if tp.pattern.MatchString(text) && !req.HasTag(tp.tag) {
			req.DietaryTags = append(req.DietaryTags, tp.tag)
		}
	}

	slog.Info("EXTRACTOR: Keyword extraction",
		"num_recipes", req.NumRecipes,
		"dietary_tags", req.DietaryTags,
		"budget", req.Budget.String())

	return req, nil
}
