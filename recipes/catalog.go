package recipes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("recipe not found")
)

// NotFoundError is returned by Get on a miss. It carries the names that do
// exist so callers can answer conversationally.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Recipe '%s' not found. Available recipes: %s", e.Name, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Reader is the read surface of a recipe catalog. Catalog serves it in
// process; remote.Catalog serves it over an MCP session.
type Reader interface {
	Get(ctx context.Context, name string) (Recipe, error)
	SearchByName(ctx context.Context, query string) ([]Recipe, error)
	FilterByTags(ctx context.Context, tags []string) ([]Recipe, error)
	SearchByIngredient(ctx context.Context, ingredient string) ([]Recipe, error)
	ByBudget(ctx context.Context, maxCost Price) ([]Costed, error)
	All(ctx context.Context) ([]Recipe, error)
}

// Costed pairs a recipe with its total ingredient cost.
type Costed struct {
	Recipe    Recipe `json:"recipe"`
	TotalCost Price  `json:"total_cost"`
}

// TagCount is the number of recipes carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Summary describes the whole catalog.
type Summary struct {
	TotalRecipes int      `json:"total_recipes"`
	Tags         []string `json:"tags"`
	AverageCost  Price    `json:"average_cost"`
	TotalValue   Price    `json:"total_value"`
	Names        []string `json:"names"`
}

// Catalog is an immutable, ordered collection of recipes. It is safe for
// concurrent use since nothing mutates it after New returns.
type Catalog struct {
	recipes []Recipe
	byName  map[string]int
}

var _ Reader = (*Catalog)(nil)

// New builds a catalog from recipes in the given order. Names must be
// non-empty and unique ignoring case.
func New(recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: make([]Recipe, 0, len(recipes)),
		byName:  make(map[string]int, len(recipes)),
	}
	for i, r := range recipes {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("recipe %d has no name: %w", i, ErrInvalidArgument)
		}
		key := strings.ToLower(name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate recipe %q: %w", name, ErrInvalidArgument)
		}
		r = r.clone()
		r.Name = name
		c.byName[key] = len(c.recipes)
		c.recipes = append(c.recipes, r)
	}
	return c, nil
}

// Len returns the number of recipes.
func (c *Catalog) Len() int { return len(c.recipes) }

// Names returns recipe names in insertion order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.recipes))
	for i, r := range c.recipes {
		names[i] = r.Name
	}
	return names
}

// Get looks a recipe up by exact name, ignoring case.
func (c *Catalog) Get(_ context.Context, name string) (Recipe, error) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Recipe{}, &NotFoundError{Name: name, Available: c.Names()}
	}
	return c.recipes[i].clone(), nil
}

// SearchByName returns recipes whose name contains query, ignoring case.
func (c *Catalog) SearchByName(_ context.Context, query string) ([]Recipe, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("search query is empty: %w", ErrInvalidArgument)
	}
	return c.filter(func(r Recipe) bool {
		return strings.Contains(strings.ToLower(r.Name), q)
	}), nil
}

// FilterByTags returns recipes carrying any of tags.
func (c *Catalog) FilterByTags(_ context.Context, tags []string) ([]Recipe, error) {
	tags = nonBlank(tags)
	if len(tags) == 0 {
		return nil, fmt.Errorf("at least one tag is required: %w", ErrInvalidArgument)
	}
	return c.filter(func(r Recipe) bool { return r.HasAnyTag(tags) }), nil
}

// SearchByIngredient returns recipes with at least one ingredient whose item
// contains ingredient, ignoring case.
func (c *Catalog) SearchByIngredient(_ context.Context, ingredient string) ([]Recipe, error) {
	q := strings.TrimSpace(ingredient)
	if q == "" {
		return nil, fmt.Errorf("ingredient query is empty: %w", ErrInvalidArgument)
	}
	return c.filter(func(r Recipe) bool {
		_, ok := r.IngredientMatching(q)
		return ok
	}), nil
}

// ByBudget returns recipes costing at most maxCost, cheapest first. Ties keep
// catalog order.
func (c *Catalog) ByBudget(_ context.Context, maxCost Price) ([]Costed, error) {
	if maxCost < 0 {
		return nil, fmt.Errorf("budget %s is negative: %w", maxCost, ErrInvalidArgument)
	}
	out := make([]Costed, 0)
	for _, r := range c.recipes {
		if cost := r.TotalCost(); cost <= maxCost {
			out = append(out, Costed{Recipe: r.clone(), TotalCost: cost})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCost < out[j].TotalCost })
	return out, nil
}

// All returns every recipe in insertion order.
func (c *Catalog) All(_ context.Context) ([]Recipe, error) {
	return c.filter(func(Recipe) bool { return true }), nil
}

// Tags counts recipes per tag, sorted by tag.
func (c *Catalog) Tags() []TagCount {
	counts := map[string]int{}
	for _, r := range c.recipes {
		for _, t := range r.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Summary reports catalog-wide statistics.
func (c *Catalog) Summary() Summary {
	s := Summary{TotalRecipes: len(c.recipes), Names: c.Names(), Tags: []string{}}
	for _, tc := range c.Tags() {
		s.Tags = append(s.Tags, tc.Tag)
	}
	for _, r := range c.recipes {
		s.TotalValue += r.TotalCost()
	}
	if s.TotalRecipes > 0 {
		s.AverageCost = Dollars(s.TotalValue.Float64() / float64(s.TotalRecipes))
	}
	return s
}

func (c *Catalog) filter(keep func(Recipe) bool) []Recipe {
	out := make([]Recipe, 0)
	for _, r := range c.recipes {
		if keep(r) {
			out = append(out, r.clone())
		}
	}
	return out
}

func nonBlank(ss []string) []string {
	return slices.DeleteFunc(slices.Clone(ss), func(s string) bool {
		return strings.TrimSpace(s) == ""
	})
}
