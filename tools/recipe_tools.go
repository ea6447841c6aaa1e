package tools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealplanner/recipes"
)

// RecipesResult is the output of the tools that return plain recipe lists.
type RecipesResult struct {
	Count   int              `json:"count"`
	Recipes []recipes.Recipe `json:"recipes"`
}

// BudgetResult is the output of recipe_by_budget, cheapest first.
type BudgetResult struct {
	MaxBudget recipes.Price    `json:"max_budget"`
	Count     int              `json:"count"`
	Recipes   []recipes.Costed `json:"recipes"`
}

// DetailsResult is the output of recipe_details. A miss is reported in the
// result rather than as an error.
type DetailsResult struct {
	Found     bool            `json:"found"`
	Recipe    *recipes.Recipe `json:"recipe,omitempty"`
	TotalCost *recipes.Price  `json:"total_cost,omitempty"`
	Message   string          `json:"message,omitempty"`
	Available []string        `json:"available,omitempty"`
}

func recipesResult(rs []recipes.Recipe) (map[string]any, error) {
	return toMap(RecipesResult{Count: len(rs), Recipes: rs})
}

func stringProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

type SearchByName struct{ catalog recipes.Reader }

func NewSearchByName(c recipes.Reader) *SearchByName { return &SearchByName{catalog: c} }

func (t *SearchByName) Name() string  { return "recipe_search_by_name" }
func (t *SearchByName) Title() string { return "Search Recipes by Name" }
func (t *SearchByName) Description() string {
	return "Finds recipes whose name contains the query, ignoring case."
}

func (t *SearchByName) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{"query": stringProp("Part of a recipe name")},
		Required:   []string{"query"},
	}
}

func (t *SearchByName) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	q, err := stringArg(input, "query")
	if err != nil {
		return nil, err
	}
	rs, err := t.catalog.SearchByName(ctx, q)
	if err != nil {
		return nil, err
	}
	return recipesResult(rs)
}

type FilterByTags struct{ catalog recipes.Reader }

func NewFilterByTags(c recipes.Reader) *FilterByTags { return &FilterByTags{catalog: c} }

func (t *FilterByTags) Name() string  { return "recipe_filter_by_tags" }
func (t *FilterByTags) Title() string { return "Filter Recipes by Tags" }
func (t *FilterByTags) Description() string {
	return "Returns recipes carrying any of the given dietary tags (vegetarian, vegan, gluten-free, low-carb)."
}

func (t *FilterByTags) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"tags": {
				Type:        "array",
				Description: "Dietary tags; a recipe matches if it has any of them",
				Items:       &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"tags"},
	}
}

func (t *FilterByTags) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	tags, err := stringsArg(input, "tags")
	if err != nil {
		return nil, err
	}
	rs, err := t.catalog.FilterByTags(ctx, tags)
	if err != nil {
		return nil, err
	}
	return recipesResult(rs)
}

type Details struct{ catalog recipes.Reader }

func NewDetails(c recipes.Reader) *Details { return &Details{catalog: c} }

func (t *Details) Name() string  { return "recipe_details" }
func (t *Details) Title() string { return "Recipe Details" }
func (t *Details) Description() string {
	return "Returns the ingredients, tags and total cost of a recipe by exact name. Unknown names list the available recipes."
}

func (t *Details) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{"recipe_name": stringProp("Exact recipe name, any case")},
		Required:   []string{"recipe_name"},
	}
}

func (t *Details) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	name, err := stringArg(input, "recipe_name")
	if err != nil {
		return nil, err
	}

	r, err := t.catalog.Get(ctx, name)
	var nf *recipes.NotFoundError
	switch {
	case errors.As(err, &nf):
		return toMap(DetailsResult{Found: false, Message: nf.Error(), Available: nf.Available})
	case err != nil:
		return nil, err
	}

	cost := r.TotalCost()
	return toMap(DetailsResult{Found: true, Recipe: &r, TotalCost: &cost})
}

type List struct{ catalog recipes.Reader }

func NewList(c recipes.Reader) *List { return &List{catalog: c} }

func (t *List) Name() string        { return "recipe_list" }
func (t *List) Title() string       { return "List Recipes" }
func (t *List) Description() string { return "Lists every recipe in catalog order." }

func (t *List) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: map[string]*jsonschema.Schema{}}
}

func (t *List) Run(ctx context.Context, _ map[string]any) (map[string]any, error) {
	rs, err := t.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	return recipesResult(rs)
}

type SearchByIngredient struct{ catalog recipes.Reader }

func NewSearchByIngredient(c recipes.Reader) *SearchByIngredient {
	return &SearchByIngredient{catalog: c}
}

func (t *SearchByIngredient) Name() string  { return "recipe_search_by_ingredient" }
func (t *SearchByIngredient) Title() string { return "Search Recipes by Ingredient" }
func (t *SearchByIngredient) Description() string {
	return "Finds recipes with an ingredient whose name contains the given text, ignoring case."
}

func (t *SearchByIngredient) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{"ingredient": stringProp("Part of an ingredient name")},
		Required:   []string{"ingredient"},
	}
}

func (t *SearchByIngredient) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	ing, err := stringArg(input, "ingredient")
	if err != nil {
		return nil, err
	}
	rs, err := t.catalog.SearchByIngredient(ctx, ing)
	if err != nil {
		return nil, err
	}
	return recipesResult(rs)
}

type ByBudget struct{ catalog recipes.Reader }

func NewByBudget(c recipes.Reader) *ByBudget { return &ByBudget{catalog: c} }

func (t *ByBudget) Name() string  { return "recipe_by_budget" }
func (t *ByBudget) Title() string { return "Recipes Within Budget" }
func (t *ByBudget) Description() string {
	return "Returns recipes whose total ingredient cost is at most max_budget, cheapest first."
}

func (t *ByBudget) InputSchema() *jsonschema.Schema {
	zero := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"max_budget": {Type: "number", Description: "Maximum cost in dollars", Minimum: &zero},
		},
		Required: []string{"max_budget"},
	}
}

func (t *ByBudget) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	budget, err := priceArg(input, "max_budget")
	if err != nil {
		return nil, err
	}
	costed, err := t.catalog.ByBudget(ctx, budget)
	if err != nil {
		return nil, err
	}
	return toMap(BudgetResult{MaxBudget: budget, Count: len(costed), Recipes: costed})
}
