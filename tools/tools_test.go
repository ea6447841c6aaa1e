package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner/recipes"
)

func testCatalog(t *testing.T) *recipes.Catalog {
	t.Helper()
	c, err := recipes.New([]recipes.Recipe{
		{
			Name: "Pasta",
			Ingredients: []recipes.Ingredient{
				{Item: "spaghetti", Quantity: "1 lb", Price: recipes.Dollars(1.50)},
				{Item: "garlic", Quantity: "1 bulb", Price: recipes.Dollars(0.75)},
			},
			Tags: []string{"vegetarian", "vegan"},
		},
		{
			Name: "Chicken Salad",
			Ingredients: []recipes.Ingredient{
				{Item: "chicken breast", Quantity: "1 lb", Price: recipes.Dollars(5.00)},
				{Item: "garlic", Quantity: "2 cloves", Price: recipes.Dollars(0.25)},
			},
			Tags: []string{"gluten-free", "low-carb"},
		},
	})
	require.NoError(t, err)
	return c
}

func recipeNames(t *testing.T, out map[string]any) []string {
	t.Helper()
	list, ok := out["recipes"].([]any)
	require.True(t, ok, "recipes should be a list")
	var names []string
	for _, item := range list {
		m := item.(map[string]any)
		if r, nested := m["recipe"].(map[string]any); nested {
			m = r
		}
		names = append(names, m["name"].(string))
	}
	return names
}

func TestRegistry(t *testing.T) {
	registry, err := NewRegistry(testCatalog(t))
	require.NoError(t, err)

	var names []string
	for _, tool := range registry.GetTools() {
		names = append(names, tool.Name())
		assert.NotEmpty(t, tool.Description())
		assert.NotEmpty(t, tool.Title())
		require.NotNil(t, tool.InputSchema())
		assert.Equal(t, "object", tool.InputSchema().Type)
	}
	assert.Equal(t, []string{
		"recipe_by_budget",
		"recipe_details",
		"recipe_filter_by_tags",
		"recipe_list",
		"recipe_search_by_ingredient",
		"recipe_search_by_name",
	}, names)

	_, err = registry.GetTool("recipe_get")
	assert.Error(t, err)

	_, err = NewRegistry(nil)
	assert.Error(t, err)
}

func TestTools_Run(t *testing.T) {
	registry, err := NewRegistry(testCatalog(t))
	require.NoError(t, err)

	tests := []struct {
		name          string
		tool          string
		input         map[string]any
		expectedNames []string
		expectedCode  string
	}{
		{name: "search by name", tool: "recipe_search_by_name", input: map[string]any{"query": "PAST"}, expectedNames: []string{"Pasta"}},
		{name: "search by name no match", tool: "recipe_search_by_name", input: map[string]any{"query": "soup"}, expectedNames: nil},
		{name: "search by name missing query", tool: "recipe_search_by_name", input: map[string]any{}, expectedCode: CodeInvalidArgument},
		{name: "search by name wrong type", tool: "recipe_search_by_name", input: map[string]any{"query": 3.0}, expectedCode: CodeInvalidArgument},
		{name: "filter by tags list", tool: "recipe_filter_by_tags", input: map[string]any{"tags": []any{"vegan", "low-carb"}}, expectedNames: []string{"Pasta", "Chicken Salad"}},
		{name: "filter by tags csv", tool: "recipe_filter_by_tags", input: map[string]any{"tags": "gluten-free"}, expectedNames: []string{"Chicken Salad"}},
		{name: "filter by tags bad item", tool: "recipe_filter_by_tags", input: map[string]any{"tags": []any{1.0}}, expectedCode: CodeInvalidArgument},
		{name: "list", tool: "recipe_list", input: nil, expectedNames: []string{"Pasta", "Chicken Salad"}},
		{name: "by ingredient", tool: "recipe_search_by_ingredient", input: map[string]any{"ingredient": "garlic"}, expectedNames: []string{"Pasta", "Chicken Salad"}},
		{name: "by ingredient empty", tool: "recipe_search_by_ingredient", input: map[string]any{"ingredient": " "}, expectedCode: CodeInvalidArgument},
		{name: "by budget", tool: "recipe_by_budget", input: map[string]any{"max_budget": 3.0}, expectedNames: []string{"Pasta"}},
		{name: "by budget string", tool: "recipe_by_budget", input: map[string]any{"max_budget": "$10"}, expectedNames: []string{"Pasta", "Chicken Salad"}},
		{name: "by budget negative", tool: "recipe_by_budget", input: map[string]any{"max_budget": -1.0}, expectedCode: CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := registry.GetTool(tt.tool)
			require.NoError(t, err)

			out, err := tool.Run(context.Background(), tt.input)
			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedNames, recipeNames(t, out))
			assert.EqualValues(t, len(tt.expectedNames), out["count"])
		})
	}
}

func TestDetails_Run(t *testing.T) {
	tool := NewDetails(testCatalog(t))

	out, err := tool.Run(context.Background(), map[string]any{"recipe_name": "pasta"})
	require.NoError(t, err)
	assert.Equal(t, true, out["found"])
	assert.Equal(t, 2.25, out["total_cost"])
	assert.Equal(t, "Pasta", out["recipe"].(map[string]any)["name"])

	out, err = tool.Run(context.Background(), map[string]any{"recipe_name": "Pizza"})
	require.NoError(t, err, "a miss is reported in the result")
	assert.Equal(t, false, out["found"])
	assert.Equal(t, "Recipe 'Pizza' not found. Available recipes: Pasta, Chicken Salad", out["message"])
	assert.Equal(t, []any{"Pasta", "Chicken Salad"}, out["available"])
}

func TestByBudget_CheapestFirst(t *testing.T) {
	out, err := NewByBudget(testCatalog(t)).Run(context.Background(), map[string]any{"max_budget": 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasta", "Chicken Salad"}, recipeNames(t, out))
	assert.Equal(t, 100.0, out["max_budget"])
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeInvalidArgument, ErrorCode(recipes.ErrInvalidArgument))
	assert.Equal(t, CodeNotFound, ErrorCode(&recipes.NotFoundError{Name: "x"}))
	assert.Equal(t, CodeInternal, ErrorCode(errors.New("boom")))
}
