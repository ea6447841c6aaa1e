package keyword

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner"
	"mealplanner/recipes"
)

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected mealplanner.Requirement
	}{
		{
			name:     "count tag and budget",
			text:     "Plan 3 vegetarian dinners under $30",
			expected: mealplanner.Requirement{NumRecipes: 3, DietaryTags: []string{"vegetarian"}, Budget: recipes.Dollars(30)},
		},
		{
			name:     "budget first does not become the count",
			text:     "With $45.50 I need 4 meals",
			expected: mealplanner.Requirement{NumRecipes: 4, DietaryTags: []string{}, Budget: recipes.Dollars(45.50)},
		},
		{
			name:     "dollars suffix",
			text:     "two vegan gluten free dinners for 25 dollars",
			expected: mealplanner.Requirement{NumRecipes: 2, DietaryTags: []string{"vegan", "gluten-free"}, Budget: recipes.Dollars(25)},
		},
		{
			name:     "low carb variants",
			text:     "Something LOW CARB please",
			expected: mealplanner.Requirement{NumRecipes: 5, DietaryTags: []string{"low-carb"}, Budget: recipes.Dollars(50)},
		},
		{
			name:     "defaults",
			text:     "What should I cook this week?",
			expected: mealplanner.DefaultRequirement(),
		},
		{
			name:     "zero count keeps default",
			text:     "0 meals",
			expected: mealplanner.DefaultRequirement(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractor_Failures(t *testing.T) {
	_, err := New().Extract(context.Background(), "   ")
	assert.ErrorIs(t, err, mealplanner.ErrExtractionFailed)
	assert.ErrorIs(t, err, ErrEmptyRequest)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().Extract(ctx, "3 dinners")
	assert.ErrorIs(t, err, mealplanner.ErrExtractionFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractor_OutOfRangeBudget(t *testing.T) {
	_, err := New().Extract(context.Background(), "3 dinners under $99999999999999999999")
	require.Error(t, err)
	assert.ErrorIs(t, err, mealplanner.ErrExtractionFailed)
}

func TestExtractor_TagsNotRepeated(t *testing.T) {
	got, err := New().Extract(context.Background(), "vegan, really VEGAN dinners")
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan"}, got.DietaryTags)
}
