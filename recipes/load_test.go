package recipes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner/recipes/storage"
)

const yamlCatalog = `
- name: Toast
  ingredients:
    - item: bread
      quantity: 2 slices
      price: 0.50
    - item: butter
      quantity: 1 tbsp
      price: "$0.25"
  tags: [vegetarian]
- name: Rice Bowl
  ingredients:
    - item: rice
      quantity: 1 cup
      price: 1.00
  tags: [vegan, gluten-free]
`

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("catalog.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("/tmp/CATALOG.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("catalog.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("catalog"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		format      Format
		expected    []string
		expectError bool
	}{
		{
			name:     "yaml",
			data:     yamlCatalog,
			format:   FormatYAML,
			expected: []string{"Toast", "Rice Bowl"},
		},
		{
			name:     "json",
			data:     `[{"name":"Toast","ingredients":[{"item":"bread","quantity":"2","price":0.5}],"tags":["vegetarian"]}]`,
			format:   FormatJSON,
			expected: []string{"Toast"},
		},
		{
			name:        "json unknown field",
			data:        `[{"name":"Toast","calories":300}]`,
			format:      FormatJSON,
			expectError: true,
		},
		{
			name:        "json object instead of list",
			data:        `{"name":"Toast"}`,
			format:      FormatJSON,
			expectError: true,
		},
		{
			name:        "duplicate names",
			data:        `[{"name":"Toast"},{"name":"TOAST"}]`,
			format:      FormatJSON,
			expectError: true,
		},
		{
			name:        "unknown format",
			data:        `[]`,
			format:      Format("toml"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.data), tt.format)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Names())
		})
	}
}

func TestParse_YAMLPrices(t *testing.T) {
	c, err := Parse([]byte(yamlCatalog), FormatYAML)
	require.NoError(t, err)

	toast, err := c.Get(context.Background(), "Toast")
	require.NoError(t, err)
	assert.Equal(t, Price(75), toast.TotalCost())
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	state := storage.NewTestCatalogState([]byte(yamlCatalog))
	c, err := Load(ctx, state, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, state.Loads())

	_, err = Load(ctx, storage.NewTestCatalogStateWithError(), FormatJSON)
	assert.ErrorContains(t, err, "read catalog")
}

func TestDefault(t *testing.T) {
	a := Default()
	b := Default()
	require.Equal(t, 10, a.Len())
	assert.Equal(t, a.Names(), b.Names())
	assert.NotSame(t, a, b)
}
