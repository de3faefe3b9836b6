package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasOriginalShop(t *testing.T) {
	c := Default()

	assert.Len(t, c.List(""), 8)
	assert.Len(t, c.List(CategoryFood), 2)
	assert.Len(t, c.List(CategoryBackgrounds), 2)

	forest, err := c.Get("bg-forest")
	require.NoError(t, err)
	assert.Equal(t, 300, forest.Price)
	assert.True(t, forest.IsBackground())
	assert.False(t, forest.IsFood())
}

func TestFoodEffect(t *testing.T) {
	c := Default()

	eff, ok := c.FoodEffect("food-1")
	require.True(t, ok)
	assert.Equal(t, FoodEffect{Happiness: 10, Experience: 5}, eff)

	_, ok = c.FoodEffect("hat-1")
	assert.False(t, ok, "ropa no es comida")

	_, ok = c.FoodEffect("missing")
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
items:
  - {id: a, name: A, category: Clothes, price: 1}
  - {id: a, name: B, category: Clothes, price: 1}
`,
		"negative price": `
items:
  - {id: a, name: A, category: Clothes, price: -1}
`,
		"unknown category": `
items:
  - {id: a, name: A, category: Weapons, price: 1}
`,
		"food without feed": `
items:
  - {id: f, name: F, category: Food, price: 1}
`,
		"unknown field": `
items:
  - {id: a, name: A, category: Clothes, price: 1, color: red}
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
items:
  - id: food-fish
    name: Fish
    category: Food
    price: 40
    feed: {happiness: 25, experience: 0}
`), 0o600))

	c, err := Load(p)
	require.NoError(t, err)

	eff, ok := c.FoodEffect("food-fish")
	require.True(t, ok)
	assert.Equal(t, 25, eff.Happiness)
}
