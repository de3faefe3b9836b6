package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrNotFound       = errors.New("catalog item not found")
)

// Catalog es inmutable después de Load; se puede compartir entre goroutines.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

type file struct {
	Items []Item `yaml:"items"`
}

// Default devuelve el catálogo embebido. Panic si el embebido es inválido (error de build).
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default invalid: %v", err))
	}
	return c
}

// Load lee el catálogo de path, o el embebido si path está vacío.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(bytes.NewReader(defaultCatalog))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Items)
}

// New valida ids únicos, precios >= 0, categoría conocida y que la comida tenga feed.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		byID:  make(map[string]Item, len(items)),
	}

	for _, it := range items {
		it.ID = strings.TrimSpace(it.ID)
		it.Name = strings.TrimSpace(it.Name)

		if it.ID == "" || it.Name == "" {
			return nil, fmt.Errorf("%w: item id and name required", ErrInvalidCatalog)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, it.ID)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: item %q has negative price", ErrInvalidCatalog, it.ID)
		}
		if !it.Category.Valid() {
			return nil, fmt.Errorf("%w: item %q has unknown category %q", ErrInvalidCatalog, it.ID, it.Category)
		}
		if it.Category == CategoryFood && it.Feed == nil {
			return nil, fmt.Errorf("%w: food item %q needs a feed effect", ErrInvalidCatalog, it.ID)
		}
		if it.Feed != nil && (it.Feed.Happiness < 0 || it.Feed.Experience < 0) {
			return nil, fmt.Errorf("%w: item %q has negative feed effect", ErrInvalidCatalog, it.ID)
		}

		c.byID[it.ID] = it
		c.items = append(c.items, it)
	}

	return c, nil
}

func (c *Catalog) Get(id string) (Item, error) {
	it, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

// List devuelve los items en el orden del archivo; category vacío = todos.
func (c *Catalog) List(category Category) []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FoodEffect implementa el lookup que usa pets al alimentar.
func (c *Catalog) FoodEffect(itemID string) (FoodEffect, bool) {
	it, err := c.Get(itemID)
	if err != nil || !it.IsFood() {
		return FoodEffect{}, false
	}
	return *it.Feed, true
}
