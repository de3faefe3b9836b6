package catalog

import "strings"

// Category de la tienda.
// @Enum Clothes, Food, Accessories, Backgrounds
type Category string

const (
	CategoryClothes     Category = "Clothes"
	CategoryFood        Category = "Food"
	CategoryAccessories Category = "Accessories"
	CategoryBackgrounds Category = "Backgrounds"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryClothes, CategoryFood, CategoryAccessories, CategoryBackgrounds:
		return true
	}
	return false
}

// FoodEffect es el bonus que aplica un item de comida al pet.
type FoodEffect struct {
	Happiness  int `yaml:"happiness"`
	Experience int `yaml:"experience"`
}

type Item struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Category Category    `yaml:"category"`
	Price    int         `yaml:"price"`
	Rarity   string      `yaml:"rarity"`
	Feed     *FoodEffect `yaml:"feed,omitempty"`
}

func (i Item) IsFood() bool {
	return i.Category == CategoryFood && i.Feed != nil
}

// IsBackground: los fondos se reconocen por categoría o por el prefijo "bg-" que usa el cliente.
func (i Item) IsBackground() bool {
	return i.Category == CategoryBackgrounds || strings.HasPrefix(i.ID, "bg-")
}
