package menu

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Meal is one of the three daily service periods
type Meal int

const (
	Breakfast Meal = iota
	Lunch
	Dinner
)

// Meals lists every meal in service order
var Meals = []Meal{Breakfast, Lunch, Dinner}

var mealLabels = map[Meal]string{
	Breakfast: "Desjejum",
	Lunch:     "Almoço",
	Dinner:    "Jantar",
}

// Label returns the label used on the menu page
func (m Meal) Label() string {
	if label, ok := mealLabels[m]; ok {
		return label
	}
	return "?"
}

func (m Meal) String() string {
	return m.Label()
}

// Category is a food grouping within a meal. Its value is the lowercase label
// used on the menu page.
type Category string

const (
	CategoryMain          Category = "principal"
	CategoryVegetarian    Category = "vegetariano"
	CategorySalad         Category = "salada"
	CategorySide          Category = "guarnição"
	CategoryAccompaniment Category = "acompanhamento"
	CategoryJuice         Category = "suco"
	CategoryDessert       Category = "sobremesa"
	CategoryFruit         Category = "frutas"
	CategoryBeverage      Category = "bebidas"
	CategoryBread         Category = "pães"
	CategorySpecial       Category = "especial"
)

var categories = map[string]Category{}

func init() {
	for _, c := range []Category{
		CategoryMain, CategoryVegetarian, CategorySalad, CategorySide,
		CategoryAccompaniment, CategoryJuice, CategoryDessert, CategoryFruit,
		CategoryBeverage, CategoryBread, CategorySpecial,
	} {
		categories[string(c)] = c
	}
}

// Label returns the category label as rendered in a section header
func (c Category) Label() string {
	return strings.ToUpper(string(c))
}

// ParseMeal resolves a user-supplied meal name. Matching ignores case and
// diacritics, so "ALMOCO", "almoço" and "Almoço" all resolve to Lunch.
func ParseMeal(name string) (Meal, bool) {
	key := fold(name)
	for _, m := range Meals {
		if fold(m.Label()) == key {
			return m, true
		}
	}
	return 0, false
}

// fold lowercases s and removes combining marks. Chained transformers keep
// internal buffers, so one is built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return folded
}
